// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package hybrid

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/core"
	"github.com/poiesic/healthmate/dates"
	"github.com/poiesic/healthmate/index"
	"github.com/poiesic/healthmate/storage"
)

// defaultRetrievalK is how many knowledge documents a search pulls in.
const defaultRetrievalK = 3

// Context is the assembled retrieval context for one question: the
// classification decision, whatever personal records it called for, and the
// knowledge documents the index returned.
type Context struct {
	Question string
	Intent   core.Intent
	Required core.RequiredData

	// Personal holds the fetched record categories. Slices are nil for
	// categories the classification did not request.
	Personal core.PersonalData

	// Knowledge holds the retrieved documents, best first. Empty for
	// PERSONAL questions and on retrieval failure.
	Knowledge []core.RetrievalResult

	// ThresholdMet is false when a relevance threshold was configured and no
	// retrieved document passed it, in which case Knowledge holds the plain
	// top-k so the caller can still see the nearest matches.
	ThresholdMet bool

	// KnowledgeDegraded is true when knowledge retrieval was attempted but
	// failed (embedding or search error), so an empty Knowledge slice can be
	// told apart from a genuinely empty search result.
	KnowledgeDegraded bool

	// EnrichedQuery is the personal-data-enriched query HYBRID retrieval
	// actually searched with. Empty for other intents.
	EnrichedQuery string

	CurrentDate string
	CurrentTime string
}

// Builder assembles hybrid contexts from the record store and the document index.
type Builder struct {
	records      storage.HealthRecordRepository
	index        *index.Index
	embedder     ai.Embedder
	classifier   ai.QueryClassifier
	logger       *slog.Logger
	now          func() time.Time
	retrievalK   int
	threshold    float32
	useThreshold bool
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithClock sets the time source used for context timestamps and the
// relative-date reference day. Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) error {
		if now != nil {
			b.now = now
		}
		return nil
	}
}

// WithRetrievalK sets how many knowledge documents to retrieve per search.
// Default is 3.
func WithRetrievalK(k int) Option {
	return func(b *Builder) error {
		if k > 0 {
			b.retrievalK = k
		}
		return nil
	}
}

// WithScoreThreshold enables relevance filtering of retrieved documents.
// Documents below the threshold are dropped; when none pass, the plain top-k
// is kept and Context.ThresholdMet reports false.
func WithScoreThreshold(threshold float32) Option {
	return func(b *Builder) error {
		b.threshold = threshold
		b.useThreshold = true
		return nil
	}
}

// NewBuilder creates a new context builder.
func NewBuilder(
	records storage.HealthRecordRepository,
	idx *index.Index,
	provider ai.AIProvider,
	opts ...Option,
) (*Builder, error) {
	if records == nil {
		return nil, ErrRepositoryRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	b := &Builder{
		records:    records,
		index:      idx,
		embedder:   provider.Embedder(),
		classifier: provider.Classifier(),
		logger:     slog.Default(),
		now:        time.Now,
		retrievalK: defaultRetrievalK,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// BuildContext classifies the question and assembles its retrieval context.
func (b *Builder) BuildContext(ctx context.Context, userID, question string) (*Context, error) {
	return b.BuildContextWithMonitor(ctx, userID, question, nil)
}

// BuildContextWithMonitor assembles the context with monitoring.
// The monitor receives callbacks at each stage of assembly.
//
// Individual retrieval failures never abort the build: a failed record fetch
// drops that category, a failed knowledge search leaves Knowledge empty, and
// the context carries whatever was retrieved. Only classification errors
// (context cancellation) propagate.
func (b *Builder) BuildContextWithMonitor(ctx context.Context, userID, question string, monitor BuildMonitor) (*Context, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question)

	classification, err := b.classifier.Classify(ctx, question)
	if err != nil {
		return nil, err
	}
	monitor.AfterClassification(classification)

	now := b.now()
	hctx := &Context{
		Question:     question,
		Intent:       classification.Intent,
		Required:     classification.Required,
		Knowledge:    []core.RetrievalResult{},
		ThresholdMet: true,
		CurrentDate:  now.Format(time.DateOnly),
		CurrentTime:  now.Format("15:04"),
	}

	switch classification.Intent {
	case core.IntentPersonal:
		hctx.Personal = b.fetchPersonalData(ctx, userID, question, classification.Required, monitor)

	case core.IntentGeneric:
		hctx.Knowledge, hctx.ThresholdMet, hctx.KnowledgeDegraded = b.retrieveKnowledge(ctx, question)
		monitor.AfterKnowledgeRetrieval(hctx.Knowledge, hctx.ThresholdMet)

	case core.IntentHybrid:
		hctx.Personal = b.fetchPersonalData(ctx, userID, question, classification.Required, monitor)

		enriched := enrichQuery(question, &hctx.Personal)
		hctx.EnrichedQuery = enriched
		if enriched != question {
			b.logger.Debug("query enriched with personal data", "enriched", enriched)
		}
		monitor.AfterQueryEnrichment(enriched)

		hctx.Knowledge, hctx.ThresholdMet, hctx.KnowledgeDegraded = b.retrieveKnowledge(ctx, enriched)
		monitor.AfterKnowledgeRetrieval(hctx.Knowledge, hctx.ThresholdMet)
	}

	monitor.Finish(hctx)
	return hctx, nil
}

// fetchPersonalData pulls the requested record categories. The user record
// is always fetched; an under-specified request (no categories flagged)
// falls back to fetching everything, since a too-large context beats a
// wrong answer. Every fetch failure is isolated to its own category.
func (b *Builder) fetchPersonalData(ctx context.Context, userID, question string, required core.RequiredData, monitor BuildMonitor) core.PersonalData {
	var data core.PersonalData

	user, err := b.records.GetUser(ctx, userID)
	if err != nil {
		b.logger.Warn("failed to fetch user record", "userID", userID, "err", err)
	} else {
		data.User = user
	}

	if !required.Any() {
		b.logger.Warn("classification flagged no data categories, fetching everything")
		required = core.AllRequiredData()
	}

	dateFilter := dates.ParseRelative(question, b.now())
	monitor.AfterDateParse(dateFilter)

	if required.Appointments {
		appointments, err := b.records.GetAppointments(ctx, userID, dateFilter)
		if err != nil {
			b.logger.Warn("failed to fetch appointments", "userID", userID, "err", err)
		} else {
			data.Appointments = appointments
		}
	}
	if required.Medications {
		medications, err := b.records.GetMedications(ctx, userID)
		if err != nil {
			b.logger.Warn("failed to fetch medications", "userID", userID, "err", err)
		} else {
			data.Medications = medications
		}
	}
	if required.Conditions {
		conditions, err := b.records.GetConditions(ctx, userID)
		if err != nil {
			b.logger.Warn("failed to fetch conditions", "userID", userID, "err", err)
		} else {
			data.Conditions = conditions
		}
	}
	if required.TestResults {
		testResults, err := b.records.GetTestResults(ctx, userID)
		if err != nil {
			b.logger.Warn("failed to fetch test results", "userID", userID, "err", err)
		} else {
			data.TestResults = testResults
		}
	}

	monitor.AfterPersonalData(&data)
	return data
}

// retrieveKnowledge embeds the query and searches the document index.
// Failures degrade to an empty result set, flagged as degraded so callers
// can tell a broken retrieval from an empty corpus.
func (b *Builder) retrieveKnowledge(ctx context.Context, query string) (results []core.RetrievalResult, thresholdMet, degraded bool) {
	empty := []core.RetrievalResult{}

	vector, err := b.embedder.EmbedText(ctx, query)
	if err != nil {
		b.logger.Warn("failed to embed query", "err", err)
		return empty, true, true
	}
	if len(vector) == 0 {
		b.logger.Warn("embedder returned empty vector")
		return empty, true, true
	}

	if b.useThreshold {
		results, met, err := b.index.SearchWithThreshold(vector, b.retrievalK, b.threshold)
		if err != nil {
			b.logger.Warn("knowledge search failed", "err", err)
			return empty, true, true
		}
		return results, met, false
	}

	results, err = b.index.Search(vector, b.retrievalK)
	if err != nil {
		b.logger.Warn("knowledge search failed", "err", err)
		return empty, true, true
	}
	return results, true, false
}

// enrichQuery appends the user's medications, conditions, and abnormal test
// results to a HYBRID question so knowledge retrieval searches for documents
// relevant to this user's situation, not just the literal question.
func enrichQuery(question string, data *core.PersonalData) string {
	var sb strings.Builder
	sb.WriteString(question)

	if len(data.Medications) > 0 {
		names := make([]string, 0, len(data.Medications))
		for _, med := range data.Medications {
			names = append(names, med.Name)
		}
		sb.WriteString(" (Current medications: " + strings.Join(names, ", ") + ")")
	}

	if len(data.Conditions) > 0 {
		names := make([]string, 0, len(data.Conditions))
		for _, cond := range data.Conditions {
			names = append(names, cond.Name)
		}
		sb.WriteString(" (Health conditions: " + strings.Join(names, ", ") + ")")
	}

	if len(data.TestResults) > 0 {
		var abnormal []string
		for _, tr := range data.TestResults {
			if tr.Status.IsAbnormal() {
				abnormal = append(abnormal, tr.TestName+": "+tr.Result)
			}
		}
		// More than two abnormal results would drown the question itself.
		if len(abnormal) > 0 && len(abnormal) <= 2 {
			sb.WriteString(" (Recent test results: " + strings.Join(abnormal, ", ") + ")")
		}
	}

	return sb.String()
}
