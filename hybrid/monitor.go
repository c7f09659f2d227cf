package hybrid

import (
	"time"

	"github.com/poiesic/healthmate/core"
)

// BuildMonitor provides hooks to observe context assembly.
// Implementations can use these to trace how a question flowed through
// classification, record retrieval, and knowledge search.
type BuildMonitor interface {
	Start(question string)
	AfterClassification(c core.Classification)
	AfterDateParse(filter *time.Time)
	AfterPersonalData(data *core.PersonalData)
	AfterQueryEnrichment(enriched string)
	AfterKnowledgeRetrieval(results []core.RetrievalResult, thresholdMet bool)
	Finish(c *Context)
}

// noopMonitor is a no-op implementation of BuildMonitor
// used when no monitor is provided.
type noopMonitor struct{}

var _ BuildMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                         {}
func (n *noopMonitor) AfterClassification(_ core.Classification)              {}
func (n *noopMonitor) AfterDateParse(_ *time.Time)                            {}
func (n *noopMonitor) AfterPersonalData(_ *core.PersonalData)                 {}
func (n *noopMonitor) AfterQueryEnrichment(_ string)                          {}
func (n *noopMonitor) AfterKnowledgeRetrieval(_ []core.RetrievalResult, _ bool) {}
func (n *noopMonitor) Finish(_ *Context)                                      {}
