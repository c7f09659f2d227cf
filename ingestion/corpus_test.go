package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCorpus(t *testing.T) {
	csvData := `question,answer,source,focus_area
What is diabetes?,A chronic metabolic disease.,NIH,endocrinology
What is asthma?,A chronic airway disease.,NIH,pulmonology
`
	docs, err := ReadCorpus(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "What is diabetes?", docs[0].Question)
	assert.Equal(t, "A chronic metabolic disease.", docs[0].Answer)
	assert.Equal(t, "NIH", docs[0].Source)
	assert.Equal(t, "endocrinology", docs[0].FocusArea)
	assert.Equal(t, "Question: What is diabetes?\nAnswer: A chronic metabolic disease.", docs[0].Text)
	assert.NotZero(t, docs[0].ID)
}

func TestReadCorpus_SkipsIncompleteRows(t *testing.T) {
	csvData := `question,answer
What is diabetes?,A chronic metabolic disease.
,missing question
What is asthma?,
`
	docs, err := ReadCorpus(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestReadCorpus_DeduplicatesByContent(t *testing.T) {
	csvData := `question,answer
What is diabetes?,A chronic metabolic disease.
What is diabetes?,A chronic metabolic disease.
`
	docs, err := ReadCorpus(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestReadCorpus_OptionalColumnsAbsent(t *testing.T) {
	csvData := `question,answer
What is diabetes?,A chronic metabolic disease.
`
	docs, err := ReadCorpus(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Source)
	assert.Empty(t, docs[0].FocusArea)
}

func TestReadCorpus_MissingRequiredColumns(t *testing.T) {
	csvData := `prompt,response
What is diabetes?,A chronic metabolic disease.
`
	_, err := ReadCorpus(strings.NewReader(csvData))
	assert.ErrorIs(t, err, ErrMissingColumns)
}
