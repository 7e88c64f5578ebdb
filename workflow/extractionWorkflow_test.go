package workflow

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	lines []RawExtractedLine
	err   error
}

func (f *fakeFeed) ExtractLines(_ context.Context, _ string, _ models.DocumentType, _ string) ([]RawExtractedLine, error) {
	return f.lines, f.err
}

func TestImportExtraction_StoresFeedOutput(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	conf := 0.9
	feed := &fakeFeed{lines: []RawExtractedLine{
		{Worker: "W1", WorkDate: "2025-01-06", Project: "GOOD", Hours: 8, Confidence: &conf, RawSnippet: "W1 | GOOD | 8h"},
		{Worker: "W1", WorkDate: "2025-01-07", Project: "GOOD", Hours: 4},
	}}

	imported, err := ImportExtraction(ctx, feed, "D1")
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	lines, err := models.ListExtractedLines(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "W1", lines[0].Worker)
	assert.True(t, lines[0].Hours.Equal(decimal.NewFromInt(8)))
	require.NotNil(t, lines[0].Confidence)
	assert.InDelta(t, 0.9, *lines[0].Confidence, 1e-9)
	assert.Nil(t, lines[1].Confidence)
}

func TestImportExtraction_ReplacesPriorLines(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	mustAddLine(t, "D1", "OLD", "2025-01-05", "OLD", 8)

	feed := &fakeFeed{lines: []RawExtractedLine{
		{Worker: "W1", WorkDate: "2025-01-06", Project: "GOOD", Hours: 8},
	}}
	imported, err := ImportExtraction(ctx, feed, "D1")
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	lines, err := models.ListExtractedLines(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "W1", lines[0].Worker)
}

func TestImportExtraction_FeedFailureKeepsPriorLines(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)

	feed := &fakeFeed{err: errors.New("service unavailable")}
	_, err := ImportExtraction(ctx, feed, "D1")
	require.ErrorIs(t, err, utils.ErrUpstream)

	lines, err := models.ListExtractedLines(ctx, "D1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestImportExtraction_MalformedDateKeepsPriorLines(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)

	feed := &fakeFeed{lines: []RawExtractedLine{
		{Worker: "W1", WorkDate: "Jan 6th", Project: "GOOD", Hours: 8},
	}}
	_, err := ImportExtraction(ctx, feed, "D1")
	require.ErrorIs(t, err, utils.ErrUpstream)

	lines, err := models.ListExtractedLines(ctx, "D1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, "2025-01-05", lines[0].WorkDate.Format("2006-01-02"))
}

func TestImportExtraction_RejectsOutOfRangeValues(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)

	feed := &fakeFeed{lines: []RawExtractedLine{
		{Worker: "W1", WorkDate: "2025-01-06", Project: "GOOD", Hours: -2},
	}}
	_, err := ImportExtraction(ctx, feed, "D1")
	require.ErrorIs(t, err, utils.ErrUpstream)

	bad := 1.5
	feed = &fakeFeed{lines: []RawExtractedLine{
		{Worker: "W1", WorkDate: "2025-01-06", Project: "GOOD", Hours: 8, Confidence: &bad},
	}}
	_, err = ImportExtraction(ctx, feed, "D1")
	require.ErrorIs(t, err, utils.ErrUpstream)
}

func TestImportExtraction_UnknownDocument(t *testing.T) {
	setupTestDB(t)
	_, err := ImportExtraction(context.Background(), &fakeFeed{}, "NOPE")
	require.ErrorIs(t, err, utils.ErrNotFound)
}
