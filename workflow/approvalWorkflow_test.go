package workflow

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_UpsertsLatestDecision(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	line := mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)

	_, err := Decide(ctx, line.ID, DecideInput{Decision: models.DecisionApproved})
	require.NoError(t, err)
	_, err = Decide(ctx, line.ID, DecideInput{Decision: models.DecisionRejected})
	require.NoError(t, err)

	var decisions []models.ApprovalDecision
	require.NoError(t, config.GetDB().Find(&decisions).Error)
	require.Len(t, decisions, 1)
	assert.Equal(t, models.DecisionRejected, decisions[0].Decision)
}

func TestDecide_UnknownLine(t *testing.T) {
	setupTestDB(t)
	_, err := Decide(context.Background(), 999, DecideInput{Decision: models.DecisionApproved})
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDecide_RejectsUnknownDecision(t *testing.T) {
	setupTestDB(t)
	_, err := Decide(context.Background(), 1, DecideInput{Decision: "MAYBE"})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestDecide_RejectsNegativeCorrectedHours(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	line := mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)

	neg := decimal.NewFromInt(-1)
	_, err := Decide(ctx, line.ID, DecideInput{
		Decision:       models.DecisionCorrected,
		CorrectedHours: &neg,
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestApproveAll_FillsGapsOnly(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	rejected := mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)
	corrected := mustAddLine(t, "D1", "W1", "2025-01-06", "GOOD", 4)
	mustAddLine(t, "D1", "W1", "2025-01-07", "GOOD", 6)

	_, err := Decide(ctx, rejected.ID, DecideInput{Decision: models.DecisionRejected})
	require.NoError(t, err)
	six := decimal.NewFromInt(6)
	_, err = Decide(ctx, corrected.ID, DecideInput{
		Decision:       models.DecisionCorrected,
		CorrectedHours: &six,
	})
	require.NoError(t, err)

	approved, err := ApproveAll(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, 1, approved)

	// Fresh destination per lookup: a reused struct would carry the first
	// row's primary key into the second query as a condition.
	var rejectedRow models.ApprovalDecision
	require.NoError(t, config.GetDB().First(&rejectedRow, "line_id = ?", rejected.ID).Error)
	assert.Equal(t, models.DecisionRejected, rejectedRow.Decision)
	var correctedRow models.ApprovalDecision
	require.NoError(t, config.GetDB().First(&correctedRow, "line_id = ?", corrected.ID).Error)
	assert.Equal(t, models.DecisionCorrected, correctedRow.Decision)
}

func TestApproveAll_UnknownDocument(t *testing.T) {
	setupTestDB(t)
	_, err := ApproveAll(context.Background(), "NOPE")
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestClearAll_RemovesEveryDecision(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)
	mustAddLine(t, "D1", "W1", "2025-01-06", "GOOD", 4)

	_, err := ApproveAll(ctx, "D1")
	require.NoError(t, err)

	cleared, err := ClearAll(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	var count int64
	require.NoError(t, config.GetDB().Model(&models.ApprovalDecision{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTrustedLedger_AppliesCorrections(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	approved := mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)
	corrected := mustAddLine(t, "D1", "W1", "2025-01-06", "G00D", 4)
	rejected := mustAddLine(t, "D1", "W1", "2025-01-07", "GOOD", 2)

	_, err := Decide(ctx, approved.ID, DecideInput{Decision: models.DecisionApproved})
	require.NoError(t, err)

	six := decimal.NewFromInt(6)
	day := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	project := "GOOD"
	_, err = Decide(ctx, corrected.ID, DecideInput{
		Decision:         models.DecisionCorrected,
		CorrectedHours:   &six,
		CorrectedDate:    &day,
		CorrectedProject: &project,
	})
	require.NoError(t, err)

	_, err = Decide(ctx, rejected.ID, DecideInput{Decision: models.DecisionRejected})
	require.NoError(t, err)

	entries, err := TrustedLedger(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, approved.ID, entries[0].LineID)
	assert.True(t, entries[0].Hours.Equal(decimal.NewFromInt(8)))

	assert.Equal(t, corrected.ID, entries[1].LineID)
	assert.True(t, entries[1].Hours.Equal(six))
	assert.Equal(t, day, entries[1].WorkDate.UTC())
	assert.Equal(t, "GOOD", entries[1].Project)
}

func TestTrustedLedger_CorrectionWithoutOverridesKeepsExtractedValues(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	line := mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)

	_, err := Decide(ctx, line.ID, DecideInput{Decision: models.DecisionCorrected})
	require.NoError(t, err)

	entries, err := TrustedLedger(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Hours.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "GOOD", entries[0].Project)
}

func TestTrustedLedger_EmptyWhenNothingDecided(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)
	mustAddLine(t, "D1", "W1", "2025-01-05", "GOOD", 8)

	entries, err := TrustedLedger(ctx, "D1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
