package workflow

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gtInput(worker, day, project string, hours float64) GroundTruthInput {
	workDate, _ := time.Parse("2006-01-02", day)
	return GroundTruthInput{
		Worker:   worker,
		WorkDate: workDate,
		Project:  project,
		Hours:    decimal.NewFromFloat(hours),
	}
}

func TestSaveGroundTruth_ReplacesEntireSet(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)

	saved, err := SaveGroundTruth(ctx, "D1", []GroundTruthInput{
		gtInput("W1", "2025-01-05", "GOOD", 8),
		gtInput("W1", "2025-01-06", "GOOD", 4),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	saved, err = SaveGroundTruth(ctx, "D1", []GroundTruthInput{
		gtInput("W1", "2025-01-07", "GOOD", 6),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	rows, err := ListGroundTruth(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-01-07", rows[0].WorkDate.Format("2006-01-02"))
	assert.True(t, rows[0].Hours.Equal(decimal.NewFromInt(6)))
}

func TestSaveGroundTruth_EmptySetClearsDocument(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)

	_, err := SaveGroundTruth(ctx, "D1", []GroundTruthInput{
		gtInput("W1", "2025-01-05", "GOOD", 8),
	})
	require.NoError(t, err)

	saved, err := SaveGroundTruth(ctx, "D1", nil)
	require.NoError(t, err)
	assert.Zero(t, saved)

	rows, err := ListGroundTruth(ctx, "D1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSaveGroundTruth_DropsBlankProjectAndZeroHours(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)

	saved, err := SaveGroundTruth(ctx, "D1", []GroundTruthInput{
		gtInput("W1", "2025-01-05", "GOOD", 8),
		gtInput("W1", "2025-01-06", "  ", 4),
		gtInput("W1", "2025-01-07", "GOOD", 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestSaveGroundTruth_RejectsNegativeHours(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateDocument(t, "D1", models.DocumentTypeTimesheet)

	_, err := SaveGroundTruth(ctx, "D1", []GroundTruthInput{
		gtInput("W1", "2025-01-05", "GOOD", -1),
	})
	require.ErrorIs(t, err, utils.ErrValidation)

	// Nothing was written.
	rows, err := ListGroundTruth(ctx, "D1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSaveGroundTruth_UnknownDocument(t *testing.T) {
	setupTestDB(t)
	_, err := SaveGroundTruth(context.Background(), "NOPE", nil)
	require.ErrorIs(t, err, utils.ErrNotFound)
}
