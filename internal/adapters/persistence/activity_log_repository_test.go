package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/test/helpers"
)

func TestActivityLogRepository_SuppressesRepeatsWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(100)
	repo := persistence.NewGormActivityLogRepository(db, clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, "s1", "w1", "Tending crops", common.LevelInfo, nil))
	clock.Advance(5)
	require.NoError(t, repo.Log(ctx, "s1", "w1", "Tending crops", common.LevelInfo, nil))
	require.NoError(t, repo.Log(ctx, "s1", "w2", "Tending crops", common.LevelInfo, nil))
	clock.Advance(5)
	require.NoError(t, repo.Log(ctx, "s1", "w1", "Tending crops", common.LevelInfo, nil))

	// Assert
	logs, err := repo.GetLogs(ctx, "s1", "", 0, nil, nil)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "w1", logs[0].WorkerID)
	assert.Equal(t, shared.MarsTime(110), logs[0].MarsTime)
	assert.Equal(t, "w2", logs[1].WorkerID)
	assert.Equal(t, shared.MarsTime(105), logs[1].MarsTime)
	assert.Equal(t, shared.MarsTime(100), logs[2].MarsTime)
}

func TestActivityLogRepository_ZeroWindowKeepsEverything(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormActivityLogRepository(db, shared.NewMockClock(0))
	repo.SetDedupWindow(0)
	ctx := context.Background()

	// Act
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Log(ctx, "s1", "w1", "Cleaning", common.LevelInfo, nil))
	}

	// Assert
	logs, err := repo.GetLogs(ctx, "s1", "w1", 0, nil, nil)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestActivityLogRepository_GetLogsFilters(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(0)
	repo := persistence.NewGormActivityLogRepository(db, clock)
	ctx := context.Background()
	require.NoError(t, repo.Log(ctx, "s1", "w1", "early", common.LevelInfo, nil))
	clock.Advance(50)
	require.NoError(t, repo.Log(ctx, "s1", "w1", "accident", common.LevelWarning, map[string]interface{}{"building": "lab"}))
	require.NoError(t, repo.Log(ctx, "s1", "w2", "late", common.LevelInfo, nil))
	require.NoError(t, repo.Log(ctx, "s2", "w9", "elsewhere", common.LevelInfo, nil))
	warning := common.LevelWarning
	since := shared.MarsTime(10)

	// Act
	byLevel, err := repo.GetLogs(ctx, "s1", "", 0, &warning, nil)
	require.NoError(t, err)
	bySince, err := repo.GetLogs(ctx, "s1", "", 0, nil, &since)
	require.NoError(t, err)
	limited, err := repo.GetLogs(ctx, "s1", "", 1, nil, nil)
	require.NoError(t, err)

	// Assert
	require.Len(t, byLevel, 1)
	assert.Equal(t, "accident", byLevel[0].Message)
	assert.Equal(t, "lab", byLevel[0].Metadata["building"])
	assert.Len(t, bySince, 2)
	require.Len(t, limited, 1)
	assert.Equal(t, "late", limited[0].Message)
}

func TestWorkerLogger_ReadsWorkerFromMetadata(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormActivityLogRepository(db, shared.NewMockClock(0))
	logger := persistence.NewSettlementLogger(repo, "s1")

	// Act
	logger.Log(common.LevelInfo, "Started Cook", map[string]interface{}{"worker": "w3"})
	persistence.NewWorkerLogger(repo, "s1", "w4").Log(common.LevelInfo, "Started Observe", nil)

	// Assert
	w3, err := repo.GetLogs(context.Background(), "s1", "w3", 0, nil, nil)
	require.NoError(t, err)
	require.Len(t, w3, 1)
	assert.Equal(t, "Started Cook", w3[0].Message)
	w4, err := repo.GetLogs(context.Background(), "s1", "w4", 0, nil, nil)
	require.NoError(t, err)
	assert.Len(t, w4, 1)
}
