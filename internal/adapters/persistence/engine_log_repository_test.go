package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/adapters/persistence"
	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/test/helpers"
)

func TestEngineLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormEngineLogRepository(db, clock, time.Minute)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, "engine", "Tick failed", "ERROR", nil))
	clock.Advance(30 * time.Second)
	require.NoError(t, repo.Log(ctx, "engine", "Tick failed", "ERROR", nil))
	require.NoError(t, repo.Log(ctx, "tick", "Tick failed", "ERROR", nil))
	clock.Advance(31 * time.Second)
	require.NoError(t, repo.Log(ctx, "engine", "Tick failed", "ERROR", map[string]interface{}{"day": 3}))

	// Assert
	engineLogs, err := repo.GetLogs(ctx, "engine", 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, engineLogs, 2)
	assert.Equal(t, float64(3), engineLogs[0].Metadata["day"])

	all, err := repo.GetLogs(ctx, "", 10, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestEngineLogRepository_LevelFilter(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEngineLogRepository(db, nil, 0)
	ctx := context.Background()
	require.NoError(t, repo.Log(ctx, "engine", "started", "INFO", nil))
	require.NoError(t, repo.Log(ctx, "engine", "slow tick", "WARNING", nil))

	level := "WARNING"
	logs, err := repo.GetLogs(ctx, "engine", 10, &level, nil)

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "slow tick", logs[0].Message)
}

type countingLogger struct {
	entries []string
}

func (l *countingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.entries = append(l.entries, level+" "+message)
}

func TestDatabaseLogger_ForwardsAndPersistsNonDebug(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEngineLogRepository(db, nil, time.Minute)
	console := &countingLogger{}
	logger := persistence.NewDatabaseLogger("engine", console, repo)

	// Act
	logger.Log(common.LevelDebug, "tick 1", nil)
	logger.Log(common.LevelInfo, "Simulation started", nil)
	logger.WithComponent("finance", nil).Log("warn", "Runway below two weeks", nil)

	// Assert
	assert.Len(t, console.entries, 3)
	logs, err := repo.GetLogs(context.Background(), "", 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	components := []string{logs[0].Component, logs[1].Component}
	assert.ElementsMatch(t, []string{"engine", "finance"}, components)
}

func TestEngineLogRepository_RecentLogsNormalizesLevel(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormEngineLogRepository(db, clock, time.Minute)
	ctx := context.Background()
	require.NoError(t, repo.Log(ctx, "finance", "Runway below two weeks", common.LevelWarning, nil))
	clock.Advance(time.Hour)
	require.NoError(t, repo.Log(ctx, "finance", "Month closed", common.LevelInfo, nil))

	// Act
	warnings, err := repo.RecentLogs(ctx, common.LogFilter{Level: "warn"})
	require.NoError(t, err)
	recent, err := repo.RecentLogs(ctx, common.LogFilter{Since: clock.Now().Add(-time.Minute)})

	// Assert
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Runway below two weeks", warnings[0].Message)
	require.Len(t, recent, 1)
	assert.Equal(t, "Month closed", recent[0].Message)
}
