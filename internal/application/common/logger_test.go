package common_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
)

func TestStdLogger_TextFormat(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := common.NewStdLogger("Engine", "info", "text", log.New(&buf, "", 0))

	// Act
	logger.Log("INFO", "tick processed", map[string]interface{}{"day": 3, "speed": 2.0})

	// Assert
	assert.Equal(t, "[Engine] INFO tick processed day=3 speed=2\n", buf.String())
}

func TestStdLogger_FiltersBelowMinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewStdLogger("Engine", "warn", "text", log.New(&buf, "", 0))

	logger.Log("DEBUG", "noise", nil)
	logger.Log("INFO", "noise", nil)
	logger.Log("WARNING", "kept", nil)
	logger.Log("ERROR", "kept", nil)

	assert.Equal(t, 2, strings.Count(buf.String(), "kept"))
	assert.NotContains(t, buf.String(), "noise")
}

func TestStdLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewStdLogger("TickManager", "debug", "json", log.New(&buf, "", 0))

	logger.Log("ERROR", "processor failed", map[string]interface{}{"processor": "finance"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "TickManager", entry["component"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "processor failed", entry["message"])
	assert.Equal(t, "finance", entry["processor"])
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewStdLogger("Ctx", "info", "text", log.New(&buf, "", 0))

	ctx := common.WithLogger(context.Background(), logger)
	common.LoggerFromContext(ctx).Log("INFO", "hello", nil)
	common.LoggerFromContext(context.Background()).Log("INFO", "dropped", nil)

	assert.Equal(t, "[Ctx] INFO hello\n", buf.String())
}
