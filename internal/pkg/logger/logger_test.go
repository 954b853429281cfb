package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/arena/internal/pkg/logger"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: "JSON", Output: &buf})

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("battle_id", "b1").Info("battle created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "b1", entry["battle_id"])
	assert.Equal(t, "battle created", entry["msg"])
}

func TestNewDefaults(t *testing.T) {
	log := logger.New(logger.Config{Level: "loud"})

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, isText := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	assert.NotPanics(t, func() { log.Info("dropped") })
}
