package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l := newLogger()

	formatter, ok := l.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	entry := G(context.Background())
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLogger(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("component", "test")
	ctx := WithLogger(context.Background(), custom)

	entry := GetLogger(ctx)
	assert.Equal(t, custom.Logger, entry.Logger)
	assert.Equal(t, "test", entry.Data["component"])
}

func TestWithFields(t *testing.T) {
	ctx := WithFields(context.Background(), logrus.Fields{"run_id": "abc"})
	ctx = WithFields(ctx, logrus.Fields{"skill_dir": "/tmp/x"})

	entry := GetLogger(ctx)
	assert.Equal(t, "abc", entry.Data["run_id"])
	assert.Equal(t, "/tmp/x", entry.Data["skill_dir"])
}

func TestConfigure(t *testing.T) {
	original := L.Logger.GetLevel()
	originalFormatter := L.Logger.Formatter
	t.Cleanup(func() {
		L.Logger.SetLevel(original)
		L.Logger.Formatter = originalFormatter
		L.Logger.SetOutput(os.Stderr)
	})

	var buf bytes.Buffer
	SetOutput(&buf)

	require.NoError(t, Configure("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	L.WithField("rule", "tests-present").Debug("rule evaluated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rule evaluated", entry["message"])
	assert.Equal(t, "debug", entry["logLevel"])
	assert.Equal(t, "tests-present", entry["rule"])
	assert.Contains(t, entry, "timestamp")

	assert.Error(t, Configure("loud", "text"))
}
