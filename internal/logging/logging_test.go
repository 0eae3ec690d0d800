package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("run_id", "abc").Info("hello")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["run_id"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	logger := New("loud", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestObserver(t *testing.T) {
	logger, hook := test.NewNullLogger()
	obs := NewObserver(logrus.NewEntry(logger).WithField("run_id", "r1"))

	obs.Dropped("users", "clean email", "invalid email", 3)
	obs.Unresolved("cart user", 2)

	require.Len(t, hook.AllEntries(), 2)
	dropped := hook.AllEntries()[0]
	assert.Equal(t, logrus.WarnLevel, dropped.Level)
	assert.Equal(t, "users", dropped.Data["entity"])
	assert.Equal(t, "invalid email", dropped.Data["reason"])
	assert.Equal(t, 3, dropped.Data["count"])
	assert.Equal(t, "r1", dropped.Data["run_id"])

	last := hook.LastEntry()
	assert.Equal(t, "cart user", last.Data["join"])
	assert.Equal(t, 2, last.Data["count"])
}
