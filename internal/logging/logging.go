// Package logging builds the process logger and the observer that turns
// dropped and unmatched rows into warnings.
package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

func New(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Observer reports cleaning drops and unresolved joins at warning level.
type Observer struct {
	entry *logrus.Entry
}

func NewObserver(entry *logrus.Entry) *Observer {
	return &Observer{entry: entry}
}

func (o *Observer) Dropped(entity, step, reason string, count int) {
	o.entry.WithFields(logrus.Fields{
		"entity": entity,
		"step":   step,
		"reason": reason,
		"count":  count,
	}).Warn("rows dropped")
}

func (o *Observer) Unresolved(what string, count int) {
	o.entry.WithFields(logrus.Fields{
		"join":  what,
		"count": count,
	}).Warn("rows without a matching key")
}
