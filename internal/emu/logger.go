package emu

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger with plain, unquoted text output at the
// named level.
func NewLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("emu: %w", err)
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l, nil
}
