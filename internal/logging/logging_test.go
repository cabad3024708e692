package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewParsesLevel(t *testing.T) {
	log := New("debug", "text")
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	log := New("not-a-level", "text")
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info fallback", log.GetLevel())
	}
}

func TestNewJSONFormatter(t *testing.T) {
	log := New("info", "json")
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want *logrus.JSONFormatter", log.Formatter)
	}
}

func TestNewTextFormatterIsDefault(t *testing.T) {
	log := New("info", "")
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("formatter = %T, want *logrus.TextFormatter", log.Formatter)
	}
}

func TestNewFormatIsCaseInsensitive(t *testing.T) {
	log := New("info", "JSON")
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want *logrus.JSONFormatter for uppercase JSON", log.Formatter)
	}
}
