package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("search completed", Field{Key: "search_id", Value: "1234"})

	output := buf.String()

	if !strings.Contains(output, "search completed") {
		t.Errorf("expected message in log, got: %s", output)
	}
	if !strings.Contains(output, `"search_id":"1234"`) {
		t.Errorf("expected field search_id=1234, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected level=info, got: %s", output)
	}
	if !strings.Contains(output, `"env":"development"`) {
		t.Errorf("expected env field, got: %s", output)
	}
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("debug-test")

	output := buf.String()
	if !strings.Contains(output, "debug-test") {
		t.Errorf("expected debug log in development, got: %s", output)
	}
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("debug-hidden")

	output := buf.String()
	if output != "" {
		t.Errorf("expected NO debug log output in production, got: %s", output)
	}
}

func TestZeroLogger_WarnTypedFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Warn("offer skipped",
		Field{Key: "offer_id", Value: "off_1"},
		Field{Key: "segments", Value: 3},
		Field{Key: "direct", Value: false},
	)

	output := buf.String()

	if !strings.Contains(output, `"level":"warn"`) {
		t.Errorf("expected warn level, got: %s", output)
	}
	if !strings.Contains(output, `"segments":3`) {
		t.Errorf("expected int field, got: %s", output)
	}
	if !strings.Contains(output, `"direct":false`) {
		t.Errorf("expected bool field, got: %s", output)
	}
}

func TestZeroLogger_ErrorFieldKeepsMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Error("provider failed",
		Field{Key: "err", Value: errors.New("status 502")},
		Field{Key: "elapsed", Value: 1500 * time.Millisecond},
	)

	output := buf.String()

	if !strings.Contains(output, `"level":"error"`) {
		t.Errorf("expected error level, got: %s", output)
	}
	if !strings.Contains(output, `"err":"status 502"`) {
		t.Errorf("expected error text to be logged, got: %s", output)
	}
	if !strings.Contains(output, `"elapsed":1500`) {
		t.Errorf("expected duration in milliseconds, got: %s", output)
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	log := Nop()
	log.Error("nothing", Field{Key: "k", Value: "v"})
}
