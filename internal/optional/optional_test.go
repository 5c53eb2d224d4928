package optional

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/launchsim/core/internal/eventsink"
)

func TestHeartbeatEmitsOneEventPerTick(t *testing.T) {
	var buf bytes.Buffer
	sink := eventsink.New(&buf, 16)
	defer sink.Close()

	h := NewPowerManagement(sink)
	for i := 0; i < 3; i++ {
		if err := h.Tick(); err != nil {
			t.Fatalf("Tick returned error: %v", err)
		}
	}

	deadline := time.Now().Add(time.Second)
	for strings.Count(buf.String(), "heartbeat") < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if entry["component"] != "PWR" {
		t.Errorf("expected component PWR, got %v", entry["component"])
	}
}

func TestHeartbeatToleratesNilSink(t *testing.T) {
	h := NewEnvironmentalMonitoring(nil)
	if err := h.Tick(); err != nil {
		t.Fatalf("expected no error with a nil sink, got %v", err)
	}
}
