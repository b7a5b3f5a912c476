package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestRecorder_FlushOutput(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rec := New("CoachLens")
	rec.Dimension("Operation", "feedback")
	rec.Metric("LatencyMs", 1234.5, UnitMilliseconds)
	rec.Metric("UploadBytes", 2048, UnitBytes)
	rec.Property("requestId", "abc-123")
	rec.Flush()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("failed to parse metrics output as JSON: %v\nOutput: %s", err, output)
	}

	if doc["Namespace"] != "CoachLens" {
		t.Errorf("expected namespace CoachLens, got %v", doc["Namespace"])
	}
	if _, ok := doc["Timestamp"]; !ok {
		t.Error("missing Timestamp in metrics output")
	}
	if doc["Operation"] != "feedback" {
		t.Errorf("expected Operation dimension, got %v", doc["Operation"])
	}
	if doc["LatencyMs"] != 1234.5 {
		t.Errorf("expected LatencyMs 1234.5, got %v", doc["LatencyMs"])
	}
	if doc["requestId"] != "abc-123" {
		t.Errorf("expected requestId property, got %v", doc["requestId"])
	}

	defs, ok := doc["Metrics"].([]interface{})
	if !ok || len(defs) != 2 {
		t.Fatalf("expected 2 metric definitions, got %v", doc["Metrics"])
	}
}

func TestRecorder_EmptyFlushEmitsNothing(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	New("CoachLens").Dimension("Operation", "noop").Flush()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if buf.Len() != 0 {
		t.Errorf("expected no output for a Recorder without metrics, got %q", buf.String())
	}
}
