package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, nil))), buf
}

func TestSlogLogger_Info(t *testing.T) {
	log, buf := newBufLogger()

	log.Info(context.Background(), "photo ingested", "album_id", "a1", "size", 2048)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "photo ingested" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["album_id"] != "a1" {
		t.Fatalf("album_id = %v", entry["album_id"])
	}
	if entry["level"] != "INFO" {
		t.Fatalf("level = %v", entry["level"])
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newBufLogger()

	child := log.With("module", "ingest")
	child.Error(context.Background(), "upload handoff failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["module"] != "ingest" {
		t.Fatalf("module = %v", entry["module"])
	}
	if entry["level"] != "ERROR" {
		t.Fatalf("level = %v", entry["level"])
	}
}
