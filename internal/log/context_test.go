// SPDX-License-Identifier: MIT
package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestContextWithRunID(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		runID string
		want  string
	}{
		{
			name:  "nil context",
			ctx:   nil,
			runID: "run-123",
			want:  "run-123",
		},
		{
			name:  "background context",
			ctx:   context.Background(),
			runID: "run-456",
			want:  "run-456",
		},
		{
			name:  "empty run ID",
			ctx:   context.Background(),
			runID: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRunID(tt.ctx, tt.runID)
			if got := RunIDFromContext(ctx); got != tt.want {
				t.Errorf("RunIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunIDFromContextEmpty(t *testing.T) {
	if got := RunIDFromContext(nil); got != "" {
		t.Errorf("expected empty run id for nil context, got %q", got)
	}
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty run id, got %q", got)
	}
}

func TestWithComponentFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug", Service: "test-svc", Version: "v0"})
	t.Cleanup(func() { Configure(Config{}) })

	ctx := ContextWithRunID(context.Background(), "abc")
	l := WithComponentFromContext(ctx, "jobs")
	l.Info().Str(FieldEvent, "sync.start").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	want := map[string]string{
		FieldService:   "test-svc",
		FieldVersion:   "v0",
		FieldComponent: "jobs",
		FieldRunID:     "abc",
		FieldEvent:     "sync.start",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("field %s = %v, want %s", k, entry[k], v)
		}
	}
}

func TestFromContextFallsBackToBase(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := FromContext(ContextWithRunID(context.Background(), "r1"))
	l.Info().Msg("x")
	if !bytes.Contains(buf.Bytes(), []byte(`"run_id":"r1"`)) {
		t.Fatalf("expected run id in output, got %s", buf.String())
	}
}

func TestConfigureConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Format: "console"})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Info().Msg("human readable")
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Fatalf("console format should not emit JSON: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("human readable")) {
		t.Fatalf("message missing from console output: %s", buf.String())
	}
}
