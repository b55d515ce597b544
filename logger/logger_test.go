package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "my-service")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "my-service" {
		t.Errorf("expected service 'my-service', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewWriter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug", "pipekit")
	l.Info("pipe finished", PipeFields("Tokenize", "call", "ctx-1"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "pipe finished" {
		t.Errorf("expected message, got %v", entry["message"])
	}
	if entry[FieldPipe] != "Tokenize" {
		t.Errorf("expected pipe=Tokenize, got %v", entry[FieldPipe])
	}
	if entry["service"] != "pipekit" {
		t.Errorf("expected service=pipekit, got %v", entry["service"])
	}
}

func TestNewWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn", "test")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info", "test")
	cl := l.WithComponent("runner")
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Info("hello")
	if !strings.Contains(buf.String(), `"component":"runner"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := NewDefault("test")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when no span is active")
	}
}

func TestWithContext_Span(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info", "test")

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.WithContext(ctx).Info("traced")
	if !strings.Contains(buf.String(), traceID.String()) {
		t.Errorf("expected trace id in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), spanID.String()) {
		t.Errorf("expected span id in output, got %q", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info", "test")
	l.WithFields(map[string]interface{}{"key": "value"}).Info("x")
	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("expected field, got %q", buf.String())
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info", "test")
	l.WithError(errors.New("boom")).Error("failed")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error in output, got %q", buf.String())
	}
}

func TestInit(t *testing.T) {
	Init(Config{Level: "info", Format: "console", ServiceName: "pipekit"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "pipekit" {
		t.Errorf("expected service 'pipekit', got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if got := GetGlobalLogger(); got != l {
		t.Error("expected SetGlobalLogger to replace the global logger")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(NewWriter(&buf, "debug", "global"))
	defer SetGlobalLogger(nil)

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	if lines := strings.Count(buf.String(), "\n"); lines != 4 {
		t.Errorf("expected 4 lines, got %d: %q", lines, buf.String())
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("reg")
	Register("loader", l)
	if got := Get("loader"); got != l {
		t.Error("expected registered logger")
	}
}

func TestGetUnregistered(t *testing.T) {
	if got := Get("never-registered"); got == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestRegisterDefaults(t *testing.T) {
	RegisterDefaults("a", "b")
	if Get("a") == nil || Get("b") == nil {
		t.Fatal("expected default loggers to be registered")
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields %v", f)
	}
	if len(f) != 2 {
		t.Errorf("expected 2 fields, got %d", len(f))
	}
}

func TestPipeFields(t *testing.T) {
	f := PipeFields("Count", "call", "abc")
	if f[FieldPipe] != "Count" || f[FieldOperation] != "call" || f[FieldContextID] != "abc" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("resolve", errors.New("bad"))
	if f[FieldOperation] != "resolve" || f[FieldError] != "bad" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestMergeWithError(t *testing.T) {
	f := MergeWithError(nil, errors.New("x"))
	if f[FieldError] != "x" {
		t.Errorf("expected error field, got %v", f)
	}
}

func TestMergeWithDuration(t *testing.T) {
	f := MergeWithDuration(map[string]interface{}{"k": 1}, 1500*time.Millisecond)
	if f[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", f[FieldDuration])
	}
	if f["k"] != 1 {
		t.Error("expected existing field preserved")
	}
}
