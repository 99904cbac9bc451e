package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithOutput(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		want    zerolog.Level
	}{
		{name: "defaults", want: zerolog.InfoLevel},
		{name: "debug json", level: "debug", format: FormatJSON, want: zerolog.DebugLevel},
		{name: "warn console", level: "warn", format: FormatConsole, want: zerolog.WarnLevel},
		{name: "bad level", level: "loud", wantErr: true},
		{name: "bad format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewWithOutput(&bytes.Buffer{}, tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if log.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", log.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewWithOutput_JSONFiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithOutput(buf, "warn", FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	log.Info().Msg("hidden")
	log.Warn().Str("file", "a.pdf").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %s", out)
	}
	if !strings.Contains(out, `"file":"a.pdf"`) || !strings.Contains(out, "shown") {
		t.Errorf("expected warn message with file field, got: %s", out)
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Debug().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("expected log output from retrieved logger")
	}
}

func TestFromContext_NoLogger(t *testing.T) {
	log := FromContext(context.Background())

	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("level = %v, want disabled", log.GetLevel())
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"run_id": "abc",
		"terms":  2,
	})

	log.Info().Msg("parsed")

	out := buf.String()
	if !strings.Contains(out, `"run_id":"abc"`) || !strings.Contains(out, `"terms":2`) {
		t.Errorf("expected fields in output, got: %s", out)
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	log, closer, err := NewWithFile("info", FormatJSON, path)
	if err != nil {
		t.Fatalf("NewWithFile: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Info().Str("file", "jane.pdf").Msg("processing file")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"file":"jane.pdf"`) || strings.Contains(out, "hidden") {
		t.Errorf("unexpected log file contents: %s", out)
	}
}

func TestNewWithFile_NoPath(t *testing.T) {
	_, closer, err := NewWithFile("", "", "")
	if err != nil {
		t.Fatalf("NewWithFile: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	if _, _, err := NewWithFile("loud", "", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Error("expected error for bad level")
	}
}
