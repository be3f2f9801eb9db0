package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("Writes To Provided Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("Nil Writer Defaults To Stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected a logger")
		}
	})

	t.Run("SetLogLevel Filters Output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)

		logger.Info("suppressed")
		logger.Error("kept")

		out := buf.String()
		if strings.Contains(out, "suppressed") {
			t.Errorf("expected info to be filtered, got %q", out)
		}
		if !strings.Contains(out, "kept") {
			t.Errorf("expected error to pass, got %q", out)
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to exist, got %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("expected message in log file, got %q", string(data))
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Error("expected distinct IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string length 36, got %d (%q)", len(a), a)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	t.Run("Tilde Prefix", func(t *testing.T) {
		got, err := ExpandHome("~/.bioflow/history.db")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := filepath.Join(home, ".bioflow", "history.db")
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("Bare Tilde", func(t *testing.T) {
		got, err := ExpandHome("~")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != home {
			t.Errorf("expected %q, got %q", home, got)
		}
	})

	t.Run("Absolute Path Untouched", func(t *testing.T) {
		got, err := ExpandHome("/var/tmp/x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "/var/tmp/x" {
			t.Errorf("expected path unchanged, got %q", got)
		}
	})

	t.Run("Tilde User Untouched", func(t *testing.T) {
		got, err := ExpandHome("~alice/data")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "~alice/data" {
			t.Errorf("expected path unchanged, got %q", got)
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]string{"status": "ok"}

	compact, err := MarshalJSON(payload, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(compact) != `{"status":"ok"}` {
		t.Errorf("unexpected compact output %q", string(compact))
	}

	pretty, err := MarshalJSON(payload, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("expected indented output, got %q", string(pretty))
	}
}
