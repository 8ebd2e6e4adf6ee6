package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true)
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(true) returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("production mode returns production logger", func(t *testing.T) {
		logger, err := NewLogger(false)
		if err != nil {
			t.Fatalf("NewLogger(false) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(false) returned nil logger")
		}
		_ = logger.Sync()
	})
}

func TestNewFileLogger(t *testing.T) {
	t.Run("empty path behaves like NewLogger", func(t *testing.T) {
		logger, err := NewFileLogger(true, FileLogConfig{})
		if err != nil {
			t.Fatalf("NewFileLogger error: %v", err)
		}
		if logger == nil {
			t.Fatal("returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("writes entries to the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wakeru.log")
		logger, err := NewFileLogger(false, FileLogConfig{Path: path})
		if err != nil {
			t.Fatalf("NewFileLogger error: %v", err)
		}
		logger.Info("processed document")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("log file not written: %v", err)
		}
		if len(data) == 0 {
			t.Error("log file is empty")
		}
	})
}
