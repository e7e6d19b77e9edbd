package logger

import (
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		Init(level)
		if Log == nil {
			t.Errorf("Init(%s) should set Log", level)
		}
	}
}

func TestInitWithConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "json format stdout", config: Config{Level: "info", Format: "json", Output: "stdout"}},
		{name: "text format stderr", config: Config{Level: "debug", Format: "text", Output: "stderr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitWithConfig(tt.config)
			if Log == nil {
				t.Error("Log should not be nil")
			}
		})
	}
}

func TestInitWithConfig_FileOutput(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "test.log")

	InitWithConfig(Config{Level: "info", Format: "json", Output: "file", FilePath: logPath})

	if Log == nil {
		t.Fatal("Log should not be nil")
	}
	Log.Info("test message")
}

func TestInitWithConfig_FileOutputInvalidDir(t *testing.T) {
	InitWithConfig(Config{Level: "info", Format: "json", Output: "file", FilePath: "/nonexistent/deeply/nested/dir/test.log"})

	if Log == nil {
		t.Error("Log should not be nil even with invalid path")
	}
}

func TestLoggingFunctions(t *testing.T) {
	Init("debug")

	Debug("debug message", "key", "value")
	Info("info message", "key", "value")
	Warn("warn message", "key", "value")
	Error("error message", "key", "value")
}

func TestWithRequestID(t *testing.T) {
	Init("info")

	logger := WithRequestID("req-123")
	if logger == nil {
		t.Error("WithRequestID should return logger")
	}
}

func TestWithRoute(t *testing.T) {
	Init("info")

	logger := WithRoute("Mumbai", "Houston")
	if logger == nil {
		t.Error("WithRoute should return logger")
	}
}
