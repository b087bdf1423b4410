package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", "text", &buf)

	New("test-component").Info("hello")

	output := buf.String()
	if !strings.Contains(output, "component=test-component") {
		t.Errorf("expected component=test-component in output, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected 'hello' in output, got: %s", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)

	New("json-test").Info("json check")

	output := buf.String()
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected JSON level field, got: %s", output)
	}
	if !strings.Contains(output, `"component":"json-test"`) {
		t.Errorf("expected JSON component field, got: %s", output)
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init("warn", "text", &buf)

	New("filter").Info("should not appear")
	New("filter").Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Errorf("info message leaked through warn level: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("expected warn message, got: %s", output)
	}
}

func TestInit_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init("loud", "text", &buf)

	if logrus.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %s", logrus.GetLevel())
	}
}
