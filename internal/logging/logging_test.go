package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerIsPerComponentSingleton(t *testing.T) {
	a := NewLogger("gateway-test")
	b := NewLogger("gateway-test")
	if a != b {
		t.Error("expected the same entry for the same component")
	}
	if a.Data["component"] != "gateway-test" {
		t.Errorf("component = %v, want gateway-test", a.Data["component"])
	}
}

func TestConfigureAppliesToExistingLoggers(t *testing.T) {
	t.Setenv("LEARNFLOW_LOG_LEVEL", "")
	logger := NewLogger("configure-test")

	var buf bytes.Buffer
	Configure(Options{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	logger.WithField("path", "/goals").Debug("request sent")

	out := buf.String()
	if !strings.Contains(out, `"component":"configure-test"`) {
		t.Errorf("missing component field in %s", out)
	}
	if !strings.Contains(out, `"path":"/goals"`) {
		t.Errorf("missing path field in %s", out)
	}
	if base.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", base.GetLevel())
	}
}

func TestEnvLevelWins(t *testing.T) {
	t.Setenv("LEARNFLOW_LOG_LEVEL", "warn")
	var buf bytes.Buffer
	Configure(Options{Level: "debug", Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	if base.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", base.GetLevel())
	}
}
