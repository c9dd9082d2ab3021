package config_test

import (
	"testing"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ListenAddr: ":8080",
			LogLevel:   config.LogInfo,
		},
		Model: config.ModelConfig{Order: 3},
		Checker: config.CheckerConfig{
			Alpha:      0.95,
			TablesPath: "",
		},
	}
}

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()

	d := config.Diff(old, new)
	if !d.Empty() {
		t.Errorf("Diff of identical configs = %+v, want empty", d)
	}
}

func TestDiff_LogLevel(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Server.LogLevel = config.LogDebug

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("LogLevelChanged = false, want true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("NewLogLevel = %q, want %q", d.NewLogLevel, config.LogDebug)
	}
	if d.AlphaChanged || d.TablesPathChanged {
		t.Errorf("unrelated fields flagged: %+v", d)
	}
}

func TestDiff_Alpha(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Checker.Alpha = 0.5

	d := config.Diff(old, new)
	if !d.AlphaChanged {
		t.Error("AlphaChanged = false, want true")
	}
	if d.NewAlpha != 0.5 {
		t.Errorf("NewAlpha = %v, want 0.5", d.NewAlpha)
	}
}

func TestDiff_TablesPath(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Checker.TablesPath = "/etc/spellcheck/tables.yaml"

	d := config.Diff(old, new)
	if !d.TablesPathChanged {
		t.Error("TablesPathChanged = false, want true")
	}
	if d.NewTablesPath != "/etc/spellcheck/tables.yaml" {
		t.Errorf("NewTablesPath = %q", d.NewTablesPath)
	}
}

func TestDiff_IgnoresRestartOnlyFields(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Server.ListenAddr = ":9090"
	new.Model.Order = 4
	new.Corpus.URLs = []string{"https://example.com/big.txt"}

	d := config.Diff(old, new)
	if !d.Empty() {
		t.Errorf("Diff flagged restart-only fields: %+v", d)
	}
}

func TestDiff_MultipleChanges(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Server.LogLevel = config.LogError
	new.Checker.Alpha = 0.8

	d := config.Diff(old, new)
	if d.Empty() {
		t.Fatal("Diff = empty, want changes")
	}
	if !d.LogLevelChanged || !d.AlphaChanged {
		t.Errorf("Diff = %+v, want log level and alpha flagged", d)
	}
}
