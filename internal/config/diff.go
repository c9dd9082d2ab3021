package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; everything
// else (model shape, corpus sources, listen address) needs a restart.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	AlphaChanged bool
	NewAlpha     float64

	TablesPathChanged bool
	NewTablesPath     string
}

// Empty reports whether the diff carries no hot-reloadable change.
func (d ConfigDiff) Empty() bool {
	return !d.LogLevelChanged && !d.AlphaChanged && !d.TablesPathChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Checker.Alpha != new.Checker.Alpha {
		d.AlphaChanged = true
		d.NewAlpha = new.Checker.Alpha
	}

	if old.Checker.TablesPath != new.Checker.TablesPath {
		d.TablesPathChanged = true
		d.NewTablesPath = new.Checker.TablesPath
	}

	return d
}
