package config

import "path/filepath"

type HistoryConfig struct {
	// Path is the history database path. Defaults to history.db next to the
	// config file.
	Path string `json:"path,omitempty" jsonschema:"title=Path"`
	// Enabled records every applied rewrite.
	Enabled bool `json:"enabled,omitempty" jsonschema:"title=Enabled"`
}

// ResolvePath returns the database path, relative to the directory of
// configPath when not absolute.
func (c *HistoryConfig) ResolvePath(configPath string) string {
	p := c.Path
	if p == "" {
		p = "history.db"
	}
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(filepath.Dir(configPath), p)
}
