package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open builds a Store for the configured backend. An empty backend means
// file. The sqlite path defaults to <dataDir>/weeklytrack.db.
func Open(backend, dataDir, sqlitePath string) (Store, error) {
	switch strings.TrimSpace(strings.ToLower(backend)) {
	case "", BackendFile:
		return NewFileStore(dataDir)
	case BackendSQLite:
		if strings.TrimSpace(sqlitePath) == "" {
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			sqlitePath = filepath.Join(dataDir, "weeklytrack.db")
		}
		return OpenSQLite(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
