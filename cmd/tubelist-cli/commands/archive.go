package commands

import (
	"database/sql"
	"os"

	"tubelist/lib/archive"
	"tubelist/lib/configutil"
	"tubelist/lib/osutil"
	"tubelist/lib/sqliteutil"
)

type Config struct {
	Database sqliteutil.Database `json:"database"`
}

// openArchive resolves the snapshot database: an explicit --db path
// wins, then the database block of tubelist.json5, then ./tubelist.db.
func openArchive(path string) *sql.DB {
	cfg, err := configutil.ReadConfig[Config]("tubelist.json5")
	if err != nil && !os.IsNotExist(err) {
		osutil.Fatal("failed to read config", err)
	}

	if path != "" {
		cfg.Database = sqliteutil.Database{File: path}
	}
	if cfg.Database.File == "" && cfg.Database.Url == "" {
		cfg.Database.File = "tubelist.db"
	}

	database, err := cfg.Database.Open(archive.Schema)
	if err != nil {
		osutil.Fatal("failed to open archive database", err)
	}
	return database
}
