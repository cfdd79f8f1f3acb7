// Package migrations embeds the SQL schema for every supported database driver.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// For returns the migration files for a goose dialect directory ("postgres" or "sqlite").
func For(dir string) (fs.FS, error) {
	return fs.Sub(files, dir)
}
