package assets

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the SQL migration files, rooted so that names are
// plain "001_kv.sql" style paths.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		// Only fails if the embed pattern above is broken.
		panic(err)
	}
	return sub
}
