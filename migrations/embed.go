package migrations

import (
	"embed"
	"io/fs"
)

// files stores forward-only SQL migrations embedded into the binary.
//
//go:embed server/*.sql local/*.sql
var files embed.FS

// Server returns the migrations for the account database.
func Server() fs.FS {
	return mustSub("server")
}

// Local returns the migrations for the posturectl store.
func Local() fs.FS {
	return mustSub("local")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
