// Package sqliteexternal provides the optional CGO SQLite driver for the
// corpus store.
//
// To use the CGO driver (github.com/mattn/go-sqlite3), build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// core/sqlite then imports this package instead of modernc.org/sqlite.
// The pure Go driver stays the default because it cross-compiles and
// needs no C toolchain.
package sqliteexternal
