//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
// This is used when the cgo_sqlite build tag is set.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package sqlite

import (
	sqliteexternal "github.com/FocuswithJustin/textgrid/contrib/sqlite-external"
)

const (
	driverName       = sqliteexternal.DriverName
	driverType       = sqliteexternal.DriverType
	driverPackage    = sqliteexternal.DriverPackage + " (via contrib/sqlite-external)"
	foreignKeysParam = sqliteexternal.ForeignKeysParam
)
