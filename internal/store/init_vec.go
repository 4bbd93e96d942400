//go:build sqlite_vec && cgo

package store

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver so
	// deployments that want in-database ANN search can use vec0 virtual
	// tables alongside the plain vectors table.
	vec.Auto()
}
