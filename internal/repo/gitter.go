// Package repo wraps the git CLI process boundary.
package repo

import (
	"context"
)

// Gitter defines the interface for git repository operations.
type Gitter interface {
	// LsFiles lists all files tracked at HEAD, relative to root, in the
	// order git reports them.
	LsFiles(ctx context.Context, root string) ([]string, error)

	// Status returns the porcelain status entries for files with uncommitted
	// modifications or files not yet tracked. An empty slice means the
	// working tree is clean.
	Status(ctx context.Context, root string) ([]string, error)
}
