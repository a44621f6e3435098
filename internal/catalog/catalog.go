// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog implements clients for the external paper catalogs: the
// arXiv document catalog, the Semantic Scholar citation graph, and an
// in-memory index over titles already stored.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Catalog returns candidates for a free-text query, in the catalog's own
// relevance order, at most limit of them.
type Catalog interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Candidate, error)
}

// ErrNotFound means the catalog answered and does not know the identifier.
var ErrNotFound = errors.New("not found in catalog")

// UnavailableError reports a transport or backend failure. It is distinct
// from ErrNotFound: the catalog could not be asked, so nothing is known.
type UnavailableError struct {
	Catalog    string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s catalog unavailable: %v", e.Catalog, e.Err)
	}
	return fmt.Sprintf("%s catalog unavailable: HTTP %d", e.Catalog, e.StatusCode)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err carries an *UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
