package domain

import (
	"github.com/google/uuid"
)

// ElementFilter is a storage-agnostic element range query. Results are
// ordered by the materialized path, which is the stable sort key for search
// and pagination.
type ElementFilter struct {
	// DomainID limits results to one domain. nil means all domains.
	DomainID *uuid.UUID

	// TagIDs filters by tag references. With MatchAllTags false an element
	// matches when it carries any of the ids; true requires all of them.
	TagIDs       []uuid.UUID
	MatchAllTags bool

	// Text is a free-text filter on the element name (case-insensitive
	// substring). Empty means no text filter.
	Text string

	// PathBefore, when set, restricts to elements with path strictly less
	// than the bound. Used for the context window preceding an anchor.
	PathBefore string

	// PathFrom, when set, restricts to elements with path greater than or
	// equal to the bound.
	PathFrom string

	// SortDesc reverses the path ordering. Callers use it to take the N
	// elements nearest below a bound, then restore ascending order.
	SortDesc bool

	// Limit caps the number of results. Must be positive.
	Limit int
}
