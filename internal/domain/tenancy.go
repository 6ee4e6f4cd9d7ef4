package domain

import (
	"time"

	"github.com/google/uuid"
)

// Domain is the tenancy boundary: every element and tag belongs to exactly
// one domain. Names are normalized and globally unique.
type Domain struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Tags        []Tag
	// TokenHash is the bcrypt hash of the domain's static API token,
	// set once a token has been issued. Never exposed over the wire.
	TokenHash *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagByID returns the domain tag with the given id, if registered.
func (d *Domain) TagByID(id uuid.UUID) (Tag, bool) {
	for _, t := range d.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

// Tag is a per-domain label. Names are normalized and unique
// (case-insensitively) within the owning domain; ids are server-generated.
type Tag struct {
	ID       uuid.UUID
	DomainID uuid.UUID
	Name     string
}
