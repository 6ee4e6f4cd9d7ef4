package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/croswell/inventario/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDomain creates a tenancy domain with a unique name.
func SeedDomain(t *testing.T, pool *pgxpool.Pool) domain.Domain {
	t.Helper()
	ctx := context.Background()

	d := domain.Domain{
		ID:   uuid.New(),
		Name: "domain-" + uniqueSuffix(),
		Tags: []domain.Tag{},
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO domains (id, name) VALUES ($1, $2)
		 RETURNING created_at, updated_at`,
		d.ID, d.Name,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedDomain: %v", err)
	}
	return d
}

// SeedClass creates a class with a unique name and the given schema.
func SeedClass(t *testing.T, pool *pgxpool.Pool, classType domain.ClassType, attributes string) domain.Class {
	t.Helper()
	ctx := context.Background()

	c := domain.Class{
		ID:   uuid.New(),
		Name: "class-" + uniqueSuffix(),
		Type: classType,
	}
	if attributes == "" {
		attributes = "[]"
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO classes (id, name, type, attributes) VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, string(c.Type), attributes,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedClass: %v", err)
	}
	return c
}

// SeedElement creates a root element of the given class in the domain.
func SeedElement(t *testing.T, pool *pgxpool.Pool, domainID, classID uuid.UUID) domain.Element {
	t.Helper()
	ctx := context.Background()

	e := domain.Element{
		ID:         uuid.New(),
		DomainID:   domainID,
		ClassID:    classID,
		Name:       "element-" + uniqueSuffix(),
		Attributes: domain.AttributeValues{},
		TagIDs:     []uuid.UUID{},
	}
	e.Path = domain.RootPath(e.ID)

	err := pool.QueryRow(ctx,
		`INSERT INTO elements (id, domain_id, class_id, name, path)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		e.ID, e.DomainID, e.ClassID, e.Name, e.Path,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedElement: %v", err)
	}
	return e
}
