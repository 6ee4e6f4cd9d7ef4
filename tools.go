//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Migrations are applied with the goose CLI against ./migrations:
// - github.com/pressly/goose/v3/cmd/goose
