/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package version exposes build-time version information.
package version

import "fmt"

// These are intended to be overridden at build time via -ldflags, e.g.
//
//	go build -ldflags "-X screenmd/internal/version.Version=1.2.0 -X screenmd/internal/version.Commit=abc123"
var (
	Version = "0.3.0-dev"
	Commit  = ""
)

// String returns a human-readable version string.
func String() string {
	if Commit != "" {
		return fmt.Sprintf("%s (%s)", Version, Commit)
	}
	return Version
}
