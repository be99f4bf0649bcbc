/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "1.2.3", ""
	if String() != "1.2.3" {
		t.Fatalf("got %q", String())
	}
	Version, Commit = "1.2.3", "abc123"
	if String() != "1.2.3 (abc123)" {
		t.Fatalf("got %q", String())
	}
}
