package postgres

import "testing"

func TestULIDGeneratorProducesUniqueSortedIDs(t *testing.T) {
	g := NewULIDGenerator()

	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 100; i++ {
		id := g.Generate()
		if len(id) != 26 {
			t.Fatalf("expected 26-char ULID, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true

		if id < prev {
			t.Fatalf("expected lexicographically increasing IDs, got %s after %s", id, prev)
		}
		prev = id
	}
}
