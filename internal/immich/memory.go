package immich

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultPersonNamesSize is used when a non-positive size is configured.
const defaultPersonNamesSize = 128

// PersonNames is an in-memory LRU cache of person display names. It is safe
// to share between clients authenticated as different users, since person IDs
// are globally unique.
type PersonNames struct {
	*lru.Cache[PersonID, string]
}

// personGetter is a client that can look up a person by ID.
type personGetter interface {
	GetPerson(ctx context.Context, id PersonID) (*Person, error)
}

// Lookup returns the cached display name for the person, falling back to the
// remote. Lookups never fail: an unnamed or unknown person is reported by ID.
// Failed lookups are not cached.
func (p *PersonNames) Lookup(ctx context.Context, remote personGetter, id PersonID) string {
	if name, ok := p.Get(id); ok {
		return name
	}
	person, err := remote.GetPerson(ctx, id)
	if err != nil {
		slog.Debug("failed to get person name", "person", id, "error", err)
		return string(id)
	}
	name := person.Name
	if name == "" {
		name = string(id)
	}
	p.Add(id, name)
	return name
}

// NewPersonNames initializes a [PersonNames] cache holding up to size names.
func NewPersonNames(size int) *PersonNames {
	if size <= 0 {
		size = defaultPersonNamesSize
	}
	l, _ := lru.New[PersonID, string](size)
	return &PersonNames{l}
}
