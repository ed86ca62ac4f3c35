package reconcile

import (
	"context"
	"time"

	"immich-face-album/internal/immich"
)

// Identity is a single configured user and the person whose assets are
// synchronized into the album. Exactly one of APIKey or Email is set.
type Identity struct {
	APIKey   string
	Email    string
	Password string
	Person   immich.PersonID
}

// String describes the identity without leaking credentials.
func (i Identity) String() string {
	if i.Email != "" {
		return i.Email
	}
	return "api key " + maskKey(i.APIKey)
}

// maskKey keeps only the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// PassResult summarizes a single reconciliation pass.
type PassResult struct {
	// Found is the number of unique assets found for the person.
	Found int
	// Present is the number of found assets already in the album, when
	// known before uploading.
	Present int
	// Added is the number of assets added to the album.
	Added int
	// Duplicates is the number of assets the server reported as already
	// in the album.
	Duplicates int
	// Failed is the number of assets that could not be added.
	Failed int
}

// Sleep blocks for d or until ctx is done, whichever comes first. It returns
// the context error if ctx finished first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
