package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"immich-face-album/internal/immich"
)

// KeyClient is the immich API surface used with a static API key.
type KeyClient interface {
	PersonName(ctx context.Context, id immich.PersonID) string
	GetPersonAssets(ctx context.Context, id immich.PersonID) ([]immich.AssetID, error)
	GetAlbumAssets(ctx context.Context, id immich.AlbumID) ([]immich.AssetID, error)
	AddAssetsToAlbum(ctx context.Context, id immich.AlbumID, ids []immich.AssetID) error
}

// KeyReconciler adds a person's assets to an album using per-user API keys.
// The person's assets and the album's assets are each fetched in one call and
// the difference is added in one call. Any API error aborts the pass.
type KeyReconciler struct {
	// Connect returns a client authenticated with the API key.
	Connect func(apiKey string) KeyClient
	Album   immich.AlbumID
}

// Reconcile performs a single pass for the identity.
func (r *KeyReconciler) Reconcile(ctx context.Context, id Identity) (PassResult, error) {
	var res PassResult
	client := r.Connect(id.APIKey)
	log := slog.With("person", id.Person, "name", client.PersonName(ctx, id.Person), "album", r.Album)
	log.Info("calling api for person")

	personAssets, err := client.GetPersonAssets(ctx, id.Person)
	if err != nil {
		return res, fmt.Errorf("get person assets: %w", err)
	}
	albumAssets, err := client.GetAlbumAssets(ctx, r.Album)
	if err != nil {
		return res, fmt.Errorf("get album assets: %w", err)
	}

	toAdd := Diff(personAssets, albumAssets)
	res.Found = NewAssetSet(personAssets...).Len()
	res.Present = res.Found - len(toAdd)
	if len(toAdd) == 0 {
		log.Info("no assets to add", "found", humanize.Comma(int64(res.Found)))
		return res, nil
	}

	if err := client.AddAssetsToAlbum(ctx, r.Album, toAdd); err != nil {
		return res, fmt.Errorf("add assets to album: %w", err)
	}
	res.Added = len(toAdd)
	log.Info("added assets to the album", "count", humanize.Comma(int64(res.Added)))
	return res, nil
}
