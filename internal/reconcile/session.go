package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"immich-face-album/internal/immich"
	"immich-face-album/internal/immich/api"
)

const (
	// DefaultChunkSize is the number of assets added per request.
	DefaultChunkSize = 500
	// DefaultChunkDelay is the pause between add requests.
	DefaultChunkDelay = 2 * time.Second
)

// SessionClient is the immich API surface used with a login session.
type SessionClient interface {
	PersonName(ctx context.Context, id immich.PersonID) string
	GetTimeBuckets(ctx context.Context, userID string) ([]immich.TimeBucketInfo, error)
	GetTimeBucket(ctx context.Context, person immich.PersonID, bucket immich.TimeBucket) ([]immich.AssetID, error)
	PutAlbumAssets(ctx context.Context, id immich.AlbumID, ids []immich.AssetID, key string) ([]immich.AddResult, error)
	Logout(ctx context.Context) error
}

// SessionReconciler adds a person's assets to an album by logging in with an
// email and password, walking the user's timeline month by month and adding
// everything found in chunks. Only a failed login aborts the pass; listing
// and adding failures are logged and tolerated.
type SessionReconciler struct {
	// Login exchanges credentials for a session-bound client and the ID of
	// the logged in user.
	Login      func(ctx context.Context, email, password string) (SessionClient, string, error)
	Album      immich.AlbumID
	SharedKey  string
	ChunkSize  int
	ChunkDelay time.Duration
}

// Reconcile performs a single pass for the identity.
func (r *SessionReconciler) Reconcile(ctx context.Context, id Identity) (PassResult, error) {
	var res PassResult
	client, userID, err := r.Login(ctx, id.Email, id.Password)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := client.Logout(context.WithoutCancel(ctx)); err != nil {
			slog.Debug("failed to log out", "email", id.Email, "error", err)
		}
	}()

	log := slog.With("email", id.Email, "person", id.Person, "name", client.PersonName(ctx, id.Person), "album", r.Album)
	log.Info("calling api for person")

	assets := r.collect(ctx, log, client, userID, id.Person)
	res.Found = assets.Len()
	if assets.Len() == 0 {
		log.Info("no assets to add")
		return res, nil
	}

	chunks := Chunk(assets.IDs(), r.chunkSize())
	for i, chunk := range chunks {
		if i > 0 {
			if err := Sleep(ctx, r.ChunkDelay); err != nil {
				return res, err
			}
		}
		results, err := client.PutAlbumAssets(ctx, r.Album, chunk, r.SharedKey)
		if err != nil {
			log.Warn("failed to add chunk to album", "chunk", i+1, "chunks", len(chunks), "size", len(chunk), "error", err)
			res.Failed += len(chunk)
			continue
		}
		r.tally(log, &res, results)
	}

	log.Info("added assets to the album",
		"found", humanize.Comma(int64(res.Found)),
		"added", humanize.Comma(int64(res.Added)),
		"duplicates", humanize.Comma(int64(res.Duplicates)),
		"failed", humanize.Comma(int64(res.Failed)))
	return res, nil
}

// collect gathers the person's assets across all of the user's time buckets.
// Listing failures are logged and contribute no assets.
func (r *SessionReconciler) collect(
	ctx context.Context,
	log *slog.Logger,
	client SessionClient,
	userID string,
	person immich.PersonID,
) *AssetSet {
	assets := NewAssetSet()
	buckets, err := client.GetTimeBuckets(ctx, userID)
	if err != nil {
		log.Warn("failed to list time buckets", "error", err)
		return assets
	}
	log.Debug("found time buckets", "count", len(buckets))
	for _, bucket := range buckets {
		ids, err := client.GetTimeBucket(ctx, person, bucket.TimeBucket)
		if err != nil {
			log.Warn("failed to list time bucket assets", "bucket", bucket.TimeBucket, "error", err)
			continue
		}
		assets.Add(ids...)
	}
	return assets
}

// tally counts the per-asset results of an add request. Assets already in the
// album are expected; any other failure is logged.
func (r *SessionReconciler) tally(log *slog.Logger, res *PassResult, results []immich.AddResult) {
	for _, ar := range results {
		switch {
		case ar.Success:
			res.Added++
		case ar.Error == api.AddErrorDuplicate:
			res.Duplicates++
		default:
			res.Failed++
			log.Warn("failed to add asset to album", "id", ar.ID, "error", ar.Error)
		}
	}
}

func (r *SessionReconciler) chunkSize() int {
	if r.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return r.ChunkSize
}
