package api

import (
	"context"
	"net/http"
	"net/url"
	"path"
)

// AlbumID is the immich ID for an album, usually in the shape of UUIDv4.
type AlbumID string

// AddErrorDuplicate is the [AddResult] error reported for an asset that is
// already part of the album.
const AddErrorDuplicate = "duplicate"

// AddResult is the per-asset outcome of adding assets to an album.
//
// See: https://api.immich.app/models/BulkIdResponseDto
type AddResult struct {
	ID      AssetID `json:"id"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
}

// assetIDsRequest is the request body for adding assets to an album.
type assetIDsRequest struct {
	IDs []AssetID `json:"ids"`
}

// GetAlbumAssets retrieves the IDs of the assets currently in the album.
//
// See: https://api.immich.app/endpoints/albums/getAlbumInfo
func (c Client) GetAlbumAssets(ctx context.Context, id AlbumID) ([]AssetID, error) {
	const op = "GetAlbumAssets"
	var ar struct {
		Assets []AssetMetadata `json:"assets"`
	}
	if err := c.getJSON(ctx, op, path.Join("/album", string(id)), nil, &ar); err != nil {
		return nil, err
	}
	return assetIDs(op, ar.Assets)
}

// AddAssetsToAlbum adds all of the provided assets to the album in a single
// request. The per-asset results are not inspected.
func (c Client) AddAssetsToAlbum(ctx context.Context, id AlbumID, ids []AssetID) error {
	const op = "PutAssetsToAlbum"
	p := path.Join("/album", string(id), "assets")
	return c.doJSON(ctx, op, http.MethodPut, p, nil, assetIDsRequest{IDs: ids}, nil)
}

// PutAlbumAssets adds the provided assets to the album and returns the
// per-asset results. A non-empty key is sent as the shared link key.
//
// See: https://api.immich.app/endpoints/albums/addAssetsToAlbum
func (c Client) PutAlbumAssets(ctx context.Context, id AlbumID, ids []AssetID, key string) ([]AddResult, error) {
	const op = "PutAlbumAssets"
	var query url.Values
	if key != "" {
		query = url.Values{"key": {key}}
	}
	p := path.Join("/albums", string(id), "assets")
	var results []AddResult
	if err := c.doJSON(ctx, op, http.MethodPut, p, query, assetIDsRequest{IDs: ids}, &results); err != nil {
		return nil, err
	}
	return results, nil
}
