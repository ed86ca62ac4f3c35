package api

import (
	"context"
	"path"
)

// PersonID is the immich ID for a recognized person, usually in the shape of
// UUIDv4.
type PersonID string

// Person contains relevant person information retrieved from the immich API.
//
// See: https://api.immich.app/models/PersonResponseDto
type Person struct {
	ID   PersonID `json:"id"`
	Name string   `json:"name"`
}

// GetPerson retrieves the person with the provided ID.
func (c Client) GetPerson(ctx context.Context, id PersonID) (*Person, error) {
	var p Person
	if err := c.getJSON(ctx, "GetPerson", path.Join("/person", string(id)), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPersonAssets retrieves the IDs of all assets the person was recognized
// in. The endpoint is not paginated.
func (c Client) GetPersonAssets(ctx context.Context, id PersonID) ([]AssetID, error) {
	const op = "GetFaceAssets"
	var mds []AssetMetadata
	if err := c.getJSON(ctx, op, path.Join("/person", string(id), "assets"), nil, &mds); err != nil {
		return nil, err
	}
	return assetIDs(op, mds)
}
