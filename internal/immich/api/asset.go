package api

import "fmt"

// AssetID is the immich ID for an asset, usually in the shape of UUIDv4.
type AssetID string

// AssetMetadata contains relevant asset information retrieved from the immich API.
//
// See: https://api.immich.app/endpoints/assets/getAssetInfo
type AssetMetadata struct {
	ID   AssetID `json:"id"`
	Type string  `json:"type"`
	Name string  `json:"originalFileName"`
}

// assetIDs extracts the IDs from a list of asset metadata. An entry without an
// ID means the response did not have the expected shape.
func assetIDs(op string, mds []AssetMetadata) ([]AssetID, error) {
	ids := make([]AssetID, 0, len(mds))
	for i, md := range mds {
		if md.ID == "" {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("asset %d has no id", i)}
		}
		ids = append(ids, md.ID)
	}
	return ids, nil
}
