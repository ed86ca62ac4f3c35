package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// TimeBucket is an opaque token for a calendar-month partition of a user's
// timeline.
type TimeBucket string

// bucketSize is the only time bucket size requested.
const bucketSize = "MONTH"

// TimeBucketInfo describes a single time bucket.
//
// See: https://api.immich.app/models/TimeBucketsResponseDto
type TimeBucketInfo struct {
	TimeBucket TimeBucket `json:"timeBucket"`
	Count      int        `json:"count"`
}

// GetTimeBuckets lists the month buckets of the user's timeline.
func (c Client) GetTimeBuckets(ctx context.Context, userID string) ([]TimeBucketInfo, error) {
	const op = "GetTimeBuckets"
	query := url.Values{
		"userId": {userID},
		"size":   {bucketSize},
	}
	var buckets []TimeBucketInfo
	if err := c.getJSON(ctx, op, "/timeline/buckets", query, &buckets); err != nil {
		return nil, err
	}
	for i, b := range buckets {
		if b.TimeBucket == "" {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("bucket %d has no timeBucket", i)}
		}
	}
	return buckets, nil
}

// GetTimeBucket retrieves the IDs of the person's assets within a single
// time bucket.
func (c Client) GetTimeBucket(ctx context.Context, person PersonID, bucket TimeBucket) ([]AssetID, error) {
	const op = "GetTimeBucket"
	if bucket == "" {
		return nil, errors.New("empty time bucket")
	}
	query := url.Values{
		"personId":   {string(person)},
		"timeBucket": {string(bucket)},
		"size":       {bucketSize},
	}
	var mds []AssetMetadata
	if err := c.getJSON(ctx, op, "/timeline/bucket", query, &mds); err != nil {
		return nil, err
	}
	return assetIDs(op, mds)
}
