package immich

import "immich-face-album/internal/immich/api"

// Redeclare the immich API types.
type AssetID = api.AssetID
type AlbumID = api.AlbumID
type PersonID = api.PersonID
type TimeBucket = api.TimeBucket
type TimeBucketInfo = api.TimeBucketInfo
type AddResult = api.AddResult
type Session = api.Session
type Person = api.Person
