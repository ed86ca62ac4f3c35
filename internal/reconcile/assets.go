package reconcile

import "immich-face-album/internal/immich"

// AssetSet is an insertion-ordered set of asset IDs.
type AssetSet struct {
	ids  []immich.AssetID
	seen map[immich.AssetID]struct{}
}

// NewAssetSet initializes an [AssetSet] containing ids.
func NewAssetSet(ids ...immich.AssetID) *AssetSet {
	s := &AssetSet{seen: make(map[immich.AssetID]struct{}, len(ids))}
	s.Add(ids...)
	return s
}

// Add inserts the IDs not already in the set, keeping their order.
func (s *AssetSet) Add(ids ...immich.AssetID) {
	if s.seen == nil {
		s.seen = make(map[immich.AssetID]struct{}, len(ids))
	}
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

// Contains reports whether id is in the set.
func (s *AssetSet) Contains(id immich.AssetID) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of unique IDs in the set.
func (s *AssetSet) Len() int { return len(s.ids) }

// IDs returns the IDs in insertion order. The caller must not modify the
// returned slice.
func (s *AssetSet) IDs() []immich.AssetID { return s.ids }

// Diff returns the assets of want that are not in have, in the order they
// appear in want. Duplicates in want are reported once.
func Diff(want, have []immich.AssetID) []immich.AssetID {
	present := NewAssetSet(have...)
	missing := NewAssetSet()
	for _, id := range want {
		if !present.Contains(id) {
			missing.Add(id)
		}
	}
	return missing.IDs()
}

// Chunk splits ids into consecutive chunks of at most size IDs. The last chunk
// may be smaller. A non-positive size yields a single chunk.
func Chunk(ids []immich.AssetID, size int) [][]immich.AssetID {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 || size >= len(ids) {
		return [][]immich.AssetID{ids}
	}
	chunks := make([][]immich.AssetID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end:end])
	}
	return chunks
}
