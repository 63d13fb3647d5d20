package recommend

import (
	"fmt"
	"sync"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// IndexCache keeps the last Index built for each key (one per catalog kind)
// and hands it back while the ordered blobs are unchanged. The catalog is
// still read per request; only the O(N^2) build is skipped.
type IndexCache struct {
	mu      sync.Mutex
	entries map[string]cachedIndex
}

type cachedIndex struct {
	fingerprint uint64
	n           int
	index       *Index
}

func NewIndexCache() *IndexCache {
	return &IndexCache{entries: make(map[string]cachedIndex)}
}

// Get returns the Index for blobs, building it on a fingerprint miss. The
// second result reports whether a cached Index was reused.
func (c *IndexCache) Get(key string, blobs []string) (*Index, bool) {
	fp := Fingerprint(blobs)

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if ok && e.fingerprint == fp && e.n == len(blobs) {
		return e.index, true
	}

	idx := BuildIndex(blobs)

	c.mu.Lock()
	c.entries[key] = cachedIndex{fingerprint: fp, n: len(blobs), index: idx}
	c.mu.Unlock()
	return idx, false
}

// Fingerprint hashes the ordered blobs. A zero byte separates entries so
// that ["ab","c"] and ["a","bc"] differ.
func Fingerprint(blobs []string) uint64 {
	d := xxhash.New()
	for _, b := range blobs {
		_, _ = d.WriteString(b)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// CatalogVersion hashes every field of items in catalog order. Any edit to
// the catalog, including ones that leave the feature blobs untouched such as
// a new age rating or poster, yields a different version.
func CatalogVersion(items []domain.CatalogItem) (uint64, error) {
	d := xxhash.New()
	enc := json.NewEncoder(d)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return 0, fmt.Errorf("hash catalog item %d: %w", item.ID, err)
		}
	}
	return d.Sum64(), nil
}
