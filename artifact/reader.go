package artifact

import (
	"fmt"
	"io/fs"

	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of parsed bundles a Reader keeps.
const DefaultCacheSize = 32

type cacheKey struct {
	path   string
	schema Schema
}

// Reader loads bundles from a file system and caches the parsed result.
// Artifacts are immutable once parsed, so cached values are shared.
type Reader struct {
	fsys  fs.FS
	cache *lru.Cache
}

// NewReader creates a reader over fsys. A non-positive size selects
// DefaultCacheSize.
func NewReader(fsys fs.FS, size int) (*Reader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Reader{fsys: fsys, cache: cache}, nil
}

// Read returns the bundle at path parsed with the given schema.
func (r *Reader) Read(path string, schema Schema) (*Artifact, error) {
	key := cacheKey{path, schema}
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*Artifact), nil
	}
	data, err := fs.ReadFile(r.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	a, err := Parse(data, schema)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	r.cache.Add(key, a)
	log.Debug("Loaded contract artifact", "path", path, "schema", schema, "contract", a.Contract.Name,
		"code", len(a.code), "constructors", len(a.constructors), "messages", len(a.messages))
	return a, nil
}

// Len returns the number of cached bundles.
func (r *Reader) Len() int {
	return r.cache.Len()
}
