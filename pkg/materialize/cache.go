package materialize

import (
	"sync"

	"github.com/ptoluganti/bicep/pkg/schema"
	"github.com/ptoluganti/bicep/pkg/types"
)

// typeCache memoizes materialized types by schema node identity for one
// session. Keys are the node pointers themselves: two structurally equal
// but distinct nodes cache independently, and every path that reaches the
// same node yields the identical type instance.
type typeCache struct {
	mu      sync.Mutex
	entries map[schema.Type]types.Type
}

func newTypeCache() *typeCache {
	return &typeCache{entries: make(map[schema.Type]types.Type)}
}

// getOrCreate returns the cached type for node, invoking factory at most
// once per node identity. A failed factory caches nothing: partial results
// never back a node's identity.
//
// The lock is held across the factory call. Factories must not re-enter
// the cache; the materializer guarantees this by deferring every child
// conversion behind a reference thunk instead of recursing inside a
// factory.
func (c *typeCache) getOrCreate(node schema.Type, factory func() (types.Type, error)) (types.Type, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.entries[node]; ok {
		return t, nil
	}
	t, err := factory()
	if err != nil {
		return nil, err
	}
	c.entries[node] = t
	return t, nil
}
