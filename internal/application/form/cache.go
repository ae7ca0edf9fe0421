package form

// ListingCache memoizes list results under the logical view path they render
// on. Invalidating a path drops every entry stored under it.
//
// A miss returns the path's current generation. Set must be given that
// generation and stores nothing if the path was invalidated in between, so a
// page read before a write cannot outlive the write's invalidation.
type ListingCache interface {
	Get(path, key string) (value any, generation uint64, ok bool)
	Set(path, key string, generation uint64, value any)
}

// NoopListingCache never stores anything
type NoopListingCache struct{}

// Get always misses
func (NoopListingCache) Get(string, string) (any, uint64, bool) { return nil, 0, false }

// Set discards the value
func (NoopListingCache) Set(string, string, uint64, any) {}
