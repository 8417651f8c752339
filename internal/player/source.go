package player

import "syncy/internal/cache"

// CachedScheme prefixes source URLs whose audio is available offline;
// the output driver reads those bytes from the cache instead of the
// network.
const CachedScheme = "cache://"

// CachedSource builds a resolver that prefers the offline copy of a
// track and falls back to its direct URL.
func CachedSource(c *cache.Cache) func(string) string {
	return func(url string) string {
		if _, _, ok := c.Get(url); ok {
			return CachedScheme + url
		}
		return url
	}
}
