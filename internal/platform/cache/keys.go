package cache

import (
	"fmt"
	"strings"
)

// Key builders derive deterministic cache keys from logical request
// identity. Usernames are lowercased so equivalent lookups share an entry.

// PlayerKey returns the cache key for a player lookup.
func PlayerKey(name string) string {
	return fmt.Sprintf("player:%s", strings.ToLower(name))
}

// ItemKey returns the cache key for a single item lookup.
func ItemKey(id string) string {
	return fmt.Sprintf("item:%s", id)
}

// ItemSearchKey returns the cache key for a paginated item search.
func ItemSearchKey(query string, limit, offset int) string {
	return fmt.Sprintf("itemsearch:%s:%d:%d", strings.ToLower(query), limit, offset)
}

// BanKey returns the cache key for a ban status lookup.
func BanKey(name string) string {
	return fmt.Sprintf("ban:%s", strings.ToLower(name))
}

// StatsKey returns the cache key for global marketplace statistics.
func StatsKey() string {
	return "stats"
}

// PriceHistoryKey returns the cache key for an item's price history.
func PriceHistoryKey(itemID string, days int) string {
	return fmt.Sprintf("history:%s:%d", itemID, days)
}
