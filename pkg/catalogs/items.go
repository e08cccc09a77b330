package catalogs

// IDs returns the ids of items in fetch order.
func IDs(items []Item) []ID {
	ids := make([]ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Index builds an id lookup over items. When a fetch carries a duplicate id
// the first occurrence wins.
func Index(items []Item) map[ID]Item {
	index := make(map[ID]Item, len(items))
	for _, item := range items {
		if _, exists := index[item.ID]; !exists {
			index[item.ID] = item
		}
	}
	return index
}

// Dedupe drops items with an empty id and later duplicates of an id,
// keeping fetch order.
func Dedupe(items []Item) []Item {
	seen := make(map[ID]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

// SameUniverse reports whether two fetches describe the same catalog, which
// is the case when their id sets overlap.
func SameUniverse(a, b []Item) bool {
	index := Index(a)
	for _, item := range b {
		if _, ok := index[item.ID]; ok {
			return true
		}
	}
	return false
}
