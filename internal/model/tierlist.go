package model

// TierList is a user's ranking structure: an ordered sequence of named
// categories, each holding an ordered sequence of element references.
//
// Categories are value types owned by the aggregate — they carry no
// identity of their own. The surrogate keys the storage layer assigns to
// category rows are an implementation detail; every update replaces the
// whole category tree and mints fresh ones, so nothing outside the
// sqlite package may rely on them.
type TierList struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Category is a named, ordered bucket of element references. ElementIDs
// holds catalog Element ids, not resolved records — resolution is a
// separate repository lookup.
type Category struct {
	Name       string   `json:"name"`
	ElementIDs []string `json:"element_ids"`
}
