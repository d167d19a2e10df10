package model

// Element is a catalog item that tier-list categories reference by id.
// Elements are global (not owned by any user) and immutable once created.
type Element struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}
