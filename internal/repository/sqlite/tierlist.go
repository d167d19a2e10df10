package sqlite

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/tierlist/internal/model"
)

// Row structs mirror the storage schema one-to-one. The domain model
// knows nothing about surrogate category ids or number columns; the
// translation in toStorage/toDomain is the only place both shapes meet.

type tierListRow struct {
	ID         string
	UserID     string
	Name       string
	Categories []categoryRow
}

type categoryRow struct {
	ID         string
	TierListID string
	Number     int
	Name       string
	Elements   []elementLinkRow
}

// elementLinkRow ties an element to a position inside a category. Link
// rows have no id of their own — they are keyed (category id, number).
type elementLinkRow struct {
	CategoryID string
	Number     int
	ElementID  string
}

// toStorage maps a domain tier list to row form. Pure function: it
// touches no storage.
//
// It mints a fresh surrogate id for the tier-list row and for every
// category row — category identity is never stable across writes. The
// number columns are the 0-based positional indices of the domain
// sequences; they are what round-trips the ordering.
func toStorage(tierList *model.TierList) tierListRow {
	row := tierListRow{
		ID:         xid.New().String(),
		UserID:     tierList.UserID,
		Name:       tierList.Name,
		Categories: make([]categoryRow, 0, len(tierList.Categories)),
	}

	for catNum, cat := range tierList.Categories {
		catRow := categoryRow{
			ID:         xid.New().String(),
			TierListID: row.ID,
			Number:     catNum,
			Name:       cat.Name,
			Elements:   make([]elementLinkRow, 0, len(cat.ElementIDs)),
		}
		for elemNum, elementID := range cat.ElementIDs {
			catRow.Elements = append(catRow.Elements, elementLinkRow{
				CategoryID: catRow.ID,
				Number:     elemNum,
				ElementID:  elementID,
			})
		}
		row.Categories = append(row.Categories, catRow)
	}

	return row
}

// withID rebinds a mapped row tree to an existing tier-list identity.
// Used on update, where the incoming domain content replaces the stored
// tier list in place.
func (row tierListRow) withID(tierListID string) tierListRow {
	row.ID = tierListID
	for i := range row.Categories {
		row.Categories[i].TierListID = tierListID
	}
	return row
}

// toDomain is the inverse mapping. Categories must already be sorted by
// number, and each category's links likewise — the queries below
// guarantee that. Only element ids are carried over; resolving them to
// catalog records is the caller's separate lookup.
func toDomain(row tierListRow) model.TierList {
	tierList := model.TierList{
		ID:         row.ID,
		UserID:     row.UserID,
		Name:       row.Name,
		Categories: make([]model.Category, 0, len(row.Categories)),
	}

	for _, catRow := range row.Categories {
		cat := model.Category{
			Name:       catRow.Name,
			ElementIDs: make([]string, 0, len(catRow.Elements)),
		}
		for _, link := range catRow.Elements {
			cat.ElementIDs = append(cat.ElementIDs, link.ElementID)
		}
		tierList.Categories = append(tierList.Categories, cat)
	}

	return tierList
}

// CreateTierList inserts a tier list together with its full
// category/link tree. The generated storage identity is written back to
// tierList.ID.
func (r *txRepo) CreateTierList(ctx context.Context, tierList *model.TierList) error {
	row := toStorage(tierList)

	_, err := r.tx.ExecContext(ctx,
		`INSERT INTO tier_lists (id, user_id, name)
		 VALUES (?, ?, ?)`,
		row.ID,
		row.UserID,
		row.Name,
	)
	if err != nil {
		return constraintErr(err, fmt.Sprintf("sqlite: inserting tier list %s", row.ID))
	}

	if err := r.insertCategoryTree(ctx, row); err != nil {
		return err
	}

	tierList.ID = row.ID
	return nil
}

// GetUserTierLists loads every tier list owned by userID, reconstructed
// through the inverse mapping. Both nesting levels are read ORDER BY
// number ascending — storage insertion order is never relied on.
func (r *txRepo) GetUserTierLists(ctx context.Context, userID string) ([]model.TierList, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT id, user_id, name
		 FROM tier_lists
		 WHERE user_id = ?
		 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tier lists for user %s: %w", userID, err)
	}
	defer rows.Close()

	tierListRows := make([]tierListRow, 0, 1)
	for rows.Next() {
		var row tierListRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tier list row: %w", err)
		}
		tierListRows = append(tierListRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tier lists: %w", err)
	}

	tierLists := make([]model.TierList, 0, len(tierListRows))
	for _, row := range tierListRows {
		row.Categories, err = r.getCategoryRows(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		tierLists = append(tierLists, toDomain(row))
	}

	return tierLists, nil
}

// UpdateTierList replaces the stored tier list wholesale:
//
//  1. map the incoming domain tier list to row form, forced to the
//     existing tier-list identity (fresh ids for every category)
//  2. delete the link rows of the existing categories
//  3. delete the existing category rows
//  4. upsert the tier-list row and reinsert the new category/link tree
//
// This is deliberate full-replace semantics — no diffing against the
// stored tree. If the scope fails mid-sequence the Unit-of-Work rolls
// everything back, so the deletion is never observable without the
// reinsertion.
func (r *txRepo) UpdateTierList(ctx context.Context, tierListID string, tierList *model.TierList) error {
	row := toStorage(tierList).withID(tierListID)

	_, err := r.tx.ExecContext(ctx,
		`DELETE FROM tier_list_elements
		 WHERE tier_list_category_id IN (
			SELECT id FROM tier_list_categories WHERE tier_list_id = ?
		 )`,
		tierListID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting links of tier list %s: %w", tierListID, err)
	}

	_, err = r.tx.ExecContext(ctx,
		`DELETE FROM tier_list_categories WHERE tier_list_id = ?`,
		tierListID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting categories of tier list %s: %w", tierListID, err)
	}

	// INSERT OR REPLACE keeps this a true upsert: it inserts the row if
	// the tier list id is unknown and replaces it otherwise.
	_, err = r.tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO tier_lists (id, user_id, name)
		 VALUES (?, ?, ?)`,
		row.ID,
		row.UserID,
		row.Name,
	)
	if err != nil {
		return constraintErr(err, fmt.Sprintf("sqlite: upserting tier list %s", row.ID))
	}

	return r.insertCategoryTree(ctx, row)
}

// insertCategoryTree inserts the category and link rows of a mapped tier
// list. Shared by CreateTierList and UpdateTierList.
func (r *txRepo) insertCategoryTree(ctx context.Context, row tierListRow) error {
	for _, catRow := range row.Categories {
		_, err := r.tx.ExecContext(ctx,
			`INSERT INTO tier_list_categories (id, tier_list_id, number, name)
			 VALUES (?, ?, ?, ?)`,
			catRow.ID,
			catRow.TierListID,
			catRow.Number,
			catRow.Name,
		)
		if err != nil {
			return constraintErr(err, fmt.Sprintf("sqlite: inserting category %s", catRow.ID))
		}

		for _, link := range catRow.Elements {
			_, err := r.tx.ExecContext(ctx,
				`INSERT INTO tier_list_elements (tier_list_category_id, number, element_id)
				 VALUES (?, ?, ?)`,
				link.CategoryID,
				link.Number,
				link.ElementID,
			)
			if err != nil {
				return constraintErr(err, fmt.Sprintf(
					"sqlite: inserting link %d of category %s", link.Number, link.CategoryID))
			}
		}
	}
	return nil
}

// getCategoryRows loads the category rows of one tier list with their
// links, both levels sorted by number.
func (r *txRepo) getCategoryRows(ctx context.Context, tierListID string) ([]categoryRow, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT id, tier_list_id, number, name
		 FROM tier_list_categories
		 WHERE tier_list_id = ?
		 ORDER BY number`,
		tierListID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories of tier list %s: %w", tierListID, err)
	}
	defer rows.Close()

	categories := make([]categoryRow, 0)
	for rows.Next() {
		var catRow categoryRow
		if err := rows.Scan(&catRow.ID, &catRow.TierListID, &catRow.Number, &catRow.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, catRow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	for i := range categories {
		categories[i].Elements, err = r.getLinkRows(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return categories, nil
}

func (r *txRepo) getLinkRows(ctx context.Context, categoryID string) ([]elementLinkRow, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT tier_list_category_id, number, element_id
		 FROM tier_list_elements
		 WHERE tier_list_category_id = ?
		 ORDER BY number`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing links of category %s: %w", categoryID, err)
	}
	defer rows.Close()

	links := make([]elementLinkRow, 0)
	for rows.Next() {
		var link elementLinkRow
		if err := rows.Scan(&link.CategoryID, &link.Number, &link.ElementID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning link row: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating links: %w", err)
	}

	return links, nil
}
