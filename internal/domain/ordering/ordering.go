// Package ordering implements the display_order swap used by every admin list.
package ordering

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", ErrInvalidDirection
}

// Item is one row of an ordered list.
type Item struct {
	ID           uuid.UUID
	DisplayOrder int
}

// Write is a single-row display_order update.
type Write struct {
	ID           uuid.UUID
	DisplayOrder int
}

// PlanMove returns the two writes that swap items[index] with its neighbour
// in the given direction. ok is false when the move is a no-op (top item
// moved up, bottom item moved down, index out of range).
func PlanMove(items []Item, index int, dir Direction) (writes [2]Write, ok bool) {
	if index < 0 || index >= len(items) {
		return writes, false
	}
	neighbour := index - 1
	if dir == Down {
		neighbour = index + 1
	}
	if neighbour < 0 || neighbour >= len(items) {
		return writes, false
	}
	target, other := items[index], items[neighbour]
	writes[0] = Write{ID: target.ID, DisplayOrder: other.DisplayOrder}
	writes[1] = Write{ID: other.ID, DisplayOrder: target.DisplayOrder}
	return writes, true
}

// IndexOf finds id in items, -1 when absent.
func IndexOf(items []Item, id uuid.UUID) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the display_order for a row appended to items.
func Next(items []Item) int {
	next := 0
	for _, it := range items {
		if it.DisplayOrder >= next {
			next = it.DisplayOrder + 1
		}
	}
	return next
}

// Scope names an ordered list: a table plus an optional parent filter
// (gallery_media within one gallery, product_images within one product).
type Scope struct {
	Table    Table
	ParentID *uuid.UUID
}

type Table string

const (
	TableEvents        Table = "events"
	TableGalleries     Table = "galleries"
	TableGalleryMedia  Table = "gallery_media"
	TableTimeline      Table = "timeline_entries"
	TableProducts      Table = "products"
	TableProductImages Table = "product_images"
)

// ParentColumn is the scoping column for child tables, empty for top-level lists.
func (t Table) ParentColumn() string {
	switch t {
	case TableGalleryMedia:
		return "gallery_id"
	case TableProductImages:
		return "product_id"
	}
	return ""
}

func (t Table) Valid() bool {
	switch t {
	case TableEvents, TableGalleries, TableGalleryMedia, TableTimeline, TableProducts, TableProductImages:
		return true
	}
	return false
}

var (
	ErrInvalidDirection = errors.New("direction must be up or down")
	ErrInvalidTable     = errors.New("table is not orderable")
	ErrItemNotInScope   = errors.New("item not found in its list")
)

type Repository interface {
	// ListItems returns the scope's rows sorted by display_order, then created_at.
	ListItems(ctx context.Context, scope Scope) ([]Item, error)
	// ParentOf returns the parent id of a child row (nil for top-level tables).
	ParentOf(ctx context.Context, table Table, id uuid.UUID) (*uuid.UUID, error)
	SetDisplayOrder(ctx context.Context, table Table, w Write) error
}
