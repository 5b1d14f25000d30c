package v1

import (
	"github.com/messmill/backend/internal/types"
	"github.com/messmill/backend/internal/uuid"
)

type URIID struct {
	ID uuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

type URIMealDay struct {
	ID   uuid.UUID  `uri:"id" binding:"required"`     // ID of the student
	Date types.Date `uri:"date" example:"2026-10-14"` // Day of the meals
}

type QueryMonth struct {
	Month types.Month `form:"month" example:"2026-10"` // Year and month
}

// QueryConfirm is the confirmation needed for destructive calls on
// whole collections.
type QueryConfirm struct {
	Confirm string `form:"confirm"`
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// paginate returns the part of items selected by offset and limit.
// A negative limit returns all items after the offset.
func paginate[T any](items []T, offset uint, limit int) []T {
	if offset >= uint(len(items)) {
		return items[:0]
	}
	items = items[offset:]

	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
