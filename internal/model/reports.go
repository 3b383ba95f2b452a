package model

import (
	"time"
)

// Report is a single incident report. It is never modified after creation.
type Report struct {
	ID          int64     `json:"id"`
	ImagePath   string    `json:"imagePath"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"fecha"`
}

// CreateReportRequest is bound from the multipart upload form.
type CreateReportRequest struct {
	ImageName   string `form:"imageFile" validate:"required"`
	Location    string `form:"location" validate:"required"`
	Description string `form:"description" validate:"required"`
}

// ListOrder selects the ordering of a report listing.
type ListOrder string

const (
	OrderAscending  ListOrder = "asc"
	OrderDescending ListOrder = "desc"
)

// ParseListOrder falls back to OrderAscending for anything it does not recognise.
func ParseListOrder(s string) ListOrder {
	if ListOrder(s) == OrderDescending {
		return OrderDescending
	}
	return OrderAscending
}
