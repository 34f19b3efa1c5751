// Package travels implements travel records: places visited with optional
// coordinates and a visit date, listed by most recent visit.
package travels

import "time"

// Travel represents one travel record. Latitude and longitude are optional
// as a pair; a record carries either both or neither.
type Travel struct {
	ID          int64     `json:"id"`
	Place       string    `json:"place"`
	Description string    `json:"description,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	VisitDate   time.Time `json:"visitDate"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
	IsDeleted   bool      `json:"-"`
}

// CreateTravelRequest holds the data submitted when recording a travel.
// VisitDate is a "2006-01-02" date string.
type CreateTravelRequest struct {
	Place       string   `json:"place" form:"place"`
	Description string   `json:"description" form:"description"`
	Latitude    *float64 `json:"latitude" form:"latitude"`
	Longitude   *float64 `json:"longitude" form:"longitude"`
	VisitDate   string   `json:"visitDate" form:"visitDate"`
}

// UpdateTravelRequest holds the data submitted when editing a travel.
// Nil fields are left unchanged.
type UpdateTravelRequest struct {
	Place       *string  `json:"place" form:"place"`
	Description *string  `json:"description" form:"description"`
	Latitude    *float64 `json:"latitude" form:"latitude"`
	Longitude   *float64 `json:"longitude" form:"longitude"`
	VisitDate   *string  `json:"visitDate" form:"visitDate"`
}

// TravelPage is the envelope returned by paginated listings.
type TravelPage struct {
	Items    []Travel `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}
