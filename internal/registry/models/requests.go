package models

import (
	"strings"
	"time"

	dErrors "workledger/pkg/domain-errors"
)

// DateLayout is the wire format for start and end dates. Dates are stored as
// the submitted strings so reads are byte-identical; the layout is only used
// to validate them once at the boundary.
const DateLayout = "2006-01-02"

// AddRecordRequest carries the caller-supplied fields of a new work record.
// The owner is never part of the request body; it comes from the
// authenticated identity.
type AddRecordRequest struct {
	EmployerName string `json:"employer_name"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
}

// Sanitize trims surrounding whitespace from all text fields.
func (r *AddRecordRequest) Sanitize() {
	r.EmployerName = strings.TrimSpace(r.EmployerName)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

// Validate enforces the creation contract: required text fields must be
// present, dates must parse, and an end date may not precede the start date.
// An absent end date signals an ongoing position.
func (r *AddRecordRequest) Validate() error {
	if r.EmployerName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "employer_name is required")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}
	if r.Description == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "description is required")
	}
	if r.StartDate == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "start_date is required")
	}
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "start_date must be formatted as YYYY-MM-DD")
	}
	if r.EndDate != "" {
		end, err := time.Parse(DateLayout, r.EndDate)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "end_date must be formatted as YYYY-MM-DD")
		}
		if end.Before(start) {
			return dErrors.New(dErrors.CodeInvalidInput, "end_date must not precede start_date")
		}
	}
	return nil
}

// AddRecordResponse returns the id assigned to a newly stored record.
type AddRecordResponse struct {
	ID uint64 `json:"id"`
}

// TotalRecordsResponse reports how many records the registry has ever created.
type TotalRecordsResponse struct {
	Total uint64 `json:"total"`
}
