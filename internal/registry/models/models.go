package models

import "time"

// WorkRecord is the unit of stored work history. Ids are assigned by the
// registry, issued in increasing order from zero, and never reused. All
// creation fields are immutable; only the verification pair changes, once.
type WorkRecord struct {
	ID           uint64     `json:"id"`
	Owner        string     `json:"owner"`
	EmployerName string     `json:"employer_name"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date,omitempty"`
	Verified     bool       `json:"verified"`
	Verifier     string     `json:"verifier,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
}

// Ongoing reports whether the position has no end date.
func (r *WorkRecord) Ongoing() bool {
	return r.EndDate == ""
}

// Clone returns a copy so stores can hand out records without aliasing their
// internal state.
func (r *WorkRecord) Clone() *WorkRecord {
	copied := *r
	if r.VerifiedAt != nil {
		at := *r.VerifiedAt
		copied.VerifiedAt = &at
	}
	return &copied
}
