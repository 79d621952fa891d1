package employee

import "time"

type Employee struct {
	ID        string
	CompanyID string
	FullName  string
	// Phone is stored normalized (see validator.NormalizePhone) and is
	// unique per company; the same number may exist in other tenants.
	Phone     string
	ShiftID   *string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
