package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinYearCreated is the earliest year a solution may be recorded as created in.
const MinYearCreated = 2000

// Solution is a managed software solution and its cost profile.
type Solution struct {
	ID                   uuid.UUID
	Name                 string
	DepartmentOwner      Department
	DigitalTeamOwner     DigitalTeam
	YearCreated          int
	HealthCategory       HealthCategory
	ManualManagementCost decimal.Decimal
	BaseCost             decimal.Decimal
	// LicenseCost is derived by the persistence layer from BaseCost and is
	// displayed as stored. It is never written by the client.
	LicenseCost decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SolutionFields is the client-writable part of a Solution.
type SolutionFields struct {
	Name                 string
	DepartmentOwner      Department
	DigitalTeamOwner     DigitalTeam
	YearCreated          int
	HealthCategory       HealthCategory
	ManualManagementCost decimal.Decimal
	BaseCost             decimal.Decimal
}

// Fields returns the writable fields of s.
func (s *Solution) Fields() SolutionFields {
	return SolutionFields{
		Name:                 s.Name,
		DepartmentOwner:      s.DepartmentOwner,
		DigitalTeamOwner:     s.DigitalTeamOwner,
		YearCreated:          s.YearCreated,
		HealthCategory:       s.HealthCategory,
		ManualManagementCost: s.ManualManagementCost,
		BaseCost:             s.BaseCost,
	}
}
