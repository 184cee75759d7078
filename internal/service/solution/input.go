package solution

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// maxMoney is the largest value a numeric(12,2) column holds.
var maxMoney = decimal.RequireFromString("9999999999.99")

// SaveInput holds the parameters for creating or updating a solution.
// Nil pointers and empty strings are missing values.
type SaveInput struct {
	Name                 string
	DepartmentOwner      domain.Department
	DigitalTeamOwner     domain.DigitalTeam
	YearCreated          *int
	HealthCategory       domain.HealthCategory
	ManualManagementCost *decimal.Decimal
	BaseCost             *decimal.Decimal
	// LicenseCost is accepted for symmetry with the read model and discarded;
	// the persistence layer derives it from BaseCost.
	LicenseCost *decimal.Decimal
}

// Validate checks all fields. When any field is missing only the missing
// fields are reported; otherwise all invalid values are collected.
func (i SaveInput) Validate(now time.Time) error {
	var missing []domain.FieldError
	req := func(field string, ok bool) {
		if !ok {
			missing = append(missing, domain.FieldError{Field: field, Message: "required"})
		}
	}
	req("solution_name", strings.TrimSpace(i.Name) != "")
	req("department_owner", i.DepartmentOwner != "")
	req("digital_team_owner", i.DigitalTeamOwner != "")
	req("year_created", i.YearCreated != nil)
	req("health_score_category", i.HealthCategory != "")
	req("manual_management_cost", i.ManualManagementCost != nil)
	req("base_cost", i.BaseCost != nil)
	if len(missing) > 0 {
		return &domain.ValidationError{Errors: missing}
	}

	var errs []domain.FieldError
	if len(domain.CompactSpaces(i.Name)) > 200 {
		errs = append(errs, domain.FieldError{Field: "solution_name", Message: "max 200 characters"})
	}
	if !i.DepartmentOwner.IsValid() {
		errs = append(errs, domain.FieldError{Field: "department_owner", Message: "unknown department"})
	}
	if !i.DigitalTeamOwner.IsValid() {
		errs = append(errs, domain.FieldError{Field: "digital_team_owner", Message: "unknown digital team"})
	}
	if y := *i.YearCreated; y < domain.MinYearCreated || y > now.Year() {
		errs = append(errs, domain.FieldError{
			Field:   "year_created",
			Message: fmt.Sprintf("must be between %d and %d", domain.MinYearCreated, now.Year()),
		})
	}
	if !i.HealthCategory.IsValid() {
		errs = append(errs, domain.FieldError{Field: "health_score_category", Message: "unknown health category"})
	}
	errs = append(errs, validateMoney("manual_management_cost", *i.ManualManagementCost)...)
	errs = append(errs, validateMoney("base_cost", *i.BaseCost)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateMoney(field string, d decimal.Decimal) []domain.FieldError {
	switch {
	case d.IsNegative():
		return []domain.FieldError{{Field: field, Message: "must be non-negative"}}
	case !d.Equal(d.Round(2)):
		return []domain.FieldError{{Field: field, Message: "at most 2 decimal places"}}
	case d.GreaterThan(maxMoney):
		return []domain.FieldError{{Field: field, Message: "too large"}}
	}
	return nil
}

// fields returns the writable fields. It must only be called after Validate.
func (i SaveInput) fields() domain.SolutionFields {
	return domain.SolutionFields{
		Name:                 domain.CompactSpaces(i.Name),
		DepartmentOwner:      i.DepartmentOwner,
		DigitalTeamOwner:     i.DigitalTeamOwner,
		YearCreated:          *i.YearCreated,
		HealthCategory:       i.HealthCategory,
		ManualManagementCost: *i.ManualManagementCost,
		BaseCost:             *i.BaseCost,
	}
}

// InputFrom builds a SaveInput prefilled from an existing solution.
func InputFrom(s *domain.Solution) SaveInput {
	year := s.YearCreated
	mmc := s.ManualManagementCost
	base := s.BaseCost
	return SaveInput{
		Name:                 s.Name,
		DepartmentOwner:      s.DepartmentOwner,
		DigitalTeamOwner:     s.DigitalTeamOwner,
		YearCreated:          &year,
		HealthCategory:       s.HealthCategory,
		ManualManagementCost: &mmc,
		BaseCost:             &base,
	}
}
