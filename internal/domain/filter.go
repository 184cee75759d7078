package domain

// Criteria is the filter triple applied to the solution list. An empty value
// is a wildcard.
type Criteria struct {
	Department  Department
	DigitalTeam DigitalTeam
	Health      HealthCategory
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c.Department == "" && c.DigitalTeam == "" && c.Health == ""
}

// Matches reports whether s satisfies every set criterion by exact equality.
func (c Criteria) Matches(s *Solution) bool {
	if c.Department != "" && s.DepartmentOwner != c.Department {
		return false
	}
	if c.DigitalTeam != "" && s.DigitalTeamOwner != c.DigitalTeam {
		return false
	}
	if c.Health != "" && s.HealthCategory != c.Health {
		return false
	}
	return true
}

// Validate rejects criteria values outside the fixed enumerations.
func (c Criteria) Validate() error {
	var errs []FieldError
	if c.Department != "" && !c.Department.IsValid() {
		errs = append(errs, FieldError{Field: "department", Message: "unknown department"})
	}
	if c.DigitalTeam != "" && !c.DigitalTeam.IsValid() {
		errs = append(errs, FieldError{Field: "digital_team", Message: "unknown digital team"})
	}
	if c.Health != "" && !c.Health.IsValid() {
		errs = append(errs, FieldError{Field: "health", Message: "unknown health category"})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// FilterSolutions returns the solutions matching c, preserving order.
func FilterSolutions(list []Solution, c Criteria) []Solution {
	out := make([]Solution, 0, len(list))
	for i := range list {
		if c.Matches(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}
