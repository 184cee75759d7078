package domain

import (
	"fmt"
	"strings"
)

// Department is the organizational department that owns a solution.
type Department string

const (
	DepartmentPMO              Department = "PMO"
	DepartmentCustomer         Department = "Customer"
	DepartmentSales            Department = "Sales"
	DepartmentInfram           Department = "Infram"
	DepartmentProduct          Department = "Product"
	DepartmentMarketing        Department = "Marketing"
	DepartmentInstitutional    Department = "Institutional"
	DepartmentInvestmentOps    Department = "Investment Ops"
	DepartmentFinance          Department = "Finance"
	DepartmentDigitalSolutions Department = "Digital solutions"
	DepartmentDFMOps           Department = "DFM Ops"
)

// Departments lists every department in display order.
var Departments = []Department{
	DepartmentPMO, DepartmentCustomer, DepartmentSales, DepartmentInfram,
	DepartmentProduct, DepartmentMarketing, DepartmentInstitutional,
	DepartmentInvestmentOps, DepartmentFinance, DepartmentDigitalSolutions,
	DepartmentDFMOps,
}

func (d Department) String() string { return string(d) }

func (d Department) IsValid() bool {
	switch d {
	case DepartmentPMO, DepartmentCustomer, DepartmentSales, DepartmentInfram,
		DepartmentProduct, DepartmentMarketing, DepartmentInstitutional,
		DepartmentInvestmentOps, DepartmentFinance, DepartmentDigitalSolutions,
		DepartmentDFMOps:
		return true
	}
	return false
}

// DigitalTeam is the digital team that owns a solution.
type DigitalTeam string

const (
	DigitalTeamEngineering   DigitalTeam = "Engineering"
	DigitalTeamBI            DigitalTeam = "BI"
	DigitalTeamPowerPlatform DigitalTeam = "Power Platform"
	DigitalTeamInsights      DigitalTeam = "Insights"
)

// DigitalTeams lists every digital team in display order.
var DigitalTeams = []DigitalTeam{
	DigitalTeamEngineering, DigitalTeamBI, DigitalTeamPowerPlatform, DigitalTeamInsights,
}

func (t DigitalTeam) String() string { return string(t) }

func (t DigitalTeam) IsValid() bool {
	switch t {
	case DigitalTeamEngineering, DigitalTeamBI, DigitalTeamPowerPlatform, DigitalTeamInsights:
		return true
	}
	return false
}

// HealthCategory classifies the health score of a solution.
type HealthCategory string

const (
	HealthCritical HealthCategory = "Critical"
	HealthAverage  HealthCategory = "Average"
	HealthHealthy  HealthCategory = "Healthy"
)

// HealthCategories lists every health category in display order.
var HealthCategories = []HealthCategory{HealthCritical, HealthAverage, HealthHealthy}

func (h HealthCategory) String() string { return string(h) }

func (h HealthCategory) IsValid() bool {
	switch h {
	case HealthCritical, HealthAverage, HealthHealthy:
		return true
	}
	return false
}

// SessionState is the lifecycle state of the signed-in session.
type SessionState string

const (
	SessionUnknown         SessionState = "UNKNOWN"
	SessionAuthenticated   SessionState = "AUTHENTICATED"
	SessionUnauthenticated SessionState = "UNAUTHENTICATED"
)

func (s SessionState) String() string { return string(s) }

func (s SessionState) IsValid() bool {
	switch s {
	case SessionUnknown, SessionAuthenticated, SessionUnauthenticated:
		return true
	}
	return false
}

// ParseDepartment resolves a department by name, ignoring case and
// surrounding space.
func ParseDepartment(s string) (Department, error) {
	return parseEnum(s, "department", Departments)
}

// ParseDigitalTeam resolves a digital team by name, ignoring case and
// surrounding space.
func ParseDigitalTeam(s string) (DigitalTeam, error) {
	return parseEnum(s, "digital_team", DigitalTeams)
}

// ParseHealthCategory resolves a health category by name, ignoring case and
// surrounding space.
func ParseHealthCategory(s string) (HealthCategory, error) {
	return parseEnum(s, "health", HealthCategories)
}

func parseEnum[T ~string](s, field string, values []T) (T, error) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	var zero T
	return zero, NewValidationError(field, fmt.Sprintf("must be one of: %s", strings.Join(names, ", ")))
}
