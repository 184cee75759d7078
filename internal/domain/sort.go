package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortColumn identifies a sortable column of the solution table.
type SortColumn string

const (
	SortByName           SortColumn = "name"
	SortByDepartment     SortColumn = "department"
	SortByDigitalTeam    SortColumn = "team"
	SortByYear           SortColumn = "year"
	SortByHealth         SortColumn = "health"
	SortByManagementCost SortColumn = "management_cost"
	SortByBaseCost       SortColumn = "base_cost"
	SortByLicenseCost    SortColumn = "license_cost"
)

// SortColumns lists the table columns in display order.
var SortColumns = []SortColumn{
	SortByName, SortByDepartment, SortByDigitalTeam, SortByYear,
	SortByHealth, SortByManagementCost, SortByBaseCost, SortByLicenseCost,
}

func (c SortColumn) String() string { return string(c) }

func (c SortColumn) IsValid() bool {
	return slices.Contains(SortColumns, c)
}

// Label is the column header shown to the user.
func (c SortColumn) Label() string {
	switch c {
	case SortByName:
		return "Solution Name"
	case SortByDepartment:
		return "Department"
	case SortByDigitalTeam:
		return "Digital Team"
	case SortByYear:
		return "Year"
	case SortByHealth:
		return "Health"
	case SortByManagementCost:
		return "Management Cost"
	case SortByBaseCost:
		return "Base Cost"
	case SortByLicenseCost:
		return "License Cost"
	}
	return string(c)
}

// ParseSortColumn resolves a column from its key, accepting any case.
func ParseSortColumn(s string) (SortColumn, error) {
	c := SortColumn(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", NewValidationError("column", fmt.Sprintf("unknown column %q", s))
	}
	return c, nil
}

// SortState is the current column and direction of the table.
type SortState struct {
	Column SortColumn
	Desc   bool
}

// DefaultSort orders by name ascending.
func DefaultSort() SortState {
	return SortState{Column: SortByName}
}

// Toggle flips the direction when col is already the sort column and
// otherwise switches to col ascending.
func (s SortState) Toggle(col SortColumn) SortState {
	if s.Column == col {
		return SortState{Column: col, Desc: !s.Desc}
	}
	return SortState{Column: col}
}

// SortSolutions returns a sorted copy of list. Text columns use English
// collation, numeric columns compare by value. The sort is stable.
func SortSolutions(list []Solution, state SortState) []Solution {
	out := slices.Clone(list)
	if out == nil {
		out = []Solution{}
	}

	col := collate.New(language.English)
	compare := func(a, b *Solution) int {
		switch state.Column {
		case SortByDepartment:
			return col.CompareString(string(a.DepartmentOwner), string(b.DepartmentOwner))
		case SortByDigitalTeam:
			return col.CompareString(string(a.DigitalTeamOwner), string(b.DigitalTeamOwner))
		case SortByYear:
			return cmp.Compare(a.YearCreated, b.YearCreated)
		case SortByHealth:
			return col.CompareString(string(a.HealthCategory), string(b.HealthCategory))
		case SortByManagementCost:
			return a.ManualManagementCost.Cmp(b.ManualManagementCost)
		case SortByBaseCost:
			return a.BaseCost.Cmp(b.BaseCost)
		case SortByLicenseCost:
			return a.LicenseCost.Cmp(b.LicenseCost)
		default:
			return col.CompareString(a.Name, b.Name)
		}
	}

	slices.SortStableFunc(out, func(a, b Solution) int {
		c := compare(&a, &b)
		if state.Desc {
			return -c
		}
		return c
	})
	return out
}
