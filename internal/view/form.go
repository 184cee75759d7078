package view

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/internal/service/solution"
)

// Field is one input of the entry form.
type Field string

const (
	FieldName           Field = "solution_name"
	FieldDepartment     Field = "department_owner"
	FieldDigitalTeam    Field = "digital_team_owner"
	FieldYear           Field = "year_created"
	FieldHealth         Field = "health_score_category"
	FieldManagementCost Field = "manual_management_cost"
	FieldBaseCost       Field = "base_cost"
)

// FormFields lists the inputs in entry order.
var FormFields = []Field{
	FieldName, FieldDepartment, FieldDigitalTeam, FieldYear,
	FieldHealth, FieldManagementCost, FieldBaseCost,
}

// Label is the prompt shown for the field.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Solution Name"
	case FieldDepartment:
		return "Department Owner"
	case FieldDigitalTeam:
		return "Digital Team Owner"
	case FieldYear:
		return "Year Created"
	case FieldHealth:
		return "Health Score Category"
	case FieldManagementCost:
		return "Manual Management Cost"
	case FieldBaseCost:
		return "Base Cost"
	}
	return string(f)
}

// FormMode tells whether the form adds or edits a solution.
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// Form is the add/edit form. Values are set from raw text; the license cost
// preview follows the base cost.
type Form struct {
	mode  FormMode
	id    uuid.UUID
	raw   map[Field]string
	input solution.SaveInput
}

func newCreateForm() *Form {
	return &Form{mode: FormCreate, raw: make(map[Field]string)}
}

func newEditForm(s *domain.Solution) *Form {
	f := &Form{
		mode:  FormEdit,
		id:    s.ID,
		input: solution.InputFrom(s),
		raw: map[Field]string{
			FieldName:           s.Name,
			FieldDepartment:     string(s.DepartmentOwner),
			FieldDigitalTeam:    string(s.DigitalTeamOwner),
			FieldYear:           strconv.Itoa(s.YearCreated),
			FieldHealth:         string(s.HealthCategory),
			FieldManagementCost: s.ManualManagementCost.StringFixed(2),
			FieldBaseCost:       s.BaseCost.StringFixed(2),
		},
	}
	return f
}

// Mode returns the form mode.
func (f *Form) Mode() FormMode { return f.mode }

// ID returns the id of the edited solution, or uuid.Nil in create mode.
func (f *Form) ID() uuid.UUID { return f.id }

// Value returns the raw text of field.
func (f *Form) Value(field Field) string { return f.raw[field] }

// Input returns the parsed values.
func (f *Form) Input() solution.SaveInput { return f.input }

// Set parses raw into field. Blank text unsets the field. Text that does not
// parse is rejected and leaves the field unchanged.
func (f *Form) Set(field Field, raw string) error {
	text := strings.TrimSpace(raw)

	switch field {
	case FieldName:
		f.input.Name = raw
	case FieldDepartment:
		if text == "" {
			f.input.DepartmentOwner = ""
			break
		}
		d, err := domain.ParseDepartment(text)
		if err != nil {
			return fieldError(field, err)
		}
		f.input.DepartmentOwner = d
		text = string(d)
	case FieldDigitalTeam:
		if text == "" {
			f.input.DigitalTeamOwner = ""
			break
		}
		t, err := domain.ParseDigitalTeam(text)
		if err != nil {
			return fieldError(field, err)
		}
		f.input.DigitalTeamOwner = t
		text = string(t)
	case FieldYear:
		if text == "" {
			f.input.YearCreated = nil
			break
		}
		y, err := strconv.Atoi(text)
		if err != nil {
			return domain.NewValidationError(string(field), "must be a whole number")
		}
		f.input.YearCreated = &y
	case FieldHealth:
		if text == "" {
			f.input.HealthCategory = ""
			break
		}
		h, err := domain.ParseHealthCategory(text)
		if err != nil {
			return fieldError(field, err)
		}
		f.input.HealthCategory = h
		text = string(h)
	case FieldManagementCost, FieldBaseCost:
		var v *decimal.Decimal
		if text != "" {
			d, err := decimal.NewFromString(text)
			if err != nil {
				return domain.NewValidationError(string(field), "must be a number")
			}
			v = &d
		}
		if field == FieldBaseCost {
			f.input.BaseCost = v
		} else {
			f.input.ManualManagementCost = v
		}
	default:
		return domain.NewValidationError(string(field), "unknown field")
	}

	if field == FieldName {
		f.raw[field] = raw
	} else {
		f.raw[field] = text
	}
	return nil
}

// LicensePreview is the license cost for the current base cost, or "" when
// the base cost is unset.
func (f *Form) LicensePreview() string {
	if f.input.BaseCost == nil {
		return ""
	}
	return domain.FormatMoney(domain.LicenseCost(*f.input.BaseCost))
}

// fieldError re-targets a parse error at the form field name.
func fieldError(field Field, err error) error {
	msg := err.Error()
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) == 1 {
		msg = ve.Errors[0].Message
	}
	return domain.NewValidationError(string(field), msg)
}
