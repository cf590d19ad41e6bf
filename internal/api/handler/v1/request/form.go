package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vietanh2810/church-members-api/internal/domain"
)

var errFieldType = errors.New("must be one of text, email, number, date, dropdown, textarea")

func knownFieldType(value interface{}) error {
	s, _ := value.(string)
	if _, err := domain.ParseFieldType(s); err != nil {
		return errFieldType
	}
	return nil
}

type FieldRequest struct {
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

func (f FieldRequest) Validate() error {
	return validation.ValidateStruct(
		&f,
		validation.Field(&f.Type, validation.Required, validation.By(knownFieldType)),
		validation.Field(&f.Label, validation.Required, validation.Length(1, 100)),
	)
}

func (f *FieldRequest) sanitize() {
	f.Label = plainText(f.Label)
	f.Options = plainTexts(f.Options)
}

func sanitizeFields(fields []FieldRequest) {
	for i := range fields {
		fields[i].sanitize()
	}
}

func (f FieldRequest) toDomain() domain.Field {
	field := domain.Field{
		Type:     domain.FieldType(f.Type),
		Label:    f.Label,
		Required: f.Required,
	}
	if field.Type == domain.FieldDropdown {
		field.Options = f.Options
	}
	return field
}

func toDomainFields(fields []FieldRequest) []domain.Field {
	out := make([]domain.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.toDomain())
	}
	return out
}

func validateUniqueLabels(fields []FieldRequest) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Label] {
			return errors.New("fields: labels must be unique, " + f.Label + " appears twice")
		}
		seen[f.Label] = true
	}
	return nil
}

type CreateFormRequest struct {
	Name            string                  `json:"name"`
	Fields          []FieldRequest          `json:"fields"`
	GlobalDropdowns *domain.GlobalDropdowns `json:"globalDropdowns,omitempty"`
}

// Sanitize strips markup from the name, labels and options. Call it before
// Validate so that a label made only of tags is reported as blank.
func (req *CreateFormRequest) Sanitize() {
	req.Name = plainText(req.Name)
	sanitizeFields(req.Fields)
	if d := req.GlobalDropdowns; d != nil {
		for i := range d.Festivals {
			d.Festivals[i].Name = plainText(d.Festivals[i].Name)
		}
		d.Denominations = plainTexts(d.Denominations)
		d.PaymentModes = plainTexts(d.PaymentModes)
		d.PaymentStatuses = plainTexts(d.PaymentStatuses)
	}
}

func (req *CreateFormRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Fields),
	)
	if err != nil {
		return err
	}

	return validateUniqueLabels(req.Fields)
}

func (req *CreateFormRequest) ToDomain() domain.FormSchema {
	form := domain.FormSchema{
		Name:   req.Name,
		Fields: toDomainFields(req.Fields),
	}
	if req.GlobalDropdowns != nil && !req.GlobalDropdowns.IsEmpty() {
		form.GlobalDropdowns = req.GlobalDropdowns
	}
	return form
}

// UpdateFormRequest replaces the name and fields of a form.
type UpdateFormRequest struct {
	Name   string         `json:"name"`
	Fields []FieldRequest `json:"fields"`
}

func (req *UpdateFormRequest) Sanitize() {
	req.Name = plainText(req.Name)
	sanitizeFields(req.Fields)
}

func (req *UpdateFormRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Fields),
	)
	if err != nil {
		return err
	}

	return validateUniqueLabels(req.Fields)
}

func (req *UpdateFormRequest) DomainFields() []domain.Field {
	return toDomainFields(req.Fields)
}
