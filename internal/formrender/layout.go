// Package formrender turns a form schema into the layout a data-entry client
// renders, and turns a filled-in layout back into an entry data bag.
package formrender

import (
	"github.com/vietanh2810/church-members-api/internal/domain"
)

type Control string

const (
	ControlInput    Control = "input"
	ControlSelect   Control = "select"
	ControlTextarea Control = "textarea"
)

type Input struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Control     Control  `json:"control"`
	InputType   string   `json:"inputType,omitempty"`
	Required    bool     `json:"required"`
	ReadOnly    bool     `json:"readOnly,omitempty"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	BuiltIn     bool     `json:"builtIn"`
}

type Section struct {
	Title  string  `json:"title"`
	Inputs []Input `json:"inputs"`
}

// FamilyTemplate describes one repeatable family member row.
type FamilyTemplate struct {
	Inputs []Input `json:"inputs"`
}

type Layout struct {
	FormID       *uint          `json:"formId"`
	FormName     string         `json:"formName,omitempty"`
	Sections     []Section      `json:"sections"`
	FamilyMember FamilyTemplate `json:"familyMember"`
	Vocabulary   Vocabulary     `json:"vocabulary"`
}

const (
	SectionBasic      = "Basic Information"
	SectionContact    = "Contact Information"
	SectionFestival   = "Festival & Payment Details"
	SectionAdditional = "Additional Fields"
)

// BuildLayout merges the built-in member fields with the dynamic fields of
// form. A nil form yields the built-ins alone. Dynamic fields named like a
// built-in are skipped.
func BuildLayout(form *domain.FormSchema) Layout {
	vocab := VocabularyFor(form)

	layout := Layout{
		Sections: []Section{
			{
				Title: SectionBasic,
				Inputs: []Input{
					builtIn(FieldMemberName, "Member Name", "text"),
					builtIn(FieldEmail, "Email", "email"),
					builtInTextarea(FieldAddress, "Address"),
				},
			},
			{
				Title: SectionContact,
				Inputs: []Input{
					builtIn(FieldPhoneNumber, "Phone Number", "tel"),
					builtIn(FieldAlternatePhone, "Alternate Phone", "tel"),
				},
			},
			{
				Title: SectionFestival,
				Inputs: []Input{
					builtInSelect(FieldFestival, "Festival", vocab.festivalNames()),
					builtInFees(),
					builtInSelect(FieldDenomination, "Denomination", vocab.Denominations),
					builtInSelect(FieldPaymentMode, "Payment Mode", vocab.PaymentModes),
					builtInSelect(FieldPaymentStatus, "Payment Status", vocab.PaymentStatuses),
				},
			},
		},
		FamilyMember: FamilyTemplate{
			Inputs: []Input{
				{Name: "name", Label: "Name", Control: ControlInput, InputType: "text", Placeholder: "Enter name"},
				{Name: "relationship", Label: "Relationship", Control: ControlInput, InputType: "text", Placeholder: "Enter relationship"},
			},
		},
		Vocabulary: vocab,
	}

	if form == nil {
		return layout
	}

	layout.FormID = &form.ID
	layout.FormName = form.Name

	var additional []Input
	for _, f := range form.Fields {
		if IsBuiltIn(f.Label) {
			continue
		}
		additional = append(additional, inputFor(f))
	}
	if len(additional) > 0 {
		layout.Sections = append(layout.Sections, Section{Title: SectionAdditional, Inputs: additional})
	}

	return layout
}

// Inputs returns every input of the layout in display order.
func (l Layout) Inputs() []Input {
	var inputs []Input
	for _, s := range l.Sections {
		inputs = append(inputs, s.Inputs...)
	}
	return inputs
}

func inputFor(f domain.Field) Input {
	in := Input{
		Name:     f.Label,
		Label:    f.Label,
		Required: f.Required,
	}

	// Stored schemas predating the closed type list render as text.
	t, err := domain.ParseFieldType(string(f.Type))
	if err != nil {
		t = domain.FieldText
	}

	switch t {
	case domain.FieldDropdown:
		in.Control = ControlSelect
		in.Options = f.Options
		in.Placeholder = "Select " + f.Label
	case domain.FieldTextarea:
		in.Control = ControlTextarea
		in.Placeholder = "Enter " + f.Label
	default:
		in.Control = ControlInput
		in.InputType = string(t)
		in.Placeholder = "Enter " + f.Label
	}

	return in
}

func builtIn(name, label, inputType string) Input {
	return Input{
		Name:        name,
		Label:       label,
		Control:     ControlInput,
		InputType:   inputType,
		Placeholder: "Enter " + label,
		BuiltIn:     true,
	}
}

func builtInTextarea(name, label string) Input {
	return Input{
		Name:        name,
		Label:       label,
		Control:     ControlTextarea,
		Placeholder: "Enter " + label,
		BuiltIn:     true,
	}
}

func builtInSelect(name, label string, options []string) Input {
	return Input{
		Name:        name,
		Label:       label,
		Control:     ControlSelect,
		Options:     options,
		Placeholder: "Select " + label,
		BuiltIn:     true,
	}
}

func builtInFees() Input {
	return Input{
		Name:      FieldFees,
		Label:     "Fees",
		Control:   ControlInput,
		InputType: string(domain.FieldNumber),
		ReadOnly:  true,
		BuiltIn:   true,
	}
}
