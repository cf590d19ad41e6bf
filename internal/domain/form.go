package domain

import (
	"errors"
	"time"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldDropdown FieldType = "dropdown"
	FieldTextarea FieldType = "textarea"
)

var ErrUnknownFieldType = errors.New("unknown field type")

// FieldTypes lists every accepted field type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{FieldText, FieldEmail, FieldNumber, FieldDate, FieldDropdown, FieldTextarea}
}

func ParseFieldType(s string) (FieldType, error) {
	for _, t := range FieldTypes() {
		if string(t) == s {
			return t, nil
		}
	}

	return "", ErrUnknownFieldType
}

type Field struct {
	Type     FieldType `json:"type"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

type Festival struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

// GlobalDropdowns overrides the built-in vocabularies of a form. An empty list
// keeps the default for that vocabulary.
type GlobalDropdowns struct {
	Festivals       []Festival `json:"festivals,omitempty"`
	Denominations   []string   `json:"denominations,omitempty"`
	PaymentModes    []string   `json:"paymentModes,omitempty"`
	PaymentStatuses []string   `json:"paymentStatuses,omitempty"`
}

func (g GlobalDropdowns) IsEmpty() bool {
	return len(g.Festivals) == 0 && len(g.Denominations) == 0 &&
		len(g.PaymentModes) == 0 && len(g.PaymentStatuses) == 0
}

type FormSchema struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Fields          []Field          `json:"fields"`
	GlobalDropdowns *GlobalDropdowns `json:"globalDropdowns,omitempty"`
	CreatedBy       *uint            `json:"createdBy"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}
