package formrender

import "github.com/vietanh2810/church-members-api/internal/domain"

// Names of the built-in member fields. A dynamic field with one of these
// labels is shadowed by the built-in.
const (
	FieldMemberName     = "memberName"
	FieldEmail          = "email"
	FieldAddress        = "address"
	FieldPhoneNumber    = "phoneNumber"
	FieldAlternatePhone = "alternatePhone"
	FieldFestival       = "festival"
	FieldFees           = "fees"
	FieldDenomination   = "denomination"
	FieldPaymentMode    = "paymentMode"
	FieldPaymentStatus  = "paymentStatus"
)

var builtInNames = map[string]bool{
	FieldMemberName:     true,
	FieldEmail:          true,
	FieldAddress:        true,
	FieldPhoneNumber:    true,
	FieldAlternatePhone: true,
	FieldFestival:       true,
	FieldFees:           true,
	FieldDenomination:   true,
	FieldPaymentMode:    true,
	FieldPaymentStatus:  true,
}

func IsBuiltIn(name string) bool {
	return builtInNames[name]
}

// Vocabulary holds the closed lists offered by the built-in dropdowns.
type Vocabulary struct {
	Festivals       []domain.Festival `json:"festivals"`
	Denominations   []string          `json:"denominations"`
	PaymentModes    []string          `json:"paymentModes"`
	PaymentStatuses []string          `json:"paymentStatuses"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Festivals: []domain.Festival{
			{Name: "Christmas", Fee: 150},
			{Name: "Easter", Fee: 120},
			{Name: "Thanksgiving", Fee: 100},
			{Name: "New Year", Fee: 130},
		},
		Denominations:   []string{"INR"},
		PaymentModes:    []string{"Cash", "Check", "Credit Card", "UPI", "Bank Transfer"},
		PaymentStatuses: []string{"Paid", "Pending", "Part-payment"},
	}
}

// VocabularyFor overlays the schema's global dropdowns on the defaults. Each
// list is replaced only when the schema supplies a non-empty one.
func VocabularyFor(form *domain.FormSchema) Vocabulary {
	v := DefaultVocabulary()
	if form == nil || form.GlobalDropdowns == nil {
		return v
	}

	g := form.GlobalDropdowns
	if len(g.Festivals) > 0 {
		v.Festivals = g.Festivals
	}
	if len(g.Denominations) > 0 {
		v.Denominations = g.Denominations
	}
	if len(g.PaymentModes) > 0 {
		v.PaymentModes = g.PaymentModes
	}
	if len(g.PaymentStatuses) > 0 {
		v.PaymentStatuses = g.PaymentStatuses
	}

	return v
}

// FeeFor returns the fee of the named festival.
func (v Vocabulary) FeeFor(festival string) (float64, bool) {
	for _, f := range v.Festivals {
		if f.Name == festival {
			return f.Fee, true
		}
	}
	return 0, false
}

func (v Vocabulary) festivalNames() []string {
	names := make([]string, 0, len(v.Festivals))
	for _, f := range v.Festivals {
		names = append(names, f.Name)
	}
	return names
}
