package formrender

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vietanh2810/church-members-api/internal/domain"
)

const dateLayout = "2006-01-02"

// Submission holds the raw values of a filled-in layout, keyed by input name.
type Submission struct {
	Values        map[string]string     `json:"values"`
	FamilyMembers []domain.FamilyMember `json:"familyMembers"`
}

// Assemble builds the entry data bag from a submission. Values follow the
// layout order; empty values are dropped, number and date inputs are coerced,
// and fees are filled in from the selected festival. Values for names the
// layout does not know are kept as text after the known ones, sorted by name.
// Blank family rows are dropped.
func Assemble(layout Layout, sub Submission) (domain.DataBag, []domain.FamilyMember, error) {
	var bag domain.DataBag
	errs := validation.Errors{}
	known := make(map[string]bool)

	for _, in := range layout.Inputs() {
		known[in.Name] = true
		if in.Name == FieldFees {
			continue
		}

		raw := strings.TrimSpace(sub.Values[in.Name])
		if raw == "" {
			continue
		}

		v, err := coerce(in, raw)
		if err != nil {
			errs[in.Name] = err
			continue
		}
		bag.Set(in.Name, v)

		if in.Name == FieldFestival {
			fee, _ := layout.Vocabulary.FeeFor(raw)
			bag.Set(FieldFees, domain.Number(fee))
		}
	}

	var extra []string
	for name := range sub.Values {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		if raw := strings.TrimSpace(sub.Values[name]); raw != "" {
			bag.Set(name, domain.String(raw))
		}
	}

	if len(errs) > 0 {
		return domain.DataBag{}, nil, errs
	}

	family := make([]domain.FamilyMember, 0, len(sub.FamilyMembers))
	for _, m := range sub.FamilyMembers {
		m.Name = strings.TrimSpace(m.Name)
		m.Relationship = strings.TrimSpace(m.Relationship)
		if m.IsBlank() {
			continue
		}
		family = append(family, m)
	}

	return bag, family, nil
}

func coerce(in Input, raw string) (domain.Value, error) {
	switch in.InputType {
	case string(domain.FieldNumber):
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Value{}, errors.New("must be a number")
		}
		return domain.Number(n), nil
	case string(domain.FieldDate):
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.Value{}, errors.New("must be a date in YYYY-MM-DD format")
		}
		return domain.Date(t), nil
	default:
		return domain.String(raw), nil
	}
}
