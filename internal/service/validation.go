package service

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
)

var (
	errRequired  = errors.New("cannot be blank")
	errNotNumber = errors.New("must be a number")
	errNotDate   = errors.New("must be a date (YYYY-MM-DD)")
	errNotOption = errors.New("must be one of the listed options")
	errNotText   = errors.New("must be text")
)

// ValidateData checks bag against the dynamic fields of form. Fields named
// like a built-in are not checked, and keys the schema does not declare are
// accepted as they are. The returned error is a validation.Errors keyed by
// field label.
func ValidateData(form domain.FormSchema, bag domain.DataBag) error {
	errs := validation.Errors{}

	for _, f := range form.Fields {
		if formrender.IsBuiltIn(f.Label) {
			continue
		}

		v, ok := bag.Get(f.Label)
		if !ok || v.IsEmpty() {
			if f.Required {
				errs[f.Label] = errRequired
			}
			continue
		}

		if err := validateValue(f, v); err != nil {
			errs[f.Label] = err
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateValue(f domain.Field, v domain.Value) error {
	switch f.Type {
	case domain.FieldNumber:
		if _, ok := v.Float(); !ok {
			return errNotNumber
		}
	case domain.FieldDate:
		if v.Kind() == domain.KindDate {
			return nil
		}
		if v.Kind() != domain.KindString || !isDate(v.Text()) {
			return errNotDate
		}
	case domain.FieldEmail:
		if v.Kind() != domain.KindString {
			return errNotText
		}
		return is.EmailFormat.Validate(v.Text())
	case domain.FieldDropdown:
		if len(f.Options) == 0 {
			return nil
		}
		for _, opt := range f.Options {
			if opt == v.Text() {
				return nil
			}
		}
		return errNotOption
	case domain.FieldText, domain.FieldTextarea:
	}

	return nil
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
