package request

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
)

var errMissingData = errors.New("data: cannot be blank")

const maxFamilyText = 100

// validFamily accepts blank rows, which are dropped before saving. A row that
// names a relationship must also name the member.
func validFamily(value interface{}) error {
	members, _ := value.([]domain.FamilyMember)

	errs := validation.Errors{}
	for i, m := range members {
		if m.IsBlank() {
			continue
		}

		var nameRules []validation.Rule
		if strings.TrimSpace(m.Relationship) != "" {
			nameRules = append(nameRules, validation.Required)
		}
		nameRules = append(nameRules, validation.Length(0, maxFamilyText))

		err := validation.ValidateStruct(
			&m,
			validation.Field(&m.Name, nameRules...),
			validation.Field(&m.Relationship, validation.Length(0, maxFamilyText)),
		)
		if err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}

	return errs.Filter()
}

type CreateEntryRequest struct {
	Form          *uint                 `json:"form,omitempty"`
	User          *uint                 `json:"user,omitempty"`
	Data          domain.DataBag        `json:"data"`
	FamilyMembers []domain.FamilyMember `json:"familyMembers"`
}

func (req *CreateEntryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FamilyMembers, validation.By(validFamily)),
	)
}

func (req *CreateEntryRequest) ToDomain() domain.NewEntry {
	return domain.NewEntry{
		FormID:        req.Form,
		UserID:        req.User,
		Data:          req.Data,
		FamilyMembers: req.FamilyMembers,
	}
}

// UpdateEntryRequest replaces the data bag wholesale.
type UpdateEntryRequest struct {
	Data *domain.DataBag `json:"data"`
}

func (req *UpdateEntryRequest) Validate() error {
	if req.Data == nil {
		return errMissingData
	}
	return nil
}

type SubmitFormRequest struct {
	Values        map[string]string     `json:"values"`
	FamilyMembers []domain.FamilyMember `json:"familyMembers"`
}

func (req *SubmitFormRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Values, validation.Required),
		validation.Field(&req.FamilyMembers, validation.By(validFamily)),
	)
}

func (req *SubmitFormRequest) ToSubmission() formrender.Submission {
	return formrender.Submission{
		Values:        req.Values,
		FamilyMembers: req.FamilyMembers,
	}
}
