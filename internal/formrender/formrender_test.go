package formrender

import (
	"encoding/json"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/church-members-api/internal/domain"
)

func testForm() *domain.FormSchema {
	return &domain.FormSchema{
		ID:   3,
		Name: "Harvest intake",
		Fields: []domain.Field{
			{Type: domain.FieldText, Label: "memberName"},
			{Type: domain.FieldNumber, Label: "Age", Required: true},
			{Type: domain.FieldDate, Label: "Baptism Date"},
			{Type: domain.FieldDropdown, Label: "Choir", Options: []string{"Alto", "Bass"}},
			{Type: domain.FieldTextarea, Label: "Notes"},
		},
	}
}

func sectionTitles(l Layout) []string {
	var titles []string
	for _, s := range l.Sections {
		titles = append(titles, s.Title)
	}
	return titles
}

func TestBuildLayout_NoForm(t *testing.T) {
	l := BuildLayout(nil)

	assert.Nil(t, l.FormID)
	assert.Equal(t, []string{SectionBasic, SectionContact, SectionFestival}, sectionTitles(l))
	assert.Len(t, l.Inputs(), 10)
	for _, in := range l.Inputs() {
		assert.True(t, in.BuiltIn, in.Name)
	}
	assert.Len(t, l.FamilyMember.Inputs, 2)
}

func TestBuildLayout_MergesDynamicFields(t *testing.T) {
	l := BuildLayout(testForm())

	require.Equal(t, []string{SectionBasic, SectionContact, SectionFestival, SectionAdditional}, sectionTitles(l))

	additional := l.Sections[3].Inputs
	require.Len(t, additional, 4, "the memberName field is shadowed by the built-in")

	assert.Equal(t, "Age", additional[0].Name)
	assert.Equal(t, ControlInput, additional[0].Control)
	assert.Equal(t, "number", additional[0].InputType)
	assert.True(t, additional[0].Required)

	assert.Equal(t, "date", additional[1].InputType)

	assert.Equal(t, ControlSelect, additional[2].Control)
	assert.Equal(t, []string{"Alto", "Bass"}, additional[2].Options)

	assert.Equal(t, ControlTextarea, additional[3].Control)
}

func TestBuildLayout_UnknownStoredTypeRendersAsText(t *testing.T) {
	form := &domain.FormSchema{Fields: []domain.Field{
		{Type: domain.FieldType("checkbox"), Label: "Volunteer", Options: []string{"Yes"}},
	}}

	additional := BuildLayout(form).Sections[3].Inputs
	require.Len(t, additional, 1)
	assert.Equal(t, ControlInput, additional[0].Control)
	assert.Equal(t, "text", additional[0].InputType)
	assert.Empty(t, additional[0].Options)
}

func TestBuildLayout_BuiltInControls(t *testing.T) {
	l := BuildLayout(nil)

	byName := map[string]Input{}
	for _, in := range l.Inputs() {
		byName[in.Name] = in
	}

	assert.Equal(t, "tel", byName[FieldPhoneNumber].InputType)
	assert.Equal(t, "tel", byName[FieldAlternatePhone].InputType)
	assert.Equal(t, ControlTextarea, byName[FieldAddress].Control)
	assert.True(t, byName[FieldFees].ReadOnly)
	assert.Equal(t, []string{"Christmas", "Easter", "Thanksgiving", "New Year"}, byName[FieldFestival].Options)
	assert.Equal(t, []string{"Cash", "Check", "Credit Card", "UPI", "Bank Transfer"}, byName[FieldPaymentMode].Options)
	assert.Equal(t, []string{"Paid", "Pending", "Part-payment"}, byName[FieldPaymentStatus].Options)
	assert.Equal(t, []string{"INR"}, byName[FieldDenomination].Options)
}

func TestVocabularyFor_GlobalDropdownsOverride(t *testing.T) {
	form := testForm()
	form.GlobalDropdowns = &domain.GlobalDropdowns{
		Festivals: []domain.Festival{{Name: "Harvest", Fee: 75}},
	}

	v := VocabularyFor(form)
	assert.Equal(t, []domain.Festival{{Name: "Harvest", Fee: 75}}, v.Festivals)
	assert.Equal(t, DefaultVocabulary().PaymentModes, v.PaymentModes)

	fee, ok := v.FeeFor("Harvest")
	assert.True(t, ok)
	assert.Equal(t, 75.0, fee)

	_, ok = v.FeeFor("Christmas")
	assert.False(t, ok)
}

func TestAssemble(t *testing.T) {
	l := BuildLayout(testForm())

	bag, family, err := Assemble(l, Submission{
		Values: map[string]string{
			FieldMemberName: " Jane ",
			FieldFestival:   "Easter",
			FieldFees:       "1",
			FieldEmail:      "",
			"Age":           "34",
			"Baptism Date":  "2001-05-20",
			"Legacy":        "kept",
		},
		FamilyMembers: []domain.FamilyMember{
			{Name: "John", Relationship: "Spouse"},
			{Name: " ", Relationship: ""},
		},
	})
	require.NoError(t, err)

	out, err := json.Marshal(bag)
	require.NoError(t, err)
	assert.Equal(t, `{"memberName":"Jane","festival":"Easter","fees":120,"Age":34,"Baptism Date":"2001-05-20","Legacy":"kept"}`, string(out))
	assert.Equal(t, []domain.FamilyMember{{Name: "John", Relationship: "Spouse"}}, family)
}

func TestAssemble_UnknownFestivalHasZeroFee(t *testing.T) {
	bag, _, err := Assemble(BuildLayout(nil), Submission{Values: map[string]string{FieldFestival: "Pentecost"}})
	require.NoError(t, err)

	v, ok := bag.Get(FieldFees)
	require.True(t, ok)
	assert.Equal(t, "0", v.Text())
}

func TestAssemble_CoercionErrors(t *testing.T) {
	_, _, err := Assemble(BuildLayout(testForm()), Submission{Values: map[string]string{
		"Age":          "thirty",
		"Baptism Date": "20/05/2001",
	}})
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "Age")
	assert.Contains(t, errs, "Baptism Date")
}

func TestConfirm(t *testing.T) {
	var bag domain.DataBag
	bag.Set(FieldMemberName, domain.String("Jane Doe"))
	bag.Set(FieldPhoneNumber, domain.String("+91 98765 43210"))
	bag.Set(FieldEmail, domain.String(""))
	bag.Set(FieldFees, domain.Number(150))

	c := Confirm(domain.Entry{EntryID: "CUST0007", Data: bag})

	assert.Equal(t, "Hello Jane Doe, your church entry has been saved!\nEntry ID: CUST0007\n\nDetails:\n"+
		"memberName: Jane Doe\nphoneNumber: +91 98765 43210\nfees: 150", c.Message)
	assert.Contains(t, c.Link, "https://wa.me/919876543210?text=Hello%20Jane%20Doe")
}

func TestConfirmationMessage_KeepsValuesAsEntered(t *testing.T) {
	var bag domain.DataBag
	bag.Set(FieldMemberName, domain.String("Jane <Doe>"))
	bag.Set("notes", domain.String("contact <jane@example.com> if late"))
	bag.Set("<b>Remarks</b>", domain.String("a < b & c"))

	msg := ConfirmationMessage(domain.Entry{EntryID: "CUST0002", Data: bag})

	assert.Contains(t, msg, "Hello Jane <Doe>,")
	assert.Contains(t, msg, "\nnotes: contact <jane@example.com> if late")
	assert.Contains(t, msg, "\n<b>Remarks</b>: a < b & c")
}

func TestConfirmationMessage_SkipsZeroAndFalse(t *testing.T) {
	var bag domain.DataBag
	bag.Set(FieldMemberName, domain.String("Jane"))
	bag.Set(FieldFestival, domain.String("Harvest"))
	bag.Set(FieldFees, domain.Number(0))
	bag.Set("newcomer", domain.Bool(false))
	bag.Set("volunteer", domain.Bool(true))
	bag.Set("pew", domain.String("0"))

	msg := ConfirmationMessage(domain.Entry{EntryID: "CUST0003", Data: bag})

	assert.True(t, strings.HasSuffix(msg, "Details:\nmemberName: Jane\nfestival: Harvest\nvolunteer: true\npew: 0"), msg)
}

func TestConfirm_NoPhone(t *testing.T) {
	var bag domain.DataBag
	bag.Set(FieldMemberName, domain.String("O'Neil & Sons"))

	c := Confirm(domain.Entry{EntryID: "CUST0001", Data: bag})
	assert.Equal(t, "", c.Link)
	assert.Contains(t, c.Message, "Hello O'Neil & Sons,")
}
