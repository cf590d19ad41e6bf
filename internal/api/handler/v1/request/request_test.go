package request_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/church-members-api/internal/domain"
)

const pattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`

func TestPasswordPolicy(t *testing.T) {
	policy, err := request.NewPasswordPolicy(pattern)
	require.NoError(t, err)

	assert.NoError(t, policy.Check("secret123"))
	assert.Error(t, policy.Check("secret"))
	assert.Error(t, policy.Check("12345678"))
	assert.Error(t, policy.Check("abcdefgh"))

	var none *request.PasswordPolicy
	assert.NoError(t, none.Check("x"))

	empty, err := request.NewPasswordPolicy("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = request.NewPasswordPolicy("(")
	assert.Error(t, err)
}

func TestRegisterRequest_Validate(t *testing.T) {
	policy, err := request.NewPasswordPolicy(pattern)
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     request.RegisterRequest
		wantErr bool
	}{
		{"valid", request.RegisterRequest{Name: "Dee", Email: "dee@example.com", Password: "secret123"}, false},
		{"admin role", request.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: "admin"}, false},
		{"bad email", request.RegisterRequest{Name: "Dee", Email: "dee", Password: "secret123"}, true},
		{"no name", request.RegisterRequest{Email: "dee@example.com", Password: "secret123"}, true},
		{"unknown role", request.RegisterRequest{Name: "Dee", Email: "dee@example.com", Password: "secret123", Role: "pastor"}, true},
		{"weak password", request.RegisterRequest{Name: "Dee", Email: "dee@example.com", Password: "short1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(policy)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateFormRequest(t *testing.T) {
	var req request.CreateFormRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Intake",
		"fields": [
			{"type": "dropdown", "label": "Parish", "options": ["North"]},
			{"type": "text", "label": "Occupation", "options": ["ignored"]}
		],
		"globalDropdowns": {}
	}`), &req))
	require.NoError(t, req.Validate())

	form := req.ToDomain()
	assert.Equal(t, "Intake", form.Name)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, domain.FieldDropdown, form.Fields[0].Type)
	assert.Equal(t, []string{"North"}, form.Fields[0].Options)
	assert.Nil(t, form.Fields[1].Options)
	assert.Nil(t, form.GlobalDropdowns)

	req.Fields = append(req.Fields, request.FieldRequest{Type: "checkbox", Label: "Agree"})
	assert.Error(t, req.Validate())

	req.Fields = []request.FieldRequest{{Type: "text", Label: "A"}, {Type: "email", Label: "A"}}
	assert.Error(t, req.Validate())

	req.Fields = []request.FieldRequest{{Type: "text"}}
	assert.Error(t, req.Validate())
}

func TestUpdateEntryRequest_RequiresData(t *testing.T) {
	var req request.UpdateEntryRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.Error(t, req.Validate())

	require.NoError(t, json.Unmarshal([]byte(`{"data": {"memberName": "Jane"}}`), &req))
	assert.NoError(t, req.Validate())
	assert.Equal(t, "Jane", req.Data.Text("memberName"))
}

func TestCreateEntryRequest_FamilyMembers(t *testing.T) {
	tests := []struct {
		name    string
		members []domain.FamilyMember
		wantErr bool
	}{
		{name: "named with relationship", members: []domain.FamilyMember{{Name: "Tom", Relationship: "Spouse"}}},
		{name: "blank row", members: []domain.FamilyMember{{}}},
		{name: "name only", members: []domain.FamilyMember{{Name: "Tom"}}},
		{name: "relationship without name", members: []domain.FamilyMember{{Name: "Tom"}, {Relationship: "Son"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request.CreateEntryRequest{FamilyMembers: tt.members}
			err := req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			out, _ := json.Marshal(err)
			assert.JSONEq(t, `{"familyMembers":{"1":{"name":"cannot be blank"}}}`, string(out))
		})
	}
}

func TestSubmitFormRequest_ChecksFamilyMembers(t *testing.T) {
	req := request.SubmitFormRequest{
		Values:        map[string]string{"memberName": "Jane"},
		FamilyMembers: []domain.FamilyMember{{Relationship: "Daughter"}},
	}
	assert.Error(t, req.Validate())

	req.FamilyMembers[0].Name = "Ann"
	assert.NoError(t, req.Validate())
}

func TestCreateFormRequest_Sanitize(t *testing.T) {
	var req request.CreateFormRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "<i>Harvest</i> intake",
		"fields": [
			{"type": "text", "label": "<b>Parish</b>"},
			{"type": "text", "label": "Name & Address"},
			{"type": "dropdown", "label": "Choir", "options": ["<script>x</script>", "Alto"]}
		]
	}`), &req))

	req.Sanitize()
	require.NoError(t, req.Validate())

	form := req.ToDomain()
	assert.Equal(t, "Harvest intake", form.Name)
	require.Len(t, form.Fields, 3)
	assert.Equal(t, "Parish", form.Fields[0].Label)
	assert.Equal(t, "Name & Address", form.Fields[1].Label)
	assert.Equal(t, []string{"Alto"}, form.Fields[2].Options)
}

func TestCreateFormRequest_TagOnlyLabelIsBlank(t *testing.T) {
	var req request.CreateFormRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Intake",
		"fields": [{"type": "text", "label": "<b></b>"}]
	}`), &req))

	req.Sanitize()
	assert.Error(t, req.Validate())
}
