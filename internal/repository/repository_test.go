package repository_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/repository"
	"github.com/vietanh2810/church-members-api/internal/testutil"
)

func TestEntryRepository_RoundTripKeepsData(t *testing.T) {
	storage := repository.NewGormStorage(testutil.OpenSQLite(t))
	ctx := testutil.TestContext(t)
	repo := repository.NewEntryRepository(storage.Entries)

	var bag domain.DataBag
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":"z","memberName":"Jane","fees":150,"baptised":true}`), &bag))

	created, err := repo.Create(ctx, domain.NewEntry{
		Data:          bag,
		FamilyMembers: []domain.FamilyMember{{Name: "John", Relationship: "Spouse"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST0001", created.EntryID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	out, err := json.Marshal(found.Data)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"z","memberName":"Jane","fees":150,"baptised":true}`, string(out))
	assert.Equal(t, []domain.FamilyMember{{Name: "John", Relationship: "Spouse"}}, found.FamilyMembers)
}

func TestEntryRepository_EmptyFamilyIsEmptySlice(t *testing.T) {
	storage := repository.NewGormStorage(testutil.OpenSQLite(t))
	ctx := testutil.TestContext(t)
	repo := repository.NewEntryRepository(storage.Entries)

	created, err := repo.Create(ctx, domain.NewEntry{})
	require.NoError(t, err)
	assert.NotNil(t, created.FamilyMembers)
	assert.Empty(t, created.FamilyMembers)
	assert.Nil(t, created.Form)
	assert.Nil(t, created.User)
}

func TestFormRepository_GlobalDropdowns(t *testing.T) {
	storage := repository.NewGormStorage(testutil.OpenSQLite(t))
	ctx := testutil.TestContext(t)
	repo := repository.NewFormRepository(storage.Forms)

	plain, err := repo.Create(ctx, domain.FormSchema{Name: "Plain"})
	require.NoError(t, err)
	assert.Nil(t, plain.GlobalDropdowns)
	assert.NotNil(t, plain.Fields)

	custom, err := repo.Create(ctx, domain.FormSchema{
		Name:   "Custom",
		Fields: []domain.Field{{Type: domain.FieldNumber, Label: "Age", Required: true}},
		GlobalDropdowns: &domain.GlobalDropdowns{
			Festivals: []domain.Festival{{Name: "Harvest", Fee: 75}},
		},
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, custom.ID)
	require.NoError(t, err)
	require.NotNil(t, found.GlobalDropdowns)
	assert.Equal(t, []domain.Festival{{Name: "Harvest", Fee: 75}}, found.GlobalDropdowns.Festivals)
	assert.Equal(t, []domain.Field{{Type: domain.FieldNumber, Label: "Age", Required: true}}, found.Fields)
}
