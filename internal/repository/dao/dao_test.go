package dao_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/church-members-api/internal/pkg/entryid"
	"github.com/vietanh2810/church-members-api/internal/repository/dao"
	"github.com/vietanh2810/church-members-api/internal/testutil"
)

func TestUserDAO_EmailUniquePerRole(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := testutil.TestContext(t)
	d := dao.NewUserDAO(db)

	_, err := d.Insert(ctx, dao.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: "admin"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, dao.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: "data-entry"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, dao.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: "admin"})
	assert.ErrorIs(t, err, dao.ErrUserEmailExists)

	found, err := d.FindByEmailAndRole(ctx, "ann@example.com", "data-entry")
	require.NoError(t, err)
	assert.Equal(t, "data-entry", found.Role)

	_, err = d.FindByEmailAndRole(ctx, "bob@example.com", "admin")
	assert.ErrorIs(t, err, dao.ErrUserNotFound)
}

func TestUserDAO_UpdateAndDelete(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := testutil.TestContext(t)
	d := dao.NewUserDAO(db)

	u, err := d.Insert(ctx, dao.User{Name: "Ann", Email: "ann@example.com", Password: "hash", Role: "data-entry"})
	require.NoError(t, err)

	updated, err := d.UpdateProfile(ctx, u.ID, "Annie", "annie@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "annie@example.com", updated.Email)
	assert.Equal(t, "hash", updated.Password)

	_, err = d.UpdateProfile(ctx, u.ID+100, "x", "x@example.com")
	assert.ErrorIs(t, err, dao.ErrUserNotFound)

	users, err := d.FindByRole(ctx, "data-entry")
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, d.Delete(ctx, u.ID))
	assert.ErrorIs(t, d.Delete(ctx, u.ID), dao.ErrUserNotFound)
}

func TestEntryDAO_SequentialIDs(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := testutil.TestContext(t)
	d := dao.NewEntryDAO(db)

	for i := 1; i <= 5; i++ {
		e, err := d.Insert(ctx, dao.Entry{Data: `{"memberName":"Jane"}`})
		require.NoError(t, err)
		assert.Equal(t, entryid.Format(uint64(i)), e.EntryID)
	}
}

func TestEntryDAO_ConcurrentInsertsGetDistinctIDs(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := testutil.TestContext(t)
	d := dao.NewEntryDAO(db)

	const n = 20
	ids := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := d.Insert(ctx, dao.Entry{Data: `{}`})
			ids[i], errs[i] = e.EntryID, err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	sort.Strings(ids)
	for i, id := range ids {
		assert.Equal(t, entryid.Format(uint64(i+1)), id)
	}
}

func TestEntryDAO_SeedsCounterFromLatestEntry(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := testutil.TestContext(t)
	d := dao.NewEntryDAO(db)

	require.NoError(t, db.Create(&dao.Entry{EntryID: "CUST0041", Data: `{}`, FamilyMembers: nil}).Error)
	require.NoError(t, db.Where("1 = 1").Delete(&dao.EntryCounter{}).Error)

	e, err := d.Insert(ctx, dao.Entry{Data: `{}`})
	require.NoError(t, err)
	assert.Equal(t, "CUST0042", e.EntryID)
}

func TestEntryDAO_UpdateDeleteAndResolve(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := testutil.TestContext(t)
	users := dao.NewUserDAO(db)
	forms := dao.NewFormDAO(db)
	entries := dao.NewEntryDAO(db)

	u, err := users.Insert(ctx, dao.User{Name: "Dee", Email: "dee@example.com", Password: "x", Role: "data-entry"})
	require.NoError(t, err)
	f, err := forms.Insert(ctx, dao.FormSchema{Name: "Intake", Fields: []dao.Field{{Type: "text", Label: "Ministry"}}})
	require.NoError(t, err)

	e, err := entries.Insert(ctx, dao.Entry{
		FormID:        &f.ID,
		UserID:        &u.ID,
		Data:          `{"memberName":"Jane","fees":150}`,
		FamilyMembers: []dao.FamilyMember{{Name: "John", Relationship: "Spouse"}},
	})
	require.NoError(t, err)
	require.NotNil(t, e.Form)
	require.NotNil(t, e.User)
	assert.Equal(t, "Intake", e.Form.Name)
	assert.Equal(t, "Dee", e.User.Name)
	assert.Len(t, e.FamilyMembers, 1)

	updated, err := entries.UpdateData(ctx, e.ID, `{"memberName":"Janet"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"memberName":"Janet"}`, updated.Data)
	assert.Equal(t, e.EntryID, updated.EntryID)

	_, err = entries.UpdateData(ctx, e.ID+100, `{}`)
	assert.ErrorIs(t, err, dao.ErrEntryNotFound)

	// Deleting the form detaches the entry.
	require.NoError(t, forms.Delete(ctx, f.ID))
	detached, err := entries.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.FormID)
	assert.Nil(t, detached.Form)

	require.NoError(t, entries.Delete(ctx, e.ID))
	_, err = entries.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, dao.ErrEntryNotFound)
	assert.ErrorIs(t, entries.Delete(ctx, e.ID), dao.ErrEntryNotFound)
}

func TestFormDAO_LatestAndUpdate(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := testutil.TestContext(t)
	d := dao.NewFormDAO(db)

	_, err := d.FindLatest(ctx)
	assert.ErrorIs(t, err, dao.ErrFormNotFound)

	first, err := d.Insert(ctx, dao.FormSchema{Name: "First"})
	require.NoError(t, err)
	second, err := d.Insert(ctx, dao.FormSchema{Name: "Second"})
	require.NoError(t, err)

	latest, err := d.FindLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	all, err := d.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)

	updated, err := d.Update(ctx, first.ID, "Renamed", []dao.Field{{Type: "dropdown", Label: "Choir", Options: []string{"Alto", "Bass"}}})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, []string{"Alto", "Bass"}, updated.Fields[0].Options)

	_, err = d.Update(ctx, 999, "x", nil)
	assert.ErrorIs(t, err, dao.ErrFormNotFound)

	count, err := d.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.ErrorIs(t, d.Delete(ctx, 999), dao.ErrFormNotFound)
}
