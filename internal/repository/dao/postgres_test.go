package dao_test

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/church-members-api/internal/db"
	"github.com/vietanh2810/church-members-api/internal/repository/dao"
	"github.com/vietanh2810/church-members-api/internal/testutil"
)

var (
	postgresURL  string
	postgresSkip string
)

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		postgresSkip = fmt.Sprintf("docker is not available: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=church_members_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		postgresSkip = fmt.Sprintf("could not start postgres: %v", err)
		os.Exit(m.Run())
	}
	_ = resource.Expire(300)

	url := fmt.Sprintf("postgres://postgres:secret@%s/church_members_test?sslmode=disable", resource.GetHostPort("5432/tcp"))
	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		gdb, err := db.OpenPostgresWithURL(url)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return sqlDB.Ping()
	})
	if err != nil {
		postgresSkip = fmt.Sprintf("could not connect to postgres: %v", err)
	} else {
		postgresURL = url
	}

	code := m.Run()
	_ = pool.Purge(resource)

	os.Exit(code)
}

// openPostgres returns a freshly migrated database with every table emptied.
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	if postgresSkip != "" {
		t.Skip(postgresSkip)
	}

	gdb, err := db.OpenPostgresWithURL(postgresURL)
	require.NoError(t, err)
	require.NoError(t, gdb.Migrator().DropTable(&dao.Entry{}, &dao.EntryCounter{}, &dao.FormSchema{}, &dao.User{}))
	require.NoError(t, dao.InitTables(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}

func TestPostgres_UniqueViolation(t *testing.T) {
	gdb := openPostgres(t)
	ctx := testutil.TestContext(t)
	d := dao.NewUserDAO(gdb)

	_, err := d.Insert(ctx, dao.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: "admin"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, dao.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: "admin"})
	assert.ErrorIs(t, err, dao.ErrUserEmailExists)

	var pgErr *pgconn.PgError
	assert.False(t, errors.As(err, &pgErr))
}

func TestPostgres_ConcurrentEntryIDs(t *testing.T) {
	gdb := openPostgres(t)
	ctx := testutil.TestContext(t)
	d := dao.NewEntryDAO(gdb)

	const n = 25
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := d.Insert(ctx, dao.Entry{Data: fmt.Sprintf(`{"memberName":"M%d"}`, i)})
			if assert.NoError(t, err) {
				ids <- e.EntryID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen["CUST0001"])
	assert.True(t, seen[fmt.Sprintf("CUST%04d", n)])
}
