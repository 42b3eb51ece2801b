package user

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskflow-app/taskflow/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// every pooled connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestNilDatabase(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	_, err := s.FindByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, ErrDBNil)

	require.ErrorIs(t, s.Create(ctx, &models.User{Email: "a@x.com"}), ErrDBNil)

	_, err = s.Count(ctx)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestFindByEmail(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{Email: "Ann@X.com", Name: "Ann", Password: "hash"}).Error)

	testCases := []struct {
		name          string
		email         string
		expectedError error
	}{
		{name: "empty email", email: "", expectedError: ErrEmailEmpty},
		{name: "blank email", email: "   ", expectedError: ErrEmailEmpty},
		{name: "unknown email", email: "bob@x.com", expectedError: ErrUserNotFound},
		{name: "exact", email: "ann@x.com"},
		{name: "other case and padding", email: "  ANN@x.COM ", expectedError: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := s.FindByEmail(ctx, tc.email)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, u)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ann@x.com", u.Email)
			assert.Equal(t, "Ann", u.Name)
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	ctx := context.Background()

	u := &models.User{Email: " A@X.com", Name: "Ann", Password: "hash"}
	require.NoError(t, s.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)

	err := s.Create(ctx, &models.User{Email: "a@x.COM", Name: "Other", Password: "hash"})
	require.ErrorIs(t, err, ErrEmailTaken)

	require.ErrorIs(t, s.Create(ctx, &models.User{Name: "Nobody"}), ErrEmailEmpty)
	require.ErrorIs(t, s.Create(ctx, nil), ErrEmailEmpty)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUniqueIndexRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.User{Email: "a@x.com", Name: "Ann", Password: "hash"}).Error)
	require.Error(t, db.Create(&models.User{Email: "A@x.com", Name: "Ann", Password: "hash"}).Error)
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)

	const workers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		taken   int
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := s.Create(context.Background(), &models.User{Email: "race@x.com", Name: "Racer", Password: "hash"})

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, ErrEmailTaken):
				taken++
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, taken)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
