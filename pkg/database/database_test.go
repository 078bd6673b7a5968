package database

import (
	"errors"
	"path/filepath"
	"testing"

	"library_rental/pkg/config"
	"library_rental/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenInMemorySeedsRoles(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	var roles []models.Role
	require.NoError(t, db.Order("id").Find(&roles).Error)
	require.Len(t, roles, 3)
	assert.Equal(t, "admin", roles[0].Name)
	assert.Equal(t, "librarian", roles[1].Name)
	assert.Equal(t, "patron", roles[2].Name)
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	cfg := config.Config{AdminRoleID: 1, LibrarianRoleID: 2, PatronRoleID: 3}
	require.NoError(t, SeedRoles(db, cfg))

	var count int64
	db.Model(&models.Role{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestOpenSQLiteFile(t *testing.T) {
	cfg := config.Config{
		DBDriver:         "sqlite",
		DBPath:           filepath.Join(t.TempDir(), "library.db"),
		DBConnectRetries: 1,
		AdminRoleID:      10,
		LibrarianRoleID:  20,
		PatronRoleID:     30,
	}
	db, err := Open(cfg)
	require.NoError(t, err)

	var role models.Role
	require.NoError(t, db.First(&role, 30).Error)
	assert.Equal(t, "patron", role.Name)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestUniqueRentIndex(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	user := models.User{FullName: "Reader", Login: "reader", PasswordHash: "hash", RoleID: 3}
	require.NoError(t, db.Create(&user).Error)
	category := models.Category{Name: "Fiction"}
	require.NoError(t, db.Create(&category).Error)
	publisher := models.Publisher{Name: "House"}
	require.NoError(t, db.Create(&publisher).Error)
	book := models.Book{Title: "Once", Author: "Someone", CategoryID: category.ID, PublisherID: publisher.ID}
	require.NoError(t, db.Create(&book).Error)

	rent := models.Rent{UserID: user.ID, BookID: book.ID}
	require.NoError(t, db.Create(&rent).Error)
	err = db.Create(&models.Rent{UserID: user.ID, BookID: book.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	err = db.Create(&models.User{FullName: "Ghost", Login: "ghost", PasswordHash: "hash", RoleID: 99}).Error
	assert.Error(t, err)
	err = db.Create(&models.Rent{UserID: 1, BookID: 1}).Error
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "library.db?cache=shared&_foreign_keys=on", sqliteDSN("library.db?cache=shared"))
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(3, func() error {
		calls++
		if calls < 2 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	boom := errors.New("boom")
	err = Retry(3, func() error {
		calls++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = Retry(3, func() error {
		calls++
		return gorm.ErrDuplicatedKey
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, 3, calls)
}
