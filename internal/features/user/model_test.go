package user

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&User{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func TestCreateHashesPassword(t *testing.T) {
	db := setupDB(t)

	usr, err := Create(db, CreateInput{
		Name:     "Asha",
		Email:    "Asha@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", usr.Email)
	assert.NotEqual(t, "password123", usr.Password)
	assert.True(t, usr.ComparePassword("password123"))
	assert.False(t, usr.ComparePassword("wrong"))
}

func TestCreateRejectsShortPassword(t *testing.T) {
	db := setupDB(t)

	_, err := Create(db, CreateInput{Name: "Asha", Email: "asha@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestCreateMapsDuplicateEmail(t *testing.T) {
	db := setupDB(t)

	_, err := Create(db, CreateInput{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = Create(db, CreateInput{Name: "Other", Email: "asha@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Emails are normalized, so a case variant is the same account.
	_, err = Create(db, CreateInput{Name: "Other", Email: "ASHA@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAddEnrolledCourseIsIdempotent(t *testing.T) {
	db := setupDB(t)

	usr, err := Create(db, CreateInput{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)

	courseID := uuid.New()
	require.NoError(t, AddEnrolledCourse(db, usr.ID, courseID))
	require.NoError(t, AddEnrolledCourse(db, usr.ID, courseID))

	stored, err := Get(db, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{courseID.String()}, []string(stored.EnrolledCourseIDs))
}
