package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/internal/utils/jwt"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&user.User{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func tokenConfig() TokenConfig {
	return TokenConfig{Secret: "test-secret", Expiry: time.Hour}
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	db := setupDB(t)

	resp, err := Register(db, RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "password123",
		Role:     types.UserRoleStudent,
	}, tokenConfig())
	require.NoError(t, err)

	claims, err := jwt.VerifyToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupDB(t)

	input := RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "password123"}
	_, err := Register(db, input, tokenConfig())
	require.NoError(t, err)

	_, err = Register(db, input, tokenConfig())
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	db := setupDB(t)

	_, err := Register(db, RegisterInput{Email: "asha@example.com", Password: "password123"}, tokenConfig())
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin(t *testing.T) {
	db := setupDB(t)

	_, err := Register(db, RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "password123",
	}, tokenConfig())
	require.NoError(t, err)

	resp, err := Login(db, LoginInput{Email: "asha@example.com", Password: "password123"}, tokenConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = Login(db, LoginInput{Email: "asha@example.com", Password: "wrong"}, tokenConfig())
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Login(db, LoginInput{Email: "nobody@example.com", Password: "password123"}, tokenConfig())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
