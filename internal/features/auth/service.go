package auth

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/internal/utils/jwt"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

// TokenConfig carries token signing parameters.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     types.UserRole
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Response is returned from register and login.
type Response struct {
	User        user.User `json:"user"`
	AccessToken string    `json:"accessToken"`
}

// Register creates a new account and issues an access token.
func Register(db *gorm.DB, input RegisterInput, cfg TokenConfig) (Response, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return Response{}, ErrMissingFields
	}

	usr, err := user.Create(db, user.CreateInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return Response{}, err
	}

	token, err := jwt.GenerateAccessToken(usr.ID, cfg.Secret, cfg.Expiry)
	if err != nil {
		return Response{}, err
	}

	return Response{User: usr, AccessToken: token}, nil
}

// Login authenticates credentials and issues an access token.
func Login(db *gorm.DB, input LoginInput, cfg TokenConfig) (Response, error) {
	usr, err := user.GetByEmail(db, input.Email)
	if err != nil {
		if err == user.ErrUserNotFound {
			return Response{}, ErrInvalidCredentials
		}
		return Response{}, err
	}

	if !usr.ComparePassword(input.Password) {
		return Response{}, ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(usr.ID, cfg.Secret, cfg.Expiry)
	if err != nil {
		return Response{}, err
	}

	return Response{User: usr, AccessToken: token}, nil
}
