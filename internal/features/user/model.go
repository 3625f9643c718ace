package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/pkg/types"
)

// User represents a platform account (student or instructor).
type User struct {
	types.BaseModel

	Name              string         `gorm:"type:varchar(50);not null" json:"name"`
	Email             string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password          string         `gorm:"type:varchar(255);not null" json:"-"`
	Role              types.UserRole `gorm:"type:varchar(20);not null;default:'student';index" json:"role"`
	PhotoURL          *string        `gorm:"type:text;column:photo_url" json:"photoUrl,omitempty"`
	EnrolledCourseIDs pq.StringArray `gorm:"type:text[];column:enrolled_course_ids" json:"enrolledCourses"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// CreateInput carries data for creating a new user.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     types.UserRole
	PhotoURL *string
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var usr User
	if err := db.First(&usr, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// GetByEmail retrieves a user by email.
func GetByEmail(db *gorm.DB, email string) (User, error) {
	var usr User
	if err := db.First(&usr, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// Create inserts a new user with hashed password.
func Create(db *gorm.DB, input CreateInput) (User, error) {
	if len(input.Password) < 8 {
		return User{}, ErrInvalidPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), 10)
	if err != nil {
		return User{}, err
	}

	role := input.Role
	if role == "" {
		role = types.UserRoleStudent
	}

	usr := User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashedPassword),
		Role:     role,
		PhotoURL: input.PhotoURL,
	}

	if _, err := GetByEmail(db, usr.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	if err := db.Create(&usr).Error; err != nil {
		// The unique index backstops the pre-check under concurrent
		// registration; constraint names differ per dialect.
		if isDuplicateEmail(err) {
			return usr, ErrEmailTaken
		}
		return usr, err
	}

	return usr, nil
}

func isDuplicateEmail(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "users_email") ||
		strings.Contains(msg, "idx_users_email") ||
		strings.Contains(msg, "users.email")
}

// AddEnrolledCourse appends courseID to the user's enrolled set if absent.
// Safe to repeat: the append only happens after a contains check.
func AddEnrolledCourse(db *gorm.DB, userID, courseID uuid.UUID) error {
	usr, err := Get(db, userID)
	if err != nil {
		return err
	}

	id := courseID.String()
	for _, existing := range usr.EnrolledCourseIDs {
		if existing == id {
			return nil
		}
	}

	usr.EnrolledCourseIDs = append(usr.EnrolledCourseIDs, id)
	return db.Model(&User{}).Where("id = ?", userID).
		Update("enrolled_course_ids", usr.EnrolledCourseIDs).Error
}

// ComparePassword checks if the provided password matches the user's hashed password.
func (u *User) ComparePassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
