package purchase

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

// Purchase tracks one payment attempt for a (user, course) pair. OrderID is
// the gateway's order identifier and stays stable for the record's lifetime;
// PaymentID holds the order id while pending and is overwritten with the
// gateway's payment id once the purchase settles.
type Purchase struct {
	types.BaseModel

	CourseID  uuid.UUID            `gorm:"type:uuid;not null;column:course_id;index:idx_purchase_user_course" json:"courseId"`
	UserID    uuid.UUID            `gorm:"type:uuid;not null;column:user_id;index:idx_purchase_user_course" json:"userId"`
	Amount    int64                `gorm:"type:bigint;not null" json:"amount"`
	Status    types.PurchaseStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OrderID   string               `gorm:"type:varchar(64);not null;uniqueIndex;column:order_id" json:"orderId"`
	PaymentID string               `gorm:"type:varchar(64);not null;column:payment_id" json:"paymentId"`

	Course course.Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// TableName overrides the default table name.
func (Purchase) TableName() string { return "purchases" }

// GetByOrderID retrieves a purchase by its gateway order identifier.
func GetByOrderID(db *gorm.DB, orderID string) (Purchase, error) {
	var p Purchase
	if err := db.First(&p, "order_id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return p, ErrPurchaseNotFound
		}
		return p, err
	}
	return p, nil
}

// Exists reports whether any purchase row ties the user to the course,
// pending or completed. A pending order already counts as "purchased" for
// catalog purposes; callers must not read it as unlocked content.
func Exists(db *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// ListCompletedByUser returns the user's settled purchases with their
// courses preloaded.
func ListCompletedByUser(db *gorm.DB, userID uuid.UUID) ([]Purchase, error) {
	var purchases []Purchase
	err := db.Where("user_id = ? AND status = ?", userID, types.PurchaseStatusCompleted).
		Preload("Course").
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
