package lecture

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/pkg/types"
)

// Lecture represents a single video lecture within a course. The "order"
// column defines the course's authoritative lecture sequence.
type Lecture struct {
	types.BaseModel

	CourseID      uuid.UUID `gorm:"type:uuid;not null;column:course_id;index" json:"courseId"`
	Title         string    `gorm:"type:varchar(120);not null" json:"lectureTitle"`
	VideoURL      *string   `gorm:"type:text;column:video_url" json:"videoUrl,omitempty"`
	Order         int       `gorm:"type:int;not null;default:0" json:"order"`
	IsPreviewFree bool      `gorm:"type:boolean;not null;default:false;column:is_preview_free" json:"isPreviewFree"`
}

// TableName overrides the default table name.
func (Lecture) TableName() string { return "lectures" }

// ListByCourse returns the course's lectures in catalog order.
func ListByCourse(db *gorm.DB, courseID uuid.UUID) ([]Lecture, error) {
	var lectures []Lecture
	err := db.Where("course_id = ?", courseID).
		Order("\"order\" ASC, created_at ASC").
		Find(&lectures).Error
	return lectures, err
}

// UnlockPreviews flips every lecture of the course to preview-free.
// Idempotent: re-running against an already unlocked course is a no-op.
func UnlockPreviews(db *gorm.DB, courseID uuid.UUID) error {
	return db.Model(&Lecture{}).
		Where("course_id = ?", courseID).
		Update("is_preview_free", true).Error
}
