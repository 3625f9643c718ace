package course

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/lecture"
	"github.com/devamrit/learnhub-server-go/pkg/pagination"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

// Course represents a published or draft course in the catalog.
type Course struct {
	types.BaseModel

	Title              string            `gorm:"type:varchar(120);not null;column:course_title" json:"courseTitle"`
	Subtitle           *string           `gorm:"type:varchar(200)" json:"subTitle,omitempty"`
	Description        *string           `gorm:"type:text" json:"description,omitempty"`
	Category           string            `gorm:"type:varchar(80);not null;index" json:"category"`
	Level              types.CourseLevel `gorm:"type:varchar(20);not null;default:'Beginner';column:course_level" json:"courseLevel"`
	Price              types.Money       `gorm:"type:numeric(10,2);not null;default:0;column:course_price" json:"coursePrice"`
	ThumbnailURL       *string           `gorm:"type:text;column:course_thumbnail" json:"courseThumbnail,omitempty"`
	CreatorID          uuid.UUID         `gorm:"type:uuid;not null;column:creator_id;index" json:"creatorId"`
	Published          bool              `gorm:"type:boolean;not null;default:false;column:is_published;index" json:"isPublished"`
	EnrolledStudentIDs pq.StringArray    `gorm:"type:text[];column:enrolled_student_ids" json:"enrolledStudents"`

	Lectures []lecture.Lecture `gorm:"foreignKey:CourseID" json:"lectures,omitempty"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// ListFilters defines catalog query filters.
type ListFilters struct {
	Keyword       string
	Category      string
	PublishedOnly bool
}

// List retrieves paginated catalog courses with filters.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]Course, int64, error) {
	query := db.Model(&Course{})

	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(course_title) LIKE ? OR LOWER(category) LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&courses).Error

	return courses, total, err
}

// Get retrieves a course by ID.
func Get(db *gorm.DB, id uuid.UUID) (Course, error) {
	var crs Course
	if err := db.First(&crs, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return crs, ErrCourseNotFound
		}
		return crs, err
	}
	return crs, nil
}

// GetWithLectures retrieves a course and its lectures in catalog order.
func GetWithLectures(db *gorm.DB, id uuid.UUID) (Course, error) {
	var crs Course
	err := db.Preload("Lectures", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC, created_at ASC")
	}).First(&crs, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return crs, ErrCourseNotFound
		}
		return crs, err
	}
	return crs, nil
}

// LectureSequence returns the ordered lecture ids for a course. This is the
// authoritative sequence the progress ledger resolves positions against; it is
// fetched fresh on every call rather than cached.
func LectureSequence(db *gorm.DB, id uuid.UUID) ([]uuid.UUID, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	lectures, err := lecture.ListByCourse(db, id)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lectures))
	for _, lec := range lectures {
		ids = append(ids, lec.ID)
	}
	return ids, nil
}

// AddEnrolledStudent appends userID to the course roster if absent.
// Safe to repeat: the append only happens after a contains check.
func AddEnrolledStudent(db *gorm.DB, courseID, userID uuid.UUID) error {
	crs, err := Get(db, courseID)
	if err != nil {
		return err
	}

	id := userID.String()
	for _, existing := range crs.EnrolledStudentIDs {
		if existing == id {
			return nil
		}
	}

	crs.EnrolledStudentIDs = append(crs.EnrolledStudentIDs, id)
	return db.Model(&Course{}).Where("id = ?", courseID).
		Update("enrolled_student_ids", crs.EnrolledStudentIDs).Error
}
