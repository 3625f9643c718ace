package progress

import (
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

// LectureView records whether a single lecture has been watched.
type LectureView struct {
	LectureID string `json:"lectureId"`
	Viewed    bool   `json:"viewed"`
}

// CourseProgress is the per-(user, course) ledger of watched lectures.
// Completed is derived: it is recomputed from the course's current lecture
// sequence on every write and never set independently by callers.
type CourseProgress struct {
	types.BaseModel

	UserID          uuid.UUID                        `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_progress_user_course" json:"userId"`
	CourseID        uuid.UUID                        `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_progress_user_course" json:"courseId"`
	Completed       bool                             `gorm:"type:boolean;not null;default:false" json:"completed"`
	LectureProgress datatypes.JSONSlice[LectureView] `gorm:"column:lecture_progress" json:"lectureProgress"`
}

// TableName overrides the default table name.
func (CourseProgress) TableName() string { return "course_progress" }

// Summary is the read model returned to clients.
type Summary struct {
	Progress           []LectureView `json:"progress"`
	Completed          bool          `json:"completed"`
	TotalLectures      int           `json:"totalLectures"`
	CompletedCount     int           `json:"completedCount"`
	ProgressPercentage int           `json:"progressPercentage"`
}

// Get retrieves the ledger record for a (user, course) pair.
func Get(db *gorm.DB, userID, courseID uuid.UUID) (CourseProgress, error) {
	var record CourseProgress
	err := db.First(&record, "user_id = ? AND course_id = ?", userID, courseID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return record, ErrProgressNotFound
		}
		return record, err
	}
	return record, nil
}

// GetSummary computes the caller-facing progress view against the live
// catalog. Reads have no side effects: a missing ledger record yields an
// empty summary without creating one.
func GetSummary(db *gorm.DB, userID, courseID uuid.UUID) (Summary, error) {
	sequence, err := course.LectureSequence(db, courseID)
	if err != nil {
		return Summary{}, err
	}

	totalLectures := len(sequence)

	record, err := Get(db, userID, courseID)
	if err != nil {
		if err == ErrProgressNotFound {
			return Summary{
				Progress:      []LectureView{},
				TotalLectures: totalLectures,
			}, nil
		}
		return Summary{}, err
	}

	completedCount := 0
	for _, view := range record.LectureProgress {
		if view.Viewed {
			completedCount++
		}
	}

	return Summary{
		Progress:           record.LectureProgress,
		Completed:          record.Completed,
		TotalLectures:      totalLectures,
		CompletedCount:     completedCount,
		ProgressPercentage: percentage(completedCount, totalLectures),
	}, nil
}

// RecordLectureViewed applies the cumulative marking rule: viewing the
// lecture at position k marks every lecture at positions 0..k viewed. A
// lecture id missing from the catalog sequence is recorded alone, without
// back-fill. The record is created lazily on first view.
func RecordLectureViewed(db *gorm.DB, userID, courseID, lectureID uuid.UUID) error {
	sequence, err := course.LectureSequence(db, courseID)
	if err != nil {
		return err
	}

	record, err := Get(db, userID, courseID)
	if err != nil {
		if err != ErrProgressNotFound {
			return err
		}
		record = CourseProgress{
			UserID:          userID,
			CourseID:        courseID,
			LectureProgress: datatypes.JSONSlice[LectureView]{},
		}
	}

	position := -1
	for i, id := range sequence {
		if id == lectureID {
			position = i
			break
		}
	}

	if position == -1 {
		record.setViewed(lectureID.String())
	} else {
		for i := 0; i <= position; i++ {
			record.setViewed(sequence[i].String())
		}
	}

	record.Completed = record.coversSequence(sequence)

	return db.Save(&record).Error
}

// MarkCompleted overwrites the ledger with every catalog lecture viewed.
// Requires an existing record; this is a reset, not an increment.
func MarkCompleted(db *gorm.DB, userID, courseID uuid.UUID) error {
	return overwrite(db, userID, courseID, true)
}

// MarkIncomplete overwrites the ledger with every catalog lecture unviewed.
func MarkIncomplete(db *gorm.DB, userID, courseID uuid.UUID) error {
	return overwrite(db, userID, courseID, false)
}

func overwrite(db *gorm.DB, userID, courseID uuid.UUID, viewed bool) error {
	record, err := Get(db, userID, courseID)
	if err != nil {
		return err
	}

	sequence, err := course.LectureSequence(db, courseID)
	if err != nil {
		return err
	}

	views := make(datatypes.JSONSlice[LectureView], 0, len(sequence))
	for _, id := range sequence {
		views = append(views, LectureView{LectureID: id.String(), Viewed: viewed})
	}

	record.LectureProgress = views
	record.Completed = viewed

	return db.Save(&record).Error
}

// setViewed flips the entry for lectureID to viewed, creating it if absent.
// An already-viewed entry is never flipped back.
func (p *CourseProgress) setViewed(lectureID string) {
	for i := range p.LectureProgress {
		if p.LectureProgress[i].LectureID == lectureID {
			p.LectureProgress[i].Viewed = true
			return
		}
	}
	p.LectureProgress = append(p.LectureProgress, LectureView{LectureID: lectureID, Viewed: true})
}

// coversSequence reports whether every lecture in the catalog sequence has a
// viewed entry in the ledger.
func (p *CourseProgress) coversSequence(sequence []uuid.UUID) bool {
	viewed := make(map[string]bool, len(p.LectureProgress))
	for _, view := range p.LectureProgress {
		if view.Viewed {
			viewed[view.LectureID] = true
		}
	}

	for _, id := range sequence {
		if !viewed[id.String()] {
			return false
		}
	}
	return true
}

func percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
