package progress

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/features/lecture"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&course.Course{}, &lecture.Lecture{}, &CourseProgress{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func seedCourse(t *testing.T, db *gorm.DB, lectureCount int) (uuid.UUID, []uuid.UUID) {
	t.Helper()

	crs := course.Course{
		Title:     "Go Fundamentals",
		Category:  "programming",
		CreatorID: uuid.New(),
		Published: true,
	}
	require.NoError(t, db.Create(&crs).Error)

	ids := make([]uuid.UUID, 0, lectureCount)
	for i := 0; i < lectureCount; i++ {
		lec := lecture.Lecture{
			CourseID: crs.ID,
			Title:    fmt.Sprintf("Lecture %d", i+1),
			Order:    i + 1,
		}
		require.NoError(t, db.Create(&lec).Error)
		ids = append(ids, lec.ID)
	}

	return crs.ID, ids
}

func TestRecordLectureViewedBackfillsEarlierLectures(t *testing.T) {
	db := setupDB(t)
	courseID, lectures := seedCourse(t, db, 4)
	userID := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[2]))

	record, err := Get(db, userID, courseID)
	require.NoError(t, err)

	assert.Len(t, record.LectureProgress, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, lectures[i].String(), record.LectureProgress[i].LectureID)
		assert.True(t, record.LectureProgress[i].Viewed)
	}
	assert.False(t, record.Completed)
}

func TestRecordLectureViewedUnknownLectureNoBackfill(t *testing.T) {
	db := setupDB(t)
	courseID, _ := seedCourse(t, db, 3)
	userID := uuid.New()
	stray := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, stray))

	record, err := Get(db, userID, courseID)
	require.NoError(t, err)

	require.Len(t, record.LectureProgress, 1)
	assert.Equal(t, stray.String(), record.LectureProgress[0].LectureID)
	assert.True(t, record.LectureProgress[0].Viewed)
	assert.False(t, record.Completed)
}

func TestRecordLectureViewedDerivesCompletion(t *testing.T) {
	db := setupDB(t)
	courseID, lectures := seedCourse(t, db, 3)
	userID := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[2]))

	record, err := Get(db, userID, courseID)
	require.NoError(t, err)
	assert.True(t, record.Completed)
}

func TestRecordLectureViewedMissingCourse(t *testing.T) {
	db := setupDB(t)

	err := RecordLectureViewed(db, uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, course.ErrCourseNotFound)
}

func TestCatalogGrowthResetsDerivedCompletion(t *testing.T) {
	db := setupDB(t)
	courseID, lectures := seedCourse(t, db, 2)
	userID := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[1]))

	record, err := Get(db, userID, courseID)
	require.NoError(t, err)
	require.True(t, record.Completed)

	late := lecture.Lecture{CourseID: courseID, Title: "Bonus", Order: 3}
	require.NoError(t, db.Create(&late).Error)

	// The stored flag only changes on the next write.
	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[0]))

	record, err = Get(db, userID, courseID)
	require.NoError(t, err)
	assert.False(t, record.Completed)
}

func TestGetSummaryHasNoSideEffects(t *testing.T) {
	db := setupDB(t)
	courseID, _ := seedCourse(t, db, 3)
	userID := uuid.New()

	summary, err := GetSummary(db, userID, courseID)
	require.NoError(t, err)

	assert.Empty(t, summary.Progress)
	assert.False(t, summary.Completed)
	assert.Equal(t, 3, summary.TotalLectures)
	assert.Equal(t, 0, summary.CompletedCount)
	assert.Equal(t, 0, summary.ProgressPercentage)

	var count int64
	require.NoError(t, db.Model(&CourseProgress{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetSummaryPercentageRounds(t *testing.T) {
	db := setupDB(t)
	courseID, lectures := seedCourse(t, db, 3)
	userID := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[0]))

	summary, err := GetSummary(db, userID, courseID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.CompletedCount)
	assert.Equal(t, 33, summary.ProgressPercentage)

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[1]))

	summary, err = GetSummary(db, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 67, summary.ProgressPercentage)
}

func TestGetSummaryMissingCourse(t *testing.T) {
	db := setupDB(t)

	_, err := GetSummary(db, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, course.ErrCourseNotFound)
}

func TestMarkCompletedRequiresExistingRecord(t *testing.T) {
	db := setupDB(t)
	courseID, _ := seedCourse(t, db, 2)

	err := MarkCompleted(db, uuid.New(), courseID)
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

func TestMarkCompletedOverwritesLedger(t *testing.T) {
	db := setupDB(t)
	courseID, lectures := seedCourse(t, db, 3)
	userID := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[0]))
	require.NoError(t, MarkCompleted(db, userID, courseID))

	record, err := Get(db, userID, courseID)
	require.NoError(t, err)

	assert.True(t, record.Completed)
	require.Len(t, record.LectureProgress, 3)
	for _, view := range record.LectureProgress {
		assert.True(t, view.Viewed)
	}
}

func TestMarkIncompleteOverwritesLedger(t *testing.T) {
	db := setupDB(t)
	courseID, lectures := seedCourse(t, db, 3)
	userID := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[2]))
	require.NoError(t, MarkIncomplete(db, userID, courseID))

	record, err := Get(db, userID, courseID)
	require.NoError(t, err)

	assert.False(t, record.Completed)
	require.Len(t, record.LectureProgress, 3)
	for _, view := range record.LectureProgress {
		assert.False(t, view.Viewed)
	}
}

func TestRecordLectureViewedIsIdempotent(t *testing.T) {
	db := setupDB(t)
	courseID, lectures := seedCourse(t, db, 2)
	userID := uuid.New()

	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[0]))
	require.NoError(t, RecordLectureViewed(db, userID, courseID, lectures[0]))

	record, err := Get(db, userID, courseID)
	require.NoError(t, err)
	assert.Len(t, record.LectureProgress, 1)
}
