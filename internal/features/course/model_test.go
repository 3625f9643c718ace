package course

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devamrit/learnhub-server-go/internal/features/lecture"
	"github.com/devamrit/learnhub-server-go/pkg/pagination"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Course{}, &lecture.Lecture{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func TestLectureSequenceFollowsOrderColumn(t *testing.T) {
	db := setupDB(t)

	crs := Course{Title: "Go Fundamentals", Category: "programming", CreatorID: uuid.New(), Published: true}
	require.NoError(t, db.Create(&crs).Error)

	// Created out of order on purpose.
	third := lecture.Lecture{CourseID: crs.ID, Title: "Third", Order: 3}
	first := lecture.Lecture{CourseID: crs.ID, Title: "First", Order: 1}
	second := lecture.Lecture{CourseID: crs.ID, Title: "Second", Order: 2}
	for _, lec := range []*lecture.Lecture{&third, &first, &second} {
		require.NoError(t, db.Create(lec).Error)
	}

	sequence, err := LectureSequence(db, crs.ID)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, sequence)
}

func TestLectureSequenceMissingCourse(t *testing.T) {
	db := setupDB(t)

	_, err := LectureSequence(db, uuid.New())
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListFiltersUnpublishedCourses(t *testing.T) {
	db := setupDB(t)

	published := Course{Title: "Published", Category: "go", CreatorID: uuid.New(), Published: true}
	draft := Course{Title: "Draft", Category: "go", CreatorID: uuid.New(), Published: false}
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&draft).Error)

	courses, total, err := List(db, ListFilters{PublishedOnly: true}, pagination.Params{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, courses, 1)
	assert.Equal(t, "Published", courses[0].Title)
}

func TestAddEnrolledStudentIsIdempotent(t *testing.T) {
	db := setupDB(t)

	crs := Course{Title: "Go Fundamentals", Category: "programming", CreatorID: uuid.New()}
	require.NoError(t, db.Create(&crs).Error)

	studentID := uuid.New()
	require.NoError(t, AddEnrolledStudent(db, crs.ID, studentID))
	require.NoError(t, AddEnrolledStudent(db, crs.ID, studentID))

	stored, err := Get(db, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{studentID.String()}, []string(stored.EnrolledStudentIDs))
}
