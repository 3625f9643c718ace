package progress

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/middleware"
	"github.com/devamrit/learnhub-server-go/pkg/apperrors"
	"github.com/devamrit/learnhub-server-go/pkg/locks"
	"github.com/devamrit/learnhub-server-go/pkg/response"
)

// Handler processes progress-ledger HTTP requests. Writes for the same
// (user, course) pair are serialized through a keyed mutex so concurrent
// view reports cannot clobber each other's read-modify-write cycles.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	locks  *locks.KeyedMutex
}

// NewHandler constructs a progress handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger, locks: locks.NewKeyedMutex()}
}

// Get returns the caller's progress view for a course, combined with the
// course details. Missing ledger records read as empty progress.
func (h *Handler) Get(c *gin.Context) {
	usr, courseID, ok := h.subject(c)
	if !ok {
		return
	}

	crs, err := course.GetWithLectures(h.db, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load course progress")
		return
	}

	summary, err := GetSummary(h.db, usr, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load course progress")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"courseDetails":      crs,
		"progress":           summary.Progress,
		"completed":          summary.Completed,
		"totalLectures":      summary.TotalLectures,
		"completedCount":     summary.CompletedCount,
		"progressPercentage": summary.ProgressPercentage,
	}, "", nil)
}

// UpdateLecture marks a lecture (and, cumulatively, every lecture before it)
// as viewed.
func (h *Handler) UpdateLecture(c *gin.Context) {
	usr, courseID, ok := h.subject(c)
	if !ok {
		return
	}

	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture id", err)
		return
	}

	unlock := h.locks.Lock(usr.String() + "|" + courseID.String())
	defer unlock()

	if err := RecordLectureViewed(h.db, usr, courseID, lectureID); err != nil {
		h.respondError(c, err, "failed to update lecture progress")
		return
	}

	response.Success(c, http.StatusOK, nil, "Lecture progress updated successfully.", nil)
}

// MarkCompleted flips every catalog lecture to viewed for the caller.
func (h *Handler) MarkCompleted(c *gin.Context) {
	usr, courseID, ok := h.subject(c)
	if !ok {
		return
	}

	unlock := h.locks.Lock(usr.String() + "|" + courseID.String())
	defer unlock()

	if err := MarkCompleted(h.db, usr, courseID); err != nil {
		h.respondError(c, err, "failed to mark course completed")
		return
	}

	response.Success(c, http.StatusOK, nil, "Course marked as completed.", nil)
}

// MarkIncomplete flips every catalog lecture to unviewed for the caller.
func (h *Handler) MarkIncomplete(c *gin.Context) {
	usr, courseID, ok := h.subject(c)
	if !ok {
		return
	}

	unlock := h.locks.Lock(usr.String() + "|" + courseID.String())
	defer unlock()

	if err := MarkIncomplete(h.db, usr, courseID); err != nil {
		h.respondError(c, err, "failed to mark course incomplete")
		return
	}

	response.Success(c, http.StatusOK, nil, "Course marked as incomplete.", nil)
}

func (h *Handler) subject(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "authentication required", nil)
		return uuid.Nil, uuid.Nil, false
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return uuid.Nil, uuid.Nil, false
	}

	return usr.ID, courseID, true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, ErrProgressNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course progress not found", err)
	default:
		_ = c.Error(apperrors.Wrap(err, fallback, http.StatusInternalServerError, apperrors.ErrInternal))
	}
}
