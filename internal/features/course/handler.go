package course

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/pkg/pagination"
	"github.com/devamrit/learnhub-server-go/pkg/response"
	"github.com/devamrit/learnhub-server-go/pkg/validation"
)

// Handler processes catalog HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a catalog handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns published catalog courses, paginated.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	category := c.Query("category")
	if category != "" {
		normalized, err := validation.NormalizeIdentifier(category)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid category", err)
			return
		}
		category = normalized
	}

	filters := ListFilters{
		Keyword:       c.Query("query"),
		Category:      category,
		PublishedOnly: true,
	}

	courses, total, err := List(h.db, filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// GetByID fetches a single course with its ordered lectures.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	crs, err := GetWithLectures(h.db, id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load course", err)
		return
	}

	// Catalog detail is safe to cache briefly; enrollment-sensitive views go
	// through the purchase endpoints instead.
	response.SuccessWithCache(c, http.StatusOK, crs, "", 300)
}
