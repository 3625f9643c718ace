package purchase

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/middleware"
	"github.com/devamrit/learnhub-server-go/pkg/apperrors"
	"github.com/devamrit/learnhub-server-go/pkg/response"
)

// Handler processes purchase HTTP requests. Response bodies here follow the
// payment client contract (top-level order/purchased/purchasedCourses keys)
// rather than the shared data envelope.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a purchase handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type createOrderRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// CreateOrder opens a gateway order for the course and records a pending
// purchase for the caller.
func (h *Handler) CreateOrder(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "courseId is required", err)
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	order, p, err := h.service.CreateOrder(c.Request.Context(), usr.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"order":      order,
		"purchaseId": p.ID,
	})
}

// VerifyPayment is the gateway's settlement callback. It carries no bearer
// identity; the HMAC signature is the authentication.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid verification payload", err)
		return
	}

	p, err := h.service.VerifyPayment(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"message":   "Payment already verified.",
				"orderId":   req.OrderID,
				"paymentId": req.PaymentID,
			})
			return
		}
		h.respondError(c, err, "failed to verify payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Payment verified successfully.",
		"orderId":   p.OrderID,
		"paymentId": p.PaymentID,
	})
}

// DetailWithStatus returns the course with a purchased flag for the caller.
// The flag tracks purchase-record existence, not settlement.
func (h *Handler) DetailWithStatus(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	crs, err := course.GetWithLectures(h.service.db, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}

	purchased, err := h.service.HasPurchase(usr.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load purchase status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"course":    crs,
		"purchased": purchased,
	})
}

// ListCompleted returns the caller's settled purchases with courses preloaded.
func (h *Handler) ListCompleted(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	purchases, err := h.service.ListCompleted(usr.ID)
	if err != nil {
		h.respondError(c, err, "failed to list purchases")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"purchasedCourses": purchases,
	})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, ErrPurchaseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Purchase not found", err)
	case errors.Is(err, ErrMissingFields):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, ErrSignatureMismatch):
		_ = c.Error(apperrors.New("Invalid payment signature", http.StatusBadRequest, apperrors.ErrSignature, err))
	case errors.Is(err, ErrGatewayOrder):
		_ = c.Error(apperrors.New("Payment gateway rejected the order", http.StatusBadGateway, apperrors.ErrGateway, err))
	default:
		_ = c.Error(apperrors.Wrap(err, fallback, http.StatusInternalServerError, apperrors.ErrInternal))
	}
}
