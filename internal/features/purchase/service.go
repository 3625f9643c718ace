package purchase

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/features/lecture"
	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/pkg/cache"
	"github.com/devamrit/learnhub-server-go/pkg/email"
	"github.com/devamrit/learnhub-server-go/pkg/metrics"
	"github.com/devamrit/learnhub-server-go/pkg/razorpay"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

const settledMarkerTTL = 24 * time.Hour

// Gateway is the payment provider surface the workflow depends on. The
// Razorpay client satisfies it; tests substitute a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Service runs the purchase settlement workflow: order creation against the
// gateway, signature-checked settlement, and the post-settlement enrollment
// fan-out. The gateway is injected at construction, never read from globals.
type Service struct {
	db      *gorm.DB
	gateway Gateway
	cache   cache.Client
	mailer  *email.Client
	logger  *slog.Logger
}

// NewService constructs the settlement workflow. cache and mailer may be nil.
func NewService(db *gorm.DB, gateway Gateway, cacheClient cache.Client, mailer *email.Client, logger *slog.Logger) *Service {
	return &Service{db: db, gateway: gateway, cache: cacheClient, mailer: mailer, logger: logger}
}

// CreateOrder loads the course, opens a gateway order for its price in minor
// currency units, and persists a pending purchase keyed by the gateway's
// order id.
func (s *Service) CreateOrder(ctx context.Context, userID, courseID uuid.UUID) (*razorpay.Order, *Purchase, error) {
	crs, err := course.Get(s.db, courseID)
	if err != nil {
		return nil, nil, err
	}

	amount := crs.Price.MinorUnits()
	receipt := fmt.Sprintf("rcpt_%s", uuid.NewString()[:18])

	order, err := s.gateway.CreateOrder(ctx, amount, "INR", receipt)
	if err != nil {
		metrics.RecordSettlement("order_failed")
		return nil, nil, fmt.Errorf("%w: %v", ErrGatewayOrder, err)
	}

	p := Purchase{
		CourseID:  courseID,
		UserID:    userID,
		Amount:    amount,
		Status:    types.PurchaseStatusPending,
		OrderID:   order.ID,
		PaymentID: order.ID,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, nil, err
	}

	s.logger.Info("purchase order created",
		"purchaseId", p.ID, "orderId", order.ID, "courseId", courseID, "amount", amount)

	return order, &p, nil
}

// VerifyPayment settles a pending purchase. The gateway signature is the sole
// authenticity check; on match the record transitions to completed, its
// payment id is overwritten with the gateway's, and the enrollment fan-out
// runs. Safe under at-least-once delivery: resubmitting an already settled
// order returns ErrAlreadyCompleted without touching the record again.
func (s *Service) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (*Purchase, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, ErrMissingFields
	}

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		metrics.RecordSettlement("signature_mismatch")
		return nil, ErrSignatureMismatch
	}

	if s.settledMarkerSet(ctx, orderID) {
		return nil, ErrAlreadyCompleted
	}

	p, err := GetByOrderID(s.db, orderID)
	if err != nil {
		return nil, err
	}

	if p.Status == types.PurchaseStatusCompleted {
		s.markSettled(ctx, orderID)
		return &p, ErrAlreadyCompleted
	}

	p.Status = types.PurchaseStatusCompleted
	p.PaymentID = paymentID
	if err := s.db.Save(&p).Error; err != nil {
		return nil, err
	}

	metrics.RecordSettlement("completed")
	s.markSettled(ctx, orderID)

	if err := s.ApplySideEffects(&p); err != nil {
		// The purchase is settled; the fan-out is retried by the
		// reconciliation job. Surface the failure to the caller.
		return &p, err
	}

	s.sendConfirmation(&p)

	return &p, nil
}

// ApplySideEffects runs the three enrollment writes for a settled purchase:
// unlock the course's lecture previews, add the course to the user's enrolled
// set, add the user to the course roster. Each step is idempotent and none is
// rolled back when a later one fails.
func (s *Service) ApplySideEffects(p *Purchase) error {
	if err := lecture.UnlockPreviews(s.db, p.CourseID); err != nil {
		return fmt.Errorf("unlock lectures: %w", err)
	}

	if err := user.AddEnrolledCourse(s.db, p.UserID, p.CourseID); err != nil {
		return fmt.Errorf("enroll user: %w", err)
	}

	if err := course.AddEnrolledStudent(s.db, p.CourseID, p.UserID); err != nil {
		return fmt.Errorf("update course roster: %w", err)
	}

	return nil
}

// HasPurchase reports whether any purchase row exists for the pair.
func (s *Service) HasPurchase(userID, courseID uuid.UUID) (bool, error) {
	return Exists(s.db, userID, courseID)
}

// ListCompleted returns the user's settled purchases.
func (s *Service) ListCompleted(userID uuid.UUID) ([]Purchase, error) {
	return ListCompletedByUser(s.db, userID)
}

func (s *Service) settledMarkerSet(ctx context.Context, orderID string) bool {
	if s.cache == nil {
		return false
	}
	n, err := s.cache.Exists(ctx, settledKey(orderID))
	if err != nil {
		return false
	}
	return n > 0
}

func (s *Service) markSettled(ctx context.Context, orderID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, settledKey(orderID), "1", settledMarkerTTL); err != nil {
		s.logger.Warn("failed to cache settled order marker", "orderId", orderID, "error", err)
	}
}

func settledKey(orderID string) string {
	return "purchase:settled:" + orderID
}

func (s *Service) sendConfirmation(p *Purchase) {
	if s.mailer == nil {
		return
	}

	usr, err := user.Get(s.db, p.UserID)
	if err != nil {
		s.logger.Warn("skipping enrollment email, user lookup failed", "userId", p.UserID, "error", err)
		return
	}
	crs, err := course.Get(s.db, p.CourseID)
	if err != nil {
		s.logger.Warn("skipping enrollment email, course lookup failed", "courseId", p.CourseID, "error", err)
		return
	}

	if err := s.mailer.SendEnrollmentConfirmation(usr.Email, usr.Name, crs.Title); err != nil {
		s.logger.Warn("failed to send enrollment confirmation", "userId", p.UserID, "error", err)
	}
}
