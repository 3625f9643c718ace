package purchase

import (
	"context"
	"time"

	"log/slog"

	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/pkg/types"
)

// ReconcileJob re-applies the enrollment fan-out for recently settled
// purchases. The three settlement writes are not transactional, so a crash or
// partial failure can leave a completed purchase whose enrollment state is
// incomplete; every step is idempotent, which makes blind re-application safe.
type ReconcileJob struct {
	db      *gorm.DB
	service *Service
	logger  *slog.Logger
	window  time.Duration
}

// NewReconcileJob creates a reconciliation job covering purchases settled
// within the given window.
func NewReconcileJob(db *gorm.DB, service *Service, logger *slog.Logger, window time.Duration) *ReconcileJob {
	return &ReconcileJob{db: db, service: service, logger: logger, window: window}
}

// Name implements the scheduler job interface.
func (j *ReconcileJob) Name() string { return "purchase_reconcile" }

// Execute re-runs the side-effect fan-out for completed purchases updated
// within the window.
func (j *ReconcileJob) Execute(ctx context.Context) error {
	cutoff := time.Now().Add(-j.window)

	var purchases []Purchase
	err := j.db.WithContext(ctx).
		Where("status = ? AND updated_at >= ?", types.PurchaseStatusCompleted, cutoff).
		Find(&purchases).Error
	if err != nil {
		return err
	}

	var failures int
	for i := range purchases {
		if err := j.service.ApplySideEffects(&purchases[i]); err != nil {
			failures++
			j.logger.Warn("reconciliation failed for purchase",
				"purchaseId", purchases[i].ID, "orderId", purchases[i].OrderID, "error", err)
		}
	}

	j.logger.Debug("purchase reconciliation pass finished",
		"checked", len(purchases), "failed", failures)

	return nil
}
