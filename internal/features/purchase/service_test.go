package purchase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/features/lecture"
	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/pkg/razorpay"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

type fakeGateway struct {
	secret    string
	failOrder bool
	orders    int
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*razorpay.Order, error) {
	if f.failOrder {
		return nil, errors.New("gateway unavailable")
	}
	f.orders++
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_%03d", f.orders),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return razorpay.Signature(f.secret, orderID, paymentID) == signature
}

func (f *fakeGateway) sign(orderID, paymentID string) string {
	return razorpay.Signature(f.secret, orderID, paymentID)
}

type fixture struct {
	db       *gorm.DB
	gateway  *fakeGateway
	service  *Service
	userID   uuid.UUID
	courseID uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&user.User{}, &course.Course{}, &lecture.Lecture{}, &Purchase{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	usr := user.User{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "not-a-real-hash",
		Role:     types.UserRoleStudent,
	}
	require.NoError(t, db.Create(&usr).Error)

	crs := course.Course{
		Title:     "Distributed Systems",
		Category:  "engineering",
		Price:     types.NewMoney(499),
		CreatorID: uuid.New(),
		Published: true,
	}
	require.NoError(t, db.Create(&crs).Error)

	for i := 0; i < 2; i++ {
		lec := lecture.Lecture{CourseID: crs.ID, Title: fmt.Sprintf("Lecture %d", i+1), Order: i + 1}
		require.NoError(t, db.Create(&lec).Error)
	}

	gw := &fakeGateway{secret: "test-secret"}
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		db:       db,
		gateway:  gw,
		service:  NewService(db, gw, nil, nil, discard),
		userID:   usr.ID,
		courseID: crs.ID,
	}
}

func (f *fixture) settle(t *testing.T) *Purchase {
	t.Helper()

	order, _, err := f.service.CreateOrder(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)

	paymentID := "pay_" + order.ID
	p, err := f.service.VerifyPayment(context.Background(), order.ID, paymentID, f.gateway.sign(order.ID, paymentID))
	require.NoError(t, err)
	return p
}

func TestCreateOrderPersistsPendingPurchase(t *testing.T) {
	f := setup(t)

	order, p, err := f.service.CreateOrder(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)

	assert.Equal(t, int64(49900), order.Amount)
	assert.Equal(t, "INR", order.Currency)

	assert.Equal(t, types.PurchaseStatusPending, p.Status)
	assert.Equal(t, order.ID, p.OrderID)
	assert.Equal(t, order.ID, p.PaymentID)
	assert.Equal(t, int64(49900), p.Amount)

	stored, err := GetByOrderID(f.db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.ID)
}

func TestCreateOrderMissingCourse(t *testing.T) {
	f := setup(t)

	_, _, err := f.service.CreateOrder(context.Background(), f.userID, uuid.New())
	assert.ErrorIs(t, err, course.ErrCourseNotFound)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	f := setup(t)
	f.gateway.failOrder = true

	_, _, err := f.service.CreateOrder(context.Background(), f.userID, f.courseID)
	assert.ErrorIs(t, err, ErrGatewayOrder)

	var count int64
	require.NoError(t, f.db.Model(&Purchase{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVerifyPaymentSettlesAndEnrolls(t *testing.T) {
	f := setup(t)

	p := f.settle(t)

	assert.Equal(t, types.PurchaseStatusCompleted, p.Status)
	assert.Equal(t, "pay_"+p.OrderID, p.PaymentID)

	lectures, err := lecture.ListByCourse(f.db, f.courseID)
	require.NoError(t, err)
	for _, lec := range lectures {
		assert.True(t, lec.IsPreviewFree)
	}

	usr, err := user.Get(f.db, f.userID)
	require.NoError(t, err)
	assert.Contains(t, []string(usr.EnrolledCourseIDs), f.courseID.String())

	crs, err := course.Get(f.db, f.courseID)
	require.NoError(t, err)
	assert.Contains(t, []string(crs.EnrolledStudentIDs), f.userID.String())
}

func TestVerifyPaymentDuplicateIsCleanNoOp(t *testing.T) {
	f := setup(t)

	p := f.settle(t)

	sig := f.gateway.sign(p.OrderID, p.PaymentID)
	_, err := f.service.VerifyPayment(context.Background(), p.OrderID, p.PaymentID, sig)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	usr, err := user.Get(f.db, f.userID)
	require.NoError(t, err)
	assert.Len(t, []string(usr.EnrolledCourseIDs), 1)

	completed, err := f.service.ListCompleted(f.userID)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestVerifyPaymentBadSignatureLeavesPending(t *testing.T) {
	f := setup(t)

	order, _, err := f.service.CreateOrder(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)

	_, err = f.service.VerifyPayment(context.Background(), order.ID, "pay_x", "forged")
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	stored, err := GetByOrderID(f.db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PurchaseStatusPending, stored.Status)
	assert.Equal(t, order.ID, stored.PaymentID)
}

func TestVerifyPaymentValidation(t *testing.T) {
	f := setup(t)

	_, err := f.service.VerifyPayment(context.Background(), "", "pay_1", "sig")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.service.VerifyPayment(context.Background(), "order_1", "", "sig")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.service.VerifyPayment(context.Background(), "order_1", "pay_1", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	f := setup(t)

	sig := f.gateway.sign("order_missing", "pay_1")
	_, err := f.service.VerifyPayment(context.Background(), "order_missing", "pay_1", sig)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestHasPurchaseCountsPendingOrders(t *testing.T) {
	f := setup(t)

	purchased, err := f.service.HasPurchase(f.userID, f.courseID)
	require.NoError(t, err)
	assert.False(t, purchased)

	_, _, err = f.service.CreateOrder(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)

	purchased, err = f.service.HasPurchase(f.userID, f.courseID)
	require.NoError(t, err)
	assert.True(t, purchased)
}

func TestListCompletedExcludesPending(t *testing.T) {
	f := setup(t)

	_, _, err := f.service.CreateOrder(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)

	completed, err := f.service.ListCompleted(f.userID)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestReconcileJobRepairsPartialFanOut(t *testing.T) {
	f := setup(t)

	f.settle(t)

	// Simulate a settled purchase whose enrollment writes were lost.
	require.NoError(t, f.db.Model(&user.User{}).Where("id = ?", f.userID).
		Update("enrolled_course_ids", nil).Error)

	job := NewReconcileJob(f.db, f.service, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	require.NoError(t, job.Execute(context.Background()))

	usr, err := user.Get(f.db, f.userID)
	require.NoError(t, err)
	assert.Contains(t, []string(usr.EnrolledCourseIDs), f.courseID.String())
}
