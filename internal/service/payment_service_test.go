package service

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
)

type fakePaymentStore struct {
	payments map[int64]*db.Payment
	nextID   int64
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: map[int64]*db.Payment{}, nextID: 40}
}

func (f *fakePaymentStore) CreatePayment(p *db.Payment) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentStore) GetPaymentByID(id int64) (*db.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %d not found", id)
	}
	return p, nil
}

func (f *fakePaymentStore) GetPaymentBySessionID(sessionID string) (*db.Payment, error) {
	for _, p := range f.payments {
		if p.SessionID == sessionID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("payment for session %s not found", sessionID)
}

func (f *fakePaymentStore) GetPaymentsByBookingID(bookingID int64) ([]db.Payment, error) {
	var out []db.Payment
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) MarkPaymentSuccess(id int64, transactionID, bankCode, cardType string) error {
	p, ok := f.payments[id]
	if !ok {
		return fmt.Errorf("payment %d not found", id)
	}
	now := time.Now()
	p.Status = db.PaymentStatusSuccess
	p.TransactionID = transactionID
	p.BankCode = bankCode
	p.CardType = cardType
	p.PaidAt = &now
	return nil
}

func (f *fakePaymentStore) UpdatePaymentStatus(id int64, status string) error {
	p, ok := f.payments[id]
	if !ok {
		return fmt.Errorf("payment %d not found", id)
	}
	p.Status = status
	return nil
}

type fakeUserGetter struct {
	users map[int64]*db.User
}

func (f *fakeUserGetter) GetByID(id int64) (*db.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d not found", id)
	}
	return u, nil
}

type fakeSender struct {
	emails []entities.BookingEmailData
	sms    []entities.BookingEmailData
}

func (f *fakeSender) SendBookingConfirmationEmail(_ string, data entities.BookingEmailData) {
	f.emails = append(f.emails, data)
}

func (f *fakeSender) SendBookingConfirmationSMS(_ string, data entities.BookingEmailData) {
	f.sms = append(f.sms, data)
}

type fakeCheckout struct {
	url       string
	sessionID string
	err       error
}

func (f *fakeCheckout) CreateCheckoutSession(int64, string, string) (string, string, error) {
	return f.url, f.sessionID, f.err
}

type paymentFixture struct {
	svc      *PaymentService
	payments *fakePaymentStore
	bookings *fakeBookingStore
	sender   *fakeSender
	vnpay    *VNPayService
}

func newPaymentFixture(provider string) *paymentFixture {
	payments := newFakePaymentStore()
	bookings := newFakeBookingStore()
	bookings.bookings[7] = &db.Booking{
		ID:           7,
		UserID:       3,
		RoomID:       1,
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		TotalPrice:   2_700_000,
		Status:       db.BookingStatusPending,
	}
	users := &fakeUserGetter{users: map[int64]*db.User{
		3: {ID: 3, Email: "guest@example.com", FullName: "Nguyen Van A", Phone: "+84901234567"},
	}}
	sender := &fakeSender{}
	vnpay := testVNPay()
	stripe := &fakeCheckout{url: "https://checkout.stripe.test/s", sessionID: "cs_test_1"}
	rooms := &fakeRoomStore{rooms: testRooms()}

	svc := NewPaymentService(provider, vnpay, stripe, payments, bookings, rooms, users, sender)
	return &paymentFixture{svc: svc, payments: payments, bookings: bookings, sender: sender, vnpay: vnpay}
}

// signedReturnParams builds a VNPay return query signed with the test secret.
func signedReturnParams(mutate func(map[string]string)) map[string]string {
	params := map[string]string{
		"vnp_TmnCode":       "TESTTMN1",
		"vnp_TxnRef":        "41",
		"vnp_Amount":        "81000000",
		"vnp_ResponseCode":  "00",
		"vnp_TransactionNo": "14226112",
		"vnp_BankCode":      "NCB",
		"vnp_CardType":      "ATM",
	}
	if mutate != nil {
		mutate(params)
	}
	hashData, _ := buildSignableStrings(params)
	params["vnp_SecureHash"] = hmacSHA512("test-secret", hashData)
	return params
}

func TestCreatePaymentVNPay(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodVNPay)

	resp, err := fx.svc.CreatePayment(7, 810_000, "203.0.113.9")
	require.NoError(t, err)

	assert.Contains(t, resp.PaymentURL, "vnp_SecureHash=")
	assert.Contains(t, resp.PaymentURL, "vnp_TxnRef="+resp.PaymentID)

	id, err := strconv.ParseInt(resp.PaymentID, 10, 64)
	require.NoError(t, err)
	p, err := fx.payments.GetPaymentByID(id)
	require.NoError(t, err)
	assert.Equal(t, db.PaymentStatusPending, p.Status)
	assert.Equal(t, int64(810_000), p.Amount)
	assert.Equal(t, PaymentMethodVNPay, p.Method)
}

func TestCreatePaymentStripe(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodStripe)

	resp, err := fx.svc.CreatePayment(7, 810_000, "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/s", resp.PaymentURL)

	id, err := strconv.ParseInt(resp.PaymentID, 10, 64)
	require.NoError(t, err)
	p, err := fx.payments.GetPaymentByID(id)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", p.SessionID)
}

func TestCreatePaymentRejectsBadState(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodVNPay)

	_, err := fx.svc.CreatePayment(999, 810_000, "203.0.113.9")
	assert.Error(t, err)

	fx.bookings.bookings[7].Status = db.BookingStatusConfirmed
	_, err = fx.svc.CreatePayment(7, 810_000, "203.0.113.9")
	assert.Error(t, err)

	fx.bookings.bookings[7].Status = db.BookingStatusPending
	_, err = fx.svc.CreatePayment(7, 5_000_000, "203.0.113.9")
	assert.Error(t, err)
}

func TestHandleVNPayReturnSuccess(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodVNPay)
	fx.payments.payments[41] = &db.Payment{
		ID: 41, BookingID: 7, Amount: 810_000,
		Method: PaymentMethodVNPay, Status: db.PaymentStatusPending,
	}

	resp := fx.svc.HandleVNPayReturn(signedReturnParams(nil))

	assert.True(t, resp.IsValid)
	assert.Equal(t, "00", resp.ResponseCode)
	assert.Equal(t, db.PaymentStatusSuccess, resp.Status)
	assert.Equal(t, int64(7), resp.BookingID)

	p := fx.payments.payments[41]
	assert.Equal(t, db.PaymentStatusSuccess, p.Status)
	assert.Equal(t, "14226112", p.TransactionID)
	assert.Equal(t, "NCB", p.BankCode)
	require.NotNil(t, p.PaidAt)

	assert.Equal(t, db.BookingStatusConfirmed, fx.bookings.bookings[7].Status)
	require.Len(t, fx.sender.emails, 1)
	assert.Equal(t, int64(810_000), fx.sender.emails[0].DepositAmount)
	assert.Len(t, fx.sender.sms, 1)
}

func TestHandleVNPayReturnInvalidSignature(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodVNPay)
	fx.payments.payments[41] = &db.Payment{
		ID: 41, BookingID: 7, Amount: 810_000, Status: db.PaymentStatusPending,
	}

	params := signedReturnParams(nil)
	params["vnp_Amount"] = "9900"

	resp := fx.svc.HandleVNPayReturn(params)
	assert.False(t, resp.IsValid)
	assert.Equal(t, "Invalid signature", resp.Message)
	assert.Equal(t, db.PaymentStatusPending, fx.payments.payments[41].Status)
	assert.Equal(t, db.BookingStatusPending, fx.bookings.bookings[7].Status)
}

func TestHandleVNPayReturnAmountMismatch(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodVNPay)
	fx.payments.payments[41] = &db.Payment{
		ID: 41, BookingID: 7, Amount: 900_000, Status: db.PaymentStatusPending,
	}

	// The signature is valid but the signed amount does not match our record.
	resp := fx.svc.HandleVNPayReturn(signedReturnParams(nil))
	assert.False(t, resp.IsValid)
	assert.Equal(t, "Amount mismatch", resp.Message)
	assert.Equal(t, db.BookingStatusPending, fx.bookings.bookings[7].Status)
}

func TestHandleVNPayReturnDeclined(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodVNPay)
	fx.payments.payments[41] = &db.Payment{
		ID: 41, BookingID: 7, Amount: 810_000, Status: db.PaymentStatusPending,
	}

	resp := fx.svc.HandleVNPayReturn(signedReturnParams(func(p map[string]string) {
		p["vnp_ResponseCode"] = "24"
	}))

	assert.True(t, resp.IsValid)
	assert.Equal(t, "24", resp.ResponseCode)
	assert.Equal(t, db.PaymentStatusFailed, resp.Status)
	assert.Equal(t, db.PaymentStatusFailed, fx.payments.payments[41].Status)
	assert.Equal(t, db.BookingStatusPending, fx.bookings.bookings[7].Status)
	assert.Empty(t, fx.sender.emails)
}

func TestHandleVNPayReturnReplayIsIdempotent(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodVNPay)
	fx.payments.payments[41] = &db.Payment{
		ID: 41, BookingID: 7, Amount: 810_000, Status: db.PaymentStatusPending,
	}

	first := fx.svc.HandleVNPayReturn(signedReturnParams(nil))
	second := fx.svc.HandleVNPayReturn(signedReturnParams(nil))

	assert.Equal(t, db.PaymentStatusSuccess, first.Status)
	assert.Equal(t, db.PaymentStatusSuccess, second.Status)
	assert.True(t, second.IsValid)

	// Notifications fire once, on the first settlement.
	assert.Len(t, fx.sender.emails, 1)
}

func TestHandleStripeCompleted(t *testing.T) {
	fx := newPaymentFixture(PaymentMethodStripe)
	fx.payments.payments[41] = &db.Payment{
		ID: 41, BookingID: 7, Amount: 810_000,
		Method: PaymentMethodStripe, Status: db.PaymentStatusPending, SessionID: "cs_test_1",
	}

	require.NoError(t, fx.svc.HandleStripeCompleted("cs_test_1"))
	assert.Equal(t, db.PaymentStatusSuccess, fx.payments.payments[41].Status)
	assert.Equal(t, db.BookingStatusConfirmed, fx.bookings.bookings[7].Status)

	require.NoError(t, fx.svc.HandleStripeCompleted("cs_test_1"))
	assert.Len(t, fx.sender.emails, 1)

	assert.Error(t, fx.svc.HandleStripeCompleted("cs_unknown"))
}
