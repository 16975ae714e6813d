package flow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
)

type recordingNotifier struct {
	notices []string
}

func (n *recordingNotifier) Notify(kind Kind, message string) {
	n.notices = append(n.notices, kind.String()+": "+message)
}

func (n *recordingNotifier) contains(fragment string) bool {
	for _, notice := range n.notices {
		if strings.Contains(notice, fragment) {
			return true
		}
	}
	return false
}

// testServer is a scripted booking API.
type testServer struct {
	searchRooms   []entities.RoomResponse
	searchStatus  int
	couponResp    entities.CouponValidationResponse
	bookingResp   entities.BookingResponse
	bookingErr    string
	bookingStatus int
	paymentResp   entities.PaymentCreateResponse
	returnResp    entities.PaymentReturnResponse

	searchCalls   atomic.Int64
	validateCalls atomic.Int64
	bookingCalls  atomic.Int64
}

func (ts *testServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms/search", func(w http.ResponseWriter, r *http.Request) {
		ts.searchCalls.Add(1)
		if ts.searchStatus != 0 {
			http.Error(w, "search unavailable", ts.searchStatus)
			return
		}
		json.NewEncoder(w).Encode(ts.searchRooms)
	})
	mux.HandleFunc("GET /coupons/validate/", func(w http.ResponseWriter, r *http.Request) {
		ts.validateCalls.Add(1)
		json.NewEncoder(w).Encode(ts.couponResp)
	})
	mux.HandleFunc("POST /bookings", func(w http.ResponseWriter, r *http.Request) {
		ts.bookingCalls.Add(1)
		if ts.bookingErr != "" {
			status := ts.bookingStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			http.Error(w, ts.bookingErr, status)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ts.bookingResp)
	})
	mux.HandleFunc("POST /payment/create", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ts.paymentResp)
	})
	mux.HandleFunc("GET /payment/vnpay-return", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ts.returnResp)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doubleRoom() entities.RoomResponse {
	return entities.RoomResponse{
		ID: 1, RoomNumber: "101", RoomType: db.RoomTypeDouble,
		PricePerNight: 1_000_000, Capacity: 2, Available: true,
	}
}

func newTestFlow(t *testing.T, ts *testServer) (*BookingFlow, *recordingNotifier) {
	t.Helper()
	srv := ts.start(t)
	notifier := &recordingNotifier{}
	f := NewBookingFlow(NewClient(srv.URL, "test-token"), notifier)
	f.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, f.SetStay("2025-06-01", "2025-06-04"))
	f.SetGuests(2)
	f.SelectRoom(doubleRoom())
	return f, notifier
}

func TestQuoteWithCouponAndDeposit(t *testing.T) {
	ts := &testServer{
		couponResp: entities.CouponValidationResponse{
			Valid: true, Discount: 300_000, FinalAmount: 2_700_000,
			Message: "Áp dụng mã giảm giá thành công",
		},
	}
	f, _ := newTestFlow(t, ts)

	quote, err := f.Quote(30)
	require.NoError(t, err)
	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, int64(3_000_000), quote.OriginalPrice)
	assert.Equal(t, int64(3_000_000), quote.TotalPrice)

	require.NoError(t, f.ApplyCoupon("SUMMER25"))

	quote, err = f.Quote(30)
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), quote.Discount)
	assert.Equal(t, int64(2_700_000), quote.TotalPrice)
	assert.Equal(t, int64(810_000), quote.DepositAmount)
}

func TestQuoteRejectsBadDepositPercent(t *testing.T) {
	f, _ := newTestFlow(t, &testServer{})

	_, err := f.Quote(25)
	assert.Error(t, err)
}

func TestApplyCouponRejection(t *testing.T) {
	ts := &testServer{
		couponResp: entities.CouponValidationResponse{
			Valid: false, Message: "Mã giảm giá không tồn tại hoặc đã hết hạn",
		},
	}
	f, notifier := newTestFlow(t, ts)

	err := f.ApplyCoupon("BOGUS")
	require.Error(t, err)
	assert.True(t, notifier.contains("Mã giảm giá không tồn tại"))

	quote, err := f.Quote(30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Discount)
}

func TestApplyCouponNoStacking(t *testing.T) {
	ts := &testServer{
		couponResp: entities.CouponValidationResponse{Valid: true, Discount: 300_000},
	}
	f, _ := newTestFlow(t, ts)

	require.NoError(t, f.ApplyCoupon("SUMMER25"))
	validations := ts.validateCalls.Load()

	err := f.ApplyCoupon("WINTER10")
	require.Error(t, err)
	assert.Equal(t, validations, ts.validateCalls.Load())

	f.ClearCoupon()
	require.NoError(t, f.ApplyCoupon("WINTER10"))
}

func TestCouponKeptAfterDateChange(t *testing.T) {
	ts := &testServer{
		couponResp: entities.CouponValidationResponse{Valid: true, Discount: 300_000},
	}
	f, _ := newTestFlow(t, ts)

	require.NoError(t, f.ApplyCoupon("SUMMER25"))
	validations := ts.validateCalls.Load()

	// Changing dates keeps the applied coupon without re-validating it; the
	// server re-checks the code on submit.
	require.NoError(t, f.SetStay("2025-06-10", "2025-06-12"))

	quote, err := f.Quote(30)
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), quote.Discount)
	assert.Equal(t, validations, ts.validateCalls.Load())
}

func TestConfirmBookingSubmits(t *testing.T) {
	ts := &testServer{
		searchRooms: []entities.RoomResponse{doubleRoom()},
		bookingResp: entities.BookingResponse{
			ID: 7, RoomID: 1, TotalPrice: 3_000_000, Status: db.BookingStatusPending,
		},
	}
	f, notifier := newTestFlow(t, ts)

	booking, err := f.ConfirmBooking()
	require.NoError(t, err)
	assert.Equal(t, int64(7), booking.ID)
	assert.Equal(t, int64(1), ts.bookingCalls.Load())
	assert.True(t, notifier.contains(MsgBookingCreated))
	assert.NotNil(t, f.PendingBooking())
}

func TestConfirmBookingBlockedByProbe(t *testing.T) {
	room := doubleRoom()
	room.Available = false
	room.AvailableFrom = "2025-06-07"
	ts := &testServer{searchRooms: []entities.RoomResponse{room}}
	f, notifier := newTestFlow(t, ts)

	_, err := f.ConfirmBooking()
	require.Error(t, err)
	assert.Equal(t, MsgRoomJustBooked, err.Error())
	assert.True(t, notifier.contains(MsgRoomJustBooked))

	// The submit never went out.
	assert.Equal(t, int64(0), ts.bookingCalls.Load())
}

func TestConfirmBookingProceedsWhenProbeFails(t *testing.T) {
	ts := &testServer{
		searchStatus: http.StatusInternalServerError,
		bookingResp: entities.BookingResponse{
			ID: 7, RoomID: 1, TotalPrice: 3_000_000, Status: db.BookingStatusPending,
		},
	}
	f, _ := newTestFlow(t, ts)

	booking, err := f.ConfirmBooking()
	require.NoError(t, err)
	assert.Equal(t, int64(7), booking.ID)
	assert.Equal(t, int64(1), ts.bookingCalls.Load())
}

func TestConfirmBookingTranslatesServerRejection(t *testing.T) {
	ts := &testServer{
		searchRooms: []entities.RoomResponse{doubleRoom()},
		bookingErr:  "Room is not available for the selected dates",
	}
	f, notifier := newTestFlow(t, ts)

	_, err := f.ConfirmBooking()
	require.Error(t, err)
	assert.Equal(t, MsgRoomJustBooked, err.Error())
	assert.True(t, notifier.contains(MsgRoomJustBooked))
}

func TestConfirmBookingCapacityBlockedLocally(t *testing.T) {
	ts := &testServer{searchRooms: []entities.RoomResponse{doubleRoom()}}
	f, _ := newTestFlow(t, ts)
	f.SetGuests(5)

	_, err := f.ConfirmBooking()
	require.Error(t, err)
	assert.Equal(t, "Số khách vượt quá sức chứa của phòng.", err.Error())

	// Local validation failed before any request went out.
	assert.Equal(t, int64(0), ts.searchCalls.Load())
	assert.Equal(t, int64(0), ts.bookingCalls.Load())
}

func TestConfirmBookingPastDateBlockedLocally(t *testing.T) {
	ts := &testServer{searchRooms: []entities.RoomResponse{doubleRoom()}}
	f, _ := newTestFlow(t, ts)
	require.NoError(t, f.SetStay("2025-05-20", "2025-05-22"))

	_, err := f.ConfirmBooking()
	require.Error(t, err)
	assert.Equal(t, "Ngày nhận phòng không được ở quá khứ.", err.Error())
	assert.Equal(t, int64(0), ts.searchCalls.Load())
}

func TestInitiatePayment(t *testing.T) {
	ts := &testServer{
		searchRooms: []entities.RoomResponse{doubleRoom()},
		bookingResp: entities.BookingResponse{
			ID: 7, RoomID: 1, TotalPrice: 2_700_000, Status: db.BookingStatusPending,
		},
		paymentResp: entities.PaymentCreateResponse{
			PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=41",
			PaymentID:  "41",
		},
	}
	f, _ := newTestFlow(t, ts)

	_, err := f.ConfirmBooking()
	require.NoError(t, err)

	url, err := f.InitiatePayment(30)
	require.NoError(t, err)
	assert.Contains(t, url, "vnp_TxnRef=41")
}

func TestInitiatePaymentNoURL(t *testing.T) {
	ts := &testServer{
		searchRooms: []entities.RoomResponse{doubleRoom()},
		bookingResp: entities.BookingResponse{
			ID: 7, RoomID: 1, TotalPrice: 2_700_000, Status: db.BookingStatusPending,
		},
	}
	f, notifier := newTestFlow(t, ts)

	_, err := f.ConfirmBooking()
	require.NoError(t, err)

	_, err = f.InitiatePayment(30)
	require.Error(t, err)
	assert.Equal(t, MsgNoPaymentURL, err.Error())
	assert.True(t, notifier.contains(MsgNoPaymentURL))
}

func TestVerifyReturnSuccess(t *testing.T) {
	ts := &testServer{
		searchRooms: []entities.RoomResponse{doubleRoom()},
		bookingResp: entities.BookingResponse{
			ID: 7, RoomID: 1, TotalPrice: 2_700_000, Status: db.BookingStatusPending,
		},
		returnResp: entities.PaymentReturnResponse{
			IsValid: true, ResponseCode: "00", Status: db.PaymentStatusSuccess, BookingID: 7,
		},
	}
	f, notifier := newTestFlow(t, ts)

	_, err := f.ConfirmBooking()
	require.NoError(t, err)

	resp, err := f.VerifyReturn(map[string]string{"vnp_TxnRef": "41", "vnp_ResponseCode": "00"})
	require.NoError(t, err)
	assert.Equal(t, db.PaymentStatusSuccess, resp.Status)
	assert.True(t, notifier.contains(MsgPaymentSuccess))
	assert.Nil(t, f.PendingBooking())
}

func TestVerifyReturnRejectsInvalidOutcome(t *testing.T) {
	cases := []struct {
		name string
		resp entities.PaymentReturnResponse
	}{
		{
			name: "invalid signature",
			resp: entities.PaymentReturnResponse{IsValid: false, ResponseCode: "00", Status: db.PaymentStatusFailed},
		},
		{
			name: "declined",
			resp: entities.PaymentReturnResponse{IsValid: true, ResponseCode: "24", Status: db.PaymentStatusFailed},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := &testServer{
				searchRooms: []entities.RoomResponse{doubleRoom()},
				bookingResp: entities.BookingResponse{
					ID: 7, RoomID: 1, TotalPrice: 2_700_000, Status: db.BookingStatusPending,
				},
				returnResp: tc.resp,
			}
			f, notifier := newTestFlow(t, ts)

			_, err := f.ConfirmBooking()
			require.NoError(t, err)

			// Even when the redirect parameters claim success, only the
			// server-verified outcome counts.
			resp, err := f.VerifyReturn(map[string]string{"vnp_ResponseCode": "00"})
			require.NoError(t, err)
			assert.NotEqual(t, db.PaymentStatusSuccess, resp.Status)
			assert.True(t, notifier.contains(MsgPaymentFailed))
			assert.NotNil(t, f.PendingBooking())
		})
	}
}

func TestTranslateBookingError(t *testing.T) {
	assert.Equal(t, "Phòng đã được đặt trong khoảng ngày này.",
		TranslateBookingError(&APIError{StatusCode: 400, Message: "Room is not available for the selected dates"}))
	assert.Equal(t, "Số khách vượt quá sức chứa của phòng.",
		TranslateBookingError(&APIError{StatusCode: 400, Message: "Number of guests exceeds room capacity"}))
	assert.Equal(t, "Ngày nhận phòng không được ở quá khứ.",
		TranslateBookingError(&APIError{StatusCode: 400, Message: "Check-in date cannot be in the past"}))
	assert.Equal(t, "some other failure",
		TranslateBookingError(&APIError{StatusCode: 500, Message: "some other failure"}))
	assert.Empty(t, TranslateBookingError(nil))
}
