package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
	apperrors "hotelbooking/internal/errors"
)

type fakeBookingStore struct {
	conflicts []db.Booking
	findErr   error
	created   []*db.Booking
	bookings  map[int64]*db.Booking
	statuses  map[int64]string
	nextID    int64
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		bookings: map[int64]*db.Booking{},
		statuses: map[int64]string{},
		nextID:   100,
	}
}

func (f *fakeBookingStore) CreateBooking(b *db.Booking) error {
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	f.created = append(f.created, b)
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingStore) GetBookingByID(id int64) (*db.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d not found", id)
	}
	return b, nil
}

func (f *fakeBookingStore) FindConflictingBookings(roomID int64, checkIn, checkOut time.Time) ([]db.Booking, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.conflicts, nil
}

func (f *fakeBookingStore) GetBookingDetailsByUserID(userID int64) ([]entities.BookingDetailResponse, error) {
	return nil, nil
}

func (f *fakeBookingStore) ListBookings(status string) ([]db.Booking, error) {
	var out []db.Booking
	for _, b := range f.bookings {
		if status == "" || b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateBookingStatus(id int64, status string) error {
	f.statuses[id] = status
	if b, ok := f.bookings[id]; ok {
		b.Status = status
	}
	return nil
}

type fakeDiscounter struct {
	discount int64
	err      error
	redeemed []string
}

func (f *fakeDiscounter) CalculateDiscount(code string, amount int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.discount, nil
}

func (f *fakeDiscounter) RedeemCoupon(code string) error {
	f.redeemed = append(f.redeemed, code)
	return nil
}

func testBookingService(store *fakeBookingStore, coupons *fakeDiscounter) *BookingService {
	rooms := &fakeRoomStore{rooms: testRooms()}
	s := NewBookingService(rooms, store, coupons)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func validRequest() *entities.BookingCreateRequest {
	return &entities.BookingCreateRequest{
		RoomID:         1,
		CheckInDate:    "2025-06-01",
		CheckOutDate:   "2025-06-04",
		NumberOfGuests: 2,
	}
}

func TestCreateBookingComputesTotal(t *testing.T) {
	store := newFakeBookingStore()
	s := testBookingService(store, &fakeDiscounter{})

	resp, err := s.CreateBooking(7, validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(3_000_000), resp.TotalPrice)
	assert.Equal(t, int64(0), resp.DiscountAmount)
	assert.Equal(t, db.BookingStatusPending, resp.Status)
	assert.Equal(t, int64(7), resp.UserID)
	assert.Equal(t, "101", resp.RoomNumber)
	require.Len(t, store.created, 1)
}

func TestCreateBookingAppliesCoupon(t *testing.T) {
	store := newFakeBookingStore()
	coupons := &fakeDiscounter{discount: 300_000}
	s := testBookingService(store, coupons)

	req := validRequest()
	req.CouponCode = "SUMMER25"
	resp, err := s.CreateBooking(7, req)
	require.NoError(t, err)

	assert.Equal(t, int64(2_700_000), resp.TotalPrice)
	assert.Equal(t, int64(300_000), resp.DiscountAmount)
	assert.Equal(t, "SUMMER25", resp.CouponCode)
	assert.Equal(t, []string{"SUMMER25"}, coupons.redeemed)
}

func TestCreateBookingDropsInvalidCoupon(t *testing.T) {
	store := newFakeBookingStore()
	coupons := &fakeDiscounter{err: errors.New("Mã giảm giá không tồn tại hoặc đã hết hạn")}
	s := testBookingService(store, coupons)

	req := validRequest()
	req.CouponCode = "BOGUS"
	resp, err := s.CreateBooking(7, req)
	require.NoError(t, err)

	assert.Equal(t, int64(3_000_000), resp.TotalPrice)
	assert.Equal(t, int64(0), resp.DiscountAmount)
	assert.Empty(t, resp.CouponCode)
	assert.Empty(t, coupons.redeemed)
}

func TestCreateBookingZeroTotalConfirmsImmediately(t *testing.T) {
	store := newFakeBookingStore()
	coupons := &fakeDiscounter{discount: 3_000_000}
	s := testBookingService(store, coupons)

	req := validRequest()
	req.CouponCode = "FREESTAY"
	resp, err := s.CreateBooking(7, req)
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.TotalPrice)
	assert.Equal(t, db.BookingStatusConfirmed, resp.Status)
}

func TestCreateBookingValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*entities.BookingCreateRequest)
		wantErr error
	}{
		{
			name:    "check-in in the past",
			mutate:  func(r *entities.BookingCreateRequest) { r.CheckInDate = "2025-05-30" },
			wantErr: apperrors.ErrCheckInPast,
		},
		{
			name: "check-out equals check-in",
			mutate: func(r *entities.BookingCreateRequest) {
				r.CheckOutDate = r.CheckInDate
			},
			wantErr: apperrors.ErrCheckOutNotAfter,
		},
		{
			name: "check-out before check-in",
			mutate: func(r *entities.BookingCreateRequest) {
				r.CheckInDate = "2025-06-04"
				r.CheckOutDate = "2025-06-01"
			},
			wantErr: apperrors.ErrCheckOutNotAfter,
		},
		{
			name:    "unknown room",
			mutate:  func(r *entities.BookingCreateRequest) { r.RoomID = 999 },
			wantErr: apperrors.ErrRoomNotFound,
		},
		{
			name:    "too many guests",
			mutate:  func(r *entities.BookingCreateRequest) { r.NumberOfGuests = 5 },
			wantErr: apperrors.ErrGuestsOverCapacity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeBookingStore()
			s := testBookingService(store, &fakeDiscounter{})

			req := validRequest()
			tc.mutate(req)
			_, err := s.CreateBooking(7, req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, store.created)
		})
	}
}

func TestCreateBookingRoomConflict(t *testing.T) {
	store := newFakeBookingStore()
	store.conflicts = []db.Booking{{ID: 50, RoomID: 1}}
	s := testBookingService(store, &fakeDiscounter{})

	_, err := s.CreateBooking(7, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrRoomNotAvailable)
	assert.Empty(t, store.created)
}

func TestCancelBooking(t *testing.T) {
	store := newFakeBookingStore()
	store.bookings[5] = &db.Booking{ID: 5, UserID: 7, Status: db.BookingStatusPending}
	s := testBookingService(store, &fakeDiscounter{})

	require.NoError(t, s.CancelBooking(5, 7))
	assert.Equal(t, db.BookingStatusCancelled, store.statuses[5])
}

func TestCancelBookingWrongUser(t *testing.T) {
	store := newFakeBookingStore()
	store.bookings[5] = &db.Booking{ID: 5, UserID: 7, Status: db.BookingStatusPending}
	s := testBookingService(store, &fakeDiscounter{})

	err := s.CancelBooking(5, 8)
	assert.Error(t, err)
	assert.Empty(t, store.statuses)
}

func TestCancelBookingAfterCheckIn(t *testing.T) {
	store := newFakeBookingStore()
	store.bookings[5] = &db.Booking{ID: 5, UserID: 7, Status: db.BookingStatusCheckedIn}
	s := testBookingService(store, &fakeDiscounter{})

	err := s.CancelBooking(5, 7)
	assert.Error(t, err)
	assert.Empty(t, store.statuses)
}

func TestUpdateBookingStatusRejectsUnknown(t *testing.T) {
	store := newFakeBookingStore()
	s := testBookingService(store, &fakeDiscounter{})

	assert.Error(t, s.UpdateBookingStatus(1, "SHIPPED"))
	assert.NoError(t, s.UpdateBookingStatus(1, db.BookingStatusCheckedIn))
}
