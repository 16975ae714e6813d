package service

import (
	"fmt"
	"log"
	"time"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
	apperrors "hotelbooking/internal/errors"
	"hotelbooking/internal/pricing"
)

type roomGetter interface {
	GetRoomByID(id int64) (*db.Room, error)
}

type bookingStore interface {
	CreateBooking(b *db.Booking) error
	GetBookingByID(id int64) (*db.Booking, error)
	FindConflictingBookings(roomID int64, checkIn, checkOut time.Time) ([]db.Booking, error)
	GetBookingDetailsByUserID(userID int64) ([]entities.BookingDetailResponse, error)
	ListBookings(status string) ([]db.Booking, error)
	UpdateBookingStatus(id int64, status string) error
}

type discounter interface {
	CalculateDiscount(code string, amount int64) (int64, error)
	RedeemCoupon(code string) error
}

type BookingService struct {
	rooms    roomGetter
	bookings bookingStore
	coupons  discounter
	now      func() time.Time
}

func NewBookingService(rooms roomGetter, bookings bookingStore, coupons discounter) *BookingService {
	return &BookingService{rooms: rooms, bookings: bookings, coupons: coupons, now: time.Now}
}

// CreateBooking validates and persists a booking draft. The business-rule
// error messages are part of the API contract; clients match on them.
// An invalid coupon does not fail the booking, it is dropped and the booking
// proceeds undiscounted. A fully discounted (zero total) booking is confirmed
// immediately since there is nothing left to pay.
func (s *BookingService) CreateBooking(userID int64, req *entities.BookingCreateRequest) (*entities.BookingResponse, error) {
	checkIn, err := pricing.ParseDate(req.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date: %w", err)
	}
	checkOut, err := pricing.ParseDate(req.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("invalid check-out date: %w", err)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.IsZero() || checkIn.Before(today) {
		return nil, apperrors.ErrCheckInPast
	}
	if !checkOut.After(checkIn) {
		return nil, apperrors.ErrCheckOutNotAfter
	}

	room, err := s.rooms.GetRoomByID(req.RoomID)
	if err != nil {
		return nil, apperrors.ErrRoomNotFound
	}

	conflicts, err := s.bookings.FindConflictingBookings(room.ID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("error checking room availability: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, apperrors.ErrRoomNotAvailable
	}

	if req.NumberOfGuests > room.Capacity {
		return nil, apperrors.ErrGuestsOverCapacity
	}

	nights := pricing.Nights(checkIn, checkOut)
	totalPrice := pricing.OriginalPrice(room.PricePerNight, nights)

	var discount int64
	couponCode := req.CouponCode
	if couponCode != "" {
		discount, err = s.coupons.CalculateDiscount(couponCode, totalPrice)
		if err != nil {
			// Invalid coupon: drop it and book at full price.
			log.Printf("Coupon %q rejected for booking attempt: %v", couponCode, err)
			couponCode = ""
			discount = 0
		}
	}
	totalPrice = pricing.Total(totalPrice, discount)

	status := db.BookingStatusPending
	if totalPrice == 0 {
		status = db.BookingStatusConfirmed
	}

	booking := &db.Booking{
		UserID:          userID,
		RoomID:          room.ID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		TotalPrice:      totalPrice,
		DiscountAmount:  discount,
		CouponCode:      couponCode,
		SpecialRequests: req.SpecialRequests,
		Status:          status,
	}
	if err := s.bookings.CreateBooking(booking); err != nil {
		return nil, fmt.Errorf("error creating booking: %w", err)
	}

	if couponCode != "" {
		if err := s.coupons.RedeemCoupon(couponCode); err != nil {
			log.Printf("Booking %d created but coupon %q redemption failed: %v", booking.ID, couponCode, err)
		}
	}

	resp := bookingToResponse(booking, room)
	return &resp, nil
}

func (s *BookingService) GetBookingByID(id int64) (*entities.BookingResponse, error) {
	booking, err := s.bookings.GetBookingByID(id)
	if err != nil {
		return nil, apperrors.ErrBookingNotFound
	}
	room, err := s.rooms.GetRoomByID(booking.RoomID)
	if err != nil {
		return nil, err
	}
	resp := bookingToResponse(booking, room)
	return &resp, nil
}

func (s *BookingService) GetBookingDetailsByUserID(userID int64) ([]entities.BookingDetailResponse, error) {
	return s.bookings.GetBookingDetailsByUserID(userID)
}

// CancelBooking lets the owner cancel before the stay starts. Completed and
// in-progress stays stay on the books.
func (s *BookingService) CancelBooking(id, userID int64) error {
	booking, err := s.bookings.GetBookingByID(id)
	if err != nil {
		return apperrors.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return fmt.Errorf("you are not authorized to cancel this booking")
	}
	if booking.Status == db.BookingStatusCheckedIn || booking.Status == db.BookingStatusCheckedOut {
		return fmt.Errorf("cannot cancel a booking that is already checked-in or checked-out")
	}
	return s.bookings.UpdateBookingStatus(id, db.BookingStatusCancelled)
}

// Admin operations

func (s *BookingService) ListBookings(status string) ([]entities.BookingResponse, error) {
	bookings, err := s.bookings.ListBookings(status)
	if err != nil {
		return nil, err
	}
	out := make([]entities.BookingResponse, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		room, err := s.rooms.GetRoomByID(b.RoomID)
		if err != nil {
			log.Printf("Room %d missing for booking %d: %v", b.RoomID, b.ID, err)
			room = &db.Room{ID: b.RoomID}
		}
		out = append(out, bookingToResponse(b, room))
	}
	return out, nil
}

func (s *BookingService) UpdateBookingStatus(id int64, status string) error {
	switch status {
	case db.BookingStatusPending, db.BookingStatusConfirmed, db.BookingStatusCancelled,
		db.BookingStatusCheckedIn, db.BookingStatusCheckedOut:
	default:
		return fmt.Errorf("unknown booking status %q", status)
	}
	return s.bookings.UpdateBookingStatus(id, status)
}

// ConfirmBookingPaid flips a booking to CONFIRMED after a verified payment.
func (s *BookingService) ConfirmBookingPaid(id int64) error {
	return s.bookings.UpdateBookingStatus(id, db.BookingStatusConfirmed)
}

func bookingToResponse(b *db.Booking, room *db.Room) entities.BookingResponse {
	return entities.BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		RoomID:          b.RoomID,
		RoomNumber:      room.RoomNumber,
		RoomType:        room.RoomType,
		CheckInDate:     b.CheckInDate.Format(time.DateOnly),
		CheckOutDate:    b.CheckOutDate.Format(time.DateOnly),
		NumberOfGuests:  b.NumberOfGuests,
		TotalPrice:      b.TotalPrice,
		DiscountAmount:  b.DiscountAmount,
		CouponCode:      b.CouponCode,
		SpecialRequests: b.SpecialRequests,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
	}
}
