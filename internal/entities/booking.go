package entities

import "time"

// BookingCreateRequest is the booking submission payload. CouponCode is only
// set when the customer explicitly applied one.
type BookingCreateRequest struct {
	RoomID          int64  `json:"roomId"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	NumberOfGuests  int    `json:"numberOfGuests"`
	SpecialRequests string `json:"specialRequests,omitempty"`
	CouponCode      string `json:"couponCode,omitempty"`
}

type BookingResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	RoomID          int64     `json:"roomId"`
	RoomNumber      string    `json:"roomNumber"`
	RoomType        string    `json:"roomType"`
	CheckInDate     string    `json:"checkInDate"`
	CheckOutDate    string    `json:"checkOutDate"`
	NumberOfGuests  int       `json:"numberOfGuests"`
	TotalPrice      int64     `json:"totalPrice"`
	DiscountAmount  int64     `json:"discountAmount"`
	CouponCode      string    `json:"couponCode,omitempty"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookingDetailResponse joins in the room and guest columns the "my bookings"
// page renders.
type BookingDetailResponse struct {
	BookingID      int64  `json:"bookingId"`
	UserID         int64  `json:"userId"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	RoomID         int64  `json:"roomId"`
	RoomNumber     string `json:"roomNumber"`
	RoomType       string `json:"roomType"`
	PricePerNight  int64  `json:"pricePerNight"`
	ImageURL       string `json:"imageUrl"`
	CheckInDate    string `json:"checkInDate"`
	CheckOutDate   string `json:"checkOutDate"`
	NumberOfGuests int    `json:"numberOfGuests"`
	TotalPrice     int64  `json:"totalPrice"`
	Status         string `json:"status"`
}

type BookingStatusUpdateRequest struct {
	Status string `json:"status"`
}
