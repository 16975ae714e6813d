package db

import "time"

// Room types
const (
	RoomTypeSingle  = "SINGLE"
	RoomTypeDouble  = "DOUBLE"
	RoomTypeDeluxe  = "DELUXE"
	RoomTypeSuite   = "SUITE"
	RoomTypeFamily  = "FAMILY"
	RoomTypePremium = "PREMIUM"
)

// Booking statuses
const (
	BookingStatusPending    = "PENDING"
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCancelled  = "CANCELLED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
)

// Payment statuses
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusSuccess  = "SUCCESS"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// Coupon discount types
const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED"
)

// All monetary values are whole VND.
type Room struct {
	ID            int64
	RoomNumber    string
	RoomType      string
	PricePerNight int64
	Capacity      int
	SizeSqm       int
	Description   string
	Amenities     string
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         string
	CreatedAt    time.Time
}

type Booking struct {
	ID              int64
	UserID          int64
	RoomID          int64
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumberOfGuests  int
	TotalPrice      int64
	DiscountAmount  int64
	CouponCode      string
	SpecialRequests string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Coupon struct {
	ID                int64
	Code              string
	Description       string
	DiscountType      string
	DiscountValue     int64
	MinOrderAmount    int64
	MaxDiscountAmount int64
	UsageLimit        int
	UsedCount         int
	ValidFrom         time.Time
	ValidUntil        time.Time
	Active            bool
	CreatedAt         time.Time
}

type Payment struct {
	ID            int64
	BookingID     int64
	Amount        int64
	Method        string
	Status        string
	TransactionID string
	BankCode      string
	CardType      string
	Description   string
	SessionID     string
	CreatedAt     time.Time
	PaidAt        *time.Time
}
