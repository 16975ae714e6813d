package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

func (r *BookingRepository) CreateBooking(b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(user_id, room_id, check_in_date, check_out_date, number_of_guests, total_price, discount_amount, coupon_code, special_requests, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query,
		b.UserID,
		b.RoomID,
		b.CheckInDate,
		b.CheckOutDate,
		b.NumberOfGuests,
		b.TotalPrice,
		b.DiscountAmount,
		b.CouponCode,
		b.SpecialRequests,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) GetBookingByID(id int64) (*db.Booking, error) {
	var b db.Booking
	query := `
		SELECT id, user_id, room_id, check_in_date, check_out_date, number_of_guests,
		       total_price, discount_amount, coupon_code, special_requests, status, created_at, updated_at
		FROM bookings WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CheckInDate, &b.CheckOutDate, &b.NumberOfGuests,
		&b.TotalPrice, &b.DiscountAmount, &b.CouponCode, &b.SpecialRequests, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return &b, nil
}

// FindConflictingBookings returns the non-cancelled bookings for a room that
// overlap the [checkIn, checkOut) range. A PENDING booking still blocks the
// room; only CANCELLED frees it.
func (r *BookingRepository) FindConflictingBookings(roomID int64, checkIn, checkOut time.Time) ([]db.Booking, error) {
	query := `
		SELECT id, user_id, room_id, check_in_date, check_out_date, number_of_guests,
		       total_price, discount_amount, coupon_code, special_requests, status, created_at, updated_at
		FROM bookings
		WHERE room_id = $1
		  AND status <> $2
		  AND check_in_date < $4
		  AND check_out_date > $3`
	rows, err := r.DB.Query(query, roomID, db.BookingStatusCancelled, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("error querying conflicting bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		err := rows.Scan(
			&b.ID, &b.UserID, &b.RoomID, &b.CheckInDate, &b.CheckOutDate, &b.NumberOfGuests,
			&b.TotalPrice, &b.DiscountAmount, &b.CouponCode, &b.SpecialRequests, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conflicting booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) GetBookingDetailsByUserID(userID int64) ([]entities.BookingDetailResponse, error) {
	query := `
		SELECT b.id, b.user_id, u.full_name, u.email, u.phone,
		       r.id, r.room_number, r.room_type, r.price_per_night, r.image_url,
		       b.check_in_date, b.check_out_date, b.number_of_guests, b.total_price, b.status
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN rooms r ON b.room_id = r.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for user %d: %w", userID, err)
	}
	defer rows.Close()

	var details []entities.BookingDetailResponse
	for rows.Next() {
		var d entities.BookingDetailResponse
		var checkIn, checkOut time.Time
		err := rows.Scan(
			&d.BookingID, &d.UserID, &d.FullName, &d.Email, &d.Phone,
			&d.RoomID, &d.RoomNumber, &d.RoomType, &d.PricePerNight, &d.ImageURL,
			&checkIn, &checkOut, &d.NumberOfGuests, &d.TotalPrice, &d.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking detail: %w", err)
		}
		d.CheckInDate = checkIn.Format(time.DateOnly)
		d.CheckOutDate = checkOut.Format(time.DateOnly)
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *BookingRepository) ListBookings(status string) ([]db.Booking, error) {
	query := `
		SELECT id, user_id, room_id, check_in_date, check_out_date, number_of_guests,
		       total_price, discount_amount, coupon_code, special_requests, status, created_at, updated_at
		FROM bookings`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		err := rows.Scan(
			&b.ID, &b.UserID, &b.RoomID, &b.CheckInDate, &b.CheckOutDate, &b.NumberOfGuests,
			&b.TotalPrice, &b.DiscountAmount, &b.CouponCode, &b.SpecialRequests, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) UpdateBookingStatus(id int64, status string) error {
	res, err := r.DB.Exec(`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating booking %d status: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("booking %d not found", id)
	}
	return nil
}
