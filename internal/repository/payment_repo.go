package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotelbooking/internal/db"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(database *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: database}
}

const paymentColumns = `id, booking_id, amount, method, status, transaction_id, bank_code, card_type, description, session_id, created_at, paid_at`

func scanPayment(row interface{ Scan(...any) error }) (*db.Payment, error) {
	var p db.Payment
	err := row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status,
		&p.TransactionID, &p.BankCode, &p.CardType, &p.Description, &p.SessionID,
		&p.CreatedAt, &p.PaidAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) CreatePayment(p *db.Payment) error {
	query := `
		INSERT INTO payments (booking_id, amount, method, status, description, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`
	return r.DB.QueryRow(query,
		p.BookingID, p.Amount, p.Method, p.Status, p.Description, p.SessionID,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepository) GetPaymentByID(id int64) (*db.Payment, error) {
	p, err := scanPayment(r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) GetPaymentBySessionID(sessionID string) (*db.Payment, error) {
	p, err := scanPayment(r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE session_id = $1`, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment for session %q not found: %w", sessionID, err)
		}
		return nil, fmt.Errorf("error querying payment by session: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) GetPaymentsByBookingID(bookingID int64) ([]db.Payment, error) {
	rows, err := r.DB.Query(`SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1 ORDER BY created_at DESC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("error querying payments for booking %d: %w", bookingID, err)
	}
	defer rows.Close()

	var payments []db.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// MarkPaymentSuccess records the gateway result and stamps paid_at.
func (r *PaymentRepository) MarkPaymentSuccess(id int64, transactionID, bankCode, cardType string) error {
	query := `
		UPDATE payments
		SET status = $2, transaction_id = $3, bank_code = $4, card_type = $5, paid_at = $6
		WHERE id = $1`
	_, err := r.DB.Exec(query, id, db.PaymentStatusSuccess, transactionID, bankCode, cardType, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error marking payment %d success: %w", id, err)
	}
	return nil
}

func (r *PaymentRepository) UpdatePaymentStatus(id int64, status string) error {
	_, err := r.DB.Exec(`UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating payment %d status: %w", id, err)
	}
	return nil
}
