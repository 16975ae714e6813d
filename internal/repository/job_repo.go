package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"hotelbooking/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetFinishedStayBookingIDs returns bookings whose stay is over but whose
// status still says the guest is around.
func (r *JobRepository) GetFinishedStayBookingIDs() ([]int64, error) {
	query := `
		SELECT id FROM bookings
		WHERE status IN ($1, $2) AND check_out_date < CURRENT_DATE`
	rows, err := r.DB.Query(query, db.BookingStatusConfirmed, db.BookingStatusCheckedIn)
	if err != nil {
		return nil, fmt.Errorf("error querying finished stays: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateBookingStatuses(ids []int64, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// ExpirePendingPaymentsOlderThan fails PENDING payments created before the
// cutoff. Reconciles the gap where the customer never came back from the
// gateway.
func (r *JobRepository) ExpirePendingPaymentsOlderThan(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`UPDATE payments SET status = $1 WHERE status = $2 AND created_at < $3`,
		db.PaymentStatusFailed, db.PaymentStatusPending, before,
	)
	if err != nil {
		return 0, fmt.Errorf("error expiring pending payments: %w", err)
	}
	return result.RowsAffected()
}
