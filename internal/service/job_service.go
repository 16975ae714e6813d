package service

import (
	"fmt"
	"log"
	"time"

	"hotelbooking/internal/db"
	"hotelbooking/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// UpdateFinishedStays finds confirmed or checked-in bookings whose stay has
// ended and marks them CHECKED_OUT.
func (s *JobService) UpdateFinishedStays() error {
	log.Println("Cron Job: Checking for bookings to mark as 'CHECKED_OUT'...")

	bookingIDs, err := s.Repo.GetFinishedStayBookingIDs()
	if err != nil {
		return fmt.Errorf("cron job: failed to get bookings past check-out: %w", err)
	}

	if len(bookingIDs) == 0 {
		log.Println("Cron Job: No bookings found past their check-out date.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'CHECKED_OUT'. IDs: %v", len(bookingIDs), bookingIDs)

	if err := s.Repo.UpdateBookingStatuses(bookingIDs, db.BookingStatusCheckedOut); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}

	log.Printf("Cron Job: Successfully updated %d bookings to 'CHECKED_OUT'.", len(bookingIDs))
	return nil
}

// ExpireStalePayments fails PENDING payments created before the given time.
// The gateway URL itself expires after 15 minutes, so anything older was
// abandoned mid-redirect.
func (s *JobService) ExpireStalePayments(before time.Time) (int64, error) {
	return s.Repo.ExpirePendingPaymentsOlderThan(before)
}
