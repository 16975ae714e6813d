package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hotelbooking/internal/auth"
	"hotelbooking/internal/entities"
	apperrors "hotelbooking/internal/errors"
	"hotelbooking/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBooking submits a booking for the authenticated user. Business-rule
// failures come back as 400 with the rule message as plain text; clients
// match on those messages.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req entities.BookingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.CreateBooking(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRoomNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, apperrors.ErrCheckInPast),
			errors.Is(err, apperrors.ErrCheckOutNotAfter),
			errors.Is(err, apperrors.ErrRoomNotAvailable),
			errors.Is(err, apperrors.ErrGuestsOverCapacity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	bookings, err := h.Service.GetBookingDetailsByUserID(userID)
	if err != nil {
		http.Error(w, "Error listing bookings", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	booking, err := h.Service.GetBookingByID(id)
	if err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}

	// Customers can only see their own bookings.
	userID := auth.UserIDFromContext(r.Context())
	if booking.UserID != userID && auth.RoleFromContext(r.Context()) != auth.RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	userID := auth.UserIDFromContext(r.Context())
	if err := h.Service.CancelBooking(id, userID); err != nil {
		if errors.Is(err, apperrors.ErrBookingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking cancelled"})
}

// Admin

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	bookings, err := h.Service.ListBookings(status)
	if err != nil {
		http.Error(w, "Error listing bookings", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	var req entities.BookingStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Service.UpdateBookingStatus(id, req.Status); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking status updated"})
}
