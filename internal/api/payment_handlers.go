package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"hotelbooking/internal/service"
)

type PaymentHandler struct {
	Service *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// CreatePayment starts a deposit payment and returns the gateway URL the
// client must redirect the browser to.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookingID, err := strconv.ParseInt(q.Get("bookingId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid bookingId", http.StatusBadRequest)
		return
	}
	amount, err := strconv.ParseInt(q.Get("amount"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.CreatePayment(bookingID, amount, clientIP(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// VNPayReturn receives the gateway redirect and settles the payment. The
// response body carries the verified outcome; clients must never trust the
// raw query parameters directly.
func (h *PaymentHandler) VNPayReturn(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{}
	for k, vs := range r.URL.Query() {
		params[k] = vs[0]
	}

	resp := h.Service.HandleVNPayReturn(params)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *PaymentHandler) GetPaymentsByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	payments, err := h.Service.GetPaymentsByBookingID(bookingID)
	if err != nil {
		http.Error(w, "Error listing payments", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payments)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-FORWARDED-FOR"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
