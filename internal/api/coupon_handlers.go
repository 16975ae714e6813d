package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hotelbooking/internal/entities"
	"hotelbooking/internal/service"
)

type CouponHandler struct {
	Service *service.CouponService
}

func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{Service: svc}
}

// ValidateCoupon checks a code against an order amount. Rule failures are a
// 200 with valid=false and a reason message, not an error status.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil || amount < 0 {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.ValidateCoupon(code, amount)
	if err != nil {
		http.Error(w, "Error validating coupon", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Admin CRUD

func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.Service.ListCoupons()
	if err != nil {
		http.Error(w, "Error listing coupons", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(coupons)
}

func (h *CouponHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}
	coupon, err := h.Service.GetCouponByID(id)
	if err != nil {
		http.Error(w, "Coupon not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(coupon)
}

func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req entities.CouponDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	coupon, err := h.Service.CreateCoupon(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(coupon)
}

func (h *CouponHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}
	var req entities.CouponDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	coupon, err := h.Service.UpdateCoupon(id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(coupon)
}

func (h *CouponHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}
	if err := h.Service.DeleteCoupon(id); err != nil {
		http.Error(w, "Could not delete coupon", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Coupon deleted"})
}
