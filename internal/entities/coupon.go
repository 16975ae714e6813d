package entities

import "time"

// CouponValidationResponse is the validate endpoint's reply. Valid is false
// with a reason message on any rule failure; the HTTP status is 200 either
// way so the client can branch on the body alone.
type CouponValidationResponse struct {
	Valid       bool       `json:"valid"`
	Discount    int64      `json:"discount,omitempty"`
	FinalAmount int64      `json:"finalAmount,omitempty"`
	Message     string     `json:"message,omitempty"`
	Coupon      *CouponDTO `json:"coupon,omitempty"`
}

type CouponDTO struct {
	ID                int64     `json:"id"`
	Code              string    `json:"code"`
	Description       string    `json:"description,omitempty"`
	DiscountType      string    `json:"discountType"`
	DiscountValue     int64     `json:"discountValue"`
	MinOrderAmount    int64     `json:"minOrderAmount,omitempty"`
	MaxDiscountAmount int64     `json:"maxDiscountAmount,omitempty"`
	UsageLimit        int       `json:"usageLimit,omitempty"`
	UsedCount         int       `json:"usedCount"`
	ValidFrom         time.Time `json:"validFrom"`
	ValidUntil        time.Time `json:"validUntil"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
}
