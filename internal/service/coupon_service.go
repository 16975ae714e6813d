package service

import (
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
)

// Coupon rejection messages shown to the customer.
const (
	msgCouponNotFound   = "Mã giảm giá không tồn tại hoặc đã hết hạn"
	msgCouponExpired    = "Mã giảm giá không còn hiệu lực"
	msgCouponBelowMin   = "Đơn hàng chưa đủ giá trị tối thiểu để áp dụng mã giảm giá"
	msgCouponUsedUp     = "Mã giảm giá đã hết lượt sử dụng"
	msgCouponCodeExists = "Mã giảm giá đã tồn tại"
)

type couponStore interface {
	GetActiveCouponByCode(code string) (*db.Coupon, error)
	GetCouponByID(id int64) (*db.Coupon, error)
	ListCoupons() ([]db.Coupon, error)
	CreateCoupon(c *db.Coupon) error
	UpdateCoupon(c *db.Coupon) error
	DeleteCoupon(id int64) error
	IncrementUsedCount(code string) error
}

type CouponService struct {
	repo couponStore
	now  func() time.Time
}

func NewCouponService(repo couponStore) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// ValidateCoupon checks a code against an order amount and reports either the
// discount it grants or the reason it does not apply. Never returns an error
// for business rejections; those travel in the response message.
func (s *CouponService) ValidateCoupon(code string, amount int64) (*entities.CouponValidationResponse, error) {
	coupon, err := s.repo.GetActiveCouponByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return &entities.CouponValidationResponse{Valid: false, Message: msgCouponNotFound}, nil
	}
	if msg := s.rejectionReason(coupon, amount); msg != "" {
		return &entities.CouponValidationResponse{Valid: false, Message: msg}, nil
	}

	discount := computeDiscount(coupon, amount)
	dto := couponToDTO(coupon)
	return &entities.CouponValidationResponse{
		Valid:       true,
		Discount:    discount,
		FinalAmount: amount - discount,
		Coupon:      &dto,
	}, nil
}

// CalculateDiscount is the strict variant used during booking creation: any
// rejection comes back as an error so the caller can drop the coupon.
func (s *CouponService) CalculateDiscount(code string, amount int64) (int64, error) {
	coupon, err := s.repo.GetActiveCouponByCode(code)
	if err != nil {
		return 0, err
	}
	if coupon == nil {
		return 0, fmt.Errorf("%s", msgCouponNotFound)
	}
	if msg := s.rejectionReason(coupon, amount); msg != "" {
		return 0, fmt.Errorf("%s", msg)
	}
	return computeDiscount(coupon, amount), nil
}

// RedeemCoupon burns one use of the code after a booking commits to it.
func (s *CouponService) RedeemCoupon(code string) error {
	return s.repo.IncrementUsedCount(code)
}

func (s *CouponService) rejectionReason(coupon *db.Coupon, amount int64) string {
	now := s.now()
	if !coupon.Active || now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return msgCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return msgCouponUsedUp
	}
	if coupon.MinOrderAmount > 0 && amount < coupon.MinOrderAmount {
		return msgCouponBelowMin
	}
	return ""
}

// computeDiscount derives the absolute discount in whole VND. A percentage
// coupon is capped by MaxDiscountAmount when set; no coupon ever discounts
// more than the order amount.
func computeDiscount(coupon *db.Coupon, amount int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case db.DiscountTypePercentage:
		discount = amount * coupon.DiscountValue / 100
		if coupon.MaxDiscountAmount > 0 && discount > coupon.MaxDiscountAmount {
			discount = coupon.MaxDiscountAmount
		}
	default:
		discount = coupon.DiscountValue
	}
	if discount > amount {
		discount = amount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// Admin CRUD

func (s *CouponService) ListCoupons() ([]entities.CouponDTO, error) {
	coupons, err := s.repo.ListCoupons()
	if err != nil {
		return nil, err
	}
	dtos := make([]entities.CouponDTO, 0, len(coupons))
	for i := range coupons {
		dtos = append(dtos, couponToDTO(&coupons[i]))
	}
	return dtos, nil
}

func (s *CouponService) GetCouponByID(id int64) (*entities.CouponDTO, error) {
	coupon, err := s.repo.GetCouponByID(id)
	if err != nil {
		return nil, err
	}
	dto := couponToDTO(coupon)
	return &dto, nil
}

func (s *CouponService) CreateCoupon(dto *entities.CouponDTO) (*entities.CouponDTO, error) {
	if existing, err := s.repo.GetActiveCouponByCode(dto.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%s", msgCouponCodeExists)
	}

	coupon := couponFromDTO(dto)
	coupon.Code = strings.ToUpper(coupon.Code)
	if err := s.repo.CreateCoupon(coupon); err != nil {
		return nil, err
	}
	created := couponToDTO(coupon)
	return &created, nil
}

func (s *CouponService) UpdateCoupon(id int64, dto *entities.CouponDTO) (*entities.CouponDTO, error) {
	existing, err := s.repo.GetCouponByID(id)
	if err != nil {
		return nil, err
	}
	coupon := couponFromDTO(dto)
	coupon.ID = existing.ID
	coupon.Code = existing.Code
	if err := s.repo.UpdateCoupon(coupon); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetCouponByID(id)
	if err != nil {
		return nil, err
	}
	out := couponToDTO(updated)
	return &out, nil
}

func (s *CouponService) DeleteCoupon(id int64) error {
	return s.repo.DeleteCoupon(id)
}

func couponToDTO(c *db.Coupon) entities.CouponDTO {
	return entities.CouponDTO{
		ID:                c.ID,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      c.DiscountType,
		DiscountValue:     c.DiscountValue,
		MinOrderAmount:    c.MinOrderAmount,
		MaxDiscountAmount: c.MaxDiscountAmount,
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		ValidFrom:         c.ValidFrom,
		ValidUntil:        c.ValidUntil,
		Active:            c.Active,
		CreatedAt:         c.CreatedAt,
	}
}

func couponFromDTO(dto *entities.CouponDTO) *db.Coupon {
	return &db.Coupon{
		Code:              dto.Code,
		Description:       dto.Description,
		DiscountType:      dto.DiscountType,
		DiscountValue:     dto.DiscountValue,
		MinOrderAmount:    dto.MinOrderAmount,
		MaxDiscountAmount: dto.MaxDiscountAmount,
		UsageLimit:        dto.UsageLimit,
		ValidFrom:         dto.ValidFrom,
		ValidUntil:        dto.ValidUntil,
		Active:            dto.Active,
	}
}
