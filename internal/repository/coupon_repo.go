package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotelbooking/internal/db"
)

type CouponRepository struct {
	DB *sql.DB
}

func NewCouponRepository(database *sql.DB) *CouponRepository {
	return &CouponRepository{DB: database}
}

const couponColumns = `id, code, description, discount_type, discount_value, min_order_amount, max_discount_amount, usage_limit, used_count, valid_from, valid_until, active, created_at`

func scanCoupon(row interface{ Scan(...any) error }) (*db.Coupon, error) {
	var c db.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MinOrderAmount, &c.MaxDiscountAmount, &c.UsageLimit, &c.UsedCount,
		&c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveCouponByCode looks up an active coupon. Codes are stored uppercase.
func (r *CouponRepository) GetActiveCouponByCode(code string) (*db.Coupon, error) {
	coupon, err := scanCoupon(r.DB.QueryRow(
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1 AND active = TRUE`,
		strings.ToUpper(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying coupon %q: %w", code, err)
	}
	return coupon, nil
}

func (r *CouponRepository) GetCouponByID(id int64) (*db.Coupon, error) {
	coupon, err := scanCoupon(r.DB.QueryRow(`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("coupon %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying coupon: %w", err)
	}
	return coupon, nil
}

func (r *CouponRepository) ListCoupons() ([]db.Coupon, error) {
	rows, err := r.DB.Query(`SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing coupons: %w", err)
	}
	defer rows.Close()

	var coupons []db.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepository) CreateCoupon(c *db.Coupon) error {
	query := `
		INSERT INTO coupons
		(code, description, discount_type, discount_value, min_order_amount, max_discount_amount, usage_limit, valid_from, valid_until, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at`
	return r.DB.QueryRow(query,
		strings.ToUpper(c.Code), c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderAmount, c.MaxDiscountAmount, c.UsageLimit, c.ValidFrom, c.ValidUntil, c.Active,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *CouponRepository) UpdateCoupon(c *db.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $2, discount_type = $3, discount_value = $4, min_order_amount = $5,
		    max_discount_amount = $6, usage_limit = $7, valid_from = $8, valid_until = $9, active = $10
		WHERE id = $1`
	res, err := r.DB.Exec(query,
		c.ID, c.Description, c.DiscountType, c.DiscountValue, c.MinOrderAmount,
		c.MaxDiscountAmount, c.UsageLimit, c.ValidFrom, c.ValidUntil, c.Active,
	)
	if err != nil {
		return fmt.Errorf("error updating coupon %d: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("coupon %d not found", c.ID)
	}
	return nil
}

func (r *CouponRepository) DeleteCoupon(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting coupon %d: %w", id, err)
	}
	return nil
}

func (r *CouponRepository) IncrementUsedCount(code string) error {
	_, err := r.DB.Exec(`UPDATE coupons SET used_count = used_count + 1 WHERE code = $1`, strings.ToUpper(code))
	if err != nil {
		return fmt.Errorf("error incrementing used count for coupon %q: %w", code, err)
	}
	return nil
}
