// Package pricing holds the booking price arithmetic: nights between two
// calendar dates, the undiscounted total, and the deposit derived from a
// percentage of the discounted total. All amounts are whole VND.
package pricing

import (
	"fmt"
	"time"
)

// AllowedDepositPercents are the deposit choices offered to the customer.
var AllowedDepositPercents = []int{20, 30, 40, 50}

// DefaultDepositPercent is preselected when the customer has not chosen one.
const DefaultDepositPercent = 30

// Nights returns ceil((checkOut - checkIn) / 24h). A zero date on either side
// or a check-out at or before check-in resolves to 0 so every derived price
// is 0 instead of negative.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// OriginalPrice is the undiscounted total: nightly rate times nights, exact.
func OriginalPrice(pricePerNight int64, nights int) int64 {
	if nights <= 0 || pricePerNight <= 0 {
		return 0
	}
	return pricePerNight * int64(nights)
}

// Total applies an absolute discount to the original price. The coupon rules
// guarantee discount <= original; a larger discount still floors at 0.
func Total(original, discount int64) int64 {
	if discount >= original {
		return 0
	}
	return original - discount
}

// ValidDepositPercent reports whether p is one of the allowed choices.
func ValidDepositPercent(p int) bool {
	for _, allowed := range AllowedDepositPercents {
		if p == allowed {
			return true
		}
	}
	return false
}

// Deposit is round(total * percent / 100) in whole VND, rounding half up the
// way the original checkout computed it. percent must be an allowed choice.
func Deposit(total int64, percent int) (int64, error) {
	if !ValidDepositPercent(percent) {
		return 0, fmt.Errorf("deposit percent must be one of %v, got %d", AllowedDepositPercents, percent)
	}
	if total <= 0 {
		return 0, nil
	}
	return (total*int64(percent) + 50) / 100, nil
}

// ParseDate parses a yyyy-mm-dd wire date. Empty input yields a zero time so
// Nights can resolve to 0 without a separate error path.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
