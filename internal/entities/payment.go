package entities

import "time"

// PaymentCreateResponse carries the signed gateway redirect URL the browser
// must be navigated to, plus our payment id for later reconciliation.
type PaymentCreateResponse struct {
	PaymentURL string `json:"paymentUrl"`
	PaymentID  string `json:"paymentId"`
}

// PaymentReturnResponse is the server-verified outcome of a gateway return.
// IsValid reports the signature check; Status is SUCCESS or FAILED. Clients
// must trust only this, never the raw return query parameters.
type PaymentReturnResponse struct {
	IsValid      bool   `json:"isValid"`
	ResponseCode string `json:"responseCode,omitempty"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	BookingID    int64  `json:"bookingId,omitempty"`
}

type PaymentDTO struct {
	ID            int64      `json:"id"`
	BookingID     int64      `json:"bookingId"`
	Amount        int64      `json:"amount"`
	Method        string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId,omitempty"`
	BankCode      string     `json:"bankCode,omitempty"`
	CardType      string     `json:"cardType,omitempty"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}
