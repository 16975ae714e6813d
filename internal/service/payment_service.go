package service

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
)

const (
	PaymentMethodVNPay  = "VNPAY"
	PaymentMethodStripe = "STRIPE"
)

type paymentStore interface {
	CreatePayment(p *db.Payment) error
	GetPaymentByID(id int64) (*db.Payment, error)
	GetPaymentBySessionID(sessionID string) (*db.Payment, error)
	GetPaymentsByBookingID(bookingID int64) ([]db.Payment, error)
	MarkPaymentSuccess(id int64, transactionID, bankCode, cardType string) error
	UpdatePaymentStatus(id int64, status string) error
}

type bookingConfirmer interface {
	GetBookingByID(id int64) (*db.Booking, error)
	UpdateBookingStatus(id int64, status string) error
}

type userGetter interface {
	GetByID(id int64) (*db.User, error)
}

type confirmationSender interface {
	SendBookingConfirmationEmail(toEmail string, data entities.BookingEmailData)
	SendBookingConfirmationSMS(toPhone string, data entities.BookingEmailData)
}

type checkoutCreator interface {
	CreateCheckoutSession(amountVND int64, description, customerEmail string) (string, string, error)
}

type paymentURLBuilder interface {
	CreatePaymentURL(txnRef string, amountVND int64, orderInfo, ipAddr string) (string, error)
	VerifyReturn(params map[string]string) bool
}

// PaymentService creates deposit payments against the configured gateway and
// settles them from gateway callbacks. VNPay settles from the signed return
// URL, Stripe from the checkout webhook.
type PaymentService struct {
	provider string
	vnpay    paymentURLBuilder
	stripe   checkoutCreator
	payments paymentStore
	bookings bookingConfirmer
	rooms    roomGetter
	users    userGetter
	sender   confirmationSender
}

func NewPaymentService(provider string, vnpay paymentURLBuilder, stripe checkoutCreator,
	payments paymentStore, bookings bookingConfirmer, rooms roomGetter, users userGetter,
	sender confirmationSender) *PaymentService {
	if provider == "" {
		provider = PaymentMethodVNPay
	}
	return &PaymentService{
		provider: provider,
		vnpay:    vnpay,
		stripe:   stripe,
		payments: payments,
		bookings: bookings,
		rooms:    rooms,
		users:    users,
		sender:   sender,
	}
}

// CreatePayment records a PENDING payment for the booking deposit and returns
// the gateway URL the customer's browser must be redirected to. The payment
// row id doubles as the VNPay transaction reference.
func (s *PaymentService) CreatePayment(bookingID, amount int64, clientIP string) (*entities.PaymentCreateResponse, error) {
	booking, err := s.bookings.GetBookingByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %d not found", bookingID)
	}
	if booking.Status != db.BookingStatusPending {
		return nil, fmt.Errorf("booking %d is not awaiting payment", bookingID)
	}
	if amount <= 0 || amount > booking.TotalPrice {
		return nil, fmt.Errorf("invalid payment amount %d for booking %d", amount, bookingID)
	}

	payment := &db.Payment{
		BookingID: bookingID,
		Amount:    amount,
		Method:    s.provider,
		Status:    db.PaymentStatusPending,
	}

	switch s.provider {
	case PaymentMethodStripe:
		description := fmt.Sprintf("Dat coc booking #%d", bookingID)
		if room, err := s.rooms.GetRoomByID(booking.RoomID); err == nil {
			description = fmt.Sprintf("Dat coc phong %s", room.RoomNumber)
		}
		var email string
		if user, err := s.users.GetByID(booking.UserID); err == nil && user != nil {
			email = user.Email
		}
		url, sessionID, err := s.stripe.CreateCheckoutSession(amount, description, email)
		if err != nil {
			return nil, fmt.Errorf("error creating checkout session: %w", err)
		}
		payment.SessionID = sessionID
		payment.Description = description
		if err := s.payments.CreatePayment(payment); err != nil {
			return nil, fmt.Errorf("error recording payment: %w", err)
		}
		return &entities.PaymentCreateResponse{
			PaymentURL: url,
			PaymentID:  strconv.FormatInt(payment.ID, 10),
		}, nil
	default:
		payment.Description = fmt.Sprintf("Dat coc booking #%d", bookingID)
		if err := s.payments.CreatePayment(payment); err != nil {
			return nil, fmt.Errorf("error recording payment: %w", err)
		}
		txnRef := strconv.FormatInt(payment.ID, 10)
		url, err := s.vnpay.CreatePaymentURL(txnRef, amount, payment.Description, clientIP)
		if err != nil {
			return nil, fmt.Errorf("error building payment URL: %w", err)
		}
		return &entities.PaymentCreateResponse{
			PaymentURL: url,
			PaymentID:  txnRef,
		}, nil
	}
}

// HandleVNPayReturn verifies the signed return parameters and settles the
// payment. The response is the only payment outcome clients may trust; the
// raw query parameters are attacker-controlled until the signature checks out.
// Replays of an already settled payment are answered idempotently.
func (s *PaymentService) HandleVNPayReturn(params map[string]string) *entities.PaymentReturnResponse {
	if !s.vnpay.VerifyReturn(params) {
		return &entities.PaymentReturnResponse{
			IsValid: false,
			Status:  db.PaymentStatusFailed,
			Message: "Invalid signature",
		}
	}

	paymentID, err := strconv.ParseInt(params["vnp_TxnRef"], 10, 64)
	if err != nil {
		return &entities.PaymentReturnResponse{
			IsValid: false,
			Status:  db.PaymentStatusFailed,
			Message: "Unknown transaction reference",
		}
	}
	payment, err := s.payments.GetPaymentByID(paymentID)
	if err != nil {
		return &entities.PaymentReturnResponse{
			IsValid: false,
			Status:  db.PaymentStatusFailed,
			Message: "Unknown transaction reference",
		}
	}

	responseCode := params["vnp_ResponseCode"]

	// vnp_Amount comes back multiplied by 100.
	returnedAmount, err := strconv.ParseInt(params["vnp_Amount"], 10, 64)
	if err != nil || returnedAmount != payment.Amount*100 {
		return &entities.PaymentReturnResponse{
			IsValid:      false,
			ResponseCode: responseCode,
			Status:       db.PaymentStatusFailed,
			Message:      "Amount mismatch",
			BookingID:    payment.BookingID,
		}
	}

	if payment.Status == db.PaymentStatusSuccess {
		return &entities.PaymentReturnResponse{
			IsValid:      true,
			ResponseCode: responseCode,
			Status:       db.PaymentStatusSuccess,
			Message:      "Thanh toán thành công",
			BookingID:    payment.BookingID,
		}
	}

	if responseCode != "00" {
		if err := s.payments.UpdatePaymentStatus(payment.ID, db.PaymentStatusFailed); err != nil {
			log.Printf("Error marking payment %d failed: %v", payment.ID, err)
		}
		return &entities.PaymentReturnResponse{
			IsValid:      true,
			ResponseCode: responseCode,
			Status:       db.PaymentStatusFailed,
			Message:      "Thanh toán thất bại",
			BookingID:    payment.BookingID,
		}
	}

	if err := s.payments.MarkPaymentSuccess(payment.ID, params["vnp_TransactionNo"], params["vnp_BankCode"], params["vnp_CardType"]); err != nil {
		log.Printf("Error marking payment %d successful: %v", payment.ID, err)
	}
	s.confirmBooking(payment.BookingID, payment.Amount)

	return &entities.PaymentReturnResponse{
		IsValid:      true,
		ResponseCode: responseCode,
		Status:       db.PaymentStatusSuccess,
		Message:      "Thanh toán thành công",
		BookingID:    payment.BookingID,
	}
}

// HandleStripeCompleted settles a payment for a finished Stripe checkout
// session, called from the webhook handler.
func (s *PaymentService) HandleStripeCompleted(sessionID string) error {
	payment, err := s.payments.GetPaymentBySessionID(sessionID)
	if err != nil {
		return fmt.Errorf("no payment for checkout session %s: %w", sessionID, err)
	}
	if payment.Status == db.PaymentStatusSuccess {
		return nil
	}
	if err := s.payments.MarkPaymentSuccess(payment.ID, sessionID, "", ""); err != nil {
		return fmt.Errorf("error marking payment %d successful: %w", payment.ID, err)
	}
	s.confirmBooking(payment.BookingID, payment.Amount)
	return nil
}

func (s *PaymentService) GetPaymentsByBookingID(bookingID int64) ([]entities.PaymentDTO, error) {
	payments, err := s.payments.GetPaymentsByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.PaymentDTO, 0, len(payments))
	for i := range payments {
		out = append(out, paymentToDTO(&payments[i]))
	}
	return out, nil
}

func (s *PaymentService) confirmBooking(bookingID, depositAmount int64) {
	if err := s.bookings.UpdateBookingStatus(bookingID, db.BookingStatusConfirmed); err != nil {
		log.Printf("Payment settled but booking %d could not be confirmed: %v", bookingID, err)
		return
	}

	booking, err := s.bookings.GetBookingByID(bookingID)
	if err != nil {
		log.Printf("Booking %d confirmed but could not be reloaded for notification: %v", bookingID, err)
		return
	}
	user, err := s.users.GetByID(booking.UserID)
	if err != nil || user == nil {
		log.Printf("Booking %d confirmed but user %d not found for notification", bookingID, booking.UserID)
		return
	}

	data := entities.BookingEmailData{
		FullName:      user.FullName,
		BookingID:     booking.ID,
		CheckIn:       booking.CheckInDate.Format(time.DateOnly),
		CheckOut:      booking.CheckOutDate.Format(time.DateOnly),
		DepositAmount: depositAmount,
	}
	if room, err := s.rooms.GetRoomByID(booking.RoomID); err == nil {
		data.RoomNumber = room.RoomNumber
		data.RoomType = room.RoomType
	}

	s.sender.SendBookingConfirmationEmail(user.Email, data)
	if user.Phone != "" {
		s.sender.SendBookingConfirmationSMS(user.Phone, data)
	}
}

func paymentToDTO(p *db.Payment) entities.PaymentDTO {
	return entities.PaymentDTO{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		BankCode:      p.BankCode,
		CardType:      p.CardType,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		PaidAt:        p.PaidAt,
	}
}
