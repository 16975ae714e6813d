package flow

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
	"hotelbooking/internal/pricing"
)

// Quote is the price breakdown shown before the customer confirms. All
// amounts are whole VND.
type Quote struct {
	Nights         int
	OriginalPrice  int64
	Discount       int64
	TotalPrice     int64
	DepositPercent int
	DepositAmount  int64
}

// BookingFlow drives one customer's path from room search to paid deposit.
// It keeps the draft state (stay dates, selected room, applied coupon) and
// guards against double submission. Not safe for concurrent use by multiple
// goroutines; one flow serves one customer session.
type BookingFlow struct {
	api      *Client
	notifier Notifier
	now      func() time.Time

	checkIn         string
	checkOut        string
	guests          int
	specialRequests string
	room            *entities.RoomResponse
	coupon          *entities.CouponValidationResponse
	couponCode      string

	mu         sync.Mutex
	submitting bool
	pending    *entities.BookingResponse
}

func NewBookingFlow(api *Client, notifier Notifier) *BookingFlow {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &BookingFlow{api: api, notifier: notifier, now: time.Now}
}

// SetStay records the requested date range. An applied coupon is kept as-is:
// it was validated against the amount at application time and is only
// re-checked server-side on submit.
func (f *BookingFlow) SetStay(checkIn, checkOut string) error {
	for _, d := range []string{checkIn, checkOut} {
		if _, err := pricing.ParseDate(d); err != nil {
			return fmt.Errorf("invalid date %q: %w", d, err)
		}
	}
	f.checkIn = checkIn
	f.checkOut = checkOut
	return nil
}

func (f *BookingFlow) SetGuests(n int) {
	f.guests = n
}

func (f *BookingFlow) SetSpecialRequests(text string) {
	f.specialRequests = text
}

// Search lists rooms with availability for the current stay.
func (f *BookingFlow) Search(roomType string, capacity int) ([]entities.RoomResponse, error) {
	return f.api.SearchRooms(entities.RoomSearchRequest{
		CheckInDate:  f.checkIn,
		CheckOutDate: f.checkOut,
		RoomType:     roomType,
		Capacity:     capacity,
	})
}

func (f *BookingFlow) SelectRoom(room entities.RoomResponse) {
	f.room = &room
}

// ApplyCoupon validates the code against the current stay price and applies
// it when valid. Only one coupon can be active; the previous one must be
// cleared before applying another. Codes are never applied implicitly.
func (f *BookingFlow) ApplyCoupon(code string) error {
	if f.coupon != nil {
		return errors.New("a coupon is already applied, clear it first")
	}
	quote, err := f.Quote(pricing.DefaultDepositPercent)
	if err != nil {
		return err
	}
	resp, err := f.api.ValidateCoupon(code, quote.OriginalPrice)
	if err != nil {
		return fmt.Errorf("could not validate coupon: %w", err)
	}
	if !resp.Valid {
		f.notifier.Notify(Warning, resp.Message)
		return errors.New(resp.Message)
	}
	f.coupon = resp
	f.couponCode = code
	f.notifier.Notify(Success, resp.Message)
	return nil
}

func (f *BookingFlow) ClearCoupon() {
	f.coupon = nil
	f.couponCode = ""
}

// Quote computes the price breakdown for the current selection.
func (f *BookingFlow) Quote(depositPercent int) (*Quote, error) {
	if f.room == nil {
		return nil, errors.New("no room selected")
	}
	checkIn, err := pricing.ParseDate(f.checkIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := pricing.ParseDate(f.checkOut)
	if err != nil {
		return nil, err
	}

	nights := pricing.Nights(checkIn, checkOut)
	original := pricing.OriginalPrice(f.room.PricePerNight, nights)
	var discount int64
	if f.coupon != nil {
		discount = f.coupon.Discount
	}
	total := pricing.Total(original, discount)

	deposit, err := pricing.Deposit(total, depositPercent)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Nights:         nights,
		OriginalPrice:  original,
		Discount:       discount,
		TotalPrice:     total,
		DepositPercent: depositPercent,
		DepositAmount:  deposit,
	}, nil
}

// ConfirmBooking validates locally, re-probes availability and submits the
// booking exactly once. Local rule failures never reach the network. The
// probe is advisory: a transport failure there falls through to the submit,
// where the server has the final word.
func (f *BookingFlow) ConfirmBooking() (*entities.BookingResponse, error) {
	if err := f.validateDraft(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, errors.New("booking submission already in progress")
	}
	f.submitting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	ref := uuid.NewString()

	rooms, err := f.api.SearchRooms(entities.RoomSearchRequest{
		CheckInDate:  f.checkIn,
		CheckOutDate: f.checkOut,
	})
	if err != nil {
		log.Printf("Availability probe failed for submit %s, proceeding: %v", ref, err)
	} else if !roomStillAvailable(rooms, f.room.ID) {
		f.notifier.Notify(Error, MsgRoomJustBooked)
		return nil, errors.New(MsgRoomJustBooked)
	}

	booking, err := f.api.CreateBooking(&entities.BookingCreateRequest{
		RoomID:          f.room.ID,
		CheckInDate:     f.checkIn,
		CheckOutDate:    f.checkOut,
		NumberOfGuests:  f.guests,
		SpecialRequests: f.specialRequests,
		CouponCode:      f.couponCode,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message == "Room is not available for the selected dates" {
			f.notifier.Notify(Error, MsgRoomJustBooked)
			return nil, errors.New(MsgRoomJustBooked)
		}
		translated := TranslateBookingError(err)
		f.notifier.Notify(Error, translated)
		return nil, errors.New(translated)
	}

	f.pending = booking
	if booking.Status == db.BookingStatusConfirmed {
		f.notifier.Notify(Success, MsgBookingConfirmed)
	} else {
		f.notifier.Notify(Success, MsgBookingCreated)
	}
	return booking, nil
}

// InitiatePayment creates the deposit payment for the pending booking and
// returns the gateway URL to redirect the browser to.
func (f *BookingFlow) InitiatePayment(depositPercent int) (string, error) {
	if f.pending == nil {
		return "", errors.New("no booking awaiting payment")
	}
	if f.pending.Status != db.BookingStatusPending {
		return "", errors.New("booking does not require payment")
	}

	deposit, err := pricing.Deposit(f.pending.TotalPrice, depositPercent)
	if err != nil {
		return "", err
	}

	resp, err := f.api.CreatePayment(f.pending.ID, deposit)
	if err != nil {
		f.notifier.Notify(Error, MsgNoPaymentURL)
		return "", errors.New(MsgNoPaymentURL)
	}
	if resp.PaymentURL == "" {
		f.notifier.Notify(Error, MsgNoPaymentURL)
		return "", errors.New(MsgNoPaymentURL)
	}
	return resp.PaymentURL, nil
}

// VerifyReturn settles the gateway redirect through the server. Only the
// server-verified outcome decides success; the raw redirect parameters are
// untrusted.
func (f *BookingFlow) VerifyReturn(params map[string]string) (*entities.PaymentReturnResponse, error) {
	resp, err := f.api.VerifyReturn(params)
	if err != nil {
		return nil, err
	}
	if resp.IsValid && resp.ResponseCode == "00" && resp.Status == db.PaymentStatusSuccess {
		f.notifier.Notify(Success, MsgPaymentSuccess)
		f.pending = nil
	} else {
		f.notifier.Notify(Error, MsgPaymentFailed)
	}
	return resp, nil
}

// PendingBooking returns the booking awaiting payment, if any.
func (f *BookingFlow) PendingBooking() *entities.BookingResponse {
	return f.pending
}

func (f *BookingFlow) validateDraft() error {
	if f.room == nil {
		return errors.New("no room selected")
	}
	checkIn, err := pricing.ParseDate(f.checkIn)
	if err != nil || checkIn.IsZero() {
		return errors.New("Ngày nhận phòng không hợp lệ.")
	}
	checkOut, err := pricing.ParseDate(f.checkOut)
	if err != nil || checkOut.IsZero() {
		return errors.New("Ngày trả phòng không hợp lệ.")
	}

	now := f.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return errors.New("Ngày nhận phòng không được ở quá khứ.")
	}
	if !checkOut.After(checkIn) {
		return errors.New("Ngày trả phòng phải sau ngày nhận phòng.")
	}
	if f.guests <= 0 {
		return errors.New("Số khách phải lớn hơn 0.")
	}
	if f.guests > f.room.Capacity {
		return errors.New("Số khách vượt quá sức chứa của phòng.")
	}
	return nil
}

func roomStillAvailable(rooms []entities.RoomResponse, roomID int64) bool {
	for i := range rooms {
		if rooms[i].ID == roomID {
			return rooms[i].Available
		}
	}
	return false
}
