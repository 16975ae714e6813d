package entities

// BookingEmailData feeds the confirmation email sent after a successful
// deposit payment.
type BookingEmailData struct {
	FullName      string
	BookingID     int64
	RoomNumber    string
	RoomType      string
	CheckIn       string
	CheckOut      string
	DepositAmount int64
}
