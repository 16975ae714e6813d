package flow

import "strings"

// User-facing messages for the booking and payment steps.
const (
	MsgRoomJustBooked   = "Phòng vừa được đặt bởi người khác trong khoảng ngày này. Vui lòng chọn phòng khác hoặc đổi ngày."
	MsgNoPaymentURL     = "Không thể tạo đường dẫn thanh toán. Vui lòng thử lại."
	MsgPaymentSuccess   = "Thanh toán thành công! Đặt phòng của bạn đã được xác nhận."
	MsgPaymentFailed    = "Thanh toán thất bại hoặc đã bị hủy."
	MsgBookingCreated   = "Đặt phòng thành công! Vui lòng thanh toán tiền cọc để xác nhận."
	MsgBookingConfirmed = "Đặt phòng của bạn đã được xác nhận."
)

// bookingRuleTranslations maps the server's stable rule messages to the
// customer-facing wording. The keys are substring-matched so wrapped errors
// still translate.
var bookingRuleTranslations = []struct {
	fragment string
	message  string
}{
	{"Room is not available", "Phòng đã được đặt trong khoảng ngày này."},
	{"Number of guests exceeds room capacity", "Số khách vượt quá sức chứa của phòng."},
	{"Check-in date cannot be in the past", "Ngày nhận phòng không được ở quá khứ."},
	{"Check-out date must be after check-in date", "Ngày trả phòng phải sau ngày nhận phòng."},
	{"Room not found", "Phòng không tồn tại."},
}

// TranslateBookingError renders a submit failure for display. Unrecognized
// errors pass through unchanged.
func TranslateBookingError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, t := range bookingRuleTranslations {
		if strings.Contains(msg, t.fragment) {
			return t.message
		}
	}
	return msg
}
