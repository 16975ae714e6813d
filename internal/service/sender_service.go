package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"

	"hotelbooking/internal/entities"
)

type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

// SendBookingConfirmationEmail mails the deposit receipt. Sending happens on
// a goroutine so payment return handling never waits on SendGrid.
func (s *SenderService) SendBookingConfirmationEmail(toEmail string, data entities.BookingEmailData) {
	emailSubject := fmt.Sprintf("Xác nhận đặt phòng #%d - Đặt cọc thành công", data.BookingID)
	plainTextBody := fmt.Sprintf(
		"Xin chào %s,\n\nĐặt phòng của bạn đã được xác nhận.\n\n"+
			"Chi tiết đặt phòng:\n"+
			"Mã đặt phòng: %d\n"+
			"Phòng: %s (%s)\n"+
			"Nhận phòng: %s\n"+
			"Trả phòng: %s\n"+
			"Tiền cọc đã thanh toán: %d VND\n\n"+
			"Cảm ơn bạn đã lựa chọn khách sạn của chúng tôi.",
		data.FullName, data.BookingID, data.RoomNumber, data.RoomType,
		data.CheckIn, data.CheckOut, data.DepositAmount,
	)

	htmlBody := plainTextBody
	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: could not parse HTML email template (%s): %v", tmplPath, err)
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			log.Printf("ALERT: could not render HTML email for booking %d: %v", data.BookingID, err)
		} else {
			htmlBody = buf.String()
		}
	}

	go func(toEmail, toName, subject, plainBody, htmlBodyContent string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, htmlBodyContent); err != nil {
			log.Printf("ALERT (async): confirmation email for booking %d failed: %v", data.BookingID, err)
		}
	}(toEmail, data.FullName, emailSubject, plainTextBody, htmlBody)
}

// SendBookingConfirmationSMS texts a short confirmation to the guest.
func (s *SenderService) SendBookingConfirmationSMS(toPhone string, data entities.BookingEmailData) {
	smsMessage := fmt.Sprintf("Dat phong #%d da duoc xac nhan.\nPhong %s, nhan phong %s.\nChi tiet trong email cua ban.",
		data.BookingID, data.RoomNumber, data.CheckIn)

	if err := SendSMS(toPhone, smsMessage); err != nil {
		log.Printf("ALERT: booking %d confirmed but confirmation SMS to %s failed: %v", data.BookingID, toPhone, err)
	}
}
