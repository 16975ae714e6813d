package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotelbooking/internal/entities"
)

// Client is a thin typed wrapper over the booking API. Error bodies come back
// as plain text carrying the business-rule message, which callers translate
// for display.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) SearchRooms(req entities.RoomSearchRequest) ([]entities.RoomResponse, error) {
	var rooms []entities.RoomResponse
	if err := c.do(http.MethodPost, "/rooms/search", req, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) ValidateCoupon(code string, amount int64) (*entities.CouponValidationResponse, error) {
	path := fmt.Sprintf("/coupons/validate/%s?amount=%d", url.PathEscape(code), amount)
	var resp entities.CouponValidationResponse
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateBooking(req *entities.BookingCreateRequest) (*entities.BookingResponse, error) {
	var resp entities.BookingResponse
	if err := c.do(http.MethodPost, "/bookings", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreatePayment(bookingID, amount int64) (*entities.PaymentCreateResponse, error) {
	path := fmt.Sprintf("/payment/create?bookingId=%d&amount=%d", bookingID, amount)
	var resp entities.PaymentCreateResponse
	if err := c.do(http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyReturn forwards the gateway redirect parameters to the server for
// signature verification.
func (c *Client) VerifyReturn(params map[string]string) (*entities.PaymentReturnResponse, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	var resp entities.PaymentReturnResponse
	if err := c.do(http.MethodGet, "/payment/vnpay-return?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// APIError is a non-2xx API reply. Message is the server's plain-text error
// body, which for booking rules is the stable rule message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}
