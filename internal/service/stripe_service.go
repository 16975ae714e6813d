package service

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeService is the alternate deposit gateway, used when
// PAYMENT_PROVIDER=stripe. Unlike VNPay there is no return-URL signature to
// verify; the webhook handler confirms payments instead.
type StripeService struct{}

func NewStripeService() *StripeService {
	return &StripeService{}
}

// CreateCheckoutSession creates a hosted checkout page for the deposit and
// returns its redirect URL and session id. VND is a zero-decimal currency in
// Stripe, so the amount goes through unscaled.
func (s *StripeService) CreateCheckoutSession(amountVND int64, description, customerEmail string) (string, string, error) {
	resultURL := os.Getenv("PAYMENT_RESULT_URL")
	if resultURL == "" {
		resultURL = "http://localhost:3000/payment-result"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("vnd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountVND),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(resultURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(resultURL + "?session_id={CHECKOUT_SESSION_ID}&cancelled=1"),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("error creating checkout session: %w", err)
	}
	return sess.URL, sess.ID, nil
}
