package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
	"hotelbooking/internal/flow"
	"hotelbooking/internal/pricing"
)

var (
	apiURL string
	token  string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "bookingctl",
		Short: "Hotel booking client",
	}

	defaultAPI := os.Getenv("BOOKING_API_URL")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080/api"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "Booking API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BOOKING_API_TOKEN"), "Bearer token")

	rootCmd.AddCommand(
		searchCmd(),
		bookCmd(),
		verifyReturnCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFlow() *flow.BookingFlow {
	return flow.NewBookingFlow(flow.NewClient(apiURL, token), printNotifier{})
}

type printNotifier struct{}

func (printNotifier) Notify(kind flow.Kind, message string) {
	fmt.Printf("[%s] %s\n", kind, message)
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search rooms for a stay",
		RunE: func(cmd *cobra.Command, args []string) error {
			checkIn, _ := cmd.Flags().GetString("check-in")
			checkOut, _ := cmd.Flags().GetString("check-out")
			roomType, _ := cmd.Flags().GetString("room-type")
			capacity, _ := cmd.Flags().GetInt("capacity")

			f := newFlow()
			if err := f.SetStay(checkIn, checkOut); err != nil {
				return err
			}
			rooms, err := f.Search(strings.ToUpper(roomType), capacity)
			if err != nil {
				return err
			}

			for _, room := range rooms {
				line := fmt.Sprintf("#%d  %-6s %-8s %10d VND/night  sleeps %d",
					room.ID, room.RoomNumber, room.RoomType, room.PricePerNight, room.Capacity)
				if !room.Available {
					line += fmt.Sprintf("  (booked, free from %s)", room.AvailableFrom)
				}
				fmt.Println(line)
			}
			if len(rooms) == 0 {
				fmt.Println("No rooms match the requested stay.")
			}
			return nil
		},
	}

	cmd.Flags().String("check-in", "", "Check-in date (yyyy-mm-dd)")
	cmd.Flags().String("check-out", "", "Check-out date (yyyy-mm-dd)")
	cmd.Flags().String("room-type", "", "Room type filter")
	cmd.Flags().Int("capacity", 0, "Minimum capacity")
	cmd.MarkFlagRequired("check-in")
	cmd.MarkFlagRequired("check-out")
	return cmd
}

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a room and start the deposit payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, _ := cmd.Flags().GetInt64("room")
			checkIn, _ := cmd.Flags().GetString("check-in")
			checkOut, _ := cmd.Flags().GetString("check-out")
			guests, _ := cmd.Flags().GetInt("guests")
			coupon, _ := cmd.Flags().GetString("coupon")
			requests, _ := cmd.Flags().GetString("special-requests")
			depositPercent, _ := cmd.Flags().GetInt("deposit-percent")
			pay, _ := cmd.Flags().GetBool("pay")

			if !pricing.ValidDepositPercent(depositPercent) {
				return fmt.Errorf("deposit percent must be one of %v", pricing.AllowedDepositPercents)
			}

			f := newFlow()
			if err := f.SetStay(checkIn, checkOut); err != nil {
				return err
			}
			f.SetGuests(guests)
			f.SetSpecialRequests(requests)

			rooms, err := f.Search("", 0)
			if err != nil {
				return err
			}
			var selected *entities.RoomResponse
			for i := range rooms {
				if rooms[i].ID == roomID {
					selected = &rooms[i]
					break
				}
			}
			if selected == nil {
				return fmt.Errorf("room %d not found", roomID)
			}
			f.SelectRoom(*selected)

			if coupon != "" {
				if err := f.ApplyCoupon(coupon); err != nil {
					fmt.Printf("Coupon not applied: %v\n", err)
				}
			}

			quote, err := f.Quote(depositPercent)
			if err != nil {
				return err
			}
			fmt.Printf("%d nights x %d VND = %d VND\n", quote.Nights, selected.PricePerNight, quote.OriginalPrice)
			if quote.Discount > 0 {
				fmt.Printf("Discount: -%d VND\n", quote.Discount)
			}
			fmt.Printf("Total: %d VND, deposit (%d%%): %d VND\n", quote.TotalPrice, quote.DepositPercent, quote.DepositAmount)

			booking, err := f.ConfirmBooking()
			if err != nil {
				return err
			}
			fmt.Printf("Booking #%d created (%s)\n", booking.ID, booking.Status)

			if booking.Status != db.BookingStatusPending || !pay {
				return nil
			}

			url, err := f.InitiatePayment(depositPercent)
			if err != nil {
				return err
			}
			if err := saveState(&cliState{BookingID: booking.ID, DepositPercent: depositPercent}); err != nil {
				fmt.Printf("Warning: could not save pending payment state: %v\n", err)
			}
			fmt.Println("Open this URL in a browser to pay the deposit:")
			fmt.Println(url)
			fmt.Println("After the gateway redirects, run: bookingctl verify-return '<redirect URL query>'")
			return nil
		},
	}

	cmd.Flags().Int64("room", 0, "Room id")
	cmd.Flags().String("check-in", "", "Check-in date (yyyy-mm-dd)")
	cmd.Flags().String("check-out", "", "Check-out date (yyyy-mm-dd)")
	cmd.Flags().Int("guests", 1, "Number of guests")
	cmd.Flags().String("coupon", "", "Coupon code")
	cmd.Flags().String("special-requests", "", "Special requests")
	cmd.Flags().Int("deposit-percent", pricing.DefaultDepositPercent, "Deposit percent (20, 30, 40 or 50)")
	cmd.Flags().Bool("pay", true, "Create the deposit payment after booking")
	cmd.MarkFlagRequired("room")
	cmd.MarkFlagRequired("check-in")
	cmd.MarkFlagRequired("check-out")
	return cmd
}

func verifyReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-return <query-string>",
		Short: "Verify a gateway return redirect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseQuery(args[0])
			if err != nil {
				return err
			}

			f := newFlow()
			resp, err := f.VerifyReturn(params)
			if err != nil {
				return err
			}

			bookingID := resp.BookingID
			if bookingID == 0 {
				if state := loadState(); state != nil {
					bookingID = state.BookingID
				}
			}

			if resp.IsValid && resp.Status == db.PaymentStatusSuccess {
				fmt.Printf("Payment for booking #%d confirmed.\n", bookingID)
				clearState()
				return nil
			}
			fmt.Printf("Payment for booking #%d not confirmed (status %s): %s\n", bookingID, resp.Status, resp.Message)
			return nil
		},
	}
}

func parseQuery(raw string) (map[string]string, error) {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	params := map[string]string{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		decoded, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("invalid query parameter %q: %w", pair, err)
		}
		params[k] = decoded
	}
	return params, nil
}

// cliState carries the pending payment across the gateway redirect between
// CLI invocations.
type cliState struct {
	BookingID      int64 `json:"bookingId"`
	DepositPercent int   `json:"depositPercent"`
}

func statePath() string {
	if p := os.Getenv("BOOKINGCTL_STATE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookingctl.json"
	}
	return filepath.Join(home, ".bookingctl.json")
}

func saveState(s *cliState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(statePath(), data, 0o600)
}

func loadState() *cliState {
	data, err := os.ReadFile(statePath())
	if err != nil {
		return nil
	}
	var s cliState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	return &s
}

func clearState() {
	os.Remove(statePath())
}
