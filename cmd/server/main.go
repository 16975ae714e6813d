package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"hotelbooking/internal/api"
	"hotelbooking/internal/auth"
	"hotelbooking/internal/repository"
	"hotelbooking/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	roomRepo := repository.NewRoomRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	couponRepo := repository.NewCouponRepository(database)
	paymentRepo := repository.NewPaymentRepository(database)
	userRepo := repository.NewUserRepository(database)
	jobRepo := repository.NewJobRepository(database)

	senderSvc := service.NewSenderService()
	vnpaySvc := service.NewVNPayService(service.VNPayConfigFromEnv())
	stripeSvc := service.NewStripeService()
	couponSvc := service.NewCouponService(couponRepo)
	roomSvc := service.NewRoomService(roomRepo, bookingRepo)
	bookingSvc := service.NewBookingService(roomRepo, bookingRepo, couponSvc)
	paymentSvc := service.NewPaymentService(os.Getenv("PAYMENT_PROVIDER"),
		vnpaySvc, stripeSvc, paymentRepo, bookingRepo, roomRepo, userRepo, senderSvc)
	authSvc := service.NewAuthService(userRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	roomHandler := api.NewRoomHandler(roomSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	couponHandler := api.NewCouponHandler(couponSvc)
	paymentHandler := api.NewPaymentHandler(paymentSvc)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), paymentSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/rooms", roomHandler.ListRooms).Methods("GET")
	r.HandleFunc("/api/rooms/search", roomHandler.SearchRooms).Methods("POST")
	r.HandleFunc("/api/rooms/{id}", roomHandler.GetRoom).Methods("GET")
	r.HandleFunc("/api/coupons/validate/{code}", couponHandler.ValidateCoupon).Methods("GET")
	r.HandleFunc("/api/payment/vnpay-return", paymentHandler.VNPayReturn).Methods("GET")
	r.HandleFunc("/api/payment/stripe-webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Authenticated endpoints
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.Middleware)
	user.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	user.HandleFunc("/bookings/my", bookingHandler.GetMyBookings).Methods("GET")
	user.HandleFunc("/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	user.HandleFunc("/bookings/{id}", bookingHandler.CancelBooking).Methods("DELETE")
	user.HandleFunc("/payment/create", paymentHandler.CreatePayment).Methods("POST")
	user.HandleFunc("/payment/booking/{id}", paymentHandler.GetPaymentsByBooking).Methods("GET")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware, auth.AdminOnly)
	admin.HandleFunc("/rooms", roomHandler.CreateRoom).Methods("POST")
	admin.HandleFunc("/rooms/{id}", roomHandler.UpdateRoom).Methods("PUT")
	admin.HandleFunc("/rooms/{id}", roomHandler.DeleteRoom).Methods("DELETE")
	admin.HandleFunc("/bookings", bookingHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/{id}/status", bookingHandler.UpdateBookingStatus).Methods("PUT")
	admin.HandleFunc("/coupons", couponHandler.ListCoupons).Methods("GET")
	admin.HandleFunc("/coupons", couponHandler.CreateCoupon).Methods("POST")
	admin.HandleFunc("/coupons/{id}", couponHandler.GetCoupon).Methods("GET")
	admin.HandleFunc("/coupons/{id}", couponHandler.UpdateCoupon).Methods("PUT")
	admin.HandleFunc("/coupons/{id}", couponHandler.DeleteCoupon).Methods("DELETE")

	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := jobSvc.UpdateFinishedStays(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@every 30m", func() {
		n, err := jobSvc.ExpireStalePayments(time.Now().Add(-30 * time.Minute))
		if err != nil {
			log.Printf("Cron Job error expiring payments: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Cron Job: expired %d stale pending payments", n)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("CORS_ALLOWED_ORIGIN")}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler(r)))
}
