package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"glasstrade-backend/internal/handlers"
	"glasstrade-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	siteHandler *handlers.SiteHandler,
	paymentHandler *handlers.PaymentHandler,
	productHandler *handlers.ProductHandler,
	inquiryHandler *handlers.InquiryHandler,
	contentHandler *handlers.ContentHandler,
	totpHandler *handlers.TOTPHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Health and metrics
	r.HandleFunc("/health", healthHandler.Ready).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	r.HandleFunc("/health/live", healthHandler.Live).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/products", productHandler.ListProducts).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", productHandler.GetProduct).Methods("GET")
	api.HandleFunc("/inquiries", inquiryHandler.CreateInquiry).Methods("POST")
	api.HandleFunc("/content/{slug}", contentHandler.GetPage).Methods("GET")

	// Authenticated routes (any role)
	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware.Authenticate)
	authed.HandleFunc("/auth/me", userHandler.Me).Methods("GET")
	authed.HandleFunc("/auth/totp/setup", totpHandler.Setup).Methods("POST")
	authed.HandleFunc("/auth/totp/verify", totpHandler.Verify).Methods("POST")
	authed.HandleFunc("/auth/totp", totpHandler.Disable).Methods("DELETE")
	authed.HandleFunc("/my/payments/{customer_id:[0-9]+}", paymentHandler.ListMyPayments).Methods("GET")
	authed.HandleFunc("/payments/{id:[0-9]+}/bill", paymentHandler.GetBill).Methods("GET")
	authed.HandleFunc("/payments/{id:[0-9]+}/bill/pdf", paymentHandler.DownloadBillPDF).Methods("GET")

	// Staff routes (admin and staff)
	staff := api.NewRoute().Subrouter()
	staff.Use(authMiddleware.Authenticate, authMiddleware.RequireStaff)

	staff.HandleFunc("/payments", paymentHandler.CreatePayment).Methods("POST")
	staff.HandleFunc("/payments", paymentHandler.ListPayments).Methods("GET")
	staff.HandleFunc("/payments/next-bill-number", paymentHandler.NextBillNumber).Methods("GET")
	staff.HandleFunc("/payments-stats", paymentHandler.GlobalStats).Methods("GET")
	staff.HandleFunc("/payments/stats", paymentHandler.StatusStats).Methods("GET")
	staff.HandleFunc("/payments/status/{status}", paymentHandler.ListByStatus).Methods("GET")
	staff.HandleFunc("/payments/site/{site_id:[0-9]+}", paymentHandler.ListBySite).Methods("GET")
	staff.HandleFunc("/payments/customer/{customer_id:[0-9]+}", paymentHandler.ListByCustomer).Methods("GET")
	staff.HandleFunc("/payments/{id:[0-9]+}", paymentHandler.GetPayment).Methods("GET")
	staff.HandleFunc("/payments/{id:[0-9]+}", paymentHandler.UpdatePayment).Methods("PUT")
	staff.HandleFunc("/payments/{id:[0-9]+}/status", paymentHandler.UpdateStatus).Methods("PUT")
	staff.HandleFunc("/payments/{id:[0-9]+}/paid-amount", paymentHandler.UpdatePaidAmount).Methods("PUT")

	// Picklists for the billing form
	staff.HandleFunc("/payments/customers", paymentHandler.ListCustomers).Methods("GET")
	staff.HandleFunc("/payments/customer/{customer_id:[0-9]+}/sites", paymentHandler.ListCustomerSites).Methods("GET")
	staff.HandleFunc("/payments/customer/{customer_id:[0-9]+}/products", paymentHandler.ListCustomerProducts).Methods("GET")

	staff.HandleFunc("/sites", siteHandler.CreateSite).Methods("POST")
	staff.HandleFunc("/sites", siteHandler.ListSites).Methods("GET")
	staff.HandleFunc("/sites/{id:[0-9]+}", siteHandler.GetSite).Methods("GET")
	staff.HandleFunc("/sites/{id:[0-9]+}", siteHandler.UpdateSite).Methods("PUT")
	staff.HandleFunc("/sites/{id:[0-9]+}", siteHandler.DeleteSite).Methods("DELETE")
	staff.HandleFunc("/sites/{id:[0-9]+}/images", siteHandler.UploadImage).Methods("POST")

	staff.HandleFunc("/inquiries", inquiryHandler.ListInquiries).Methods("GET")
	staff.HandleFunc("/inquiries/{id:[0-9]+}", inquiryHandler.GetInquiry).Methods("GET")
	staff.HandleFunc("/inquiries/{id:[0-9]+}/status", inquiryHandler.UpdateStatus).Methods("PATCH")
	staff.HandleFunc("/inquiries/{id:[0-9]+}", inquiryHandler.DeleteInquiry).Methods("DELETE")

	// Admin-only routes
	admin := api.NewRoute().Subrouter()
	admin.Use(authMiddleware.Authenticate, authMiddleware.RequireAdmin)

	admin.HandleFunc("/payments/{id:[0-9]+}", paymentHandler.DeletePayment).Methods("DELETE")

	admin.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.DeleteUser).Methods("DELETE")

	admin.HandleFunc("/admin/products", productHandler.CreateProduct).Methods("POST")
	admin.HandleFunc("/admin/products/{id:[0-9]+}", productHandler.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/admin/products/{id:[0-9]+}", productHandler.DeleteProduct).Methods("DELETE")

	admin.HandleFunc("/content", contentHandler.ListPages).Methods("GET")
	admin.HandleFunc("/content/{slug}", contentHandler.SavePage).Methods("PUT")

	return r
}
