package services

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/tripdeskhq/tripdesk/internal/config"
	"github.com/tripdeskhq/tripdesk/internal/db"
	"github.com/tripdeskhq/tripdesk/internal/ratelimit"
	"github.com/tripdeskhq/tripdesk/internal/services/booking"
	"github.com/tripdeskhq/tripdesk/internal/services/customer"
	"github.com/tripdeskhq/tripdesk/internal/services/dashboard"
	"github.com/tripdeskhq/tripdesk/internal/services/lead"
	"github.com/tripdeskhq/tripdesk/internal/services/payment"
	"github.com/tripdeskhq/tripdesk/internal/services/quote"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type Services struct {
	User      *user.UserService
	Lead      *lead.LeadService
	Booking   *booking.BookingService
	Customer  *customer.CustomerService
	Quote     *quote.QuoteService
	Payment   *payment.PaymentService
	Dashboard *dashboard.DashboardService

	LoginLimiter ratelimit.Storage
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	userRepo := user.NewUserRepo(dbconn)
	scopes := scope.NewBuilder(userRepo)

	svc := &Services{
		User:      user.NewUserService(userRepo),
		Lead:      lead.NewLeadService(lead.NewLeadRepo(dbconn), scopes),
		Booking:   booking.NewBookingService(booking.NewBookingRepo(dbconn), scopes),
		Customer:  customer.NewCustomerService(customer.NewCustomerRepo(dbconn), scopes),
		Quote:     quote.NewQuoteService(quote.NewQuoteRepo(dbconn), scopes),
		Payment:   payment.NewPaymentService(payment.NewPaymentRepo(dbconn), scopes),
		Dashboard: dashboard.NewDashboardService(dashboard.NewDashboardRepo(dbconn), scopes),
	}

	// Distributed login throttling when Redis is configured, otherwise a
	// per-instance bucket.
	if conf.REDIS_ADDR != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     conf.REDIS_ADDR,
			Password: conf.REDIS_PASSWORD,
		})
		store := ratelimit.NewRedisStorage(client, "")
		if err := store.Ping(context.Background()); err != nil {
			slog.Warn("Failed to connect to Redis for login throttling, using in-memory buckets", slog.Any("error", err))
			svc.LoginLimiter = ratelimit.NewInMemoryStorage()
		} else {
			svc.LoginLimiter = store
			slog.Info("Connected to Redis for login throttling")
		}
	} else {
		svc.LoginLimiter = ratelimit.NewInMemoryStorage()
	}

	return svc
}

// Close releases background resources held by the service layer.
func (s *Services) Close() {
	if s.LoginLimiter != nil {
		s.LoginLimiter.Stop()
	}
}
