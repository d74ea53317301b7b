package server

import (
	"context"
	"net/http"

	"agency-checkout/internal/config"
	"agency-checkout/internal/handler"
	authmw "agency-checkout/internal/middleware"
	"agency-checkout/internal/service"
	"agency-checkout/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type Server struct {
	echo            *echo.Echo
	jwtSecret       string
	checkoutHandler *handler.CheckoutHandler
	paymentHandler  *handler.PaymentHandler
	voucherHandler  *handler.VoucherHandler
	sessionHandler  *handler.SessionHandler
	uploadHandler   *handler.UploadHandler
}

func NewServer(
	cfg *config.Config,
	checkoutService service.CheckoutService,
	paymentService service.PaymentService,
	voucherService service.VoucherService,
	uploadService service.UploadService,
	sessionStore session.Store,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		jwtSecret:       cfg.Supabase.JWTSecret,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		paymentHandler:  handler.NewPaymentHandler(paymentService),
		voucherHandler:  handler.NewVoucherHandler(voucherService),
		sessionHandler:  handler.NewSessionHandler(sessionStore),
		uploadHandler:   handler.NewUploadHandler(uploadService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.GET("/services", s.checkoutHandler.ListServices)
	api.POST("/checkout", s.checkoutHandler.Checkout)
	api.GET("/orders/:orderID", s.checkoutHandler.GetOrder)
	api.POST("/orders/:orderID/token", s.checkoutHandler.RequestToken)

	api.POST("/vouchers/validate", s.voucherHandler.Validate)

	api.POST("/sessions", s.sessionHandler.Save)
	api.GET("/sessions/:id", s.sessionHandler.Load)
	api.DELETE("/sessions/:id", s.sessionHandler.Delete)

	// -------- gateway webhooks --------
	api.POST("/payments/notification", s.paymentHandler.Notification)

	// -------- admin --------
	admin := api.Group("", authmw.AdminAuth(s.jwtSecret))
	admin.GET("/orders", s.checkoutHandler.ListOrders)
	admin.POST("/uploads/:orderID", s.uploadHandler.Upload)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
