package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ticketly/ticketly/config"
	"github.com/ticketly/ticketly/internal/handlers"
	"github.com/ticketly/ticketly/internal/helpers"
	"github.com/ticketly/ticketly/internal/middleware"
	"github.com/ticketly/ticketly/internal/ticketing"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	helpers.RegisterValidatorTagNames()

	r := gin.Default()
	setupRoutes(r, db, ticketing.NewLedger())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, ledger *ticketing.Ledger) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.LedgerMiddleware(ledger))

	public := r.Group("")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.GET("/events", handlers.ListEvents)
		public.GET("/event/:id", handlers.GetEvent)
	}

	protected := r.Group("")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.POST("/event", handlers.CreateEvent)
		protected.PUT("/event/:id", handlers.UpdateEvent)
		protected.GET("/events/user", handlers.ListUserEvents)

		protected.POST("/reservation", handlers.CreateReservation)
		protected.GET("/reservations/user", handlers.ListUserReservations)
		protected.GET("/reservation/:id/qr", handlers.GenerateReservationQR)
		protected.POST("/reservation/validate", handlers.ValidateReservation)
	}
}
