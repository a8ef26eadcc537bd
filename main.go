package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"theeyouspace/config"
	"theeyouspace/handlers"
	"theeyouspace/middleware"
	"theeyouspace/routes"
	"theeyouspace/services/notification"
	"theeyouspace/services/payment"
	"theeyouspace/services/professional"
	"theeyouspace/services/sheetsync"
	"theeyouspace/services/writeback"
	"theeyouspace/store"
	"theeyouspace/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Stores hold the only mutable shared state in the process.
	slotStore := store.NewSlotStore()
	ledger := store.NewBookingLedger()

	// Services.
	directory := professional.NewDirectory()

	syncer := sheetsync.NewSyncer(
		slotStore,
		directory,
		config.AppConfig.GoogleSheetURL,
		time.Duration(config.AppConfig.SheetSyncIntervalMin)*time.Minute,
		time.Duration(config.AppConfig.SheetFetchTimeoutSec)*time.Second,
	)

	wbClient := writeback.NewClient(
		ctx,
		config.AppConfig.GoogleSheetID,
		config.AppConfig.GoogleServiceAccountEmail,
		config.AppConfig.GoogleServiceAccountKey,
	)

	mailer := notification.NewEmailService(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPass,
		config.AppConfig.SMTPFrom,
	)

	gateway := payment.NewRazorpayGateway(
		config.AppConfig.RazorpayKeyID,
		config.AppConfig.RazorpayKeySecret,
		config.AppConfig.RazorpayWebhookSecret,
	)

	paymentService := payment.NewService(ledger, slotStore, gateway, wbClient, mailer)

	// Availability: live sheet sync when configured, dev slots otherwise.
	if syncer.Configured() {
		syncer.Start(ctx)
	} else {
		slotStore.SeedDevSlots()
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking:      handlers.NewBookingHandler(slotStore, paymentService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		SlotAdmin:    handlers.NewSlotAdminHandler(slotStore, syncer),
		Export:       handlers.NewExportHandler(ledger),
		Professional: handlers.NewProfessionalHandler(directory),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
