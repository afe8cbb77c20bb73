package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emviapp/config"
	"emviapp/cron"
	"emviapp/database"
	artistRepoPkg "emviapp/database/repository/artist"
	bookingRepoPkg "emviapp/database/repository/booking"
	paymentRepoPkg "emviapp/database/repository/payment"
	userRepoPkg "emviapp/database/repository/user"
	"emviapp/handlers"
	"emviapp/routes"
	artistSvc "emviapp/services/artist"
	bookingSvc "emviapp/services/booking"
	"emviapp/services/notification"
	paymentSvc "emviapp/services/payment"
	userSvc "emviapp/services/user"
	"emviapp/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	bkRepo := bookingRepoPkg.NewMongoBookingRepo()
	artRepo := artistRepoPkg.NewMongoArtistRepo()
	usrRepo := userRepoPkg.NewMongoUserRepo()
	payRepo := paymentRepoPkg.NewMongoPaymentRepo()

	for _, repo := range []any{bkRepo, artRepo, usrRepo, payRepo} {
		if idx, ok := repo.(interface{ EnsureIndexes() error }); ok {
			if err := idx.EnsureIndexes(); err != nil {
				logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
			}
		}
	}

	// Async notification queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	dispatcher := notification.NewAsynqDispatcher(asynqClient, logger)

	// Services.
	manageTokens := bookingSvc.NewManageTokenSigner(
		config.AppConfig.JWTSecret,
		time.Duration(config.AppConfig.ManageTokenTTLHours)*time.Hour,
	)
	bookingService := &bookingSvc.DefaultBookingService{
		Repo:       bkRepo,
		ArtistRepo: artRepo,
		Notifier:   dispatcher,
		Tokens:     manageTokens,
	}
	userService := userSvc.NewUserService(usrRepo)
	artistService := artistSvc.NewArtistService(artRepo)
	paymentService := paymentSvc.NewPaymentService(
		payRepo,
		config.AppConfig.StripeWebhookSecret,
		config.AppConfig.CheckoutSuccessURL,
		config.AppConfig.CheckoutCancelURL,
		logger,
	)

	// Handlers.
	handlers.BookingSvc = bookingService
	handlers.ManageTokens = manageTokens
	handlers.UserSvc = userService
	handlers.ArtistSvc = artistService
	handlers.PaymentSvc = paymentService

	// Background workers: email delivery and booking auto-completion.
	mailer := &notification.Mailer{
		Bookings: bkRepo,
		Artists:  artRepo,
		Users:    usrRepo,
		Sender: notification.NewHTTPEmailSender(
			config.AppConfig.EmailAPIURL,
			config.AppConfig.EmailAPIKey,
			config.AppConfig.EmailFrom,
		),
		Links:             manageTokens,
		ManageLinkBaseURL: config.AppConfig.ManageLinkBaseURL,
		Logger:            logger,
	}
	cron.InitNotificationWorker(mailer)
	sweeper := cron.InitCompletionSweeper(bookingService)
	defer sweeper.Stop()

	utils.StartHealthMonitor(database.MongoClient)

	// Router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router)

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
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
