// File: drutaseva/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drutaseva/config"
	"drutaseva/cron"
	"drutaseva/database"
	bookingRepoPkg "drutaseva/database/repository/booking"
	userRepoPkg "drutaseva/database/repository/user"
	"drutaseva/handlers"
	"drutaseva/middleware"
	"drutaseva/routes"
	"drutaseva/services/booking"
	"drutaseva/services/dispatch"
	"drutaseva/services/geo"
	"drutaseva/services/payment"
	"drutaseva/services/user"
	"drutaseva/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.GeolocationMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:      userRepo,
		AuthCache: utils.GetAuthCacheClient(),
		OTPCache:  utils.GetOTPCacheClient(),
		SMS:       user.LoggedSMSSender{},
	}

	responder := dispatch.NewSimulatedResponder(
		time.Duration(config.AppConfig.DispatchMinDelayMs)*time.Millisecond,
		time.Duration(config.AppConfig.DispatchMaxDelayMs)*time.Millisecond,
		logger,
	)

	scheduler := cron.NewAsynqScheduler()

	wizardService := &booking.DefaultWizardService{
		Cache:     utils.GetCacheClient(),
		Repo:      bookingRepo,
		Responder: responder,
		Gateway:   payment.NewStripeGateway(logger),
		Scheduler: scheduler,
		Logger:    logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		UserRepo: userRepo,
		Booking: &handlers.BookingHandler{
			Service: wizardService,
			Intents: booking.NewIntentStore(utils.GetCacheClient()),
			Geo:     geo.NewStaticGeocoder(),
		},
		Rescue: &handlers.RescueHandler{Repo: bookingRepo},
		User:   &handlers.UserHandler{Service: userService},
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the status progression worker and the health monitor.
	cron.InitProgressWorker(bookingRepo, scheduler)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), utils.GetOTPCacheClient()},
		database.MongoClient,
	)

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
