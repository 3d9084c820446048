package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/badwords"
	"github.com/joy095/bayelite/clients"
	"github.com/joy095/bayelite/config"
	"github.com/joy095/bayelite/config/db"
	"github.com/joy095/bayelite/config/redis"
	"github.com/joy095/bayelite/controllers/booking_controller"
	"github.com/joy095/bayelite/controllers/driver_controller"
	"github.com/joy095/bayelite/controllers/tip_controller"
	"github.com/joy095/bayelite/logger"
	"github.com/joy095/bayelite/middlewares/cors"
	requestlog "github.com/joy095/bayelite/middlewares/logger"
	"github.com/joy095/bayelite/models/booking_models"
	"github.com/joy095/bayelite/models/driver_models"
	"github.com/joy095/bayelite/routes"
	"github.com/joy095/bayelite/scheduler"
	"github.com/joy095/bayelite/services/booking_service"
	"github.com/joy095/bayelite/utils/mail"
)

func init() {
	config.LoadEnv()
	logger.InitLoggers()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(pool)

	if err := db.Migrate(ctx, pool); err != nil {
		logger.ErrorLogger.Errorf("Database migration failed, continuing with existing schema: %v", err)
	}

	rdb, err := redis.NewClient(ctx, os.Getenv("REDIS_URL"))
	if err != nil {
		logger.WarnLogger.Warnf("Redis unavailable, using in-process rate limits and reminder dedupe: %v", err)
	}
	defer redis.Close(rdb)

	if path := config.GetEnv("BADWORDS_FILE", ""); path != "" {
		if err := badwords.LoadBadWords(path); err != nil {
			logger.WarnLogger.Warnf("Falling back to built-in bad words: %v", err)
			badwords.LoadDefaultBadWords()
		}
	} else {
		badwords.LoadDefaultBadWords()
	}

	serverCfg := config.LoadServerConfig()
	mailCfg := config.LoadMailConfig()
	paymentCfg := config.LoadPaymentConfig()

	var alerter mail.Alerter
	telegram, err := clients.NewTelegramNotifier(config.LoadTelegramConfig())
	if err != nil {
		logger.WarnLogger.Warnf("Operator alerts disabled: %v", err)
	} else {
		alerter = telegram
	}
	mailer := mail.NewBookingMailer(mail.NewSender(mailCfg), alerter, mailCfg.AdminEmail, mailCfg.FrontendURL)

	bookingStore := booking_models.NewBookingStore(pool)
	driverStore := driver_models.NewDriverStore(pool)

	resolver := booking_service.NewIdentityResolver(bookingStore)
	dispatcher := booking_service.NewDispatcher(mailer, resolver, 0)
	reconciler := booking_service.NewUpdateReconciler(bookingStore, dispatcher)

	var dedupe scheduler.Deduper
	if rdb != nil {
		dedupe = scheduler.NewRedisDeduper(rdb)
	}
	reminders := scheduler.New(bookingStore, mailer, dedupe, config.LoadSchedulerConfig())

	gateway, err := clients.NewPaymentGateway(paymentCfg)
	if err != nil {
		logger.WarnLogger.Warnf("Tips disabled: %v", err)
	}

	bookingController := booking_controller.NewBookingController(bookingStore, resolver, reconciler)
	driverController := driver_controller.NewDriverController(driverStore)
	tipController := tip_controller.NewTipController(gateway, resolver, reconciler, paymentCfg.Currency)

	gin.SetMode(config.GetEnv("GIN_MODE", gin.ReleaseMode))
	r := gin.New()
	r.Use(requestlog.RequestID())
	r.Use(requestlog.GinLogger())
	r.Use(gin.RecoveryWithWriter(logger.ErrorLogger.Writer()))
	r.Use(cors.CorsMiddleware(serverCfg.AllowedOrigins))

	routes.RegisterHealthRoutes(r)
	routes.RegisterBookingRoutes(r, bookingController, tipController, rdb, serverCfg.WriteRateLimit)
	routes.RegisterDriverRoutes(r, driverController, rdb, serverCfg.WriteRateLimit)
	routes.RegisterPaymentRoutes(r, tipController)

	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		reminders.Start(ctx)
	}()

	go func() {
		logger.InfoLogger.Infof("Server running on port %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Errorf("Server failed to listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.InfoLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
	<-schedulerDone
	dispatcher.Close()

	logger.InfoLogger.Info("Server exited gracefully")
}
