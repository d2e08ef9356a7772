package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lubricentro-backend/internal/api"
	"lubricentro-backend/internal/config"
	"lubricentro-backend/internal/core"
	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/db/memstore"
	"lubricentro-backend/internal/firebase"
	"lubricentro-backend/internal/logger"
	"lubricentro-backend/internal/middleware"
	"lubricentro-backend/pkg/mailer"
)

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	shops         db.ShopRepository
	entitlements  db.EntitlementRepository
	oilChanges    db.OilChangeRepository
	employees     db.EmployeeRepository
	subscriptions db.SubscriptionRequestRepository
	audit         db.AuditRepository
	verifier      middleware.TokenVerifier
	close         func() error
}

func openStorage(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		zapLogger.Warn("Using the in-memory store with development tokens. Data is lost on restart.",
			zap.String("devAuthUID", cfg.DevAuthUID))
		store := memstore.New()
		return &repositories{
			shops:         store.Shops(),
			entitlements:  store.Entitlements(),
			oilChanges:    store.OilChanges(),
			employees:     store.Employees(),
			subscriptions: store.SubscriptionRequests(),
			audit:         store.Audit(),
			verifier:      middleware.DevTokenVerifier{DefaultUID: cfg.DevAuthUID},
			close:         func() error { return nil },
		}, nil
	case config.DriverFirestore:
		clients, err := firebase.InitFirebase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		fs := clients.Firestore
		return &repositories{
			shops:         db.NewFirestoreShopRepository(fs),
			entitlements:  db.NewFirestoreEntitlementRepository(fs),
			oilChanges:    db.NewFirestoreOilChangeRepository(fs),
			employees:     db.NewFirestoreEmployeeRepository(fs),
			subscriptions: db.NewFirestoreSubscriptionRequestRepository(fs),
			audit:         db.NewFirestoreAuditRepository(fs),
			verifier:      clients.Auth,
			close:         clients.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

// newMailer returns nil when mail is not configured so the subscription service skips notifications.
func newMailer(cfg *config.Config) (core.Mailer, error) {
	if !cfg.MailEnabled() {
		return nil, nil
	}
	m, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func main() {
	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	production := strings.ToLower(appConfig.GinMode) == "release"
	zapLogger, err := logger.New(appConfig.LogLevel, appConfig.LogFile, production)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	zapLogger.Info("Application configuration loaded successfully.",
		zap.String("storageDriver", appConfig.StorageDriver),
		zap.Int("trialDays", appConfig.TrialDays),
		zap.Int("trialChanges", appConfig.TrialChanges),
	)

	// --- 3. Storage and token verification ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	repos, err := openStorage(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize storage", zap.Error(err))
	}
	defer func() {
		if err := repos.close(); err != nil {
			zapLogger.Error("Error closing storage", zap.Error(err))
		}
	}()

	// --- 4. Initialize Services ---
	notifier, err := newMailer(appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize mailer", zap.Error(err))
	}
	if notifier == nil {
		zapLogger.Warn("Mail notifications disabled: SMTP_HOST or ADMIN_EMAIL is not configured.")
	}

	auditService := core.NewAuditService(repos.audit, zapLogger)
	entitlementService := core.NewEntitlementService(repos.entitlements, zapLogger)
	trialService := core.NewTrialService(repos.entitlements, auditService,
		core.TrialConfig{Days: appConfig.TrialDays, Changes: appConfig.TrialChanges}, zapLogger)
	oilChangeService := core.NewOilChangeService(repos.oilChanges, entitlementService, auditService, zapLogger)
	shopService := core.NewShopService(repos.shops, repos.employees, trialService, auditService, zapLogger)
	employeeService := core.NewEmployeeService(repos.employees, repos.shops, auditService, zapLogger)
	subscriptionService := core.NewSubscriptionService(repos.subscriptions, repos.shops, core.NewPlanCatalog(),
		notifier, appConfig.AdminEmail, auditService, zapLogger)
	handoffService := core.NewHandoffService(shopService, oilChangeService, core.TextReceiptRenderer{}, appConfig.MessagingBaseURL)
	reportService := core.NewReportService(oilChangeService)
	overviewService := core.NewOverviewService(shopService, entitlementService, oilChangeService)
	zapLogger.Info("Core services initialized successfully.")

	sweeper := core.NewExpirySweeper(repos.entitlements, auditService, zapLogger)
	if err := sweeper.Start(appConfig.SweepSchedule); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to schedule the expiry sweep", zap.Error(err))
	}

	// --- 5. Setup Gin HTTP Engine ---
	if production {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 6. Setup API Routes ---
	api.SetupRoutes(router, zapLogger, repos.verifier, api.Services{
		Shops:         shopService,
		Overview:      overviewService,
		Entitlements:  entitlementService,
		Trials:        trialService,
		Subscriptions: subscriptionService,
		OilChanges:    oilChangeService,
		Handoff:       handoffService,
		Employees:     employeeService,
		Reports:       reportService,
	})

	// --- 7. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 8. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}
	sweeper.Stop()
	subscriptionService.Wait()

	zapLogger.Info("Server exiting gracefully.")
}
