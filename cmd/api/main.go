package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aldousari/sooqfresh-backend/api/routes"
	"github.com/aldousari/sooqfresh-backend/internal/auth"
	"github.com/aldousari/sooqfresh-backend/internal/catalog"
	checkoutsvc "github.com/aldousari/sooqfresh-backend/internal/checkout"
	"github.com/aldousari/sooqfresh-backend/internal/matching"
	"github.com/aldousari/sooqfresh-backend/internal/offers"
	"github.com/aldousari/sooqfresh-backend/internal/orders"
	"github.com/aldousari/sooqfresh-backend/internal/shopping"
	"github.com/aldousari/sooqfresh-backend/internal/users"
	"github.com/aldousari/sooqfresh-backend/internal/vendors"
	"github.com/aldousari/sooqfresh-backend/pkg/auth/session"
	"github.com/aldousari/sooqfresh-backend/pkg/config"
	"github.com/aldousari/sooqfresh-backend/pkg/db"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/migrate"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox"
	"github.com/aldousari/sooqfresh-backend/pkg/redis"
	"github.com/aldousari/sooqfresh-backend/pkg/vision"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	shoppingRepo := shopping.NewRepository(gormDB)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		Sessions:       sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	var analyzer *vision.Client
	if cfg.OpenAI.APIKey != "" {
		analyzer, err = vision.NewClient(cfg.OpenAI)
		if err != nil {
			logg.Error(context.Background(), "failed to create vision client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "openai api key missing, image analysis disabled")
	}

	offersParams := offers.ServiceParams{
		Repo:       offers.NewRepository(gormDB),
		VendorRepo: userRepo,
		Catalog:    catalogRepo,
		Logger:     logg,
	}
	if analyzer != nil {
		offersParams.Analyzer = analyzer
	}
	offersService, err := offers.NewService(offersParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	shoppingService, err := shopping.NewService(shoppingRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopping service", err)
		os.Exit(1)
	}

	matchingService, err := matching.NewService(matching.NewRepository(gormDB), shoppingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create matching service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Repo:     checkoutsvc.NewRepository(gormDB),
		TxRunner: dbClient,
		Outbox:   outbox.NewService(outbox.NewRepository(gormDB), logg),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	vendorsService, err := vendors.NewService(userRepo, gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendors service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisClient:     redisClient,
			UserLoader:      userRepo,
			Metrics:         prometheus.DefaultGatherer,
			AuthService:     authService,
			CatalogService:  catalogService,
			OffersService:   offersService,
			ShoppingService: shoppingService,
			MatchingService: matchingService,
			CheckoutService: checkoutService,
			OrdersService:   ordersService,
			VendorsService:  vendorsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
