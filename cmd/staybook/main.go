package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/app/commands"
	commentapp "staybook/internal/app/handlers/comments"
	listingapp "staybook/internal/app/handlers/listings"
	ratingapp "staybook/internal/app/handlers/ratings"
	reservationapp "staybook/internal/app/handlers/reservations"
	tripsapp "staybook/internal/app/handlers/trips"
	"staybook/internal/app/middleware"
	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	authsvc "staybook/internal/app/services/auth"
	"staybook/internal/app/uow"
	domainauth "staybook/internal/domain/auth"
	"staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	infraoutbox "staybook/internal/infra/outbox"
	"staybook/internal/infra/security"
	"staybook/internal/infra/storage/memory"
	"staybook/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.readiness,
	}, app.handlers)

	if cfg.FixturesPath != "" {
		if err := loadListingFixtures(ctx, cfg.FixturesPath, app.factory, logger); err != nil {
			logger.Warn("listing fixtures load failed", "error", err, "path", cfg.FixturesPath)
		}
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers  ginserver.Handlers
	factory   uow.UoWFactory
	worker    *infraoutbox.Worker
	readiness map[string]obs.ReadinessCheck
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		factory   uow.UoWFactory
		box       appoutbox.Outbox
		idStore   middleware.IdempotencyStore
		users     domainuser.Repository
		sessions  domainauth.SessionStore
		worker    *infraoutbox.Worker
		readiness = map[string]obs.ReadinessCheck{}
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		readiness["mongo"] = client.Ping

		reservationRepo := mongodb.NewReservationRepository(client.DB)
		ratingRepo := mongodb.NewRatingRepository(client.DB)
		userRepo := mongodb.NewUserRepository(client.DB)
		sessionStore := mongodb.NewSessionStore(client.DB)
		for _, ensure := range []func(context.Context) error{
			reservationRepo.EnsureIndexes,
			ratingRepo.EnsureIndexes,
			userRepo.EnsureIndexes,
			sessionStore.EnsureIndexes,
		} {
			if err := ensure(ctx); err != nil {
				return application{}, fmt.Errorf("mongo indexes: %w", err)
			}
		}

		factory = mongodb.Factory{
			DB:               client.DB,
			ListingsRepo:     mongodb.NewListingRepository(client.DB),
			ReservationsRepo: reservationRepo,
			RatingsRepo:      ratingRepo,
			CommentsRepo:     mongodb.NewCommentRepository(client.DB),
			UsersRepo:        userRepo,
		}
		users = userRepo
		sessions = sessionStore
		box = infraoutbox.NewStore(client.DB)
		idStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka producer: %w", err)
			}
			worker = &infraoutbox.Worker{
				Store:       box.(*infraoutbox.Store),
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
				Logger:      logger,
			}
		} else {
			logger.Warn("kafka brokers not configured, outbox rows will accumulate")
		}
	default:
		store := memory.NewStore()
		factory = memory.NewFactory(store)
		box = memory.NewOutbox(nil)
		idStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		users = memory.NewUserRepository(store)
		sessions = memory.NewSessionStore()
	}

	var avatars authsvc.AvatarStorage
	if uploader, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger); err != nil {
		logger.Warn("avatar storage unavailable", "error", err)
	} else {
		avatars = uploader
	}

	authService := authsvc.NewService(authsvc.ServiceParams{
		Users:      users,
		Sessions:   sessions,
		Hasher:     security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		Avatars:    avatars,
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, reservationapp.CreateReservationCommand{}.Key(),
		reservationapp.NewCreateReservationHandler(reservationapp.CreateReservationHandlerParams{
			Outbox: box,
			Logger: logger,
		}))
	commands.RegisterHandler(commandBus, ratingapp.SubmitRatingCommand{}.Key(),
		ratingapp.NewSubmitRatingHandler(ratingapp.SubmitRatingHandlerParams{
			Outbox: box,
			Logger: logger,
		}))
	commands.RegisterHandler(commandBus, commentapp.AddCommentCommand{}.Key(),
		commentapp.NewAddCommentHandler(commentapp.AddCommentHandlerParams{
			Outbox: box,
			Logger: logger,
		}))

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, listingapp.GetListingDetailQuery{}.Key(), listingapp.NewGetListingDetailHandler(factory))
	queries.RegisterHandler(queryBus, listingapp.GetBlockedDatesQuery{}.Key(), listingapp.NewGetBlockedDatesHandler(factory))
	queries.RegisterHandler(queryBus, ratingapp.GetListingRatingQuery{}.Key(), ratingapp.NewGetListingRatingHandler(factory))
	queries.RegisterHandler(queryBus, commentapp.ListCommentsQuery{}.Key(), commentapp.NewListCommentsHandler(factory))
	queries.RegisterHandler(queryBus, tripsapp.ListTripsQuery{}.Key(), tripsapp.NewListTripsHandler(factory))

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box, logger),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}

	return application{
		handlers: ginserver.Handlers{
			Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
			Listing:        ginserver.ListingHandler{Queries: queryBusWithMiddleware},
			Reservation:    ginserver.ReservationHandler{Commands: commandBusWithMiddleware},
			Rating:         ginserver.RatingHandler{Commands: commandBusWithMiddleware},
			Comment:        ginserver.CommentHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Me:             ginserver.MeHandler{Queries: queryBusWithMiddleware, Auth: authService},
			AuthMiddleware: authMW.Handle,
		},
		factory:   factory,
		worker:    worker,
		readiness: readiness,
	}, nil
}

type listingFixture struct {
	ID                string `json:"id"`
	Host              string `json:"host_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	NightlyPriceCents int64  `json:"nightly_price_cents"`
	GuestCount        int    `json:"guest_count"`
	RoomCount         int    `json:"room_count"`
	BathroomCount     int    `json:"bathroom_count"`
}

// loadListingFixtures seeds the catalog from a JSON file. Fixture rows
// that fail validation are skipped with a warning rather than aborting
// startup.
func loadListingFixtures(ctx context.Context, path string, factory uow.UoWFactory, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil
	}

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	loaded := 0
	for _, fx := range fixtures {
		listing, err := listings.New(listings.CreateParams{
			ID:                listings.ListingID(fx.ID),
			Host:              listings.HostID(fx.Host),
			Title:             fx.Title,
			Description:       fx.Description,
			NightlyPriceCents: fx.NightlyPriceCents,
			GuestCount:        fx.GuestCount,
			RoomCount:         fx.RoomCount,
			BathroomCount:     fx.BathroomCount,
		})
		if err != nil {
			logger.Warn("skipping invalid listing fixture", "id", fx.ID, "error", err)
			continue
		}
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return err
		}
		loaded++
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}
	committed = true
	logger.Info("listing fixtures loaded", "count", loaded, "path", path)
	return nil
}
