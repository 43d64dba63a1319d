package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	filestore_adapter "listings-service/internal/adapters/filestore"
	logger_adapter "listings-service/internal/adapters/logger"
	mailer_adapter "listings-service/internal/adapters/mailer"
	postgres_adapter "listings-service/internal/adapters/postgres"
	rabbitmq_adapter "listings-service/internal/adapters/rabbitmq"
	"listings-service/internal/adapters/rest"
	"listings-service/internal/configs"
	"listings-service/internal/constants"
	"listings-service/internal/contracts"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/core/usecase"

	fluentlogger "listings-service/pkg/fluent_logger"
	"listings-service/pkg/postgres"
	"listings-service/pkg/rabbitmq/rabbitmq_common"
	"listings-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	connManager    *rabbitmq_common.ConnectionManager
	eventsProducer *rabbitmq_producer.Publisher
}

// NewApp - "Composition Root", где все зависимости создаются и связываются.
func NewApp(ctx context.Context, appConfig *configs.AppConfig) (*App, error) {
	baseLogger, fluentClient, err := NewLogger(appConfig)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       baseLogger.WithFields(port.Fields{"component": "app"}),
	}
	appLogger := app.logger

	// --- Справочники и политики ---
	taxonomy, err := configs.LoadTaxonomy(appConfig.TaxonomyFile)
	if err != nil {
		appLogger.Error("Failed to load taxonomy", err, nil)
		app.close()
		return nil, err
	}
	guard := domain.NewAdminGuard(appConfig.AdminToken)
	imagePolicy := domain.NewImagePolicy(appConfig.Images.AllowedExtensions)

	// --- PostgreSQL ---
	app.dbPool, err = postgres.NewClient(ctx, postgres.Config{
		DatabaseURL:    appConfig.Database.URL,
		PreferIPv4:     appConfig.Database.PreferIPv4,
		MaxConns:       int32(appConfig.Database.MaxConns),
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		app.close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", port.Fields{"prefer_ipv4": appConfig.Database.PreferIPv4})

	listingRepository, err := postgres_adapter.NewListingRepository(app.dbPool, appConfig.Database.QueryTimeout)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create listing repository: %w", err)
	}

	// --- Хранилище изображений ---
	var imageStorage port.ImageStoragePort
	switch appConfig.Images.Backend {
	case configs.ImageBackendS3:
		imageStorage, err = filestore_adapter.NewS3Storage(ctx, filestore_adapter.S3Config{
			Bucket: appConfig.Images.S3Bucket,
			Region: appConfig.Images.AWSRegion,
			Prefix: appConfig.Images.S3Prefix,
		})
	default:
		imageStorage, err = filestore_adapter.NewLocalStorage(appConfig.Images.UploadFolder)
	}
	if err != nil {
		appLogger.Error("Failed to create image storage", err, port.Fields{"backend": appConfig.Images.Backend})
		app.close()
		return nil, fmt.Errorf("failed to create image storage: %w", err)
	}
	appLogger.Info("Image storage initialized.", port.Fields{"backend": appConfig.Images.Backend})

	// --- Уведомления ---
	smtpConfig := mailer_adapter.SMTPConfig{
		Host:     appConfig.SMTP.Host,
		Port:     appConfig.SMTP.Port,
		Username: appConfig.SMTP.From,
		Password: appConfig.SMTP.Password,
		To:       appConfig.SMTP.To,
		Timeout:  appConfig.SMTP.Timeout,
	}
	var notifier port.NotifierPort
	if smtpConfig.Configured() {
		notifier, err = mailer_adapter.NewSMTPNotifier(smtpConfig)
		if err != nil {
			appLogger.Error("Failed to create SMTP notifier", err, nil)
			app.close()
			return nil, err
		}
		appLogger.Info("SMTP notifier initialized.", port.Fields{"host": smtpConfig.Host, "port": smtpConfig.Port})
	} else {
		notifier = mailer_adapter.NewLogNotifier()
		appLogger.Warn("EMAIL_ORIGEN or EMAIL_DESTINO not set, notifications will only be logged.", nil)
	}

	// --- События ---
	events, err := app.newEventsPublisher(baseLogger)
	if err != nil {
		app.close()
		return nil, err
	}

	// ИНИЦИАЛИЗАЦИЯ USE CASES
	findListingsUseCase := usecase.NewFindListingsUseCase(listingRepository)
	submitListingUseCase := usecase.NewSubmitListingUseCase(listingRepository, imageStorage, notifier, events, imagePolicy, taxonomy)
	getListingForEditUseCase := usecase.NewGetListingForEditUseCase(listingRepository, guard)
	updateListingUseCase := usecase.NewUpdateListingUseCase(listingRepository, imageStorage, events, guard, imagePolicy, taxonomy)
	deleteListingUseCase := usecase.NewDeleteListingUseCase(listingRepository, events, guard)
	checkHealthUseCase := usecase.NewCheckHealthUseCase(listingRepository)
	appLogger.Info("All use cases initialized.", nil)

	// REST API Server
	flashes := rest.NewFlashStore(appConfig.SecretKey)
	if appConfig.SecretKey == "" {
		appLogger.Warn("SECRET_KEY is not set, flash messages will not survive a restart.", nil)
	}
	router := rest.NewRouter(
		rest.NewListingsHandler(findListingsUseCase, submitListingUseCase, taxonomy, flashes, appConfig.Rest.MaxUploadBytes),
		rest.NewAdminHandler(getListingForEditUseCase, updateListingUseCase, deleteListingUseCase, taxonomy, flashes, appConfig.Rest.MaxUploadBytes),
		rest.NewHealthHandler(checkHealthUseCase),
		appConfig.Rest.AllowedOrigins,
		baseLogger,
	)
	app.apiServer = rest.NewServer(appConfig.Rest.Port, router, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return app, nil
}

// newEventsPublisher подключается к RabbitMQ, если он включен. Иначе события отбрасываются.
func (a *App) newEventsPublisher(baseLogger port.LoggerPort) (port.ListingEventsPort, error) {
	if !a.config.RabbitMQ.Enabled {
		a.logger.Info("RabbitMQ disabled, listing events will not be published.", nil)
		return rabbitmq_adapter.DisabledEventsPublisher{}, nil
	}

	registry, err := contracts.LoadRegistry()
	if err != nil {
		a.logger.Error("Failed to load event schemas", err, nil)
		return nil, fmt.Errorf("failed to load event schemas: %w", err)
	}

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	a.connManager, err = rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL}, connManagerBridge, 5*time.Second)
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"}))
	a.eventsProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:    constants.ListingsExchange,
		ExchangeType:    constants.ListingsExchangeType,
		Durable:         true,
		DeclareExchange: true,
		Logger:          producerBridge,
	}, a.connManager)
	if err != nil {
		a.logger.Error("Failed to create event producer", err, nil)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}

	events, err := rabbitmq_adapter.NewListingEventsPublisher(a.eventsProducer, registry)
	if err != nil {
		return nil, err
	}
	a.logger.Info("RabbitMQ Event Producer initialized.", port.Fields{"exchange": constants.ListingsExchange})
	return events, nil
}

// Run запускает HTTP-сервер и ждет сигнала на завершение или ошибки сервера.
func (a *App) Run() error {
	defer a.close()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Rest.Port})

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	// Даем текущим запросам завершиться, прежде чем закрывать пул
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.apiServer.Stop(ctx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	return runErr
}

// close освобождает ресурсы в обратном порядке создания. Безопасно для частично собранного App.
func (a *App) close() {
	if a.eventsProducer != nil {
		if err := a.eventsProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// Логируем в stdout, так как fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

// NewLogger собирает stdout-логгер и, если включен, Fluent Bit в один MultiLogger.
func NewLogger(appConfig *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.JSON,
		UseColor: !appConfig.StdoutLogger.JSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})
	return baseLogger, fluentClient, nil
}

// Migrate применяет встроенную схему БД и завершается.
func Migrate(ctx context.Context, appConfig *configs.AppConfig) error {
	baseLogger, fluentClient, err := NewLogger(appConfig)
	if err != nil {
		return err
	}
	if fluentClient != nil {
		defer fluentClient.Close()
	}
	logger := baseLogger.WithFields(port.Fields{"component": "migrate"})

	pool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		PreferIPv4:  appConfig.Database.PreferIPv4,
		MaxConns:    1,
	})
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", err, nil)
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	applied, err := postgres_adapter.ApplySchema(ctx, pool)
	if err != nil {
		logger.Error("Migration failed", err, port.Fields{"applied": applied})
		return err
	}
	logger.Info("Schema is up to date.", port.Fields{"applied": applied})
	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	level, ok := logger_adapter.ParseLevel(levelStr)
	if !ok {
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
	}
	return level
}
