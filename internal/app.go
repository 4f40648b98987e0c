package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/adapters/api_client"
	logger_adapter "github.com/Besher-Hamze/real-estate-frontend-sub002/internal/adapters/logger"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/adapters/memory"
	postgres_adapter "github.com/Besher-Hamze/real-estate-frontend-sub002/internal/adapters/postgres"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/adapters/querycache"
	rabbitmq_adapter "github.com/Besher-Hamze/real-estate-frontend-sub002/internal/adapters/rabbitmq"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/adapters/rest"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/configs"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contracts"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/usecase"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/i18n"
	fluentlogger "github.com/Besher-Hamze/real-estate-frontend-sub002/pkg/fluent_logger"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/pkg/postgres"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/pkg/rabbitmq/rabbitmq_common"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/pkg/rabbitmq/rabbitmq_producer"
)

const sessionCleanupInterval = 10 * time.Minute

// App - основная структура приложения
type App struct {
	server   *rest.Server
	sessions port.SessionStorePort
	logger   port.LoggerPort

	fluentClient   *fluent.Fluent
	dbPool         *pgxpool.Pool
	rabbitMQConn   *rabbitmq_common.ConnectionManager
	auditPublisher *rabbitmq_producer.Publisher
	cacheSync      *rabbitmq_consumer.Consumer
}

// NewApp создает и настраивает все компоненты приложения
func NewApp() (app *App, err error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app = &App{}
	instanceID := uuid.NewString()
	// при ошибке закрываем все, что успели открыть
	defer func() {
		if err != nil {
			app.closeResources()
		}
	}()

	// инициализация логеров
	var activeLoggers []port.LoggerPort
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if appConfig.FluentBit.Enabled {
		app.fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(app.fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	app.logger = baseLogger.WithFields(port.Fields{"component": "app", "instance_id": instanceID})
	app.logger.Debug("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	ctx := contextkeys.ContextWithLogger(context.Background(), app.logger)

	// Клиент REST API бэкенда
	apiClient := api_client.NewClient(api_client.Config{
		BaseURL:    appConfig.ApiClient.BaseURL,
		Timeout:    appConfig.ApiClient.Timeout,
		MaxRetries: appConfig.ApiClient.MaxRetries,
	})
	marketplace := api_client.NewMarketplaceAPI(apiClient)
	var cache *querycache.Cache
	if appConfig.Cache.Enabled {
		cache = querycache.New(appConfig.Cache.StaleTime)
		marketplace = querycache.WrapMarketplace(cache, marketplace)
	}
	app.logger.Debug("API client initialized", port.Fields{
		"base_url": appConfig.ApiClient.BaseURL, "cache_enabled": appConfig.Cache.Enabled,
	})

	validator, err := contracts.NewFormValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load form schemas: %w", err)
	}

	// Аудит изменений справочников
	var audit port.AuditPublisherPort = rabbitmq_adapter.NoopAuditPublisher{}
	if appConfig.Audit.Enabled {
		rmqLogger := rabbitmq_adapter.NewLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))
		app.rabbitMQConn, err = rabbitmq_common.NewConnectionManager(appConfig.Audit.RabbitMQURL, rmqLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		app.auditPublisher, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             appConfig.Audit.Exchange,
			ExchangeType:             constants.AuditExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rmqLogger,
		}, app.rabbitMQConn)
		if err != nil {
			return nil, fmt.Errorf("failed to create audit publisher: %w", err)
		}
		audit = rabbitmq_adapter.NewAuditPublisherAdapter(app.auditPublisher, appConfig.AppName, instanceID)
		app.logger.Info("Audit events enabled", port.Fields{"exchange": appConfig.Audit.Exchange})

		if cache != nil && appConfig.Audit.CacheSync {
			handler := rabbitmq_adapter.NewCacheSyncHandler(cache, instanceID, baseLogger)
			app.cacheSync, err = rabbitmq_consumer.NewConsumer(rabbitmq_consumer.ConsumerConfig{
				ExclusiveQueue:  true,
				AutoDeleteQueue: true,
				ExchangeName:    appConfig.Audit.Exchange,
				ExchangeType:    constants.AuditExchangeType,
				DurableExchange: true,
				RoutingKey:      constants.AuditBindingKey,
				PrefetchCount:   16,
				ConsumerTag:     appConfig.AppName + "-" + instanceID,
				Logger:          rmqLogger,
			}, handler.Handle, app.rabbitMQConn)
			if err != nil {
				return nil, fmt.Errorf("failed to create cache sync consumer: %w", err)
			}
		}
	}

	// Хранилище сессий: Postgres, если задан DATABASE_URL, иначе память процесса
	if appConfig.Database.URL != "" {
		app.dbPool, err = postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:     appConfig.Database.URL,
			MaxConnIdleTime: 5 * time.Minute,
			ConnectAttempts: 5,
			PingTimeout:     5 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repo, err := postgres_adapter.NewPostgresSessionRepository(app.dbPool)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		app.sessions = repo
		app.logger.Info("Sessions are stored in PostgreSQL", nil)
	} else {
		app.sessions = memory.NewSessionStore()
		app.logger.Warn("DATABASE_URL is not set, sessions are kept in memory", nil)
	}

	bundle, err := i18n.NewBundle(appConfig.DefaultLang)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	deps := rest.Dependencies{
		Bundle:           bundle,
		BrowseListings:   usecase.NewBrowseListingsUseCase(marketplace),
		ListingDetails:   usecase.NewGetListingDetailsUseCase(marketplace),
		BuildingOverview: usecase.NewGetBuildingOverviewUseCase(marketplace),
		DashboardStats:   usecase.NewGetDashboardStatsUseCase(marketplace),
		Login:            usecase.NewLoginUseCase(marketplace.Auth, app.sessions, appConfig.Session.TTL),
		Logout:           usecase.NewLogoutUseCase(app.sessions),
		ResolveSession:   usecase.NewResolveSessionUseCase(app.sessions),
		Catalogs: rest.Catalogs{
			Cities:        usecase.NewManageCatalogUseCase(marketplace.Cities, validator, audit),
			Neighborhoods: usecase.NewManageCatalogUseCase(marketplace.Neighborhoods, validator, audit),
			MainTypes:     usecase.NewManageCatalogUseCase(marketplace.MainTypes, validator, audit),
			SubTypes:      usecase.NewManageCatalogUseCase(marketplace.SubTypes, validator, audit),
			FinalTypes:    usecase.NewManageCatalogUseCase(marketplace.FinalTypes, validator, audit),
			Companies:     usecase.NewManageCatalogUseCase(marketplace.Companies, validator, audit),
			Buildings:     usecase.NewManageCatalogUseCase(marketplace.Buildings, validator, audit),
			BuildingItems: usecase.NewManageCatalogUseCase(marketplace.BuildingItems, validator, audit),
			Units:         usecase.NewManageCatalogUseCase(marketplace.Units, validator, audit),
			RealEstate:    usecase.NewManageCatalogUseCase(marketplace.RealEstate, validator, audit),
		},
	}

	if cache != nil {
		deps.Cache = cache
	}

	app.server, err = rest.NewServer(rest.ServerConfig{
		Port:               appConfig.Rest.Port,
		CORSAllowedOrigins: appConfig.Rest.CORSAllowedOrigins,
		APIBaseURL:         appConfig.ApiClient.BaseURL,
		CookieSecure:       appConfig.Session.CookieSecure,
	}, deps, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST server: %w", err)
	}

	return app, nil
}

// Run запускает приложение и управляет его жизненным циклом
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(contextkeys.ContextWithLogger(context.Background(), a.logger))
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	go a.cleanupSessions(ctx)

	if a.cacheSync != nil {
		go func() {
			if err := a.cacheSync.StartConsuming(ctx); err != nil {
				a.logger.Error("Cache sync consumer stopped", err, nil)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		a.logger.Debug("Dashboard is shutting down...", port.Fields{"signal": sig.String()})
	case err := <-serverErr:
		a.logger.Error("REST server failed", err, nil)
		runErr = err
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.logger.Error("REST server shutdown failed", err, nil)
	}

	a.closeResources()
	a.logger.Info("Application shut down gracefully.", nil)
	return runErr
}

// cleanupSessions периодически удаляет истекшие сессии.
func (a *App) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := a.sessions.DeleteExpired(ctx, now)
			if err != nil {
				a.logger.Warn("Failed to delete expired sessions", port.Fields{"error": err.Error()})
				continue
			}
			if removed > 0 {
				a.logger.Debug("Expired sessions deleted", port.Fields{"count": removed})
			}
		}
	}
}

func (a *App) closeResources() {
	if a.cacheSync != nil {
		if err := a.cacheSync.Close(); err != nil && a.logger != nil {
			a.logger.Error("Error closing cache sync consumer", err, nil)
		}
	}
	if a.auditPublisher != nil {
		if err := a.auditPublisher.Close(); err != nil && a.logger != nil {
			a.logger.Error("Error closing audit publisher", err, nil)
		}
	}
	if a.rabbitMQConn != nil {
		if err := a.rabbitMQConn.Close(); err != nil && a.logger != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
