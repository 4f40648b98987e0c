package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port/usecases_port"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/i18n"
)

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	APIBaseURL         string
	CookieSecure       bool
}

// Catalogs - use case'ы справочников админки.
type Catalogs struct {
	Cities        usecases_port.ManageCatalogUseCasePort[domain.City]
	Neighborhoods usecases_port.ManageCatalogUseCasePort[domain.Neighborhood]
	MainTypes     usecases_port.ManageCatalogUseCasePort[domain.MainType]
	SubTypes      usecases_port.ManageCatalogUseCasePort[domain.SubType]
	FinalTypes    usecases_port.ManageCatalogUseCasePort[domain.FinalType]
	Companies     usecases_port.ManageCatalogUseCasePort[domain.Company]
	Buildings     usecases_port.ManageCatalogUseCasePort[domain.Building]
	BuildingItems usecases_port.ManageCatalogUseCasePort[domain.BuildingItem]
	Units         usecases_port.ManageCatalogUseCasePort[domain.Unit]
	RealEstate    usecases_port.ManageCatalogUseCasePort[domain.RealEstate]
}

type Dependencies struct {
	Bundle           *i18n.Bundle
	BrowseListings   usecases_port.BrowseListingsUseCasePort
	ListingDetails   usecases_port.GetListingDetailsUseCasePort
	BuildingOverview usecases_port.GetBuildingOverviewUseCasePort
	DashboardStats   usecases_port.GetDashboardStatsUseCasePort
	Login            usecases_port.LoginUseCasePort
	Logout           usecases_port.LogoutUseCasePort
	ResolveSession   usecases_port.ResolveSessionUseCasePort
	Catalogs         Catalogs
	// Cache - кэш запросов к бэкенду, nil если выключен.
	Cache CacheInvalidator
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

func adminResources(v *views, c Catalogs) []adminResource {
	return []adminResource{
		newResourceHandler(v, c.RealEstate, resourceFields[constants.ResourceRealEstate]),
		newResourceHandler(v, c.Buildings, resourceFields[constants.ResourceBuildings]),
		newResourceHandler(v, c.BuildingItems, resourceFields[constants.ResourceBuildingItems]),
		newResourceHandler(v, c.Units, resourceFields[constants.ResourceUnits]),
		newResourceHandler(v, c.Companies, resourceFields[constants.ResourceCompanies]),
		newResourceHandler(v, c.Cities, resourceFields[constants.ResourceCities]),
		newResourceHandler(v, c.Neighborhoods, resourceFields[constants.ResourceNeighborhoods]),
		newResourceHandler(v, c.MainTypes, resourceFields[constants.ResourceMainTypes]),
		newResourceHandler(v, c.SubTypes, resourceFields[constants.ResourceSubTypes]),
		newResourceHandler(v, c.FinalTypes, resourceFields[constants.ResourceFinalTypes]),
	}
}

// NewServer собирает роутер: публичные страницы, админку, прокси /api и healthz.
func NewServer(cfg ServerConfig, deps Dependencies, baseLogger port.LoggerPort) (*Server, error) {
	apiTarget, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}

	v := &views{
		renderer:     renderer,
		bundle:       deps.Bundle,
		cookieSecure: cfg.CookieSecure,
		logout: func(r *http.Request, sessionID string) error {
			return deps.Logout.Execute(r.Context(), sessionID)
		},
	}

	resources := adminResources(v, deps.Catalogs)
	loaders := make(map[string]optionLoader, len(resources))
	for _, res := range resources {
		loaders[res.Name()] = res.Options
	}
	for _, res := range resources {
		res.setOptionLoaders(loaders)
	}

	publicHandler := NewPublicHandler(v, deps.BrowseListings, deps.ListingDetails)
	authHandler := NewAuthHandler(v, deps.Login)
	adminHandler := NewAdminHandler(v, deps.DashboardStats, deps.BuildingOverview)

	r := chi.NewRouter()
	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFS())))

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(deps.ResolveSession, cfg.CookieSecure))

		// /api/* -> бэкенд, с токеном текущей сессии
		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.CORSAllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			r.Handle("/api/*", NewAPIProxy(apiTarget, deps.Cache))
		})

		r.Group(func(r chi.Router) {
			r.Use(LocaleMiddleware(deps.Bundle))

			r.Get("/", publicHandler.Home)
			r.Get("/listings", publicHandler.Listings)
			r.Get("/listings/{id}", publicHandler.ListingDetails)
			r.Get("/login", authHandler.LoginPage)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Route("/admin", func(r chi.Router) {
				r.Use(v.RequireAdmin)
				r.Get("/", adminHandler.Dashboard)
				for _, res := range resources {
					r.Route("/"+res.Name(), func(r chi.Router) {
						res.Routes(r)
						if res.Name() == constants.ResourceBuildings {
							// экран управления зданием
							r.Get("/{id}", adminHandler.Building)
						}
					})
				}
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		LocaleMiddleware(deps.Bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v.renderError(w, r, http.StatusNotFound)
		})).ServeHTTP(w, r)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}, nil
}

// Handler - корневой обработчик, используется в тестах.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
