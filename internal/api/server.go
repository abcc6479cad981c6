// Package api exposes the dashboard over HTTP: session endpoints, page
// state and actions, navigation and the live market feed, plus a WebSocket
// stream of bus events.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"strade-dashboard/config"
	"strade-dashboard/internal/events"
	"strade-dashboard/internal/market"
	"strade-dashboard/internal/pages"
	"strade-dashboard/internal/router"
	"strade-dashboard/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server is the HTTP API server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	cfg        config.ServerConfig
	logger     zerolog.Logger

	sessions *session.Controller
	router   *router.Router
	pages    *pages.Set
	feed     *market.Feed
	hub      *WSHub

	// appCtx outlives individual requests; page mounts run on it so their
	// background work survives the request that triggered the navigation.
	appCtx context.Context
}

// NewServer wires the HTTP layer over the application services.
func NewServer(
	cfg config.ServerConfig,
	sessions *session.Controller,
	pageRouter *router.Router,
	pageSet *pages.Set,
	feed *market.Feed,
	eventBus *events.EventBus,
	logger zerolog.Logger,
) *Server {
	if cfg.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	server := &Server{
		engine:   engine,
		cfg:      cfg,
		logger:   logger.With().Str("component", "APIServer").Logger(),
		sessions: sessions,
		router:   pageRouter,
		pages:    pageSet,
		feed:     feed,
		hub:      NewWSHub(eventBus, logger),
		appCtx:   context.Background(),
	}

	server.setupRoutes()
	return server
}

// SetAppContext replaces the context page mounts run on. Call before Start.
func (s *Server) SetAppContext(ctx context.Context) {
	if ctx != nil {
		s.appCtx = ctx
	}
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)

	auth := s.engine.Group("/api/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/logout", s.handleLogout)
		auth.POST("/activate", s.handleActivate)
		auth.POST("/register", s.handleRegister)
		auth.POST("/view", s.handleSetAuthView)
		auth.GET("/session", s.handleSession)
	}

	app := s.engine.Group("/api", s.requireSession())
	{
		app.GET("/navigation", s.handleNavigation)
		app.POST("/navigation/navigate", s.handleNavigate)
		app.POST("/navigation/back", s.handleBack)

		app.GET("/market/tickers", s.handleMarketTickers)
		app.GET("/market/status", s.handleMarketStatus)

		p := app.Group("/pages")
		{
			p.GET("/dashboard", s.handleDashboardState)
			p.GET("/trade", s.handleTradeState)
			p.POST("/trade/pairs", s.handleTradeAddPair)
			p.PUT("/trade/pairs/:id", s.handleTradeEditPair)
			p.DELETE("/trade/pairs/:id", s.handleTradeRemovePair)
			p.POST("/trade/select", s.handleTradeSelect)
			p.POST("/trade/amount", s.handleTradeAmount)

			p.GET("/bots", s.handleBotsState)
			p.POST("/bots/params", s.handleBotsParams)
			p.POST("/bots/backtest", s.handleBotsBacktest)
			p.POST("/bots/activate", s.handleBotsActivate)

			p.GET("/api-config", s.handleAPIConfigState)
			p.POST("/api-config/connections", s.handleAPIConfigAdd)
			p.PUT("/api-config/connections/:id", s.handleAPIConfigEdit)
			p.DELETE("/api-config/connections/:id", s.handleAPIConfigRemove)

			p.GET("/credit", s.handleCreditState)
			p.POST("/credit/transactions", s.handleCreditAdd)
			p.PUT("/credit/transactions/:id", s.handleCreditEdit)
			p.DELETE("/credit/transactions/:id", s.handleCreditRemove)

			p.GET("/saving", s.handleSavingState)
			p.POST("/saving/plans", s.handleSavingAddPlan)
			p.DELETE("/saving/plans/:id", s.handleSavingRemovePlan)
			p.POST("/saving/holdings", s.handleSavingAddHolding)
			p.DELETE("/saving/holdings/:id", s.handleSavingRemoveHolding)

			p.GET("/cashback", s.handleCashbackState)
			p.POST("/cashback/campaigns", s.handleCashbackAdd)
			p.DELETE("/cashback/campaigns/:id", s.handleCashbackRemove)

			p.GET("/bnb-fee", s.handleBNBFeeState)
			p.POST("/bnb-fee/profiles", s.handleBNBFeeAddProfile)
			p.DELETE("/bnb-fee/profiles/:id", s.handleBNBFeeRemoveProfile)
			p.POST("/bnb-fee/select", s.handleBNBFeeSelect)
			p.POST("/bnb-fee/balance", s.handleBNBFeeBalance)

			p.GET("/profile", s.handleProfileState)
			p.PUT("/profile", s.handleProfileUpdate)
			p.POST("/profile/password", s.handleProfilePassword)
			p.POST("/profile/contacts", s.handleProfileAddContact)
			p.DELETE("/profile/contacts/:id", s.handleProfileRemoveContact)
			p.POST("/profile/kyc", s.handleProfileKYC)

			p.GET("/recharge", s.handleRechargeState)
			p.POST("/recharge/form", s.handleRechargeForm)
			p.GET("/profit", s.handleProfitState)
			p.POST("/profit/range", s.handleProfitRange)
			p.GET("/faq", s.handleFAQState)
			p.POST("/faq/toggle", s.handleFAQToggle)
		}
	}

	s.engine.GET("/ws", s.hub.HandleConnection)
}

// requireSession rejects requests while logged out. The token written at
// login doubles as the bearer credential for API clients.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			if _, err := s.sessions.ValidateToken(token); err == nil {
				c.Next()
				return
			}
		}

		if s.sessions.IsAuthenticated() {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
}

// Start runs the hub and the HTTP listener. Blocks until the listener stops.
func (s *Server) Start() error {
	go s.hub.Run()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("address", addr).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	s.hub.Stop()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Engine exposes the gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"authenticated": s.sessions.IsAuthenticated(),
		"page":          s.router.Current(),
	})
}
