// Package server assembles the HTTP API from the domain packages.
package server

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/config"
	"github.com/medoffice/medoffice/internal/domain/account"
	"github.com/medoffice/medoffice/internal/domain/appointment"
	"github.com/medoffice/medoffice/internal/domain/message"
	"github.com/medoffice/medoffice/internal/domain/patient"
	"github.com/medoffice/medoffice/internal/domain/record"
	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/auth"
	"github.com/medoffice/medoffice/internal/platform/db"
	"github.com/medoffice/medoffice/internal/platform/middleware"
)

const Version = "0.1.0"

// New wires services and routes on a fresh echo instance. pool may be nil
// when the caller never reaches the database.
func New(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(!cfg.IsDev()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": Version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, logger))

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	policy := auth.DefaultPolicy()
	tx := db.NewTxManager(pool)

	throttle := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.AuthRateRPS,
		BurstSize:         cfg.AuthRateBurst,
		IdleTTL:           10 * time.Minute,
	})

	// Public
	api := e.Group("/api")
	accountSvc := account.NewService(account.NewUserRepo(pool), tx, tokens, cfg.BcryptCost, logger)
	account.NewHandler(accountSvc, tokens).RegisterRoutes(api, throttle)

	// Access token required
	protected := e.Group("/api", auth.Authenticate(tokens, auth.AccessToken))

	patientSvc := patient.NewService(patient.NewRepo(pool), tx, logger)
	patient.NewHandler(patientSvc, policy).RegisterRoutes(protected)

	appointmentSvc := appointment.NewService(appointment.NewRepo(pool), patientSvc, tx, logger)
	appointment.NewHandler(appointmentSvc, policy).RegisterRoutes(protected)

	recordSvc := record.NewService(record.NewRepo(pool), patientSvc, tx, logger)
	record.NewHandler(recordSvc, policy).RegisterRoutes(protected)

	messageSvc := message.NewService(message.NewRepo(pool), message.NewDirectory(pool), tx, logger)
	message.NewHandler(messageSvc, policy).RegisterRoutes(protected)

	return e
}
