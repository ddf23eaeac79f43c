package main

import (
	"net/http"
	"os"
	"time"

	"realvest/api/handler"
	apiMiddleware "realvest/api/middleware"
	"realvest/api/routes"
	"realvest/config"
	"realvest/internal/entity"
	"realvest/internal/repository"
	"realvest/internal/service"
	"realvest/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("configuration")
	}

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database connection")
	}
	if err := db.AutoMigrate(&entity.UserAccount{}); err != nil {
		logger.WithError(err).Fatal("database migration")
	}

	accessManager := utils.JWTManager{
		Secret:         cfg.JWTSecret,
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	}

	accountRepo := repository.NewAccountRepository(db)
	emailSender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL)
	phoneSender := service.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)

	accountService := service.NewAccountService(
		accountRepo,
		emailSender,
		phoneSender,
		service.BcryptPasswordHasher{},
		service.JWTAccessIssuer{Manager: &accessManager},
		service.RealClock{},
		service.AccountConfig{
			RecoveryTTL: cfg.RecoveryTTL,
		},
	)

	accountHandler := handler.NewAccountHandler(accountService, validator.New())

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager}
	router := routes.NewRouter(app, accountHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
