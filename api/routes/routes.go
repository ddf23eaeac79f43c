package routes

import (
	"realvest/api/handler"
	"realvest/api/middleware"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo           *echo.Echo
	Accounts       *handler.AccountHandler
	AuthMiddleware middleware.AuthMiddleware
}

func NewRouter(e *echo.Echo, accountHandler *handler.AccountHandler, authMiddleware middleware.AuthMiddleware) *Router {
	return &Router{
		Echo:           e,
		Accounts:       accountHandler,
		AuthMiddleware: authMiddleware,
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/api/signup", r.Accounts.Signup)
	e.POST("/api/login", r.Accounts.Login)
	e.POST("/api/password/forgot", r.Accounts.RequestRecovery)
	e.POST("/api/password/reset", r.Accounts.CompleteRecovery)
	e.POST("/api/verify", r.Accounts.VerifyChannel)
	e.POST("/api/verify/request", r.Accounts.RequestVerification)

	e.GET("/api/me", r.Accounts.Me, r.AuthMiddleware.RequireAuth)
}
