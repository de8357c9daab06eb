package main

import (
	"net/http"

	"github.com/Dimuthu1234/soundcloud-boost/internal/middleware"
	"github.com/Dimuthu1234/soundcloud-boost/internal/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerAuthRoutes(g *echo.Group, as *services.AuthService) {
	auth := g.Group("/auth")

	auth.POST("/register", func(c echo.Context) error {
		var req registerRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		admin, err := as.Register(c.Request().Context(), req.Email, req.Password, req.Name)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		token, err := middleware.GenerateToken(admin.AdminID, admin.Email, 72)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"message": "Admin registered successfully.",
			"token":   token,
			"admin":   admin,
		})
	})

	auth.POST("/login", func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		admin, err := as.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		token, err := middleware.GenerateToken(admin.AdminID, admin.Email, 72)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"message": "Login successful.",
			"token":   token,
			"admin":   admin,
		})
	})

	me := auth.Group("/me")
	me.Use(middleware.JWTMiddleware())
	me.GET("", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}
		admin, err := as.GetAdmin(c.Request().Context(), cl.AdminID)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"admin": admin})
	})
}
