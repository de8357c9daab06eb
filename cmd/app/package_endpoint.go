package main

import (
	"errors"
	"net/http"

	"github.com/Dimuthu1234/soundcloud-boost/internal/middleware"
	"github.com/Dimuthu1234/soundcloud-boost/internal/model"
	"github.com/Dimuthu1234/soundcloud-boost/internal/services"

	"github.com/labstack/echo/v4"
)

type packageRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DeliveryDays int     `json:"deliveryDays"`
	Category     string  `json:"category"`
	Image        *string `json:"image,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// registerPackageRoutes mounts catalog endpoints.
// Public:
//
//	GET /packages       -> active packages (?category=)
//	GET /packages/:id
//
// Admin (JWT):
//
//	POST   /packages
//	PUT    /packages/:id
//	DELETE /packages/:id
func registerPackageRoutes(g *echo.Group, pkgs *services.PackageService) {
	g.GET("/packages", func(c echo.Context) error {
		list, err := pkgs.List(c.Request().Context(), c.QueryParam("category"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch packages"})
		}
		if list == nil {
			list = []model.Package{}
		}
		return c.JSON(http.StatusOK, echo.Map{"packages": list})
	})

	g.GET("/packages/:id", func(c echo.Context) error {
		pkg, err := pkgs.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrPackageNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch package"})
		}
		return c.JSON(http.StatusOK, echo.Map{"package": pkg})
	})

	admin := g.Group("/packages")
	admin.Use(middleware.JWTMiddleware())

	admin.POST("", func(c echo.Context) error {
		var req packageRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		pkg := &model.Package{
			Title:        req.Title,
			Description:  req.Description,
			Price:        req.Price,
			DeliveryDays: req.DeliveryDays,
			Category:     req.Category,
			Image:        req.Image,
		}
		if err := pkgs.Create(c.Request().Context(), pkg); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, echo.Map{"message": "Package created successfully.", "package": pkg})
	})

	admin.PUT("/:id", func(c echo.Context) error {
		existing, err := pkgs.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrPackageNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch package"})
		}

		// partial update: only provided fields replace the current values
		var req packageRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		pkg := *existing
		if req.Title != "" {
			pkg.Title = req.Title
		}
		if req.Description != "" {
			pkg.Description = req.Description
		}
		if req.Price != 0 {
			pkg.Price = req.Price
		}
		if req.DeliveryDays != 0 {
			pkg.DeliveryDays = req.DeliveryDays
		}
		if req.Category != "" {
			pkg.Category = req.Category
		}
		if req.Image != nil {
			pkg.Image = req.Image
		}
		if req.IsActive != nil {
			pkg.IsActive = *req.IsActive
		}

		if err := pkgs.Update(c.Request().Context(), &pkg); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Package updated successfully.", "package": pkg})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		if err := pkgs.Delete(c.Request().Context(), c.Param("id")); err != nil {
			if errors.Is(err, services.ErrPackageNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete package"})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Package deleted successfully."})
	})
}
