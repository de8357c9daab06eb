package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dimuthu1234/soundcloud-boost/internal/middleware"
	"github.com/Dimuthu1234/soundcloud-boost/internal/services"

	"github.com/labstack/echo/v4"
)

// request payloads
type createOrderRequest struct {
	PackageID     string `json:"packageId"`
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName,omitempty"`
	SoundcloudURL string `json:"soundcloudUrl"`
	Quantity      int    `json:"quantity,omitempty"`
}

type captureRequest struct {
	PayPalOrderID string `json:"paypalOrderId"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// orderErrorStatus maps service sentinels to HTTP codes.
func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrPackageNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPackageInactive),
		errors.Is(err, services.ErrAlreadyCaptured):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrGatewayUnavailable),
		errors.Is(err, services.ErrCaptureFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// registerOrderRoutes mounts the order lifecycle endpoints.
// Public:
//
//	POST /orders           -> checkout (create order + paypal intent)
//	POST /orders/capture   -> capture after buyer approval
//	GET  /orders/history   -> orders by customer email (?email=)
//	GET  /orders/:id       -> single order
//
// Admin (JWT):
//
//	GET /orders/admin/all      -> paginated list (?status=&page=&limit=)
//	GET /orders/admin/stats    -> dashboard aggregates
//	PUT /orders/admin/:id/status
func registerOrderRoutes(g *echo.Group, os *services.OrderService, ps *services.PaymentService) {
	g.POST("/orders", func(c echo.Context) error {
		var req createOrderRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		order, paypalOrder, err := os.CreateOrder(c.Request().Context(), services.CreateOrderInput{
			PackageID:     req.PackageID,
			CustomerEmail: req.CustomerEmail,
			CustomerName:  req.CustomerName,
			SoundcloudURL: req.SoundcloudURL,
			Quantity:      req.Quantity,
		})
		if err != nil {
			return c.JSON(orderErrorStatus(err), echo.Map{"error": err.Error()})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"message": "Order created. Redirect to PayPal for payment.",
			"order": echo.Map{
				"id":         order.OrderID,
				"status":     order.Status,
				"totalPrice": order.TotalPrice,
				"package":    order.Package.Title,
			},
			"paypal": echo.Map{
				"orderId":     paypalOrder.OrderID,
				"approvalUrl": paypalOrder.ApprovalURL,
			},
		})
	})

	g.POST("/orders/capture", func(c echo.Context) error {
		var req captureRequest
		if err := c.Bind(&req); err != nil || req.PayPalOrderID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "paypalOrderId is required"})
		}

		order, payment, err := ps.CapturePayment(c.Request().Context(), req.PayPalOrderID)
		if err != nil {
			if errors.Is(err, services.ErrCaptureFailed) {
				middleware.RecordCapture("failed")
			}
			return c.JSON(orderErrorStatus(err), echo.Map{"error": err.Error()})
		}
		middleware.RecordCapture("completed")

		return c.JSON(http.StatusOK, echo.Map{
			"message": "Payment captured successfully. Order is now paid.",
			"order": echo.Map{
				"id":            order.OrderID,
				"status":        order.Status,
				"totalPrice":    order.TotalPrice,
				"package":       order.Package.Title,
				"customerEmail": order.CustomerEmail,
			},
			"payment": echo.Map{
				"id":        payment.PaymentID,
				"captureId": payment.PayPalCaptureID,
				"status":    payment.Status,
				"paidAt":    payment.PaidAt,
			},
		})
	})

	g.GET("/orders/history", func(c echo.Context) error {
		email := c.QueryParam("email")
		if email == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
		}
		orders, err := os.ListByEmail(c.Request().Context(), email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch orders"})
		}
		return c.JSON(http.StatusOK, echo.Map{"orders": orders})
	})

	g.GET("/orders/:id", func(c echo.Context) error {
		order, err := os.GetOrder(c.Request().Context(), c.Param("id"))
		if err != nil {
			return c.JSON(orderErrorStatus(err), echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"order": order})
	})

	// ============================
	// ADMIN (JWT protected)
	// ============================
	admin := g.Group("/orders/admin")
	admin.Use(middleware.JWTMiddleware())

	admin.GET("/all", func(c echo.Context) error {
		page, _ := strconv.Atoi(c.QueryParam("page"))
		limit, _ := strconv.Atoi(c.QueryParam("limit"))

		orders, total, err := os.AdminList(c.Request().Context(), c.QueryParam("status"), page, limit)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		if page < 1 {
			page = 1
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		totalPages := (total + int64(limit) - 1) / int64(limit)

		return c.JSON(http.StatusOK, echo.Map{
			"orders": orders,
			"pagination": echo.Map{
				"total":      total,
				"page":       page,
				"limit":      limit,
				"totalPages": totalPages,
			},
		})
	})

	admin.GET("/stats", func(c echo.Context) error {
		stats, err := os.DashboardStats(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch dashboard stats"})
		}
		return c.JSON(http.StatusOK, echo.Map{"stats": stats})
	})

	admin.PUT("/:id/status", func(c echo.Context) error {
		var req updateStatusRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		order, err := os.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
		if err != nil {
			return c.JSON(orderErrorStatus(err), echo.Map{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"message": "Order status updated to " + order.Status + ".",
			"order":   order,
		})
	})
}
