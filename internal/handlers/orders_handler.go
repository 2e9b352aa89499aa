package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/apsotle1-beep/green-mask/internal/auth"
	internalaws "github.com/apsotle1-beep/green-mask/internal/aws"
	"github.com/apsotle1-beep/green-mask/internal/notify"
	"github.com/apsotle1-beep/green-mask/internal/orders"
	"github.com/apsotle1-beep/green-mask/internal/validation"
)

// HandlerConfig holds the dependencies the order routes need.
type HandlerConfig struct {
	DynamoDBClient internalaws.DynamoDBAPI
	OrdersTable    string
	Notifier       notify.Notifier
	Metrics        *internalaws.Metrics
	Sessions       *auth.Sessions
	Credentials    auth.CredentialVerifier
	Logger         *zap.Logger
}

// RegisterRoutes wires the storefront and admin API onto r.
func RegisterRoutes(r *gin.Engine, cfg *HandlerConfig) {
	v := validation.New()
	store := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)

	r.POST("/api/auth/login", loginHandler(cfg, v))
	r.POST("/api/orders", createOrderHandler(cfg, store, v))
	r.GET("/api/orders", auth.RequireSession(cfg.Sessions), listOrdersHandler(cfg, store))
	// Status updates are unauthenticated, same as the rest of the order
	// write path. Only the admin list sits behind the session gate.
	r.PATCH("/api/orders/:id", updateStatusHandler(cfg, store, v))
}

func loginHandler(cfg *HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if !cfg.Credentials.Verify(req.Username, req.Password) {
			cfg.Logger.Warn("login rejected", zap.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token := cfg.Sessions.Issue()
		c.SetCookie(auth.CookieName, token, int(auth.SessionTTL.Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func createOrderHandler(cfg *HandlerConfig, store *orders.Store, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		orderID := req.OrderID
		if orderID == "" {
			orderID = orders.NewOrderID()
		}
		submittedAt := req.SubmittedAt
		if submittedAt == "" {
			submittedAt = time.Now().UTC().Format(time.RFC3339)
		}

		// Status is server-assigned. A client-sent status is ignored.
		order := orders.Order{
			OrderID:     orderID,
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Whatsapp:    req.Whatsapp,
			City:        req.City,
			Area:        req.Area,
			Address:     req.Address,
			Landmark:    req.Landmark,
			Quantity:    req.Quantity,
			SubmittedAt: submittedAt,
			Status:      orders.StatusPending,
		}

		if err := store.Create(c.Request.Context(), order); err != nil {
			if errors.Is(err, orders.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "Order already exists"})
				return
			}
			cfg.Logger.Error("create order failed", zap.String("order_id", orderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		cfg.Logger.Info("order created",
			zap.String("order_id", orderID),
			zap.Int("quantity", order.Quantity))
		ctx := notify.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-Id"))
		cfg.Notifier.Notify(ctx, notify.EventPending, order)
		emitMetric(cfg, "OrdersCreated", nil)

		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(cfg *HandlerConfig, store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := store.List(c.Request.Context())
		if err != nil {
			cfg.Logger.Error("list orders failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		sortNewestFirst(list)
		c.JSON(http.StatusOK, list)
	}
}

func updateStatusHandler(cfg *HandlerConfig, store *orders.Store, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if !orders.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		orderID := c.Param("id")
		updated, err := store.UpdateStatus(c.Request.Context(), orderID, req.Status)
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			cfg.Logger.Error("update status failed", zap.String("order_id", orderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		cfg.Logger.Info("order status updated",
			zap.String("order_id", orderID),
			zap.String("status", req.Status))
		if event := notify.ForStatus(req.Status); event != "" {
			ctx := notify.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-Id"))
			cfg.Notifier.Notify(ctx, event, *updated)
		}
		emitMetric(cfg, "OrderStatusUpdated", map[string]string{"Status": req.Status})

		c.JSON(http.StatusOK, updated)
	}
}

// sortNewestFirst orders by submittedAt descending. Timestamps are
// RFC3339 so the string fallback still sorts correctly for rows whose
// timestamp fails to parse.
func sortNewestFirst(list []orders.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC3339, list[i].SubmittedAt)
		tj, errj := time.Parse(time.RFC3339, list[j].SubmittedAt)
		if erri != nil || errj != nil {
			return list[i].SubmittedAt > list[j].SubmittedAt
		}
		return ti.After(tj)
	})
}

// emitMetric publishes fire-and-forget. Metric failures never block or
// fail the request.
func emitMetric(cfg *HandlerConfig, name string, dimensions map[string]string) {
	if cfg.Metrics == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cfg.Metrics.Count(ctx, name, dimensions); err != nil {
			cfg.Logger.Debug("metric publish failed", zap.String("metric", name), zap.Error(err))
		}
	}()
}
