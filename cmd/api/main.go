package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apsotle1-beep/green-mask/internal/auth"
	internalaws "github.com/apsotle1-beep/green-mask/internal/aws"
	"github.com/apsotle1-beep/green-mask/internal/handlers"
	"github.com/apsotle1-beep/green-mask/internal/logging"
	"github.com/apsotle1-beep/green-mask/internal/notify"
	"github.com/apsotle1-beep/green-mask/internal/relay"
)

var ginLambda *ginadapter.GinLambda

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	clients, err := internalaws.NewAWSClients(ctx)
	if err != nil {
		logger.Fatal("init AWS clients", zap.Error(err))
	}

	endpoints := webhookEndpoints()
	var notifier notify.Notifier
	if queueURL := os.Getenv("NOTIFY_QUEUE_URL"); queueURL != "" {
		publisher := internalaws.NewPublisher(clients.SQS, queueURL)
		notifier = notify.NewQueueNotifier(publisher, endpoints, logger)
	} else {
		notifier = notify.NewWebhookNotifier(endpoints, logger)
	}

	cfg := &handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		OrdersTable:    envOr("ORDERS_TABLE", "orders"),
		Notifier:       notifier,
		Metrics:        internalaws.NewMetrics(clients.CloudWatch, os.Getenv("METRICS_NAMESPACE")),
		Sessions:       auth.NewSessions(envOr("SESSION_SECRET", "green-mask-dev-secret")),
		Credentials: auth.StaticCredentials{
			Username: envOr("ADMIN_USERNAME", "saad"),
			Password: envOr("ADMIN_PASSWORD", "#saad#2005"),
		},
		Logger: logger,
	}
	relayCfg := relay.HandlerConfig{
		SessionConfig: relay.Config{
			Endpoint: os.Getenv("GEMINI_LIVE_ENDPOINT"),
			APIKey:   os.Getenv("GEMINI_API_KEY"),
		},
		Logger: logger,
	}

	r := setupRouter(cfg, relayCfg)

	if os.Getenv("RUN_LOCAL") == "true" {
		logger.Info("starting local server", zap.String("addr", ":8080"))
		if err := r.Run(":8080"); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
		return
	}

	ginLambda = ginadapter.New(r)
	lambda.Start(handler)
}

func setupRouter(cfg *handlers.HandlerConfig, relayCfg relay.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)
	relay.Register(r, relayCfg)

	return r
}

// webhookEndpoints reads the per-event delivery URLs. Defaults are the
// original deployment's n8n workflows, spelling included.
func webhookEndpoints() notify.Endpoints {
	return notify.Endpoints{
		Pending:  envOr("WEBHOOK_PENDING_URL", "https://n8n.srv1245507.hstgr.cloud/webhook/pending"),
		Placed:   envOr("WEBHOOK_PLACED_URL", "https://n8n.srv1245507.hstgr.cloud/webhook/placed"),
		Recieved: envOr("WEBHOOK_RECIEVED_URL", "https://n8n.srv1245507.hstgr.cloud/webhook/recieved"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
