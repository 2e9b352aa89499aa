package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/apsotle1-beep/green-mask/internal/logging"
)

func main() {
	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	p := NewProcessor(logger)

	if os.Getenv("RUN_LOCAL") == "true" {
		// feed one synthetic record through the handler for local testing
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			logger.Fatal("RUN_LOCAL requires LOCAL_SQS_BODY")
		}
		event := events.SQSEvent{Records: []events.SQSMessage{{
			MessageId: "local-1",
			Body:      body,
		}}}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.Fatal("local delivery failed", zap.Error(err))
		}
		logger.Info("local delivery succeeded")
		return
	}

	lambda.Start(p.Handle)
}
