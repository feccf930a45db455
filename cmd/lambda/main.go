package main

import (
	"context"
	"log"
	"time"

	"booklog-backend/infrastructure/config"
	"booklog-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"
)

var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambdaV2

	container *di.Container

	coldStart = true
)

// init runs during cold start
func init() {
	start := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// The local SQLite file does not survive between invocations
	if cfg.Store.Driver != config.StoreSupabase {
		log.Fatalf("Lambda requires STORE_DRIVER=%s", config.StoreSupabase)
	}

	// The container lives as long as the execution environment; its cleanup never runs
	container, _, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	chiLambda = chiadapter.NewV2(container.Router.Setup())

	container.Logger.Info("Lambda cold start completed", zap.Duration("duration", time.Since(start)))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if coldStart {
		container.Logger.Info("First invocation after cold start",
			zap.String("requestID", req.RequestContext.RequestID),
		)
		coldStart = false
	}

	resp, err := chiLambda.ProxyWithContextV2(ctx, req)
	if err != nil {
		container.Logger.Error("Request failed",
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.Error(err),
		)
	}
	return resp, err
}

func main() {
	lambda.Start(Handler)
}
