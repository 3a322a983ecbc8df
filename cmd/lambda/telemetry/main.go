package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"stream-ingest-api/internal/config"
	"stream-ingest-api/pkg/lambda"
	"stream-ingest-api/pkg/server"
)

var container *server.Container

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if err := config.ConfigureLogging(cfg.Logging); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}

	serverless := config.GetServerlessConfig()
	logrus.WithFields(logrus.Fields{
		"function": serverless.FunctionName,
		"stage":    serverless.Stage,
		"profile":  container.Telemetry.Profile(),
		"stream":   cfg.Stream.Name,
	}).Info("Cold start")
}

// handler writes one telemetry reading per request and echoes the stored record
func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return lambda.ToAPIGateway(container.Telemetry.Handle(ctx, lambda.FromAPIGateway(event))), nil
}

func main() {
	awslambda.Start(handler)
}
