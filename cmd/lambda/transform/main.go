package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"stream-ingest-api/internal/config"
	"stream-ingest-api/internal/transform"
)

func main() {
	logging := config.LoggingConfig{
		Level:  config.GetEnv("LOG_LEVEL", "info"),
		Format: "json",
	}
	if err := config.ConfigureLogging(logging); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	// The transformation hook has no stream of its own, so it does not
	// need FIREHOSE_NAME and skips full configuration loading.
	t := transform.NewTransformer(nil, logrus.WithField("function", "transform"))
	awslambda.Start(t.Process)
}
