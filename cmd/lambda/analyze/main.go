package main

import (
	"context"
	"encoding/json"
	"net/http"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"expense-categorizer-api/internal/config"
	"expense-categorizer-api/internal/handlers"
	"expense-categorizer-api/pkg/lambda"
)

var connections *lambda.ConnectionManager

func init() {
	connections = lambda.GetConnectionManager()

	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		// The connection manager retries on the first invocation and reports the error then
		logrus.WithError(err).Error("Failed to load configuration")
		return
	}

	if err := config.ConfigureLogging(cfg.Logging); err != nil {
		logrus.WithError(err).Error("Failed to configure logging")
	}

	if err := connections.Initialize(cfg); err != nil {
		logrus.WithError(err).Error("Failed to initialize container")
		return
	}

	serverless := config.GetServerlessConfig()
	logrus.WithFields(logrus.Fields{
		"mode":     config.GetDeploymentMode(),
		"function": serverless.FunctionName,
		"region":   serverless.Region,
		"stage":    serverless.Stage,
		"model":    cfg.OpenAI.Model,
	}).Info("Lambda initialized")
}

func handler(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	container, err := connections.GetContainer(ctx)
	if err != nil {
		logrus.WithError(err).Error("Container unavailable")
		body, _ := json.Marshal(handlers.ErrorResponse{Error: err.Error()})
		return lambda.JSON(http.StatusInternalServerError, body), nil
	}

	analyzeHandler := handlers.NewAnalyzeHandler(container.CategorizationService, container.Config.MaxBodyBytes)
	return analyzeHandler.HandleAnalyze(ctx, req)
}

func main() {
	awslambda.Start(lambda.Adapt(handler))
}
