package clients

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

var (
	awsCfg   aws.Config
	awsOnce  sync.Once
	endpoint string
)

func GetAWSConfig() aws.Config {
	awsOnce.Do(func() {
		awsEndpoint := os.Getenv("AWS_ENDPOINT")
		if awsEndpoint == "" {
			awsEndpoint = "http://localhost:8000"
		}

		slog.Info("[AWSClient] Initializing AWS Config...")
		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion(getEnvOr("AWS_REGION", "us-west-2")))
		if err != nil {
			slog.Error("[AWSClient] Failed to load AWS config")
			panic(err)
		}

		awsCfg = cfg
		endpoint = awsEndpoint
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfg
}

func GetDynamoDBClient() *dynamodb.Client {
	return dynamodb.NewFromConfig(GetAWSConfig(), func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
}

func getEnvOr(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
