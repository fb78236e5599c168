package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/discloscan/discloscan/config"
	"github.com/discloscan/discloscan/internal/clients"
	"github.com/discloscan/discloscan/internal/clients/kafka_client"
	"github.com/discloscan/discloscan/internal/compliance"
	"github.com/discloscan/discloscan/internal/consumers"
	"github.com/discloscan/discloscan/internal/logging"
	"github.com/discloscan/discloscan/internal/pipeline"
)

// Streaming entry point: consumes post batches from Kafka and feeds them
// through the same pipeline the file-input runner uses.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("[Consumer] OPENAI_API_KEY is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := kafka_client.GetKafkaConfig()

	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	clients.InitValkey()
	defer clients.CloseValkey()

	opts := pipeline.DefaultOptions()
	if raw := os.Getenv("RISK_THRESHOLD"); raw != "" {
		if threshold, err := strconv.Atoi(raw); err == nil {
			opts.RiskThreshold = threshold
		}
	}
	if os.Getenv("DETAILED_ANALYSIS") == "false" {
		opts.Detailed = false
	}

	analyzer := compliance.NewAnalyzer(clients.NewOpenAIClient(apiKey))
	p := pipeline.New(analyzer, opts)

	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_POST_BATCHES, consumers.StartPostsConsumer(p))
	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_ANALYSIS_RESULTS, consumers.StartResultsConsumer)

	if err := kafka_client.StartConsumer(ctx, cfg); err != nil {
		slog.Error("[Consumer] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
