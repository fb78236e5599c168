package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/discloscan/discloscan/config"
	"github.com/discloscan/discloscan/internal/clients"
	"github.com/discloscan/discloscan/internal/compliance"
	"github.com/discloscan/discloscan/internal/db"
	"github.com/discloscan/discloscan/internal/logging"
	"github.com/discloscan/discloscan/internal/models"
	"github.com/discloscan/discloscan/internal/pipeline"
)

// Batch entry point: reads the input envelope from a file, runs every post
// through the compliance pipeline and persists the retained results plus
// the run summary.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	inputPath := os.Getenv("INPUT_PATH")
	if inputPath == "" {
		inputPath = "input.json"
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		slog.Error("[Analyzer] Failed to read input file",
			slog.String("path", inputPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	var input models.AnalyzerInput
	if err := json.Unmarshal(data, &input); err != nil {
		slog.Error("[Analyzer] Failed to parse input file",
			slog.String("path", inputPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := input.Validate(); err != nil {
		slog.Error("[Analyzer] Invalid input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopChan
		slog.Warn("[Analyzer] Shutting down early...")
		cancel()
	}()

	slog.Info("[Analyzer] Starting FTC compliance analysis",
		slog.Int("posts", len(input.Posts)),
		slog.Int("risk_threshold", input.Threshold()),
		slog.Bool("detailed", input.Detailed()))

	analyzer := compliance.NewAnalyzer(clients.NewOpenAIClient(input.OpenAIAPIKey))
	opts := pipeline.DefaultOptions()
	opts.RiskThreshold = input.Threshold()
	opts.Detailed = input.Detailed()

	results, summary := pipeline.New(analyzer, opts).Run(ctx, input.Posts)

	db.InitDynamoDB()
	if len(results) > 0 {
		if err := db.BatchInsertAnalysisResults(ctx, results); err != nil {
			slog.Error("[Analyzer] Failed to store results",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	runID := uuid.NewString()
	if err := db.StoreRunSummary(ctx, runID, summary); err != nil {
		slog.Error("[Analyzer] Failed to store run summary",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("============================================================")
	slog.Info("ANALYSIS COMPLETE")
	slog.Info("[Analyzer] Summary",
		slog.String("run_id", runID),
		slog.Int("posts_analyzed", summary.PostsAnalyzed),
		slog.Int("violations_detected", summary.ViolationsDetected),
		slog.Int("total_exposure", summary.TotalExposure),
		slog.Int("results_saved", summary.ResultsCount))
	slog.Info("============================================================")
}
