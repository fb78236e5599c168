package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/discloscan/discloscan/config"
	"github.com/discloscan/discloscan/internal/clients"
	"github.com/discloscan/discloscan/internal/compliance"
	"github.com/discloscan/discloscan/internal/db"
	"github.com/discloscan/discloscan/internal/logging"
	"github.com/discloscan/discloscan/internal/models"
	"github.com/discloscan/discloscan/internal/pipeline"
)

// Single-post entry point: analyzes one ad-hoc post from environment
// fields. Unlike the batch runner this path fails visibly on any error.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	followers := 0
	if raw := os.Getenv("FOLLOWER_COUNT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			slog.Error("[Single] Invalid FOLLOWER_COUNT", slog.String("value", raw))
			os.Exit(1)
		}
		followers = parsed
	}

	input := models.SinglePostInput{
		PostText:           os.Getenv("POST_TEXT"),
		Platform:           os.Getenv("PLATFORM"),
		InfluencerUsername: os.Getenv("INFLUENCER_USERNAME"),
		FollowerCount:      followers,
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
	}

	if err := input.Validate(); err != nil {
		slog.Error("[Single] Invalid input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	analyzer := compliance.NewAnalyzer(clients.NewOpenAIClient(input.OpenAIAPIKey))
	p := pipeline.New(analyzer, pipeline.DefaultOptions())

	result, err := p.Single(ctx, input)
	if err != nil {
		slog.Error("[Single] Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db.InitDynamoDB()
	if err := db.BatchInsertAnalysisResults(ctx, []models.AnalysisResult{result}); err != nil {
		slog.Error("[Single] Failed to store result", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("[Single] Failed to render result", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))

	slog.Info("[Single] Analysis complete",
		slog.Int("risk_score", result.RiskScore),
		slog.Bool("has_violation", result.HasViolation),
		slog.Int("estimated_exposure", result.EstimatedExposure))
}
