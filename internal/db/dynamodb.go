package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/discloscan/discloscan/internal/clients"
	"github.com/discloscan/discloscan/internal/models"
)

const (
	ANALYSIS_RESULTS_TABLE_NAME = "AnalysisResults"
	ANALYSIS_RUNS_TABLE_NAME    = "AnalysisRuns"
)

const resultTTL = 30 * 24 * time.Hour

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// BatchInsertAnalysisResults writes results in DynamoDB batch-write chunks,
// retrying unprocessed items with backoff.
func BatchInsertAnalysisResults(ctx context.Context, results []models.AnalysisResult) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	const maxBatchSize = 25
	for i := 0; i < len(results); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
			end := i + maxBatchSize
			if end > len(results) {
				end = len(results)
			}

			writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
			for _, result := range results[i:end] {
				writeRequests = append(writeRequests, types.WriteRequest{
					PutRequest: &types.PutRequest{
						Item: ResultToDynamoDBItem(result),
					},
				})
			}

			out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					ANALYSIS_RESULTS_TABLE_NAME: writeRequests,
				},
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to batch write analysis results: %w", err)
			}

			retryCount := 0
			backoff := 500 * time.Millisecond
			for len(out.UnprocessedItems) > 0 && retryCount < 3 {
				time.Sleep(backoff)
				backoff *= 2
				slog.Warn("[DynamoDB] Retrying unprocessed result items...",
					slog.Int("retry_attempt", retryCount+1),
					slog.Int("remaining_items", len(out.UnprocessedItems[ANALYSIS_RESULTS_TABLE_NAME])))

				out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
					RequestItems: out.UnprocessedItems,
				})
				if err != nil {
					return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
				}
				retryCount++
			}

			if len(out.UnprocessedItems) > 0 {
				slog.Error("[DynamoDB] Some result items were not written even after retries",
					slog.Int("remaining_items", len(out.UnprocessedItems[ANALYSIS_RESULTS_TABLE_NAME])))
			}
		}
	}

	slog.Info("[DynamoDB] Successfully stored analysis results",
		slog.Int("count", len(results)))
	return nil
}

// StoreRunSummary writes the batch summary under the given run ID. This is
// the run's named output slot.
func StoreRunSummary(ctx context.Context, runID string, summary models.BatchSummary) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	_, err := dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ANALYSIS_RUNS_TABLE_NAME),
		Item: map[string]types.AttributeValue{
			"run_id":              &types.AttributeValueMemberS{Value: runID},
			"posts_analyzed":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", summary.PostsAnalyzed)},
			"violations_detected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", summary.ViolationsDetected)},
			"total_exposure":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", summary.TotalExposure)},
			"results_count":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", summary.ResultsCount)},
			"created_at":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())},
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store run summary: %w", err)
	}

	slog.Info("[DynamoDB] Stored run summary", slog.String("run_id", runID))
	return nil
}

// GetRunSummary reads a stored summary back by run ID.
func GetRunSummary(ctx context.Context, runID string) (models.BatchSummary, error) {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	out, err := dbClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ANALYSIS_RUNS_TABLE_NAME),
		Key: map[string]types.AttributeValue{
			"run_id": &types.AttributeValueMemberS{Value: runID},
		},
	})
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("[DynamoDB] Failed to read run summary: %w", err)
	}
	if out.Item == nil {
		return models.BatchSummary{}, fmt.Errorf("[DynamoDB] No summary stored for run %s", runID)
	}

	var summary models.BatchSummary
	if err := attributevalue.UnmarshalMap(out.Item, &summary); err != nil {
		return models.BatchSummary{}, fmt.Errorf("[DynamoDB] Failed to unmarshal run summary: %w", err)
	}
	return summary, nil
}

// ResultToDynamoDBItem flattens an AnalysisResult into DynamoDB attributes
// with snake_case keys. Detailed fields are only written when present.
func ResultToDynamoDBItem(result models.AnalysisResult) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)

	item["post_id"] = &types.AttributeValueMemberS{Value: result.PostID}
	item["platform"] = &types.AttributeValueMemberS{Value: result.Platform}
	item["influencer_username"] = &types.AttributeValueMemberS{Value: result.InfluencerUsername}
	item["influencer_followers"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.InfluencerFollowers)}
	item["has_violation"] = &types.AttributeValueMemberBOOL{Value: result.HasViolation}
	item["violation_type"] = &types.AttributeValueMemberS{Value: result.ViolationType}
	item["severity"] = &types.AttributeValueMemberS{Value: result.Severity}
	item["confidence"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.Confidence)}
	item["risk_score"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.RiskScore)}
	item["risk_level"] = &types.AttributeValueMemberS{Value: result.RiskLevel}
	item["estimated_exposure"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.EstimatedExposure)}
	item["ftc_fine"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.FTCFine)}
	item["legal_costs"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.LegalCosts)}
	item["reputation_damage"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.ReputationDamage)}
	item["created_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())}
	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Add(resultTTL).Unix())}

	if result.URL != "" {
		item["url"] = &types.AttributeValueMemberS{Value: result.URL}
	}
	if result.Reasoning != "" {
		item["reasoning"] = &types.AttributeValueMemberS{Value: result.Reasoning}
	}
	if len(result.FTCGuidelines) > 0 {
		guidelines := make([]types.AttributeValue, 0, len(result.FTCGuidelines))
		for _, g := range result.FTCGuidelines {
			guidelines = append(guidelines, &types.AttributeValueMemberS{Value: g})
		}
		item["ftc_guidelines"] = &types.AttributeValueMemberL{Value: guidelines}
	}
	if result.Recommendation != "" {
		item["recommendation"] = &types.AttributeValueMemberS{Value: result.Recommendation}
	}
	if len(result.RiskFactors) > 0 {
		factors := make(map[string]types.AttributeValue, len(result.RiskFactors))
		for name, value := range result.RiskFactors {
			factors[name] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", value)}
		}
		item["risk_factors"] = &types.AttributeValueMemberM{Value: factors}
	}
	if result.DisclosureSignals != nil {
		signals := map[string]types.AttributeValue{
			"has_disclosure_tag": &types.AttributeValueMemberBOOL{Value: result.DisclosureSignals.HasDisclosureTag},
			"promo_tone":         &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", result.DisclosureSignals.PromoTone)},
			"promo_tone_label":   &types.AttributeValueMemberS{Value: result.DisclosureSignals.PromoToneLabel},
		}
		if len(result.DisclosureSignals.DisclosureTags) > 0 {
			tags := make([]types.AttributeValue, 0, len(result.DisclosureSignals.DisclosureTags))
			for _, t := range result.DisclosureSignals.DisclosureTags {
				tags = append(tags, &types.AttributeValueMemberS{Value: t})
			}
			signals["disclosure_tags"] = &types.AttributeValueMemberL{Value: tags}
		}
		item["disclosure_signals"] = &types.AttributeValueMemberM{Value: signals}
	}

	return item
}

