package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/discloscan/discloscan/internal/clients"
	"github.com/discloscan/discloscan/internal/clients/kafka_client"
	"github.com/discloscan/discloscan/internal/models"
	"github.com/discloscan/discloscan/internal/pipeline"
	"github.com/discloscan/discloscan/internal/utils"
)

// StartPostsConsumer drains post batches from the intake topic, runs each
// through the analysis pipeline and publishes retained results. One message
// is processed to completion before the next is read.
func StartPostsConsumer(p *pipeline.Pipeline) func(context.Context, *kafka.Consumer) {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
		committer := kafka_client.NewCommitHandler(ctx, consumer)

		for {
			select {
			case <-ctx.Done():
				slog.Warn("[PostsConsumer] Consumer shutting down...")
				return
			default:
				msg, err := iterator.Next()
				if err != nil {
					utils.HandleConsumerError(err)
					continue
				}

				var posts []models.Post
				if err := utils.DeserializeFromJSON(msg.Value, &posts); err != nil {
					utils.HandleConsumerError(err)
					continue
				}
				if len(posts) == 0 {
					continue
				}

				utils.TrackMessage(posts[0].PostID, msg)

				fresh := filterAnalyzed(ctx, posts)
				if len(fresh) == 0 {
					slog.Info("[PostsConsumer] Entire batch already analyzed, skipping",
						slog.Int("batch_size", len(posts)))
					commitTracked(committer, posts[0].PostID)
					continue
				}

				results, summary := p.Run(ctx, fresh)

				slog.Info("[PostsConsumer] Batch analyzed",
					slog.Int("posts_analyzed", summary.PostsAnalyzed),
					slog.Int("violations_detected", summary.ViolationsDetected),
					slog.Int("total_exposure", summary.TotalExposure),
					slog.Int("results_count", summary.ResultsCount))

				if len(results) > 0 {
					publishResults(results)
				}

				markAnalyzed(ctx, fresh)
				commitTracked(committer, posts[0].PostID)
			}
		}
	}
}

// filterAnalyzed drops posts the dedupe set has already seen, so a
// re-delivered batch does not re-bill the reasoning service.
func filterAnalyzed(ctx context.Context, posts []models.Post) []models.Post {
	vc := clients.GetValkeyClient()

	fresh := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if post.PostID != "" && vc.IsPostAnalyzed(ctx, post.PostID) {
			slog.Info("[PostsConsumer] Skipping already analyzed post",
				slog.String("post_id", post.PostID))
			continue
		}
		fresh = append(fresh, post)
	}
	return fresh
}

func markAnalyzed(ctx context.Context, posts []models.Post) {
	vc := clients.GetValkeyClient()
	for _, post := range posts {
		if post.PostID == "" {
			continue
		}
		if err := vc.MarkAnalyzed(ctx, post.PostID); err != nil {
			slog.Warn("[PostsConsumer] Failed to mark post as analyzed",
				slog.String("post_id", post.PostID),
				slog.String("error", err.Error()))
		}
	}
}

func publishResults(results []models.AnalysisResult) {
	for i := 0; i < 3; i++ {
		err := kafka_client.PublishToKafka(kafka_client.KAFKA_TOPIC_ANALYSIS_RESULTS, results[0].PostID, results)
		if err == nil {
			return
		}
		slog.Warn("[PostsConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(2 * time.Second)
	}
}

func commitTracked(committer *kafka_client.KafkaCommitHandler, postID string) {
	trackedMsg, found := utils.GetMessageForPost(postID)
	if !found {
		return
	}
	if err := committer.Commit(trackedMsg); err != nil {
		slog.Warn("[PostsConsumer] Failed to commit offset",
			slog.String("error", err.Error()))
	}
}
