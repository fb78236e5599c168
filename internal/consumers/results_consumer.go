package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/discloscan/discloscan/internal/clients/kafka_client"
	"github.com/discloscan/discloscan/internal/db"
	"github.com/discloscan/discloscan/internal/models"
	"github.com/discloscan/discloscan/internal/utils"
)

var insertBuffer = utils.NewBatchBuffer[models.AnalysisResult]()

// StartResultsConsumer buffers published analysis results and batch-writes
// them to the results table, committing offsets once a result is durable.
func StartResultsConsumer(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushResults(ctx, committer)
		default:
			msg, err := iterator.Next()
			if err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			var results []models.AnalysisResult
			if err := utils.DeserializeFromJSON(msg.Value, &results); err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			for _, result := range results {
				utils.TrackMessage(result.PostID, msg)
				insertBuffer.Add(result)
				if insertBuffer.Size() >= utils.BATCH_SIZE {
					flushResults(ctx, committer)
				}
			}
		}
	}
}

func flushResults(ctx context.Context, committer *kafka_client.KafkaCommitHandler) {
	var insertErr error
	batch := insertBuffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	for i := 0; i < 3; i++ {
		insertErr = db.BatchInsertAnalysisResults(ctx, batch)
		if insertErr == nil {
			break
		}
		slog.Error("[ResultsConsumer] Failed to write results to DB",
			slog.String("error", insertErr.Error()),
			slog.Int("attempt", i+1))
	}

	for _, result := range batch {
		msg, found := utils.GetMessageForPost(result.PostID)
		if found {
			if err := committer.Commit(msg); err != nil {
				slog.Warn("[ResultsConsumer] Failed to commit offset",
					slog.String("error", err.Error()))
			}
		}
	}
}
