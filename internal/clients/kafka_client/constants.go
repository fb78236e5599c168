package kafka_client

import "time"

const (
	KAFKA_TOPIC_POST_BATCHES     = "post-batches"     // incoming batches of influencer posts to analyze
	KAFKA_TOPIC_ANALYSIS_RESULTS = "analysis-results" // retained compliance analysis results
)

const (
	BATCH_SIZE    = 25
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
)
