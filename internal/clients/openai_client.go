package clients

import (
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

type OpenAIClient struct {
	Client *openai.Client
}

// NewOpenAIClient builds a client for the given credential. The key comes
// from the run input, so the client is constructed per run rather than held
// as a package singleton.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAIClient{
		Client: openai.NewClientWithConfig(config),
	}
}
