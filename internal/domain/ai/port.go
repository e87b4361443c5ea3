package ai

import "context"

// Client port for the conversational assistant and record summarizer.
type Client interface {
	Chat(ctx context.Context, message string) (string, error)
	Summarize(ctx context.Context, recordJSON string) (string, error)
}
