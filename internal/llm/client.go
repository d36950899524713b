package llm

import (
	"context"
)

// Client sends a receipt image to the vision model and returns raw JSON text.
type Client interface {
	ParseReceipt(ctx context.Context, imageData string) (string, error)
}
