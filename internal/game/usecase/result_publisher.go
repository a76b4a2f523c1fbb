package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	gamedomain "connect4-backend/internal/game/domain"
)

// MessagePublisher sends raw messages to a stream.
type MessagePublisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) error
}

// StreamResultPublisher encodes results as JSON messages.
type StreamResultPublisher struct {
	stream MessagePublisher
}

func NewStreamResultPublisher(stream MessagePublisher) *StreamResultPublisher {
	return &StreamResultPublisher{stream: stream}
}

func (p *StreamResultPublisher) PublishResult(ctx context.Context, result gamedomain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	outcome := "win"
	if result.Tie {
		outcome = "tie"
	}
	return p.stream.Publish(ctx, data, map[string]string{
		"match_id": result.MatchID,
		"outcome":  outcome,
	})
}
