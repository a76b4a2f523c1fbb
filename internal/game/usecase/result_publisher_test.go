package usecase

import (
	"context"
	"encoding/json"
	"testing"

	gamedomain "connect4-backend/internal/game/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedStream struct {
	data  []byte
	attrs map[string]string
}

func (c *capturedStream) Publish(_ context.Context, data []byte, attrs map[string]string) error {
	c.data, c.attrs = data, attrs
	return nil
}

func TestStreamResultPublisherEncodesResult(t *testing.T) {
	stream := &capturedStream{}
	p := NewStreamResultPublisher(stream)

	require.NoError(t, p.PublishResult(context.Background(), gamedomain.Result{MatchID: "m1", Tie: true, Moves: []int{3}}))

	assert.Equal(t, map[string]string{"match_id": "m1", "outcome": "tie"}, stream.attrs)
	var decoded gamedomain.Result
	require.NoError(t, json.Unmarshal(stream.data, &decoded))
	assert.Equal(t, "m1", decoded.MatchID)
	assert.Equal(t, []int{3}, decoded.Moves)
}
