package wsserver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageRoundTrips(t *testing.T) {
	t.Parallel()
	msg, err := NewMessage(TypePlayerAction, "req-1", PlayerActionRequest{GameID: "g1", Action: "call"})
	require.NoError(t, err)
	assert.Equal(t, TypePlayerAction, msg.Type)
	assert.Equal(t, "req-1", msg.RequestID)

	var decoded PlayerActionRequest
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "g1", decoded.GameID)
	assert.Equal(t, "call", decoded.Action)
}

func TestParseBoundaryAction(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{"fold": true, "check": true, "call": true, "raise": true, "bogus": false}
	for in, ok := range cases {
		_, got := parseBoundaryAction(in)
		assert.Equal(t, ok, got, in)
	}
}
