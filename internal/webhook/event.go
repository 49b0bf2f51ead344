package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/favrelay/favrelay/internal/types"
)

// Decode parses an inbound webhook body and resolves its event kind once,
// so downstream handlers dispatch on the kind instead of re-testing field
// presence.
func Decode(rawBody []byte) (*types.Event, error) {
	var ev types.Event
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	ev.Kind = ev.ResolveKind()
	return &ev, nil
}
