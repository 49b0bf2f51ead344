package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/favrelay/favrelay/internal/identity"
	"github.com/favrelay/favrelay/internal/notifier"
	"github.com/favrelay/favrelay/internal/types"
)

type fakeSlackClient struct {
	channels []string
	err      error
}

func (f *fakeSlackClient) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.channels = append(f.channels, channelID)
	return channelID, "123.456", nil
}

func newTestRouter(client notifier.SlackClient, mapping map[string]string) *Router {
	n := notifier.New(client, identity.NewResolver(mapping), nil)
	return NewRouter(n, nil)
}

func decodeEvent(t *testing.T, body string) *types.Event {
	t.Helper()
	ev, err := Decode([]byte(body))
	require.NoError(t, err)
	return ev
}

func TestProcessPing(t *testing.T) {
	r := newTestRouter(nil, nil)
	ev := decodeEvent(t, `{"action":"ping","payloadId":"x"}`)
	assert.Equal(t, "Ping received successfully!", r.Process(context.Background(), ev))
}

func TestProcessUnknownAction(t *testing.T) {
	r := newTestRouter(nil, nil)
	ev := decodeEvent(t, `{"action":"frobnicate"}`)
	assert.Equal(t, "Received webhook with action: frobnicate", r.Process(context.Background(), ev))
}

func TestProcessCardEvents(t *testing.T) {
	r := newTestRouter(nil, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "created",
			body: `{"action":"created","sender":{"name":"Bob"},"card":{"name":"X"}}`,
			want: "Card created by Bob",
		},
		{
			name: "updated",
			body: `{"action":"updated","sender":{"name":"Bob"},"card":{"name":"X"}}`,
			want: "Card updated by Bob",
		},
		{
			name: "removed",
			body: `{"action":"removed","sender":{"name":"Bob"},"card":{"name":"X"}}`,
			want: "Card removed by Bob",
		},
		{
			name: "moved",
			body: `{"action":"moved","sender":{"name":"Bob"},"card":{"name":"X"},"column":{"name":"Done"},"sourceColumn":{"name":"Doing"}}`,
			want: "Card moved from Doing to Done",
		},
		{
			name: "committed",
			body: `{"action":"committed","sender":{"name":"Bob"},"card":{"name":"X"},"widget":{"name":"Sprint 2"},"sourceWidget":{"name":"Backlog"}}`,
			want: "Card committed from Backlog to Sprint 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Process(context.Background(), decodeEvent(t, tt.body)))
		})
	}
}

func TestProcessCommentCreatedWithMention(t *testing.T) {
	client := &fakeSlackClient{}
	r := newTestRouter(client, map[string]string{"A": "U1"})

	ev := decodeEvent(t, `{"action":"created","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"hi [@A]"}}`)
	got := r.Process(context.Background(), ev)

	assert.Equal(t, `Bob mentioned A in a comment on "X" (1 Slack notification(s) sent)`, got)
	assert.Equal(t, []string{"U1"}, client.channels)
}

func TestProcessCommentCreatedWithoutMentions(t *testing.T) {
	r := newTestRouter(&fakeSlackClient{}, nil)

	ev := decodeEvent(t, `{"action":"created","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"plain text"}}`)
	assert.Equal(t, `Comment added to "X" by Bob`, r.Process(context.Background(), ev))
}

func TestProcessCommentCreatedUnresolvedMention(t *testing.T) {
	client := &fakeSlackClient{}
	r := newTestRouter(client, nil)

	ev := decodeEvent(t, `{"action":"created","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"hi [@A]"}}`)
	got := r.Process(context.Background(), ev)

	// count suffix is omitted when nothing was delivered
	assert.Equal(t, `Bob mentioned A in a comment on "X"`, got)
	assert.Empty(t, client.channels)
}

func TestProcessCommentCreatedDeliveryFailure(t *testing.T) {
	client := &fakeSlackClient{err: errors.New("channel_not_found")}
	r := newTestRouter(client, map[string]string{"A": "U1"})

	ev := decodeEvent(t, `{"action":"created","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"hi [@A]"}}`)
	got := r.Process(context.Background(), ev)

	assert.Equal(t, `Bob mentioned A in a comment on "X"`, got)
}

func TestProcessCommentUpdated(t *testing.T) {
	t.Run("with mentions", func(t *testing.T) {
		client := &fakeSlackClient{}
		r := newTestRouter(client, map[string]string{"A": "U1", "B": "U2"})

		ev := decodeEvent(t, `{"action":"updated","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"[@A] [@B] done"}}`)
		got := r.Process(context.Background(), ev)

		assert.Equal(t, `Bob updated a comment mentioning A, B on "X" (2 Slack notification(s) sent)`, got)
		assert.Equal(t, []string{"U1", "U2"}, client.channels)
	})

	t.Run("without mentions", func(t *testing.T) {
		r := newTestRouter(&fakeSlackClient{}, nil)
		ev := decodeEvent(t, `{"action":"updated","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"done"}}`)
		assert.Equal(t, `Comment updated on "X" by Bob`, r.Process(context.Background(), ev))
	})
}

func TestProcessCommentRemoved(t *testing.T) {
	r := newTestRouter(nil, nil)
	ev := decodeEvent(t, `{"action":"removed","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"so long"}}`)
	assert.Equal(t, "Comment removed by Bob", r.Process(context.Background(), ev))
}

func TestProcessMissingSenderRendersBlank(t *testing.T) {
	r := newTestRouter(nil, nil)
	ev := decodeEvent(t, `{"action":"created","card":{"name":"X"}}`)
	assert.Equal(t, "Card created by ", r.Process(context.Background(), ev))
}

func TestDecodeResolvesKind(t *testing.T) {
	tests := []struct {
		body string
		want types.EventKind
	}{
		{`{"action":"ping"}`, types.KindPing},
		{`{"action":"created","card":{"name":"X"}}`, types.KindCardCreated},
		{`{"action":"created","comment":{"comment":"hi"}}`, types.KindCommentCreated},
		{`{"action":"updated","comment":{"comment":"hi"}}`, types.KindCommentUpdated},
		{`{"action":"removed","comment":{"comment":"hi"}}`, types.KindCommentRemoved},
		{`{"action":"removed"}`, types.KindCardRemoved},
		{`{"action":"moved"}`, types.KindCardMoved},
		{`{"action":"committed"}`, types.KindCardCommitted},
		{`{"action":"frobnicate"}`, types.KindUnknown},
	}
	for _, tt := range tests {
		ev, err := Decode([]byte(tt.body))
		require.NoError(t, err)
		assert.Equal(t, tt.want, ev.Kind, "body: %s", tt.body)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("not json"))
	require.Error(t, err)
}

func TestMetricsSnapshot(t *testing.T) {
	client := &fakeSlackClient{}
	r := newTestRouter(client, map[string]string{"A": "U1"})

	r.Process(context.Background(), decodeEvent(t, `{"action":"ping"}`))
	r.Process(context.Background(), decodeEvent(t, `{"action":"created","sender":{"name":"Bob"},"card":{"name":"X"},"comment":{"comment":"[@A]"}}`))

	events, notifications := r.MetricsSnapshot()
	assert.Equal(t, int64(2), events)
	assert.Equal(t, int64(1), notifications)
}
