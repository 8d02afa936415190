package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

type fakeModule struct {
	name string
	regs []shared.Registration
}

func (m *fakeModule) Name() string                          { return m.name }
func (m *fakeModule) Registrations() []shared.Registration { return m.regs }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(t *testing.T, modules ...shared.Module) (*Dispatcher, eventbus.EventBus) {
	t.Helper()
	bus := eventbus.New(discardLogger())
	t.Cleanup(func() { _ = bus.Close() })
	d, err := NewDispatcher(bus, &CommandGate{}, discardLogger(), modules...)
	require.NoError(t, err)
	return d, bus
}

func envelope(t *testing.T, cmdType string, payload any) *message.Message {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = data
	}
	data, err := json.Marshal(events.Command{Type: cmdType, Payload: raw})
	require.NoError(t, err)
	return message.NewMessage("cmd-"+cmdType, data)
}

func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message arrived")
		return nil
	}
}

func TestNewDispatcherRejectsDuplicateCommands(t *testing.T) {
	bus := eventbus.New(discardLogger())
	defer bus.Close()

	handle := func(*message.Message) error { return nil }
	_, err := NewDispatcher(bus, &CommandGate{}, discardLogger(),
		&fakeModule{name: "one", regs: []shared.Registration{{Type: "cmd.dup", Mutating: true, Handle: handle}}},
		&fakeModule{name: "two", regs: []shared.Registration{{Type: "cmd.dup", Handle: handle}}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cmd.dup")
}

func TestDispatchRunsMutatingCommandsInlineInArrivalOrder(t *testing.T) {
	var seen []string
	mod := &fakeModule{name: "test", regs: []shared.Registration{
		{Type: "cmd.test.first", Mutating: true, Handle: func(msg *message.Message) error {
			seen = append(seen, "first:"+string(msg.Payload))
			return nil
		}},
		{Type: "cmd.test.second", Mutating: true, Handle: func(msg *message.Message) error {
			seen = append(seen, "second")
			return nil
		}},
	}}
	d, _ := newTestDispatcher(t, mod)

	require.NoError(t, d.dispatch(envelope(t, "cmd.test.first", map[string]string{"k": "v"})))
	require.NoError(t, d.dispatch(envelope(t, "cmd.test.second", nil)))

	// Both handlers ran before dispatch returned, in arrival order.
	require.Equal(t, []string{`first:{"k":"v"}`, "second"}, seen)
}

func TestDispatchRepublishesQueriesToPerCommandTopics(t *testing.T) {
	mod := &fakeModule{name: "test", regs: []shared.Registration{
		{Type: "cmd.test.query", Handle: func(*message.Message) error { return nil }},
	}}
	d, bus := newTestDispatcher(t, mod)

	sub, err := bus.Subscribe(context.Background(), "cmd.test.query")
	require.NoError(t, err)

	in := envelope(t, "cmd.test.query", map[string]int{"n": 7})
	middleware.SetCorrelationID("corr-123", in)
	require.NoError(t, d.dispatch(in))

	out := receive(t, sub)
	assert.Equal(t, in.UUID, out.UUID, "the inner message keeps the envelope's identity")
	assert.Equal(t, "corr-123", middleware.MessageCorrelationID(out))
	assert.JSONEq(t, `{"n":7}`, string(out.Payload))
}

func TestDispatchAnswersUnknownCommandWithError(t *testing.T) {
	d, bus := newTestDispatcher(t)

	sub, err := bus.Subscribe(context.Background(), events.EventOutbox)
	require.NoError(t, err)

	in := envelope(t, "cmd.nope", nil)
	middleware.SetCorrelationID("corr-456", in)
	require.NoError(t, d.dispatch(in))

	out := receive(t, sub)
	assert.Equal(t, events.EventError, eventutil.EventType(out))
	assert.Equal(t, "corr-456", middleware.MessageCorrelationID(out))

	var payload events.ErrorPayload
	require.NoError(t, json.Unmarshal(out.Payload, &payload))
	assert.Equal(t, shared.CodeUnknownCommand, payload.Code)
	assert.Contains(t, payload.Message, "cmd.nope")
}

func TestDispatchAnswersMalformedEnvelopeWithError(t *testing.T) {
	d, bus := newTestDispatcher(t)

	sub, err := bus.Subscribe(context.Background(), events.EventOutbox)
	require.NoError(t, err)

	require.NoError(t, d.dispatch(message.NewMessage("bad", []byte("{not json"))))

	out := receive(t, sub)
	var payload events.ErrorPayload
	require.NoError(t, json.Unmarshal(out.Payload, &payload))
	assert.Equal(t, shared.CodeBadPayload, payload.Code)
}

func TestCommandGateSerializesMutations(t *testing.T) {
	gate := &CommandGate{}
	active := false
	overlapped := false
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = gate.RunMutating(func() error {
				if active {
					overlapped = true
				}
				active = true
				time.Sleep(time.Millisecond)
				active = false
				return nil
			})
		}()
	}
	wg.Wait()
	assert.False(t, overlapped, "two mutating commands must never run at once")
}

func TestCommandGateQueriesInterleave(t *testing.T) {
	gate := &CommandGate{}
	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = gate.RunQuery(func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	// A second query proceeds while the first still holds the gate.
	done := make(chan struct{})
	go func() {
		_ = gate.RunQuery(func() error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("query blocked behind another query")
	}
	close(release)
}
