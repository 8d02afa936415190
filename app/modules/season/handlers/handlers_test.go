package seasonhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	leagueevents "github.com/gridiron-gm/engine/app/modules/league/events"
	seasonapplication "github.com/gridiron-gm/engine/app/modules/season/application"
	seasonevents "github.com/gridiron-gm/engine/app/modules/season/events"
	"github.com/gridiron-gm/engine/app/gen"
	"github.com/gridiron-gm/engine/app/sim"
	"github.com/gridiron-gm/engine/internal/enginetest"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

func newTestHandlers(t *testing.T) (*Handlers, <-chan *message.Message) {
	t.Helper()
	state := enginetest.NewState(enginetest.NewFakeStore())
	enginetest.SeedSmallLeague(state, 3)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.New(logger)
	t.Cleanup(func() { _ = bus.Close() })
	svc := seasonapplication.NewService(state, bus, sim.New(3), gen.New(3), rand.New(rand.NewSource(3)), logger)

	sub, err := bus.Subscribe(context.Background(), events.EventOutbox)
	require.NoError(t, err)
	return NewHandlers(svc, bus, logger), sub
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

func TestAdvanceWeekReplyTrailsLeagueUpdate(t *testing.T) {
	h, sub := newTestHandlers(t)

	in := message.NewMessage("advance", nil)
	middleware.SetCorrelationID("corr-week", in)
	require.NoError(t, h.HandleAdvanceWeek(in))

	first := receive(t, sub)
	assert.Equal(t, seasonevents.EventWeekComplete, eventutil.EventType(first))
	assert.Equal(t, "corr-week", middleware.MessageCorrelationID(first))

	second := receive(t, sub)
	require.Equal(t, leagueevents.EventLeagueUpdate, eventutil.EventType(second),
		"standings refresh follows the week result")
	assert.Equal(t, "corr-week", middleware.MessageCorrelationID(second))

	var update leagueevents.LeagueUpdate
	require.NoError(t, json.Unmarshal(second.Payload, &update))
	assert.Len(t, update.Teams, 4)
	assert.Equal(t, 2, update.Meta.Week)
}

func TestAdvanceOffseasonReplyTrailsLeagueUpdate(t *testing.T) {
	h, sub := newTestHandlers(t)

	// Play the two-game season out so the offseason is reachable.
	require.NoError(t, h.HandleAdvanceWeek(message.NewMessage("w1", nil)))
	require.NoError(t, h.HandleAdvanceWeek(message.NewMessage("w2", nil)))
	require.NoError(t, h.HandleAdvanceWeek(message.NewMessage("w3", nil)))
	for i := 0; i < 6; i++ {
		receive(t, sub)
	}

	in := message.NewMessage("offseason", nil)
	require.NoError(t, h.HandleAdvanceOffseason(in))

	first := receive(t, sub)
	assert.Equal(t, seasonevents.EventOffseasonPhase, eventutil.EventType(first))
	second := receive(t, sub)
	assert.Equal(t, leagueevents.EventLeagueUpdate, eventutil.EventType(second))
}
