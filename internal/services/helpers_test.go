package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/store"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.EntityChangedMessage
	err  error
}

func (p *recordingPublisher) PublishEntityChanged(_ context.Context, msg *amqp.EntityChangedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Op
	}
	return out
}

// newTestEnv returns an Env with a fixed clock and sequential ids.
func newTestEnv(t *testing.T) (*Env, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	env := NewEnv(store.New(), pub, log.Discard())
	env.Now = func() time.Time { return testNow }
	n := 0
	env.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return env, pub
}

func put[T core.Entity](t *testing.T, env *Env, v T) {
	t.Helper()
	require.NoError(t, store.PutAs(context.Background(), env.Store, v))
}
