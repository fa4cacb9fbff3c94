package chat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crewchat/internal/app/user"
)

type sentMessage struct {
	Event string
	Data  any
}

// fakePeer records everything emitted to it.
type fakePeer struct {
	id string

	mu     sync.Mutex
	sent   []sentMessage
	closed bool
}

func newFakePeer(id string) *fakePeer {
	return &fakePeer{id: id}
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Emit(event string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errClientClosed
	}
	p.sent = append(p.sent, sentMessage{Event: event, Data: data})
	return nil
}

func (p *fakePeer) CloseSend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *fakePeer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// take returns and clears the recorded messages.
func (p *fakePeer) take() []sentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.sent
	p.sent = nil
	return out
}

func (p *fakePeer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

// sequenceNames returns a generator yielding Explorer-1, Explorer-2, ...
func sequenceNames() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("Explorer-%d", n), nil
	}
}

func newTestRouter(opts ...RouterOption) *Router {
	return NewRouter(NewRegistry(WithNameGenerator(sequenceNames())), opts...)
}

func chatMsg(text, sender string) sentMessage {
	return sentMessage{Event: EventChat, Data: ChatPayload{Text: text, Sender: sender}}
}

func crewMsg(views ...user.View) sentMessage {
	if views == nil {
		views = []user.View{}
	}
	return sentMessage{Event: EventCrew, Data: views}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.FailNow(t, "condition not met before deadline")
}
