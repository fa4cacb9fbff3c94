package chat

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"crewchat/internal/app/user"
	"crewchat/internal/pkg/errs"
	"crewchat/internal/pkg/logx"
)

// eventQueueSize bounds the number of transport events waiting for the loop.
const eventQueueSize = 1024

// Peer is a connection driven by the Hub.
type Peer interface {
	user.Conn

	// CloseSend closes the outbound queue. It must be idempotent.
	CloseSend()
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventInbound
	eventDisconnect
	eventCrewQuery
)

// hubEvent is one unit of work for the loop. Every transport event goes
// through the same queue, so events from one connection keep their order.
type hubEvent struct {
	kind  eventKind
	peer  Peer
	name  string
	data  string
	reply chan []user.View
}

// Hub runs the Router on a single goroutine. Handlers never run concurrently,
// so the registry needs no locking.
type Hub struct {
	router *Router

	// peers maps each connected peer to its user. Owned by the Run goroutine.
	peers map[Peer]*user.User

	// events is the single ordered queue of transport events.
	events chan hubEvent

	// stopChan signals Run to return.
	stopChan chan struct{}
	stopOnce sync.Once

	// mu orders enqueues against shutdown. stopped is set under the write
	// lock before the queue is drained, so no event can land after the drain.
	mu      sync.RWMutex
	stopped bool

	// done is closed once Run has returned and every peer was closed.
	done chan struct{}

	logger zerolog.Logger
}

// NewHub creates a Hub around router. Call Run to start processing.
func NewHub(router *Router) *Hub {
	return &Hub{
		router:   router,
		peers:    make(map[Peer]*user.User),
		events:   make(chan hubEvent, eventQueueSize),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logx.Component("Hub"),
	}
}

// Register queues the connect event for p. It returns false once the hub has stopped.
func (h *Hub) Register(p Peer) bool {
	return h.enqueue(hubEvent{kind: eventConnect, peer: p})
}

// Dispatch queues an inbound named message from p.
func (h *Hub) Dispatch(p Peer, event, data string) bool {
	return h.enqueue(hubEvent{kind: eventInbound, peer: p, name: event, data: data})
}

// Unregister queues the disconnect event for p.
func (h *Hub) Unregister(p Peer, reason string) bool {
	return h.enqueue(hubEvent{kind: eventDisconnect, peer: p, data: reason})
}

func (h *Hub) enqueue(ev hubEvent) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.stopped {
		return false
	}

	select {
	case h.events <- ev:
		return true
	case <-h.stopChan:
		return false
	}
}

// Crew returns the roster as seen by the loop.
func (h *Hub) Crew(ctx context.Context) ([]user.View, error) {
	reply := make(chan []user.View, 1)

	select {
	case h.events <- hubEvent{kind: eventCrewQuery, reply: reply}:
	case <-h.done:
		return nil, errs.NewError(errs.ErrHubStopped)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case views := <-reply:
		return views, nil
	case <-h.done:
		return nil, errs.NewError(errs.ErrHubStopped)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed after the hub has fully stopped.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Stop ends the event loop. Connected peers have their outbound queues closed.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.logger.Info().Msg("Received stop signal. Stopping hub.")
		close(h.stopChan)
	})
}

// Run processes events until Stop is called.
func (h *Hub) Run() {
	defer h.shutdown()

	h.logger.Info().Msg("Hub loop started.")

	for {
		select {
		case ev := <-h.events:
			h.handle(ev)

		case <-h.stopChan:
			return
		}
	}
}

func (h *Hub) handle(ev hubEvent) {
	switch ev.kind {
	case eventConnect:
		if _, ok := h.peers[ev.peer]; ok {
			h.logger.Warn().Str("socket_id", ev.peer.ID()).Msg("Peer already registered.")
			return
		}
		h.peers[ev.peer] = h.router.OnConnect(ev.peer)

	case eventInbound:
		u, ok := h.peers[ev.peer]
		if !ok {
			h.logger.Warn().Str("socket_id", ev.peer.ID()).Str("event", ev.name).Msg("Inbound message from unknown peer.")
			return
		}

		switch ev.name {
		case EventChat:
			h.router.OnChat(u, ev.data)
		case EventRename:
			h.router.OnRename(u, ev.data)
		default:
			h.logger.Warn().Str("socket_id", ev.peer.ID()).Str("event", ev.name).Msg("Unsupported inbound event.")
		}

	case eventDisconnect:
		u, ok := h.peers[ev.peer]
		if !ok {
			h.logger.Debug().Str("socket_id", ev.peer.ID()).Msg("Disconnect for unknown or already removed peer.")
			ev.peer.CloseSend()
			return
		}

		h.router.OnDisconnect(u, ev.data)
		delete(h.peers, ev.peer)
		ev.peer.CloseSend()

	case eventCrewQuery:
		ev.reply <- h.router.Crew()
	}
}

// shutdown closes every peer, including those whose connect or disconnect
// event was still queued.
func (h *Hub) shutdown() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()

	for p := range h.peers {
		p.CloseSend()
	}
	closed := len(h.peers)
	h.peers = nil

drain:
	for {
		select {
		case ev := <-h.events:
			if ev.kind == eventConnect || ev.kind == eventDisconnect {
				ev.peer.CloseSend()
			}
		default:
			break drain
		}
	}

	close(h.done)

	h.logger.Info().Int("closed_peers", closed).Msg("Hub stopped.")
}
