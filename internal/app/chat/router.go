package chat

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"crewchat/internal/app/user"
	"crewchat/internal/pkg/errs"
	"crewchat/internal/pkg/logx"
)

// RenameCommand is the chat command that renames the sender.
const RenameCommand = "/rename"

var angleStripper = strings.NewReplacer("<", "", ">", "")

// StripFirstAngles removes the first '<' and the first '>' of text, leaving
// any later ones in place.
func StripFirstAngles(text string) string {
	text = strings.Replace(text, "<", "", 1)
	return strings.Replace(text, ">", "", 1)
}

// StripAllAngles removes every '<' and '>' of text.
func StripAllAngles(text string) string {
	return angleStripper.Replace(text)
}

// Router implements the relay protocol on top of a Registry. Its handlers are
// synchronous and must be called from one goroutine at a time.
type Router struct {
	registry *Registry
	sanitize func(string) string
	logger   zerolog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithStrictSanitize makes chat sanitization remove every angle bracket
// instead of only the first of each kind.
func WithStrictSanitize(strict bool) RouterOption {
	return func(rt *Router) {
		if strict {
			rt.sanitize = StripAllAngles
		} else {
			rt.sanitize = StripFirstAngles
		}
	}
}

// NewRouter returns a Router that owns registry for the router's lifetime.
func NewRouter(registry *Registry, opts ...RouterOption) *Router {
	rt := &Router{
		registry: registry,
		sanitize: StripFirstAngles,
		logger:   logx.Component("Router"),
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt
}

// OnConnect registers a user for conn and announces it.
func (rt *Router) OnConnect(conn user.Conn) *user.User {
	u := rt.registry.Create(conn)

	rt.logger.Info().
		Str("user_id", u.ID).
		Str("socket_id", u.SocketID).
		Int("total_users", rt.registry.Len()).
		Msg("New user connected.")

	rt.emit(u, EventRegister, u.View())
	rt.systemNotice(u, "You have joined as "+u.Name)
	rt.broadcast(EventChat, ChatPayload{Text: u.Name + " has joined.", Sender: SystemName}, u)
	rt.sendCrew()

	return u
}

// OnChat broadcasts a sanitized chat line from u to everyone, u included, and
// then runs it as a command when it starts with '/'.
func (rt *Router) OnChat(u *user.User, raw string) {
	text := rt.sanitize(raw)

	rt.logger.Debug().Str("user_id", u.ID).Str("text", text).Msg("Chat received.")

	rt.broadcast(EventChat, ChatPayload{Text: text, Sender: u.Name}, nil)

	if strings.HasPrefix(text, "/") {
		rt.runCommand(u, text)
	}
}

// runCommand executes a slash command. Unknown commands and missing
// arguments are ignored.
func (rt *Router) runCommand(u *user.User, text string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case RenameCommand:
		if len(words) >= 2 {
			rt.Rename(u, words[1])
		}
	default:
		rt.logger.Debug().Str("user_id", u.ID).Str("command", words[0]).Msg("Ignoring unknown command.")
	}
}

// OnRename handles the direct rename event. The payload is tokenised like
// the argument of /rename: only the first word is used, and a blank payload
// is ignored.
func (rt *Router) OnRename(u *user.User, payload string) {
	words := strings.Fields(payload)
	if len(words) == 0 {
		rt.logger.Debug().Str("user_id", u.ID).Msg("Ignoring rename without a name.")
		return
	}
	rt.Rename(u, words[0])
}

// OnDisconnect announces u's departure to the others, removes u and sends
// the remaining crew. The reason is only logged.
func (rt *Router) OnDisconnect(u *user.User, reason string) {
	rt.broadcast(EventChat, ChatPayload{Text: u.Name + " has left.", Sender: SystemName}, u)

	rt.registry.Remove(u.ID)

	rt.logger.Info().
		Str("user_id", u.ID).
		Str("reason", reason).
		Int("total_users", rt.registry.Len()).
		Msg("User removed.")

	rt.sendCrew()
}

// Rename tries to rename u. On success every connection receives the new
// crew; on failure only u receives a notice explaining why.
func (rt *Router) Rename(u *user.User, newName string) bool {
	oldName := u.Name

	if err := rt.registry.Rename(u, newName); err != nil {
		var customErr *errs.CustomError
		if errors.As(err, &customErr) {
			rt.systemNotice(u, customErr.Message)
		}

		rt.logger.Info().
			Str("user_id", u.ID).
			Str("requested_name", newName).
			Err(err).
			Msg("Rename rejected.")
		return false
	}

	rt.logger.Info().
		Str("user_id", u.ID).
		Str("old_name", oldName).
		Str("new_name", newName).
		Msg("User renamed.")

	rt.sendCrew()
	return true
}

// Crew returns the current roster snapshot.
func (rt *Router) Crew() []user.View {
	return rt.registry.List()
}

func (rt *Router) sendCrew() {
	rt.broadcast(EventCrew, rt.registry.List(), nil)
}

func (rt *Router) systemNotice(u *user.User, text string) {
	rt.emit(u, EventChat, ChatPayload{Text: text, Sender: SystemName})
}

// broadcast sends a named message to every registered user except skip.
func (rt *Router) broadcast(event string, data any, skip *user.User) {
	for _, id := range rt.registry.order {
		u := rt.registry.users[id]
		if skip != nil && u.ID == skip.ID {
			continue
		}
		rt.emit(u, event, data)
	}
}

func (rt *Router) emit(u *user.User, event string, data any) {
	if u.Conn == nil {
		return
	}

	if err := u.Conn.Emit(event, data); err != nil {
		rt.logger.Warn().
			Err(err).
			Str("user_id", u.ID).
			Str("event", event).
			Msg("Failed to emit message.")
	}
}
