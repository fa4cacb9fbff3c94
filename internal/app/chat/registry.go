/*
Package chat contains the crew relay: the user registry, the message router
that implements the connect/chat/rename/disconnect protocol, the single event
loop that drives it, and the WebSocket client that carries it.

This file defines the Registry, the authoritative in-memory roster.
*/
package chat

import (
	"slices"

	"github.com/rs/zerolog"

	"crewchat/internal/app/user"
	"crewchat/internal/pkg/errs"
	"crewchat/internal/pkg/logx"
	"crewchat/internal/pkg/randx"
)

// SystemName attributes server-generated messages. No user may take it.
const SystemName = "System"

// fallbackBaseName is used when the random source fails.
const fallbackBaseName = "Explorer-0"

// reservedNames lists display names no user may adopt.
var reservedNames = []string{SystemName}

// Registry maps user ids to user records. It is not safe for concurrent use;
// the Hub serializes every access.
type Registry struct {
	// users holds every connected user keyed by user ID.
	users map[string]*user.User

	// order keeps user IDs in insertion order so roster snapshots are stable.
	order []string

	// nameFn produces the quasi-random base name for new users.
	nameFn func() (string, error)

	logger zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithNameGenerator replaces the base-name generator.
func WithNameGenerator(fn func() (string, error)) RegistryOption {
	return func(r *Registry) {
		r.nameFn = fn
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		users:  make(map[string]*user.User),
		nameFn: randx.QuasiUniqueName,
		logger: logx.Component("Registry"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create registers a new user for conn. The id combines a random base name
// with the connection id, so it is unique as long as connection ids are.
// Display names are not checked for collisions here.
func (r *Registry) Create(conn user.Conn) *user.User {
	base, err := r.nameFn()
	if err != nil {
		r.logger.Warn().Err(err).Msg("Name generation failed, using fallback name.")
		base = fallbackBaseName
	}

	socketID := conn.ID()

	name := base
	if socketID != "" {
		name = base + "-" + socketID[:1]
	}

	u := &user.User{
		ID:       base + "-" + socketID,
		Name:     name,
		SocketID: socketID,
		Conn:     conn,
	}

	if _, exists := r.users[u.ID]; !exists {
		r.order = append(r.order, u.ID)
	}
	r.users[u.ID] = u

	return u
}

// Remove deletes the user with the given id. Unknown ids are ignored.
func (r *Registry) Remove(userID string) {
	if _, ok := r.users[userID]; !ok {
		return
	}

	delete(r.users, userID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == userID })
}

// FindByName returns the first user, in insertion order, whose name is exactly name.
func (r *Registry) FindByName(name string) *user.User {
	for _, id := range r.order {
		if u := r.users[id]; u.Name == name {
			return u
		}
	}
	return nil
}

// List returns the public views of all users in insertion order.
func (r *Registry) List() []user.View {
	views := make([]user.View, 0, len(r.order))
	for _, id := range r.order {
		views = append(views, r.users[id].View())
	}
	return views
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	return len(r.users)
}

// Rename sets u.Name to newName. It fails with errs.ErrNameTaken when any
// registered user, u included, already carries newName, and with
// errs.ErrNameReserved for reserved names. Nothing changes on failure.
func (r *Registry) Rename(u *user.User, newName string) error {
	if r.FindByName(newName) != nil {
		return errs.NewError(errs.ErrNameTaken, newName)
	}

	if IsReservedName(newName) {
		return errs.NewError(errs.ErrNameReserved, newName)
	}

	u.Name = newName
	return nil
}

// IsReservedName reports whether name is reserved for the server.
func IsReservedName(name string) bool {
	return slices.Contains(reservedNames, name)
}
