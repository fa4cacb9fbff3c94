/*
Package user defines the crew member record kept by the registry and the
public view of it that is safe to send to clients.
*/
package user

// Conn is the transport handle a user is addressed through.
// The registry never owns the connection; it only emits named messages on it.
type Conn interface {
	// ID returns the connection's unique identifier.
	ID() string

	// Emit queues a named message for delivery. It must not block.
	Emit(event string, data any) error
}

// User is a connected crew member.
type User struct {
	// ID is "<base name>-<socket id>" and never changes.
	ID string

	// Name is the display name; it changes on rename.
	Name string

	// SocketID is the identifier of the connection the user arrived on.
	SocketID string

	// Conn addresses outbound messages. It is never serialized.
	Conn Conn
}

// View is the public projection of a User.
type View struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	SocketID string `json:"socketId"`
}

// View returns the public projection of u.
func (u *User) View() View {
	return View{
		UserID:   u.ID,
		Name:     u.Name,
		SocketID: u.SocketID,
	}
}
