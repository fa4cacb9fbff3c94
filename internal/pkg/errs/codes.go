package errs

// 1xxx: General Request Handling Errors
const (
	// ErrNotFound indicates that the requested resource does not exist.
	ErrNotFound = 1004
)

// 2xxx: Crew and Naming Errors
const (
	// ErrNameTaken indicates that a rename targeted a name some connected user already holds.
	ErrNameTaken = 2301

	// ErrNameReserved indicates that a rename targeted a reserved name such as "System".
	ErrNameReserved = 2302
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrHubStopped indicates that the chat event loop is no longer accepting work.
	ErrHubStopped = 5003
)

// errorMap holds the template for every code. Messages containing a verb are
// formatted with the details passed to NewError.
var errorMap = map[int]CustomError{
	ErrNotFound: {Code: ErrNotFound, Message: "Not found.", Status: 404},

	ErrNameTaken:    {Code: ErrNameTaken, Message: "A user with the name %s already exists."},
	ErrNameReserved: {Code: ErrNameReserved, Message: "The name %s is invalid."},

	ErrUnknown:    {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: 500},
	ErrHubStopped: {Code: ErrHubStopped, Message: "Chat service is shutting down.", Status: 503},
}
