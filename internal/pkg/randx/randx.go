/*
Package randx generates the random identifiers used by the chat relay:
Base62 socket ids, quasi-unique crew names and UUID message ids.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// SocketIDLength is the fixed length of a generated connection identifier.
	SocketIDLength = 20

	// MaxNameSuffix is the largest numeric suffix appended to a crew name.
	MaxNameSuffix = 1000
)

// NameWords is the word list crew names are drawn from.
var NameWords = []string{"Explorer", "Astronaut", "Cosmonaut", "Traveler", "Adventurer"}

func randomInt(limit int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(limit))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// SocketID generates a Base62 connection identifier of SocketIDLength characters.
func SocketID() (string, error) {
	result := make([]byte, SocketIDLength)

	for i := 0; i < SocketIDLength; i++ {
		n, err := randomInt(Base62Len)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for socket id: %w", err)
		}
		result[i] = Base62Chars[n]
	}

	return string(result), nil
}

// QuasiUniqueName returns "<Word>-<n>" with Word from NameWords and n in [0, MaxNameSuffix].
// Uniqueness is not guaranteed; callers combine it with a socket id.
func QuasiUniqueName() (string, error) {
	wordIdx, err := randomInt(int64(len(NameWords)))
	if err != nil {
		return "", fmt.Errorf("failed to pick name word: %w", err)
	}

	suffix, err := randomInt(MaxNameSuffix + 1)
	if err != nil {
		return "", fmt.Errorf("failed to pick name suffix: %w", err)
	}

	return fmt.Sprintf("%s-%d", NameWords[wordIdx], suffix), nil
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}
