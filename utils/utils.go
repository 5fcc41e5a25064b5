package utils

import (
	"fmt"
	rndm "math/rand"
	"time"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// NewID returns a timestamp-prefixed random id for stored records. The prefix
// keeps ids roughly sortable by creation time.
func NewID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), GenerateRandomString(10))
}

func GetUUID() string {
	return uuid.New().String()
}
