package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// RoomCodeAlphabet leaves out 0, O, 1 and I.
const RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const DefaultRoomCodeLength = 5

// CodeGenerator returns a candidate room code. Uniqueness is checked by the caller.
type CodeGenerator func() (string, error)

// NewCodeGenerator draws codes of the given length uniformly from RoomCodeAlphabet.
func NewCodeGenerator(length int) CodeGenerator {
	if length <= 0 {
		length = DefaultRoomCodeLength
	}

	limit := big.NewInt(int64(len(RoomCodeAlphabet)))

	return func() (string, error) {
		var sb strings.Builder
		sb.Grow(length)

		for range length {
			n, err := rand.Int(rand.Reader, limit)
			if err != nil {
				return "", fmt.Errorf("failed to read random index: %w", err)
			}

			sb.WriteByte(RoomCodeAlphabet[n.Int64()])
		}

		return sb.String(), nil
	}
}

// NormalizeRoomCode upper-cases a user supplied code and reports whether it
// can name a room at all.
func NormalizeRoomCode(code string, length int) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if len(code) != length {
		return code, false
	}

	for _, r := range code {
		if !strings.ContainsRune(RoomCodeAlphabet, r) {
			return code, false
		}
	}

	return code, true
}
