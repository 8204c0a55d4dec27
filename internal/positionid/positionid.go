// Package positionid implements compact position IDs for Othello
// boards. An ID is the base64 encoding of a fixed 17-byte payload: the
// black bitboard, the white bitboard (both big-endian) and a player
// tag. IDs uniquely identify a position plus side to move and are the
// position format of the CLI and HTTP API.
package positionid

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// IDLength is the length of an encoded position ID string.
const IDLength = 23

// Player tags in the payload.
const (
	BlackToMove = 0
	WhiteToMove = 1
)

// Base64 alphabet used for position ID encoding.
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var encoding = base64.NewEncoding(base64Chars).WithPadding(base64.NoPadding)

// ErrInvalidID is returned for malformed or inconsistent position IDs.
var ErrInvalidID = errors.New("invalid position ID")

// ToID encodes a position as a 23-character ID.
func ToID(black, white uint64, player int) string {
	var payload [17]byte
	binary.BigEndian.PutUint64(payload[0:8], black)
	binary.BigEndian.PutUint64(payload[8:16], white)
	payload[16] = byte(player)
	return encoding.EncodeToString(payload[:])
}

// FromID decodes a position ID, validating that the bitboards are
// disjoint and the player tag is in range.
func FromID(id string) (black, white uint64, player int, err error) {
	if len(id) != IDLength {
		return 0, 0, 0, fmt.Errorf("%w: length %d, want %d", ErrInvalidID, len(id), IDLength)
	}
	payload, err := encoding.DecodeString(id)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(payload) != 17 {
		return 0, 0, 0, fmt.Errorf("%w: payload length %d", ErrInvalidID, len(payload))
	}

	black = binary.BigEndian.Uint64(payload[0:8])
	white = binary.BigEndian.Uint64(payload[8:16])
	player = int(payload[16])

	if black&white != 0 {
		return 0, 0, 0, fmt.Errorf("%w: overlapping bitboards", ErrInvalidID)
	}
	if player != BlackToMove && player != WhiteToMove {
		return 0, 0, 0, fmt.Errorf("%w: player tag %d", ErrInvalidID, player)
	}
	return black, white, player, nil
}
