package match

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/yourusername/othello/pkg/engine"
)

// Binary save-game layout, all multi-byte fields big-endian:
//
//	offset 0   magic "OTHR"
//	offset 4   version byte (currently 1)
//	offset 5   black bitboard (8 bytes)
//	offset 13  white bitboard (8 bytes)
//	offset 21  player to move (1 byte: 0 black, 1 white)
//	offset 22  move count (2 bytes)
//	offset 24  moves: per move 10 bytes
//	           square (1 byte, 0xff = pass), player (1 byte),
//	           flip mask (8 bytes)
//
// The stored bitboards are the position after the last move; decoding
// replays the history and cross-checks against them, so a corrupted
// blob fails instead of producing a silently wrong game.

const (
	binaryMagic   = "OTHR"
	binaryVersion = 1
	headerSize    = 24
	moveSize      = 10
	passByte      = 0xff
)

// ErrBadRecord is returned for malformed or inconsistent binary blobs.
var ErrBadRecord = errors.New("bad game record")

// EncodeBinary serializes a game state into the fixed binary layout.
func EncodeBinary(g *engine.Game) []byte {
	history := g.History()
	board := g.Board()

	buf := make([]byte, headerSize+len(history)*moveSize)
	copy(buf[0:4], binaryMagic)
	buf[4] = binaryVersion
	binary.BigEndian.PutUint64(buf[5:13], board.Black)
	binary.BigEndian.PutUint64(buf[13:21], board.White)
	buf[21] = byte(g.Turn())
	binary.BigEndian.PutUint16(buf[22:24], uint16(len(history)))

	off := headerSize
	for _, h := range history {
		if h.IsPass() {
			buf[off] = passByte
		} else {
			buf[off] = byte(h.Square)
		}
		buf[off+1] = byte(h.Player)
		binary.BigEndian.PutUint64(buf[off+2:off+10], h.Flipped)
		off += moveSize
	}
	return buf
}

// DecodeBinary reconstructs an exact game state from a binary blob.
// The history is replayed from the standard start and the result must
// match the stored board and player bit-for-bit.
func DecodeBinary(data []byte) (*engine.Game, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", ErrBadRecord)
	}
	if string(data[0:4]) != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadRecord)
	}
	if data[4] != binaryVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadRecord, data[4])
	}

	black := binary.BigEndian.Uint64(data[5:13])
	white := binary.BigEndian.Uint64(data[13:21])
	if black&white != 0 {
		return nil, fmt.Errorf("%w: overlapping bitboards", ErrBadRecord)
	}
	playerTag := data[21]
	if playerTag > 1 {
		return nil, fmt.Errorf("%w: player tag %d", ErrBadRecord, playerTag)
	}
	count := int(binary.BigEndian.Uint16(data[22:24]))
	if len(data) != headerSize+count*moveSize {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrBadRecord, len(data), headerSize+count*moveSize)
	}

	history := make([]engine.HistoryEntry, 0, count)
	off := headerSize
	for i := 0; i < count; i++ {
		var h engine.HistoryEntry
		if data[off] == passByte {
			h.Square = engine.PassSquare
		} else {
			h.Square = engine.Square(data[off])
			if !h.Square.Valid() {
				return nil, fmt.Errorf("%w: move %d square %d", ErrBadRecord, i, data[off])
			}
		}
		if data[off+1] > 1 {
			return nil, fmt.Errorf("%w: move %d player tag %d", ErrBadRecord, i, data[off+1])
		}
		h.Player = engine.Player(data[off+1])
		h.Flipped = binary.BigEndian.Uint64(data[off+2 : off+10])
		history = append(history, h)
		off += moveSize
	}

	g, err := engine.Replay(history)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}

	board := g.Board()
	if board.Black != black || board.White != white {
		return nil, fmt.Errorf("%w: replay does not match stored board", ErrBadRecord)
	}
	if g.Turn() != engine.Player(playerTag) {
		return nil, fmt.Errorf("%w: replay does not match stored player", ErrBadRecord)
	}

	// Replay recomputes every flip mask; cross-check the stored ones.
	for i, h := range g.History() {
		if h.Flipped != history[i].Flipped {
			return nil, fmt.Errorf("%w: move %d flip mask mismatch", ErrBadRecord, i)
		}
	}

	return g, nil
}
