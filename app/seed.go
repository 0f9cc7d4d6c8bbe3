package app

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// randomSeed derives a seed for the heuristic engine, falling back to the
// clock if the system entropy source is unavailable.
func randomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
