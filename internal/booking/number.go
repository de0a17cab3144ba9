package booking

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// NewReservationNumber generates a human-readable reservation number of
// the form RNT-<year>-<4 digits>. The digits come from crypto/rand; the
// store enforces uniqueness and the service regenerates on collision.
func NewReservationNumber(now time.Time) string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the clock so booking still proceeds.
		return fmt.Sprintf("RNT-%d-%04d", now.Year(), now.UnixNano()%10000)
	}
	n := binary.BigEndian.Uint32(buf[:]) % 10000
	return fmt.Sprintf("RNT-%d-%04d", now.Year(), n)
}
