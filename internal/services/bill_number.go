package services

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// MintBillNumber produces the default bill identifier:
// BILL-<unix-epoch-millis>-<9-char random base36 token>. Unique in
// practice without a database round trip; the unique constraint on
// bill_number catches the negligible-but-nonzero collision case.
func MintBillNumber() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails on a broken platform; degrade to the
		// clock so bill creation keeps working.
		now := time.Now().UnixNano()
		for i := range buf {
			buf[i] = byte(now >> (uint(i) * 7))
		}
	}
	token := make([]byte, 9)
	for i, b := range buf {
		token[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return fmt.Sprintf("BILL-%d-%s", time.Now().UnixMilli(), token)
}

// NextSequentialBillNumber increments the sequence of the highest
// existing BILL-<year>-<seq> number, starting at BILL-<year>-0001 when
// none exists yet. The sequence is zero-padded to four digits and
// widens naturally past 9999. This scheme is independent of
// MintBillNumber; callers wanting a sequential paper trail query this
// first and pass the result into create.
func NextSequentialBillNumber(latest string, year int) string {
	if latest != "" {
		parts := strings.Split(latest, "-")
		if len(parts) == 3 {
			if seq, err := strconv.Atoi(parts[2]); err == nil {
				return fmt.Sprintf("BILL-%s-%04d", parts[1], seq+1)
			}
		}
	}
	return fmt.Sprintf("BILL-%d-0001", year)
}
