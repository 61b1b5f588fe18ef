package model

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// NewInternalID returns a fresh report primary key.
//
// UUIDv7 gives a monotonic time component plus random bits, so IDs sort by
// creation time and collisions are negligible without a retry loop.
func NewInternalID() string {
	return "report_" + uuid.Must(uuid.NewV7()).String()
}

// NewReportNumber generates a default user-facing report number in the form
// HN-YYYY-MM-DD-######. The number is a starting point only: users may edit
// it, and the store validates just non-emptiness and per-project uniqueness.
func NewReportNumber(now time.Time) string {
	return fmt.Sprintf("HN-%s-%06d", now.Format("2006-01-02"), 100000+rand.IntN(900000))
}

// CanonicalName trims surrounding whitespace and NFC-normalizes the result.
// All key comparisons (project names, option entries, vuln names) go through
// this, so visually identical strings composed differently collide instead
// of creating duplicate keys.
func CanonicalName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
