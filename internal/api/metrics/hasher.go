package metrics

import (
	"time"

	"github.com/memberhub/accounts/internal/core/ports"
)

type instrumentedHasher struct {
	next ports.PasswordHasher
}

// InstrumentHasher records every Hash and Verify call of next in
// PasswordHashDuration.
func InstrumentHasher(next ports.PasswordHasher) ports.PasswordHasher {
	return instrumentedHasher{next: next}
}

func (h instrumentedHasher) Hash(password string) (string, error) {
	defer observe("hash", time.Now())
	return h.next.Hash(password)
}

func (h instrumentedHasher) Verify(hash, password string) bool {
	defer observe("verify", time.Now())
	return h.next.Verify(hash, password)
}

func observe(op string, start time.Time) {
	PasswordHashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
