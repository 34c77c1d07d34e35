package usecase

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// InquiryNumberGenerator builds INQ-YYMMDD-NNN identifiers from the UTC date
// and a random 3 digit suffix. It does not check the store for collisions.
type InquiryNumberGenerator struct {
	now    func() time.Time
	suffix func() int
}

func NewInquiryNumberGenerator() *InquiryNumberGenerator {
	return &InquiryNumberGenerator{
		now:    time.Now,
		suffix: func() int { return rand.IntN(1000) },
	}
}

// NewInquiryNumberGeneratorWith is used by tests to pin the clock and suffix.
func NewInquiryNumberGeneratorWith(now func() time.Time, suffix func() int) *InquiryNumberGenerator {
	return &InquiryNumberGenerator{now: now, suffix: suffix}
}

func (g *InquiryNumberGenerator) Next() string {
	n := g.suffix() % 1000
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("INQ-%s-%03d", g.now().UTC().Format("060102"), n)
}
