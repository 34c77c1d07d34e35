package usecase

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var inquiryPattern = regexp.MustCompile(`^INQ-\d{6}-\d{3}$`)

func TestInquiryNumber_Format(t *testing.T) {
	g := NewInquiryNumberGenerator()
	for i := 0; i < 200; i++ {
		assert.Regexp(t, inquiryPattern, g.Next())
	}
}

func TestInquiryNumber_UsesUTCDate(t *testing.T) {
	// 23:30 in UTC-3 is already the next day in UTC.
	local := time.Date(2026, 12, 31, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	g := NewInquiryNumberGeneratorWith(func() time.Time { return local }, func() int { return 5 })

	assert.Equal(t, "INQ-270101-005", g.Next())
}

func TestInquiryNumber_SuffixBounds(t *testing.T) {
	at := func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, "INQ-260102-000", NewInquiryNumberGeneratorWith(at, func() int { return 0 }).Next())
	assert.Equal(t, "INQ-260102-999", NewInquiryNumberGeneratorWith(at, func() int { return 999 }).Next())
	assert.Equal(t, "INQ-260102-001", NewInquiryNumberGeneratorWith(at, func() int { return 1001 }).Next())
}
