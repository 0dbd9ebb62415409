package db

import (
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Slugify lowercases title and joins its letter and digit runs with dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "post"
	}
	return b.String()
}

// stamper hands out unix millisecond stamps that never repeat within the
// process, even when the clock does not advance between calls.
type stamper struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newStamper(now func() time.Time) *stamper {
	if now == nil {
		now = time.Now
	}
	return &stamper{now: now}
}

func (s *stamper) next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return ms
}

// newID derives a record identifier from the post title.
func (s *stamper) newID(title string) string {
	return Slugify(title) + "-" + strconv.FormatInt(s.next(), 10)
}
