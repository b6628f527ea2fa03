package font

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// IDGenerator derives collection ids for fonts that do not come from a
// catalog. The suffix is a base-36 millisecond timestamp that never repeats
// for one generator, even when two ids are requested in the same tick.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator reading the given clock
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

var defaultIDs = NewIDGenerator(nil)

// NewID generates an id from a display name using the default generator
func NewID(name string) string {
	return defaultIDs.Generate(name)
}

// Generate returns "<base>-<timestamp36>" for name
func (g *IDGenerator) Generate(name string) string {
	g.mu.Lock()
	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	g.mu.Unlock()

	return IDBase(name) + "-" + strconv.FormatInt(ts, 36)
}

// IDBase lower-cases name, collapses non-alphanumeric runs to a single
// hyphen and strips hyphens at both ends.
func IDBase(name string) string {
	base := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(base, "-")
}

// Slug lower-cases a family name and replaces whitespace runs with hyphens
func Slug(family string) string {
	return whitespace.ReplaceAllString(strings.ToLower(family), "-")
}
