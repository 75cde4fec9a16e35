// Package testdata generates throwaway values for scenario records.
package testdata

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"storefront_automation/domain/interfaces"

	"github.com/google/uuid"
)

const (
	lower    = "abcdefghijklmnopqrstuvwxyz"
	letters  = lower + "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits   = "0123456789"
	specials = "!@#$%^&*()"
)

// Generator - random test data. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator - generator seeded with seed; equal seeds give equal
// sequences apart from timestamps and unique IDs
func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), now: time.Now}
}

func (g *Generator) pick(alphabet string, n int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[g.rnd.Intn(len(alphabet))]
	}
	return string(b)
}

// String - alphanumeric string; non-positive lengths fall back to 8
func (g *Generator) String(n int) string {
	if n < 1 {
		n = 8
	}
	return g.pick(letters+digits, n)
}

// Name - letters only
func (g *Generator) Name(n int) string {
	if n < 1 {
		n = 8
	}
	return g.pick(letters, n)
}

// Number - digits only; non-positive lengths fall back to 4
func (g *Generator) Number(n int) string {
	if n < 1 {
		n = 4
	}
	return g.pick(digits, n)
}

// Phone - a number with as many digits as format has characters
func (g *Generator) Phone(format string) string {
	if format == "" {
		format = "1234567890"
	}
	return g.pick(digits, len(format))
}

// Password - at least 8 characters, 12 when asked for less, with at least one
// lower case letter, digit and special character
func (g *Generator) Password(n int) string {
	if n < 8 {
		n = 12
	}
	body := g.pick(letters+digits+specials, n-3)
	return g.pick(lower, 1) + body + g.pick(digits, 1) + g.pick(specials, 1)
}

// Timestamp - current time as YYYYMMDD_HHMMSS
func (g *Generator) Timestamp() string {
	return g.now().Format("20060102_150405")
}

// UniqueID - prefix followed by a UUID fragment
func (g *Generator) UniqueID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Email - address at example.com that will not collide with earlier runs
func (g *Generator) Email(prefix string) string {
	if prefix == "" {
		prefix = "user"
	}
	return fmt.Sprintf("%s_%s_%s@example.com", prefix, g.now().Format("20060102150405"), strings.ToLower(g.String(8)))
}

// LoginName - storefront login names are limited to 5..64 characters
func (g *Generator) LoginName(prefix string) string {
	if prefix == "" {
		prefix = "user"
	}
	return fmt.Sprintf("%s%s", prefix, strings.ToLower(g.String(10)))
}

// Ensure Generator implements DataGenerator interface
var _ interfaces.DataGenerator = (*Generator)(nil)
