// Package idgen provides ID generation utilities
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/arena/internal/pkg/idgen Generator,NumberGenerator

// DefaultNumberCeiling is the largest combatant id RandomNumberGenerator hands out
const DefaultNumberCeiling = 1_000_000

// Generator generates unique string identifiers
type Generator interface {
	Generate() string
}

// NumberGenerator generates positive integer identifiers
type NumberGenerator interface {
	Next() int
}

// UUIDGenerator generates UUIDs with optional prefix
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// RandomNumberGenerator draws ids uniformly from [1, ceiling].
// Collisions are possible; callers that need uniqueness check for them.
type RandomNumberGenerator struct {
	ceiling int64
}

// NewRandomNumber creates a random number generator. A ceiling below one
// falls back to DefaultNumberCeiling.
func NewRandomNumber(ceiling int) *RandomNumberGenerator {
	if ceiling < 1 {
		ceiling = DefaultNumberCeiling
	}
	return &RandomNumberGenerator{ceiling: int64(ceiling)}
}

// Next returns a random id in [1, ceiling]
func (g *RandomNumberGenerator) Next() int {
	n, err := rand.Int(rand.Reader, big.NewInt(g.ceiling))
	if err != nil {
		// crypto/rand only fails when the system entropy source is broken
		panic(fmt.Sprintf("crypto/rand.Int failed: %v", err))
	}
	return int(n.Int64()) + 1
}

// SequentialNumberGenerator returns 1, 2, 3, ... for testing
type SequentialNumberGenerator struct {
	counter int64
}

// NewSequentialNumber creates a new sequential number generator
func NewSequentialNumber() *SequentialNumberGenerator {
	return &SequentialNumberGenerator{}
}

// Next returns the next number in the sequence
func (g *SequentialNumberGenerator) Next() int {
	return int(atomic.AddInt64(&g.counter, 1))
}
