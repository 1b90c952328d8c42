// Package roundid generates sortable identifiers for game rounds: a UUIDv7
// rendered as 26 characters of Crockford base32.
package roundid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lox/minicasino/internal/randutil"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded round ID.
const Length = 26

// Generator handles round ID generation with configurable randomness
type Generator struct {
	reader *sourceReader
}

// NewGenerator creates a generator. A nil source uses crypto/rand through the
// uuid package; a seeded source makes the random bits reproducible.
func NewGenerator(src randutil.Source) *Generator {
	if src == nil {
		return &Generator{}
	}
	return &Generator{reader: &sourceReader{src: src}}
}

// Generate creates a new round ID using crypto randomness
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new round ID. The timestamp prefix keeps IDs from one
// process in creation order.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.reader != nil {
		id, err = uuid.NewV7FromReader(g.reader)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate round id: " + err.Error())
	}
	return encodeBase32(id)
}

// sourceReader adapts a randutil.Source to io.Reader for the uuid package.
type sourceReader struct {
	src randutil.Source
}

func (r *sourceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.IntN(256))
	}
	return len(p), nil
}

// encodeBase32 encodes 128 bits as 26 characters. The value is treated as a
// 130-bit number with two leading zero bits, so the first character is 0-7.
func encodeBase32(data [16]byte) string {
	bit := func(pos int) uint8 {
		if pos < 0 {
			return 0
		}
		return (data[pos/8] >> (7 - pos%8)) & 1
	}

	var sb strings.Builder
	sb.Grow(Length)
	for i := range Length {
		start := i*5 - 2
		var v uint8
		for j := range 5 {
			v = v<<1 | bit(start+j)
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Validate checks if a round ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}

	// Check first character doesn't exceed 7 (to ensure it represents ≤ 128 bits)
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
