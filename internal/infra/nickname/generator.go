package nickname

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

var (
	adjectives = []string{
		"Amber", "Bold", "Brisk", "Calm", "Clever", "Crimson", "Eager",
		"Gentle", "Golden", "Keen", "Lively", "Lunar", "Mellow", "Noble",
		"Quiet", "Rapid", "Silver", "Solar", "Swift", "Vivid",
	}
	nouns = []string{
		"Falcon", "Harbor", "Juniper", "Lantern", "Maple", "Meadow",
		"Otter", "Pebble", "Raven", "Ridge", "River", "Sparrow",
		"Summit", "Thistle", "Walnut", "Willow",
	}
)

// Generator produces random candidate nicknames of the form
// <Adjective><Noun><NNNN>. Candidates are alphanumeric and fit the
// nickname length constraints, but carry no uniqueness guarantee.
type Generator struct{}

// NewGenerator constructs a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a fresh candidate nickname.
func (g *Generator) Generate() string {
	return fmt.Sprintf("%s%s%04d", pick(adjectives), pick(nouns), randomInt(10000))
}

func pick(values []string) string {
	return values[randomInt(len(values))]
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// a fixed index keeps nickname generation functional.
		return 0
	}
	return int(v.Int64())
}

// RandomSuffix returns a hex string of byteLength*2 characters used to
// uniquify a nickname after candidate generation is exhausted.
func RandomSuffix(byteLength int) string {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%04d", randomInt(10000))
	}
	return hex.EncodeToString(buf)
}

var _ port.NicknameGenerator = (*Generator)(nil)
