package nickname

import (
	"regexp"
	"testing"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

var candidatePattern = regexp.MustCompile(`^[A-Za-z]+\d{4}$`)

func TestGenerateShape(t *testing.T) {
	g := NewGenerator()

	for i := 0; i < 100; i++ {
		candidate := g.Generate()
		if !candidatePattern.MatchString(candidate) {
			t.Fatalf("candidate %q does not match <Adjective><Noun><NNNN>", candidate)
		}
		if err := domain.ValidateNickname(candidate); err != nil {
			t.Fatalf("candidate %q fails nickname validation: %v", candidate, err)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[g.Generate()] = true
	}

	if len(seen) < 2 {
		t.Fatal("expected Generate to produce varying candidates")
	}
}

func TestRandomSuffix(t *testing.T) {
	suffix := RandomSuffix(3)
	if len(suffix) != 6 {
		t.Fatalf("expected 6 hex characters, got %q", suffix)
	}
	if !regexp.MustCompile(`^[0-9a-f]+$`).MatchString(suffix) {
		t.Fatalf("expected lowercase hex, got %q", suffix)
	}
}
