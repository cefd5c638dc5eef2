package ids

import (
	"strings"
	"testing"
)

func TestBase62Length(t *testing.T) {
	for _, n := range []int{8, 12, 20} {
		got := Base62(n)
		if len(got) != n {
			t.Fatalf("Base62(%d) returned %q with length %d", n, got, len(got))
		}
	}
	if len(Base62_8()) != 8 {
		t.Fatalf("Base62_8 must return 8 characters")
	}
	if len(Base62_12()) != 12 {
		t.Fatalf("Base62_12 must return 12 characters")
	}
}

func TestBase62Alphabet(t *testing.T) {
	got := Base62(256)
	for _, r := range got {
		if !strings.ContainsRune(base62Alphabet, r) {
			t.Fatalf("unexpected character %q in %q", r, got)
		}
	}
}

func TestBase62Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		uid := Base62_12()
		if seen[uid] {
			t.Fatalf("duplicate uid generated: %s", uid)
		}
		seen[uid] = true
	}
}
