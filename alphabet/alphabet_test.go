package alphabet_test

import (
	"testing"

	"github.com/katalvlaran/kmerannot/alphabet"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ACGT", "ACGT"},
		{"acgt", "NNNN"},
		{"ACG$", "ACG$"},
		{"ACGX", "ACGN"},
		{"", ""},
	}
	for _, c := range cases {
		if got := alphabet.Encode(c.in); got != c.want {
			t.Errorf("Encode(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestIsDummy(t *testing.T) {
	if !alphabet.IsDummy('$') {
		t.Error("IsDummy('$') = false; want true")
	}
	if alphabet.IsDummy('A') {
		t.Error("IsDummy('A') = true; want false")
	}
}

func TestContainsDummy(t *testing.T) {
	if !alphabet.ContainsDummy("AC$T") {
		t.Error("ContainsDummy(\"AC$T\") = false; want true")
	}
	if alphabet.ContainsDummy("ACGT") {
		t.Error("ContainsDummy(\"ACGT\") = true; want false")
	}
}

func TestOrderCoversAlphabet(t *testing.T) {
	if len(alphabet.Order) != 6 {
		t.Fatalf("Order has %d symbols; want 6", len(alphabet.Order))
	}
	for _, c := range []byte("ACGTN$") {
		found := false
		for i := 0; i < len(alphabet.Order); i++ {
			if alphabet.Order[i] == c {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Order %q missing symbol %q", alphabet.Order, c)
		}
	}
}
