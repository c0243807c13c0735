package bitvector

import (
	"math/rand"
	"testing"
)

func TestAccessRank(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, true, false, true, false}
	v := New(bits)

	if v.Len() != uint64(len(bits)) {
		t.Fatalf("Len() = %d, want %d", v.Len(), len(bits))
	}
	for i, want := range bits {
		got, err := v.Access(uint64(i))
		if err != nil || got != want {
			t.Errorf("Access(%d) = %v, %v; want %v, nil", i, got, err, want)
		}
	}
	if _, err := v.Access(v.Len()); err == nil {
		t.Error("Access(Len()) should error")
	}
}

func TestRankSelectInverse(t *testing.T) {
	bits := randomBits(500, 0.4, 1)
	v := New(bits)

	var ones uint64
	for _, b := range bits {
		if b {
			ones++
		}
	}
	for k := uint64(1); k <= ones; k++ {
		pos, err := v.Select(k, true)
		if err != nil {
			t.Fatalf("Select(%d, true): %v", k, err)
		}
		rank, err := v.Rank(pos, true)
		if err != nil {
			t.Fatalf("Rank(%d, true): %v", pos, err)
		}
		if rank != k {
			t.Errorf("Rank(Select(%d)) = %d, want %d", k, rank, k)
		}
	}
	if _, err := v.Select(ones+1, true); err == nil {
		t.Error("Select past the last one-bit should error")
	}
}

func TestBuilderMatchesNew(t *testing.T) {
	bits := randomBits(200, 0.5, 2)
	b := NewBuilder()
	for _, bit := range bits {
		b.Push(bit)
	}
	if b.Len() != uint64(len(bits)) {
		t.Fatalf("Builder.Len() = %d, want %d", b.Len(), len(bits))
	}
	built := b.Build()
	direct := New(bits)

	for i := range bits {
		a, _ := built.Access(uint64(i))
		d, _ := direct.Access(uint64(i))
		if a != d {
			t.Errorf("bit %d: built=%v direct=%v", i, a, d)
		}
	}
}

func TestBitsRoundTrip(t *testing.T) {
	bits := randomBits(300, 0.3, 3)
	v := New(bits)
	got := v.Bits()
	if len(got) != len(bits) {
		t.Fatalf("Bits() length = %d, want %d", len(got), len(bits))
	}
	for i := range bits {
		if got[i] != bits[i] {
			t.Errorf("Bits()[%d] = %v, want %v", i, got[i], bits[i])
		}
	}
}

func randomBits(n int, density float32, seed int64) []bool {
	r := rand.New(rand.NewSource(seed))
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = r.Float32() < density
	}
	return bits
}
