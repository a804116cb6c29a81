package rng

import "testing"

func TestNew_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 10; i++ {
		va := a.Float64()
		vb := b.Float64()
		if va != vb {
			t.Fatalf("两个相同种子的 RNG 在第 %d 次调用产生不同值: %f != %f", i, va, vb)
		}
	}
}

func TestReseed(t *testing.T) {
	g := New(1)
	first := g.Float64()

	g.Reseed(1)
	second := g.Float64()

	if first != second {
		t.Errorf("Reseed() 后首次 Float64() = %f, want %f (与原种子一致)", second, first)
	}
}

func TestBacktrackSeed(t *testing.T) {
	tests := []struct {
		seed     int64
		attempts int
		dayIdx   int
		want     int64
	}{
		{42, 0, 0, 42},
		{42, 1, 0, 1042},
		{42, 2, 5, 2047},
	}

	for _, tt := range tests {
		if got := BacktrackSeed(tt.seed, tt.attempts, tt.dayIdx); got != tt.want {
			t.Errorf("BacktrackSeed(%d,%d,%d) = %d, want %d", tt.seed, tt.attempts, tt.dayIdx, got, tt.want)
		}
	}
}

func TestIntn_InRange(t *testing.T) {
	g := New(7)
	for i := 0; i < 100; i++ {
		v := g.Intn(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d, 超出范围 [0,5)", v)
		}
	}
}
