package rank

import (
	"math"
	"testing"
)

func TestThresholds_Partition(t *testing.T) {
	if len(Thresholds) != 20 {
		t.Fatalf("expected 20 ranks, got %d", len(Thresholds))
	}
	if Thresholds[0].MinXP != 0 {
		t.Errorf("first rank MinXP = %d, want 0", Thresholds[0].MinXP)
	}
	for i := 1; i < len(Thresholds); i++ {
		prev, cur := Thresholds[i-1], Thresholds[i]
		if cur.MinXP != prev.MaxXP+1 {
			t.Errorf("gap/overlap between %s and %s: %d..%d then %d",
				prev.Rank, cur.Rank, prev.MinXP, prev.MaxXP, cur.MinXP)
		}
	}
	if Thresholds[len(Thresholds)-1].MaxXP != math.MaxInt {
		t.Error("top rank must be open-ended")
	}
}

func TestForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want Rank
	}{
		{0, "C-"},
		{499, "C-"},
		{500, "C"},
		{999, "C"},
		{1000, "C+"},
		{2000, "B-"},
		{5500, "B+"},
		{8000, "A-"},
		{11000, "A"},
		{20000, "S"},
		{25000, "S+0"},
		{51999, "S+8"},
		{52000, "S+9"},
		{1000000, "S+9"},
	}
	for _, tt := range tests {
		if got := ForXP(tt.xp); got != tt.want {
			t.Errorf("ForXP(%d) = %s, want %s", tt.xp, got, tt.want)
		}
	}
}

func TestForXP_Monotonic(t *testing.T) {
	prev := ForXP(0)
	for xp := 1; xp <= 60000; xp += 7 {
		cur := ForXP(xp)
		if Ordinal(cur) < Ordinal(prev) {
			t.Fatalf("rank decreased from %s to %s at xp=%d", prev, cur, xp)
		}
		prev = cur
	}
}

func TestProgressWithinRank(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 0},
		{250, 50},
		{499, 100}, // round(100*499/500)
		{500, 0},
		{52000, 100},
		{99999, 100},
	}
	for _, tt := range tests {
		if got := ProgressWithinRank(tt.xp); got != tt.want {
			t.Errorf("ProgressWithinRank(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestProgressWithinRank_Bounds(t *testing.T) {
	for xp := 0; xp <= 60000; xp += 13 {
		p := ProgressWithinRank(xp)
		if p < 0 || p > 100 {
			t.Fatalf("ProgressWithinRank(%d) = %d, out of [0,100]", xp, p)
		}
	}
}

func TestXPToNext(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 500},
		{499, 1},
		{500, 500},
		{51999, 1},
		{52000, 0}, // top rank
		{90000, 0},
	}
	for _, tt := range tests {
		if got := XPToNext(tt.xp); got != tt.want {
			t.Errorf("XPToNext(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		r    Rank
		want int
	}{
		{"C-", 0},
		{"C", 1},
		{"C+", 2},
		{"B-", 3},
		{"S", 9},
		{"S+0", 10},
		{"S+9", 19},
		{"??", 0},
	}
	for _, tt := range tests {
		if got := Ordinal(tt.r); got != tt.want {
			t.Errorf("Ordinal(%s) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestMajorOrdinal(t *testing.T) {
	tests := []struct {
		r    Rank
		want int
	}{
		{"C-", 1},
		{"C", 1},
		{"C+", 1},
		{"B-", 2},
		{"B+", 2},
		{"A-", 3},
		{"A+", 3},
		{"S", 4},
		{"S+9", 4},
		{"", 0},
		{"X", 0},
	}
	for _, tt := range tests {
		if got := MajorOrdinal(tt.r); got != tt.want {
			t.Errorf("MajorOrdinal(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestMajorOrdinal_SubGradesCollapse(t *testing.T) {
	// A- and A+ must not be distinguished by the coarse mapping.
	if MajorOrdinal("A-") != MajorOrdinal("A+") {
		t.Error("A- and A+ should share a major bucket")
	}
	// But the fine mapping keeps them apart.
	if Ordinal("A-") == Ordinal("A+") {
		t.Error("A- and A+ should differ under the fine ordinal")
	}
}
