package rank

import "math"

// Rank is a named mastery tier derived purely from accumulated XP.
type Rank string

// Threshold describes one rank's XP interval. Intervals are a true
// partition of [0, ∞): no gaps, no overlaps.
type Threshold struct {
	Rank  Rank
	MinXP int
	MaxXP int // math.MaxInt for the open-ended top rank
	Stars int
}

// Thresholds is the fixed 20-rank table, ordered by ascending XP.
var Thresholds = []Threshold{
	{Rank: "C-", MinXP: 0, MaxXP: 499, Stars: 0},
	{Rank: "C", MinXP: 500, MaxXP: 999, Stars: 1},
	{Rank: "C+", MinXP: 1000, MaxXP: 1999, Stars: 2},
	{Rank: "B-", MinXP: 2000, MaxXP: 3499, Stars: 3},
	{Rank: "B", MinXP: 3500, MaxXP: 5499, Stars: 4},
	{Rank: "B+", MinXP: 5500, MaxXP: 7999, Stars: 5},
	{Rank: "A-", MinXP: 8000, MaxXP: 10999, Stars: 6},
	{Rank: "A", MinXP: 11000, MaxXP: 14999, Stars: 7},
	{Rank: "A+", MinXP: 15000, MaxXP: 19999, Stars: 8},
	{Rank: "S", MinXP: 20000, MaxXP: 24999, Stars: 9},
	{Rank: "S+0", MinXP: 25000, MaxXP: 27999, Stars: 10},
	{Rank: "S+1", MinXP: 28000, MaxXP: 30999, Stars: 11},
	{Rank: "S+2", MinXP: 31000, MaxXP: 33999, Stars: 12},
	{Rank: "S+3", MinXP: 34000, MaxXP: 36999, Stars: 13},
	{Rank: "S+4", MinXP: 37000, MaxXP: 39999, Stars: 14},
	{Rank: "S+5", MinXP: 40000, MaxXP: 42999, Stars: 15},
	{Rank: "S+6", MinXP: 43000, MaxXP: 45999, Stars: 16},
	{Rank: "S+7", MinXP: 46000, MaxXP: 48999, Stars: 17},
	{Rank: "S+8", MinXP: 49000, MaxXP: 51999, Stars: 18},
	{Rank: "S+9", MinXP: 52000, MaxXP: math.MaxInt, Stars: 19},
}

// Lowest returns the starting rank for a fresh mastery record.
func Lowest() Rank {
	return Thresholds[0].Rank
}

// Top returns the highest rank.
func Top() Rank {
	return Thresholds[len(Thresholds)-1].Rank
}

// ForXP returns the unique rank whose interval contains xp.
// Scans from the top; the first threshold at or below xp wins.
// Negative XP never occurs in practice but maps to the lowest rank.
func ForXP(xp int) Rank {
	for i := len(Thresholds) - 1; i >= 0; i-- {
		if xp >= Thresholds[i].MinXP {
			return Thresholds[i].Rank
		}
	}
	return Lowest()
}

// thresholdFor returns the table entry containing xp.
func thresholdFor(xp int) Threshold {
	for i := len(Thresholds) - 1; i >= 0; i-- {
		if xp >= Thresholds[i].MinXP {
			return Thresholds[i]
		}
	}
	return Thresholds[0]
}

// ProgressWithinRank reports how far xp has advanced through its rank's
// interval, as a percentage clamped to [0, 100]. The top rank has
// unbounded width and reports 100 once reached.
func ProgressWithinRank(xp int) int {
	th := thresholdFor(xp)
	if th.MaxXP == math.MaxInt {
		return 100
	}
	width := th.MaxXP - th.MinXP + 1
	p := int(math.Round(100 * float64(xp-th.MinXP) / float64(width)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// XPToNext returns the XP still needed to reach the next rank.
// The top rank reports 0.
func XPToNext(xp int) int {
	th := thresholdFor(xp)
	if th.MaxXP == math.MaxInt {
		return 0
	}
	return th.MaxXP - xp + 1
}

// Ordinal returns the fine-grained position of a rank in the table,
// 0 for C- through 19 for S+9. Every sub-grade is distinct. Used by
// the all-subjects achievement predicate. Unknown ranks map to 0.
func Ordinal(r Rank) int {
	for _, th := range Thresholds {
		if th.Rank == r {
			return th.Stars
		}
	}
	return 0
}

// MajorOrdinal buckets a rank by its major letter only: C=1, B=2, A=3,
// S=4. Sub-grades within a letter are not distinguished. Used by the
// per-subject achievement predicate; deliberately coarser than Ordinal.
func MajorOrdinal(r Rank) int {
	if r == "" {
		return 0
	}
	switch r[0] {
	case 'C':
		return 1
	case 'B':
		return 2
	case 'A':
		return 3
	case 'S':
		return 4
	}
	return 0
}

// Color returns the display color for a rank (hex).
func Color(r Rank) string {
	if r == "" {
		return "#6B7280"
	}
	switch r[0] {
	case 'C':
		return "#10B981" // green
	case 'B':
		return "#3B82F6" // blue
	case 'A':
		return "#F59E0B" // orange
	case 'S':
		return "#EF4444" // red
	}
	return "#6B7280" // gray
}
