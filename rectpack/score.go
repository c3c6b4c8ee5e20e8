package rectpack

import "math"

// Score ranks a candidate placement. Lower is better: Primary decides, and
// Secondary breaks ties.
type Score struct {
	Primary   int
	Secondary int
}

var (
	// BestScore is reported for exact-size matches. Nothing can beat it.
	BestScore = Score{Primary: math.MinInt, Secondary: math.MinInt}
	// WorstScore marks "nothing fits".
	WorstScore = Score{Primary: math.MaxInt, Secondary: math.MaxInt}
)

// Less reports whether s ranks strictly before o.
func (s Score) Less(o Score) bool {
	return s.Primary < o.Primary || (s.Primary == o.Primary && s.Secondary < o.Secondary)
}

// Placement is the outcome of searching the free list for a spot.
type Placement struct {
	Rect  Rect
	Score Score
	// Index is the position in the free list of the chosen free rectangle.
	Index int
}

// ScoreFunc scores placing a width x height item inside free at free's origin.
type ScoreFunc func(width, height int, free *Rect) Score

func leftovers(width, height int, free *Rect) (short, long int) {
	horiz := abs(free.Width - width)
	vert := abs(free.Height - height)
	return min(horiz, vert), max(horiz, vert)
}

// ScoreBestAreaFit prefers the free rectangle that leaves the least area.
func ScoreBestAreaFit(width, height int, free *Rect) Score {
	short, _ := leftovers(width, height, free)
	return Score{Primary: free.Width*free.Height - width*height, Secondary: short}
}

// ScoreBestShortSideFit prefers the smallest leftover on the shorter side.
func ScoreBestShortSideFit(width, height int, free *Rect) Score {
	short, long := leftovers(width, height, free)
	return Score{Primary: short, Secondary: long}
}

// ScoreBestLongSideFit prefers the smallest leftover on the longer side.
func ScoreBestLongSideFit(width, height int, free *Rect) Score {
	short, long := leftovers(width, height, free)
	return Score{Primary: long, Secondary: short}
}

func ScoreWorstAreaFit(width, height int, free *Rect) Score {
	return negate(ScoreBestAreaFit(width, height, free))
}

func ScoreWorstShortSideFit(width, height int, free *Rect) Score {
	return negate(ScoreBestShortSideFit(width, height, free))
}

func ScoreWorstLongSideFit(width, height int, free *Rect) Score {
	return negate(ScoreBestLongSideFit(width, height, free))
}

// ScoreBottomLeft prefers the placement whose bottom edge (y + height) is
// smallest, then the smallest x.
func ScoreBottomLeft(width, height int, free *Rect) Score {
	return Score{Primary: free.Y + height, Secondary: free.X}
}

func negate(s Score) Score {
	return Score{Primary: -s.Primary, Secondary: -s.Secondary}
}

// ContactPointScore measures how much of a width x height placement at (x, y)
// touches the bin border or the edges of the given free rectangles. Higher is
// better.
func ContactPointScore(binWidth, binHeight, x, y, width, height int, free []Rect) int {
	score := 0
	if x == 0 || x+width == binWidth {
		score += height
	}
	if y == 0 || y+height == binHeight {
		score += width
	}
	for _, r := range free {
		if r.X == x+width || r.X+r.Width == x {
			score += CommonIntervalLength(r.Y, r.Y+r.Height, y, y+height)
		}
		if r.Y == y+height || r.Y+r.Height == y {
			score += CommonIntervalLength(r.X, r.X+r.Width, x, x+width)
		}
	}
	return score
}

// guillotineScores maps each free rectangle choice rule usable by the
// Guillotine packer to its scoring function.
var guillotineScores = map[Heuristic]ScoreFunc{
	BestAreaFit:       ScoreBestAreaFit,
	BestShortSideFit:  ScoreBestShortSideFit,
	BestLongSideFit:   ScoreBestLongSideFit,
	WorstAreaFit:      ScoreWorstAreaFit,
	WorstShortSideFit: ScoreWorstShortSideFit,
	WorstLongSideFit:  ScoreWorstLongSideFit,
}

// maxRectsScores holds the context-free MaxRects rules. ContactPoint needs
// the free list and bin size, so it is handled by the packer itself.
var maxRectsScores = map[Heuristic]ScoreFunc{
	BestShortSideFit: ScoreBestShortSideFit,
	BestLongSideFit:  ScoreBestLongSideFit,
	BestAreaFit:      ScoreBestAreaFit,
	BottomLeft:       ScoreBottomLeft,
}

// Scorer returns the scoring function registered for the bin rule of h, or
// nil when the algorithm has no context-free function for it.
func Scorer(h Heuristic) ScoreFunc {
	switch h.Algorithm() {
	case Guillotine:
		return guillotineScores[h.Bin()]
	case MaxRects:
		return maxRectsScores[h.Bin()]
	}
	return nil
}
