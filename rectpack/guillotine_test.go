package rectpack

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuillotineFirstInsertAtOrigin(t *testing.T) {
	p, err := NewGuillotine(100, 100)
	require.NoError(t, err)

	r := p.Insert(60, 40, BestAreaFit, SplitShorterLeftoverAxis)
	assert.Equal(t, NewRect(0, 0, 60, 40), r)
	assert.InDelta(t, 0.24, p.Occupancy(), 1e-9)
}

func TestGuillotineFullBinRejectsMore(t *testing.T) {
	p, err := NewGuillotine(10, 10)
	require.NoError(t, err)

	r := p.Insert(10, 10, BestAreaFit, SplitShorterLeftoverAxis)
	assert.Equal(t, NewRect(0, 0, 10, 10), r)
	assert.Equal(t, 1.0, p.Occupancy())

	r = p.Insert(1, 1, BestAreaFit, SplitShorterLeftoverAxis)
	assert.Zero(t, r.Height)
	assert.True(t, r.IsEmpty())
	assert.Len(t, p.Used(), 1)
}

func TestGuillotineTwoColumnsFillBin(t *testing.T) {
	p, err := NewGuillotine(50, 50)
	require.NoError(t, err)

	first := p.Insert(20, 50, BestAreaFit, SplitShorterLeftoverAxis)
	require.Equal(t, NewRect(0, 0, 20, 50), first)
	require.Equal(t, []Rect{NewRect(20, 0, 30, 50)}, p.Free())

	second := p.Insert(30, 50, BestAreaFit, SplitShorterLeftoverAxis)
	assert.Equal(t, NewRect(20, 0, 30, 50), second)
	assert.Equal(t, 1.0, p.Occupancy())

	p.MergeFreeList()
	assert.Empty(t, p.Free())
}

func TestGuillotineRejectsInvalidSizes(t *testing.T) {
	p, err := NewGuillotine(10, 10)
	require.NoError(t, err)

	for _, size := range []Size{{Width: 0, Height: 5}, {Width: 5, Height: 0}, {Width: -1, Height: 5}} {
		r := p.Insert(size.Width, size.Height, BestAreaFit, SplitShorterLeftoverAxis)
		assert.Zero(t, r.Height, "size %v", size)
	}
	assert.Empty(t, p.Used())
	assert.Equal(t, []Rect{NewRect(0, 0, 10, 10)}, p.Free())
}

func TestGuillotineDegenerateBin(t *testing.T) {
	_, err := NewGuillotine(0, 10)
	assert.ErrorIs(t, err, ErrDegenerateBin)
	_, err = NewGuillotine(10, -3)
	assert.ErrorIs(t, err, ErrDegenerateBin)

	var p GuillotinePacker
	assert.Zero(t, p.Occupancy())
	assert.True(t, p.Insert(1, 1, BestAreaFit, 0).IsEmpty())

	require.NoError(t, p.Initialize(8, 8))
	assert.Equal(t, NewRect(0, 0, 4, 4), p.Insert(4, 4, BestAreaFit, 0))
	assert.ErrorIs(t, p.Initialize(0, 0), ErrDegenerateBin)
}

func TestGuillotineExactFitRotated(t *testing.T) {
	p, err := NewGuillotine(30, 50)
	require.NoError(t, err)

	placement, ok := p.Find(50, 30, BestShortSideFit)
	require.True(t, ok)
	assert.Equal(t, BestScore, placement.Score)

	r := p.Insert(50, 30, BestShortSideFit, SplitShorterLeftoverAxis)
	assert.True(t, r.Rotated)
	assert.Equal(t, 30, r.Width)
	assert.Equal(t, 50, r.Height)
	assert.Equal(t, 1.0, p.Occupancy())
}

func TestGuillotineNoRotate(t *testing.T) {
	p, err := NewGuillotine(30, 50)
	require.NoError(t, err)
	p.AllowRotate(false)

	r := p.Insert(50, 30, BestShortSideFit, SplitShorterLeftoverAxis)
	assert.True(t, r.IsEmpty())
}

func TestGuillotineFindChoosesByHeuristic(t *testing.T) {
	var p GuillotinePacker
	require.NoError(t, p.Initialize(100, 100))
	p.free = []Rect{NewRect(0, 0, 20, 20), NewRect(20, 0, 50, 50)}

	tests := []struct {
		choice Heuristic
		index  int
	}{
		{BestAreaFit, 0},
		{BestShortSideFit, 0},
		{BestLongSideFit, 0},
		{WorstAreaFit, 1},
		{WorstShortSideFit, 1},
		{WorstLongSideFit, 1},
	}
	for _, tt := range tests {
		t.Run((Guillotine|tt.choice).String(), func(t *testing.T) {
			placement, ok := p.Find(10, 10, Guillotine|tt.choice)
			require.True(t, ok)
			assert.Equal(t, tt.index, placement.Index)
			assert.Equal(t, p.free[tt.index].Point, placement.Rect.Point)
		})
	}
}

func TestSplitFreeRect(t *testing.T) {
	free := NewRect(0, 0, 100, 80)
	placed := NewRect(0, 0, 30, 20)
	horizontal := []Rect{NewRect(0, 20, 100, 60), NewRect(30, 0, 70, 20)}
	vertical := []Rect{NewRect(0, 20, 30, 60), NewRect(30, 0, 70, 80)}

	tests := []struct {
		split Heuristic
		want  []Rect
	}{
		{SplitShorterLeftoverAxis, vertical},
		{SplitLongerLeftoverAxis, horizontal},
		{SplitMinimizeArea, horizontal},
		{SplitMaximizeArea, vertical},
		{SplitShorterAxis, vertical},
		{SplitLongerAxis, horizontal},
		{0x0F00, horizontal},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%#x", uint16(tt.split)), func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFreeRect(free, placed, tt.split))
		})
	}
}

func TestSplitFreeRectDropsEmptyPieces(t *testing.T) {
	free := NewRect(10, 10, 40, 20)
	assert.Empty(t, SplitFreeRect(free, NewRect(10, 10, 40, 20), SplitShorterLeftoverAxis))
	assert.Equal(t, []Rect{NewRect(10, 25, 40, 5)}, SplitFreeRect(free, NewRect(10, 10, 40, 15), SplitLongerAxis))
}

func TestMergeFreeList(t *testing.T) {
	var p GuillotinePacker
	require.NoError(t, p.Initialize(15, 10))
	p.free = []Rect{NewRect(0, 0, 10, 5), NewRect(0, 5, 10, 5), NewRect(10, 0, 5, 10)}

	assert.Equal(t, 2, p.MergeFreeList())
	assert.Equal(t, []Rect{NewRect(0, 0, 15, 10)}, p.Free())
	assert.Zero(t, p.MergeFreeList())
}

func TestMergeFreeListReverseOrder(t *testing.T) {
	var p GuillotinePacker
	require.NoError(t, p.Initialize(10, 10))
	p.free = []Rect{NewRect(0, 5, 10, 5), NewRect(0, 0, 10, 5)}

	p.MergeFreeList()
	assert.Equal(t, []Rect{NewRect(0, 0, 10, 10)}, p.Free())
}

func TestGuillotineRandomInvariants(t *testing.T) {
	const binSize = 64
	choices := []Heuristic{BestAreaFit, BestShortSideFit, BestLongSideFit, WorstAreaFit, WorstShortSideFit, WorstLongSideFit}
	splits := []Heuristic{SplitShorterLeftoverAxis, SplitLongerLeftoverAxis, SplitMinimizeArea, SplitMaximizeArea, SplitShorterAxis, SplitLongerAxis}

	for _, choice := range choices {
		for _, split := range splits {
			h := Guillotine | choice | split
			t.Run(h.String(), func(t *testing.T) {
				rng := rand.New(rand.NewSource(int64(h)))
				p, err := NewGuillotine(binSize, binSize)
				require.NoError(t, err)

				last := 0.0
				for i := 0; i < 80; i++ {
					size := randomSize(rng, i, NewSize(1, 1), NewSize(20, 20))
					r := p.Insert(size.Width, size.Height, choice, split)
					if !r.IsEmpty() {
						assert.True(t, r.Size.Eq(size) || (r.Width == size.Height && r.Height == size.Width))
					}
					requireTiles(t, binSize, binSize, p.Used(), p.Free())

					occupancy := p.Occupancy()
					require.GreaterOrEqual(t, occupancy, last)
					require.InDelta(t, float64(usedArea(p.Used()))/float64(binSize*binSize), occupancy, 1e-12)
					last = occupancy

					if i%10 == 9 {
						p.MergeFreeList()
						requireTiles(t, binSize, binSize, p.Used(), p.Free())
						once := slices.Clone(p.Free())
						assert.Zero(t, p.MergeFreeList())
						assert.Equal(t, once, p.Free())
					}
				}
			})
		}
	}
}

func TestGuillotineAutoMerge(t *testing.T) {
	p, err := NewGuillotine(40, 40)
	require.NoError(t, err)
	p.AutoMerge = true

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 30; i++ {
		size := randomSize(rng, i, NewSize(2, 2), NewSize(12, 12))
		p.Insert(size.Width, size.Height, BestShortSideFit, SplitMinimizeArea)
		requireTiles(t, 40, 40, p.Used(), p.Free())
		assert.Zero(t, p.MergeFreeList(), "free list is already merged")
	}
}
