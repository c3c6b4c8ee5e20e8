package rectpack

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPackerValidation(t *testing.T) {
	_, err := NewPacker(0, 100, MaxRectsBSSF)
	assert.ErrorIs(t, err, ErrDegenerateBin)

	_, err = NewPacker(100, 100, MaxRects|WorstAreaFit)
	assert.ErrorIs(t, err, binErr)

	_, err = NewPacker(100, 100, 0x7)
	assert.ErrorIs(t, err, algoErr)

	p := NewDefaultPacker()
	require.NotNil(t, p)
	assert.Equal(t, NewSize(DefaultSize, DefaultSize), p.MaxSize())
	assert.Equal(t, MaxRectsBSSF, p.Heuristic())
}

func TestRandom(t *testing.T) {
	const (
		count       = 512
		atlasWidth  = 512
		atlasHeight = 512
	)
	minSize := NewSize(16, 16)
	maxSize := NewSize(64, 64)

	for _, heuristic := range []Heuristic{MaxRectsBSSF, MaxRectsBAF, MaxRectsBL, GuillotineBAF, GuillotineBSSF | SplitMinimizeArea} {
		t.Run(heuristic.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			sizes := make([]Size, count)
			for i := range sizes {
				sizes[i] = randomSize(rng, i, minSize, maxSize)
			}

			unpacked := slices.Clone(sizes)
			seen := map[int]bool{}
			var atlases []*Packer
			for len(unpacked) > 0 {
				packer, err := NewPacker(atlasWidth, atlasHeight, heuristic)
				require.NoError(t, err)
				packer.AllowRotate(true)
				packer.Padding = 2
				packer.Sorter(SortArea, false)
				packer.Insert(unpacked...)

				ok := packer.Pack()
				atlases = append(atlases, packer)
				require.NotEmpty(t, packer.Rects(), "every page must take at least one item")
				unpacked = nil
				if !ok {
					unpacked = slices.Clone(packer.Unpacked())
				}
				require.Less(t, len(atlases), 20, "too many atlases required")
			}

			for idx, atlas := range atlases {
				rects := atlas.Rects()
				requireInBin(t, atlasWidth, atlasHeight, rects)
				for i := 0; i < len(rects)-1; i++ {
					for j := i + 1; j < len(rects); j++ {
						require.Falsef(t, rects[i].Intersects(rects[j]), "atlas %d: %s and %s intersect", idx, rects[i].String(), rects[j].String())
					}
				}
				for _, r := range rects {
					require.False(t, seen[r.ID], "id %d packed twice", r.ID)
					seen[r.ID] = true
					want := sizes[r.ID]
					if r.Rotated {
						assert.Equal(t, NewSize(want.Height, want.Width), NewSize(r.Width, r.Height))
					} else {
						assert.Equal(t, NewSize(want.Width, want.Height), NewSize(r.Width, r.Height))
					}
				}
			}
			assert.Len(t, seen, count)
		})
	}
}

func TestPackerPaddingSeparatesRects(t *testing.T) {
	p, err := NewPacker(64, 64, MaxRectsBL)
	require.NoError(t, err)
	p.Padding = 4

	p.Insert(NewSizeID(0, 10, 10), NewSizeID(1, 10, 10))
	require.True(t, p.Pack())

	rects := p.Map()
	a, b := rects[0], rects[1]
	assert.Equal(t, 10, a.Width)
	assert.Equal(t, 10, b.Width)
	gapX := max(b.X-a.Right(), a.X-b.Right())
	gapY := max(b.Y-a.Bottom(), a.Y-b.Bottom())
	assert.GreaterOrEqual(t, max(gapX, gapY), 4)
	assert.Equal(t, NewSize(28, 14), NewSize(p.Size().Width, p.Size().Height))
}

func TestPackerOnline(t *testing.T) {
	p, err := NewPacker(20, 20, GuillotineBSSF)
	require.NoError(t, err)
	p.Online = true

	assert.True(t, p.InsertSize(1, 20, 10))
	assert.True(t, p.InsertSize(2, 20, 10))
	assert.False(t, p.InsertSize(3, 1, 1))
	assert.Empty(t, p.Unpacked())
	assert.Equal(t, 1.0, p.Used(false))
}

func TestPackerRejectsInvalidSizes(t *testing.T) {
	p, err := NewPacker(20, 20, MaxRectsBAF)
	require.NoError(t, err)

	p.Insert(NewSizeID(1, 5, 5), NewSizeID(2, 0, 5), NewSizeID(3, 5, -2))
	assert.False(t, p.Pack())
	assert.Len(t, p.Rects(), 1)
	assert.ErrorIs(t, Validate(p.Unpacked()), ErrInvalidSize)
	assert.NoError(t, Validate([]Size{NewSize(1, 1)}))
	assert.ElementsMatch(t, []int{2, 3}, []int{p.Unpacked()[0].ID, p.Unpacked()[1].ID})
}

func TestPackerSortOrder(t *testing.T) {
	p, err := NewPacker(100, 100, MaxRectsBL)
	require.NoError(t, err)

	p.Insert(NewSizeID(1, 10, 10), NewSizeID(2, 40, 40), NewSizeID(3, 20, 20))
	require.True(t, p.Pack())
	assert.Equal(t, []int{2, 3, 1}, ids(p.Rects()))

	p.Clear()
	p.Sorter(SortArea, true)
	p.Insert(NewSizeID(1, 10, 10), NewSizeID(2, 40, 40), NewSizeID(3, 20, 20))
	require.True(t, p.Pack())
	assert.Equal(t, []int{1, 3, 2}, ids(p.Rects()))

	p.Clear()
	p.Sorter(nil, false)
	p.Insert(NewSizeID(3, 20, 20), NewSizeID(1, 10, 10))
	require.True(t, p.Pack())
	assert.Equal(t, []int{3, 1}, ids(p.Rects()))
}

func ids(rects []Rect) []int {
	out := make([]int, len(rects))
	for i, r := range rects {
		out[i] = r.ID
	}
	return out
}

func TestPackerShrink(t *testing.T) {
	for _, heuristic := range []Heuristic{MaxRectsBSSF, GuillotineBAF} {
		t.Run(heuristic.String(), func(t *testing.T) {
			p, err := NewPacker(1024, 1024, heuristic)
			require.NoError(t, err)
			for i := 0; i < 16; i++ {
				p.InsertSize(i, 32, 32)
			}
			require.True(t, p.Pack())
			before := p.Size()

			p.Shrink()
			after := p.Size()
			assert.LessOrEqual(t, after.Area(), before.Area())
			assert.Len(t, p.Rects(), 16)
			requireNoOverlap(t, p.Rects())
			assert.InDelta(t, 1.0, p.Used(true), 1e-9, "16 equal squares tile their bounding box")

			p.Clear()
			assert.Equal(t, NewSize(1024, 1024), p.MaxSize())
			assert.Empty(t, p.Rects())
		})
	}
}

func TestPackerRepackAll(t *testing.T) {
	p, err := NewPacker(256, 256, MaxRectsBSSF)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		p.InsertSize(i, 16, 16)
	}
	require.True(t, p.Pack())
	size := p.Size()
	assert.Equal(t, NewSize(16, 160), size)

	assert.True(t, p.RepackAll())
	assert.Len(t, p.Rects(), 10)
	assert.Equal(t, size, p.MaxSize())
	requireNoOverlap(t, p.Rects())
	assert.Equal(t, 1.0, p.Used(false))
}

func TestPackerFreeRectsForDiagnostics(t *testing.T) {
	p, err := NewPacker(50, 50, GuillotineBAF)
	require.NoError(t, err)
	p.InsertSize(0, 20, 50)
	require.True(t, p.Pack())

	assert.Equal(t, []Rect{NewRect(20, 0, 30, 50)}, p.FreeRects())
	assert.Equal(t, []int{0}, ids(p.Rects()))
}
