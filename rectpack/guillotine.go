package rectpack

import "slices"

// GuillotinePacker 每次放置都把选中的空闲矩形沿一条直线切成两块（"底部"和"右侧"）。
// 空闲矩形之间互不重叠，它们与已放置矩形一起恰好铺满整个箱子。
//
// GuillotinePacker 不是并发安全的。
type GuillotinePacker struct {
	bin

	// AutoMerge 为 true 时每次插入后都执行 MergeFreeList。
	//
	// 默认值：false（通过 NewPacker 创建时为 true）
	AutoMerge bool

	// heuristic 是批量插入使用的选择与分割规则。
	heuristic Heuristic
}

// NewGuillotine 创建一个 width x height 的 Guillotine 打包器。
func NewGuillotine(width, height int) (*GuillotinePacker, error) {
	var p GuillotinePacker
	if err := p.Initialize(width, height); err != nil {
		return nil, err
	}
	return &p, nil
}

func newGuillotine(width, height int, heuristic Heuristic) (*GuillotinePacker, error) {
	p, err := NewGuillotine(width, height)
	if err != nil {
		return nil, err
	}
	p.AutoMerge = true
	p.heuristic = heuristic
	return p, nil
}

// Initialize 重置打包器并设置新的箱子尺寸。零值的 GuillotinePacker 调用它之后即可使用。
func (p *GuillotinePacker) Initialize(width, height int) error {
	return p.reset(width, height)
}

// Insert 放置一个 width x height 的矩形，choice 选择空闲矩形，split 决定切割方向。
//
// 宽或高不是正数，或者没有空间时，返回高度为 0 的矩形。
func (p *GuillotinePacker) Insert(width, height int, choice, split Heuristic) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	placement, ok := p.Find(width, height, choice)
	if !ok {
		return Rect{}
	}
	p.place(placement, split)
	p.commit(placement.Rect)
	return placement.Rect
}

// Find 按 choice 规则在空闲矩形中寻找最佳位置，但不修改打包器。
// 尺寸完全相同的空闲矩形（任一方向）会立即返回 BestScore。
func (p *GuillotinePacker) Find(width, height int, choice Heuristic) (Placement, bool) {
	score, ok := guillotineScores[choice.Bin()]
	if !ok {
		score = ScoreBestAreaFit
	}
	best := Placement{Score: WorstScore, Index: -1}
	if width <= 0 || height <= 0 {
		return best, false
	}
	for i := range p.free {
		free := &p.free[i]
		if width == free.Width && height == free.Height {
			return Placement{Rect: NewRect(free.X, free.Y, width, height), Score: BestScore, Index: i}, true
		}
		if !p.noRotate && height == free.Width && width == free.Height {
			rect := NewRect(free.X, free.Y, height, width)
			rect.Rotated = true
			return Placement{Rect: rect, Score: BestScore, Index: i}, true
		}
		if width <= free.Width && height <= free.Height {
			if s := score(width, height, free); s.Less(best.Score) {
				best = Placement{Rect: NewRect(free.X, free.Y, width, height), Score: s, Index: i}
			}
		}
		if !p.noRotate && height <= free.Width && width <= free.Height {
			if s := score(height, width, free); s.Less(best.Score) {
				rect := NewRect(free.X, free.Y, height, width)
				rect.Rotated = true
				best = Placement{Rect: rect, Score: s, Index: i}
			}
		}
	}
	return best, best.Index >= 0
}

// place 用切割后的两块替换选中的空闲矩形。空闲列表每次都重新构建。
func (p *GuillotinePacker) place(placement Placement, split Heuristic) {
	pieces := SplitFreeRect(p.free[placement.Index], placement.Rect, split)
	next := make([]Rect, 0, len(p.free)+len(pieces)-1)
	next = append(next, p.free[:placement.Index]...)
	next = append(next, p.free[placement.Index+1:]...)
	next = append(next, pieces...)
	p.free = next
	if p.AutoMerge {
		p.MergeFreeList()
	}
}

func (p *GuillotinePacker) insertAll(padding int, sizes []Size) []Size {
	return insertEach(sizes, func(size Size) bool {
		padSize(&size, padding)
		placement, ok := p.Find(size.Width, size.Height, p.heuristic)
		if !ok {
			return false
		}
		p.place(placement, p.heuristic)
		node := placement.Rect
		node.ID = size.ID
		unpadRect(&node, padding)
		p.commit(node)
		return true
	})
}

// splitHorizontally 根据分割规则决定切割方向。
// fixedWidth/fixedHeight 是放置后空闲矩形剩余的宽和高。
func splitHorizontally(free, placed Rect, split Heuristic) bool {
	fixedWidth := free.Width - placed.Width
	fixedHeight := free.Height - placed.Height
	switch split.Split() {
	case SplitShorterLeftoverAxis:
		return fixedWidth <= fixedHeight
	case SplitLongerLeftoverAxis:
		return fixedWidth > fixedHeight
	case SplitMinimizeArea:
		return placed.Width*fixedHeight > fixedWidth*placed.Height
	case SplitMaximizeArea:
		return placed.Width*fixedHeight <= fixedWidth*placed.Height
	case SplitShorterAxis:
		return free.Width <= free.Height
	case SplitLongerAxis:
		return free.Width > free.Height
	default:
		return true
	}
}

// SplitFreeRect 将 free 沿放置在其原点的 placed 切成"底部"和"右侧"两块，
// 只返回宽高都为正的部分。
//
// 水平切割时底部占满 free 的宽度，右侧高度与 placed 相同；
// 垂直切割时底部宽度与 placed 相同，右侧占满 free 的高度。
func SplitFreeRect(free, placed Rect, split Heuristic) []Rect {
	horizontal := splitHorizontally(free, placed, split)

	bottom := NewRect(free.X, free.Y+placed.Height, 0, free.Height-placed.Height)
	right := NewRect(free.X+placed.Width, free.Y, free.Width-placed.Width, 0)
	if horizontal {
		bottom.Width = free.Width
		right.Height = placed.Height
	} else {
		bottom.Width = placed.Width
		right.Height = free.Height
	}

	pieces := make([]Rect, 0, 2)
	if !bottom.IsEmpty() {
		pieces = append(pieces, bottom)
	}
	if !right.IsEmpty() {
		pieces = append(pieces, right)
	}
	return pieces
}

// MergeFreeList 合并共享整条边的相邻空闲矩形：x 与宽度相同且上下相接，
// 或 y 与高度相同且左右相接。重复执行直到一轮没有任何合并，返回合并次数。
//
// 它不会在插入后自动执行（除非设置了 AutoMerge）。
func (p *GuillotinePacker) MergeFreeList() int {
	total := 0
	for {
		next, merged := mergePass(p.free)
		p.free = next
		if merged == 0 {
			return total
		}
		total += merged
	}
}

func mergePass(rects []Rect) ([]Rect, int) {
	work := slices.Clone(rects)
	alive := make([]bool, len(work))
	for i := range alive {
		alive[i] = true
	}
	merged := 0
	for i := range work {
		if !alive[i] {
			continue
		}
		for j := i + 1; j < len(work); j++ {
			if !alive[j] {
				continue
			}
			if r, ok := mergeRects(work[i], work[j]); ok {
				work[i] = r
				alive[j] = false
				merged++
			}
		}
	}
	out := make([]Rect, 0, len(work)-merged)
	for i, r := range work {
		if alive[i] {
			out = append(out, r)
		}
	}
	return out, merged
}

func mergeRects(a, b Rect) (Rect, bool) {
	if a.Width == b.Width && a.X == b.X {
		if a.Y == b.Y+b.Height {
			return NewRect(a.X, b.Y, a.Width, a.Height+b.Height), true
		}
		if a.Y+a.Height == b.Y {
			return NewRect(a.X, a.Y, a.Width, a.Height+b.Height), true
		}
	} else if a.Height == b.Height && a.Y == b.Y {
		if a.X == b.X+b.Width {
			return NewRect(b.X, a.Y, a.Width+b.Width, a.Height), true
		}
		if a.X+a.Width == b.X {
			return NewRect(a.X, a.Y, a.Width+b.Width, a.Height), true
		}
	}
	return Rect{}, false
}
