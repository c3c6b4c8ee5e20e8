package rectpack

// MaxRectsPacker 维护一组"最大"空闲矩形：空闲矩形之间可以重叠，
// 但任何一个都不会被另一个完全包含。
//
// 每次放置时，放置的矩形会与所有空闲矩形求交并切分，而不仅仅是被选中的那一个。
// MaxRectsPacker 不是并发安全的。
type MaxRectsPacker struct {
	bin

	// heuristic 是批量插入使用的选择规则。
	heuristic Heuristic
}

// NewMaxRects 创建一个 width x height 的 MaxRects 打包器。
func NewMaxRects(width, height int) (*MaxRectsPacker, error) {
	var p MaxRectsPacker
	if err := p.Initialize(width, height); err != nil {
		return nil, err
	}
	return &p, nil
}

func newMaxRects(width, height int, heuristic Heuristic) (*MaxRectsPacker, error) {
	p, err := NewMaxRects(width, height)
	if err != nil {
		return nil, err
	}
	p.heuristic = heuristic
	return p, nil
}

// Initialize 重置打包器并设置新的箱子尺寸。
func (p *MaxRectsPacker) Initialize(width, height int) error {
	return p.reset(width, height)
}

// Insert 按 choice 规则（BestShortSideFit、BestLongSideFit、BestAreaFit、
// BottomLeft、ContactPoint）放置一个矩形。其他规则按 BestShortSideFit 处理。
//
// 宽或高不是正数，或者没有空间时，返回高度为 0 的矩形。
func (p *MaxRectsPacker) Insert(width, height int, choice Heuristic) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	placement, ok := p.Find(width, height, choice)
	if !ok {
		return Rect{}
	}
	p.place(placement.Rect)
	p.commit(placement.Rect)
	return placement.Rect
}

// scorer 返回 choice 对应的评分函数。ContactPoint 需要空闲列表和箱子尺寸，
// 因此在这里闭包生成，分数取反以保持"越小越好"。
func (p *MaxRectsPacker) scorer(choice Heuristic) ScoreFunc {
	if choice.Bin() == ContactPoint {
		return func(width, height int, free *Rect) Score {
			contact := ContactPointScore(p.width, p.height, free.X, free.Y, width, height, p.free)
			return Score{Primary: -contact}
		}
	}
	if fn, ok := maxRectsScores[choice.Bin()]; ok {
		return fn
	}
	return ScoreBestShortSideFit
}

// Find 寻找最佳位置但不修改打包器。尺寸完全相同的空闲矩形会立即返回 BestScore。
func (p *MaxRectsPacker) Find(width, height int, choice Heuristic) (Placement, bool) {
	best := Placement{Score: WorstScore, Index: -1}
	if width <= 0 || height <= 0 {
		return best, false
	}
	score := p.scorer(choice)
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

// place 用 node 切分每一个与之相交的空闲矩形，然后剔除被包含的空闲矩形。
// 结果写入新的切片，不在遍历中原地删除。
func (p *MaxRectsPacker) place(node Rect) {
	next := make([]Rect, 0, len(p.free)+4)
	for _, free := range p.free {
		if !free.Intersects(node) {
			next = append(next, free)
			continue
		}
		next = append(next, SplitFreeNode(free, node)...)
	}
	p.free = PruneFreeList(next)
}

func (p *MaxRectsPacker) insertAll(padding int, sizes []Size) []Size {
	return insertEach(sizes, func(size Size) bool {
		padSize(&size, padding)
		placement, ok := p.Find(size.Width, size.Height, p.heuristic)
		if !ok {
			return false
		}
		p.place(placement.Rect)
		node := placement.Rect
		node.ID = size.ID
		unpadRect(&node, padding)
		p.commit(node)
		return true
	})
}

// SplitFreeNode 返回 free 中位于 used 之外的部分：上、下、左、右最多四块。
// 每一块都贯穿 free 的另一条轴，所以它们彼此可能重叠。
// used 与 free 不相交时返回 free 本身。
func SplitFreeNode(free, used Rect) []Rect {
	if !free.Intersects(used) {
		return []Rect{free}
	}
	pieces := make([]Rect, 0, 4)

	// top
	if used.Y > free.Y {
		r := free
		r.Height = used.Y - free.Y
		pieces = append(pieces, r)
	}
	// bottom
	if used.Bottom() < free.Bottom() {
		r := free
		r.Y = used.Bottom()
		r.Height = free.Bottom() - used.Bottom()
		pieces = append(pieces, r)
	}
	// left
	if used.X > free.X {
		r := free
		r.Width = used.X - free.X
		pieces = append(pieces, r)
	}
	// right
	if used.Right() < free.Right() {
		r := free
		r.X = used.Right()
		r.Width = free.Right() - used.Right()
		pieces = append(pieces, r)
	}
	return pieces
}

// PruneFreeList 删除被其他空闲矩形包含的空闲矩形。两个完全相同的矩形只保留先出现的那个。
func PruneFreeList(rects []Rect) []Rect {
	out := make([]Rect, 0, len(rects))
	for i, a := range rects {
		redundant := false
		for j, b := range rects {
			if i == j || !IsContainedIn(a, b) {
				continue
			}
			if !IsContainedIn(b, a) || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, a)
		}
	}
	return out
}
