package rectpack

import (
	"fmt"
	"slices"
)

// DefaultSize 是默认的最大宽度/高度，取自现代 GPU 常见的最大纹理尺寸。
const DefaultSize = 4096

// Packer 是批量打包前端：暂存尺寸、排序，然后交给具体算法放置。
type Packer struct {
	// unpacked 包含尚未包装或无法包装的尺寸
	unpacked []Size

	// algo 是实现具体包装算法的实例
	algo packAlgorithm

	heuristic   Heuristic
	allowRotate bool

	// maxWidth/maxHeight 是创建时的箱子尺寸，Shrink 之后 Clear 会恢复到它
	maxWidth  int
	maxHeight int

	// sortFunc 定义排序时比较尺寸的函数
	//
	// 默认值：SortArea
	sortFunc SortFunc

	// sortRev 表示是否启用反向排序
	sortRev bool

	// Padding 定义矩形右侧和下方预留的空隙。0 或负数表示紧密排列
	//
	// 默认值：0
	Padding int

	// Online 表示矩形是否在 Insert 时立即放置（在线模式），还是先收集起来等 Pack（离线模式）。
	//
	// 在线模式更快，但没有排序，结果较差；离线模式可以先按大小排序再放置。
	// 构建纹理图集时建议使用离线模式。
	//
	// 默认值：false
	Online bool
}

func newAlgorithm(width, height int, heuristic Heuristic) (packAlgorithm, error) {
	switch heuristic.Algorithm() {
	case MaxRects:
		return newMaxRects(width, height, heuristic)
	case Guillotine:
		return newGuillotine(width, height, heuristic)
	default:
		return nil, fmt.Errorf("%w: %#x", algoErr, uint16(heuristic.Algorithm()))
	}
}

// NewPacker 创建并初始化一个新的矩形包装器
//
// 宽度或高度小于等于 0 返回 ErrDegenerateBin；启发式组合无效时返回错误。
func NewPacker(maxWidth, maxHeight int, heuristic Heuristic) (*Packer, error) {
	if err := heuristic.Validate(); err != nil {
		return nil, err
	}
	algo, err := newAlgorithm(maxWidth, maxHeight, heuristic)
	if err != nil {
		return nil, err
	}
	algo.AllowRotate(false)
	return &Packer{
		algo:      algo,
		heuristic: heuristic,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		sortFunc:  SortArea,
	}, nil
}

// Validate 检查所有尺寸是否为正数，第一个无效的尺寸以 ErrInvalidSize 报告。
func Validate(sizes []Size) error {
	for i, size := range sizes {
		if !size.Valid() {
			return fmt.Errorf("%w: item %d (id %d) is %dx%d", ErrInvalidSize, i, size.ID, size.Width, size.Height)
		}
	}
	return nil
}

// NewDefaultPacker 创建 DefaultSize x DefaultSize、MaxRectsBSSF 的包装器
func NewDefaultPacker() *Packer {
	packer, _ := NewPacker(DefaultSize, DefaultSize, MaxRectsBSSF)
	return packer
}

// Heuristic 返回创建时使用的启发式组合
func (p *Packer) Heuristic() Heuristic {
	return p.heuristic
}

// Size 返回包含所有已包装矩形所需的最小尺寸（含间距）
func (p *Packer) Size() Size {
	var size Size
	for _, rect := range p.algo.Used() {
		size.Width = max(size.Width, rect.Right()+p.Padding)
		size.Height = max(size.Height, rect.Bottom()+p.Padding)
	}
	return size
}

// MaxSize 返回当前箱子尺寸
func (p *Packer) MaxSize() Size {
	return p.algo.MaxSize()
}

// Insert 向包装器中插入多个尺寸
//
// 在线模式下立即放置，返回无法放置的尺寸；离线模式下只是暂存，返回当前暂存的全部尺寸。
func (p *Packer) Insert(sizes ...Size) []Size {
	if p.Online {
		return p.algo.insertAll(p.Padding, sizes)
	}
	p.unpacked = append(p.unpacked, sizes...)
	return p.unpacked
}

// InsertSize 插入指定 ID 和尺寸的矩形，返回是否插入/包装成功
func (p *Packer) InsertSize(id, width, height int) bool {
	result := p.Insert(NewSizeID(id, width, height))
	if p.Online && len(result) != 0 {
		return false
	}
	return true
}

// Sorter 设置排序函数和排序顺序。compare 为 nil 时保持插入顺序
func (p *Packer) Sorter(compare SortFunc, reverse bool) {
	p.sortFunc = compare
	p.sortRev = reverse
}

// Rects 返回所有已成功包装的矩形
func (p *Packer) Rects() []Rect {
	return p.algo.Used()
}

// FreeRects 返回算法当前的空闲矩形，用于诊断输出
func (p *Packer) FreeRects() []Rect {
	return p.algo.Free()
}

// Unpacked 返回暂存但未包装的尺寸
func (p *Packer) Unpacked() []Size {
	return p.unpacked
}

// Used 计算空间利用率
//
//	current - true: 相对于 Size() 的包围盒计算；false: 相对于整个箱子计算
func (p *Packer) Used(current bool) float64 {
	if !current {
		return p.algo.Occupancy()
	}
	size := p.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 0
	}
	return float64(p.algo.UsedArea()) / float64(size.Area())
}

// Map 创建矩形 ID 到矩形的映射
func (p *Packer) Map() map[int]Rect {
	rects := p.algo.Used()
	mapping := make(map[int]Rect, len(rects))
	for _, rect := range rects {
		mapping[rect.ID] = rect
	}
	return mapping
}

// Clear 重置包装器状态（保留配置），箱子恢复为创建时的尺寸
func (p *Packer) Clear() {
	_ = p.algo.Initialize(p.maxWidth, p.maxHeight)
	p.unpacked = p.unpacked[:0]
}

func (p *Packer) sortSizes(sizes []Size) {
	if p.sortFunc != nil {
		if p.sortRev {
			slices.SortStableFunc(sizes, func(a, b Size) int {
				return p.sortFunc(b, a)
			})
		} else {
			slices.SortStableFunc(sizes, p.sortFunc)
		}
	} else if p.sortRev {
		slices.Reverse(sizes)
	}
}

// Pack 尝试打包所有暂存的矩形
//
// 返回 true 表示全部成功；否则失败的尺寸保留在 Unpacked 中，
// 调用方通常用它们开始一个新的箱子。
func (p *Packer) Pack() bool {
	if len(p.unpacked) == 0 {
		return true
	}
	p.sortSizes(p.unpacked)
	failed := p.algo.insertAll(p.Padding, p.unpacked)
	if len(failed) == 0 {
		p.unpacked = p.unpacked[:0]
		return true
	}
	p.unpacked = failed
	return false
}

func (p *Packer) packedSizes() []Size {
	rects := p.algo.Used()
	sizes := make([]Size, 0, len(rects))
	for _, rect := range rects {
		size := rect.Size
		if rect.Rotated {
			size.Width, size.Height = size.Height, size.Width
		}
		sizes = append(sizes, size)
	}
	return sizes
}

// RepackAll 清空后把所有已打包的矩形在当前包围盒内重新打包
func (p *Packer) RepackAll() bool {
	sizes := append(p.packedSizes(), p.unpacked...)
	size := p.Size()
	if size.Width <= 0 || size.Height <= 0 {
		size = NewSize(p.maxWidth, p.maxHeight)
	}
	if err := p.algo.Initialize(size.Width, size.Height); err != nil {
		return false
	}
	p.unpacked = sizes
	return p.Pack()
}

// AllowRotate 设置是否允许矩形旋转以优化布局
//
// 默认值: false
func (p *Packer) AllowRotate(enabled bool) {
	p.allowRotate = enabled
	p.algo.AllowRotate(enabled)
}

// trial 用同样的配置把 sizes 打包进 width x height 的新箱子，全部放下时返回该算法实例
func (p *Packer) trial(width, height int, sizes []Size) (packAlgorithm, bool) {
	algo, err := newAlgorithm(width, height, p.heuristic)
	if err != nil {
		return nil, false
	}
	algo.AllowRotate(p.allowRotate)
	work := slices.Clone(sizes)
	p.sortSizes(work)
	if failed := algo.insertAll(p.Padding, work); len(failed) != 0 {
		return nil, false
	}
	return algo, true
}

// Shrink 在所有矩形都已打包的前提下，缩小箱子直到再小就放不下为止，
// 先二分搜索宽度再搜索高度。返回包围盒是否变小。
func (p *Packer) Shrink() bool {
	if len(p.unpacked) != 0 || len(p.algo.Used()) == 0 {
		return false
	}
	sizes := p.packedSizes()
	start := p.Size()
	best := p.algo
	bestSize := start

	try := func(width, height int) bool {
		algo, ok := p.trial(width, height, sizes)
		if !ok {
			return false
		}
		p.algo = algo
		if size := p.Size(); size.Area() < bestSize.Area() {
			best, bestSize = algo, size
		}
		p.algo = best
		return true
	}

	// 宽度
	lo, hi := 1, bestSize.Width
	for lo < hi {
		mid := (lo + hi) / 2
		if try(mid, bestSize.Height) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	// 高度
	lo, hi = 1, bestSize.Height
	for lo < hi {
		mid := (lo + hi) / 2
		if try(bestSize.Width, mid) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	p.algo = best
	return bestSize.Area() < start.Area()
}
