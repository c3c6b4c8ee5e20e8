package rectpack

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateBin 表示箱子的宽度或高度不是正数。
	ErrDegenerateBin = errors.New("bin width and height must be greater than 0")
	// ErrInvalidSize 表示待插入条目的宽度或高度不是正数。这是调用方的错误，不应重试。
	ErrInvalidSize = errors.New("rectangle width and height must be greater than 0")
)

// packAlgorithm 是批量打包前端 Packer 所使用的算法接口。
type packAlgorithm interface {
	// Initialize 重置到初始状态并设置新的箱子尺寸。
	Initialize(width, height int) error

	// Occupancy 返回已用面积占箱子面积的比例，范围 0.0 到 1.0。
	Occupancy() float64

	// insertAll 依次放置尺寸，padding 为矩形间的间距。
	// 返回无法放置的尺寸。
	insertAll(padding int, sizes []Size) []Size

	// Used 返回已放置的矩形。
	Used() []Rect

	// Free 返回当前的空闲矩形。
	Free() []Rect

	// AllowRotate 设置是否允许旋转 90° 以获得更好的放置。
	AllowRotate(enabled bool)

	// MaxSize 返回箱子尺寸。
	MaxSize() Size

	// UsedArea 返回已使用的总面积。
	UsedArea() int
}

// bin 保存两种算法共有的状态：箱子尺寸、已放置矩形和空闲矩形。
//
// 零值的 noRotate 为 false，即默认两个方向都会尝试。
type bin struct {
	width    int
	height   int
	used     []Rect
	free     []Rect
	usedArea int
	noRotate bool
}

// reset 校验尺寸并把整个箱子作为唯一的空闲矩形。
func (b *bin) reset(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w (given %vx%v)", ErrDegenerateBin, width, height)
	}
	b.width = width
	b.height = height
	b.usedArea = 0
	b.used = nil
	b.free = []Rect{NewRect(0, 0, width, height)}
	return nil
}

// Occupancy 返回 sum(已用面积) / (宽 * 高)。未初始化的箱子返回 0。
func (b *bin) Occupancy() float64 {
	area := b.width * b.height
	if area <= 0 {
		return 0
	}
	return float64(b.usedArea) / float64(area)
}

// Used 返回已放置的矩形（按插入顺序，由内部管理，如需修改请复制）。
func (b *bin) Used() []Rect {
	return b.used
}

// Free 返回空闲矩形（由内部管理，如需修改请复制）。
func (b *bin) Free() []Rect {
	return b.free
}

// AllowRotate 设置是否允许旋转矩形。
//
// 默认值: true
func (b *bin) AllowRotate(enabled bool) {
	b.noRotate = !enabled
}

// Width 返回箱子宽度。
func (b *bin) Width() int {
	return b.width
}

// Height 返回箱子高度。
func (b *bin) Height() int {
	return b.height
}

// MaxSize 返回箱子尺寸。
func (b *bin) MaxSize() Size {
	return NewSize(b.width, b.height)
}

// UsedArea 返回已使用的总面积。
func (b *bin) UsedArea() int {
	return b.usedArea
}

// commit 记录一次成功的放置。
func (b *bin) commit(r Rect) {
	b.usedArea += r.Area()
	b.used = append(b.used, r)
}

// insertEach 是两种算法共用的批量插入：按顺序逐个放置，收集失败的尺寸。
func insertEach(sizes []Size, place func(size Size) bool) []Size {
	var failed []Size
	for _, size := range sizes {
		if !size.Valid() || !place(size) {
			failed = append(failed, size)
		}
	}
	return failed
}
