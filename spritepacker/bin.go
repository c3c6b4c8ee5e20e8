package spritepacker

import (
	"image"
	"math/bits"

	"texpack/rectpack"
)

// Item 是一个待打包的精灵。
type Item struct {
	Name   string
	Width  int
	Height int

	// Source 是原图的边界，Trim 是裁掉透明边后保留的区域（原图坐标）。
	// 未裁剪时两者都为零值。
	Source image.Rectangle
	Trim   image.Rectangle
}

// Sprite 是一个已放置的条目。
type Sprite struct {
	Name string
	// Index 是条目在 Pack 输入中的下标。
	Index   int
	Rect    rectpack.Rect
	Rotated bool
	Source  image.Rectangle
	Trim    image.Rectangle
}

// Trimmed 报告精灵是否裁掉了透明边。
func (s *Sprite) Trimmed() bool {
	if s.Trim.Empty() {
		return false
	}
	return s.Trim != s.Source
}

// Page 是图集中的一页，对应一个箱子。
type Page struct {
	Index int
	// Width/Height 是输出纹理尺寸，AutoSize 时为包围盒，PowerOfTwo 时向上取 2 的幂。
	Width  int
	Height int
	// BinWidth/BinHeight 是算法实际使用的箱子尺寸，Free 中的坐标相对于它。
	BinWidth  int
	BinHeight int

	Sprites []Sprite
	Free    []rectpack.Rect
}

// UsedArea 返回所有精灵的面积之和。
func (p *Page) UsedArea() int {
	area := 0
	for _, s := range p.Sprites {
		area += s.Rect.Area()
	}
	return area
}

// Occupancy 返回精灵面积占页面面积的比例。
func (p *Page) Occupancy() float64 {
	if p.Width <= 0 || p.Height <= 0 {
		return 0
	}
	return float64(p.UsedArea()) / float64(p.Width*p.Height)
}

func newPage(index int, packer *rectpack.Packer, items []Item, cfg *Config) *Page {
	binSize := packer.MaxSize()
	page := &Page{
		Index:     index,
		Width:     binSize.Width,
		Height:    binSize.Height,
		BinWidth:  binSize.Width,
		BinHeight: binSize.Height,
		Free:      append([]rectpack.Rect(nil), packer.FreeRects()...),
	}
	if cfg.AutoSize {
		size := packer.Size()
		page.Width, page.Height = size.Width, size.Height
	}
	if cfg.PowerOfTwo {
		page.Width = nextPowerOfTwo(page.Width)
		page.Height = nextPowerOfTwo(page.Height)
	}

	rects := packer.Rects()
	page.Sprites = make([]Sprite, 0, len(rects))
	for _, r := range rects {
		item := &items[r.ID]
		page.Sprites = append(page.Sprites, Sprite{
			Name:    item.Name,
			Index:   r.ID,
			Rect:    r,
			Rotated: r.Rotated,
			Source:  item.Source,
			Trim:    item.Trim,
		})
	}
	return page
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
