// Package spritepacker 把一组精灵打包成一页或多页图集。
package spritepacker

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"

	"texpack/rectpack"
)

var (
	// ErrItemTooLarge 表示某个条目连一个空箱子都放不下。
	ErrItemTooLarge = errors.New("item does not fit into an empty page")
	// ErrTooManyPages 表示达到 MaxPages 时仍有条目未放置。
	ErrTooManyPages = errors.New("page limit reached")
)

// Config 控制多页打包。
type Config struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Heuristic   rectpack.Heuristic `json:"-"`
	AllowRotate bool               `json:"allowRotate"`
	Padding     int                `json:"padding"`
	// AutoSize 在最后一页全部放下后收缩箱子，并把页面尺寸设为包围盒。
	AutoSize   bool `json:"autoSize"`
	PowerOfTwo bool `json:"powerOfTwo"`
	// NaturalSort 在尺寸排序之前先按名称自然排序，使相同尺寸的条目顺序稳定。
	NaturalSort bool `json:"naturalSort"`
	// Sort 是 rectpack.ResolveSort 接受的名称，空字符串等同于 "area"。
	Sort string `json:"sort"`
	// MaxPages 为 0 表示不限制页数。
	MaxPages int `json:"maxPages"`
}

// DefaultConfig 返回 4096x4096、MaxRects/BestAreaFit 的配置。
func DefaultConfig() Config {
	return Config{
		Width:       rectpack.DefaultSize,
		Height:      rectpack.DefaultSize,
		Heuristic:   rectpack.MaxRectsBAF,
		NaturalSort: true,
		Sort:        "area",
	}
}

// Atlas 是一次打包的结果。
type Atlas struct {
	// ID 唯一标识本次构建。
	ID        string
	Created   time.Time
	Heuristic rectpack.Heuristic
	Pages     []*Page
}

// SpriteCount 返回所有页面上的精灵数量。
func (a *Atlas) SpriteCount() int {
	n := 0
	for _, p := range a.Pages {
		n += len(p.Sprites)
	}
	return n
}

// Occupancy 返回全部精灵面积占全部页面面积的比例。
func (a *Atlas) Occupancy() float64 {
	used, total := 0, 0
	for _, p := range a.Pages {
		used += p.UsedArea()
		total += p.Width * p.Height
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

// Lookup 按名称查找精灵，返回所在页和精灵。
func (a *Atlas) Lookup(name string) (*Page, Sprite, bool) {
	for _, p := range a.Pages {
		for _, s := range p.Sprites {
			if s.Name == name {
				return p, s, true
			}
		}
	}
	return nil, Sprite{}, false
}

// Pack 把 items 依次放进一页又一页，直到全部放下。
//
// 尺寸无效的条目返回 rectpack.ErrInvalidSize；放不进空页的条目返回 ErrItemTooLarge。
// 超过 MaxPages 时返回已经完成的图集和 ErrTooManyPages。
func Pack(items []Item, cfg Config) (*Atlas, error) {
	if err := cfg.Heuristic.Validate(); err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w (given %vx%v)", rectpack.ErrDegenerateBin, cfg.Width, cfg.Height)
	}
	sortName := cfg.Sort
	if sortName == "" {
		sortName = "area"
	}
	sortFunc, err := rectpack.ResolveSort(sortName)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	if cfg.NaturalSort {
		slices.SortStableFunc(order, func(a, b int) int {
			switch {
			case natural.Less(items[a].Name, items[b].Name):
				return -1
			case natural.Less(items[b].Name, items[a].Name):
				return 1
			}
			return 0
		})
	}

	sizes := make([]rectpack.Size, 0, len(items))
	for _, i := range order {
		item := &items[i]
		size := rectpack.NewSizeID(i, item.Width, item.Height)
		if err := rectpack.Validate([]rectpack.Size{size}); err != nil {
			return nil, fmt.Errorf("%s: %w", item.Name, err)
		}
		if !fits(&cfg, item.Width, item.Height) {
			return nil, fmt.Errorf("%w: %s is %dx%d, page is %dx%d", ErrItemTooLarge, item.Name, item.Width, item.Height, cfg.Width, cfg.Height)
		}
		sizes = append(sizes, size)
	}

	atlas := &Atlas{
		ID:        uuid.New().String(),
		Created:   time.Now(),
		Heuristic: cfg.Heuristic,
	}
	for len(sizes) > 0 {
		if cfg.MaxPages > 0 && len(atlas.Pages) >= cfg.MaxPages {
			return atlas, fmt.Errorf("%w: %d items left after %d pages", ErrTooManyPages, len(sizes), len(atlas.Pages))
		}
		packer, err := rectpack.NewPacker(cfg.Width, cfg.Height, cfg.Heuristic)
		if err != nil {
			return nil, err
		}
		packer.AllowRotate(cfg.AllowRotate)
		packer.Padding = cfg.Padding
		packer.Sorter(sortFunc, false)
		packer.Insert(sizes...)

		done := packer.Pack()
		if len(packer.Rects()) == 0 {
			first := packer.Unpacked()[0]
			return nil, fmt.Errorf("%w: %s", ErrItemTooLarge, items[first.ID].Name)
		}
		if done && cfg.AutoSize {
			packer.Shrink()
		}
		atlas.Pages = append(atlas.Pages, newPage(len(atlas.Pages), packer, items, &cfg))
		sizes = slices.Clone(packer.Unpacked())
	}
	return atlas, nil
}

// fits 报告 width x height（加上间距）能否放进一个空页。
func fits(cfg *Config, width, height int) bool {
	pad := max(cfg.Padding, 0)
	w, h := width+pad, height+pad
	if w <= cfg.Width && h <= cfg.Height {
		return true
	}
	return cfg.AllowRotate && h <= cfg.Width && w <= cfg.Height
}
