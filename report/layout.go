// Package report 把打包结果写成 JSON 布局、预览图、PDF 和 Excel 表格。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"texpack/spritepacker"
)

// TimeFormat 是元数据中时间戳的格式。
const TimeFormat = "2006-01-02 15:04:05"

// Region 是一个矩形区域。
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w" jsonschema:"minimum=0"`
	H int `json:"h" jsonschema:"minimum=0"`
}

// SpriteInfo 存储一个精灵在图集中的位置。
type SpriteInfo struct {
	Filename string `json:"filename" jsonschema:"description=Sprite name as given to the packer"`
	// Region 是精灵在页面中的位置，旋转时宽高已经互换。
	Region     Region  `json:"region"`
	SourceSize Size    `json:"sourceSize" jsonschema:"description=Size of the original image before trimming"`
	SourceRect *Region `json:"sourceRect,omitempty" jsonschema:"description=Area kept after trimming in source image coordinates"`
	Trimmed    bool    `json:"trimmed"`
	Rotated    bool    `json:"rotated" jsonschema:"description=True when the sprite is stored rotated by 90 degrees"`
}

// Size 是宽高对。
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// PageInfo 描述图集中的一页。
type PageInfo struct {
	AtlasName string       `json:"atlasName"`
	TotalSize Size         `json:"totalSize" jsonschema:"description=Output texture size"`
	BinSize   Size         `json:"binSize" jsonschema:"description=Size of the bin the packer worked in"`
	Occupancy float64      `json:"occupancy" jsonschema:"minimum=0,maximum=1"`
	Sprites   []SpriteInfo `json:"sprites"`
	// Free 是打包结束时剩余的空闲矩形，只用于诊断。
	Free []Region `json:"free,omitempty"`
}

// Meta 是布局的元数据。
type Meta struct {
	Version   string  `json:"version"`
	BuildID   string  `json:"buildId" jsonschema:"format=uuid"`
	Timestamp string  `json:"timestamp"`
	Heuristic string  `json:"heuristic"`
	Occupancy float64 `json:"occupancy" jsonschema:"minimum=0,maximum=1"`
}

// Layout 是多页图集的完整布局。
type Layout struct {
	Meta  Meta       `json:"meta"`
	Pages []PageInfo `json:"pages"`
}

// SpriteCount 返回所有页面上的精灵数量。
func (l *Layout) SpriteCount() int {
	n := 0
	for _, p := range l.Pages {
		n += len(p.Sprites)
	}
	return n
}

// PageName 返回第 index 页的纹理文件名。只有一页时不带序号。
func PageName(prefix string, index, count int) string {
	if count == 1 {
		return prefix + ".png"
	}
	return fmt.Sprintf("%s_%d.png", prefix, index)
}

// FromAtlas 把打包结果转换为布局。
func FromAtlas(atlas *spritepacker.Atlas, version string) *Layout {
	layout := &Layout{
		Meta: Meta{
			Version:   version,
			BuildID:   atlas.ID,
			Timestamp: atlas.Created.Format(TimeFormat),
			Heuristic: atlas.Heuristic.String(),
			Occupancy: atlas.Occupancy(),
		},
		Pages: make([]PageInfo, len(atlas.Pages)),
	}
	for i, page := range atlas.Pages {
		info := &layout.Pages[i]
		info.AtlasName = PageName("atlas", i, len(atlas.Pages))
		info.TotalSize = Size{W: page.Width, H: page.Height}
		info.BinSize = Size{W: page.BinWidth, H: page.BinHeight}
		info.Occupancy = page.Occupancy()
		info.Sprites = make([]SpriteInfo, 0, len(page.Sprites))
		for _, s := range page.Sprites {
			info.Sprites = append(info.Sprites, spriteInfo(&s))
		}
		for _, r := range page.Free {
			info.Free = append(info.Free, Region{X: r.X, Y: r.Y, W: r.Width, H: r.Height})
		}
	}
	return layout
}

func spriteInfo(s *spritepacker.Sprite) SpriteInfo {
	info := SpriteInfo{
		Filename: s.Name,
		Region:   Region{X: s.Rect.X, Y: s.Rect.Y, W: s.Rect.Width, H: s.Rect.Height},
		Rotated:  s.Rotated,
	}
	// 原始尺寸按未旋转的方向记录
	info.SourceSize = Size{W: s.Rect.Width, H: s.Rect.Height}
	if s.Rotated {
		info.SourceSize = Size{W: s.Rect.Height, H: s.Rect.Width}
	}
	if !s.Source.Empty() {
		info.SourceSize = Size{W: s.Source.Dx(), H: s.Source.Dy()}
	}
	if s.Trimmed() {
		info.Trimmed = true
		info.SourceRect = &Region{X: s.Trim.Min.X, Y: s.Trim.Min.Y, W: s.Trim.Dx(), H: s.Trim.Dy()}
	}
	return info
}

// Encode 把布局以缩进 JSON 写入 w。
func Encode(w io.Writer, layout *Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(layout)
}

// WriteJSON 把布局写入 path，必要时创建父目录。
func WriteJSON(path string, layout *Layout) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadJSON 从 path 读取布局。
func ReadJSON(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("解析布局 %s 失败: %w", path, err)
	}
	return &layout, nil
}
