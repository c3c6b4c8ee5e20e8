package report

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// palette 是精灵的填充色，按下标循环使用。
var palette = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 255},
	{R: 33, G: 150, B: 243, A: 255},
	{R: 255, G: 152, B: 0, A: 255},
	{R: 156, G: 39, B: 176, A: 255},
	{R: 0, G: 188, B: 212, A: 255},
	{R: 244, G: 67, B: 54, A: 255},
	{R: 255, G: 235, B: 59, A: 255},
	{R: 121, G: 85, B: 72, A: 255},
}

var (
	backgroundColor = color.NRGBA{R: 32, G: 32, B: 32, A: 255}
	freeColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// RenderPreview 绘制一页的诊断图：精灵用纯色填充，空闲矩形画白色边框。
// scale 大于 1 时用最近邻放大。
func RenderPreview(page *PageInfo, scale int) *image.NRGBA {
	w, h := max(page.TotalSize.W, 1), max(page.TotalSize.H, 1)
	dst := imaging.New(w, h, backgroundColor)
	bounds := dst.Bounds()

	for i, s := range page.Sprites {
		r := image.Rect(s.Region.X, s.Region.Y, s.Region.X+s.Region.W, s.Region.Y+s.Region.H).Intersect(bounds)
		if r.Empty() {
			continue
		}
		// 缩进一像素，相邻精灵之间留出可见的缝
		fill := r
		if fill.Dx() > 2 && fill.Dy() > 2 {
			fill = fill.Inset(1)
		}
		tile := imaging.New(fill.Dx(), fill.Dy(), palette[i%len(palette)])
		dst = imaging.Paste(dst, tile, fill.Min)
	}
	for _, f := range page.Free {
		outline(dst, image.Rect(f.X, f.Y, f.X+f.W, f.Y+f.H), freeColor)
	}

	if scale > 1 {
		dst = imaging.Resize(dst, w*scale, h*scale, imaging.NearestNeighbor)
	}
	return dst
}

// outline 画出 r 的一像素边框，超出图像的部分被裁掉。
func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	b := img.Bounds()
	for x := r.Min.X; x < r.Max.X; x++ {
		setClipped(img, b, x, r.Min.Y, c)
		setClipped(img, b, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setClipped(img, b, r.Min.X, y, c)
		setClipped(img, b, r.Max.X-1, y, c)
	}
}

func setClipped(img *image.NRGBA, b image.Rectangle, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(b) {
		img.SetNRGBA(x, y, c)
	}
}

// SavePreview 把预览图保存为 path，格式由扩展名决定。
func SavePreview(path string, img image.Image) error {
	return imaging.Save(img, path)
}
