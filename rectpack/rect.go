package rectpack

import "fmt"

// Point 描述二维空间中的一个位置。原点在左上角，y 轴向下。
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPoint 初始化一个具有指定坐标的新点。
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Eq 判断两个点是否相同。
func (p *Point) Eq(point Point) bool {
	return p.X == point.X && p.Y == point.Y
}

func (p *Point) String() string {
	return fmt.Sprintf("[%v, %v]", p.X, p.Y)
}

// Size 描述一个待打包条目的尺寸。
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// ID 是调用方定义的标识符，打包结果中原样带回。
	ID int `json:"-"`
}

// NewSize 创建具有指定尺寸的新尺寸对象。
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// NewSizeID 创建具有指定尺寸和标识符的新尺寸对象。
func NewSizeID(id, width, height int) Size {
	return Size{ID: id, Width: width, Height: height}
}

// Eq 判断尺寸是否相同，ID 字段被忽略。
func (sz *Size) Eq(size Size) bool {
	return sz.Width == size.Width && sz.Height == size.Height
}

func (sz *Size) String() string {
	return fmt.Sprintf("[%v, %v]", sz.Width, sz.Height)
}

// Area 返回宽度 * 高度。
func (sz *Size) Area() int {
	return sz.Width * sz.Height
}

// Perimeter 返回所有边的总长度。
func (sz *Size) Perimeter() int {
	return (sz.Width + sz.Height) << 1
}

// MaxSide 返回较长边。
func (sz *Size) MaxSide() int {
	return max(sz.Width, sz.Height)
}

// MinSide 返回较短边。
func (sz *Size) MinSide() int {
	return min(sz.Width, sz.Height)
}

// Ratio 返回宽高比。
func (sz *Size) Ratio() float64 {
	return float64(sz.Width) / float64(sz.Height)
}

// Valid 判断宽高是否都为正数。
func (sz *Size) Valid() bool {
	return sz.Width > 0 && sz.Height > 0
}

// Rect 是一个轴对齐矩形：左上角位置加尺寸。
//
// 插入失败时打包器返回高度为 0 的 Rect，调用方在使用坐标前必须先检查 IsEmpty。
type Rect struct {
	Point
	Size
	// Rotated 表示放置时宽高互换了（旋转 90°）。
	Rotated bool `json:"rotated,omitempty"`
}

// NewRect 使用位置和尺寸初始化矩形。
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// NewRectLTRB 使用左/上/右/下边界初始化矩形。
func NewRectLTRB(l, t, r, b int) Rect {
	return Rect{
		Point: Point{X: l, Y: t},
		Size:  Size{Width: r - l, Height: b - t},
	}
}

// Eq 比较位置和尺寸是否相等，忽略 ID 与旋转标记。
func (r *Rect) Eq(rect Rect) bool {
	return r.Point.Eq(rect.Point) && r.Size.Eq(rect.Size)
}

func (r *Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

func (r *Rect) Left() int   { return r.X }
func (r *Rect) Top() int    { return r.Y }
func (r *Rect) Right() int  { return r.X + r.Width }
func (r *Rect) Bottom() int { return r.Y + r.Height }

// ContainsRect 测试 rect 是否完全位于接收者内部。
func (r *Rect) ContainsRect(rect Rect) bool {
	return IsContainedIn(rect, *r)
}

// Contains 测试坐标是否在接收者内部。
func (r *Rect) Contains(x, y int) bool {
	return r.X <= x && x < r.X+r.Width && r.Y <= y && y < r.Y+r.Height
}

// IsEmpty 测试宽度或高度是否小于 1，也就是"未放置"的哨兵值。
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects 测试两个矩形是否有面积重叠（仅共享边不算）。
func (r *Rect) Intersects(rect Rect) bool {
	return rect.X < r.X+r.Width &&
		r.X < rect.X+rect.Width &&
		rect.Y < r.Y+r.Height &&
		r.Y < rect.Y+rect.Height
}

// Intersect 返回两个矩形的重叠区域，没有重叠时返回空矩形。
func (r *Rect) Intersect(rect Rect) (result Rect) {
	x1 := max(r.X, rect.X)
	x2 := min(r.X+r.Width, rect.X+rect.Width)
	y1 := max(r.Y, rect.Y)
	y2 := min(r.Y+r.Height, rect.Y+rect.Height)
	if x2 > x1 && y2 > y1 {
		result.Point = Point{X: x1, Y: y1}
		result.Size = Size{Width: x2 - x1, Height: y2 - y1}
	}
	return
}

// Union 返回同时包含两个矩形的最小矩形。
func (r *Rect) Union(rect Rect) Rect {
	x1 := min(r.X, rect.X)
	x2 := max(r.X+r.Width, rect.X+rect.Width)
	y1 := min(r.Y, rect.Y)
	y2 := max(r.Y+r.Height, rect.Y+rect.Height)
	return NewRect(x1, y1, x2-x1, y2-y1)
}

// IsContainedIn 报告 a 是否完全位于 b 之内。
func IsContainedIn(a, b Rect) bool {
	return a.X >= b.X && a.Y >= b.Y &&
		a.X+a.Width <= b.X+b.Width &&
		a.Y+a.Height <= b.Y+b.Height
}

// CommonIntervalLength returns 0 if the intervals [i1start,i1end] and
// [i2start,i2end] are disjoint, or the length of their overlap otherwise.
func CommonIntervalLength(i1start, i1end, i2start, i2end int) int {
	if i1end < i2start || i2end < i1start {
		return 0
	}
	return min(i1end, i2end) - max(i1start, i2start)
}

func abs(x int) int {
	if x >= 0 {
		return x
	}
	return -x
}

// padSize 在尺寸上加上间距。
func padSize(size *Size, padding int) {
	if padding <= 0 {
		return
	}
	size.Width += padding
	size.Height += padding
}

// unpadRect 从已放置的矩形中去掉间距，间距留在矩形的右侧和下方。
func unpadRect(rect *Rect, padding int) {
	if padding <= 0 {
		return
	}
	rect.Width -= padding
	rect.Height -= padding
}
