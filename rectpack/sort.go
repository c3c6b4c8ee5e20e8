package rectpack

import (
	"cmp"
	"fmt"
	"strings"
)

// SortFunc 比较两个尺寸，用于打包前排序。返回负数表示 a 排在 b 前面。
type SortFunc func(a, b Size) int

// 以下排序函数都是降序（从大到小）。大件先放可以减少空闲列表的碎片。

func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

func SortPerimeter(a, b Size) int {
	return cmp.Compare(b.Perimeter(), a.Perimeter())
}

// SortDiff 按宽高差排序，细长的矩形在前。
func SortDiff(a, b Size) int {
	return cmp.Compare(abs(b.Width-b.Height), abs(a.Width-a.Height))
}

func SortMinSide(a, b Size) int {
	return cmp.Compare(b.MinSide(), a.MinSide())
}

func SortMaxSide(a, b Size) int {
	return cmp.Compare(b.MaxSide(), a.MaxSide())
}

func SortRatio(a, b Size) int {
	return cmp.Compare(b.Ratio(), a.Ratio())
}

var sortFuncs = map[string]SortFunc{
	"area":      SortArea,
	"perimeter": SortPerimeter,
	"diff":      SortDiff,
	"minside":   SortMinSide,
	"maxside":   SortMaxSide,
	"ratio":     SortRatio,
	"none":      nil,
}

// ResolveSort 根据名称返回排序函数。"none" 返回 nil，表示保持插入顺序。
func ResolveSort(name string) (SortFunc, error) {
	fn, ok := sortFuncs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown sort function %q", name)
	}
	return fn, nil
}
