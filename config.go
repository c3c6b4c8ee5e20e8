package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"texpack/rectpack"
	"texpack/spritepacker"
)

type Options struct {
	ConfigPath            string `json:"-"`            // 配置文件
	InputDir              string `json:"input"`        // 输入目录
	ManifestPath          string `json:"manifest"`     // 条目清单 (CSV/XLSX)
	OutputDir             string `json:"output"`       // 输出目录
	AtlasMaxWidth         int    `json:"width"`        // 最大宽度
	AtlasMaxHeight        int    `json:"height"`       // 最大高度
	Algorithm             string `json:"algorithm"`    // 算法
	Variant               string `json:"variant"`      // 算法变体
	Split                 string `json:"split"`        // Guillotine 分割规则
	SortBy                string `json:"sort"`         // 尺寸排序
	IsFilesSort           bool   `json:"naturalSort"`  // 是否按文件名排序
	SpritePadding         int    `json:"padding"`      // 填充
	IsAllowRotate         bool   `json:"rotate"`       // 是否允许旋转
	IsAutoSize            bool   `json:"autoSize"`     // 是否自动收缩
	PowerOfTwo            bool   `json:"powerOfTwo"`   // 是否使用2的幂
	MaxPages              int    `json:"maxPages"`     // 最大页数，0 不限
	IsTrimTransparent     bool   `json:"trim"`         // 是否修剪透明部分
	TransparencyThreshold uint   `json:"threshold"`    // 透明度阈值
	Preview               bool   `json:"preview"`      // 输出预览图
	PreviewScale          int    `json:"previewScale"` // 预览图放大倍数
	PDF                   bool   `json:"pdf"`          // 输出 PDF 报告
	XLSX                  bool   `json:"xlsx"`         // 输出 Excel 表格
	PrintSchema           bool   `json:"-"`            // 打印布局 JSON Schema
	Debug                 bool   `json:"debug"`        // 打印耗时
}

func defaultOptions() Options {
	return Options{
		OutputDir:         "output",
		AtlasMaxWidth:     rectpack.DefaultSize,
		AtlasMaxHeight:    rectpack.DefaultSize,
		Algorithm:         "MaxRects",
		Variant:           "BestAreaFit",
		SortBy:            "area",
		IsFilesSort:       true,
		IsAllowRotate:     true,
		IsAutoSize:        true,
		IsTrimTransparent: true,
		PreviewScale:      1,
	}
}

func newFlagSet(o *Options) *flag.FlagSet {
	fs := flag.NewFlagSet("texpack", flag.ContinueOnError)
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "JSON 配置文件，命令行参数优先")
	fs.StringVar(&o.InputDir, "input", o.InputDir, "输入目录")
	fs.StringVar(&o.ManifestPath, "manifest", o.ManifestPath, "条目清单 (CSV 或 XLSX)，代替输入目录")
	fs.StringVar(&o.OutputDir, "output", o.OutputDir, "输出目录")
	fs.IntVar(&o.AtlasMaxWidth, "width", o.AtlasMaxWidth, "打包区域宽度")
	fs.IntVar(&o.AtlasMaxHeight, "height", o.AtlasMaxHeight, "打包区域高度")
	fs.StringVar(&o.Algorithm, "algorithm", o.Algorithm, "打包算法 (MaxRects, Guillotine)")
	fs.StringVar(&o.Variant, "variant", o.Variant, "打包算法变体 (BestShortSideFit, BestLongSideFit, BestAreaFit, BottomLeft, ContactPoint, WorstAreaFit, WorstShortSideFit, WorstLongSideFit)")
	fs.StringVar(&o.Split, "split", o.Split, "Guillotine 分割规则 (ShorterLeftoverAxis, LongerLeftoverAxis, MinimizeArea, MaximizeArea, ShorterAxis, LongerAxis)")
	fs.StringVar(&o.SortBy, "sort", o.SortBy, "尺寸排序 (area, perimeter, diff, minside, maxside, ratio, none)")
	fs.BoolVar(&o.IsFilesSort, "natural-sort", o.IsFilesSort, "按文件名自然排序")
	fs.IntVar(&o.SpritePadding, "padding", o.SpritePadding, "填充")
	fs.BoolVar(&o.IsAllowRotate, "rotate", o.IsAllowRotate, "允许矩形旋转")
	fs.BoolVar(&o.IsAutoSize, "auto-size", o.IsAutoSize, "启用自动布局区域收缩优化")
	fs.BoolVar(&o.PowerOfTwo, "pow-of-two", o.PowerOfTwo, "启用2的幂")
	fs.IntVar(&o.MaxPages, "max-pages", o.MaxPages, "最大页数，0 表示不限")
	fs.BoolVar(&o.IsTrimTransparent, "trim", o.IsTrimTransparent, "修剪透明部分")
	fs.UintVar(&o.TransparencyThreshold, "threshold", o.TransparencyThreshold, "透明度阈值")
	fs.BoolVar(&o.Preview, "preview", o.Preview, "输出每页的预览图")
	fs.IntVar(&o.PreviewScale, "preview-scale", o.PreviewScale, "预览图放大倍数")
	fs.BoolVar(&o.PDF, "pdf", o.PDF, "输出 PDF 报告")
	fs.BoolVar(&o.XLSX, "xlsx", o.XLSX, "输出 Excel 表格")
	fs.BoolVar(&o.PrintSchema, "schema", o.PrintSchema, "打印布局 JSON Schema 后退出")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "打印各阶段耗时")
	return fs
}

// parseOptions 解析命令行。指定了 -config 时先读取配置文件，再用命令行中显式给出的参数覆盖。
func parseOptions(args []string) (Options, error) {
	options := defaultOptions()
	if err := newFlagSet(&options).Parse(args); err != nil {
		return options, err
	}
	if options.ConfigPath == "" {
		return options, nil
	}

	path := options.ConfigPath
	options, err := loadOptions(path)
	if err != nil {
		return options, err
	}
	options.ConfigPath = path
	// 第二遍解析：默认值来自配置文件，显式给出的参数覆盖它们
	if err := newFlagSet(&options).Parse(args); err != nil {
		return options, err
	}
	return options, nil
}

// loadOptions 读取 JSON 配置文件，文件中没有的字段保持默认值。
func loadOptions(path string) (Options, error) {
	options := defaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return options, err
	}
	if err := json.Unmarshal(data, &options); err != nil {
		return options, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return options, nil
}

// heuristic 把算法、变体和分割规则的名称解析为 rectpack.Heuristic。
func (o *Options) heuristic() (rectpack.Heuristic, error) {
	h, err := rectpack.ResolveAlgorithm(o.Algorithm, o.Variant)
	if err != nil {
		return 0, err
	}
	if o.Split == "" {
		return h, nil
	}
	if h.Algorithm() != rectpack.Guillotine {
		return 0, fmt.Errorf("-split 只适用于 Guillotine 算法，当前为 %s", o.Algorithm)
	}
	split, err := rectpack.ParseSplit(o.Split)
	if err != nil {
		return 0, err
	}
	return h | split, nil
}

// packConfig 把选项转换为 spritepacker 的配置。
func (o *Options) packConfig() (spritepacker.Config, error) {
	h, err := o.heuristic()
	if err != nil {
		return spritepacker.Config{}, err
	}
	if _, err := rectpack.ResolveSort(o.SortBy); err != nil {
		return spritepacker.Config{}, err
	}
	return spritepacker.Config{
		Width:       o.AtlasMaxWidth,
		Height:      o.AtlasMaxHeight,
		Heuristic:   h,
		AllowRotate: o.IsAllowRotate,
		Padding:     o.SpritePadding,
		AutoSize:    o.IsAutoSize,
		PowerOfTwo:  o.PowerOfTwo,
		NaturalSort: o.IsFilesSort,
		Sort:        strings.ToLower(o.SortBy),
		MaxPages:    o.MaxPages,
	}, nil
}
