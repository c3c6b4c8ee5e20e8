package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"texpack/report"
	"texpack/spritepacker"
)

const (
	VERSION = "0.2.0"
)

var debugInfo DebugInfo

type DebugInfo struct {
	IsDebug          bool
	TotalTime        time.Duration
	PackTime         time.Duration
	ProcessImageTime time.Duration
	CreateJsonTime   time.Duration
	ReportTime       time.Duration
}

func (d *DebugInfo) print() {
	fmt.Printf("图片预处理(裁切等)耗时: %v\n", d.ProcessImageTime)
	fmt.Printf("算法耗时: %v\n", d.PackTime)
	fmt.Printf("JSON元数据创建耗时: %v\n", d.CreateJsonTime)
	fmt.Printf("报告生成耗时: %v\n", d.ReportTime)
	fmt.Printf("总耗时: %v\n", d.TotalTime)
}

// timed 在调试模式下把 fn 的耗时累加到 d
func timed(d *time.Duration, fn func() error) error {
	if !debugInfo.IsDebug {
		return fn()
	}
	start := time.Now()
	err := fn()
	*d += time.Since(start)
	return err
}

// outputResult 输出一页的打包结果
func outputResult(page *spritepacker.Page) {
	fmt.Printf("图集 #%d 大小: %dx%d (箱子 %dx%d)\n", page.Index, page.Width, page.Height, page.BinWidth, page.BinHeight)
	fmt.Printf("空间利用率: %.2f%%\n", page.Occupancy()*100)
	fmt.Printf("已打包矩形数量: %d\n\n", len(page.Sprites))
}

// loadItems 从清单或输入目录读取条目
func loadItems(options *Options) ([]spritepacker.Item, error) {
	if options.ManifestPath != "" {
		result := ImportManifest(options.ManifestPath)
		for _, w := range result.Warnings {
			fmt.Printf("警告: %s\n", w)
		}
		if len(result.Errors) > 0 {
			for _, e := range result.Errors {
				fmt.Printf("错误: %s\n", e)
			}
			return nil, fmt.Errorf("清单 %s 有 %d 个错误", options.ManifestPath, len(result.Errors))
		}
		if len(result.Items) == 0 {
			return nil, fmt.Errorf("清单 %s 中没有条目", options.ManifestPath)
		}
		fmt.Printf("从清单读取 %d 个条目\n", len(result.Items))
		return result.Items, nil
	}
	if options.InputDir == "" {
		return nil, errors.New("需要 -input 或 -manifest")
	}
	return readImageFiles(options)
}

// writeOutputs 把布局和可选的报告写入输出目录
func writeOutputs(options *Options, layout *report.Layout) error {
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	layoutPath := filepath.Join(options.OutputDir, "layout.json")
	if err := timed(&debugInfo.CreateJsonTime, func() error {
		return report.WriteJSON(layoutPath, layout)
	}); err != nil {
		return fmt.Errorf("生成JSON元数据失败: %w", err)
	}
	fmt.Printf("- 图集元数据: %s\n", layoutPath)

	return timed(&debugInfo.ReportTime, func() error {
		if options.Preview {
			for i := range layout.Pages {
				path := filepath.Join(options.OutputDir, report.PageName("preview", i, len(layout.Pages)))
				img := report.RenderPreview(&layout.Pages[i], options.PreviewScale)
				if err := report.SavePreview(path, img); err != nil {
					return fmt.Errorf("保存预览图失败: %w", err)
				}
				fmt.Printf("- 预览图 #%d: %s\n", i, path)
			}
		}
		if options.PDF {
			path := filepath.Join(options.OutputDir, "report.pdf")
			if err := writeFile(path, func(f *os.File) error { return report.WritePDF(f, layout) }); err != nil {
				return fmt.Errorf("生成PDF失败: %w", err)
			}
			fmt.Printf("- PDF 报告: %s\n", path)
		}
		if options.XLSX {
			path := filepath.Join(options.OutputDir, "layout.xlsx")
			if err := writeFile(path, func(f *os.File) error { return report.WriteXLSX(f, layout) }); err != nil {
				return fmt.Errorf("生成Excel失败: %w", err)
			}
			fmt.Printf("- Excel 表格: %s\n", path)
		}
		return nil
	})
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(args []string) error {
	options, err := parseOptions(args)
	if err != nil {
		return err
	}
	debugInfo.IsDebug = options.Debug
	if options.PrintSchema {
		return report.WriteSchema(os.Stdout)
	}

	cfg, err := options.packConfig()
	if err != nil {
		return err
	}
	items, err := loadItems(&options)
	if err != nil {
		return err
	}

	var atlas *spritepacker.Atlas
	err = timed(&debugInfo.PackTime, func() error {
		var e error
		atlas, e = spritepacker.Pack(items, cfg)
		return e
	})
	// 达到页数上限时仍然输出已完成的页面，最后再报告错误
	packErr := err
	if packErr != nil && atlas == nil {
		return packErr
	}
	for _, page := range atlas.Pages {
		outputResult(page)
	}

	layout := report.FromAtlas(atlas, VERSION)
	if err := writeOutputs(&options, layout); err != nil {
		return err
	}
	fmt.Printf("\n成功生成 %d 个图集页面，共 %d 个精灵，总利用率 %.2f%%\n",
		len(layout.Pages), layout.SpriteCount(), layout.Meta.Occupancy*100)
	return packErr
}

func main() {
	start := time.Now()
	err := run(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("texpack: %v", err)
	}
	if debugInfo.IsDebug {
		debugInfo.TotalTime = time.Since(start)
		debugInfo.print()
	}
}
