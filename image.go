package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"

	"texpack/spritepacker"
)

// imageExts 是输入目录中会被读取的图片扩展名。
var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"}

// GetImageBBox 检测并裁剪图像的透明区域，返回非透明区域的边界
func GetImageBBox(img image.Image, alphaThreshold uint32) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}
	}
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false
	mark := func(x, y int) {
		found = true
		minX, minY = min(minX, x), min(minY, y)
		maxX, maxY = max(maxX, x), max(maxY, y)
	}
	switch src := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if uint32(src.Pix[i+3]) > alphaThreshold { // 直接访问alpha通道
					mark(x, y)
				}
				i += 4
			}
		}
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if uint32(src.Pix[i+3]) > alphaThreshold {
					mark(x, y)
				}
				i += 4
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if a>>8 > alphaThreshold { // RGBA()返回的是16bit，转换为8bit
					mark(x, y)
				}
			}
		}
	}
	if !found {
		return bounds // 图像完全透明
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// parallel 把 [0, n) 分成 runtime.NumCPU() 批并行执行 fn
func parallel(n int, fn func(i int)) {
	workers := runtime.NumCPU()
	if n < workers {
		// 如果任务数量少于CPU核心数，直接顺序执行
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batch := (n + workers - 1) / workers
	for from := 0; from < n; from += batch {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for i := from; i < to; i++ {
				fn(i)
			}
		}(from, min(from+batch, n))
	}
	wg.Wait()
}

func processImages(paths []string, options *Options) ([]spritepacker.Item, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.ProcessImageTime += time.Since(start)
		}()
	}
	items := make([]spritepacker.Item, len(paths))
	errChan := make(chan error, len(paths))
	parallel(len(paths), func(i int) {
		path := paths[i]
		items[i].Name = filepath.Base(path)
		if options.IsTrimTransparent {
			// 完全解码图片以分析透明区域
			src, err := imaging.Open(path)
			if err != nil {
				errChan <- fmt.Errorf("无法解码图片 %s: %w", path, err)
				return
			}
			trim := GetImageBBox(src, uint32(options.TransparencyThreshold))
			items[i].Source = src.Bounds()
			items[i].Trim = trim
			items[i].Width, items[i].Height = trim.Dx(), trim.Dy()
			return
		}
		// 只解码图片头部以获取尺寸信息
		file, err := os.Open(path)
		if err != nil {
			errChan <- err
			return
		}
		cfg, _, err := image.DecodeConfig(file)
		file.Close()
		if err != nil {
			errChan <- fmt.Errorf("无法解码图片 %s: %w", path, err)
			return
		}
		items[i].Width, items[i].Height = cfg.Width, cfg.Height
	})

	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// listImages 返回目录中所有支持格式的图片路径
func listImages(dir string, naturalSort bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("输入目录 %s 不可读: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range imageExts {
			if ext == want {
				paths = append(paths, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	if naturalSort {
		sort.Sort(natural.StringSlice(paths))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("输入目录 %s 中没有找到任何图片文件", dir)
	}
	return paths, nil
}

// readImageFiles 读取目录中的所有图片文件并返回它们的尺寸
func readImageFiles(options *Options) ([]spritepacker.Item, error) {
	paths, err := listImages(options.InputDir, options.IsFilesSort)
	if err != nil {
		return nil, err
	}
	fmt.Printf("找到 %d 个图片文件\n", len(paths))
	if options.IsTrimTransparent {
		fmt.Println("已开启透明区域裁切...")
	}
	items, err := processImages(paths, options)
	if err != nil {
		return nil, err
	}
	fmt.Printf("预先处理 %d 个图片文件\n", len(items))
	return items, nil
}
