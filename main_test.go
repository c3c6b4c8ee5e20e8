package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"texpack/rectpack"
	"texpack/report"
	"texpack/spritepacker"
)

func writeFileT(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeSprite 保存一张 w x h 的透明图片，opaque 区域不透明。
func writeSprite(t *testing.T, dir, name string, w, h int, opaque image.Rectangle) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{})
	if !opaque.Empty() {
		tile := imaging.New(opaque.Dx(), opaque.Dy(), color.NRGBA{R: 255, A: 255})
		img = imaging.Paste(img, tile, opaque.Min)
	}
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}

func TestParseOptionsDefaults(t *testing.T) {
	options, err := parseOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultOptions(), options)

	h, err := options.heuristic()
	require.NoError(t, err)
	assert.Equal(t, rectpack.MaxRectsBAF, h)
}

func TestParseOptionsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFileT(t, dir, "texpack.json", `{
		"width": 256,
		"height": 128,
		"padding": 3,
		"algorithm": "Guillotine",
		"variant": "BestShortSideFit",
		"split": "MinimizeArea",
		"rotate": false
	}`)

	options, err := parseOptions([]string{"-config", path, "-padding", "1", "-height", "512"})
	require.NoError(t, err)
	assert.Equal(t, path, options.ConfigPath)
	assert.Equal(t, 256, options.AtlasMaxWidth)
	assert.Equal(t, 512, options.AtlasMaxHeight, "explicit flags win over the config file")
	assert.Equal(t, 1, options.SpritePadding)
	assert.False(t, options.IsAllowRotate)
	assert.True(t, options.IsAutoSize, "fields missing from the file keep their defaults")

	cfg, err := options.packConfig()
	require.NoError(t, err)
	assert.Equal(t, rectpack.GuillotineBSSF|rectpack.SplitMinimizeArea, cfg.Heuristic)
	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 1, cfg.Padding)

	_, err = parseOptions([]string{"-config", filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	bad := writeFileT(t, dir, "bad.json", `{"width": "wide"}`)
	_, err = parseOptions([]string{"-config", bad})
	assert.Error(t, err)
}

func TestOptionsHeuristicErrors(t *testing.T) {
	options := defaultOptions()
	options.Split = "MinimizeArea"
	_, err := options.heuristic()
	assert.Error(t, err, "split only applies to Guillotine")

	options = defaultOptions()
	options.Variant = "WorstAreaFit"
	_, err = options.heuristic()
	assert.Error(t, err)

	options = defaultOptions()
	options.SortBy = "random"
	_, err = options.packConfig()
	assert.Error(t, err)
}

func TestGetImageBBox(t *testing.T) {
	img := imaging.New(16, 16, color.NRGBA{})
	img = imaging.Paste(img, imaging.New(8, 4, color.NRGBA{A: 255}), image.Pt(4, 6))
	assert.Equal(t, image.Rect(4, 6, 12, 10), GetImageBBox(img, 0))

	faint := imaging.New(4, 4, color.NRGBA{A: 10})
	assert.Equal(t, faint.Bounds(), GetImageBBox(faint, 20), "fully transparent images keep their bounds")
	assert.Equal(t, faint.Bounds(), GetImageBBox(faint, 0))

	rgba := image.NewRGBA(image.Rect(0, 0, 5, 5))
	rgba.Set(2, 3, color.RGBA{A: 255})
	assert.Equal(t, image.Rect(2, 3, 3, 4), GetImageBBox(rgba, 0))

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	assert.Equal(t, gray.Bounds(), GetImageBBox(gray, 0))
}

func TestParallelVisitsEveryIndex(t *testing.T) {
	for _, n := range []int{0, 1, 3, 100, 1001} {
		seen := make([]int, n)
		parallel(n, func(i int) { seen[i]++ })
		for i, c := range seen {
			require.Equalf(t, 1, c, "index %d of %d", i, n)
		}
	}
}

func TestReadImageFiles(t *testing.T) {
	dir := t.TempDir()
	writeSprite(t, dir, "walk_10.png", 16, 16, image.Rect(2, 2, 14, 10))
	writeSprite(t, dir, "walk_2.png", 8, 8, image.Rect(0, 0, 8, 8))
	writeFileT(t, dir, "notes.txt", "not an image")

	options := defaultOptions()
	options.InputDir = dir
	items, err := readImageFiles(&options)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "walk_2.png", items[0].Name)
	assert.Equal(t, "walk_10.png", items[1].Name)
	assert.Equal(t, 12, items[1].Width)
	assert.Equal(t, 8, items[1].Height)
	assert.Equal(t, image.Rect(2, 2, 14, 10), items[1].Trim)
	assert.Equal(t, image.Rect(0, 0, 16, 16), items[1].Source)

	options.IsTrimTransparent = false
	items, err = readImageFiles(&options)
	require.NoError(t, err)
	assert.Equal(t, 16, items[1].Width)
	assert.True(t, items[1].Trim.Empty())

	options.InputDir = t.TempDir()
	_, err = readImageFiles(&options)
	assert.Error(t, err)
}

func TestImportManifestCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFileT(t, dir, "items.csv", "Name;Width;Height;Qty\nbutton;40;20;3\n\nicon;16;16;\n")

	result := ImportManifest(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Items, 4)
	assert.Equal(t, spritepacker.Item{Name: "button_0", Width: 40, Height: 20}, result.Items[0])
	assert.Equal(t, "button_2", result.Items[2].Name)
	assert.Equal(t, spritepacker.Item{Name: "icon", Width: 16, Height: 16}, result.Items[3])
}

func TestImportManifestPositional(t *testing.T) {
	result := importRows([][]string{
		{"a", "10", "20"},
		{"", "5", "5", "2"},
		{"bad", "x", "5"},
		{"neg", "5", "-1"},
	}, "Line")
	require.Len(t, result.Items, 3)
	assert.Equal(t, "a", result.Items[0].Name)
	assert.Equal(t, "item_1_1", result.Items[2].Name)
	assert.Len(t, result.Errors, 2)
	assert.Len(t, result.Warnings, 1)

	result = importRows([][]string{{"name", "qty"}, {"a", "1"}}, "Row")
	assert.NotEmpty(t, result.Errors)

	result = ImportManifest(filepath.Join(t.TempDir(), "missing.csv"))
	assert.NotEmpty(t, result.Errors)
}

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportManifestExcel(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Sprite", "W", "H"},
		{"tree", 64, 128},
		{"rock", 32, 16},
	})

	result := ImportManifest(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Items, 2)
	assert.Equal(t, spritepacker.Item{Name: "tree", Width: 64, Height: 128}, result.Items[0])
}

func TestRunWithManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFileT(t, dir, "items.csv", "name,width,height,quantity\ntile,32,32,6\nbanner,64,16,1\n")
	out := filepath.Join(dir, "out")

	err := run([]string{
		"-manifest", manifest, "-output", out,
		"-width", "64", "-height", "64", "-auto-size=false",
		"-algorithm", "Guillotine", "-variant", "BestAreaFit", "-split", "ShorterAxis",
		"-preview", "-pdf", "-xlsx",
	})
	require.NoError(t, err)

	layout, err := report.ReadJSON(filepath.Join(out, "layout.json"))
	require.NoError(t, err)
	assert.Equal(t, VERSION, layout.Meta.Version)
	assert.Equal(t, "Guillotine/BestAreaFit/ShorterAxis", layout.Meta.Heuristic)
	assert.Equal(t, 7, layout.SpriteCount())
	require.Len(t, layout.Pages, 2)

	for _, name := range []string{"preview_0.png", "preview_1.png", "report.pdf", "layout.xlsx"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestRunWithImages(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sprites")
	require.NoError(t, os.Mkdir(input, 0755))
	writeSprite(t, input, "a.png", 20, 20, image.Rect(5, 5, 15, 15))
	writeSprite(t, input, "b.png", 10, 10, image.Rect(0, 0, 10, 10))
	out := filepath.Join(dir, "out")

	require.NoError(t, run([]string{"-input", input, "-output", out, "-width", "64", "-height", "64"}))

	layout, err := report.ReadJSON(filepath.Join(out, "layout.json"))
	require.NoError(t, err)
	require.Len(t, layout.Pages, 1)
	require.Len(t, layout.Pages[0].Sprites, 2)
	for _, s := range layout.Pages[0].Sprites {
		assert.Equal(t, 10, s.Region.W)
		if s.Filename == "a.png" {
			assert.True(t, s.Trimmed)
			assert.Equal(t, report.Size{W: 20, H: 20}, s.SourceSize)
		} else {
			assert.False(t, s.Trimmed)
		}
	}
	assert.NoFileExists(t, filepath.Join(out, "report.pdf"))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, run([]string{"-output", dir}), "needs -input or -manifest")
	assert.Error(t, run([]string{"-algorithm", "Skyline", "-input", dir}))
	assert.Error(t, run([]string{"-no-such-flag"}))

	manifest := writeFileT(t, dir, "big.csv", "big,100,100\n")
	err := run([]string{"-manifest", manifest, "-output", dir, "-width", "50", "-height", "50"})
	assert.ErrorIs(t, err, spritepacker.ErrItemTooLarge)

	manifest = writeFileT(t, dir, "many.csv", "tile,50,50,3\n")
	err = run([]string{"-manifest", manifest, "-output", filepath.Join(dir, "partial"), "-width", "50", "-height", "50", "-max-pages", "2"})
	assert.ErrorIs(t, err, spritepacker.ErrTooManyPages)
	assert.FileExists(t, filepath.Join(dir, "partial", "layout.json"))
}
