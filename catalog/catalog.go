// Package catalog enumerates card images that share one pixel size.
package catalog

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/pnpstitch/layout"
)

var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Directory 是基于目录的图片目录，按文件名字典序排列，图片在 Image 调用时才解码。
type Directory struct {
	dir   string
	files []string
	size  layout.ImageSize
}

// Open 扫描 dir 下（不递归）的图片文件并校验它们的尺寸一致。
func Open(dir string) (*Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("无法读取图片目录 %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	d := &Directory{dir: dir, files: files}
	for _, path := range files {
		size, err := decodeSize(path)
		if err != nil {
			return nil, err
		}
		if d.size == (layout.ImageSize{}) {
			d.size = size
			continue
		}
		if size != d.size {
			return nil, fmt.Errorf("图片 %s 的尺寸 %s 与目录中其他图片 %s 不一致", path, size, d.size)
		}
	}
	return d, nil
}

func decodeSize(path string) (layout.ImageSize, error) {
	f, err := os.Open(path)
	if err != nil {
		return layout.ImageSize{}, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return layout.ImageSize{}, fmt.Errorf("解析图片 %s 尺寸失败: %w", path, err)
	}
	return layout.ImageSize{Width: cfg.Width, Height: cfg.Height}, nil
}

// ImageSize returns the shared pixel size; zero when the directory is empty.
func (d *Directory) ImageSize() layout.ImageSize { return d.size }

// Len returns the number of images.
func (d *Directory) Len() int { return len(d.files) }

// Files returns the image paths in catalog order.
func (d *Directory) Files() []string { return append([]string(nil), d.files...) }

// Image decodes the i-th image.
func (d *Directory) Image(i int) (image.Image, error) {
	if i < 0 || i >= len(d.files) {
		return nil, fmt.Errorf("图片序号 %d 超出范围 [0,%d)", i, len(d.files))
	}
	f, err := os.Open(d.files[i])
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", d.files[i], err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", d.files[i], err)
	}
	return img, nil
}

// Memory 是内存中的图片目录，所有图片必须与 size 一致。
type Memory struct {
	size   layout.ImageSize
	images []image.Image
}

// New builds an in-memory catalog.
func New(size layout.ImageSize, images ...image.Image) (*Memory, error) {
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != size.Width || b.Dy() != size.Height {
			return nil, fmt.Errorf("第 %d 张图片尺寸 %dx%dpx 与目录尺寸 %s 不一致", i+1, b.Dx(), b.Dy(), size)
		}
	}
	return &Memory{size: size, images: images}, nil
}

func (m *Memory) ImageSize() layout.ImageSize { return m.size }

func (m *Memory) Len() int { return len(m.images) }

func (m *Memory) Image(i int) (image.Image, error) {
	if i < 0 || i >= len(m.images) {
		return nil, fmt.Errorf("图片序号 %d 超出范围 [0,%d)", i, len(m.images))
	}
	return m.images[i], nil
}
