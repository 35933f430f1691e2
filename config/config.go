// Package config loads the sheet configuration: page geometry, cut line
// styling and SVG output resolution.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/pnpstitch/compose"
	"github.com/ByLCY/pnpstitch/layout"
	"github.com/ByLCY/pnpstitch/renderer"
)

// EnvPrefix prefixes environment overrides, e.g. PNPSTITCH_PAGE_WIDTH=8.5in.
const EnvPrefix = "PNPSTITCH_"

type Config struct {
	Page    PageConfig
	Cutline CutlineConfig
	SVG     SVGConfig
}

type PageConfig struct {
	DPI     int
	Width   layout.Length
	Height  layout.Length
	MarginX layout.Length
	MarginY layout.Length
}

type CutlineConfig struct {
	Color       string
	Width       layout.Length
	Layer       string // top or bottom
	Dashed      bool
	TrimOffsetX layout.Length
	TrimOffsetY layout.Length
	RoundCorner layout.Length
	Style       string
}

type SVGConfig struct {
	PageDPI int
}

// Default returns the built-in configuration: A4 at 300 dpi with red cut lines on top.
func Default() *Config {
	return &Config{
		Page: PageConfig{
			DPI:     300,
			Width:   layout.MustParseLength("210mm"),
			Height:  layout.MustParseLength("297mm"),
			MarginX: layout.MustParseLength("3mm"),
			MarginY: layout.MustParseLength("3mm"),
		},
		Cutline: CutlineConfig{
			Color:       "#ff0000",
			Width:       layout.MustParseLength("0.75pp"),
			Layer:       "top",
			Dashed:      false,
			TrimOffsetX: layout.MustParseLength("0mm"),
			TrimOffsetY: layout.MustParseLength("0mm"),
			RoundCorner: layout.MustParseLength("4mm"),
			Style:       "inset",
		},
		SVG: SVGConfig{
			PageDPI: 96,
		},
	}
}

type setter func(c *Config, raw string) error

// setters 按 section/key 注册所有可配置项，文件与环境变量共用。
var setters = map[string]map[string]setter{
	"page": {
		"dpi":      intField(func(c *Config) *int { return &c.Page.DPI }),
		"width":    lengthField(func(c *Config) *layout.Length { return &c.Page.Width }),
		"height":   lengthField(func(c *Config) *layout.Length { return &c.Page.Height }),
		"margin_x": lengthField(func(c *Config) *layout.Length { return &c.Page.MarginX }),
		"margin_y": lengthField(func(c *Config) *layout.Length { return &c.Page.MarginY }),
	},
	"cutline": {
		"color":         stringField(func(c *Config) *string { return &c.Cutline.Color }),
		"width":         lengthField(func(c *Config) *layout.Length { return &c.Cutline.Width }),
		"layer":         stringField(func(c *Config) *string { return &c.Cutline.Layer }),
		"dashed":        boolField(func(c *Config) *bool { return &c.Cutline.Dashed }),
		"trim_offset_x": lengthField(func(c *Config) *layout.Length { return &c.Cutline.TrimOffsetX }),
		"trim_offset_y": lengthField(func(c *Config) *layout.Length { return &c.Cutline.TrimOffsetY }),
		"round_corner":  lengthField(func(c *Config) *layout.Length { return &c.Cutline.RoundCorner }),
		"style":         stringField(func(c *Config) *string { return &c.Cutline.Style }),
	},
	"svg": {
		"page_dpi": intField(func(c *Config) *int { return &c.SVG.PageDPI }),
	},
}

func intField(field func(*Config) *int) setter {
	return func(c *Config, raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("需要整数: %w", err)
		}
		*field(c) = v
		return nil
	}
}

func lengthField(field func(*Config) *layout.Length) setter {
	return func(c *Config, raw string) error {
		v, err := layout.ParseLength(raw)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func stringField(field func(*Config) *string) setter {
	return func(c *Config, raw string) error {
		*field(c) = strings.TrimSpace(raw)
		return nil
	}
}

func boolField(field func(*Config) *bool) setter {
	return func(c *Config, raw string) error {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("需要布尔值: %w", err)
		}
		*field(c) = v
		return nil
	}
}

// Set 修改单个配置项，section 与 key 不区分大小写。
func (c *Config) Set(section, key, raw string) error {
	keys, ok := setters[strings.ToLower(section)]
	if !ok {
		return fmt.Errorf("未知的配置段 [%s]", section)
	}
	set, ok := keys[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("配置段 [%s] 中没有 %s", section, key)
	}
	if err := set(c, raw); err != nil {
		return fmt.Errorf("%s.%s = %q: %w", section, key, raw, err)
	}
	return nil
}

// Apply 把解析后的配置文件覆盖到当前配置上。
func (c *Config) Apply(file *File) error {
	if file == nil {
		return nil
	}
	for _, sec := range file.Sections {
		for _, entry := range sec.Entries {
			if err := c.Set(sec.Name, entry.Key, entry.Value.Raw()); err != nil {
				return fmt.Errorf("%s: %w", entry.Pos, err)
			}
		}
	}
	return nil
}

// ApplyEnv 读取 PNPSTITCH_<SECTION>_<KEY> 形式的环境变量覆盖配置。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, section := range sortedKeys(setters) {
		for _, key := range sortedKeys(setters[section]) {
			name := EnvPrefix + strings.ToUpper(section+"_"+key)
			raw, ok := lookup(name)
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}
			if err := c.Set(section, key, raw); err != nil {
				return fmt.Errorf("环境变量 %s: %w", name, err)
			}
		}
	}
	return nil
}

// Load 读取默认配置，再依次叠加配置文件（path 为空时跳过）与环境变量。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
		}
		defer f.Close()
		file, err := Parse(path, f)
		if err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
		if err := cfg.Apply(file); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PageSpec 把页面配置换算为英寸。
func (c *Config) PageSpec() (layout.PageSpec, error) {
	spec := layout.PageSpec{ImageDPI: c.Page.DPI, PageDPI: c.SVG.PageDPI}
	fields := []struct {
		name string
		l    layout.Length
		dst  *float64
	}{
		{"page.width", c.Page.Width, &spec.Width},
		{"page.height", c.Page.Height, &spec.Height},
		{"page.margin_x", c.Page.MarginX, &spec.MarginX},
		{"page.margin_y", c.Page.MarginY, &spec.MarginY},
	}
	for _, f := range fields {
		v, err := f.l.Inches(c.Page.DPI)
		if err != nil {
			return layout.PageSpec{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	if err := spec.Validate(); err != nil {
		return layout.PageSpec{}, err
	}
	return spec, nil
}

// CutlineSpec 解析裁切线配置；线宽换算为 pt，偏移与圆角换算为英寸。
func (c *Config) CutlineSpec() (compose.CutlineConfig, error) {
	cl := c.Cutline
	col, err := renderer.ParseColor(cl.Color)
	if err != nil {
		return compose.CutlineConfig{}, fmt.Errorf("cutline.color: %w", err)
	}
	layer := compose.Layer(strings.ToLower(cl.Layer))
	if layer != compose.LayerTop && layer != compose.LayerBottom {
		return compose.CutlineConfig{}, fmt.Errorf("cutline.layer 只能是 top 或 bottom，实际 %q", cl.Layer)
	}
	style := strings.ToLower(cl.Style)
	if style != "inset" {
		return compose.CutlineConfig{}, fmt.Errorf("cutline.style 目前只支持 inset，实际 %q", cl.Style)
	}
	width, err := cl.Width.Points(c.Page.DPI)
	if err != nil {
		return compose.CutlineConfig{}, fmt.Errorf("cutline.width: %w", err)
	}

	out := compose.CutlineConfig{
		Color:   col,
		WidthPt: width,
		Layer:   layer,
		Dashed:  cl.Dashed,
		Style:   style,
	}
	lengths := []struct {
		name string
		l    layout.Length
		dst  *float64
	}{
		{"cutline.trim_offset_x", cl.TrimOffsetX, &out.Trim.X},
		{"cutline.trim_offset_y", cl.TrimOffsetY, &out.Trim.Y},
		{"cutline.round_corner", cl.RoundCorner, &out.RoundCorner},
	}
	for _, f := range lengths {
		v, err := f.l.Inches(c.Page.DPI)
		if err != nil {
			return compose.CutlineConfig{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if v < 0 {
			return compose.CutlineConfig{}, fmt.Errorf("%s 不能为负数", f.name)
		}
		*f.dst = v
	}
	return out, nil
}

// Write 以配置文件格式输出当前配置。
func (c *Config) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, `[page]
dpi = %d
width = %s
height = %s
margin_x = %s
margin_y = %s

[cutline]
color = %s
width = %s
layer = %s
dashed = %t
trim_offset_x = %s
trim_offset_y = %s
round_corner = %s
style = %s

[svg]
page_dpi = %d
`,
		c.Page.DPI, c.Page.Width, c.Page.Height, c.Page.MarginX, c.Page.MarginY,
		c.Cutline.Color, c.Cutline.Width, c.Cutline.Layer, c.Cutline.Dashed,
		c.Cutline.TrimOffsetX, c.Cutline.TrimOffsetY, c.Cutline.RoundCorner, c.Cutline.Style,
		c.SVG.PageDPI)
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
