package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ByLCY/pnpstitch/binding"
	"github.com/ByLCY/pnpstitch/catalog"
	"github.com/ByLCY/pnpstitch/compose"
	"github.com/ByLCY/pnpstitch/config"
	"github.com/ByLCY/pnpstitch/layout"
	"github.com/ByLCY/pnpstitch/renderer"
	canvasrenderer "github.com/ByLCY/pnpstitch/renderer/canvas"
)

var renderCmd = &cobra.Command{
	Use:   "render <image-dir>",
	Short: "Render card images into printable sheets",
	Long: `Render every image in a directory (sorted by file name) onto pages.

All images must share one pixel size. The PDF format writes a single
multi-page document; the SVG format writes one document per page, named
from the --out pattern (${name} is the image directory name, ${page} the page number,
an optional printf verb such as ${page%03d} controls padding).

Example:
  pnpstitch render ./cards -o output/deck.pdf
  pnpstitch render ./cards --format svg -o "output/${name}-${page%02d}.svg"
  pnpstitch render ./cards --rtl -c poker.ini`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("out", "o", "output/sheets.pdf", "Output file (PDF) or file pattern (SVG)")
	renderCmd.Flags().StringP("format", "f", "pdf", "Output format: pdf or svg")
	renderCmd.Flags().Bool("rtl", false, "Lay out cards right-to-left")
	renderCmd.Flags().String("debug", "", "Write the layout plan as JSON to this path")
	renderCmd.Flags().Bool("resample", false, "Resample images to svg.page_dpi before embedding (always on for SVG)")
	renderCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

type renderOptions struct {
	dir        string
	out        string
	format     string
	configPath string
	rtl        bool
	debugPath  string
	resample   bool
	progress   bool
}

func runRender(cmd *cobra.Command, args []string) error {
	return render(renderOptions{
		dir:        args[0],
		out:        mustGetString(cmd, "out"),
		format:     strings.ToLower(mustGetString(cmd, "format")),
		configPath: configPath,
		rtl:        mustGetBool(cmd, "rtl"),
		debugPath:  mustGetString(cmd, "debug"),
		resample:   mustGetBool(cmd, "resample"),
		progress:   !mustGetBool(cmd, "no-progress"),
	})
}

// render 串联配置、图片目录、排版与绘制。
func render(opts renderOptions) error {
	if opts.format != "pdf" && opts.format != "svg" {
		return fmt.Errorf("不支持的输出格式 %q（应为 pdf 或 svg）", opts.format)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	spec, err := cfg.PageSpec()
	if err != nil {
		return fmt.Errorf("页面配置无效: %w", err)
	}
	cut, err := cfg.CutlineSpec()
	if err != nil {
		return fmt.Errorf("裁切线配置无效: %w", err)
	}

	cat, err := catalog.Open(opts.dir)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		slog.Warn("no images found, nothing to render", "dir", opts.dir)
		return nil
	}

	plan, err := layout.NewPlan(spec, cat.ImageSize(), cut.Trim)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	slog.Info("layout planned",
		"images", cat.Len(),
		"size", cat.ImageSize().String(),
		"grid", fmt.Sprintf("%dx%d", plan.Grid.CardsPerRow, plan.Grid.CardsPerCol),
		"pages", plan.PageCount(cat.Len()),
	)
	if opts.debugPath != "" {
		if err := writeDebug(plan, opts.debugPath); err != nil {
			return err
		}
	}

	surfaceOpts := canvasrenderer.Options{
		Title:    strings.TrimSuffix(filepath.Base(opts.out), filepath.Ext(opts.out)),
		Creator:  "pnpstitch",
		Resample: opts.resample || opts.format == "svg",
	}
	var (
		surface renderer.Surface
		pdfBuf  bytes.Buffer
	)
	if opts.format == "svg" {
		surface = canvasrenderer.NewSVGSurface(svgOpener(opts.out, filepath.Base(filepath.Clean(opts.dir))), spec, surfaceOpts)
	} else {
		surface = canvasrenderer.NewPDFSurface(&pdfBuf, spec, surfaceOpts)
	}

	bar := newPageProgressBar(os.Stderr, plan.PageCount(cat.Len()), opts.progress)
	composeOpts := compose.Options{
		RightToLeft: opts.rtl,
		OnPage: func(page, images int) {
			slog.Debug("page composed", "page", page, "images", images)
			if bar != nil {
				_ = bar.Add(1)
			}
		},
	}
	err = compose.ComposePlan(surface, plan, cat, cut, composeOpts)
	err = errors.Join(err, surface.Close())
	endProgress(bar, err == nil)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}

	if opts.format == "pdf" {
		if err := os.MkdirAll(filepath.Dir(opts.out), 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
		if err := os.WriteFile(opts.out, pdfBuf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("写入 PDF 文件失败: %w", err)
		}
	}
	slog.Info("sheets written", "out", opts.out, "format", opts.format, "pages", plan.PageCount(cat.Len()))
	return nil
}

// svgPattern 保证 SVG 输出路径中含有页码占位符。
func svgPattern(out string) string {
	ext := filepath.Ext(out)
	if strings.EqualFold(ext, ".pdf") || ext == "" {
		out = strings.TrimSuffix(out, ext) + ".svg"
		ext = ".svg"
	}
	for _, name := range binding.Placeholders(out) {
		if name == "page" {
			return out
		}
	}
	return strings.TrimSuffix(out, ext) + "-${page%03d}" + ext
}

// svgOpener 按页码展开输出路径；${name} 为图片目录名。
func svgOpener(out, name string) canvasrenderer.PageOpener {
	pattern := svgPattern(out)
	return func(page int) (io.WriteCloser, error) {
		path := binding.Expand(pattern, map[string]any{"name": name, "page": page})
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func newPageProgressBar(w io.Writer, pages int, enabled bool) *progressbar.ProgressBar {
	if !enabled {
		return nil
	}
	return progressbar.NewOptions(pages,
		progressbar.OptionSetDescription("Rendering sheets"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)
}

// endProgress 结束进度条，保证后续日志从新的一行开始；失败时清除未完成的进度条。
func endProgress(bar *progressbar.ProgressBar, ok bool) {
	if bar == nil {
		return
	}
	if ok {
		_ = bar.Finish()
		return
	}
	_ = bar.Clear()
}

func writeDebug(plan *layout.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
