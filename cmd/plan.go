package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/pnpstitch/catalog"
	"github.com/ByLCY/pnpstitch/config"
	"github.com/ByLCY/pnpstitch/layout"
)

var planCmd = &cobra.Command{
	Use:   "plan [image-dir]",
	Short: "Print the grid and cut line plan without rendering",
	Long: `Compute the layout for a card size and print it as YAML: cards per row
and column, centering margins, every cut line and the resulting page count.

The card size and count come from the image directory, or from --size and
--count when no directory is given.

Example:
  pnpstitch plan ./cards
  pnpstitch plan --size 750x1050 --count 54 -c poker.ini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("size", "", "Card size in pixels, WIDTHxHEIGHT")
	planCmd.Flags().Int("count", 0, "Number of cards used for the page count")
}

// planReport is the YAML document printed by the plan command.
type planReport struct {
	Cards         int          `yaml:"cards"`
	Pages         int          `yaml:"pages"`
	LastPageCards int          `yaml:"lastPageCards"`
	Plan          *layout.Plan `yaml:"plan"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
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

	var (
		size  layout.ImageSize
		count = mustGetInt(cmd, "count")
	)
	switch {
	case len(args) == 1:
		cat, err := catalog.Open(args[0])
		if err != nil {
			return err
		}
		if cat.Len() == 0 {
			return fmt.Errorf("目录 %s 中没有图片", args[0])
		}
		size, count = cat.ImageSize(), cat.Len()
	default:
		size, err = parseSize(mustGetString(cmd, "size"))
		if err != nil {
			return err
		}
	}

	plan, err := layout.NewPlan(spec, size, cut.Trim)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	return writePlan(cmd.OutOrStdout(), plan, count)
}

func writePlan(w io.Writer, plan *layout.Plan, count int) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	report := planReport{
		Cards:         count,
		Pages:         plan.PageCount(count),
		LastPageCards: plan.LastPageCount(count),
		Plan:          plan,
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("输出规划失败: %w", err)
	}
	return enc.Close()
}

// parseSize parses "750x1050" into an ImageSize.
func parseSize(value string) (layout.ImageSize, error) {
	if value == "" {
		return layout.ImageSize{}, fmt.Errorf("未指定图片目录时需要 --size WIDTHxHEIGHT")
	}
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(value)), "x")
	if !ok {
		return layout.ImageSize{}, fmt.Errorf("无法解析尺寸 %q，应为 WIDTHxHEIGHT", value)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return layout.ImageSize{}, fmt.Errorf("无法解析宽度 %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return layout.ImageSize{}, fmt.Errorf("无法解析高度 %q: %w", h, err)
	}
	return layout.ImageSize{Width: width, Height: height}, nil
}
