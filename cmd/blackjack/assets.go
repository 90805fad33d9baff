package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/assets"
	"github.com/lox/blackjack/internal/pbm"
	"github.com/lox/blackjack/internal/ssd1306"
	"github.com/lox/blackjack/internal/tui"
)

type AssetsCmd struct {
	Check    AssetsCheckCmd    `cmd:"" help:"Validate the card bitmaps in a directory"`
	Show     AssetsShowCmd     `cmd:"" help:"Preview a bitmap and its panel rescale"`
	Generate AssetsGenerateCmd `cmd:"" help:"Write procedural card art for missing bitmaps"`
}

type AssetsCheckCmd struct {
	Dir string `arg:"" optional:"" help:"Asset directory (defaults to the configured one)" type:"path"`
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func (c *AssetsCheckCmd) Run(g *Globals) error {
	dir := c.Dir
	if dir == "" {
		cfg, err := g.LoadConfig()
		if err != nil {
			return err
		}
		dir = cfg.Assets.Dir
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	problems, err := assets.Dir(dir, log.Default()).Check(context.Background())
	if err != nil {
		return err
	}

	for _, p := range problems {
		fmt.Println(failStyle.Render("✗ ") + p.String())
	}
	ok := assets.Count - len(problems)
	summary := fmt.Sprintf("%d of %d bitmaps OK", ok, assets.Count)
	if len(problems) > 0 {
		fmt.Println(failStyle.Render(summary))
		fmt.Println(dimStyle.Render("Missing or broken cards are drawn procedurally."))
		return fmt.Errorf("%d bitmaps need attention", len(problems))
	}
	fmt.Println(okStyle.Render(summary))
	return nil
}

type AssetsShowCmd struct {
	File string `arg:"" help:"PBM file to preview" type:"existingfile"`
}

func (c *AssetsShowCmd) Run() error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	im, err := pbm.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("%s: %dx%d", c.File, im.Width(), im.Height())))
	fmt.Println(strings.Join(tui.Braille(int(im.Width()), int(im.Height()), 1, im.Pixel), "\n"))

	buf, err := im.DisplayBuffer(ssd1306.Width, ssd1306.Height)
	if err != nil {
		return err
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("Panel rescale %dx%d:", ssd1306.Width, ssd1306.Height)))
	lit := func(x, y int) bool { return buf.Pixel(ssd1306.Width, x, y) }
	fmt.Println(strings.Join(tui.Braille(ssd1306.Width, ssd1306.Height, 1, lit), "\n"))
	return nil
}
