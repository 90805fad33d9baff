package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/assets"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/pbm"
	"github.com/lox/blackjack/internal/render"
)

type AssetsGenerateCmd struct {
	Dir   string `arg:"" help:"Directory to write bitmaps into" type:"path"`
	Force bool   `help:"Replace bitmaps that already exist"`
	ASCII bool   `name:"ascii" help:"Write plain P1 files instead of binary P4"`
}

func (c *AssetsGenerateCmd) Run() error {
	format := pbm.Binary
	if c.ASCII {
		format = pbm.ASCII
	}
	written, skipped, err := generateAssets(c.Dir, format, c.Force, log.Default())
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Wrote %d bitmaps, kept %d existing", written, skipped)))
	return nil
}

// generateAssets fills dir with the procedural card art, one file per
// asset name. Existing files are kept unless force is set.
func generateAssets(dir string, format pbm.Format, force bool, logger *log.Logger) (written, skipped int, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	cards := make([]blackjack.Card, 0, assets.Count)
	for _, suit := range blackjack.Suits {
		for _, rank := range blackjack.Ranks {
			cards = append(cards, blackjack.NewCard(rank, suit))
		}
	}
	cards = append(cards, blackjack.Card{FaceUp: false})

	for _, c := range cards {
		path := filepath.Join(dir, assets.FileName(c))
		if !force {
			if _, err := os.Stat(path); err == nil {
				skipped++
				continue
			}
		}

		im, err := render.ProceduralImage(c)
		if err != nil {
			return written, skipped, fmt.Errorf("draw %s: %w", c, err)
		}
		err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
			return im.Encode(w, format)
		})
		if err != nil {
			return written, skipped, fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("Wrote bitmap", "file", path, "format", format)
		written++
	}
	return written, skipped, nil
}
