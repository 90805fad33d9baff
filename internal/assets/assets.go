// Package assets resolves cards to their bitmap files. A full set is 52
// faces named <rank>_<suit>.pbm plus hidden.pbm for the card back.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/pbm"
)

// HiddenName is the card back shown for every face-down card.
const HiddenName = "hidden.pbm"

// Count is the number of files in a complete set.
const Count = blackjack.DeckSize + 1

const workers = 8

var rankWords = [13]string{
	"ace", "two", "three", "four", "five", "six", "seven",
	"eight", "nine", "ten", "jack", "queen", "king",
}

// FileName returns the asset that shows c. Face-down cards always map to
// HiddenName so the face never reaches a panel.
func FileName(c blackjack.Card) string {
	if !c.FaceUp {
		return HiddenName
	}
	return FaceName(c.Rank, c.Suit)
}

// FaceName returns the face asset for a rank and suit, e.g. "ten_clubs.pbm".
func FaceName(r blackjack.Rank, s blackjack.Suit) string {
	if int(r) >= len(rankWords) {
		return ""
	}
	return rankWords[r] + "_" + strings.ToLower(s.String()) + ".pbm"
}

// Names lists every file of a complete set, faces first.
func Names() []string {
	names := make([]string, 0, Count)
	for _, s := range blackjack.Suits {
		for _, r := range blackjack.Ranks {
			names = append(names, FileName(blackjack.NewCard(r, s)))
		}
	}
	return append(names, HiddenName)
}

// Library loads card bitmaps from a filesystem and caches them. Missing
// files are remembered as missing so lookups stay cheap. A nil *Library
// resolves nothing.
type Library struct {
	fsys   fs.FS
	logger *log.Logger

	mu    sync.RWMutex
	cache map[string][]byte
}

// New returns a library over fsys. A nil fsys yields a library that
// resolves nothing, leaving every card to procedural drawing.
func New(fsys fs.FS, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Library{
		fsys:   fsys,
		logger: logger.WithPrefix("assets"),
		cache:  make(map[string][]byte),
	}
}

// Dir returns a library over a directory on disk.
func Dir(path string, logger *log.Logger) *Library {
	if path == "" {
		return New(nil, logger)
	}
	return New(os.DirFS(path), logger)
}

// Bitmap returns the raw bitmap that shows c as dealt.
func (l *Library) Bitmap(c blackjack.Card) ([]byte, bool) {
	return l.lookup(FileName(c))
}

// Face returns the face bitmap for c regardless of which way up it lies.
func (l *Library) Face(c blackjack.Card) ([]byte, bool) {
	return l.lookup(FaceName(c.Rank, c.Suit))
}

// Back returns the card back bitmap.
func (l *Library) Back() ([]byte, bool) {
	return l.lookup(HiddenName)
}

func (l *Library) lookup(name string) ([]byte, bool) {
	if l == nil || name == "" {
		return nil, false
	}

	l.mu.RLock()
	data, cached := l.cache[name]
	l.mu.RUnlock()
	if cached {
		return data, data != nil
	}

	data, err := l.read(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("Failed to read bitmap", "file", name, "error", err)
	}
	l.store(name, data)
	return data, data != nil
}

// Preload reads every file of the set concurrently. Missing files are not
// an error; any other read failure is.
func (l *Library) Preload(ctx context.Context) error {
	if l.fsys == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, name := range Names() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := l.read(name)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				l.logger.Debug("Bitmap missing", "file", name)
			case err != nil:
				return fmt.Errorf("preload %s: %w", name, err)
			}
			l.store(name, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l.logger.Info("Bitmaps loaded", "present", l.present(), "total", Count)
	return nil
}

// Problem is one asset that will not render as an image.
type Problem struct {
	Name string
	Err  error
}

func (p Problem) String() string {
	return p.Name + ": " + p.Err.Error()
}

// Check reads and decodes every file of the set concurrently and reports
// the ones that are missing or malformed, sorted by name.
func (l *Library) Check(ctx context.Context) ([]Problem, error) {
	if l.fsys == nil {
		return nil, errors.New("no asset directory configured")
	}

	var (
		mu       sync.Mutex
		problems []Problem
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, name := range Names() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := validate(l.fsys, name)
			if err == nil {
				return nil
			}
			mu.Lock()
			problems = append(problems, Problem{Name: name, Err: err})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(problems, func(i, j int) bool { return problems[i].Name < problems[j].Name })
	return problems, nil
}

func validate(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	im, err := pbm.Parse(data)
	if err != nil {
		return err
	}
	if im.Width() == 0 || im.Height() == 0 {
		return fmt.Errorf("%w: empty image", pbm.ErrInvalidFormat)
	}
	return nil
}

func (l *Library) read(name string) ([]byte, error) {
	if l.fsys == nil {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(l.fsys, name)
}

func (l *Library) store(name string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[name] = data
}

func (l *Library) present() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, data := range l.cache {
		if data != nil {
			n++
		}
	}
	return n
}
