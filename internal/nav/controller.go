// Package nav keeps one reader's navigation state: which chapter is shown,
// which list entry is marked active, the address fragment and the failure
// banner.
package nav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/loader"
)

var (
	// ErrUnknownChapter is returned when a selection names an id not in the registry.
	ErrUnknownChapter = errors.New("unknown chapter")
	// ErrSuperseded is returned by a load whose result was discarded because a
	// newer navigation started after it.
	ErrSuperseded = errors.New("navigation superseded")
)

// Loader produces a displayable page for a chapter.
type Loader interface {
	Load(ctx context.Context, ch chapters.Chapter) (*loader.Page, error)
}

// Display is the surface the controller drives.
type Display interface {
	ShowPage(p *loader.Page)
	// MarkActive marks the chapter-list entry whose filename equals filename
	// and clears every other entry.
	MarkActive(filename string)
	SetFragment(fragment string)
	SetBanner(visible bool)
}

// Controller is the navigation state machine for a single page view.
type Controller struct {
	registry *chapters.Registry
	loader   Loader
	display  Display
	logger   *slog.Logger

	mu     sync.Mutex
	active int // chapter id, 0 before the first load completes
	banner bool
	seq    uint64
	cancel context.CancelFunc // set while the latest navigation is loading

	// reloading is true when the loading navigation is a live reload.
	reloading bool
}

// New creates a Controller. A nil logger uses slog.Default().
func New(registry *chapters.Registry, l Loader, d Display, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{registry: registry, loader: l, display: d, logger: logger}
}

// Start performs the initial load: the chapter named by fragment if it is a
// known id, otherwise the first chapter.
func (c *Controller) Start(ctx context.Context, fragment string) error {
	return c.BeginStart(ctx, fragment).Run()
}

// Select loads the chapter chosen from the chapter list.
func (c *Controller) Select(ctx context.Context, id int) error {
	p, err := c.BeginSelect(ctx, id)
	if err != nil {
		return err
	}
	return p.Run()
}

// FragmentChanged handles an address change made outside the chapter list,
// such as back/forward. Unrecognised fragments are ignored.
func (c *Controller) FragmentChanged(ctx context.Context, fragment string) error {
	return c.BeginFragment(ctx, fragment).Run()
}

// Reload reloads the active chapter if its document is filename.
func (c *Controller) Reload(ctx context.Context, filename string) error {
	return c.BeginReload(ctx, filename).Run()
}

// Pending is a navigation that has taken its place in the order but has not
// loaded yet. Any navigation begun after it supersedes it. A nil Pending is a
// no-op.
type Pending struct {
	c   *Controller
	ctx context.Context
	ch  chapters.Chapter
	seq uint64
}

// Run loads the chapter and commits it to the display unless a newer
// navigation has begun.
func (p *Pending) Run() error {
	if p == nil {
		return nil
	}
	return p.c.load(p)
}

// BeginStart orders the initial load without running it.
func (c *Controller) BeginStart(ctx context.Context, fragment string) *Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.begin(ctx, c.registry.Resolve(fragment), false)
}

// BeginSelect orders a chapter-list selection without running it.
func (c *Controller) BeginSelect(ctx context.Context, id int) (*Pending, error) {
	ch, ok := c.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChapter, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.begin(ctx, ch, false), nil
}

// BeginFragment orders a fragment change without running it. It returns nil
// for fragments that do not name a known chapter.
func (c *Controller) BeginFragment(ctx context.Context, fragment string) *Pending {
	id, ok := chapters.ParseFragment(fragment)
	if !ok {
		c.logger.Debug("ignoring non-chapter fragment", "fragment", fragment)
		return nil
	}
	ch, ok := c.registry.Get(id)
	if !ok {
		c.logger.Debug("ignoring unknown chapter fragment", "fragment", fragment)
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.begin(ctx, ch, false)
}

// BeginReload orders a reload of the active chapter if its document is
// filename. It returns nil when another chapter is active or when a reader
// navigation is still loading, so a reload never supersedes one.
func (c *Controller) BeginReload(ctx context.Context, filename string) *Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.registry.Get(c.active)
	if !ok || ch.Filename != filename {
		return nil
	}
	if c.cancel != nil && !c.reloading {
		c.logger.Debug("skipping reload during navigation", "filename", filename)
		return nil
	}
	return c.begin(ctx, ch, true)
}

// DismissBanner hides the failure banner until the next failing load.
func (c *Controller) DismissBanner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.banner {
		c.banner = false
		c.display.SetBanner(false)
	}
}

// Active returns the chapter currently displayed.
func (c *Controller) Active() (chapters.Chapter, bool) {
	c.mu.Lock()
	id := c.active
	c.mu.Unlock()
	return c.registry.Get(id)
}

// BannerVisible reports whether the failure banner is showing.
func (c *Controller) BannerVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

// Close cancels any in-flight load.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.reloading = false
	c.seq++
}

// load runs a pending navigation and commits it if it is still the latest.
func (c *Controller) load(p *Pending) error {
	page, err := c.loader.Load(p.ctx, p.ch)

	c.mu.Lock()
	defer c.mu.Unlock()

	if p.seq != c.seq {
		c.logger.Debug("discarding stale chapter load", "id", p.ch.ID, "seq", p.seq, "latest", c.seq)
		return ErrSuperseded
	}
	c.cancel()
	c.cancel = nil
	c.reloading = false

	if err != nil {
		return fmt.Errorf("loading chapter %d: %w", p.ch.ID, err)
	}

	ch := p.ch
	c.active = ch.ID
	c.display.ShowPage(page)
	c.display.MarkActive(ch.Filename)
	c.display.SetFragment(ch.Fragment())
	c.banner = page.Failed
	c.display.SetBanner(page.Failed)

	c.logger.Debug("chapter displayed", "id", ch.ID, "failed", page.Failed)
	return nil
}

// begin takes the next sequence number and cancels the load before it.
// c.mu must be held.
func (c *Controller) begin(parent context.Context, ch chapters.Chapter, reload bool) *Pending {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.reloading = reload
	return &Pending{c: c, ctx: ctx, ch: ch, seq: c.seq}
}
