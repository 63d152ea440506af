package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"

	"github.com/vburojevic/demostats/internal/output"
)

// WatchCmd reports demos as they appear in a directory
type WatchCmd struct {
	Dir          string   `arg:"" type:"existingdir" help:"Directory to watch for new demos"`
	Settle       string   `default:"${config_settle}" help:"Quiet period after the last write before a demo is read"`
	Extensions   []string `short:"e" help:"File suffixes treated as demos (default from config)"`
	Existing     bool     `help:"Also report demos already in the directory, in name order"`
	Where        []string `short:"w" sep:"none" help:"Only report demos matching field<op>value; repeatable"`
	Dedupe       bool     `help:"Report each distinct demo content once"`
	MaxBlockSize int      `default:"${config_max_block_size}" help:"Largest accepted block payload in bytes"`

	clock   clock.Clock   // wall clock when nil
	started chan struct{} // closed once the directory is watched
}

// Run executes the watch command
func (c *WatchCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return c.watch(ctx, globals)
}

func (c *WatchCmd) watch(ctx context.Context, globals *Globals) error {
	if err := validateFlags(globals); err != nil {
		return err
	}

	settleArg := c.Settle
	if settleArg == "" && globals.Config != nil {
		settleArg = globals.Config.Defaults.Settle
	}
	settle, err := time.ParseDuration(settleArg)
	if err != nil || settle < 0 {
		return outputErrorCommon(globals, "INVALID_SETTLE", fmt.Sprintf("invalid settle duration: %q", settleArg), "use a Go duration such as 2s or 500ms")
	}

	extensions := c.Extensions
	if len(extensions) == 0 && globals.Config != nil {
		extensions = globals.Config.Defaults.Extensions
	}

	pipeline, err := buildPipeline(globals, c.Where, c.Dedupe)
	if err != nil {
		return err
	}
	w, err := output.New(globals.Format, globals.Stdout)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_FLAGS", err.Error())
	}
	p := newProcessor(globals, w, pipeline, c.MaxBlockSize)
	defer p.log.Sync()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return outputErrorCommon(globals, "WATCH_FAILED", err.Error())
	}
	defer watcher.Close()
	if err := watcher.Add(c.Dir); err != nil {
		return outputErrorCommon(globals, "WATCH_FAILED", fmt.Sprintf("cannot watch %s: %s", c.Dir, err))
	}

	c.banner(p, settle, extensions)

	clk := c.clock
	if clk == nil {
		clk = clock.New()
	}
	s := newSettler(clk, settle, func(path string) {
		if err := p.Process(path); err != nil {
			p.log.Debug("write failed for %s: %v", path, err)
		}
	})
	defer s.Stop()

	if c.Existing {
		entries, err := os.ReadDir(c.Dir)
		if err != nil {
			return outputErrorCommon(globals, "WATCH_FAILED", err.Error())
		}
		for _, e := range entries {
			if !e.IsDir() && isDemoFile(e.Name(), extensions) {
				if err := p.Process(filepath.Join(c.Dir, e.Name())); err != nil {
					return err
				}
			}
		}
	}

	if c.started != nil {
		close(c.started)
	}

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return p.Close()

		case ev, ok := <-watcher.Events:
			if !ok {
				return p.Close()
			}
			if !isDemoFile(ev.Name, extensions) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				p.log.With(ev.Name).Debug("%s, settling for %s", ev.Op, settle)
				s.Touch(ev.Name)
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				s.Forget(ev.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return p.Close()
			}
			p.Notice("watch warning", map[string]interface{}{"warning": err.Error()}, "Warning: "+err.Error())
		}
	}
}

// banner announces the watch. Text banners only go to an interactive
// stderr so redirected runs stay clean.
func (c *WatchCmd) banner(p *processor, settle time.Duration, extensions []string) {
	var text string
	if isTerminal(p.globals.Stderr) {
		text = fmt.Sprintf("Watching %s for %s\nSettle: %s\nPress Ctrl+C to stop",
			c.Dir, strings.Join(extensions, ", "), settle)
	}
	p.Notice("watching "+c.Dir, map[string]interface{}{
		"dir":        c.Dir,
		"settle":     settle.String(),
		"extensions": extensions,
	}, text)
}

func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func isDemoFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// settler fires fn for a path once no Touch has been seen for the settle
// period, so a demo still being recorded is not read half-written.
type settler struct {
	mu      sync.Mutex
	clock   clock.Clock
	settle  time.Duration
	fn      func(path string)
	pending map[string]*clock.Timer
	stopped bool
}

func newSettler(clk clock.Clock, settle time.Duration, fn func(string)) *settler {
	return &settler{clock: clk, settle: settle, fn: fn, pending: make(map[string]*clock.Timer)}
}

func (s *settler) Touch(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if t, ok := s.pending[path]; ok {
		t.Reset(s.settle)
		return
	}
	s.pending[path] = s.clock.AfterFunc(s.settle, func() {
		s.mu.Lock()
		_, ok := s.pending[path]
		delete(s.pending, path)
		stopped := s.stopped
		s.mu.Unlock()
		if ok && !stopped {
			s.fn(path)
		}
	})
}

func (s *settler) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[path]; ok {
		t.Stop()
		delete(s.pending, path)
	}
}

// Pending returns the number of paths waiting to settle.
func (s *settler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *settler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for path, t := range s.pending {
		t.Stop()
		delete(s.pending, path)
	}
}
