package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"snipdesk/internal/config"
)

// Runner launches the screenshot utility. It must not wait for the user.
type Runner func(ctx context.Context, name string, args ...string) error

// startProcess starts the command and reaps it in the background.
func startProcess(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// CommandBackend runs a screenshot command and polls directories for the new file.
type CommandBackend struct {
	command  []string
	dirs     []string
	timeout  time.Duration
	interval time.Duration
	run      Runner
	now      func() time.Time
	log      zerolog.Logger
}

// NewCommandBackend builds a CommandBackend from config.
func NewCommandBackend(cfg config.CaptureConfig, log zerolog.Logger) *CommandBackend {
	return &CommandBackend{
		command:  strings.Fields(cfg.Command),
		dirs:     cfg.Dirs,
		timeout:  cfg.Timeout,
		interval: cfg.PollInterval,
		run:      startProcess,
		now:      time.Now,
		log:      log.With().Str("component", "capture").Str("backend", "command").Logger(),
	}
}

// Grab arms the utility, then waits for a .png/.jpg/.jpeg modified after the arm instant.
// A file is taken only once it is non-empty and its size and mtime held across two
// polls; it is removed from the screenshot directory after a complete read.
func (b *CommandBackend) Grab(ctx context.Context) (*Image, error) {
	if len(b.command) == 0 {
		return nil, fmt.Errorf("%w: no capture command configured", ErrUnavailable)
	}

	armed := b.now()
	if err := b.run(ctx, b.command[0], b.command[1:]...); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrUnavailable, b.command[0], err)
	}
	b.log.Info().Str("event", "capture_armed").Strs("dirs", b.dirs).Dur("timeout", b.timeout).Send()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	var last candidate
	for {
		img, err := b.poll(armed, &last)
		if img != nil || err != nil {
			return img, err
		}
		select {
		case <-ctx.Done():
			b.log.Warn().Str("event", "capture_timeout").Int64("waited_ms", b.now().Sub(armed).Milliseconds()).Send()
			return nil, ErrNoImage
		case <-ticker.C:
		}
	}
}

// poll takes the newest image once it has settled. last carries the previous observation.
func (b *CommandBackend) poll(armed time.Time, last *candidate) (*Image, error) {
	c, ok := b.newest(armed)
	if !ok {
		return nil, nil
	}
	if c.size > 0 && c.same(*last) {
		img, err := b.take(c)
		if !errors.Is(err, errUnsettled) {
			return img, err
		}
		c = candidate{}
	}
	*last = c
	return nil, nil
}

// errUnsettled means the file changed while it was being read.
var errUnsettled = errors.New("screenshot still being written")

// candidate is one observation of an image file.
type candidate struct {
	path string
	size int64
	mod  time.Time
}

func (c candidate) same(o candidate) bool {
	return c.path == o.path && c.size == o.size && c.mod.Equal(o.mod)
}

// newest returns the most recently modified image newer than since.
func (b *CommandBackend) newest(since time.Time) (candidate, bool) {
	var best candidate
	for _, dir := range b.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !isImage(e.Name()) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			mod := info.ModTime()
			if mod.After(since) && mod.After(best.mod) {
				best = candidate{path: filepath.Join(dir, e.Name()), size: info.Size(), mod: mod}
			}
		}
	}
	return best, best.path != ""
}

func (b *CommandBackend) take(c candidate) (*Image, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	if int64(len(data)) != c.size {
		b.log.Debug().Str("event", "capture_unsettled").Str("path", c.path).Int("bytes", len(data)).Int64("expected", c.size).Send()
		return nil, errUnsettled
	}
	if err := os.Remove(c.path); err != nil {
		b.log.Warn().Str("event", "capture_cleanup_failed").Str("path", c.path).Err(err).Send()
	}
	b.log.Info().Str("event", "capture_detected").Str("path", c.path).Int("bytes", len(data)).Send()
	return newImage(c.path, data), nil
}
