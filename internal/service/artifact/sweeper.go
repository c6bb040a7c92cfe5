package artifact

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sweeper deletes staged uploads and generated artifacts older than the
// configured TTL. It runs on a fixed interval, independent of request
// traffic and of the registry's mappings: a sweep may reap a file whose
// mapping is still considered valid, and the next resolve reports not-found.
type Sweeper struct {
	dirs     []string
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a sweeper over the given directories.
func NewSweeper(dirs []string, ttl, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{dirs: dirs, ttl: ttl, interval: interval, logger: logger}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("retention sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep scans every directory and removes regular files older than the TTL.
// Best-effort: per-file and per-directory errors are logged and swallowed,
// and a sweep never aborts early because of one bad entry.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.ttl)
	removed := 0

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("failed to scan directory", "dir", dir, "error", err)
			continue
		}

		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Warn("failed to remove expired file", "path", path, "error", err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("retention sweep complete", "removed", removed)
	}
}
