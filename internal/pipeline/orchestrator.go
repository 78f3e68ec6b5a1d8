// Package pipeline drives the day-by-day harvest: locate the remote
// archive, download, extract, normalize every member and advance the
// cursor until the current calendar date is reached.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tenderhound/tenderhound/internal/cursor"
	"github.com/tenderhound/tenderhound/internal/extract"
	"github.com/tenderhound/tenderhound/internal/fetch"
	"github.com/tenderhound/tenderhound/internal/notice"
	"github.com/tenderhound/tenderhound/internal/storage"
)

const defaultWorkers = 4

type Orchestrator struct {
	dialer     fetch.Dialer
	cursors    storage.CursorStore
	normalizer *notice.Normalizer
	dataDir    string
	workers    int
}

func NewOrchestrator(dialer fetch.Dialer, cursors storage.CursorStore, n *notice.Normalizer, dataDir string) *Orchestrator {
	return &Orchestrator{
		dialer:     dialer,
		cursors:    cursors,
		normalizer: n,
		dataDir:    dataDir,
		workers:    defaultWorkers,
	}
}

// Run walks one day-cycle at a time from start until the current calendar
// date has been processed. Connection-level errors abort the run without
// advancing the cursor; content-level problems inside an archive never do.
func (o *Orchestrator) Run(ctx context.Context, start cursor.Date) error {
	if _, err := start.Time(); err != nil {
		return fmt.Errorf("refusing harvest start: %w", err)
	}

	d := start
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := o.runDay(ctx, d); err != nil {
			return fmt.Errorf("day-cycle %s failed: %w", d, err)
		}

		// The cursor is written every cycle, archive or not, so a restart
		// resumes from the day after the last one seen.
		if err := o.cursors.SaveCursor(ctx, d.Cursor(time.Now())); err != nil {
			slog.Error("Failed to save fetch cursor", "date", d.String(), "error", err)
		}

		if cursor.IsTerminal(d) {
			slog.Info("Harvest caught up with the current date", "date", d.String())
			return nil
		}
		next, err := cursor.Next(d)
		if err != nil {
			return err
		}
		d = next
	}
}

func (o *Orchestrator) runDay(ctx context.Context, d cursor.Date) error {
	conn, err := o.dialer.Dial()
	if err != nil {
		return err
	}

	remotePath, found, err := fetch.Locate(conn, d)
	if err != nil {
		conn.Quit()
		return err
	}
	if !found {
		conn.Quit()
		slog.Info("No archive published for day", "date", d.String())
		return nil
	}

	localPath, err := fetch.Download(conn, remotePath, o.dataDir)
	// One transfer per connection; close before touching the archive.
	if qerr := conn.Quit(); qerr != nil {
		slog.Warn("Failed to close ftp connection", "error", qerr)
	}
	if err != nil {
		return err
	}

	dir, members, err := extract.Extract(localPath)
	if err != nil {
		return err
	}
	defer extract.Cleanup(dir)

	persisted := o.normalizeBatch(ctx, members)
	slog.Info("Day-cycle complete",
		"date", d.String(),
		"files", len(members),
		"persisted", persisted,
	)
	return nil
}

// normalizeBatch runs the member files through the normalizer as a bounded
// concurrent batch with a single join point. Every member finishes, soft
// skips included, before the caller removes the working directory.
func (o *Orchestrator) normalizeBatch(ctx context.Context, members []string) int {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		persisted int
	)
	sem := make(chan struct{}, o.workers)

	for _, member := range members {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			n := o.normalizer.ProcessFile(ctx, path)
			mu.Lock()
			persisted += n
			mu.Unlock()
		}(member)
	}
	wg.Wait()
	return persisted
}
