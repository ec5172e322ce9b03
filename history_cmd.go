package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"hashart/core"
	"hashart/db"
	"hashart/logging"
)

func runHistory(c *cli, args []string) int {
	cfg, ok := c.loadConfig()
	if !ok {
		return core.ExitCodeUsage
	}
	fs := c.newFlagSet("history", "")
	fs.StringVar(&cfg.HistoryDB, "db", cfg.HistoryDB, "history database path")
	limit := fs.Int("limit", db.DefaultQueryLimit, "number of renders to list")
	hash := fs.String("hash", "", "list renders of this hash only")
	pruneDays := fs.Int("prune", 0, "delete renders older than this many days")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if *pruneDays < 0 {
		c.printError(core.ErrInvalidCount("-prune", *pruneDays, 0))
		return core.ExitCodeUsage
	}

	// the automatic retention policy is applied only by render and batch
	cfg.HistoryEnabled = true
	cfg.HistoryRetentionDays = 0
	ctx := context.Background()
	h, err := openHistory(ctx, cfg, logging.NewNopLogger(), false)
	if err != nil {
		c.printError(err)
		return core.ExitCodeForError(err)
	}
	defer h.Close(ctx)

	if *pruneDays > 0 {
		res, err := h.db.Prune(ctx, time.Now().AddDate(0, 0, -*pruneDays))
		if err != nil {
			c.printError(err)
			return core.ExitCodeError
		}
		okLabel.Fprint(c.stdout, "✓ ")
		writeLine(c.stdout, "pruned %d render(s) older than %d day(s)", res.Deleted, *pruneDays)
		return core.ExitCodeSuccess
	}

	var records []db.RenderRecord
	if *hash != "" {
		records, err = h.repo.FindByHash(ctx, *hash)
	} else {
		records, err = h.repo.QueryRecent(ctx, *limit)
	}
	if err != nil {
		c.printError(err)
		return core.ExitCodeError
	}

	total, err := h.repo.CountRenders(ctx)
	if err != nil {
		c.printError(err)
		return core.ExitCodeError
	}
	printHistory(c.stdout, records, total)
	return core.ExitCodeSuccess
}

func printHistory(w io.Writer, records []db.RenderRecord, total int64) {
	if len(records) == 0 {
		dim.Fprintln(w, "no renders recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tHASH\tFORMAT\tSIZE\tFIT\tTIME\tPATH")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%s\t%dms\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortHash(r.Hash),
			r.Format,
			r.Width, r.Height,
			r.Fit,
			r.DurationMS,
			r.OutputPath,
		)
	}
	_ = tw.Flush()
	dim.Fprintf(w, "%d of %d render(s)\n", len(records), total)
}

// shortHash abbreviates a 66-character hash to 0x1234…abcd.
func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:6] + "…" + h[len(h)-4:]
}
