package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/codegrow/frontend/core/activity"
	"github.com/codegrow/frontend/core/collection"
	apisvc "github.com/codegrow/frontend/services/api"
	metricsvc "github.com/codegrow/frontend/services/metrics"
)

func (cli *commandLine) feed(args []string) error {
	fs := cli.flagSet("feed")
	watch := fs.Bool("watch", false, "Keep running and refresh the feed on every update.")
	interval := fs.Duration("interval", 30*time.Second, "With -watch, also refresh at this interval (0 disables polling).")
	format := fs.String("o", formatTable, "Output format: table, json or yaml.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var fetched atomic.Int64 // records received by the last load
	feed := activity.NewFeed(func(ctx context.Context) ([]activity.Record, error) {
		records, err := cli.api.Activities(ctx)
		fetched.Store(int64(len(records)))
		return records, err
	})
	feed.OnStale(func() { metricsvc.RecordStale("feed") })
	defer feed.Dispose()

	ctx := cli.context()
	show := func() error {
		if err := cli.showFeed(ctx, feed, *format); err != nil {
			return err
		}
		metricsvc.RecordReconciled(int(fetched.Load()), len(feed.Snapshot().Items))
		return nil
	}
	if err := show(); err != nil || !*watch {
		return err
	}

	for range cli.updates(ctx, *interval) {
		if err := show(); err != nil {
			if ctx.Err() != nil {
				break
			}
			// keep watching, the last good items stay on screen
			fmt.Fprintln(cli.out, "error: "+apisvc.UserMessage(err))
		}
	}
	return nil
}

// updates merges activity notifications with an optional polling ticker.
// The channel is closed once ctx is done.
func (cli *commandLine) updates(ctx context.Context, interval time.Duration) <-chan struct{} {
	out := make(chan struct{}, 1)
	notifications := cli.bus.Listen(ctx)

	go func() {
		defer close(out)
		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notifications:
				if !ok {
					return
				}
			case <-tick:
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}

func (cli *commandLine) showFeed(ctx context.Context, feed *activity.Feed, format string) error {
	if err := feed.Load(ctx); err != nil {
		return err
	}
	items := feed.Snapshot().Items
	if format != formatTable && format != "" {
		return render(cli.out, format, items, nil)
	}
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "No activity yet. Complete a lesson to get started!")
		return nil
	}
	now := time.Now()
	tbl := &table{headers: []string{"", "ACTIVITY", "XP", "WHEN"}}
	for _, item := range items {
		xp := ""
		if item.XPEarned > 0 {
			xp = fmt.Sprintf("+%d", item.XPEarned)
		}
		tbl.add(item.Icon, item.Title, xp, activity.TimeAgo(item, now))
	}
	return render(cli.out, formatTable, nil, tbl)
}

func (cli *commandLine) activityLog(args []string) error {
	fs := cli.flagSet("activity-log list")
	lf := newListFlags(fs)
	lf.filters[activity.FilterType] = fs.String("type", "", "Activity type.")
	lf.filters[activity.FilterUserID] = fs.String("user", "", "User id.")
	lf.filters[activity.FilterDateFrom] = fs.String("from", "", "From date, YYYY-MM-DD.")
	lf.filters[activity.FilterDateTo] = fs.String("to", "", "To date, YYYY-MM-DD.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b := collection.NewBrowser(apisvc.ResourceActivityLog, cli.api.ActivityLog, collection.Options{
		PageSize: cli.pageSize,
		Query:    lf.query(),
		OnStale:  func() { metricsvc.RecordStale("activity-log") },
	})
	return walkPages(cli.context(), b, *lf.all, func(page collection.Page[activity.LogEntry]) error {
		tbl := &table{headers: []string{"ID", "WHEN", "USER", "TYPE", "XP", "DESCRIPTION"}}
		for _, e := range page.Items {
			user := e.Username.String
			if user == "" {
				user = fmt.Sprint(e.UserID)
			}
			tbl.add(fmt.Sprint(e.ID), e.CreatedAt.Format("2006-01-02 15:04"), user, activity.Label(e.Type),
				fmt.Sprint(e.XP()), e.Description.String)
		}
		return renderPage(cli.out, *lf.format, page, tbl)
	})
}
