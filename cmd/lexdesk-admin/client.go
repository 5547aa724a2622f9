package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/data"
	"github.com/target/lexdesk/internal/ports"
	"github.com/target/lexdesk/internal/service"
)

const clientCommandTimeout = 30 * time.Second

type clientOptions struct {
	ClientID   string
	ClearTheme bool
	Yes        bool
}

func parseClientFlags(name string, args []string) (clientOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clientOptions
	fs.StringVar(&opts.ClientID, "client-id", "", "Client id (the client_id cookie value)")
	if name == "client-clear" {
		fs.BoolVar(&opts.ClearTheme, "theme", false, "Also drop the stored theme preference")
		fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	}

	if err := fs.Parse(args); err != nil {
		return clientOptions{}, err
	}
	opts.ClientID = strings.TrimSpace(opts.ClientID)
	if opts.ClientID == "" {
		return clientOptions{}, errors.New("--client-id is required")
	}
	return opts, nil
}

func runClientShow(cmdCtx *commandContext, args []string) error {
	opts, err := parseClientFlags("client-show", args)
	if err != nil {
		return err
	}
	return withStore(cmdCtx, func(ctx context.Context, store ports.ClientStore) error {
		return showClient(ctx, cmdCtx, store, opts.ClientID)
	})
}

func runClientClear(cmdCtx *commandContext, args []string) error {
	opts, err := parseClientFlags("client-clear", args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(cmdCtx, confirmOptions{
		yes:    opts.Yes,
		target: fmt.Sprintf("client %q", opts.ClientID),
	}, "sign out"); confirmErr != nil {
		return confirmErr
	}
	return withStore(cmdCtx, func(ctx context.Context, store ports.ClientStore) error {
		return clearClient(ctx, cmdCtx, store, opts)
	})
}

func withStore(cmdCtx *commandContext, f func(context.Context, ports.ClientStore) error) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, clientCommandTimeout)
	defer cancel()

	h, err := openStore(ctx, cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close store failed", "error", cerr)
		}
	}()
	return f(ctx, h.Store)
}

func showClient(ctx context.Context, cmdCtx *commandContext, store ports.ClientStore, clientID string) error {
	theme, err := store.Get(ctx, clientID, service.KeyTheme)
	if err != nil {
		return fmt.Errorf("read theme: %w", err)
	}
	rec, signedIn := service.NewSessionStore(store, clientID, cmdCtx.Logger).Load(ctx)

	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{{"CLIENT", clientID}, {"THEME", valueOr(theme[service.KeyTheme], "(system)")}}
	if signedIn {
		id := rec.Identity
		rows = append(rows,
			[2]string{"SESSION", "signed in"},
			[2]string{"TOKEN", maskToken(rec.Token)},
			[2]string{"USER ID", id.ID},
			[2]string{"EMAIL", id.Email},
			[2]string{"NAME", valueOr(id.Name, "-")},
			[2]string{"ROLE", string(id.Role)},
			[2]string{"TIER", valueOr(string(id.Tier), "-")},
		)
	} else {
		rows = append(rows, [2]string{"SESSION", "anonymous"})
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write client row: %w", err)
		}
	}
	return tw.Flush()
}

func clearClient(ctx context.Context, cmdCtx *commandContext, store ports.ClientStore, opts clientOptions) error {
	if err := service.NewSessionStore(store, opts.ClientID, cmdCtx.Logger).Clear(ctx); err != nil {
		return err
	}
	if opts.ClearTheme {
		if err := store.Delete(ctx, opts.ClientID, service.KeyTheme); err != nil {
			return fmt.Errorf("clear theme: %w", err)
		}
	}
	cmdCtx.Logger.InfoContext(ctx, "client signed out", "client_id", opts.ClientID, "theme_cleared", opts.ClearTheme)
	return nil
}

type purgeOptions struct {
	MaxAge    time.Duration
	BatchSize int
	Yes       bool
}

func parsePurgeFlags(args []string, defaults config.ReaperConfig) (purgeOptions, error) {
	fs := flag.NewFlagSet("purge-idle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts purgeOptions
	fs.DurationVar(&opts.MaxAge, "max-age", defaults.IdleMaxAge, "Remove clients idle longer than this")
	fs.IntVar(&opts.BatchSize, "batch", defaults.BatchSize, "Rows deleted per statement")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return purgeOptions{}, err
	}
	if opts.MaxAge <= 0 {
		return purgeOptions{}, errors.New("--max-age must be greater than zero")
	}
	if opts.BatchSize < 1 {
		return purgeOptions{}, errors.New("--batch must be at least 1")
	}
	return opts, nil
}

func runPurgeIdle(cmdCtx *commandContext, args []string) error {
	if cmdCtx.Config.Store.Backend != config.StoreBackendPostgres {
		return fmt.Errorf("purge-idle needs the postgres store backend; %q expires idle clients on its own", cmdCtx.Config.Store.Backend)
	}
	opts, err := parsePurgeFlags(args, cmdCtx.Config.Reaper)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(cmdCtx, confirmOptions{
		yes:    opts.Yes,
		target: "clients idle longer than " + opts.MaxAge.String(),
	}, "remove stored state"); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, defaultMigrationTimeout, func(ctx context.Context, db *sql.DB) error {
		return purgeIdle(ctx, cmdCtx, data.NewClientStateRepo(db), opts)
	})
}

func purgeIdle(ctx context.Context, cmdCtx *commandContext, repo ports.ClientStatePurger, opts purgeOptions) error {
	reaperCfg := cmdCtx.Config.Reaper
	reaperCfg.IdleMaxAge = opts.MaxAge
	reaperCfg.BatchSize = opts.BatchSize
	if reaperCfg.Interval <= 0 {
		reaperCfg.Interval = time.Minute
	}

	reaper, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo:   repo,
		Config: reaperCfg,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	removed, err := reaper.PurgeIdle(ctx)
	if err != nil {
		return fmt.Errorf("purge idle clients: %w", err)
	}
	return writef(cmdCtx.Out, "Removed %d idle client record(s).\n", removed)
}

func maskToken(token string) string {
	const keep = 6
	if len(token) <= keep {
		return strings.Repeat("*", len(token))
	}
	return token[:keep] + "…"
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
