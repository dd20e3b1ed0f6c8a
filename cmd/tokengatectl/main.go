package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	apiadapter "tokengate/contexts/asset-control/ledger-controller/adapters/api"
	"tokengate/contexts/asset-control/ledger-controller/contracts"
	"tokengate/internal/app/bootstrap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

// Operator entrypoint for the controller: asset initialization, the pause
// switch and, with a ledger configured, the gated asset operations.
func main() {
	flags := pflag.NewFlagSet("tokengatectl", pflag.ContinueOnError)
	AddFlags(flags)
	cfg, err := ParseFlags(flags, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, out io.Writer) (err error) {
	app, err := bootstrap.BuildAdmin(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	defer func() {
		if closeErr := app.Close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	handler := app.Module.Handler
	var result any
	switch cfg.Command {
	case "status":
		result, err = handler.ControlStateHandler(ctx, contracts.ControlStateRequest{Mint: cfg.Mint})
	case "pause":
		result, err = handler.PauseHandler(ctx, contracts.PauseRequest{Mint: cfg.Mint, Caller: cfg.Caller})
	case "unpause":
		result, err = handler.UnpauseHandler(ctx, contracts.PauseRequest{Mint: cfg.Mint, Caller: cfg.Caller})
	case "initialize":
		result, err = handler.InitializeAssetHandler(ctx, contracts.InitializeAssetRequest{
			Mint:            cfg.Mint,
			Admin:           cfg.Caller,
			MintAuthority:   cfg.MintAuthority,
			FreezeAuthority: cfg.FreezeAuthority,
			Destination:     cfg.Destination,
		})
	case "issue":
		result, err = handler.IssueHandler(ctx, contracts.IssueRequest{
			Mint:          cfg.Mint,
			Destination:   cfg.Destination,
			MintAuthority: cfg.Authority,
			Amount:        cfg.Amount,
		})
	case "destroy":
		result, err = handler.DestroyHandler(ctx, contracts.DestroyRequest{
			Mint:      cfg.Mint,
			Source:    cfg.Source,
			Authority: cfg.Authority,
			Amount:    cfg.Amount,
		})
	case "move":
		result, err = handler.MoveHandler(ctx, contracts.MoveRequest{
			Mint:        cfg.Mint,
			Source:      cfg.Source,
			Destination: cfg.Destination,
			Authority:   cfg.Authority,
			Amount:      cfg.Amount,
		})
	case "freeze":
		result, err = handler.FreezeHandler(ctx, contracts.FreezeRequest{Mint: cfg.Mint, Account: cfg.Account, FreezeAuthority: cfg.Authority})
	case "unfreeze":
		result, err = handler.UnfreezeHandler(ctx, contracts.FreezeRequest{Mint: cfg.Mint, Account: cfg.Account, FreezeAuthority: cfg.Authority})
	default:
		err = fmt.Errorf("unknown command %q: %w", cfg.Command, errUsage)
	}
	if err != nil {
		result = apiadapter.ErrorResponse(err)
	}
	if writeErr := writeJSON(out, result); writeErr != nil {
		return writeErr
	}
	if cfg.MetricsFile != "" {
		if metricsErr := prometheus.WriteToTextfile(cfg.MetricsFile, app.Registry); metricsErr != nil {
			return fmt.Errorf("write metrics: %w", metricsErr)
		}
	}
	return err
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
