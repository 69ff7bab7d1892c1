package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/signadot/pjson/system/streamd/server"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		}
	}

	serverConfig := server.DefaultConfig()
	if cfg.ConfigFile != "" {
		serverConfig, err = server.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg.Addr != "" {
		serverConfig.Addr = cfg.Addr
	}
	if cfg.Scripts != "" {
		serverConfig.Scripts = cfg.Scripts
	}
	if cfg.Speed != nil {
		serverConfig.Speed = *cfg.Speed
	}
	if cfg.NoDemo {
		serverConfig.NoDemo = true
	}
	if err := serverConfig.Validate(); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}

	spec := &server.Spec{Config: serverConfig}
	if cfg.LogFile != "" {
		lw := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			Compress:   true,
		}
		defer lw.Close()
		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		spec.Log = slog.New(slog.NewJSONHandler(lw, &slog.HandlerOptions{Level: level}))
	}
	srv := server.New(spec)
	if err := srv.LoadScripts(); err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			fmt.Fprintf(cc.Out, "\nShutting down...\n")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return srv.ListenAndServe(ctx)
	})
	fmt.Fprintf(cc.Out, "streamd listening on %s (streams: %v)\n", serverConfig.Addr, srv.Streams())
	return g.Wait()
}
