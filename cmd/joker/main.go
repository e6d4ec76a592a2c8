// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jokerswap/joker/api"
	"github.com/jokerswap/joker/cmd/joker/httpserver"
	"github.com/jokerswap/joker/cmd/joker/solo"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Joker",
		Usage:     "Reward engine and governance devnet of JokerSwap",
		Copyright: "2026 JokerSwap",
		Flags: []cli.Flag{
			dataDirFlag,
			persistFlag,
			configFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiSubsCacheFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: soloAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run a standalone devnet with the system bootstrapped at genesis",
				Flags: []cli.Flag{
					dataDirFlag,
					persistFlag,
					configFlag,
					cacheFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiSubsCacheFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					apiLog5xxErrorsFlag,
					blockIntervalFlag,
					verbosityFlag,
					jsonLogsFlag,
					pprofFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
				},
				Action: soloAction,
			},
			{
				Name:   "default-config",
				Usage:  "print the devnet config in yaml, a starting point for --config",
				Action: defaultConfigAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigAction(ctx *cli.Context) error {
	cfg := devConfig()
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(data)
	return err
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	instanceDir := "Memory"
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, cfg.ChainID)
	}
	db, err := openDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing database..."); db.Close() }()

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	rt, deployment, err := initSystem(ctx, db, &cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	apiHandler, apiCloser := api.New(rt, cfg.ChainID, deployment, api.Options{
		AllowedOrigins:        ctx.String(apiCorsFlag.Name),
		SubscriptionCacheSize: uint32(ctx.Uint64(apiSubsCacheFlag.Name)),
		PprofOn:               ctx.Bool(pprofFlag.Name),
		EnableMetrics:         ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:       apiLogs,
		SlowQueriesThreshold:  time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:          ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	defer func() { logger.Info("closing subscriptions..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		apiHandler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printSoloStartupMessage(ctx.App.Writer, rt.Head(), &cfg, deployment, instanceDir, apiURL, metricsURL, adminURL)

	group, gctx := errgroup.WithContext(exitSignal)
	group.Go(func() error {
		return solo.New(rt, solo.Options{
			BlockInterval: ctx.Uint64(blockIntervalFlag.Name),
		}).Run(gctx)
	})
	group.Go(func() error {
		return logBlocks(gctx, rt)
	})
	return group.Wait()
}

// handleExitSignal returns a context cancelled on the first interrupt.
// A second interrupt kills the process.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := notifyExit()
		<-exitSignalCh
		logger.Info("got interrupt, exiting...")
		cancel()
		<-exitSignalCh
		logger.Warn("got another interrupt, force exit")
		os.Exit(1)
	}()
	return ctx
}
