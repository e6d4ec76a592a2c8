// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/lvldb"
	"github.com/jokerswap/joker/runtime"
)

func notifyExit() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch
}

// initLogger installs the root logger and returns its level, which the admin
// server may change at runtime.
func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	lvl := &slog.LevelVar{}
	lvl.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl
}

func devConfig() joker.Config {
	return genesis.DevConfig()
}

func loadConfig(ctx *cli.Context) (joker.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return devConfig(), nil
	}
	cfg, err := joker.LoadConfig(path)
	if err != nil {
		return joker.Config{}, errors.WithMessagef(err, "config [%v]", path)
	}
	return cfg, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".joker")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// makeInstanceDir creates the directory holding the chain of chainID.
func makeInstanceDir(ctx *cli.Context, chainID uint64) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%d", chainID))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

// openDB opens the chain database under instanceDir, or in memory when no
// directory was made.
func openDB(ctx *cli.Context, instanceDir string) (*lvldb.LevelDB, error) {
	if instanceDir == "Memory" {
		return lvldb.NewMem(), nil
	}
	cacheMB := normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name)))
	logger.Debug("cache size(MB)", "size", cacheMB)

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open chain database [%v]", dir)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

// initSystem opens the runtime over db and bootstraps the system on first
// launch. A resumed chain keeps the deployment saved at its genesis.
func initSystem(ctx *cli.Context, db *lvldb.LevelDB, cfg *joker.Config) (*runtime.Runtime, *genesis.Deployment, error) {
	rt, err := runtime.New(db, runtime.Options{
		CacheSizeMB: normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name))) / 2,
		ChainID:     cfg.ChainID,
	})
	if err != nil {
		return nil, nil, errors.WithMessage(err, "open runtime")
	}

	initialized, err := rt.Initialized()
	if err != nil {
		return nil, nil, err
	}
	if initialized {
		d, err := genesis.LoadDeployment(db)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("resuming chain", "head", rt.Head().Number)
		return rt, d, nil
	}

	d, err := genesis.Build(rt, db, cfg, genesis.NewDevnet(cfg, uint64(time.Now().Unix())))
	if err != nil {
		return nil, nil, errors.WithMessage(err, "bootstrap")
	}
	return rt, d, nil
}

// logBlocks logs every sealed block until ctx is done.
func logBlocks(ctx context.Context, rt *runtime.Runtime) error {
	ch := make(chan *runtime.Block, 16)
	sub := rt.SubscribeBlocks(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case b := <-ch:
			reverted := 0
			for _, r := range b.Receipts {
				if r.Reverted {
					reverted++
				}
			}
			logger.Info("block sealed", "number", b.Number, "time", b.Time, "txs", len(b.Receipts), "reverted", reverted)
		}
	}
}

func printSoloStartupMessage(
	w io.Writer,
	head runtime.Head,
	cfg *joker.Config,
	d *genesis.Deployment,
	dataDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	orNA := func(s string) string {
		if s == "" {
			return "Disabled"
		}
		return s
	}

	info := fmt.Sprintf(`Starting %v
    Chain ID     [ %v ]
    Best block   [ #%v @%v ]
    Token        [ %v ]
    Lord         [ %v ]
    Timelock     [ %v ]
    Governor     [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]`,
		"Joker solo/"+fullVersion(),
		cfg.ChainID,
		head.Number, time.Unix(int64(head.Time), 0),
		d.Token, d.Lord, d.Timelock, d.Governor,
		dataDir,
		apiURL,
		orNA(metricsURL),
		orNA(adminURL))

	for i, st := range d.StakeTokens {
		info += fmt.Sprintf("\n    Pool %-7d [ %v ]", i, st)
	}

	info += tableHead
	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			joker.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Fprint(w, info)
}

func fatal(args ...any) {
	var w io.Writer
	outf, _ := os.Stdout.Stat()
	errf, _ := os.Stderr.Stat()
	if outf != nil && errf != nil && os.SameFile(outf, errf) {
		w = os.Stderr
	} else {
		w = io.MultiWriter(os.Stdout, os.Stderr)
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}
