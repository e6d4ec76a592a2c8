// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
)

func newContext(t *testing.T, w *bytes.Buffer, args ...string) *cli.Context {
	app := cli.NewApp()
	if w != nil {
		app.Writer = w
	}
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{dataDirFlag, persistFlag, configFlag, cacheFlag, verbosityFlag, jsonLogsFlag} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(app, set, nil)
}

func TestDefaultConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, defaultConfigAction(newContext(t, &buf)))

	path := filepath.Join(t.TempDir(), "joker.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	cfg, err := loadConfig(newContext(t, nil, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), cfg.ChainID)
	assert.Len(t, cfg.StakeTokens, 2)

	data, err := cfg.Encode()
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(newContext(t, nil))
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), cfg.ChainID)

	path := filepath.Join(t.TempDir(), "joker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chainId: 9\nvotingPeriod: 20\n"), 0o600))
	cfg, err = loadConfig(newContext(t, nil, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), cfg.ChainID)
	assert.Equal(t, uint32(20), cfg.VotingPeriod)
	assert.Equal(t, joker.DefaultConfig().QuorumVotes, cfg.QuorumVotes)

	require.NoError(t, os.WriteFile(path, []byte("unknown: 1\n"), 0o600))
	_, err = loadConfig(newContext(t, nil, "--config", path))
	assert.ErrorContains(t, err, path)

	_, err = loadConfig(newContext(t, nil, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestInitSystemResumes(t *testing.T) {
	ctx := newContext(t, nil, "--data-dir", t.TempDir(), "--persist")
	cfg := devConfig()

	dir := makeInstanceDir(ctx, cfg.ChainID)
	assert.True(t, strings.HasSuffix(dir, "instance-1337"))

	db, err := openDB(ctx, dir)
	require.NoError(t, err)
	rt, d, err := initSystem(ctx, db, &cfg)
	require.NoError(t, err)
	head := rt.Head()
	require.Positive(t, head.Number)
	require.Len(t, d.StakeTokens, len(cfg.StakeTokens))
	rt.Close()
	require.NoError(t, db.Close())

	db, err = openDB(ctx, dir)
	require.NoError(t, err)
	defer db.Close()
	rt, resumed, err := initSystem(ctx, db, &cfg)
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, d, resumed)
	assert.Equal(t, head, rt.Head())
}

func TestInitSystemInMemory(t *testing.T) {
	ctx := newContext(t, nil)
	db, err := openDB(ctx, "Memory")
	require.NoError(t, err)
	defer db.Close()

	cfg := devConfig()
	cfg.VotingPeriod = 0
	_, _, err = initSystem(ctx, db, &cfg)
	assert.ErrorContains(t, err, "votingPeriod")
}

func TestPrintSoloStartupMessage(t *testing.T) {
	ctx := newContext(t, nil)
	db, err := openDB(ctx, "Memory")
	require.NoError(t, err)
	defer db.Close()

	cfg := devConfig()
	rt, d, err := initSystem(ctx, db, &cfg)
	require.NoError(t, err)
	defer rt.Close()

	var buf bytes.Buffer
	printSoloStartupMessage(&buf, rt.Head(), &cfg, d, "Memory", "http://localhost:8669/", "", "")
	out := buf.String()

	assert.Contains(t, out, d.Lord.String())
	assert.Contains(t, out, d.Governor.String())
	assert.Contains(t, out, "Disabled")
	for _, a := range genesis.DevAccounts() {
		assert.Contains(t, out, a.Address.String())
	}
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.GreaterOrEqual(t, normalizeCacheSize(1), 1)
	assert.LessOrEqual(t, normalizeCacheSize(1), 64)
}
