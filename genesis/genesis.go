// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis bootstraps the reward engine, the voting token and the
// governance programs into an empty runtime.
package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/builtin/governor"
	"github.com/jokerswap/joker/builtin/lord"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/kv"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/state"
)

var (
	logger        = log.WithContext("pkg", "genesis")
	deploymentKey = []byte("deployment")
)

// Deployment names.
const (
	TokenName    = "token"
	TimelockName = "timelock"
	LordName     = "lord"
	GovernorName = "governor"
)

// StakeTokenName returns the deployment name of the i-th configured stake token.
func StakeTokenName(i int) string {
	return fmt.Sprintf("stake%d", i)
}

// Deployment holds the addresses of a bootstrapped system.
type Deployment struct {
	Token       joker.Address   `json:"token"`
	Timelock    joker.Address   `json:"timelock"`
	Lord        joker.Address   `json:"lord"`
	Governor    joker.Address   `json:"governor"`
	StakeTokens []joker.Address `json:"stakeTokens"`
}

// New composes the bootstrap described by cfg.
//
// The token is owned by the engine, the engine by the timelock and the
// timelock is administered by the governor once the build completes.
// Stake tokens are pooled with the engine before it leaves the deployer.
func New(cfg *joker.Config) *Builder {
	deployer := cfg.Deployer

	b := new(Builder).
		Deploy(TokenName, deployer, builtin.Token, cfg.MaxSupply).
		Deploy(TimelockName, deployer, builtin.Timelock, deployer, new(big.Int).SetUint64(cfg.TimelockDelay)).
		Deploy(LordName, deployer, builtin.Lord, Ref(TokenName), cfg.Dev, Ref(TimelockName), big.NewInt(int64(cfg.StartBlock))).
		State(func(st *state.State, addrs Addresses) error {
			return builtin.Lord.At(addrs[LordName], st).SetSchedule(lord.ScheduleOf(cfg))
		}).
		Deploy(GovernorName, deployer, builtin.Governor, Ref(TimelockName), Ref(TokenName), cfg.Guardian).
		State(func(st *state.State, addrs Addresses) error {
			return builtin.Governor.At(addrs[GovernorName], st).SetParams(governor.ParamsOf(cfg))
		}).
		Call(deployer, TokenName, "transferOwnership", Ref(LordName))

	for i, s := range cfg.StakeTokens {
		name := StakeTokenName(i)
		b.Deploy(name, deployer, builtin.ERC20, s.Name, s.Symbol, s.Supply, s.Holder).
			Call(deployer, LordName, "add", new(big.Int).SetUint64(s.AllocPoint), Ref(name), false, false)
	}

	return b.
		Call(deployer, LordName, "transferOwnership", Ref(TimelockName)).
		Call(deployer, TimelockName, "setPendingAdmin", Ref(GovernorName)).
		Call(cfg.Guardian, GovernorName, "__acceptAdmin")
}

// DeploymentOf picks the addresses of a build composed by New.
func DeploymentOf(cfg *joker.Config, addrs Addresses) (*Deployment, error) {
	d := &Deployment{
		Token:    addrs[TokenName],
		Timelock: addrs[TimelockName],
		Lord:     addrs[LordName],
		Governor: addrs[GovernorName],
	}
	for i := range cfg.StakeTokens {
		d.StakeTokens = append(d.StakeTokens, addrs[StakeTokenName(i)])
	}
	if d.Token.IsZero() || d.Timelock.IsZero() || d.Lord.IsZero() || d.Governor.IsZero() {
		return nil, errors.New("genesis: incomplete deployment")
	}
	return d, nil
}

// Build validates cfg, runs b, composed by New or NewDevnet from the same cfg,
// and persists the resulting deployment in db.
func Build(rt *runtime.Runtime, db kv.Putter, cfg *joker.Config, b *Builder) (*Deployment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	addrs, err := b.Build(rt)
	if err != nil {
		return nil, err
	}
	d, err := DeploymentOf(cfg, addrs)
	if err != nil {
		return nil, err
	}
	data, err := rlp.EncodeToBytes(d)
	if err != nil {
		return nil, err
	}
	if err := kv.Meta.NewPutter(db).Put(deploymentKey, data); err != nil {
		return nil, errors.Wrap(err, "save deployment")
	}
	logger.Info("system bootstrapped", "token", d.Token, "lord", d.Lord, "governor", d.Governor, "timelock", d.Timelock)
	return d, nil
}

// LoadDeployment reads the deployment saved by Build.
func LoadDeployment(db kv.Getter) (*Deployment, error) {
	data, err := kv.Meta.NewGetter(db).Get(deploymentKey)
	if err != nil {
		return nil, errors.Wrap(err, "load deployment")
	}
	var d Deployment
	if err := rlp.DecodeBytes(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode deployment")
	}
	return &d, nil
}
