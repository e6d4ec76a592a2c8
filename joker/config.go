// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package joker

import (
	"bytes"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the construction-time parameter set of the whole system.
// Values are fixed once the contracts are bootstrapped.
type Config struct {
	ChainID uint64 `yaml:"chainId"`

	// reward engine
	StartBlock        uint32   `yaml:"startBlock"`
	RewardPerBlock    *big.Int `yaml:"rewardPerBlock"`
	MinRewardPerBlock *big.Int `yaml:"minRewardPerBlock"`
	HalvingInterval   uint32   `yaml:"halvingInterval"`
	MaxSupply         *big.Int `yaml:"maxSupply"`

	// governance
	VotingDelay       uint32   `yaml:"votingDelay"`
	VotingPeriod      uint32   `yaml:"votingPeriod"`
	QuorumVotes       *big.Int `yaml:"quorumVotes"`
	ProposalThreshold *big.Int `yaml:"proposalThreshold"`
	TimelockDelay     uint64   `yaml:"timelockDelay"` // seconds

	// bootstrap roles
	Deployer Address `yaml:"deployer"`
	Dev      Address `yaml:"dev"`
	Guardian Address `yaml:"guardian"`

	StakeTokens []StakeTokenConfig `yaml:"stakeTokens"`
}

// StakeTokenConfig describes a stake token deployed and pooled at bootstrap.
type StakeTokenConfig struct {
	Name       string   `yaml:"name"`
	Symbol     string   `yaml:"symbol"`
	Supply     *big.Int `yaml:"supply"`
	Holder     Address  `yaml:"holder"`
	AllocPoint uint64   `yaml:"allocPoint"`
}

// DefaultConfig returns the parameters of the production deployment.
func DefaultConfig() Config {
	return Config{
		ChainID:           1,
		RewardPerBlock:    new(big.Int).Set(InitialRewardPerBlock),
		MinRewardPerBlock: new(big.Int).Set(MinRewardPerBlock),
		HalvingInterval:   HalvingInterval,
		MaxSupply:         new(big.Int).Set(MaxSupply),
		VotingDelay:       VotingDelay,
		VotingPeriod:      VotingPeriod,
		QuorumVotes:       new(big.Int).Set(DefaultQuorumVotes),
		ProposalThreshold: new(big.Int).Set(DefaultProposalThreshold),
		TimelockDelay:     TimelockDefaultDelay,
		Deployer:          BytesToAddress([]byte("deployer")),
		Dev:               BytesToAddress([]byte("dev")),
		Guardian:          BytesToAddress([]byte("guardian")),
	}
}

// LoadConfig reads a yaml config file, fields left out keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode renders the config as yaml.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks the config for values the contracts would reject or misbehave on.
func (c *Config) Validate() error {
	switch {
	case c.RewardPerBlock == nil || c.RewardPerBlock.Sign() <= 0:
		return errors.New("config: rewardPerBlock must be positive")
	case c.MinRewardPerBlock == nil || c.MinRewardPerBlock.Sign() < 0:
		return errors.New("config: minRewardPerBlock must not be negative")
	case c.MinRewardPerBlock.Cmp(c.RewardPerBlock) > 0:
		return errors.New("config: minRewardPerBlock exceeds rewardPerBlock")
	case c.HalvingInterval == 0:
		return errors.New("config: halvingInterval must be positive")
	case c.MaxSupply == nil || c.MaxSupply.Sign() <= 0:
		return errors.New("config: maxSupply must be positive")
	case c.VotingPeriod == 0:
		return errors.New("config: votingPeriod must be positive")
	case c.QuorumVotes == nil || c.QuorumVotes.Sign() < 0:
		return errors.New("config: quorumVotes must not be negative")
	case c.ProposalThreshold == nil || c.ProposalThreshold.Sign() < 0:
		return errors.New("config: proposalThreshold must not be negative")
	case c.TimelockDelay < TimelockMinimumDelay || c.TimelockDelay > TimelockMaximumDelay:
		return errors.Errorf("config: timelockDelay must be within [%d, %d]", TimelockMinimumDelay, TimelockMaximumDelay)
	}
	for i, st := range c.StakeTokens {
		if st.Supply == nil || st.Supply.Sign() < 0 {
			return errors.Errorf("config: stakeTokens[%d] supply must not be negative", i)
		}
		if st.Symbol == "" {
			return errors.Errorf("config: stakeTokens[%d] symbol is empty", i)
		}
	}
	return nil
}
