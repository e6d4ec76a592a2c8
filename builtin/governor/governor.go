// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governor implements token weighted governance. Holders above the
// proposal threshold propose batches of calls, delegates vote with their
// weight at the start of voting, and passed proposals run through the
// timelock the governor administers.
package governor

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/gen"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/builtin/timelock"
	"github.com/jokerswap/joker/builtin/token"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

var (
	logger = log.WithContext("pkg", "governor")

	// ABI of the governor program.
	ABI = abi.MustNew(gen.MustABI("compiled/Governor.abi"))

	evProposalCreated  = mustEvent("ProposalCreated")
	evVoteCast         = mustEvent("VoteCast")
	evProposalCanceled = mustEvent("ProposalCanceled")
	evProposalQueued   = mustEvent("ProposalQueued")
	evProposalExecuted = mustEvent("ProposalExecuted")

	getPriorVotes = mustMethod(token.ABI, "getPriorVotes")

	timelockDelay       = mustMethod(timelock.ABI, "delay")
	timelockQueued      = mustMethod(timelock.ABI, "queuedTransactions")
	timelockQueue       = mustMethod(timelock.ABI, "queueTransaction")
	timelockCancel      = mustMethod(timelock.ABI, "cancelTransaction")
	timelockExecute     = mustMethod(timelock.ABI, "executeTransaction")
	timelockAcceptAdmin = mustMethod(timelock.ABI, "acceptAdmin")

	// BallotTypeHash is the EIP-712 type hash of a signed vote.
	BallotTypeHash = joker.Keccak256([]byte("Ballot(uint256 proposalId,bool support)"))
)

func mustEvent(name string) *abi.Event {
	ev, ok := ABI.EventByName(name)
	if !ok {
		panic("governor: missing event " + name)
	}
	return ev
}

func mustMethod(a *abi.ABI, name string) *abi.Method {
	m, ok := a.MethodByName(name)
	if !ok {
		panic("governor: missing method " + name)
	}
	return m
}

// State is the lifecycle stage of a proposal.
type State uint8

const (
	Pending State = iota
	Active
	Canceled
	Defeated
	Succeeded
	Queued
	Expired
	Executed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Active:
		return "Active"
	case Canceled:
		return "Canceled"
	case Defeated:
		return "Defeated"
	case Succeeded:
		return "Succeeded"
	case Queued:
		return "Queued"
	case Expired:
		return "Expired"
	case Executed:
		return "Executed"
	}
	return "Unknown"
}

// Params are the voting rules, fixed at bootstrap.
type Params struct {
	QuorumVotes       *big.Int
	ProposalThreshold *big.Int
	VotingDelay       uint64 // blocks
	VotingPeriod      uint64 // blocks
}

// DefaultParams returns the rules of the production deployment.
func DefaultParams() *Params {
	return &Params{
		QuorumVotes:       new(big.Int).Set(joker.DefaultQuorumVotes),
		ProposalThreshold: new(big.Int).Set(joker.DefaultProposalThreshold),
		VotingDelay:       uint64(joker.VotingDelay),
		VotingPeriod:      uint64(joker.VotingPeriod),
	}
}

// ParamsOf returns the rules configured in cfg.
func ParamsOf(cfg *joker.Config) *Params {
	return &Params{
		QuorumVotes:       new(big.Int).Set(cfg.QuorumVotes),
		ProposalThreshold: new(big.Int).Set(cfg.ProposalThreshold),
		VotingDelay:       uint64(cfg.VotingDelay),
		VotingPeriod:      uint64(cfg.VotingPeriod),
	}
}

func (p *Params) Validate() error {
	switch {
	case p.QuorumVotes == nil || p.QuorumVotes.Sign() < 0:
		return errors.New("governor: negative quorum")
	case p.ProposalThreshold == nil || p.ProposalThreshold.Sign() < 0:
		return errors.New("governor: negative proposal threshold")
	case p.VotingPeriod == 0:
		return errors.New("governor: zero voting period")
	}
	return nil
}

// Proposal is a stored proposal. The description only lives in the
// ProposalCreated event.
type Proposal struct {
	ID           uint64
	Proposer     joker.Address
	Eta          *big.Int // zero until queued
	Targets      []joker.Address
	Values       []*big.Int
	Signatures   []string
	Calldatas    [][]byte
	StartBlock   uint64
	EndBlock     uint64
	ForVotes     *big.Int
	AgainstVotes *big.Int
	Canceled     bool
	Executed     bool
}

func (p *Proposal) normalize() *Proposal {
	for _, v := range []**big.Int{&p.Eta, &p.ForVotes, &p.AgainstVotes} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
	for i, v := range p.Values {
		if v == nil {
			p.Values[i] = new(big.Int)
		}
	}
	return p
}

// Actions returns the calls of p as timelock transactions at eta.
func (p *Proposal) Actions(eta *big.Int) []*timelock.Tx {
	txs := make([]*timelock.Tx, len(p.Targets))
	for i := range p.Targets {
		txs[i] = &timelock.Tx{
			Target:    p.Targets[i],
			Value:     p.Values[i],
			Signature: p.Signatures[i],
			Data:      p.Calldatas[i],
			Eta:       eta,
		}
	}
	return txs
}

// Receipt is the ballot of a voter on a proposal.
type Receipt struct {
	HasVoted bool
	Support  bool
	Votes    *big.Int
}

// Governor binds the governor deployed at an address.
type Governor struct {
	addr joker.Address
	ctx  xenv.Context

	timelock      *solidity.Address
	token         *solidity.Address
	guardian      *solidity.Address
	proposalCount *solidity.Uint256
	params        *solidity.Mapping[solidity.RawKey, *Params]
	proposals     *solidity.Mapping[solidity.Uint64Key, *Proposal]
	receipts      *solidity.Mapping[solidity.RawKey, *Receipt]
	latest        *solidity.Mapping[joker.Address, uint64]
}

var paramsKey = solidity.RawKey("rules")

// New binds the governor at addr. ctx may be nil for read only access.
func New(addr joker.Address, st *state.State, ctx xenv.Context) *Governor {
	sctx := solidity.NewContext(addr, st)
	return &Governor{
		addr:          addr,
		ctx:           ctx,
		timelock:      solidity.NewAddress(sctx, solidity.Slot("timelock")),
		token:         solidity.NewAddress(sctx, solidity.Slot("token")),
		guardian:      solidity.NewAddress(sctx, solidity.Slot("guardian")),
		proposalCount: solidity.NewUint256(sctx, solidity.Slot("proposalCount")),
		params:        solidity.NewMapping[solidity.RawKey, *Params](sctx, solidity.Slot("params")),
		proposals:     solidity.NewMapping[solidity.Uint64Key, *Proposal](sctx, solidity.Slot("proposals")),
		receipts:      solidity.NewMapping[solidity.RawKey, *Receipt](sctx, solidity.Slot("receipts")),
		latest:        solidity.NewMapping[joker.Address, uint64](sctx, solidity.Slot("latestProposalIds")),
	}
}

// Initialize wires the governor to its timelock and vote token.
func (g *Governor) Initialize(tl, tok, guardian joker.Address) error {
	g.timelock.Set(tl)
	g.token.Set(tok)
	g.guardian.Set(guardian)
	return g.params.Set(paramsKey, DefaultParams())
}

// SetParams replaces the voting rules. Bootstrap only, not reachable through the ABI.
func (g *Governor) SetParams(p *Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return g.params.Set(paramsKey, p)
}

func (g *Governor) Params() (*Params, error) {
	p, err := g.params.Get(paramsKey)
	if err != nil {
		return nil, err
	}
	if p.QuorumVotes == nil {
		return DefaultParams(), nil
	}
	if p.ProposalThreshold == nil {
		p.ProposalThreshold = new(big.Int)
	}
	return p, nil
}

func (g *Governor) Timelock() (joker.Address, error) { return g.timelock.Get() }
func (g *Governor) Token() (joker.Address, error)    { return g.token.Get() }
func (g *Governor) Guardian() (joker.Address, error) { return g.guardian.Get() }

func (g *Governor) ProposalCount() (uint64, error) {
	n, err := g.proposalCount.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// LatestProposalID returns the last proposal of proposer, zero if none.
func (g *Governor) LatestProposalID(proposer joker.Address) (uint64, error) {
	return g.latest.Get(proposer)
}

// Proposal returns proposal id, failing when id was never assigned.
func (g *Governor) Proposal(id uint64) (*Proposal, error) {
	n, err := g.ProposalCount()
	if err != nil {
		return nil, err
	}
	if id == 0 || id > n {
		return nil, reverts.Wrap(ErrInvalidProposalID, op("state"))
	}
	p, err := g.proposals.Get(solidity.Uint64Key(id))
	if err != nil {
		return nil, err
	}
	return p.normalize(), nil
}

func (g *Governor) setProposal(p *Proposal) error {
	return g.proposals.Set(solidity.Uint64Key(p.ID), p)
}

func receiptKey(id uint64, voter joker.Address) solidity.RawKey {
	return solidity.Keys(solidity.Uint64Key(id), voter)
}

// Receipt returns the ballot of voter on proposal id.
func (g *Governor) Receipt(id uint64, voter joker.Address) (*Receipt, error) {
	r, err := g.receipts.Get(receiptKey(id, voter))
	if err != nil {
		return nil, err
	}
	if r.Votes == nil {
		r.Votes = new(big.Int)
	}
	return r, nil
}

// State computes the stage of proposal id as of the executing block.
func (g *Governor) State(id uint64) (State, error) {
	return g.StateAt(id, g.ctx.BlockContext())
}

// StateAt computes the stage of proposal id as of block.
func (g *Governor) StateAt(id uint64, block *xenv.BlockContext) (State, error) {
	p, err := g.Proposal(id)
	if err != nil {
		return 0, err
	}
	params, err := g.Params()
	if err != nil {
		return 0, err
	}
	number := uint64(block.Number)
	switch {
	case p.Canceled:
		return Canceled, nil
	case number <= p.StartBlock:
		return Pending, nil
	case number <= p.EndBlock:
		return Active, nil
	case p.ForVotes.Cmp(p.AgainstVotes) <= 0 || p.ForVotes.Cmp(params.QuorumVotes) < 0:
		return Defeated, nil
	case p.Eta.Sign() == 0:
		return Succeeded, nil
	case p.Executed:
		return Executed, nil
	}
	expiry := new(big.Int).Add(p.Eta, new(big.Int).SetUint64(joker.TimelockGracePeriod))
	if new(big.Int).SetUint64(block.Time).Cmp(expiry) >= 0 {
		return Expired, nil
	}
	return Queued, nil
}

// priorVotes asks the vote token for the weight of account at block.
func (g *Governor) priorVotes(account joker.Address, block uint64) (*big.Int, error) {
	tok, err := g.token.Get()
	if err != nil {
		return nil, err
	}
	out, err := g.ctx.CallMethod(tok, getPriorVotes, nil, account, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, err
	}
	return outUint(out)
}

func outUint(out []any) (*big.Int, error) {
	if len(out) == 0 {
		return nil, errors.New("empty output")
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected output type %T", out[0])
	}
	return v, nil
}

func outBool(out []any) (bool, error) {
	if len(out) == 0 {
		return false, errors.New("empty output")
	}
	v, ok := out[0].(bool)
	if !ok {
		return false, errors.Errorf("unexpected output type %T", out[0])
	}
	return v, nil
}

// CommonAddresses converts addresses for abi encoding.
func CommonAddresses(addrs []joker.Address) []common.Address {
	out := make([]common.Address, len(addrs))
	for i, a := range addrs {
		out[i] = common.Address(a)
	}
	return out
}
