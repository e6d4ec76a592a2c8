// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proposals serves governance proposals and ballots.
package proposals

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/builtin/governor"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

// Action is one call of a proposal.
type Action struct {
	Target    joker.Address         `json:"target"`
	Value     *math.HexOrDecimal256 `json:"value"`
	Signature string                `json:"signature"`
	Calldata  hexutil.Bytes         `json:"calldata"`
}

// Proposal for json marshal.
type Proposal struct {
	ID           uint64                `json:"id"`
	Proposer     joker.Address         `json:"proposer"`
	State        string                `json:"state"`
	Eta          *math.HexOrDecimal256 `json:"eta"`
	StartBlock   uint64                `json:"startBlock"`
	EndBlock     uint64                `json:"endBlock"`
	ForVotes     *math.HexOrDecimal256 `json:"forVotes"`
	AgainstVotes *math.HexOrDecimal256 `json:"againstVotes"`
	Canceled     bool                  `json:"canceled"`
	Executed     bool                  `json:"executed"`
	Actions      []*Action             `json:"actions"`
}

// Ballot is the receipt of a voter.
type Ballot struct {
	ProposalID uint64                `json:"proposalId"`
	Voter      joker.Address         `json:"voter"`
	HasVoted   bool                  `json:"hasVoted"`
	Support    bool                  `json:"support"`
	Votes      *math.HexOrDecimal256 `json:"votes"`
}

// Rules are the voting parameters of the governor.
type Rules struct {
	ProposalCount     uint64                `json:"proposalCount"`
	QuorumVotes       *math.HexOrDecimal256 `json:"quorumVotes"`
	ProposalThreshold *math.HexOrDecimal256 `json:"proposalThreshold"`
	VotingDelay       uint64                `json:"votingDelay"`
	VotingPeriod      uint64                `json:"votingPeriod"`
	Guardian          joker.Address         `json:"guardian"`
}

type Proposals struct {
	rt   *runtime.Runtime
	addr joker.Address
}

func New(rt *runtime.Runtime, addr joker.Address) *Proposals {
	return &Proposals{rt, addr}
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func convertProposal(p *governor.Proposal, st governor.State) *Proposal {
	actions := make([]*Action, 0, len(p.Targets))
	for i := range p.Targets {
		actions = append(actions, &Action{
			Target:    p.Targets[i],
			Value:     hex(p.Values[i]),
			Signature: p.Signatures[i],
			Calldata:  p.Calldatas[i],
		})
	}
	return &Proposal{
		ID:           p.ID,
		Proposer:     p.Proposer,
		State:        st.String(),
		Eta:          hex(p.Eta),
		StartBlock:   p.StartBlock,
		EndBlock:     p.EndBlock,
		ForVotes:     hex(p.ForVotes),
		AgainstVotes: hex(p.AgainstVotes),
		Canceled:     p.Canceled,
		Executed:     p.Executed,
		Actions:      actions,
	}
}

func proposalError(err error) error {
	if errors.Is(err, governor.ErrInvalidProposalID) {
		return utils.NotFound(err)
	}
	return utils.StateError(err)
}

func (p *Proposals) handleGetRules(w http.ResponseWriter, _ *http.Request) error {
	var rules *Rules
	err := p.rt.View(func(st *state.State, _ runtime.Head) error {
		g := builtin.Governor.At(p.addr, st)
		params, err := g.Params()
		if err != nil {
			return err
		}
		count, err := g.ProposalCount()
		if err != nil {
			return err
		}
		guardian, err := g.Guardian()
		if err != nil {
			return err
		}
		rules = &Rules{
			ProposalCount:     count,
			QuorumVotes:       hex(params.QuorumVotes),
			ProposalThreshold: hex(params.ProposalThreshold),
			VotingDelay:       params.VotingDelay,
			VotingPeriod:      params.VotingPeriod,
			Guardian:          guardian,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, rules)
}

func (p *Proposals) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var res *Proposal
	err = p.rt.View(func(st *state.State, head runtime.Head) error {
		g := builtin.Governor.At(p.addr, st)
		prop, err := g.Proposal(id)
		if err != nil {
			return err
		}
		stage, err := g.StateAt(id, &xenv.BlockContext{Number: head.Number, Time: head.Time})
		if err != nil {
			return err
		}
		res = convertProposal(prop, stage)
		return nil
	})
	if err != nil {
		return proposalError(err)
	}
	return utils.WriteJSON(w, res)
}

func (p *Proposals) handleGetBallot(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	voter, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var res *Ballot
	err = p.rt.View(func(st *state.State, _ runtime.Head) error {
		g := builtin.Governor.At(p.addr, st)
		if _, err := g.Proposal(id); err != nil {
			return err
		}
		r, err := g.Receipt(id, voter)
		if err != nil {
			return err
		}
		res = &Ballot{
			ProposalID: id,
			Voter:      voter,
			HasVoted:   r.HasVoted,
			Support:    r.Support,
			Votes:      hex(r.Votes),
		}
		return nil
	})
	if err != nil {
		return proposalError(err)
	}
	return utils.WriteJSON(w, res)
}

func (p *Proposals) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("proposals_get_rules").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetRules))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("proposals_get_proposal").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetProposal))
	sub.Path("/{id}/receipts/{address}").
		Methods(http.MethodGet).
		Name("proposals_get_receipt").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetBallot))
}
