// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jokerswap/joker/builtin/governor"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

func proposalIDArg(env *xenv.Environment, id *big.Int) uint64 {
	if !id.IsUint64() {
		env.Stop(reverts.Wrap(governor.ErrInvalidProposalID, "GovernorAlpha::state"))
	}
	return id.Uint64()
}

// storedProposal mirrors the public proposals getter, which yields an empty
// record for ids never assigned.
func storedProposal(env *xenv.Environment, id *big.Int) *governor.Proposal {
	empty := &governor.Proposal{Eta: new(big.Int), ForVotes: new(big.Int), AgainstVotes: new(big.Int)}
	if !id.IsUint64() {
		return empty
	}
	p, err := Governor.Native(env).Proposal(id.Uint64())
	if errors.Is(err, governor.ErrInvalidProposalID) {
		return empty
	}
	check(env, err)
	return p
}

func init() {
	Governor.constructor = func(env *xenv.Environment) []any {
		var args struct {
			Timelock common.Address
			Token    common.Address
			Guardian common.Address
		}
		env.ParseArgs(&args)
		check(env, Governor.Native(env).Initialize(
			joker.Address(args.Timelock),
			joker.Address(args.Token),
			joker.Address(args.Guardian)))
		return nil
	}

	param := func(get func(*governor.Params) *big.Int) NativeFunc {
		return func(env *xenv.Environment) []any {
			p, err := Governor.Native(env).Params()
			check(env, err)
			return []any{get(p)}
		}
	}
	byID := func(run func(*governor.Governor, uint64) error) NativeFunc {
		return func(env *xenv.Environment) []any {
			var args struct {
				ProposalId *big.Int
			}
			env.ParseArgs(&args)
			check(env, run(Governor.Native(env), proposalIDArg(env, args.ProposalId)))
			return nil
		}
	}
	pendingAdmin := func(run func(*governor.Governor, joker.Address, *big.Int) error) NativeFunc {
		return func(env *xenv.Environment) []any {
			var args struct {
				NewPendingAdmin common.Address
				Eta             *big.Int
			}
			env.ParseArgs(&args)
			check(env, run(Governor.Native(env), joker.Address(args.NewPendingAdmin), args.Eta))
			return nil
		}
	}

	Governor.register([]define{
		{"name", func(env *xenv.Environment) []any {
			return []any{joker.GovernorName}
		}},
		{"quorumVotes", param(func(p *governor.Params) *big.Int { return p.QuorumVotes })},
		{"proposalThreshold", param(func(p *governor.Params) *big.Int { return p.ProposalThreshold })},
		{"votingDelay", param(func(p *governor.Params) *big.Int { return new(big.Int).SetUint64(p.VotingDelay) })},
		{"votingPeriod", param(func(p *governor.Params) *big.Int { return new(big.Int).SetUint64(p.VotingPeriod) })},
		{"proposalMaxOperations", func(env *xenv.Environment) []any {
			return []any{big.NewInt(joker.ProposalMaxOperations)}
		}},
		{"DOMAIN_TYPEHASH", func(env *xenv.Environment) []any {
			return []any{joker.DomainTypeHash}
		}},
		{"BALLOT_TYPEHASH", func(env *xenv.Environment) []any {
			return []any{governor.BallotTypeHash}
		}},
		{"timelock", func(env *xenv.Environment) []any {
			v, err := Governor.Native(env).Timelock()
			check(env, err)
			return []any{v}
		}},
		{"token", func(env *xenv.Environment) []any {
			v, err := Governor.Native(env).Token()
			check(env, err)
			return []any{v}
		}},
		{"guardian", func(env *xenv.Environment) []any {
			v, err := Governor.Native(env).Guardian()
			check(env, err)
			return []any{v}
		}},
		{"proposalCount", func(env *xenv.Environment) []any {
			v, err := Governor.Native(env).ProposalCount()
			check(env, err)
			return []any{new(big.Int).SetUint64(v)}
		}},
		{"latestProposalIds", func(env *xenv.Environment) []any {
			var args struct {
				Proposer common.Address
			}
			env.ParseArgs(&args)
			v, err := Governor.Native(env).LatestProposalID(joker.Address(args.Proposer))
			check(env, err)
			return []any{new(big.Int).SetUint64(v)}
		}},
		{"proposals", func(env *xenv.Environment) []any {
			var args struct {
				ProposalId *big.Int
			}
			env.ParseArgs(&args)
			p := storedProposal(env, args.ProposalId)
			return []any{
				new(big.Int).SetUint64(p.ID), p.Proposer, p.Eta,
				new(big.Int).SetUint64(p.StartBlock), new(big.Int).SetUint64(p.EndBlock),
				p.ForVotes, p.AgainstVotes, p.Canceled, p.Executed,
			}
		}},
		{"getActions", func(env *xenv.Environment) []any {
			var args struct {
				ProposalId *big.Int
			}
			env.ParseArgs(&args)
			p := storedProposal(env, args.ProposalId)
			values := p.Values
			if values == nil {
				values = []*big.Int{}
			}
			signatures := p.Signatures
			if signatures == nil {
				signatures = []string{}
			}
			calldatas := p.Calldatas
			if calldatas == nil {
				calldatas = [][]byte{}
			}
			return []any{governor.CommonAddresses(p.Targets), values, signatures, calldatas}
		}},
		{"getReceipt", func(env *xenv.Environment) []any {
			var args struct {
				ProposalId *big.Int
				Voter      common.Address
			}
			env.ParseArgs(&args)
			r, err := Governor.Native(env).Receipt(proposalIDArg(env, args.ProposalId), joker.Address(args.Voter))
			check(env, err)
			return []any{r.HasVoted, r.Support, r.Votes}
		}},
		{"state", func(env *xenv.Environment) []any {
			var args struct {
				ProposalId *big.Int
			}
			env.ParseArgs(&args)
			st, err := Governor.Native(env).State(proposalIDArg(env, args.ProposalId))
			check(env, err)
			return []any{uint8(st)}
		}},
		{"propose", func(env *xenv.Environment) []any {
			var args struct {
				Targets     []common.Address
				Values      []*big.Int
				Signatures  []string
				Calldatas   [][]byte
				Description string
			}
			env.ParseArgs(&args)
			targets := make([]joker.Address, len(args.Targets))
			for i, t := range args.Targets {
				targets[i] = joker.Address(t)
			}
			id, err := Governor.Native(env).Propose(targets, args.Values, args.Signatures, args.Calldatas, args.Description)
			check(env, err)
			return []any{new(big.Int).SetUint64(id)}
		}},
		{"castVote", func(env *xenv.Environment) []any {
			var args struct {
				ProposalId *big.Int
				Support    bool
			}
			env.ParseArgs(&args)
			check(env, Governor.Native(env).CastVote(proposalIDArg(env, args.ProposalId), args.Support))
			return nil
		}},
		{"castVoteBySig", func(env *xenv.Environment) []any {
			var args struct {
				ProposalId *big.Int
				Support    bool
				V          uint8
				R          common.Hash
				S          common.Hash
			}
			env.ParseArgs(&args)
			check(env, Governor.Native(env).CastVoteBySig(proposalIDArg(env, args.ProposalId), args.Support,
				args.V, joker.Bytes32(args.R), joker.Bytes32(args.S)))
			return nil
		}},
		{"queue", byID((*governor.Governor).Queue)},
		{"execute", byID((*governor.Governor).Execute)},
		{"cancel", byID((*governor.Governor).Cancel)},
		{"__acceptAdmin", func(env *xenv.Environment) []any {
			check(env, Governor.Native(env).AcceptAdmin())
			return nil
		}},
		{"__abdicate", func(env *xenv.Environment) []any {
			check(env, Governor.Native(env).Abdicate())
			return nil
		}},
		{"__queueSetTimelockPendingAdmin", pendingAdmin((*governor.Governor).QueueSetTimelockPendingAdmin)},
		{"__executeSetTimelockPendingAdmin", pendingAdmin((*governor.Governor).ExecuteSetTimelockPendingAdmin)},
	})
}
