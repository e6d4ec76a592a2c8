// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governor

import (
	"math/big"

	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/joker"
)

func (g *Governor) block() uint64 {
	return uint64(g.ctx.BlockContext().Number)
}

// lastBlockVotes is the weight of account at the end of the previous block.
func (g *Governor) lastBlockVotes(account joker.Address) (*big.Int, error) {
	b := g.block()
	if b == 0 {
		return new(big.Int), nil
	}
	return g.priorVotes(account, b-1)
}

// Propose opens a proposal made of the given calls. The proposer must hold
// at least the proposal threshold in votes and have no other live proposal.
func (g *Governor) Propose(targets []joker.Address, values []*big.Int, signatures []string, calldatas [][]byte, description string) (uint64, error) {
	const name = "propose"
	proposer := g.ctx.Caller()
	params, err := g.Params()
	if err != nil {
		return 0, err
	}
	votes, err := g.lastBlockVotes(proposer)
	if err != nil {
		return 0, err
	}
	if votes.Cmp(params.ProposalThreshold) < 0 {
		return 0, reverts.Wrap(ErrBelowThreshold, op(name))
	}
	if len(targets) != len(values) || len(targets) != len(signatures) || len(targets) != len(calldatas) {
		return 0, reverts.Wrap(ErrArityMismatch, op(name))
	}
	if len(targets) == 0 {
		return 0, reverts.Wrap(ErrNoActions, op(name))
	}
	if len(targets) > joker.ProposalMaxOperations {
		return 0, reverts.Wrap(ErrTooManyActions, op(name))
	}

	latest, err := g.latest.Get(proposer)
	if err != nil {
		return 0, err
	}
	if latest != 0 {
		st, err := g.State(latest)
		if err != nil {
			return 0, err
		}
		switch st {
		case Active:
			return 0, reverts.Wrap(ErrActiveProposal, op(name))
		case Pending:
			return 0, reverts.Wrap(ErrPendingProposal, op(name))
		}
	}

	count, err := g.ProposalCount()
	if err != nil {
		return 0, err
	}
	start := g.block() + params.VotingDelay
	p := &Proposal{
		ID:           count + 1,
		Proposer:     proposer,
		Eta:          new(big.Int),
		Targets:      targets,
		Values:       values,
		Signatures:   signatures,
		Calldatas:    calldatas,
		StartBlock:   start,
		EndBlock:     start + params.VotingPeriod,
		ForVotes:     new(big.Int),
		AgainstVotes: new(big.Int),
	}
	p.normalize()
	g.proposalCount.Set(new(big.Int).SetUint64(p.ID))
	if err := g.setProposal(p); err != nil {
		return 0, err
	}
	if err := g.latest.Set(proposer, p.ID); err != nil {
		return 0, err
	}

	g.ctx.Log(evProposalCreated, nil,
		new(big.Int).SetUint64(p.ID), proposer, CommonAddresses(targets), p.Values, signatures, calldatas,
		new(big.Int).SetUint64(p.StartBlock), new(big.Int).SetUint64(p.EndBlock), description)
	logger.Debug("proposal created", "id", p.ID, "proposer", proposer, "actions", len(targets), "start", p.StartBlock, "end", p.EndBlock)
	return p.ID, nil
}

// CastVote records the caller's ballot.
func (g *Governor) CastVote(id uint64, support bool) error {
	return g.castVote(g.ctx.Caller(), id, support)
}

// CastVoteBySig records the ballot of the signer of an EIP-712 Ballot struct.
func (g *Governor) CastVoteBySig(id uint64, support bool, v uint8, r, s joker.Bytes32) error {
	var flag uint64
	if support {
		flag = 1
	}
	structHash := joker.Keccak256(BallotTypeHash[:], joker.Uint64Word(id), joker.Uint64Word(flag))
	digest := joker.TypedDataHash(g.DomainSeparator(g.ctx.BlockContext().ChainID), structHash)
	signatory, err := joker.RecoverTypedSigner(digest, v, r, s)
	if err != nil || signatory.IsZero() {
		return reverts.Wrap(ErrInvalidSignature, op("castVoteBySig"))
	}
	return g.castVote(signatory, id, support)
}

// DomainSeparator returns the EIP-712 domain of the governor on chainID.
func (g *Governor) DomainSeparator(chainID uint64) joker.Bytes32 {
	return joker.DomainSeparator(joker.GovernorName, chainID, g.addr)
}

func (g *Governor) castVote(voter joker.Address, id uint64, support bool) error {
	const name = "_castVote"
	st, err := g.State(id)
	if err != nil {
		return err
	}
	if st != Active {
		return reverts.Wrap(ErrVotingClosed, op(name))
	}
	receipt, err := g.Receipt(id, voter)
	if err != nil {
		return err
	}
	if receipt.HasVoted {
		return reverts.Wrap(ErrAlreadyVoted, op(name))
	}
	p, err := g.Proposal(id)
	if err != nil {
		return err
	}
	votes, err := g.priorVotes(voter, p.StartBlock)
	if err != nil {
		return err
	}
	if support {
		p.ForVotes.Add(p.ForVotes, votes)
	} else {
		p.AgainstVotes.Add(p.AgainstVotes, votes)
	}
	if err := g.setProposal(p); err != nil {
		return err
	}
	if err := g.receipts.Set(receiptKey(id, voter), &Receipt{HasVoted: true, Support: support, Votes: votes}); err != nil {
		return err
	}
	g.ctx.Log(evVoteCast, nil, voter, new(big.Int).SetUint64(id), support, votes)
	return nil
}

func (g *Governor) timelockAddr() (joker.Address, error) {
	return g.timelock.Get()
}

// Queue schedules the calls of a succeeded proposal on the timelock, eta
// being now plus the timelock delay.
func (g *Governor) Queue(id uint64) error {
	st, err := g.State(id)
	if err != nil {
		return err
	}
	if st != Succeeded {
		return reverts.Wrap(ErrNotSucceeded, op("queue"))
	}
	tl, err := g.timelockAddr()
	if err != nil {
		return err
	}
	out, err := g.ctx.CallMethod(tl, timelockDelay, nil)
	if err != nil {
		return err
	}
	delay, err := outUint(out)
	if err != nil {
		return err
	}
	eta := new(big.Int).Add(new(big.Int).SetUint64(g.ctx.BlockContext().Time), delay)

	p, err := g.Proposal(id)
	if err != nil {
		return err
	}
	p.Eta = eta
	if err := g.setProposal(p); err != nil {
		return err
	}
	for _, tx := range p.Actions(eta) {
		hash, err := tx.Hash()
		if err != nil {
			return err
		}
		out, err := g.ctx.CallMethod(tl, timelockQueued, nil, hash)
		if err != nil {
			return err
		}
		queued, err := outBool(out)
		if err != nil {
			return err
		}
		if queued {
			return reverts.Wrap(ErrDuplicateAction, op("_queueOrRevert"))
		}
		if _, err := g.ctx.CallMethod(tl, timelockQueue, nil, tx.Target, tx.Value, tx.Signature, tx.Data, eta); err != nil {
			return err
		}
	}
	g.ctx.Log(evProposalQueued, nil, new(big.Int).SetUint64(id), eta)
	logger.Debug("proposal queued", "id", id, "eta", eta)
	return nil
}

// Execute runs the calls of a queued proposal through the timelock, in
// order. Any failing call fails the whole execution.
func (g *Governor) Execute(id uint64) error {
	st, err := g.State(id)
	if err != nil {
		return err
	}
	if st != Queued {
		return reverts.Wrap(ErrNotQueued, op("execute"))
	}
	tl, err := g.timelockAddr()
	if err != nil {
		return err
	}
	p, err := g.Proposal(id)
	if err != nil {
		return err
	}
	p.Executed = true
	if err := g.setProposal(p); err != nil {
		return err
	}
	for _, tx := range p.Actions(p.Eta) {
		if _, err := g.ctx.CallMethod(tl, timelockExecute, tx.Value, tx.Target, tx.Value, tx.Signature, tx.Data, tx.Eta); err != nil {
			return err
		}
	}
	g.ctx.Log(evProposalExecuted, nil, new(big.Int).SetUint64(id))
	logger.Debug("proposal executed", "id", id)
	return nil
}

// Cancel drops a proposal that has not run yet and unqueues its calls. The
// guardian may always cancel, anyone else only once the proposer's votes
// fell below the threshold.
func (g *Governor) Cancel(id uint64) error {
	const name = "cancel"
	st, err := g.State(id)
	if err != nil {
		return err
	}
	if st == Executed {
		return reverts.Wrap(ErrCancelExecuted, op(name))
	}
	p, err := g.Proposal(id)
	if err != nil {
		return err
	}
	guardian, err := g.guardian.Get()
	if err != nil {
		return err
	}
	if g.ctx.Caller() != guardian {
		params, err := g.Params()
		if err != nil {
			return err
		}
		votes, err := g.lastBlockVotes(p.Proposer)
		if err != nil {
			return err
		}
		if votes.Cmp(params.ProposalThreshold) >= 0 {
			return reverts.Wrap(ErrAboveThreshold, op(name))
		}
	}
	tl, err := g.timelockAddr()
	if err != nil {
		return err
	}
	p.Canceled = true
	if err := g.setProposal(p); err != nil {
		return err
	}
	for _, tx := range p.Actions(p.Eta) {
		if _, err := g.ctx.CallMethod(tl, timelockCancel, nil, tx.Target, tx.Value, tx.Signature, tx.Data, tx.Eta); err != nil {
			return err
		}
	}
	g.ctx.Log(evProposalCanceled, nil, new(big.Int).SetUint64(id))
	logger.Debug("proposal canceled", "id", id)
	return nil
}

func (g *Governor) onlyGuardian(name string) error {
	guardian, err := g.guardian.Get()
	if err != nil {
		return err
	}
	if g.ctx.Caller() != guardian {
		return reverts.Wrap(ErrNotGuardian, op(name))
	}
	return nil
}

// AcceptAdmin takes over the timelock once the governor was nominated.
func (g *Governor) AcceptAdmin() error {
	if err := g.onlyGuardian("__acceptAdmin"); err != nil {
		return err
	}
	tl, err := g.timelockAddr()
	if err != nil {
		return err
	}
	_, err = g.ctx.CallMethod(tl, timelockAcceptAdmin, nil)
	return err
}

// Abdicate clears the guardian for good.
func (g *Governor) Abdicate() error {
	if err := g.onlyGuardian("__abdicate"); err != nil {
		return err
	}
	g.guardian.Set(joker.Address{})
	return nil
}

func setPendingAdminCall(newPendingAdmin joker.Address) (string, []byte) {
	return "setPendingAdmin(address)", joker.Word(newPendingAdmin[:])
}

// QueueSetTimelockPendingAdmin queues the nomination of the next timelock admin.
func (g *Governor) QueueSetTimelockPendingAdmin(newPendingAdmin joker.Address, eta *big.Int) error {
	if err := g.onlyGuardian("__queueSetTimelockPendingAdmin"); err != nil {
		return err
	}
	tl, err := g.timelockAddr()
	if err != nil {
		return err
	}
	sig, data := setPendingAdminCall(newPendingAdmin)
	_, err = g.ctx.CallMethod(tl, timelockQueue, nil, tl, new(big.Int), sig, data, eta)
	return err
}

// ExecuteSetTimelockPendingAdmin runs a nomination queued earlier.
func (g *Governor) ExecuteSetTimelockPendingAdmin(newPendingAdmin joker.Address, eta *big.Int) error {
	if err := g.onlyGuardian("__executeSetTimelockPendingAdmin"); err != nil {
		return err
	}
	tl, err := g.timelockAddr()
	if err != nil {
		return err
	}
	sig, data := setPendingAdminCall(newPendingAdmin)
	_, err = g.ctx.CallMethod(tl, timelockExecute, nil, tl, new(big.Int), sig, data, eta)
	return err
}
