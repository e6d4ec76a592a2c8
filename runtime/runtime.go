// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/kv"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// MaxCallDepth limits nested calls.
const MaxCallDepth = 64

var (
	ErrCallDepth           = reverts.New(reverts.Invariant, "CallDepthExceeded", "call depth exceeded")
	ErrInsufficientBalance = reverts.New(reverts.Invariant, "InsufficientBalance", "insufficient balance for transfer")

	headKey       = []byte("head")
	systemAddress = joker.BytesToAddress([]byte("joker.runtime"))
)

// Options options for creating a runtime.
type Options struct {
	// AutoMine seals every top-level transaction in its own block.
	AutoMine    bool
	CacheSizeMB int
	ChainID     uint64
}

// Runtime executes calls against builtin programs, one at a time, and
// seals them into blocks.
type Runtime struct {
	mu       sync.Mutex
	db       kv.Store
	state    *state.State
	head     Head
	shift    uint64
	autoMine bool
	chainID  uint64

	pending  []*Receipt
	logs     []*xenv.Log
	depth    int
	blockCtx *xenv.BlockContext

	feed  event.Feed
	scope event.SubscriptionScope
}

// New creates a runtime over the store, resuming from the persisted head if any.
func New(db kv.Store, opts Options) (*Runtime, error) {
	r := &Runtime{
		db:       db,
		state:    state.New(db, state.NewCache(opts.CacheSizeMB)),
		autoMine: opts.AutoMine,
		chainID:  opts.ChainID,
	}
	meta := kv.Meta.NewGetter(db)
	data, err := meta.Get(headKey)
	if err != nil {
		if !meta.IsNotFound(err) {
			return nil, errors.Wrap(err, "load head")
		}
		return r, nil
	}
	if err := rlp.DecodeBytes(data, &r.head); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	metricHeadBlock().Set(int64(r.head.Number))
	return r, nil
}

// Head returns the latest sealed block.
func (r *Runtime) Head() Head {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.head
}

// Initialized tells whether any block has been sealed.
func (r *Runtime) Initialized() (bool, error) {
	return kv.Meta.NewGetter(r.db).Has(headKey)
}

// SetAutoMine switches auto-mine mode.
func (r *Runtime) SetAutoMine(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoMine = on
}

// SubscribeBlocks subscribes to sealed blocks.
// Blocks are delivered synchronously, the channel should be drained promptly.
func (r *Runtime) SubscribeBlocks(ch chan<- *Block) event.Subscription {
	return r.scope.Track(r.feed.Subscribe(ch))
}

// Close unsubscribes all subscribers.
func (r *Runtime) Close() {
	r.scope.Close()
}

func (r *Runtime) pendingContext() *xenv.BlockContext {
	return &xenv.BlockContext{Number: r.head.Number + 1, Time: r.head.Time + r.shift, ChainID: r.chainID}
}

// Execute runs a transaction in the pending block.
// A revert is reported in the receipt; the returned error is for storage failures only.
func (r *Runtime) Execute(caller, to joker.Address, value *big.Int, input []byte) (*Receipt, error) {
	var published []*Block
	defer func() { r.publish(published) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	receipt, err := r.run(r.pendingContext(), caller, to, func() ([]byte, error) {
		return r.call(caller, to, value, input)
	})
	if err != nil {
		return nil, err
	}
	metricTxDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"kind": "execute"})

	r.pending = append(r.pending, receipt)
	if r.autoMine {
		if published, err = r.seal(1); err != nil {
			return nil, err
		}
	}
	return receipt, nil
}

// Deploy deploys prog with constructor args in the pending block.
func (r *Runtime) Deploy(deployer joker.Address, prog builtin.Program, args ...any) (*Receipt, error) {
	var published []*Block
	defer func() { r.publish(published) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	ctor, run := prog.Constructor()
	input, err := ctor.EncodeInput(args...)
	if err != nil {
		return nil, errors.WithMessagef(err, "encode %s constructor", prog.Name())
	}

	var addr joker.Address
	receipt, err := r.run(r.pendingContext(), deployer, joker.Address{}, func() ([]byte, error) {
		nonces := solidity.NewMapping[joker.Address, uint64](solidity.NewContext(systemAddress, r.state), solidity.Slot("nonces"))
		nonce, err := nonces.Get(deployer)
		if err != nil {
			return nil, err
		}
		if err := nonces.Set(deployer, nonce+1); err != nil {
			return nil, err
		}
		addr = joker.Address(crypto.CreateAddress(common.Address(deployer), nonce))
		r.state.SetCode(addr, prog.Code())
		if run == nil {
			return nil, nil
		}
		env := xenv.New(ctor, r.state, r.blockCtx, (*host)(r), &xenv.Frame{Caller: deployer, To: addr, Input: input})
		return env.Call(func(env *xenv.Environment) []any { return run(env) })()
	})
	if err != nil {
		return nil, err
	}
	if !receipt.Reverted {
		receipt.To = addr
		receipt.Deployed = &addr
		logger.Debug("program deployed", "program", prog.Name(), "address", addr)
	}

	r.pending = append(r.pending, receipt)
	if r.autoMine {
		if published, err = r.seal(1); err != nil {
			return nil, err
		}
	}
	return receipt, nil
}

// Inspect runs a call on top of the latest sealed block and discards its changes.
func (r *Runtime) Inspect(caller, to joker.Address, value *big.Int, input []byte) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	chk := r.state.NewCheckpoint()
	defer r.state.RevertTo(chk)

	receipt, err := r.run(&xenv.BlockContext{Number: r.head.Number, Time: r.head.Time, ChainID: r.chainID}, caller, to, func() ([]byte, error) {
		return r.call(caller, to, value, input)
	})
	metricTxDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"kind": "inspect"})
	return receipt, err
}

// View runs fn against the state of the latest sealed block plus the pending changes.
// Changes made by fn are discarded.
func (r *Runtime) View(fn func(st *state.State, head Head) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chk := r.state.NewCheckpoint()
	defer r.state.RevertTo(chk)
	return fn(r.state, r.head)
}

// Update runs fn against the pending state and keeps its changes unless fn fails.
// It is meant for bootstrap code that writes program storage directly.
func (r *Runtime) Update(fn func(st *state.State, head Head) error) error {
	var published []*Block
	defer func() { r.publish(published) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	chk := r.state.NewCheckpoint()
	if err := fn(r.state, r.head); err != nil {
		r.state.RevertTo(chk)
		return err
	}
	if r.autoMine {
		var err error
		published, err = r.seal(1)
		return err
	}
	return nil
}

// Fund credits native balance to addr in the pending block.
func (r *Runtime) Fund(addr joker.Address, amount *big.Int) error {
	var published []*Block
	defer func() { r.publish(published) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	bal, err := r.state.GetBalance(addr)
	if err != nil {
		return err
	}
	if err := r.state.SetBalance(addr, new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	if r.autoMine {
		published, err = r.seal(1)
	}
	return err
}

// IncreaseTime shifts the time of the next sealed block.
func (r *Runtime) IncreaseTime(seconds uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shift += seconds
}

// SyncTime moves the time of the next sealed block up to now.
// The clock never goes backward.
func (r *Runtime) SyncTime(now uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now > r.head.Time+r.shift {
		r.shift = now - r.head.Time
	}
}

// Mine seals the pending block followed by empty blocks, blocks in total,
// moving the clock forward by seconds.
func (r *Runtime) Mine(blocks uint32, seconds uint64) error {
	var published []*Block
	defer func() { r.publish(published) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.shift += seconds
	if blocks == 0 {
		return nil
	}
	var err error
	published, err = r.seal(blocks)
	return err
}

// run executes exec as a top-level call and builds its receipt.
func (r *Runtime) run(ctx *xenv.BlockContext, caller, to joker.Address, exec func() ([]byte, error)) (*Receipt, error) {
	r.blockCtx = ctx
	r.logs = nil
	r.depth = 0

	receipt := &Receipt{
		BlockNumber: ctx.Number,
		BlockTime:   ctx.Time,
		Caller:      caller,
		To:          to,
	}

	chk := r.state.NewCheckpoint()
	output, err := exec()
	if err != nil {
		r.state.RevertTo(chk)
		var se *state.Error
		if errors.As(err, &se) {
			return nil, err
		}
		receipt.Reverted = true
		receipt.Reason = err.Error()
		receipt.Output = reverts.Encode(receipt.Reason)
		receipt.Err = err
		logger.Trace("call reverted", "caller", caller, "to", to, "reason", receipt.Reason)
		return receipt, nil
	}
	receipt.Output = output
	receipt.Logs = r.logs
	r.logs = nil
	return receipt, nil
}

// call runs a call inside its own checkpoint, dropping its logs on failure.
func (r *Runtime) call(caller, to joker.Address, value *big.Int, input []byte) ([]byte, error) {
	if r.depth >= MaxCallDepth {
		return nil, ErrCallDepth
	}
	r.depth++
	defer func() { r.depth-- }()

	chk := r.state.NewCheckpoint()
	nlogs := len(r.logs)

	program, method, output, err := r.exec(caller, to, value, input)
	status := "ok"
	if err != nil {
		status = "reverted"
		r.state.RevertTo(chk)
		r.logs = r.logs[:nlogs]
	}
	if program != "" {
		metricCallCount().AddWithLabel(1, map[string]string{"program": program, "method": method, "status": status})
	}
	return output, err
}

func (r *Runtime) exec(caller, to joker.Address, value *big.Int, input []byte) (program, method string, output []byte, err error) {
	if value != nil && value.Sign() > 0 {
		if err = r.transfer(caller, to, value); err != nil {
			return
		}
	}

	code, err := r.state.GetCode(to)
	if err != nil {
		return
	}
	if len(code) == 0 {
		// plain value transfer
		return
	}
	prog, ok := builtin.Lookup(code)
	if !ok {
		err = errors.Errorf("unknown program %q at %v", code, to)
		return
	}
	program = prog.Name()

	if len(input) == 0 {
		if !prog.Receivable() {
			err = builtin.ErrMethodNotFound
		}
		return
	}

	m, run, err := prog.Method(input)
	if err != nil {
		return
	}
	method = m.Name()

	env := xenv.New(m, r.state, r.blockCtx, (*host)(r), &xenv.Frame{
		Caller: caller,
		To:     to,
		Value:  value,
		Input:  input,
	})
	output, err = env.Call(func(env *xenv.Environment) []any { return run(env) })()
	return
}

func (r *Runtime) transfer(from, to joker.Address, value *big.Int) error {
	fromBal, err := r.state.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(value) < 0 {
		return ErrInsufficientBalance
	}
	toBal, err := r.state.GetBalance(to)
	if err != nil {
		return err
	}
	if err := r.state.SetBalance(from, new(big.Int).Sub(fromBal, value)); err != nil {
		return err
	}
	return r.state.SetBalance(to, new(big.Int).Add(toBal, value))
}

// seal seals the pending block and n-1 empty blocks after it, then commits.
func (r *Runtime) seal(n uint32) ([]*Block, error) {
	first := &Block{
		Number:   r.head.Number + 1,
		Time:     r.head.Time + r.shift,
		Receipts: r.pending,
	}
	newHead := Head{Number: r.head.Number + n, Time: first.Time}

	data, err := rlp.EncodeToBytes(&newHead)
	if err != nil {
		return nil, err
	}
	batch := r.db.NewBatch()
	if err := kv.Meta.NewPutter(batch).Put(headKey, data); err != nil {
		return nil, err
	}
	if _, err := r.state.Commit(batch); err != nil {
		return nil, err
	}

	r.head = newHead
	r.pending = nil
	r.shift = 0

	metricHeadBlock().Set(int64(newHead.Number))
	metricSealedBlocks().Add(int64(n))
	logger.Trace("blocks sealed", "number", newHead.Number, "time", newHead.Time, "txs", len(first.Receipts))

	published := []*Block{first}
	if n > 1 {
		published = append(published, &Block{Number: newHead.Number, Time: newHead.Time})
	}
	return published, nil
}

func (r *Runtime) publish(blocks []*Block) {
	for _, b := range blocks {
		r.feed.Send(b)
	}
}

// host implements xenv.Host for programs executed by the runtime.
type host Runtime

func (h *host) Call(caller, to joker.Address, value *big.Int, input []byte) ([]byte, error) {
	return (*Runtime)(h).call(caller, to, value, input)
}

func (h *host) AddLog(log *xenv.Log) {
	h.logs = append(h.logs, log)
}
