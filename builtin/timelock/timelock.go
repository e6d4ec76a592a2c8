// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timelock implements the delayed executor that owns the governed
// programs. Transactions are queued with an eta, run once the delay has passed
// and go stale after the grace period.
package timelock

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/gen"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

var (
	logger = log.WithContext("pkg", "timelock")

	// ABI of the timelock program.
	ABI = abi.MustNew(gen.MustABI("compiled/Timelock.abi"))

	evNewAdmin           = mustEvent("NewAdmin")
	evNewPendingAdmin    = mustEvent("NewPendingAdmin")
	evNewDelay           = mustEvent("NewDelay")
	evQueueTransaction   = mustEvent("QueueTransaction")
	evCancelTransaction  = mustEvent("CancelTransaction")
	evExecuteTransaction = mustEvent("ExecuteTransaction")

	txArgs = ethabi.Arguments{
		{Type: mustType("address")},
		{Type: mustType("uint256")},
		{Type: mustType("string")},
		{Type: mustType("bytes")},
		{Type: mustType("uint256")},
	}
)

func mustEvent(name string) *abi.Event {
	ev, ok := ABI.EventByName(name)
	if !ok {
		panic("timelock: missing event " + name)
	}
	return ev
}

func mustType(name string) ethabi.Type {
	t, err := ethabi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Tx is a call the timelock holds until its eta.
type Tx struct {
	Target    joker.Address
	Value     *big.Int
	Signature string
	Data      []byte
	Eta       *big.Int
}

// Hash identifies tx in the queue: keccak256 of the abi encoded tuple
// (target, value, signature, data, eta).
func (tx *Tx) Hash() (joker.Bytes32, error) {
	enc, err := txArgs.Pack(common.Address(tx.Target), orZero(tx.Value), tx.Signature, orEmpty(tx.Data), orZero(tx.Eta))
	if err != nil {
		return joker.Bytes32{}, errors.WithMessage(err, "encode tx")
	}
	return joker.Bytes32(crypto.Keccak256Hash(enc)), nil
}

// Input is the call data sent to the target. A non empty signature is
// turned into its selector and prepended to the data.
func (tx *Tx) Input() []byte {
	if tx.Signature == "" {
		return tx.Data
	}
	id := abi.SignatureID(tx.Signature)
	return append(id[:], tx.Data...)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func orEmpty(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// Timelock binds the timelock deployed at an address.
type Timelock struct {
	addr joker.Address
	ctx  xenv.Context

	admin            *solidity.Address
	pendingAdmin     *solidity.Address
	delay            *solidity.Uint256
	adminInitialized *solidity.Bool
	queued           *solidity.Mapping[joker.Bytes32, bool]
}

// New binds the timelock at addr. ctx may be nil for read only access.
func New(addr joker.Address, st *state.State, ctx xenv.Context) *Timelock {
	sctx := solidity.NewContext(addr, st)
	return &Timelock{
		addr:             addr,
		ctx:              ctx,
		admin:            solidity.NewAddress(sctx, solidity.Slot("admin")),
		pendingAdmin:     solidity.NewAddress(sctx, solidity.Slot("pendingAdmin")),
		delay:            solidity.NewUint256(sctx, solidity.Slot("delay")),
		adminInitialized: solidity.NewBool(sctx, solidity.Slot("admin_initialized")),
		queued:           solidity.NewMapping[joker.Bytes32, bool](sctx, solidity.Slot("queuedTransactions")),
	}
}

func checkDelay(delay *big.Int, name string) error {
	if delay.Cmp(new(big.Int).SetUint64(joker.TimelockMinimumDelay)) < 0 {
		return reverts.Wrap(ErrDelayTooShort, op(name))
	}
	if delay.Cmp(new(big.Int).SetUint64(joker.TimelockMaximumDelay)) > 0 {
		return reverts.Wrap(ErrDelayTooLong, op(name))
	}
	return nil
}

// Initialize sets the first admin and the delay.
func (t *Timelock) Initialize(admin joker.Address, delay *big.Int) error {
	if err := checkDelay(delay, "constructor"); err != nil {
		return err
	}
	t.admin.Set(admin)
	t.delay.Set(delay)
	return nil
}

func (t *Timelock) Admin() (joker.Address, error)        { return t.admin.Get() }
func (t *Timelock) PendingAdmin() (joker.Address, error) { return t.pendingAdmin.Get() }
func (t *Timelock) Delay() (*big.Int, error)             { return t.delay.Get() }
func (t *Timelock) AdminInitialized() (bool, error)      { return t.adminInitialized.Get() }

// QueuedTransactions reports whether hash is queued.
func (t *Timelock) QueuedTransactions(hash joker.Bytes32) (bool, error) {
	return t.queued.Get(hash)
}

func (t *Timelock) now() *big.Int {
	return new(big.Int).SetUint64(t.ctx.BlockContext().Time)
}

func (t *Timelock) onlySelf(name string) error {
	if t.ctx.Caller() != t.addr {
		return reverts.Wrap(ErrNotSelf, op(name))
	}
	return nil
}

func (t *Timelock) onlyAdmin(name string) error {
	admin, err := t.admin.Get()
	if err != nil {
		return err
	}
	if t.ctx.Caller() != admin {
		return reverts.Wrap(ErrNotAdmin, op(name))
	}
	return nil
}

// SetDelay changes the delay. It must be called by the timelock itself,
// i.e. through an executed transaction.
func (t *Timelock) SetDelay(delay *big.Int) error {
	if err := t.onlySelf("setDelay"); err != nil {
		return err
	}
	if err := checkDelay(delay, "setDelay"); err != nil {
		return err
	}
	t.delay.Set(delay)
	t.ctx.Log(evNewDelay, []joker.Bytes32{xenv.UintTopic(delay)})
	return nil
}

// AcceptAdmin makes the pending admin the admin.
func (t *Timelock) AcceptAdmin() error {
	pending, err := t.pendingAdmin.Get()
	if err != nil {
		return err
	}
	caller := t.ctx.Caller()
	if caller != pending {
		return reverts.Wrap(ErrNotPendingAdmin, op("acceptAdmin"))
	}
	t.admin.Set(caller)
	t.pendingAdmin.Set(joker.Address{})
	t.ctx.Log(evNewAdmin, []joker.Bytes32{xenv.Topic(caller)})
	logger.Debug("admin accepted", "admin", caller)
	return nil
}

// SetPendingAdmin nominates the next admin. The first nomination may come
// from the admin, every later one only from the timelock itself.
func (t *Timelock) SetPendingAdmin(pending joker.Address) error {
	initialized, err := t.adminInitialized.Get()
	if err != nil {
		return err
	}
	if initialized {
		if err := t.onlySelf("setPendingAdmin"); err != nil {
			return err
		}
	} else {
		admin, err := t.admin.Get()
		if err != nil {
			return err
		}
		if t.ctx.Caller() != admin {
			return reverts.Wrap(ErrFirstCallNotAdmin, op("setPendingAdmin"))
		}
		t.adminInitialized.Set(true)
	}
	t.pendingAdmin.Set(pending)
	t.ctx.Log(evNewPendingAdmin, []joker.Bytes32{xenv.Topic(pending)})
	return nil
}

func (t *Timelock) logTx(ev *abi.Event, hash joker.Bytes32, tx *Tx) {
	t.ctx.Log(ev, []joker.Bytes32{hash, xenv.Topic(tx.Target)},
		orZero(tx.Value), tx.Signature, orEmpty(tx.Data), orZero(tx.Eta))
}

// QueueTransaction queues tx. Admin only, and the eta must be at least delay
// seconds ahead.
func (t *Timelock) QueueTransaction(tx *Tx) (joker.Bytes32, error) {
	if err := t.onlyAdmin("queueTransaction"); err != nil {
		return joker.Bytes32{}, err
	}
	delay, err := t.delay.Get()
	if err != nil {
		return joker.Bytes32{}, err
	}
	if orZero(tx.Eta).Cmp(delay.Add(delay, t.now())) < 0 {
		return joker.Bytes32{}, reverts.Wrap(ErrEtaTooSoon, op("queueTransaction"))
	}
	hash, err := tx.Hash()
	if err != nil {
		return joker.Bytes32{}, err
	}
	if err := t.queued.Set(hash, true); err != nil {
		return joker.Bytes32{}, err
	}
	t.logTx(evQueueTransaction, hash, tx)
	logger.Debug("queued", "hash", hash, "target", tx.Target, "signature", tx.Signature, "eta", tx.Eta)
	return hash, nil
}

// CancelTransaction drops tx from the queue. Admin only.
func (t *Timelock) CancelTransaction(tx *Tx) error {
	if err := t.onlyAdmin("cancelTransaction"); err != nil {
		return err
	}
	hash, err := tx.Hash()
	if err != nil {
		return err
	}
	t.queued.Delete(hash)
	t.logTx(evCancelTransaction, hash, tx)
	return nil
}

// ExecuteTransaction runs a queued tx whose eta has passed and which is not
// stale yet. The tx leaves the queue before the call is made.
func (t *Timelock) ExecuteTransaction(tx *Tx) ([]byte, error) {
	const name = "executeTransaction"
	if err := t.onlyAdmin(name); err != nil {
		return nil, err
	}
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	queued, err := t.queued.Get(hash)
	if err != nil {
		return nil, err
	}
	if !queued {
		return nil, reverts.Wrap(ErrNotQueued, op(name))
	}
	now, eta := t.now(), orZero(tx.Eta)
	if now.Cmp(eta) < 0 {
		return nil, reverts.Wrap(ErrNotSurpassedDelay, op(name))
	}
	if now.Cmp(new(big.Int).Add(eta, new(big.Int).SetUint64(joker.TimelockGracePeriod))) > 0 {
		return nil, reverts.Wrap(ErrStaleTransaction, op(name))
	}
	t.queued.Delete(hash)

	out, err := t.ctx.CallRaw(tx.Target, orZero(tx.Value), tx.Input())
	if err != nil {
		var infra *state.Error
		if errors.As(err, &infra) {
			return nil, err
		}
		logger.Debug("execution reverted", "hash", hash, "target", tx.Target, "err", err)
		return nil, reverts.Wrap(ErrExecutionReverted, op(name))
	}
	t.logTx(evExecuteTransaction, hash, tx)
	return out, nil
}
