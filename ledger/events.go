package ledger

import (
	"math/big"

	"github.com/vitelabs/wvite/common/helper"
	"github.com/vitelabs/wvite/common/types"
)

// Event is one entry of the append-only ledger event log. Topics[0] is the
// keccak-256 hash of the canonical event signature and indexed address
// arguments follow as left-padded words, so external indexers built for the
// standard token event schema can consume the log unchanged.
type Event struct {
	Topics []types.Hash
	Data   []byte
}

type EventList []*Event

// Digest folds the whole log into a single blake2b hash, nil for an empty log.
func (el EventList) Digest() *types.Hash {
	if len(el) == 0 {
		return nil
	}
	var source []byte
	for _, e := range el {
		for _, topic := range e.Topics {
			source = append(source, topic.Bytes()...)
		}
		source = append(source, e.Data...)
	}
	h := types.DataHash(source)
	return &h
}

// Event names, also the topics of the subscription bus.
const (
	EventTransfer             = "Transfer"
	EventApproval             = "Approval"
	EventDeposit              = "Deposit"
	EventWithdrawal           = "Withdrawal"
	EventDelegateChanged      = "DelegateChanged"
	EventDelegateVotesChanged = "DelegateVotesChanged"
)

var (
	transferSig             = types.KeccakHash([]byte("Transfer(address,address,uint256)"))
	approvalSig             = types.KeccakHash([]byte("Approval(address,address,uint256)"))
	depositSig              = types.KeccakHash([]byte("Deposit(address,uint256)"))
	withdrawalSig           = types.KeccakHash([]byte("Withdrawal(address,uint256)"))
	delegateChangedSig      = types.KeccakHash([]byte("DelegateChanged(address,address,address)"))
	delegateVotesChangedSig = types.KeccakHash([]byte("DelegateVotesChanged(address,uint256,uint256)"))
)

func newTransferEvent(from, to types.Address, amount *big.Int) *Event {
	return &Event{
		Topics: []types.Hash{transferSig, from.Word(), to.Word()},
		Data:   helper.U256(amount),
	}
}

func newApprovalEvent(owner, spender types.Address, amount *big.Int) *Event {
	return &Event{
		Topics: []types.Hash{approvalSig, owner.Word(), spender.Word()},
		Data:   helper.U256(amount),
	}
}

func newDepositEvent(account types.Address, amount *big.Int) *Event {
	return &Event{
		Topics: []types.Hash{depositSig, account.Word()},
		Data:   helper.U256(amount),
	}
}

func newWithdrawalEvent(account types.Address, amount *big.Int) *Event {
	return &Event{
		Topics: []types.Hash{withdrawalSig, account.Word()},
		Data:   helper.U256(amount),
	}
}

func newDelegateChangedEvent(delegator, from, to types.Address) *Event {
	return &Event{
		Topics: []types.Hash{delegateChangedSig, delegator.Word(), from.Word(), to.Word()},
	}
}

func newDelegateVotesChangedEvent(delegate types.Address, previous, current *big.Int) *Event {
	return &Event{
		Topics: []types.Hash{delegateVotesChangedSig, delegate.Word()},
		Data:   append(helper.U256(previous), helper.U256(current)...),
	}
}

// Name maps an event back to its bus topic by its signature hash.
func (e *Event) Name() string {
	if len(e.Topics) == 0 {
		return ""
	}
	switch e.Topics[0] {
	case transferSig:
		return EventTransfer
	case approvalSig:
		return EventApproval
	case depositSig:
		return EventDeposit
	case withdrawalSig:
		return EventWithdrawal
	case delegateChangedSig:
		return EventDelegateChanged
	case delegateVotesChangedSig:
		return EventDelegateVotesChanged
	}
	return ""
}
