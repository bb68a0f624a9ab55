// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"strconv"

	"github.com/33cn/rps/account"
	dbm "github.com/33cn/rps/common/db"
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Escrow 按游戏 id 托管押注
//
// 托管的资金是付款人在执行器中冻结的余额, 台账记录每个付款人冻结了多少,
// 结算时从冻结余额中转给收款人, 然后提回收款人的主账户
type Escrow struct {
	db       dbm.KV
	execaddr string
	accounts func(denom string) (*account.DB, error)
}

// NewEscrow 所有写入都通过 db, 由调用方决定提交还是回滚
func NewEscrow(db dbm.KV, execaddr string, accounts func(denom string) (*account.DB, error)) *Escrow {
	return &Escrow{db: db, execaddr: execaddr, accounts: accounts}
}

// Entry 台账, 不存在返回 nil
func (e *Escrow) Entry(id uint64) (*rt.EscrowEntry, error) {
	data, err := e.db.Get(escrowKey(id))
	if err == dbm.ErrNotFoundInDb {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt.DecodeEscrowEntry(data)
}

// Held 托管的总额
func (e *Escrow) Held(id uint64) (int64, error) {
	entry, err := e.Entry(id)
	if err != nil {
		return 0, err
	}
	return entry.Total(), nil
}

// Released 是否已经结算过
func (e *Escrow) Released(id uint64) bool {
	_, err := e.db.Get(releasedKey(id))
	return err == nil
}

// Hold 冻结 payer 在执行器中的 coin.Amount
func (e *Escrow) Hold(id uint64, payer string, coin types.Coin) (*types.Receipt, error) {
	if coin.Amount <= 0 {
		return nil, rt.ErrZeroWager
	}
	if e.Released(id) {
		return nil, rt.ErrAlreadyReleased
	}
	entry, err := e.Entry(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = &rt.EscrowEntry{GameID: id, Denom: coin.Denom}
	}
	if entry.HeldBy(payer) {
		return nil, rt.ErrDuplicateHold
	}
	if entry.Denom != coin.Denom {
		return nil, rt.ErrWagerMismatch
	}
	acc, err := e.accounts(coin.Denom)
	if err != nil {
		return nil, err
	}
	receipt, err := acc.ExecFrozen(payer, e.execaddr, coin.Amount)
	if err != nil {
		glog.Error("Hold", "id", id, "payer", payer, "coin", coin.String(), "err", err)
		return nil, errors.Wrapf(err, "hold %s for game %d", coin.String(), id)
	}
	entry.Holds = append(entry.Holds, &rt.Hold{Payer: payer, Amount: coin.Amount})
	kv := drivers.NewKVCreator(e.db).Add(escrowKey(id), rt.EncodeEscrowEntry(entry))
	r, err := kv.Receipt()
	if err != nil {
		return nil, err
	}
	return types.MergeReceipt(receipt, r), nil
}

// Release 按顺序从冻结的押注中支付, 支付总额必须等于托管总额
func (e *Escrow) Release(id uint64, payouts []*rt.Payout) (*types.Receipt, error) {
	if e.Released(id) {
		return nil, rt.ErrAlreadyReleased
	}
	entry, err := e.Entry(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, rt.ErrInsufficientEscrow
	}
	var sum int64
	for _, p := range payouts {
		if p.Amount < 0 {
			return nil, types.ErrAmount
		}
		sum += p.Amount
	}
	total := entry.Total()
	if sum > total {
		return nil, rt.ErrInsufficientEscrow
	}
	if sum < total {
		return nil, rt.ErrPartialRelease
	}
	acc, err := e.accounts(entry.Denom)
	if err != nil {
		return nil, err
	}

	var receipt *types.Receipt
	remain := make([]int64, len(entry.Holds))
	for i, h := range entry.Holds {
		remain[i] = h.Amount
	}
	for _, p := range payouts {
		need := p.Amount
		for i, h := range entry.Holds {
			if need == 0 {
				break
			}
			take := remain[i]
			if take > need {
				take = need
			}
			if take == 0 {
				continue
			}
			var r *types.Receipt
			if h.Payer == p.Recipient {
				r, err = acc.ExecActive(h.Payer, e.execaddr, take)
			} else {
				r, err = acc.ExecTransferFrozen(h.Payer, p.Recipient, e.execaddr, take)
			}
			if err != nil {
				glog.Error("Release", "id", id, "from", h.Payer, "to", p.Recipient, "amount", take, "err", err)
				return nil, err
			}
			receipt = types.MergeReceipt(receipt, r)
			remain[i] -= take
			need -= take
		}
		if p.Amount == 0 {
			continue
		}
		r, err := acc.TransferWithdraw(p.Recipient, e.execaddr, p.Amount)
		if err != nil {
			glog.Error("Release withdraw", "id", id, "to", p.Recipient, "amount", p.Amount, "err", err)
			return nil, err
		}
		receipt = types.MergeReceipt(receipt, r)
	}
	kv := drivers.NewKVCreator(e.db).
		Del(escrowKey(id)).
		Add(releasedKey(id), []byte(strconv.FormatInt(total, 10)))
	r, err := kv.Receipt()
	if err != nil {
		return nil, err
	}
	return types.MergeReceipt(receipt, r), nil
}
