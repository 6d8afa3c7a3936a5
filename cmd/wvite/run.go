package main

import (
	"encoding/json"
	"io/ioutil"
	"math/big"
	"path/filepath"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/wvite/common/types"
	"github.com/vitelabs/wvite/config"
	"github.com/vitelabs/wvite/ledger"
	"github.com/vitelabs/wvite/store"
)

var runCommand = cli.Command{
	Name:      "run",
	Usage:     "apply an operation script to the stored ledger state",
	ArgsUsage: "<script.json>",
	Action:    runScript,
}

// operation is one step of a script file. Amounts are decimal strings.
type operation struct {
	Op       string `json:"Op"`
	Account  string `json:"Account"`
	From     string `json:"From"`
	To       string `json:"To"`
	Owner    string `json:"Owner"`
	Spender  string `json:"Spender"`
	Delegate string `json:"Delegate"`
	Amount   string `json:"Amount"`
}

// coinSink acknowledges outbound native-coin pushes; settlement with the
// host chain happens out of band.
type coinSink struct{}

func (coinSink) Transfer(to types.Address, amount *big.Int) error {
	log.Info("outbound transfer", "to", to, "amount", amount)
	return nil
}

func runScript(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("run wants exactly one script file")
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	text, err := ioutil.ReadFile(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "read script")
	}
	var ops []operation
	if err := json.Unmarshal(text, &ops); err != nil {
		return errors.Wrap(err, "unmarshal script")
	}

	s, err := store.Open(snapshotPath(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Load()
	if err != nil {
		return err
	}
	clock := ledger.NewClock()
	clock.SetHeight(snap.Height)
	l, err := ledger.New(cfg, clock, coinSink{})
	if err != nil {
		return err
	}
	l.Restore(snap)

	for i, op := range ops {
		clock.Advance()
		if err := apply(l, op); err != nil {
			return errors.Wrapf(err, "script step %d (%s)", i, op.Op)
		}
	}
	return s.Save(l.Snapshot())
}

func apply(l *ledger.Ledger, op operation) error {
	amount, err := parseAmount(op.Amount)
	if err != nil {
		return err
	}
	switch op.Op {
	case "deposit":
		account, err := types.HexToAddress(op.Account)
		if err != nil {
			return err
		}
		return l.Deposit(account, amount)
	case "withdraw":
		account, err := types.HexToAddress(op.Account)
		if err != nil {
			return err
		}
		return l.Withdraw(account, amount)
	case "transfer":
		from, err := types.HexToAddress(op.From)
		if err != nil {
			return err
		}
		to, err := types.HexToAddress(op.To)
		if err != nil {
			return err
		}
		return l.Transfer(from, to, amount)
	case "approve":
		owner, err := types.HexToAddress(op.Owner)
		if err != nil {
			return err
		}
		spender, err := types.HexToAddress(op.Spender)
		if err != nil {
			return err
		}
		return l.Approve(owner, spender, amount)
	case "spend":
		spender, err := types.HexToAddress(op.Spender)
		if err != nil {
			return err
		}
		owner, err := types.HexToAddress(op.Owner)
		if err != nil {
			return err
		}
		to, err := types.HexToAddress(op.To)
		if err != nil {
			return err
		}
		return l.SpendFrom(spender, owner, to, amount)
	case "delegate":
		account, err := types.HexToAddress(op.Account)
		if err != nil {
			return err
		}
		delegate := types.ZERO_ADDRESS
		if op.Delegate != "" {
			if delegate, err = types.HexToAddress(op.Delegate); err != nil {
				return err
			}
		}
		l.Delegate(account, delegate)
		return nil
	}
	return errors.Errorf("unknown op %q", op.Op)
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.Errorf("bad amount %q", s)
	}
	return amount, nil
}

func snapshotPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "snapshot")
}
