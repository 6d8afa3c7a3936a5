package main

import (
	"fmt"
	"sort"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/wvite/common/types"
	"github.com/vitelabs/wvite/store"
)

var inspectCommand = cli.Command{
	Name:   "inspect",
	Usage:  "print the stored ledger state",
	Action: inspect,
}

var eventsCommand = cli.Command{
	Name:   "events",
	Usage:  "print the stored event log",
	Action: printEvents,
}

func inspect(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
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

	fmt.Printf("height      %d\n", snap.Height)
	fmt.Printf("totalSupply %s\n", snap.TotalSupply)

	addrs := make([]types.Address, 0, len(snap.Balances))
	for addr := range snap.Balances {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Hex() < addrs[j].Hex() })
	for _, addr := range addrs {
		line := fmt.Sprintf("%s balance=%s", addr, snap.Balances[addr])
		if delegate, ok := snap.Delegations[addr]; ok {
			line += fmt.Sprintf(" delegate=%s", delegate)
		}
		if nonce, ok := snap.Nonces[addr]; ok {
			line += fmt.Sprintf(" nonce=%d", nonce)
		}
		if cps := snap.Checkpoints[addr]; len(cps) > 0 {
			line += fmt.Sprintf(" votes=%s", cps[len(cps)-1].Votes)
		}
		fmt.Println(line)
	}
	return nil
}

func printEvents(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
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
	for i, e := range snap.Events {
		fmt.Printf("%6d %-20s", i, e.Name())
		for _, topic := range e.Topics {
			fmt.Printf(" %s", topic)
		}
		if len(e.Data) > 0 {
			fmt.Printf(" data=%x", e.Data)
		}
		fmt.Println()
	}
	if digest := snap.Events.Digest(); digest != nil {
		fmt.Printf("log digest %s\n", digest)
	}
	return nil
}
