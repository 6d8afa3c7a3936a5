// Package store persists ledger snapshots in a leveldb database, one key per
// account record so partial scans stay cheap.
package store

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbutil "github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vmihailenco/msgpack"

	"github.com/vitelabs/wvite/common/types"
	"github.com/vitelabs/wvite/ledger"
)

var (
	keyHeight           = []byte("h")
	keySupply           = []byte("s")
	prefixBalance       = []byte("b")
	prefixAllowance     = []byte("a")
	prefixNonce         = []byte("n")
	prefixDelegation    = []byte("d")
	prefixCheckpoints   = []byte("c")
	prefixEvent         = []byte("e")
	snapshotKeyPrefixes = [][]byte{keyHeight, keySupply, prefixBalance, prefixAllowance, prefixNonce, prefixDelegation, prefixCheckpoints, prefixEvent}
)

type Store struct {
	db *leveldb.DB
}

// makeKey concatenates into a fresh slice so batch entries never share a
// backing array.
func makeKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, p := range parts {
		size += len(p)
	}
	key := make([]byte, 0, size)
	key = append(key, prefix...)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot db %s", path)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type checkpointRecord struct {
	Height uint64
	Votes  []byte
}

type eventRecord struct {
	Topics [][]byte
	Data   []byte
}

// Save replaces the stored snapshot with snap in one leveldb batch.
func (s *Store) Save(snap *ledger.Snapshot) error {
	batch := new(leveldb.Batch)
	if err := s.deleteExisting(batch); err != nil {
		return err
	}

	var heightBuf [8]byte
	binary.BigEndian.PutUint64(heightBuf[:], snap.Height)
	batch.Put(keyHeight, heightBuf[:])
	batch.Put(keySupply, snap.TotalSupply.Bytes())
	for addr, balance := range snap.Balances {
		batch.Put(makeKey(prefixBalance, addr.Bytes()), balance.Bytes())
	}
	for owner, spenders := range snap.Allowances {
		for spender, amount := range spenders {
			batch.Put(makeKey(prefixAllowance, owner.Bytes(), spender.Bytes()), amount.Bytes())
		}
	}
	for addr, nonce := range snap.Nonces {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], nonce)
		batch.Put(makeKey(prefixNonce, addr.Bytes()), buf[:])
	}
	for addr, delegate := range snap.Delegations {
		batch.Put(makeKey(prefixDelegation, addr.Bytes()), delegate.Bytes())
	}
	for addr, cps := range snap.Checkpoints {
		records := make([]checkpointRecord, len(cps))
		for i, cp := range cps {
			records[i] = checkpointRecord{Height: cp.Height, Votes: cp.Votes.Bytes()}
		}
		value, err := msgpack.Marshal(records)
		if err != nil {
			return errors.Wrap(err, "encode checkpoints")
		}
		batch.Put(makeKey(prefixCheckpoints, addr.Bytes()), value)
	}
	for i, e := range snap.Events {
		record := eventRecord{Data: e.Data}
		for _, topic := range e.Topics {
			record.Topics = append(record.Topics, topic.Bytes())
		}
		value, err := msgpack.Marshal(record)
		if err != nil {
			return errors.Wrap(err, "encode event")
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(i))
		batch.Put(makeKey(prefixEvent, buf[:]), value)
	}
	return errors.Wrap(s.db.Write(batch, nil), "write snapshot batch")
}

// Load reads the stored snapshot. An empty database loads as an empty state.
func (s *Store) Load() (*ledger.Snapshot, error) {
	snap := &ledger.Snapshot{
		TotalSupply: new(big.Int),
		Balances:    make(map[types.Address]*big.Int),
		Allowances:  make(map[types.Address]map[types.Address]*big.Int),
		Nonces:      make(map[types.Address]uint64),
		Delegations: make(map[types.Address]types.Address),
		Checkpoints: make(map[types.Address][]ledger.Checkpoint),
	}

	if value, err := s.db.Get(keyHeight, nil); err == nil {
		snap.Height = binary.BigEndian.Uint64(value)
	} else if err != leveldb.ErrNotFound {
		return nil, errors.Wrap(err, "read height")
	}

	if value, err := s.db.Get(keySupply, nil); err == nil {
		snap.TotalSupply.SetBytes(value)
	} else if err != leveldb.ErrNotFound {
		return nil, errors.Wrap(err, "read supply")
	}

	err := s.scan(prefixBalance, func(key, value []byte) error {
		addr, err := types.BytesToAddress(key)
		if err != nil {
			return err
		}
		snap.Balances[addr] = new(big.Int).SetBytes(value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.scan(prefixAllowance, func(key, value []byte) error {
		owner, err := types.BytesToAddress(key[:types.AddressSize])
		if err != nil {
			return err
		}
		spender, err := types.BytesToAddress(key[types.AddressSize:])
		if err != nil {
			return err
		}
		if snap.Allowances[owner] == nil {
			snap.Allowances[owner] = make(map[types.Address]*big.Int)
		}
		snap.Allowances[owner][spender] = new(big.Int).SetBytes(value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.scan(prefixNonce, func(key, value []byte) error {
		addr, err := types.BytesToAddress(key)
		if err != nil {
			return err
		}
		snap.Nonces[addr] = binary.BigEndian.Uint64(value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.scan(prefixDelegation, func(key, value []byte) error {
		addr, err := types.BytesToAddress(key)
		if err != nil {
			return err
		}
		delegate, err := types.BytesToAddress(value)
		if err != nil {
			return err
		}
		snap.Delegations[addr] = delegate
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.scan(prefixCheckpoints, func(key, value []byte) error {
		addr, err := types.BytesToAddress(key)
		if err != nil {
			return err
		}
		var records []checkpointRecord
		if err := msgpack.Unmarshal(value, &records); err != nil {
			return errors.Wrap(err, "decode checkpoints")
		}
		cps := make([]ledger.Checkpoint, len(records))
		for i, r := range records {
			cps[i] = ledger.Checkpoint{Height: r.Height, Votes: new(big.Int).SetBytes(r.Votes)}
		}
		snap.Checkpoints[addr] = cps
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.scan(prefixEvent, func(key, value []byte) error {
		var record eventRecord
		if err := msgpack.Unmarshal(value, &record); err != nil {
			return errors.Wrap(err, "decode event")
		}
		e := &ledger.Event{Data: record.Data}
		for _, topic := range record.Topics {
			h, err := types.BytesToHash(topic)
			if err != nil {
				return err
			}
			e.Topics = append(e.Topics, h)
		}
		snap.Events = append(snap.Events, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// scan walks all keys under prefix, calling fn with the key stripped of the
// prefix. Event keys are 8-byte big-endian indexes, so iteration order is
// the append order.
func (s *Store) scan(prefix []byte, fn func(key, value []byte) error) error {
	iter := s.db.NewIterator(leveldbutil.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		key := make([]byte, len(iter.Key())-len(prefix))
		copy(key, iter.Key()[len(prefix):])
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return errors.Wrap(iter.Error(), "scan snapshot db")
}

func (s *Store) deleteExisting(batch *leveldb.Batch) error {
	for _, prefix := range snapshotKeyPrefixes {
		iter := s.db.NewIterator(leveldbutil.BytesPrefix(prefix), nil)
		for iter.Next() {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			batch.Delete(key)
		}
		err := iter.Error()
		iter.Release()
		if err != nil {
			return errors.Wrap(err, "clear snapshot db")
		}
	}
	return nil
}
