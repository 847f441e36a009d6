package backend

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
)

var headKey = []byte("gvest-head")

// Head points at the latest committed ledger state.
type Head struct {
	Root    common.Hash // state root
	Index   uint64      // index of the latest commit
	Actions uint64      // number of committed actions since genesis
}

// readHead retrieves the head record, nil if the database holds no ledger.
func readHead(db ethdb.KeyValueReader) (*Head, error) {
	has, err := db.Has(headKey)
	if err != nil || !has {
		return nil, err
	}
	data, err := db.Get(headKey)
	if err != nil {
		return nil, err
	}
	head := new(Head)
	if err := rlp.DecodeBytes(data, head); err != nil {
		return nil, fmt.Errorf("invalid head record: %w", err)
	}
	return head, nil
}

// writeHead stores the head record.
func writeHead(db ethdb.KeyValueWriter, head *Head) error {
	data, err := rlp.EncodeToBytes(head)
	if err != nil {
		return err
	}
	return db.Put(headKey, data)
}
