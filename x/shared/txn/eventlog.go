package txn

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	// EventLogPrefix holds committed events keyed by sequence number.
	EventLogPrefix = []byte{0xF0}
	// EventSeqKey stores the last assigned event sequence number.
	EventSeqKey = []byte{0xF1}
)

// Attribute is a single event key/value pair.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EventRecord is a committed event as read back from the event log.
type EventRecord struct {
	Seq        uint64      `json:"seq"`
	Operation  string      `json:"operation"`
	Time       time.Time   `json:"time"`
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Attr returns the value of the named attribute.
func (r EventRecord) Attr(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func seqKey(seq uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, seq)
	return bz
}

func appendEventRecords(store storetypes.KVStore, operation string, at time.Time, events sdk.Events) error {
	var seq uint64
	if bz := store.Get(EventSeqKey); len(bz) == 8 {
		seq = binary.BigEndian.Uint64(bz)
	}

	logStore := prefix.NewStore(store, EventLogPrefix)
	for _, ev := range events {
		seq++
		rec := EventRecord{
			Seq:        seq,
			Operation:  operation,
			Time:       at,
			Type:       ev.Type,
			Attributes: make([]Attribute, 0, len(ev.Attributes)),
		}
		for _, a := range ev.Attributes {
			rec.Attributes = append(rec.Attributes, Attribute{Key: a.Key, Value: a.Value})
		}
		bz, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.Type, err)
		}
		logStore.Set(seqKey(seq), bz)
	}

	store.Set(EventSeqKey, seqKey(seq))
	return nil
}

// IterateEvents walks committed events with a sequence number greater
// than afterSeq, in order, until cb returns true.
func (e *Executor) IterateEvents(ctx context.Context, afterSeq uint64, cb func(EventRecord) (stop bool)) error {
	return e.Query(ctx, func(c Context) error {
		logStore := c.KVStore(EventLogPrefix)
		iter := logStore.Iterator(seqKey(afterSeq+1), nil)
		defer iter.Close()

		for ; iter.Valid(); iter.Next() {
			var rec EventRecord
			if err := json.Unmarshal(iter.Value(), &rec); err != nil {
				return fmt.Errorf("decode event at key %x: %w", iter.Key(), err)
			}
			if cb(rec) {
				return nil
			}
		}
		return nil
	})
}

// LastEventSeq returns the highest committed event sequence number.
func (e *Executor) LastEventSeq(ctx context.Context) (uint64, error) {
	var seq uint64
	err := e.Query(ctx, func(c Context) error {
		if bz := c.KVStore(nil).Get(EventSeqKey); len(bz) == 8 {
			seq = binary.BigEndian.Uint64(bz)
		}
		return nil
	})
	return seq, err
}
