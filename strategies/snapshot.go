package strategies

import (
	"bytes"
	"errors"
	"sort"

	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/carbon-go/shared"
)

const snapshotVersion = 1

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

type snapshotPair struct {
	ID     uint64
	Token0 string
	Token1 string
}

type snapshotRecord struct {
	PairID   uint64
	Index    uint64
	Words    [3][32]uint8
}

type snapshotFile struct {
	Version uint8
	Pairs   []snapshotPair
	Records []snapshotRecord
}

// Snapshot serializes the pair registry and every strategy's three packed
// words. Ownership lives in the external voucher ledger and accrued fees are
// runtime bookkeeping; neither is part of the persisted layout.
func (s *Strategies) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := snapshotFile{Version: snapshotVersion}

	pairIDs := make([]uint64, 0, len(s.pairs.byID))
	for id := range s.pairs.byID {
		pairIDs = append(pairIDs, id)
	}
	sort.Slice(pairIDs, func(i, j int) bool { return pairIDs[i] < pairIDs[j] })
	for _, id := range pairIDs {
		pair := s.pairs.byID[id]
		file.Pairs = append(file.Pairs, snapshotPair{
			ID:     id,
			Token0: string(pair.Token0),
			Token1: string(pair.Token1),
		})
	}

	ids := make([]shared.StrategyID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].PairID != ids[j].PairID {
			return ids[i].PairID < ids[j].PairID
		}
		return ids[i].Index < ids[j].Index
	})
	for _, id := range ids {
		rec := s.records[id]
		packed, err := Pack(rec.orders, rec.inverted)
		if err != nil {
			return nil, err
		}
		sr := snapshotRecord{PairID: id.PairID, Index: id.Index}
		for w := range packed {
			sr.Words[w] = packed[w].Bytes32()
		}
		file.Records = append(file.Records, sr)
	}

	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Restore replaces the ledger's pair registry and strategy records with the
// snapshot's content. All-zero word triplets are the absent sentinel and are
// skipped. Gradient reservations held by an attached service are not part of
// the snapshot but survive the restore, and the per-pair counters are seeded
// past them so later allocations cannot collide.
func (s *Strategies) Restore(data []byte) error {
	var file snapshotFile
	if err := binary.NewBorshDecoder(data).Decode(&file); err != nil {
		return err
	}
	if file.Version != snapshotVersion {
		return ErrSnapshotVersion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs = NewPairs()
	s.records = make(map[shared.StrategyID]*record)
	s.counters = make(map[uint64]uint64)

	kinds := make(map[shared.StrategyID]shared.StrategyKind)
	for id, kind := range s.kinds {
		if kind != shared.KindGradient {
			continue
		}
		kinds[id] = kind
		if id.Index > s.counters[id.PairID] {
			s.counters[id.PairID] = id.Index
		}
	}
	s.kinds = kinds

	for _, sp := range file.Pairs {
		pair := shared.Pair{Token0: shared.Token(sp.Token0), Token1: shared.Token(sp.Token1)}
		s.pairs.byTokens[pair] = sp.ID
		s.pairs.byID[sp.ID] = pair
		if sp.ID >= s.pairs.next {
			s.pairs.next = sp.ID + 1
		}
	}

	for _, sr := range file.Records {
		var packed PackedOrders
		for w := range packed {
			packed[w].SetBytes32(sr.Words[w][:])
		}
		orders, inverted, err := Unpack(packed)
		if err != nil {
			continue
		}
		pair, err := s.pairs.ByID(sr.PairID)
		if err != nil {
			return err
		}
		id := shared.StrategyID{PairID: sr.PairID, Index: sr.Index}
		s.records[id] = &record{pairID: sr.PairID, pair: pair, inverted: inverted, orders: orders}
		s.kinds[id] = shared.KindStatic
		if sr.Index > s.counters[sr.PairID] {
			s.counters[sr.PairID] = sr.Index
		}
	}
	return nil
}
