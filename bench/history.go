package bench

import (
	"encoding/binary"
	"encoding/json"
	"hash/fnv"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"pcbroute/board"
)

// History is an embedded, durable log of benchmark runs keyed by board
// fingerprint, so repeated bench invocations against the same fixture can be
// compared over time. It uses pebble's ordinary read/write API rather than
// the teacher's sstable.Reader-only path, since a run log needs writes the
// teacher's read-only SST scan never did.
type History struct {
	db *pebble.DB
}

// OpenHistory opens (creating if necessary) a pebble store at dir.
func OpenHistory(dir string) (*History, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "opening run history at %s", dir)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// entry is one recorded run, keyed under its board's fingerprint.
type entry struct {
	Strategy    Strategy `json:"strategy"`
	NetsRouted  int      `json:"nets_routed"`
	FailedCount int      `json:"failed_count"`
	ViaCount    int      `json:"via_count"`
	WireLength  float64  `json:"wire_length"`
	LatencyNS   int64    `json:"latency_ns"`
	Seq         uint64   `json:"seq"`
}

// Fingerprint is a deterministic digest of a board's structural shape: layer
// count, net count, component count, wire/via count and bounds. Boards with
// identical fingerprints are assumed to be the same fixture across runs, so
// their history entries accumulate under one key.
func Fingerprint(pcb *board.Pcb) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	putF64 := func(v float64) { putU64(uint64(v * 1000)) }

	putU64(uint64(pcb.NumLayers()))
	putU64(uint64(len(pcb.Components())))
	putU64(uint64(len(pcb.Nets())))
	putU64(uint64(len(pcb.Wires())))
	putU64(uint64(len(pcb.Vias())))
	b := pcb.Bounds()
	putF64(b.L())
	putF64(b.B())
	putF64(b.W())
	putF64(b.H())
	return h.Sum64()
}

func key(fp uint64, seq uint64) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], fp)
	binary.BigEndian.PutUint64(buf[8:], seq)
	return buf
}

// Record appends res to the history under pcb's fingerprint.
func (h *History) Record(pcb *board.Pcb, res Result) error {
	fp := Fingerprint(pcb)
	seq, err := h.nextSeq(fp)
	if err != nil {
		return err
	}
	e := entry{
		Strategy:    res.Strategy,
		NetsRouted:  res.NetsRouted,
		FailedCount: res.FailedCount,
		ViaCount:    res.ViaCount,
		WireLength:  res.WireLength,
		LatencyNS:   res.Latency.Nanoseconds(),
		Seq:         seq,
	}
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshaling history entry")
	}
	if err := h.db.Set(key(fp, seq), data, pebble.Sync); err != nil {
		return errors.Wrap(err, "writing history entry")
	}
	return nil
}

func (h *History) nextSeq(fp uint64) (uint64, error) {
	entries, err := h.For(fp)
	if err != nil {
		return 0, err
	}
	return uint64(len(entries)), nil
}

// For returns every recorded run for a board fingerprint, oldest first.
func (h *History) For(fp uint64) ([]Result, error) {
	lower := key(fp, 0)
	upper := key(fp, ^uint64(0))
	iter, err := h.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: append(upper, 0xff)})
	if err != nil {
		return nil, errors.Wrap(err, "creating history iterator")
	}
	defer iter.Close()

	var out []Result
	for valid := iter.First(); valid; valid = iter.Next() {
		var e entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, errors.Wrap(err, "unmarshaling history entry")
		}
		out = append(out, Result{
			Strategy:    e.Strategy,
			NetsRouted:  e.NetsRouted,
			FailedCount: e.FailedCount,
			ViaCount:    e.ViaCount,
			WireLength:  e.WireLength,
			Latency:     time.Duration(e.LatencyNS),
		})
	}
	return out, iter.Error()
}
