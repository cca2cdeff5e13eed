package search

import (
	"math/bits"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/trax/move"
)

// Bound kinds of a stored score.
const (
	BoundNone  = 0x00
	BoundUpper = 0x01
	BoundLower = 0x02
	BoundExact = BoundUpper | BoundLower
)

const (
	bucketSize  = 4
	entrySize   = 16
	bucketBytes = bucketSize * entrySize
)

// An entry is two words. The data word packs move, score, depth, bound and
// age; the key word holds the top 32 bits of the position key. The key word
// is stored XORed with the data word so a reader that sees one half of a
// concurrent write fails the key check instead of using mixed data.
type entry struct {
	key  atomic.Uint64
	data atomic.Uint64
}

type bucket [bucketSize]entry

// Entry is a decoded table entry.
type Entry struct {
	Move  move.Move
	Score int
	Depth int
	Bound uint8
	Age   uint8
}

// Data word layout: move in bits 0-19, score 20-35, depth 36-51, bound
// 52-53, age 54-61.
func packData(m move.Move, score, depth int, bound, age uint8) uint64 {
	return uint64(uint32(m))&0xfffff |
		uint64(uint16(int16(score)))<<20 |
		uint64(uint16(int16(depth)))<<36 |
		uint64(bound&BoundExact)<<52 |
		uint64(age)<<54
}

func unpackData(d uint64) Entry {
	return Entry{
		Move:  move.Move(d & 0xfffff),
		Score: int(int16(uint16(d >> 20))),
		Depth: int(int16(uint16(d >> 36))),
		Bound: uint8(d>>52) & BoundExact,
		Age:   uint8(d >> 54),
	}
}

func key32(key uint64) uint64 {
	return key >> 32
}

func (e *entry) load() (uint64, uint64) {
	d := e.data.Load()
	return e.key.Load() ^ d, d
}

func (e *entry) store(k, d uint64) {
	e.data.Store(d)
	e.key.Store(k ^ d)
}

func (e *entry) empty(k, d uint64) bool {
	return k == 0 && d == 0
}

// TranspositionTable is shared by all search threads without locks. Racing
// writes can lose an entry, never corrupt one.
type TranspositionTable struct {
	table    []bucket
	sizeMask uint64
	age      atomic.Uint32
	hashfull atomic.Uint64

	lookups atomic.Uint64
	hits    atomic.Uint64
	stores  atomic.Uint64
}

// NewTranspositionTable allocates a table of at most megabytes.
func NewTranspositionTable(megabytes int) *TranspositionTable {
	t := &TranspositionTable{}
	t.SetSize(megabytes)
	return t
}

// SetSize reallocates the table to the largest power of two of bytes not
// above megabytes, capped at half the system memory, and clears it.
func (t *TranspositionTable) SetSize(megabytes int) {
	bytes := uint64(max(megabytes, 1)) << 20
	totalMem := memory.TotalMemory()
	if totalMem > 0 && bytes > totalMem/2 {
		bytes = totalMem / 2
	}
	bytes = 1 << (bits.Len64(bytes) - 1)
	numBuckets := max(bytes/bucketBytes, 1)
	t.table = make([]bucket, numBuckets)
	t.sizeMask = numBuckets - 1
	t.age.Store(0)
	t.hashfull.Store(0)
	t.resetStats()

	log.Info().
		Int("megabytes-requested", megabytes).
		Uint64("num-buckets", numBuckets).
		Uint64("estimated-total-memory-bytes", numBuckets*bucketBytes).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

// Clear empties every entry.
func (t *TranspositionTable) Clear() {
	for i := range t.table {
		for j := range t.table[i] {
			t.table[i][j].store(0, 0)
		}
	}
	t.age.Store(0)
	t.hashfull.Store(0)
	t.resetStats()
}

func (t *TranspositionTable) resetStats() {
	t.lookups.Store(0)
	t.hits.Store(0)
	t.stores.Store(0)
}

// NextAge starts a new generation. Entries of older generations are the
// first to be replaced.
func (t *TranspositionTable) NextAge() {
	t.age.Add(1)
}

func (t *TranspositionTable) curAge() uint8 {
	return uint8(t.age.Load())
}

// LookUp returns the entry stored for key and refreshes its age.
func (t *TranspositionTable) LookUp(key uint64) (Entry, bool) {
	t.lookups.Add(1)
	k32 := key32(key)
	b := &t.table[key&t.sizeMask]
	for i := range b {
		k, d := b[i].load()
		if k != k32 || b[i].empty(k, d) {
			continue
		}
		e := unpackData(d)
		if e.Age != t.curAge() {
			e.Age = t.curAge()
			b[i].store(k, packData(e.Move, e.Score, e.Depth, e.Bound, e.Age))
		}
		t.hits.Add(1)
		return e, true
	}
	return Entry{}, false
}

// Save stores a search result. An entry for the same key, or an empty slot,
// is used first; otherwise the least valuable entry of the bucket is
// replaced, preferring old generations and shallow depths. When m is None
// the move of an entry for the same key survives.
func (t *TranspositionTable) Save(key uint64, m move.Move, score, depth int, bound uint8) {
	k32 := key32(key)
	age := t.curAge()
	b := &t.table[key&t.sizeMask]

	replace := 0
	var repl Entry
	for i := range b {
		k, d := b[i].load()
		if b[i].empty(k, d) || k == k32 {
			if m == move.None && !b[i].empty(k, d) {
				m = unpackData(d).Move
			}
			if b[i].empty(k, d) {
				t.hashfull.Add(1)
			}
			replace = i
			break
		}
		e := unpackData(d)
		if i == 0 {
			repl = e
			continue
		}
		if b2i(e.Age == age || e.Bound == BoundExact)-b2i(repl.Age == age)-b2i(e.Depth < repl.Depth) < 0 {
			replace = i
			repl = e
		}
	}
	b[replace].store(k32, packData(m, score, depth, bound, age))
	t.stores.Add(1)
}

// Hashfull is the per-mille share of entries ever filled.
func (t *TranspositionTable) Hashfull() int {
	return int(1000 * t.hashfull.Load() / (bucketSize * uint64(len(t.table))))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (t *TranspositionTable) Stats() (lookups, hits, stores uint64) {
	return t.lookups.Load(), t.hits.Load(), t.stores.Load()
}
