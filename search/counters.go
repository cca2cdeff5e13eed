package search

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Counters are shared by all threads of a search.
type Counters struct {
	Nodes         atomic.Uint64
	HashCuts      atomic.Uint64
	MyMates       atomic.Uint64
	OppMates      atomic.Uint64
	OppAttacks    atomic.Uint64
	DoubleAttacks atomic.Uint64
	FailLows      atomic.Uint64
	FailHighs     atomic.Uint64
}

func (c *Counters) Reset() {
	c.Nodes.Store(0)
	c.HashCuts.Store(0)
	c.MyMates.Store(0)
	c.OppMates.Store(0)
	c.OppAttacks.Store(0)
	c.DoubleAttacks.Store(0)
	c.FailLows.Store(0)
	c.FailHighs.Store(0)
}

// Snapshot is a plain copy of Counters.
type Snapshot struct {
	Nodes         uint64
	HashCuts      uint64
	MyMates       uint64
	OppMates      uint64
	OppAttacks    uint64
	DoubleAttacks uint64
	FailLows      uint64
	FailHighs     uint64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Nodes:         c.Nodes.Load(),
		HashCuts:      c.HashCuts.Load(),
		MyMates:       c.MyMates.Load(),
		OppMates:      c.OppMates.Load(),
		OppAttacks:    c.OppAttacks.Load(),
		DoubleAttacks: c.DoubleAttacks.Load(),
		FailLows:      c.FailLows.Load(),
		FailHighs:     c.FailHighs.Load(),
	}
}

// MarshalZerologObject lets a snapshot be logged with Object.
func (s Snapshot) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", s.Nodes).
		Uint64("hashcut", s.HashCuts).
		Uint64("mate", s.MyMates).
		Uint64("omate", s.OppMates).
		Uint64("oattack", s.OppAttacks).
		Uint64("dattacks", s.DoubleAttacks).
		Uint64("faillow", s.FailLows).
		Uint64("failhigh", s.FailHighs)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("nodes = %d hashcut = %d mate = %d omate = %d oattack = %d dattacks = %d faillow = %d failhigh = %d",
		s.Nodes, s.HashCuts, s.MyMates, s.OppMates, s.OppAttacks, s.DoubleAttacks, s.FailLows, s.FailHighs)
}
