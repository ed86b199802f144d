//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package transpositiontable implements a fixed-size hash table that caches
// search results keyed by a position's Zobrist hash. A TtTable is NOT safe
// for concurrent use; Resize and Clear in particular must never race with an
// in-progress search.
package transpositiontable

import (
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/mkrawiec/gochess/internal/logging"
	. "github.com/mkrawiec/gochess/internal/types"
	"github.com/mkrawiec/gochess/internal/util"
)

var out = message.NewPrinter(language.German)

// MaxSizeInMB caps how large a single TtTable may grow.
const MaxSizeInMB = 65_536

// agingWorkers bounds how many goroutines AgeEntries fans out to; the slice
// assigned to each is computed from the table size, not from GOMAXPROCS.
const agingWorkers = 32

// TtTable is a slice of TtEntry addressed by the low bits of a Zobrist key.
// Create one with NewTtTable.
type TtTable struct {
	log                *logging.Logger
	data               []TtEntry
	sizeInByte         uint64
	hashKeyMask        uint64
	maxNumberOfEntries uint64
	numberOfEntries    uint64
	Stats              TtStats
}

// TtStats counts how the table has been used so far.
type TtStats struct {
	numberOfPuts       uint64
	numberOfCollisions uint64
	numberOfOverwrites uint64
	numberOfUpdates    uint64
	numberOfProbes     uint64
	numberOfHits       uint64
	numberOfMisses     uint64
}

// NewTtTable allocates a table sized to the largest power-of-2 entry count
// that fits within sizeInMByte bytes.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := &TtTable{log: myLogging.GetLog()}
	tt.Resize(sizeInMByte)
	return tt
}

// Resize reallocates the table for a new memory budget, discarding all
// entries. Not safe to call while a search is using the table.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("requested TT size %d MB reduced to max %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}

	tt.sizeInByte = uint64(sizeInMByte) * MB
	entryBits := math.Floor(math.Log2(float64(tt.sizeInByte / TtEntrySize)))
	tt.maxNumberOfEntries = 1 << uint64(entryBits)
	tt.hashKeyMask = tt.maxNumberOfEntries - 1

	if tt.sizeInByte == 0 {
		tt.maxNumberOfEntries = 0
	}
	tt.sizeInByte = tt.maxNumberOfEntries * TtEntrySize
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)

	tt.log.Info(out.Sprintf("TT size %d MByte, capacity %d entries of %d bytes each (requested %d MByte)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(TtEntry{}), sizeInMByte))
	tt.log.Debug(util.MemStat())
}

// GetEntry returns the slot for key if its stored key matches, or nil
// otherwise. Unlike Probe this does not touch the Age or statistics.
func (tt *TtTable) GetEntry(key Key) *TtEntry {
	if e := &tt.data[tt.hash(key)]; e.key == key {
		return e
	}
	return nil
}

// Probe looks up key, refreshing its Age and recording a hit or miss.
func (tt *TtTable) Probe(key Key) *TtEntry {
	tt.Stats.numberOfProbes++
	e := &tt.data[tt.hash(key)]
	if e.key != key {
		tt.Stats.numberOfMisses++
		return nil
	}
	e.decreaseAge()
	tt.Stats.numberOfHits++
	return e
}

// Put stores a search result for key, encoding value into the move slot.
// A MoveNone move or ValueNA value/eval means "keep whatever is already
// there" so a bound-only store doesn't clobber a previously found move.
func (tt *TtTable) Put(key Key, move Move, depth int8, value Value, valueType ValueType, eval Value) {
	if tt.maxNumberOfEntries == 0 {
		return
	}

	slot := &tt.data[tt.hash(key)]
	tt.Stats.numberOfPuts++

	switch {
	case slot.key == 0:
		tt.numberOfEntries++
		tt.store(slot, key, move, depth, value, valueType, eval)
	case slot.key != key:
		tt.replaceOnCollision(slot, key, move, depth, value, valueType, eval)
	default:
		tt.mergeUpdate(slot, key, move, depth, value, valueType, eval)
	}
}

// store overwrites slot with a brand-new entry.
func (tt *TtTable) store(slot *TtEntry, key Key, move Move, depth int8, value Value, valueType ValueType, eval Value) {
	slot.key = key
	slot.move = uint16(move)
	slot.eval = int16(eval)
	slot.value = int16(value)
	slot.vmeta = uint16(depth)<<depthShift + uint16(valueType)<<vtypeShift + 1
}

// replaceOnCollision overwrites a same-slot, different-key entry only when
// the incoming search went deeper, or tied depth but the resident entry has
// aged out of relevance.
func (tt *TtTable) replaceOnCollision(slot *TtEntry, key Key, move Move, depth int8, value Value, valueType ValueType, eval Value) {
	tt.Stats.numberOfCollisions++
	if depth > slot.Depth() || (depth == slot.Depth() && slot.Age() > 1) {
		tt.Stats.numberOfOverwrites++
		tt.store(slot, key, move, depth, value, valueType, eval)
	}
}

// mergeUpdate refreshes an entry already keyed to this position. A field
// arriving as its "absent" sentinel (MoveNone, ValueNA) leaves the stored
// value untouched rather than erasing it.
func (tt *TtTable) mergeUpdate(slot *TtEntry, key Key, move Move, depth int8, value Value, valueType ValueType, eval Value) {
	tt.Stats.numberOfUpdates++
	slot.key = key
	if move != MoveNone {
		slot.move = uint16(move)
	}
	if eval != ValueNA {
		slot.eval = int16(eval)
	}
	if value != ValueNA {
		slot.value = int16(value)
		slot.vmeta = uint16(depth)<<depthShift + uint16(valueType)<<vtypeShift + 1
	}
}

// Clear discards every entry and resets usage statistics.
func (tt *TtTable) Clear() {
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.Stats = TtStats{}
}

// Hashfull reports table occupancy in permill, as UCI's "hashfull" expects.
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	return int((1000 * tt.numberOfEntries) / tt.maxNumberOfEntries)
}

func (tt *TtTable) String() string {
	return out.Sprintf("TT: size %d MB max entries %d of size %d Bytes entries %d (%d%%) puts %d "+
		"updates %d collisions %d overwrites %d probes %d hits %d (%d%%) misses %d (%d%%)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(TtEntry{}), tt.numberOfEntries, tt.Hashfull()/10,
		tt.Stats.numberOfPuts, tt.Stats.numberOfUpdates, tt.Stats.numberOfCollisions, tt.Stats.numberOfOverwrites, tt.Stats.numberOfProbes,
		tt.Stats.numberOfHits, (tt.Stats.numberOfHits*100)/(1+tt.Stats.numberOfProbes),
		tt.Stats.numberOfMisses, (tt.Stats.numberOfMisses*100)/(1+tt.Stats.numberOfProbes))
}

// Len returns how many occupied slots the table currently holds.
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// AgeEntries bumps the Age of every occupied entry, splitting the table
// across a fixed pool of goroutines so a large table ages in parallel.
func (tt *TtTable) AgeEntries() {
	startTime := time.Now()
	if tt.numberOfEntries > 0 {
		var wg sync.WaitGroup
		wg.Add(agingWorkers)
		chunk := tt.maxNumberOfEntries / agingWorkers
		for worker := uint64(0); worker < agingWorkers; worker++ {
			go func(worker uint64) {
				defer wg.Done()
				start := worker * chunk
				end := start + chunk
				if worker == agingWorkers-1 {
					end = tt.maxNumberOfEntries
				}
				for i := start; i < end; i++ {
					if tt.data[i].key != 0 {
						tt.data[i].increaseAge()
					}
				}
			}(worker)
		}
		wg.Wait()
	}
	tt.log.Debug(out.Sprintf("aged %d entries of %d in %d ms\n",
		tt.numberOfEntries, len(tt.data), time.Since(startTime).Milliseconds()))
}

// hash maps a Zobrist key onto a slot index via the table's bit mask.
func (tt *TtTable) hash(key Key) uint64 {
	return uint64(key) & tt.hashKeyMask
}
