/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package evaluator

import (
	"math"
	"unsafe"

	"github.com/op/go-logging"

	"github.com/mkrawiec/gochess/internal/config"
	myLogging "github.com/mkrawiec/gochess/internal/logging"
	. "github.com/mkrawiec/gochess/internal/types"
)

const (
	// pawnCacheMaxSizeInMB caps how large a pawnCache may grow.
	pawnCacheMaxSizeInMB = 1_024

	// pawnCacheEntrySize is the in-memory size of a cacheEntry in bytes.
	pawnCacheEntrySize = 16
)

// pawnCache caches a pawn-structure Score keyed by the position's pawn
// Zobrist key, since the same pawn skeleton recurs across many positions
// reached during a search.
type pawnCache struct {
	log                *logging.Logger
	data               []cacheEntry
	sizeInByte         uint64
	maxNumberOfEntries uint64
	hashKeyMask        uint64
	entries            uint64
	hits               uint64
	misses             uint64
	replacements       uint64
}

type cacheEntry struct {
	pawnKey Key
	score   Score
}

func newPawnCache() *pawnCache {
	pc := &pawnCache{log: myLogging.GetLog()}
	pc.resize(config.Settings.Eval.PawnCacheSize)
	return pc
}

func (pc *pawnCache) resize(sizeInMByte int) {
	if sizeInMByte > pawnCacheMaxSizeInMB {
		pc.log.Error(out.Sprintf("requested pawn cache size %d MB reduced to max %d MB", sizeInMByte, pawnCacheMaxSizeInMB))
		sizeInMByte = pawnCacheMaxSizeInMB
	}

	pc.sizeInByte = uint64(sizeInMByte) * MB
	entryBits := math.Floor(math.Log2(float64(pc.sizeInByte / pawnCacheEntrySize)))
	pc.maxNumberOfEntries = 1 << uint64(entryBits)
	pc.hashKeyMask = pc.maxNumberOfEntries - 1

	if pc.sizeInByte == 0 {
		pc.maxNumberOfEntries = 0
	}
	pc.sizeInByte = pc.maxNumberOfEntries * pawnCacheEntrySize
	pc.data = make([]cacheEntry, pc.maxNumberOfEntries)

	pc.log.Info(out.Sprintf("pawn cache size %d MByte, capacity %d entries of %d bytes each (requested %d MByte)",
		pc.sizeInByte/MB, pc.maxNumberOfEntries, unsafe.Sizeof(cacheEntry{}), sizeInMByte))
}

// getEntry returns the slot for key if its stored key matches, or nil
// otherwise.
func (pc *pawnCache) getEntry(key Key) *cacheEntry {
	e := &pc.data[pc.hash(key)]
	if e.pawnKey != key {
		pc.misses++
		return nil
	}
	pc.hits++
	return e
}

// put stores score for the pawn structure identified by key. A collision
// on a populated slot always replaces it - pawn structures never need the
// depth-aware replacement a search transposition table does.
func (pc *pawnCache) put(key Key, score *Score) {
	e := &pc.data[pc.hash(key)]
	switch e.pawnKey {
	case 0:
		pc.entries++
	case key:
		pc.log.Warning("redundant write to pawn cache entry - evaluatePawns should have used the cached hit")
	default:
		pc.replacements++
	}
	e.pawnKey = key
	e.score.MidGameValue = score.MidGameValue
	e.score.EndGameValue = score.EndGameValue
}

// clear discards every entry and resets usage statistics.
func (pc *pawnCache) clear() {
	pc.data = make([]cacheEntry, pc.maxNumberOfEntries)
	pc.entries = 0
	pc.hits = 0
	pc.misses = 0
	pc.replacements = 0
}

// len returns how many occupied slots the cache currently holds.
func (pc *pawnCache) len() uint64 {
	return pc.entries
}

// hash maps a pawn Zobrist key onto a slot index via the cache's bit mask.
func (pc *pawnCache) hash(key Key) uint64 {
	return uint64(key) & pc.hashKeyMask
}
