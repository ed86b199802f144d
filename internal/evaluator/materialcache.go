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
	// materialCacheMaxSizeInMB caps how large a materialCache may grow.
	materialCacheMaxSizeInMB = 1_024

	// materialCacheEntrySize is the in-memory size of a materialEntry in bytes.
	materialCacheEntrySize = 16
)

// materialCache caches the material balance and imbalance scores keyed by
// the position's material key. Material signatures recur even more often
// than pawn structures, so the cache hit rate is very high in practice.
type materialCache struct {
	log                *logging.Logger
	data               []materialEntry
	sizeInByte         uint64
	maxNumberOfEntries uint64
	hashKeyMask        uint64
	entries            uint64
	hits               uint64
	misses             uint64
	replacements       uint64
}

type materialEntry struct {
	materialKey Key
	material    Score
	imbalance   int16
}

func newMaterialCache() *materialCache {
	mc := &materialCache{log: myLogging.GetLog()}
	mc.resize(config.Settings.Eval.MaterialCacheSize)
	return mc
}

func (mc *materialCache) resize(sizeInMByte int) {
	if sizeInMByte > materialCacheMaxSizeInMB {
		mc.log.Error(out.Sprintf("requested material cache size %d MB reduced to max %d MB", sizeInMByte, materialCacheMaxSizeInMB))
		sizeInMByte = materialCacheMaxSizeInMB
	}

	mc.sizeInByte = uint64(sizeInMByte) * MB
	entryBits := math.Floor(math.Log2(float64(mc.sizeInByte / materialCacheEntrySize)))
	mc.maxNumberOfEntries = 1 << uint64(entryBits)
	mc.hashKeyMask = mc.maxNumberOfEntries - 1

	if mc.sizeInByte == 0 {
		mc.maxNumberOfEntries = 0
	}
	mc.sizeInByte = mc.maxNumberOfEntries * materialCacheEntrySize
	mc.data = make([]materialEntry, mc.maxNumberOfEntries)

	mc.log.Info(out.Sprintf("material cache size %d MByte, capacity %d entries of %d bytes each (requested %d MByte)",
		mc.sizeInByte/MB, mc.maxNumberOfEntries, unsafe.Sizeof(materialEntry{}), sizeInMByte))
}

// getEntry returns the slot for key if its stored key matches, or nil
// otherwise.
func (mc *materialCache) getEntry(key Key) *materialEntry {
	e := &mc.data[mc.hash(key)]
	if e.materialKey != key {
		mc.misses++
		return nil
	}
	mc.hits++
	return e
}

// put stores the material and imbalance scores for the material signature
// identified by key, always replacing on collision.
func (mc *materialCache) put(key Key, material Score, imbalance int16) {
	e := &mc.data[mc.hash(key)]
	switch e.materialKey {
	case 0:
		mc.entries++
	case key:
		mc.log.Warning("redundant write to material cache entry - evaluateMaterial should have used the cached hit")
	default:
		mc.replacements++
	}
	e.materialKey = key
	e.material = material
	e.imbalance = imbalance
}

// clear discards every entry and resets usage statistics.
func (mc *materialCache) clear() {
	mc.data = make([]materialEntry, mc.maxNumberOfEntries)
	mc.entries = 0
	mc.hits = 0
	mc.misses = 0
	mc.replacements = 0
}

// len returns how many occupied slots the cache currently holds.
func (mc *materialCache) len() uint64 {
	return mc.entries
}

// hash maps a material key onto a slot index via the cache's bit mask.
func (mc *materialCache) hash(key Key) uint64 {
	return uint64(key) & mc.hashKeyMask
}
