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

package transpositiontable

import (
	"math/rand"
	"os"
	"path"
	"runtime"
	"testing"
	"time"
	"unsafe"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/mkrawiec/gochess/internal/config"
	"github.com/mkrawiec/gochess/internal/logging"
	"github.com/mkrawiec/gochess/internal/position"
	. "github.com/mkrawiec/gochess/internal/types"
)

var logTest *logging2.Logger

// tests must run from the project root so config/logging paths resolve.
func init() {
	_, filename, _, _ := runtime.Caller(0)
	if err := os.Chdir(path.Join(path.Dir(filename), "../..")); err != nil {
		panic(err)
	}
}

func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	os.Exit(m.Run())
}

func TestEntrySize(t *testing.T) {
	var e TtEntry
	assert.EqualValues(t, 16, unsafe.Sizeof(e))
	logTest.Debugf("size of TtEntry: %d bytes", unsafe.Sizeof(e))
}

func TestResize(t *testing.T) {
	tt := NewTtTable(2)
	assert.Equal(t, uint64(131_072), tt.maxNumberOfEntries)
	assert.Equal(t, 131_072, cap(tt.data))
	logTest.Debug(tt.String())

	tt = NewTtTable(64)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	// a requested size that isn't itself a power of 2 rounds down.
	tt = NewTtTable(100)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	tt = NewTtTable(4_096)
	assert.Equal(t, uint64(268_435_456), tt.maxNumberOfEntries)
	assert.Equal(t, 268_435_456, cap(tt.data))
}

func TestGetEntryAndProbe(t *testing.T) {
	tt := NewTtTable(64)

	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	tt.Put(pos.ZobristKey(), move, 5, 111, ALPHA, 222)

	e := tt.GetEntry(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key())
	assert.Equal(t, move, e.Move())
	assert.EqualValues(t, 5, e.Depth())
	assert.EqualValues(t, 1, e.Age())
	assert.Equal(t, ALPHA, e.Vtype())

	// Probe decrements age; GetEntry would not have.
	e = tt.Probe(pos.ZobristKey())
	assert.EqualValues(t, 0, e.Age())

	e = tt.Probe(pos.ZobristKey())
	assert.EqualValues(t, 0, e.Age(), "age must not go negative")

	pos.DoMove(move)
	assert.Nil(t, tt.Probe(pos.ZobristKey()))
}

func TestClear(t *testing.T) {
	tt := NewTtTable(1)

	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	tt.Put(pos.ZobristKey(), move, 5, 111, ALPHA, 222)
	assert.EqualValues(t, 1, tt.Len())

	tt.Clear()

	assert.Nil(t, tt.Probe(pos.ZobristKey()))
	assert.EqualValues(t, 0, tt.Len())
}

func TestHashfull(t *testing.T) {
	tt := NewTtTable(1)
	assert.EqualValues(t, 0, tt.Hashfull())

	var i Key
	for ; i < Key(tt.maxNumberOfEntries)/10; i++ {
		tt.Put(i, MoveNone, 1, 1, EXACT, ValueNA)
	}
	assert.InDelta(t, 100, tt.Hashfull(), 5)
}

func TestAgeEntries(t *testing.T) {
	tt := NewTtTable(5_000)

	logTest.Debug("filling tt")
	start := time.Now()
	for i := range tt.data {
		tt.numberOfEntries++
		tt.data[i].key = Key(i)
		tt.data[i].increaseAge()
	}
	tt.data[0].vmeta = 0
	tt.numberOfEntries--
	logTest.Debug(out.Sprintf("tt of %d elements filled in %d ms", len(tt.data), time.Since(start).Milliseconds()))
	logTest.Debug(tt.String())

	assert.EqualValues(t, 0, tt.GetEntry(0).Age())
	assert.EqualValues(t, 1, tt.GetEntry(1).Age())
	assert.EqualValues(t, 1, tt.GetEntry(1_000).Age())
	assert.EqualValues(t, 1, tt.GetEntry(Key(tt.maxNumberOfEntries-1)).Age())

	logTest.Debug("aging entries")
	tt.AgeEntries()

	assert.EqualValues(t, 0, tt.GetEntry(0).Age())
	assert.EqualValues(t, 2, tt.GetEntry(1).Age())
	assert.EqualValues(t, 2, tt.GetEntry(1_000).Age())
	assert.EqualValues(t, 2, tt.GetEntry(Key(tt.maxNumberOfEntries-1)).Age())
}

func TestPut(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Put(111, move, 4, 111, ALPHA, 111)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfPuts)
	e := tt.Probe(111)
	assert.EqualValues(t, 111, e.Key())
	assert.Equal(t, move, e.Move())
	assert.EqualValues(t, 4, e.Depth())
	assert.Equal(t, ALPHA, e.Vtype())
	assert.EqualValues(t, 0, e.Age())

	// updating the same key should not count as a collision.
	tt.Put(111, move, 5, 112, BETA, 112)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 1, tt.Stats.numberOfUpdates)
	assert.EqualValues(t, 0, tt.Stats.numberOfCollisions)
	e = tt.Probe(111)
	assert.EqualValues(t, 112, e.Value())
	assert.EqualValues(t, 5, e.Depth())
	assert.Equal(t, BETA, e.Vtype())

	// a different key hashing to the same slot overwrites, since its depth is greater.
	collisionKey := Key(111 + tt.maxNumberOfEntries)
	tt.Put(collisionKey, move, 6, 113, EXACT, 113)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfCollisions)
	assert.EqualValues(t, 1, tt.Stats.numberOfOverwrites)
	e = tt.Probe(collisionKey)
	assert.EqualValues(t, collisionKey, e.Key())
	assert.EqualValues(t, 6, e.Depth())

	// a shallower incoming search loses the collision: the resident stays.
	shallower := Key(111 + 2*tt.maxNumberOfEntries)
	tt.Put(shallower, move, 4, 114, BETA, 114)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfCollisions)
	assert.EqualValues(t, 1, tt.Stats.numberOfOverwrites)
	assert.Nil(t, tt.Probe(shallower))
	e = tt.Probe(collisionKey)
	assert.EqualValues(t, collisionKey, e.Key())
	assert.EqualValues(t, 6, e.Depth())
}

func TestPutPreservesFieldsOnSentinel(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	tt.Put(222, move, 3, 50, EXACT, 60)

	// storing MoveNone/ValueNA must not erase the existing move/eval.
	tt.Put(222, MoveNone, 3, ValueNA, EXACT, ValueNA)
	e := tt.Probe(222)
	assert.Equal(t, move, e.Move())
	assert.EqualValues(t, 50, e.Value())
	assert.EqualValues(t, 60, e.Eval())
}

func TestTtPutProbeTiming(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	tt := NewTtTable(1_024)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	const rounds = 5
	const iterations uint64 = 50_000_000

	for r := 1; r <= rounds; r++ {
		out.Printf("round %d\n", r)
		key := Key(rand.Uint64())
		depth := int8(rand.Int31n(128))
		value := Value(rand.Int31n(int32(ValueMax)))
		valueType := ValueType(rand.Int31n(4))

		start := time.Now()
		for i := uint64(0); i < iterations; i++ {
			tt.Put(key+Key(i), move, depth, value, valueType, value)
		}
		for i := uint64(0); i < iterations; i++ {
			_ = tt.Probe(key + Key(2*i))
		}
		elapsed := time.Since(start)
		out.Println(tt.String())
		out.Printf("%d put+probe pairs took %d ns (%d ns/pair)\n",
			iterations, elapsed.Nanoseconds(), elapsed.Nanoseconds()/int64(iterations))
	}
}
