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

package transpositiontable

import (
	. "github.com/mkrawiec/gochess/internal/types"
)

// TtEntrySize is the in-memory size of a TtEntry in bytes; TtTable.Resize
// divides the byte budget by this to get an entry count.
const TtEntrySize = 16

// vmeta packs three fields below the 16-bit boundary: depth in bits 5-11,
// the value's bound type in bits 3-4, and a 3-bit age in bits 0-2.
const (
	ageMask    = uint16(0b0000_0000_0000_0111)
	vtypeMask  = uint16(0b0000_0000_0001_1000)
	vtypeShift = uint16(3)
	depthMask  = uint16(0b0000_1111_1110_0000)
	depthShift = uint16(5)
)

// TtEntry is one slot of a TtTable, packed to 16 bytes: a 64-bit Zobrist
// key plus a move, an evaluation, a search value, and packed depth/type/age
// metadata.
type TtEntry struct {
	key   Key
	move  uint16
	eval  int16
	value int16
	vmeta uint16
}

func (e *TtEntry) decreaseAge() {
	if e.Age() > 0 {
		e.vmeta--
	}
}

func (e *TtEntry) increaseAge() {
	if e.Age() < 7 {
		e.vmeta++
	}
}

// Key returns the Zobrist key this entry was stored under.
func (e *TtEntry) Key() Key {
	return e.key
}

// Move returns the best move found for this position, if any.
func (e *TtEntry) Move() Move {
	return Move(e.move)
}

// Value returns the stored search value.
func (e *TtEntry) Value() Value {
	return Value(e.value)
}

// Eval returns the static evaluation recorded alongside the search value.
func (e *TtEntry) Eval() Value {
	return Value(e.eval)
}

// Depth returns the search depth this entry was stored at.
func (e *TtEntry) Depth() int8 {
	return int8((e.vmeta & depthMask) >> depthShift)
}

// Age returns how many generations have passed since this entry was last
// refreshed by a Probe hit.
func (e *TtEntry) Age() int8 {
	return int8(e.vmeta & ageMask)
}

// Vtype reports whether Value is exact or an alpha/beta bound.
func (e *TtEntry) Vtype() ValueType {
	return ValueType((e.vmeta & vtypeMask) >> vtypeShift)
}
