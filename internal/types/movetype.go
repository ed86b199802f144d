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

package types

// MoveType is a set of constants for the type of a move as encoded in a Move
type MoveType uint8

// Constants for MoveType
const (
	Normal         MoveType = 0
	Promotion      MoveType = 1
	EnPassant      MoveType = 2
	Castling       MoveType = 3
	MoveTypeLength MoveType = 4
)

// IsValid check if mt is a valid move type
func (mt MoveType) IsValid() bool {
	return mt < MoveTypeLength
}

// array of string labels for move types
var moveTypeToString = [MoveTypeLength]string{"n", "p", "e", "c"}

// String returns a string representation of a move type
func (mt MoveType) String() string {
	return moveTypeToString[mt]
}
