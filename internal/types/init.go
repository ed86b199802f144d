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

import (
	"github.com/op/go-logging"

	myLogging "github.com/mkrawiec/gochess/internal/logging"
)

// board/search sizing constants shared across position, movegen and search.
const (
	// SqLength is the number of squares on the board.
	SqLength int = 64

	// MaxDepth bounds how deep the iterative deepening loop will ever go.
	MaxDepth = 128

	// MaxMoves bounds the move list capacity for a single game.
	MaxMoves = 512

	// KB is 1024 bytes.
	KB uint64 = 1024

	// MB is KB squared.
	MB uint64 = KB * KB

	// GB is KB cubed.
	GB uint64 = KB * MB

	// GamePhaseMax is the highest game-phase value the taper between
	// midgame and endgame evaluation can reach (one point per minor/major
	// piece still on the board, two colors, excluding pawns and kings).
	GamePhaseMax = 24
)

var log *logging.Logger

var initialized = false

// init wires up the precomputed bitboard and positional-value tables this
// package exposes. Guarded by initialized so a repeated call (package init
// order is otherwise undefined across files) is a no-op.
func init() {
	if initialized {
		return
	}
	log = myLogging.GetLog()
	log.Debug("Initializing data types")
	initBb()
	initPosValues()
	initialized = true
}
