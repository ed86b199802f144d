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

package movegen

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mkrawiec/gochess/internal/position"
	. "github.com/mkrawiec/gochess/internal/types"
)

var out = message.NewPrinter(language.German)

// Perft drives the move generator against a position with no pruning at
// all, counting every leaf reached at a fixed depth plus a breakdown of
// how those leaves were reached (captures, castles, checks, ...). Its
// only purpose is cross-checking move generation against known-correct
// node counts for a given FEN/depth pair.
type Perft struct {
	Nodes            uint64
	CheckCounter     uint64
	CheckMateCounter uint64
	CaptureCounter   uint64
	EnpassantCounter uint64
	CastleCounter    uint64
	PromotionCounter uint64
	stopFlag         bool
}

// NewPerft returns a Perft instance with all counters at zero.
func NewPerft() *Perft {
	return &Perft{}
}

// Stop requests that a perft run, most likely driven from another
// goroutine, abort its recursion at the next opportunity.
func (perft *Perft) Stop() {
	perft.stopFlag = true
}

// StartPerftMulti runs StartPerft once per depth in [startDepth, endDepth],
// stopping early if Stop was called between depths.
func (perft *Perft) StartPerftMulti(fen string, startDepth int, endDepth int, onDemandFlag bool) {
	perft.stopFlag = false
	for depth := startDepth; depth <= endDepth; depth++ {
		if perft.stopFlag {
			out.Print("Perft multi depth stopped\n")
			return
		}
		perft.StartPerft(fen, depth, onDemandFlag)
	}
}

// StartPerft runs a single perft traversal of fen to depth, using either
// bulk pseudo-legal generation or the on-demand staged generator depending
// on onDemandFlag, and prints a results report.
func (perft *Perft) StartPerft(fen string, depth int, onDemandFlag bool) {
	perft.stopFlag = false

	if depth <= 0 {
		depth = 1
	}

	perft.resetCounter()
	rootPos, _ := position.NewPositionFen(fen)

	// one generator instance per ply avoids reallocating move buffers on
	// every recursive call.
	generators := make([]*Movegen, depth+1)
	for ply := 0; ply <= depth; ply++ {
		generators[ply] = NewMoveGen()
	}

	out.Printf("Performing PERFT Test for Depth %d\n", depth)
	out.Printf("FEN: %s\n", fen)
	out.Printf("-----------------------------------------\n")

	traverse := perft.miniMax
	if onDemandFlag {
		traverse = perft.miniMaxOD
	}

	start := time.Now()
	result := traverse(depth, rootPos, generators)
	elapsed := time.Since(start)

	if result == 0 {
		out.Print("Perft stopped\n")
		return
	}
	perft.Nodes = result

	out.Printf("Time         : %s\n", elapsed)
	out.Printf("NPS          : %d nps\n", (perft.Nodes*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()+1))
	out.Printf("Results:\n")
	out.Printf("   Nodes     : %d\n", perft.Nodes)
	out.Printf("   Captures  : %d\n", perft.CaptureCounter)
	out.Printf("   EnPassant : %d\n", perft.EnpassantCounter)
	out.Printf("   Checks    : %d\n", perft.CheckCounter)
	out.Printf("   CheckMates: %d\n", perft.CheckMateCounter)
	out.Printf("   Castles   : %d\n", perft.CastleCounter)
	out.Printf("   Promotions: %d\n", perft.PromotionCounter)
	out.Printf("-----------------------------------------\n")
	out.Printf("Finished PERFT Test for Depth %d\n\n", depth)
}

// miniMax recurses using bulk pseudo-legal move generation at every ply.
func (perft *Perft) miniMax(depth int, p *position.Position, generators []*Movegen) uint64 {
	moves := generators[depth].GeneratePseudoLegalMoves(p, GenAll, p.HasCheck())
	var nodes uint64
	for _, move := range *moves {
		if perft.stopFlag {
			return 0
		}
		if child, ok := perft.tryMove(move, depth, p, generators); ok {
			if depth > 1 {
				nodes += perft.miniMax(depth-1, p, generators)
			} else {
				nodes += child
			}
		}
		p.UndoMove()
	}
	return nodes
}

// miniMaxOD recurses pulling one move at a time from the staged on-demand
// generator instead of materializing the whole ply's move list up front.
func (perft *Perft) miniMaxOD(depth int, p *position.Position, generators []*Movegen) uint64 {
	gen := generators[depth]
	hasCheck := p.HasCheck()
	var nodes uint64
	for move := gen.GetNextMove(p, GenAll, hasCheck); move != MoveNone; move = gen.GetNextMove(p, GenAll, hasCheck) {
		if perft.stopFlag {
			return 0
		}
		if child, ok := perft.tryMove(move, depth, p, generators); ok {
			if depth > 1 {
				nodes += perft.miniMaxOD(depth-1, p, generators)
			} else {
				nodes += child
			}
		}
		p.UndoMove()
	}
	return nodes
}

// tryMove plays move on p, reports whether it turned out legal, and when
// at the final ply (depth == 1) tallies it into the leaf counters. The
// caller is responsible for undoing the move regardless of legality.
func (perft *Perft) tryMove(move Move, depth int, p *position.Position, generators []*Movegen) (leafCount uint64, legal bool) {
	isCapture := p.GetPiece(move.To()) != PieceNone
	isEnpassant := move.MoveType() == EnPassant
	isCastling := move.MoveType() == Castling
	isPromotion := move.MoveType() == Promotion

	p.DoMove(move)

	if !p.WasLegalMove() {
		return 0, false
	}
	if depth > 1 {
		return 0, true
	}

	perft.CaptureCounter += b2u(isCapture)
	if isEnpassant {
		perft.EnpassantCounter++
		perft.CaptureCounter++
	}
	if isCastling {
		perft.CastleCounter++
	}
	if isPromotion {
		perft.PromotionCounter++
	}
	if p.HasCheck() {
		perft.CheckCounter++
		if !generators[0].HasLegalMove(p) {
			perft.CheckMateCounter++
		}
	}
	return 1, true
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (perft *Perft) resetCounter() {
	perft.Nodes = 0
	perft.CheckCounter = 0
	perft.CheckMateCounter = 0
	perft.CaptureCounter = 0
	perft.EnpassantCounter = 0
	perft.CastleCounter = 0
	perft.PromotionCounter = 0
}
