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

// Package attacks snapshots, per position, which squares every piece attacks
// or defends. Unlike the precomputed empty-board tables in internal/types
// (pseudoAttacks, magic sliding tables), this is occupancy-dependent and is
// recomputed (cheaply) whenever the position's Zobrist key changes.
package attacks

import (
	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/mkrawiec/gochess/internal/logging"
	"github.com/mkrawiec/gochess/internal/position"
	. "github.com/mkrawiec/gochess/internal/types"
)

var out = message.NewPrinter(language.German)

// nonPawnPieces lists every piece type other than the pawn, in the order
// their attack bitboards are accumulated.
var nonPawnPieces = [5]PieceType{King, Knight, Bishop, Rook, Queen}

// Attacks is a per-position snapshot of attacked/defended squares, indexed
// several ways so both movegen-style and evaluator-style queries are O(1).
type Attacks struct {
	log *logging.Logger

	// Zobrist is the key of the position this snapshot was built from; a
	// Compute call for a matching key is a no-op.
	Zobrist Key
	// From holds, per color and origin square, the bitboard that piece
	// attacks/defends (intersect with own/enemy occupancy to split the two).
	From [ColorLength][SqLength]Bitboard
	// To holds, per color and target square, which of that color's origin
	// squares attack it.
	To [ColorLength][SqLength]Bitboard
	// All is the union of every attacked/defended square for a color.
	All [ColorLength]Bitboard
	// Piece is the union of attacked/defended squares per color and piece type.
	Piece [ColorLength][PtLength]Bitboard
	// Mobility counts, per color, attacked squares not occupied by that color.
	Mobility [ColorLength]int
	// Pawns holds the squares attacked by pawns of the given color.
	Pawns [ColorLength]Bitboard
	// PawnsDouble holds the squares attacked by two pawns of the given color.
	PawnsDouble [ColorLength]Bitboard
}

// NewAttacks allocates an empty Attacks snapshot.
func NewAttacks() *Attacks {
	return &Attacks{
		log: myLogging.GetLog(),
	}
}

// Clear zeroes every field in place instead of allocating a fresh struct;
// reusing one instance across many Compute calls avoids GC pressure in the
// search's hot inner loop.
func (atk *Attacks) Clear() {
	atk.Zobrist = 0
	for sq := Square(0); sq < Square(SqLength); sq++ {
		atk.From[White][sq] = BbZero
		atk.From[Black][sq] = BbZero
		atk.To[White][sq] = BbZero
		atk.To[Black][sq] = BbZero
	}
	for pt := PtNone; pt < PtLength; pt++ {
		atk.Piece[White][pt] = BbZero
		atk.Piece[Black][pt] = BbZero
	}
	for _, c := range [2]Color{White, Black} {
		atk.All[c] = BbZero
		atk.Mobility[c] = 0
		atk.Pawns[c] = BbZero
		atk.PawnsDouble[c] = BbZero
	}
}

// Compute (re)builds the snapshot for p unless it already reflects p's
// current Zobrist key.
func (atk *Attacks) Compute(p *position.Position) {
	if p.ZobristKey() == atk.Zobrist {
		atk.log.Debugf("attacks compute: position was already computed")
		return
	}
	atk.Clear()
	atk.Zobrist = p.ZobristKey()
	atk.computeSliderAndLeaperAttacks(p)
	atk.computePawnAttacks(p)
}

// computeSliderAndLeaperAttacks fills From/To/Piece/All/Mobility for every
// piece type except the pawn.
func (atk *Attacks) computeSliderAndLeaperAttacks(p *position.Position) {
	occupied := p.OccupiedAll()
	for _, pt := range nonPawnPieces {
		for _, c := range [2]Color{White, Black} {
			ownPieces := p.OccupiedBb(c)
			remaining := p.PiecesBb(c, pt)
			for remaining != BbZero {
				fromSq := remaining.PopLsb()
				reach := GetAttacksBb(pt, fromSq, occupied)
				atk.From[c][fromSq] = reach
				atk.Piece[c][pt] |= reach
				atk.All[c] |= reach
				for targets := reach; targets != BbZero; {
					toSq := targets.PopLsb()
					atk.To[c][toSq].PushSquare(fromSq)
				}
				atk.Mobility[c] += (reach &^ ownPieces).PopCount()
			}
		}
	}
}

// computePawnAttacks fills the Pawns/PawnsDouble fields for both colors.
func (atk *Attacks) computePawnAttacks(p *position.Position) {
	for _, c := range [2]Color{White, Black} {
		pawns := p.PiecesBb(c, Pawn)
		west := ShiftBitboard(pawns, Northwest)
		east := ShiftBitboard(pawns, Northeast)
		if c == Black {
			west = ShiftBitboard(pawns, Southwest)
			east = ShiftBitboard(pawns, Southeast)
		}
		atk.Pawns[c] = west | east
		atk.PawnsDouble[c] = west & east
	}
}

// AttacksTo finds every piece of color attacking square, working backwards
// from the target square rather than forwards from each piece: the target's
// own attack pattern for a piece type, intersected with where that piece
// type actually sits, is exactly the set of attackers of that type.
func AttacksTo(p *position.Position, square Square, color Color) Bitboard {
	occupied := p.OccupiedAll()

	attackers := GetPawnAttacks(color.Flip(), square) & p.PiecesBb(color, Pawn)
	attackers |= GetAttacksBb(Knight, square, occupied) & p.PiecesBb(color, Knight)
	attackers |= GetAttacksBb(King, square, occupied) & p.PiecesBb(color, King)
	attackers |= GetAttacksBb(Rook, square, occupied) & (p.PiecesBb(color, Rook) | p.PiecesBb(color, Queen))
	attackers |= GetAttacksBb(Bishop, square, occupied) & (p.PiecesBb(color, Bishop) | p.PiecesBb(color, Queen))

	if epSq := p.GetEnPassantSquare(); epSq != SqNone && epSq == square {
		capturedPawnSq := epSq.To(color.Flip().MoveDirection())
		if capturedPawnSq.NeighbourFilesMask()&capturedPawnSq.RankOf().Bb()&p.PiecesBb(color, Pawn) != BbZero {
			attackers |= capturedPawnSq.Bb()
		}
	}
	return attackers
}

// RevealedAttacks returns the slider attacks on square that become visible
// once occupied no longer contains a piece that used to block them. Only
// rooks/bishops/queens can ever be revealed this way.
func RevealedAttacks(p *position.Position, square Square, occupied Bitboard, color Color) Bitboard {
	straight := GetAttacksBb(Rook, square, occupied) & occupied & (p.PiecesBb(color, Rook) | p.PiecesBb(color, Queen))
	diagonal := GetAttacksBb(Bishop, square, occupied) & occupied & (p.PiecesBb(color, Bishop) | p.PiecesBb(color, Queen))
	return straight | diagonal
}
