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
	. "github.com/mkrawiec/gochess/internal/types"
)

// evaluateMobility scores how many squares each officer can reach inside its
// side's mobility area, from White's view.
func (e *Evaluator) evaluateMobility() *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	tmpScore.Add(e.mobilityScore(White))
	tmpScore.Sub(e.mobilityScore(Black))

	return &tmpScore
}

// mobilityScore sums the mobility bonuses for every knight, bishop, rook and
// queen of us. Bishops and rooks look through their own queens (and rooks
// through their own rooks) so that batteries do not count as blockers.
func (e *Evaluator) mobilityScore(us Color) Score {
	var s Score
	p := e.position
	area := e.mobilityArea(us)
	occupied := p.OccupiedAll()

	for bb := p.PiecesBb(us, Knight); bb != BbZero; {
		sq := bb.PopLsb()
		moves := GetAttacksBb(Knight, sq, BbZero) & area
		s.Add(knightMobility[moves.PopCount()])
	}
	for bb := p.PiecesBb(us, Bishop); bb != BbZero; {
		sq := bb.PopLsb()
		moves := GetAttacksBb(Bishop, sq, occupied^p.PiecesBb(us, Queen)) & area
		s.Add(bishopMobility[moves.PopCount()])
	}
	for bb := p.PiecesBb(us, Rook); bb != BbZero; {
		sq := bb.PopLsb()
		moves := GetAttacksBb(Rook, sq, occupied^p.PiecesBb(us, Rook)^p.PiecesBb(us, Queen)) & area
		s.Add(rookMobility[moves.PopCount()])
	}
	for bb := p.PiecesBb(us, Queen); bb != BbZero; {
		sq := bb.PopLsb()
		moves := GetAttacksBb(Queen, sq, occupied) & area
		s.Add(queenMobility[moves.PopCount()])
	}

	return s
}

// mobilityArea is the set of squares that count towards mobility for us:
// everything except squares covered by enemy pawns, own pawns that are still
// on the two home-side ranks or blocked by an enemy pawn, and the own king
// and queen squares.
func (e *Evaluator) mobilityArea(us Color) Bitboard {
	them := us.Flip()
	p := e.position
	ourPawns := p.PiecesBb(us, Pawn)
	theirPawns := p.PiecesBb(them, Pawn)

	lowRanks := Rank2_Bb | Rank3_Bb
	if us == Black {
		lowRanks = Rank7_Bb | Rank6_Bb
	}
	blockedOrLow := ourPawns & (ShiftBitboard(theirPawns, them.MoveDirection()) | lowRanks)

	area := BbAll &^ pawnAttacksBb(theirPawns, them)
	area &= ^blockedOrLow
	area &= ^p.PiecesBb(us, King)
	area &= ^p.PiecesBb(us, Queen)

	return area
}

// pawnAttacksBb returns every square covered by at least one pawn of c.
func pawnAttacksBb(pawns Bitboard, c Color) Bitboard {
	if c == White {
		return ShiftBitboard(pawns, Northwest) | ShiftBitboard(pawns, Northeast)
	}
	return ShiftBitboard(pawns, Southwest) | ShiftBitboard(pawns, Southeast)
}
