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
	. "github.com/mkrawiec/gochess/internal/config"
	. "github.com/mkrawiec/gochess/internal/types"
)

// evaluatePawns scores the pawn structure for both colors, consulting the
// pawn cache first since the same structure recurs across many positions
// in a search tree.
func (e *Evaluator) evaluatePawns() *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	if Settings.Eval.UsePawnCache {
		if entry := e.pawnCache.getEntry(e.position.PawnKey()); entry != nil {
			tmpScore.MidGameValue = entry.score.MidGameValue
			tmpScore.EndGameValue = entry.score.EndGameValue
			return &tmpScore
		}
	}

	whitePawns := e.position.PiecesBb(White, Pawn)
	blackPawns := e.position.PiecesBb(Black, Pawn)

	tmpScore.Add(e.pawnStructureScore(White, whitePawns, blackPawns))
	tmpScore.Sub(e.pawnStructureScore(Black, blackPawns, whitePawns))

	if Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), &tmpScore)
	}

	return &tmpScore
}

// pawnStructureScore evaluates ourPawns (belonging to color us) against
// theirPawns square by square. Each pawn is classified as doubled,
// connected, isolated or backward; connected pawns are rewarded from a
// table indexed by whether the pawn is opposed, part of a phalanx, how
// many pawns defend it and its relative rank. A passed pawn bonus is
// applied on top.
func (e *Evaluator) pawnStructureScore(us Color, ourPawns, theirPawns Bitboard) Score {
	var s Score
	them := us.Flip()
	theirPawnAttacks := pawnAttacksBb(theirPawns, them)

	for bb := ourPawns; bb != BbZero; {
		sq := bb.PopLsb()
		neighbours := ourPawns & sq.NeighbourFilesMask()
		phalanx := neighbours & sq.RankOf().Bb()
		defenders := ourPawns & GetPawnAttacks(them, sq)

		frontFill := sq.Ray(N)
		if us == Black {
			frontFill = sq.Ray(S)
		}
		opposed := theirPawns&frontFill != BbZero

		// doubled counts only the front pawn of an unsupported pair
		if ourPawns&ShiftBitboard(sq.Bb(), them.MoveDirection()) != BbZero && defenders == BbZero {
			s.Sub(doubledPenalty)
		}

		switch {
		case phalanx != BbZero || defenders != BbZero:
			opposedIdx, phalanxIdx := 0, 0
			if opposed {
				opposedIdx = 1
			}
			if phalanx != BbZero {
				phalanxIdx = 1
			}
			s.Add(connectedBonus[opposedIdx][phalanxIdx][defenders.PopCount()][relativeRank(us, sq)])

		case neighbours == BbZero:
			s.Sub(isolatedPenalty)

		default:
			// backward: the stop square is controlled or blocked by enemy
			// pawns and no own pawn on a neighbour file is level or behind.
			stop := ShiftBitboard(sq.Bb(), us.MoveDirection())
			ahead := sq.RanksNorthMask()
			if us == Black {
				ahead = sq.RanksSouthMask()
			}
			levelOrBehind := sq.NeighbourFilesMask() &^ ahead
			if stop&(theirPawns|theirPawnAttacks) != BbZero && levelOrBehind&ourPawns == BbZero {
				s.Sub(backwardPenalty)
			}
		}

		if theirPawns&sq.PassedPawnMask(us) == BbZero {
			s.MidGameValue += Settings.Eval.PawnPassedMidBonus
			s.EndGameValue += Settings.Eval.PawnPassedEndBonus
		}
	}

	return s
}
