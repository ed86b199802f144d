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

package search

import (
	"github.com/mkrawiec/gochess/internal/attacks"
	"github.com/mkrawiec/gochess/internal/position"
	. "github.com/mkrawiec/gochess/internal/types"
)

// seeMaxAttackers bounds the "swap list" below: no legal position has more
// than one king, queen and two of everything else per color attacking a
// single square, but 32 leaves generous headroom without reasoning about it.
const seeMaxAttackers = 32

// see runs a Static Exchange Evaluation of move: it resolves the whole
// capture sequence on move.To() — both sides always recapturing with their
// least valuable attacker — and returns the net material result for the
// side to move. Used to separate genuinely winning captures from losing
// ones without a full search.
func see(p *position.Position, move Move) Value {
	if move.MoveType() == EnPassant {
		// an en passant capture is never preceded by a capture on that
		// square, so it is always a clean material gain.
		return 100
	}

	gain := make([]Value, seeMaxAttackers)

	toSquare := move.To()
	fromSquare := move.From()
	movedPiece := p.GetPiece(fromSquare)
	sideToCapture := p.NextPlayer()

	occupied := p.OccupiedAll()
	swapList := attacks.AttacksTo(p, toSquare, White) | attacks.AttacksTo(p, toSquare, Black)

	ply := 0
	gain[ply] = p.GetPiece(toSquare).ValueOf()

	for {
		ply++
		sideToCapture = sideToCapture.Flip()

		if move.MoveType() == Promotion {
			gain[ply] = move.PromotionType().ValueOf() - Pawn.ValueOf() - gain[ply-1]
		} else {
			gain[ply] = movedPiece.ValueOf() - gain[ply-1]
		}

		// standing pat: if even a free recapture wouldn't change who's
		// ahead, stop extending the swap list - it can't change the result.
		if maxValue(-gain[ply-1], gain[ply]) < 0 {
			break
		}

		swapList.PopSquare(fromSquare)
		occupied.PopSquare(fromSquare)
		swapList |= attacks.RevealedAttacks(p, toSquare, occupied, White) |
			attacks.RevealedAttacks(p, toSquare, occupied, Black)

		fromSquare = leastValuableAttacker(p, swapList, sideToCapture)
		if fromSquare == SqNone {
			break
		}
		movedPiece = p.GetPiece(fromSquare)
	}

	// fold the swap list back up: at each step a side only takes the
	// capture if doing so beats standing pat (negamax over the gain array).
	for ply--; ply > 0; ply-- {
		gain[ply-1] = -maxValue(-gain[ply-1], gain[ply])
	}
	return gain[0]
}

// leastValuableAttacker picks the cheapest piece of color within bitboard,
// using the least significant bit to break ties between same-type pieces.
func leastValuableAttacker(p *position.Position, bitboard Bitboard, color Color) Square {
	for _, pt := range [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King} {
		if attackers := bitboard & p.PiecesBb(color, pt); attackers != BbZero {
			return attackers.Lsb()
		}
	}
	return SqNone
}

func maxValue(x, y Value) Value {
	if x > y {
		return x
	}
	return y
}
