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

// kingSafetyScore scores the pawn shelter around the king of us (mid game)
// and the king's distance to its nearest own pawn (end game). The result
// only changes when the king square or the side's castling rights change,
// so the last value per side is kept and reused.
func (e *Evaluator) kingSafetyScore(us Color) Score {
	p := e.position
	kingSq := p.KingSquare(us)

	sideRights := p.CastlingRights() & CastlingWhite
	kingsideRight, queensideRight := CastlingWhiteOO, CastlingWhiteOOO
	castledKingside, castledQueenside := SqG1, SqC1
	if us == Black {
		sideRights = p.CastlingRights() & CastlingBlack
		kingsideRight, queensideRight = CastlingBlackOO, CastlingBlackOOO
		castledKingside, castledQueenside = SqG8, SqC8
	}

	if e.kingSafetyKingSq[us] == kingSq && e.kingSafetyRights[us] == sideRights {
		return e.kingSafety[us]
	}

	kingPawnDistance := 0
	if ourPawns := p.PiecesBb(us, Pawn); ourPawns != BbZero {
		kingPawnDistance = 8
		for bb := ourPawns; bb != BbZero; {
			if d := SquareDistance(kingSq, bb.PopLsb()); d < kingPawnDistance {
				kingPawnDistance = d
			}
		}
	}

	// evaluate the shelter where the king stands now, and if castling is
	// still possible also where it would stand after castling - the king
	// will not be punished for a storm it can still castle away from.
	score := e.kingShelter(us, kingSq)
	if sideRights.Has(kingsideRight) {
		if castled := e.kingShelter(us, castledKingside); castled > score {
			score = castled
		}
	}
	if sideRights.Has(queensideRight) {
		if castled := e.kingShelter(us, castledQueenside); castled > score {
			score = castled
		}
	}

	e.kingSafetyKingSq[us] = kingSq
	e.kingSafetyRights[us] = sideRights
	e.kingSafety[us] = Score{
		MidGameValue: int16(score),
		EndGameValue: int16(-16 * kingPawnDistance),
	}
	return e.kingSafety[us]
}

// kingShelter scores the pawn shelter and storm on the king's file and the
// two files beside it, assuming the king of us stood on kingSq. Only pawns
// on the king's rank or ahead of it count. On the A and H files the
// evaluated centre file is shifted inwards to B or G.
func (e *Evaluator) kingShelter(us Color, kingSq Square) int {
	p := e.position
	them := us.Flip()

	shelterRanks := Rank1_Bb | Rank2_Bb
	ranksInFront := ^kingSq.RanksSouthMask()
	if us == Black {
		shelterRanks = Rank8_Bb | Rank7_Bb
		ranksInFront = ^kingSq.RanksNorthMask()
	}

	ourPawns := p.PiecesBb(us, Pawn) & ranksInFront
	theirPawns := p.PiecesBb(them, Pawn) & ranksInFront

	safety := 5
	if ShiftBitboard(theirPawns, them.MoveDirection())&(FileA_Bb|FileH_Bb)&shelterRanks&kingSq.Bb() != BbZero {
		safety = 374
	}

	centre := kingSq.FileOf()
	switch centre {
	case FileA:
		centre = FileB
	case FileH:
		centre = FileG
	}

	for file := centre - 1; file <= centre+1; file++ {
		fileBb := file.Bb()

		ourRank := 0
		if pawns := ourPawns & fileBb; pawns != BbZero {
			backmost := pawns.Lsb()
			if us == Black {
				backmost = pawns.Msb()
			}
			ourRank = relativeRank(us, backmost)
		}

		theirRank := 0
		if pawns := theirPawns & fileBb; pawns != BbZero {
			frontmost := pawns.Lsb()
			if us == Black {
				frontmost = pawns.Msb()
			}
			theirRank = relativeRank(us, frontmost)
		}

		edgeDistance := int(file)
		if d := 7 - int(file); d < edgeDistance {
			edgeDistance = d
		}

		safety += int(shelterStrength[edgeDistance][ourRank])
		if ourRank != 0 && ourRank == theirRank-1 {
			// storm pawn is blocked by our shelter pawn; only the contact
			// push against a rank 3 shelter is dangerous.
			if theirRank == int(Rank3) {
				safety -= 66
			}
		} else {
			safety -= int(unblockedStorm[edgeDistance][theirRank])
		}
	}

	return safety
}

// relativeRank returns the rank of sq seen from the side of c, 0 for c's
// back rank up to 7.
func relativeRank(c Color, sq Square) int {
	if c == White {
		return int(sq.RankOf())
	}
	return 7 - int(sq.RankOf())
}
