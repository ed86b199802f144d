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

// evaluateMaterial returns the material balance plus the material imbalance
// term, both from White's view. Both depend only on the material signature,
// so the combined result is cached by the position's material key.
func (e *Evaluator) evaluateMaterial() *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	var material Score
	var imbalance int16

	var entry *materialEntry
	if Settings.Eval.UseMaterialCache {
		entry = e.materialCache.getEntry(e.position.MaterialKey())
	}
	if entry != nil {
		material = entry.material
		imbalance = entry.imbalance
	} else {
		diff := int16(e.position.Material(White) - e.position.Material(Black))
		material = Score{MidGameValue: diff, EndGameValue: diff}
		imbalance = int16(floorDiv(e.imbalance(White)-e.imbalance(Black), 16))
		if Settings.Eval.UseMaterialCache {
			e.materialCache.put(e.position.MaterialKey(), material, imbalance)
		}
	}

	if Settings.Eval.UseMaterialEval {
		tmpScore.Add(material)
	}
	if Settings.Eval.UseImbalanceEval {
		tmpScore.MidGameValue += imbalance
		tmpScore.EndGameValue += imbalance
	}
	return &tmpScore
}

// imbalance scores how well the piece set of us complements itself and
// counters the piece set of the opponent, using the quadratic coefficient
// tables. The bishop pair is handled as its own pseudo piece type.
func (e *Evaluator) imbalance(us Color) int {
	them := us.Flip()

	ourPair, theirPair := 0, 0
	if e.position.PiecesBb(us, Bishop).PopCount() > 1 {
		ourPair = 1
	}
	if e.position.PiecesBb(them, Bishop).PopCount() > 1 {
		theirPair = 1
	}
	score := ourPair * (int(imbalanceOurs[0][0])*ourPair + int(imbalanceTheirs[0][0])*theirPair)

	for pt1 := Pawn; pt1 <= Queen; pt1++ {
		ours := e.position.PiecesBb(us, pt1).PopCount()
		if ours == 0 {
			continue
		}
		v := int(imbalanceOurs[pt1][0])*ourPair + int(imbalanceTheirs[pt1][0])*theirPair
		for pt2 := Pawn; pt2 <= pt1; pt2++ {
			v += int(imbalanceOurs[pt1][pt2])*e.position.PiecesBb(us, pt2).PopCount() +
				int(imbalanceTheirs[pt1][pt2])*e.position.PiecesBb(them, pt2).PopCount()
		}
		score += ours * v
	}

	return score
}
