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

// Constant tables for the material imbalance, mobility, king shelter/storm
// and connected pawn terms. Values are fixed rather than configurable - they
// were tuned as a set and only make sense together.

// imbalanceOurs and imbalanceTheirs are quadratic coefficient tables for the
// material imbalance term, indexed [pieceType][pieceType]. Column 0 holds the
// bishop pair coefficient; the King row and column are unused.
// @formatter:off
var imbalanceOurs = [PtLength][PtLength]int16{
	{1438, 0, 0, 0, 0, 0, 0},            // bishop pair
	{},                                  // king (unused)
	{40, 0, 38, 0, 0, 0, 0},             // pawn
	{32, 0, 255, -62, 0, 0, 0},          // knight
	{0, 0, 104, 4, 0, 0, 0},             // bishop
	{-26, 0, -2, 47, 105, -208, 0},      // rook
	{-189, 0, 24, 117, 133, -134, -6},   // queen
}

var imbalanceTheirs = [PtLength][PtLength]int16{
	{0, 0, 0, 0, 0, 0, 0},               // bishop pair
	{},                                  // king (unused)
	{36, 0, 0, 0, 0, 0, 0},              // pawn
	{9, 0, 63, 0, 0, 0, 0},              // knight
	{59, 0, 65, 42, 0, 0, 0},            // bishop
	{46, 0, 39, 24, -24, 0, 0},          // rook
	{97, 0, 100, -42, 137, 268, 0},      // queen
}
// @formatter:on

// mobility bonus per piece type, indexed by the number of reachable squares
// inside the mobility area.
var knightMobility = [9]Score{
	{-62, -81}, {-53, -56}, {-12, -30}, {-4, -14}, {3, 8}, {13, 15},
	{22, 23}, {28, 27}, {33, 33},
}

var bishopMobility = [14]Score{
	{-48, -59}, {-20, -23}, {16, -3}, {26, 13}, {38, 24}, {51, 42},
	{55, 54}, {63, 57}, {63, 65}, {68, 73}, {81, 78}, {81, 86},
	{91, 88}, {98, 97},
}

var rookMobility = [15]Score{
	{-58, -76}, {-27, -18}, {-15, 28}, {-10, 55}, {-5, 69}, {-2, 82},
	{9, 112}, {16, 118}, {30, 132}, {29, 142}, {32, 155}, {38, 165},
	{46, 166}, {48, 169}, {58, 171},
}

var queenMobility = [28]Score{
	{-39, -36}, {-21, -15}, {3, 8}, {3, 18}, {14, 34}, {22, 54},
	{28, 61}, {41, 73}, {43, 79}, {48, 92}, {56, 94}, {60, 104},
	{60, 113}, {66, 120}, {67, 123}, {70, 126}, {71, 133}, {73, 136},
	{79, 140}, {88, 143}, {88, 148}, {99, 166}, {102, 170}, {102, 175},
	{106, 184}, {109, 191}, {113, 206}, {116, 212},
}

// shelterStrength scores the backmost own pawn sheltering the king, indexed
// [min(file, 7-file)][relative rank of that pawn] (rank 0 = no pawn).
// @formatter:off
var shelterStrength = [4][7]int16{
	{ -6, 81, 93, 58, 39, 18, 25},
	{-43, 61, 35, -49, -29, -11, -63},
	{-10, 75, 23, -2, 32, 3, -45},
	{-39, -13, -29, -52, -48, -67, -166},
}

// unblockedStorm penalizes the frontmost enemy pawn advancing on the king,
// same indexing as shelterStrength but by the enemy pawn's relative rank.
var unblockedStorm = [4][7]int16{
	{89, 107, 123, 93, 57, 45, 51},
	{44, -18, 123, 46, 39, -7, 23},
	{4, 52, 162, 37, 7, -14, -2},
	{-10, -14, 90, 15, 2, -7, -16},
}
// @formatter:on

// pawn structure penalties
var (
	doubledPenalty  = Score{11, 56}
	isolatedPenalty = Score{5, 15}
	backwardPenalty = Score{9, 24}
)

// connectedBonus is indexed [opposed][phalanx][defender count][relative rank]
// and filled in from connectedSeed at startup.
var connectedBonus [2][2][3][8]Score

var connectedSeed = [8]int16{0, 13, 24, 18, 65, 100, 175, 330}

func init() {
	for opposed := 0; opposed <= 1; opposed++ {
		for phalanx := 0; phalanx <= 1; phalanx++ {
			for defenders := 0; defenders <= 2; defenders++ {
				for rank := 1; rank <= 6; rank++ {
					v := 17 * int16(defenders)
					if phalanx == 1 {
						v += (connectedSeed[rank] + (connectedSeed[rank+1]-connectedSeed[rank])/2) >> opposed
					} else {
						v += connectedSeed[rank] >> opposed
					}
					connectedBonus[opposed][phalanx][defenders][rank] = Score{
						MidGameValue: v,
						EndGameValue: int16(floorDiv(int(v)*(rank-2), 4)),
					}
				}
			}
		}
	}
}

// floorDiv rounds towards negative infinity, which matters wherever a scaled
// table value can go negative (connected pawns on rank 2, a negative
// imbalance sum).
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
