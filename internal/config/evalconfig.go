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

package config

type evalConfiguration struct {

	UseMaterialEval   bool
	UsePositionalEval bool

	UseImbalanceEval  bool
	UseMaterialCache  bool
	MaterialCacheSize int

	// evaluation values
	UseLazyEval       bool
	LazyEvalThreshold int16

	Tempo int16

	UseAttacksInEval bool

	UseMobility bool

	UseAdvancedPieceEval bool
	BishopPairBonus      int16
	MinorBehindPawnBonus int16
	BishopPawnMalus      int16
	BishopCenterAimBonus int16
	BishopBlockedMalus   int16
	RookOnQueenFileBonus int16
	RookOnOpenFileBonus  int16
	RookTrappedMalus     int16
	KingRingAttacksBonus int16

	UseKingEval       bool
	KingDangerMalus   int16
	KingDefenderBonus int16

	// PAWNS
	UsePawnEval   bool
	UsePawnCache  bool
	PawnCacheSize int

	PawnPassedMidBonus int16
	PawnPassedEndBonus int16
}

// defaultEvalConfig returns the built-in evaluation weights applied before
// a config file is decoded on top of them.
func defaultEvalConfig() evalConfiguration {
	return evalConfiguration{
		UseMaterialEval:   true,
		UsePositionalEval: true,

		UseImbalanceEval:  true,
		UseMaterialCache:  true,
		MaterialCacheSize: 32,

		UseLazyEval:       false,
		LazyEvalThreshold: 700,

		Tempo: 28,

		UseAttacksInEval: false,

		UseMobility: true,

		UseAdvancedPieceEval: false,
		KingRingAttacksBonus: 10, // per piece and attacked king ring square
		MinorBehindPawnBonus: 15, // per piece and times game phase
		BishopPairBonus:      20, // once
		BishopPawnMalus:      5,  // per pawn and times ~game phase
		BishopCenterAimBonus: 20, // per bishop and times game phase
		BishopBlockedMalus:   40, // per bishop
		RookOnQueenFileBonus: 6,  // per rook
		RookOnOpenFileBonus:  25, // per rook and time game phase
		RookTrappedMalus:     40, // per rook and time game phase

		UseKingEval:       true,
		KingDangerMalus:   50, // count of attacker-minus-defender times malus, if attackers outnumber defenders
		KingDefenderBonus: 10, // count of defender-minus-attacker times bonus, otherwise

		UsePawnEval:   true,
		UsePawnCache:  true,
		PawnCacheSize: 64,

		PawnPassedMidBonus: 20,
		PawnPassedEndBonus: 40,
	}
}

// init seeds Settings.Eval with defaults before Setup decodes the config
// file on top of them.
func init() {
	Settings.Eval = defaultEvalConfig()
}

// setupEval re-applies any default a partial config file left zeroed out.
func setupEval() {
	if Settings.Eval.PawnCacheSize == 0 {
		Settings.Eval.PawnCacheSize = defaultEvalConfig().PawnCacheSize
	}
	if Settings.Eval.MaterialCacheSize == 0 {
		Settings.Eval.MaterialCacheSize = defaultEvalConfig().MaterialCacheSize
	}
}
