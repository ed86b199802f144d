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

// Package evaluator scores chess positions using material, piece-square,
// pawn-structure, mobility and king-safety heuristics, blended by game
// phase into a single centipawn Value from the side to move's view.
package evaluator

import (
	"strings"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mkrawiec/gochess/internal/attacks"
	"github.com/mkrawiec/gochess/internal/config"
	myLogging "github.com/mkrawiec/gochess/internal/logging"
	"github.com/mkrawiec/gochess/internal/position"
	. "github.com/mkrawiec/gochess/internal/types"
)

var out = message.NewPrinter(language.German)

// Evaluator holds the scratch state reused across Evaluate calls: the
// position being scored, its game phase, and a reusable attacks table and
// pawn cache. Create with NewEvaluator.
type Evaluator struct {
	log *logging.Logger

	position        *position.Position
	gamePhaseFactor float64
	us              Color
	them            Color
	ourKing         Square
	theirKing       Square
	kingRing        [ColorLength]Bitboard
	allPieces       Bitboard
	ourPieces       Bitboard

	score Score

	attack *attacks.Attacks

	pawnCache     *pawnCache
	materialCache *materialCache

	// last king safety result per side, valid while the king square and the
	// side's castling rights are unchanged
	kingSafety       [ColorLength]Score
	kingSafetyKingSq [ColorLength]Square
	kingSafetyRights [ColorLength]CastlingRights
}

// tmpScore is reused across sub-evaluations to avoid an allocation per call.
var tmpScore = Score{}

// lazyEvalThreshold scales LazyEvalThreshold by game phase: early positions
// get double the threshold, since a coarse lazy cutoff there is cheaper to
// get wrong than in an endgame where every heuristic matters more.
var lazyEvalThreshold [GamePhaseMax + 1]int16

func init() {
	for phase := 0; phase <= GamePhaseMax; phase++ {
		factor := float64(phase) / GamePhaseMax
		lazyEvalThreshold[phase] = config.Settings.Eval.LazyEvalThreshold +
			int16(float64(config.Settings.Eval.LazyEvalThreshold)*factor)
	}
}

// NewEvaluator creates an Evaluator, allocating a pawn cache only if one is
// enabled in configuration.
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		log:    myLogging.GetLog(),
		attack: attacks.NewAttacks(),
	}
	if config.Settings.Eval.UsePawnCache {
		e.pawnCache = newPawnCache()
	} else {
		e.log.Info("pawn cache disabled in configuration")
	}
	if config.Settings.Eval.UseMaterialCache {
		e.materialCache = newMaterialCache()
	} else {
		e.log.Info("material cache disabled in configuration")
	}
	e.kingSafetyKingSq[White] = SqNone
	e.kingSafetyKingSq[Black] = SqNone
	return e
}

// InitEval refreshes the per-position scratch fields ahead of evaluate().
// Evaluate calls this itself; it's exposed separately so tests can run one
// sub-evaluation in isolation without scoring the whole position.
func (e *Evaluator) InitEval(p *position.Position) {
	e.position = p
	e.gamePhaseFactor = p.GamePhaseFactor()
	e.us = p.NextPlayer()
	e.them = e.us.Flip()
	e.ourKing = p.KingSquare(e.us)
	e.theirKing = p.KingSquare(e.them)
	e.kingRing[e.us] = GetAttacksBb(King, e.ourKing, BbZero)
	e.kingRing[e.them] = GetAttacksBb(King, e.theirKing, BbZero)
	e.allPieces = p.OccupiedAll()
	e.ourPieces = p.OccupiedBb(e.us)

	e.score.MidGameValue = 0
	e.score.EndGameValue = 0

	if config.Settings.Eval.UseAttacksInEval {
		e.attack.Clear()
	}
}

// Evaluate scores p from the view of its side to move, in centipawns.
func (e *Evaluator) Evaluate(p *position.Position) Value {
	e.InitEval(p)
	return e.evaluate()
}

// blendedValue folds mid-game and end-game scores together weighted by how
// far the game has progressed.
func (e *Evaluator) blendedValue() Value {
	return e.score.ValueFromScore(e.gamePhaseFactor)
}

// evaluate assumes InitEval has already been called and accumulates every
// enabled heuristic into e.score from White's perspective, then orients the
// result to the side to move in finalEval.
func (e *Evaluator) evaluate() Value {
	if e.position.HasInsufficientMaterial() {
		return ValueDraw
	}

	if config.Settings.Eval.UseMaterialEval || config.Settings.Eval.UseImbalanceEval {
		e.score.Add(*e.evaluateMaterial())
	}

	if config.Settings.Eval.UsePositionalEval {
		e.score.MidGameValue += int16(e.position.PsqMidValue(White) - e.position.PsqMidValue(Black))
		e.score.EndGameValue += int16(e.position.PsqEndValue(White) - e.position.PsqEndValue(Black))
	}

	if config.Settings.Eval.UseLazyEval {
		if roughValue := e.blendedValue(); roughValue > Value(lazyEvalThreshold[e.position.GamePhase()]) {
			return e.finalEval(roughValue)
		}
	}

	if config.Settings.Eval.UsePawnEval {
		e.score.Add(*e.evaluatePawns())
	}

	if config.Settings.Eval.UseMobility {
		e.score.Add(*e.evaluateMobility())
	}

	if config.Settings.Eval.UseAttacksInEval {
		e.attack.Compute(e.position)
	}

	if config.Settings.Eval.UseAdvancedPieceEval {
		e.score.Add(*e.evalPieceType(White, Knight))
		e.score.Sub(*e.evalPieceType(Black, Knight))
		e.score.Add(*e.evalPieceType(White, Bishop))
		e.score.Sub(*e.evalPieceType(Black, Bishop))
		e.score.Add(*e.evalPieceType(White, Rook))
		e.score.Sub(*e.evalPieceType(Black, Rook))
	}

	if config.Settings.Eval.UseKingEval {
		e.score.Add(*e.evalKingSafety(White))
		e.score.Sub(*e.evalKingSafety(Black))
	}

	return e.finalEval(e.blendedValue())
}

// finalEval orients a White-relative value to the side to move and adds the
// tempo bonus. Rewarding the side to move slightly damps the value swing
// between adjacent plies and makes aspiration windows converge faster.
func (e *Evaluator) finalEval(value Value) Value {
	return value*Value(e.position.NextPlayer().Direction()) + Value(config.Settings.Eval.Tempo)
}

// evalPieceType scores every piece of pieceType and color c other than
// pawns and kings, which have their own dedicated evaluation paths.
func (e *Evaluator) evalPieceType(c Color, pieceType PieceType) *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	pieces := e.position.PiecesBb(c, pieceType)
	if pieces == BbZero {
		return &tmpScore
	}

	them := c.Flip()
	switch pieceType {
	case Knight:
		for pieces != BbZero {
			e.evalKnight(c, them, pieces.PopLsb())
		}
	case Bishop:
		if pieces.PopCount() > 1 {
			tmpScore.MidGameValue += config.Settings.Eval.BishopPairBonus
			tmpScore.EndGameValue += config.Settings.Eval.BishopPairBonus
		}
		for pieces != BbZero {
			e.evalBishop(c, them, pieces.PopLsb())
		}
	case Rook:
		for pieces != BbZero {
			e.evalRook(c, pieces.PopLsb())
		}
	}

	return &tmpScore
}

func (e *Evaluator) evalKnight(us, them Color, sq Square) {
	behind := them.MoveDirection()
	if ShiftBitboard(e.position.PiecesBb(us, Pawn), behind)&sq.Bb() != BbZero {
		tmpScore.MidGameValue += config.Settings.Eval.MinorBehindPawnBonus
	}
}

func (e *Evaluator) evalBishop(us, them Color, sq Square) {
	behind := them.MoveDirection()
	if ShiftBitboard(e.position.PiecesBb(us, Pawn), behind)&sq.Bb() != BbZero {
		tmpScore.MidGameValue += config.Settings.Eval.MinorBehindPawnBonus
	}

	// own pawns on the bishop's square color crowd its diagonals, more so
	// as the game goes on and pawns can't be traded off as easily.
	squareColor := Black
	if SquaresBb(White).Has(sq) {
		squareColor = White
	}
	sameColorPawns := int16((e.position.PiecesBb(us, Pawn) & SquaresBb(squareColor)).PopCount())
	tmpScore.EndGameValue -= config.Settings.Eval.BishopPawnMalus * sameColorPawns

	centerAim := int16((GetAttacksBb(Bishop, sq, BbZero) & CenterSquares).PopCount())
	tmpScore.MidGameValue += config.Settings.Eval.BishopCenterAimBonus * centerAim

	onHomeRank := (us == White && sq.RankOf() == Rank1) || (us == Black && sq.RankOf() == Rank8)
	if onHomeRank && GetAttacksBb(Bishop, sq, e.allPieces)&^e.position.OccupiedBb(us) == BbZero {
		tmpScore.MidGameValue -= config.Settings.Eval.BishopBlockedMalus
		tmpScore.EndGameValue -= config.Settings.Eval.BishopBlockedMalus
	}
}

func (e *Evaluator) evalRook(us Color, sq Square) {
	if sq.FileOf().Bb()&e.position.PiecesBb(us, Queen) != BbZero {
		tmpScore.MidGameValue += config.Settings.Eval.RookOnQueenFileBonus
		tmpScore.EndGameValue += config.Settings.Eval.RookOnQueenFileBonus
	}

	if sq.FileOf().Bb()&e.position.PiecesBb(us, Pawn) == BbZero {
		tmpScore.MidGameValue += config.Settings.Eval.RookOnOpenFileBonus
	}

	// a rook boxed in on the same rank as its own king, on the far side
	// from the castled squares, can't help defend or attack.
	kingSquare := e.position.KingSquare(us)
	switch {
	case KingSideCastleMask(us).Has(kingSquare) && sq.RankOf() == kingSquare.RankOf() && sq > kingSquare:
		tmpScore.MidGameValue -= config.Settings.Eval.RookTrappedMalus
	case QueenSideCastMask(us).Has(kingSquare) && sq.RankOf() == kingSquare.RankOf() && sq < kingSquare:
		tmpScore.MidGameValue -= config.Settings.Eval.RookTrappedMalus
	}
}

// evalKingSafety combines the cached shelter/storm and pawn distance score
// with, when attack data is available, the balance of attackers vs.
// defenders around the king ring.
func (e *Evaluator) evalKingSafety(us Color) *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0
	them := us.Flip()

	tmpScore.Add(e.kingSafetyScore(us))

	if config.Settings.Eval.UseAttacksInEval {
		attackers := (e.kingRing[us] & e.attack.All[them]).PopCount()
		defenders := (e.kingRing[us] & e.attack.All[us]).PopCount()
		if attackers > defenders {
			tmpScore.MidGameValue -= int16(attackers-defenders) * config.Settings.Eval.KingDangerMalus
		} else {
			tmpScore.MidGameValue += int16(defenders-attackers) * config.Settings.Eval.KingDefenderBonus
		}

		if e.attack.All[us]&e.kingRing[them] != BbZero {
			tmpScore.MidGameValue += config.Settings.Eval.KingRingAttacksBonus
			tmpScore.EndGameValue += config.Settings.Eval.KingRingAttacksBonus
		}
	}
	return &tmpScore
}

// Report renders a human-readable breakdown of the last evaluation of the
// current position, for debugging from a REPL or test.
func (e *Evaluator) Report() string {
	var report strings.Builder

	report.WriteString("Evaluation Report\n")
	report.WriteString("=============================================\n")
	report.WriteString(out.Sprintf("Position: %s\n", e.position.StringFen()))
	report.WriteString(out.Sprintf("%s\n", e.position.StringBoard()))
	report.WriteString(out.Sprintf("Game phase factor: %f\n", e.position.GamePhaseFactor()))
	value := e.Evaluate(e.position)
	report.WriteString("(values from the view of White)\n")
	report.WriteString(out.Sprintf("Eval value: %d (from the view of %s to move)\n", value, e.position.NextPlayer().String()))

	return report.String()
}
