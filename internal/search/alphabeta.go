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
	"fmt"
	golog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"

	. "github.com/mkrawiec/gochess/internal/config"
	"github.com/mkrawiec/gochess/internal/movegen"
	"github.com/mkrawiec/gochess/internal/moveslice"
	"github.com/mkrawiec/gochess/internal/position"
	"github.com/mkrawiec/gochess/internal/transpositiontable"
	. "github.com/mkrawiec/gochess/internal/types"
	"github.com/mkrawiec/gochess/internal/util"
)

// trace, when flipped on in a debug build, makes search/qsearch log entry and
// exit of every node with its alpha/beta window - far too verbose to leave on.
var trace = false

// aspirationSearch narrows the root search window around a previous
// iteration's value instead of searching [-inf, +inf] again: most
// iterations land close to where the last one did, so a tight window
// produces more cutoffs. A fail-low or fail-high re-searches with the
// window widened one step (see aspirationSteps), falling back to the
// full window on the last step.
func (s *Search) aspirationSearch(p *position.Position, depth int, previousValue Value) Value {
	if previousValue == ValueNA {
		return s.rootSearch(p, depth, ValueMin, ValueMax)
	}

	for _, window := range aspirationSteps {
		alpha, beta := previousValue-window, previousValue+window
		if window == ValueMax {
			alpha, beta = ValueMin, ValueMax
		}
		value := s.rootSearch(p, depth, alpha, beta)
		if s.stopConditions() {
			return value
		}
		if value > alpha && value < beta {
			return value
		}
		s.statistics.AspirationResearches++
		bound := "lowerbound"
		if value <= alpha {
			bound = "upperbound"
		}
		s.sendAspirationResearchInfo(bound)
	}
	return s.rootSearch(p, depth, ValueMin, ValueMax)
}

// mtdf implements MTD(f): repeated null-window root searches that each
// either confirm or move a single bracket [lowerBound, upperBound] around
// the true minimax value, converging on it without ever searching a wide
// window. firstGuess seeds the first bracket test.
func (s *Search) mtdf(p *position.Position, depth int, firstGuess Value) Value {
	guess := firstGuess
	if guess == ValueNA {
		guess = ValueZero
	}
	lowerBound, upperBound := ValueMin, ValueMax

	for lowerBound < upperBound {
		beta := guess
		if guess == lowerBound {
			beta = guess + 1
		}
		guess = s.rootSearch(p, depth, beta-1, beta)
		if s.stopConditions() {
			return guess
		}
		if guess < beta {
			upperBound = guess
		} else {
			lowerBound = guess
		}
	}
	return guess
}

// rootSearch drives the move loop for ply 0. Root moves get special
// treatment (they carry their own sort value for the next iteration, and
// the first one searched is assumed to be the PV from the previous
// iteration) so folding them into search's ply>0 logic would mean
// threading a "ply == 0" special case through most of it.
func (s *Search) rootSearch(p *position.Position, depth int, alpha Value, beta Value) Value {
	if trace {
		s.slog.Debugf("Ply %-2.d Depth %-2.d start: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("Ply %-2.d Depth %-2.d end: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
	}

	// Every root move gets a full search at depth 1 (the loop below always
	// runs once per move before any stop check), so pv[0][0] always ends
	// up holding a legal move even if the clock runs out mid-iteration.
	bestNodeValue := ValueNA

	for i, rootMove := range *s.rootMoves {
		p.DoMove(rootMove)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(rootMove)
		s.statistics.CurrentRootMoveIndex = i
		s.statistics.CurrentRootMove = rootMove

		var value Value
		if s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			value = s.searchRootMove(p, depth, i == 0, alpha, beta)
		}

		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		if s.stopConditions() && depth > 1 {
			return bestNodeValue
		}

		s.rootMoves.Set(i, rootMove.SetValue(value))

		if value > bestNodeValue {
			bestNodeValue = value
			savePV(rootMove, s.pv[1], s.pv[0])
		}
	}
	return bestNodeValue
}

// searchRootMove runs the PVS window logic for a single root move: full
// window for the assumed-PV first move, a null window probe with a full
// re-search only if that probe actually improved alpha for every other move.
func (s *Search) searchRootMove(p *position.Position, depth int, isFirstMove bool, alpha Value, beta Value) Value {
	if !Settings.Search.UsePVS || isFirstMove {
		return -s.search(p, depth-1, 1, -beta, -alpha, true, true)
	}
	value := -s.search(p, depth-1, 1, -alpha-1, -alpha, false, true)
	if value > alpha && value < beta && !s.stopConditions() {
		s.statistics.RootPvsResearches++
		value = -s.search(p, depth-1, 1, -beta, -alpha, true, true)
	}
	return value
}

// search is the main alpha-beta recursion for ply > 0. It bottoms out into
// quiescence search at depth 0 and is where every major pruning/reduction
// technique (TT cutoffs, null move, IID, futility, LMP, LMR) is applied.
func (s *Search) search(p *position.Position, depth int, ply int, alpha Value, beta Value, isPV bool, doNull bool) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, depth, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, depth, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
	}

	if s.stopConditions() {
		return ValueNA
	}

	if depth == 0 || ply >= MaxDepth {
		return s.qsearch(p, ply, alpha, beta, isPV)
	}

	if Settings.Search.UseMDP {
		if narrowed, cut := s.mateDistancePruning(ply, &alpha, &beta); cut {
			return narrowed
		}
	}

	us := p.NextPlayer()
	bestNodeValue := ValueNA
	bestNodeMove := MoveNone
	hasCheck := p.HasCheck()
	matethreat := false

	ttMove, ttType, cutValue, haveCut := s.probeTT(p, depth, ply, alpha, beta)
	if haveCut {
		return cutValue
	}

	if value, pruned := s.reverseFutilityPrune(p, depth, isPV, hasCheck, doNull, beta); pruned {
		return value
	}

	if Settings.Search.UseNullMove && doNull && !isPV && depth >= Settings.Search.NmpDepth &&
		p.MaterialNonPawn(us) > 0 && !hasCheck {
		if value, cut, threat := s.nullMovePrune(p, depth, ply, beta); cut {
			if s.stopConditions() {
				return ValueNA
			}
			if Settings.Search.UseTT {
				s.storeTT(p, depth, ply, ttMove, value, BETA)
			}
			return value
		} else {
			matethreat = threat
			if s.stopConditions() {
				return ValueNA
			}
		}
	}

	if Settings.Search.UseIID && depth >= Settings.Search.IIDDepth && ttMove == MoveNone &&
		doNull && isPV {
		if updated, stop := s.internalIterativeDeepening(p, depth, ply, alpha, beta, isPV); stop {
			return ValueNA
		} else if updated != MoveNone {
			ttMove = updated
		}
	}

	// reset search - must happen after IID, which itself recurses into search
	myMg := s.mg[ply]
	myMg.ResetOnDemand()
	s.pv[ply].Clear()

	if Settings.Search.UseTTMove {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
			myMg.SetPvMove(ttMove)
		} else {
			s.statistics.NoTTMove++
		}
	}

	var value Value
	movesSearched := 0
	ttType = ALPHA

	for move := myMg.GetNextMove(p, movegen.GenAll, hasCheck); move != MoveNone; move = myMg.GetNextMove(p, movegen.GenAll, hasCheck) {
		from, to := move.From(), move.To()

		if false { // DEBUG
			s.assertMoveSanity(p, move, us, depth, ply, alpha, beta, isPV, doNull, movesSearched, ttMove, bestNodeMove, myMg)
		}

		newDepth := depth - 1
		lmrDepth := newDepth
		extension := 0
		givesCheck := p.GivesCheck(move)

		if Settings.Search.UseExt {
			if Settings.Search.UseCheckExt && givesCheck {
				s.statistics.CheckExtension++
				extension = 1
			}
			if Settings.Search.UseThreatExt && matethreat {
				s.statistics.ThreatExtension++
				extension = 1
			}
			if Settings.Search.UseExtAddDepth {
				newDepth += extension
			}
		}

		isQuietInteresting := !isPV && extension == 0 && move != ttMove &&
			move != (*myMg.KillerMoves())[0] && move != (*myMg.KillerMoves())[1] &&
			move.MoveType() != Promotion && !p.IsCapturingMove(move) &&
			!hasCheck && !givesCheck && !matethreat

		if isQuietInteresting {
			if prune, margin := s.forwardPrune(p, us, to, depth, alpha, movesSearched, &bestNodeValue); prune {
				_ = margin
				continue
			}
			if Settings.Search.UseLmr && depth >= Settings.Search.LmrDepth && movesSearched >= Settings.Search.LmrMovesSearched {
				lmrDepth -= LmrReduction(depth, movesSearched)
				s.statistics.LmrReductions++
			}
			if lmrDepth < 0 {
				lmrDepth = 0
			}
		}

		p.DoMove(move)
		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		if s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			value = s.searchMove(p, depth, newDepth, lmrDepth, ply, alpha, beta, movesSearched)
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				if value >= beta {
					s.recordBetaCut(p, us, from, to, move, depth, movesSearched, myMg)
					ttType = BETA
					break
				}
				alpha = value
				ttType = EXACT
			}
		}

		if Settings.Search.UseHistoryCounter {
			s.history.HistoryCount[us][from][to] -= 1 << depth
			if s.history.HistoryCount[us][from][to] < 0 {
				s.history.HistoryCount[us][from][to] = 0
			}
		}
	}

	if movesSearched == 0 && !s.stopConditions() {
		if p.HasCheck() {
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
		} else {
			s.statistics.Stalemates++
			bestNodeValue = ValueDraw
		}
		ttType = EXACT
	}

	if Settings.Search.UseTT {
		s.storeTT(p, depth, ply, bestNodeMove, bestNodeValue, ttType)
	}
	return bestNodeValue
}

// mateDistancePruning tightens alpha/beta so a shorter mate already found
// elsewhere in the tree is never passed up in favor of a longer one found
// here; reports the cutoff value (== alpha) and true when the window has
// collapsed entirely.
func (s *Search) mateDistancePruning(ply int, alpha *Value, beta *Value) (Value, bool) {
	if *alpha < -ValueCheckMate+Value(ply) {
		*alpha = -ValueCheckMate + Value(ply)
	}
	if *beta > ValueCheckMate-Value(ply) {
		*beta = ValueCheckMate - Value(ply)
	}
	if *alpha >= *beta {
		s.statistics.Mdp++
		return *alpha, true
	}
	return ValueNA, false
}

// probeTT looks up p in the transposition table. When the stored entry was
// searched at least as deep as we're about to and its bound type lets us
// trust the value against the current window, it reports a usable cutoff;
// otherwise it still hands back the stored move for move ordering.
func (s *Search) probeTT(p *position.Position, depth int, ply int, alpha Value, beta Value) (ttMove Move, ttType ValueType, cutValue Value, cut bool) {
	ttType = ALPHA
	if !Settings.Search.UseTT {
		return MoveNone, ttType, ValueNA, false
	}
	entry := s.tt.Probe(p.ZobristKey())
	if entry == nil {
		s.statistics.TTMiss++
		return MoveNone, ttType, ValueNA, false
	}
	s.statistics.TTHit++
	ttMove = entry.Move().MoveOf()
	if int(entry.Depth()) < depth {
		return ttMove, ttType, ValueNA, false
	}
	ttValue := valueFromTT(entry.Move().ValueOf(), ply)
	usable := ttValue.IsValid() && ((entry.Vtype() == EXACT) ||
		(entry.Vtype() == ALPHA && ttValue <= alpha) ||
		(entry.Vtype() == BETA && ttValue >= beta))
	if !usable {
		s.statistics.TTNoCuts++
		return ttMove, ttType, ValueNA, false
	}
	if !Settings.Search.UseTTValue {
		s.statistics.TTNoCuts++
		return ttMove, ttType, ValueNA, false
	}
	s.getPVLine(p, s.pv[ply], depth)
	s.statistics.TTCuts++
	return ttMove, entry.Vtype(), ttValue, true
}

// reverseFutilityPrune (static null move pruning) assumes that a static
// evaluation already far above beta will still be above beta after a real
// move is searched, and cuts off without searching anything.
func (s *Search) reverseFutilityPrune(p *position.Position, depth int, isPV bool, hasCheck bool, doNull bool, beta Value) (Value, bool) {
	if !Settings.Search.UseRFP || !doNull || depth > 3 || isPV || hasCheck {
		return ValueNA, false
	}
	staticEval := s.evaluate(p, 0)
	margin := rfp[depth]
	if staticEval-margin >= beta {
		s.statistics.RfpPrunings++
		return staticEval - margin, true
	}
	return ValueNA, false
}

// nullMovePrune lets the opponent move twice in a row and checks whether
// our position is still winning even then; if so, a real move would only
// be better, so the node cuts off. Returns the fail-high value (capped to
// avoid claiming an unproven mate) and whether a mate threat was detected.
func (s *Search) nullMovePrune(p *position.Position, depth int, ply int, beta Value) (value Value, cut bool, matethreat bool) {
	r := Settings.Search.NmpReduction
	if depth > 8 || (depth > 6 && p.GamePhase() >= 3) {
		r++
	}
	newDepth := depth - r - 1
	if newDepth < 0 {
		newDepth = 0
	}

	p.DoNullMove()
	s.nodesVisited++
	nValue := -s.search(p, newDepth, ply+1, -beta, -beta+1, false, false)
	p.UndoNullMove()

	if s.stopConditions() {
		return ValueNA, false, false
	}

	switch {
	case nValue > ValueCheckMateThreshold:
		s.statistics.NMPMateBeta++
		nValue = ValueCheckMateThreshold
	case nValue < -ValueCheckMateThreshold:
		s.statistics.NMPMateAlpha++
		matethreat = true
	}

	if nValue >= beta {
		s.statistics.NullMoveCuts++
		return nValue, true, matethreat
	}
	return ValueNA, false, matethreat
}

// internalIterativeDeepening searches p to a reduced depth purely to
// discover a good move to try first at the real depth, for positions
// where the TT didn't already supply one.
func (s *Search) internalIterativeDeepening(p *position.Position, depth int, ply int, alpha Value, beta Value, isPV bool) (Move, bool) {
	newDepth := depth - Settings.Search.IIDReduction
	if newDepth < 0 {
		newDepth = 0
	}
	s.search(p, newDepth, ply, alpha, beta, isPV, true)
	s.statistics.IIDsearches++
	if s.stopConditions() {
		return MoveNone, true
	}
	if s.pv[ply].Len() > 0 {
		s.statistics.IIDmoves++
		return (*s.pv[ply])[0].MoveOf(), false
	}
	return MoveNone, false
}

// forwardPrune applies futility pruning and late move pruning to a quiet,
// uninteresting move before it is even made. Reports whether the move
// should be skipped outright, updating bestNodeValue with the futility
// margin so a node where every move gets pruned still has a usable value.
func (s *Search) forwardPrune(p *position.Position, us Color, to Square, depth int, alpha Value, movesSearched int, bestNodeValue *Value) (bool, Value) {
	if Settings.Search.UseFP && depth < 7 {
		materialEval := p.Material(us) - p.Material(us.Flip())
		moveGain := p.GetPiece(to).ValueOf()
		futilityMargin := fp[depth]
		if materialEval+moveGain+futilityMargin <= alpha {
			if materialEval+moveGain > *bestNodeValue {
				*bestNodeValue = materialEval + moveGain
			}
			s.statistics.FpPrunings++
			return true, *bestNodeValue
		}
	}
	if Settings.Search.UseLmp && movesSearched >= LmpMovesSearched(depth) {
		s.statistics.LmpCuts++
		return true, *bestNodeValue
	}
	return false, ValueNA
}

// searchMove applies the PVS window logic to one already-made ply>0 move,
// including an LMR research when a reduced-depth probe unexpectedly raises
// alpha.
func (s *Search) searchMove(p *position.Position, depth int, newDepth int, lmrDepth int, ply int, alpha Value, beta Value, movesSearched int) Value {
	if !Settings.Search.UsePVS || movesSearched == 0 {
		return -s.search(p, newDepth, ply+1, -beta, -alpha, true, true)
	}
	value := -s.search(p, lmrDepth, ply+1, -alpha-1, -alpha, false, true)
	if value > alpha && !s.stopConditions() {
		if lmrDepth < newDepth {
			s.statistics.LmrResearches++
			value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true)
		} else if value < beta {
			s.statistics.PvsResearches++
			value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true)
		}
	}
	return value
}

// recordBetaCut updates killer moves, the history heuristic and counter
// moves after a move causes a beta cutoff.
func (s *Search) recordBetaCut(p *position.Position, us Color, from Square, to Square, move Move, depth int, movesSearched int, myMg *movegen.Movegen) {
	s.statistics.BetaCuts++
	if movesSearched == 1 {
		s.statistics.BetaCuts1st++
	}
	if Settings.Search.UseKiller && !p.IsCapturingMove(move) {
		myMg.StoreKiller(move)
	}
	if Settings.Search.UseHistoryCounter {
		s.history.HistoryCount[us][from][to] += 1 << depth
	}
	if Settings.Search.UseCounterMoves {
		if lastMove := p.LastMove(); lastMove != MoveNone {
			s.history.CounterMoves[lastMove.From()][lastMove.To()] = move
		}
	}
}

// assertMoveSanity panics with diagnostic context if the move generator
// ever hands back something that can't legally be the next move from p.
// Dead code outside a debug build (guarded by the caller's `if false`) but
// kept around because it's the fastest way to triage a movegen bug.
func (s *Search) assertMoveSanity(p *position.Position, move Move, us Color, depth int, ply int, alpha Value, beta Value, isPV bool, doNull bool, movesSearched int, ttMove Move, bestNodeMove Move, myMg *movegen.Movegen) {
	from, to := move.From(), move.To()
	err := false
	msg := ""
	switch {
	case !move.IsValid():
		msg = fmt.Sprintf("Position DoMove: Invalid move %s", move.String())
		err = true
	case p.GetPiece(from) == PieceNone:
		msg = fmt.Sprintf("Position DoMove: No piece on %s for move %s", p.GetPiece(from).String(), move.StringUci())
		err = true
	case p.GetPiece(from).ColorOf() != us:
		msg = fmt.Sprintf("Position DoMove: Piece to move does not belong to next player %s", p.GetPiece(from).String())
		err = true
	case p.GetPiece(to).TypeOf() == King:
		msg = "Position DoMove: King cannot be captured!"
		err = true
	}
	if !err {
		return
	}
	s.log.Criticalf("Search              : Depth %d Ply %d alpha %d beta %d isPv %t doNull %t\n", depth, ply, alpha, beta, isPV, doNull)
	s.log.Criticalf("Position            : %s\n", p.StringFen())
	s.log.Criticalf("Move                : %s\n", move.String())
	s.log.Criticalf("Moves Searched      : %d\n", movesSearched)
	s.log.Criticalf("ttMove              : %s\n", ttMove.String())
	s.log.Criticalf("bestMove            : %s\n", bestNodeMove.String())
	s.log.Criticalf("MoveGen PV          : %s\n", myMg.PvMove())
	s.log.Criticalf("MoveGen K1          : %s\n", myMg.KillerMoves()[0])
	s.log.Criticalf("MoveGen K2          : %s\n", myMg.KillerMoves()[1])
	s.log.Criticalf("MoveGen Moves       : %s\n", myMg.GeneratePseudoLegalMoves(p, movegen.GenAll, false).StringUci())
	s.log.Criticalf(msg)
	panic(msg)
}

// qsearch extends the search past the nominal horizon along "noisy" lines
// (captures, checks, promotions) to avoid misjudging a position that looks
// fine only because a forced capture sequence hasn't been played out yet.
// Once a position is quiet, its static evaluation is trusted as a stand-pat
// lower bound.
func (s *Search) qsearch(p *position.Position, ply int, alpha Value, beta Value, isPV bool) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
	}

	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	if !Settings.Search.UseQuiescence || ply >= MaxDepth {
		return s.evaluate(p, ply)
	}

	if Settings.Search.UseMDP {
		if narrowed, cut := s.mateDistancePruning(ply, &alpha, &beta); cut {
			return narrowed
		}
	}

	bestNodeValue := ValueNA
	ttType := ALPHA
	ttMove := MoveNone
	hasCheck := p.HasCheck()

	if !hasCheck {
		staticEval := s.evaluate(p, ply)
		if Settings.Search.UseQSStandpat && staticEval > alpha {
			if staticEval >= beta {
				s.statistics.StandpatCuts++
				return staticEval
			}
			alpha = staticEval
		}
		bestNodeValue = staticEval
	}

	var ttEntry *transpositiontable.TtEntry
	if Settings.Search.UseQSTT {
		ttEntry = s.tt.Probe(p.ZobristKey())
		if ttEntry != nil {
			s.statistics.TTHit++
			ttMove = ttEntry.Move().MoveOf()
			ttValue := valueFromTT(ttEntry.Move().ValueOf(), ply)
			usable := ttValue.IsValid() && ((ttEntry.Vtype() == EXACT) ||
				(ttEntry.Vtype() == ALPHA && ttValue <= alpha) ||
				(ttEntry.Vtype() == BETA && ttValue >= beta))
			if usable && Settings.Search.UseTTValue {
				s.statistics.TTCuts++
				return ttValue
			}
			s.statistics.TTNoCuts++
		} else {
			s.statistics.TTMiss++
		}
	}

	bestNodeMove := MoveNone
	myMg := s.mg[ply]
	myMg.ResetOnDemand()
	s.pv[ply].Clear()

	if Settings.Search.UseQSTT {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
			myMg.SetPvMove(ttMove)
		} else {
			s.statistics.NoTTMove++
		}
	}

	var value Value
	movesSearched := 0

	mode := movegen.GenNonQuiet
	if hasCheck {
		s.statistics.CheckInQS++
		mode = movegen.GenAll
	}

	for move := myMg.GetNextMove(p, mode, hasCheck); move != MoveNone; move = myMg.GetNextMove(p, mode, hasCheck) {
		if !hasCheck && !s.goodCapture(p, move) {
			continue
		}

		p.DoMove(move)
		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		if hasCheck && s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			value = -s.qsearch(p, ply+1, -beta, -alpha, isPV)
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					if Settings.Search.UseHistoryCounter {
						s.history.HistoryCount[p.NextPlayer()][move.From()][move.To()] += 1 << 1
					}
					if Settings.Search.UseCounterMoves {
						if lastMove := p.LastMove(); lastMove != MoveNone {
							s.history.CounterMoves[lastMove.From()][lastMove.To()] = move
						}
					}
					ttType = BETA
					break
				}
				alpha = value
				ttType = EXACT
			}
		}
	}

	// a zero-legal-move node is only provably mate if we searched every
	// move (i.e. we were in check); with no check we only ever generated
	// noisy moves, so the stand-pat value from above stands.
	if movesSearched == 0 && !s.stopConditions() && p.HasCheck() {
		s.statistics.Checkmates++
		bestNodeValue = -ValueCheckMate + Value(ply)
		ttType = EXACT
	}

	if Settings.Search.UseQSTT {
		s.storeTT(p, 1, ply, bestNodeMove, bestNodeValue, ttType)
	}
	return bestNodeValue
}

// evaluate scores p, going through the TT-backed eval cache when enabled.
func (s *Search) evaluate(p *position.Position, ply int) Value {
	s.statistics.LeafPositionsEvaluated++

	value := ValueNA
	if Settings.Search.UseTT && Settings.Search.UseEvalTT {
		if ttEntry := s.tt.Probe(p.ZobristKey()); ttEntry != nil {
			s.statistics.TTHit++
			s.statistics.EvaluationsFromTT++
			value = valueFromTT(ttEntry.Move().ValueOf(), ply)
		}
	}
	if value == ValueNA {
		s.statistics.Evaluations++
		value = s.eval.Evaluate(p)
	}
	if Settings.Search.UseTT && Settings.Search.UseEvalTT {
		s.storeTT(p, 0, ply, MoveNone, value, EXACT)
	}
	return value
}

// goodCapture filters which noisy moves qsearch bothers to look at: with
// SEE enabled, only captures that don't lose material; otherwise a cheaper
// heuristic (lower captures higher, recaptures, undefended targets).
func (s *Search) goodCapture(p *position.Position, move Move) bool {
	if Settings.Search.UseSEE {
		return see(p, move) > 0
	}
	attackerGain := p.GetPiece(move.From()).ValueOf() + 50 < p.GetPiece(move.To()).ValueOf()
	isRecapture := p.LastMove() != MoveNone && p.LastMove().To() == move.To() && p.LastCapturedPiece() != PieceNone
	targetUndefended := !p.IsAttacked(move.To(), p.NextPlayer().Flip())
	return attackerGain || isRecapture || targetUndefended
}

// savePV makes move the new first move of dest, followed by everything
// currently in src (the child node's already-established PV tail).
func savePV(move Move, src *moveslice.MoveSlice, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move)
	*dest = append(*dest, *src...)
}

func (s *Search) storeTT(p *position.Position, depth int, ply int, move Move, value Value, valueType ValueType) {
	s.tt.Put(p.ZobristKey(), move, int8(depth), valueToTT(value, ply), valueType, ValueNA)
}

// getPVLine reconstructs a PV by repeatedly following TT best-move chains
// from p, playing and then undoing each move so the lookup reflects the
// position actually reached at each step.
func (s *Search) getPVLine(p *position.Position, pv *moveslice.MoveSlice, depth int) {
	pv.Clear()
	played := 0
	for entry := s.tt.GetEntry(p.ZobristKey()); entry != nil && entry.Move() != MoveNone && played < depth; entry = s.tt.GetEntry(p.ZobristKey()) {
		pv.PushBack(entry.Move().MoveOf())
		p.DoMove(entry.Move().MoveOf())
		played++
	}
	for ; played > 0; played-- {
		p.UndoMove()
	}
}

// valueToTT shifts a mate score by ply before storing it, so the TT always
// holds "mate in N from here" rather than "mate in N from the search root".
func valueToTT(value Value, ply int) Value {
	if !value.IsCheckMateValue() {
		return value
	}
	if value > 0 {
		return value + Value(ply)
	}
	return value - Value(ply)
}

// valueFromTT reverses valueToTT's shift when reading a mate score back out.
func valueFromTT(value Value, ply int) Value {
	if !value.IsCheckMateValue() {
		return value
	}
	if value > 0 {
		return value - Value(ply)
	}
	return value + Value(ply)
}

// getSearchTraceLog builds a dedicated logger for search-internal tracing,
// writing both to stdout and to a "<exe>_search.log" file so a long search
// can be inspected after the fact without re-running it.
func getSearchTraceLog() *logging.Logger {
	searchLog := logging.MustGetLogger("search")
	searchLogFormat := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:-7.7s}:  %{message}`)

	stdoutBackend := logging.NewLogBackend(os.Stdout, "", golog.Lmsgprefix)
	stdoutLeveled := logging.AddModuleLevel(logging.NewBackendFormatter(stdoutBackend, searchLogFormat))
	stdoutLeveled.SetLevel(logging.Level(SearchLogLevel), "")
	searchLog.SetBackend(stdoutLeveled)

	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")

	logPath, err := util.ResolveCreateFolder(Settings.Log.LogPath)
	if err != nil {
		golog.Println("Log folder could not be found:", err)
		return searchLog
	}
	logFilePath := filepath.Join(logPath, exeName+"_search.log")

	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		golog.Println("Logfile could not be created:", err)
		return searchLog
	}
	fileBackend := logging.NewLogBackend(logFile, "", golog.Lmsgprefix)
	fileLeveled := logging.AddModuleLevel(logging.NewBackendFormatter(fileBackend, searchLogFormat))
	fileLeveled.SetLevel(logging.DEBUG, "")
	searchLog.SetBackend(fileLeveled)
	searchLog.Infof("Log %s started at %s:", logFile.Name(), time.Now().String())
	return searchLog
}
