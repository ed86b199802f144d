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

// Package movegen turns a Position into move lists: all pseudo-legal moves
// at once, legal moves (pseudo-legal filtered through Position.IsLegalMove),
// or one move at a time through a phased on-demand generator tuned so the
// search sees its most promising moves first and can skip the rest on a
// beta cutoff.
package movegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/op/go-logging"

	"github.com/mkrawiec/gochess/internal/attacks"
	"github.com/mkrawiec/gochess/internal/history"
	myLogging "github.com/mkrawiec/gochess/internal/logging"
	"github.com/mkrawiec/gochess/internal/moveslice"
	"github.com/mkrawiec/gochess/internal/position"
	. "github.com/mkrawiec/gochess/internal/types"
)

var log *logging.Logger

// keepSortValue, when false, strips the internal move-ordering score before
// a move leaves the generator so callers never see it.
const keepSortValue = false

// Movegen produces moves for one Position at a time. Construct with
// NewMoveGen; the zero value is not usable since its internal move
// buffers are nil.
type Movegen struct {
	pseudoLegalMoves *moveslice.MoveSlice
	legalMoves       *moveslice.MoveSlice

	onDemandMoves    *moveslice.MoveSlice
	onDemandZobrist  Key
	evasionTargets   Bitboard
	odStage          int8
	takeIndex        int

	killerMoves  [2]Move
	pvMove       Move
	pvMovePushed bool
	historyData  *history.History
}

// GenMode selects which half (or both) of a ply's moves a generation call
// produces: non-quiet (captures and queen/knight promotions) first since
// those are where search cutoffs are found fastest, then quiet moves.
type GenMode int

const (
	GenZero     GenMode = 0b00
	GenNonQuiet GenMode = 0b01
	GenQuiet    GenMode = 0b10
	GenAll      GenMode = 0b11
)

// on-demand generator phases, roughly ordered most-promising-first.
const (
	odNew int8 = iota
	odPv
	odCapturePawns
	odCaptureOfficers
	odCaptureKing
	odGateQuiet
	odQuietPawns
	odCastling
	odQuietOfficers
	odQuietKing
	odDone
)

// NewMoveGen allocates a generator with its move buffers pre-sized to
// MaxMoves; reuse one instance across a search rather than allocating
// per node.
func NewMoveGen() *Movegen {
	if log == nil {
		log = myLogging.GetLog()
	}
	return &Movegen{
		pseudoLegalMoves: moveslice.NewMoveSlice(MaxMoves),
		legalMoves:       moveslice.NewMoveSlice(MaxMoves),
		onDemandMoves:    moveslice.NewMoveSlice(MaxMoves),
		pvMove:           MoveNone,
		odStage:          odNew,
	}
}

// GeneratePseudoLegalMoves fills and returns every pseudo-legal move
// matching mode: legality with respect to leaving one's own king in check
// is not checked here, nor is a castling king's path through check. When
// hasCheck is true, only moves that capture the checking piece or block a
// sliding checker are generated (see evasionTargets) — king moves are
// never filtered this way since they always need full legality checking.
func (mg *Movegen) GeneratePseudoLegalMoves(p *position.Position, mode GenMode, hasCheck bool) *moveslice.MoveSlice {
	mg.pseudoLegalMoves.Clear()

	if hasCheck {
		mg.evasionTargets = mg.computeEvasionTargets(p)
	}

	if mode&GenNonQuiet != 0 {
		mg.generatePawnMoves(p, GenNonQuiet, hasCheck, mg.evasionTargets, mg.pseudoLegalMoves)
		mg.generateOfficerMoves(p, GenNonQuiet, hasCheck, mg.evasionTargets, mg.pseudoLegalMoves)
		mg.generateKingMoves(p, GenNonQuiet, hasCheck, mg.pseudoLegalMoves)
	}
	if mode&GenQuiet != 0 {
		mg.generatePawnMoves(p, GenQuiet, hasCheck, mg.evasionTargets, mg.pseudoLegalMoves)
		if !hasCheck {
			mg.generateCastling(p, mg.pseudoLegalMoves)
		}
		mg.generateOfficerMoves(p, GenQuiet, hasCheck, mg.evasionTargets, mg.pseudoLegalMoves)
		mg.generateKingMoves(p, GenQuiet, hasCheck, mg.pseudoLegalMoves)
	}

	mg.applyMoveOrderingHints(p, mg.pseudoLegalMoves)
	mg.pseudoLegalMoves.Sort()
	if !keepSortValue {
		mg.pseudoLegalMoves.ForEach(func(i int) {
			mg.pseudoLegalMoves.Set(i, mg.pseudoLegalMoves.At(i).MoveOf())
		})
	}
	return mg.pseudoLegalMoves
}

// GenerateLegalMoves generates pseudo-legal moves then filters to the ones
// that don't leave the mover's own king in check. Used for root move lists
// where the extra legality pass is affordable; the search's inner loop
// uses GetNextMove/GeneratePseudoLegalMoves plus Position.WasLegalMove
// post-hoc instead.
func (mg *Movegen) GenerateLegalMoves(p *position.Position, mode GenMode) *moveslice.MoveSlice {
	mg.legalMoves.Clear()
	mg.GeneratePseudoLegalMoves(p, mode, false)
	mg.pseudoLegalMoves.FilterCopy(mg.legalMoves, func(i int) bool {
		return p.IsLegalMove(mg.pseudoLegalMoves.At(i))
	})
	return mg.legalMoves
}

// GetNextMove hands back one move at a time from a phased generation
// cycle, refilling the internal buffer one phase at a time as it empties.
// A PV move set via SetPvMove is returned first and skipped at its normal
// place once the phase that would have produced it runs. Calling this
// again on the same Zobrist key continues the existing cycle; a different
// key (or a fresh position after DoMove/UndoMove) restarts it
// automatically. Call ResetOnDemand to force a restart on the same key.
func (mg *Movegen) GetNextMove(p *position.Position, mode GenMode, hasCheck bool) Move {
	if p.ZobristKey() != mg.onDemandZobrist {
		mg.onDemandMoves.Clear()
		mg.evasionTargets = BbZero
		mg.odStage = odNew
		mg.pvMovePushed = false
		mg.takeIndex = 0
		mg.onDemandZobrist = p.ZobristKey()
	}

	if hasCheck && mg.evasionTargets == BbZero {
		mg.evasionTargets = mg.computeEvasionTargets(p)
	}

	if mg.onDemandMoves.Len() == 0 {
		mg.fillOnDemandMoveList(p, mode, hasCheck)
	}

	if mg.onDemandMoves.Len() == 0 {
		mg.takeIndex = 0
		mg.pvMovePushed = false
		return MoveNone
	}

	// a pushed PV move must be skipped wherever its normal generation
	// phase would otherwise hand it back a second time.
	if mg.odStage != odCapturePawns && mg.pvMovePushed &&
		(*mg.onDemandMoves)[mg.takeIndex].MoveOf() == mg.pvMove.MoveOf() {
		mg.takeIndex++
		mg.pvMovePushed = false
		if mg.takeIndex >= mg.onDemandMoves.Len() {
			mg.takeIndex = 0
			mg.onDemandMoves.Clear()
			mg.fillOnDemandMoveList(p, mode, hasCheck)
			if mg.onDemandMoves.Len() == 0 {
				return MoveNone
			}
		}
	}

	move := (*mg.onDemandMoves)[mg.takeIndex].MoveOf()
	mg.takeIndex++
	if mg.takeIndex >= mg.onDemandMoves.Len() {
		mg.takeIndex = 0
		mg.onDemandMoves.Clear()
	}
	return move
}

// ResetOnDemand discards any in-progress phased generation and clears the
// PV move, forcing the next GetNextMove call to start over from odNew.
func (mg *Movegen) ResetOnDemand() {
	mg.onDemandMoves.Clear()
	mg.evasionTargets = BbZero
	mg.odStage = odNew
	mg.onDemandZobrist = 0
	mg.pvMove = MoveNone
	mg.pvMovePushed = false
	mg.takeIndex = 0
}

// SetPvMove marks move to be returned first by the on-demand generator.
func (mg *Movegen) SetPvMove(move Move) {
	mg.pvMove = move.MoveOf()
}

// StoreKiller records move as a killer for the current ply, bumping it
// ahead of the previous top killer if it wasn't already in first place.
func (mg *Movegen) StoreKiller(move Move) {
	moveOf := move.MoveOf()
	if mg.killerMoves[0] == moveOf {
		return
	}
	mg.killerMoves[1] = mg.killerMoves[0]
	mg.killerMoves[0] = moveOf
}

// SetHistoryData points the generator at the search's shared history
// tables so move ordering can take beta-cutoff history into account.
func (mg *Movegen) SetHistoryData(h *history.History) {
	mg.historyData = h
}

// HasLegalMove reports whether the side to move has at least one legal
// move, short-circuiting on the first one found. Checked roughly in order
// of how often each piece type supplies the answer: king, pawns, officers,
// en passant.
func (mg *Movegen) HasLegalMove(p *position.Position) bool {
	us := p.NextPlayer()
	usBb := p.OccupiedBb(us)

	kingSquare := p.KingSquare(us)
	for targets := GetAttacksBb(King, kingSquare, BbZero) &^ usBb; targets != 0; {
		to := targets.PopLsb()
		if p.IsLegalMove(CreateMove(kingSquare, to, Normal, PtNone)) {
			return true
		}
	}

	pawns := p.PiecesBb(us, Pawn)
	occupied := p.OccupiedAll()
	enemy := p.OccupiedBb(us.Flip())

	single := ShiftBitboard(pawns, us.MoveDirection()) &^ occupied
	double := ShiftBitboard(single&us.PawnDoubleRank(), us.MoveDirection()) &^ occupied
	for targets := double; targets != 0; {
		to := targets.PopLsb()
		from := to.To(us.Flip().MoveDirection()).To(us.Flip().MoveDirection())
		if p.IsLegalMove(CreateMove(from, to, Normal, PtNone)) {
			return true
		}
	}
	for targets := single; targets != 0; {
		to := targets.PopLsb()
		from := to.To(us.Flip().MoveDirection())
		if p.IsLegalMove(CreateMove(from, to, Normal, PtNone)) {
			return true
		}
	}
	for _, dir := range [2]Direction{West, East} {
		for targets := ShiftBitboard(pawns, us.MoveDirection()+dir) & enemy; targets != 0; {
			to := targets.PopLsb()
			from := to.To(us.Flip().MoveDirection() - dir)
			if p.IsLegalMove(CreateMove(from, to, Normal, PtNone)) {
				return true
			}
		}
	}

	for pt := Knight; pt <= Queen; pt++ {
		for pieces := p.PiecesBb(us, pt); pieces != 0; {
			from := pieces.PopLsb()
			for targets := GetAttacksBb(pt, from, occupied) &^ usBb; targets != 0; {
				to := targets.PopLsb()
				if p.IsLegalMove(CreateMove(from, to, Normal, PtNone)) {
					return true
				}
			}
		}
	}

	if epSquare := p.GetEnPassantSquare(); epSquare != SqNone {
		for _, dir := range [2]Direction{West, East} {
			if from := ShiftBitboard(epSquare.Bb(), us.Flip().MoveDirection()+dir) & pawns; from != 0 {
				fromSq := from.PopLsb()
				to := fromSq.To(us.MoveDirection() - dir)
				if p.IsLegalMove(CreateMove(fromSq, to, EnPassant, PtNone)) {
					return true
				}
			}
		}
	}

	return false
}

var regexUciMove = regexp.MustCompile("([a-h][1-8][a-h][1-8])([NBRQnbrq])?")

// GetMoveFromUci matches uciMove against every legal move on p, returning
// MoveNone if nothing matches. Builds a full legal-move list and compares
// strings, so this is a convenience for UCI/book parsing, not a hot path.
func (mg *Movegen) GetMoveFromUci(p *position.Position, uciMove string) Move {
	matches := regexUciMove.FindStringSubmatch(uciMove)
	if matches == nil {
		return MoveNone
	}
	movePart := matches[1]
	promotionPart := ""
	if len(matches) == 3 {
		promotionPart = strings.ToUpper(matches[2])
	}

	mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *mg.legalMoves {
		if m.StringUci() == movePart+promotionPart {
			return m
		}
	}
	return MoveNone
}

var regexSanMove = regexp.MustCompile("([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?")

// GetMoveFromSan matches sanMove against every legal move on p the same
// way GetMoveFromUci does for UCI notation, returning MoveNone on no match
// or an ambiguous match (logged as a warning either way).
func (mg *Movegen) GetMoveFromSan(p *position.Position, sanMove string) Move {
	matches := regexSanMove.FindStringSubmatch(sanMove)
	if matches == nil {
		return MoveNone
	}

	wantPieceType := matches[1]
	wantFile := matches[2]
	wantRank := matches[3]
	wantTarget := matches[4]
	wantPromotion := matches[6]

	found := 0
	candidate := MoveNone

	mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *mg.legalMoves {
		if m.MoveType() == Castling {
			var castlingText string
			switch m.To() {
			case SqG1, SqG8:
				castlingText = "O-O"
			case SqC1, SqC8:
				castlingText = "O-O-O"
			default:
				log.Errorf("castling move with unexpected to-square: %s", m.To().String())
				continue
			}
			if castlingText == wantTarget {
				candidate = m
				found++
			}
			continue
		}

		if m.To().String() != wantTarget {
			continue
		}
		movedType := p.GetPiece(m.From()).TypeOf()
		if (len(wantPieceType) == 0 || movedType.Char() != wantPieceType) &&
			(len(wantPieceType) != 0 || movedType != Pawn) {
			continue
		}
		if len(wantFile) != 0 && m.From().FileOf().String() != wantFile {
			continue
		}
		if len(wantRank) != 0 && m.From().RankOf().String() != wantRank {
			continue
		}
		if (len(wantPromotion) != 0 && m.PromotionType().Char() != wantPromotion) ||
			(len(wantPromotion) == 0 && m.MoveType() == Promotion) {
			continue
		}
		candidate = m
		found++
	}

	switch {
	case found > 1:
		log.Warningf("SAN move %s is ambiguous (%d matches) on %s!", sanMove, found, p.StringFen())
	case found == 0 || !candidate.IsValid():
		log.Warningf("SAN move not valid! SAN move %s not found on position: %s", sanMove, p.StringFen())
	default:
		return candidate
	}
	return MoveNone
}

// IsCheckMate reports whether the side to move on p is in check and has no
// legal move.
func (mg *Movegen) IsCheckMate(p *position.Position) bool {
	return p.HasCheck() && !mg.HasLegalMove(p)
}

// IsStaleMate reports whether the side to move on p is not in check and
// has no legal move.
func (mg *Movegen) IsStaleMate(p *position.Position) bool {
	return !p.HasCheck() && !mg.HasLegalMove(p)
}

// IsGameOver reports whether the game on p has ended: mate or stalemate,
// draw by insufficient material, by the fifty move rule or by threefold
// repetition.
func (mg *Movegen) IsGameOver(p *position.Position) bool {
	return !mg.HasLegalMove(p) ||
		p.HasInsufficientMaterial() ||
		p.IsFiftyMoveRuleDraw() ||
		p.IsThreefoldRepetition()
}

// StringSan renders a legal move on p in standard algebraic notation:
// piece letter with disambiguation where two equal pieces could reach the
// same square, "x" on captures (the capturing pawn's file for pawns),
// "=Q" style promotion suffix, O-O/O-O-O for castling and a trailing
// + or # when the move gives check or mate. Returns the empty string if
// move is not legal on p.
func (mg *Movegen) StringSan(p *position.Position, move Move) string {
	legal := false
	mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *mg.legalMoves {
		if m == move.MoveOf() {
			legal = true
			break
		}
	}
	if !legal {
		return ""
	}

	var san strings.Builder
	from, to := move.From(), move.To()
	movedType := p.GetPiece(from).TypeOf()

	if move.MoveType() == Castling {
		switch to {
		case SqG1, SqG8:
			san.WriteString("O-O")
		default:
			san.WriteString("O-O-O")
		}
	} else {
		isCapture := p.IsCapturingMove(move)
		if movedType == Pawn {
			if isCapture {
				san.WriteString(from.FileOf().String())
			}
		} else {
			san.WriteString(movedType.Char())
			// another piece of the same type reaching the same square
			// forces a file, rank or full square disambiguation
			ambiguous, sameFile, sameRank := false, false, false
			for _, m := range *mg.legalMoves {
				if m.To() != to || m.From() == from || p.GetPiece(m.From()).TypeOf() != movedType {
					continue
				}
				ambiguous = true
				if m.From().FileOf() == from.FileOf() {
					sameFile = true
				}
				if m.From().RankOf() == from.RankOf() {
					sameRank = true
				}
			}
			switch {
			case ambiguous && !sameFile:
				san.WriteString(from.FileOf().String())
			case ambiguous && !sameRank:
				san.WriteString(from.RankOf().String())
			case ambiguous:
				san.WriteString(from.String())
			}
		}
		if isCapture {
			san.WriteString("x")
		}
		san.WriteString(to.String())
		if move.MoveType() == Promotion {
			san.WriteString("=")
			san.WriteString(move.PromotionType().Char())
		}
	}

	p.DoMove(move)
	if p.HasCheck() {
		if mg.HasLegalMove(p) {
			san.WriteString("+")
		} else {
			san.WriteString("#")
		}
	}
	p.UndoMove()

	return san.String()
}

// ValidateMove reports whether move is among p's current legal moves.
func (mg *Movegen) ValidateMove(p *position.Position, move Move) bool {
	if move == MoveNone {
		return false
	}
	for _, m := range *mg.GenerateLegalMoves(p, GenAll) {
		if move.MoveOf() == m {
			return true
		}
	}
	return false
}

// PvMove returns the currently set PV move.
func (mg *Movegen) PvMove() Move {
	return mg.pvMove
}

// KillerMoves returns a pointer to the two-slot killer move table.
func (mg *Movegen) KillerMoves() *[2]Move {
	return &mg.killerMoves
}

func (mg *Movegen) String() string {
	return fmt.Sprintf("MoveGen: { OnDemand Stage: { %d }, PV Move: %s Killer Move 1: %s Killer Move 2: %s }",
		mg.odStage, mg.pvMove.String(), mg.killerMoves[0].String(), mg.killerMoves[1].String())
}

// fillOnDemandMoveList advances through the phase state machine, adding
// each phase's moves to onDemandMoves, until either some moves land in the
// buffer or every phase has run.
func (mg *Movegen) fillOnDemandMoveList(p *position.Position, mode GenMode, hasCheck bool) {
	for mg.onDemandMoves.Len() == 0 && mg.odStage < odDone {
		switch mg.odStage {
		case odNew:
			mg.odStage = odPv
			fallthrough
		case odPv:
			mg.pushPvMoveIfMatchingMode(p, mode)
			if mode&GenNonQuiet != 0 {
				mg.odStage = odCapturePawns
			} else {
				mg.odStage = odGateQuiet
			}
		case odCapturePawns:
			mg.generatePawnMoves(p, GenNonQuiet, hasCheck, mg.evasionTargets, mg.onDemandMoves)
			mg.applyMoveOrderingHints(p, mg.onDemandMoves)
			mg.odStage = odCaptureOfficers
		case odCaptureOfficers:
			mg.generateOfficerMoves(p, GenNonQuiet, hasCheck, mg.evasionTargets, mg.onDemandMoves)
			mg.applyMoveOrderingHints(p, mg.onDemandMoves)
			mg.odStage = odCaptureKing
		case odCaptureKing:
			mg.generateKingMoves(p, GenNonQuiet, hasCheck, mg.onDemandMoves)
			mg.applyMoveOrderingHints(p, mg.onDemandMoves)
			if mode&GenQuiet != 0 {
				mg.odStage = odQuietPawns
			} else {
				mg.odStage = odDone
			}
		case odGateQuiet:
			if mode&GenQuiet != 0 {
				mg.odStage = odQuietPawns
			} else {
				mg.odStage = odDone
			}
		case odQuietPawns:
			mg.generatePawnMoves(p, GenQuiet, hasCheck, mg.evasionTargets, mg.onDemandMoves)
			mg.applyMoveOrderingHints(p, mg.onDemandMoves)
			mg.odStage = odCastling
		case odCastling:
			if !hasCheck {
				mg.generateCastling(p, mg.onDemandMoves)
				mg.applyMoveOrderingHints(p, mg.onDemandMoves)
			}
			mg.odStage = odQuietOfficers
		case odQuietOfficers:
			mg.generateOfficerMoves(p, GenQuiet, hasCheck, mg.evasionTargets, mg.onDemandMoves)
			mg.applyMoveOrderingHints(p, mg.onDemandMoves)
			mg.odStage = odQuietKing
		case odQuietKing:
			mg.generateKingMoves(p, GenQuiet, hasCheck, mg.onDemandMoves)
			mg.applyMoveOrderingHints(p, mg.onDemandMoves)
			mg.odStage = odDone
		case odDone:
		}
		if mg.onDemandMoves.Len() > 0 {
			mg.onDemandMoves.Sort()
		}
	}
}

func (mg *Movegen) pushPvMoveIfMatchingMode(p *position.Position, mode GenMode) {
	if mg.pvMove == MoveNone {
		return
	}
	switch mode {
	case GenAll:
		mg.pvMovePushed = true
		mg.onDemandMoves.PushBack(mg.pvMove)
	case GenNonQuiet:
		if p.IsCapturingMove(mg.pvMove) {
			mg.pvMovePushed = true
			mg.onDemandMoves.PushBack(mg.pvMove)
		}
	case GenQuiet:
		if !p.IsCapturingMove(mg.pvMove) {
			mg.pvMovePushed = true
			mg.onDemandMoves.PushBack(mg.pvMove)
		}
	}
}

// applyMoveOrderingHints bumps a move's sort value when it's the PV move,
// a stored killer, or (absent those) favored by history/counter-move data.
func (mg *Movegen) applyMoveOrderingHints(p *position.Position, moves *moveslice.MoveSlice) {
	us := p.NextPlayer()
	for i := 0; i < len(*moves); i++ {
		move := &(*moves)[i]
		switch {
		case move.MoveOf() == mg.pvMove:
			(*move).SetValue(ValueMax)
		case move.MoveOf() == mg.killerMoves[1]:
			(*move).SetValue(1000)
		case move.MoveOf() == mg.killerMoves[0]:
			(*move).SetValue(1001)
		case mg.historyData != nil:
			count := mg.historyData.HistoryCount[us][move.From()][move.To()]
			bonus := Value(count / 100)
			if mg.historyData.CounterMoves[p.LastMove().From()][p.LastMove().To()] == move.MoveOf() {
				bonus += 500
			}
			if bonus > 0 {
				(*move).SetValue(move.ValueOf() + bonus)
			}
		}
	}
}

// computeEvasionTargets, when the side to move is in check, returns the
// squares a move must land on to be worth generating: the checking
// piece's square, plus (for a single sliding checker) every square between
// it and the king. Two or more checkers means only king moves can help,
// signaled by returning BbZero.
func (mg *Movegen) computeEvasionTargets(p *position.Position) Bitboard {
	us := p.NextPlayer()
	kingSquare := p.KingSquare(us)
	checkers := attacks.AttacksTo(p, kingSquare, us.Flip())

	switch checkers.PopCount() {
	case 0:
		return BbZero
	case 1:
		checkerSquare := checkers.Lsb()
		if p.GetPiece(checkerSquare).TypeOf() > Knight {
			return checkers | Intermediate(checkerSquare, kingSquare)
		}
		return checkers
	default:
		return BbZero
	}
}

func (mg *Movegen) generatePawnMoves(p *position.Position, mode GenMode, hasCheck bool, evasionTargets Bitboard, ml *moveslice.MoveSlice) {
	us := p.NextPlayer()
	pawns := p.PiecesBb(us, Pawn)
	enemy := p.OccupiedBb(us.Flip())
	gamePhase := p.GamePhase()
	piece := MakePiece(us, Pawn)

	if mode&GenNonQuiet != 0 {
		for _, dir := range [2]Direction{West, East} {
			captures := ShiftBitboard(pawns, us.MoveDirection()+dir) & enemy
			if hasCheck {
				captures &= evasionTargets
			}

			promoting := captures & us.PromotionRankBb()
			for promoting != 0 {
				to := promoting.PopLsb()
				from := to.To(us.Flip().MoveDirection() - dir)
				value := p.GetPiece(to).ValueOf() - 2*Pawn.ValueOf()
				ml.PushBack(CreateMoveValue(from, to, Promotion, Queen, value+Queen.ValueOf()+5000))
				ml.PushBack(CreateMoveValue(from, to, Promotion, Knight, value+Knight.ValueOf()+1500))
				ml.PushBack(CreateMoveValue(from, to, Promotion, Rook, value+Rook.ValueOf()-Value(5000)))
				ml.PushBack(CreateMoveValue(from, to, Promotion, Bishop, value+Bishop.ValueOf()-Value(5000)))
			}

			for plain := captures &^ us.PromotionRankBb(); plain != 0; {
				to := plain.PopLsb()
				from := to.To(us.Flip().MoveDirection() - dir)
				value := p.GetPiece(to).ValueOf() - p.GetPiece(from).ValueOf() + PosValue(piece, to, gamePhase)
				ml.PushBack(CreateMoveValue(from, to, Normal, PtNone, value))
			}
		}

		if epSquare := p.GetEnPassantSquare(); epSquare != SqNone {
			for _, dir := range [2]Direction{West, East} {
				if from := ShiftBitboard(epSquare.Bb(), us.Flip().MoveDirection()+dir) & pawns; from != 0 {
					fromSq := from.PopLsb()
					to := fromSq.To(us.MoveDirection() - dir)
					ml.PushBack(CreateMoveValue(fromSq, to, EnPassant, PtNone, PosValue(piece, to, gamePhase)))
				}
			}
		}

		promotingPush := ShiftBitboard(pawns, us.MoveDirection()) &^ p.OccupiedAll() & us.PromotionRankBb()
		if hasCheck {
			promotingPush &= evasionTargets
		}
		for promotingPush != 0 {
			to := promotingPush.PopLsb()
			from := to.To(us.Flip().MoveDirection())
			ml.PushBack(CreateMoveValue(from, to, Promotion, Queen, 2000-Pawn.ValueOf()+Queen.ValueOf()))
			ml.PushBack(CreateMoveValue(from, to, Promotion, Knight, 1500-Pawn.ValueOf()+Knight.ValueOf()))
		}
	}

	if mode&GenQuiet != 0 {
		single := ShiftBitboard(pawns, us.MoveDirection()) &^ p.OccupiedAll()
		double := ShiftBitboard(single&us.PawnDoubleRank(), us.MoveDirection()) &^ p.OccupiedAll()
		if hasCheck {
			single &= evasionTargets
			double &= evasionTargets
		}

		for promoting := single & us.PromotionRankBb(); promoting != 0; {
			to := promoting.PopLsb()
			from := to.To(us.Flip().MoveDirection())
			ml.PushBack(CreateMoveValue(from, to, Promotion, Rook, Rook.ValueOf()-Value(6000)))
			ml.PushBack(CreateMoveValue(from, to, Promotion, Bishop, Bishop.ValueOf()-Value(6000)))
		}
		for double != 0 {
			to := double.PopLsb()
			from := to.To(us.Flip().MoveDirection()).To(us.Flip().MoveDirection())
			value := PosValue(piece, to, gamePhase) - 2000
			ml.PushBack(CreateMoveValue(from, to, Normal, PtNone, value))
		}
		for plain := single &^ us.PromotionRankBb(); plain != 0; {
			to := plain.PopLsb()
			from := to.To(us.Flip().MoveDirection())
			value := PosValue(piece, to, gamePhase) - 2000
			ml.PushBack(CreateMoveValue(from, to, Normal, PtNone, value))
		}
	}
}

func (mg *Movegen) generateCastling(p *position.Position, ml *moveslice.MoveSlice) {
	us := p.NextPlayer()
	occupied := p.OccupiedAll()
	cr := p.CastlingRights()
	if cr == CastlingNone {
		return
	}

	if us == White {
		if cr.Has(CastlingWhiteOO) && Intermediate(SqE1, SqH1)&occupied == 0 {
			ml.PushBack(CreateMoveValue(SqE1, SqG1, Castling, PtNone, Value(0)))
		}
		if cr.Has(CastlingWhiteOOO) && Intermediate(SqE1, SqA1)&occupied == 0 {
			ml.PushBack(CreateMoveValue(SqE1, SqC1, Castling, PtNone, Value(0)))
		}
		return
	}
	if cr.Has(CastlingBlackOO) && Intermediate(SqE8, SqH8)&occupied == 0 {
		ml.PushBack(CreateMoveValue(SqE8, SqG8, Castling, PtNone, Value(0)))
	}
	if cr.Has(CastlingBlackOOO) && Intermediate(SqE8, SqA8)&occupied == 0 {
		ml.PushBack(CreateMoveValue(SqE8, SqC8, Castling, PtNone, Value(0)))
	}
}

func (mg *Movegen) generateKingMoves(p *position.Position, mode GenMode, hasCheck bool, ml *moveslice.MoveSlice) {
	us := p.NextPlayer()
	them := us.Flip()
	piece := MakePiece(us, King)
	gamePhase := p.GamePhase()
	kingBb := p.PiecesBb(us, King)
	from := kingBb.PopLsb()
	pseudoMoves := GetAttacksBb(King, from, BbZero)

	// a king move is never filtered by evasionTargets like other pieces
	// are: escaping check can mean stepping to any square the checker(s)
	// don't also attack, not just the squares "between" attacker and king.
	safe := func(to Square) bool {
		return !hasCheck || attacks.AttacksTo(p, to, them).PopCount() == 0
	}

	if mode&GenNonQuiet != 0 {
		for captures := pseudoMoves & p.OccupiedBb(them); captures != 0; {
			to := captures.PopLsb()
			if safe(to) {
				value := 2000 + p.GetPiece(to).ValueOf() - p.GetPiece(from).ValueOf() + PosValue(piece, to, gamePhase)
				ml.PushBack(CreateMoveValue(from, to, Normal, PtNone, value))
			}
		}
	}
	if mode&GenQuiet != 0 {
		for quiet := pseudoMoves &^ p.OccupiedAll(); quiet != 0; {
			to := quiet.PopLsb()
			if safe(to) {
				value := PosValue(piece, to, gamePhase) - 2000
				ml.PushBack(CreateMoveValue(from, to, Normal, PtNone, value))
			}
		}
	}
}

// generateOfficerMoves generates knight/bishop/rook/queen moves using the
// magic-bitboard attack tables, the roughly 30% faster alternative to
// walking GetPseudoAttacks and checking Intermediate() per slider move
// that this engine settled on.
func (mg *Movegen) generateOfficerMoves(p *position.Position, mode GenMode, hasCheck bool, evasionTargets Bitboard, ml *moveslice.MoveSlice) {
	us := p.NextPlayer()
	gamePhase := p.GamePhase()
	occupied := p.OccupiedAll()

	for pt := Knight; pt <= Queen; pt++ {
		piece := MakePiece(us, pt)
		for pieces := p.PiecesBb(us, pt); pieces != 0; {
			from := pieces.PopLsb()
			reach := GetAttacksBb(pt, from, occupied)

			if mode&GenNonQuiet != 0 {
				captures := reach & p.OccupiedBb(us.Flip())
				if hasCheck {
					captures &= evasionTargets
				}
				for captures != 0 {
					to := captures.PopLsb()
					value := 2000 + p.GetPiece(to).ValueOf() - p.GetPiece(from).ValueOf() + PosValue(piece, to, gamePhase)
					ml.PushBack(CreateMoveValue(from, to, Normal, PtNone, value))
				}
			}
			if mode&GenQuiet != 0 {
				quiet := reach &^ occupied
				if hasCheck {
					quiet &= evasionTargets
				}
				for quiet != 0 {
					to := quiet.PopLsb()
					value := PosValue(piece, to, gamePhase) - 2000
					ml.PushBack(CreateMoveValue(from, to, Normal, PtNone, value))
				}
			}
		}
	}
}
