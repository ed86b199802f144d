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

// Package search implements iterative-deepening principal variation search
// over a Position, backed by a transposition table, killer/history move
// ordering, and an opening book short-circuit. The engine-facing entry
// points (StartSearch/StopSearch/PonderHit) are safe to call from a UCI
// goroutine while the search itself runs on its own goroutine.
package search

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/op/go-logging"

	"github.com/mkrawiec/gochess/internal/config"
	"github.com/mkrawiec/gochess/internal/evaluator"
	"github.com/mkrawiec/gochess/internal/history"
	myLogging "github.com/mkrawiec/gochess/internal/logging"
	"github.com/mkrawiec/gochess/internal/movegen"
	"github.com/mkrawiec/gochess/internal/moveslice"
	"github.com/mkrawiec/gochess/internal/openingbook"
	"github.com/mkrawiec/gochess/internal/position"
	"github.com/mkrawiec/gochess/internal/transpositiontable"
	. "github.com/mkrawiec/gochess/internal/types"
	"github.com/mkrawiec/gochess/internal/uciInterface"
	"github.com/mkrawiec/gochess/internal/util"
)

var out = message.NewPrinter(language.German)

// Search drives one engine search at a time. The zero value is not usable;
// build one with NewSearch, which wires up the evaluator and history
// tables but defers the transposition table and opening book to the first
// IsReady/initialize call so their size can track configuration.
type Search struct {
	log  *logging.Logger
	slog *logging.Logger

	uciHandlerPtr uciInterface.UciDriver
	initSemaphore *semaphore.Weighted
	isRunning     *semaphore.Weighted

	book *openingbook.Book
	tt   *transpositiontable.TtTable
	eval *evaluator.Evaluator

	history *history.History

	lastSearchResult *Result

	stopFlag          bool
	startTime         time.Time
	hasResult         bool
	currentPosition   *position.Position
	searchLimits      *Limits
	timeLimit         time.Duration
	extraTime         time.Duration
	nodesVisited      uint64
	mg                []*movegen.Movegen
	pv                []*moveslice.MoveSlice
	rootMoves         *moveslice.MoveSlice
	hadBookMove       bool
	lastUciUpdateTime time.Time
	statistics        Statistics
}

// NewSearch builds a Search with its per-ply move generator and PV slices
// left nil; run() allocates those at the start of the first real search
// once MaxDepth-sized buffers are actually needed.
func NewSearch() *Search {
	return &Search{
		log:           myLogging.GetLog(),
		slog:          getSearchTraceLog(),
		initSemaphore: semaphore.NewWeighted(1),
		isRunning:     semaphore.NewWeighted(1),
		eval:          evaluator.NewEvaluator(),
		history:       history.NewHistory(),
	}
}

// NewGame stops any running search and clears state that must not leak
// between games: the transposition table and history heuristics.
func (s *Search) NewGame() {
	s.StopSearch()
	if s.tt != nil {
		s.tt.Clear()
		s.history = history.NewHistory()
	}
}

// StartSearch copies p and sl, launches the search goroutine, and returns
// once that goroutine has finished its (synchronous) setup phase — callers
// don't need to separately wait before e.g. calling StopSearch.
func (s *Search) StartSearch(p position.Position, sl Limits) {
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.currentPosition = &p
	s.searchLimits = &sl
	go s.run(&p, &sl)
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.initSemaphore.Release(1)
}

// StopSearch requests the running search stop as soon as possible and
// blocks until it has (a result is always sent to the UCI handler first).
func (s *Search) StopSearch() {
	s.stopFlag = true
	s.WaitWhileSearching()
}

// PonderHit switches a ponder search to time-controlled mode in place,
// without restarting it. No-op if no ponder search is running.
func (s *Search) PonderHit() {
	if s.IsSearching() && s.searchLimits.Ponder {
		s.log.Debug("Ponderhit during search - activating time control")
		s.startTimer()
		return
	}
	s.log.Warning("Ponderhit received while not pondering")
}

// IsSearching reports whether a search goroutine currently holds the
// isRunning semaphore.
func (s *Search) IsSearching() bool {
	if !s.isRunning.TryAcquire(1) {
		return true
	}
	s.isRunning.Release(1)
	return false
}

// WaitWhileSearching blocks until any in-progress search releases the
// isRunning semaphore.
func (s *Search) WaitWhileSearching() {
	_ = s.isRunning.Acquire(context.TODO(), 1)
	s.isRunning.Release(1)
}

// SetUciHandler registers the UCI driver results and progress updates are
// reported through; with none set, updates go to the standard log instead.
func (s *Search) SetUciHandler(uciHandler uciInterface.UciDriver) {
	s.uciHandlerPtr = uciHandler
}

// GetUciHandlerPtr returns the currently registered UCI driver, or nil.
func (s *Search) GetUciHandlerPtr() uciInterface.UciDriver {
	return s.uciHandlerPtr
}

// IsReady runs (possibly slow) opening-book/TT initialization synchronously
// then reports readiness to the UCI handler, matching the UCI protocol's
// isready/readyok handshake.
func (s *Search) IsReady() {
	s.initialize()
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendReadyOk()
	} else {
		s.log.Debug("uci >> readyok")
	}
}

// ClearHash empties the transposition table. Refused with a warning while
// a search is in progress.
func (s *Search) ClearHash() {
	if s.IsSearching() {
		msg := "Can't clear hash while searching."
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return
	}
	if s.tt != nil {
		s.tt.Clear()
		s.sendInfoStringToUci("Hash cleared")
	}
}

// ResizeCache drops and re-initializes the transposition table so it picks
// up a new size from configuration. Refused with a warning while searching.
func (s *Search) ResizeCache() {
	if s.IsSearching() {
		msg := "Can't resize hash while searching."
		s.uciHandlerPtr.SendInfoString(msg)
		s.log.Warning(msg)
		return
	}
	s.tt = nil
	s.initialize()
	s.log.Debug(util.GcWithStats())
	if s.tt != nil {
		s.uciHandlerPtr.SendInfoString(out.Sprintf("Hash resized: %s", s.tt.String()))
	}
}

// run executes one full search on its own goroutine: setup, iterative
// deepening (or an opening-book short-circuit), then result delivery.
// StartSearch blocks until the setup phase below has completed.
func (s *Search) run(pos *position.Position, sl *Limits) {
	if !s.isRunning.TryAcquire(1) {
		s.log.Error("Search already running")
		return
	}
	defer s.isRunning.Release(1)

	s.startTime = time.Now()
	s.log.Infof("Searching: %s", pos.StringFen())

	s.stopFlag = false
	s.hasResult = false
	s.timeLimit = 0
	s.extraTime = 0
	s.nodesVisited = 0
	s.statistics = Statistics{}
	s.lastUciUpdateTime = s.startTime
	s.initialize()

	s.setupSearchLimits(pos, sl)
	if s.searchLimits.TimeControl && !s.searchLimits.Ponder {
		s.startTimer()
	}

	bookMove := s.probeOpeningBook(pos, sl)

	if s.tt != nil {
		s.log.Infof("Transposition Table: Using TT (%s)", s.tt.String())
		s.tt.AgeEntries()
	} else {
		s.log.Info("Transposition Table: Not using TT")
	}

	s.allocatePlyState()
	s.log.Infof("Search using: PVS=%t ASP=%t MTDf=%t",
		config.Settings.Search.UsePVS,
		config.Settings.Search.UseAspiration,
		config.Settings.Search.UseMTDf)

	// setup phase done - let StartSearch return to its caller
	s.initSemaphore.Release(1)

	var result *Result
	if bookMove == MoveNone {
		result = s.iterativeDeepening(pos)
	} else {
		result = &Result{BestMove: bookMove, BookMove: true}
		s.hadBookMove = true
	}

	// an infinite/ponder search that finished on its own (not via stop or
	// ponderhit) must wait for one of those before a result is reported.
	if (s.searchLimits.Ponder || s.searchLimits.Infinite) && !s.stopFlag {
		s.log.Debug("Search finished before stopped or ponderhit! Waiting for stop/ponderhit to send result")
		for !s.stopFlag && (s.searchLimits.Ponder || s.searchLimits.Infinite) {
			time.Sleep(5 * time.Millisecond)
		}
	}

	result.SearchTime = time.Since(s.startTime)
	result.Pv = *s.pv[0]

	s.log.Info(out.Sprintf("Search finished after %s", result.SearchTime))
	s.log.Info(out.Sprintf("Search depth was %d(%d) with %d nodes visited. NPS = %d nps",
		s.statistics.CurrentSearchDepth, s.statistics.CurrentExtraSearchDepth, s.nodesVisited,
		util.Nps(s.nodesVisited, result.SearchTime)))
	s.log.Debugf("Search stats: %s", s.statistics.String())
	s.log.Infof("Search result: %s", result.String())

	s.lastSearchResult = result
	s.hasResult = true
	s.stopFlag = true
	s.sendResult(result)
}

// probeOpeningBook returns a book move to play immediately, or MoveNone if
// the book is disabled, empty at pos, or this search isn't time-controlled.
func (s *Search) probeOpeningBook(pos *position.Position, sl *Limits) Move {
	if s.book == nil || !config.Settings.Search.UseBook || !sl.TimeControl {
		s.log.Info("Opening Book: Not using book")
		return MoveNone
	}
	entry, found := s.book.GetEntry(pos.ZobristKey())
	if !found || len(entry.Moves) == 0 {
		return MoveNone
	}
	rand.Seed(int64(time.Now().Nanosecond()))
	move := Move(entry.Moves[rand.Intn(len(entry.Moves))].Move)
	s.log.Debug("Opening Book: Choosing book move: ", move.StringUci())
	return move
}

// allocatePlyState (re)builds the per-ply move generator and PV slices a
// fresh search needs, wiring shared history data into each generator when
// history-based move ordering is enabled.
func (s *Search) allocatePlyState() {
	s.mg = make([]*movegen.Movegen, 0, MaxDepth+1)
	s.pv = make([]*moveslice.MoveSlice, 0, MaxDepth+1)
	for i := 0; i <= MaxDepth; i++ {
		gen := movegen.NewMoveGen()
		if config.Settings.Search.UseHistoryCounter || config.Settings.Search.UseCounterMoves {
			gen.SetHistoryData(s.history)
		}
		s.mg = append(s.mg, gen)
		s.pv = append(s.pv, moveslice.NewMoveSlice(MaxDepth+1))
	}
}

// iterativeDeepening runs one-ply, two-ply, ... searches until a stop
// condition fires, returning the best result found so far. A deeper
// iteration always starts by re-searching the previous iteration's best
// root move first, so even a partial deeper iteration can only improve on
// (never regress from) the prior iteration's result.
func (s *Search) iterativeDeepening(pos *position.Position) *Result {
	if s.checkDrawRepAnd50(pos, 2) {
		msg := "Search called on DRAW by Repetition or 50-moves-rule"
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return &Result{BestValue: ValueDraw}
	}

	s.rootMoves = s.mg[0].GenerateLegalMoves(pos, movegen.GenAll)
	if s.rootMoves.Len() == 0 {
		return s.noLegalMoveResult(pos)
	}

	// the move right after leaving book deserves extra thought: the first
	// alternative off-book is often a resignation-delaying bad capture.
	if s.hadBookMove && s.searchLimits.TimeControl && s.searchLimits.MoveTime == 0 {
		s.log.Debugf(out.Sprintf("First non-book move to search. Adding extra time: Before: %d ms After: %s ms",
			s.timeLimit.Milliseconds(), 2*s.timeLimit.Milliseconds()))
		s.addExtraTime(2.0)
		s.hadBookMove = false
	}

	maxDepth := MaxDepth
	if s.searchLimits.Depth > 0 {
		maxDepth = s.searchLimits.Depth
	}

	alpha, beta, bestValue := ValueMin, ValueMax, ValueNA
	for depth := 1; depth <= maxDepth; depth++ {
		s.nodesVisited++
		s.statistics.CurrentIterationDepth = depth
		s.statistics.CurrentSearchDepth = depth
		if s.statistics.CurrentExtraSearchDepth < depth {
			s.statistics.CurrentExtraSearchDepth = depth
		}

		switch {
		case config.Settings.Search.UseAspiration && depth > 3:
			bestValue = s.aspirationSearch(pos, depth, bestValue)
		case config.Settings.Search.UseMTDf && depth > 3:
			bestValue = s.mtdf(pos, depth, bestValue)
		default:
			bestValue = s.rootSearch(pos, depth, alpha, beta)
		}

		// stop only after at least one full iteration, so a best move
		// always exists; a single legal move also ends the search early.
		if s.stopConditions() || s.rootMoves.Len() <= 1 {
			break
		}
		s.rootMoves.Sort()
		s.statistics.CurrentBestRootMove = s.pv[0].At(0)
		s.statistics.CurrentBestRootMoveValue = s.pv[0].At(0).ValueOf()
		s.sendIterationEndInfoToUci()
	}

	return s.buildResult(pos)
}

func (s *Search) noLegalMoveResult(pos *position.Position) *Result {
	if pos.HasCheck() {
		s.statistics.Checkmates++
		msg := "Search called on a mate position"
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return &Result{BestValue: -ValueCheckMate}
	}
	s.statistics.Stalemates++
	msg := "Search called on a stalemate position"
	s.sendInfoStringToUci(msg)
	s.log.Warning(msg)
	return &Result{BestValue: ValueDraw}
}

// buildResult assembles the final Result from pv[0], also probing the TT
// for a ponder move when the PV itself is too short to supply one.
func (s *Search) buildResult(pos *position.Position) *Result {
	result := &Result{
		BestMove:    s.pv[0].At(0).MoveOf(),
		BestValue:   s.pv[0].At(0).ValueOf(),
		PonderMove:  MoveNone,
		SearchDepth: s.statistics.CurrentIterationDepth,
		ExtraDepth:  s.statistics.CurrentExtraSearchDepth,
	}

	if s.pv[0].Len() > 1 {
		result.PonderMove = s.pv[0].At(1).MoveOf()
		return result
	}
	if !config.Settings.Search.UseTT {
		return result
	}
	pos.DoMove(result.BestMove)
	defer pos.UndoMove()
	if entry := s.tt.Probe(pos.ZobristKey()); entry != nil {
		s.statistics.TTHit++
		result.PonderMove = entry.Move
		s.log.Debugf(out.Sprintf("Using ponder move from hash: %s", result.PonderMove.StringUci()))
	}
	return result
}

// initialize lazily sets up the opening book and transposition table; safe
// to call repeatedly, each already-initialized component is left alone.
func (s *Search) initialize() {
	if config.Settings.Search.UseBook {
		if s.book == nil {
			s.setupOpeningBook()
		}
	} else {
		s.log.Info("Opening book is disabled in configuration")
	}

	if config.Settings.Search.UseTT {
		if s.tt == nil {
			sizeInMByte := config.Settings.Search.TTSize
			if sizeInMByte == 0 {
				sizeInMByte = 64
			}
			s.tt = transpositiontable.NewTtTable(sizeInMByte)
		}
	} else {
		s.log.Info("Transposition Table is disabled in configuration")
	}
}

func (s *Search) setupOpeningBook() {
	s.book = openingbook.NewBook()
	bookPath := config.Settings.Search.BookPath
	bookFile := config.Settings.Search.BookFile
	bookFormat, found := openingbook.FormatFromString[config.Settings.Search.BookFormat]
	if !found {
		s.log.Warningf("Book format invalid %s", config.Settings.Search.BookFormat)
		s.book = nil
		return
	}
	if err := s.book.Initialize(bookPath, bookFile, bookFormat, true, false); err != nil {
		s.log.Warningf("Book could not be initialized: %s (%s)", bookPath, err)
		s.book = nil
	}
}

// stopConditions reports (and latches) whether the search must stop now:
// either already flagged, or the node budget from the search limits ran out.
func (s *Search) stopConditions() bool {
	if s.stopFlag {
		return true
	}
	if s.searchLimits.Nodes > 0 && s.nodesVisited >= s.searchLimits.Nodes {
		s.stopFlag = true
	}
	return s.stopFlag
}

// setupSearchLimits logs the active search mode and derives a wall-clock
// time budget from sl when time control is in effect.
func (s *Search) setupSearchLimits(pos *position.Position, sl *Limits) {
	if sl.Infinite {
		s.log.Info("Search mode: Infinite")
	}
	if sl.Ponder {
		s.log.Info("Search mode: Ponder")
	}
	if sl.Mate > 0 {
		s.log.Infof("Search mode: Search for mate in %d", sl.Mate)
	}
	if sl.TimeControl {
		s.timeLimit = s.setupTimeControl(pos, sl)
		s.extraTime = 0
		if sl.MoveTime > 0 {
			s.log.Infof("Search mode: Time controlled: Time per move %s", sl.MoveTime)
		} else {
			s.log.Info(out.Sprintf("Search mode: Time controlled: White = %s (inc %s) Black = %s (inc %s) Moves to go: %d",
				sl.WhiteTime, sl.WhiteInc, sl.BlackTime, sl.BlackInc, sl.MovesToGo))
			s.log.Info(out.Sprintf("Search mode: Time limit     : %s", s.timeLimit))
		}
		if sl.Ponder {
			s.log.Info("Search mode: Ponder - time control postponed until ponderhit received")
		}
	} else {
		s.log.Info("Search mode: No time control")
	}
	if sl.Depth > 0 {
		s.log.Debugf("Search mode: Depth limited  : %d", sl.Depth)
	}
	if sl.Nodes > 0 {
		s.log.Infof(out.Sprintf("Search mode: Nodes limited  : %d", sl.Nodes))
	}
	if sl.Moves.Len() > 0 {
		s.log.Infof(out.Sprintf("Search mode: Moves limited  : %s", sl.Moves.StringUci()))
	}
}

// setupTimeControl converts search limits into a single per-move duration
// budget, either a direct per-move time or an estimate from remaining clock
// time divided across an estimated number of moves left.
func (s *Search) setupTimeControl(pos *position.Position, sl *Limits) time.Duration {
	if sl.MoveTime > 0 {
		duration := sl.MoveTime - 20*time.Millisecond
		if duration < 0 {
			s.log.Warningf("Very short move time: %s. ", sl.MoveTime)
			return sl.MoveTime
		}
		return duration
	}

	movesLeft := int64(sl.MovesToGo)
	if movesLeft == 0 {
		// estimate: 15 moves left late-game, growing to ~40 early-game
		movesLeft = int64(15 + 25*pos.GamePhaseFactor())
	}

	var timeLeft time.Duration
	switch pos.NextPlayer() {
	case White:
		timeLeft = sl.WhiteTime + time.Duration(movesLeft*sl.WhiteInc.Nanoseconds())
	case Black:
		timeLeft = sl.BlackTime + time.Duration(movesLeft*sl.BlackInc.Nanoseconds())
	}
	timeLimit := time.Duration(timeLeft.Nanoseconds() / movesLeft)

	// leave more headroom for our own runtime the shorter the budget is.
	margin := 0.9
	if timeLimit.Milliseconds() < 100 {
		margin = 0.8
	}
	return time.Duration(int64(margin * float64(timeLimit.Nanoseconds())))
}

// addExtraTime adjusts the current time budget by a factor: f=1.1 extends
// it 10%, f=0.9 shrinks it 10%. No-op outside remaining-clock time control.
func (s *Search) addExtraTime(f float64) {
	if s.searchLimits.TimeControl && s.searchLimits.MoveTime == 0 {
		duration := time.Duration(int64((f - 1.0) * float64(s.timeLimit.Nanoseconds())))
		s.extraTime += duration
		s.log.Debugf(out.Sprintf("Time added/reduced by %s to %s ",
			duration, s.timeLimit+s.extraTime))
	}
}

// startTimer runs a relaxed busy-wait goroutine that sets stopFlag once
// timeLimit+extraTime has elapsed; extraTime can change mid-search so a
// fixed-duration timer wouldn't track it.
func (s *Search) startTimer() {
	go func() {
		started := time.Now()
		s.log.Debugf("Timer started with time limit of %s", s.timeLimit)
		for time.Since(started) < s.timeLimit+s.extraTime && !s.stopFlag {
			time.Sleep(5 * time.Millisecond)
		}
		if s.stopFlag {
			s.log.Debugf("Timer stopped early after wall time: %s (time limit %s and extra time %s)",
				time.Since(started), s.timeLimit, s.extraTime)
		} else {
			s.log.Debugf("Timer stops search after wall time: %s (time limit %s and extra time %s)",
				time.Since(started), s.timeLimit, s.extraTime)
			s.stopFlag = true
		}
	}()
}

// checkDrawRepAnd50 reports whether pos is already drawn by the halfmove
// clock or by having repeated at least count times.
func (s *Search) checkDrawRepAnd50(pos *position.Position, count int) bool {
	return pos.CheckRepetitions(count) || pos.HalfMoveClock() >= 100
}

func (s *Search) sendResult(result *Result) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendResult(result.BestMove, result.PonderMove)
	}
}

func (s *Search) sendInfoStringToUci(msg string) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendInfoString(msg)
	}
}

// sendSearchUpdateToUci reports progress at most once per second.
func (s *Search) sendSearchUpdateToUci() {
	if time.Since(s.lastUciUpdateTime) <= time.Second {
		return
	}
	s.lastUciUpdateTime = time.Now()
	hashfull := 0
	if s.tt != nil {
		hashfull = s.tt.Hashfull()
	}
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendSearchUpdate(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			hashfull)
		s.uciHandlerPtr.SendCurrentRootMove(s.statistics.CurrentRootMove, s.statistics.CurrentRootMoveIndex)
		s.uciHandlerPtr.SendCurrentLine(s.statistics.CurrentVariation)
		return
	}
	s.log.Infof(out.Sprintf("depth %d seldepth %d value %s nodes %d nps %d time %d hashful %d",
		s.statistics.CurrentSearchDepth,
		s.statistics.CurrentExtraSearchDepth,
		s.statistics.CurrentBestRootMoveValue.String(),
		s.nodesVisited,
		s.getNps(),
		time.Since(s.startTime).Milliseconds(),
		hashfull))
}

func (s *Search) sendIterationEndInfoToUci() {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendIterationEndInfo(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			*s.pv[0])
		return
	}
	s.log.Infof(out.Sprintf("depth %d seldepth %d value %s nodes %d nps %d time %d pv %s",
		s.statistics.CurrentSearchDepth,
		s.statistics.CurrentExtraSearchDepth,
		s.statistics.CurrentBestRootMoveValue.String(),
		s.nodesVisited,
		s.getNps(),
		time.Since(s.startTime).Milliseconds(),
		s.pv[0].StringUci()))
}

func (s *Search) sendAspirationResearchInfo(bound string) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendAspirationResearchInfo(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue,
			bound,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			*s.pv[0])
		return
	}
	s.log.Infof(out.Sprintf("depth %d seldepth %d value %s %s nodes %d nps %d time %d pv %s",
		s.statistics.CurrentSearchDepth,
		s.statistics.CurrentExtraSearchDepth,
		s.statistics.CurrentBestRootMoveValue.String(),
		bound,
		s.nodesVisited,
		s.getNps(),
		time.Since(s.startTime).Milliseconds(),
		s.pv[0].StringUci()))
}

// getNps computes nodes/sec since startTime, treating implausibly high
// values (an artifact of very short elapsed times) as zero.
func (s *Search) getNps() uint64 {
	nps := util.Nps(s.nodesVisited, time.Since(s.startTime)+100)
	if nps > 15_000_000 {
		return 0
	}
	return nps
}

// LastSearchResult returns a copy of the most recently completed search's result.
func (s *Search) LastSearchResult() Result {
	return *s.lastSearchResult
}

// NodesVisited returns the node count from the most recent search.
func (s *Search) NodesVisited() uint64 {
	return s.nodesVisited
}

// Statistics returns a pointer to the live statistics of the current/last search.
func (s *Search) Statistics() *Statistics {
	return &s.statistics
}
