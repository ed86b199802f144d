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

// Package uci implements the UciHandler, which speaks the UCI protocol
// between a chess GUI and the engine's search and position packages.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	golog "log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mkrawiec/gochess/internal/config"
	myLogging "github.com/mkrawiec/gochess/internal/logging"
	"github.com/mkrawiec/gochess/internal/movegen"
	"github.com/mkrawiec/gochess/internal/moveslice"
	"github.com/mkrawiec/gochess/internal/position"
	"github.com/mkrawiec/gochess/internal/search"
	. "github.com/mkrawiec/gochess/internal/types"
	"github.com/mkrawiec/gochess/internal/uciInterface"
	"github.com/mkrawiec/gochess/internal/util"
	"github.com/mkrawiec/gochess/internal/version"
)

var out = message.NewPrinter(language.German)
var log *logging.Logger

var regexWhiteSpace = regexp.MustCompile(`\s+`)

// UciHandler reads UCI commands from InIo, drives a position/search/perft
// trio in response, and writes UCI responses to OutIo. Build one with
// NewUciHandler.
type UciHandler struct {
	InIo       *bufio.Scanner
	OutIo      *bufio.Writer
	myMoveGen  *movegen.Movegen
	mySearch   *search.Search
	myPosition *position.Position
	myPerft    *movegen.Perft
	uciLog     *logging.Logger
}

// NewUciHandler wires up a position, move generator, search and perft
// runner and connects the search to this handler as its UciDriver.
// Replace InIo/OutIo afterwards to redirect from the default stdin/stdout.
func NewUciHandler() *UciHandler {
	if log == nil {
		log = myLogging.GetLog()
	}
	u := &UciHandler{
		InIo:       bufio.NewScanner(os.Stdin),
		OutIo:      bufio.NewWriter(os.Stdout),
		myMoveGen:  movegen.NewMoveGen(),
		mySearch:   search.NewSearch(),
		myPosition: position.NewPosition(),
		myPerft:    movegen.NewPerft(),
		uciLog:     newUciLogger(),
	}
	var driver uciInterface.UciDriver = u
	u.mySearch.SetUciHandler(driver)
	return u
}

// Loop reads commands from InIo until "quit" is received.
func (u *UciHandler) Loop() {
	for {
		log.Debugf("Waiting for command:")
		for u.InIo.Scan() {
			if u.dispatch(u.InIo.Text()) {
				return
			}
			log.Debugf("Waiting for command:")
		}
	}
}

// Command runs a single UCI command line and returns whatever it wrote to
// OutIo, for debugging and unit testing without a real io stream.
func (u *UciHandler) Command(cmd string) string {
	saved := u.OutIo
	buf := new(bytes.Buffer)
	u.OutIo = bufio.NewWriter(buf)
	u.dispatch(cmd)
	_ = u.OutIo.Flush()
	u.OutIo = saved
	return buf.String()
}

// SendReadyOk responds "readyok" to the UCI ui.
func (u *UciHandler) SendReadyOk() {
	u.send("readyok")
}

// SendInfoString forwards an arbitrary engine message as "info string".
func (u *UciHandler) SendInfoString(info string) {
	u.send(out.Sprintf("info string %s", info))
}

// SendIterationEndInfo reports a completed iterative-deepening depth.
func (u *UciHandler) SendIterationEndInfo(depth int, seldepth int, value Value, nodes uint64, nps uint64, searchTime time.Duration, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d multipv 1 score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, value.String(), nodes, nps, searchTime.Milliseconds(), pv.StringUci()))
}

// SendSearchUpdate reports periodic search progress between iterations.
func (u *UciHandler) SendSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, searchTime time.Duration, hashfull int) {
	u.send(fmt.Sprintf("info depth %d seldepth %d nodes %d nps %d time %d hashfull %d",
		depth, seldepth, nodes, nps, searchTime.Milliseconds(), hashfull))
}

// SendAspirationResearchInfo reports an aspiration-window research at depth.
func (u *UciHandler) SendAspirationResearchInfo(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, searchTime time.Duration, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d %s multipv 1 score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, bound, value.String(), nodes, nps, searchTime.Milliseconds(), pv.StringUci()))
}

// SendCurrentRootMove reports the root move currently being searched.
func (u *UciHandler) SendCurrentRootMove(currMove Move, moveNumber int) {
	u.send(fmt.Sprintf("info currmove %s currmovenumber %d", currMove.StringUci(), moveNumber))
}

// SendCurrentLine reports the principal variation currently being explored.
func (u *UciHandler) SendCurrentLine(moveList moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info currline %s", moveList.StringUci()))
}

// SendResult reports the chosen move (and ponder move, if any) after a
// search finishes or is stopped.
func (u *UciHandler) SendResult(bestMove Move, ponderMove Move) {
	var sb strings.Builder
	sb.WriteString("bestmove ")
	sb.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		sb.WriteString(" ponder ")
		sb.WriteString(ponderMove.StringUci())
	}
	u.send(sb.String())
}

// dispatch parses one command line and routes it to its handler. It
// returns true once "quit" has been processed.
func (u *UciHandler) dispatch(cmd string) bool {
	if len(cmd) == 0 {
		return false
	}
	log.Debugf("Received command: %s", cmd)
	u.uciLog.Infof("<< %s", cmd)

	tokens := regexWhiteSpace.Split(cmd, -1)
	switch strings.TrimSpace(tokens[0]) {
	case "quit":
		return true
	case "uci":
		u.handleUci()
	case "setoption":
		u.handleSetOption(tokens)
	case "isready":
		u.mySearch.IsReady()
	case "ucinewgame":
		u.handleNewGame()
	case "position":
		u.handlePosition(tokens)
	case "go":
		u.handleGo(tokens)
	case "stop":
		u.mySearch.StopSearch()
		u.myPerft.Stop()
	case "ponderhit":
		u.mySearch.PonderHit()
	case "register":
		u.reject("register")
	case "debug":
		u.reject("debug")
	case "perft":
		u.handlePerft(tokens)
	case "noop":
	default:
		log.Warningf("Error: Unknown command: %s", cmd)
	}
	log.Debugf("Processed command: %s", cmd)
	return false
}

// handleUci answers the "uci" handshake with engine identity and options.
func (u *UciHandler) handleUci() {
	u.send("id name Gochess " + version.Version())
	u.send("id author Frank Kopp, Germany")
	for _, o := range *uciOptions.GetOptions() {
		u.send(o)
	}
	u.send("uciok")
}

// handleSetOption parses "setoption name <name> [value <value>]" and, if
// the option is known, applies the new value through its handler.
func (u *UciHandler) handleSetOption(tokens []string) {
	if len(tokens) < 2 || tokens[1] != "name" {
		u.fail("Command 'setoption' is malformed")
		return
	}
	name := ""
	i := 2
	for i < len(tokens) && tokens[i] != "value" {
		name += tokens[i] + " "
		i++
	}
	name = strings.TrimSpace(name)
	value := ""
	if len(tokens) > i && tokens[i] == "value" && len(tokens) > i+1 {
		value = tokens[i+1]
	}
	o, found := uciOptions[name]
	if !found {
		u.fail("Command 'setoption': No such option '%s'", name)
		return
	}
	o.CurrentValue = value
	o.HandlerFunc(u, o)
}

// handlePerft launches a (possibly ranged) perft run in the background so
// "stop" can interrupt it.
func (u *UciHandler) handlePerft(tokens []string) {
	depth := 4
	if len(tokens) > 1 {
		if d, err := strconv.Atoi(tokens[1]); err == nil {
			depth = d
		} else {
			log.Warningf("Can't perft on depth='%s'", tokens[1])
		}
	}
	depth2 := depth
	if len(tokens) > 2 {
		if d, err := strconv.Atoi(tokens[2]); err == nil {
			depth2 = d
		} else {
			log.Warningf("Can't use second perft depth2='%s'", tokens[2])
		}
	}
	go u.myPerft.StartPerftMulti(position.StartFen, depth, depth2, true)
}

// handleGo parses search limits and starts a search against the current
// position.
func (u *UciHandler) handleGo(tokens []string) {
	searchLimits, failed := u.parseSearchLimits(tokens)
	if failed {
		return
	}
	u.mySearch.StartSearch(*u.myPosition, *searchLimits)
}

// handlePosition sets the board from a "startpos" or "fen ..." spec and
// plays through any trailing "moves ...".
func (u *UciHandler) handlePosition(tokens []string) {
	fen := position.StartFen
	i := 1
	switch tokens[i] {
	case "startpos":
		i++
	case "fen":
		i++
		var fenb strings.Builder
		for i < len(tokens) && tokens[i] != "moves" {
			fenb.WriteString(tokens[i])
			fenb.WriteString(" ")
			i++
		}
		fen = strings.TrimSpace(fenb.String())
		if len(fen) == 0 {
			u.fail("Command 'position' malformed. %s", tokens)
			return
		}
	default:
		u.fail("Command 'position' malformed. %s", tokens)
		return
	}
	u.myPosition, _ = position.NewPositionFen(fen)

	if i < len(tokens) {
		if tokens[i] != "moves" {
			u.fail("Command 'position' malformed moves. %s", tokens)
			return
		}
		i++
		for i < len(tokens) && tokens[i] != "moves" {
			move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i])
			if !move.IsValid() {
				u.fail("Command 'position' malformed. Invalid move '%s' (%s)", tokens[i], tokens)
				return
			}
			u.myPosition.DoMove(move)
			i++
		}
	}
	log.Debugf("New position: %s", u.myPosition.StringFen())
}

// handleNewGame resets the board and tells the search to drop any state
// carried over from the previous game (hash tables, history, etc).
func (u *UciHandler) handleNewGame() {
	u.myPosition = position.NewPosition()
	u.mySearch.NewGame()
}

// reject reports that cmd is accepted but intentionally not implemented.
func (u *UciHandler) reject(cmd string) {
	u.fail("Command '%s' not implemented", cmd)
}

// fail formats msg, reports it to the UCI ui via "info string" and logs it
// as a warning.
func (u *UciHandler) fail(format string, args ...interface{}) {
	msg := out.Sprintf(format, args...)
	u.SendInfoString(msg)
	log.Warning(msg)
}

// parseSearchLimits reads the tokens following "go" into a search.Limits,
// reporting a malformed-command error and returning failed=true on any
// parse problem or nonsensical combination of limits.
func (u *UciHandler) parseSearchLimits(tokens []string) (limits *search.Limits, failed bool) {
	searchLimits := search.NewSearchLimits()
	i := 1
	for i < len(tokens) {
		switch tokens[i] {
		case "moves":
			i++
			for i < len(tokens) {
				move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i])
				if !move.IsValid() {
					break
				}
				searchLimits.Moves.PushBack(move)
				i++
			}
		case "infinite":
			i++
			searchLimits.Infinite = true
		case "ponder":
			i++
			searchLimits.Ponder = true
		case "depth":
			i++
			v, err := strconv.Atoi(tokens[i])
			if err != nil {
				u.fail("UCI command go malformed. Depth value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.Depth = v
			i++
		case "nodes":
			i++
			v, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				u.fail("UCI command go malformed. Nodes value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.Nodes = uint64(v)
			i++
		case "mate":
			i++
			v, err := strconv.Atoi(tokens[i])
			if err != nil {
				u.fail("UCI command go malformed. Mate value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.Mate = v
			i++
		case "movetime", "moveTime":
			// UCI wants moveTime but STS test suites use movetime.
			i++
			v, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				u.fail("UCI command go malformed. MoveTime value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.MoveTime = time.Duration(v * 1_000_000)
			searchLimits.TimeControl = true
			i++
		case "wtime":
			i++
			v, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				u.fail("UCI command go malformed. WhiteTime value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.WhiteTime = time.Duration(v * 1_000_000)
			searchLimits.TimeControl = true
			i++
		case "btime":
			i++
			v, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				u.fail("UCI command go malformed. Black value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.BlackTime = time.Duration(v * 1_000_000)
			searchLimits.TimeControl = true
			i++
		case "winc":
			i++
			v, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				u.fail("UCI command go malformed. WhiteInc value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.WhiteInc = time.Duration(v * 1_000_000)
			i++
		case "binc":
			i++
			v, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				u.fail("UCI command go malformed. BlackInc value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.BlackInc = time.Duration(v * 1_000_000)
			i++
		case "movestogo":
			i++
			v, err := strconv.Atoi(tokens[i])
			if err != nil {
				u.fail("UCI command go malformed. Movestogo value not an number: %s", tokens[i])
				return nil, true
			}
			searchLimits.MovesToGo = v
			i++
		default:
			u.fail("UCI command go malformed. Invalid subcommand: %s", tokens[i])
			return nil, true
		}
	}

	if !(searchLimits.Infinite ||
		searchLimits.Ponder ||
		searchLimits.Depth > 0 ||
		searchLimits.Nodes > 0 ||
		searchLimits.Mate > 0 ||
		searchLimits.TimeControl) {
		u.fail("UCI command go malformed. No effective limits set %s", tokens)
		return nil, true
	}

	if searchLimits.TimeControl && searchLimits.MoveTime == 0 {
		switch {
		case u.myPosition.NextPlayer() == White && searchLimits.WhiteTime == 0:
			u.fail("UCI command go invalid. White to move but time for white is zero! %s", tokens)
			return nil, true
		case u.myPosition.NextPlayer() == Black && searchLimits.BlackTime == 0:
			u.fail("UCI command go invalid. Black to move but time for black is zero! %s", tokens)
			return nil, true
		}
	}
	return searchLimits, false
}

// newUciLogger builds a dedicated logger for raw UCI protocol traffic,
// writing "time UCI <message>" lines to stdout and to a log file.
func newUciLogger() *logging.Logger {
	uciLog := logging.MustGetLogger("UCI ")

	uciFormat := logging.MustStringFormatter(`%{time:15:04:05.000} UCI %{message}`)
	stdoutBackend := logging.NewLogBackend(os.Stdout, "", golog.Lmsgprefix)
	stdoutFormatted := logging.NewBackendFormatter(stdoutBackend, uciFormat)
	leveled := logging.AddModuleLevel(stdoutFormatted)
	leveled.SetLevel(logging.DEBUG, "")
	uciLog.SetBackend(leveled)

	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")

	logPath, err := util.ResolveCreateFolder(config.Settings.Log.LogPath)
	if err != nil {
		golog.Println("Log folder could not be found:", err)
		return uciLog
	}
	logFilePath := filepath.Join(logPath, exeName+"_uci.log")

	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		golog.Println("Logfile could not be created:", err)
		return uciLog
	}
	fileBackend := logging.NewLogBackend(logFile, "", golog.Lmsgprefix)
	fileFormatted := logging.NewBackendFormatter(fileBackend, uciFormat)
	fileLeveled := logging.AddModuleLevel(fileFormatted)
	fileLeveled.SetLevel(logging.DEBUG, "")
	uciLog.SetBackend(fileLeveled)
	uciLog.Infof("Log %s started at %s:", logFile.Name(), time.Now().String())
	return uciLog
}

// send writes s to the UCI ui, followed by a newline, and echoes it to
// the UCI protocol log.
func (u *UciHandler) send(s string) {
	u.uciLog.Infof(">> %s", s)
	_, _ = u.OutIo.WriteString(s + "\n")
	_ = u.OutIo.Flush()
}
