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

// Package testsuite runs chess engine regression tests described as EPD
// (Extended Position Description) lines: a FEN plus an opcode describing
// the expected result. Of EPD's opcodes only "bm" (best move), "am" (avoid
// move) and "dm" (direct mate) are implemented.
// https://www.chessprogramming.org/Extended_Position_Description
package testsuite

import (
	"bufio"
	"fmt"
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
	"github.com/mkrawiec/gochess/internal/util"
)

var out = message.NewPrinter(language.German)
var log *logging.Logger

// opcode identifies which EPD opcode a Test was built from.
type opcode uint8

const (
	opcodeNone opcode = iota
	opcodeDM
	opcodeBM
	opcodeAM
)

// verdict is the outcome of running one Test.
type verdict uint8

const (
	NotTested verdict = iota
	Skipped
	Failed
	Success
)

// SuiteResult tallies verdicts, nodes searched and time spent across every
// Test in a TestSuite run.
type SuiteResult struct {
	Counter          int
	SuccessCounter   int
	FailedCounter    int
	SkippedCounter   int
	NotTestedCounter int
	Nodes            uint64
	Time             time.Duration
}

// Test is one EPD line, parsed, plus whatever result the last run recorded
// into it.
type Test struct {
	id          string
	fen         string
	op          opcode
	targetMoves moveslice.MoveSlice
	mateDepth   int
	actual      Move
	value       Value
	result      verdict
	line        string
	nps         uint64
	nodes       uint64
	searchTime  time.Duration
}

// TestSuite is a parsed EPD file ready to run with RunTests.
type TestSuite struct {
	Tests      []*Test
	Time       time.Duration
	Depth      int
	FilePath   string
	LastResult *SuiteResult
}

// NewTestSuite parses filePath into a TestSuite. searchTime and depth bound
// each individual test's search once RunTests is called.
func NewTestSuite(filePath string, searchTime time.Duration, depth int) (*TestSuite, error) {
	out.Println("preparing test suite", filePath)

	if log == nil {
		log = myLogging.GetLog()
	}

	config.LogLevel = 2
	config.SearchLogLevel = 2
	config.Settings.Search.UseBook = false

	lines, err := readEpdFile(filePath)
	if err != nil {
		return nil, err
	}

	suite := &TestSuite{
		Tests:    make([]*Test, 0, len(lines)),
		Time:     searchTime,
		Depth:    depth,
		FilePath: filePath,
	}
	for _, line := range lines {
		if test := parseEpdLine(line); test != nil {
			suite.Tests = append(suite.Tests, test)
		}
	}
	return suite, nil
}

// RunTests executes every parsed Test sequentially against a fresh search
// and prints a summary report.
func (ts *TestSuite) RunTests() {
	if len(ts.Tests) == 0 {
		out.Printf("no tests to run\n")
		return
	}

	startTime := time.Now()

	s := search.NewSearch()
	sl := search.NewSearchLimits()
	sl.MoveTime = ts.Time
	sl.Depth = ts.Depth
	if sl.MoveTime > 0 {
		sl.TimeControl = true
	}

	ts.printHeader()
	for i, t := range ts.Tests {
		out.Printf("Test %d of %d\nTest: %s -- Target Result %s\n", i+1, len(ts.Tests), t.line, t.targetMoves.StringUci())
		start := time.Now()
		runSingleTest(s, sl, t)
		t.nodes = s.NodesVisited()
		t.searchTime = s.LastSearchResult().SearchTime
		t.nps = util.Nps(t.nodes, t.searchTime)
		out.Printf("Test finished in %d ms with result %s (%s) - nps: %d\n\n",
			time.Since(start).Milliseconds(), t.result.String(), t.actual.StringUci(), t.nps)
	}

	ts.LastResult = ts.tally()
	ts.printReport(time.Since(startTime))
}

// tally sums verdicts across all tests into a SuiteResult.
func (ts *TestSuite) tally() *SuiteResult {
	r := &SuiteResult{}
	for _, t := range ts.Tests {
		r.Counter++
		r.Nodes += t.nodes
		r.Time += t.searchTime
		switch t.result {
		case NotTested:
			r.NotTestedCounter++
		case Skipped:
			r.SkippedCounter++
		case Failed:
			r.FailedCounter++
		case Success:
			r.SuccessCounter++
		}
	}
	return r
}

func (ts *TestSuite) printHeader() {
	out.Printf("Running Test Suite\n")
	out.Printf("==================================================================\n")
	out.Printf("EPD File:    %s\n", ts.FilePath)
	out.Printf("SearchTime:  %d ms\n", ts.Time.Milliseconds())
	out.Printf("MaxDepth:    %d\n", ts.Depth)
	out.Printf("Date:        %s\n", time.Now().Local())
	out.Printf("No of tests: %d\n", len(ts.Tests))
	out.Println()
}

func (ts *TestSuite) printReport(elapsed time.Duration) {
	r := ts.LastResult
	out.Printf("Results for Test Suite %s\n", ts.FilePath)
	out.Printf("------------------------------------------------------------------------------------------------------------------------------------\n")
	out.Printf("EPD File:   %s\n", ts.FilePath)
	out.Printf("SearchTime: %d ms\n", ts.Time.Milliseconds())
	out.Printf("MaxDepth:   %d\n", ts.Depth)
	out.Printf("Date:       %s\n", time.Now().Local())
	out.Printf("====================================================================================================================================\n")
	out.Printf(" %-4s | %-10s | %-8s | %-8s | %-15s | %s | %s\n", " Nr.", "Result", "Move", "Value", "Expected Result", "Fen", "Id")
	out.Printf("====================================================================================================================================\n")
	for i, t := range ts.Tests {
		if t.op == opcodeDM {
			out.Printf(" %-4d | %-10s | %-8s | %-8s | %s%-15d | %s | %s\n",
				i+1, t.result.String(), t.actual.StringUci(), t.value.String(), "dm ", t.mateDepth, t.fen, t.id)
		} else {
			out.Printf(" %-4d | %-10s | %-8s | %-8s | %s %-15s | %s | %s\n",
				i+1, t.result.String(), t.actual.StringUci(), t.value.String(), t.op.String(), t.targetMoves.StringUci(), t.fen, t.id)
		}
	}
	out.Printf("====================================================================================================================================\n")
	out.Printf("Summary:\n")
	out.Printf("EPD File:   %s\n", ts.FilePath)
	out.Printf("SearchTime: %d ms\n", ts.Time.Milliseconds())
	out.Printf("MaxDepth:   %d\n", ts.Depth)
	out.Printf("Date:       %s\n", time.Now().Local())
	out.Printf("Successful: %-3d (%d %%)\n", r.SuccessCounter, 100*r.SuccessCounter/r.Counter)
	out.Printf("Failed:     %-3d (%d %%)\n", r.FailedCounter, 100*r.FailedCounter/r.Counter)
	out.Printf("Skipped:    %-3d (%d %%)\n", r.SkippedCounter, 100*r.SkippedCounter/r.Counter)
	out.Printf("Not tested: %-3d (%d %%)\n", r.NotTestedCounter, 100*r.NotTestedCounter/r.Counter)
	out.Printf("Test time: %s\n", elapsed)
	out.Printf("Configuration: %s\n", config.Settings.String())
}

// runSingleTest resets search state for a clean run, then dispatches to the
// test function matching t's opcode.
func runSingleTest(s *search.Search, sl *search.Limits, t *Test) {
	s.NewGame()
	sl.Mate = 0
	p, _ := position.NewPositionFen(t.fen)
	switch t.op {
	case opcodeDM:
		sl.Mate = t.mateDepth
		s.StartSearch(*p, *sl)
		s.WaitWhileSearching()
		recordDirectMateResult(s, t)
	case opcodeBM:
		s.StartSearch(*p, *sl)
		s.WaitWhileSearching()
		recordResult(s, t, containsMove(t.targetMoves, s.LastSearchResult().BestMove))
	case opcodeAM:
		s.StartSearch(*p, *sl)
		s.WaitWhileSearching()
		recordResult(s, t, !containsMove(t.targetMoves, s.LastSearchResult().BestMove))
	default:
		log.Warningf("unknown test opcode: %d", t.op)
	}
}

func containsMove(candidates moveslice.MoveSlice, m Move) bool {
	for _, c := range candidates {
		if c == m {
			return true
		}
	}
	return false
}

// recordResult stores the search's best move/value on t and marks it
// Success or Failed depending on passed.
func recordResult(s *search.Search, t *Test, passed bool) {
	t.actual = s.LastSearchResult().BestMove
	t.value = s.LastSearchResult().BestValue
	if passed {
		log.Infof("test id = '%s' SUCCESS", t.id)
		t.result = Success
		return
	}
	log.Infof("test id = '%s' FAILED", t.id)
	t.result = Failed
}

func recordDirectMateResult(s *search.Search, t *Test) {
	found := s.LastSearchResult().BestValue.String() == fmt.Sprintf("mate %d", t.mateDepth)
	recordResult(s, t, found)
}

var leadingComment = regexp.MustCompile(`^\s*#.*$`)
var trailingComment = regexp.MustCompile(`^(.*)#([^;]*)$`)
var epdLine = regexp.MustCompile(`^\s*(.*?) (bm|dm|am) (.*?);(.* id "(.*?)";)?.*$`)

// parseEpdLine turns one EPD text line into a Test, or nil if the line is
// blank, a comment, or otherwise not a recognized EPD record.
func parseEpdLine(line string) *Test {
	line = strings.TrimSpace(line)
	line = leadingComment.ReplaceAllString(line, "")
	line = trailingComment.ReplaceAllString(line, "")
	if len(line) == 0 {
		return nil
	}

	if !epdLine.MatchString(line) {
		log.Warningf("no EPD record found in: %s", line)
		return nil
	}
	parts := epdLine.FindStringSubmatch(line)
	fen := parts[1]

	p, err := position.NewPositionFen(fen)
	if err != nil {
		log.Warningf("EPD fen is invalid: %s", fen)
		return nil
	}

	var op opcode
	switch parts[2] {
	case "dm":
		op = opcodeDM
	case "bm":
		op = opcodeBM
	case "am":
		op = opcodeAM
	default:
		log.Warningf("EPD opcode is invalid or not implemented: %s", parts[2])
		return nil
	}

	targetMoves := moveslice.NewMoveSlice(4)
	mateDepth := 0
	switch op {
	case opcodeBM, opcodeAM:
		result := strings.NewReplacer("!", "", "?", "").Replace(parts[3])
		mg := movegen.NewMoveGen()
		for _, token := range strings.Split(result, " ") {
			if m := mg.GetMoveFromSan(p, strings.TrimSpace(token)); m != MoveNone {
				targetMoves.PushBack(m)
			}
		}
		if targetMoves.Len() == 0 {
			log.Warningf("EPD target moves are invalid on this position: %s", parts[3])
			return nil
		}
	case opcodeDM:
		var err error
		mateDepth, err = strconv.Atoi(parts[3])
		if err != nil {
			log.Warningf("EPD direct mate depth is invalid: %s", parts[3])
			return nil
		}
	}

	return &Test{
		id:          parts[5],
		fen:         fen,
		op:          op,
		targetMoves: *targetMoves,
		mateDepth:   mateDepth,
		line:        line,
	}
}

// readEpdFile resolves filePath relative to the working directory if
// needed and returns its lines.
func readEpdFile(filePath string) ([]string, error) {
	if !filepath.IsAbs(filePath) {
		wd, _ := os.Getwd()
		filePath = wd + "/" + filePath
	}
	filePath = filepath.Clean(filePath)

	if _, err := os.Stat(filePath); err != nil {
		log.Errorf("file %q does not exist\n", filePath)
		return nil, err
	}

	log.Infof("reading test suite from file: %s\n", filePath)
	start := time.Now()
	lines, err := readLines(filePath)
	if err != nil {
		return nil, err
	}
	log.Infof("finished reading %d lines in %d ms\n", len(lines), time.Since(start).Milliseconds())
	return lines, nil
}

func readLines(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		log.Errorf("file %q could not be read: %s\n", filePath, err)
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Errorf("file %q could not be closed: %s\n", filePath, cerr)
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Errorf("error reading file %q: %s\n", filePath, err)
		return nil, err
	}
	return lines, nil
}

func (v verdict) String() string {
	switch v {
	case NotTested:
		return "Not tested"
	case Skipped:
		return "Skipped"
	case Failed:
		return "Failed"
	case Success:
		return "Success"
	default:
		return "N/A"
	}
}

func (o opcode) String() string {
	switch o {
	case opcodeBM:
		return "bm"
	case opcodeAM:
		return "am"
	case opcodeDM:
		return "dm"
	default:
		return "N/A"
	}
}
