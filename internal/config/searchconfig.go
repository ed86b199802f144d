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

package config

// searchConfiguration is a data structure to hold the configuration of an
// instance of a search.
type searchConfiguration struct {
	// Opening book
	UseBook    bool
	BookPath   string
	BookFile   string
	BookFormat string

	// Ponder
	UsePonder bool

	// Quiescence search
	UseQuiescence bool
	UseQSStandpat bool
	UseSEE        bool

	// Move ordering
	UsePVS            bool
	UseKiller         bool
	UseHistoryCounter bool
	UseCounterMoves   bool
	UseIID            bool
	IIDDepth          int
	IIDReduction      int

	// Root search strategy
	UseAspiration bool
	UseMTDf       bool

	// Transposition Table
	UseTT      bool
	TTSize     int
	UseTTMove  bool
	UseTTValue bool
	UseQSTT    bool
	UseEvalTT  bool

	// Prunings pre move gen
	UseMDP       bool
	UseRFP       bool
	UseNullMove  bool
	NmpDepth     int
	NmpReduction int

	// extensions of search depth
	UseExt         bool
	UseCheckExt    bool
	UseThreatExt   bool
	UseExtAddDepth bool

	// prunings after move generation but before making move
	UseFP            bool
	UseLmp           bool
	UseLmr           bool
	LmrDepth         int
	LmrMovesSearched int
}

// defaultSearchConfig returns the built-in defaults applied before a config
// file (which may override any subset of them) is decoded on top.
func defaultSearchConfig() searchConfiguration {
	return searchConfiguration{
		UseBook:    true,
		BookPath:   "./assets/books",
		BookFile:   "book.txt",
		BookFormat: "Simple",

		UsePonder: true,

		UseQuiescence: true,
		UseQSStandpat: true,
		UseSEE:        true,

		UsePVS:            true,
		UseKiller:         true,
		UseHistoryCounter: true,
		UseCounterMoves:   true,
		UseIID:            true,
		IIDDepth:          6,
		IIDReduction:      2,

		UseAspiration: true,
		UseMTDf:       false,

		UseTT:      true,
		TTSize:     128,
		UseTTMove:  true,
		UseTTValue: true,
		UseQSTT:    true,
		UseEvalTT:  false,

		UseMDP:       true,
		UseRFP:       false,
		UseNullMove:  true,
		NmpDepth:     3,
		NmpReduction: 2,

		UseExt:         true,
		UseCheckExt:    true,
		UseThreatExt:   false,
		UseExtAddDepth: true,

		UseFP:            false,
		UseLmp:           true,
		UseLmr:           true,
		LmrDepth:         3,
		LmrMovesSearched: 3,
	}
}

// init seeds Settings.Search with defaults before Setup decodes the config
// file on top of them.
func init() {
	Settings.Search = defaultSearchConfig()
}

// setupSearch re-applies any default that a partial config file left at its
// Go zero value. Only fields that would otherwise read as "off"/zero and are
// meant to default on need handling here.
func setupSearch() {
	if Settings.Search.TTSize == 0 {
		Settings.Search.TTSize = defaultSearchConfig().TTSize
	}
}
