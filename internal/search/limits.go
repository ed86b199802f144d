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

package search

import (
	"time"

	"github.com/mkrawiec/gochess/internal/moveslice"
	. "github.com/mkrawiec/gochess/internal/types"
)

// Limits bundles everything a "go" command can constrain a search by -
// depth, node count, mate distance, a restricted root move list, or a
// clock. Search reads these to decide when and how deep to stop.
type Limits struct {
	// no time control
	Infinite bool
	Ponder   bool
	Mate     int

	// extra limits
	Depth int
	Nodes uint64
	Moves moveslice.MoveSlice

	// time control
	TimeControl bool
	WhiteTime   time.Duration
	BlackTime   time.Duration
	WhiteInc    time.Duration
	BlackInc    time.Duration
	MoveTime    time.Duration

	// parameter
	MovesToGo int
}

// NewSearchLimits returns a zeroed Limits ready to be filled in by a UCI
// "go" command parser.
func NewSearchLimits() *Limits {
	return &Limits{}
}

// Unbounded reports whether none of the stop conditions are armed - the
// zero value of Limits, before a "go" command populates it.
func (l *Limits) Unbounded() bool {
	return !(l.Infinite || l.Ponder || l.Depth > 0 || l.Nodes > 0 || l.Mate > 0 || l.TimeControl)
}

// TimeForColor returns the remaining clock time for c under this
// Limits' time control, ignoring any fixed MoveTime override.
func (l *Limits) TimeForColor(c Color) time.Duration {
	if c == White {
		return l.WhiteTime
	}
	return l.BlackTime
}
