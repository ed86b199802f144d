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

// logConfiguration is a data structure to hold the logging levels for the
// various loggers the engine uses. Levels follow github.com/op/go-logging's
// scale (0=CRITICAL .. 5=DEBUG).
type logConfiguration struct {
	LogLvl       int
	SearchLogLvl int
	TestLogLvl   int
	LogPath      string
}

// LogLevels maps the level names accepted on the command line to
// go-logging's numeric levels.
var LogLevels = map[string]int{
	"critical": 0,
	"error":    1,
	"warning":  2,
	"notice":   3,
	"info":     4,
	"debug":    5,
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Log.LogLvl = LogLevel
	Settings.Log.SearchLogLvl = SearchLogLevel
	Settings.Log.TestLogLvl = TestLogLevel
}

// setupLogLvl reconciles the package-level LogLevel/SearchLogLevel/TestLogLevel
// vars (settable from the command line before Setup is called) with whatever
// the config file provided. Command line flags take precedence over the file.
func setupLogLvl() {
	if LogLevel != 5 {
		Settings.Log.LogLvl = LogLevel
	}
	if SearchLogLevel != 5 {
		Settings.Log.SearchLogLvl = SearchLogLevel
	}
	if TestLogLevel != 5 {
		Settings.Log.TestLogLvl = TestLogLevel
	}
}
