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

// Package config holds the engine's global configuration: search tuning,
// evaluation weights and logging, loaded from a TOML file with built-in
// defaults for anything the file doesn't set.
package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mkrawiec/gochess/internal/util"
)

// Global knobs that can be overridden from the command line before Setup
// reads the config file, so cmd-line flags win over file contents.
var (
	// ConfFile is the path (relative to the working directory) of the TOML
	// config file Setup reads.
	ConfFile = "./config.toml"

	// LogLevel is the general engine log level.
	LogLevel = 5

	// SearchLogLevel is the dedicated search-trace log level.
	SearchLogLevel = 5

	// TestLogLevel is the log level used while running test suites.
	TestLogLevel = 5

	// Settings holds the fully resolved configuration after Setup runs.
	Settings conf

	initialized = false
)

// conf groups every configuration sub-section the engine has.
type conf struct {
	Log    logConfiguration
	Search searchConfiguration
	Eval   evalConfiguration
}

// Setup decodes ConfFile into Settings (falling back to built-in defaults
// when the file is missing or incomplete) and resolves the log/search/eval
// sub-sections. Calling it more than once is a no-op.
func Setup() {
	if initialized {
		return
	}
	defer func() { initialized = true }()

	path, _ := util.ResolveFile(ConfFile)
	if _, err := toml.DecodeFile(path, &Settings); err != nil {
		log.Println("Config file not found. Using defaults. (", err, ")")
	}

	setupLogLvl()
	setupSearch()
	setupEval()
}

// String renders every field of the Search and Eval sub-sections via
// reflection, so newly added settings fields show up without this needing
// an update.
func (settings *conf) String() string {
	var b strings.Builder
	writeSection(&b, "Search Config", &settings.Search)
	b.WriteString("\n")
	writeSection(&b, "Evaluation Config", &settings.Eval)
	return b.String()
}

func writeSection(b *strings.Builder, title string, section interface{}) {
	b.WriteString(title + ":\n")
	v := reflect.ValueOf(section).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		fmt.Fprintf(b, "%-2d: %-22s %-6s = %v\n", i, t.Field(i).Name, f.Type(), f.Interface())
	}
}
