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

package testsuite

import (
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mkrawiec/gochess/internal/config"
	"github.com/mkrawiec/gochess/internal/util"
)

// FeatureTests runs every .epd file in folder as its own TestSuite and
// returns a combined report across all of them.
func FeatureTests(folder string, searchTime time.Duration, searchDepth int) string {
	epdFiles, err := listEpdFiles(folder)
	if err != nil {
		log.Fatal(err)
	}

	config.Settings.Search.UseBook = false
	suites := make(map[string]TestSuite, len(epdFiles))

	start := time.Now()
	for _, name := range epdFiles {
		ts, _ := NewTestSuite(folder+name, searchTime, searchDepth)
		ts.RunTests()
		suites[name] = *ts
	}
	elapsed := time.Since(start)

	return buildFeatureReport(folder, suites, searchTime, searchDepth, elapsed)
}

func listEpdFiles(folder string) ([]string, error) {
	entries, err := ioutil.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".epd" {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// buildFeatureReport renders a table of every suite's outcome plus a
// grand-total row, sorted by file name for a stable report.
func buildFeatureReport(folder string, suites map[string]TestSuite, searchTime time.Duration, searchDepth int, elapsed time.Duration) string {
	names := make([]string, 0, len(suites))
	for name := range suites {
		names = append(names, name)
	}
	sort.Strings(names)

	var totalTests int
	var totalSuccess, totalFailed, totalSkipped, totalNotTested int
	var totalNodes uint64
	var totalSearchTime time.Duration

	var b strings.Builder
	b.WriteString(out.Sprintf("Feature Test Result Report\n"))
	b.WriteString(out.Sprintf("==============================================================================\n"))
	b.WriteString(out.Sprintf("Date                 : %s\n", time.Now()))
	b.WriteString(out.Sprintf("Test took            : %s\n", elapsed))
	b.WriteString(out.Sprintf("Test setup           : search time: %s max depth: %d\n", searchTime, searchDepth))
	b.WriteString(out.Sprintf("Number of testsuites : %d\n", len(suites)))
	executedTests := 0
	for _, ts := range suites {
		executedTests += len(ts.Tests)
	}
	b.WriteString(out.Sprintf("Number of tests      : %d\n", executedTests))
	b.WriteString(out.Sprintln())
	b.WriteString(out.Sprintf("===============================================================================================================================================\n"))
	b.WriteString(out.Sprintf(" %-25s | %-12s | %-15s | %-10s | %-10s | %-10s | %-10s | %-6s | %s\n",
		"Test Suite", "Success Rate", "          Nodes", "Successful", "    Failed", "   Skipped", "       N/A", "  Tests", "File"))
	b.WriteString(out.Sprintf("===============================================================================================================================================\n"))

	for _, name := range names {
		r := suites[name].LastResult
		successRate := float64(r.SuccessCounter) / float64(r.Counter) * 100
		totalNodes += r.Nodes
		totalSearchTime += r.Time
		totalSuccess += r.SuccessCounter
		totalFailed += r.FailedCounter
		totalSkipped += r.SkippedCounter
		totalNotTested += r.NotTestedCounter
		totalTests += r.Counter
		b.WriteString(out.Sprintf(" %-25s |      %5.1f %% | %15d |   %8d |   %8d |   %8d |   %8d |  %6d | %s\n",
			name, successRate, r.Nodes, r.SuccessCounter, r.FailedCounter, r.SkippedCounter, r.NotTestedCounter, len(suites[name].Tests), folder+name))
	}

	overallSuccessRate := float64(totalSuccess) / float64(totalTests) * 100
	b.WriteString(out.Sprintf("-----------------------------------------------------------------------------------------------------------------------------------------------\n"))
	b.WriteString(out.Sprintf(" %-25s |      %5.1f %% | %15d |   %8d |   %8d |   %8d |   %8d |  %6d | %s\n",
		"TOTAL", overallSuccessRate, totalNodes, totalSuccess, totalFailed, totalSkipped, totalNotTested, totalTests, ""))
	b.WriteString(out.Sprintf("===============================================================================================================================================\n"))
	b.WriteString(out.Sprintln())
	b.WriteString(out.Sprintf("Total Time: %s\n", totalSearchTime))
	b.WriteString(out.Sprintf("Total NPS : %d\n", util.Nps(totalNodes, totalSearchTime)))
	b.WriteString(out.Sprintln())
	b.WriteString(out.Sprintf("Configuration: %s\n", config.Settings.String()))
	b.WriteString(out.Sprintln())

	return b.String()
}
