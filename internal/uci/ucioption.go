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

package uci

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	. "github.com/mkrawiec/gochess/internal/config"
)

// uciOptionType enumerates the UCI option widget kinds the protocol
// understands ("check", "spin", "combo", "button", "string").
type uciOptionType int

const (
	Check uciOptionType = iota
	Spin
	Combo
	Button
	String
)

// optionHandler runs when "setoption" changes an option's CurrentValue.
type optionHandler func(*UciHandler, *uciOption)

// uciOption describes one UCI option together with the handler invoked
// whenever "setoption" changes it.
type uciOption struct {
	NameID       string
	HandlerFunc  optionHandler
	OptionType   uciOptionType
	DefaultValue string
	MinValue     string
	MaxValue     string
	VarValue     string
	CurrentValue string
}

type optionMap map[string]*uciOption

// uciOptions holds every option the engine advertises to the UCI ui.
var uciOptions optionMap

// sortOrderUciOptions fixes the display order for the "uci" handshake.
var sortOrderUciOptions []string

// boolOption builds a Check-type uciOption toggling *field, describing
// what changed in the log as label.
func boolOption(name string, field *bool, label string) *uciOption {
	return &uciOption{
		NameID:       name,
		OptionType:   Check,
		DefaultValue: strconv.FormatBool(*field),
		CurrentValue: strconv.FormatBool(*field),
		HandlerFunc: func(u *UciHandler, o *uciOption) {
			v, _ := strconv.ParseBool(o.CurrentValue)
			*field = v
			log.Debugf("Set %s to %v", label, v)
		},
	}
}

func init() {
	uciOptions = optionMap{
		"Print Config": {NameID: "Print Config", HandlerFunc: printConfig, OptionType: Button},
		"Clear Hash":   {NameID: "Clear Hash", HandlerFunc: clearCache, OptionType: Button},
		"Use_Hash":     boolOption("Use_Hash", &Settings.Search.UseTT, "Use Hash"),
		"Hash":         {NameID: "Hash", HandlerFunc: cacheSize, OptionType: Spin, DefaultValue: strconv.Itoa(Settings.Search.TTSize), CurrentValue: strconv.Itoa(Settings.Search.TTSize), MinValue: "0", MaxValue: "65000"},

		"Use_Book": boolOption("Use_Book", &Settings.Search.UseBook, "Use Book"),
		"Ponder":   boolOption("Ponder", &Settings.Search.UsePonder, "Use Ponder"),

		"Quiescence": boolOption("Quiescence", &Settings.Search.UseQuiescence, "Use Quiescence"),
		"Use_QHash":  boolOption("Use_QHash", &Settings.Search.UseQSTT, "Use Hash in Quiescence"),
		"Use_SEE":    boolOption("Use_SEE", &Settings.Search.UseSEE, "use SEE"),

		"Use_PVS":         boolOption("Use_PVS", &Settings.Search.UsePVS, "Use PVS"),
		"Use_IID":         boolOption("Use_IID", &Settings.Search.UseIID, "Use IID"),
		"Use_Killer":      boolOption("Use_Killer", &Settings.Search.UseKiller, "Use Killer Moves"),
		"Use_HistCount":   boolOption("Use_HistCount", &Settings.Search.UseHistoryCounter, "Use History Counter"),
		"Use_CounterMove": boolOption("Use_CounterMove", &Settings.Search.UseCounterMoves, "Use Counter Moves"),

		"Use_Rfp":      boolOption("Use_Rfp", &Settings.Search.UseRFP, "use Reverse Futility Pruning (RFP)"),
		"Use_NullMove": boolOption("Use_NullMove", &Settings.Search.UseNullMove, "Use Null Move Pruning"),
		"Use_Mdp":      boolOption("Use_Mdp", &Settings.Search.UseMDP, "Use MDP"),
		"Use_Fp":       boolOption("Use_Fp", &Settings.Search.UseFP, "use Futility Pruning (FP)"),
		"Use_Lmr":      boolOption("Use_Lmr", &Settings.Search.UseLmr, "use Late Move Reduction"),
		"Use_Lmp":      boolOption("Use_Lmp", &Settings.Search.UseLmp, "use Late Move Pruning"),

		"Use_Ext":         boolOption("Use_Ext", &Settings.Search.UseExt, "use Extensions"),
		"Use_ExtAddDepth": boolOption("Use_ExtAddDepth", &Settings.Search.UseExtAddDepth, "use Extensions Add to Depth"),
		"Use_CheckExt":    boolOption("Use_CheckExt", &Settings.Search.UseCheckExt, "use Check Extension"),
		"Use_ThreatExt":   boolOption("Use_ThreatExt", &Settings.Search.UseThreatExt, "use Threat Extension"),

		"Eval_Lazy":     boolOption("Eval_Lazy", &Settings.Eval.UseLazyEval, "use Lazy Eval"),
		"Eval_Mobility": boolOption("Eval_Mobility", &Settings.Eval.UseMobility, "use Eval Mobility"),
		"Eval_AdvPiece": boolOption("Eval_AdvPiece", &Settings.Eval.UseAdvancedPieceEval, "use Adv Piece Eval"),
	}
	sortOrderUciOptions = []string{
		"Print Config",
		"Clear Hash",
		"Use_Hash",
		"Hash",
		"Use_Book",
		"Ponder",

		"Quiescence",
		"Use_QHash",
		"Use_SEE",

		"Use_IID",
		"Use_PVS",
		"Use_Killer",
		"Use_HistCount",
		"Use_CounterMove",

		"Use_Mdp",
		"Use_Rfp",
		"Use_NullMove",
		"Use_Fp",
		"Use_Lmr",
		"Use_Lmp",

		"Use_Ext",
		"Use_ExtAddDepth",
		"Use_CheckExt",
		"Use_ThreatExt",

		"Eval_Mobility",
		"Eval_AdvPiece",
	}
}

// GetOptions renders every option in sortOrderUciOptions as a UCI
// "option name ..." line, ready to send during the "uci" handshake.
func (o *optionMap) GetOptions() *[]string {
	var options []string
	for _, name := range sortOrderUciOptions {
		options = append(options, uciOptions[name].String())
	}
	return &options
}

// String renders a uciOption as a single "option name ..." protocol line.
func (o *uciOption) String() string {
	var sb strings.Builder
	sb.WriteString("option name ")
	sb.WriteString(o.NameID)
	sb.WriteString(" type ")
	switch o.OptionType {
	case Check:
		sb.WriteString("check ")
		sb.WriteString("default ")
		sb.WriteString(o.DefaultValue)
	case Spin:
		sb.WriteString("spin ")
		sb.WriteString("default ")
		sb.WriteString(o.DefaultValue)
		sb.WriteString(" min ")
		sb.WriteString(o.MinValue)
		sb.WriteString(" max ")
		sb.WriteString(o.MaxValue)
	case Combo:
		sb.WriteString("combo ")
		sb.WriteString("default ")
		sb.WriteString(o.DefaultValue)
		sb.WriteString(" var ")
		sb.WriteString(o.VarValue)
	case Button:
		sb.WriteString("button")
	case String:
		sb.WriteString("string ")
		sb.WriteString("default ")
		sb.WriteString(o.DefaultValue)
	}
	return sb.String()
}

// printConfig dumps the current evaluation and search settings to the UCI
// ui via "info string" lines, for interactive debugging.
func printConfig(handler *UciHandler, option *uciOption) {
	reportStruct(handler, &Settings.Eval, "Evaluation Config:\n")
	reportStruct(handler, &Settings.Search, "Search Config:\n")
	log.Debug(Settings.String())
}

// reportStruct reflects over cfg's fields and sends each as a formatted
// "info string" line, followed by a trailing header/separator message.
func reportStruct(handler *UciHandler, cfg interface{}, trailer string) {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := v.NumField() - 1; i >= 0; i-- {
		f := v.Field(i)
		handler.SendInfoString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, t.Field(i).Name, f.Type(), f.Interface()))
	}
	handler.SendInfoString(trailer)
}

func clearCache(u *UciHandler, o *uciOption) {
	u.mySearch.ClearHash()
	log.Debug("Cleared Cache")
}

func cacheSize(u *UciHandler, o *uciOption) {
	v, _ := strconv.Atoi(o.CurrentValue)
	Settings.Search.TTSize = v
	u.mySearch.ResizeCache()
}
