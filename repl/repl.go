// Package repl implements the Read-Eval-Print Loop for Lumen. The REPL
// provides an interactive environment where users can:
// - Enter Lumen code line by line
// - See immediate results of their code execution
// - Navigate command history using arrow keys
// - Receive colored feedback for different types of output
//
// The REPL uses the readline library for enhanced line editing capabilities
// and integrates with the parser and evaluator to execute user input.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/lumen-lang/lumen/evaluator"
	"github.com/lumen-lang/lumen/object"
	"github.com/lumen-lang/lumen/parser"
)

// Color definitions for REPL output.
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl represents the Read-Eval-Print Loop instance. It encapsulates all
// the configuration needed to run an interactive session.
type Repl struct {
	Banner     string // ASCII art banner displayed at startup
	Version    string // Version string of the interpreter
	Author     string // Author contact information
	Line       string // Separator line for visual formatting
	License    string // Software license information
	Prompt     string // Command prompt shown to the user (e.g., "lumen >>> ")
	Color      bool   // whether output is colorized with ANSI escapes
	ShowBanner bool   // whether Start prints the startup banner at all
}

// NewRepl creates and initializes a new REPL instance.
func NewRepl(banner, version, author, line, license, prompt string, colorize, showBanner bool) *Repl {
	return &Repl{
		Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt,
		Color: colorize, ShowBanner: showBanner,
	}
}

// applyColorPreference enables or disables ANSI output on every package
// color used by this session, per r.Color.
func (r *Repl) applyColorPreference() {
	for _, c := range []*color.Color{blueColor, yellowColor, redColor, greenColor, cyanColor} {
		if r.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Lumen!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start begins the REPL main loop: it prints the banner (unless disabled),
// then reads, parses, and evaluates one line at a time against a single
// Environment that persists for the whole session, so a `let` on one line
// is visible to every line after it.
func (r *Repl) Start(writer io.Writer) {
	r.applyColorPreference()

	if r.ShowBanner {
		r.PrintBannerInfo(writer)
	}

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	env := object.NewEnvironment()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")

		if line == "" {
			continue
		}

		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		rl.SaveHistory(line)

		r.executeWithRecovery(writer, line, env)
	}
}

// executeWithRecovery parses and evaluates a single line against env.
// Unlike file execution mode, the REPL never exits on a parse or
// evaluation error: it reports the error and returns to the prompt so the
// user can correct their input and continue the session.
func (r *Repl) executeWithRecovery(writer io.Writer, line string, env *object.Environment) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	program, errs := parser.Parse(line)
	if len(errs) != 0 {
		for _, e := range errs {
			redColor.Fprintf(writer, "%s\n", e)
		}
		return
	}

	result := evaluator.Eval(program, env)
	if result == nil {
		return
	}

	if result.Type() == object.ERROR_OBJ {
		redColor.Fprintf(writer, "%s\n", result.Inspect())
	} else {
		yellowColor.Fprintf(writer, "%s\n", result.Inspect())
	}
}
