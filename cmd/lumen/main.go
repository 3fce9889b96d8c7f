// Command lumen is the entry point for the Lumen interpreter. It provides
// three modes of operation:
// 1. REPL mode (default): interactive Read-Eval-Print Loop for live coding
// 2. File mode: execute a Lumen source file from the command line
// 3. Serve mode: host a line-oriented REPL over TCP, one session per
//    connection
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/lumen-lang/lumen/evaluator"
	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/object"
	"github.com/lumen-lang/lumen/parser"
	"github.com/lumen-lang/lumen/repl"
)

var (
	redColor  = color.New(color.FgRed)
	cyanColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

// main inspects os.Args to pick a mode:
//
//	lumen                - start in REPL (interactive) mode
//	lumen <filename>     - execute the specified Lumen source file
//	lumen serve <port>   - start a TCP-hosted REPL server
//	lumen --help         - display help information
//	lumen --version      - display version information
func main() {
	cfg, err := config.Load(".lumenrc.yaml")
	if err != nil {
		redColor.Fprintf(os.Stderr, "[CONFIG ERROR] %v\n", err)
		os.Exit(1)
	}
	applyColorPreference(cfg.Color)

	if len(os.Args) > 1 {
		arg := os.Args[1]

		switch arg {
		case "--help", "-h":
			showHelp(cfg)
			return
		case "--version", "-v":
			showVersion(cfg)
			return
		case "serve":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing port for serve mode. Usage: lumen serve <port>\n")
				os.Exit(1)
			}
			startServer(cfg, os.Args[2])
			return
		}

		runFile(os.Args[1])
		return
	}

	repler := repl.NewRepl(cfg.Banner, cfg.Version, cfg.Author, cfg.Line, cfg.License, cfg.Prompt, cfg.Color, cfg.ShowBanner)
	repler.Start(os.Stdout)
}

// applyColorPreference enables or disables ANSI output on every package
// color used by cmd/lumen itself (the REPL's own colors are toggled
// separately inside repl.Repl.Start via its Color field).
func applyColorPreference(colorize bool) {
	for _, c := range []*color.Color{redColor, cyanColor, infoColor} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func showHelp(cfg *config.Config) {
	infoColor.Println("Lumen - a small expression-oriented scripting language")
	infoColor.Println("")
	infoColor.Println("USAGE:")
	cyanColor.Println("  lumen                      Start interactive REPL mode")
	cyanColor.Println("  lumen <path-to-file>       Execute a Lumen source file")
	cyanColor.Println("  lumen serve <port>         Start REPL server on the given port")
	cyanColor.Println("  lumen --help               Display this help message")
	cyanColor.Println("  lumen --version             Display version information")
	infoColor.Println("")
	infoColor.Println("REPL COMMANDS:")
	cyanColor.Println("  .exit                      Exit the REPL")
	_ = cfg
}

func showVersion(cfg *config.Config) {
	infoColor.Println("Lumen - a small expression-oriented scripting language")
	infoColor.Printf("Version: %s\n", cfg.Version)
	infoColor.Printf("License: %s\n", cfg.License)
	infoColor.Printf("Author : %s\n", cfg.Author)
}

// runFile reads source, parses and evaluates it once against a fresh
// Environment, and prints the final value unless it is null. A parse error or a runtime
// Error both exit with status 1.
func runFile(fileName string) {
	source, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file %q: %v\n", fileName, err)
		os.Exit(1)
	}

	result, evalErr := run(string(source), object.NewEnvironment())
	if evalErr != "" {
		redColor.Fprintf(os.Stderr, "%s\n", evalErr)
		os.Exit(1)
	}

	if result != nil && result != evaluator.NULL {
		fmt.Fprintln(os.Stdout, result.Inspect())
	}
}

// run parses and evaluates source against env, recovering from any panic
// and reporting it the same way a parse or evaluation error is reported.
// It returns either the result object or a non-empty error string, never
// both.
func run(source string, env *object.Environment) (result object.Object, errMsg string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			errMsg = fmt.Sprintf("[RUNTIME ERROR] %v", recovered)
			result = nil
		}
	}()

	program, errs := parser.Parse(source)
	if len(errs) != 0 {
		msg := ""
		for _, e := range errs {
			msg += "[PARSE ERROR] " + e + "\n"
		}
		return nil, msg
	}

	result = evaluator.Eval(program, env)
	if result != nil && result.Type() == object.ERROR_OBJ {
		return nil, result.Inspect()
	}
	return result, ""
}

// startServer listens on port and spawns one REPL session per accepted
// connection. Each connection gets its own Environment, so sessions never
// see each other's bindings. Unlike the interactive REPL, a served session
// uses a plain line scanner rather than readline, since readline's editing
// features assume a local terminal.
func startServer(cfg *config.Config, port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to start server on port %s: %v\n", port, err)
		os.Exit(1)
	}
	defer listener.Close()
	infoColor.Printf("Lumen REPL server listening on :%s\n", port)

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to accept connection: %v\n", err)
			continue
		}
		go handleClient(cfg, conn)
	}
}

func handleClient(cfg *config.Config, conn net.Conn) {
	defer conn.Close()
	infoColor.Printf("client connected from %s\n", conn.RemoteAddr())

	if cfg.ShowBanner {
		fmt.Fprintf(conn, "%s\n", cfg.Banner)
	}
	fmt.Fprintf(conn, "Lumen %s — type '.exit' to disconnect\n", cfg.Version)

	env := object.NewEnvironment()
	scanner := bufio.NewScanner(conn)

	for {
		fmt.Fprint(conn, cfg.Prompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == ".exit" {
			break
		}
		if line == "" {
			continue
		}

		result, errMsg := run(line, env)
		if errMsg != "" {
			fmt.Fprintf(conn, "%s\n", errMsg)
			continue
		}
		if result != nil {
			fmt.Fprintf(conn, "%s\n", result.Inspect())
		}
	}

	infoColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}
