package termui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
)

// Interpreter interprets every input line which is not a REPL command.
// Results go to stdout, diagnostics to stderr.
type Interpreter interface {
	Interpret(line string, stdout, stderr io.Writer)
}

// InterpreterFunc adapts a function to the Interpreter interface.
type InterpreterFunc func(line string, stdout, stderr io.Writer)

// Interpret calls f.
func (f InterpreterFunc) Interpret(line string, stdout, stderr io.Writer) {
	f(line, stdout, stderr)
}

// Config configures a REPL.
type Config struct {
	Tool        string          // name of the tool, used for the prompt and the history file
	Version     string          // shown in the welcome message
	HistoryFile string          // defaults to a file in the temp directory
	EditMode    string          // "emacs" (default) or "vi"
	Completions []string        // words offered for tab-completion, besides the REPL commands
	Help        func(io.Writer) // prints help on statements, appended to the command help
}

// REPL is a read-eval-print loop on a terminal. Lines starting with one of the
// REPL commands (help, bye, mode, setprompt) are handled by the REPL, every
// other non-empty line is passed to an Interpreter.
type REPL struct {
	conf     Config
	intp     Interpreter
	rl       *readline.Instance
	stdout   io.Writer
	stderr   io.Writer
	editmode string
}

// replCommand is a command understood by the REPL itself. run returns true
// to quit.
type replCommand struct {
	usage string
	run   func(repl *REPL, args []string) (quit bool)
}

var replCommands map[string]replCommand

func init() {
	replCommands = map[string]replCommand{
		"help": {"help               : print this message", func(repl *REPL, _ []string) bool {
			repl.help()
			return false
		}},
		"bye": {"bye                : quit application", func(repl *REPL, _ []string) bool {
			io.WriteString(repl.stderr, "> goodbye!\n")
			return true
		}},
		"mode": {"mode [vi|emacs]    : display or set current editing mode", func(repl *REPL, args []string) bool {
			if len(args) > 0 && repl.SetEditMode(args[0]) {
				return false
			}
			fmt.Fprintf(repl.stderr, "> current input mode: %s\n", repl.editmode)
			return false
		}},
		"setprompt": {"setprompt [prompt] : set current prompt [to default]", func(repl *REPL, args []string) bool {
			prompt := repl.defaultPrompt()
			if len(args) > 0 {
				prompt = strings.Join(args, " ") + " "
			}
			if repl.rl != nil {
				repl.rl.SetPrompt(prompt)
			}
			return false
		}},
	}
}

// NewREPL creates a REPL for an interpreter. It fails if the terminal cannot
// be set up.
func NewREPL(conf Config, intp Interpreter) (*REPL, error) {
	if intp == nil {
		return nil, errors.New("REPL needs an interpreter")
	}
	if conf.HistoryFile == "" {
		conf.HistoryFile = filepath.Join(os.TempDir(), conf.Tool+"-repl-history.tmp")
	}
	repl := &REPL{conf: conf, intp: intp, editmode: "emacs"}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              repl.defaultPrompt(),
		HistoryFile:         conf.HistoryFile,
		AutoComplete:        completer(conf.Completions),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: blockCtrlZ,
	})
	if err != nil {
		return nil, err
	}
	repl.rl = rl
	repl.stdout, repl.stderr = rl.Stdout(), rl.Stderr()
	repl.SetEditMode(conf.EditMode)
	return repl, nil
}

func (repl *REPL) defaultPrompt() string {
	return prtxt.FgGreen.Sprintf("%s> ", repl.conf.Tool)
}

// completer offers the REPL commands and words.
func completer(words []string) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help"),
		readline.PcItem("bye"),
		readline.PcItem("mode", readline.PcItem("vi"), readline.PcItem("emacs")),
		readline.PcItem("setprompt"),
	}
	for _, w := range words {
		items = append(items, readline.PcItem(w))
	}
	return readline.NewPrefixCompleter(items...)
}

// blockCtrlZ filters out ctrl-z, which would suspend the process.
func blockCtrlZ(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

// SetEditMode switches between "vi" and "emacs" editing modes. It returns
// false for any other mode.
func (repl *REPL) SetEditMode(mode string) bool {
	if mode != "vi" && mode != "emacs" {
		return false
	}
	if repl.rl != nil {
		repl.rl.SetVimMode(mode == "vi")
	}
	repl.editmode = mode
	trace().Debugf("REPL edit mode is %s", mode)
	return true
}

func (repl *REPL) help() {
	fmt.Fprintf(repl.stderr, "Welcome to %s [V%s]\n\nThe following commands are available:\n\n",
		repl.conf.Tool, repl.conf.Version)
	names := make([]string, 0, len(replCommands))
	for name := range replCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(repl.stderr, "  %s\n", replCommands[name].usage)
	}
	if repl.conf.Help != nil {
		repl.conf.Help(repl.stderr)
	}
}

// Run reads and executes lines until the user says bye, input ends or ctx
// is cancelled.
func (repl *REPL) Run(ctx context.Context) error {
	defer repl.rl.Close()
	fmt.Fprintf(repl.stderr, "Welcome to %s [V%s]\n", repl.conf.Tool, repl.conf.Version)
	for ctx.Err() == nil {
		line, err := repl.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if repl.execute(line) {
			return nil
		}
	}
	return ctx.Err()
}

// execute dispatches one line of input. It returns true if the REPL should
// terminate.
func (repl *REPL) execute(line string) (quit bool) {
	line = strings.TrimSpace(line)
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	if cmd, ok := replCommands[words[0]]; ok {
		return cmd.run(repl, words[1:])
	}
	trace().Debugf("call interpreter on: '%s'", line)
	repl.intp.Interpret(line, repl.stdout, repl.stderr)
	return false
}
