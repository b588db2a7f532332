package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/flexcalc/ui/termui"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "0.1 experimental"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flexcalc",
	Short: "An expression calculator for scalars, vectors and dates",
	Long: `Welcome to flexcalc V0.1 (experimental)

flexcalc evaluates arithmetic expressions over scalars and vectors, e.g.

    2 * SUM(ABS([-2, -3, -4, -3, 4])) + 1

flexcalc is able to run in interactive mode or execute statements in
batch-mode. If standard input is a terminal, it will prompt for user input
in a REPL. Otherwise it reads statements from standard input, one per line.

`,
	Run: runFlexcalcCmd,
}

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression",
	Example: `  flexcalc eval "2**3 + 4**5"
  flexcalc eval "SUM(v * rate)" --set v=[1,2,3] --set rate=0.5`,
	Args: cobra.MinimumNArgs(1),
	Run:  runEvalCmd,
}

var postfixCmd = &cobra.Command{
	Use:   "postfix <expression>",
	Short: "Print the postfix form of an expression",
	Args:  cobra.MinimumNArgs(1),
	Run:   runPostfixCmd,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called exactly once by main().
func Execute() {
	if rootCmd.Execute() != nil {
		flexcalc.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// persistent flags which will be global for the application
	rootCmd.PersistentFlags().BoolP("interactive", "i", false, "Force run in interactive mode")
	rootCmd.PersistentFlags().String("logfile", "stderr", "URL of log output location")
	rootCmd.PersistentFlags().Int("maxlinelength", flexcalc.DefaultMaxLineLength, "Maximum length of an expression")
	rootCmd.PersistentFlags().IntP("precision", "p", 12, "Number of decimal places of results")
	rootCmd.PersistentFlags().String("locale", "en", "Locale for number formatting")
	rootCmd.PersistentFlags().String("editmode", "emacs", "REPL editing mode (emacs or vi)")
	evalCmd.Flags().StringArray("set", nil, "Set a variable: name=value, e.g. v=[1,2,3] or d=2021-12-24")
	postfixCmd.Flags().StringArray("set", nil, "Set a variable, needed for --ops")
	postfixCmd.Flags().Bool("ops", false, "Also print the compiled operations")
	rootCmd.AddCommand(evalCmd, postfixCmd)
}

func runFlexcalcCmd(cmd *cobra.Command, args []string) {
	s, err := newSession(currentSettings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot start: %v\n", err)
		flexcalc.Exit(1)
	}
	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive || term.IsTerminal(int(os.Stdin.Fd())) {
		runREPL(s)
		return
	}
	tracing.Infof("flexcalc reading statements from stdin")
	if failed := runBatch(s, os.Stdin, os.Stdout, os.Stderr); failed > 0 {
		flexcalc.Exit(1)
	}
}

func runREPL(s *session) {
	tracing.Infof("flexcalc interpreter called")
	interpret := func(line string, stdout, stderr io.Writer) {
		s.execute(line, stdout, stderr)
	}
	repl, err := termui.NewREPL(termui.Config{
		Tool:        "flexcalc",
		Version:     version,
		HistoryFile: locatePaths().HistoryFile(),
		EditMode:    currentSettings().editMode,
		Completions: statementWords(),
		Help: func(w io.Writer) {
			io.WriteString(w, statementHelp)
		},
	}, termui.InterpreterFunc(interpret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot start REPL: %v\n", err)
		flexcalc.Exit(1)
	}
	if err = repl.Run(flexcalc.SignalContext); err != nil {
		tracing.Infof("REPL stopped: %v", err)
	}
	flexcalc.Exit(0)
}

// runBatch executes statements from in, one per line, and returns the
// number of failed statements.
func runBatch(s *session, in io.Reader, stdout, stderr io.Writer) (failed int) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if flexcalc.SignalContext.Err() != nil {
			break
		}
		if err := s.execute(scanner.Text(), stdout, stderr); err != nil {
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "error reading input: %v\n", err)
		failed++
	}
	return failed
}

func runEvalCmd(cmd *cobra.Command, args []string) {
	s, expr := prepare(cmd, args)
	v, stage, err := s.evaluate(expr)
	if err != nil {
		s.report(stage, expr, err, os.Stderr)
		flexcalc.Exit(1)
	}
	s.format.Format(v, os.Stdout)
}

func runPostfixCmd(cmd *cobra.Command, args []string) {
	s, expr := prepare(cmd, args)
	calc, err := s.calculator(expr)
	if err != nil {
		s.report(syntaxError, expr, err, os.Stderr)
		flexcalc.Exit(1)
	}
	fmt.Println(calc.Postfix())
	if ops, _ := cmd.Flags().GetBool("ops"); ops {
		report, err := calc.Compile()
		if err != nil {
			s.report(compileError, expr, err, os.Stderr)
			flexcalc.Exit(1)
		}
		fmt.Println(calc.Expression())
		fmt.Printf("result %s\n", report)
	}
}

// prepare creates a session, sets variables from --set flags and returns
// the expression given as arguments.
func prepare(cmd *cobra.Command, args []string) (*session, string) {
	s, err := newSession(currentSettings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot start: %v\n", err)
		flexcalc.Exit(1)
	}
	assignments, _ := cmd.Flags().GetStringArray("set")
	if err := s.setAll(assignments); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flexcalc.Exit(1)
	}
	return s, strings.Join(args, " ")
}
