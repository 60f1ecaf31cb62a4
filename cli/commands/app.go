package commands

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/coulomb/cli/config"
	"github.com/petal-labs/coulomb/core"
	"github.com/petal-labs/coulomb/special"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// TerminalDetector reports whether w is an interactive terminal.
type TerminalDetector func(w io.Writer) bool

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig ConfigLoader
	isTerminal TerminalDetector
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	cfgFile    string
	format     string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config
	logger     *logrus.Logger

	evalEta        float64
	evalLMin       int
	evalLMax       int
	evalNL         int
	evalNoG        bool
	evalTimeout    string
	evalMetricsOut string
	turningEta     float64
	turningLMin    int
	turningLMax    int
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithTerminalDetector injects the terminal check used by --format auto.
func WithTerminalDetector(detect TerminalDetector) AppOption {
	return func(a *App) {
		if detect != nil {
			a.isTerminal = detect
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig: config.LoadConfig,
		isTerminal: fileIsTerminal,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "coulomb",
		Short: "Coulomb wave functions F, G and their derivatives",
		Long: `Coulomb evaluates the regular and irregular Coulomb wave functions
F_l(eta,x), G_l(eta,x) and their x-derivatives with Steed's method.

Configuration is read from ~/.coulomb/config.yaml and COULOMB_* environment
variables; flags take precedence.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.coulomb/config.yaml)")
	root.PersistentFlags().StringVar(&a.format, "format", "", "output format: auto, table, tsv, csv, json, yaml")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output (same as --format json)")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging and diagnostics")

	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.AddCommand(a.newEvalCommand())
	root.AddCommand(a.newTurningCommand())
	root.AddCommand(a.newConfigCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides the command-line arguments, mainly for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.cfg = cfg

	// Flags override config.
	if a.jsonOutput {
		a.format = "json"
	}
	if a.format == "" {
		a.format = cfg.Format
	}
	if a.verbose {
		a.cfg.LogLevel = "debug"
		a.cfg.Verbosity = core.VerbosityDebug.String()
	}

	a.logger = newLogger(a.stderr, a.cfg.LogLevel)
	return nil
}

// newSolver builds a solver from the effective configuration.
func (a *App) newSolver() (*core.Solver, error) {
	verbosity, err := core.ParseVerbosity(strings.ToLower(a.cfg.Verbosity))
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}
	gamma, err := special.Create(a.cfg.Gamma)
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}

	return core.NewSolver(
		core.WithTolerance(a.cfg.Tolerance),
		core.WithMaxIterations(a.cfg.MaxIterations),
		core.WithVerbosity(verbosity),
		core.WithWorkers(a.cfg.Workers),
		core.WithGamma(gamma),
		core.WithDiagnostics(NewLogrusHook(a.logger)),
	), nil
}

func fileIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
