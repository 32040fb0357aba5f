package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"projio/internal/config"
	"projio/internal/logger"
	"projio/internal/project"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		var ex ExitCoder
		if errors.As(err, &ex) {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

// env is what every command works against: the project, the config it was
// built from and where that config lives ("" outside any project).
type env struct {
	IO          *project.ProjectIO
	Config      config.Config
	ConfigPath  string
	ProjectRoot string
}

type opener func() (*env, error)

type globalFlags struct {
	configPath string
	root       string
	jsonOutput bool
	dryRun     bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	open := func() (*env, error) {
		return openEnv(g)
	}

	cmd := &cobra.Command{
		Use:           "projio",
		Short:         "Canonical paths for experiment artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to .projio/config.toml (default: discovered from the working directory)")
	cmd.PersistentFlags().StringVar(&g.root, "root", "", "override the project root")
	cmd.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, "never touch the filesystem")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newInitCmd(&g.jsonOutput))
	cmd.AddCommand(newPathCmd(open, &g.jsonOutput))
	cmd.AddCommand(newForCmd(open, &g.jsonOutput))
	cmd.AddCommand(newTemplatesCmd(open, &g.jsonOutput))
	cmd.AddCommand(newDescribeCmd(open, &g.jsonOutput))
	cmd.AddCommand(newTreeCmd(open, &g.jsonOutput))
	cmd.AddCommand(newGitignoreCmd(open, &g.jsonOutput))
	cmd.AddCommand(newTrackCmd(open, &g.jsonOutput))
	cmd.AddCommand(newProducersCmd(open, &g.jsonOutput))
	cmd.AddCommand(newOutputsCmd(open, &g.jsonOutput))
	cmd.AddCommand(newVersionCmd(&g.jsonOutput))

	return cmd
}

func openEnv(g globalFlags) (*env, error) {
	var (
		cfg         config.Config
		projectRoot string
		configPath  string
		err         error
	)
	if g.configPath != "" {
		configPath, err = filepath.Abs(g.configPath)
		if err != nil {
			return nil, err
		}
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
		projectRoot = filepath.Dir(configPath)
		if filepath.Base(projectRoot) == config.ProjectDir {
			projectRoot = filepath.Dir(projectRoot)
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if cfg, projectRoot, err = config.Discover(cwd); err != nil {
			return nil, err
		}
		if _, found := config.FindProjectRoot(cwd); found {
			configPath = config.ConfigPath(projectRoot)
		}
	}
	if configPath == "" {
		// Outside a project there is no .projio/ to keep records in.
		cfg.Ledger.Persist = false
	}

	level := cfg.Logging.Level
	if g.verbose {
		level = "debug"
	}
	if err := logger.Initialize(level, cfg.Logging.Format); err != nil {
		return nil, err
	}

	io, err := project.FromConfig(cfg, projectRoot)
	if err != nil {
		return nil, err
	}
	if g.root != "" {
		if err := io.SetRoot(g.root); err != nil {
			return nil, err
		}
	}
	if g.dryRun {
		io.SetDryRun(true)
	}
	return &env{IO: io, Config: cfg, ConfigPath: configPath, ProjectRoot: projectRoot}, nil
}

// parseVars turns repeated key=value flags into a map.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &exitError{code: 2, msg: fmt.Sprintf("invalid --var %q, want key=value", pair)}
		}
		vars[key] = value
	}
	return vars, nil
}

// tristate reads a bool flag only when the user set it.
func tristate(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

func print(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}
