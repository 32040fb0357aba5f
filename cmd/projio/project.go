package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"projio/internal/config"
	"projio/internal/template"
	"projio/internal/tree"
)

func newInitCmd(jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create .projio/config.toml in dir (default: working directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := config.Init(dir)
			if err != nil {
				return err
			}
			return print(*jsonOutput, map[string]string{"config": path}, pterm.Success.Sprintf("initialized %s", path))
		},
	}
}

func newDescribeCmd(open opener, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Show the resolved project layout and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			d := e.IO.Describe()
			if *jsonOutput {
				return print(true, d, "")
			}
			data := pterm.TableData{
				{"root", d.Root},
				{"inputs", d.Inputs + pterm.Gray(" ("+d.InputsState+")")},
				{"outputs", d.Outputs + pterm.Gray(" ("+d.OutputsState+")")},
				{"lightning", d.Lightning},
				{"checkpoints", d.Checkpoints},
				{"tensorboard", d.Tensorboard},
				{"logs", d.Logs},
				{"cache", d.Cache},
				{"resources", d.Resources},
				{"gitignore", d.Gitignore},
				{"datestamp", pterm.Sprintf("%t in %s as %s", d.UseDatestamp, d.DatestampIn, d.DatestampFormat)},
				{"auto_create", pterm.Sprint(d.AutoCreate)},
				{"dry_run", pterm.Sprint(d.DryRun)},
				{"templates", pterm.Sprint(len(d.Templates))},
				{"producers", pterm.Sprint(d.Producers)},
			}
			return pterm.DefaultTable.WithData(data).Render()
		},
	}
}

func newTreeCmd(open opener, jsonOutput *bool) *cobra.Command {
	var depth int
	var files bool
	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print the directory layout (default: project root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			out := e.IO.Tree(dir, depth, files)
			if *jsonOutput {
				return print(true, map[string]string{"tree": out}, "")
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", tree.DefaultDepth, "levels to descend")
	cmd.Flags().BoolVar(&files, "files", false, "include files")
	return cmd
}

type gitignoreResult struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	DryRun  bool   `json:"dryRun,omitempty"`
}

func newGitignoreCmd(open opener, jsonOutput *bool) *cobra.Command {
	var entries []string
	cmd := &cobra.Command{
		Use:   "gitignore [kinds...]",
		Short: "Add project directories to the managed .gitignore",
		Long:  "Without arguments the lightning, logs and cache directories are ignored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			path := e.IO.GitignorePath()
			if path == "" {
				return print(*jsonOutput, gitignoreResult{}, pterm.Warning.Sprint("gitignore management is disabled"))
			}
			kinds := args
			if len(kinds) == 0 && len(entries) == 0 {
				kinds = []string{template.RootLightning, template.RootLogs, template.RootCache}
			}
			changed, err := e.IO.EnsureGitignored(kinds...)
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				more, err := e.IO.AppendGitignore(entries...)
				if err != nil {
					return err
				}
				changed = changed || more
			}
			res := gitignoreResult{Path: path, Changed: changed, DryRun: e.IO.DryRun()}
			msg := pterm.Info.Sprintf("%s already up to date", path)
			if changed {
				msg = pterm.Success.Sprintf("updated %s", path)
			}
			return print(*jsonOutput, res, msg)
		},
	}
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "literal ignore entry (repeatable)")
	return cmd
}
