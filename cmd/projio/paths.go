package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"projio/internal/config"
	"projio/internal/project"
	"projio/internal/template"
)

type pathResult struct {
	Template string            `json:"template,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Path     string            `json:"path,omitempty"`
	Paths    map[string]string `json:"paths,omitempty"`
}

func newPathCmd(open opener, jsonOutput *bool) *cobra.Command {
	var run string
	var vars []string
	var ext string
	cmd := &cobra.Command{
		Use:   "path <template>",
		Short: "Resolve a registered path template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			values, err := parseVars(vars)
			if err != nil {
				return err
			}
			req := template.Request{
				Variant:   run,
				Vars:      values,
				Datestamp: tristate(cmd, "datestamp"),
				Create:    tristate(cmd, "create"),
			}
			if cmd.Flags().Changed("ext") {
				req.Ext = &ext
			}
			res, err := e.IO.TemplatePath(args[0], req)
			if err != nil {
				return err
			}
			out := pathResult{Template: args[0], Path: res.Path, Paths: res.Paths}
			return print(*jsonOutput, out, formatResult(res))
		},
	}
	cmd.Flags().StringVar(&run, "run", "", "variant (run) name")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "placeholder value as key=value (repeatable)")
	cmd.Flags().StringVar(&ext, "ext", "", "override the template extension")
	cmd.Flags().Bool("datestamp", true, "apply the datestamp (default: template and project settings)")
	cmd.Flags().Bool("create", true, "create missing directories (default: template and project settings)")
	return cmd
}

func formatResult(res template.Result) string {
	if !res.IsMapping() {
		return res.Path
	}
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(res.Paths)) {
		fmt.Fprintf(&b, "%s\t%s\n", pterm.Cyan(key), res.Paths[key])
	}
	return strings.TrimRight(b.String(), "\n")
}

func newForCmd(open opener, jsonOutput *bool) *cobra.Command {
	var subdirs []string
	var ext string
	cmd := &cobra.Command{
		Use:   "for <kind> [name]",
		Short: "Build a path under one of the project directories",
		Long:  "Kinds: " + strings.Join(template.Roots, ", "),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			path, err := e.IO.PathFor(args[0], name, project.PathOptions{
				Subdirs:   subdirs,
				Ext:       ext,
				Datestamp: tristate(cmd, "datestamp"),
				Create:    tristate(cmd, "create"),
			})
			if err != nil {
				return err
			}
			return print(*jsonOutput, pathResult{Kind: args[0], Path: path}, path)
		},
	}
	cmd.Flags().StringArrayVar(&subdirs, "subdir", nil, "directory between the kind and the name (repeatable)")
	cmd.Flags().StringVar(&ext, "ext", "", "extension for the file name")
	cmd.Flags().Bool("datestamp", true, "apply the datestamp (default: project settings)")
	cmd.Flags().Bool("create", true, "create missing directories (default: project settings)")
	return cmd
}

type templateInfo struct {
	Name         string   `json:"name"`
	Root         string   `json:"root"`
	Pattern      string   `json:"pattern"`
	Kind         string   `json:"kind"`
	Placeholders []string `json:"placeholders,omitempty"`
	Ext          string   `json:"ext,omitempty"`
	Dir          bool     `json:"dir,omitempty"`
}

func newTemplatesCmd(open opener, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List registered path templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			reg := e.IO.Registry()
			infos := make([]templateInfo, 0, reg.Len())
			for _, name := range reg.Names() {
				spec, err := reg.Get(name)
				if err != nil {
					return err
				}
				infos = append(infos, templateInfo{
					Name:         name,
					Root:         spec.RootLabel(),
					Pattern:      spec.Pattern.String(),
					Kind:         spec.Pattern.Kind().String(),
					Placeholders: spec.Placeholders(),
					Ext:          spec.Ext,
					Dir:          spec.IsDir(),
				})
			}
			if *jsonOutput {
				return print(true, infos, "")
			}
			data := pterm.TableData{{"NAME", "ROOT", "PATTERN", "EXT"}}
			for _, info := range infos {
				data = append(data, []string{info.Name, info.Root, info.Pattern, info.Ext})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
	cmd.AddCommand(newTemplatesAddCmd(open, jsonOutput))
	cmd.AddCommand(newTemplatesRemoveCmd(open, jsonOutput))
	return cmd
}

func newTemplatesAddCmd(open opener, jsonOutput *bool) *cobra.Command {
	var decl config.TemplateConfig
	var files []string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Declare a project template in the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			if e.ConfigPath == "" {
				return &exitError{code: 2, msg: "not inside a projio project; run `projio init` first"}
			}
			decl.Name = args[0]
			decl.Datestamp = tristate(cmd, "datestamp")
			decl.Create = tristate(cmd, "create")
			if len(files) > 0 {
				if decl.Files, err = parseVars(files); err != nil {
					return err
				}
			}
			cfg := e.Config
			if err := config.AddTemplate(&cfg, decl); err != nil {
				return err
			}
			if err := project.CheckTemplates(cfg.Templates); err != nil {
				return err
			}
			if !e.IO.DryRun() {
				if err := config.Save(e.ConfigPath, cfg); err != nil {
					return err
				}
			}
			return print(*jsonOutput, decl, pterm.Success.Sprintf("added template %s", decl.Name))
		},
	}
	cmd.Flags().StringVar(&decl.Root, "in", "", "project directory the template lives under (default outputs)")
	cmd.Flags().StringArrayVar(&decl.Under, "under", nil, "fixed directory below the root (repeatable)")
	cmd.Flags().StringArrayVar(&decl.Pattern, "pattern", nil, "path segment, may contain {placeholders} (repeatable)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "mapping entry as key=pattern (repeatable)")
	cmd.Flags().StringVar(&decl.Ext, "ext", "", "extension for the last segment")
	cmd.Flags().BoolVar(&decl.Dir, "dir", false, "the template names a directory")
	cmd.Flags().Bool("datestamp", true, "force the datestamp on or off for this template")
	cmd.Flags().Bool("create", true, "force directory creation on or off for this template")
	return cmd
}

func newTemplatesRemoveCmd(open opener, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a project template from the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			if e.ConfigPath == "" {
				return &exitError{code: 2, msg: "not inside a projio project; run `projio init` first"}
			}
			cfg := e.Config
			if err := config.RemoveTemplate(&cfg, args[0]); err != nil {
				return err
			}
			if !e.IO.DryRun() {
				if err := config.Save(e.ConfigPath, cfg); err != nil {
					return err
				}
			}
			return print(*jsonOutput, map[string]string{"removed": args[0]}, pterm.Success.Sprintf("removed template %s", args[0]))
		},
	}
}
