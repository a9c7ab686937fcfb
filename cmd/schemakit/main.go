package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	j "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	schemakit "github.com/qubit-energy/schemakit"
	"github.com/qubit-energy/schemakit/i18n"
	"github.com/qubit-energy/schemakit/internal/gen"
	"github.com/qubit-energy/schemakit/internal/log"
	"github.com/qubit-energy/schemakit/internal/report"
)

// CLI is the root command tree. Values may come from flags, environment, or a
// schemakit config file in JSON/YAML/TOML, in that priority order.
type CLI struct {
	SchemaDir string `help:"Directory containing schema documents." default:"schemas/v0.1" env:"SCHEMAKIT_SCHEMA_DIR"`
	LogLevel  string `help:"Log level." enum:"debug,info,warn,error" default:"info"`
	Lang      string `help:"Message language." enum:"en,ja" default:"en"`

	Validate ValidateCmd `cmd:"" help:"Validate data documents against the schema corpus."`
	Generate GenerateCmd `cmd:"" help:"Generate TypeScript definitions from the schema corpus."`
	Config   ConfigCmd   `cmd:"" help:"Configuration helpers."`
}

func main() {
	var cli CLI
	jsonPaths, yamlPaths, tomlPaths := configCandidatePaths()
	ctx := kong.Parse(&cli,
		kong.Name("schemakit"),
		kong.Description("Qubit Energy schema corpus tooling: type generation and validation."),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML; flags and env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	i18n.SetLanguage(cli.Lang)
	logger := log.Setup(cli.LogLevel)
	ctx.Bind(logger)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

func configCandidatePaths() (jsonPaths, yamlPaths, tomlPaths []string) {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "schemakit"))
	}
	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, "schemakit.json"))
		yamlPaths = append(yamlPaths, filepath.Join(d, "schemakit.yaml"))
		tomlPaths = append(tomlPaths, filepath.Join(d, "schemakit.toml"))
	}
	return jsonPaths, yamlPaths, tomlPaths
}

// ValidateCmd validates a data file or every data file in a directory.
type ValidateCmd struct {
	Target  string `arg:"" optional:"" default:"examples" help:"File or directory to validate."`
	Strict  bool   `help:"Stop at the first failing file."`
	Verbose bool   `short:"v" help:"Show detail messages for passing files too."`
}

func (c *ValidateCmd) Run(logger *slog.Logger, root *CLI) error {
	eng, err := schemakit.Open(root.SchemaDir)
	if err != nil {
		return err
	}
	logger.Info("loaded schema corpus", "dir", root.SchemaDir, "documents", eng.Store().Len())

	files, err := collectDataFiles(c.Target)
	if err != nil {
		return err
	}

	validator := eng.Validator()
	results := make([]report.Result, 0, len(files))
	var issues schemakit.Issues
	for _, path := range files {
		res, issue := validateOne(validator, path)
		results = append(results, res)
		if issue != nil {
			issues = append(issues, *issue)
		}
		if c.Strict && !res.OK {
			break
		}
	}

	report.Render(os.Stdout, results, c.Verbose)
	if failed := report.Failed(results); failed > 0 {
		if len(issues) > 0 {
			return issues
		}
		return fmt.Errorf("%d of %d documents failed validation", failed, len(results))
	}
	return nil
}

// validateOne produces a display result for a single file, plus the Issue for
// the batch summary when the failure has one. Failures here are isolated: a
// malformed or mismatched file never aborts the rest of a batch.
func validateOne(v *schemakit.Validator, path string) (report.Result, *schemakit.Issue) {
	file := filepath.Base(path)

	data, err := schemakit.DecodeFile(path)
	if err != nil {
		var mal *schemakit.MalformedDocumentError
		if errors.As(err, &mal) {
			issue := &schemakit.Issue{
				Code:    schemakit.CodeParseError,
				Message: i18n.T(schemakit.CodeParseError, nil) + ": " + mal.Err.Error(),
				Params:  map[string]string{"file": file},
			}
			return report.Result{File: file, Message: issue.Error()}, issue
		}
		return report.Result{File: file, Message: err.Error()}, nil
	}
	name := strings.TrimSuffix(file, filepath.Ext(file))
	schema, err := v.SchemaFor(name)
	if err != nil {
		return report.Result{File: file, Message: err.Error()}, nil
	}
	verdict, err := v.Validate(data, schema)
	if err != nil {
		return report.Result{File: file, Message: err.Error()}, nil
	}
	if !verdict.OK {
		return report.Result{File: file, Message: verdict.Issue.Error()}, verdict.Issue
	}
	return report.Result{File: file, OK: true, Message: "valid"}, nil
}

var dataExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}

func collectDataFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &schemakit.NotFoundError{Path: target}
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !dataExts[filepath.Ext(e.Name())] {
			continue
		}
		files = append(files, filepath.Join(target, e.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, &schemakit.NotFoundError{Path: target}
	}
	return files, nil
}

// GenerateCmd emits TypeScript definitions for the whole corpus.
type GenerateCmd struct {
	OutputDir string `help:"Output directory for TypeScript files." default:"generated/types"`
}

func (c *GenerateCmd) Run(logger *slog.Logger, root *CLI) error {
	eng, err := schemakit.Open(root.SchemaDir)
	if err != nil {
		return err
	}
	logger.Info("loaded schema corpus", "dir", root.SchemaDir, "documents", eng.Store().Len())

	synth := eng.Synthesizer()
	docs, err := synth.SynthesizeCorpus(eng.Store())
	if err != nil {
		return err
	}
	defs := synth.Definitions()

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return err
	}

	defNames := make(map[string]bool, len(defs))
	for _, d := range defs {
		defNames[d.Name] = true
	}
	if len(defs) > 0 {
		if err := writeFile(logger, filepath.Join(c.OutputDir, "definitions.ts"), gen.RenderDefinitions(defs)); err != nil {
			return err
		}
	}

	files := make([]gen.File, 0, len(docs))
	for _, dd := range docs {
		files = append(files, gen.File{Name: dd.Document, Def: dd.Def})
	}
	for _, f := range files {
		if err := writeFile(logger, filepath.Join(c.OutputDir, f.Name+".ts"), gen.RenderDocument(f, defNames)); err != nil {
			return err
		}
	}
	if err := writeFile(logger, filepath.Join(c.OutputDir, "index.ts"), gen.RenderIndex(files, len(defs) > 0)); err != nil {
		return err
	}

	logger.Info("generation complete", "types", len(files), "definitions", len(defs), "output", c.OutputDir)
	return nil
}

func writeFile(logger *slog.Logger, path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return err
	}
	logger.Info("generated", "file", filepath.Base(path))
	return nil
}

// ConfigCmd groups config-related subcommands.
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Generate a configuration template."`
}

// ConfigInitCmd scaffolds a schemakit config file with the defaults spelled out.
type ConfigInitCmd struct {
	Format string `help:"Output format." enum:"json,yaml,toml" default:"yaml"`
	Output string `help:"Destination file path (defaults to schemakit.<format>)."`
	Force  bool   `help:"Overwrite if the file already exists."`
}

func (c *ConfigInitCmd) Run(logger *slog.Logger, root *CLI) error {
	template := map[string]any{
		"schema-dir": root.SchemaDir,
		"log-level":  root.LogLevel,
		"lang":       root.Lang,
	}

	var (
		content []byte
		err     error
	)
	switch c.Format {
	case "json":
		content, err = j.MarshalIndent(template, "", "  ")
	case "yaml":
		content, err = yaml.Marshal(template)
	case "toml":
		var tree *toml.Tree
		tree, err = toml.TreeFromMap(template)
		if err == nil {
			var s string
			s, err = tree.ToTomlString()
			content = []byte(s)
		}
	default:
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = "schemakit." + c.Format
	}
	if !c.Force {
		if _, statErr := os.Stat(dest); statErr == nil {
			return errors.New(dest + " already exists (use --force to overwrite)")
		}
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return err
	}
	logger.Info("wrote config template", "file", dest)
	return nil
}
