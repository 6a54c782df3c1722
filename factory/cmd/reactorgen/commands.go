package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bsmider/reactorgen/config"
	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory"
	"github.com/bsmider/reactorgen/logger"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile schemas and generate reactive clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		build, err := cfg.Build()
		if err != nil {
			return err
		}

		res, err := factory.Build(cmd.Context(), build, logger.ComponentLogger("build"))
		if err != nil {
			return err
		}
		if res.Schemas.Files == 0 {
			pterm.Info.Printfln("No schema files under %s", build.SourceDir)
			return nil
		}
		printSummary(res.Report, res.Files)
		return nil
	},
}

var synthImportPath string

var synthCmd = &cobra.Command{
	Use:   "synth [stub-dir]",
	Short: "Generate reactive clients from an existing stub directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, importPath := stubSource(cfg, args)

		files, report, err := synthesize(cmd.Context(), cfg.CodeGen(), dir, importPath)
		if err != nil {
			return err
		}
		printSummary(report, files)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [stub-dir]",
	Short: "Verify the output directory matches a fresh generation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, importPath := stubSource(cfg, args)

		tmp, err := os.MkdirTemp("", "reactorgen-check-*")
		if err != nil {
			return errors.Wrap(err, "failed to create temp directory")
		}
		defer os.RemoveAll(tmp)

		codegen := cfg.CodeGen()
		codegen.OutputDir = tmp
		if _, _, err := synthesize(cmd.Context(), codegen, dir, importPath); err != nil {
			return err
		}

		result, err := factory.CompareDirectories(tmp, cfg.OutputDir)
		if err != nil {
			return err
		}
		if !result.Clean() {
			pterm.Error.Println(result.String())
			return errors.WithHint(
				errors.Newf("%s is out of date", cfg.OutputDir),
				"run reactorgen synth to regenerate it")
		}
		pterm.Success.Printfln("%s is up to date", cfg.OutputDir)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{synthCmd, checkCmd} {
		cmd.Flags().StringVar(&synthImportPath, "import-path", "", "Import path of the stub directory (default: stub_import_path, or resolve through go/packages)")
	}
}

// stubSource picks the stub directory from args or configuration.
func stubSource(cfg *config.Config, args []string) (dir, importPath string) {
	dir = cfg.StubDir
	if dir == "" {
		dir = cfg.GeneratedDir
	}
	importPath = cfg.StubImportPath
	if len(args) == 1 {
		dir = args[0]
		importPath = ""
	}
	if synthImportPath != "" {
		importPath = synthImportPath
	}
	return dir, importPath
}

func synthesize(ctx context.Context, codegen factory.CodeGenConfig, dir, importPath string) ([]factory.GeneratedFile, *factory.SynthesisReport, error) {
	in, err := factory.LoadStubModel(ctx, dir, importPath)
	if err != nil {
		return nil, nil, err
	}
	gen := factory.NewGenerator(codegen, logger.ComponentLogger("factory"))
	return gen.Generate(ctx, in, factory.NewFileEmitter(codegen.OutputDir, logger.ComponentLogger("emit")))
}

func printSummary(report *factory.SynthesisReport, files []factory.GeneratedFile) {
	if logger.JSONOutput {
		return
	}
	pterm.Println()
	pterm.Success.Printfln("Generated %d files", len(files))

	data := pterm.TableData{{"Class", "File", "Bytes"}}
	for _, f := range files {
		data = append(data, []string{f.Class, f.RelativePath, pterm.Sprint(f.Size)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if report == nil {
		return
	}
	pterm.Info.Printfln("Services: %d  Client methods: %d  Config factories: %d",
		report.Services, report.Methods, report.Factories)
	for _, s := range report.Skipped {
		pterm.Warning.Println(s.String())
	}
}
