package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bsmider/reactorgen/factory"
	"github.com/bsmider/reactorgen/logger"
)

const (
	stubImportPath = "github.com/bsmider/reactorgen/example/orderpb"
	basePackage    = "github.com/bsmider/reactorgen/example/reactive"
)

// Run from the repository root: go run ./example
func main() {
	if err := logger.Initialize(false, 0); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Printf("Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}

	stubDir := filepath.Join(cwd, "example", "orderpb")
	outputDir := filepath.Join(cwd, "example", "generated")

	cfg := factory.DefaultCodeGenConfig()
	cfg.BasePackage = basePackage
	cfg.OutputDir = outputDir

	ctx := context.Background()
	in, err := factory.LoadStubModel(ctx, stubDir, stubImportPath)
	if err != nil {
		fmt.Printf("Failed to load stubs: %v\n", err)
		os.Exit(1)
	}

	files, report, err := factory.NewGenerator(cfg, nil).Generate(ctx, in, factory.NewFileEmitter(outputDir, nil))
	if err != nil {
		fmt.Printf("Generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d services\n", report.Services)
	for _, s := range report.Skipped {
		fmt.Printf("  skipped %s\n", s)
	}

	fmt.Println("\nGenerated files:")
	for _, f := range files {
		fmt.Printf("  %s (%d bytes)\n", f.RelativePath, f.Size)
	}
}
