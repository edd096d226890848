package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/go-rml/internal/config"
	"github.com/grindlemire/go-rml/pkg/rml"
)

// runBuild implements the build subcommand. Files compile in parallel and
// each produces .html, .css, and .js artifacts next to the source, or under
// the -o directory (RML_OUT_DIR when the flag is absent).
func runBuild(args []string) error {
	verbose := false
	outDir := ""
	var paths []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-v", "--verbose":
			verbose = true
		case "-o", "--out":
			i++
			if i >= len(args) {
				return fmt.Errorf("-o requires a directory")
			}
			outDir = args[i]
		default:
			paths = append(paths, args[i])
		}
	}

	// Default to current directory if no paths specified
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if outDir == "" {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		outDir = cfg.OutDir
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	files, err := collectRmlFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .rml files found")
	}

	if verbose {
		fmt.Printf("Found %d .rml file(s)\n", len(files))
	}

	// Each file is independent, so compile them in parallel. Failures are
	// counted rather than propagated so every file gets a diagnostic.
	var group errgroup.Group
	var errorCount atomic.Int64

	for _, inputPath := range files {
		inputPath := inputPath
		group.Go(func() error {
			if err := buildFile(inputPath, outDir, verbose); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				errorCount.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	if n := errorCount.Load(); n > 0 {
		return fmt.Errorf("%d file(s) had errors", n)
	}

	if verbose {
		fmt.Printf("Successfully compiled %d file(s)\n", len(files))
	}
	return nil
}

// collectRmlFiles finds all .rml files from the given paths.
// Supports:
//   - Direct file paths: "app.rml"
//   - Directory paths: "./pages"
//   - Recursive pattern: "./..."
func collectRmlFiles(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		// Handle ./... recursive pattern
		if strings.HasSuffix(path, "/...") {
			root := strings.TrimSuffix(path, "/...")
			if root == "" {
				root = "."
			}

			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.HasSuffix(p, ".rml") {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", root, err)
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			// Collect all .rml files in directory (non-recursive)
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", path, err)
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".rml") {
					files = append(files, filepath.Join(path, entry.Name()))
				}
			}
		} else if strings.HasSuffix(path, ".rml") {
			files = append(files, path)
		}
	}

	return files, nil
}

// buildFile compiles one source file and writes its three artifacts.
func buildFile(inputPath, outDir string, verbose bool) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	out, err := rml.Compile(filepath.Base(inputPath), string(source))
	if err != nil {
		return err
	}

	dir := filepath.Dir(inputPath)
	if outDir != "" {
		dir = outDir
	}
	name := strings.TrimSuffix(filepath.Base(inputPath), ".rml")

	artifacts := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, name+".html"), out.HTML},
		{filepath.Join(dir, name+".css"), out.CSS},
		{filepath.Join(dir, name+".js"), out.JS},
	}
	for _, artifact := range artifacts {
		if err := os.WriteFile(artifact.path, []byte(artifact.content), 0o644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote %s\n", artifact.path)
		}
	}
	return nil
}
