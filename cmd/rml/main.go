// Package main provides the CLI tool for the .rml compiler.
//
// Usage:
//
//	rml build [path...]     Compile .rml files to .html, .css, and .js
//	rml check [path...]     Check .rml files without writing artifacts
//	rml dev <file.rml>      Serve a live preview of one file
//	rml help                Show help
//
// Examples:
//
//	rml build ./...         Recursively find and compile all .rml files
//	rml build -o dist app.rml  Compile one file into ./dist
//	rml check app.rml       Check syntax without writing artifacts
//	rml dev app.rml         Watch the file and preview it in a browser
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

const usage = `rml - compiler for .rml reactive markup documents

Usage:
  rml <command> [options] [path...]

Commands:
  build       Compile .rml files to .html, .css, and .js artifacts
  check       Check .rml files without writing artifacts
  dev         Serve a live preview of one .rml file
  version     Print version information
  help        Show this help message

Options:
  -o <dir>    build: write artifacts under dir instead of next to sources
  -v          Verbose output
  -addr       dev: listen address (overrides RML_DEV_ADDRESS)

Examples:
  rml build ./...                 Recursively compile all .rml files
  rml build -o dist app.rml       Compile one file into ./dist
  rml build -v ./pages            Verbose output during compilation
  rml check app.rml               Check without writing artifacts
  rml dev app.rml                 Watch and preview one file
  rml dev -addr localhost:3000 app.rml

For more information, see https://github.com/grindlemire/go-rml
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		if err := runBuild(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "dev":
		if err := runDev(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("rml version %s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}
