// Command hashart renders deterministic dot artworks from 32-byte hashes.
//
// Every artwork is a pure function of its hash: the same hash always yields
// the same 450 dots in the same two colors. The commands below render
// artworks to PNG or SVG, export the scene description, mint hashes, and
// inspect the local render history.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"hashart/core"
)

// envFile is loaded before any command runs. A missing file is fine.
const envFile = ".env"

type command struct {
	name    string
	summary string
	run     func(cli *cli, args []string) int
}

var commands = []command{
	{"render", "render one artwork to a file", runRender},
	{"batch", "render many artworks in parallel", runBatch},
	{"scene", "print the scene description as JSON or YAML", runScene},
	{"hash", "print a random or phrase-derived hash", runHash},
	{"history", "list or prune recorded renders", runHistory},
	{"validate", "check configuration and environment", runValidate},
	{"version", "print version information", runVersion},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries the process streams through a command.
type cli struct {
	stdout  io.Writer
	stderr  io.Writer
	envPath string
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "warning: failed to load %s: %v\n", envFile, err)
	}

	c := &cli{stdout: stdout, stderr: stderr, envPath: envFile}
	if len(args) == 0 {
		c.usage(stderr)
		return core.ExitCodeUsage
	}

	name := args[0]
	switch name {
	case "help", "-h", "-help", "--help":
		c.usage(stdout)
		return core.ExitCodeSuccess
	}
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(c, args[1:])
		}
	}

	fmt.Fprintf(stderr, "hashart: unknown command %q\n\n", name)
	c.usage(stderr)
	return core.ExitCodeUsage
}

func (c *cli) usage(w io.Writer) {
	var sb strings.Builder
	sb.WriteString("Usage: hashart <command> [flags]\n\nCommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(&sb, "  %-9s %s\n", cmd.name, cmd.summary)
	}
	sb.WriteString("\nRun 'hashart <command> -help' for command flags.\n")
	sb.WriteString("Settings are read from the environment and .env; flags override them.\n")
	fmt.Fprint(w, sb.String())
}
