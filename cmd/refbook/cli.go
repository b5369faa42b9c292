package main

import (
	"context"
	"io"
	"iter"
	"log/slog"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/book"
	"github.com/fwojciec/refbook/mirror"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Sources   iter.Seq2[refbook.Source, error]
	Extractor refbook.Extractor
	Store     refbook.DocumentStore

	// Runs is nil unless the store keeps run history.
	Runs refbook.RunRecorder

	Syncer    *mirror.Syncer
	Binder    *book.Binder
	Converter refbook.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" env:"REFBOOK_CONFIG" default:"refbook.yaml" help:"Configuration file"`
	Content string `env:"REFBOOK_CONTENT" help:"Content directory (overrides config)"`
	Store   string `env:"REFBOOK_STORE" help:"Document store path (overrides config)"`
	Verbose bool   `short:"v" help:"Log details to stderr"`

	Sync    SyncCmd    `cmd:"" help:"Fetch reference pages into the store"`
	Print   PrintCmd   `cmd:"" help:"Assemble stored pages into one printable document"`
	List    ListCmd    `cmd:"" help:"List the reference catalog"`
	Missing MissingCmd `cmd:"" help:"List references without a stored page"`
	Runs    RunsCmd    `cmd:"" help:"Show sync history (sqlite store only)"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	Overwrite bool `help:"Refetch every reference, not only missing ones"`
}

// PrintCmd is the "print" subcommand.
type PrintCmd struct {
	Colored bool   `help:"Keep syntax highlighting"`
	Format  string `short:"f" enum:"html,markdown" default:"html" help:"Output format (html, markdown)"`
	Output  string `short:"o" help:"Write to file instead of stdout"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// MissingCmd is the "missing" subcommand.
type MissingCmd struct{}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Number of runs to show (0 for all)"`
}
