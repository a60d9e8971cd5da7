// daogen writes table definitions for the dao-tagged struct types of a
// package.
//
//	go run github.com/syssam/magicdao/cmd/daogen -pkg ./models -type Order,User
//
// For each type a <type>_dao.go file declaring <Type>Definition is written
// to the output directory, which defaults to the package directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/syssam/magicdao/compiler/gen"
	"github.com/syssam/magicdao/compiler/load"
)

func main() {
	var (
		pkg     = flag.String("pkg", ".", "package pattern to load")
		names   = flag.String("type", "", "comma separated type names; all tagged types when empty")
		out     = flag.String("out", "", "output directory; defaults to the package directory")
		header  = flag.String("header", gen.DefaultHeader, "header comment of generated files")
		tags    = flag.String("tags", "", "comma separated build tags")
		verbose = flag.Bool("v", false, "log every written file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: daogen [flags]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := &load.Config{Path: *pkg, Names: split(*names)}
	if *tags != "" {
		cfg.BuildFlags = []string{"-tags=" + *tags}
	}
	opts := []gen.Option{gen.WithHeader(*header)}
	if *out != "" {
		opts = append(opts, gen.WithTarget(*out))
	}
	if err := run(ctx, logger, cfg, opts); err != nil {
		logger.Error("daogen failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *load.Config, opts []gen.Option) error {
	gcfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	pkg, err := cfg.Load(ctx)
	if err != nil {
		return err
	}
	w := gen.NewWriter(gcfg)
	paths, err := w.Write(ctx, pkg)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Debug("wrote file", "path", p)
	}
	m := w.Metrics()
	logger.Info("generated definitions", "package", pkg.Path, "files", m.FilesGenerated, "bytes", m.TotalBytes)
	return nil
}

func split(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
