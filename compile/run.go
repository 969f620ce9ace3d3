package compile

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"xcss/archive"
	"xcss/common"
	"xcss/css"
	"xcss/source"
	"xcss/state"
	"xcss/transform"
)

// StdoutDestination makes compile write all results to standard output.
const StdoutDestination = "-"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst != StdoutDestination {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if name := cmd.String("style"); len(name) > 0 {
		style, err := common.ParseOutputStyle(name)
		if err != nil {
			log.Warn("Unknown output style requested, using configured one", zap.Stringer("style", env.Cfg.Compiler.Output.Style), zap.Error(err))
		} else {
			env.Cfg.Compiler.Output.Style = style
		}
	}
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("style", env.Cfg.Compiler.Output.Style))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process compiles single description file or every description file in the
// directory. Sources are compiled independently, failures are logged and
// reported together at the end.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	var (
		sources = []string{src}
		opts    []source.Option
		stored  bool
	)
	switch {
	case fi.Mode().IsDir():
		if sources, err = listSources(src); err != nil {
			return fmt.Errorf("unable to process directory: %w", err)
		}
	case fi.Mode().IsRegular() && archive.IsBundle(src):
		b, err := archive.Open(src)
		if err != nil {
			return fmt.Errorf("unable to open archive: %w", err)
		}
		defer b.Close()

		if sources, err = listBundle(b); err != nil {
			return fmt.Errorf("unable to process archive: %w", err)
		}
		opts = append(opts, source.WithReader(b.ReadFile))
		if err := state.EnvFromContext(ctx).Rpt.StoreCopy(filepath.Join("sources", filepath.Base(src)), src); err != nil {
			log.Warn("Unable to store archive in the report", zap.Error(err))
		}
		stored = true
	case !fi.Mode().IsRegular():
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	if len(sources) == 0 {
		log.Debug("Nothing to process", zap.String("source", src))
		return nil
	}

	failed := 0
	for _, name := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		// every source gets fresh loader so problems of shared partials are
		// reported for each source importing them
		if err := processFile(ctx, source.NewLoader(log, opts...), name, dst, !stored, log); err != nil {
			log.Error("Unable to compile file", zap.String("file", name), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("unable to compile %d of %d source(s)", failed, len(sources))
	}
	return nil
}

// listSources returns description files in dir (not recursive) in natural
// order. Files starting with underscore are partials meant to be imported.
func listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && isSource(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	sources := make([]string, 0, len(names))
	for _, name := range names {
		sources = append(sources, filepath.Join(dir, name))
	}
	return sources, nil
}

// listBundle returns file system paths of description files in the archive,
// partials are skipped the same way they are in directories.
func listBundle(b *archive.Bundle) ([]string, error) {
	var sources []string
	err := b.Walk(func(entry string) bool {
		return isSource(path.Base(entry))
	}, func(name string, _ *zip.File) error {
		sources = append(sources, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Sort(natural.StringSlice(sources))
	return sources, nil
}

func isSource(name string) bool {
	if strings.HasPrefix(name, "_") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// processFile compiles single description file. Output is produced only when
// the whole compilation succeeds.
func processFile(ctx context.Context, loader *source.Loader, src, dst string, store bool, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Compilation starting", zap.String("from", src))
	defer func(start time.Time) {
		if rerr == nil {
			log.Info("Compilation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	f, err := loader.Load(src)
	if err != nil {
		return fmt.Errorf("unable to load source: %w", err)
	}
	if store {
		if err := env.Rpt.StoreCopy(filepath.Join("sources", filepath.Base(src)), src); err != nil {
			log.Warn("Unable to store source in the report", zap.Error(err))
		}
	}

	pipeline := newPipeline(env, f, log)
	out := env.Cfg.Compiler.Output
	printer := css.Printer{Style: out.Style, Indent: out.Indent}

	if dst == StdoutDestination {
		outputName = "STDOUT"
		return pipeline.Compile(f.Sheet, printer, env.Stdout)
	}

	outputName = buildOutputPath(f, dst, env)

	var buf bytes.Buffer
	if err := pipeline.Compile(f.Sheet, printer, &buf); err != nil {
		return err
	}

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(outputName, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	env.Rpt.Store(filepath.Join("results", filepath.Base(outputName)), outputName)
	return nil
}

func newPipeline(env *state.LocalEnv, f *source.File, log *zap.Logger) *transform.Pipeline {
	opts := []transform.Option{
		transform.WithImportDiagnostics(env.Cfg.Compiler.OnImportCycle),
	}
	if env.Rpt != nil {
		base := strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
		opts = append(opts, transform.WithStageHook(func(stage string, sheet *css.Stylesheet) {
			env.Rpt.StoreData(fmt.Sprintf("stages/%s/%s.txt", base, stage), []byte(css.Dump(sheet)))
		}))
	}
	return transform.NewPipeline(log, opts...)
}
