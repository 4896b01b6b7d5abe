// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package framepack defines the logic for the "framepack" command-line tool.
//
// framepack loads a sequence of equal-length frame buffers, packs them, and
// writes the packed animation as source declarations (and, optionally, as a
// binary image) for embedding in firmware.
//
// Frames are read either from a single raw file split into --frame-size
// chunks, or from one file per frame given as positional arguments.
package framepack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danjacques/framepack/anim"
	"github.com/danjacques/framepack/emit"
	"github.com/danjacques/framepack/image"
	"github.com/danjacques/framepack/render"
	"github.com/danjacques/framepack/source"
	"github.com/danjacques/framepack/support/logging"
	"github.com/danjacques/framepack/support/stagingdir"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"
	"github.com/staD020/TSCrunch"
	"go.uber.org/zap"
)

// Output file names within --out-dir.
const (
	rustFileName    = "animation.rs"
	progmemFileName = "animation.h"
	imageFileName   = "animation.bin"
)

type app struct {
	input     string
	frameSize int
	workers   int

	dialects emit.DialectsFlag
	emitOpts emit.Options

	outDir           string
	tempDir          string
	writeImage       bool
	imageCompression image.CompressionFlag
	imageRLE         bool

	preview        bool
	displayColumns int

	crunch  bool
	metrics bool
	verbose bool

	logger logging.L

	// now, if not nil, stamps the binary image manifest.
	now func() time.Time
}

func (a *app) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&a.input, "input", "i", "",
		"Raw frame data file, split into --frame-size frames. Use \"-\" for stdin. "+
			"If empty, each positional argument is loaded as one frame.")
	fs.IntVarP(&a.frameSize, "frame-size", "s", 512, "Frame size, in bytes, when reading --input.")
	fs.IntVar(&a.workers, "workers", 0, "Number of frame diffing workers. If <= 0, one per CPU.")

	fs.VarP(&a.dialects, "dialect", "d",
		fmt.Sprintf("Output dialect(s), comma-separated (%s). Default is all.", emit.DialectFlagValues()))
	fs.StringVar(&a.emitOpts.Prefix, "prefix", "", "Prefix for every emitted name.")
	fs.IntVar(&a.emitOpts.Columns, "columns", emit.DefaultColumns, "Array elements per emitted line.")

	fs.StringVarP(&a.outDir, "out-dir", "o", "",
		"If set, write output files into this directory instead of printing to stdout.")
	fs.StringVar(&a.tempDir, "temp-dir", "", "Temporary directory used to stage --out-dir.")
	fs.BoolVar(&a.writeImage, "image", false, "Also write a binary image (requires --out-dir).")
	fs.Var(&a.imageCompression, "image-compression",
		fmt.Sprintf("Binary image payload compression (%s).", image.CompressionFlagValues()))
	fs.BoolVar(&a.imageRLE, "image-rle", true, "Run-length encode the binary image's diff bytes.")

	fs.BoolVar(&a.preview, "preview", false, "Render every decoded frame to stderr.")
	fs.IntVar(&a.displayColumns, "display-columns", 128, "Display width, in bytes, for --preview.")

	fs.BoolVar(&a.crunch, "crunch", false, "Report the TSCrunch-compressed size of the binary image.")
	fs.BoolVar(&a.metrics, "metrics", false, "Dump packing metrics to stderr on exit.")
	fs.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging.")
}

// Main is the main entry point.
func Main() {
	a := app{now: time.Now}
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	a.addFlags(fs)
	_ = fs.Parse(os.Args[1:])

	zl, err := newZapLogger(a.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create logger: %s\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	a.logger = zl.Sugar()

	reg := prometheus.NewRegistry()
	anim.RegisterMonitoring(reg)

	if err := a.run(context.Background(), fs.Args(), os.Stdout); err != nil {
		a.logger.Errorf("framepack failed: %s", err)
		os.Exit(1)
	}

	if a.metrics {
		if err := dumpMetrics(os.Stderr, reg); err != nil {
			a.logger.Warnf("Could not dump metrics: %s", err)
		}
	}
}

func newZapLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (a *app) loadFrames(args []string) ([][]byte, error) {
	switch {
	case a.input == "-":
		return source.ReadFrames(os.Stdin, a.frameSize)

	case a.input != "":
		fd, err := os.Open(a.input)
		if err != nil {
			return nil, errors.Wrap(err, "opening input")
		}
		defer fd.Close()
		return source.ReadFrames(fd, a.frameSize)

	case len(args) > 0:
		return source.LoadFiles(args...)

	default:
		return nil, errors.New("no input: supply --input or frame files")
	}
}

func (a *app) run(c context.Context, args []string, stdout io.Writer) error {
	logger := logging.Must(a.logger)

	if a.writeImage && a.outDir == "" {
		return errors.New("--image requires --out-dir")
	}

	frames, err := a.loadFrames(args)
	if err != nil {
		return errors.Wrap(err, "loading frames")
	}
	logger.Infof("Loaded %d frame(s) of %d bytes.", len(frames), len(frames[0]))

	packer := anim.Packer{
		Workers: a.workers,
		Logger:  logging.Prefix(logger, "pack: "),
	}
	pkg, err := packer.Pack(c, frames)
	if err != nil {
		return errors.Wrap(err, "packing frames")
	}

	st, err := pkg.Stats()
	if err != nil {
		return errors.Wrap(err, "computing statistics")
	}
	logger.Infof("Packed %d frame(s): %s raw, %s run-length encoded, %s packed (%d region(s), %d diff byte(s)).",
		st.Frames, humanize.Bytes(uint64(st.RawSize)), humanize.Bytes(uint64(st.RLESize)),
		humanize.Bytes(uint64(st.TotalSize)), st.Regions, st.DiffBytes)

	if a.preview {
		if err := a.renderPreview(os.Stderr, pkg); err != nil {
			return err
		}
	}

	if a.crunch {
		if err := a.reportCrunched(pkg); err != nil {
			return err
		}
	}

	if a.outDir == "" {
		opts := a.emitOpts
		opts.Fenced = true
		return emit.WriteAll(stdout, a.dialects.Value(), pkg, &opts)
	}
	return a.writeOutDir(pkg)
}

// writeOutDir writes every selected output into a staging directory and then
// moves it to a.outDir.
func (a *app) writeOutDir(pkg *anim.Package) (err error) {
	sd, err := stagingdir.New(a.tempDir, "framepack")
	if err != nil {
		return errors.Wrap(err, "creating staging directory")
	}
	defer func() {
		if destroyErr := sd.Destroy(); err == nil {
			err = destroyErr
		}
	}()

	for _, d := range a.dialects.Value() {
		name := rustFileName
		if d == emit.Progmem {
			name = progmemFileName
		}

		err := sd.WriteFile(name, func(w io.Writer) error { return emit.Write(w, d, pkg, &a.emitOpts) })
		if err != nil {
			return err
		}
	}

	if a.writeImage {
		err := sd.WriteFile(imageFileName, func(w io.Writer) error {
			_, err := image.Write(w, pkg, a.imageOptions())
			return err
		})
		if err != nil {
			return err
		}
	}

	if err := sd.Commit(a.outDir); err != nil {
		return err
	}
	logging.Must(a.logger).Infof("Wrote output to %q.", a.outDir)
	return nil
}

func (a *app) imageOptions() image.Options {
	opts := image.Options{
		Compression: a.imageCompression.Value(),
		RLE:         a.imageRLE,
		Manifest:    image.Manifest{Generator: "framepack"},
	}
	for _, d := range a.dialects.Value() {
		opts.Manifest.Dialects = append(opts.Manifest.Dialects, d.String())
	}
	if a.now != nil {
		opts.Manifest.Created = a.now()
	}
	return opts
}

func (a *app) renderPreview(w io.Writer, pkg *anim.Package) error {
	frames, err := pkg.Frames()
	if err != nil {
		return errors.Wrap(err, "decoding frames")
	}

	r := render.Renderer{On: '#', Off: '.'}
	for i, f := range frames {
		text, err := r.Text(f, a.displayColumns)
		if err != nil {
			return errors.Wrapf(err, "rendering frame %d", i)
		}
		if _, err := fmt.Fprintf(w, "Frame %d:\n%s\n", i, text); err != nil {
			return err
		}
	}
	return nil
}

// reportCrunched logs the size of the binary image after TSCrunch
// compression, for comparison with the packed size.
func (a *app) reportCrunched(pkg *anim.Package) error {
	var raw bytes.Buffer
	if _, err := image.Write(&raw, pkg, a.imageOptions()); err != nil {
		return errors.Wrap(err, "building binary image")
	}
	rawLen := raw.Len()

	tsc, err := TSCrunch.New(TSCrunch.Options{QUIET: true}, &raw)
	if err != nil {
		return errors.Wrap(err, "creating cruncher")
	}
	var crunched bytes.Buffer
	if _, err := tsc.WriteTo(&crunched); err != nil {
		return errors.Wrap(err, "crunching binary image")
	}

	logging.Must(a.logger).Infof("Binary image: %s, %s crunched.",
		humanize.Bytes(uint64(rawLen)), humanize.Bytes(uint64(crunched.Len())))
	return nil
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
