// Command lpz compresses and decompresses files in the lpz format.
//
// Usage:
//
//	lpz compress [-f] [-q] [-chain N] [-lazy] [-fast] <in> [out]
//	lpz decompress [-f] [-q] <in> [out]
//	lpz info <in>
//	lpz matches [-chain N] [-lazy] [-fast] <in>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/lpz"
	"github.com/andybalholm/lpz/block"
	"github.com/andybalholm/lpz/huffman"
	"github.com/andybalholm/lpz/internal/fileio"
	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
)

// Extension is added to the names of compressed files.
const Extension = ".lpz"

var (
	errorColor = color.New(color.FgRed, color.Bold)
	noteColor  = color.New(color.FgCyan)
)

// errBadFlags is returned when a flag set fails to parse. The flag package
// has already reported the problem.
var errBadFlags = errors.New("bad flags")

// A usageError is reported with exit status 2.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: lpz <command> [flags] <file> [out]

commands:
  compress     compress a file (output defaults to <file>.lpz)
  decompress   decompress a file (output defaults to <file> without .lpz)
  info         describe the frames of a compressed file
  matches      print the matches found in the first block of a file
`)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "compress":
		err = compressCmd(args[1:], stderr)
	case "decompress":
		err = decompressCmd(args[1:], stderr)
	case "info":
		err = infoCmd(args[1:], stdout, stderr)
	case "matches":
		err = matchesCmd(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		err = usageError{fmt.Sprintf("unknown command %q", args[0])}
	}

	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errBadFlags):
		return 2
	case errors.As(err, &ue):
		errorColor.Fprintf(stderr, "lpz: %v\n", err)
		usage(stderr)
		return 2
	default:
		errorColor.Fprintf(stderr, "lpz: %v\n", err)
		return 1
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// finderFlags holds the flags that configure the match finder.
type finderFlags struct {
	chain *int
	lazy  *bool
	fast  *bool
}

func addFinderFlags(fs *flag.FlagSet) finderFlags {
	return finderFlags{
		chain: fs.Int("chain", 32, "number of hash chain entries to search"),
		lazy:  fs.Bool("lazy", false, "use lazy matching"),
		fast:  fs.Bool("fast", false, "use the faster single-probe match finder"),
	}
}

func (f finderFlags) matchFinder() lpz.MatchFinder {
	if *f.fast {
		return &lpz.QuickMatchFinder{}
	}
	hc := &lpz.HashChain{SearchLen: *f.chain}
	if *f.lazy {
		hc.Parser = lpz.LazyParser{}
	}
	return hc
}

// parseArgs parses the flags in args, and returns the input and output
// paths. If no output path is given, out is empty.
func parseArgs(fs *flag.FlagSet, args []string, maxPaths int) (in, out string, err error) {
	if err := fs.Parse(args); err != nil {
		return "", "", errBadFlags
	}
	switch n := fs.NArg(); {
	case n == 0:
		return "", "", usageError{fs.Name() + ": no input file"}
	case n > maxPaths:
		return "", "", usageError{fs.Name() + ": too many arguments"}
	case n == 2:
		out = fs.Arg(1)
	}
	return fs.Arg(0), out, nil
}

// newBar returns a progress bar counting up to total bytes, or nil if
// quiet is set.
func newBar(total int, quiet bool, stderr io.Writer) *pb.ProgressBar {
	if quiet {
		return nil
	}
	bar := pb.New(total)
	bar.Set(pb.Bytes, true)
	bar.SetWriter(stderr)
	return bar.Start()
}

func compressCmd(args []string, stderr io.Writer) error {
	fs := newFlagSet("compress", stderr)
	force := fs.Bool("f", false, "overwrite the output file if it exists")
	quiet := fs.Bool("q", false, "don't show progress")
	finder := addFinderFlags(fs)
	in, out, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	if out == "" {
		out = in + Extension
	}

	data, err := fileio.ReadFile(in)
	if err != nil {
		return err
	}

	p := &block.Pipeline{MatchFinder: finder.matchFinder()}
	bar := newBar(len(data), *quiet, stderr)
	if bar != nil {
		p.Progress = func(consumed, _ int) {
			bar.SetCurrent(int64(consumed))
		}
	}
	compressed, err := p.Compress(data)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	if err := fileio.WriteFile(out, compressed, *force); err != nil {
		return err
	}
	if !*quiet {
		noteColor.Fprintf(stderr, "%s: %d -> %d bytes (ratio %.3f)\n", out, len(data), len(compressed), float64(len(data))/float64(len(compressed)))
	}
	return nil
}

func decompressCmd(args []string, stderr io.Writer) error {
	fs := newFlagSet("decompress", stderr)
	force := fs.Bool("f", false, "overwrite the output file if it exists")
	quiet := fs.Bool("q", false, "don't show progress")
	in, out, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	if out == "" {
		if !strings.HasSuffix(in, Extension) || len(in) == len(Extension) {
			return fmt.Errorf("cannot infer output path for %s; give one explicitly", in)
		}
		out = strings.TrimSuffix(in, Extension)
	}

	data, err := fileio.ReadFile(in)
	if err != nil {
		return err
	}

	var p block.Pipeline
	bar := newBar(len(data), *quiet, stderr)
	if bar != nil {
		p.Progress = func(consumed, _ int) {
			bar.SetCurrent(int64(consumed))
		}
	}
	decompressed, err := p.Decompress(data)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	if err := fileio.WriteFile(out, decompressed, *force); err != nil {
		return err
	}
	if !*quiet {
		noteColor.Fprintf(stderr, "%s: %d bytes\n", out, len(decompressed))
	}
	return nil
}

func infoCmd(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("info", stderr)
	in, _, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	data, err := fileio.ReadFile(in)
	if err != nil {
		return err
	}
	frames, err := block.Frames(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%-6s %10s %10s %10s %8s %9s\n", "frame", "stored", "tokens", "block", "symbols", "estimate")
	total := 0
	for i, f := range frames {
		h, err := huffman.ReadHeader(f)
		if err != nil {
			return lpz.Wrap(lpz.SystemError, err, "frame %d", i)
		}
		tokens, err := huffman.Decode(f)
		if err != nil {
			return lpz.Wrap(lpz.SystemError, err, "frame %d", i)
		}
		decompressed, err := block.DecompressBlock(f)
		if err != nil {
			return lpz.Wrap(lpz.SystemError, err, "frame %d", i)
		}
		total += len(decompressed)
		fmt.Fprintf(stdout, "%-6d %10d %10d %10d %8d %9.3f\n", i, len(f), h.Size, len(decompressed), h.Symbols(), huffman.EstimateRatio(tokens))
	}
	fmt.Fprintf(stdout, "%d frames, %d -> %d bytes\n", len(frames), total, len(data))
	return nil
}

func matchesCmd(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("matches", stderr)
	finder := addFinderFlags(fs)
	in, _, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	data, err := fileio.ReadFile(in)
	if err != nil {
		return err
	}
	if len(data) > block.MaxBlockSize {
		data = data[:block.MaxBlockSize]
	}

	var e lpz.TextEncoder
	matches := finder.matchFinder().FindMatches(nil, data)
	out := e.Encode(e.Header(nil), data, matches)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err = stdout.Write(out)
	return err
}
