// Command lpzbench compares the compression ratio and speed of lpz with
// other compressors.
//
// Usage:
//
//	lpzbench [-suite suite.yaml] [-n runs] <file>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/pierrec/xxHash/xxHash32"
)

var (
	headingColor = color.New(color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// A result holds the measurements for one codec.
type result struct {
	name       string
	size       int
	compress   time.Duration
	decompress time.Duration
	err        error
}

func checksum(data []byte) uint32 {
	h := xxHash32.New(0)
	h.Write(data)
	return h.Sum32()
}

// measure compresses and decompresses data runs times with c, and checks
// that each round trip reproduces data. The durations are the fastest of
// the runs.
func measure(c codec, data []byte, runs int) result {
	r := result{name: c.name}
	want := checksum(data)
	for i := 0; i < runs; i++ {
		start := time.Now()
		compressed, err := c.compress(data)
		elapsed := time.Since(start)
		if err != nil {
			r.err = err
			return r
		}
		if i == 0 || elapsed < r.compress {
			r.compress = elapsed
		}
		r.size = len(compressed)

		start = time.Now()
		decompressed, err := c.decompress(compressed, len(data))
		elapsed = time.Since(start)
		if err != nil {
			r.err = err
			return r
		}
		if i == 0 || elapsed < r.decompress {
			r.decompress = elapsed
		}

		if len(decompressed) != len(data) || checksum(decompressed) != want {
			r.err = fmt.Errorf("round trip does not match the input")
			return r
		}
	}
	return r
}

func mbPerSecond(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds() / 1e6
}

func report(w io.Writer, results []result, inputSize int) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	headingColor.Fprintf(tw, "codec\tsize\tratio\tcompress MB/s\tdecompress MB/s\t\n")
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(tw, "%s\t%s\t\t\t\t\n", r.name, errorColor.Sprint("FAILED"))
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.1f\t%.1f\t\n",
			r.name,
			r.size,
			float64(inputSize)/float64(r.size),
			mbPerSecond(inputSize, r.compress),
			mbPerSecond(inputSize, r.decompress))
	}
	tw.Flush()
}

func run() int {
	suitePath := flag.String("suite", "", "YAML file listing the codecs to compare")
	runs := flag.Int("n", 3, "number of times to run each codec")
	flag.Parse()
	if flag.NArg() != 1 || *runs < 1 {
		fmt.Fprintf(os.Stderr, "usage: lpzbench [-suite suite.yaml] [-n runs] <file>\n")
		return 2
	}

	suite := DefaultSuite
	if *suitePath != "" {
		var err error
		suite, err = LoadSuite(*suitePath)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "lpzbench: %v\n", err)
			return 1
		}
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		errorColor.Fprintf(os.Stderr, "lpzbench: %v\n", err)
		return 1
	}
	if len(data) == 0 {
		errorColor.Fprintf(os.Stderr, "lpzbench: %s is empty\n", flag.Arg(0))
		return 1
	}

	var results []result
	failed := false
	for _, cfg := range suite.Codecs {
		c, err := newCodec(cfg)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "lpzbench: %v\n", err)
			return 1
		}
		r := measure(c, data, *runs)
		if r.err != nil {
			errorColor.Fprintf(os.Stderr, "lpzbench: %s: %v\n", r.name, r.err)
			failed = true
		}
		results = append(results, r)
	}

	fmt.Printf("%s: %d bytes\n", flag.Arg(0), len(data))
	report(os.Stdout, results, len(data))
	if failed {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
