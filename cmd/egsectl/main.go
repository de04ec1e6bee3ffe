// cmd/egsectl/main.go

// egsectl is the operator companion of egsed.
//
// Usage:
//
//	egsectl decode HEX [HEX ...]
//	egsectl diff [-encoding E] PREV CUR
//
// Example:
//
//	$> egsectl decode "00 00 00 90"
//	frame 00000090
//	  BUSK1  ON
//	  BUSK2  OFF
//	  BUND1  ON
//	  BUND2  OFF
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tamzrod/buk-egse/internal/logdiff"
	"github.com/tamzrod/buk-egse/internal/poller/replay"
	"github.com/tamzrod/buk-egse/internal/telemetry"
)

const usage = `egsectl inspects BUK telemetry frames and EGSE log snapshots.

Usage:
  egsectl decode HEX [HEX ...]
  egsectl diff [-encoding E] PREV CUR
`

func main() {
	log.SetPrefix("egsectl: ")
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "decode":
		err = runDecode(os.Stdout, os.Args[2:])
	case "diff":
		err = runDiff(os.Stdout, os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

// runDecode prints the power flags of every frame given in hex.
func runDecode(w io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("decode: at least one frame required")
	}

	failed := 0
	for _, arg := range args {
		frame, err := replay.ParseFrame(arg)
		if err != nil {
			log.Printf("decode %q: %v", arg, err)
			failed++
			continue
		}

		fmt.Fprintf(w, "frame %x\n", frame)

		p, err := telemetry.Decode(frame)
		if err != nil {
			fmt.Fprintf(w, "  error: %v\n", err)
			failed++
			continue
		}
		for _, f := range p.Flags() {
			fmt.Fprintf(w, "  %-6s %s\n", f.Name, telemetry.OnOff(f.On))
		}
	}

	if failed > 0 {
		return fmt.Errorf("decode: %d of %d frames failed", failed, len(args))
	}
	return nil
}

// runDiff prints the lines of CUR that are not in PREV.
// A missing file is reported and read as empty.
func runDiff(w io.Writer, args []string) error {
	fset := flag.NewFlagSet("diff", flag.ContinueOnError)
	enc := fset.String("encoding", logdiff.DefaultEncoding, "text encoding of both files (e.g. windows-1251)")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() != 2 {
		return errors.New("diff: PREV and CUR required")
	}

	prev, err := snapshot(fset.Arg(0), *enc)
	if err != nil {
		return err
	}
	cur, err := snapshot(fset.Arg(1), *enc)
	if err != nil {
		return err
	}

	for _, line := range logdiff.Diff(prev, cur) {
		fmt.Fprintln(w, line)
	}
	return nil
}

func snapshot(path, enc string) ([]string, error) {
	lines, err := logdiff.ReadAll(path, enc)
	if errors.Is(err, logdiff.ErrNotFound) {
		log.Printf("%s: file not found", path)
		return nil, nil
	}
	return lines, err
}
