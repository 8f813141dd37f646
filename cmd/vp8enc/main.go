// vp8enc re-serializes the first partition of every frame in a VP8 IVF
// file while tracking the persistent codec state across frames.
//
// Output is either the concatenated first partitions (raw) or a CBOR
// record stream with one record per frame (records). A checkpoint of
// the codec state can be written after the last frame and restored to
// continue a stream in a later run.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/llehouerou/go-vp8/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var configPath string
	overrides := config.Default()

	flagSet := pflag.NewFlagSet("vp8enc", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML or JSONC configuration file")
	flagSet.StringVarP(&overrides.Input, "input", "i", overrides.Input, "IVF input file, - for stdin")
	flagSet.StringVarP(&overrides.Output, "output", "o", overrides.Output, "output file, - for stdout")
	flagSet.StringVarP(&overrides.Format, "format", "f", overrides.Format, "output format: raw or records")
	flagSet.StringVar(&overrides.Compression, "compression", overrides.Compression, "record payload compression: none, lz4 or zstd")
	flagSet.StringVar(&overrides.Resume, "resume", "", "checkpoint to restore before the first frame")
	flagSet.StringVar(&overrides.Checkpoint, "checkpoint", "", "write a checkpoint after the last frame")
	flagSet.StringVar(&overrides.Log.Level, "log-level", overrides.Log.Level, "debug, info, warn or error")
	flagSet.StringVar(&overrides.Log.Format, "log-format", overrides.Log.Format, "text or json")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlags(cfg, overrides, flagSet)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(stderr, cfg.Log)
	if err != nil {
		return err
	}
	return encode(cfg, logger, stdin, stdout)
}

// applyFlags copies the flags that were set on the command line over cfg.
func applyFlags(cfg, flags *config.Config, flagSet *pflag.FlagSet) {
	set := func(name string, dst *string, src string) {
		if flagSet.Changed(name) {
			*dst = src
		}
	}
	set("input", &cfg.Input, flags.Input)
	set("output", &cfg.Output, flags.Output)
	set("format", &cfg.Format, flags.Format)
	set("compression", &cfg.Compression, flags.Compression)
	set("resume", &cfg.Resume, flags.Resume)
	set("checkpoint", &cfg.Checkpoint, flags.Checkpoint)
	set("log-level", &cfg.Log.Level, flags.Log.Level)
	set("log-format", &cfg.Log.Format, flags.Log.Format)
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `vp8enc re-serializes VP8 first partitions from an IVF file.

Usage:
  vp8enc [flags]

Examples:
  # Raw first partitions to stdout
  vp8enc -i clip.ivf > partitions.bin

  # zstd-compressed record stream with a final checkpoint
  vp8enc -i clip.ivf -o clip.rec -f records --compression zstd --checkpoint clip.state

  # Continue a stream from a checkpoint
  vp8enc -i tail.ivf --resume clip.state -o tail.bin

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
