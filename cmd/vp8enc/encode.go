package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/pion/webrtc/v4/pkg/media/ivfreader"
	"github.com/pkg/errors"

	"github.com/llehouerou/go-vp8"
	"github.com/llehouerou/go-vp8/internal/config"
	"github.com/llehouerou/go-vp8/internal/record"
)

const fourCC = "VP80"

// sink receives each encoded frame.
type sink interface {
	write(f record.Frame) error
}

type rawSink struct{ w io.Writer }

func (s rawSink) write(f record.Frame) error {
	_, err := s.w.Write(f.Partition)
	return err
}

type recordSink struct{ w *record.Writer }

func (s recordSink) write(f record.Frame) error { return s.w.Write(f) }

func encode(cfg *config.Config, logger *slog.Logger, stdin io.Reader, stdout io.Writer) error {
	in, closeIn, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	ivf, header, err := ivfreader.NewWith(in)
	if err != nil {
		return errors.Wrap(err, "reading IVF header")
	}
	if header.FourCC != fourCC {
		return errors.Errorf("unsupported codec %q, want %s", header.FourCC, fourCC)
	}

	enc, err := vp8.New(header.Width, header.Height, vp8.WithLogger(logger))
	if err != nil {
		return err
	}
	if cfg.Resume != "" {
		if err := resume(enc, cfg.Resume); err != nil {
			return err
		}
		logger.Info("resumed", "checkpoint", cfg.Resume)
	}

	out, closeOut, err := openOutput(cfg.Output, stdout)
	if err != nil {
		return err
	}
	s, err := newSink(cfg, out)
	if err != nil {
		closeOut()
		return err
	}

	frames, written, err := encodeFrames(enc, ivf, s)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fingerprint := enc.Snapshot().Fingerprint()
	logger.Info("encoded",
		"frames", frames,
		"bytes", written,
		"width", header.Width,
		"height", header.Height,
		"fingerprint", fingerprint.String(),
	)

	if cfg.Checkpoint != "" {
		return writeCheckpoint(enc, cfg.Checkpoint)
	}
	return nil
}

func encodeFrames(enc *vp8.Encoder, ivf *ivfreader.IVFReader, s sink) (frames, written int, err error) {
	for {
		data, _, err := ivf.ParseNextFrame()
		if errors.Is(err, io.EOF) {
			return frames, written, nil
		}
		if err != nil {
			return frames, written, errors.Wrapf(err, "reading IVF frame %d", frames)
		}

		partition, err := enc.EncodeFrame(data)
		if err != nil {
			return frames, written, err
		}
		info := enc.LastFrame()
		f := record.Frame{
			Index:     info.Index,
			KeyFrame:  info.KeyFrame,
			Partition: partition,
			State:     enc.Snapshot().Fingerprint(),
		}
		if err := s.write(f); err != nil {
			return frames, written, errors.Wrapf(err, "writing frame %d", info.Index)
		}
		frames++
		written += len(partition)
	}
}

func newSink(cfg *config.Config, out io.Writer) (sink, error) {
	if cfg.Format == config.FormatRaw {
		return rawSink{w: out}, nil
	}
	c, err := record.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	return recordSink{w: record.NewWriter(out, c)}, nil
}

func resume(enc *vp8.Encoder, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var state vp8.DecoderState
	if err := state.UnmarshalBinary(data); err != nil {
		return errors.Wrapf(err, "checkpoint %s", path)
	}
	return enc.Restore(state)
}

func writeCheckpoint(enc *vp8.Encoder, path string) error {
	data, err := enc.Snapshot().MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
