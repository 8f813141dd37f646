package vp8

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"

	"github.com/llehouerou/go-vp8/internal/chunk"
)

func TestErrorKind_Messages(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{0, "no error"},
		{ErrFraming, "invalid frame framing"},
		{ErrHeaderParse, "invalid frame header"},
		{ErrResidual, "residual stage failed"},
		{ErrorKind(-1), "unknown error"},
		{ErrorKind(99), "unknown error"},
	}
	for _, tt := range tests {
		if got := tt.kind.Error(); got != tt.want {
			t.Errorf("ErrorKind(%d).Error() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFrameError_IsAndUnwrap(t *testing.T) {
	cause := pkgerrors.Wrap(chunk.ErrStartCode, "frame 7")
	err := error(&FrameError{Index: 7, Kind: ErrFraming, Err: cause})

	if !errors.Is(err, ErrFraming) {
		t.Error("FrameError does not match its kind")
	}
	if errors.Is(err, ErrHeaderParse) {
		t.Error("FrameError matches a different kind")
	}
	if !errors.Is(err, chunk.ErrStartCode) {
		t.Error("FrameError does not unwrap to its cause")
	}

	var fe *FrameError
	if !errors.As(err, &fe) || fe.Index != 7 {
		t.Errorf("errors.As = %+v", fe)
	}
	want := "vp8: frame 7: invalid frame framing: frame 7: chunk: invalid key frame start code"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestReject_Classification(t *testing.T) {
	e, err := New(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"too small", chunk.ErrChunkTooSmall, ErrFraming},
		{"wrapped partition", pkgerrors.Wrap(chunk.ErrTruncatedPartition, "x"), ErrFraming},
		{"partition count", chunk.ErrPartitionCount, ErrFraming},
		{"no key frame", ErrNoKeyFrame, ErrFraming},
		{"anything else", errors.New("bad header"), ErrHeaderParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fe *FrameError
			if !errors.As(e.reject(3, tt.err), &fe) {
				t.Fatal("reject did not return a FrameError")
			}
			if fe.Kind != tt.want || fe.Index != 3 {
				t.Errorf("reject = kind %v index %d, want %v 3", fe.Kind, fe.Index, tt.want)
			}
		})
	}
}
