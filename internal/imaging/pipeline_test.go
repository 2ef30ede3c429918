package imaging_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/snapstage/snapstage/internal/imaging"
	"github.com/snapstage/snapstage/internal/staging"
)

func newPipeline(t *testing.T) (*imaging.Pipeline, *staging.Stager) {
	t.Helper()
	stager, err := staging.New(nil, t.TempDir())
	if err != nil {
		t.Fatalf("new stager: %v", err)
	}
	return imaging.NewPipeline(nil, stager, nil), stager
}

func pngPayload(total int) []byte {
	data := make([]byte, total)
	copy(data, []byte{0x89, 0x50, 0x4E, 0x47})
	for i := 4; i < total; i++ {
		data[i] = byte(i)
	}
	return data
}

func TestPipelineProcessPNGWithCaption(t *testing.T) {
	t.Parallel()

	pipeline, _ := newPipeline(t)
	data := pngPayload(5004)

	result, err := pipeline.Process(context.Background(), data, imaging.NewCaption("what is this"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Format != imaging.FormatPNG {
		t.Errorf("format = %q, want png", result.Format)
	}
	if result.ImageType != imaging.CategoryScreenshot {
		t.Errorf("image type = %q, want screenshot", result.ImageType)
	}
	if result.Size != 5004 {
		t.Errorf("size = %d, want 5004", result.Size)
	}
	if result.StagedPath == "" || !strings.HasSuffix(result.StagedPath, ".png") {
		t.Errorf("staged path = %q, want non-empty .png", result.StagedPath)
	}
	if !strings.Contains(result.Prompt, result.StagedPath) {
		t.Error("prompt does not contain the staged path")
	}
	if !strings.Contains(result.Prompt, "what is this") {
		t.Error("prompt does not contain the caption")
	}
	if result.Metadata["format"] != "png" || result.Metadata["has_caption"] != true {
		t.Errorf("metadata = %v", result.Metadata)
	}

	// Round-trip: staged bytes are identical to the input.
	staged, err := os.ReadFile(result.StagedPath)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(staged) != string(data) {
		t.Error("staged bytes differ from input")
	}
	if decoded, err := base64.StdEncoding.DecodeString(result.EncodedContent); err != nil || string(decoded) != string(data) {
		t.Error("encoded content does not round-trip to input bytes")
	}

	// Caller-side release.
	if !pipeline.Cleanup(result.StagedPath) {
		t.Fatal("Cleanup returned false for a staged file")
	}
	if _, err := os.Stat(result.StagedPath); !os.IsNotExist(err) {
		t.Fatal("staged file still exists after cleanup")
	}
}

func TestPipelineRejectsWithoutStaging(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	stager, err := staging.New(nil, root)
	if err != nil {
		t.Fatalf("new stager: %v", err)
	}
	pipeline := imaging.NewPipeline(nil, stager, nil)

	data := make([]byte, 50)
	for i := range data {
		data[i] = byte(i * 7)
	}

	_, err = pipeline.Process(context.Background(), data, imaging.Caption{})
	if !errors.Is(err, imaging.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), imaging.ReasonUnsupportedFormat) && !strings.Contains(err.Error(), imaging.ReasonInvalidImageData) {
		t.Fatalf("rejection reason missing: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read staging root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected payload was staged: %d entries", len(entries))
	}
}

func TestPipelineRejectionReasons(t *testing.T) {
	t.Parallel()

	pipeline, _ := newPipeline(t)

	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{name: "too large", data: pngPayload(11 * 1024 * 1024), reason: imaging.ReasonTooLarge},
		{name: "unsupported", data: []byte(strings.Repeat("z", 200)), reason: imaging.ReasonUnsupportedFormat},
		{name: "too small", data: pngPayload(50), reason: imaging.ReasonInvalidImageData},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := pipeline.Process(context.Background(), tt.data, imaging.Caption{})
			if !errors.Is(err, imaging.ErrRejected) {
				t.Fatalf("expected ErrRejected, got %v", err)
			}
			if want := fmt.Sprintf("%s: %s", imaging.ErrRejected.Error(), tt.reason); err.Error() != want {
				t.Fatalf("error = %q, want %q", err.Error(), want)
			}
		})
	}
}

func TestPipelineStagingFailureFailsRequest(t *testing.T) {
	t.Parallel()

	pipeline := imaging.NewPipeline(nil, failingStager{}, nil)
	_, err := pipeline.Process(context.Background(), pngPayload(500), imaging.Caption{})
	if err == nil {
		t.Fatal("expected error from failed staging")
	}
	if errors.Is(err, imaging.ErrRejected) {
		t.Fatal("staging failure must not be downgraded to a rejection")
	}
}

type failingStager struct{}

func (failingStager) Stage(context.Context, []byte, string) (string, error) {
	return "", errors.New("disk full")
}

func (failingStager) Cleanup(string) bool { return false }
