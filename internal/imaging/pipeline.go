package imaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
)

// Stager writes accepted payloads into a managed directory and releases
// them on request. Implemented by staging.Stager.
type Stager interface {
	Stage(ctx context.Context, data []byte, ext string) (string, error)
	Cleanup(path string) bool
}

// Pipeline runs one ingestion request end to end: sniff, validate,
// classify, stage, compose. Requests are independent; the pipeline holds
// no per-request state.
type Pipeline struct {
	stager     Stager
	classifier Classifier
	logger     *slog.Logger
}

// NewPipeline creates a Pipeline. A nil classifier falls back to the
// static screenshot stub.
func NewPipeline(log *slog.Logger, stager Stager, classifier Classifier) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if classifier == nil {
		classifier = NewStaticClassifier()
	}
	return &Pipeline{
		stager:     stager,
		classifier: classifier,
		logger:     log.With(slog.String("service", "imaging")),
	}
}

// Process ingests one image payload. Validation failures return a
// ErrRejected-wrapped error carrying the reason and stage nothing.
// Staging I/O failures fail the whole request; there is no partial result
// with a silently missing path.
func (p *Pipeline) Process(ctx context.Context, data []byte, caption Caption) (ProcessedImage, error) {
	format := Sniff(data)

	if ok, reason := Validate(data); !ok {
		p.logger.Info("image rejected",
			slog.String("reason", reason),
			slog.Int("size", len(data)),
			slog.String("format", format.String()),
		)
		return ProcessedImage{}, fmt.Errorf("%w: %s", ErrRejected, reason)
	}

	category := p.classifier.Classify(data)

	stagedPath, err := p.stager.Stage(ctx, data, format.Extension())
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("stage image: %w", err)
	}

	prompt := ComposePrompt(category, caption, stagedPath)

	p.logger.Info("image processed",
		slog.String("path", stagedPath),
		slog.String("format", format.String()),
		slog.String("category", category.String()),
		slog.Int("size", len(data)),
	)

	return ProcessedImage{
		Prompt:         prompt,
		ImageType:      category,
		Format:         format,
		Size:           len(data),
		EncodedContent: base64.StdEncoding.EncodeToString(data),
		StagedPath:     stagedPath,
		Metadata: map[string]any{
			"format":      format.String(),
			"has_caption": caption.Valid,
		},
	}, nil
}

// Cleanup releases a staged file. It is best-effort and delegates the
// confinement check to the stager.
func (p *Pipeline) Cleanup(path string) bool {
	return p.stager.Cleanup(path)
}
