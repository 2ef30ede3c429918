package imaging

// Category is the semantic classification of an image, used to select a
// prompt template.
type Category string

const (
	CategoryScreenshot Category = "screenshot"
	CategoryDiagram    Category = "diagram"
	CategoryUIMockup   Category = "ui_mockup"
	CategoryGeneric    Category = "generic"
)

func (c Category) String() string { return string(c) }

// Classifier maps an image payload to a Category. Implementations must be
// total: every buffer yields a value from the closed category set.
type Classifier interface {
	Classify(data []byte) Category
}

// StaticClassifier always returns a fixed category. It is the shipped
// stand-in until a real signal source (e.g. an ML model) replaces it via
// the Classifier interface; the pipeline does not care which.
type StaticClassifier struct {
	Category Category
}

// NewStaticClassifier returns a classifier pinned to screenshot, the most
// common kind of image shared from a chat client.
func NewStaticClassifier() *StaticClassifier {
	return &StaticClassifier{Category: CategoryScreenshot}
}

// Classify returns the configured category, defaulting to generic if the
// classifier was built with an empty one.
func (s *StaticClassifier) Classify(_ []byte) Category {
	if s == nil || s.Category == "" {
		return CategoryGeneric
	}
	return s.Category
}
