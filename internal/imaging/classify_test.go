package imaging

import "testing"

func TestStaticClassifier(t *testing.T) {
	t.Parallel()

	c := NewStaticClassifier()
	for _, data := range [][]byte{nil, {}, []byte("anything"), pngPayload(500)} {
		if got := c.Classify(data); got != CategoryScreenshot {
			t.Fatalf("Classify() = %q, want screenshot", got)
		}
	}
}

func TestStaticClassifierEmptyCategoryDefaultsToGeneric(t *testing.T) {
	t.Parallel()

	c := &StaticClassifier{}
	if got := c.Classify([]byte("x")); got != CategoryGeneric {
		t.Fatalf("Classify() = %q, want generic", got)
	}
}
