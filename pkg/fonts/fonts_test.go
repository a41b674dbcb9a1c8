package fonts

import "testing"

func TestFace(t *testing.T) {
	f, err := Face(8)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	defer f.Close()

	if adv, ok := f.GlyphAdvance('P'); !ok || adv <= 0 {
		t.Errorf("GlyphAdvance('P') = %v, %v", adv, ok)
	}

	a, _ := Regular()
	b, _ := Regular()
	if a != b {
		t.Error("Regular should be parsed once")
	}
}
