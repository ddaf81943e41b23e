package detect

import (
	"reflect"
	"testing"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   \n\t  ", nil},
		{"single sentence no punctuation", "Hello world", []string{"Hello world"}},
		{"two sentences", "This is one. This is two.", []string{"This is one.", "This is two."}},
		{"question and exclamation", "Is it real? Yes! It works.", []string{"Is it real?", "Yes!", "It works."}},
		{"lowercase after period keeps one sentence", "see fig. 3 for details", []string{"see fig. 3 for details"}},
		{"no uppercase follower", "one. two. three.", []string{"one. two. three."}},
		{"punctuation without whitespace", "a.B stays together", []string{"a.B stays together"}},
		{"multiple spaces at boundary", "First.   Second.", []string{"First.", "Second."}},
		{"newline at boundary", "First.\nSecond.", []string{"First.", "Second."}},
		{"leading and trailing whitespace", "  One. Two.  ", []string{"One.", "Two."}},
		{"decimal number not split", "Pi is 3.14 roughly. Euler agrees.", []string{"Pi is 3.14 roughly.", "Euler agrees."}},
		{"stacked terminators", "Really!? Sure.", []string{"Really!?", "Sure."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSegmentPreservesOrder(t *testing.T) {
	got := Segment("Alpha one. Beta two. Gamma three.")
	want := []string{"Alpha one.", "Beta two.", "Gamma three."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Segment() = %#v, want %#v", got, want)
	}
}

func TestSegmentDegenerateFallback(t *testing.T) {
	// Caseless scripts have no uppercase follower, so no boundary ever
	// matches and the whole input comes back as one sentence.
	text := "これはテストです。文境界はありません。"
	got := Segment(text)
	if len(got) != 1 {
		t.Fatalf("Segment(%q) returned %d sentences, want 1", text, len(got))
	}
	if got[0] != text {
		t.Errorf("Segment(%q)[0] = %q, want the trimmed input", text, got[0])
	}
}

func TestSegmentNeverDropsContent(t *testing.T) {
	text := "The model wrote this. A human edited it! Who can tell?"
	for _, sentence := range Segment(text) {
		if sentence == "" {
			t.Fatal("Segment() produced an empty sentence")
		}
	}
}
