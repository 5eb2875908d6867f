package lifecycle

import "testing"

func TestMeaningfulWords(t *testing.T) {
	words := MeaningfulWords("Huge POTHOLE on Main St., near the bus-stop!")

	for _, w := range []string{"huge", "pothole", "main", "near", "the", "busstop"} {
		if _, ok := words[w]; !ok {
			t.Errorf("Expected %q in word set", w)
		}
	}
	for _, w := range []string{"on", "st", "bus", "stop"} {
		if _, ok := words[w]; ok {
			t.Errorf("Expected %q to be dropped", w)
		}
	}
	if len(words) != 6 {
		t.Errorf("Expected 6 words, got %v", words)
	}
}

func TestMeaningfulWords_JoinsAcrossPunctuation(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "Don't block driveway", want: []string{"dont", "block", "driveway"}},
		{text: "pot-hole", want: []string{"pothole"}},
		{text: "street/light #broken", want: []string{"streetlight", "broken"}},
		{text: "a-b", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			words := MeaningfulWords(tt.text)
			if len(words) != len(tt.want) {
				t.Fatalf("MeaningfulWords(%q) = %v, want %v", tt.text, words, tt.want)
			}
			for _, w := range tt.want {
				if _, ok := words[w]; !ok {
					t.Errorf("Expected %q in %v", w, words)
				}
			}
		})
	}
}

func TestIsSimilarReport(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{
			name: "same pothole reported twice",
			a:    "Pothole on Main street. Deep pothole near the crossing",
			b:    "Big pothole Main street, cars swerving",
			want: true,
		},
		{
			name: "one shared word is not enough",
			a:    "Broken streetlight at corner",
			b:    "Pothole at the corner",
			want: false,
		},
		{
			name: "no overlap",
			a:    "Broken streetlight flickering all night",
			b:    "Overflowing garbage bins smell",
			want: false,
		},
		{
			name: "case and punctuation ignored",
			a:    "FALLEN tree; blocking ROAD",
			b:    "fallen-tree blocking the road",
			want: true,
		},
		{
			name: "hyphenated word matches its joined spelling",
			a:    "street-light broken",
			b:    "streetlight broken near school",
			want: true,
		},
		{
			name: "hyphenated word does not split into parts",
			a:    "pot-hole",
			b:    "pot hole",
			want: false,
		},
		{
			name: "apostrophe removed inside a word",
			a:    "Don't block driveway",
			b:    "dont park in the driveway",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSimilarReport(tt.a, tt.b); got != tt.want {
				t.Errorf("IsSimilarReport() = %v, want %v", got, tt.want)
			}
		})
	}
}
