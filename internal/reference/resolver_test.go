package reference

import (
	"encoding/json"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "english", "english"},
		{"uppercase folded", "English", "english"},
		{"whitespace trimmed", "  Python  ", "python"},
		{"punctuation stripped", "C++", "c"},
		{"hyphenated collapsed", "e-commerce", "ecommerce"},
		{"spaces inside stripped", "Ho Chi Minh", "hochiminh"},
		{"digits kept", "UTC+7", "utc7"},
		{"empty", "", ""},
		{"only punctuation", "--!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonical(tt.input); got != tt.expected {
				t.Errorf("Canonical(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRefKeyPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		ref      Ref
		expected string
	}{
		{"name wins", Ref{ID: "64f0", Name: "English", Code: "EN"}, "english"},
		{"code when name empty", Ref{ID: "64f0", Code: "EN"}, "en"},
		{"id as last resort", Ref{ID: "64f0a1"}, "64f0a1"},
		{"name of only punctuation falls through", Ref{Name: "--", Code: "EN"}, "en"},
		{"zero ref has no key", Ref{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Key(); got != tt.expected {
				t.Errorf("Key() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected Ref
	}{
		{"nil", nil, Ref{}},
		{"bare string", "  English ", Ref{Name: "English"}},
		{"ref passthrough", Ref{Name: "Go"}, Ref{Name: "Go"}},
		{"nil pointer", (*Ref)(nil), Ref{}},
		{
			"map with standard keys",
			map[string]any{"id": "1", "name": "English", "code": "EN", "category": "language"},
			Ref{ID: "1", Name: "English", Code: "EN", Category: "language"},
		},
		{
			"map with alias keys",
			map[string]any{"_id": "2", "title": "Tour Guide", "type": "activity"},
			Ref{ID: "2", Name: "Tour Guide", Category: "activity"},
		},
		{
			"label alias",
			map[string]any{"label": "Hospitality"},
			Ref{Name: "Hospitality"},
		},
		{
			"string map",
			map[string]string{"name": "Tourism"},
			Ref{Name: "Tourism"},
		},
		{"unknown shape", 42, Ref{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.input); got != tt.expected {
				t.Errorf("Resolve(%v) = %+v, expected %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRefUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Ref
	}{
		{"bare string", `"English"`, Ref{Name: "English"}},
		{"null", `null`, Ref{}},
		{"object", `{"id":"1","name":"English"}`, Ref{ID: "1", Name: "English"}},
		{"object with aliases", `{"_id":"9","title":"Guide"}`, Ref{ID: "9", Name: "Guide"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if r != tt.expected {
				t.Errorf("Unmarshal(%s) = %+v, expected %+v", tt.input, r, tt.expected)
			}
		})
	}
}

func TestSameKey(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Ref
		expected bool
	}{
		{"case and punctuation ignored", Ref{Name: "E-Commerce"}, Ref{Name: "ecommerce"}, true},
		{"name vs code", Ref{Name: "EN"}, Ref{Code: "en"}, true},
		{"different entities", Ref{Name: "English"}, Ref{Name: "French"}, false},
		{"both empty never match", Ref{}, Ref{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameKey(tt.a, tt.b); got != tt.expected {
				t.Errorf("SameKey(%+v, %+v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Ref
		expected bool
	}{
		{"narrower inside broader", Ref{Name: "Tourism"}, Ref{Name: "Eco Tourism"}, true},
		{"broader inside narrower", Ref{Name: "Eco Tourism"}, Ref{Name: "Tourism"}, true},
		{"unrelated", Ref{Name: "Tourism"}, Ref{Name: "Finance"}, false},
		{"empty side never contains", Ref{}, Ref{Name: "Tourism"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.a, tt.b); got != tt.expected {
				t.Errorf("Contains(%+v, %+v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
