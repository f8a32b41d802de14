package arcade

import "testing"

func TestParseCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", `[[game]`},
		{"missing id", "[[game]]\nname = \"x\"\ncategory = \"brain\"\ndifficulty = \"easy\""},
		{"duplicate id", "[[game]]\nid = \"a\"\ncategory = \"brain\"\ndifficulty = \"easy\"\n[[game]]\nid = \"a\"\ncategory = \"brain\"\ndifficulty = \"easy\""},
		{"bad category", "[[game]]\nid = \"a\"\ncategory = \"sports\"\ndifficulty = \"easy\""},
		{"bad difficulty", "[[game]]\nid = \"a\"\ncategory = \"brain\"\ndifficulty = \"insane\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCatalog([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
