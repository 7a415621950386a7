package documents

import (
	"strings"
	"testing"
)

func TestMarkdownToPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "empty input",
			input:    "",
			contains: nil,
		},
		{
			name:     "heading and paragraph",
			input:    "# Title\n\nSome body text.",
			contains: []string{"Title", "Some body text."},
			excludes: []string{"#"},
		},
		{
			name:     "inline markup stripped",
			input:    "This is **bold** and *italic* and [a link](https://example.com).",
			contains: []string{"This is bold and italic and a link."},
			excludes: []string{"**", "](", "https://example.com"},
		},
		{
			name:     "list items on separate lines",
			input:    "- first\n- second\n- third",
			contains: []string{"first\nsecond\nthird"},
			excludes: []string{"- "},
		},
		{
			name:     "fenced code kept verbatim",
			input:    "Before\n\n```go\nfunc main() {}\n```\n\nAfter",
			contains: []string{"func main() {}", "Before", "After"},
			excludes: []string{"```"},
		},
		{
			name:     "table rows become pipe-joined lines",
			input:    "| Name | Age |\n|------|-----|\n| Ada  | 36  |",
			contains: []string{"Name | Age", "Ada | 36"},
			excludes: []string{"|---"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToPlainText([]byte(tt.input))

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("MarkdownToPlainText() missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("MarkdownToPlainText() should strip %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestMarkdownToPlainText_Empty(t *testing.T) {
	if got := MarkdownToPlainText(nil); got != "" {
		t.Errorf("MarkdownToPlainText(nil) = %q, want empty", got)
	}
}
