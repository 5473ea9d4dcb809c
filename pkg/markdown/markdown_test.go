package markdown

import (
	"fmt"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"headings", "# One\n## Two\n### Three", "<h1>One</h1>\n<h2>Two</h2>\n<h3>Three</h3>\n"},
		{"deep heading is a paragraph", "#### Four", "<p>#### Four</p>\n"},
		{"list grouped", "- a\n- **b**\ntext", "<ul><li>a</li><li><strong>b</strong></li></ul>\n<p>text</p>\n"},
		{"inline", "*it* and `x := 1`", "<p><em>it</em> and <code>x := 1</code></p>\n"},
		{"leading blank skipped", "\n\npara", "<p>para</p>\n"},
		{"blank between", "a\n\nb", "<p>a</p>\n<br>\n<p>b</p>\n"},
		{"escaped", "<script>alert(1)</script>", "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>\n"},
		{"escaped heading", "# a<b", "<h1>a&lt;b</h1>\n"},
		{"crlf", "# T\r\n- i\r\n", "<h1>T</h1>\n<ul><li>i</li></ul>\n<br>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTML(tt.in); got != tt.want {
				t.Errorf("ToHTML(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"# Hello\nbody":      "Hello",
		"\n\n  ## Spaced  \n": "Spaced",
		"plain first line":   "plain first line",
		"###\n\n":            "",
		"":                   "",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func ExampleToHTML() {
	fmt.Print(ToHTML("# Ideas\n- **bold** move\n- try `go test`"))
	// Output:
	// <h1>Ideas</h1>
	// <ul><li><strong>bold</strong> move</li><li>try <code>go test</code></li></ul>
}
