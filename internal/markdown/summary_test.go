package markdown

import "testing"

func TestSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		docs []string
		want string
	}{
		{"empty", nil, ""},
		{"blank", []string{"  \n"}, ""},
		{"single_line", []string{"Does a thing."}, "Does a thing."},
		{"first_paragraph", []string{"First paragraph.\n\nSecond paragraph."}, "First paragraph."},
		{"only_first_block", []string{"One.", "Two."}, "One."},
		{"role", []string{"The inverse of {py:func}`alpha.foo.bar`."}, "The inverse of bar."},
		{"emphasis", []string{"A *very* useful helper."}, "A very useful helper."},
		{"skips_heading", []string{"# Title\n\nBody text."}, "Body text."},
	}
	for _, tt := range tests {
		if got := Summary(tt.docs); got != tt.want {
			t.Errorf("%s: Summary = %q, want %q", tt.name, got, tt.want)
		}
	}
}
