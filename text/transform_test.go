package text

import (
	"testing"

	"github.com/pageflow/pageflow/model"
)

func TestApplyTextTransform(t *testing.T) {
	cases := []struct {
		in   string
		mode model.TextTransform
		want string
	}{
		{"Hello World", model.TransformUppercase, "HELLO WORLD"},
		{"Hello World", model.TransformLowercase, "hello world"},
		{"hello world", model.TransformCapitalize, "Hello World"},
		{"Hello World", model.TransformNone, "Hello World"},
	}
	for _, c := range cases {
		got := ApplyTextTransform(c.in, c.mode)
		if got != c.want {
			t.Errorf("ApplyTextTransform(%q, %s) = %q, want %q", c.in, c.mode, got, c.want)
		}
	}
}
