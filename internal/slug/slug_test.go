package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Hello World", want: "hello-world"},
		{name: "punctuation", input: "Hello, World! 2024", want: "hello-world-2024"},
		{name: "trim", input: "  spaced out  ", want: "spaced-out"},
		{name: "collapse hyphens", input: "a -- b", want: "a-b"},
		{name: "underscores", input: "snake_case title", want: "snake-case-title"},
		{name: "unicode", input: "学习 Go 语言", want: "学习-go-语言"},
		{name: "only symbols", input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Fatalf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if !Valid("learning-rust") {
		t.Fatal("expected learning-rust to be valid")
	}
	if Valid("Learning Rust") {
		t.Fatal("expected title-cased text with spaces to be invalid")
	}
	if Valid("") {
		t.Fatal("expected empty slug to be invalid")
	}
}
