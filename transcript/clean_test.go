package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanBody(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "plain text", input: "Hello world", expected: "Hello world"},
		{name: "paragraphs", input: "<p>First</p><p>Second</p>", expected: "First Second"},
		{name: "line breaks", input: "one<br>two<br/>three", expected: "one two three"},
		{name: "inline tags", input: "<p>This is <b>very</b> slow</p>", expected: "This is very slow"},
		{name: "entities", input: "<p>Fish &amp; chips &lt;3</p>", expected: "Fish & chips <3"},
		{name: "whitespace runs", input: "  a \n\t b   c  ", expected: "a b c"},
		{name: "non-breaking space", input: "a&nbsp;&nbsp;b", expected: "a b"},
		{name: "curly quotes", input: "It’s “fine”", expected: `It's "fine"`},
		{name: "script dropped", input: "<p>ok</p><script>alert(1)</script>", expected: "ok"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanBody(tc.input))
		})
	}
}

func TestIsBoilerplate(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{input: "Thank you.", expected: true},
		{input: "THANK YOU.", expected: true},
		{input: "no, thanks.", expected: true},
		{input: "Please send it over.", expected: true},
		{input: "That’s all.", expected: false},
		{input: CleanBody("That’s all."), expected: true},
		{input: "Thank you..", expected: false},
		{input: "Thank you. The fix works", expected: false},
		{input: "No, thanks", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsBoilerplate(tc.input))
		})
	}
}
