package main

import (
	"strings"
	"testing"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// These tests pin the minifier behavior the asset build relies on, so a
// library upgrade that changes output shows up here instead of in a broken
// deploy.

func TestHTMLMinification(t *testing.T) {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)

	input := `<html>
	<head>
		<title>Cards</title>
	</head>
	<body>
		<p> Study   your   cards! </p>
	</body>
</html>`
	expected := `<title>Cards</title><p>Study your cards!`

	var b strings.Builder
	err := m.Minify("text/html", &b, strings.NewReader(input))
	if err != nil {
		t.Fatalf("HTML minification failed: %v", err)
	}
	got := strings.ReplaceAll(b.String(), "\n", "")
	if got != expected {
		t.Errorf("HTML minification mismatch:\nGot:      %q\nExpected: %q", got, expected)
	}
}

func TestCSSMinification(t *testing.T) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)

	input := `
		.card {
			color: #ffffff;
			margin: 0  ;
		}
	`
	expected := `.card{color:#fff;margin:0}`

	var b strings.Builder
	err := m.Minify("text/css", &b, strings.NewReader(input))
	if err != nil {
		t.Fatalf("CSS minification failed: %v", err)
	}
	if got := b.String(); got != expected {
		t.Errorf("CSS minification mismatch:\nGot:      %q\nExpected: %q", got, expected)
	}
}

func TestJSMinification(t *testing.T) {
	m := minify.New()
	m.AddFunc("application/javascript", js.Minify)

	input := `
		function add(a, b) {
			return a + b;
		}
	`
	expected := `function add(e,t){return e+t}`

	var b strings.Builder
	err := m.Minify("application/javascript", &b, strings.NewReader(input))
	if err != nil {
		t.Fatalf("JS minification failed: %v", err)
	}
	if got := b.String(); got != expected {
		t.Errorf("JS minification mismatch:\nGot:      %q\nExpected: %q", got, expected)
	}
}
