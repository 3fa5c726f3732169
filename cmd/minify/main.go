// Command minify compresses one asset file. The Makefile-less equivalent of
// the build script for targeted rebuilds:
//
//	go run ./cmd/minify -input=static/style.css -output=dist/static/style.css -type=css
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

func main() {
	var (
		inputFile  = flag.String("input", "", "Input file path")
		outputFile = flag.String("output", "", "Output file path")
		fileType   = flag.String("type", "", "File type (css, js, or html)")
	)
	flag.Parse()

	if *inputFile == "" || *outputFile == "" || *fileType == "" {
		log.Fatal("Usage: go run ./cmd/minify -input=<file> -output=<file> -type=<css|js|html>")
	}

	mediaTypes := map[string]string{
		"css":  "text/css",
		"js":   "application/javascript",
		"html": "text/html",
	}
	mediaType, ok := mediaTypes[strings.ToLower(*fileType)]
	if !ok {
		log.Fatalf("Unsupported file type: %s (supported: css, js, html)", *fileType)
	}

	input, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("text/html", html.Minify)

	minified, err := m.Bytes(mediaType, input)
	if err != nil {
		log.Fatalf("Failed to minify %s: %v", *inputFile, err)
	}

	if err := os.MkdirAll(filepath.Dir(*outputFile), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := os.WriteFile(*outputFile, minified, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	fmt.Printf("Successfully minified %s -> %s\n", *inputFile, *outputFile)
}
