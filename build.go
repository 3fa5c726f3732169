//go:build ignore

// Build script: minifies templates and static assets into dist/, which the
// server prefers in production. Run with: go run build.go
package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

func main() {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)

	for _, root := range []string{"templates", "static"} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			mediaType, ok := mediaTypes[filepath.Ext(path)]
			if !ok {
				return copyFile(path, "dist/"+path)
			}
			return minifyFile(m, path, "dist/"+path, mediaType)
		})
		if err != nil {
			log.Fatalf("Error minifying %s: %v", root, err)
		}
	}

	fmt.Println("Minification complete, output in dist/")
}

func minifyFile(m *minify.M, srcPath, dstPath, mediaType string) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	minified, err := m.Bytes(mediaType, src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(dstPath, minified, 0644); err != nil {
		return err
	}

	ratio := float64(len(src)-len(minified)) / float64(len(src)) * 100
	fmt.Printf("%s: %d bytes -> %d bytes (%.1f%% reduction)\n",
		srcPath, len(src), len(minified), ratio)
	return nil
}

// copyFile carries non-minifiable assets (fonts, icons) into dist unchanged.
func copyFile(srcPath, dstPath string) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(dstPath, src, 0644)
}
