package deck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinIsNonEmptyAndCopied(t *testing.T) {
	d := Builtin()
	if len(d.Cards) == 0 {
		t.Fatal("Builtin() returned an empty deck")
	}
	d.Cards[0].Term = "mutated"
	if Builtin().Cards[0].Term == "mutated" {
		t.Error("Builtin() shares its card slice between calls")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.yaml")
	content := `title: Greetings
cards:
  - term: saluton
    definition: hello
  - term: ""
    definition: dropped, no term
  - term: dankon
    definition: thank you
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write deck file: %v", err)
	}

	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if d.Title != "Greetings" {
		t.Errorf("LoadFile title = %q, want %q", d.Title, "Greetings")
	}
	if len(d.Cards) != 2 {
		t.Fatalf("LoadFile kept %d cards, want 2 (incomplete entries dropped)", len(d.Cards))
	}
	if d.Cards[0].Term != "saluton" || d.Cards[1].Term != "dankon" {
		t.Errorf("LoadFile card order = [%s %s], want [saluton dankon]", d.Cards[0].Term, d.Cards[1].Term)
	}
}

func TestLoadFileAllEntriesInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("title: Nothing\ncards: []\n"), 0644); err != nil {
		t.Fatalf("write deck file: %v", err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrNoCards) {
		t.Errorf("LoadFile(empty deck) error = %v, want ErrNoCards", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile(absent path) should fail")
	}
}

func TestLoadFileMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("cards: [unclosed"), 0644); err != nil {
		t.Fatalf("write deck file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile(malformed yaml) should fail")
	}
}
