package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFootprint(t *testing.T) {
	dir := t.TempDir()

	book := filepath.Join(dir, "emoji.xlsx")
	if err := os.WriteFile(book, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Footprint(book)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("single file: got %d bytes, want 5", got)
	}

	db := filepath.Join(dir, "emoji.db")
	for name, body := range map[string]string{"emoji.db": "abc", "emoji.db-wal": "de", "emoji.db-shm": "f"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err = Footprint(db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("database with sidecars: got %d bytes, want 6", got)
	}

	got, err = Footprint(book, db, "", filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 11 {
		t.Errorf("combined: got %d bytes, want 11", got)
	}
}

func TestFootprint_directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "a"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Footprint(sub)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("dir: got %d bytes, want 2", got)
	}
}
