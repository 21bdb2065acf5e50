package e2e

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/emosuggest/internal/storage"
)

func TestWriteWorkbook_readableBySource(t *testing.T) {
	c := BuildCorpus()
	path := filepath.Join(t.TempDir(), "emoji.xlsx")
	if err := WriteWorkbook(path, c.Order(), c.Sheets()); err != nil {
		t.Fatal(err)
	}
	src, err := storage.OpenWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	for _, cat := range c.Categories {
		rows, err := src.Rows(context.Background(), cat.Emoji)
		if err != nil {
			t.Fatalf("%s: %v", cat.Emoji, err)
		}
		if !reflect.DeepEqual(rows[0], SheetHeader) {
			t.Errorf("%s header = %v", cat.Emoji, rows[0])
		}
		if rows[1][0] != cat.Rows[0][0] {
			t.Errorf("%s first keyword = %q, want %q", cat.Emoji, rows[1][0], cat.Rows[0][0])
		}
	}
}
