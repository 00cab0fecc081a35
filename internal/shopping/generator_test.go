package shopping

import (
	"bytes"
	"strings"
	"testing"

	"github.com/plateful/server/internal/mealpreps"
)

var testLines = []mealpreps.ShoppingLine{
	{Name: "Eggs", Quantity: 7, Unit: "pieces"},
	{Name: "Olive oil", Quantity: 0.7, Unit: "tbsp"},
}

func TestGenerateCSV(t *testing.T) {
	data, err := NewGenerator().Generate(FormatCSV, "Cut week", testLines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := string(data)
	want := "name,quantity,unit\nEggs,7,pieces\nOlive oil,0.7,tbsp\n"
	if got != want {
		t.Errorf("unexpected CSV:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestGenerateCSVEmpty(t *testing.T) {
	data, err := NewGenerator().Generate(FormatCSV, "Empty", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "name,quantity,unit" {
		t.Errorf("expected header only, got %q", string(data))
	}
}

func TestGeneratePDF(t *testing.T) {
	data, err := NewGenerator().Generate(FormatPDF, "Cut week", testLines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("expected PDF magic header")
	}
	if len(data) == 0 {
		t.Error("expected non-empty PDF")
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	_, err := NewGenerator().Generate("docx", "Cut week", testLines)
	if err != ErrInvalidFormat {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
