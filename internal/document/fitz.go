package document

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzLibrary reads documents through MuPDF.
type FitzLibrary struct{}

// Open loads path with MuPDF, which rebuilds damaged cross-reference tables
// on its own.
func (FitzLibrary) Open(path string) (Handle, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &fitzHandle{doc: doc}, nil
}

type fitzHandle struct {
	doc *fitz.Document
}

func (h *fitzHandle) PageCount() (int, error) {
	n := h.doc.NumPage()
	if n < 0 {
		return 0, fmt.Errorf("page count unavailable")
	}
	return n, nil
}

func (h *fitzHandle) ExtractText(page int) (string, error) {
	if err := checkPage(page, h.doc.NumPage()); err != nil {
		return "", err
	}
	text, err := h.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", page, err)
	}
	return text, nil
}

func (h *fitzHandle) Close() error {
	if h.doc == nil {
		return nil
	}
	err := h.doc.Close()
	h.doc = nil
	return err
}
