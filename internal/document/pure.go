package document

import (
	"errors"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// PureLibrary reads documents with a pure-Go parser. It needs no native
// MuPDF library but extracts less faithfully from unusual encodings.
type PureLibrary struct{}

// Open parses the cross-reference data of path. The file is closed again on
// every failure, including a parser panic.
func (PureLibrary) Open(path string) (h Handle, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, fmt.Errorf("open %s: parser panic: %v", path, r)
		}
		if err != nil {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &pureHandle{file: f, reader: reader}, nil
}

type pureHandle struct {
	file   *os.File
	reader *pdf.Reader
}

func (h *pureHandle) PageCount() (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("page count: parser panic: %v", r)
		}
	}()
	return h.reader.NumPage(), nil
}

func (h *pureHandle) ExtractText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extract page %d: parser panic: %v", page, r)
		}
	}()

	if err := checkPage(page, h.reader.NumPage()); err != nil {
		return "", err
	}
	// The parser numbers pages from 1.
	p := h.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", fmt.Errorf("extract page %d: %w", page, errors.New("page object missing"))
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", page, err)
	}
	return text, nil
}

func (h *pureHandle) Close() error {
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}
