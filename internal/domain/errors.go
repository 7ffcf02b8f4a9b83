package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a scan failure by where it happened and how far it may propagate.
type Kind string

const (
	// KindEnumeration means the search root could not be walked. Fatal.
	KindEnumeration Kind = "enumeration"
	// KindUnreadable means a document stayed unreadable after one repair-and-retry cycle.
	KindUnreadable Kind = "unreadable"
	// KindPageExtraction is a failure isolated to a single page.
	KindPageExtraction Kind = "page_extraction"
	// KindRepair means the repair capability itself failed. Folded into KindUnreadable by the probe.
	KindRepair Kind = "repair"
	// KindReportWrite means the output artifact could not be written. Fatal.
	KindReportWrite Kind = "report_write"
	// KindConfig is a front-end validation failure.
	KindConfig Kind = "config"
)

// Error is a scan error carrying its kind and, where known, the document and page.
type Error struct {
	Kind Kind
	Path string
	Page int // -1 when the error is not tied to a page
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Page >= 0:
		return fmt.Sprintf("[%s] %s page %d: %v", e.Kind, e.Path, e.Page, e.Err)
	case e.Path != "":
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Path, e.Err)
	default:
		return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, path string, page int, err error) *Error {
	return &Error{Kind: kind, Path: path, Page: page, Err: err}
}

func EnumerationError(root string, err error) *Error {
	return newError(KindEnumeration, root, -1, err)
}

func UnreadableError(path string, err error) *Error {
	return newError(KindUnreadable, path, -1, err)
}

func PageExtractionError(path string, page int, err error) *Error {
	return newError(KindPageExtraction, path, page, err)
}

func RepairError(path string, err error) *Error {
	return newError(KindRepair, path, -1, err)
}

func ReportWriteError(path string, err error) *Error {
	return newError(KindReportWrite, path, -1, err)
}

func ConfigError(err error) *Error {
	return newError(KindConfig, "", -1, err)
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Kind == kind {
			return true
		}
		err = de.Err
	}
	return false
}
