package scan

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/domain"
	"github.com/ziadkadry99/pdfscan/internal/logging"
)

// Scanner extracts the lines of a document that match a keyword.
type Scanner struct {
	lib     document.Library
	matcher *Matcher
	log     zerolog.Logger
}

// NewScanner returns a Scanner reading through lib.
func NewScanner(lib document.Library, matcher *Matcher, logger zerolog.Logger) *Scanner {
	return &Scanner{
		lib:     lib,
		matcher: matcher,
		log:     logging.Component(logger, "scanner"),
	}
}

// Scan returns the matching lines of path in page order, then line order.
// A document that no longer opens yields no records, and a page whose text
// cannot be extracted is skipped. Cancellation is checked between pages.
func (s *Scanner) Scan(ctx context.Context, path string) []domain.MatchRecord {
	h, err := s.lib.Open(path)
	if err != nil {
		s.log.Warn().Str("path", path).Err(domain.UnreadableError(path, err)).Msg("document no longer opens, skipping")
		return nil
	}
	defer func() {
		if err := h.Close(); err != nil {
			s.log.Debug().Str("path", path).Err(err).Msg("close failed")
		}
	}()

	pages, err := h.PageCount()
	if err != nil {
		s.log.Warn().Str("path", path).Err(domain.UnreadableError(path, err)).Msg("page count failed, skipping")
		return nil
	}

	name := filepath.Base(path)
	var records []domain.MatchRecord
	for page := 0; page < pages; page++ {
		if ctx.Err() != nil {
			return records
		}
		text, err := h.ExtractText(page)
		if err != nil {
			s.log.Warn().
				Str("path", path).
				Int("page", page).
				Err(domain.PageExtractionError(path, page, err)).
				Msg("skipping page")
			continue
		}
		for _, line := range splitLines(text) {
			if s.matcher.Match(line) {
				records = append(records, domain.MatchRecord{
					File: name,
					Page: page,
					Line: line,
					Path: path,
				})
			}
		}
	}
	return records
}
