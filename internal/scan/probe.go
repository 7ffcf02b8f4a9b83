package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/domain"
	"github.com/ziadkadry99/pdfscan/internal/logging"
)

// Probe answers whether a document is readable, giving it one
// repair-and-retry cycle when it is not.
type Probe struct {
	lib    document.Library
	repair document.Repairer
	log    zerolog.Logger
}

// NewProbe returns a Probe reading through lib and repairing through repair.
func NewProbe(lib document.Library, repair document.Repairer, logger zerolog.Logger) *Probe {
	return &Probe{
		lib:    lib,
		repair: repair,
		log:    logging.Component(logger, "probe"),
	}
}

// Probe checks path, repairs it once on failure and checks once more. It
// never returns an error: every failure becomes an excluded outcome, except a
// repair stopped by cancellation, which yields StatusInterrupted.
func (p *Probe) Probe(ctx context.Context, path string) domain.ProbeOutcome {
	firstErr := p.check(path)
	if firstErr == nil {
		return domain.ProbeOutcome{Path: path, Status: domain.StatusReadable}
	}

	p.log.Debug().Str("path", path).Err(firstErr).Msg("document unreadable, attempting repair")
	if err := p.repair.Repair(ctx, path); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			p.log.Debug().Str("path", path).Err(err).Msg("repair interrupted")
			return domain.ProbeOutcome{Path: path, Status: domain.StatusInterrupted, Err: err}
		}
		return p.exclude(path, domain.RepairError(path, err))
	}

	if err := p.check(path); err != nil {
		return p.exclude(path, domain.UnreadableError(path, err))
	}

	p.log.Info().Str("path", path).Msg("document repaired")
	return domain.ProbeOutcome{Path: path, Status: domain.StatusRepaired}
}

func (p *Probe) exclude(path string, err error) domain.ProbeOutcome {
	p.log.Warn().Str("path", path).Err(err).Msg("excluding document")
	return domain.ProbeOutcome{Path: path, Status: domain.StatusExcluded, Err: err}
}

// check opens the document and reads its first page.
func (p *Probe) check(path string) (err error) {
	h, err := p.lib.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	n, err := h.PageCount()
	if err != nil {
		return fmt.Errorf("page count: %w", err)
	}
	if n <= 0 {
		return document.ErrNoPages
	}
	if _, err := h.ExtractText(0); err != nil {
		return err
	}
	return nil
}
