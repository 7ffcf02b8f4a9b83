package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ziadkadry99/pdfscan/internal/fsutil"
)

// ErrRepairDisabled is returned by NopRepairer.
var ErrRepairDisabled = errors.New("repair disabled")

// Repairer attempts a structural repair of a malformed document in place.
type Repairer interface {
	Repair(ctx context.Context, path string) error
}

// NopRepairer never repairs anything.
type NopRepairer struct{}

func (NopRepairer) Repair(context.Context, string) error {
	return ErrRepairDisabled
}

var disableConfigDir sync.Once

// PdfcpuRepairer rewrites a document through pdfcpu's relaxed reader, which
// rebuilds broken cross-reference tables and drops dangling objects. The
// rewrite goes to a temporary file that is renamed over the original.
type PdfcpuRepairer struct {
	conf *model.Configuration
}

// NewPdfcpuRepairer builds a repairer that never reads or writes the pdfcpu
// user configuration directory.
func NewPdfcpuRepairer() *PdfcpuRepairer {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfcpuRepairer{conf: conf}
}

// Repair checks ctx only before starting. Once the rewrite begins it runs to
// completion so a cancellation never leaves a half-repaired file behind.
func (r *PdfcpuRepairer) Repair(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	return fsutil.ReplaceFile(path, info.Mode().Perm(), func(tmpPath string) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("rewrite %s: pdfcpu panic: %v", path, rec)
			}
		}()
		if err := api.OptimizeFile(path, tmpPath, r.conf); err != nil {
			return fmt.Errorf("rewrite %s: %w", path, err)
		}
		return nil
	})
}
