// Package cleanup holds the periodic retention jobs.
package cleanup

import (
	"context"

	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/db"
	"go.uber.org/zap"
)

// RunOtpVerificationCleanup deletes expired verification codes that were
// never confirmed. Verified rows are kept as linking history.
func RunOtpVerificationCleanup(ctx context.Context) error {
	deleted, err := db.CleanupOtpVerifications(ctx)
	if err != nil {
		return err
	}
	internalctx.GetLogger(ctx).Info("cleaned up stale verification codes", zap.Int64("deleted", deleted))
	return nil
}
