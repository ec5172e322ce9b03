package shutdown

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"hashart/core"
)

// PartialRenderPattern matches the temporary files renders are written to
// before being renamed into place.
const PartialRenderPattern = ".hashart-*.tmp"

// RemovePartialRenders returns a hook that deletes leftover partial renders
// in dir. Failures are logged, never returned, so shutdown is not blocked.
func RemovePartialRenders(logger *zap.Logger, dir string) core.ShutdownFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context) error {
		removed, failed := removePartials(ctx, logger, dir)
		if removed+failed > 0 {
			logger.Info("removed partial renders",
				zap.String("dir", dir),
				zap.Int("removed", removed),
				zap.Int("failed", failed),
			)
		}
		return nil
	}
}

func removePartials(ctx context.Context, logger *zap.Logger, dir string) (removed, failed int) {
	matches, err := filepath.Glob(filepath.Join(dir, PartialRenderPattern))
	if err != nil {
		logger.Warn("listing partial renders", zap.String("dir", dir), zap.Error(err))
		return 0, 0
	}

	for _, path := range matches {
		if ctx.Err() != nil {
			logger.Warn("cleanup interrupted", zap.Int("remaining", len(matches)-removed-failed))
			return removed, failed
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			failed++
			logger.Warn("removing partial render", zap.String("file", filepath.Base(path)), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, failed
}
