package sqlite

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/paths"
)

// Snapshot writes a consistent copy of the database to dest using
// VACUUM INTO. dest must not exist yet.
func (w *Wrapper) Snapshot(ctx context.Context, dest string) error {
	if dest == "" {
		return errs.New(errs.ErrKindInvalidInput, "snapshot destination is empty")
	}
	if _, err := os.Stat(dest); err == nil {
		return errs.Newf(errs.ErrKindInvalidInput, "snapshot destination %q already exists", dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrKindPermissionDenied, "cannot stat snapshot destination", err)
	}

	if err := paths.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}

	if _, err := w.ExecuteNonQuery(ctx, "VACUUM INTO @0", dest); err != nil {
		return err
	}

	w.log.InfoWith("snapshot written", map[string]interface{}{"dest": dest})
	return nil
}
