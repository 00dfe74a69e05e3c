// Package backup moves database snapshots between the local disk and a
// filestore.Store.
package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/filestore"
	"github.com/koustreak/litedb/internal/logger"
	"github.com/koustreak/litedb/internal/paths"
)

// ContentType is stored with every uploaded snapshot.
const ContentType = "application/vnd.sqlite3"

// MetaSource is the user metadata key holding the snapshotted file path.
const MetaSource = "source"

// header is the first 16 bytes of every SQLite 3 database file.
var header = []byte("SQLite format 3\x00")

// Snapshotter writes a consistent copy of a database to dest.
// *sqlite.Wrapper satisfies it.
type Snapshotter interface {
	Snapshot(ctx context.Context, dest string) error
	Path() string
}

// Upload snapshots db to a temporary file and stores it as key in bucket,
// creating the bucket when needed.
func Upload(ctx context.Context, db Snapshotter, store filestore.Store, bucket, key string) (*filestore.ObjectInfo, error) {
	if bucket == "" || key == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "backup: bucket and key are required")
	}
	log := logger.FromContext(ctx)

	tmp, err := os.MkdirTemp("", "litedb-backup-*")
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindPermissionDenied, "backup: cannot create temp dir", err)
	}
	defer os.RemoveAll(tmp)

	snap := filepath.Join(tmp, filepath.Base(key))
	if err := db.Snapshot(ctx, snap); err != nil {
		return nil, err
	}

	f, err := os.Open(snap)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindNotFound, "backup: snapshot missing", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "backup: cannot stat snapshot", err)
	}

	if err := store.EnsureBucket(ctx, bucket); err != nil {
		return nil, err
	}

	info, err := store.PutObject(ctx, bucket, key, f, st.Size(), filestore.PutOptions{
		ContentType: ContentType,
		Metadata:    map[string]string{MetaSource: db.Path()},
	})
	if err != nil {
		return nil, err
	}

	log.InfoWith("snapshot uploaded", map[string]interface{}{
		"bucket": bucket,
		"key":    key,
		"size":   st.Size(),
	})
	return info, nil
}

// Restore downloads key from bucket to dest. dest must not exist; the
// download only appears at dest once it is complete and looks like a
// SQLite database.
func Restore(ctx context.Context, store filestore.Store, bucket, key, dest string) error {
	if bucket == "" || key == "" || dest == "" {
		return errs.New(errs.ErrKindInvalidInput, "restore: bucket, key and destination are required")
	}
	if _, err := os.Stat(dest); err == nil {
		return errs.Newf(errs.ErrKindInvalidInput, "restore: %q already exists", dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrKindPermissionDenied, "restore: cannot stat destination", err)
	}

	st, err := store.StatObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	if st.IsDir {
		return errs.Newf(errs.ErrKindInvalidInput, "restore: %q is a prefix, not a snapshot", key)
	}

	obj, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	defer obj.Close()

	if err := paths.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}

	part := dest + ".part"
	if err := download(obj, part); err != nil {
		_ = os.Remove(part)
		logger.FromContext(ctx).With().
			Str("bucket", bucket).
			Str("key", key).
			Err(err).
			Logger().
			Warn("restore aborted")
		return err
	}
	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return errs.Wrap(errs.ErrKindPermissionDenied, "restore: cannot move download into place", err)
	}

	logger.FromContext(ctx).InfoWith("snapshot restored", map[string]interface{}{
		"bucket": bucket,
		"key":    key,
		"dest":   dest,
		"size":   st.Size,
	})
	return nil
}

// List returns the snapshots stored under prefix in bucket, newest first.
func List(ctx context.Context, store filestore.Store, bucket, prefix string) ([]filestore.ObjectInfo, error) {
	if bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "list: bucket is required")
	}

	objects, err := store.ListObjects(ctx, bucket, filestore.ListOptions{Prefix: prefix, Recursive: true})
	if err != nil {
		return nil, err
	}

	out := make([]filestore.ObjectInfo, 0, len(objects))
	for _, o := range objects {
		if !o.IsDir {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].Key < out[j].Key
		}
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

func download(r io.Reader, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return errs.Wrap(errs.ErrKindPermissionDenied, "restore: cannot create file", err)
	}
	defer f.Close()

	head := make([]byte, len(header))
	if _, err := io.ReadFull(r, head); err != nil || !bytes.Equal(head, header) {
		return errs.New(errs.ErrKindInvalidInput, "restore: object is not a SQLite database")
	}
	if _, err := f.Write(head); err != nil {
		return errs.Wrap(errs.ErrKindPermissionDenied, "restore: write failed", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, "restore: download interrupted", err)
	}
	if err := f.Sync(); err != nil {
		return errs.Wrap(errs.ErrKindPermissionDenied, "restore: sync failed", err)
	}
	return nil
}
