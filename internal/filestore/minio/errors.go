package minio

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/koustreak/litedb/internal/errs"
	miniogo "github.com/minio/minio-go/v7"
)

// statusKinds maps S3 HTTP status codes to error kinds.
var statusKinds = map[int]errs.ErrKind{
	http.StatusNotFound:              errs.ErrKindNotFound,
	http.StatusForbidden:             errs.ErrKindPermissionDenied,
	http.StatusUnauthorized:          errs.ErrKindPermissionDenied,
	http.StatusBadRequest:            errs.ErrKindInvalidInput,
	http.StatusRequestTimeout:        errs.ErrKindTimeout,
	http.StatusRequestEntityTooLarge: errs.ErrKindInvalidInput,
}

// codeKinds maps S3 error codes that may arrive with any status.
var codeKinds = map[string]errs.ErrKind{
	"NoSuchBucket":          errs.ErrKindNotFound,
	"NoSuchKey":             errs.ErrKindNotFound,
	"NoSuchUpload":          errs.ErrKindNotFound,
	"AccessDenied":          errs.ErrKindPermissionDenied,
	"InvalidAccessKeyId":    errs.ErrKindPermissionDenied,
	"SignatureDoesNotMatch": errs.ErrKindPermissionDenied,
	"XMinioStorageFull":     errs.ErrKindPermissionDenied,
	"InvalidBucketName":     errs.ErrKindInvalidInput,
	"InvalidObjectName":     errs.ErrKindInvalidInput,
	"KeyTooLongError":       errs.ErrKindInvalidInput,
	"EntityTooLarge":        errs.ErrKindInvalidInput,
	"RequestTimeout":        errs.ErrKindTimeout,
	"SlowDown":              errs.ErrKindTimeout,
}

// mapError translates a MinIO SDK error into a *errs.Error, the same way
// the sqlite driver's mapError treats engine errors.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		if kind, ok := codeKinds[resp.Code]; ok {
			return errs.Wrap(kind, msg, err)
		}
		if kind, ok := statusKinds[resp.StatusCode]; ok {
			return errs.Wrap(kind, msg, err)
		}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// refused connections, DNS failures, 5xx
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
