package minio

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/koustreak/litedb/internal/errs"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil, "x"))

	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"404", miniogo.ErrorResponse{StatusCode: http.StatusNotFound, Code: "NoSuchKey"}, errs.ErrKindNotFound},
		{"403", miniogo.ErrorResponse{StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"400", miniogo.ErrorResponse{StatusCode: http.StatusBadRequest}, errs.ErrKindInvalidInput},
		{"code only", miniogo.ErrorResponse{Code: "NoSuchBucket"}, errs.ErrKindNotFound},
		{"slow down", miniogo.ErrorResponse{StatusCode: http.StatusServiceUnavailable, Code: "SlowDown"}, errs.ErrKindTimeout},
		{"network", errors.New("dial tcp 127.0.0.1:9000: connect: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "failed")
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.err, got.Cause)
		})
	}
}
