// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/pkg/errutil"
)

type fakeObjects struct {
	puts      []*s3.PutObjectInput
	bodies    []string
	deletes   []string
	putErr    error
	deleteErr error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	api := &fakeObjects{}
	u := NewS3Uploader(api, Config{Bucket: "attachments", PublicURL: "https://cdn.test/", Prefix: "/resumes/"}, nil)

	stored, err := u.Upload(context.Background(), auth.Attachment{
		Filename:    "CV.PDF",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.7"),
	})
	require.NoError(t, err)

	require.Len(t, api.puts, 1)
	put := api.puts[0]
	assert.Equal(t, "attachments", aws.ToString(put.Bucket))
	assert.Equal(t, stored.StorageID, aws.ToString(put.Key))
	assert.Equal(t, "application/pdf", aws.ToString(put.ContentType))
	assert.Equal(t, int64(8), aws.ToInt64(put.ContentLength))
	assert.Equal(t, "%PDF-1.7", api.bodies[0])

	assert.True(t, strings.HasPrefix(stored.StorageID, "resumes/"))
	assert.True(t, strings.HasSuffix(stored.StorageID, ".pdf"))
	assert.Equal(t, "https://cdn.test/"+stored.StorageID, stored.URL)
	assert.Empty(t, api.deletes)
}

func TestS3Uploader_DefaultPublicURLAndDetectedType(t *testing.T) {
	api := &fakeObjects{}
	u := NewS3Uploader(api, Config{Endpoint: "http://seaweed:8333/", Bucket: "b"}, nil)

	stored, err := u.Upload(context.Background(), auth.Attachment{Filename: "me", Content: []byte("plain text")})
	require.NoError(t, err)

	assert.Equal(t, "http://seaweed:8333/b/"+stored.StorageID, stored.URL)
	assert.Equal(t, "text/plain; charset=utf-8", aws.ToString(api.puts[0].ContentType))
}

func TestS3Uploader_Delete(t *testing.T) {
	api := &fakeObjects{}
	u := NewS3Uploader(api, Config{Bucket: "b", PublicURL: "https://cdn.test"}, nil)

	first, err := u.Upload(context.Background(), auth.Attachment{Filename: "a.png", Content: []byte("1")})
	require.NoError(t, err)
	second, err := u.Upload(context.Background(), auth.Attachment{Filename: "b.png", Content: []byte("2")})
	require.NoError(t, err)
	assert.NotEqual(t, first.StorageID, second.StorageID)
	assert.Empty(t, api.deletes, "uploading never removes other objects")

	require.NoError(t, u.Delete(context.Background(), first.StorageID))
	require.NoError(t, u.Delete(context.Background(), ""))
	assert.Equal(t, []string{first.StorageID}, api.deletes)
}

func TestS3Uploader_DeleteFailure(t *testing.T) {
	api := &fakeObjects{deleteErr: errors.New("access denied")}
	u := NewS3Uploader(api, Config{Bucket: "b", PublicURL: "https://cdn.test"}, nil)

	err := u.Delete(context.Background(), "old-key")
	errutil.AssertErrorCode(t, err, "UPLOAD_DELETE_FAILED")
	errutil.AssertErrorContext(t, err, "key", "old-key")
}

func TestS3Uploader_Errors(t *testing.T) {
	t.Run("empty attachment", func(t *testing.T) {
		u := NewS3Uploader(&fakeObjects{}, Config{Bucket: "b"}, nil)
		_, err := u.Upload(context.Background(), auth.Attachment{Filename: "x.pdf"})
		require.Error(t, err)
	})

	t.Run("put failure", func(t *testing.T) {
		api := &fakeObjects{putErr: errors.New("bucket missing")}
		u := NewS3Uploader(api, Config{Bucket: "b"}, nil)
		_, err := u.Upload(context.Background(), auth.Attachment{Filename: "x.pdf", Content: []byte("x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket missing")
		assert.Empty(t, api.deletes)
	})
}
