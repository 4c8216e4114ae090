package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/mesa-backend/utils"
)

const DefaultExpiry = 3600 * time.Second

// ObjectAPI is the part of *s3.Client the helper needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PresignAPI is the part of *s3.PresignClient the helper needs.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type ObjectDescriptor struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

type UploadResult struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

type S3Helper struct {
	client    ObjectAPI
	presigner PresignAPI
	bucket    string
	endpoint  string
	newToken  func() string
}

func NewS3Helper(client *s3.Client, bucket, endpoint string) *S3Helper {
	return New(client, s3.NewPresignClient(client), bucket, endpoint)
}

func New(client ObjectAPI, presigner PresignAPI, bucket, endpoint string) *S3Helper {
	return &S3Helper{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		endpoint:  strings.TrimRight(endpoint, "/"),
		newToken:  uuid.NewString,
	}
}

// Get signs a read URL for sub/key. The object is not checked for existence.
func (h *S3Helper) Get(ctx context.Context, key, sub string, expiry time.Duration) (*ObjectDescriptor, error) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	req, err := h.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(objectKey(sub, key)),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return nil, err
	}

	return &ObjectDescriptor{
		UID:    key,
		Name:   key,
		Status: "done",
		URL:    req.URL,
	}, nil
}

// Post stores file under a fresh name and returns its public, unsigned URL.
// A nil file is a no-op.
func (h *S3Helper) Post(ctx context.Context, file *multipart.FileHeader, sub string) (*UploadResult, error) {
	if file == nil {
		return nil, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	name := h.newToken() + "." + extension(file.Filename)
	key := objectKey(sub, name)

	input := &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType := file.Header.Get("Content-Type"); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := h.client.PutObject(ctx, input); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"key":  key,
		"size": len(body),
	}).Info("object uploaded")

	return &UploadResult{
		FileName: key,
		URL:      h.endpoint + "/" + h.bucket + "/" + key,
	}, nil
}

// Del removes key and hands back the raw SDK result. An empty key is a no-op.
func (h *S3Helper) Del(ctx context.Context, key string) (*s3.DeleteObjectOutput, error) {
	if key == "" {
		return nil, nil
	}
	return h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
}

func objectKey(sub, name string) string {
	if sub != "" {
		return sub + "/" + name
	}
	return name
}

// extension returns what follows the last dot, or the whole name when there
// is no dot.
func extension(filename string) string {
	return filename[strings.LastIndex(filename, ".")+1:]
}
