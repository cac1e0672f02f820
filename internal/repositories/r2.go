package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// ErrStorageDisabled is returned when no object storage is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// ObjectStore keeps profile images in an S3 compatible bucket (Cloudflare R2).
type ObjectStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewR2 builds an ObjectStore from static credentials. It returns nil when
// accountID or bucketName is empty.
func NewR2(accessKey, secretKey, accountID, bucketName, region, publicBaseURL string) *ObjectStore {
	if accountID == "" || bucketName == "" {
		return nil
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	if publicBaseURL == "" {
		publicBaseURL = endpoint + "/" + bucketName
	}
	return &ObjectStore{
		client:        client,
		bucket:        bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// AvatarPrefix is the key prefix under which a user's profile images live.
func AvatarPrefix(userID uint) string {
	return fmt.Sprintf("avatars/%d/", userID)
}

// AvatarKey returns a fresh object key for a user's profile image.
func AvatarKey(userID uint) string {
	return AvatarPrefix(userID) + uuid.NewString()
}

// PresignPut creates a URL the client can upload key to.
func (o *ObjectStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	if o == nil {
		return "", ErrStorageDisabled
	}
	presigner := s3.NewPresignClient(o.client)
	input := &s3.PutObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Exists checks whether key has been uploaded.
func (o *ObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	if o == nil {
		return false, ErrStorageDisabled
	}
	_, err := o.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PublicURL is the address a stored object is served from.
func (o *ObjectStore) PublicURL(key string) string {
	if o == nil {
		return ""
	}
	return o.publicBaseURL + "/" + key
}
