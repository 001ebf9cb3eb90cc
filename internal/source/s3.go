package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
)

// S3 reads responses from a CSV object in a bucket.
type S3 struct {
	client s3iface.S3API
	bucket string
	key    string
}

// NewS3Client creates an S3 client for region. Static credentials are used
// when an access key is given, otherwise the SDK's default credential chain.
func NewS3Client(region string, accessKey, secretKey []byte) (s3iface.S3API, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if len(accessKey) > 0 {
		cfg.Credentials = credentials.NewStaticCredentials(string(accessKey), string(secretKey), "")
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return s3.New(sess), nil
}

func NewS3(client s3iface.S3API, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

func (s *S3) Name() string { return "s3" }

func (s *S3) Fetch(ctx context.Context) (*ranking.Table, error) {
	resource := "s3://" + s.bucket + "/" + s.key
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchBucket, s3.ErrCodeNoSuchKey:
				return nil, ranking.Unavailable(s.Name(), resource, fmt.Errorf("object not found: %s", aerr.Message()))
			}
		}
		return nil, ranking.Unavailable(s.Name(), resource, err)
	}
	defer out.Body.Close()

	t, err := readCSV(out.Body)
	if err != nil {
		return nil, ranking.Unavailable(s.Name(), resource, err)
	}
	return t, nil
}
