package aws_s3

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type AWSS3 struct {
	bucket string
	client *s3.S3
}

// NewAWSS3 uses the default credential chain (env, shared config, role).
func NewAWSS3(region, bucket string) (*AWSS3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("aws bucket is not configured")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}
	return &AWSS3{
		bucket: bucket,
		client: s3.New(sess),
	}, nil
}

// PresignGet returns a temporary download URL for key.
func (a *AWSS3) PresignGet(key, filename string, ttl time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(
			fmt.Sprintf("attachment; filename=%q", filename),
		)
	}
	req, _ := a.client.GetObjectRequest(input)
	return req.Presign(ttl)
}
