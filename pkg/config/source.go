package config

import (
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Source reads the raw contents of an include.
type Source interface {
	Read(location string) ([]byte, error)
}

// FileSource reads local paths and s3://bucket/key objects. The optional
// "region" and "roleArn" query parameters of an s3 URL override AWS_REGION
// and AWS_ROLE_ARN for that object. When a role is set it is assumed with STS.
type FileSource struct {
	// NewS3 builds the client used for s3 URLs; nil means a session from the
	// default AWS credential chain.
	NewS3 func(region, roleArn string) (s3iface.S3API, error)
}

func (s *FileSource) Read(location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, Errorf("invalid include location %q: %v", location, err)
	}

	switch u.Scheme {
	case "s3":
		return s.readS3(u)
	case "", "file":
		path := location
		if u.Scheme == "file" {
			path = u.Path
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, Errorf("cannot read include: %v", err)
		}
		return data, nil
	default:
		return nil, Errorf("unsupported URL scheme %q for include %q", u.Scheme, location)
	}
}

func (s *FileSource) readS3(u *url.URL) ([]byte, error) {
	newS3 := s.NewS3
	if newS3 == nil {
		newS3 = newS3Client
	}

	query := u.Query()
	client, err := newS3(queryOrEnv(query, "region", "AWS_REGION"), queryOrEnv(query, "roleArn", "AWS_ROLE_ARN"))
	if err != nil {
		return nil, errors.Wrap(err, "creating S3 client")
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	logrus.Debugf("Reading include s3://%s/%s", bucket, key)

	out, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, Errorf("cannot read include s3://%s/%s: %v", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading s3://%s/%s", bucket, key)
	}
	return data, nil
}

func queryOrEnv(query url.Values, key, env string) string {
	if v := query.Get(key); v != "" {
		return v
	}
	return os.Getenv(env)
}

func newS3Client(region, roleArn string) (s3iface.S3API, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}

	cfg := &aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	if roleArn != "" {
		cfg.Credentials = stscreds.NewCredentials(sess, roleArn)
	}
	return s3.New(sess, cfg), nil
}
