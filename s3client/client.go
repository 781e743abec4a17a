package s3client

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/kelseyhightower/envconfig"

	"text2phenotype.com/nsd/logger"
)

type Config struct {
	BucketName string `envconfig:"MDL_COMN_STORAGE_CONTAINER_NAME" required:"true"`
	Region     string `envconfig:"MDL_COMN_AWS_REGION" default:"us-east-1"`
	RoleArn    string `envconfig:"MDL_COMN_AWS_ROLE_ARN" default:""`
}

var clientLogger = logger.NewLogger("S3 client")

// Client uploads results to and downloads parse payloads from the
// platform bucket. When a role ARN is configured the session uses
// auto-refreshing STS credentials.
type Client struct {
	sess       *session.Session
	bucketName string
}

func New() (*Client, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		clientLogger.Error().Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}

	awsConfig := aws.NewConfig().WithRegion(config.Region)
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	if config.RoleArn != "" {
		sess, err = session.NewSession(awsConfig.WithCredentials(stscreds.NewCredentials(sess, config.RoleArn)))
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		sess:       sess,
		bucketName: config.BucketName,
	}, nil
}

func (client *Client) Upload(data string, key string) error {
	clientLogger.Debug().Str("key", key).Msg("Uploading the file")
	uploader := s3manager.NewUploader(client.sess)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: &client.bucketName,
		Key:    &key,
		Body:   strings.NewReader(data),
	})
	return err
}

func (client *Client) Download(key string) ([]byte, error) {
	clientLogger.Debug().Str("key", key).Msg("Downloading the file")
	downloader := s3manager.NewDownloader(client.sess)
	buf := aws.NewWriteAtBuffer(nil)
	_, err := downloader.Download(buf, &s3.GetObjectInput{
		Bucket: &client.bucketName,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (client *Client) Close() {}
