package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type awsS3 struct {
	client *s3.Client
	bucket string
	region string
}

func NewAwsS3(bucket, region, accessKey, secretKey string) (FileStorage, error) {
	if bucket == "" || region == "" {
		return nil, errors.New("AWS_S3_BUCKET and AWS_S3_REGION are required for the s3 storage driver")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

func (a *awsS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error) {
	src, mtype, err := openChecked(file, allowTypes...)
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := objectKey(folder, fileName, mtype.Extension())
	_, err = a.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentType:   aws.String(mtype.String()),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (a *awsS3) UpdateFile(objectKey string, file *multipart.FileHeader, allowTypes ...string) (string, error) {
	src, mtype, err := openChecked(file, allowTypes...)
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := replaceExt(objectKey, mtype.Extension())
	_, err = a.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentType:   aws.String(mtype.String()),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", err
	}
	if key != objectKey {
		_ = a.DeleteFile(objectKey)
	}
	return key, nil
}

func (a *awsS3) DeleteFile(objectKey string) error {
	_, err := a.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.baseURL() + objectKey
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, a.baseURL()) {
		return ""
	}
	return strings.TrimPrefix(link, a.baseURL())
}
