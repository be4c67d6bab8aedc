package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/greenloophq/greenloop/config"
	"github.com/nfnt/resize"
)

const (
	feedImageWidth = 800
	thumbnailSize  = 200
)

// MediaService stores report photos and their thumbnail renditions.
type MediaService interface {
	UploadReportImage(ctx context.Context, data []byte, mimeType string, userID uint) (string, string, error)
}

type mediaService struct {
	Config *config.Config
}

func NewMediaService(conf *config.Config) MediaService {
	return &mediaService{Config: conf}
}

// UploadReportImage uploads the full-size photo and a thumbnail to S3 and
// returns their public URLs.
func (m *mediaService) UploadReportImage(ctx context.Context, data []byte, mimeType string, userID uint) (string, string, error) {
	if m.Config.AwsBucket == "" {
		return "", "", fmt.Errorf("S3 bucket name is not configured")
	}

	client, err := m.s3Client(ctx)
	if err != nil {
		return "", "", fmt.Errorf("unable to load AWS config: %v", err)
	}

	key := fmt.Sprintf("reports/%d_%s.jpg", userID, uuid.New().String())
	thumbKey := fmt.Sprintf("reports/thumbnails/%d_%s.jpg", userID, uuid.New().String())

	feed, thumb, err := renditions(data)
	if err != nil {
		return "", "", err
	}

	if err := m.putObject(ctx, client, key, feed, mimeType); err != nil {
		return "", "", fmt.Errorf("failed to upload image to S3: %v", err)
	}
	if err := m.putObject(ctx, client, thumbKey, thumb, "image/jpeg"); err != nil {
		return "", "", fmt.Errorf("failed to upload thumbnail to S3: %v", err)
	}

	return m.objectURL(key), m.objectURL(thumbKey), nil
}

func (m *mediaService) s3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(m.Config.AwsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(m.Config.AwsAccessKeyID, m.Config.AwsSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

func (m *mediaService) putObject(ctx context.Context, client *s3.Client, key string, body []byte, contentType string) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.Config.AwsBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	return err
}

func (m *mediaService) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Config.AwsBucket, m.Config.AwsRegion, key)
}

// renditions decodes the upload and produces the feed-size image and its
// square thumbnail.
func renditions(data []byte) ([]byte, []byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("error decoding report image: %v", err)
		return nil, nil, fmt.Errorf("unsupported image data: %v", err)
	}

	feedImg := resize.Resize(feedImageWidth, 0, src, resize.Lanczos3)
	thumbImg := imaging.Thumbnail(src, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var feedBuf, thumbBuf bytes.Buffer
	if err := jpeg.Encode(&feedBuf, feedImg, &jpeg.Options{Quality: 85}); err != nil {
		return nil, nil, err
	}
	if err := jpeg.Encode(&thumbBuf, thumbImg, &jpeg.Options{Quality: 85}); err != nil {
		return nil, nil, err
	}
	return feedBuf.Bytes(), thumbBuf.Bytes(), nil
}
