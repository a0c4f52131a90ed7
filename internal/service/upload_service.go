package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/user/cinelog/internal/config"
)

const maxUploadSize = 5 * 1024 * 1024 // 5MB

var (
	// ErrUploadNotConfigured S3 凭据缺失
	ErrUploadNotConfigured = errors.New("s3 not configured")
	// ErrInvalidFileType 不支持的图片格式
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrFileTooLarge 文件超过大小限制
	ErrFileTooLarge = errors.New("file too large")
)

// allowedImageTypes 允许上传的图片 MIME 类型
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// UploadService 图片上传服务（S3）
// 与邮件服务不同，上传是请求的全部目的，未配置时直接报错而不是静默跳过
type UploadService struct {
	client     *s3.Client
	bucket     string
	configured bool
}

// NewUploadService 创建上传服务
func NewUploadService(cfg *config.Config) *UploadService {
	configured := cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" && cfg.S3Bucket != ""
	if !configured {
		log.Println("[UploadService] 未配置 AWS 凭据，图片上传接口不可用")
		return &UploadService{}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		),
	)
	if err != nil {
		log.Printf("[UploadService] 加载 AWS 配置失败: %v", err)
		return &UploadService{}
	}

	return &UploadService{
		client:     s3.NewFromConfig(awsCfg),
		bucket:     cfg.S3Bucket,
		configured: true,
	}
}

// Configured 上传服务是否可用
func (s *UploadService) Configured() bool {
	return s.configured
}

// UploadImage 上传电影海报图片，返回公开访问 URL
// 只接受 jpeg/png/webp，最大 5MB，对象键为 movies/<uuid>.<ext>
func (s *UploadService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if !s.configured {
		return "", ErrUploadNotConfigured
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", ErrInvalidFileType
	}
	if file.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("读取上传文件失败: %w", err)
	}
	defer src.Close()

	ext := strings.TrimPrefix(filepath.Ext(file.Filename), ".")
	key := fmt.Sprintf("movies/%s.%s", uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		log.Printf("[UploadService] S3 上传失败: %v", err)
		return "", fmt.Errorf("上传到 S3 失败: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}
