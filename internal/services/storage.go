package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Inspection photos and license photos share one bucket prefix. Exit photos
// carry an "exit-" filename marker so the booking's photo history can tell
// entry and exit inspections apart downstream.
const (
	inspectionsPrefix = "inspections"
	licensesFolder    = "licenses"
	exitMarker        = "exit-"
)

var (
	s3Session *session.Session
	s3Client  *s3.S3
	uploader  *s3manager.Uploader
	useS3     bool
	baseURL   string
	uploadDir string
)

// UploadResult describes a stored photo.
type UploadResult struct {
	URL       string `json:"url"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

// InitStorage initializes either S3 or local storage based on configuration
func InitStorage() error {
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(
				awsAccessKey,
				awsSecretKey,
				"",
			),
		})
		if err != nil {
			return fmt.Errorf("failed to create AWS session: %v", err)
		}

		s3Session = sess
		s3Client = s3.New(sess)
		uploader = s3manager.NewUploader(sess)
		useS3 = true

		fmt.Println("✅ AWS S3 storage initialized successfully")
		return nil
	}

	// Fallback to local storage
	useS3 = false
	uploadDir = os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if err := os.MkdirAll(filepath.Join(uploadDir, inspectionsPrefix), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %v", err)
	}

	fmt.Println("⚠️  AWS S3 not configured. Using local file storage (not recommended for production)")
	return nil
}

// UploadInspectionPhoto stores one entry- or exit-inspection photo under
// inspections/{bookingId}/{exit-}{side}-{timestamp}.{ext}.
func UploadInspectionPhoto(file *multipart.FileHeader, bookingID, side string, exit bool) (*UploadResult, error) {
	timestamp := time.Now().UnixMilli()
	fileExt := filepath.Ext(file.Filename)
	if fileExt == "" {
		fileExt = ".jpg"
	}

	marker := ""
	if exit {
		marker = exitMarker
	}
	key := fmt.Sprintf("%s/%s/%s%s-%d%s", inspectionsPrefix, bookingID, marker, side, timestamp, fileExt)

	url, err := uploadFile(file, key)
	if err != nil {
		return nil, err
	}

	return &UploadResult{URL: url, Path: key, Timestamp: timestamp}, nil
}

// UploadLicensePhoto stores a driver's license photo under
// inspections/licenses/{bookingId}/license-{timestamp}.{ext}.
func UploadLicensePhoto(file *multipart.FileHeader, bookingID string) (*UploadResult, error) {
	timestamp := time.Now().UnixMilli()
	fileExt := filepath.Ext(file.Filename)
	if fileExt == "" {
		fileExt = ".jpg"
	}

	key := fmt.Sprintf("%s/%s/%s/license-%d%s", inspectionsPrefix, licensesFolder, bookingID, timestamp, fileExt)

	url, err := uploadFile(file, key)
	if err != nil {
		return nil, err
	}

	return &UploadResult{URL: url, Path: key, Timestamp: timestamp}, nil
}

func uploadFile(file *multipart.FileHeader, key string) (string, error) {
	if useS3 {
		return uploadToS3(file, key)
	}
	return uploadLocally(file, key)
}

// uploadToS3 uploads a file to AWS S3 under the given key
func uploadToS3(file *multipart.FileHeader, key string) (string, error) {
	bucketName := os.Getenv("AWS_S3_BUCKET")
	if bucketName == "" {
		return "", fmt.Errorf("S3 bucket name not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	contentType := http.DetectContentType(buffer.Bytes())

	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	awsRegion := os.Getenv("AWS_REGION")
	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, awsRegion, key)

	return publicURL, nil
}

// uploadLocally writes the file under the local upload directory
func uploadLocally(file *multipart.FileHeader, key string) (string, error) {
	filePath := filepath.Join(uploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create folder directory: %v", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return fmt.Sprintf("%s/uploads/%s", baseURL, key), nil
}

// DeleteImage deletes a stored photo by its key
func DeleteImage(key string) error {
	if useS3 {
		return deleteFromS3(key)
	}
	return os.Remove(filepath.Join(uploadDir, filepath.FromSlash(key)))
}

// deleteFromS3 deletes a file from AWS S3
func deleteFromS3(key string) error {
	if s3Client == nil {
		return fmt.Errorf("S3 client not initialized")
	}

	bucketName := os.Getenv("AWS_S3_BUCKET")
	if bucketName == "" {
		return fmt.Errorf("S3 bucket name not configured")
	}

	_, err := s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})

	return err
}

// IsUsingS3 returns true if S3 storage is being used
func IsUsingS3() bool {
	return useS3
}

// LocalUploadDir returns the directory backing local storage. Only meaningful
// when S3 is not in use.
func LocalUploadDir() string {
	return uploadDir
}
