package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"slices"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/internal/utils"

	"github.com/gabriel-vasile/mimetype"
)

var AllowImage = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// FileStorage stores uploaded files and maps object keys to public links.
type FileStorage interface {
	UploadFile(fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error)
	UpdateFile(objectKey string, file *multipart.FileHeader, allowTypes ...string) (string, error)
	DeleteFile(objectKey string) error
	GetPublicLinkKey(objectKey string) string
	GetObjectKeyFromLink(link string) string
}

// New picks the driver named by STORAGE_DRIVER.
func New(cfg utils.Config) (FileStorage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewAwsS3(cfg.AWSS3Bucket, cfg.AWSS3Region, cfg.AWSAccessKey, cfg.AWSSecretKey)
	case "", "local":
		return NewLocalStorage(cfg.UploadDir, cfg.UploadPublicPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// openChecked opens the upload, sniffs its content and rewinds it. The
// caller closes the returned file.
func openChecked(file *multipart.FileHeader, allowTypes ...string) (multipart.File, *mimetype.MIME, error) {
	src, err := file.Open()
	if err != nil {
		return nil, nil, err
	}

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		src.Close()
		return nil, nil, err
	}
	if len(allowTypes) > 0 && !slices.Contains(allowTypes, mtype.String()) {
		src.Close()
		return nil, nil, domain.ErrInvalidFileType
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		src.Close()
		return nil, nil, err
	}
	return src, mtype, nil
}

func objectKey(folder, fileName, ext string) string {
	return path.Join(folder, fileName+ext)
}

// replaceExt keeps the key's folder and base name but swaps the extension.
func replaceExt(key, ext string) string {
	return key[:len(key)-len(path.Ext(key))] + ext
}
