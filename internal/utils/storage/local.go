package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// localStorage keeps uploads on disk under dir. They are served at publicPath.
type localStorage struct {
	dir        string
	publicPath string
}

func NewLocalStorage(dir, publicPath string) (FileStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &localStorage{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

func (l *localStorage) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error) {
	src, mtype, err := openChecked(file, allowTypes...)
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := objectKey(folder, fileName, mtype.Extension())
	if err := l.write(key, src); err != nil {
		return "", err
	}
	return key, nil
}

func (l *localStorage) UpdateFile(objectKey string, file *multipart.FileHeader, allowTypes ...string) (string, error) {
	src, mtype, err := openChecked(file, allowTypes...)
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := replaceExt(objectKey, mtype.Extension())
	if err := l.write(key, src); err != nil {
		return "", err
	}
	if key != objectKey {
		_ = l.DeleteFile(objectKey)
	}
	return key, nil
}

func (l *localStorage) write(key string, src io.Reader) error {
	dst := l.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func (l *localStorage) DeleteFile(objectKey string) error {
	err := os.Remove(l.path(objectKey))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *localStorage) GetPublicLinkKey(objectKey string) string {
	return l.publicPath + "/" + objectKey
}

func (l *localStorage) GetObjectKeyFromLink(link string) string {
	prefix := l.publicPath + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

// path resolves a key inside dir. Keys never escape it.
func (l *localStorage) path(key string) string {
	clean := filepath.Clean("/" + key)
	return filepath.Join(l.dir, filepath.FromSlash(clean))
}
