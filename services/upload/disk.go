package uploadsvc

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// allowed upload extensions; everything else is rejected
var allowedExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".pdf":  true,
}

// Service stores uploaded files.
type Service interface {
	// Save stores the uploaded file and returns the name it was stored under.
	Save(fh *multipart.FileHeader) (string, error)
	// Path resolves a stored name to a path on disk.
	Path(name string) string
	Remove(name string) error
}

// diskService writes uploads to a flat directory, naming each file by upload
// timestamp to avoid collisions.
type diskService struct {
	dir string
}

var _ Service = (*diskService)(nil)

func NewDiskService(conf core.Config) (Service, error) {
	if err := os.MkdirAll(conf.UploadDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}
	return &diskService{dir: conf.UploadDir}, nil
}

func (svc *diskService) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer func() { _ = src.Close() }()

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(svc.dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	defer func() { _ = dst.Close() }()

	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "writing upload file")
	}
	return name, nil
}

func (svc *diskService) Path(name string) string {
	return filepath.Join(svc.dir, filepath.Base(name))
}

func (svc *diskService) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(svc.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing upload file")
	}
	return nil
}
