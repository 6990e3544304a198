package utils

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStorage 媒体存储协作方
// Store 把本地文件转存为可访问的远程引用，Remove 按引用删除
// 删除失败不应阻塞业务流程，调用方记录日志后继续
type MediaStorage interface {
	Store(localPath string) (string, error)
	Remove(ref string) error
}

// LocalStorage 本地磁盘实现，文件通过 /media 静态路由对外提供
type LocalStorage struct {
	baseDir   string
	publicURL string // 对外 URL 前缀，如 "/media"
}

func NewLocalStorage(baseDir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalStorage{
		baseDir:   baseDir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// Store 转存本地文件，文件名改为随机 UUID，保留扩展名
func (s *LocalStorage) Store(localPath string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + strings.ToLower(filepath.Ext(localPath))
	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	// 转存成功后删除临时文件
	os.Remove(localPath)

	return s.publicURL + "/" + name, nil
}

// Remove 按引用删除文件，引用为 Store 返回的 URL
func (s *LocalStorage) Remove(ref string) error {
	name := path.Base(ref)
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid media ref: %q", ref)
	}
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}
