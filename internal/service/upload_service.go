package service

import (
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/constants"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var allowedUploadScenes = map[string]struct{}{
	constants.UploadSceneProduct: {},
	constants.UploadScenePost:    {},
	constants.UploadSceneCommon:  {},
}

// UploadService 文件上传服务
type UploadService struct {
	cfg config.UploadConfig
	now func() time.Time
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg config.UploadConfig) *UploadService {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "./uploads"
	}
	return &UploadService{cfg: cfg, now: time.Now}
}

// Dir 上传根目录（静态服务挂载 /uploads）
func (s *UploadService) Dir() string {
	return s.cfg.Dir
}

// SaveFile 校验并保存上传文件，返回 /uploads/<scene>/<yyyy>/<mm>/<file> 形式的访问路径
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return "", fmt.Errorf("%w: max %d bytes", ErrUploadTooLarge, s.cfg.MaxSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 && (ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions)) {
		return "", fmt.Errorf("%w: %s", ErrUploadExtension, ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType, err := sniffContentType(src)
	if err != nil {
		return "", err
	}
	if len(s.cfg.AllowedTypes) > 0 && !containsFold(s.cfg.AllowedTypes, contentType) {
		return "", fmt.Errorf("%w: %s", ErrUploadContentType, contentType)
	}
	if strings.HasPrefix(contentType, "image/") {
		if err := s.checkImageDimensions(src); err != nil {
			return "", err
		}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	normalizedScene := normalizeUploadScene(scene)
	now := s.now()
	year, month := now.Format("2006"), now.Format("01")
	filename := uuid.NewString() + ext
	savePath := filepath.Join(s.cfg.Dir, normalizedScene, year, month, filename)
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path.Join("/uploads", normalizedScene, year, month, filename), nil
}

func (s *UploadService) checkImageDimensions(src io.ReadSeeker) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadImageInvalid, err)
	}
	if (s.cfg.MaxWidth > 0 && cfg.Width > s.cfg.MaxWidth) || (s.cfg.MaxHeight > 0 && cfg.Height > s.cfg.MaxHeight) {
		return fmt.Errorf("%w: %dx%d", ErrUploadImageDimension, cfg.Width, cfg.Height)
	}
	return nil
}

func sniffContentType(src io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

func normalizeUploadScene(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedUploadScenes[value]; ok {
		return value
	}
	return constants.UploadSceneCommon
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if ext == normalized {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}
