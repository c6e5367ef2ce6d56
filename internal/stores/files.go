package stores

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/logging"
)

// UploadStatus is the state of a tracked upload.
type UploadStatus string

const (
	UploadUploading UploadStatus = "uploading"
	UploadSuccess   UploadStatus = "success"
	UploadError     UploadStatus = "error"
)

// Text is the label shown next to an upload.
func (s UploadStatus) Text() string {
	switch s {
	case UploadUploading:
		return "업로드 중..."
	case UploadSuccess:
		return "업로드 완료"
	default:
		return "업로드 실패"
	}
}

// UploadItem tracks one upload until shortly after it finishes.
type UploadItem struct {
	ID     string
	Name   string
	Status UploadStatus
}

// FileStore caches the uploaded file list and in-flight uploads.
type FileStore struct {
	client    *api.Client
	statusTTL time.Duration
	log       zerolog.Logger

	mu       sync.RWMutex
	files    []api.FileInfo
	uploads  []UploadItem
	loading  bool
	onChange func()
}

// NewFileStore creates a FileStore. Finished uploads stay listed for
// statusTTL.
func NewFileStore(client *api.Client, statusTTL time.Duration) *FileStore {
	return &FileStore{
		client:    client,
		statusTTL: statusTTL,
		log:       logging.Component("files"),
	}
}

// OnChange registers fn to run after the upload list changes in the
// background. It replaces any earlier callback.
func (s *FileStore) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load refreshes the file list.
func (s *FileStore) Load(ctx context.Context) ([]api.FileInfo, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	files, err := s.client.Files(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Error().Err(err).Msg("load files")
		return nil, err
	}
	s.files = files
	return files, nil
}

// CheckExtension asks the backend whether ext is blocked. A failed check is
// reported as not blocked so the server makes the final call on upload.
func (s *FileStore) CheckExtension(ctx context.Context, ext string) bool {
	blocked, err := s.client.CheckExtension(ctx, NormalizeExtension(ext))
	if err != nil {
		s.log.Warn().Err(err).Str("extension", ext).Msg("extension check failed")
		return false
	}
	return blocked
}

// Upload sends r as filename and reloads the list on success. The upload is
// tracked in Uploads until statusTTL after it finishes.
func (s *FileStore) Upload(ctx context.Context, filename string, r io.Reader) (api.FileInfo, error) {
	item := UploadItem{
		ID:     uuid.NewString(),
		Name:   filename,
		Status: UploadUploading,
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, item)
	s.mu.Unlock()

	defer time.AfterFunc(s.statusTTL, func() { s.removeUpload(item.ID) })

	info, err := s.client.UploadFile(ctx, filename, r)
	if err != nil {
		s.log.Error().Err(err).Str("file", filename).Msg("upload failed")
		s.setUploadStatus(item.ID, UploadError)
		return api.FileInfo{}, err
	}

	s.setUploadStatus(item.ID, UploadSuccess)
	if _, err := s.Load(ctx); err != nil {
		return info, err
	}
	return info, nil
}

// UploadPath opens path and uploads it under its base name.
func (s *FileStore) UploadPath(ctx context.Context, path string) (api.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.FileInfo{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return s.Upload(ctx, filepath.Base(path), f)
}

// Download writes file into dir under its original name and returns the
// written path.
func (s *FileStore) Download(ctx context.Context, file api.FileInfo, dir string) (string, error) {
	name := filepath.Base(file.OriginalFilename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = fmt.Sprintf("file-%d", file.ID)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := s.client.DownloadFile(ctx, file.ID, out); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		s.log.Error().Err(err).Int64("id", file.ID).Msg("download failed")
		return "", err
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// Delete removes file and reloads the list.
func (s *FileStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteFile(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("delete failed")
		return err
	}
	_, err := s.Load(ctx)
	return err
}

// Files returns a copy of the cached list.
func (s *FileStore) Files() []api.FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.FileInfo(nil), s.files...)
}

// Find returns the cached file with id.
func (s *FileStore) Find(id int64) (api.FileInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return api.FileInfo{}, false
}

// IsLoading reports whether the list is being fetched.
func (s *FileStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// TotalCount is the number of cached files.
func (s *FileStore) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// TotalSize is the summed size of the cached files in bytes.
func (s *FileStore) TotalSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, f := range s.files {
		total += f.FileSize
	}
	return total
}

// ByExtension returns the files whose name ends in .ext, ignoring case.
func (s *FileStore) ByExtension(ext string) []api.FileInfo {
	ext = NormalizeExtension(ext)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.FileInfo
	for _, f := range s.files {
		if FileExtension(f.OriginalFilename) == ext {
			out = append(out, f)
		}
	}
	return out
}

// Match returns the files whose name matches a doublestar glob.
func (s *FileStore) Match(pattern string) ([]api.FileInfo, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.FileInfo
	for _, f := range s.files {
		if ok, _ := doublestar.Match(pattern, f.OriginalFilename); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Uploads returns the tracked uploads, oldest first.
func (s *FileStore) Uploads() []UploadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]UploadItem(nil), s.uploads...)
}

// SuccessfulUploads returns the tracked uploads that finished.
func (s *FileStore) SuccessfulUploads() []UploadItem {
	return s.uploadsWithStatus(UploadSuccess)
}

// FailedUploads returns the tracked uploads that failed.
func (s *FileStore) FailedUploads() []UploadItem {
	return s.uploadsWithStatus(UploadError)
}

// FileExtension returns the lowercased text after the last dot in name, or ""
// when there is none.
func FileExtension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func (s *FileStore) uploadsWithStatus(status UploadStatus) []UploadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []UploadItem
	for _, u := range s.uploads {
		if u.Status == status {
			out = append(out, u)
		}
	}
	return out
}

func (s *FileStore) setUploadStatus(id string, status UploadStatus) {
	s.mu.Lock()
	for i := range s.uploads {
		if s.uploads[i].ID == id {
			s.uploads[i].Status = status
			break
		}
	}
	s.mu.Unlock()
}

func (s *FileStore) removeUpload(id string) {
	s.mu.Lock()
	for i := range s.uploads {
		if s.uploads[i].ID == id {
			s.uploads = append(s.uploads[:i], s.uploads[i+1:]...)
			break
		}
	}
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}
