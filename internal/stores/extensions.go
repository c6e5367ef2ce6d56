package stores

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/logging"
)

var extensionPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// ExtensionLimits bounds what may be added to each list.
type ExtensionLimits struct {
	MaxFixed  int
	MaxCustom int
	MaxLength int
}

// ExtensionStore caches the fixed and custom blocked-extension lists.
type ExtensionStore struct {
	client *api.Client
	limits ExtensionLimits
	log    zerolog.Logger

	mu            sync.RWMutex
	fixed         []api.FixedExtension
	custom        []api.CustomExtension
	loadingFixed  bool
	loadingCustom bool
}

// NewExtensionStore creates an ExtensionStore.
func NewExtensionStore(client *api.Client, limits ExtensionLimits) *ExtensionStore {
	return &ExtensionStore{
		client: client,
		limits: limits,
		log:    logging.Component("extensions"),
	}
}

// NormalizeExtension trims whitespace and a leading dot and lowercases ext.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// ValidateExtension checks a normalized extension name against the limits.
func (s *ExtensionStore) ValidateExtension(ext string) error {
	return criterio.Run("extension", ext, func(v string) error {
		switch {
		case v == "":
			return errors.New("확장자를 입력해주세요")
		case utf8.RuneCountInString(v) > s.limits.MaxLength:
			return fmt.Errorf("확장자는 최대 %d자까지 입력 가능합니다", s.limits.MaxLength)
		case !extensionPattern.MatchString(v):
			return errors.New("확장자는 영문 소문자와 숫자만 사용할 수 있습니다")
		}
		return nil
	})
}

// LoadFixed refreshes the fixed list.
func (s *ExtensionStore) LoadFixed(ctx context.Context) ([]api.FixedExtension, error) {
	s.mu.Lock()
	s.loadingFixed = true
	s.mu.Unlock()

	exts, err := s.client.FixedExtensions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingFixed = false
	if err != nil {
		s.log.Error().Err(err).Msg("load fixed extensions")
		return nil, err
	}
	s.fixed = exts
	return exts, nil
}

// ToggleFixed sets the blocked state of a fixed extension and reloads the list.
func (s *ExtensionStore) ToggleFixed(ctx context.Context, ext string, blocked bool) error {
	if err := s.client.SetFixedExtensionBlocked(ctx, ext, blocked); err != nil {
		s.log.Error().Err(err).Str("extension", ext).Msg("toggle fixed extension")
		return err
	}
	_, err := s.LoadFixed(ctx)
	return err
}

// AddFixed validates and adds a fixed extension.
func (s *ExtensionStore) AddFixed(ctx context.Context, ext string) (api.FixedExtension, error) {
	ext = NormalizeExtension(ext)
	if err := s.ValidateExtension(ext); err != nil {
		return api.FixedExtension{}, err
	}
	if n := len(s.Fixed()); n >= s.limits.MaxFixed {
		return api.FixedExtension{}, criterio.NewFieldErrors("extension",
			fmt.Errorf("고정 확장자는 최대 %d개까지 등록할 수 있습니다", s.limits.MaxFixed))
	}

	out, err := s.client.AddFixedExtension(ctx, ext)
	if err != nil {
		s.log.Error().Err(err).Str("extension", ext).Msg("add fixed extension")
		return api.FixedExtension{}, err
	}
	_, err = s.LoadFixed(ctx)
	return out, err
}

// DeleteFixed removes a fixed extension by ID.
func (s *ExtensionStore) DeleteFixed(ctx context.Context, id int64) error {
	if err := s.client.DeleteFixedExtension(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("delete fixed extension")
		return err
	}
	_, err := s.LoadFixed(ctx)
	return err
}

// ResetFixed restores the built-in fixed list.
func (s *ExtensionStore) ResetFixed(ctx context.Context) error {
	if err := s.client.ResetFixedExtensions(ctx); err != nil {
		s.log.Error().Err(err).Msg("reset fixed extensions")
		return err
	}
	_, err := s.LoadFixed(ctx)
	return err
}

// LoadCustom refreshes the custom list.
func (s *ExtensionStore) LoadCustom(ctx context.Context) ([]api.CustomExtension, error) {
	s.mu.Lock()
	s.loadingCustom = true
	s.mu.Unlock()

	exts, err := s.client.CustomExtensions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingCustom = false
	if err != nil {
		s.log.Error().Err(err).Msg("load custom extensions")
		return nil, err
	}
	s.custom = exts
	return exts, nil
}

// AddCustom validates and adds a custom extension.
func (s *ExtensionStore) AddCustom(ctx context.Context, ext string) (api.CustomExtension, error) {
	ext = NormalizeExtension(ext)
	if err := s.ValidateExtension(ext); err != nil {
		return api.CustomExtension{}, err
	}
	if n := len(s.Custom()); n >= s.limits.MaxCustom {
		return api.CustomExtension{}, criterio.NewFieldErrors("extension",
			fmt.Errorf("커스텀 확장자는 최대 %d개까지 등록할 수 있습니다", s.limits.MaxCustom))
	}

	out, err := s.client.AddCustomExtension(ctx, ext)
	if err != nil {
		s.log.Error().Err(err).Str("extension", ext).Msg("add custom extension")
		return api.CustomExtension{}, err
	}
	_, err = s.LoadCustom(ctx)
	return out, err
}

// DeleteCustom removes a custom extension by ID.
func (s *ExtensionStore) DeleteCustom(ctx context.Context, id int64) error {
	if err := s.client.DeleteCustomExtension(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("delete custom extension")
		return err
	}
	_, err := s.LoadCustom(ctx)
	return err
}

// DeleteAllCustom clears the custom list.
func (s *ExtensionStore) DeleteAllCustom(ctx context.Context) error {
	if err := s.client.DeleteAllCustomExtensions(ctx); err != nil {
		s.log.Error().Err(err).Msg("delete all custom extensions")
		return err
	}
	_, err := s.LoadCustom(ctx)
	return err
}

// Check asks the backend whether ext is blocked.
func (s *ExtensionStore) Check(ctx context.Context, ext string) (bool, error) {
	return s.client.CheckExtension(ctx, NormalizeExtension(ext))
}

// Type asks the backend which list ext belongs to.
func (s *ExtensionStore) Type(ctx context.Context, ext string) (api.ExtensionType, error) {
	return s.client.ExtensionTypeOf(ctx, NormalizeExtension(ext))
}

// Unblock lifts a block: custom extensions are deleted, fixed ones are
// toggled off. The affected list is reloaded.
func (s *ExtensionStore) Unblock(ctx context.Context, ext string, typ api.ExtensionType) error {
	ext = NormalizeExtension(ext)

	switch typ {
	case api.ExtensionCustom:
		if err := s.client.DeleteCustomExtensionByName(ctx, ext); err != nil {
			return err
		}
		_, err := s.LoadCustom(ctx)
		return err
	case api.ExtensionFixed:
		return s.ToggleFixed(ctx, ext, false)
	default:
		return fmt.Errorf("unknown extension type %q", typ)
	}
}

// Fixed returns a copy of the fixed list.
func (s *ExtensionStore) Fixed() []api.FixedExtension {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.FixedExtension(nil), s.fixed...)
}

// Custom returns a copy of the custom list.
func (s *ExtensionStore) Custom() []api.CustomExtension {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.CustomExtension(nil), s.custom...)
}

// BlockedFixed returns the fixed extensions currently blocked.
func (s *ExtensionStore) BlockedFixed() []api.FixedExtension {
	return s.filterFixed(true)
}

// AllowedFixed returns the fixed extensions currently allowed.
func (s *ExtensionStore) AllowedFixed() []api.FixedExtension {
	return s.filterFixed(false)
}

// TotalCount is the number of fixed and custom entries.
func (s *ExtensionStore) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fixed) + len(s.custom)
}

// BlockedCount is the number of blocked fixed entries plus every custom entry.
func (s *ExtensionStore) BlockedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.custom)
	for _, f := range s.fixed {
		if f.IsBlocked {
			n++
		}
	}
	return n
}

// IsBlocked reports from the cached lists whether ext is blocked. The match
// ignores case.
func (s *ExtensionStore) IsBlocked(ext string) bool {
	ext = NormalizeExtension(ext)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fixed {
		if f.IsBlocked && strings.EqualFold(f.Extension, ext) {
			return true
		}
	}
	for _, c := range s.custom {
		if strings.EqualFold(c.Extension, ext) {
			return true
		}
	}
	return false
}

// IsLoading reports whether either list is being fetched.
func (s *ExtensionStore) IsLoading() (fixed, custom bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingFixed, s.loadingCustom
}

func (s *ExtensionStore) filterFixed(blocked bool) []api.FixedExtension {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.FixedExtension
	for _, f := range s.fixed {
		if f.IsBlocked == blocked {
			out = append(out, f)
		}
	}
	return out
}
