package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"oona/internal/caching"
	"oona/internal/models"
	"oona/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/labstack/gommon/random"
	"github.com/shopspring/decimal"
)

const (
	MaxImageSize   = 5 << 20
	menuImageDir   = "menu-items"
	menuCacheTTL   = 15 * time.Minute
	CategoryAll    = "All"
	maxNameLength  = 120
	maxFieldLength = 1000
)

// ImageUpload is an image file chosen in the menu item form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type MenuService interface {
	List(ctx context.Context) ([]*models.MenuItem, error)
	Browse(ctx context.Context, search, category string) (*models.MenuBrowseResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	Create(ctx context.Context, form *models.MenuItemForm) (*models.MenuItem, error)
	Update(ctx context.Context, id uuid.UUID, form *models.MenuItemForm) (*models.MenuItem, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.MenuItem, error)
	UploadImage(ctx context.Context, form *models.MenuItemForm, upload ImageUpload) error
	WarmCache(ctx context.Context) error
}

type menuService struct {
	repo     repositories.MenuItemRepository
	cacheSvc caching.CacheService
	storage  StorageService
	bucket   string
	now      func() time.Time
}

func NewMenuService(repo repositories.MenuItemRepository, cacheSvc caching.CacheService, storage StorageService, bucket string) MenuService {
	return &menuService{
		repo:     repo,
		cacheSvc: cacheSvc,
		storage:  storage,
		bucket:   bucket,
		now:      time.Now,
	}
}

// List returns every menu item ordered by category, cache first.
func (s *menuService) List(ctx context.Context) ([]*models.MenuItem, error) {
	if s.cacheSvc != nil {
		items, err := s.cacheSvc.GetMenuItems(ctx)
		if err != nil {
			log.Warnf("menu cache read failed: %v", err)
		} else if items != nil {
			return items, nil
		}
	}
	return s.load(ctx)
}

// load reads the menu from the database. The cache generation is taken
// before the query so a concurrent invalidation makes this write unreachable.
func (s *menuService) load(ctx context.Context) ([]*models.MenuItem, error) {
	cacheable := s.cacheSvc != nil
	var version int64
	if cacheable {
		var err error
		if version, err = s.cacheSvc.MenuVersion(ctx); err != nil {
			log.Warnf("menu cache version read failed: %v", err)
			cacheable = false
		}
	}

	items, err := s.repo.ListByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	if cacheable {
		if err := s.cacheSvc.SetMenuItems(ctx, version, items, menuCacheTTL); err != nil {
			log.Warnf("menu cache write failed: %v", err)
		}
	}
	return items, nil
}

func (s *menuService) WarmCache(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

func (s *menuService) invalidate(ctx context.Context) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.InvalidateMenu(ctx); err != nil {
		log.Warnf("menu cache invalidation failed: %v", err)
	}
}

func (s *menuService) Browse(ctx context.Context, search, category string) (*models.MenuBrowseResult, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = CategoryAll
	}
	return &models.MenuBrowseResult{
		Items:      FilterMenuItems(items, search, category),
		Categories: MenuCategories(items),
		Search:     search,
		Category:   category,
	}, nil
}

// FilterMenuItems keeps items whose name or description contains search
// (case-insensitive) and whose category equals category, "All" matching any.
func FilterMenuItems(items []*models.MenuItem, search, category string) []*models.MenuItem {
	term := strings.ToLower(search)
	filtered := make([]*models.MenuItem, 0, len(items))
	for _, item := range items {
		matchesSearch := strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Description), term)
		matchesCategory := category == "" || category == CategoryAll || item.Category == category
		if matchesSearch && matchesCategory {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// MenuCategories returns the distinct categories in first-seen order.
func MenuCategories(items []*models.MenuItem) []string {
	seen := make(map[string]struct{}, len(items))
	categories := []string{}
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}

func (s *menuService) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

// FormFromItem pre-fills the edit form.
func FormFromItem(item *models.MenuItem) *models.MenuItemForm {
	available := item.Available
	return &models.MenuItemForm{
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price.StringFixed(2),
		ImageURL:    item.ImageURL,
		Available:   &available,
	}
}

type validForm struct {
	name        string
	description string
	category    string
	price       decimal.Decimal
}

func validateForm(form *models.MenuItemForm) (*validForm, error) {
	v := &validForm{
		name:        strings.TrimSpace(form.Name),
		description: strings.TrimSpace(form.Description),
		category:    strings.TrimSpace(form.Category),
	}
	switch {
	case v.name == "":
		return nil, fieldError("name", "name is required")
	case len(v.name) > maxNameLength:
		return nil, fieldError("name", fmt.Sprintf("name cannot exceed %d characters", maxNameLength))
	case v.description == "":
		return nil, fieldError("description", "description is required")
	case len(v.description) > maxFieldLength:
		return nil, fieldError("description", fmt.Sprintf("description cannot exceed %d characters", maxFieldLength))
	case v.category == "":
		return nil, fieldError("category", "category is required")
	case strings.TrimSpace(form.Price) == "":
		return nil, fieldError("price", "price is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		return nil, fieldError("price", "price must be a number")
	}
	if price.IsNegative() {
		return nil, fieldError("price", "price cannot be negative")
	}
	v.price = price.Round(2)
	return v, nil
}

func normalizeImageURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *menuService) Create(ctx context.Context, form *models.MenuItemForm) (*models.MenuItem, error) {
	v, err := validateForm(form)
	if err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		ID:          uuid.New(),
		Name:        v.name,
		Description: v.description,
		Category:    v.category,
		Price:       v.price,
		ImageURL:    normalizeImageURL(form.ImageURL),
		Available:   true,
	}
	if form.Available != nil {
		item.Available = *form.Available
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

// Update applies form to an existing item. A nil image keeps the current one,
// an empty image clears it.
func (s *menuService) Update(ctx context.Context, id uuid.UUID, form *models.MenuItemForm) (*models.MenuItem, error) {
	v, err := validateForm(form)
	if err != nil {
		return nil, err
	}
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = v.name
	item.Description = v.description
	item.Category = v.category
	item.Price = v.price
	if form.ImageURL != nil {
		item.ImageURL = normalizeImageURL(form.ImageURL)
	}
	if form.Available != nil {
		item.Available = *form.Available
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *menuService) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	s.invalidate(ctx)

	if item.ImageURL != nil && s.storage != nil {
		if object, ok := s.storage.ObjectFromURL(s.bucket, *item.ImageURL); ok {
			if err := s.storage.Remove(ctx, s.bucket, object); err != nil {
				log.Warnf("failed to remove image %s of deleted menu item %s: %v", object, id, err)
			}
		}
	}
	return nil
}

func (s *menuService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.MenuItem, error) {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	s.invalidate(ctx)
	return s.GetByID(ctx, id)
}

// ValidateImage checks an upload without touching storage.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return ErrInvalidImageType
	}
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

func (s *menuService) objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	suffix := random.String(8, random.Lowercase, random.Numeric)
	return fmt.Sprintf("%s/%d-%s%s", menuImageDir, s.now().UnixMilli(), suffix, ext)
}

// UploadImage stores the image and sets form.ImageURL to its public URL.
// A missing bucket is created and the upload retried once. On failure the
// form is left untouched.
func (s *menuService) UploadImage(ctx context.Context, form *models.MenuItemForm, upload ImageUpload) error {
	if err := ValidateImage(upload.ContentType, upload.Size); err != nil {
		return err
	}

	object := s.objectName(upload.Filename)
	err := s.storage.Upload(ctx, s.bucket, object, upload.Body, upload.Size, upload.ContentType)
	if errors.Is(err, ErrBucketNotFound) {
		log.Infof("bucket %s missing, creating it", s.bucket)
		if err := s.storage.CreatePublicBucket(ctx, s.bucket); err != nil {
			return fmt.Errorf("failed to create image bucket: %w", err)
		}
		if _, err := upload.Body.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to rewind image: %w", err)
		}
		err = s.storage.Upload(ctx, s.bucket, object, upload.Body, upload.Size, upload.ContentType)
	}
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	url := s.storage.PublicURL(s.bucket, object)
	form.ImageURL = &url
	return nil
}
