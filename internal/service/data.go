package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Egxr41k/volosmeister-backend/internal/archive"
	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/internal/event"
	"github.com/Egxr41k/volosmeister-backend/internal/storage"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
	"github.com/Egxr41k/volosmeister-backend/pkg/slug"
)

// ImportMode selects how an imported bundle is reconciled with existing data.
type ImportMode string

const (
	// ImportModeSafe merges the bundle into existing data, reusing records
	// matched by natural key.
	ImportModeSafe ImportMode = "safe"

	// ImportModeForce replaces all existing data with the bundle verbatim,
	// preserving bundle ids.
	ImportModeForce ImportMode = "force"
)

// ParseImportMode validates a mode string. An empty string selects safe mode.
func ParseImportMode(s string) (ImportMode, error) {
	switch s {
	case "", string(ImportModeSafe):
		return ImportModeSafe, nil
	case string(ImportModeForce):
		return ImportModeForce, nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("import mode must be %q or %q", ImportModeSafe, ImportModeForce))
	}
}

// ImportOptions configures a bundle import run.
type ImportOptions struct {
	Mode ImportMode
	// Strict aborts the import when a product references an unknown
	// category or manufacturer; lenient mode skips the product.
	Strict bool
}

// KindSummary counts the outcomes for one entity kind during an import.
type KindSummary struct {
	Created int `json:"created"`
	Reused  int `json:"reused"`
	Skipped int `json:"skipped"`
}

// ImportSummary reports per-kind outcomes of a bundle import.
type ImportSummary struct {
	Mode          ImportMode  `json:"mode"`
	Categories    KindSummary `json:"categories"`
	Manufacturers KindSummary `json:"manufacturers"`
	Users         KindSummary `json:"users"`
	Products      KindSummary `json:"products"`
	Assets        KindSummary `json:"assets"`
}

// DataService orchestrates bundle import and export across the entity
// services, the asset store, and the archive codec.
type DataService struct {
	categories    *CategoryService
	manufacturers *ManufacturerService
	users         *UserService
	products      *ProductService
	store         storage.Storage
	producer      *event.Producer
	logger        *slog.Logger
}

// NewDataService creates a new import/export service.
func NewDataService(
	categories *CategoryService,
	manufacturers *ManufacturerService,
	users *UserService,
	products *ProductService,
	store storage.Storage,
	producer *event.Producer,
	logger *slog.Logger,
) *DataService {
	return &DataService{
		categories:    categories,
		manufacturers: manufacturers,
		users:         users,
		products:      products,
		store:         store,
		producer:      producer,
		logger:        logger,
	}
}

// Import reads a bundle archive and reconciles its contents with the store.
func (s *DataService) Import(ctx context.Context, zipPath string, opts ImportOptions) (*ImportSummary, error) {
	bundle, err := archive.Unpack(zipPath)
	if err != nil {
		return nil, fmt.Errorf("unpack bundle: %w", err)
	}

	summary := &ImportSummary{Mode: opts.Mode}

	assetURLs, err := s.resolveAssets(ctx, bundle.Images, &summary.Assets)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := s.importCategories(ctx, bundle.Categories, opts.Mode, &summary.Categories)
	if err != nil {
		return nil, err
	}

	if err := s.importManufacturersAndUsers(ctx, bundle, opts.Mode, summary); err != nil {
		return nil, err
	}

	if err := s.importProducts(ctx, bundle.Products, opts, assetURLs, categoryIDs, &summary.Products); err != nil {
		return nil, err
	}

	if err := s.producer.PublishImportCompleted(ctx, event.ImportCompletedData{
		Mode:          string(opts.Mode),
		Categories:    summary.Categories.Created + summary.Categories.Reused,
		Manufacturers: summary.Manufacturers.Created + summary.Manufacturers.Reused,
		Users:         summary.Users.Created + summary.Users.Reused,
		Products:      summary.Products.Created + summary.Products.Reused,
		Assets:        summary.Assets.Created + summary.Assets.Reused,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish import.completed event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "bundle import completed",
		slog.String("mode", string(opts.Mode)),
		slog.Int("categories", summary.Categories.Created+summary.Categories.Reused),
		slog.Int("products", summary.Products.Created+summary.Products.Reused),
	)

	return summary, nil
}

// Export assembles the whole catalog into a bundle archive and returns its
// path. The caller streams the file and removes it.
func (s *DataService) Export(ctx context.Context) (string, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return "", err
	}

	manufacturers, err := s.manufacturers.ListManufacturers(ctx)
	if err != nil {
		return "", err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return "", err
	}

	products, err := s.products.ListAllProducts(ctx)
	if err != nil {
		return "", err
	}

	categoryNames := make(map[int64]string, len(categories))
	bundle := &domain.Bundle{}

	for _, c := range categories {
		categoryNames[c.ID] = c.Name
		bundle.Categories = append(bundle.Categories, domain.CategoryRecord{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			ParentID: c.ParentID,
		})
	}

	manufacturerNames := make(map[int64]string, len(manufacturers))
	for _, m := range manufacturers {
		manufacturerNames[m.ID] = m.Name
		bundle.Manufacturers = append(bundle.Manufacturers, domain.ManufacturerRecord{
			ID:   m.ID,
			Name: m.Name,
			Slug: m.Slug,
		})
	}

	for _, u := range users {
		bundle.Users = append(bundle.Users, domain.UserRecord{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
		})
	}

	for _, p := range products {
		record := domain.ProductRecord{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			Price:       p.Price,
			CategoryID:  p.CategoryID,
			Images:      make([]string, 0, len(p.Images)),
		}
		if p.CategoryID != nil {
			record.CategoryName = categoryNames[*p.CategoryID]
		}
		if p.ManufacturerID != nil {
			record.ManufacturerName = manufacturerNames[*p.ManufacturerID]
		}
		for _, url := range p.Images {
			record.Images = append(record.Images, path.Base(url))
		}
		bundle.Products = append(bundle.Products, record)
	}

	keys, err := s.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list stored assets: %w", err)
	}

	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("read stored asset %s: %w", key, err)
		}
		bundle.Images = append(bundle.Images, domain.AssetFile{Name: key, Data: data})
	}

	zipPath, err := archive.Pack(bundle)
	if err != nil {
		return "", fmt.Errorf("pack bundle: %w", err)
	}

	if err := s.producer.PublishExportCompleted(ctx, event.ExportCompletedData{
		Categories:    len(bundle.Categories),
		Manufacturers: len(bundle.Manufacturers),
		Users:         len(bundle.Users),
		Products:      len(bundle.Products),
		Assets:        len(bundle.Images),
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish export.completed event",
			slog.String("error", err.Error()),
		)
	}

	return zipPath, nil
}

// resolveAssets stores every bundle asset that is not already present and
// returns a name-to-URL map for product image rewriting. Assets fan out
// concurrently; the map is guarded by a mutex.
func (s *DataService) resolveAssets(ctx context.Context, images []domain.AssetFile, summary *KindSummary) (map[string]string, error) {
	urls := make(map[string]string, len(images))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	for _, img := range images {
		img := img
		g.Go(func() error {
			exists, err := s.store.Exists(gctx, img.Name)
			if err != nil {
				return fmt.Errorf("check asset %s: %w", img.Name, err)
			}

			var url string
			if exists {
				url, err = s.store.GetURL(gctx, img.Name)
				if err != nil {
					return fmt.Errorf("resolve asset url %s: %w", img.Name, err)
				}
			} else {
				result, err := s.store.Upload(gctx, &storage.UploadInput{
					Key:  img.Name,
					Data: bytes.NewReader(img.Data),
				})
				if err != nil {
					return fmt.Errorf("store asset %s: %w", img.Name, err)
				}
				url = result.URL
			}

			mu.Lock()
			urls[img.Name] = url
			if exists {
				summary.Reused++
			} else {
				summary.Created++
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

// importCategories reconciles the bundle's category records and returns a
// name-to-id map for product category rewriting.
func (s *DataService) importCategories(ctx context.Context, records []domain.CategoryRecord, mode ImportMode, summary *KindSummary) (map[string]int64, error) {
	batch := make([]domain.Category, 0, len(records))
	now := time.Now().UTC()

	for _, r := range records {
		categorySlug := r.Slug
		if categorySlug == "" {
			categorySlug = slug.Generate(r.Name)
		}
		batch = append(batch, domain.Category{
			ID:        r.ID,
			Name:      r.Name,
			Slug:      categorySlug,
			ParentID:  r.ParentID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if mode == ImportModeForce {
		if err := s.categories.ForceCreateMany(ctx, batch); err != nil {
			return nil, err
		}
		summary.Created = len(batch)

		ids := make(map[string]int64, len(batch))
		for _, c := range batch {
			ids[c.Name] = c.ID
		}
		return ids, nil
	}

	before, err := s.countExistingByName(ctx, batch)
	if err != nil {
		return nil, err
	}

	resolved, err := s.categories.SafeCreateMany(ctx, batch)
	if err != nil {
		return nil, err
	}

	summary.Reused = before
	summary.Created = len(resolved) - before

	ids := make(map[string]int64, len(resolved))
	for _, c := range resolved {
		ids[c.Name] = c.ID
	}
	return ids, nil
}

// countExistingByName counts how many batch names already have a persisted
// category, so the summary can split created from reused.
func (s *DataService) countExistingByName(ctx context.Context, batch []domain.Category) (int, error) {
	count := 0
	seen := make(map[string]bool, len(batch))

	for _, c := range batch {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true

		_, err := s.categories.GetCategoryByName(ctx, c.Name)
		if err == nil {
			count++
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return 0, err
		}
	}

	return count, nil
}

// importManufacturersAndUsers de-duplicates the two independent kinds
// concurrently.
func (s *DataService) importManufacturersAndUsers(ctx context.Context, bundle *domain.Bundle, mode ImportMode, summary *ImportSummary) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.importManufacturers(gctx, bundle.Manufacturers, mode, &summary.Manufacturers)
	})

	g.Go(func() error {
		return s.importUsers(gctx, bundle.Users, mode, &summary.Users)
	})

	return g.Wait()
}

func (s *DataService) importManufacturers(ctx context.Context, records []domain.ManufacturerRecord, mode ImportMode, summary *KindSummary) error {
	if mode == ImportModeForce {
		batch := make([]domain.Manufacturer, 0, len(records))
		now := time.Now().UTC()
		for _, r := range records {
			manufacturerSlug := r.Slug
			if manufacturerSlug == "" {
				manufacturerSlug = slug.Generate(r.Name)
			}
			batch = append(batch, domain.Manufacturer{
				ID:        r.ID,
				Name:      r.Name,
				Slug:      manufacturerSlug,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := s.manufacturers.ForceCreateMany(ctx, batch); err != nil {
			return err
		}
		summary.Created = len(batch)
		return nil
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Name == "" || seen[r.Name] {
			continue
		}
		seen[r.Name] = true

		_, err := s.manufacturers.GetManufacturerByName(ctx, r.Name)
		if err == nil {
			summary.Reused++
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if _, err := s.manufacturers.ResolveOrCreate(ctx, r.Name); err != nil {
			return err
		}
		summary.Created++
	}

	return nil
}

func (s *DataService) importUsers(ctx context.Context, records []domain.UserRecord, mode ImportMode, summary *KindSummary) error {
	if mode == ImportModeForce {
		batch := make([]domain.User, 0, len(records))
		now := time.Now().UTC()
		for _, r := range records {
			batch = append(batch, domain.User{
				ID:        r.ID,
				Email:     r.Email,
				Name:      r.Name,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := s.users.ForceCreateMany(ctx, batch); err != nil {
			return err
		}
		summary.Created = len(batch)
		return nil
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Email == "" || seen[r.Email] {
			continue
		}
		seen[r.Email] = true

		_, err := s.users.GetUserByEmail(ctx, r.Email)
		if err == nil {
			summary.Reused++
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if _, err := s.users.ResolveOrCreate(ctx, r.Email, r.Name); err != nil {
			return err
		}
		summary.Created++
	}

	return nil
}

// importProducts creates or reuses each product record, rewriting asset
// names to stored URLs and category/manufacturer names to resolved ids.
func (s *DataService) importProducts(
	ctx context.Context,
	records []domain.ProductRecord,
	opts ImportOptions,
	assetURLs map[string]string,
	categoryIDs map[string]int64,
	summary *KindSummary,
) error {
	if opts.Mode == ImportModeForce {
		return s.forceImportProducts(ctx, records, assetURLs, summary)
	}

	for _, r := range records {
		if r.Name == "" {
			summary.Skipped++
			continue
		}

		categoryID, ok, err := s.resolveProductCategory(ctx, r, categoryIDs)
		if err != nil {
			return err
		}
		if !ok {
			if opts.Strict {
				ref := r.CategoryName
				if ref == "" && r.CategoryID != nil {
					ref = strconv.FormatInt(*r.CategoryID, 10)
				}
				return apperrors.UnknownReference(r.Name, "category", ref)
			}
			s.logger.WarnContext(ctx, "skipping product with unknown category",
				slog.String("product", r.Name),
				slog.String("category", r.CategoryName),
			)
			summary.Skipped++
			continue
		}

		manufacturerID, ok, err := s.resolveProductManufacturer(ctx, r)
		if err != nil {
			return err
		}
		if !ok {
			if opts.Strict {
				return apperrors.UnknownReference(r.Name, "manufacturer", r.ManufacturerName)
			}
			s.logger.WarnContext(ctx, "skipping product with unknown manufacturer",
				slog.String("product", r.Name),
				slog.String("manufacturer", r.ManufacturerName),
			)
			summary.Skipped++
			continue
		}

		_, err = s.products.repo.GetByName(ctx, r.Name)
		if err == nil {
			summary.Reused++
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("get product by name: %w", err)
		}

		if _, err := s.products.ResolveOrCreate(ctx, &CreateProductInput{
			Name:           r.Name,
			Description:    r.Description,
			Price:          r.Price,
			Images:         rewriteImages(r.Images, assetURLs),
			CategoryID:     categoryID,
			ManufacturerID: manufacturerID,
		}); err != nil {
			return err
		}
		summary.Created++
	}

	return nil
}

func (s *DataService) forceImportProducts(ctx context.Context, records []domain.ProductRecord, assetURLs map[string]string, summary *KindSummary) error {
	batch := make([]domain.Product, 0, len(records))
	now := time.Now().UTC()

	for _, r := range records {
		productSlug := r.Slug
		if productSlug == "" {
			productSlug = slug.Generate(r.Name)
		}
		batch = append(batch, domain.Product{
			ID:          r.ID,
			Name:        r.Name,
			Slug:        productSlug,
			Description: r.Description,
			Price:       r.Price,
			Images:      rewriteImages(r.Images, assetURLs),
			CategoryID:  r.CategoryID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.products.ForceCreateMany(ctx, batch); err != nil {
		return err
	}
	summary.Created = len(batch)

	return nil
}

// resolveProductCategory maps a product's category reference to a persisted
// id. References by bundle name take precedence; a bare id must already be
// persisted. A product without a category reference resolves to none.
func (s *DataService) resolveProductCategory(ctx context.Context, r domain.ProductRecord, categoryIDs map[string]int64) (*int64, bool, error) {
	if r.CategoryName != "" {
		if id, ok := categoryIDs[r.CategoryName]; ok {
			return &id, true, nil
		}

		category, err := s.categories.GetCategoryByName(ctx, r.CategoryName)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return &category.ID, true, nil
	}

	if r.CategoryID != nil {
		category, err := s.categories.GetCategory(ctx, *r.CategoryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return &category.ID, true, nil
	}

	return nil, true, nil
}

// resolveProductManufacturer maps a product's manufacturer name to a
// persisted id. A product without a manufacturer reference resolves to none.
func (s *DataService) resolveProductManufacturer(ctx context.Context, r domain.ProductRecord) (*int64, bool, error) {
	if r.ManufacturerName == "" {
		return nil, true, nil
	}

	manufacturer, err := s.manufacturers.GetManufacturerByName(ctx, r.ManufacturerName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &manufacturer.ID, true, nil
}

// rewriteImages swaps portable asset names for stored URLs, dropping names
// the asset resolution pass did not produce.
func rewriteImages(names []string, assetURLs map[string]string) []string {
	images := make([]string, 0, len(names))
	for _, name := range names {
		if url, ok := assetURLs[name]; ok {
			images = append(images, url)
		}
	}
	return images
}
