package service

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Egxr41k/volosmeister-backend/internal/archive"
	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/internal/storage/memory"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
)

// The import/export flow is stateful across many repository calls, so these
// tests run against small in-memory repository fakes instead of call-by-call
// mocks.

type fakeCategoryRepo struct {
	mu     sync.Mutex
	rows   map[int64]domain.Category
	nextID int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{rows: make(map[int64]domain.Category), nextID: 1}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Name == c.Name {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
	}
	c.ID = f.nextID
	f.nextID++
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCategoryRepo) CreateMany(_ context.Context, categories []domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range categories {
		f.rows[c.ID] = c
		if c.ID >= f.nextID {
			f.nextID = c.ID + 1
		}
	}
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.rows[id]; ok {
		return &c, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeCategoryRepo) ListAll(_ context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Category, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategoryRepo) ListRoots(ctx context.Context) ([]domain.Category, error) {
	all, _ := f.ListAll(ctx)
	roots := []domain.Category{}
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	return roots, nil
}

func (f *fakeCategoryRepo) ListByParent(ctx context.Context, parentID int64) ([]domain.Category, error) {
	all, _ := f.ListAll(ctx)
	children := []domain.Category{}
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == parentID {
			children = append(children, c)
		}
	}
	return children, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[c.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCategoryRepo) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = make(map[int64]domain.Category)
	return nil
}

func (f *fakeCategoryRepo) ResetIDSequence(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max int64
	for id := range f.rows {
		if id > max {
			max = id
		}
	}
	f.nextID = max + 1
	return nil
}

type fakeManufacturerRepo struct {
	mu     sync.Mutex
	rows   map[int64]domain.Manufacturer
	nextID int64
}

func newFakeManufacturerRepo() *fakeManufacturerRepo {
	return &fakeManufacturerRepo{rows: make(map[int64]domain.Manufacturer), nextID: 1}
}

func (f *fakeManufacturerRepo) Create(_ context.Context, m *domain.Manufacturer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Name == m.Name {
			return apperrors.AlreadyExists("manufacturer", "name", m.Name)
		}
	}
	m.ID = f.nextID
	f.nextID++
	f.rows[m.ID] = *m
	return nil
}

func (f *fakeManufacturerRepo) CreateMany(_ context.Context, manufacturers []domain.Manufacturer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range manufacturers {
		f.rows[m.ID] = m
		if m.ID >= f.nextID {
			f.nextID = m.ID + 1
		}
	}
	return nil
}

func (f *fakeManufacturerRepo) GetByID(_ context.Context, id int64) (*domain.Manufacturer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.rows[id]; ok {
		return &m, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeManufacturerRepo) GetByName(_ context.Context, name string) (*domain.Manufacturer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.Name == name {
			return &m, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeManufacturerRepo) GetBySlug(_ context.Context, slug string) (*domain.Manufacturer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.Slug == slug {
			return &m, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeManufacturerRepo) ListAll(_ context.Context) ([]domain.Manufacturer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Manufacturer, 0, len(f.rows))
	for _, m := range f.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeManufacturerRepo) Update(_ context.Context, m *domain.Manufacturer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[m.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.rows[m.ID] = *m
	return nil
}

func (f *fakeManufacturerRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeManufacturerRepo) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = make(map[int64]domain.Manufacturer)
	return nil
}

func (f *fakeManufacturerRepo) ResetIDSequence(_ context.Context) error {
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	rows   map[int64]domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: make(map[int64]domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Email == u.Email {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) CreateMany(_ context.Context, users []domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range users {
		f.rows[u.ID] = u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		return &u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.rows))
	for _, u := range f.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = make(map[int64]domain.User)
	return nil
}

func (f *fakeUserRepo) ResetIDSequence(_ context.Context) error {
	return nil
}

type fakeProductRepo struct {
	mu     sync.Mutex
	rows   map[int64]domain.Product
	nextID int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{rows: make(map[int64]domain.Product), nextID: 1}
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Name == p.Name {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
	}
	p.ID = f.nextID
	f.nextID++
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) CreateMany(_ context.Context, products []domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range products {
		f.rows[p.ID] = p
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.rows[id]; ok {
		return &p, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeProductRepo) GetByName(_ context.Context, name string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	all, _ := f.ListAll(ctx)
	matched := []domain.Product{}
	for _, p := range all {
		if len(filter.CategoryIDs) > 0 {
			if p.CategoryID == nil {
				continue
			}
			found := false
			for _, id := range filter.CategoryIDs {
				if *p.CategoryID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		matched = append(matched, p)
	}
	return matched, len(matched), nil
}

func (f *fakeProductRepo) ListAll(_ context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductRepo) ListSimilar(ctx context.Context, categoryID, excludeID int64) ([]domain.Product, error) {
	all, _ := f.ListAll(ctx)
	similar := []domain.Product{}
	for _, p := range all {
		if p.ID == excludeID || p.CategoryID == nil || *p.CategoryID != categoryID {
			continue
		}
		similar = append(similar, p)
	}
	return similar, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeProductRepo) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = make(map[int64]domain.Product)
	return nil
}

func (f *fakeProductRepo) ResetIDSequence(_ context.Context) error {
	return nil
}

// --- Fixture ---

type dataFixture struct {
	svc           *DataService
	categories    *fakeCategoryRepo
	manufacturers *fakeManufacturerRepo
	users         *fakeUserRepo
	products      *fakeProductRepo
	store         *memory.Storage
}

func newDataFixture() *dataFixture {
	logger := newTestLogger()
	producer := newTestProducer()

	categoryRepo := newFakeCategoryRepo()
	manufacturerRepo := newFakeManufacturerRepo()
	userRepo := newFakeUserRepo()
	productRepo := newFakeProductRepo()
	store := memory.New("http://assets.local")

	categorySvc := NewCategoryService(categoryRepo, nil, producer, logger)
	manufacturerSvc := NewManufacturerService(manufacturerRepo, logger)
	userSvc := NewUserService(userRepo, logger)
	productSvc := NewProductService(productRepo, categorySvc, producer, logger)

	return &dataFixture{
		svc:           NewDataService(categorySvc, manufacturerSvc, userSvc, productSvc, store, producer, logger),
		categories:    categoryRepo,
		manufacturers: manufacturerRepo,
		users:         userRepo,
		products:      productRepo,
		store:         store,
	}
}

func sampleImportBundle() *domain.Bundle {
	return &domain.Bundle{
		Categories: []domain.CategoryRecord{
			// Child listed before its parent on purpose.
			{ID: 2, Name: "Cordless", ParentID: int64Ptr(1)},
			{ID: 1, Name: "Clippers", ParentID: nil},
		},
		Manufacturers: []domain.ManufacturerRecord{
			{ID: 1, Name: "Wahl"},
		},
		Users: []domain.UserRecord{
			{ID: 1, Email: "jane@example.com", Name: "Jane"},
		},
		Products: []domain.ProductRecord{
			{
				ID:               1,
				Name:             "Wahl Magic Clip",
				Price:            4599,
				CategoryName:     "Cordless",
				ManufacturerName: "Wahl",
				Images:           []string{"magic-clip.jpg"},
			},
		},
		Images: []domain.AssetFile{
			{Name: "magic-clip.jpg", Data: []byte{0xFF, 0xD8, 0xFF}},
		},
	}
}

func packBundle(t *testing.T, bundle *domain.Bundle) string {
	t.Helper()
	zipPath, err := archive.Pack(bundle)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(zipPath) })
	return zipPath
}

// --- Tests ---

func TestImport_SafeMode_CreatesEverything(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	zipPath := packBundle(t, sampleImportBundle())

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Categories.Created)
	assert.Equal(t, 1, summary.Manufacturers.Created)
	assert.Equal(t, 1, summary.Users.Created)
	assert.Equal(t, 1, summary.Products.Created)
	assert.Equal(t, 1, summary.Assets.Created)

	// Parent wiring survived the out-of-order batch.
	parent, err := fx.categories.GetByName(ctx, "Clippers")
	require.NoError(t, err)
	child, err := fx.categories.GetByName(ctx, "Cordless")
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	// Product image names were rewritten to stored URLs.
	product, err := fx.products.GetByName(ctx, "Wahl Magic Clip")
	require.NoError(t, err)
	require.Len(t, product.Images, 1)
	assert.Equal(t, "http://assets.local/assets/magic-clip.jpg", product.Images[0])
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, child.ID, *product.CategoryID)
	require.NotNil(t, product.ManufacturerID)
}

func TestImport_SafeMode_SecondRunReusesEverything(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	zipPath := packBundle(t, sampleImportBundle())

	_, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe})
	require.NoError(t, err)

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Categories.Created)
	assert.Equal(t, 2, summary.Categories.Reused)
	assert.Equal(t, 1, summary.Manufacturers.Reused)
	assert.Equal(t, 1, summary.Users.Reused)
	assert.Equal(t, 1, summary.Products.Reused)
	assert.Equal(t, 1, summary.Assets.Reused)
}

func TestImport_CyclicCategoriesFail(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	bundle := &domain.Bundle{
		Categories: []domain.CategoryRecord{
			{ID: 1, Name: "A", ParentID: int64Ptr(2)},
			{ID: 2, Name: "B", ParentID: int64Ptr(1)},
		},
	}
	zipPath := packBundle(t, bundle)

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe})
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, apperrors.ErrUnresolvedDependency)
}

func TestImport_StrictAbortsOnUnknownManufacturer(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	bundle := sampleImportBundle()
	bundle.Manufacturers = nil // product still names "Wahl"
	zipPath := packBundle(t, bundle)

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe, Strict: true})
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, apperrors.ErrUnresolvedDependency)
	assert.Contains(t, err.Error(), `product "Wahl Magic Clip" references unknown manufacturer "Wahl"`)
}

func TestImport_StrictAbortsOnUnknownCategory(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	bundle := sampleImportBundle()
	bundle.Products[0].CategoryName = "Shavers" // not in the bundle or the store

	zipPath := packBundle(t, bundle)

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe, Strict: true})
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, apperrors.ErrUnresolvedDependency)
	assert.Contains(t, err.Error(), `unknown category "Shavers"`)
}

func TestImport_LenientSkipsUnresolvedProduct(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	bundle := sampleImportBundle()
	bundle.Manufacturers = nil
	zipPath := packBundle(t, bundle)

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe, Strict: false})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Products.Created)
	assert.Equal(t, 1, summary.Products.Skipped)

	_, err = fx.products.GetByName(ctx, "Wahl Magic Clip")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestImport_ForceMode_ReplacesAndPreservesIDs(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	// Pre-existing data that force mode must wipe.
	require.NoError(t, fx.categories.Create(ctx, &domain.Category{Name: "Old", Slug: "old"}))

	bundle := sampleImportBundle()
	bundle.Categories = []domain.CategoryRecord{
		{ID: 10, Name: "Clippers", ParentID: nil},
		{ID: 20, Name: "Cordless", ParentID: int64Ptr(10)},
	}
	bundle.Products[0].CategoryID = int64Ptr(20)
	bundle.Products[0].CategoryName = ""
	zipPath := packBundle(t, bundle)

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeForce})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Categories.Created)

	_, err = fx.categories.GetByName(ctx, "Old")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	clippers, err := fx.categories.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Clippers", clippers.Name)

	product, err := fx.products.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, int64(20), *product.CategoryID)
}

func TestImport_ForceMode_RejectsRecordsWithoutIDs(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	require.NoError(t, fx.categories.Create(ctx, &domain.Category{Name: "Clippers", Slug: "clippers"}))

	bundle := sampleImportBundle()
	bundle.Categories = []domain.CategoryRecord{{Name: "Cordless"}}
	zipPath := packBundle(t, bundle)

	summary, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeForce})
	assert.Nil(t, summary)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), `category "Cordless" has no id`)

	// Existing data survives a rejected force import.
	existing, err := fx.categories.GetByName(ctx, "Clippers")
	require.NoError(t, err)
	assert.Equal(t, "Clippers", existing.Name)
}

func TestExport_RoundTripsImportedBundle(t *testing.T) {
	fx := newDataFixture()
	ctx := context.Background()

	zipPath := packBundle(t, sampleImportBundle())
	_, err := fx.svc.Import(ctx, zipPath, ImportOptions{Mode: ImportModeSafe})
	require.NoError(t, err)

	exportPath, err := fx.svc.Export(ctx)
	require.NoError(t, err)
	defer os.Remove(exportPath)

	bundle, err := archive.Unpack(exportPath)
	require.NoError(t, err)

	assert.Len(t, bundle.Categories, 2)
	assert.Len(t, bundle.Manufacturers, 1)
	assert.Len(t, bundle.Users, 1)
	require.Len(t, bundle.Products, 1)
	require.Len(t, bundle.Images, 1)

	// Stored URLs were rewritten back to portable asset names.
	assert.Equal(t, []string{"magic-clip.jpg"}, bundle.Products[0].Images)
	assert.Equal(t, "Cordless", bundle.Products[0].CategoryName)
	assert.Equal(t, "Wahl", bundle.Products[0].ManufacturerName)
	assert.Equal(t, "magic-clip.jpg", bundle.Images[0].Name)
}

func TestParseImportMode(t *testing.T) {
	mode, err := ParseImportMode("")
	require.NoError(t, err)
	assert.Equal(t, ImportModeSafe, mode)

	mode, err = ParseImportMode("force")
	require.NoError(t, err)
	assert.Equal(t, ImportModeForce, mode)

	_, err = ParseImportMode("merge")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
