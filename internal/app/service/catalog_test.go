package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/internal/db"
	"github.com/vund-dev/moda-backend/internal/storage"
	"gorm.io/gorm"
)

// memBlobStore is an in-memory BlobStore for tests. Keys listed in
// failKeys refuse deletion, mimicking a partial batch failure.
type memBlobStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	modified map[string]time.Time
	failKeys map[string]bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{
		objects:  make(map[string][]byte),
		modified: make(map[string]time.Time),
		failKeys: make(map[string]bool),
	}
}

func (m *memBlobStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.modified[key] = time.Now()
	return "https://cdn.test/" + key, nil
}

func (m *memBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.modified, key)
	return nil
}

func (m *memBlobStore) DeleteMany(_ context.Context, keys []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var failed []string
	for _, key := range keys {
		if m.failKeys[key] {
			failed = append(failed, key)
			continue
		}
		delete(m.objects, key)
		delete(m.modified, key)
	}
	return failed, nil
}

func (m *memBlobStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var objects []storage.ObjectInfo
	for key := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			objects = append(objects, storage.ObjectInfo{
				Key:          key,
				LastModified: m.modified[key],
			})
		}
	}
	return objects, nil
}

func (m *memBlobStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *memBlobStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *memBlobStore) age(key string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modified[key] = time.Now().Add(-d)
}

// catalogEnv wires the full service stack over an in-memory database
// with a seeded brand, category and the Color/Size attribute axes.
type catalogEnv struct {
	db    *gorm.DB
	blobs *memBlobStore

	productRepo   repository.ProductRepository
	variantRepo   repository.VariantRepository
	imageRepo     repository.ImageRepository
	attributeRepo repository.AttributeRepository

	images     ImageService
	skuGen     SKUGenerator
	reconciler VariantReconciler
	products   ProductService

	brand    model.Brand
	category model.Category
	// attribute value IDs keyed by code
	values map[string]uint
}

func setupCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &catalogEnv{
		db:     testDB,
		blobs:  newMemBlobStore(),
		values: make(map[string]uint),
	}

	env.productRepo = repository.NewProductRepository(testDB)
	env.variantRepo = repository.NewVariantRepository(testDB)
	env.imageRepo = repository.NewImageRepository(testDB)
	env.attributeRepo = repository.NewAttributeRepository(testDB)

	env.images = NewImageService(env.imageRepo, env.blobs)
	env.skuGen = NewSKUGenerator(env.attributeRepo, env.variantRepo)
	env.reconciler = NewVariantReconciler(env.variantRepo, env.skuGen, env.images)
	env.products = NewProductService(testDB, env.productRepo, env.variantRepo, env.reconciler, env.images)

	env.brand = model.Brand{Name: "Acme", Slug: "acme"}
	require.NoError(t, testDB.Create(&env.brand).Error)
	env.category = model.Category{Name: "Shirts", Slug: "shirts"}
	require.NoError(t, testDB.Create(&env.category).Error)

	color := model.ProductAttribute{Name: "Color"}
	require.NoError(t, testDB.Create(&color).Error)
	size := model.ProductAttribute{Name: "Size"}
	require.NoError(t, testDB.Create(&size).Error)

	for _, seed := range []struct {
		attrID uint
		value  string
		code   string
	}{
		{color.ID, "Red", "RD"},
		{color.ID, "Blue", "BL"},
		{size.ID, "M", "M"},
		{size.ID, "L", "L"},
	} {
		av := model.AttributeValue{
			ProductAttributeID: seed.attrID,
			Value:              seed.value,
			Code:               seed.code,
		}
		require.NoError(t, testDB.Create(&av).Error)
		env.values[seed.code] = av.ID
	}

	return env
}

// newProduct inserts a bare product row for tests that drive the
// reconciler or image service directly.
func (env *catalogEnv) newProduct(t *testing.T, name, slug string) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:       name,
		Slug:       slug,
		Status:     model.StatusActive,
		BrandID:    env.brand.ID,
		CategoryID: env.category.ID,
	}
	require.NoError(t, env.db.Create(product).Error)
	return product
}

// reload returns the product with all associations freshly loaded
func (env *catalogEnv) reload(t *testing.T, id uint) *model.Product {
	t.Helper()

	product, err := env.productRepo.FindByID(id)
	require.NoError(t, err)
	return product
}

func mediaFile(name, contentType, content string) MediaFile {
	return MediaFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     bytes.NewReader([]byte(content)),
	}
}
