package category

import (
	"context"
	"sync"
	"testing"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]models.Category
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[primitive.ObjectID]models.Category{}}
}

func (m *memRepo) Create(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = *c
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, owner primitive.ObjectID, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	if row, ok := m.rows[oid]; ok && row.CreatedBy == owner {
		return &row, nil
	}
	return nil, nil
}

func (m *memRepo) FindByName(ctx context.Context, owner primitive.ObjectID, name, categoryType string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.CreatedBy == owner && row.Name == name && row.Type == categoryType {
			return &row, nil
		}
	}
	return nil, nil
}

func (m *memRepo) List(ctx context.Context, owner primitive.ObjectID) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, row := range m.rows {
		if row.CreatedBy == owner {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[c.ID]; !ok || row.CreatedBy != c.CreatedBy {
		return apperr.ErrNotFound("Category")
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memRepo) Delete(ctx context.Context, owner primitive.ObjectID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	if row, ok := m.rows[oid]; ok && row.CreatedBy == owner {
		delete(m.rows, oid)
		return true, nil
	}
	return false, nil
}

func TestCreateCategoryDefaultsAndValidation(t *testing.T) {
	svc := NewCategoryService(newMemRepo())
	owner := primitive.NewObjectID().Hex()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, owner, CreateCategoryRequest{Name: " Rent ", Type: "expense"})
	require.NoError(t, err)
	assert.Equal(t, "Rent", c.Name)
	assert.Equal(t, "mdi-tag", c.Icon)
	assert.Equal(t, "#2196F3", c.Color)
	assert.True(t, c.IsActive)

	_, err = svc.CreateCategory(ctx, owner, CreateCategoryRequest{Name: "Rent", Type: "expense"})
	assert.Equal(t, apperr.DuplicateKey, apperr.KindOf(err))

	// Same name under the other type is a different category.
	_, err = svc.CreateCategory(ctx, owner, CreateCategoryRequest{Name: "Rent", Type: "income"})
	assert.NoError(t, err)

	_, err = svc.CreateCategory(ctx, owner, CreateCategoryRequest{Name: "Gift", Type: "transfer"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.CreateCategory(ctx, owner, CreateCategoryRequest{Type: "income"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCategoriesAreScopedToOwner(t *testing.T) {
	svc := NewCategoryService(newMemRepo())
	alice, bob := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, alice, CreateCategoryRequest{Name: "Salary", Type: "income"})
	require.NoError(t, err)

	_, err = svc.GetCategory(ctx, bob, c.ID.Hex())
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(svc.DeleteCategory(ctx, bob, c.ID.Hex())))

	list, err := svc.ListCategories(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.DeleteCategory(ctx, alice, c.ID.Hex()))
}

func TestUpdateCategory(t *testing.T) {
	svc := NewCategoryService(newMemRepo())
	owner := primitive.NewObjectID().Hex()
	ctx := context.Background()

	food, err := svc.CreateCategory(ctx, owner, CreateCategoryRequest{Name: "Food", Type: "expense"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, owner, CreateCategoryRequest{Name: "Fuel", Type: "expense"})
	require.NoError(t, err)

	fuel := "Fuel"
	_, err = svc.UpdateCategory(ctx, owner, food.ID.Hex(), UpdateCategoryRequest{Name: &fuel})
	assert.Equal(t, apperr.DuplicateKey, apperr.KindOf(err))

	bad := "other"
	_, err = svc.UpdateCategory(ctx, owner, food.ID.Hex(), UpdateCategoryRequest{Type: &bad})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	empty, off := "", false
	updated, err := svc.UpdateCategory(ctx, owner, food.ID.Hex(), UpdateCategoryRequest{Color: &empty, IsActive: &off})
	require.NoError(t, err)
	assert.Equal(t, "#2196F3", updated.Color)
	assert.False(t, updated.IsActive)
}

func TestMalformedOwnerIsRejected(t *testing.T) {
	svc := NewCategoryService(newMemRepo())
	_, err := svc.ListCategories(context.Background(), "not-an-id")
	assert.Equal(t, apperr.NoSuchUser, apperr.KindOf(err))
}
