// Package accesstest provides an in-memory entity store that satisfies the module, permission,
// role and user repository interfaces, including case-insensitive unique keys.
package accesstest

import (
	"context"
	"strings"
	"sync"
	"time"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu sync.RWMutex

	// Err, when set, is returned from every operation as StoreUnavailable.
	Err error

	Modules     *Modules
	Permissions *Permissions
	Roles       *Roles
	Users       *Users
}

func NewStore() *Store {
	s := &Store{}
	s.Modules = &Modules{s: s, rows: map[primitive.ObjectID]models.Module{}}
	s.Permissions = &Permissions{s: s, rows: map[primitive.ObjectID]models.Permission{}}
	s.Roles = &Roles{s: s, rows: map[primitive.ObjectID]models.Role{}}
	s.Users = &Users{s: s, rows: map[primitive.ObjectID]models.User{}}
	return s
}

func (s *Store) fail() error {
	if s.Err != nil {
		return apperr.ErrStoreUnavailable(s.Err)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func sameKey(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ---- Modules ----

type Modules struct {
	s    *Store
	rows map[primitive.ObjectID]models.Module
}

func (t *Modules) Create(ctx context.Context, m *models.Module) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	for _, row := range t.rows {
		if sameKey(row.Name, m.Name) {
			return apperr.ErrDuplicateKey("name", nil)
		}
	}
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	t.rows[m.ID] = *m
	return nil
}

func (t *Modules) FindByID(ctx context.Context, id string) (*models.Module, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	if row, ok := t.rows[oid]; ok {
		return &row, nil
	}
	return nil, nil
}

func (t *Modules) FindByName(ctx context.Context, name string) (*models.Module, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if sameKey(row.Name, name) {
			return &row, nil
		}
	}
	return nil, nil
}

func (t *Modules) List(ctx context.Context, activeOnly bool) ([]models.Module, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	out := []models.Module{}
	for _, row := range t.rows {
		if activeOnly && !row.IsActive {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (t *Modules) Update(ctx context.Context, m *models.Module) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	if _, ok := t.rows[m.ID]; !ok {
		return apperr.ErrNotFound("Module")
	}
	for id, row := range t.rows {
		if id != m.ID && sameKey(row.Name, m.Name) {
			return apperr.ErrDuplicateKey("name", nil)
		}
	}
	t.rows[m.ID] = *m
	return nil
}

func (t *Modules) Delete(ctx context.Context, id string) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return false, err
	}
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	_, existed := t.rows[oid]
	delete(t.rows, oid)
	return existed, nil
}

// ---- Permissions ----

type Permissions struct {
	s    *Store
	rows map[primitive.ObjectID]models.Permission
}

func (t *Permissions) Create(ctx context.Context, p *models.Permission) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	for _, row := range t.rows {
		if sameKey(row.Name, p.Name) {
			return apperr.ErrDuplicateKey("name", nil)
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	t.rows[p.ID] = *p
	return nil
}

func (t *Permissions) FindByID(ctx context.Context, id string) (*models.Permission, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	if row, ok := t.rows[oid]; ok {
		return &row, nil
	}
	return nil, nil
}

func (t *Permissions) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if sameKey(row.Name, name) {
			return &row, nil
		}
	}
	return nil, nil
}

func (t *Permissions) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	seen := map[primitive.ObjectID]bool{}
	out := []models.Permission{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if row, ok := t.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *Permissions) List(ctx context.Context) ([]models.Permission, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	out := []models.Permission{}
	for _, row := range t.rows {
		out = append(out, row)
	}
	return out, nil
}

func (t *Permissions) ListByModule(ctx context.Context, moduleID string, activeOnly bool) ([]models.Permission, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	out := []models.Permission{}
	oid, ok := parseID(moduleID)
	if !ok {
		return out, nil
	}
	for _, row := range t.rows {
		if row.Module == oid && (!activeOnly || row.IsActive) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *Permissions) Update(ctx context.Context, p *models.Permission) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	if _, ok := t.rows[p.ID]; !ok {
		return apperr.ErrNotFound("Permission")
	}
	for id, row := range t.rows {
		if id != p.ID && sameKey(row.Name, p.Name) {
			return apperr.ErrDuplicateKey("name", nil)
		}
	}
	t.rows[p.ID] = *p
	return nil
}

func (t *Permissions) Delete(ctx context.Context, id string) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return false, err
	}
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	_, existed := t.rows[oid]
	delete(t.rows, oid)
	return existed, nil
}

func (t *Permissions) CountByModule(ctx context.Context, moduleID string) (int64, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return 0, err
	}
	oid, ok := parseID(moduleID)
	if !ok {
		return 0, nil
	}
	var n int64
	for _, row := range t.rows {
		if row.Module == oid {
			n++
		}
	}
	return n, nil
}

// ---- Roles ----

type Roles struct {
	s    *Store
	rows map[primitive.ObjectID]models.Role
}

func (t *Roles) Create(ctx context.Context, r *models.Role) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	for _, row := range t.rows {
		if sameKey(row.Name, r.Name) {
			return apperr.ErrDuplicateKey("name", nil)
		}
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	t.rows[r.ID] = cloneRole(*r)
	return nil
}

func cloneRole(r models.Role) models.Role {
	r.Permissions = append([]primitive.ObjectID(nil), r.Permissions...)
	return r
}

func (t *Roles) FindByID(ctx context.Context, id string) (*models.Role, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	if row, ok := t.rows[oid]; ok {
		row = cloneRole(row)
		return &row, nil
	}
	return nil, nil
}

func (t *Roles) FindByName(ctx context.Context, name string) (*models.Role, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if sameKey(row.Name, name) {
			row = cloneRole(row)
			return &row, nil
		}
	}
	return nil, nil
}

func (t *Roles) List(ctx context.Context, activeOnly bool) ([]models.Role, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	out := []models.Role{}
	for _, row := range t.rows {
		if activeOnly && !row.IsActive {
			continue
		}
		out = append(out, cloneRole(row))
	}
	return out, nil
}

func (t *Roles) Update(ctx context.Context, r *models.Role) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	if _, ok := t.rows[r.ID]; !ok {
		return apperr.ErrNotFound("Role")
	}
	for id, row := range t.rows {
		if id != r.ID && sameKey(row.Name, r.Name) {
			return apperr.ErrDuplicateKey("name", nil)
		}
	}
	t.rows[r.ID] = cloneRole(*r)
	return nil
}

func (t *Roles) Delete(ctx context.Context, id string) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return false, err
	}
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	_, existed := t.rows[oid]
	delete(t.rows, oid)
	return existed, nil
}

// ---- Users ----

type Users struct {
	s    *Store
	rows map[primitive.ObjectID]models.User
}

func (t *Users) Create(ctx context.Context, u *models.User) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	for _, row := range t.rows {
		if sameKey(row.Email, u.Email) {
			return apperr.ErrDuplicateKey("email", nil)
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	t.rows[u.ID] = *u
	return nil
}

func (t *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	if row, ok := t.rows[oid]; ok {
		return &row, nil
	}
	return nil, nil
}

func (t *Users) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, id := range ids {
		if oid, ok := parseID(id); ok {
			if row, ok := t.rows[oid]; ok {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (t *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if sameKey(row.Email, email) {
			return &row, nil
		}
	}
	return nil, nil
}

func (t *Users) List(ctx context.Context) ([]models.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, row := range t.rows {
		out = append(out, row)
	}
	return out, nil
}

// UpdateFields merges fields into the stored row by their bson names, leaving every other
// field as stored.
func (t *Users) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return err
	}
	oid, ok := parseID(id)
	if !ok {
		return apperr.ErrNotFound("User")
	}
	row, ok := t.rows[oid]
	if !ok {
		return apperr.ErrNotFound("User")
	}
	if email, ok := fields["email"].(string); ok {
		for other, existing := range t.rows {
			if other != oid && sameKey(existing.Email, email) {
				return apperr.ErrDuplicateKey("email", nil)
			}
		}
	}

	raw, err := bson.Marshal(row)
	if err != nil {
		return err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for key, value := range fields {
		doc[key] = value
	}
	doc["updatedAt"] = time.Now()
	if raw, err = bson.Marshal(doc); err != nil {
		return err
	}
	var merged models.User
	if err := bson.Unmarshal(raw, &merged); err != nil {
		return err
	}
	t.rows[oid] = merged
	return nil
}

// AssignRole moves a user to another role the way an admin edit would.
func (t *Users) AssignRole(ctx context.Context, id string, role primitive.ObjectID) error {
	return t.UpdateFields(ctx, id, bson.M{"role": role})
}

func (t *Users) UpdatePassword(ctx context.Context, id string, hash string) error {
	return t.UpdateFields(ctx, id, bson.M{"passwordHash": hash})
}

func (t *Users) Delete(ctx context.Context, id string) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(); err != nil {
		return false, err
	}
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	_, existed := t.rows[oid]
	delete(t.rows, oid)
	return existed, nil
}

func (t *Users) CountByRole(ctx context.Context, roleID string) (int64, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if err := t.s.fail(); err != nil {
		return 0, err
	}
	oid, ok := parseID(roleID)
	if !ok {
		return 0, nil
	}
	var n int64
	for _, row := range t.rows {
		if row.Role == oid {
			n++
		}
	}
	return n, nil
}

// ---- Fixtures ----

// Counters returns the reference counters the integrity guard needs.
func (s *Store) Counters() (byModule, byRole func(context.Context, string) (int64, error)) {
	return s.Permissions.CountByModule, s.Users.CountByRole
}

func (s *Store) MustModule(name string, active bool) models.Module {
	m := models.Module{Name: name, DisplayName: strings.ToUpper(name[:1]) + name[1:], IsActive: active, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := s.Modules.Create(context.Background(), &m); err != nil {
		panic(err)
	}
	return m
}

func (s *Store) MustPermission(name string, module primitive.ObjectID, active bool) models.Permission {
	p := models.Permission{Name: name, Module: module, IsActive: active, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := s.Permissions.Create(context.Background(), &p); err != nil {
		panic(err)
	}
	return p
}

func (s *Store) MustRole(name string, perms ...primitive.ObjectID) models.Role {
	r := models.Role{Name: name, IsActive: true, Permissions: perms, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := s.Roles.Create(context.Background(), &r); err != nil {
		panic(err)
	}
	return r
}

// MustUser stores a user with the given role; passwordHash may be empty.
func (s *Store) MustUser(email, name string, role primitive.ObjectID, passwordHash string) models.User {
	u := models.User{Email: email, Name: name, Role: role, PasswordHash: passwordHash, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := s.Users.Create(context.Background(), &u); err != nil {
		panic(err)
	}
	return u
}
