package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirshadvx/employee-management-system/internal/model"
	"github.com/mirshadvx/employee-management-system/internal/repository"
)

// 内存版仓储实现，共享同一个 store 以便模拟级联删除

type mockStore struct {
	users       map[string]*model.User
	departments map[string]*model.Department
	fields      []*model.DynamicField
	employees   []*model.Employee
	values      []*model.EmployeeFieldValue
}

func newMockStore() *mockStore {
	return &mockStore{
		users:       make(map[string]*model.User),
		departments: make(map[string]*model.Department),
	}
}

// newMockRepository 组装基于内存 store 的仓储聚合
func newMockRepository() (*repository.Repository, *mockStore) {
	st := newMockStore()
	return &repository.Repository{
		User:       &mockUserRepo{st: st},
		Department: &mockDepartmentRepo{st: st},
		Field:      &mockFieldRepo{st: st},
		Employee:   &mockEmployeeRepo{st: st},
	}, st
}

// ── UserRepository ──

type mockUserRepo struct {
	st *mockStore
}

func (r *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	r.st.users[user.UserID] = user
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := r.st.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(_ context.Context, user *model.User) error {
	r.st.users[user.UserID] = user
	return nil
}

// ── DepartmentRepository ──

type mockDepartmentRepo struct {
	st *mockStore
}

func (r *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = uuid.NewString()
	}
	r.st.departments[dept.DepartmentID] = dept
	return nil
}

func (r *mockDepartmentRepo) GetByIDForOwner(_ context.Context, id, ownerID string) (*model.Department, error) {
	if d, ok := r.st.departments[id]; ok && d.CreatedBy == ownerID {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockDepartmentRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Department, error) {
	var result []model.Department
	for _, d := range r.st.departments {
		if d.CreatedBy == ownerID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (r *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	r.st.departments[dept.DepartmentID] = dept
	return nil
}

func (r *mockDepartmentRepo) Delete(_ context.Context, id, ownerID string) error {
	d, ok := r.st.departments[id]
	if !ok || d.CreatedBy != ownerID {
		return gorm.ErrRecordNotFound
	}

	// 级联：字段值 → 员工 → 字段定义 → 部门
	empIDs := make(map[string]bool)
	var keptEmps []*model.Employee
	for _, e := range r.st.employees {
		if e.DepartmentID == id {
			empIDs[e.EmployeeID] = true
		} else {
			keptEmps = append(keptEmps, e)
		}
	}
	var keptValues []*model.EmployeeFieldValue
	for _, v := range r.st.values {
		if !empIDs[v.EmployeeID] {
			keptValues = append(keptValues, v)
		}
	}
	var keptFields []*model.DynamicField
	for _, f := range r.st.fields {
		if f.DepartmentID != id {
			keptFields = append(keptFields, f)
		}
	}
	r.st.employees = keptEmps
	r.st.values = keptValues
	r.st.fields = keptFields
	delete(r.st.departments, id)
	return nil
}

func (r *mockDepartmentRepo) CountEmployees(_ context.Context, departmentID string) (int64, error) {
	var n int64
	for _, e := range r.st.employees {
		if e.DepartmentID == departmentID {
			n++
		}
	}
	return n, nil
}

func (r *mockDepartmentRepo) BatchCountEmployees(_ context.Context, departmentIDs []string) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, id := range departmentIDs {
		n, _ := r.CountEmployees(context.Background(), id)
		if n > 0 {
			result[id] = n
		}
	}
	return result, nil
}

func (r *mockDepartmentRepo) BatchCountFields(_ context.Context, departmentIDs []string) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, id := range departmentIDs {
		for _, f := range r.st.fields {
			if f.DepartmentID == id {
				result[id]++
			}
		}
	}
	return result, nil
}

// ── FieldRepository ──

type mockFieldRepo struct {
	st *mockStore
}

func (r *mockFieldRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.DynamicField, error) {
	var result []model.DynamicField
	for _, f := range r.st.fields {
		if f.DepartmentID == departmentID {
			result = append(result, *f)
		}
	}
	// 与真实实现一致：sort_order 升序，相同顺位保持插入先后
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

func (r *mockFieldRepo) Create(_ context.Context, field *model.DynamicField) error {
	if field.FieldID == "" {
		field.FieldID = uuid.NewString()
	}
	r.st.fields = append(r.st.fields, field)
	return nil
}

func (r *mockFieldRepo) Update(_ context.Context, field *model.DynamicField) error {
	for i, f := range r.st.fields {
		if f.FieldID == field.FieldID {
			r.st.fields[i] = field
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockFieldRepo) Delete(_ context.Context, id string) error {
	var keptValues []*model.EmployeeFieldValue
	for _, v := range r.st.values {
		if v.FieldID != id {
			keptValues = append(keptValues, v)
		}
	}
	r.st.values = keptValues
	for i, f := range r.st.fields {
		if f.FieldID == id {
			r.st.fields = append(r.st.fields[:i], r.st.fields[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockFieldRepo) Sync(ctx context.Context, departmentID string, toDelete []string, toUpdate, toCreate []model.DynamicField) error {
	for _, id := range toDelete {
		_ = r.Delete(ctx, id)
	}
	for i := range toUpdate {
		f := toUpdate[i]
		_ = r.Update(ctx, &f)
	}
	for i := range toCreate {
		f := toCreate[i]
		_ = r.Create(ctx, &f)
	}
	return nil
}

// ── EmployeeRepository ──

type mockEmployeeRepo struct {
	st *mockStore
}

func (r *mockEmployeeRepo) CreateWithValues(_ context.Context, emp *model.Employee, values []model.EmployeeFieldValue) error {
	if emp.EmployeeID == "" {
		emp.EmployeeID = uuid.NewString()
	}
	if emp.CreatedAt.IsZero() {
		// 以插入序递增，保证新建在前的排序可断言
		emp.CreatedAt = time.Now().Add(time.Duration(len(r.st.employees)) * time.Second)
	}
	r.st.employees = append(r.st.employees, emp)
	for i := range values {
		v := values[i]
		v.ValueID = uuid.NewString()
		v.EmployeeID = emp.EmployeeID
		r.st.values = append(r.st.values, &v)
	}
	return nil
}

func (r *mockEmployeeRepo) ReplaceValues(_ context.Context, employeeID string, values []model.EmployeeFieldValue) error {
	var kept []*model.EmployeeFieldValue
	for _, v := range r.st.values {
		if v.EmployeeID != employeeID {
			kept = append(kept, v)
		}
	}
	r.st.values = kept
	for i := range values {
		v := values[i]
		v.ValueID = uuid.NewString()
		v.EmployeeID = employeeID
		r.st.values = append(r.st.values, &v)
	}
	return nil
}

func (r *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	for _, e := range r.st.employees {
		if e.EmployeeID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockEmployeeRepo) Delete(_ context.Context, id string) error {
	var keptValues []*model.EmployeeFieldValue
	for _, v := range r.st.values {
		if v.EmployeeID != id {
			keptValues = append(keptValues, v)
		}
	}
	r.st.values = keptValues
	for i, e := range r.st.employees {
		if e.EmployeeID == id {
			r.st.employees = append(r.st.employees[:i], r.st.employees[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockEmployeeRepo) List(_ context.Context, departmentID, search string, offset, limit int) ([]model.Employee, int64, error) {
	var matched []model.Employee
	needle := strings.ToLower(search)
	for _, e := range r.st.employees {
		if e.DepartmentID != departmentID {
			continue
		}
		if search != "" {
			found := false
			for _, v := range r.st.values {
				if v.EmployeeID == e.EmployeeID && strings.Contains(strings.ToLower(v.Value), needle) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		matched = append(matched, *e)
	}

	// 新建在前
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *mockEmployeeRepo) ListValues(_ context.Context, employeeIDs []string) ([]model.EmployeeFieldValue, error) {
	want := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		want[id] = true
	}
	var result []model.EmployeeFieldValue
	for _, v := range r.st.values {
		if want[v.EmployeeID] {
			result = append(result, *v)
		}
	}
	return result, nil
}
