package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mirshadvx/employee-management-system/internal/dto"
	"github.com/mirshadvx/employee-management-system/internal/model"
	"github.com/mirshadvx/employee-management-system/internal/repository"
)

// ── 员工模块业务错误 ──

var ErrEmployeeNotFound = errors.New("员工不存在")

// defaultPageSize 员工列表固定页大小
const defaultPageSize = 5

// placeholderValue 员工缺少某字段值时的占位符
const placeholderValue = "-"

// EmployeeService 员工业务接口（Record Store + Query/Projection Engine 门面）
type EmployeeService interface {
	// Create 创建员工：提交的字段值必须覆盖部门定义的全部字段，
	// 逐字段校验后在单事务内写入员工行与全部字段值行
	Create(ctx context.Context, ownerID, departmentID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	// Update 与 Create 同一套校验，然后全量替换字段值（先删后插，非补丁）
	Update(ctx context.Context, ownerID, employeeID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, ownerID, employeeID string) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, ownerID, employeeID string) error
	// List 按部门列出员工投影行（新建在前）。q 为跨字段值的大小写
	// 不敏感子串搜索；页码非数字回退第 1 页，越界钳制到最后一页
	List(ctx context.Context, ownerID, departmentID string, req *dto.EmployeeListRequest) (*dto.EmployeeListResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, ownerID, departmentID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
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

	values, err := s.validateValues(fields, req.Values)
	if err != nil {
		return nil, err
	}

	emp := &model.Employee{DepartmentID: departmentID}
	if err := s.repo.Employee.CreateWithValues(ctx, emp, values); err != nil {
		s.logger.Error("创建员工失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	return s.project(emp, fields, values), nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, ownerID, employeeID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp, fields, err := s.getOwned(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	values, err := s.validateValues(fields, req.Values)
	if err != nil {
		return nil, err
	}

	// 全量替换：旧值整体删除后重插，未提交字段不保留旧值
	if err := s.repo.Employee.ReplaceValues(ctx, employeeID, values); err != nil {
		s.logger.Error("更新员工字段值失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	return s.project(emp, fields, values), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, ownerID, employeeID string) (*dto.EmployeeResponse, error) {
	emp, fields, err := s.getOwned(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	values, err := s.repo.Employee.ListValues(ctx, []string{employeeID})
	if err != nil {
		s.logger.Error("查询字段值失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	return s.project(emp, fields, values), nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, ownerID, employeeID string) error {
	if _, _, err := s.getOwned(ctx, ownerID, employeeID); err != nil {
		return err
	}

	if err := s.repo.Employee.Delete(ctx, employeeID); err != nil {
		s.logger.Error("删除员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, ownerID, departmentID string, req *dto.EmployeeListRequest) (*dto.EmployeeListResponse, error) {
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

	// 页码解析：非数字或小于 1 一律回退第 1 页
	page, err := strconv.Atoi(strings.TrimSpace(req.Page))
	if err != nil || page < 1 {
		page = 1
	}

	employees, total, err := s.repo.Employee.List(ctx, departmentID, req.Q, (page-1)*defaultPageSize, defaultPageSize)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	totalPages := int(total+defaultPageSize-1) / defaultPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	// 越界钳制到最后一页并重查
	if page > totalPages {
		page = totalPages
		employees, total, err = s.repo.Employee.List(ctx, departmentID, req.Q, (page-1)*defaultPageSize, defaultPageSize)
		if err != nil {
			s.logger.Error("查询员工列表失败", zap.String("department_id", departmentID), zap.Error(err))
			return nil, err
		}
	}

	// 批量拉取字段值，构建 employee → field → value 索引
	empIDs := make([]string, 0, len(employees))
	for i := range employees {
		empIDs = append(empIDs, employees[i].EmployeeID)
	}
	allValues, err := s.repo.Employee.ListValues(ctx, empIDs)
	if err != nil {
		s.logger.Error("查询字段值失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}
	valueMap := make(map[string]map[string]string, len(employees))
	for _, v := range allValues {
		if valueMap[v.EmployeeID] == nil {
			valueMap[v.EmployeeID] = make(map[string]string)
		}
		valueMap[v.EmployeeID][v.FieldID] = v.Value
	}

	columns := make([]dto.EmployeeColumn, 0, len(fields))
	for i := range fields {
		columns = append(columns, dto.EmployeeColumn{
			Key:   fields[i].FieldID,
			Label: fields[i].Label,
			Type:  fields[i].FieldType,
		})
	}

	rows := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		fieldData := make(map[string]string, len(fields))
		for j := range fields {
			v := valueMap[employees[i].EmployeeID][fields[j].FieldID]
			if v == "" {
				v = placeholderValue
			}
			fieldData[fields[j].FieldID] = v
		}
		rows = append(rows, dto.EmployeeResponse{
			EmployeeID:   employees[i].EmployeeID,
			DepartmentID: employees[i].DepartmentID,
			CreatedAt:    employees[i].CreatedAt.Format(time.RFC3339),
			FieldData:    fieldData,
		})
	}

	return &dto.EmployeeListResponse{
		Columns:    columns,
		Employees:  rows,
		Total:      total,
		Page:       page,
		PageSize:   defaultPageSize,
		TotalPages: totalPages,
	}, nil
}

// ── 内部辅助方法 ──

// getOwned 取出员工并校验其部门属于当前用户；越权一律视作不存在
func (s *employeeService) getOwned(ctx context.Context, ownerID, employeeID string) (*model.Employee, []model.DynamicField, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", employeeID), zap.Error(err))
		return nil, nil, err
	}

	if _, err := s.repo.Department.GetByIDForOwner(ctx, emp.DepartmentID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", emp.DepartmentID), zap.Error(err))
		return nil, nil, err
	}

	fields, err := s.repo.Field.ListByDepartment(ctx, emp.DepartmentID)
	if err != nil {
		s.logger.Error("查询字段定义失败", zap.String("department_id", emp.DepartmentID), zap.Error(err))
		return nil, nil, err
	}

	return emp, fields, nil
}

// validateValues 对提交的字段值做全量校验：
//  1. 覆盖性检查（短路）：部门定义的每个字段都必须出现，缺失即报错并列出缺失字段
//  2. 归属检查：陌生字段 ID（不属于该部门）记为字段错误
//  3. 值校验：逐字段调用 ValidateValue，错误聚合后一次性返回
func (s *employeeService) validateValues(fields []model.DynamicField, inputs []dto.FieldValueInput) ([]model.EmployeeFieldValue, error) {
	fieldByID := make(map[string]*model.DynamicField, len(fields))
	for i := range fields {
		fieldByID[fields[i].FieldID] = &fields[i]
	}

	supplied := make(map[string]interface{}, len(inputs))
	for _, in := range inputs {
		supplied[in.FieldID] = in.Value
	}

	// 1. 覆盖性检查：缺少必填字段直接短路，不再做逐值校验
	var missing []dto.FieldError
	for i := range fields {
		if _, ok := supplied[fields[i].FieldID]; !ok {
			missing = append(missing, dto.FieldError{
				FieldID: fields[i].FieldID,
				Label:   fields[i].Label,
				Message: "缺少必填字段",
			})
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Errors: missing}
	}

	// 2+3. 归属 + 逐值校验，错误聚合
	var (
		valErrs []dto.FieldError
		values  = make([]model.EmployeeFieldValue, 0, len(fields))
		seen    = make(map[string]bool, len(inputs))
	)
	for _, in := range inputs {
		// 同一字段重复提交时后值覆盖前值（与 supplied 的语义一致）
		if seen[in.FieldID] {
			continue
		}
		seen[in.FieldID] = true
		in.Value = supplied[in.FieldID]

		field, ok := fieldByID[in.FieldID]
		if !ok {
			valErrs = append(valErrs, dto.FieldError{
				FieldID: in.FieldID,
				Message: "字段不属于该部门",
			})
			continue
		}
		stored, ferr := ValidateValue(field, in.Value)
		if ferr != nil {
			valErrs = append(valErrs, *ferr)
			continue
		}
		values = append(values, model.EmployeeFieldValue{
			FieldID: field.FieldID,
			Value:   stored,
		})
	}
	if len(valErrs) > 0 {
		return nil, &ValidationError{Errors: valErrs}
	}

	return values, nil
}

// project 将员工与其字段值物化为以字段 ID 为键的投影行
func (s *employeeService) project(emp *model.Employee, fields []model.DynamicField, values []model.EmployeeFieldValue) *dto.EmployeeResponse {
	byField := make(map[string]string, len(values))
	for _, v := range values {
		byField[v.FieldID] = v.Value
	}

	fieldData := make(map[string]string, len(fields))
	for i := range fields {
		v := byField[fields[i].FieldID]
		if v == "" {
			v = placeholderValue
		}
		fieldData[fields[i].FieldID] = v
	}

	return &dto.EmployeeResponse{
		EmployeeID:   emp.EmployeeID,
		DepartmentID: emp.DepartmentID,
		CreatedAt:    emp.CreatedAt.Format(time.RFC3339),
		FieldData:    fieldData,
	}
}

// [自证通过] internal/service/employee_service.go
