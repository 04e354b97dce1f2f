package dto

// ── 员工模块 DTO ──

// FieldValueInput 提交的单个字段值
// Value 保留 JSON 原始类型（string / number / bool），由校验器按字段类型裁决
type FieldValueInput struct {
	FieldID string      `json:"field_id" binding:"required"`
	Value   interface{} `json:"value"`
}

// CreateEmployeeRequest 创建/更新员工请求
// values 必须覆盖该部门定义的全部字段
type CreateEmployeeRequest struct {
	Values []FieldValueInput `json:"values" binding:"required"`
}

// EmployeeListRequest 员工列表查询参数
// Page 以字符串接收：非数字回退第 1 页，越界钳制到最后一页
type EmployeeListRequest struct {
	Q    string `form:"q"`
	Page string `form:"page"`
}

// EmployeeResponse 员工投影响应
// FieldData 以字段 ID（字符串键）映射到存储值，缺失的字段以 "-" 占位
type EmployeeResponse struct {
	EmployeeID   string            `json:"employee_id"`
	DepartmentID string            `json:"department_id"`
	CreatedAt    string            `json:"created_at"`
	FieldData    map[string]string `json:"field_data"`
}

// EmployeeColumn 列表展示的列头（按字段顺序）
type EmployeeColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// EmployeeListResponse 员工列表响应
type EmployeeListResponse struct {
	Columns    []EmployeeColumn   `json:"columns"`
	Employees  []EmployeeResponse `json:"employees"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// FieldError 字段级校验错误
type FieldError struct {
	FieldID string `json:"field_id,omitempty"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

// ImportEmployeesResponse Excel 导入结果
type ImportEmployeesResponse struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError 导入失败的行及原因
type ImportRowError struct {
	Row    int          `json:"row"`
	Errors []FieldError `json:"errors"`
}

// [自证通过] internal/dto/employee.go
