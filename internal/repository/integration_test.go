//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mirshadvx/employee-management-system/internal/model"
)

// 需要一个可写的 PostgreSQL 实例：
//
//	TEST_DATABASE_DSN="host=localhost user=postgres password=postgres dbname=ems_test sslmode=disable" \
//	  go test -tags integration ./internal/repository/
func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("未设置 TEST_DATABASE_DSN，跳过集成测试")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("连接数据库失败: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{}, &model.Department{}, &model.DynamicField{},
		&model.Employee{}, &model.EmployeeFieldValue{},
	); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("TRUNCATE employee_field_values, employees, dynamic_fields, departments, users CASCADE")
	})

	return NewRepository(db)
}

func seedDepartment(t *testing.T, repo *Repository, ownerName string) (*model.User, *model.Department) {
	t.Helper()
	ctx := context.Background()

	user := &model.User{
		Username:     ownerName,
		Email:        ownerName + "@example.com",
		PasswordHash: "x",
	}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	dept := &model.Department{Name: "engineering", Label: "工程部", CreatedBy: user.UserID}
	if err := repo.Department.Create(ctx, dept); err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}
	return user, dept
}

func TestFieldSync_Integration(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	_, dept := seedDepartment(t, repo, "sync_owner")

	a := model.DynamicField{DepartmentID: dept.DepartmentID, Label: "姓名", FieldType: model.FieldTypeText, SortOrder: 1}
	b := model.DynamicField{DepartmentID: dept.DepartmentID, Label: "工资", FieldType: model.FieldTypeNumber, SortOrder: 2}
	if err := repo.Field.Sync(ctx, dept.DepartmentID, nil, nil, []model.DynamicField{a, b}); err != nil {
		t.Fatalf("Sync 新建失败: %v", err)
	}

	fields, err := repo.Field.ListByDepartment(ctx, dept.DepartmentID)
	if err != nil {
		t.Fatalf("ListByDepartment 失败: %v", err)
	}
	if len(fields) != 2 || fields[0].Label != "姓名" || fields[1].Label != "工资" {
		t.Fatalf("字段集 = %+v", fields)
	}

	// 更新第一个、删除第二个
	updated := fields[0]
	updated.Label = "全名"
	if err := repo.Field.Sync(ctx, dept.DepartmentID,
		[]string{fields[1].FieldID}, []model.DynamicField{updated}, nil); err != nil {
		t.Fatalf("Sync 更新删除失败: %v", err)
	}

	fields, err = repo.Field.ListByDepartment(ctx, dept.DepartmentID)
	if err != nil {
		t.Fatalf("ListByDepartment 失败: %v", err)
	}
	if len(fields) != 1 || fields[0].Label != "全名" {
		t.Fatalf("同步后字段集 = %+v", fields)
	}
}

func TestDepartmentDeleteCascade_Integration(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	user, dept := seedDepartment(t, repo, "cascade_owner")

	field := model.DynamicField{DepartmentID: dept.DepartmentID, Label: "姓名", FieldType: model.FieldTypeText}
	if err := repo.Field.Sync(ctx, dept.DepartmentID, nil, nil, []model.DynamicField{field}); err != nil {
		t.Fatalf("创建字段失败: %v", err)
	}
	fields, _ := repo.Field.ListByDepartment(ctx, dept.DepartmentID)

	emp := &model.Employee{DepartmentID: dept.DepartmentID}
	if err := repo.Employee.CreateWithValues(ctx, emp, []model.EmployeeFieldValue{
		{FieldID: fields[0].FieldID, Value: "张三"},
	}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	if err := repo.Department.Delete(ctx, dept.DepartmentID, user.UserID); err != nil {
		t.Fatalf("删除部门失败: %v", err)
	}

	if _, err := repo.Employee.GetByID(ctx, emp.EmployeeID); err == nil {
		t.Error("部门删除后员工应不存在")
	}
	values, err := repo.Employee.ListValues(ctx, []string{emp.EmployeeID})
	if err != nil {
		t.Fatalf("ListValues 失败: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("字段值应被级联删除, 残留 %d 行", len(values))
	}
}

func TestEmployeeSearch_Integration(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	_, dept := seedDepartment(t, repo, "search_owner")

	field := model.DynamicField{DepartmentID: dept.DepartmentID, Label: "姓名", FieldType: model.FieldTypeText}
	if err := repo.Field.Sync(ctx, dept.DepartmentID, nil, nil, []model.DynamicField{field}); err != nil {
		t.Fatalf("创建字段失败: %v", err)
	}
	fields, _ := repo.Field.ListByDepartment(ctx, dept.DepartmentID)

	for _, name := range []string{"Engineering Lead", "Designer", "manager"} {
		emp := &model.Employee{DepartmentID: dept.DepartmentID}
		if err := repo.Employee.CreateWithValues(ctx, emp, []model.EmployeeFieldValue{
			{FieldID: fields[0].FieldID, Value: name},
		}); err != nil {
			t.Fatalf("创建员工失败: %v", err)
		}
	}

	// ILIKE：大小写不敏感子串匹配
	_, total, err := repo.Employee.List(ctx, dept.DepartmentID, "ENGIN", 0, 10)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 {
		t.Errorf("搜索命中数 = %d, 期望 1", total)
	}

	_, total, err = repo.Employee.List(ctx, dept.DepartmentID, "e", 0, 10)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 3 {
		t.Errorf("宽匹配命中数 = %d, 期望 3", total)
	}

	// LIKE 元字符按字面匹配："_" 只命中含下划线的值，"%" 只命中含百分号的值
	for _, name := range []string{"full_time", "bonus 100%"} {
		emp := &model.Employee{DepartmentID: dept.DepartmentID}
		if err := repo.Employee.CreateWithValues(ctx, emp, []model.EmployeeFieldValue{
			{FieldID: fields[0].FieldID, Value: name},
		}); err != nil {
			t.Fatalf("创建员工失败: %v", err)
		}
	}
	_, total, err = repo.Employee.List(ctx, dept.DepartmentID, "_", 0, 10)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 {
		t.Errorf("下划线搜索命中数 = %d, 期望只命中 full_time", total)
	}
	_, total, err = repo.Employee.List(ctx, dept.DepartmentID, "100%", 0, 10)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 {
		t.Errorf("百分号搜索命中数 = %d, 期望只命中 bonus 100%%", total)
	}

	// 分页与计数
	rows, total, err := repo.Employee.List(ctx, dept.DepartmentID, "", 0, 2)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 5 || len(rows) != 2 {
		t.Errorf("total = %d rows = %d, 期望 5/2", total, len(rows))
	}
}

func TestEmployeeReplaceValues_Integration(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	_, dept := seedDepartment(t, repo, "replace_owner")

	a := model.DynamicField{DepartmentID: dept.DepartmentID, Label: "姓名", FieldType: model.FieldTypeText, SortOrder: 1}
	b := model.DynamicField{DepartmentID: dept.DepartmentID, Label: "工资", FieldType: model.FieldTypeNumber, SortOrder: 2}
	if err := repo.Field.Sync(ctx, dept.DepartmentID, nil, nil, []model.DynamicField{a, b}); err != nil {
		t.Fatalf("创建字段失败: %v", err)
	}
	fields, _ := repo.Field.ListByDepartment(ctx, dept.DepartmentID)

	emp := &model.Employee{DepartmentID: dept.DepartmentID}
	if err := repo.Employee.CreateWithValues(ctx, emp, []model.EmployeeFieldValue{
		{FieldID: fields[0].FieldID, Value: "张三"},
		{FieldID: fields[1].FieldID, Value: "5000"},
	}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	if err := repo.Employee.ReplaceValues(ctx, emp.EmployeeID, []model.EmployeeFieldValue{
		{FieldID: fields[0].FieldID, Value: "李四"},
		{FieldID: fields[1].FieldID, Value: "8000"},
	}); err != nil {
		t.Fatalf("ReplaceValues 失败: %v", err)
	}

	values, err := repo.Employee.ListValues(ctx, []string{emp.EmployeeID})
	if err != nil {
		t.Fatalf("ListValues 失败: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("值行数 = %d, 期望 2（先删后插）", len(values))
	}
	got := map[string]string{}
	for _, v := range values {
		got[v.FieldID] = v.Value
	}
	if got[fields[0].FieldID] != "李四" || got[fields[1].FieldID] != "8000" {
		t.Errorf("替换结果 = %v", got)
	}
}
