package service

import (
	"strings"
	"testing"

	"github.com/mirshadvx/employee-management-system/internal/model"
)

func TestValidateValue_Number(t *testing.T) {
	field := &model.DynamicField{FieldID: "f1", Label: "工资", FieldType: model.FieldTypeNumber}

	stored, ferr := ValidateValue(field, "3500.50")
	if ferr != nil {
		t.Fatalf("数字字符串应通过: %v", ferr)
	}
	if stored != "3500.50" {
		t.Errorf("存储值 = %q, 期望 %q", stored, "3500.50")
	}

	stored, ferr = ValidateValue(field, float64(42))
	if ferr != nil {
		t.Fatalf("JSON 数字应通过: %v", ferr)
	}
	if stored != "42" {
		t.Errorf("存储值 = %q, 期望 %q", stored, "42")
	}

	if _, ferr = ValidateValue(field, "abc"); ferr == nil {
		t.Error("非数字字符串应被拒绝")
	}
	if _, ferr = ValidateValue(field, true); ferr == nil {
		t.Error("布尔值应被拒绝")
	}
}

func TestValidateValue_Email(t *testing.T) {
	field := &model.DynamicField{FieldID: "f1", Label: "邮箱", FieldType: model.FieldTypeEmail}

	if _, ferr := ValidateValue(field, "alice@example.com"); ferr != nil {
		t.Fatalf("合法邮箱应通过: %v", ferr)
	}
	if _, ferr := ValidateValue(field, "alice.example.com"); ferr == nil {
		t.Error("缺少 @ 应被拒绝")
	}
	if _, ferr := ValidateValue(field, "alice@example"); ferr == nil {
		t.Error("缺少 . 应被拒绝")
	}
}

func TestValidateValue_Boolean(t *testing.T) {
	field := &model.DynamicField{FieldID: "f1", Label: "在职", FieldType: model.FieldTypeBoolean}

	stored, ferr := ValidateValue(field, true)
	if ferr != nil {
		t.Fatalf("布尔值应通过: %v", ferr)
	}
	if stored != "true" {
		t.Errorf("存储值 = %q, 期望 %q", stored, "true")
	}

	// 表单风格的字符串不做隐式转换
	if _, ferr = ValidateValue(field, "on"); ferr == nil {
		t.Error(`字符串 "on" 应被拒绝`)
	}
	if _, ferr = ValidateValue(field, "true"); ferr == nil {
		t.Error(`字符串 "true" 应被拒绝`)
	}
}

func TestValidateValue_Select(t *testing.T) {
	field := &model.DynamicField{
		FieldID:      "f1",
		Label:        "级别",
		FieldType:    model.FieldTypeSelect,
		FieldOptions: model.StringList{"初级", "中级", "高级"},
	}

	if _, ferr := ValidateValue(field, "中级"); ferr != nil {
		t.Fatalf("选项内的值应通过: %v", ferr)
	}

	_, ferr := ValidateValue(field, "特级")
	if ferr == nil {
		t.Fatal("选项外的值应被拒绝")
	}
	// 错误信息需列出全部可选项
	for _, opt := range field.FieldOptions {
		if !strings.Contains(ferr.Message, opt) {
			t.Errorf("错误信息 %q 未包含选项 %q", ferr.Message, opt)
		}
	}
}

func TestValidateValue_OpaqueTypes(t *testing.T) {
	for _, ft := range []string{
		model.FieldTypeText, model.FieldTypeTextarea, model.FieldTypePassword,
		model.FieldTypeDate, model.FieldTypeFile,
	} {
		field := &model.DynamicField{FieldID: "f1", Label: "字段", FieldType: ft}
		if _, ferr := ValidateValue(field, "任意文本"); ferr != nil {
			t.Errorf("类型 %s 应接受任意字符串: %v", ft, ferr)
		}
		if _, ferr := ValidateValue(field, nil); ferr == nil {
			t.Errorf("类型 %s 应拒绝 nil", ft)
		}
	}
}

func TestValidateValue_NilValue(t *testing.T) {
	field := &model.DynamicField{FieldID: "f1", Label: "姓名", FieldType: model.FieldTypeText}

	_, ferr := ValidateValue(field, nil)
	if ferr == nil {
		t.Fatal("nil 值应被拒绝")
	}
	if ferr.FieldID != "f1" || ferr.Label != "姓名" {
		t.Errorf("字段错误未携带字段标识: %+v", ferr)
	}
}
