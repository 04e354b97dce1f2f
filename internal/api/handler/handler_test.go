package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mirshadvx/employee-management-system/internal/dto"
	"github.com/mirshadvx/employee-management-system/internal/service"
	"github.com/mirshadvx/employee-management-system/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 注入固定用户，替代 JWT 认证中间件
func withTestUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) *response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v, body = %s", err, w.Body.String())
	}
	return &resp
}

// ── 字段接口 ──

type mockFieldService struct {
	listFn func(ctx context.Context, ownerID, departmentID string) ([]dto.FieldResponse, error)
	syncFn func(ctx context.Context, ownerID, departmentID string, req *dto.SyncFieldsRequest) (*dto.SyncFieldsResponse, error)
}

func (m *mockFieldService) ListFields(ctx context.Context, ownerID, departmentID string) ([]dto.FieldResponse, error) {
	return m.listFn(ctx, ownerID, departmentID)
}

func (m *mockFieldService) SyncFields(ctx context.Context, ownerID, departmentID string, req *dto.SyncFieldsRequest) (*dto.SyncFieldsResponse, error) {
	return m.syncFn(ctx, ownerID, departmentID, req)
}

func newFieldRouter(svc service.FieldService) *gin.Engine {
	h := NewFieldHandler(svc, zap.NewNop())
	r := gin.New()
	r.Use(withTestUser("owner-1"))
	r.GET("/departments/:id/fields", h.List)
	r.PUT("/departments/:id/fields", h.Sync)
	return r
}

func TestFieldHandler_Sync(t *testing.T) {
	var gotOwner, gotDept string
	svc := &mockFieldService{
		syncFn: func(_ context.Context, ownerID, departmentID string, req *dto.SyncFieldsRequest) (*dto.SyncFieldsResponse, error) {
			gotOwner, gotDept = ownerID, departmentID
			return &dto.SyncFieldsResponse{Created: len(req.Fields)}, nil
		},
	}
	r := newFieldRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/departments/dept-1/fields", gin.H{
		"fields": []gin.H{{"label": "姓名", "field_type": "text", "order": 1}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200, body = %s", w.Code, w.Body.String())
	}
	if gotOwner != "owner-1" || gotDept != "dept-1" {
		t.Errorf("透传参数 = (%q,%q)", gotOwner, gotDept)
	}
}

func TestFieldHandler_SyncValidationError(t *testing.T) {
	svc := &mockFieldService{
		syncFn: func(_ context.Context, _, _ string, _ *dto.SyncFieldsRequest) (*dto.SyncFieldsResponse, error) {
			return nil, service.NewValidationError(dto.FieldError{Label: "级别", Message: "select 类型字段必须提供至少一个选项"})
		},
	}
	r := newFieldRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/departments/dept-1/fields", gin.H{"fields": []gin.H{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, 期望 400", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != 13001 {
		t.Errorf("业务码 = %d, 期望 13001", resp.Code)
	}
	if resp.Errors == nil {
		t.Error("响应应携带字段级错误列表")
	}
}

func TestFieldHandler_DepartmentNotFound(t *testing.T) {
	svc := &mockFieldService{
		listFn: func(_ context.Context, _, _ string) ([]dto.FieldResponse, error) {
			return nil, service.ErrDepartmentNotFound
		},
	}
	r := newFieldRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/departments/nope/fields", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码 = %d, 期望 404", w.Code)
	}
}

// ── 员工接口 ──

type mockEmployeeService struct {
	createFn func(ctx context.Context, ownerID, departmentID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	updateFn func(ctx context.Context, ownerID, employeeID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	getFn    func(ctx context.Context, ownerID, employeeID string) (*dto.EmployeeResponse, error)
	deleteFn func(ctx context.Context, ownerID, employeeID string) error
	listFn   func(ctx context.Context, ownerID, departmentID string, req *dto.EmployeeListRequest) (*dto.EmployeeListResponse, error)
}

func (m *mockEmployeeService) Create(ctx context.Context, ownerID, departmentID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	return m.createFn(ctx, ownerID, departmentID, req)
}

func (m *mockEmployeeService) Update(ctx context.Context, ownerID, employeeID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	return m.updateFn(ctx, ownerID, employeeID, req)
}

func (m *mockEmployeeService) GetByID(ctx context.Context, ownerID, employeeID string) (*dto.EmployeeResponse, error) {
	return m.getFn(ctx, ownerID, employeeID)
}

func (m *mockEmployeeService) Delete(ctx context.Context, ownerID, employeeID string) error {
	return m.deleteFn(ctx, ownerID, employeeID)
}

func (m *mockEmployeeService) List(ctx context.Context, ownerID, departmentID string, req *dto.EmployeeListRequest) (*dto.EmployeeListResponse, error) {
	return m.listFn(ctx, ownerID, departmentID, req)
}

func newEmployeeRouter(svc service.EmployeeService) *gin.Engine {
	h := NewEmployeeHandler(svc, nil, zap.NewNop())
	r := gin.New()
	r.Use(withTestUser("owner-1"))
	r.GET("/departments/:id/employees", h.List)
	r.POST("/departments/:id/employees", h.Create)
	r.GET("/employees/:id", h.Get)
	r.DELETE("/employees/:id", h.Delete)
	return r
}

func TestEmployeeHandler_Create(t *testing.T) {
	svc := &mockEmployeeService{
		createFn: func(_ context.Context, _, departmentID string, _ *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
			return &dto.EmployeeResponse{EmployeeID: "emp-1", DepartmentID: departmentID}, nil
		},
	}
	r := newEmployeeRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/departments/dept-1/employees", gin.H{
		"values": []gin.H{{"field_id": "f1", "value": "张三"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("状态码 = %d, 期望 201, body = %s", w.Code, w.Body.String())
	}
}

func TestEmployeeHandler_CreateValidationError(t *testing.T) {
	svc := &mockEmployeeService{
		createFn: func(_ context.Context, _, _ string, _ *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
			return nil, service.NewValidationError(
				dto.FieldError{FieldID: "f1", Label: "工资", Message: "必须是数字"},
			)
		},
	}
	r := newEmployeeRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/departments/dept-1/employees", gin.H{
		"values": []gin.H{{"field_id": "f1", "value": "abc"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, 期望 400", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != 14001 {
		t.Errorf("业务码 = %d, 期望 14001", resp.Code)
	}
}

func TestEmployeeHandler_NotFound(t *testing.T) {
	svc := &mockEmployeeService{
		getFn: func(_ context.Context, _, _ string) (*dto.EmployeeResponse, error) {
			return nil, service.ErrEmployeeNotFound
		},
	}
	r := newEmployeeRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/employees/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码 = %d, 期望 404", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != 14002 {
		t.Errorf("业务码 = %d, 期望 14002", resp.Code)
	}
}

func TestEmployeeHandler_ListPassesQuery(t *testing.T) {
	var gotReq *dto.EmployeeListRequest
	svc := &mockEmployeeService{
		listFn: func(_ context.Context, _, _ string, req *dto.EmployeeListRequest) (*dto.EmployeeListResponse, error) {
			gotReq = req
			return &dto.EmployeeListResponse{Page: 1, PageSize: 5, TotalPages: 1}, nil
		},
	}
	r := newEmployeeRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/departments/dept-1/employees?q=zhang&page=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
	if gotReq.Q != "zhang" || gotReq.Page != "2" {
		t.Errorf("查询参数透传 = %+v", gotReq)
	}
}

func TestEmployeeHandler_BadBody(t *testing.T) {
	svc := &mockEmployeeService{}
	r := newEmployeeRouter(svc)

	// 缺少必填的 values 字段
	w := doJSON(t, r, http.MethodPost, "/departments/dept-1/employees", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, 期望 400", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != 10001 {
		t.Errorf("业务码 = %d, 期望 10001", resp.Code)
	}
}
