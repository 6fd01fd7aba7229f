package assign_technician

import (
	"context"

	assignTechnician "github.com/m04kA/CWB-BookingService/internal/usecase/assign_technician"
)

type AssignTechnicianUseCase interface {
	Execute(ctx context.Context, req *assignTechnician.Request) (*assignTechnician.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
