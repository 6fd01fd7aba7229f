package assign_technician

import (
	"github.com/m04kA/CWB-BookingService/internal/domain"
	assignTechnician "github.com/m04kA/CWB-BookingService/internal/usecase/assign_technician"
)

// AssignTechnicianRequest HTTP request model
type AssignTechnicianRequest struct {
	TechnicianID int64 `json:"technicianId"`
}

// AssignTechnicianResponse HTTP response model
type AssignTechnicianResponse struct {
	BookingNumber  string `json:"bookingNumber"`
	Status         string `json:"status"`
	TechnicianID   int64  `json:"technicianId"`
	TechnicianName string `json:"technicianName"`
	Date           string `json:"date"`
	Slot           string `json:"slot"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *assignTechnician.Response) *AssignTechnicianResponse {
	return &AssignTechnicianResponse{
		BookingNumber:  resp.BookingNumber,
		Status:         string(resp.Status),
		TechnicianID:   resp.TechnicianID,
		TechnicianName: resp.TechnicianName,
		Date:           resp.Date.Format(domain.DateFormat),
		Slot:           string(resp.Slot),
	}
}
