package get_slot_availability

import (
	"github.com/m04kA/CWB-BookingService/internal/domain"
	getSlotAvailability "github.com/m04kA/CWB-BookingService/internal/usecase/get_slot_availability"
)

// SlotAvailabilityResponse доступность одного слота
type SlotAvailabilityResponse struct {
	Slot      string `json:"slot"`
	Capacity  int    `json:"capacity"`
	Occupied  int    `json:"occupied"`
	Available int    `json:"available"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date  string                     `json:"date"`
	Slots []SlotAvailabilityResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotAvailabilityResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotAvailabilityResponse{
			Slot:      string(s.Slot),
			Capacity:  s.Capacity,
			Occupied:  s.Occupied,
			Available: s.Available,
		}
	}

	return &AvailabilityResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: slots,
	}
}
