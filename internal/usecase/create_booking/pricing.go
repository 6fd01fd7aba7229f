package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/internal/integrations/catalogservice"
)

// pricedVehicles результат расчета цен: автомобили со снимками цен и сумма заказа
type pricedVehicles struct {
	Vehicles []domain.Vehicle
	Subtotal float64
}

// priceVehicles рассчитывает цену каждого автомобиля и сумму заказа
//
// Цена автомобиля = цена услуги + сумма цен активных дополнений.
// Услуга обязана существовать и быть активной, иначе ErrInvalidService.
// Неактивные и неизвестные дополнения молча исключаются из суммы - каталог
// отдает только активные, отклонять запрос из-за них не нужно.
// Результат - снимок цен на момент бронирования, он не пересчитывается
func (uc *UseCase) priceVehicles(ctx context.Context, vehicles []VehicleRequest) (*pricedVehicles, error) {
	// Кешируем услуги в рамках запроса: в массовом бронировании
	// одна услуга обычно повторяется на несколько автомобилей
	services := make(map[int64]*catalogservice.Service)

	priced := make([]domain.Vehicle, 0, len(vehicles))
	subtotal := 0.0

	for _, v := range vehicles {
		service, ok := services[v.ServiceID]
		if !ok {
			var err error
			service, err = uc.catalogClient.GetService(ctx, v.ServiceID)
			if err != nil {
				if errors.Is(err, catalogservice.ErrServiceNotFound) {
					return nil, fmt.Errorf("%w: service id=%d", ErrInvalidService, v.ServiceID)
				}
				return nil, fmt.Errorf("%w: failed to get service id=%d: %v", ErrInternal, v.ServiceID, err)
			}
			services[v.ServiceID] = service
		}

		if !service.Active {
			return nil, fmt.Errorf("%w: service id=%d is inactive", ErrInvalidService, v.ServiceID)
		}

		addonSum, err := uc.sumActiveAddons(ctx, v.AddonIDs)
		if err != nil {
			return nil, err
		}

		price := service.Price + addonSum
		priced = append(priced, domain.Vehicle{
			Type:      v.Type,
			Number:    normalizeVehicleNumber(v.Number),
			Model:     v.Model,
			CC:        v.CC,
			ServiceID: v.ServiceID,
			AddonIDs:  v.AddonIDs,
			Price:     price,
		})
		subtotal += price
	}

	return &pricedVehicles{Vehicles: priced, Subtotal: subtotal}, nil
}

// sumActiveAddons возвращает сумму цен активных дополнений из набора
func (uc *UseCase) sumActiveAddons(ctx context.Context, addonIDs []int64) (float64, error) {
	if len(addonIDs) == 0 {
		return 0, nil
	}

	addons, err := uc.catalogClient.GetAddons(ctx, addonIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get addons: %v", ErrInternal, err)
	}

	sum := 0.0
	for _, a := range addons {
		if a.Active {
			sum += a.Price
		}
	}
	return sum, nil
}

// volumeDiscount возвращает объёмную скидку для заказа
// Процент зависит от числа автомобилей, считается от суммы заказа целиком
func volumeDiscount(subtotal float64, vehicleCount int) float64 {
	return subtotal * float64(domain.VolumeDiscountPercent(vehicleCount)) / 100
}
