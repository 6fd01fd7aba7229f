package assign_technician

import "errors"

var (
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("assign_technician: invalid input")

	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("assign_technician: booking not found")

	// ErrTechnicianNotFound техник не найден
	ErrTechnicianNotFound = errors.New("assign_technician: technician not found")

	// ErrTechnicianInactive техник деактивирован и не принимает назначения
	ErrTechnicianInactive = errors.New("assign_technician: technician is inactive")

	// ErrBookingNotAssignable бронирование не в статусе, допускающем назначение
	ErrBookingNotAssignable = errors.New("assign_technician: booking is not awaiting assignment")

	// ErrSlotAlreadyAssigned техник уже занят на этом слоте другим бронированием
	ErrSlotAlreadyAssigned = errors.New("assign_technician: technician already assigned to this slot")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("assign_technician: internal error")
)
