package get_slot_availability

import "errors"

var (
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("get_slot_availability: invalid input")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("get_slot_availability: internal error")
)
