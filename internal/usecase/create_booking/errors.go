package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrDuplicateVehicle возвращается, когда в запросе повторяется регистрационный номер
	ErrDuplicateVehicle = errors.New("create_booking: duplicate vehicle number in request")

	// ErrVehicleAlreadyBooked возвращается, когда автомобиль уже записан
	// на этот слот в другом неотмененном бронировании
	ErrVehicleAlreadyBooked = errors.New("create_booking: vehicle already booked for this slot")

	// ErrSlotCapacityExceeded возвращается, когда запрошенное число автомобилей
	// не помещается в оставшуюся вместимость слота
	ErrSlotCapacityExceeded = errors.New("create_booking: slot capacity exceeded")

	// ErrInvalidService возвращается, когда услуга не найдена или неактивна
	ErrInvalidService = errors.New("create_booking: invalid service")

	// ErrDiscountNotFound возвращается, когда промокод не существует
	ErrDiscountNotFound = errors.New("create_booking: discount code not found")

	// ErrDiscountNotApplicable возвращается, когда промокод не прошел проверку
	// (неактивен, не начался, истёк, исчерпан лимит, мала сумма заказа)
	// Конкретная причина доносится обёрнутой доменной ошибкой
	ErrDiscountNotApplicable = errors.New("create_booking: discount code not applicable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
