package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено клиентом
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidStatus возвращается при неизвестном значении статуса
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса бронирования
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInvalidPaymentTransition возвращается при недопустимом переходе статуса платежа
	ErrInvalidPaymentTransition = errors.New("invalid payment status transition")

	// ErrBookingImmutable возвращается при попытке изменить завершённое бронирование
	ErrBookingImmutable = errors.New("completed booking is immutable")

	// ErrRefundNotAllowed возвращается, когда возврат невозможен для текущего состояния
	ErrRefundNotAllowed = errors.New("refund is not allowed for this booking")

	// ErrStatusConflict возвращается, когда состояние изменилось конкурентным запросом
	ErrStatusConflict = errors.New("booking was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
