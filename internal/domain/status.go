package domain

// BookingStatus статус жизненного цикла бронирования
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusAssigned   BookingStatus = "ASSIGNED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
)

// bookingTransitions таблица допустимых переходов статусов бронирования
// Любой переход, отсутствующий в таблице, запрещен
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsTerminal возвращает true, если из статуса нет переходов
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo проверяет допустимость перехода в указанный статус
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus статус жизненного цикла платежа
// Жизненный цикл платежа независим от жизненного цикла бронирования,
// но сверяется с ним при обновлении (см. service/bookings)
type PaymentStatus string

const (
	PaymentUnpaid          PaymentStatus = "UNPAID"
	PaymentPaid            PaymentStatus = "PAID"
	PaymentFailed          PaymentStatus = "FAILED"
	PaymentRefundInitiated PaymentStatus = "REFUND_INITIATED"
	PaymentRefunded        PaymentStatus = "REFUNDED"
)

// paymentTransitions таблица допустимых переходов статусов платежа
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:          {PaymentPaid, PaymentFailed},
	PaymentPaid:            {PaymentRefundInitiated},
	PaymentFailed:          {},
	PaymentRefundInitiated: {PaymentRefunded},
	PaymentRefunded:        {},
}

// IsValid проверяет, что статус платежа известен
func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// IsTerminal возвращает true, если из статуса платежа нет переходов
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo проверяет допустимость перехода платежа в указанный статус
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
