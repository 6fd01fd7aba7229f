package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// BookingNumberPrefix префикс внешнего идентификатора бронирования
const BookingNumberPrefix = "CWB"

// NewBookingNumber генерирует внешний идентификатор бронирования
// Формат: CWB-YYYYMMDDHHMMSS-NNNN, где NNNN - случайный суффикс
// Уникальность гарантируется UNIQUE-ограничением на booking_number при вставке
func NewBookingNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", BookingNumberPrefix, now.Format("20060102150405"), rand.IntN(10000))
}
