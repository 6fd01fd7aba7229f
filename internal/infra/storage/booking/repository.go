package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWB-BookingService/pkg/psqlbuilder"
)

// uniqueViolationCode код ошибки PostgreSQL при нарушении уникальности
const uniqueViolationCode = "23505"

// bookingColumns полный набор колонок таблицы bookings для SELECT запросов
var bookingColumns = []string{
	"id",
	"booking_number",
	"user_id",
	"category",
	"customer_name",
	"customer_phone",
	"customer_address",
	"building_name",
	"slot_date",
	"slot",
	"vehicles",
	"status",
	"technician_id",
	"payment_method",
	"payment_status",
	"transaction_id",
	"total_amount",
	"discount",
	"discount_code",
	"is_bulk",
	"refund_reason",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Создание бронирования с проверкой вместимости слота всегда выполняется в
// сериализуемой транзакции координатора - это защита от гонки за последнее место
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	vehicles, err := json.Marshal(booking.Vehicles)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal vehicles: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_number",
			"user_id",
			"category",
			"customer_name",
			"customer_phone",
			"customer_address",
			"building_name",
			"slot_date",
			"slot",
			"vehicles",
			"status",
			"payment_method",
			"payment_status",
			"transaction_id",
			"total_amount",
			"discount",
			"discount_code",
			"is_bulk",
		).
		Values(
			booking.BookingNumber,
			booking.UserID,
			booking.Category,
			booking.Customer.Name,
			booking.Customer.Phone,
			booking.Customer.Address,
			booking.Customer.BuildingName,
			booking.SlotDate,
			booking.Slot,
			vehicles,
			booking.Status,
			booking.Payment.Method,
			booking.Payment.Status,
			booking.Payment.TransactionID,
			booking.TotalAmount,
			booking.Discount,
			booking.DiscountCode,
			booking.IsBulk,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
			return nil, fmt.Errorf("%w: Create - %v", ErrDuplicateNumber, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByNumber получает бронирование по внешнему идентификатору
func (r *Repository) GetByNumber(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"booking_number": bookingNumber})

	// Внутри транзакции блокируем строку: статусные CAS-обновления
	// выполняются на основе прочитанного состояния
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByNumber - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByNumber - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("slot_date DESC, created_at DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetActiveBySlot получает все неотмененные бронирования на дату и слот
// Дата сравнивается строго на равенство (календарный день, не диапазон)
//
// Внутри транзакции добавляет FOR UPDATE: выборка используется координатором
// создания бронирования для проверки вместимости и дубликатов номеров,
// блокировка строк предотвращает гонку двух транзакций за последнее место
func (r *Repository) GetActiveBySlot(ctx context.Context, date time.Time, slot domain.Slot) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"slot_date": date}).
		Where(squirrel.Eq{"slot": slot}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("created_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования compare-and-swap записью:
// статус меняется только если текущее значение равно from
// При конкурентном изменении возвращает ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCAS(ctx, executor, id, query, args, "UpdateStatus")
}

// Cancel отменяет бронирование с указанием причины
// CAS по текущему статусу: отмена проходит только из статуса from
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCAS(ctx, executor, id, query, args, "Cancel")
}

// UpdatePayment обновляет платежные данные бронирования
// CAS по текущему статусу платежа
func (r *Repository) UpdatePayment(ctx context.Context, id int64, method string, from, to domain.PaymentStatus, transactionID *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("payment_method", method).
		Set("payment_status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"payment_status": from})

	if transactionID != nil {
		updateBuilder = updateBuilder.Set("transaction_id", *transactionID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCAS(ctx, executor, id, query, args, "UpdatePayment")
}

// InitiateRefund переводит платеж в REFUND_INITIATED с записью причины возврата
// CAS: платеж должен быть в статусе PAID
func (r *Repository) InitiateRefund(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", domain.PaymentRefundInitiated).
		Set("refund_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"payment_status": domain.PaymentPaid}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: InitiateRefund - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCAS(ctx, executor, id, query, args, "InitiateRefund")
}

// AssignTechnician назначает техника и переводит бронирование PENDING -> ASSIGNED
// CAS: назначение проходит только из статуса PENDING
func (r *Repository) AssignTechnician(ctx context.Context, id int64, technicianID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("technician_id", technicianID).
		Set("status", domain.StatusAssigned).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AssignTechnician - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCAS(ctx, executor, id, query, args, "AssignTechnician")
}

// execCAS выполняет CAS-обновление и различает "не найдено" от "конкурентное изменение"
func (r *Repository) execCAS(ctx context.Context, executor DBExecutor, id int64, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		exists, err := r.exists(ctx, executor, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBookingNotFound
		}
		return ErrStatusConflict
	}

	return nil
}

func (r *Repository) exists(ctx context.Context, executor DBExecutor, id int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в доменную модель
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var vehicles []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.BookingNumber,
		&booking.UserID,
		&booking.Category,
		&booking.Customer.Name,
		&booking.Customer.Phone,
		&booking.Customer.Address,
		&booking.Customer.BuildingName,
		&booking.SlotDate,
		&booking.Slot,
		&vehicles,
		&booking.Status,
		&booking.TechnicianID,
		&booking.Payment.Method,
		&booking.Payment.Status,
		&booking.Payment.TransactionID,
		&booking.TotalAmount,
		&booking.Discount,
		&booking.DiscountCode,
		&booking.IsBulk,
		&booking.RefundReason,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(vehicles, &booking.Vehicles); err != nil {
		return nil, fmt.Errorf("unmarshal vehicles: %v", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
