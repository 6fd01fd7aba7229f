package technician

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWB-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с техниками и их занятыми слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория техников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает техника вместе со списком занятых слотов
//
// Внутри транзакции блокирует строку техника (FOR UPDATE): guard назначения
// читает занятые слоты и добавляет новый в одной транзакции, блокировка
// исключает двойное назначение на один слот при конкурентных запросах
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"phone",
		"active",
		"created_at",
		"updated_at",
	).
		From("technicians").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Technician
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.Phone,
		&t.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan technician: %v", ErrScanRow, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	slots, err := r.getAssignedSlots(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	t.AssignedSlots = slots

	return &t, nil
}

// AppendAssignedSlot добавляет занятый слот технику
// UNIQUE(technician_id, slot_date, slot) с ON CONFLICT DO NOTHING:
// при гонке двух назначений на один слот проигравший получает ErrSlotAlreadyAssigned
func (r *Repository) AppendAssignedSlot(ctx context.Context, technicianID int64, date time.Time, slot domain.Slot, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("technician_slots").
		Columns("technician_id", "slot_date", "slot", "booking_id").
		Values(technicianID, date, slot, bookingID).
		Suffix("ON CONFLICT (technician_id, slot_date, slot) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendAssignedSlot - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AppendAssignedSlot - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AppendAssignedSlot - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotAlreadyAssigned
	}

	return nil
}

// ReleaseSlotByBooking освобождает слот техника, занятый указанным бронированием
// Вызывается при отмене назначенного бронирования, чтобы слот не «протекал»
func (r *Repository) ReleaseSlotByBooking(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("technician_slots").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseSlotByBooking - build delete query: %v", ErrBuildQuery, err)
	}

	// Отсутствие строки не ошибка: бронирование могло быть отменено до назначения
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseSlotByBooking - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getAssignedSlots(ctx context.Context, executor DBExecutor, technicianID int64) ([]domain.AssignedSlot, error) {
	query, args, err := psqlbuilder.Select("slot_date", "slot", "booking_id").
		From("technician_slots").
		Where(squirrel.Eq{"technician_id": technicianID}).
		OrderBy("slot_date ASC, slot ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getAssignedSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getAssignedSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.AssignedSlot, 0)
	for rows.Next() {
		var s domain.AssignedSlot
		if err := rows.Scan(&s.SlotDate, &s.Slot, &s.BookingID); err != nil {
			return nil, fmt.Errorf("%w: getAssignedSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getAssignedSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
