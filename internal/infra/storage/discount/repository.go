package discount

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWB-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var discountColumns = []string{
	"id",
	"code",
	"type",
	"value",
	"min_order_value",
	"max_discount",
	"valid_from",
	"valid_to",
	"usage_limit",
	"used_count",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с промокодами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория промокодов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает промокод по коду (код нормализуется в верхний регистр)
//
// Внутри транзакции добавляет FOR UPDATE: координатор создания бронирования
// читает промокод и инкрементирует used_count в одной транзакции, блокировка
// исключает двойное списание последнего использования
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Discount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(discountColumns...).
		From("discounts").
		Where(squirrel.Eq{"code": domain.NormalizeDiscountCode(code)})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.Discount
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID,
		&d.Code,
		&d.Type,
		&d.Value,
		&d.MinOrderValue,
		&d.MaxDiscount,
		&d.ValidFrom,
		&d.ValidTo,
		&d.UsageLimit,
		&d.UsedCount,
		&d.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDiscountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan discount: %v", ErrScanRow, err)
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return &d, nil
}

// IncrementUsage атомарно увеличивает used_count промокода на единицу
// Инкремент защищен условием used_count < usage_limit (для ограниченных кодов):
// при гонке за последнее использование проигравшая транзакция получает
// ErrUsageLimitReached и откатывается целиком
func (r *Repository) IncrementUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("discounts").
		Set("used_count", squirrel.Expr("used_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"usage_limit": 0},
			squirrel.Expr("used_count < usage_limit"),
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrUsageLimitReached
	}

	return nil
}
