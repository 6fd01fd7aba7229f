package technician

import "errors"

var (
	// ErrTechnicianNotFound возвращается, когда техник не найден
	ErrTechnicianNotFound = errors.New("technician.repository: technician not found")

	// ErrSlotAlreadyAssigned возвращается, когда слот на эту дату уже занят техником
	// Нарушение уникальности (technician_id, slot_date, slot) - арбитр гонки назначений
	ErrSlotAlreadyAssigned = errors.New("technician.repository: slot already assigned")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("technician.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("technician.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("technician.repository: failed to scan row")
)
