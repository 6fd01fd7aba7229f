package domain

import "time"

// AssignedSlot занятый техником слот (дата + слот)
// Пара (SlotDate, Slot) уникальна для техника: один техник не может держать
// два назначения на один и тот же слот
type AssignedSlot struct {
	SlotDate  time.Time
	Slot      Slot
	BookingID int64
}

// Technician техник, выполняющий мойку
type Technician struct {
	ID            int64
	Name          string
	Phone         string
	Active        bool
	AssignedSlots []AssignedSlot
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasSlot проверяет, занят ли у техника указанный слот на указанную дату
// Даты сравниваются строго по календарному дню
func (t *Technician) HasSlot(date time.Time, slot Slot) bool {
	for _, s := range t.AssignedSlots {
		if s.Slot == slot && sameDay(s.SlotDate, date) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
