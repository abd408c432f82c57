package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func lunchItem() *MenuItem {
	return &MenuItem{
		Name:      "Veg Thali",
		Quantity:  5,
		StartTime: "11:30",
		EndTime:   "14:00",
		Days:      []string{"Monday", "Wednesday", "Friday"},
	}
}

func TestAvailableAtInsideWindow(t *testing.T) {
	item := lunchItem()
	monday := time.Date(2026, 8, 31, 12, 15, 0, 0, time.UTC)
	assert.True(t, item.AvailableAt(monday))
}

func TestAvailableAtWindowBoundariesAreInclusive(t *testing.T) {
	item := lunchItem()
	open := time.Date(2026, 8, 31, 11, 30, 0, 0, time.UTC)
	close := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	assert.True(t, item.AvailableAt(open))
	assert.True(t, item.AvailableAt(close))
}

func TestAvailableAtOutsideWindow(t *testing.T) {
	item := lunchItem()
	early := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 8, 31, 14, 1, 0, 0, time.UTC)
	assert.False(t, item.AvailableAt(early))
	assert.False(t, item.AvailableAt(late))
}

func TestAvailableAtWrongWeekday(t *testing.T) {
	item := lunchItem()
	tuesday := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, item.AvailableAt(tuesday))
}

func TestAvailableAtOutOfStock(t *testing.T) {
	item := lunchItem()
	item.Quantity = 0
	monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	assert.False(t, item.AvailableAt(monday))
}

func TestAvailableOn(t *testing.T) {
	item := lunchItem()
	assert.True(t, item.AvailableOn("Wednesday"))
	assert.False(t, item.AvailableOn("Sunday"))
}
