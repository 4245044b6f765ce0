package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	valid := map[string]int{
		"00:00": 0,
		"09:05": 9*60 + 5,
		"17:30": 17*60 + 30,
		"23:59": 23*60 + 59,
	}
	for input, want := range valid {
		minutes, err := ParseClock(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, minutes, input)
	}

	invalid := []string{
		"",
		"9:30",   // hora sin cero inicial
		"09:5",   // minuto corto
		"09:5x",  // resto tras el minuto
		"0x:30",  // letra en la hora
		"09-30",  // separador incorrecto
		"24:00",  // hora fuera de rango
		"12:60",  // minuto fuera de rango
		"09:300", // demasiado largo
		"  9:30",
	}
	for _, input := range invalid {
		_, err := ParseClock(input)
		assert.Error(t, err, input)
	}
}

func TestScheduleDay_SlotStarts(t *testing.T) {
	day := &ScheduleDay{
		IsActive:            true,
		OpenTime:            "09:00",
		CloseTime:           "10:30",
		SlotDurationMinutes: 45,
	}
	assert.Equal(t, []int{9 * 60, 9*60 + 45}, day.SlotStarts())

	// El turno parcial final se descarta
	day.CloseTime = "10:00"
	assert.Equal(t, []int{9 * 60}, day.SlotStarts())

	day.IsActive = false
	assert.Nil(t, day.SlotStarts())
}
