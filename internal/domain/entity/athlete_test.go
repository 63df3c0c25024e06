package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAthlete_AgeAt(t *testing.T) {
	athlete := &Athlete{
		BirthDate: time.Date(2014, time.June, 15, 0, 0, 0, 0, time.UTC),
	}

	// За день до дня рождения возраст еще не увеличился
	assert.Equal(t, 9, athlete.AgeAt(time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)))

	// В сам день рождения — уже увеличился
	assert.Equal(t, 10, athlete.AgeAt(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))

	// Переход через год
	assert.Equal(t, 10, athlete.AgeAt(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestProgram_AgeEligible(t *testing.T) {
	program := &Program{MinAge: 8, MaxAge: 12}

	assert.False(t, program.AgeEligible(7))
	assert.True(t, program.AgeEligible(8))
	assert.True(t, program.AgeEligible(10))
	assert.True(t, program.AgeEligible(12))
	assert.False(t, program.AgeEligible(13))
}

func TestIsValidDiscipline(t *testing.T) {
	for _, d := range []string{DisciplineAlpine, DisciplineNordic, DisciplineFreestyle, DisciplineSnowboard} {
		assert.True(t, IsValidDiscipline(d), d)
	}
	assert.False(t, IsValidDiscipline("biathlon"))
	assert.False(t, IsValidDiscipline(""))
}
