package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmartCodeIsValid(t *testing.T) {
	valid := []SmartCode{
		"SALON.FIN.EXPENSE.SALARY.v1",
		"SALON.POS.DAILY.SALES.v1",
		"SALON.FIN.GL.AUTO_POSTING.v1",
		"HERA.FIN.GL.v12",
	}
	for _, code := range valid {
		assert.True(t, code.IsValid(), "expected %s to be valid", code)
	}

	invalid := []SmartCode{
		"",
		"SALON.FIN.v1",                  // too few segments
		"salon.fin.expense.salary.v1",   // lowercase
		"SALON.FIN.EXPENSE.SALARY",      // missing version
		"SALON.FIN.EXPENSE.SALARY.v1.x", // trailing garbage
		"SALON..EXPENSE.SALARY.v1",      // empty segment
	}
	for _, code := range invalid {
		assert.False(t, code.IsValid(), "expected %s to be invalid", code)
	}
}
