package validate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/errutil"
)

func TestIsValidTaskEmployeeID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"ATS0001", true},
		{"ATS0999", true},
		{"ATS0000", true},
		{"ATS1001", false},
		{"ATT0001", false},
		{"ats0001", false},
		{"ATS001", false},
		{"ATS00001", false},
		{" ATS0001", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidTaskEmployeeID(tt.id))
		})
	}
}

func TestIsValidTaskEmployeeID_AllDigits(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("ATS0%03d", i)
		if !IsValidTaskEmployeeID(id) {
			t.Fatalf("IsValidTaskEmployeeID(%q) = false, want true", id)
		}
	}
}

func TestIsValidLookupEmployeeID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"ATS0001", true},
		{"ATS0123", true},
		{"AAA0001", true},
		{"TSA0999", true},
		{"SSS0100", true},
		{"ATS0000", false},
		{"ATE0001", false},
		{"ATS1001", false},
		{"ATS001", false},
		{"ATS00010", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidLookupEmployeeID(tt.id))
		})
	}
}

func TestEmployeeIDPredicatesDiffer(t *testing.T) {
	assert.True(t, IsValidTaskEmployeeID("ATS0000"))
	assert.False(t, IsValidLookupEmployeeID("ATS0000"))
	assert.True(t, IsValidLookupEmployeeID("TTT0001"))
	assert.False(t, IsValidTaskEmployeeID("TTT0001"))
}

func TestIsValidCompanyEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@astrolitetech.com", true},
		{"a.b-c_9@astrolitetech.com", true},
		{"john.doe@astrolitetech.com", true},
		{"J0hn@astrolitetech.com", true},
		{".abc@astrolitetech.com", false},
		{"abc.@astrolitetech.com", false},
		{"-abc@astrolitetech.com", false},
		{"ab+c@astrolitetech.com", false},
		{"abc@other.com", false},
		{"abc@astrolitetech.com.evil", false},
		{"abc@sub.astrolitetech.com", false},
		{"@astrolitetech.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCompanyEmail(tt.email))
		})
	}
}

func TestRequireFields(t *testing.T) {
	require.NoError(t, RequireFields(Field{"a", "x"}, Field{"b", "y"}))

	err := RequireFields(Field{"taskName", "x"}, Field{"employeeName", ""}, Field{"email", ""})
	require.Error(t, err)
	e, ok := errutil.As(err)
	require.True(t, ok)
	assert.Equal(t, errutil.KindMissingField, e.Kind)
	assert.Equal(t, "employeeName", e.Field)
}

func TestDate(t *testing.T) {
	d, err := Date("deadline", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.Format(DateLayout))

	_, err = Date("deadline", "15/03/2024")
	assert.True(t, errutil.Is(err, errutil.KindInvalidFormat))
}

func TestWrappers(t *testing.T) {
	assert.NoError(t, TaskEmployeeID("ATS0042"))
	assert.True(t, errutil.Is(TaskEmployeeID("XYZ0042"), errutil.KindInvalidFormat))
	assert.NoError(t, LookupEmployeeID("ATS0042"))
	assert.True(t, errutil.Is(LookupEmployeeID("ATS0000"), errutil.KindInvalidFormat))
	assert.NoError(t, CompanyEmail("x@astrolitetech.com"))
	assert.True(t, errutil.Is(CompanyEmail("x@gmail.com"), errutil.KindInvalidFormat))
}
