package academics

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func TestWeekdayName(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{date: "2026-03-01", want: "domingo"},
		{date: "2026-03-02", want: "lunes"},
		{date: "2026-03-04", want: "miércoles"},
		{date: "2026-03-07", want: "sábado"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, WeekdayName(d))
		})
	}
}

func TestNormalizeWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "lunes", want: "lunes"},
		{in: " Lunes ", want: "lunes"},
		{in: "MIÉRCOLES", want: "miércoles"},
		{in: "miercoles", want: "miércoles"},
		{in: "sabado", want: "sábado"},
		{in: "Sábado", want: "sábado"},
		{in: "monday", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWeekday(tt.in))
		})
	}
}

func TestParseClockMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:00", want: 480},
		{in: "08:30:15", want: 510},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "8", wantErr: true},
		{in: "lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockMinutes(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:00", FormatClock("08:00:00"))
	assert.Equal(t, "08:00", FormatClock("08:00"))
	assert.Equal(t, "", FormatClock(""))
}

func TestNewClassValidate(t *testing.T) {
	validate := newValidator(t)
	start, end := "08:00", "09:00"

	t.Run("valid", func(t *testing.T) {
		nc := NewClass{Name: "Álgebra", Weekday: "Miercoles", StartTime: &start, EndTime: &end}
		require.NoError(t, nc.Validate(validate))
		assert.Equal(t, "miércoles", nc.Weekday)
	})

	t.Run("unknown weekday", func(t *testing.T) {
		nc := NewClass{Name: "Álgebra", Weekday: "monday"}
		err := nc.Validate(validate)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "dia_semana", vErr.Fields[0].Field)
	})

	t.Run("bad time format", func(t *testing.T) {
		bad := "25:00"
		nc := NewClass{Name: "Álgebra", Weekday: "lunes", StartTime: &bad, EndTime: &end}
		assert.Error(t, nc.Validate(validate))
	})

	t.Run("inverted window", func(t *testing.T) {
		nc := NewClass{Name: "Álgebra", Weekday: "lunes", StartTime: &end, EndTime: &start}
		err := nc.Validate(validate)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, ErrInvalidTimeRange, vErr.Err)
		assert.Equal(t, "hora_fin", vErr.Fields[0].Field)
	})

	t.Run("start equals end", func(t *testing.T) {
		nc := NewClass{Name: "Álgebra", Weekday: "lunes", StartTime: &start, EndTime: &start}
		assert.Error(t, nc.Validate(validate))
	})

	t.Run("open window allowed", func(t *testing.T) {
		nc := NewClass{Name: "Álgebra", Weekday: "lunes", StartTime: &start}
		assert.NoError(t, nc.Validate(validate))
	})
}
