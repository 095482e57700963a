package certificate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Certificaciones-api/internal/domain/certificate"
)

func TestParseDate_PrecedenciaDiaMes(t *testing.T) {
	cases := map[string]time.Time{
		"1/1/2025":   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		"13/01/2025": time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		"02/03/2025": time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		"15/01/2025": time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		" 7/11/1999": time.Date(1999, 11, 7, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := certificate.ParseDate(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_FormatosGenericos(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-15":           time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"2025-01-15T10:30:00Z": time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"15 January 2025":      time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"45672":                time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := certificate.ParseDate(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_Invalidas(t *testing.T) {
	for _, in := range []string{"", "31/02/2025", "13/13/2025", "01/01/1899", "mañana", "0/1/2025"} {
		t.Run(in, func(t *testing.T) {
			_, err := certificate.ParseDate(in)
			assert.Error(t, err)
		})
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), certificate.Today(now))
}
