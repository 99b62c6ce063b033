package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToStorage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01/03/2024", "2024-03-01"},
		{"31/12/1999", "1999-12-31"},
		{"1/3/2024", ""},
		{"2024-03-01", ""},
		{"01-03-2024", ""},
		{"", ""},
		{"aa/bb/cccc", ""},
		{"01/03/20245", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ToStorage(tc.in))
		})
	}
}

func TestToDisplay(t *testing.T) {
	assert.Equal(t, "01/03/2024", ToDisplay("2024-03-01"))
	assert.Equal(t, "05/07/2024", ToDisplay("2024-7-5"))
	assert.Equal(t, "", ToDisplay("2024-03"))
	assert.Equal(t, "", ToDisplay(""))
	assert.Equal(t, "", ToDisplay("01/03/2024"))
}

func TestRoundTrip(t *testing.T) {
	for _, d := range []string{"01/01/2024", "29/02/2020", "15/08/1987", "31/12/2099"} {
		assert.Equal(t, d, ToDisplay(ToStorage(d)), d)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "01/03/2024", Normalize("01/03/2024"))
	assert.Equal(t, "01/03/2024", Normalize("2024-03-01"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("garbage"))
}

func TestNotInFutureAt(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

	t.Run("today is valid", func(t *testing.T) {
		assert.True(t, NotInFutureAt("10/03/2024", now).IsValid)
	})

	t.Run("past is valid", func(t *testing.T) {
		assert.True(t, NotInFutureAt("09/03/2024", now).IsValid)
	})

	t.Run("tomorrow is rejected with message", func(t *testing.T) {
		res := NotInFutureAt("11/03/2024", now)
		assert.False(t, res.IsValid)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("unparsable fails open", func(t *testing.T) {
		assert.True(t, NotInFutureAt("not a date", now).IsValid)
		assert.True(t, NotInFutureAt("31/02/2024", now).IsValid)
		assert.True(t, NotInFutureAt("", now).IsValid)
	})
}
