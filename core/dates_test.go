package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "rfc3339",
			in:   "2024-03-01T12:30:00Z",
			want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			in:   "2024-03-01T12:30:00+02:00",
			want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name: "pdf full",
			in:   "D:20240301123000Z",
			want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "pdf with offset",
			in:   "D:20240301123000+02'00'",
			want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name: "pdf date only",
			in:   "D:20240301",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "pdf year only",
			in:   "D:2024",
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "pdf without prefix",
			in:   "20240301123000",
			want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "exif",
			in:   "2024:03:01 12:30:00",
			want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "bare date",
			in:   "2024-03-01",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "bare year",
			in:   "2024",
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "surrounding space",
			in:   "  2024-03-01T12:30:00Z  ",
			want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"", "not-a-date", "D:", "D:abc", "D:20241501", "D:20240301123000*",
		"yesterday", "13/13/2024",
	} {
		t.Run(in, func(t *testing.T) {
			_, ok := ParseDate(in)
			assert.False(t, ok, "ParseDate(%q) should fail", in)
		})
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	got, ok := ParseDate(FormatDate(ts))
	require.True(t, ok)
	assert.True(t, ts.Equal(got))
}
