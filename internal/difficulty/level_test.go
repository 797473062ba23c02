package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_UpDownClamp(t *testing.T) {
	assert.Equal(t, Medium, Easy.Up())
	assert.Equal(t, Hard, Medium.Up())
	assert.Equal(t, Hard, Hard.Up())

	assert.Equal(t, Medium, Hard.Down())
	assert.Equal(t, Easy, Medium.Down())
	assert.Equal(t, Easy, Easy.Down())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"Easy", Easy, false},
		{"medium", Medium, false},
		{"  HARD ", Hard, false},
		{"expert", Easy, true},
		{"", Easy, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	for _, l := range All() {
		b, err := l.MarshalText()
		require.NoError(t, err)

		var got Level
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, l, got)
	}

	_, err := Level(7).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownLevel)
	assert.Equal(t, "Level(7)", Level(7).String())
}
