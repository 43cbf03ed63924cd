package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeConditionTable(t *testing.T) {
	cases := map[int]string{
		0:  "Clear sky",
		1:  "Mainly clear",
		2:  "Partly cloudy",
		3:  "Overcast",
		45: "Foggy",
		51: "Light drizzle",
		61: "Slight rain",
		63: "Moderate rain",
		65: "Heavy rain",
		71: "Slight snow fall",
		95: "Thunderstorm",
	}
	require.Len(t, conditionLabels, len(cases))
	for code, want := range cases {
		require.Equal(t, want, DecodeCondition(code), "code %d", code)
	}
}

func TestDecodeConditionUnknown(t *testing.T) {
	for _, code := range []int{-1, 4, 48, 80, 99, 1000} {
		require.Equal(t, ConditionUnknown, DecodeCondition(code), "code %d", code)
	}
}
