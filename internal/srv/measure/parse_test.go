package measure

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

var receivedAt = time.Date(2024, 5, 4, 10, 30, 0, 0, time.UTC)

func requireParseError(t *testing.T, err error, kind ParseErrorKind) *ParseError {
	t.Helper()
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "expected *ParseError, got %v", err)
	assert.Equal(t, kind, parseErr.Kind, "unexpected kind for %q", parseErr.Raw)
	return parseErr
}

func TestParseWellFormed(t *testing.T) {
	t.Parallel()

	parser := NewParser(DefaultLimits)
	rnd := rand.New(rand.NewSource(42))

	values := [][2]float64{
		{0, -40},
		{100, 125},
		{60.1, 22.3},
		{55.2, 21.8},
		{0.5, 0},
	}
	for i := 0; i < 200; i++ {
		values = append(values, [2]float64{rnd.Float64() * 100, -40 + rnd.Float64()*165})
	}

	for _, v := range values {
		line := strconv.FormatFloat(v[0], 'g', -1, 64) + "," + strconv.FormatFloat(v[1], 'g', -1, 64)
		reading, err := parser.Parse(line, receivedAt)
		require.NoError(t, err, line)
		assert.Equal(t, v[0], reading.Humidity, line)
		assert.Equal(t, v[1], reading.Temperature, line)
		assert.Equal(t, receivedAt, reading.ObservedAt)
	}
}

func TestParseToleratesSpaces(t *testing.T) {
	t.Parallel()

	reading, err := NewParser(DefaultLimits).Parse("  55.2 , 21.8 \r", receivedAt)
	require.NoError(t, err)
	assert.InDelta(t, 55.2, reading.Humidity, 1e-9)
	assert.InDelta(t, 21.8, reading.Temperature, 1e-9)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		kind ParseErrorKind
	}{
		{name: "empty", line: "", kind: EmptyLine},
		{name: "blank", line: "   \t", kind: EmptyLine},
		{name: "single field", line: "55.2", kind: MalformedFormat},
		{name: "three fields", line: "55.2,21.8,true", kind: MalformedFormat},
		{name: "many fields", line: "1,2,3,4,5", kind: MalformedFormat},
		{name: "only separator", line: ",", kind: NonNumericField},
		{name: "semicolon", line: "55.2;21.8", kind: MalformedFormat},
		{name: "text humidity", line: "abc,22.3", kind: NonNumericField},
		{name: "text temperature", line: "60.1,warm", kind: NonNumericField},
		{name: "missing temperature", line: "60.1,", kind: NonNumericField},
		{name: "nan", line: "NaN,20", kind: NonNumericField},
		{name: "humidity above", line: "100.01,20", kind: OutOfRange},
		{name: "humidity below", line: "-0.1,20", kind: OutOfRange},
		{name: "temperature above", line: "50,125.5", kind: OutOfRange},
		{name: "temperature below", line: "50,-40.01", kind: OutOfRange},
		{name: "infinite", line: "50,+Inf", kind: OutOfRange},
		{name: "overflow", line: "1e400,20", kind: OutOfRange},
		{name: "hexadecimal humidity", line: "0x1.8p5,20", kind: NonNumericField},
		{name: "hexadecimal temperature", line: "50,-0X14p0", kind: NonNumericField},
		{name: "digit separator", line: "5_0,20", kind: NonNumericField},
	}

	parser := NewParser(DefaultLimits)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parser.Parse(tt.line, receivedAt)
			parseErr := requireParseError(t, err, tt.kind)
			assert.Contains(t, parseErr.Error(), tt.kind.String())
		})
	}
}

func TestParseWrongFieldCount(t *testing.T) {
	t.Parallel()

	parser := NewParser(DefaultLimits)
	for count := 3; count <= 8; count++ {
		line := "50"
		for i := 1; i < count; i++ {
			line += ",20"
		}
		_, err := parser.Parse(line, receivedAt)
		requireParseError(t, err, MalformedFormat)
	}
}

func TestParseKeepsRawText(t *testing.T) {
	t.Parallel()

	_, err := NewParser(DefaultLimits).Parse("abc,22.3", receivedAt)
	parseErr := requireParseError(t, err, NonNumericField)
	assert.Equal(t, "abc,22.3", parseErr.Raw)
	assert.NotNil(t, errors.Unwrap(parseErr))
}

func TestParseLineTooLong(t *testing.T) {
	t.Parallel()

	_, err := NewParser(DefaultLimits).ParseLine(Line{Text: "55.2,21.8", Err: ErrLineTooLong}, receivedAt)
	requireParseError(t, err, MalformedFormat)
	assert.ErrorIs(t, err, ErrLineTooLong)
}

func TestCustomLimits(t *testing.T) {
	t.Parallel()

	parser := NewParser(Limits{MinHumidity: 20, MaxHumidity: 90, MinTemperature: -20, MaxTemperature: 60})

	_, err := parser.Parse("95,20", receivedAt)
	requireParseError(t, err, OutOfRange)

	_, err = parser.Parse("50,20", receivedAt)
	require.NoError(t, err)
}

func TestReadingEnv(t *testing.T) {
	t.Parallel()

	env := Reading{Humidity: 50, Temperature: 20}.Env()
	assert.Equal(t, 50*physic.PercentRH, env.Humidity)
	assert.Equal(t, physic.ZeroCelsius+20*physic.Kelvin, env.Temperature)
}
