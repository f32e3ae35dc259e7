package measure

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const Separator = ","

type ParseErrorKind int

const (
	EmptyLine ParseErrorKind = iota
	MalformedFormat
	NonNumericField
	OutOfRange
)

func (k ParseErrorKind) String() string {
	switch k {
	case EmptyLine:
		return "empty line"
	case MalformedFormat:
		return "malformed"
	case NonNumericField:
		return "non-numeric"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// ParseError reports why an input line was rejected. Raw holds the offending text.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := "invalid reading " + strconv.Quote(e.Raw) + ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Parser struct {
	Limits Limits
}

func NewParser(limits Limits) *Parser {
	return &Parser{Limits: limits}
}

// Parse converts a "<humidity>,<temperature>" line into a Reading observed at receivedAt.
func (p *Parser) Parse(line string, receivedAt time.Time) (Reading, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Reading{}, &ParseError{Kind: EmptyLine, Raw: line}
	}

	fields := strings.Split(line, Separator)
	if len(fields) != 2 {
		return Reading{}, &ParseError{Kind: MalformedFormat, Raw: line}
	}

	humidity, err := parseField(fields[0], line)
	if err != nil {
		return Reading{}, err
	}
	temperature, err := parseField(fields[1], line)
	if err != nil {
		return Reading{}, err
	}

	if !p.Limits.humidityInRange(humidity) || !p.Limits.temperatureInRange(temperature) {
		return Reading{}, &ParseError{Kind: OutOfRange, Raw: line}
	}

	return Reading{
		Humidity:    humidity,
		Temperature: temperature,
		ObservedAt:  receivedAt,
	}, nil
}

func parseField(field string, line string) (float64, error) {
	field = strings.TrimSpace(field)
	if !isDecimal(field) {
		return 0, &ParseError{Kind: NonNumericField, Raw: line}
	}
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		// ParseFloat reports ErrRange for literals beyond float64, which are numeric
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, &ParseError{Kind: OutOfRange, Raw: line, Err: err}
		}
		return 0, &ParseError{Kind: NonNumericField, Raw: line, Err: err}
	}
	if math.IsNaN(value) {
		return 0, &ParseError{Kind: NonNumericField, Raw: line}
	}
	return value, nil
}

// isDecimal rejects the Go literal forms ParseFloat accepts besides plain
// decimals: hexadecimal mantissas and underscore digit separators.
func isDecimal(field string) bool {
	digits := strings.TrimLeft(field, "+-")
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return false
	}
	return !strings.ContainsRune(field, '_')
}
