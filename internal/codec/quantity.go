// Package codec converts user-entered text and server floats into exact
// ingredient quantities and hour/minute/second durations, and back.
package codec

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultEpsilon is the tolerance FromFloat accepts for an approximation.
	DefaultEpsilon = 0.0001
	// DefaultMaxDenominator bounds the FromFloat denominator search.
	DefaultMaxDenominator = 10000
	// DefaultFractionPlaces is how many decimals a parsed fraction keeps when stored.
	DefaultFractionPlaces = 2
)

var (
	// ErrInvalidQuantity indicates text that is not an integer, fraction, mixed number or decimal
	ErrInvalidQuantity = errors.New("not a valid quantity")

	// ErrZeroDenominator indicates a fraction with a zero denominator
	ErrZeroDenominator = errors.New("denominator must not be zero")
)

var (
	// optional sign, optional whole part, then numerator/denominator
	fractionPattern = regexp.MustCompile(`^(-)?(?:(\d+) +)?(\d+)/(\d+)$`)
	decimalPattern  = regexp.MustCompile(`^(-)?(\d+)\.(\d+)$`)
	integerPattern  = regexp.MustCompile(`^(-)?(\d+)$`)
)

// ParseError reports input a codec could not parse. Callers use it to mark the
// originating field invalid; it never carries a partial value.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Quantity is an exact ratio such as an ingredient amount. It is not reduced
// to lowest terms; compare with Equal, not ==.
type Quantity struct {
	Numerator   int
	Denominator int
}

// NewQuantity returns numerator/denominator, rejecting a zero denominator.
func NewQuantity(numerator, denominator int) (Quantity, error) {
	if denominator == 0 {
		return Quantity{}, ErrZeroDenominator
	}
	return Quantity{Numerator: numerator, Denominator: denominator}, nil
}

type parseBranch int

const (
	branchFraction parseBranch = iota
	branchDecimal
	branchInteger
)

// ParseQuantity parses "3", "1/2", "1 1/2" or "0.75", each with an optional
// leading "-". Fraction shapes are tried before decimals since "1/2" is not a
// valid decimal.
func ParseQuantity(text string) (Quantity, error) {
	q, _, err := parseQuantity(text)
	return q, err
}

func parseQuantity(text string) (Quantity, parseBranch, error) {
	s := strings.TrimSpace(text)
	fail := func(err error) (Quantity, parseBranch, error) {
		return Quantity{}, 0, &ParseError{Input: text, Err: err}
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		num, err := strconv.Atoi(m[3])
		if err != nil {
			return fail(err)
		}
		den, err := strconv.Atoi(m[4])
		if err != nil {
			return fail(err)
		}
		if den == 0 {
			return fail(ErrZeroDenominator)
		}
		if m[2] != "" {
			whole, err := strconv.Atoi(m[2])
			if err != nil {
				return fail(err)
			}
			if whole > (math.MaxInt-num)/den {
				return fail(strconv.ErrRange)
			}
			num = whole*den + num
		}
		if m[1] == "-" {
			num = -num
		}
		return Quantity{Numerator: num, Denominator: den}, branchFraction, nil
	}

	if m := decimalPattern.FindStringSubmatch(s); m != nil {
		// 1.25 -> 125/100, exact rather than via float
		if len(m[3]) > 18 {
			return fail(strconv.ErrRange)
		}
		num, err := strconv.Atoi(m[2] + m[3])
		if err != nil {
			return fail(err)
		}
		den := 1
		for range len(m[3]) {
			den *= 10
		}
		if m[1] == "-" {
			num = -num
		}
		return Quantity{Numerator: num, Denominator: den}, branchDecimal, nil
	}

	if m := integerPattern.FindStringSubmatch(s); m != nil {
		num, err := strconv.Atoi(m[2])
		if err != nil {
			return fail(err)
		}
		if m[1] == "-" {
			num = -num
		}
		return Quantity{Numerator: num, Denominator: 1}, branchInteger, nil
	}

	return fail(ErrInvalidQuantity)
}

// ParseAmount parses text into the float stored on the server. Values entered
// as fractions are rounded to places decimals so 1/3 does not carry
// repeating-decimal noise; integers and decimals are returned as typed.
func ParseAmount(text string, places int) (float64, error) {
	q, branch, err := parseQuantity(text)
	if err != nil {
		return 0, err
	}
	if branch == branchFraction {
		return Round(q.Float(), places), nil
	}
	return q.Float(), nil
}

// Round rounds v to places decimal places (half away from zero).
func Round(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Float returns the value as a float
func (q Quantity) Float() float64 {
	return float64(q.Numerator) / float64(q.Denominator)
}

// Equal compares by represented value: 1/2 equals 2/4.
func (q Quantity) Equal(other Quantity) bool {
	left := new(big.Int).Mul(big.NewInt(int64(q.Numerator)), big.NewInt(int64(other.Denominator)))
	right := new(big.Int).Mul(big.NewInt(int64(other.Numerator)), big.NewInt(int64(q.Denominator)))
	return left.Cmp(right) == 0
}

// String renders "4", "1/2" or, when the numerator is larger than the
// denominator, a mixed number such as "2 1/3".
func (q Quantity) String() string {
	n, d := q.normalized()
	if d == 1 {
		return strconv.Itoa(n)
	}
	if abs(n) > d {
		whole, rem := n/d, abs(n%d)
		if rem == 0 {
			return strconv.Itoa(whole)
		}
		return fmt.Sprintf("%d %d/%d", whole, rem, d)
	}
	return fmt.Sprintf("%d/%d", n, d)
}

// FractionString renders a simple fraction ("7/3") and never a mixed number.
//
// Deprecated: use String, whose mixed-number output is a superset.
func (q Quantity) FractionString() string {
	n, d := q.normalized()
	if d == 1 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d/%d", n, d)
}

// normalized moves a negative sign from the denominator to the numerator
func (q Quantity) normalized() (int, int) {
	if q.Denominator < 0 {
		return -q.Numerator, -q.Denominator
	}
	return q.Numerator, q.Denominator
}

// Approximator finds a low-denominator fraction close to a float.
type Approximator struct {
	Epsilon        float64
	MaxDenominator int
}

// DefaultApproximator is used by FromFloat
var DefaultApproximator = Approximator{
	Epsilon:        DefaultEpsilon,
	MaxDenominator: DefaultMaxDenominator,
}

// Approximate searches denominators 1..MaxDenominator for the first fraction
// within Epsilon of v. If none is close enough the best candidate seen is
// returned with ok=false.
func (a Approximator) Approximate(v float64) (q Quantity, ok bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= math.MaxInt64 {
		return Quantity{Numerator: 0, Denominator: 1}, false
	}
	if v == math.Trunc(v) {
		return Quantity{Numerator: int(v), Denominator: 1}, true
	}

	eps := a.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	maxDen := a.MaxDenominator
	if maxDen <= 0 {
		maxDen = DefaultMaxDenominator
	}

	best := Quantity{Numerator: int(math.Round(v)), Denominator: 1}
	bestDiff := math.Abs(math.Round(v) - v)

	for den := 1; den <= maxDen; den++ {
		num := math.Round(v * float64(den))
		diff := math.Abs(num/float64(den) - v)
		if diff <= eps {
			return Quantity{Numerator: int(num), Denominator: den}, true
		}
		if diff < bestDiff {
			best = Quantity{Numerator: int(num), Denominator: den}
			bestDiff = diff
		}
	}
	return best, false
}

// FromFloat converts a stored float into a displayable fraction, best effort.
func FromFloat(v float64) Quantity {
	q, _ := DefaultApproximator.Approximate(v)
	return q
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
