// Package numbering builds and parses human-readable quotation numbers.
//
// Two schemes exist and exactly one is active per deployment:
//   - monthly: COT-YYYY-MM-NNN (period 2025-09, sequence padded to 3 digits)
//   - yearly:  YYYY-NNNN       (period 2025, sequence padded to 4 digits)
//
// The format is a persisted contract: downstream reports sort and group by it.
package numbering

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Scheme string

const (
	SchemeMonthly Scheme = "monthly"
	SchemeYearly  Scheme = "yearly"
)

const counterPrefix = "cotizaciones-"

var (
	ErrUnknownScheme = errors.New("unknown numbering scheme")
	ErrInvalidNumero = errors.New("invalid numero")
)

var (
	monthlyRe = regexp.MustCompile(`^COT-(\d{4})-(\d{2})-(\d{3,})$`)
	yearlyRe  = regexp.MustCompile(`^(\d{4})-(\d{4,})$`)
)

// PeriodKey identifies one numbering scope, e.g. "2025-09" or "2025".
type PeriodKey string

// Number is a parsed numero.
type Number struct {
	Scheme Scheme
	Period PeriodKey
	Seq    int64
}

func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeMonthly:
		return SchemeMonthly, nil
	case SchemeYearly:
		return SchemeYearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Period returns the period containing t. Callers choose the location of t.
func (s Scheme) Period(t time.Time) PeriodKey {
	if s == SchemeYearly {
		return PeriodKey(fmt.Sprintf("%04d", t.Year()))
	}
	return PeriodKey(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// CounterID is the document id of the sequence counter backing period p.
func (s Scheme) CounterID(p PeriodKey) string {
	return counterPrefix + string(p)
}

// Format renders the numero for seq within period p.
func (s Scheme) Format(p PeriodKey, seq int64) string {
	if s == SchemeYearly {
		return fmt.Sprintf("%s-%04d", p, seq)
	}
	return fmt.Sprintf("COT-%s-%03d", p, seq)
}

// Parse recognises both schemes.
func Parse(numero string) (Number, error) {
	numero = strings.TrimSpace(numero)
	if m := monthlyRe.FindStringSubmatch(numero); m != nil {
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumero, numero)
		}
		seq, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil || seq < 1 {
			return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumero, numero)
		}
		return Number{Scheme: SchemeMonthly, Period: PeriodKey(m[1] + "-" + m[2]), Seq: seq}, nil
	}
	if m := yearlyRe.FindStringSubmatch(numero); m != nil {
		seq, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || seq < 1 {
			return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumero, numero)
		}
		return Number{Scheme: SchemeYearly, Period: PeriodKey(m[1]), Seq: seq}, nil
	}
	return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumero, numero)
}

// Compare orders two numeros by period, then by sequence. It returns -1, 0
// or +1. Values that do not parse fall back to plain string order.
func Compare(a, b string) int {
	na, errA := Parse(a)
	nb, errB := Parse(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	if c := strings.Compare(string(na.Period), string(nb.Period)); c != 0 {
		return c
	}
	switch {
	case na.Seq < nb.Seq:
		return -1
	case na.Seq > nb.Seq:
		return 1
	}
	return 0
}

func (n Number) String() string {
	return n.Scheme.Format(n.Period, n.Seq)
}
