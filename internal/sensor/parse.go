package sensor

import (
	"bufio"
	"bytes"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var errNoMatch = errors.New("no matching entry")

// parseNumber parses a single numeric file body such as "1800000\n".
func parseNumber(b []byte) (float64, error) {
	s := strings.TrimSpace(string(b))
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNoMatch
	}
	return v, nil
}

// parseProcStat returns busy and total jiffies from the aggregate "cpu"
// line. Idle time includes iowait.
func parseProcStat(b []byte) (busy, total float64, err error) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		var vals [8]float64
		for i := 0; i < len(vals) && i+1 < len(fields); i++ {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return 0, 0, err
			}
			vals[i] = v
		}
		for _, v := range vals {
			total += v
		}
		idle := vals[3] + vals[4]
		return total - idle, total, nil
	}
	return 0, 0, errNoMatch
}

// parseDevfreqLoad parses a devfreq load report of the form "NN@FREQHz".
func parseDevfreqLoad(b []byte) (float64, error) {
	s := string(b)
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	return parseNumber([]byte(s))
}

var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// parseDebugfsLoad averages every percentage that follows marker on the
// lines containing it. Multi-core reports ("NPU load:  Core0: 3%, Core1:
// 5%,") and per-scheduler reports (several "load = N%" lines) both reduce
// to one figure.
func parseDebugfsLoad(b []byte, marker string) (float64, error) {
	var sum float64
	var n int
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := sc.Text()
		i := strings.Index(line, marker)
		if i < 0 {
			continue
		}
		for _, m := range percentRe.FindAllStringSubmatch(line[i+len(marker):], -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, errNoMatch
	}
	return sum / float64(n), nil
}

// parseClkSummary finds the row named clock in a clk_summary table and
// returns its rate column (the fifth field) in Hz.
func parseClkSummary(b []byte, clock string) (float64, error) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 5 && fields[0] == clock {
			return strconv.ParseFloat(fields[4], 64)
		}
	}
	return 0, errNoMatch
}

// parseMeminfo reads a "Key: value kB" table into a map of kB values.
func parseMeminfo(b []byte) map[string]float64 {
	out := make(map[string]float64)
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		key, rest, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
			out[strings.TrimSpace(key)] = v
		}
	}
	return out
}

// usedPercent returns (total-free)/total*100. ok is false when total is 0.
func usedPercent(total, free float64) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	used := total - free
	if used < 0 {
		used = 0
	}
	return used / total * 100, true
}

// naturalLess orders strings with embedded numbers numerically, so
// cpu2 sorts before cpu10.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ad, bd := isDigit(a[0]), isDigit(b[0])
		switch {
		case ad && bd:
			an, arest := splitDigits(a)
			bn, brest := splitDigits(b)
			if an != bn {
				return an < bn
			}
			a, b = arest, brest
		case a[0] != b[0]:
			return a[0] < b[0]
		default:
			a, b = a[1:], b[1:]
		}
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func splitDigits(s string) (uint64, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n, _ := strconv.ParseUint(s[:i], 10, 64)
	return n, s[i:]
}
