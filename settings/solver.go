package settings

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/units"
)

const (
	ControlFile   = "system/controlDict"
	DecomposeFile = "system/decomposeParDict"

	DefaultDecompose = "/* decomposeParDict autogenerated */\n"
)

// Solver holds the run control entries and the number of parallel subdomains.
// Empty strings leave the controlDict entry alone; Subdomains < 1 leaves the
// decomposeParDict alone.
type Solver struct {
	StartTime     string `json:"startTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	DeltaT        string `json:"deltaT,omitempty"`
	WriteInterval string `json:"writeInterval,omitempty"`
	Subdomains    int    `json:"subdomains,omitempty"`
}

// numericEntry is GetEntry restricted to plain numbers
func numericEntry(text, key string) string {
	v := foamdict.GetEntry(text, key)
	if _, ok := units.ParseNumber(v); !ok || strings.ContainsAny(v, "() ,") {
		return ""
	}
	return v
}

// SetControl sets a top level controlDict entry, inserting missing ones before the
// functions block. An empty value is a no-op.
func SetControl(text, key, value string) string {
	if value = strings.TrimSpace(value); value == "" {
		return text
	}
	return foamdict.SetEntry(text, key, value, "functions")
}

// FactorTriple splits n into three factors as close to a cube as the primes of n
// allow: each prime, largest first, multiplies the currently smallest factor.
func FactorTriple(n int) (dims [3]int) {
	n = max(1, n)
	var primes []int
	for n%2 == 0 {
		primes = append(primes, 2)
		n /= 2
	}
	for p := 3; p*p <= n; p += 2 {
		for n%p == 0 {
			primes = append(primes, p)
			n /= p
		}
	}
	if n > 1 {
		primes = append(primes, n)
	}
	dims = [3]int{1, 1, 1}
	sort.Sort(sort.Reverse(sort.IntSlice(primes)))
	for _, p := range primes {
		sort.Ints(dims[:])
		dims[0] *= p
	}
	return
}

var nTuple = regexp.MustCompile(`(?m)^([ \t]*)n\s*\(\s*(\d+)\s+(\d+)\s+(\d+)\s*\)\s*;`)

// ParseNTuple reads the "n (a b c);" entry
func ParseNTuple(text string) (n [3]int, ok bool) {
	m := nTuple.FindStringSubmatch(text)
	if m == nil {
		return n, false
	}
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+2])
	}
	return n, true
}

// SetNTuple rewrites the "n (a b c);" entry. Without one, the line goes first into
// the hierarchicalCoeffs or coeffs block, and without either a coeffs block is appended.
func SetNTuple(text string, n [3]int) string {
	value := fmt.Sprintf("(%d %d %d)", n[0], n[1], n[2])
	if loc := nTuple.FindStringSubmatchIndex(text); loc != nil {
		indent := text[loc[2]:loc[3]]
		return text[:loc[0]] + indent + foamdict.FormatEntry("n", value) + text[loc[1]:]
	}
	line := "    " + foamdict.FormatEntry("n", value)
	for _, kw := range []string{"hierarchicalCoeffs", "coeffs"} {
		if sp, ok := foamdict.FindKeyword(text, kw); ok {
			return text[:sp.Open+1] + "\n" + line + text[sp.Open+1:]
		}
	}
	return strings.TrimRight(text, "\n") + "\n\ncoeffs\n{\n" + line + "\n}\n"
}

// ApplyDecompose sets a hierarchical decomposition into n subdomains
func ApplyDecompose(text string, n int) string {
	text = foamdict.SetEntry(text, "numberOfSubdomains", strconv.Itoa(n))
	text = foamdict.SetEntry(text, "method", "hierarchical")
	return SetNTuple(text, FactorTriple(n))
}

// LoadSolver reads the run control entries and the subdomain count. A missing
// decomposeParDict reads as one subdomain.
func LoadSolver(ctx *casefile.Context) (s Solver, err error) {
	text, err := ctx.Read(ControlFile)
	if err != nil {
		return s, fmt.Errorf("loading solver settings: %w", err)
	}
	s.StartTime = numericEntry(text, "startTime")
	s.EndTime = numericEntry(text, "endTime")
	s.DeltaT = numericEntry(text, "deltaT")
	s.WriteInterval = numericEntry(text, "writeInterval")

	s.Subdomains = 1
	d, err := ctx.Read(DecomposeFile)
	switch {
	case casefile.IsNotExist(err):
		return s, nil
	case err != nil:
		return s, fmt.Errorf("loading solver settings: %w", err)
	}
	if v, ok := units.ParseNumber(numericEntry(d, "numberOfSubdomains")); ok && v >= 1 {
		s.Subdomains = int(v)
	} else if n, ok := ParseNTuple(d); ok {
		s.Subdomains = max(1, n[0]*n[1]*n[2])
	}
	return s, nil
}

// ApplySolver writes system/controlDict then system/decomposeParDict. Either file
// may be missing; the controlDict then starts empty and the decomposeParDict from
// DefaultDecompose.
func ApplySolver(ctx *casefile.Context, s Solver) (written []string, err error) {
	log := ctx.Logger()
	control, err := ctx.Read(ControlFile)
	switch {
	case casefile.IsNotExist(err):
		control = ""
	case err != nil:
		return written, err
	}
	control = SetControl(control, "startTime", s.StartTime)
	control = SetControl(control, "endTime", s.EndTime)
	control = SetControl(control, "deltaT", s.DeltaT)
	control = SetControl(control, "writeInterval", s.WriteInterval)
	if err = ctx.Write(ControlFile, control); err != nil {
		return written, err
	}
	written = append(written, ControlFile)

	if s.Subdomains >= 1 {
		d, rerr := ctx.Read(DecomposeFile)
		switch {
		case casefile.IsNotExist(rerr):
			d = DefaultDecompose
		case rerr != nil:
			return written, rerr
		}
		if err = ctx.Write(DecomposeFile, ApplyDecompose(d, s.Subdomains)); err != nil {
			return written, err
		}
		written = append(written, DecomposeFile)
		n := FactorTriple(s.Subdomains)
		log.Debug("decomposition", zap.Int("subdomains", s.Subdomains), zap.Ints("n", n[:]))
	}
	log.Info("applied solver settings", zap.Strings("written", written))
	return written, nil
}
