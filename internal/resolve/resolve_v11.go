package resolve

import (
	"regexp"
	"strconv"
	"strings"
)

// bool11Map holds the expanded YAML 1.1 boolean vocabulary. 1.2 only
// recognizes true/false (see resolveMap in resolve.go); 1.1 additionally
// treats yes/no/on/off (lower, capitalized or upper case) and y/Y/n/N as
// booleans.
var bool11Map = map[string]bool{
	"yes": true, "Yes": true, "YES": true,
	"no": false, "No": false, "NO": false,
	"on": true, "On": true, "ON": true,
	"off": false, "Off": false, "OFF": false,
	"y": true, "Y": true,
	"n": false, "N": false,
}

var sexagesimalRe = regexp.MustCompile(`^[-+]?[0-9][0-9_]*(:[0-5]?[0-9])+$`)
var sexagesimalFloatRe = regexp.MustCompile(`^[-+]?[0-9][0-9_]*(:[0-5]?[0-9])+\.[0-9_]*$`)
var octal11Re = regexp.MustCompile(`^[-+]?0[0-7_]+$`)

// Resolve11 resolves a plain scalar using YAML 1.1 semantics: an expanded
// boolean set, leading-zero octal integers (dropped as an int form in 1.2,
// where octal instead requires the 0o prefix), and sexagesimal (base 60)
// integers and floats. It falls back to Resolve for every form 1.1 and 1.2
// agree on.
func Resolve11(tag, in string) (rtag string, out interface{}, err error) {
	tag = ShortTag(tag)
	if !resolvableTag(tag) {
		return tag, in, nil
	}

	if tag == "" || tag == BoolTag {
		if b, ok := bool11Map[in]; ok {
			return BoolTag, b, nil
		}
	}

	if tag == "" || tag == IntTag {
		plain := strings.ReplaceAll(in, "_", "")
		if octal11Re.MatchString(plain) {
			neg := false
			digits := plain
			switch digits[0] {
			case '+':
				digits = digits[1:]
			case '-':
				neg = true
				digits = digits[1:]
			}
			if intv, err := strconv.ParseInt(digits, 8, 64); err == nil {
				if neg {
					intv = -intv
				}
				return IntTag, normalizeInt(intv), nil
			}
		}
		if sexagesimalRe.MatchString(plain) && !sexagesimalFloatRe.MatchString(plain) {
			if v, ok := parseSexagesimal(plain); ok {
				return IntTag, normalizeInt(int64(v)), nil
			}
		}
	}

	if tag == "" || tag == FloatTag {
		plain := strings.ReplaceAll(in, "_", "")
		if sexagesimalFloatRe.MatchString(plain) {
			if v, ok := parseSexagesimal(plain); ok {
				return FloatTag, v, nil
			}
		}
	}

	return Resolve(tag, in)
}

// parseSexagesimal parses base-60 integers/floats of the form
// "[-+]d+(:d{1,2})+(\.d*)?", as used by the 1.1 spec for things like
// durations (12:34:56 == 12*3600 + 34*60 + 56).
func parseSexagesimal(s string) (float64, bool) {
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	parts := strings.Split(s, ":")
	var value float64
	for _, p := range parts {
		var frac float64
		whole := p
		if i := strings.IndexByte(p, '.'); i >= 0 {
			whole = p[:i]
			f, err := strconv.ParseFloat("0"+p[i:], 64)
			if err != nil {
				return 0, false
			}
			frac = f
		}
		n, err := strconv.ParseFloat(whole, 64)
		if err != nil {
			return 0, false
		}
		value = value*60 + n + frac
	}
	if neg {
		value = -value
	}
	return value, true
}

func normalizeInt(v int64) interface{} {
	if v == int64(int(v)) {
		return int(v)
	}
	return v
}

// Octal11 reports whether s, taken as an integer scalar under 1.1 rules,
// would be read in base 8 because of a bare leading zero (as opposed to
// the 1.2-only "0o" prefix form already handled by Resolve).
func Octal11(s string) bool {
	return octal11Re.MatchString(strings.ReplaceAll(s, "_", ""))
}
