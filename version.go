package yaml

import (
	"strconv"
	"strings"

	rtresolve "github.com/ondrajz/rtyaml/internal/resolve"

	"github.com/ondrajz/rtyaml/internal/yamlh"
)

// Version selects the implicit-resolver table Construct uses for plain
// scalars. It is not consulted on encode: no %YAML directive is written.
type Version int

const (
	// VersionAuto follows whatever %YAML directive the document declares,
	// defaulting to V1_2 when none is present.
	VersionAuto Version = iota
	V1_1
	V1_2
)

func (v Version) String() string {
	switch v {
	case V1_1:
		return "1.1"
	case V1_2:
		return "1.2"
	default:
		return "auto"
	}
}

// resolveWithVersion dispatches to the 1.1 or 1.2 implicit-resolver table.
// VersionAuto resolves as 1.2 unless a %YAML 1.1 directive overrides it for
// the document being parsed; callers that have already read a directive
// should pass the concrete version rather than VersionAuto.
func resolveWithVersion(v Version, tag, in string) (string, interface{}, error) {
	if v == V1_1 {
		return rtresolve.Resolve11(tag, in)
	}
	if (tag == "" || rtresolve.ShortTag(tag) == rtresolve.IntTag) && rtresolve.Octal11(in) {
		// 1.2 has no bare-leading-zero octal form, so "012" is decimal 12.
		if i, err := strconv.ParseInt(strings.ReplaceAll(in, "_", ""), 10, 64); err == nil {
			if i == int64(int(i)) {
				return rtresolve.IntTag, int(i), nil
			}
			return rtresolve.IntTag, i, nil
		}
	}
	return rtresolve.Resolve(tag, in)
}

// versionFromDirective converts a parsed %YAML directive into a Version,
// returning VersionAuto for a nil directive (no %YAML line in the source)
// or for a major/minor pair this package doesn't recognize.
func versionFromDirective(vd *yamlh.VersionDirective) Version {
	if vd == nil || vd.Major != 1 {
		return VersionAuto
	}
	switch vd.Minor {
	case 1:
		return V1_1
	case 2:
		return V1_2
	default:
		return VersionAuto
	}
}
