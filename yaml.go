//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package yaml implements YAML 1.1/1.2 support for Go, with a round-trip
// mode that preserves comments, quoting, anchors, flow style, and key
// order across a parse-then-emit cycle.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	rtresolve "github.com/ondrajz/rtyaml/internal/resolve"
)

// Tag constants mirror the resolver's long/short tag table but are kept
// unqualified here because the node-construction code in decode.go predates
// the split into internal/resolve and still spells them bare.
const (
	nullTag      = rtresolve.NullTag
	boolTag      = rtresolve.BoolTag
	strTag       = rtresolve.StrTag
	intTag       = rtresolve.IntTag
	floatTag     = rtresolve.FloatTag
	timestampTag = rtresolve.TimestampTag
	seqTag       = rtresolve.SeqTag
	mapTag       = rtresolve.MapTag
	binaryTag    = rtresolve.BinaryTag
	mergeTag     = rtresolve.MergeTag
)

func shortTag(tag string) string { return rtresolve.ShortTag(tag) }
func longTag(tag string) string  { return rtresolve.LongTag(tag) }

func resolveTag(tag, in string) (rtag string, out interface{}, err error) {
	return rtresolve.Resolve(tag, in)
}

// resolve is kept as a bare package-level name because decode.go (ported
// from the upstream single-package layout) calls it unqualified.
func resolve(tag, in string) (string, interface{}, error) {
	return resolveTag(tag, in)
}

// Marshaler is implemented by types that can marshal themselves into valid
// YAML.
type Marshaler interface {
	MarshalYAML() (interface{}, error)
}

// Unmarshaler is implemented by types that can unmarshal a YAML node
// description of themselves.
//
// UnmarshalYAML must not retain n, nor the tree rooted at it: the composer
// reuses node storage for sibling documents once construction of each one
// completes.
type Unmarshaler interface {
	UnmarshalYAML(value *Node) error
}

// obsoleteUnmarshaler supports the pre-Node UnmarshalYAML(func(interface{})
// error) error shape some callers still implement.
type obsoleteUnmarshaler interface {
	UnmarshalYAML(unmarshal func(interface{}) error) error
}

// TypeError is returned when unmarshaling finds values that don't fit the
// destination types. The errors accumulate across the whole document
// instead of failing at the first mismatch.
type TypeError struct {
	Errors []string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("yaml: unmarshal errors:\n  %s", strings.Join(e.Errors, "\n  "))
}

// Marshal serializes v into a YAML document. See Encoder for the
// round-trip preserving variant driven through *Node values.
func Marshal(v interface{}) ([]byte, error) {
	var buf sliceWriter
	e := NewEncoder(&buf)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	if err := e.Close(); err != nil {
		return nil, err
	}
	return buf.b, nil
}

type sliceWriter struct{ b []byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// Unmarshal decodes the first document found within the in byte slice and
// assigns decoded values into the out value.
func Unmarshal(in []byte, out interface{}) error {
	return unmarshal(in, out, false)
}

// UnmarshalStrict is like Unmarshal except that any fields that are found
// in the data that do not have corresponding struct members, or mapping
// keys that are duplicates, will result in an error.
func UnmarshalStrict(in []byte, out interface{}) error {
	return unmarshal(in, out, true)
}

func unmarshal(in []byte, out interface{}, strict bool) (err error) {
	defer handleErr(&err)
	d := newDecoder()
	d.knownFields = strict
	p := newParser(in)
	defer p.destroy()
	node, perr := p.parse()
	if perr != nil {
		return perr
	}
	if node == nil {
		return nil
	}

	outv := reflect.ValueOf(out)
	if outv.Kind() != reflect.Ptr || outv.IsNil() {
		return errors.New("yaml: Unmarshal requires a non-nil pointer")
	}

	good, uerr := d.unmarshal(node, outv.Elem())
	if uerr != nil {
		return uerr
	}
	_ = good
	if len(d.typeErrors) > 0 {
		return &TypeError{d.typeErrors}
	}
	return nil
}

// A Decoder reads and decodes YAML documents from an input stream, one
// document per Decode call.
type Decoder struct {
	parser      *parser
	knownFields bool
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r interface {
	Read(p []byte) (n int, err error)
}) *Decoder {
	return &Decoder{parser: newParserFromReader(r)}
}

// KnownFields ensures that the keys in decoded mappings to exist as fields
// in the struct being decoded into, or be accounted for with an inline
// map, or be ignored by disabling this check.
func (dec *Decoder) KnownFields(enable bool) {
	dec.knownFields = enable
}

// Decode reads the next YAML-encoded value from its input and stores it
// in the value pointed to by v.
func (dec *Decoder) Decode(v interface{}) (err error) {
	d := newDecoder()
	d.knownFields = dec.knownFields
	defer handleErr(&err)
	node, perr := dec.parser.parse()
	if perr != nil {
		return perr
	}
	if node == nil {
		return io.EOF
	}
	out := reflect.ValueOf(v)
	if out.Kind() != reflect.Ptr || out.IsNil() {
		return errors.New("yaml: Decode requires a non-nil pointer")
	}
	_, uerr := d.unmarshal(node, out.Elem())
	if uerr != nil {
		return uerr
	}
	if len(d.typeErrors) > 0 {
		return &TypeError{d.typeErrors}
	}
	return nil
}

// handleErr recovers a yamlError panic raised deep in the decode helpers and
// turns it back into a plain error from Unmarshal/Decode; any other panic
// (for example from a reflect operation) is re-raised.
type yamlError struct{ err error }

func handleErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(yamlError); ok {
			*err = e.err
			return
		}
		panic(v)
	}
}

func isZero(v reflect.Value) bool {
	kind := v.Kind()
	if z, ok := isZeroer(v); ok {
		return z
	}
	switch kind {
	case reflect.String:
		return len(v.String()) == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Slice:
		return v.Len() == 0
	case reflect.Map:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Uintptr, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Struct:
		vt := v.Type()
		for i := v.NumField() - 1; i >= 0; i-- {
			if vt.Field(i).PkgPath != "" {
				continue // unexported
			}
			if !isZero(v.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}

func isZeroer(v reflect.Value) (bool, bool) {
	if !v.CanInterface() {
		return false, false
	}
	if z, ok := v.Interface().(interface{ IsZero() bool }); ok {
		return z.IsZero(), true
	}
	return false, false
}

// ----------------------------------------------------------------------------
// Struct tag parsing, keyed by reflect.Type and cached process-wide since the
// tag layout of a type never changes between decode/encode calls.

type structInfo struct {
	FieldsMap  map[string]fieldInfo
	FieldsList []fieldInfo

	// InlineMap is the number of the field to which unmatched keys are
	// mapped, or -1 if there's none.
	InlineMap int

	// InlineUnmarshalers holds the field indexes for inlined fields that
	// implement the Unmarshaler/obsoleteUnmarshaler interfaces.
	InlineUnmarshalers [][]int
}

type fieldInfo struct {
	Key       string
	Num       int
	OmitEmpty bool
	Flow      bool
	// Id is a unique field identifier, at least unique in the same struct.
	Id int

	// Inline holds the field index if the field is part of an inlined struct.
	Inline []int
}

var structMap = make(map[reflect.Type]*structInfo)
var fieldMapMutex sync.RWMutex
var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
var obsoleteUnmarshalerType = reflect.TypeOf((*obsoleteUnmarshaler)(nil)).Elem()

func getStructInfo(st reflect.Type) (*structInfo, error) {
	fieldMapMutex.RLock()
	sinfo, found := structMap[st]
	fieldMapMutex.RUnlock()
	if found {
		return sinfo, nil
	}

	n := st.NumField()
	fieldsMap := make(map[string]fieldInfo)
	fieldsList := make([]fieldInfo, 0, n)
	inlineMap := -1
	inlineUnmarshalers := [][]int(nil)
	for i := 0; i != n; i++ {
		field := st.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue // Private field
		}

		info := fieldInfo{Num: i}

		tag := field.Tag.Get("yaml")
		if tag == "" && strings.Index(string(field.Tag), ":") < 0 {
			tag = string(field.Tag)
		}

		if tag == "-" {
			continue
		}

		inline := false
		fields := strings.Split(tag, ",")
		if len(fields) > 1 {
			for _, flag := range fields[1:] {
				switch flag {
				case "omitempty":
					info.OmitEmpty = true
				case "flow":
					info.Flow = true
				case "inline":
					inline = true
				default:
					return nil, fmt.Errorf("unsupported flag %q in tag %q of type %s", flag, tag, st)
				}
			}
			tag = fields[0]
		}

		if inline {
			switch field.Type.Kind() {
			case reflect.Map:
				if inlineMap >= 0 {
					return nil, errors.New("multiple ,inline maps in struct " + st.String())
				}
				if field.Type.Key() != reflect.TypeOf("") {
					return nil, errors.New("option ,inline needs a map with string keys in struct " + st.String())
				}
				inlineMap = info.Num
			case reflect.Ptr, reflect.Struct:
				ftype := field.Type
				for ftype.Kind() == reflect.Ptr {
					ftype = ftype.Elem()
				}
				if ftype.Kind() != reflect.Struct {
					return nil, errors.New("option ,inline may only be used on a struct or map field")
				}
				if reflect.PtrTo(ftype).Implements(unmarshalerType) ||
					reflect.PtrTo(ftype).Implements(obsoleteUnmarshalerType) {
					inlineUnmarshalers = append(inlineUnmarshalers, []int{i})
				} else {
					sinfo, err := getStructInfo(ftype)
					if err != nil {
						return nil, err
					}
					for _, index := range sinfo.InlineUnmarshalers {
						inlineUnmarshalers = append(inlineUnmarshalers, append([]int{i}, index...))
					}
					for _, finfo := range sinfo.FieldsList {
						if _, found := fieldsMap[finfo.Key]; found {
							msg := "duplicated key '" + finfo.Key + "' in struct " + st.String()
							return nil, errors.New(msg)
						}
						if finfo.Inline == nil {
							finfo.Inline = []int{i, finfo.Num}
						} else {
							finfo.Inline = append([]int{i}, finfo.Inline...)
						}
						finfo.Id = len(fieldsList)
						fieldsMap[finfo.Key] = finfo
						fieldsList = append(fieldsList, finfo)
					}
				}
			default:
				return nil, errors.New("option ,inline may only be used on a struct, a map, or a pointer to a struct")
			}
			continue
		}

		if tag != "" {
			info.Key = tag
		} else {
			info.Key = strings.ToLower(field.Name)
		}

		if _, found = fieldsMap[info.Key]; found {
			msg := "duplicated key '" + info.Key + "' in struct " + st.String()
			return nil, errors.New(msg)
		}

		info.Id = len(fieldsList)
		fieldsList = append(fieldsList, info)
		fieldsMap[info.Key] = info
	}

	sinfo = &structInfo{
		FieldsMap:          fieldsMap,
		FieldsList:          fieldsList,
		InlineMap:           inlineMap,
		InlineUnmarshalers:  inlineUnmarshalers,
	}

	fieldMapMutex.Lock()
	structMap[st] = sinfo
	fieldMapMutex.Unlock()
	return sinfo, nil
}

