package annot

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Resolver dereferences indirect objects. *model.Context and *model.XRefTable
// from pdfcpu satisfy it.
type Resolver interface {
	Dereference(o types.Object) (types.Object, error)
}

// Ref identifies an indirect object by object and generation number.
type Ref struct {
	Num int
	Gen int
}

// String returns the reference in "num gen R" notation.
func (r Ref) String() string {
	return fmt.Sprintf("%d %d R", r.Num, r.Gen)
}

// RefOf extracts the reference of an indirect object, if obj is one.
func RefOf(obj types.Object) (Ref, bool) {
	switch v := obj.(type) {
	case types.IndirectRef:
		return Ref{Num: v.ObjectNumber.Value(), Gen: v.GenerationNumber.Value()}, true
	case *types.IndirectRef:
		if v == nil {
			return Ref{}, false
		}
		return Ref{Num: v.ObjectNumber.Value(), Gen: v.GenerationNumber.Value()}, true
	}
	return Ref{}, false
}

// resolve dereferences obj, treating resolution failures as absent objects.
func resolve(r Resolver, obj types.Object) types.Object {
	if obj == nil {
		return nil
	}
	if _, ok := RefOf(obj); !ok {
		return obj
	}
	if r == nil {
		return nil
	}
	o, err := r.Dereference(obj)
	if err != nil {
		return nil
	}
	return o
}

func getDict(r Resolver, obj types.Object) (types.Dict, bool) {
	switch d := resolve(r, obj).(type) {
	case types.Dict:
		return d, d != nil
	case types.StreamDict:
		return d.Dict, d.Dict != nil
	case *types.StreamDict:
		if d == nil {
			return nil, false
		}
		return d.Dict, d.Dict != nil
	}
	return nil, false
}

func getArray(r Resolver, obj types.Object) (types.Array, bool) {
	a, ok := resolve(r, obj).(types.Array)
	return a, ok
}

func getNumber(r Resolver, obj types.Object) (float64, bool) {
	switch n := resolve(r, obj).(type) {
	case types.Integer:
		return float64(n), true
	case types.Float:
		return float64(n), true
	}
	return 0, false
}

func getInt(r Resolver, obj types.Object) (int, bool) {
	switch n := resolve(r, obj).(type) {
	case types.Integer:
		return int(n), true
	case types.Float:
		return int(n), true
	}
	return 0, false
}

func getName(r Resolver, obj types.Object) (string, bool) {
	n, ok := resolve(r, obj).(types.Name)
	return string(n), ok
}

func getBool(r Resolver, obj types.Object) (bool, bool) {
	b, ok := resolve(r, obj).(types.Boolean)
	return bool(b), ok
}

func isString(r Resolver, obj types.Object) bool {
	switch resolve(r, obj).(type) {
	case types.StringLiteral, types.HexLiteral:
		return true
	}
	return false
}

// getBytes returns the raw bytes of a literal or hex string.
func getBytes(r Resolver, obj types.Object) ([]byte, bool) {
	switch s := resolve(r, obj).(type) {
	case types.StringLiteral:
		b, err := types.Unescape(string(s))
		if err != nil {
			return []byte(s), true
		}
		return b, true
	case types.HexLiteral:
		b, err := s.Bytes()
		if err != nil {
			return nil, false
		}
		return b, true
	}
	return nil, false
}

// getText returns a PDF text string decoded to UTF-8.
func getText(r Resolver, obj types.Object) (string, bool) {
	b, ok := getBytes(r, obj)
	if !ok {
		return "", false
	}
	return decodeTextString(b), true
}

var utf16BOM = []byte{0xfe, 0xff}

// decodeTextString decodes UTF-16BE strings carrying a byte order mark and
// treats everything else as PDFDocEncoding, approximated by Windows-1252.
func decodeTextString(b []byte) string {
	if bytes.HasPrefix(b, utf16BOM) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if s, err := dec.Bytes(b); err == nil {
			return string(s)
		}
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// numbers converts every numeric element of a, non-numbers count as zero.
func numbers(r Resolver, a types.Array) []float64 {
	v := make([]float64, len(a))
	for i, o := range a {
		v[i], _ = getNumber(r, o)
	}
	return v
}
