package annot

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textWidget(value string) types.Dict {
	d := widget(10, 10, 110, 30)
	d["FT"] = types.Name("Tx")
	d["V"] = str(value)
	d["DA"] = str("/Helv 10 Tf 0 g")
	return d
}

func generated(t *testing.T, a *Annotation) string {
	t.Helper()
	sd, ok := a.Appearance()
	require.True(t, ok, "no appearance after generation")
	return string(sd.Content)
}

func TestGenerateTextFieldIsIdempotent(t *testing.T) {
	dict := textWidget("Hello")
	a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
	require.Equal(t, RegenDirty, a.Regen())

	require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
	first := generated(t, a)
	require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
	second := generated(t, a)

	assert.Equal(t, first, second)
	assert.Equal(t, RegenClean, a.Regen())
	assert.Equal(t, "/Tx BMC\nq\nBT\n/Helv 10 Tf 0 g 1 0 0 1 2.00 6.00 Tm\n(Hello) Tj\nET\nQ\nEMC\n", first)
}

func TestGenerateStreamDictionary(t *testing.T) {
	dict := textWidget("x")
	a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
	dr := types.Dict{"Font": types.Dict{"Helv": types.Dict{"BaseFont": types.Name("Helvetica")}}}
	require.NoError(t, a.GenerateFieldAppearance(nil, dict, types.Dict{"DR": dr}))

	sd, ok := a.Appearance()
	require.True(t, ok)
	assert.Equal(t, types.Name("Form"), sd.Dict["Subtype"])
	assert.Equal(t, types.Name("XObject"), sd.Dict["Type"])
	want := types.Array{types.Float(0), types.Float(0), types.Float(100), types.Float(20)}
	if diff := cmp.Diff(want, sd.Dict["BBox"]); diff != "" {
		t.Errorf("BBox mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, types.Integer(len(sd.Content)), sd.Dict["Length"])
	assert.Equal(t, sd.Content, sd.Raw)
	assert.Equal(t, dr, sd.Dict["Resources"])
}

func TestGenerateAddsCoreFontResources(t *testing.T) {
	dict := widget(0, 0, 20, 20)
	dict["FT"] = types.Name("Btn")
	dict["V"] = types.Name("Yes")
	dict["AS"] = types.Name("Yes")
	form := types.Dict{
		"DA": str("/Helv 0 Tf 0 g"),
		"DR": types.Dict{"Font": types.Dict{"Helv": types.Dict{"BaseFont": types.Name("Helvetica")}}},
	}
	a := NewAnnotation(memStore{}, form, dict)
	require.NoError(t, a.GenerateFieldAppearance(dict, dict, form))

	out := generated(t, a)
	assert.Contains(t, out, "/ZaDb ")
	assert.Contains(t, out, "(3) Tj")

	sd, _ := a.Appearance()
	res, ok := sd.Dict["Resources"].(types.Dict)
	require.True(t, ok)
	fonts, ok := res["Font"].(types.Dict)
	require.True(t, ok)
	assert.Contains(t, fonts, "Helv")
	zadb, ok := fonts["ZaDb"].(types.Dict)
	require.True(t, ok)
	assert.Equal(t, types.Name("ZapfDingbats"), zadb["BaseFont"])
	_, hasEncoding := zadb["Encoding"]
	assert.False(t, hasEncoding)

	_, shared := form["DR"].(types.Dict)["Font"].(types.Dict)["ZaDb"]
	assert.False(t, shared, "form resources must not be modified")
}

func TestGenerateCheckBox(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		state   string
		caption string
		want    string
	}{
		{"yes", "Yes", "Yes", "", "(3) Tj"},
		{"named on state", "On", "On", "", "(3) Tj"},
		{"caption", "Yes", "Yes", "4", "(4) Tj"},
		{"off", "Off", "Off", "", ""},
		{"value differs from state", "On", "Off", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict := widget(0, 0, 20, 20)
			dict["FT"] = types.Name("Btn")
			dict["V"] = types.Name(tt.value)
			dict["AS"] = types.Name(tt.state)
			dict["DA"] = str("/Helv 0 Tf 0 g")
			if tt.caption != "" {
				dict["MK"] = types.Dict{"CA": str(tt.caption)}
			}
			a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
			require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
			out := generated(t, a)
			if tt.want == "" {
				assert.NotContains(t, out, "Tj")
				return
			}
			assert.Contains(t, out, "/ZaDb ")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestGenerateRadioButton(t *testing.T) {
	radio := func(state string) types.Dict {
		d := widget(0, 0, 20, 20)
		d["FT"] = types.Name("Btn")
		d["Ff"] = types.Integer(fieldFlagRadio)
		d["V"] = types.Name("On")
		d["AS"] = types.Name(state)
		d["MK"] = types.Dict{"BC": nums(1, 0, 0)}
		d["Border"] = nums(0, 0, 2)
		return d
	}

	dict := radio("On")
	a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
	require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
	out := generated(t, a)

	// round border of radius 10 - 1, then the dot of radius 4
	assert.True(t, strings.HasPrefix(out, "2.00 w\n1.00 0.00 0.00 RG\n19.00 10.00 m\n"))
	assert.Contains(t, out, "1.00 0.00 0.00 rg\n14.00 10.00 m\n")
	assert.True(t, strings.HasSuffix(out, "f\n"))
	assert.NotContains(t, out, "re W n")

	off := radio("Off")
	a = NewAnnotation(memStore{}, nil, off, WithFonts(testFonts))
	require.NoError(t, a.GenerateFieldAppearance(off, off, nil))
	assert.NotContains(t, generated(t, a), " rg\n")
}

func TestGeneratePushButtonCaption(t *testing.T) {
	dict := widget(0, 0, 100, 20)
	dict["FT"] = types.Name("Btn")
	dict["Ff"] = types.Integer(fieldFlagPushbutton)
	dict["DA"] = str("/Helv 10 Tf")
	dict["MK"] = types.Dict{"CA": str("OK")}
	a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
	require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
	// width 10, centred
	assert.Contains(t, generated(t, a), "/Helv 10 Tf 1 0 0 1 45.00 6.00 Tm\n(OK) Tj\n")
}

func TestGenerateBorders(t *testing.T) {
	tests := []struct {
		name     string
		bs       types.Dict
		contains []string
	}{
		{
			name: "solid",
			bs:   types.Dict{"W": types.Integer(1)},
			contains: []string{
				"0.50 g\n0 0 100.00 20.00 re f\n",
				"1.00 w\n0.00 0.00 1.00 RG\n0.50 0.50 99.00 19.00 re s\n",
				"1.00 1.00 98.00 18.00 re W n\n",
			},
		},
		{
			name:     "dashed",
			bs:       types.Dict{"W": types.Integer(1), "S": types.Name("D"), "D": nums(2)},
			contains: []string{"[ 2.00 ] 0 d\n1.00 w\n", "re s\n"},
		},
		{
			name: "beveled",
			bs:   types.Dict{"W": types.Integer(2), "S": types.Name("B")},
			contains: []string{
				"0.50 0.50 1.00 rg\n0 0 m\n0 20.00 l\n",
				"0.00 0.00 0.50 rg\n100.00 20.00 m\n",
				"2.00 2.00 96.00 16.00 re W n\n",
			},
		},
		{
			name:     "inset",
			bs:       types.Dict{"W": types.Integer(2), "S": types.Name("I")},
			contains: []string{"0.00 0.00 0.50 rg\n0 0 m\n", "0.50 0.50 1.00 rg\n100.00 20.00 m\n"},
		},
		{
			name:     "underlined",
			bs:       types.Dict{"W": types.Integer(1), "S": types.Name("U")},
			contains: []string{"0 0 m 100.00 0 l s\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict := textWidget("")
			dict["BS"] = tt.bs
			dict["MK"] = types.Dict{"BG": nums(0.5), "BC": nums(0, 0, 1)}
			a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
			require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
			out := generated(t, a)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestGenerateBorderNeedsColor(t *testing.T) {
	dict := textWidget("")
	dict["BS"] = types.Dict{"W": types.Integer(1)}
	dict["MK"] = types.Dict{"BC": types.Array{}}
	a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
	require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
	assert.NotContains(t, generated(t, a), " w\n")
}

func TestGenerateTextFieldVariants(t *testing.T) {
	tests := []struct {
		name   string
		ff     int
		maxLen int
		value  string
		want   string
	}{
		{"password", fieldFlagPassword, 0, "hunter2", "(*******) Tj"},
		{"comb", fieldFlagComb, 4, "abcdef", "(d) Tj\nET"},
		{"comb without MaxLen", fieldFlagComb, 0, "ab", "(ab) Tj"},
		{"multiline", fieldFlagMultiline, 0, "a\nb", "(b) Tj"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict := textWidget(tt.value)
			dict["Ff"] = types.Integer(tt.ff)
			if tt.maxLen > 0 {
				dict["MaxLen"] = types.Integer(tt.maxLen)
			}
			a := NewAnnotation(memStore{}, nil, dict, WithFonts(testFonts))
			require.NoError(t, a.GenerateFieldAppearance(dict, dict, nil))
			assert.Contains(t, generated(t, a), tt.want)
		})
	}
}

func TestGenerateInheritsFromParent(t *testing.T) {
	r := memStore{
		1: types.Dict{
			"FT": types.Name("Tx"),
			"V":  str("inherited"),
			"DA": str("/Helv 8 Tf"),
			"Q":  types.Integer(2),
		},
	}
	child := widget(0, 0, 100, 20)
	child["Parent"] = iref(1, 0)
	child["DA"] = str("/Helv 10 Tf")

	a := NewAnnotation(r, nil, child, WithFonts(testFonts))
	require.NoError(t, a.GenerateFieldAppearance(child, child, types.Dict{"Q": types.Integer(1)}))
	out := generated(t, a)

	// child DA wins, parent Q wins over the form default: 100 - 2 - 45
	assert.Contains(t, out, "/Helv 10 Tf 1 0 0 1 53.00 6.00 Tm\n(inherited) Tj\n")
}

func TestGenerateFormDefaults(t *testing.T) {
	dict := widget(0, 0, 100, 20)
	dict["FT"] = types.Name("Tx")
	dict["V"] = str("ab")
	form := types.Dict{"DA": str("/Helv 10 Tf"), "Q": types.Integer(1)}
	a := NewAnnotation(memStore{}, form, dict, WithFonts(testFonts))
	require.NoError(t, a.GenerateFieldAppearance(dict, dict, form))
	assert.Contains(t, generated(t, a), "1 0 0 1 45.00 6.00 Tm\n")
}

func TestGenerateChoiceFields(t *testing.T) {
	list := widget(0, 0, 100, 35)
	list["FT"] = types.Name("Ch")
	list["DA"] = str("/Helv 10 Tf")
	list["Opt"] = types.Array{
		types.Array{str("e1"), str("First")},
		str("Second"),
		str("Third"),
	}
	list["V"] = types.Array{str("e1"), str("Third")}

	a := NewAnnotation(memStore{}, nil, list, WithFonts(testFonts))
	require.True(t, a.IsListBox())
	require.NoError(t, a.GenerateFieldAppearance(list, list, nil))
	out := generated(t, a)
	assert.Contains(t, out, "1 g\n(First) Tj")
	assert.Contains(t, out, "1 g\n(Third) Tj")
	assert.NotContains(t, out, "1 g\n(Second) Tj")
	assert.NotContains(t, out, "/Tx BMC")

	combo := widget(0, 0, 100, 20)
	combo["FT"] = types.Name("Ch")
	combo["Ff"] = types.Integer(fieldFlagCombo)
	combo["DA"] = str("/Helv 10 Tf")
	combo["V"] = str("Pick")
	a = NewAnnotation(memStore{}, nil, combo, WithFonts(testFonts))
	require.NoError(t, a.GenerateFieldAppearance(combo, combo, nil))
	out = generated(t, a)
	assert.True(t, strings.HasPrefix(out, "/Tx BMC\n"))
	assert.Contains(t, out, "(Pick) Tj")
}

func TestChoiceOptionsSingleValue(t *testing.T) {
	opt := types.Array{str("a"), str("b")}
	options, selection := choiceOptions(memStore{}, opt, str("b"))
	assert.Equal(t, []string{"a", "b"}, options)
	assert.Equal(t, []bool{false, true}, selection)

	_, selection = choiceOptions(memStore{}, opt, nil)
	assert.Equal(t, []bool{false, false}, selection)
}

func TestGenerateRejectsNonWidgets(t *testing.T) {
	link := types.Dict{"Subtype": types.Name("Link"), "Rect": nums(0, 0, 1, 1)}
	a := NewAnnotation(memStore{}, nil, link)
	assert.True(t, errors.Is(a.GenerateFieldAppearance(nil, link, nil), ErrNotWidget))

	invalid := types.Dict{"Subtype": types.Name("Widget")}
	a = NewAnnotation(memStore{}, nil, invalid)
	err := a.GenerateFieldAppearance(nil, invalid, nil)
	require.Error(t, err)
	assert.Equal(t, a.Err(), err)
	_, ok := a.Appearance()
	assert.False(t, ok)
}
