package annot

// Flags is the annotation flag bitfield (F entry).
type Flags uint32

const (
	FlagInvisible      Flags = 1 << 0
	FlagHidden         Flags = 1 << 1
	FlagPrint          Flags = 1 << 2
	FlagNoZoom         Flags = 1 << 3
	FlagNoRotate       Flags = 1 << 4
	FlagNoView         Flags = 1 << 5
	FlagReadOnly       Flags = 1 << 6
	FlagLocked         Flags = 1 << 7
	FlagToggleNoView   Flags = 1 << 8
	FlagLockedContents Flags = 1 << 9
)

// Has reports whether every bit of mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Field flags (Ff entry) consulted during appearance generation.
const (
	fieldFlagMultiline  = 1 << 12
	fieldFlagPassword   = 1 << 13
	fieldFlagRadio      = 1 << 15
	fieldFlagPushbutton = 1 << 16
	fieldFlagCombo      = 1 << 17
	fieldFlagComb       = 1 << 24
)

// Quadding is the horizontal alignment of variable text.
type Quadding int

const (
	QuadLeft Quadding = iota
	QuadCenter
	QuadRight
)

// RegenState tracks whether the annotation's appearance reflects its field.
//
// Construction sets RegenDirty when the form requests NeedAppearances for a
// variable-text widget or the widget has no appearance at all; MarkDirty sets
// it after a value change. A successful appearance generation sets RegenClean.
type RegenState int

const (
	RegenClean RegenState = iota
	RegenDirty
)

func (s RegenState) String() string {
	if s == RegenDirty {
		return "dirty"
	}
	return "clean"
}
