package annot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawListBox(t *testing.T) {
	b := newTestBuilder(100, 35, nil)
	b.drawListBox([]string{"a", "b", "c", "d"}, []bool{false, true}, 0, "/Helv 10 Tf", QuadLeft)
	out := string(b.bytes())

	assert.True(t, strings.HasPrefix(out, "q\n0.00 0.00 100.00 35.00 re W n\n"))
	// rows = floor(35 / 11)
	assert.Contains(t, out, "(a) Tj")
	assert.Contains(t, out, "(c) Tj")
	assert.NotContains(t, out, "(d) Tj")
	assert.Equal(t, 1, strings.Count(out, "0 g f\n"))
	assert.Equal(t, 1, strings.Count(out, "1 g\n"))
	assert.Contains(t, out, "0.00 11.00 100.00 11.00 re f\n")
	assert.Contains(t, out, "/Helv 10 Tf 1 0 0 1 2.00 13.00 Tm\n1 g\n(b) Tj\n")
	assert.True(t, strings.HasSuffix(out, "Q\nQ\n"))
}

func TestDrawListBoxTopIndex(t *testing.T) {
	b := newTestBuilder(100, 35, nil)
	b.drawListBox([]string{"a", "b", "c", "d"}, nil, 2, "/Helv 10 Tf", QuadLeft)
	out := string(b.bytes())
	assert.NotContains(t, out, "(a) Tj")
	assert.Contains(t, out, "1 0 0 1 2.00 24.00 Tm\n(c) Tj")
	assert.Contains(t, out, "(d) Tj")

	b = newTestBuilder(100, 35, nil)
	b.drawListBox([]string{"a", "b"}, nil, 9, "/Helv 10 Tf", QuadLeft)
	assert.Contains(t, string(b.bytes()), "(a) Tj")
}

func TestDrawListBoxAutoSize(t *testing.T) {
	b := newTestBuilder(100, 30, nil)
	b.drawListBox([]string{"abcdefghij", "ab"}, nil, 0, "/Helv 0 Tf", QuadLeft)
	// floor(min(30, 96/5)) = 19, leaving room for one row
	out := string(b.bytes())
	assert.Contains(t, out, "/Helv 19.00 Tf")
	assert.NotContains(t, out, "(ab) Tj")
}

func TestDrawCircle(t *testing.T) {
	b := newTestBuilder(20, 20, nil)
	b.drawCircle(10, 10, 5, true)
	out := string(b.bytes())
	assert.True(t, strings.HasPrefix(out, "15.00 10.00 m\n"))
	assert.Equal(t, 4, strings.Count(out, " c\n"))
	assert.True(t, strings.HasSuffix(out, "f\n"))

	b = newTestBuilder(20, 20, nil)
	b.drawCircle(10, 10, 5, false)
	assert.True(t, strings.HasSuffix(string(b.bytes()), "s\n"))
}

func TestDrawHalfCircles(t *testing.T) {
	b := newTestBuilder(20, 20, nil)
	b.drawCircleTopLeft(10, 10, 10)
	b.drawCircleBottomRight(10, 10, 10)
	out := string(b.bytes())
	assert.Equal(t, 4, strings.Count(out, " c\n"))
	assert.Equal(t, 2, strings.Count(out, "S\n"))
	// r / sqrt(2) = 7.07
	assert.True(t, strings.HasPrefix(out, "17.07 17.07 m\n"))
	assert.Contains(t, out, "2.93 2.93 m\n")
}

func TestDrawRoundedRectClampsRadii(t *testing.T) {
	b := newTestBuilder(20, 10, nil)
	b.drawRoundedRect(0, 0, 20, 10, 50, 50)
	out := string(b.bytes())
	assert.True(t, strings.HasPrefix(out, "10.00 0.00 m\n10.00 0.00 l\n"))
	assert.True(t, strings.HasSuffix(out, "s\n"))
}
