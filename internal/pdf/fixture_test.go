package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildPDF serializes objects 1..n with a classic cross-reference table.
// Object 1 must be the catalog.
func buildPDF(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func stream(dict, content string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(content), content)
}

// formObjects is a one-page form: a text field without appearance, a checked
// checkbox with on/off appearances and a sticky note. NeedAppearances is set.
func formObjects() []string {
	return []string{
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 7 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Annots [4 0 R 5 0 R 6 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (name) /V (Ada) /Rect [50 700 250 720] /F 4 /P 3 0 R /DA (/Helv 10 Tf 0 g) >>",
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (agree) /V /Yes /AS /Yes /Rect [50 650 70 670] /F 4 /P 3 0 R " +
			"/MK << /CA (4) >> /AP << /N << /Yes 8 0 R /Off 9 0 R >> >> >>",
		"<< /Type /Annot /Subtype /Text /Rect [300 700 320 720] /Contents (Check the name) /NM (note-1) /F 4 >>",
		"<< /Fields [4 0 R 5 0 R] /DA (/Helv 0 Tf 0 g) /NeedAppearances true " +
			"/DR << /Font << /Helv 10 0 R /ZaDb 11 0 R >> >> >>",
		stream("/Type /XObject /Subtype /Form /BBox [0 0 20 20]", "q 0 g BT /ZaDb 12 Tf 4 4 Td (4) Tj ET Q"),
		stream("/Type /XObject /Subtype /Form /BBox [0 0 20 20]", "% off"),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /ZapfDingbats >>",
	}
}

// plainObjects is a two-page document without a form. Page 2 carries a
// hidden link and an annotation with a broken rectangle.
func plainObjects() []string {
	return []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Annots [5 0 R 6 0 R 7 0 R] >>",
		"<< /Type /Annot /Subtype /Link /Rect [10 10 110 30] /Border [0 0 2 [3 1]] /AP << /N 8 0 R >> >>",
		"<< /Type /Annot /Subtype /Square /Rect [1 2 3] >>",
		"<< /Type /Annot /Subtype /Square /Rect [0 0 50 50] /F 2 /AP << /N 8 0 R >> >>",
		stream("/Type /XObject /Subtype /Form /BBox [0 0 100 20]", "0 0 1 RG 0 0 100 20 re S"),
	}
}

func writeFixture(t *testing.T, dir, name string, objects []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buildPDF(objects), 0o644))
	return path
}
