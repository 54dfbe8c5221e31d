package mcp

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/a3tai/mcp-pdf-annot/internal/config"
	"github.com/a3tai/mcp-pdf-annot/internal/pdf"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// buildPDF serializes objects 1..n with a classic cross-reference table.
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

// formPDF has a text field without appearance and an unchecked checkbox.
var formPDF = []string{
	"<< /Type /Catalog /Pages 2 0 R /AcroForm 6 0 R >>",
	"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
	"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Annots [4 0 R 5 0 R] >>",
	"<< /Type /Annot /Subtype /Widget /FT /Tx /T (city) /V (Paris) /Rect [50 700 250 720] /F 4 /DA (/Helv 12 Tf 0 g) >>",
	"<< /Type /Annot /Subtype /Widget /FT /Btn /T (subscribe) /V /Off /AS /Off /Rect [50 650 70 670] /F 4 /MK << /CA (8) >> >>",
	"<< /Fields [4 0 R 5 0 R] /DA (/Helv 0 Tf 0 g) /DR << /Font << /Helv 7 0 R /ZaDb 8 0 R >> >> >>",
	"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	"<< /Type /Font /Subtype /Type1 /BaseFont /ZapfDingbats >>",
}

type testEnv struct {
	dir    string
	server *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "form.pdf"), buildPDF(formPDF), 0o644))

	cfg := config.DefaultConfig()
	cfg.PDFDirectory = dir
	cfg.ServerName = "test-server"
	cfg.Version = "1.0.0"

	svc, err := pdf.NewService(cfg.MaxFileSize, dir, nil)
	require.NoError(t, err)
	server, err := NewServer(cfg, svc)
	require.NoError(t, err)
	return &testEnv{dir: dir, server: server}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

// extractTextFromResult returns the first text content of a tool result.
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}
	return ""
}
