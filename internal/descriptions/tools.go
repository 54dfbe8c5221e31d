package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	PDFListAnnotationsDescription = `List the annotations of a PDF page with their parsed properties.

**When to use:** Inspect what a page carries before touching it: form widgets, links, notes, their rectangles, flags, borders and colours.

**Why it's useful:** Shows which widgets have no appearance stream or a stale one, so you know whether a viewer will draw the form as filled in.

**Examples:**
• Audit a form: "List the annotations of page 1 of w9.pdf"
• Find broken entries: "Which annotations of contract.pdf are invalid?"

**Common workflows:**
1. Form repair: pdf_list_annotations → spot "dirty" widgets → pdf_generate_appearances
2. Review: pdf_list_annotations → read notes (Contents) and their authors

**Best practices:** Omit the page to list the whole document. Invalid annotations are reported under problems but kept in index order.`

	PDFGenerateAppearancesDescription = `Synthesize appearance streams for interactive form fields.

**When to use:** A form was filled programmatically (or has NeedAppearances set) and its field values do not show up in viewers or print.

**Why it's useful:** Builds the drawing of each text, choice, checkbox, radio and push button widget from its value, default appearance, border and MK colours, then optionally writes a new PDF.

**Examples:**
• Refresh a filled form: "Generate appearances for filled.pdf and write filled-fixed.pdf"
• Only repair stale fields: "Regenerate the dirty widgets of page 2 of order.pdf"

**Common workflows:**
1. Fill → pdf_generate_appearances (output) → distribute the flattened-looking file
2. pdf_generate_appearances without output → pdf_dump_appearances to review the result

**Best practices:** Output must be a .pdf path inside the configured directory; the source file is never modified.`

	PDFDumpAppearancesDescription = `Show the content streams a renderer would draw for each visible annotation.

**When to use:** Debug why a widget looks wrong, or check what a regenerated appearance contains.

**Why it's useful:** Applies the Hidden, Print and NoView flags exactly as a viewer would and returns the decoded drawing operators.

**Examples:**
• "Dump the appearances of page 1 of form.pdf for printing"
• "Regenerate and dump the appearances of survey.pdf"

**Best practices:** Set regenerate to see synthesized streams without writing a file.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before any annotation work, especially in automated workflows or when handling user uploads.

**Why it's useful:** Checks extension, size and structure with an independent parser, catching corrupted files early.

**Examples:**
• "Check uploaded application.pdf is valid before regenerating its form"

**Best practices:** Always run this first on files of unknown origin.`

	PDFServerInfoDescription = `Get server information, available tools, directory contents, and usage guidance.

**When to use:** At the start of a session to discover the configured directory and what the server can do.

**Best practices:** Use the listed paths with the other tools; relative paths resolve against the configured directory.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_list_annotations":     PDFListAnnotationsDescription,
	"pdf_generate_appearances": PDFGenerateAppearancesDescription,
	"pdf_dump_appearances":     PDFDumpAppearancesDescription,
	"pdf_validate_file":        PDFValidateFileDescription,
	"pdf_server_info":          PDFServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order.
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
