package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/a3tai/mcp-pdf-annot/internal/config"
	"github.com/a3tai/mcp-pdf-annot/internal/descriptions"
	"github.com/a3tai/mcp-pdf-annot/internal/pdf"
	pdferrors "github.com/a3tai/mcp-pdf-annot/internal/pdf/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathParam := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
	)
	pageParam := mcp.WithNumber("page",
		mcp.Description("1-based page number; all pages when omitted"),
	)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_list_annotations",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_list_annotations")),
		pathParam,
		pageParam,
	), s.handleListAnnotations)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_generate_appearances",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_generate_appearances")),
		pathParam,
		pageParam,
		mcp.WithString("output",
			mcp.Description("PDF file to write the regenerated document to; nothing is written when omitted"),
		),
		mcp.WithBoolean("dirty_only",
			mcp.Description("Only rebuild appearances that are missing or stale"),
		),
	), s.handleGenerateAppearances)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_dump_appearances",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_dump_appearances")),
		pathParam,
		pageParam,
		mcp.WithBoolean("printing",
			mcp.Description("Apply print visibility instead of screen visibility"),
		),
		mcp.WithBoolean("regenerate",
			mcp.Description("Synthesize form field appearances before dumping"),
		),
	), s.handleDumpAppearances)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		pathParam,
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
	), s.handlePDFServerInfo)
}

// intArg reads an optional integer argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// Handler functions
func (s *Server) handleListAnnotations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := intArg(request.GetArguments(), "page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ListAnnotations(pdf.AnnotationsRequest{Path: path, Page: page})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatListAnnotations(result)), nil
}

func (s *Server) handleGenerateAppearances(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()
	page, err := intArg(args, "page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, _ := args["output"].(string)

	req := pdf.GenerateAppearancesRequest{
		Path:      path,
		Page:      page,
		Output:    output,
		DirtyOnly: boolArg(args, "dirty_only", s.config.DirtyOnly),
	}
	result, err := s.pdfService.RegenerateAppearances(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatGenerateAppearances(result)), nil
}

func (s *Server) handleDumpAppearances(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()
	page, err := intArg(args, "page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.DumpAppearancesRequest{
		Path:       path,
		Page:       page,
		Printing:   boolArg(args, "printing", false),
		Regenerate: boolArg(args, "regenerate", false),
	}
	result, err := s.pdfService.DumpAppearances(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatDumpAppearances(result)), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.PDFServerInfo(ctx, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatServerInfo(result)), nil
}

// Formatting functions. They are shared with the command line tool.

// FormatListAnnotations renders a listing as plain text.
func FormatListAnnotations(result *pdf.ListAnnotationsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Annotations of %s (%d pages", result.Path, result.Pages)
	if result.HasForm {
		b.WriteString(", interactive form")
	}
	b.WriteString(")\n")

	if len(result.Annotations) == 0 {
		b.WriteString("No annotations found\n")
	}
	for _, a := range result.Annotations {
		writeAnnotation(&b, a)
	}
	writeProblems(&b, result.Problems)
	return b.String()
}

func writeAnnotation(b *strings.Builder, a pdf.AnnotationInfo) {
	fmt.Fprintf(b, "\nPage %d #%d %s", a.Page, a.Index, a.Subtype)
	if a.Ref != "" {
		fmt.Fprintf(b, " (%s)", a.Ref)
	}
	b.WriteString("\n")
	if !a.Valid {
		fmt.Fprintf(b, "  INVALID: %s\n", a.Error)
		return
	}
	fmt.Fprintf(b, "  Rect: [%g %g %g %g]\n", a.Rect[0], a.Rect[1], a.Rect[2], a.Rect[3])
	if a.FieldType != "" {
		fmt.Fprintf(b, "  Field: %s, font size %g, appearance %s", a.FieldType, a.FontSize, a.Regen)
		if !a.HasAppearance {
			b.WriteString(" (missing)")
		}
		b.WriteString("\n")
	}
	if a.AppearanceState != "" {
		fmt.Fprintf(b, "  State: %s\n", a.AppearanceState)
	}
	if a.Flags != 0 {
		fmt.Fprintf(b, "  Flags: %d\n", a.Flags)
	}
	if a.Border != nil {
		fmt.Fprintf(b, "  Border: %s %g", a.Border.Style, a.Border.Width)
		if len(a.Border.Dash) > 0 {
			fmt.Fprintf(b, " dash %v", a.Border.Dash)
		}
		b.WriteString("\n")
	}
	if len(a.Color) > 0 {
		fmt.Fprintf(b, "  Color: %v\n", a.Color)
	}
	if a.Name != "" {
		fmt.Fprintf(b, "  Name: %s\n", a.Name)
	}
	if a.Modified != "" {
		fmt.Fprintf(b, "  Modified: %s\n", a.Modified)
	}
	if a.Contents != "" {
		fmt.Fprintf(b, "  Contents: %s\n", a.Contents)
	}
}

// FormatGenerateAppearances renders a regeneration report as plain text.
func FormatGenerateAppearances(result *pdf.GenerateAppearancesResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Appearances for %s\n", result.Path)
	fmt.Fprintf(&b, "Generated: %d\n", result.Generated)
	fmt.Fprintf(&b, "Skipped: %d\n", result.Skipped)
	if result.Output != "" {
		fmt.Fprintf(&b, "Written to: %s (%d stored)\n", result.Output, result.Stored)
	}
	for _, f := range result.Fields {
		fmt.Fprintf(&b, "  Page %d #%d %s field", f.Page, f.Index, f.FieldType)
		if f.Ref != "" {
			fmt.Fprintf(&b, " (%s)", f.Ref)
		}
		b.WriteString("\n")
	}
	writeProblems(&b, result.Problems)
	return b.String()
}

// FormatDumpAppearances renders the drawn appearance streams as plain text.
func FormatDumpAppearances(result *pdf.DumpAppearancesResult) string {
	var b strings.Builder
	target := "screen"
	if result.Printing {
		target = "printing"
	}
	fmt.Fprintf(&b, "Appearance streams of %s (%s)\n", result.Path, target)
	if len(result.Appearances) == 0 {
		b.WriteString("Nothing is drawn\n")
	}
	for _, d := range result.Appearances {
		fmt.Fprintf(&b, "\nPage %d #%d %s", d.Page, d.Index, d.Subtype)
		if d.Ref != "" {
			fmt.Fprintf(&b, " (%s)", d.Ref)
		}
		if d.Generated {
			b.WriteString(" [generated]")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Rect: [%g %g %g %g] BBox: %v\n", d.Rect[0], d.Rect[1], d.Rect[2], d.Rect[3], d.BBox)
		if d.Border != nil {
			fmt.Fprintf(&b, "  Border: %s %g\n", d.Border.Style, d.Border.Width)
		}
		b.WriteString(d.Content)
		if !strings.HasSuffix(d.Content, "\n") {
			b.WriteString("\n")
		}
	}
	writeProblems(&b, result.Problems)
	return b.String()
}

func writeProblems(b *strings.Builder, problems *pdferrors.ErrorCollection) {
	if problems == nil {
		return
	}
	errs, warns := problems.Count()
	if errs+warns == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", problems.Summary())
	for _, e := range append(problems.Errors, problems.Warnings...) {
		fmt.Fprintf(b, "  - %s\n", e.Error())
	}
}

func formatServerInfo(result *pdf.PDFServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found in default directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF annotation MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over streamable HTTP on the configured address
// until ctx is cancelled.
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	addr := s.config.Address()
	log.Printf("Starting PDF annotation MCP server on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		if err := httpServer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}
