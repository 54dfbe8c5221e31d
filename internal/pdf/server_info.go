package pdf

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/a3tai/mcp-pdf-annot/internal/descriptions"
)

// DirectoryCache keeps directory scan results for a fixed TTL.
type DirectoryCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

type cacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached files of path if they are still fresh.
func (c *DirectoryCache) Get(path string) ([]FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists || time.Since(entry.lastUpdate) > c.ttl {
		return nil, false
	}
	return entry.files, true
}

// Set stores directory contents in cache
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = cacheEntry{files: files, lastUpdate: time.Now()}
}

// Clear removes expired entries from cache
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for path, entry := range c.entries {
		if now.Sub(entry.lastUpdate) > c.ttl {
			delete(c.entries, path)
		}
	}
}

// DirectoryScanner finds PDF files below a directory within depth, count
// and time limits. Hidden entries and symlinks are skipped.
type DirectoryScanner struct {
	maxDepth  int
	fileLimit int
	timeLimit time.Duration
}

// NewDirectoryScanner creates a scanner; zero limits are unlimited.
func NewDirectoryScanner(maxDepth, fileLimit int, timeLimit time.Duration) *DirectoryScanner {
	return &DirectoryScanner{maxDepth: maxDepth, fileLimit: fileLimit, timeLimit: timeLimit}
}

// Scan walks root. It reports whether a limit cut the scan short.
func (s *DirectoryScanner) Scan(ctx context.Context, root string) ([]FileInfo, bool, error) {
	start := time.Now()
	files := []FileInfo{}
	truncated := false
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable entries are skipped.
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if s.timeLimit > 0 && time.Since(start) > s.timeLimit {
			truncated = true
			return filepath.SkipAll
		}

		if entry.IsDir() {
			depth := strings.Count(path, string(filepath.Separator)) - rootDepth
			if s.maxDepth > 0 && depth >= s.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Name:         entry.Name(),
			Path:         path,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		if s.fileLimit > 0 && len(files) >= s.fileLimit {
			truncated = true
			return filepath.SkipAll
		}
		return nil
	})
	return files, truncated, err
}

// PDFServerInfo assembles server information with a cached directory
// listing.
type PDFServerInfo struct {
	cache   *DirectoryCache
	scanner *DirectoryScanner
	service *Service
}

// NewPDFServerInfo creates a server info handler: five-minute cache, at most
// five levels, 100 files and three seconds per scan.
func NewPDFServerInfo(service *Service) *PDFServerInfo {
	return &PDFServerInfo{
		cache:   NewDirectoryCache(5 * time.Minute),
		scanner: NewDirectoryScanner(5, 100, 3*time.Second),
		service: service,
	}
}

// GetServerInfo describes the server and lists the PDFs of the configured
// directory. A failed scan yields an empty listing, not an error.
func (p *PDFServerInfo) GetServerInfo(ctx context.Context, serverName, version string) (*PDFServerInfoResult, error) {
	dir := p.service.pathValidator.Directory()

	files, ok := p.cache.Get(dir)
	if !ok {
		scanCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		var err error
		files, _, err = p.scanner.Scan(scanCtx, dir)
		if err != nil {
			p.service.logger.Printf("pdf: scanning %s: %v", dir, err)
			files = []FileInfo{}
		} else {
			p.cache.Set(dir, files)
		}
	}

	return &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       p.service.maxFileSize,
		AvailableTools:    availableTools(),
		DirectoryContents: files,
		UsageGuidance:     usageGuidance,
	}, nil
}

// ClearCache drops expired directory listings.
func (p *PDFServerInfo) ClearCache() {
	p.cache.Clear()
}

func availableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "pdf_list_annotations",
			Description: descriptions.GetToolDescription("pdf_list_annotations"),
			Usage:       "Inspect annotations and form widgets, their flags, borders and appearance state.",
			Parameters:  "path (required): PDF file, page (optional): 1-based page, all pages when omitted",
		},
		{
			Name:        "pdf_generate_appearances",
			Description: descriptions.GetToolDescription("pdf_generate_appearances"),
			Usage:       "Rebuild form field appearance streams and optionally write the result to a new file.",
			Parameters: "path (required): PDF file, page (optional), output (optional): .pdf file to write, " +
				"dirty_only (optional): only regenerate stale appearances",
		},
		{
			Name:        "pdf_dump_appearances",
			Description: descriptions.GetToolDescription("pdf_dump_appearances"),
			Usage:       "Show the decoded content streams drawn for each visible annotation.",
			Parameters: "path (required): PDF file, page (optional), printing (optional): apply print visibility, " +
				"regenerate (optional): synthesize form appearances first",
		},
		{
			Name:        "pdf_validate_file",
			Description: descriptions.GetToolDescription("pdf_validate_file"),
			Usage:       "Check that a file is a readable PDF before working on it.",
			Parameters:  "path (required): PDF file",
		},
		{
			Name:        "pdf_server_info",
			Description: descriptions.GetToolDescription("pdf_server_info"),
			Usage:       "Discover the configured directory and the available tools.",
			Parameters:  "none",
		},
	}
}

const usageGuidance = `PDF Annotation MCP Server Usage Guide:

1. DISCOVER: 'pdf_server_info' lists the PDFs of the configured directory.
2. VALIDATE: 'pdf_validate_file' before touching files of unknown origin.
3. INSPECT: 'pdf_list_annotations' shows every annotation; widgets marked
   "dirty" have a stale or missing appearance.
4. REPAIR: 'pdf_generate_appearances' with an output path writes a copy
   whose form fields display their values in every viewer.
5. REVIEW: 'pdf_dump_appearances' returns the drawing operators per widget.

IMPORTANT NOTES:
- Relative paths resolve against the configured directory
- Source files are never modified; regenerated documents go to 'output'
- Fonts are measured with the standard 14 font metrics; embedded font
  programs are not parsed`
