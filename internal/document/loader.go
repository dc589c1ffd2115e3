// Package document loads the supporting document set passed to every
// section pipeline.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"profileforge/internal/llm"
	"profileforge/internal/logging"
)

// MaxTotalSize caps the combined size of the document set at 20MB.
const MaxTotalSize = 20 * 1024 * 1024

const pdfMIMEType = "application/pdf"

// Set is the ordered, immutable document collection shared read-only by all
// topic pipelines.
type Set struct {
	Parts     []llm.Part
	Filenames []string
}

func (s *Set) Count() int { return len(s.Parts) }

// Load reads every PDF in dir into a Set, in filename order. Non-PDF files
// are skipped with a warning, matching the upload contract.
func Load(dir string, log *logging.Logger) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			log.Warnw("skipping non-PDF file", "file", e.Name())
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no PDF documents found in %s", dir)
	}

	set := &Set{}
	total := 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", name, err)
		}
		total += len(data)
		if total > MaxTotalSize {
			return nil, fmt.Errorf("document set exceeds the %dMB limit", MaxTotalSize/(1024*1024))
		}
		set.Parts = append(set.Parts, llm.BlobPart(pdfMIMEType, data))
		set.Filenames = append(set.Filenames, name)
	}
	return set, nil
}

var companyPattern = regexp.MustCompile(`^([A-Za-z]+)`)

// CompanyName derives a company name from the leading alphabetic run of the
// document filenames. Generic report prefixes and the tool's own name are
// not candidates, so a previously generated profile dropped into the
// document folder cannot name the company.
func CompanyName(filenames []string) string {
	for _, fn := range filenames {
		match := companyPattern.FindString(filepath.Base(fn))
		if match == "" || strings.EqualFold(match, "monthly") || strings.EqualFold(match, "profileforge") {
			continue
		}
		return match
	}
	return "Unknown_Company"
}
