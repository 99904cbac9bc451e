// =============================================================================
// Transcript Parser - Text Extraction
// =============================================================================
//
// Turns an input document into the raw text the scanner consumes. Extraction
// is the only stage of the pipeline that can fail hard: a file that cannot be
// read or decoded produces an *ExtractionError, never a partial document.
//
// SUPPORTED INPUTS:
//   | Extension      | Reader                                            |
//   |----------------|---------------------------------------------------|
//   | .pdf           | tabula, pages joined in reading order             |
//   | .txt, .text    | os.ReadFile, decoded from the configured encoding |
//
// ENCODINGS (text files only):
//   UTF-8 (default), ISO-8859-1 and Windows-1252. Registrar exports from
//   older systems are frequently Windows-1252.
//
// =============================================================================

package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/transcript-parser/internal/config"
	"github.com/rs/zerolog"
	"github.com/tsawler/tabula"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// =============================================================================
// ERRORS
// =============================================================================

// Stage names the step of extraction that failed.
type Stage string

const (
	StageStat        Stage = "stat"
	StageOpen        Stage = "open"
	StageDecode      Stage = "decode"
	StageExtract     Stage = "extract"
	StageUnsupported Stage = "unsupported"
)

// ErrUnsupportedType is wrapped by ExtractionError for unknown extensions.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrTooLarge is wrapped by ExtractionError when a file exceeds the
// configured size limit.
var ErrTooLarge = errors.New("file exceeds maximum size")

// ExtractionError reports a hard failure to obtain text from a file.
type ExtractionError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the text of one document.
type Result struct {
	// Text is the raw document text, before line normalization.
	Text string

	// Source is "pdf" or "text".
	Source string

	// ExtractionWarnings counts the non-fatal problems the PDF reader
	// reported (unreadable glyphs, damaged objects). These are about the
	// file, not the transcript, and are kept apart from parser warnings.
	ExtractionWarnings int
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor reads documents according to the extraction settings.
type Extractor struct {
	settings config.ExtractionSettings
	logger   zerolog.Logger
}

// New creates an Extractor.
func New(settings config.ExtractionSettings, logger zerolog.Logger) *Extractor {
	return &Extractor{settings: settings, logger: logger}
}

// Supported reports whether the file extension has a reader.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".text":
		return true
	}
	return false
}

// Extract returns the text of the document at path.
//
// PARAMETERS:
//   - ctx: checked before the file is opened; PDF extraction itself is not
//     interruptible.
//   - path: the input document.
//
// RETURNS:
//   - The extracted text and its source kind.
//   - An *ExtractionError on any failure.
func (e *Extractor) Extract(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExtractionError{Path: path, Stage: StageOpen, Err: err}
	}

	if !Supported(path) {
		return nil, &ExtractionError{
			Path:  path,
			Stage: StageUnsupported,
			Err:   fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(path)),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Stage: StageStat, Err: err}
	}
	if info.IsDir() {
		return nil, &ExtractionError{Path: path, Stage: StageStat, Err: errors.New("is a directory")}
	}
	if limit := e.settings.MaxFileSize; limit > 0 && info.Size() > limit {
		return nil, &ExtractionError{
			Path:  path,
			Stage: StageStat,
			Err:   fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, info.Size(), limit),
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return e.extractPDF(path)
	}
	return e.extractText(path)
}

// extractPDF runs tabula over every page.
func (e *Extractor) extractPDF(path string) (*Result, error) {
	ex := tabula.Open(path)
	if e.settings.ExcludeHeaders {
		ex = ex.ExcludeHeaders()
	}
	if e.settings.ExcludeFooters {
		ex = ex.ExcludeFooters()
	}

	text, warnings, err := ex.Text()
	if err != nil {
		return nil, &ExtractionError{Path: path, Stage: StageExtract, Err: err}
	}

	for _, w := range warnings {
		e.logger.Debug().Str("file", path).Str("pdf_warning", w.Message).Msg("pdf reader warning")
	}

	return &Result{Text: text, Source: "pdf", ExtractionWarnings: len(warnings)}, nil
}

// extractText reads a plain-text export and decodes it to UTF-8.
func (e *Extractor) extractText(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Stage: StageOpen, Err: err}
	}

	text, err := Decode(data, e.settings.Encoding)
	if err != nil {
		return nil, &ExtractionError{Path: path, Stage: StageDecode, Err: err}
	}

	return &Result{Text: text, Source: "text"}, nil
}

// =============================================================================
// DECODING
// =============================================================================

// Decode converts bytes in the named encoding to a UTF-8 string. UTF-8 input
// must be valid; a leading byte order mark is dropped.
func Decode(data []byte, name string) (string, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	if enc == nil {
		if !utf8.Valid(data) {
			return "", errors.New("input is not valid UTF-8")
		}
		return strings.TrimPrefix(string(data), "\ufeff"), nil
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}

// lookupEncoding maps a configured name to a decoder. A nil encoding means
// the input is already UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	canonical, ok := config.CanonicalEncoding(name)
	if !ok {
		return nil, fmt.Errorf("unsupported encoding: %q", name)
	}

	switch canonical {
	case config.EncodingUTF8:
		return nil, nil
	case config.EncodingISO88591:
		return charmap.ISO8859_1, nil
	case config.EncodingWindows1252:
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("no decoder for encoding %q", canonical)
}

// KnownEncoding reports whether Decode accepts the encoding name.
func KnownEncoding(name string) bool {
	_, err := lookupEncoding(name)
	return err == nil
}
