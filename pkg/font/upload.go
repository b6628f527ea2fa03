package font

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds MaxUploadSize
	ErrFileTooLarge = errors.New("font file too large")
	// ErrEmptyFile is returned for a zero-length upload
	ErrEmptyFile = errors.New("font file is empty")
	// ErrInvalidFontFile is returned when neither extension nor MIME type is a font
	ErrInvalidFontFile = errors.New("not a font file")
)

var extFormats = map[string]Format{
	"woff2": FormatWOFF2,
	"woff":  FormatWOFF,
	"otf":   FormatOpenType,
	"ttf":   FormatTrueType,
	"eot":   FormatEOT,
}

var formatMIME = map[Format]string{
	FormatWOFF2:    "font/woff2",
	FormatWOFF:     "font/woff",
	FormatOpenType: "font/otf",
	FormatTrueType: "font/ttf",
	FormatEOT:      "application/vnd.ms-fontobject",
}

var validMIMETypes = []string{
	"font/woff2",
	"font/woff",
	"font/otf",
	"font/ttf",
	"application/font-woff2",
	"application/font-woff",
	"application/vnd.ms-fontobject",
	"application/x-font-ttf",
	"application/x-font-opentype",
}

var (
	separators = regexp.MustCompile(`[-_]`)
	camelCase  = regexp.MustCompile(`([a-z])([A-Z])`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Upload is a font file read into a data URL
type Upload struct {
	DataURL  string `json:"dataUrl"`
	Filename string `json:"filename"`
	Format   Format `json:"format"`
}

// FormatFromFilename maps a file extension to a font format, defaulting to truetype
func FormatFromFilename(filename string) Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if f, ok := extFormats[ext]; ok {
		return f
	}
	return FormatTrueType
}

// FormatFromDataURL guesses the format from a data URL's media type,
// defaulting to truetype.
func FormatFromDataURL(dataURL string) Format {
	header, _, _ := strings.Cut(dataURL, ",")
	switch {
	case strings.Contains(header, "woff2"):
		return FormatWOFF2
	case strings.Contains(header, "woff"):
		return FormatWOFF
	case strings.Contains(header, "opentype"), strings.Contains(header, "otf"):
		return FormatOpenType
	case strings.Contains(header, "truetype"), strings.Contains(header, "ttf"):
		return FormatTrueType
	default:
		return FormatTrueType
	}
}

// MIMEType returns the media type used when embedding a format
func MIMEType(f Format) string {
	if m, ok := formatMIME[f]; ok {
		return m
	}
	return "font/ttf"
}

// IsValidFontFile accepts a file whose MIME type or extension is a known font type
func IsValidFontFile(filename, mimeType string) bool {
	if slices.Contains(validMIMETypes, mimeType) {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	_, ok := extFormats[ext]
	return ok
}

// ExtractFontName turns a file name like "OpenSans-BoldItalic.ttf" into
// "Open Sans Bold Italic".
func ExtractFontName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = separators.ReplaceAllString(name, " ")
	name = camelCase.ReplaceAllString(name, "$1 $2")
	name = strings.TrimSpace(spaces.ReplaceAllString(name, " "))
	return cases.Title(language.Und).String(name)
}

// ReadFontFile reads a font binary into a base64 data URL
func ReadFontFile(r io.Reader, filename string) (Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return Upload{}, fmt.Errorf("failed to read font file: %w", err)
	}
	if len(data) == 0 {
		return Upload{}, ErrEmptyFile
	}
	if len(data) > MaxUploadSize {
		return Upload{}, ErrFileTooLarge
	}

	format := FormatFromFilename(filename)
	return Upload{
		DataURL:  "data:" + MIMEType(format) + ";base64," + base64.StdEncoding.EncodeToString(data),
		Filename: filename,
		Format:   format,
	}, nil
}
