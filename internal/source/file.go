package source

import (
	"path/filepath"
	"slices"
)

// FileID identifies a file inside one FileSet. IDs start at 1.
type FileID uint32

// NoFileID is the file of spans that point nowhere (timings, run-level findings).
const NoFileID FileID = 0

// FileFlags describe where file content came from.
type FileFlags uint8

// FileVirtual marks content rendered in memory (fixtures, tests) rather than read from disk.
const FileVirtual FileFlags = 1

// File is one registered source: rendered declaration text plus its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n' in Content.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}

func indexLines(content []byte) []uint32 {
	var idx []uint32
	for i, c := range content {
		if c == '\n' {
			idx = append(idx, uint32(i))
		}
	}
	return idx
}

// position maps a byte offset to its line and column.
func (f *File) position(off uint32) LineCol {
	// число переводов строки строго до off
	line, _ := slices.BinarySearch(f.LineIdx, off)
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	return LineCol{Line: uint32(line) + 1, Col: off - f.LineIdx[line-1]}
}

// GetLine returns line n (1-based) without its newline, or "" when n is out of range.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start, end := 0, len(f.Content)
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
