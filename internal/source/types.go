package source

import "github.com/theirongolddev/spendchart/internal/model"

// DiscoveredFile represents a feed file found during directory scanning.
type DiscoveredFile struct {
	Path string
	Name string // file name without extension
}

// ParseResult holds the output of parsing a single feed file.
type ParseResult struct {
	Transactions []model.Transaction
	Records      int // records seen, including skipped ones
	ParseErrors  int // records skipped as malformed
	Err          error
}
