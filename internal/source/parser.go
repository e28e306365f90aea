// Package source discovers and parses transaction feed files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/spendchart/internal/model"
)

// ParseFile reads a feed file. Both a JSON array of transactions and
// one-object-per-line JSONL are accepted.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	result := Parse(f)
	if result.Err != nil {
		result.Err = fmt.Errorf("parsing %s: %w", df.Path, result.Err)
	}
	return result
}

// Parse decodes a feed from r. Records that are not valid transactions
// (wrong field types, non-positive amount, time outside years 0001 to
// 9999) are counted and skipped; a syntax error in the surrounding array
// aborts the parse.
func Parse(r io.Reader) ParseResult {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{}
		}
		return ParseResult{Err: err}
	}

	if first == '[' {
		return parseArray(br)
	}
	return parseLines(br)
}

func parseArray(r io.Reader) ParseResult {
	var result ParseResult
	dec := json.NewDecoder(r)

	if _, err := dec.Token(); err != nil {
		result.Err = err
		return result
	}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			result.Err = err
			return result
		}
		result.add(raw)
	}
	if _, err := dec.Token(); err != nil {
		result.Err = err
	}
	return result
}

func parseLines(r io.Reader) ParseResult {
	var result ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		result.add(line)
	}
	if err := scanner.Err(); err != nil {
		result.Err = err
	}
	return result
}

func (r *ParseResult) add(raw []byte) {
	r.Records++
	var tx model.Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		r.ParseErrors++
		return
	}
	if tx.Amount <= 0 || !tx.ValidTime() {
		r.ParseErrors++
		return
	}
	r.Transactions = append(r.Transactions, tx)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// Encode writes txs as an indented JSON array feed.
func Encode(w io.Writer, txs []model.Transaction) error {
	if txs == nil {
		txs = []model.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(txs)
}
