package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFeed creates a temp feed file and returns a DiscoveredFile for it.
func writeFeed(t *testing.T, name, content string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return discovered(path)
}

func TestParseFile_Array(t *testing.T) {
	df := writeFeed(t, "payments.json", `[
		{"name":"Pyaterochka","amount":1235,"category":"Продукты","time":1623096200},
		{"name":"Shell","amount":3000,"category":"Transport","time":1623180000}
	]`)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Transactions) != 2 {
		t.Fatalf("Transactions = %d, want 2", len(result.Transactions))
	}
	tx := result.Transactions[0]
	if tx.Name != "Pyaterochka" || tx.Amount != 1235 || tx.Category != "Продукты" || tx.Time != 1623096200 {
		t.Errorf("first transaction = %+v", tx)
	}
	if df.Name != "payments" {
		t.Errorf("Name = %q, want payments", df.Name)
	}
}

func TestParse_JSONLines(t *testing.T) {
	feed := strings.Join([]string{
		`{"name":"a","amount":10,"category":"x","time":1}`,
		``,
		`{"name":"b","amount":20,"category":"y","time":2}`,
	}, "\n")

	result := Parse(strings.NewReader(feed))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Transactions) != 2 || result.Records != 2 {
		t.Fatalf("Transactions = %d, Records = %d; want 2, 2", len(result.Transactions), result.Records)
	}
}

func TestParse_SkipsMalformedRecords(t *testing.T) {
	feed := `[
		{"name":"ok","amount":10,"category":"x","time":1},
		{"name":"bad type","amount":"ten","category":"x","time":1},
		{"name":"zero","amount":0,"category":"x","time":1},
		{"name":"negative","amount":-5,"category":"x","time":1},
		{"name":"far future","amount":5,"category":"x","time":4611686018427387904}
	]`

	result := Parse(strings.NewReader(feed))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Transactions) != 1 {
		t.Errorf("Transactions = %d, want 1", len(result.Transactions))
	}
	if result.ParseErrors != 4 {
		t.Errorf("ParseErrors = %d, want 4", result.ParseErrors)
	}
	if result.Records != 5 {
		t.Errorf("Records = %d, want 5", result.Records)
	}
}

func TestParse_SyntaxError(t *testing.T) {
	result := Parse(strings.NewReader(`[{"name":"a","amount":1,`))
	if result.Err == nil {
		t.Fatal("expected error for truncated array")
	}
}

func TestParse_Empty(t *testing.T) {
	result := Parse(strings.NewReader("  \n"))
	if result.Err != nil || len(result.Transactions) != 0 {
		t.Fatalf("empty feed = %+v", result)
	}
}

func TestEncode_RoundTripsThroughParse(t *testing.T) {
	in := Parse(strings.NewReader(`[{"name":"a","amount":7,"category":"c","time":86400}]`))
	var buf bytes.Buffer
	if err := Encode(&buf, in.Transactions); err != nil {
		t.Fatal(err)
	}
	out := Parse(&buf)
	if len(out.Transactions) != 1 || out.Transactions[0] != in.Transactions[0] {
		t.Fatalf("round trip = %+v, want %+v", out.Transactions, in.Transactions)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.jsonl", "notes.txt", ".hidden/c.json"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].Name != "a" || files[1].Name != "b" {
		t.Errorf("files = %+v, want a, b", files)
	}

	missing, err := ScanDir(filepath.Join(dir, "nope"))
	if err != nil || missing != nil {
		t.Errorf("missing dir = %v, %v; want nil, nil", missing, err)
	}

	single, err := ScanDir(filepath.Join(dir, "b.json"))
	if err != nil || len(single) != 1 {
		t.Errorf("single file = %v, %v", single, err)
	}
}
