// internal/words/io.go
//
// Reading and rendering equation lists.
//   - ReadFile/ReadLines: one equation per line; blank lines and "#" comments are skipped.
//   - WriteLines: plain listing, one equation per line.
//   - WriteTable: Go source literal so a universe can be embedded as a constant table.

package words

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadFile loads an equation list from path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines reads trimmed, non-comment lines from r.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WriteLines writes each equation of u on its own line.
func WriteLines(w io.Writer, u *Universe) error {
	bw := bufio.NewWriter(w)
	for _, eq := range u.words {
		if _, err := bw.WriteString(eq); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTable renders u as a Go source file declaring `var <name> = []string{...}`
// in package pkg.
func WriteTable(w io.Writer, pkg, name string, u *Universe) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "// Code generated by nerdle generate; DO NOT EDIT.\n\n")
	fmt.Fprintf(bw, "package %s\n\n", pkg)
	fmt.Fprintf(bw, "// %s holds the %d valid equations of length %d.\n", name, u.Len(), u.length)
	fmt.Fprintf(bw, "var %s = []string{\n", name)
	for _, eq := range u.words {
		fmt.Fprintf(bw, "\t%s,\n", strconv.Quote(eq))
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}
