// Package stdinfeed detects whether stdin carries a piped list of changed
// files and reads it line by line. Grounded on the original
// implementation's stdin.rs (is_readable_stdin, read_from_stdin), adapted
// to Go's os.FileInfo mode bits in place of Rust's unix::fs::FileTypeExt.
package stdinfeed

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsReadable reports whether stdin looks like a pipe, FIFO, or regular
// file rather than an interactive terminal -- the heuristic used to decide
// whether changed files should be read from stdin instead of CLI args.
func IsReadable() bool {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return false
	}

	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	mode := info.Mode()
	return mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeSocket != 0
}

// ReadLines reads non-empty, trimmed lines from r until EOF.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
