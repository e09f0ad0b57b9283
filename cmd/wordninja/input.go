package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const maxLineBytes = 1 << 20

// inputs returns the texts a command should process: --text, else the
// positional arguments joined by spaces, else one text per stdin line.
func inputs(cmd *cobra.Command, text string, args []string) ([]string, error) {
	if text != "" {
		return []string{text}, nil
	}
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

// joinWords joins pieces with single spaces, dropping whitespace pieces.
func joinWords(pieces []string) string {
	words := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			words = append(words, p)
		}
	}
	return strings.Join(words, " ")
}
