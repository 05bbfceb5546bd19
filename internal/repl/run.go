package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Options controls how Run reads input
type Options struct {
	Prompt      string
	HistoryFile string
	Interactive bool
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, kw := range []string{
		"CREATE DATABASE", "CREATE TABLE", "DROP DATABASE", "DROP TABLE", "TRUNCATE TABLE",
		"USE", "ALTER TABLE", "SELECT", "INSERT INTO", "UPDATE", "DELETE FROM",
		".databases", ".tables", ".schema", ".dump", ".save", ".load", ".help", "exit",
	} {
		items = append(items, readline.PcItem(kw))
	}
	return readline.NewPrefixCompleter(items...)
}

// Run feeds lines to the session until exit or end of input. Interactive
// sessions get line editing and history; piped input is read silently.
func Run(s *Session, in io.Reader, opts Options) error {
	if !opts.Interactive {
		return runPiped(s, in)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          opts.Prompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           io.NopCloser(in),
		Stdout:          s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(s.out, "ulin-sql shell. Type .help for commands, exit to quit")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		if s.Handle(line) {
			break
		}
	}
	fmt.Fprintln(s.out, "Goodbye!")
	return nil
}

func runPiped(s *Session, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if s.Handle(strings.TrimRight(scanner.Text(), "\r")) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
