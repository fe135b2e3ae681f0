package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdinName = "-"

// source is one document read from a file or stdin.
type source struct {
	Name string
	Mode os.FileMode
	Text string
}

func (s source) isStdin() bool {
	return s.Name == stdinName
}

// readSources reads every named file, or stdin when no names are given.
func readSources(cmd *cobra.Command, names []string) ([]source, error) {
	if len(names) == 0 {
		names = []string{stdinName}
	}

	sources := make([]source, 0, len(names))
	for _, name := range names {
		src, err := readSource(cmd.InOrStdin(), name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func readSource(stdin io.Reader, name string) (source, error) {
	if name == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return source{}, fmt.Errorf("reading stdin: %w", err)
		}
		return source{Name: name, Text: string(data)}, nil
	}

	info, err := os.Stat(name)
	if err != nil {
		return source{}, fmt.Errorf("reading file %s: %w", name, err)
	}
	if info.IsDir() {
		return source{}, fmt.Errorf("reading file %s: is a directory", name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return source{}, fmt.Errorf("reading file %s: %w", name, err)
	}
	return source{Name: name, Mode: info.Mode().Perm(), Text: string(data)}, nil
}

// writeFile replaces the contents of a file, keeping its permissions.
func writeFile(name string, mode os.FileMode, text string) error {
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(name, []byte(text), mode); err != nil {
		return fmt.Errorf("writing file %s: %w", name, err)
	}
	return nil
}
