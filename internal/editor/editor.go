// Package editor hands scene prose to the user's text editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command resolves the editor invocation. A non-empty override (from the
// config file) wins over $EDITOR and $VISUAL. The result may carry
// arguments, e.g. "code --wait".
func Command(override string) []string {
	for _, e := range []string{override, os.Getenv("EDITOR"), os.Getenv("VISUAL")} {
		if f := strings.Fields(e); len(f) > 0 {
			return f
		}
	}
	return []string{"vi"}
}

func Open(override, path string) error {
	argv := Command(override)
	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", strings.Join(argv, " "), err)
	}
	return nil
}

// EditText writes text to a temporary markdown file, opens it in the editor
// and returns what the user saved.
func EditText(override, name, text string) (string, error) {
	f, err := os.CreateTemp("", "plotline-"+name+"-*.md")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := Open(override, path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited text: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
