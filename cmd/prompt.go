// =============================================================================
// Excel to Tally XML - Interactive Prompts
// =============================================================================
//
// Reads the input file and output folder from the terminal when no flag,
// environment variable or config value supplied them, and pauses before
// exit so a double-clicked console window stays open.
//
// =============================================================================

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ginjaninja78/excel-to-tally-xml/pkg/utils"
)

// prompter asks the user for values the flags and config left empty.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{reader: bufio.NewReader(in), out: out}
}

// askPath prints question and reads one line. Surrounding whitespace and the
// quotes Windows adds to copied paths are removed. End of input without an
// answer returns an empty path.
func (p *prompter) askPath(question string) (string, error) {
	fmt.Fprint(p.out, question)

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return utils.CleanPathInput(line), nil
}

// isInteractive reports whether stdin is a console.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// waitForEnter blocks until a line (or end of input) is read from in.
func waitForEnter(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "\nPress Enter to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
