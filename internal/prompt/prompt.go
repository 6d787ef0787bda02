// Package prompt asks the operator for the build variant and addresses.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/eugenenazirov/edgeconf/internal/propagate"
)

// ErrInvalidChoice is returned when the variant menu answer is neither 1 nor 2.
var ErrInvalidChoice = errors.New("invalid choice")

var variants = []string{propagate.VariantDebug, propagate.VariantRelease}

// Prompter reads answers line by line from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New constructs a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Variant shows the build menu and returns "debug" or "release".
func (p *Prompter) Variant(edgelessDir string) (string, error) {
	fmt.Fprintln(p.out, "Update EDGELESS files located in:")
	for i, v := range variants {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, path.Join(edgelessDir, "target", v))
	}

	choice, err := p.Ask("Insert an option")
	if err != nil {
		return "", err
	}
	switch choice {
	case "1":
		return variants[0], nil
	case "2":
		return variants[1], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
}

// NodeIP asks for the address of the node being configured.
func (p *Prompter) NodeIP() (string, error) {
	return p.Ask("Node IP address")
}

// ControllerIP asks for the shared controller/orchestrator address.
func (p *Prompter) ControllerIP() (string, error) {
	return p.Ask("Controller/Orchestrator IP address")
}

// Ask prints question and returns the trimmed answer. A final line without a
// trailing newline is accepted; end of input before any answer is an error.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read answer to %q: %w", question, err)
	}
	return strings.TrimSpace(line), nil
}
