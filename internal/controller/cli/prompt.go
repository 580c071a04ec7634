package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"zip_compression/entity"
)

const (
	banner        = "++++++"
	sourcePrompt  = "Enter the path of the source file to compress:"
	destPrompt    = "Enter the destination path for the ZIP file:"
	methodPrompt  = "Choose a compression method:"
	methodMenu    = "1) Deflated  2) Stored  3) Bzip2  4) Zstd"
	invalidChoice = "Invalid choice, defaulting to Deflated."
)

// Prompter reads answers one line at a time. Prompts go to out, warnings to
// errOut.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func NewPrompter(in io.Reader, out, errOut io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, errOut: errOut}
}

// ReadLine prints each prompt line and returns the next input line with
// surrounding whitespace removed. End of input is not an error: whatever was
// read so far, possibly nothing, is returned.
func (p *Prompter) ReadLine(prompts ...string) (string, error) {
	for _, prompt := range prompts {
		fmt.Fprintln(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", entity.NewArchiveError(entity.ErrInputReadFailed, "", errors.Wrap(err, "reading standard input"))
	}
	return strings.TrimSpace(line), nil
}

// Collect runs the banner and the three prompts. An unknown method selector
// falls back to entity.DefaultMethod with a warning; it never fails the run.
func (p *Prompter) Collect() (entity.CompressionRequest, error) {
	fmt.Fprintln(p.out, banner)

	source, err := p.ReadLine(sourcePrompt)
	if err != nil {
		return entity.CompressionRequest{}, err
	}

	destination, err := p.ReadLine(destPrompt)
	if err != nil {
		return entity.CompressionRequest{}, err
	}

	choice, err := p.ReadLine(methodPrompt, methodMenu)
	if err != nil {
		return entity.CompressionRequest{}, err
	}

	method, ok := entity.ParseMethod(choice)
	if !ok {
		fmt.Fprintln(p.errOut, invalidChoice)
	}

	return entity.CompressionRequest{Source: source, Destination: destination, Method: method}, nil
}
