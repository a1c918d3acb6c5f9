package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// confirm asks question on out and reads the answer from in. Only "y" or
// "yes" agree; end of input declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s %s ", StyleWarning.Render(question), StyleDim.Render("[y/N]"))
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// errDeclined is returned when the user answers no to a confirmation.
var errDeclined = errors.New(errors.ErrCodeInvalidInput, "aborted")
