package fetch

import (
	"context"
	"os/exec"
	"strings"
)

const cmdSchemePrefix = "cmd://"

// fetchCmd strips the leading "cmd://", splits on the first "?" into a
// program and a single optional argument, and executes the program
// synchronously, capturing stdout as Bytes. The command is never
// shell-interpreted, and argument splitting beyond the first "?" is not
// performed: a second "?" stays part of the one argument.
func fetchCmd(ctx context.Context, url string) (*Result, error) {
	body := strings.TrimPrefix(url, cmdSchemePrefix)

	program := body
	var args []string
	if i := strings.IndexByte(body, '?'); i >= 0 {
		program = body[:i]
		args = []string{body[i+1:]}
	}

	cmd := exec.CommandContext(ctx, program, args...)
	out, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, err
		}
		// Non-zero exit status is not distinguished from success as long
		// as stdout is readable.
	}
	return &Result{Bytes: out, Hint: hint("console")}, nil
}
