package auto_approval

import (
	"fmt"
	"io"
	"os"

	"github.com/sethvargo/go-githubactions"
)

// stdOutWriter routes workflow commands through the configured StdOut.
type stdOutWriter struct {
	out StdOut
}

func (w stdOutWriter) Write(p []byte) (int, error) {
	w.out.Printf("%s", p)
	return len(p), nil
}

func newAction(out StdOut, getenv githubactions.GetenvFunc) *githubactions.Action {
	var w io.Writer = stdOutWriter{out: out}
	if getenv == nil {
		getenv = os.Getenv
	}
	return githubactions.New(githubactions.WithWriter(w), githubactions.WithGetenv(getenv))
}

func (k *Config) action() *githubactions.Action {
	if k.actions == nil {
		k.actions = newAction(k.Output, nil)
	}
	return k.actions
}

func (k *Config) warning(format string, a ...any) {
	k.action().Warningf(format, a...)
}

func (k *Config) notice(format string, a ...any) {
	k.action().Noticef(format, a...)
}

type RealStdOut struct{}

func (c *RealStdOut) Printf(format string, a ...any) {
	fmt.Fprintf(os.Stdout, format, a...)
}

func (c *RealStdOut) Println(a ...any) {
	fmt.Fprintln(os.Stdout, a...)
}
