package commands

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hltools-dev/hltools/internal/buildinfo"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print hltools and hledger versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(w, "hltools %s\n", buildinfo.String()); err != nil {
				return err
			}

			v, err := a.hledger("").Version(cmd.Context())
			if err != nil {
				v = "not available (" + err.Error() + ")"
			}
			_, err = fmt.Fprintf(w, "hledger: %s\n", v)
			return err
		},
	}
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// shellJoin renders args as a command line a POSIX shell would split back
// into the same words.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if shellSafe.MatchString(arg) {
			quoted[i] = arg
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}
