package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// LinkFlags holds the link overrides shared by dash, record, and doctor.
type LinkFlags struct {
	Type    string
	Peer    string
	Address string
}

// AddLinkFlags registers --link, --peer, and --address on a command.
func AddLinkFlags(cmd *cobra.Command, flags *LinkFlags) {
	cmd.Flags().AddFlagSet(linkFlagSet(flags))
	_ = cmd.RegisterFlagCompletionFunc("link", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return linkTypes, cobra.ShellCompDirectiveNoFileComp
	})
}

var linkTypes = []string{config.LinkSerial, config.LinkTCP, config.LinkSSH, config.LinkSim}

func linkFlagSet(flags *LinkFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("link", pflag.ContinueOnError)
	fs.StringVar(&flags.Type, "link", "", "link type: "+strings.Join(linkTypes, ", ")+" (default: link.type)")
	fs.StringVar(&flags.Peer, "peer", "", "peer name or address to connect to (default: link.peer)")
	fs.StringVar(&flags.Address, "address", "", "serial port, host:port, or ssh alias (default: link.address)")
	return fs
}

// Apply overrides the link config with any flags that were set.
func (f LinkFlags) Apply(link *config.LinkConfig) {
	if f.Type != "" {
		link.Type = strings.ToLower(f.Type)
	}
	if f.Peer != "" {
		link.Peer = f.Peer
	}
	if f.Address != "" {
		link.Address = f.Address
		if link.Type == config.LinkSerial {
			link.Address = config.ExpandPath(f.Address)
		}
	}
}

// ParseInterval parses a duration flag. Returns def if the flag is empty.
func ParseInterval(flag string, def time.Duration) (time.Duration, error) {
	if flag == "" {
		return def, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval must be positive, got %s", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return d, nil
}
