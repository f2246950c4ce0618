package launcher

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Options holds the launcher's command-line settings. Struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Daemon       bool   `short:"d" description:"Run the container in the background with an always-restart policy"`
	ExternalIP   string `short:"i" value-name:"IP" description:"Externally reachable IP address forwarded to the container"`
	ExternalPort string `short:"p" value-name:"PORT" description:"Externally reachable port forwarded to the container"`
}

// ParseOptions parses args (without the program name). When -h is given,
// usage is written to helpOut and help is true; the caller should exit 0
// without side effects. An unrecognized flag produces an error naming the
// offending flag.
func ParseOptions(args []string, helpOut io.Writer) (opts *Options, help bool, err error) {
	opts = &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[-h] [-d] [-i IP] [-p PORT]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) {
			switch fe.Type {
			case flags.ErrHelp:
				parser.WriteHelp(helpOut)
				return nil, true, nil
			case flags.ErrUnknownFlag:
				return nil, false, fmt.Errorf("unknown flag %s", redash(fe.Message))
			}
		}
		return nil, false, err
	}
	if len(rest) > 0 {
		return nil, false, fmt.Errorf("unexpected argument %q", rest[0])
	}
	return opts, false, nil
}

// redash recovers the flag name from a go-flags unknown-flag message and
// restores the leading dash(es) so the diagnostic names the flag exactly as
// the user typed it.
func redash(msg string) string {
	name := msg
	if i := strings.Index(name, "`"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "'")
	if len(name) == 1 {
		return "-" + name
	}
	return "--" + name
}
