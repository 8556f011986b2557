package app

// Mode selects how the formatter is invoked.
type Mode int

const (
	// ModeFix rewrites files in place. This is the default.
	ModeFix Mode = iota
	// ModeVerify dry-runs the formatter and then requires a clean working tree.
	ModeVerify
	// ModeRaw forwards arguments to the formatter with no discovery or filtering.
	ModeRaw
)

func (m Mode) String() string {
	switch m {
	case ModeVerify:
		return "verify"
	case ModeRaw:
		return "raw"
	default:
		return "fix"
	}
}

// Launcher flags. They are recognized anywhere in the argument list; anything
// else passes through verbatim to the formatter.
const (
	FlagVerify  = "-verify"
	FlagRaw     = "-raw"
	FlagVersion = "--version"
	FlagVerbose = "--verbose"
	FlagHelp    = "--help"
	FlagWatch   = "-watch"
)

// Invocation is the result of interpreting the raw argument list once per run.
type Invocation struct {
	Passthrough []string
	Mode        Mode
	Verbose     bool
	Help        bool
	Watch       bool
}

// ParseInvocation scans the raw arguments for launcher flags. A raw-mode or
// version-query flag wins over a verify flag; --version stays in the
// passthrough list so the formatter still sees it.
func ParseInvocation(args []string) Invocation {
	inv := Invocation{Mode: ModeFix}
	var verify, raw bool

	for _, arg := range args {
		switch arg {
		case FlagVerify:
			verify = true
		case FlagRaw:
			raw = true
		case FlagVersion:
			raw = true
			inv.Passthrough = append(inv.Passthrough, arg)
		case FlagVerbose:
			inv.Verbose = true
		case FlagHelp:
			inv.Help = true
		case FlagWatch:
			inv.Watch = true
		default:
			inv.Passthrough = append(inv.Passthrough, arg)
		}
	}

	switch {
	case raw:
		inv.Mode = ModeRaw
	case verify:
		inv.Mode = ModeVerify
	}
	return inv
}
