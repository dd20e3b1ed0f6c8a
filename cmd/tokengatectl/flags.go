package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	MintKey            = "mint"
	CallerKey          = "caller"
	MintAuthorityKey   = "mint-authority"
	FreezeAuthorityKey = "freeze-authority"
	SourceKey          = "source"
	DestinationKey     = "destination"
	AccountKey         = "account"
	AuthorityKey       = "authority"
	AmountKey          = "amount"
	MetricsFileKey     = "metrics-file"
)

var errUsage = errors.New("usage: tokengatectl <status|pause|unpause|initialize|issue|destroy|move|freeze|unfreeze> --mint <id> [flags]")

// requiredFlags lists, per command, the flags that must be set. --mint is
// required everywhere.
var requiredFlags = map[string][]string{
	"status":     nil,
	"pause":      {CallerKey},
	"unpause":    {CallerKey},
	"initialize": {CallerKey, MintAuthorityKey, FreezeAuthorityKey, DestinationKey},
	"issue":      {DestinationKey, AuthorityKey, AmountKey},
	"destroy":    {SourceKey, AuthorityKey, AmountKey},
	"move":       {SourceKey, DestinationKey, AuthorityKey, AmountKey},
	"freeze":     {AccountKey, AuthorityKey},
	"unfreeze":   {AccountKey, AuthorityKey},
}

type Config struct {
	Command         string
	Mint            string
	Caller          string
	MintAuthority   string
	FreezeAuthority string
	Source          string
	Destination     string
	Account         string
	Authority       string
	Amount          uint64
	MetricsFile     string
}

func AddFlags(flags *pflag.FlagSet) {
	flags.String(MintKey, "", "Base58 identity of the controlled asset")
	flags.String(CallerKey, "", "Base58 identity of the authenticated operator; the admin for initialize")
	flags.String(MintAuthorityKey, "", "Base58 identity allowed to issue new supply (initialize)")
	flags.String(FreezeAuthorityKey, "", "Base58 identity allowed to freeze accounts (initialize)")
	flags.String(SourceKey, "", "Base58 identity of the debited token account")
	flags.String(DestinationKey, "", "Base58 identity of the credited token account")
	flags.String(AccountKey, "", "Base58 identity of the token account to freeze or unfreeze")
	flags.String(AuthorityKey, "", "Base58 identity of the authority for the operation")
	flags.Uint64(AmountKey, 0, "Amount in base units")
	flags.String(MetricsFileKey, "", "Write gate metrics in text format to this file")
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() != 1 {
		return nil, errUsage
	}

	values := make(map[string]string)
	for _, key := range []string{MintKey, CallerKey, MintAuthorityKey, FreezeAuthorityKey, SourceKey, DestinationKey, AccountKey, AuthorityKey, MetricsFileKey} {
		value, err := flags.GetString(key)
		if err != nil {
			return nil, err
		}
		values[key] = strings.TrimSpace(value)
	}
	amount, err := flags.GetUint64(AmountKey)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Command:         strings.ToLower(flags.Arg(0)),
		Mint:            values[MintKey],
		Caller:          values[CallerKey],
		MintAuthority:   values[MintAuthorityKey],
		FreezeAuthority: values[FreezeAuthorityKey],
		Source:          values[SourceKey],
		Destination:     values[DestinationKey],
		Account:         values[AccountKey],
		Authority:       values[AuthorityKey],
		Amount:          amount,
		MetricsFile:     values[MetricsFileKey],
	}
	required, ok := requiredFlags[cfg.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command %q: %w", cfg.Command, errUsage)
	}
	if cfg.Mint == "" {
		return nil, fmt.Errorf("--%s is required", MintKey)
	}
	for _, key := range required {
		missing := values[key] == ""
		if key == AmountKey {
			missing = !flags.Changed(AmountKey)
		}
		if missing {
			return nil, fmt.Errorf("--%s is required for %s", key, cfg.Command)
		}
	}
	return cfg, nil
}
