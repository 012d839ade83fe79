package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// optionalBoolean records a boolean flag together with whether it was given,
// so an absent flag leaves the configuration file in charge.
type optionalBoolean struct {
	value bool
	set   bool
}

// pointer returns nil when the flag was not given.
func (option optionalBoolean) pointer() *bool {
	if !option.set {
		return nil
	}
	value := option.value
	return &value
}

type optionalBooleanFlagValue struct {
	target  *optionalBoolean
	flagKey string
}

func (value *optionalBooleanFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", booleanFlagInvalidValueErrorLabel, input)
	}
	parsed, err := parseBooleanLiteral(input)
	if err != nil {
		return fmt.Errorf("%w for --%s; accepted values: %s", err, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	value.target.value = parsed
	value.target.set = true
	return nil
}

func (value *optionalBooleanFlagValue) String() string {
	if value == nil || value.target == nil || !value.target.set {
		return ""
	}
	return strconv.FormatBool(value.target.value)
}

func (value *optionalBooleanFlagValue) Type() string {
	return booleanFlagTypeName
}

func parseBooleanLiteral(input string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return false, fmt.Errorf("%s %q", booleanFlagInvalidValueErrorLabel, input)
	}
	return parsed, nil
}

func registerOptionalBooleanFlag(flagSet *pflag.FlagSet, target *optionalBoolean, name string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = optionalBoolean{}
	flagSet.Var(&optionalBooleanFlagValue{target: target, flagKey: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments rewrites "--flag no" into "--flag=no" for
// boolean flags, which pflag would otherwise read as a positional argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if flagName, isLongFlag := strings.CutPrefix(currentArgument, "--"); isLongFlag && !strings.Contains(flagName, "=") && index+1 < len(arguments) {
			if _, exists := booleanFlags[flagName]; exists {
				if _, err := parseBooleanLiteral(arguments[index+1]); err == nil && !strings.HasPrefix(arguments[index+1], "-") {
					normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, arguments[index+1]))
					index++
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value != nil && flag.Value.Type() == booleanFlagTypeName && flag.NoOptDefVal != "" {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
