// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/WXR-SEU/CtrlC-C/internal/app"
	"github.com/WXR-SEU/CtrlC-C/internal/config"
	"github.com/WXR-SEU/CtrlC-C/internal/normalize"
	"github.com/WXR-SEU/CtrlC-C/internal/pipeline"
	"github.com/WXR-SEU/CtrlC-C/internal/services/clipboard"
	"github.com/WXR-SEU/CtrlC-C/internal/utils"
)

const (
	configFlagName          = "config"
	stripBlankspaceFlagName = "strip-blankspace"
	stdinFlagName           = "stdin"
	globalFlagName          = "global"
	forceFlagName           = "force"
	versionTemplate         = "ctrlcc version: {{.Version}}\n"

	rootUse              = "ctrlcc"
	rootShortDescription = "flatten copied text with a double Ctrl+C"
	rootLongDescription  = `ctrlcc runs in the notification area and watches for Ctrl+C pressed twice within a second.
The copied text then has every line break replaced by a space, and with --strip-blankspace
all spaces, tabs and Unicode space separators are removed as well.`

	runUse              = "run"
	runShortDescription = "start the background utility (default)"

	normalizeUse              = "normalize"
	normalizeAlias            = "n"
	normalizeShortDescription = "normalize the clipboard once (" + normalizeAlias + ")"
	normalizeLongDescription  = `Normalize the current clipboard text immediately, or read text from standard input
and print the normalized result with --stdin.`
	normalizeUsageExample = `  # Flatten the clipboard now
  ctrlcc normalize

  # Flatten and remove all blankspace from piped text
  printf 'a b\nc' | ctrlcc normalize --stdin --strip-blankspace`

	initUse              = "init"
	initShortDescription = "write a default configuration file"

	configFlagDescription          = "configuration file to use instead of ./" + utils.ConfigFileName
	stripBlankspaceFlagDescription = "remove all blankspace in addition to line breaks"
	stdinFlagDescription           = "read text from standard input and write the result to standard output"
	globalFlagDescription          = "write the configuration under the home directory"
	forceFlagDescription           = "overwrite an existing configuration file"

	clipboardNormalizedMessage = "clipboard normalized"
	clipboardUnchangedMessage  = "clipboard already normalized"
	clipboardEmptyMessage      = "clipboard holds no text"
	configurationWrittenFormat = "configuration written to %s\n"
)

var errClipboardWriteFailed = errors.New("clipboard could not be updated")

// runtimeDependencies are the collaborators reached by the commands.
type runtimeDependencies struct {
	runApplication func(ctx context.Context, settings config.Settings, logger *zap.Logger) error
	newAccess      func() clipboard.Access
	newLogger      func(options utils.LoggerOptions) (*zap.Logger, error)
}

func defaultRuntimeDependencies() runtimeDependencies {
	return runtimeDependencies{
		runApplication: func(ctx context.Context, settings config.Settings, logger *zap.Logger) error {
			return app.New(settings, app.NewPlatformDependencies(logger), logger).Run(ctx)
		},
		newAccess: func() clipboard.Access {
			return clipboard.NewSystemAccess()
		},
		newLogger: utils.NewApplicationLogger,
	}
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath      string
	stripBlankspace optionalBoolean
}

func (options *globalOptions) settings() (config.Settings, error) {
	loaded, err := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if err != nil {
		return config.Settings{}, err
	}
	if override := options.stripBlankspace.pointer(); override != nil {
		loaded.StripBlankspace = override
	}
	return loaded.Resolve()
}

// Execute runs the ctrlcc application.
func Execute(ctx context.Context) error {
	rootCommand := createRootCommand(defaultRuntimeDependencies())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies runtimeDependencies) *cobra.Command {
	options := &globalOptions{}

	runApplication := func(command *cobra.Command, _ []string) error {
		settings, err := options.settings()
		if err != nil {
			return err
		}
		logger, err := dependencies.newLogger(utils.LoggerOptions{Level: settings.LogLevel, FilePath: settings.LogFile})
		if err != nil {
			return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
		}
		defer func() { _ = logger.Sync() }()
		return dependencies.runApplication(command.Context(), settings, logger)
	}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runApplication,
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerOptionalBooleanFlag(rootCommand.PersistentFlags(), &options.stripBlankspace, stripBlankspaceFlagName, stripBlankspaceFlagDescription)

	rootCommand.AddCommand(
		&cobra.Command{
			Use:   runUse,
			Short: runShortDescription,
			Args:  cobra.NoArgs,
			RunE:  runApplication,
		},
		createNormalizeCommand(options, dependencies),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createNormalizeCommand returns the normalize subcommand.
func createNormalizeCommand(options *globalOptions, dependencies runtimeDependencies) *cobra.Command {
	var fromStandardInput bool

	normalizeCommand := &cobra.Command{
		Use:     normalizeUse,
		Aliases: []string{normalizeAlias},
		Short:   normalizeShortDescription,
		Long:    normalizeLongDescription,
		Example: normalizeUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			settings, err := options.settings()
			if err != nil {
				return err
			}
			normalizeOptions := normalize.Options{StripBlankspace: settings.StripBlankspace}
			if fromStandardInput {
				return normalizeStream(command.InOrStdin(), command.OutOrStdout(), normalizeOptions)
			}
			return normalizeClipboard(command, settings, dependencies.newAccess())
		},
	}
	normalizeCommand.Flags().BoolVar(&fromStandardInput, stdinFlagName, false, stdinFlagDescription)
	return normalizeCommand
}

func normalizeStream(input io.Reader, output io.Writer, options normalize.Options) error {
	content, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}
	if _, err := io.WriteString(output, normalize.Apply(string(content), options)); err != nil {
		return fmt.Errorf("write standard output: %w", err)
	}
	return nil
}

func normalizeClipboard(command *cobra.Command, settings config.Settings, access clipboard.Access) error {
	channel := clipboard.NewChannel(access, settings.ClipboardRetry, nil)
	action := pipeline.NewAction(channel, pipeline.StaticOptions{StripBlankspace: settings.StripBlankspace}, 0, nil)
	switch action.Run(command.Context()) {
	case pipeline.OutcomeWritten:
		fmt.Fprintln(command.OutOrStdout(), clipboardNormalizedMessage)
	case pipeline.OutcomeUnchanged:
		fmt.Fprintln(command.OutOrStdout(), clipboardUnchangedMessage)
	case pipeline.OutcomeEmpty:
		fmt.Fprintln(command.OutOrStdout(), clipboardEmptyMessage)
	case pipeline.OutcomeWriteFailed:
		return errClipboardWriteFailed
	case pipeline.OutcomeCancelled:
		return context.Canceled
	}
	return nil
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, path)
			return err
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
