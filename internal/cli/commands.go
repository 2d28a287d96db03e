package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/arthur-debert/envrender/internal/version"
	"github.com/arthur-debert/envrender/pkg/commands"
	"github.com/arthur-debert/envrender/pkg/config"
	"github.com/arthur-debert/envrender/pkg/errors"
	"github.com/arthur-debert/envrender/pkg/logging"
	"github.com/arthur-debert/envrender/pkg/output"
	"github.com/arthur-debert/envrender/pkg/output/styles"
	"github.com/arthur-debert/envrender/pkg/paths"
	"github.com/arthur-debert/envrender/pkg/registry"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity    int
	allowMissing bool
	dryRun       bool
	root         string
	envFile      string
	format       string
}

// session is what every command needs after flags are parsed
type session struct {
	paths    *paths.Paths
	config   *config.Config
	bindings []registry.Binding
	printer  *output.Printer
}

// envFilePath is the absolute environment file for this session, with ~
// expanded and relative paths taken from the root
func (s *session) envFilePath() string {
	return s.paths.Resolve(s.config.EnvFile)
}

// reportedError marks an error that was already printed to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "envrender",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, cmd.ErrOrStderr())
			logger := logging.GetLogger("cli")
			logger.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	initTemplateFormatting()
	rootCmd.SetUsageTemplate(usageTemplate)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.allowMissing, "allow-missing", false, MsgFlagAllowMissing)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.root, "root", "", MsgFlagRoot)
	flags.StringVar(&opts.envFile, "env-file", "", MsgFlagEnvFile)
	flags.StringVar(&opts.format, "format", "", MsgFlagFormat)

	_ = rootCmd.MarkPersistentFlagDirname("root")
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newPlaceholdersCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newGuideCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// Run executes cmd and returns the process exit code. Errors that were not
// already reported by a command are printed to the command's error output.
func Run(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var r *reportedError
	if !stderrors.As(err, &r) {
		output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.FormatAuto).Error(err)
	}
	return 1
}

// newSession resolves the root, loads configuration and builds the printer
func newSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	logger := logging.GetLogger("cli")

	p, err := paths.New(opts.root)
	if err != nil {
		return nil, errors.Wrap(err, errors.GetErrorCode(err), MsgErrInitPaths).
			WithDetail("root", opts.root)
	}
	if info, statErr := os.Stat(p.Root()); statErr != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrNotFound, MsgErrRootMissing, p.Root()).
			WithDetail("root", p.Root())
	}
	if p.UsedFallback() {
		logger.Warn().
			Str("root", p.Root()).
			Msg("Not inside a git repository and ENVRENDER_ROOT is not set, using the current directory")
	}
	logger.Debug().Str("root", p.Root()).Str("source", string(p.Source())).Msg("Working root resolved")

	cfg, err := config.LoadWithOverrides(p.Root(), map[string]interface{}{
		"env_file":      opts.envFile,
		"output.format": opts.format,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.GetErrorCode(err), MsgErrLoadConfig)
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, MsgErrFormat).
			WithDetail("format", cfg.Output.Format)
	}

	// Always reload so a previous session's custom styles do not linger
	stylesFile := ""
	if cfg.Output.Styles != "" {
		stylesFile = p.Resolve(cfg.Output.Styles)
	}
	if err := styles.LoadStyles(stylesFile); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, MsgErrStyles).
			WithDetail("styles", stylesFile)
	}

	return &session{
		paths:    p,
		config:   cfg,
		bindings: registry.ListBindings(p.Root(), cfg.Bindings),
		printer:  output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), format),
	}, nil
}

func runRender(cmd *cobra.Command, opts *globalOptions) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}

	result, err := commands.Render(commands.RenderOptions{
		Root:         s.paths.Root(),
		EnvFile:      s.envFilePath(),
		Bindings:     s.bindings,
		AllowMissing: opts.allowMissing,
		DryRun:       opts.dryRun,
	})
	if printErr := s.printer.RenderResult(result); printErr != nil {
		return printErr
	}
	if err != nil {
		s.printer.Error(err)
		return reported(err)
	}
	return nil
}

func newPlaceholdersCmd(opts *globalOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: MsgPlaceholdersShort,
		Long:  MsgPlaceholdersLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			result, err := commands.ListPlaceholders(commands.ListOptions{
				EnvFile:  s.envFilePath(),
				Bindings: s.bindings,
			})
			if err != nil {
				return err
			}
			if err := s.printer.Placeholders(result); err != nil {
				return err
			}

			if unresolved := result.Unresolved(); strict && unresolved > 0 {
				err := errors.Newf(errors.ErrMissingVariables, MsgErrUnresolved, unresolved).
					WithDetail("unresolved", unresolved)
				s.printer.Error(err)
				return reported(err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				_, err := fmt.Fprint(out, config.DefaultsContent())
				return err
			}

			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			effective := *s.config
			if len(effective.Bindings) == 0 {
				for _, b := range s.bindings {
					effective.Bindings = append(effective.Bindings, config.BindingConfig{
						Template: b.Template,
						Output:   b.Output,
					})
				}
			}

			doc, err := effective.TOML()
			if err != nil {
				return err
			}

			if source := s.config.Source(); source != "" {
				fmt.Fprintf(out, MsgConfigSourceFormat, source)
			} else {
				fmt.Fprint(out, MsgConfigNoSource)
			}
			_, err = fmt.Fprint(out, doc)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newGuideCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: MsgGuideShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			s.printer.Markdown(MsgGuide)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}
