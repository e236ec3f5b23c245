package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/snset/internal/config"
	"github.com/conn-castle/snset/internal/credentials"
	"github.com/conn-castle/snset/internal/messages"
	"github.com/conn-castle/snset/internal/pipeline"
	"github.com/conn-castle/snset/internal/prompt"
	"github.com/conn-castle/snset/internal/servicenow"
	"github.com/conn-castle/snset/internal/spreadsheet"
)

// Seams for tests.
var (
	lookupEnv        = os.LookupEnv
	writeSpreadsheet = spreadsheet.Write
	newConfirmer     = func() prompt.Confirmer { return prompt.NewHuhConfirmer() }
)

// ErrOverwriteDeclined is returned when the user refuses to replace the output file.
var ErrOverwriteDeclined = errors.New(messages.RunOverwriteDeclined)

type rootOptions struct {
	source     string
	target     string
	fileName   string
	configPath string
	envFile    string
	force      bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.source, "source", "s", "", messages.FlagSource)
	flags.StringVarP(&opts.target, "target", "t", "", messages.FlagTarget)
	flags.StringVarP(&opts.fileName, "file-name", "f", spreadsheet.DefaultFileName, messages.FlagFileName)
	flags.StringVarP(&opts.configPath, "config", "c", "", messages.FlagConfig)
	flags.StringVar(&opts.envFile, "env-file", ".env", messages.FlagEnvFile)
	flags.BoolVar(&opts.force, "force", false, messages.FlagForce)
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, messages.FlagQuiet)
	flags.BoolP("version", "v", false, messages.RootVersionFlag)
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// runCompare validates everything it can before the first request, then runs
// the pipeline and writes the spreadsheet.
func runCompare(cmd *cobra.Command, opts rootOptions) error {
	out := cmd.OutOrStdout()
	progress := out
	if opts.quiet {
		progress = io.Discard
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	creds, err := credentials.Load(credentials.Source{
		Lookup:      lookupEnv,
		EnvFile:     opts.envFile,
		UserEnv:     cfg.Credentials.UserEnv,
		PasswordEnv: cfg.Credentials.PasswordEnv,
	})
	if err != nil {
		return err
	}

	client := servicenow.NewClient(servicenow.Options{
		Instances:       cfg.ServiceNow.Instances,
		BaseURL:         cfg.ServiceNow.BaseURL,
		Credentials:     creds,
		HTTPClient:      &http.Client{Timeout: cfg.ServiceNow.Timeout()},
		TimestampLayout: cfg.ServiceNow.TimestampLayout,
		Log:             cmd.ErrOrStderr(),
	})
	for _, instance := range []string{opts.source, opts.target} {
		if err := client.ValidateInstance(instance); err != nil {
			return err
		}
	}

	if err := confirmOverwrite(opts); err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), client, pipeline.Request{Source: opts.source, Target: opts.target}, progress)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(progress, messages.RunOutputBegin)
	records := result.Records()
	path, err := writeSpreadsheet(records, opts.fileName)
	if err != nil {
		return fmt.Errorf(messages.RunWriteFailedFmt, err)
	}
	_, _ = fmt.Fprintf(progress, messages.RunWroteFmt, len(records), path)
	_, _ = color.New(color.FgGreen).Fprintln(out, messages.RunSuccess)
	return nil
}

// confirmOverwrite asks before replacing an existing output file. Without
// a terminal, or with --force, the file is replaced silently.
func confirmOverwrite(opts rootOptions) error {
	if opts.force {
		return nil
	}
	path, err := spreadsheet.Path(opts.fileName)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	confirmer := newConfirmer()
	if !confirmer.Interactive() {
		return nil
	}
	ok, err := confirmer.Confirm(fmt.Sprintf(messages.RunOverwritePromptFmt, path), false)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOverwriteDeclined
	}
	return nil
}
