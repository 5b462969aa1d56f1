// SPDX-License-Identifier: EPL-2.0

// Package cli implements the audchan command line tool.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/formats/wav"
	"github.com/ik5/audchan/loader"
)

// state is shared by the root command and its children.
type state struct {
	v      *viper.Viper
	cfg    Config
	logger *slog.Logger
}

// RootCommand creates the audchan command tree.
func RootCommand() *cobra.Command {
	st := &state{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "audchan",
		Short:         "Fixed capacity audio channel manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	setupFlags(rootCmd.PersistentFlags())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(st.v, cmd.Flags())
		if err != nil {
			return err
		}
		logger, err := NewLogger(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		st.cfg = cfg
		st.logger = logger
		slog.SetDefault(logger)
		return nil
	}

	rootCmd.AddCommand(
		playCommand(st),
		shellCommand(st),
		inspectCommand(st),
	)
	return rootCmd
}

func playCommand(st *state) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "play <path>...",
		Short: "Play sounds and wait for them",
		Long: `Play each path in order. Paths whose last segment starts with "se_"
are sound effects, "bgm_" are music tracks.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := NewRuntime(st.cfg, st.logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			sh := NewShell(rt.Manager, cmd.OutOrStdout(), st.cfg.Fade)
			if err := sh.play(cmd.Context(), args); err != nil {
				return err
			}

			select {
			case <-time.After(wait):
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&wait, "wait", "w", 2*time.Second, "How long to keep playing before exiting")
	return cmd
}

func shellCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Read commands from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := NewRuntime(st.cfg, st.logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			prompt := false
			if f, ok := cmd.InOrStdin().(*os.File); ok {
				prompt = term.IsTerminal(int(f.Fd()))
			}

			sh := NewShell(rt.Manager, cmd.OutOrStdout(), st.cfg.Fade)
			return sh.Run(cmd.Context(), cmd.InOrStdin(), prompt)
		},
	}
}

func inspectCommand(st *state) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "inspect <key>",
		Short: "Decode an asset and describe it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := loader.NewDir(st.cfg.Assets,
				loader.WithFormat(audio.Format{SampleRate: st.cfg.SampleRate, Channels: 2}),
				loader.WithLogger(st.logger))
			defer dir.Close()

			clip, err := dir.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d Hz, %d channels, %d frames, %s\n",
				args[0], clip.SampleRate(), clip.Channels(), clip.Frames(), clip.Duration().Round(time.Millisecond))

			if out == "" {
				return nil
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := wav.Encode(f, clip); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", out, err)
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the decoded clip as a 16-bit WAV file")
	return cmd
}
