// Package cli wires the carcue commands: validate, eval, list and
// version. Each command loads settings and a cue document through
// pkg/config and reports through internal/cli/report.
package cli

import (
	"github.com/arthur-debert/carcue/internal/cli/report"
	"github.com/arthur-debert/carcue/internal/version"
	"github.com/arthur-debert/carcue/pkg/car"
	"github.com/arthur-debert/carcue/pkg/config"
	"github.com/arthur-debert/carcue/pkg/logging"
	"github.com/arthur-debert/carcue/pkg/rules"
	"github.com/arthur-debert/carcue/pkg/sounds"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "carcue",
		Short: "Select per-car audio cues from declarative rule trees",
		Long: `carcue compiles JSON or YAML cue documents into rule trees,
validates every rule and sound reference, and evaluates the trees per
car to decide which audio cues the car receives.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("carcue %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document>",
		Short: "Parse and validate a cue document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := report.NewWriter(cmd.OutOrStdout())

			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}

			reg, err := config.LoadDocument(args[0], settings)
			if err != nil {
				out.Failuref("✗ %s", err)
				return err
			}

			out.Successf("✓ %s is valid", args[0])
			out.Printf("  %d rules, %d sounds, %d known car types\n",
				len(reg.RuleNames()), len(reg.SoundNames()), len(reg.CarTypes()))
			return nil
		},
	}
}

func newEvalCmd() *cobra.Command {
	var (
		carType string
		carID   string
		skin    string
		root    string
		seed    int64
		draws   int
	)

	cmd := &cobra.Command{
		Use:   "eval <document>",
		Short: "Evaluate a cue document against one car",
		Long: `eval loads a cue document, applies the root rule to the given car
and prints the accumulated sound set. With --seed the random source is
deterministic; --draws repeats the evaluation to expose OneOf spread.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := report.NewWriter(cmd.OutOrStdout())

			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}

			reg, err := config.LoadDocument(args[0], settings)
			if err != nil {
				return err
			}

			if root == "" {
				root = settings.RootRule
			}

			var skins car.SkinProvider
			if skin != "" {
				label := skin
				skins = car.SkinFunc(func(string) (string, bool) {
					return label, true
				})
			}

			var engine *rules.Engine
			if cmd.Flags().Changed("seed") {
				engine = rules.NewSeededEngine(reg, skins, seed)
			} else {
				engine = rules.NewEngine(reg, skins)
			}

			subject := car.Info{CarType: carType, CarID: carID}
			for i := 0; i < draws; i++ {
				set := sounds.NewSet()
				if err := engine.Apply(root, subject, set); err != nil {
					return err
				}

				if draws > 1 {
					out.Headerf("draw %d", i+1)
				}
				if set.Len() == 0 {
					out.Printf("%s\n", out.Styled(report.Dim, "(no sounds selected)"))
					continue
				}
				rendered, err := set.Report()
				if err != nil {
					return err
				}
				out.Printf("%s", rendered)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&carType, "car-type", "", "Car type tag (e.g. DE6)")
	cmd.Flags().StringVar(&carID, "car-id", "", "Car identifier for skin lookups")
	cmd.Flags().StringVar(&skin, "skin", "", "Skin label to report for this car")
	cmd.Flags().StringVar(&root, "root", "", "Root rule name (default from settings)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed the random source for reproducible draws")
	cmd.Flags().IntVarP(&draws, "draws", "n", 1, "Number of evaluations to run")
	_ = cmd.MarkFlagRequired("car-type")

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <document>",
		Short: "List the named rules and sounds in a cue document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := report.NewWriter(cmd.OutOrStdout())

			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}

			reg, err := config.LoadDocument(args[0], settings)
			if err != nil {
				return err
			}

			out.Headerf("rules")
			for _, name := range reg.RuleNames() {
				out.Printf("  %s\n", out.Styled(report.Name, name))
			}

			out.Headerf("sounds")
			for _, name := range reg.SoundNames() {
				out.Printf("  %s\n", out.Styled(report.Name, name))
			}
			return nil
		},
	}
}
