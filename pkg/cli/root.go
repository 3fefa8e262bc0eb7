// Package cli wires the reference command line around the status engine.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/registry"
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/status"
)

var (
	cfgFile string
	verbose bool

	graphPath string
	rulesPath string
	atIndex   int
	opinions  []string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yevamos",
	Short: "Yevamos - temporal halachic status engine over genealogical graphs",
	Long: `Yevamos evaluates relationship statuses (forbidden relations, levirate
bonds, opinion-dependent rulings) over a genealogical graph that evolves
through time slices.

Graphs and rule registries are plain YAML files; every query is taken at
a slice index, and disputed rules can be toggled per opinion profile.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("yevamos v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.yevamos/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&graphPath, "graph", "g", "", "timeline YAML file (required)")
	rootCmd.PersistentFlags().StringVarP(&rulesPath, "rules", "r", "", "rule registry YAML file (default: built-in rules)")
	rootCmd.PersistentFlags().IntVar(&atIndex, "at", -1, "slice index to query at (default: last slice)")
	rootCmd.PersistentFlags().StringArrayVarP(&opinions, "opinion", "o", nil, "opinion selection machlokas=opinion (repeatable)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("graph", rootCmd.PersistentFlags().Lookup("graph"))
	_ = viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.yevamos")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("YEVAMOS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadEngine builds an engine from the --graph and --rules flags, falling
// back to viper-resolved values, and resolves the effective query index.
func loadEngine() (*status.Engine, int, error) {
	gp := graphPath
	if gp == "" {
		gp = viper.GetString("graph")
	}
	if gp == "" {
		return nil, 0, fmt.Errorf("no graph file: pass --graph or set it in the config")
	}

	tl, err := graph.LoadTimeline(gp)
	if err != nil {
		return nil, 0, err
	}

	var reg *registry.Registry
	rp := rulesPath
	if rp == "" {
		rp = viper.GetString("rules")
	}
	if rp != "" {
		reg, err = registry.Load(rp)
		if err != nil {
			return nil, 0, err
		}
	}

	index := atIndex
	if index < 0 {
		index = tl.Len() - 1
	}
	if index < 0 {
		return nil, 0, fmt.Errorf("timeline %s has no slices", gp)
	}
	return status.New(tl, reg), index, nil
}

// parseProfile turns repeated machlokas=opinion flags into a profile.
func parseProfile() (registry.OpinionProfile, error) {
	if len(opinions) == 0 {
		return nil, nil
	}
	profile := registry.OpinionProfile{}
	for _, o := range opinions {
		k, v, ok := strings.Cut(o, "=")
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("invalid --opinion %q: expected machlokas=opinion", o)
		}
		profile[k] = v
	}
	return profile, nil
}
