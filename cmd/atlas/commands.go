package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/atlas/internal/app"
	"github.com/five82/atlas/internal/render"
	"github.com/five82/atlas/internal/restcountries"
)

const detailsWidth = 80

type rootFlags struct {
	configPath string
	prefsPath  string
	verbose    bool
	output     string
}

func (f *rootFlags) appOptions() app.Options {
	return app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		Verbose:    f.verbose,
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "atlas",
		Short:         "Explore countries from the REST Countries API",
		Long:          "atlas lists, searches and describes countries. Without a subcommand it starts the interactive terminal UI.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.appOptions())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/atlas/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/atlas/prefs.toml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		listCmd(flags),
		searchCmd(flags),
		showCmd(flags),
		favoritesCmd(flags),
	)
	return root
}

func addOutputFlag(cmd *cobra.Command, flags *rootFlags) {
	cmd.Flags().StringVarP(&flags.output, "output", "o", string(render.FormatTable), "output format: table, json or yaml")
}

// withServices opens the application services for one command and closes
// them afterwards.
func withServices(flags *rootFlags, fn func(svc *app.Services, format render.Format) error) error {
	format, err := render.ParseFormat(flags.output)
	if err != nil {
		return err
	}
	svc, err := app.Open(flags.appOptions(), false)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc, format)
}

func listCmd(flags *rootFlags) *cobra.Command {
	var regionName string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all countries, optionally filtered by region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := restcountries.ParseRegion(regionName)
			if err != nil {
				return err
			}
			return withServices(flags, func(svc *app.Services, format render.Format) error {
				countries, err := svc.ListCountries(cmd.Context(), region)
				if err != nil {
					return err
				}
				return render.Countries(cmd.OutOrStdout(), format, countries, "No countries found")
			})
		},
	}
	cmd.Flags().StringVarP(&regionName, "region", "r", "", "Africa, Americas, Asia, Europe or Oceania")
	addOutputFlag(cmd, flags)
	return cmd
}

func searchCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search countries by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withServices(flags, func(svc *app.Services, format render.Format) error {
				countries, err := svc.Search(cmd.Context(), text)
				if err != nil {
					return err
				}
				return render.Countries(cmd.OutOrStdout(), format, countries, "No countries found matching your search")
			})
		},
	}
	addOutputFlag(cmd, flags)
	return cmd
}

func showCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <code>",
		Short: "Show details for a country by its two or three letter code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(flags, func(svc *app.Services, format render.Format) error {
				country, borders, err := svc.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return render.Details(cmd.OutOrStdout(), format, country, borders, detailsWidth)
			})
		},
	}
	addOutputFlag(cmd, flags)
	return cmd
}

func favoritesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite countries",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favorite countries in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(flags, func(svc *app.Services, format render.Format) error {
				return render.Countries(cmd.OutOrStdout(), format, svc.Favorites.List(), "No favorite countries yet")
			})
		},
	}
	addOutputFlag(list, flags)

	toggle := &cobra.Command{
		Use:   "toggle <code>",
		Short: "Add a country to favorites, or remove it if already present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(flags, func(svc *app.Services, _ render.Format) error {
				country, added, err := svc.ToggleFavorite(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				verb := "Removed %s (%s) from favorites\n"
				if added {
					verb = "Added %s (%s) to favorites\n"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), verb, country.Name.Common, country.CCA3)
				return err
			})
		},
	}

	cmd.AddCommand(list, toggle)
	return cmd
}
