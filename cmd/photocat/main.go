package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"photocat/internal/app"
	"photocat/internal/catalog"
	"photocat/internal/config"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnv reads PHOTOCAT_* overrides from a .env file in the working
// directory. A missing file is not an error; variables already set win.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// newApp reads the config and creates a PhotoApp. The caller must defer app.Close().
// command identifies the CLI command being run (e.g. "list", "trash").
func newApp(command string, args []string) (*app.PhotoApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewPhotoApp(cfg, command, strings.Join(args, " "))
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func printPhotos(photos []*catalog.Photo) {
	if len(photos) == 0 {
		fmt.Println("No photos found.")
		return
	}
	for _, p := range photos {
		camera := strings.TrimSpace(p.CameraBrand + " " + p.CameraModel)
		fmt.Printf("%s  %s  %5dx%-5d  %s\n",
			p.ID,
			p.EffectiveDate().Format("2006-01-02 15:04:05"),
			p.Width,
			p.Height,
			camera,
		)
	}
}

func printQuantities(qs []*catalog.Quantity) {
	if len(qs) == 0 {
		fmt.Println("No photos found.")
		return
	}
	for _, q := range qs {
		fmt.Printf("%-4s  %d\n", q.Label, q.Count)
	}
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", catalog.ErrInvalidInput, a)
		}
		out = append(out, n)
	}
	return out, nil
}

var rootCmd = &cobra.Command{
	Use:          "photocat",
	Short:        "Catalog a folder of photos",
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv()
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		collectionID, _ := cmd.Flags().GetString("collection-id")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		if collectionID == "" {
			collectionID = uuid.New().String()
		}

		cfg := config.NewConfig(collectionID, root, defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Collection ID:   %s\n", collectionID)
		fmt.Printf("Collection Root: %s\n", root)
		fmt.Printf("Cache Root:      %s\n", cfg.CacheRoot)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Collection ID:   %s\n", cfg.Collection.ID)
		fmt.Printf("Collection Name: %s\n", cfg.Collection.Name)
		fmt.Printf("Collection Root: %s\n", cfg.CollectionRoot)
		fmt.Printf("Cache Root:      %s\n", cfg.CacheRoot)
		fmt.Printf("Trash Dir:       %s\n", cfg.Filesystem.TrashDir)
		fmt.Printf("Log Dir:         %s (%s)\n", cfg.LogDir, cfg.LogLevel)
		fmt.Println("Dimensions:")
		for _, d := range cfg.Dimensions {
			crop := ""
			if d.Crop {
				crop = " crop"
			}
			fmt.Printf("  %-8s %dx%d%s\n", d.ID, d.Width, d.Height, crop)
		}
		return nil
	},
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("collections", args)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, c := range a.Collections() {
			fmt.Printf("%s  %s  %s\n", c.ID, c.Name, c.Description)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List photos",
	RunE: func(cmd *cobra.Command, args []string) error {
		var q app.ListQuery
		q.Limit, _ = cmd.Flags().GetInt("limit")
		q.Offset, _ = cmd.Flags().GetInt("offset")
		q.Sorts, _ = cmd.Flags().GetStringSlice("sort")
		q.From, _ = cmd.Flags().GetString("from")
		q.To, _ = cmd.Flags().GetString("to")
		q.AddedFrom, _ = cmd.Flags().GetString("added-from")
		q.AddedTo, _ = cmd.Flags().GetString("added-to")
		q.IDs, _ = cmd.Flags().GetStringSlice("id")

		a, err := newApp("list", args)
		if err != nil {
			return err
		}
		defer a.Close()

		photos, err := a.List(q)
		if err != nil {
			return err
		}
		printPhotos(photos)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get ID...",
	Short: "Show photos by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("get", args)
		if err != nil {
			return err
		}
		defer a.Close()

		photos, err := a.Get(args)
		if err != nil {
			return err
		}
		printPhotos(photos)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search TERM",
	Short: "Find photos by path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("search", args)
		if err != nil {
			return err
		}
		defer a.Close()

		photos, err := a.Search(args[0])
		if err != nil {
			return err
		}
		printPhotos(photos)
		return nil
	},
}

// trash command
var trashCmd = &cobra.Command{
	Use:   "trash ID",
	Short: "Move a photo to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("trash", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Trash(args[0]); err != nil {
			return err
		}
		fmt.Printf("Moved %s to trash\n", args[0])
		return nil
	},
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trashed photos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("trash-list", args)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Trashed()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Trash is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s\n", e.ID, e.RelativePath())
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore a photo from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("restore", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Restore(args[0]); err != nil {
			return err
		}
		fmt.Printf("Restored %s\n", args[0])
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "cache-path ID",
	Short: "Print where a rendition is cached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dim, _ := cmd.Flags().GetString("dim")

		a, err := newApp("cache-path", args)
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.CachePath(args[0], dim)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render ID",
	Short: "Produce a rendition and print its path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dim, _ := cmd.Flags().GetString("dim")

		a, err := newApp("render", args)
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.Render(args[0], dim)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count photos by date",
}

var statsYearCmd = &cobra.Command{
	Use:   "year",
	Short: "Photos per year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("stats-year", args)
		if err != nil {
			return err
		}
		defer a.Close()

		qs, err := a.YearStats()
		if err != nil {
			return err
		}
		printQuantities(qs)
		return nil
	},
}

var statsMonthCmd = &cobra.Command{
	Use:   "month YEAR",
	Short: "Photos per month of a year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args)
		if err != nil {
			return err
		}

		a, err := newApp("stats-month", args)
		if err != nil {
			return err
		}
		defer a.Close()

		qs, err := a.MonthStats(nums[0])
		if err != nil {
			return err
		}
		printQuantities(qs)
		return nil
	},
}

var statsDayCmd = &cobra.Command{
	Use:   "day YEAR MONTH",
	Short: "Photos per day of a month",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args)
		if err != nil {
			return err
		}

		a, err := newApp("stats-day", args)
		if err != nil {
			return err
		}
		defer a.Close()

		qs, err := a.DayStats(nums[0], nums[1])
		if err != nil {
			return err
		}
		printQuantities(qs)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("root", "", "Collection root directory")
	configInitCmd.Flags().String("collection-id", "", "Collection UUID (generated when empty)")
	configInitCmd.MarkFlagRequired("root")

	// trash subcommands
	trashCmd.AddCommand(trashListCmd)

	// stats subcommands
	statsCmd.AddCommand(statsYearCmd)
	statsCmd.AddCommand(statsMonthCmd)
	statsCmd.AddCommand(statsDayCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntP("limit", "n", 50, "Maximum number of photos to show")
	listCmd.Flags().Int("offset", 0, "Number of photos to skip")
	listCmd.Flags().StringSlice("sort", nil, "Sort criteria as field[:asc|desc], first is primary (photo_date, added_at, modified_at, camera_brand, id)")
	listCmd.Flags().String("from", "", "Earliest photo date (YYYY-MM-DD or RFC 3339)")
	listCmd.Flags().String("to", "", "Latest photo date (YYYY-MM-DD or RFC 3339)")
	listCmd.Flags().String("added-from", "", "Earliest catalog time")
	listCmd.Flags().String("added-to", "", "Latest catalog time")
	listCmd.Flags().StringSlice("id", nil, "Restrict to photo ids")
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(cachePathCmd)
	cachePathCmd.Flags().String("dim", "thumb", "Dimension id")
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("dim", "thumb", "Dimension id")
	rootCmd.AddCommand(statsCmd)
}
