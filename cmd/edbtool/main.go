// edbtool is a CLI utility for inspecting and extracting EngineX EDB
// geometry databases.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Faultbox/eurogeo/internal/config"
	"github.com/Faultbox/eurogeo/internal/export"
	"github.com/Faultbox/eurogeo/internal/logger"
	"github.com/Faultbox/eurogeo/internal/triggers"
	"github.com/Faultbox/eurogeo/pkg/edb"
)

var (
	version = "dev"
	commit  = "none"
)

// cfg is loaded by the root command before any subcommand runs.
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

var rootCmd = &cobra.Command{
	Use:   "edbtool",
	Short: "Inspect and extract EngineX EDB geometry databases",
	Long: `edbtool reads the EDB container format used by EngineX games.

It can summarize a file's directory, dump every texture to standard image
formats, export maps (zones, placements, triggers) and entities as JSON,
and preview individual textures in a window.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Write logs to this file")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(texturesCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file and initializes logging; flag values override
// the file.
func setup(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if lf, _ := cmd.Flags().GetString("log-file"); lf != "" {
		cfg.Logging.LogFile = lf
	}

	return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info <file.edb>",
	Short: "Show file header and directory summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	f, err := edb.Open(args[0])
	if err != nil {
		return err
	}

	h := f.Header()
	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Hashcode:  0x%08x\n", h.Hashcode)
	fmt.Printf("Version:   %d\n", h.Version)
	fmt.Printf("Platform:  %s\n", h.Platform)
	fmt.Printf("Order:     %v\n", f.ByteOrder())
	fmt.Printf("Size:      %d bytes (header says %d)\n", f.Size(), h.FileSize)
	fmt.Printf("RefPtrs:   %d\n", f.RefPointerCount())
	fmt.Println()
	fmt.Println("Directory:")

	kinds := edb.DirectoryKinds(h.Version)
	sort.Slice(kinds, func(i, j int) bool {
		return h.Directory[kinds[i]].Address < h.Directory[kinds[j]].Address
	})
	for _, kind := range kinds {
		ptr := h.Directory[kind]
		fmt.Printf("  %-14s %6d records at 0x%08x\n", kind, ptr.Count, ptr.Address)
	}
	return nil
}

// textures command
var texturesCmd = &cobra.Command{
	Use:   "textures <file.edb>",
	Short: "Extract every texture frame as an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runTextures,
}

func init() {
	texturesCmd.Flags().StringP("output", "o", "", "Output directory (default: config export dir)")
	texturesCmd.Flags().String("format", "", "Image format: png, jpg, bmp (default: config)")
}

func runTextures(cmd *cobra.Command, args []string) error {
	f, err := edb.Open(args[0])
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output")
	if outDir == "" {
		outDir = filepath.Join(cfg.Export.OutputDir, "textures")
	}
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Export.ImageFormat
	}

	sum, err := export.Textures(f, outDir, format)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d frame(s) to %s", sum.Exported, outDir)
	if sum.Skipped > 0 {
		fmt.Printf(" (%d record(s) skipped)", sum.Skipped)
	}
	fmt.Println()
	return nil
}

// maps command
var mapsCmd = &cobra.Command{
	Use:   "maps <file.edb>",
	Short: "Export maps (zones, placements, triggers) as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaps,
}

func init() {
	mapsCmd.Flags().StringP("output", "o", "", "Output directory (default: config export dir)")
	mapsCmd.Flags().String("trigger-defs", "", "YAML file naming trigger types")
}

func runMaps(cmd *cobra.Command, args []string) error {
	f, err := edb.Open(args[0])
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output")
	if outDir == "" {
		outDir = filepath.Join(cfg.Export.OutputDir, "maps")
	}

	defsPath, _ := cmd.Flags().GetString("trigger-defs")
	if defsPath == "" {
		defsPath = cfg.Triggers.DefsPath
	}
	var defs *triggers.Defs
	if defsPath != "" {
		if defs, err = triggers.LoadDefs(defsPath); err != nil {
			return err
		}
	}

	sum, err := export.Maps(f, defs, outDir, cfg.Export.PrettyJSON)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d map(s) to %s", sum.Exported, outDir)
	if sum.Skipped > 0 {
		fmt.Printf(" (%d skipped)", sum.Skipped)
	}
	fmt.Println()
	return nil
}

// entities command
var entitiesCmd = &cobra.Command{
	Use:   "entities <file.edb>",
	Short: "Export entity records as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntities,
}

func init() {
	entitiesCmd.Flags().StringP("output", "o", "", "Output directory (default: config export dir)")
}

func runEntities(cmd *cobra.Command, args []string) error {
	f, err := edb.Open(args[0])
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output")
	if outDir == "" {
		outDir = filepath.Join(cfg.Export.OutputDir, "entities")
	}

	sum, err := export.Entities(f, outDir, cfg.Export.PrettyJSON)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d entity record(s) to %s", sum.Exported, outDir)
	if sum.Skipped > 0 {
		fmt.Printf(" (%d skipped)", sum.Skipped)
	}
	fmt.Println()
	return nil
}

// version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edbtool version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
	},
}
