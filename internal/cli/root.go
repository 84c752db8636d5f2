package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/dategif/internal/config"
	"github.com/ivlev/dategif/internal/engine"
	"github.com/ivlev/dategif/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dategif",
	Short: "Caption photos with their capture date and build a fading GIF slideshow",
	Long: `dategif reads the EXIF capture date of every .JPG photo in a folder,
burns a caption (file name, date, weekday, days since the reference date)
into a copy named annotated_<name>, and assembles the copies into a looping
output.gif with fade-in and fade-out frames.

Photos without a capture date are skipped.

Examples:
  dategif
  dategif --dir ~/Pictures/trip --frames 6
  dategif --config dategif.yaml --video slideshow.mp4`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
	RunE: runSlideshow,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] %v\n", err)
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().
		StringP("dir", "d", "", "Photo folder (default: the executable's folder)")
	rootCmd.PersistentFlags().
		StringP("output", "o", config.DefaultOutputGIF, "Animated GIF path, relative to --dir")
	rootCmd.PersistentFlags().
		String("video", "", "Also export an MP4 through ffmpeg to this path")
	rootCmd.PersistentFlags().
		IntP("frames", "n", config.DefaultFadeFrames, "Frames per fade-in and per fade-out")
	rootCmd.PersistentFlags().
		String("fade-mode", config.FadeBlack, "Fade counter-image: black, transparent, self")
	rootCmd.PersistentFlags().
		Bool("keep-listing-order", false, "Keep directory order instead of sorting by capture time")
	rootCmd.PersistentFlags().
		Int("workers", 0, "Frame quantization workers (default: number of CPUs)")
	rootCmd.PersistentFlags().
		Int("fps", config.DefaultFPS, "Frame rate of the MP4 export")
}

func runSlideshow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project, err := engine.NewSlideshowProject(cfg, logger)
	if err != nil {
		return err
	}

	res, err := project.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "[+++] %d photos, %d frames: %s\n", len(res.Artifacts), res.Frames, res.GIFPath)
	if res.VideoPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "[+++] video: %s\n", res.VideoPath)
	}
	return nil
}

// loadConfig applies, in order: defaults, the YAML file, explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.InputDir, _ = flags.GetString("dir")
	}
	if flags.Changed("output") {
		cfg.OutputGIF, _ = flags.GetString("output")
	}
	if flags.Changed("video") {
		cfg.OutputVideo, _ = flags.GetString("video")
	}
	if flags.Changed("frames") {
		cfg.FadeFrames, _ = flags.GetInt("frames")
	}
	if flags.Changed("fade-mode") {
		cfg.FadeMode, _ = flags.GetString("fade-mode")
	}
	if flags.Changed("keep-listing-order") {
		cfg.KeepListingOrder, _ = flags.GetBool("keep-listing-order")
	}
	if w, _ := flags.GetInt("workers"); flags.Changed("workers") && w > 0 {
		cfg.Workers = w
	}
	if flags.Changed("fps") {
		cfg.FPS, _ = flags.GetInt("fps")
	}

	if cfg.InputDir == "" {
		cfg.InputDir = executableDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// executableDir is where the photos live when no folder is given.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
