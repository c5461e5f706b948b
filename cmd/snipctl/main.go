package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"snipdesk/internal/cli"
	"snipdesk/internal/client"
	"snipdesk/internal/highlight"
	"snipdesk/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides. Without --config a
// missing default file is not an error.
func loadConfig(cmd *cobra.Command) (*cli.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		p, err := cli.DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg, err := cli.ReadFromFile(path, !explicit)
	if err != nil {
		return nil, path, fmt.Errorf("reading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL, _ = flags.GetString("server")
	}
	if flags.Changed("token") {
		cfg.Token, _ = flags.GetString("token")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("capture-timeout") {
		cfg.CaptureTimeout, _ = flags.GetDuration("capture-timeout")
	}
	if flags.Changed("retries") {
		cfg.Retries, _ = flags.GetInt("retries")
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newApp builds the command pipeline against the configured server.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = zerolog.DebugLevel
	}
	log := logger.Component(logger.New(os.Stderr, nil), "snipctl").Level(level)

	cc := cfg.ClientConfig()
	cc.Log = log
	return cli.NewApp(client.New(cc), os.Stdin, cmd.OutOrStdout(), log), nil
}

var rootCmd = &cobra.Command{
	Use:          "snipctl",
	Short:        "Capture, annotate and organize snips against PDF folders",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults and any flags given",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			p, err := cli.DefaultConfigPath()
			if err != nil {
				return err
			}
			path = p
		}

		cfg := cli.DefaultConfig()
		if cmd.Flags().Changed("server") {
			cfg.ServerURL, _ = cmd.Flags().GetString("server")
		}
		if cmd.Flags().Changed("token") {
			cfg.Token, _ = cmd.Flags().GetString("token")
		}
		if err := cli.Init(path, cfg); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		token := "(none)"
		if cfg.Token != "" {
			token = "(set)"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", path)
		fmt.Fprintf(out, "Server:          %s\n", cfg.ServerURL)
		fmt.Fprintf(out, "Token:           %s\n", token)
		fmt.Fprintf(out, "Timeout:         %s\n", cfg.Timeout)
		fmt.Fprintf(out, "Capture timeout: %s\n", cfg.CaptureTimeout)
		fmt.Fprintf(out, "Retries:         %d\n", cfg.Retries)
		return nil
	},
}

// folders command
var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.ListFolders(cmd.Context())
	},
}

var foldersUploadCmd = &cobra.Command{
	Use:   "upload NAME PATH...",
	Short: "Upload PDFs, or directories of PDFs, as a new folder",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.UploadFolder(cmd.Context(), args[0], args[1:])
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a folder with its PDFs, snips and highlights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.DeleteFolder(cmd.Context(), args[0])
	},
}

// pdfs command
var pdfsCmd = &cobra.Command{
	Use:   "pdfs",
	Short: "Manage PDFs",
}

var pdfsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List PDFs of a folder, or of every folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.ListPDFs(cmd.Context(), folder)
	},
}

var pdfsUploadCmd = &cobra.Command{
	Use:   "upload PATH",
	Short: "Upload one PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.UploadPDF(cmd.Context(), folder, args[0])
	},
}

// snip command
var snipCmd = &cobra.Command{
	Use:   "snip",
	Short: "Capture a screenshot and save it to a folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts cli.SnipOptions
		opts.Folder, _ = cmd.Flags().GetString("folder")
		opts.Title, _ = cmd.Flags().GetString("title")
		opts.Description, _ = cmd.Flags().GetString("description")
		opts.Timestamp, _ = cmd.Flags().GetString("timestamp")
		opts.Copy, _ = cmd.Flags().GetBool("copy")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.Snip(cmd.Context(), opts)
	},
}

// snips command
var snipsCmd = &cobra.Command{
	Use:   "snips",
	Short: "Manage saved snips",
}

var snipsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the snips of a folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.ListSnips(cmd.Context(), folder)
	},
}

var snipsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a snip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.DeleteSnip(cmd.Context(), args[0])
	},
}

// highlights command
var highlightsCmd = &cobra.Command{
	Use:   "highlights",
	Short: "Manage PDF highlights",
}

var highlightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the highlights of a PDF positioned for a scroll offset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pdf, _ := cmd.Flags().GetString("pdf")
		scroll, _ := cmd.Flags().GetFloat64("scroll")
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.ListHighlights(cmd.Context(), pdf, scroll)
	},
}

var highlightsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a selection made at a scroll offset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pdf, _ := cmd.Flags().GetString("pdf")
		text, _ := cmd.Flags().GetString("text")
		scroll, _ := cmd.Flags().GetFloat64("scroll")
		raw, _ := cmd.Flags().GetStringArray("rect")

		rects := make([]highlight.Rect, 0, len(raw))
		for _, r := range raw {
			rect, err := cli.ParseRect(r)
			if err != nil {
				return err
			}
			rects = append(rects, rect)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.AddHighlight(cmd.Context(), pdf, text, rects, scroll)
	},
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Show a folder's PDFs and snips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.Gallery(cmd.Context(), folder)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity the server resolves from the token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.WhoAmI(cmd.Context())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ~/.config/snipdesk/snipctl.toml)")
	pf.String("server", "", "API base URL")
	pf.String("token", "", "Bearer token")
	pf.Duration("timeout", client.DefaultTimeout, "Request timeout")
	pf.Duration("capture-timeout", client.DefaultCaptureTimeout, "Timeout for a screen capture")
	pf.Int("retries", 1, "Retries for transient failures (0 or 1)")
	pf.BoolP("verbose", "v", false, "Log HTTP client diagnostics to stderr")

	// config command
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// folders command
	foldersCmd.AddCommand(foldersListCmd)
	foldersCmd.AddCommand(foldersUploadCmd)
	foldersCmd.AddCommand(foldersDeleteCmd)

	// pdfs command
	pdfsCmd.AddCommand(pdfsListCmd)
	pdfsCmd.AddCommand(pdfsUploadCmd)
	pdfsListCmd.Flags().StringP("folder", "f", "", "Folder name or id; empty lists every folder")
	pdfsUploadCmd.Flags().StringP("folder", "f", "", "Folder name; empty uses Unsorted")

	// snip command
	snipCmd.Flags().StringP("folder", "f", "", "Folder name or id")
	snipCmd.Flags().StringP("title", "t", "", "Title")
	snipCmd.Flags().StringP("description", "d", "", "Description")
	snipCmd.Flags().String("timestamp", "", "Capture time, YYYY-MM-DD HH:MM:SS (default now)")
	snipCmd.Flags().Bool("copy", false, "Copy the saved snip URL to the clipboard")

	// snips command
	snipsCmd.AddCommand(snipsListCmd)
	snipsCmd.AddCommand(snipsDeleteCmd)
	snipsListCmd.Flags().StringP("folder", "f", "", "Folder name or id")
	_ = snipsListCmd.MarkFlagRequired("folder")

	// highlights command
	highlightsCmd.AddCommand(highlightsListCmd)
	highlightsCmd.AddCommand(highlightsAddCmd)
	highlightsCmd.PersistentFlags().String("pdf", "", "PDF url")
	highlightsCmd.PersistentFlags().Float64("scroll", 0, "Viewer vertical scroll offset in pixels")
	_ = highlightsCmd.MarkPersistentFlagRequired("pdf")
	highlightsAddCmd.Flags().String("text", "", "Selected text")
	highlightsAddCmd.Flags().StringArray("rect", nil, "Selection line box left,top,width,height in viewport pixels; repeatable")
	_ = highlightsAddCmd.MarkFlagRequired("rect")

	galleryCmd.Flags().StringP("folder", "f", "", "Folder name or id")
	_ = galleryCmd.MarkFlagRequired("folder")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(pdfsCmd)
	rootCmd.AddCommand(snipCmd)
	rootCmd.AddCommand(snipsCmd)
	rootCmd.AddCommand(highlightsCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(whoamiCmd)
}
