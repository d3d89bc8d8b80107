package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/anime-shed/kernel-forge/internal/config"
	"github.com/anime-shed/kernel-forge/internal/container"
	"github.com/anime-shed/kernel-forge/internal/logger"
	"github.com/anime-shed/kernel-forge/internal/strategy"
	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"github.com/anime-shed/kernel-forge/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// cliOptions holds the flags shared by every command
type cliOptions struct {
	jsonOutput  bool
	presetsFile string
	logLevel    string
	maxSize     int
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:          "kernelgen",
		Short:        "Generate convolution kernels",
		Long:         `Prints the coefficients of blur, gradient and sharpening kernels, or of named presets.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			gin.SetMode(gin.ReleaseMode)
			logger.SetLevel(opts.logLevel)
		},
	}

	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print the full response as JSON")
	root.PersistentFlags().StringVar(&opts.presetsFile, "presets", os.Getenv("PRESETS_FILE"), "YAML file with extra presets")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.maxSize, "max-size", config.Default().MaxKernelSize, "largest accepted kernel size")

	for _, kind := range kernel.Kinds() {
		root.AddCommand(newKindCmd(opts, kind))
	}
	root.AddCommand(newPresetCmd(opts), newListCmd(opts))

	return root
}

func newKindCmd(opts *cliOptions, kind kernel.Kind) *cobra.Command {
	var (
		size      int
		mode      string
		mu        float64
		std       float64
		normalize string
	)
	defaults := kernel.DefaultParams(kind)

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Generate a %s kernel", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.KernelRequest{Kind: string(kind), Mode: mode, Mu: mu, Normalize: normalize}
			if cmd.Flags().Changed("size") {
				req.Size = &size
			}
			if cmd.Flags().Changed("std") {
				req.Std = &std
			}
			return withService(cmd.Context(), opts, func(c *container.Container) error {
				resp, err := c.Service().Generate(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printKernel(cmd.OutOrStdout(), resp, opts.jsonOutput)
			})
		},
	}

	flags := cmd.Flags()
	if kind.Sized() {
		flags.IntVar(&size, "size", defaults.Size, "kernel width and height")
	}
	if kind.Oriented() {
		flags.StringVar(&mode, "mode", defaults.Mode.String(), "gradient orientation ("+strings.Join(kernel.ValidModes(), "|")+")")
	}
	if kind == kernel.KindGaussian {
		flags.Float64Var(&mu, "mu", defaults.Mu, "mean of the sampled normal density")
		flags.Float64Var(&std, "std", defaults.Std, "standard deviation, also the sampling half-width")
	}
	flags.StringVar(&normalize, "normalize", "", "post-processing ("+strings.Join(strategy.Names(), "|")+")")

	return cmd
}

func newPresetCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preset NAME",
		Short: "Generate a named preset kernel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), opts, func(c *container.Container) error {
				resp, err := c.Service().Preset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printKernel(cmd.OutOrStdout(), resp, opts.jsonOutput)
			})
		},
	}
}

func newListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), opts, func(c *container.Container) error {
				presets, err := c.Service().Presets(cmd.Context())
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), presets)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
				for _, p := range presets {
					fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Request.Kind, p.Description)
				}
				return w.Flush()
			})
		},
	}
}

// withService builds an in-memory container for a single command
func withService(ctx context.Context, opts *cliOptions, fn func(*container.Container) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	cfg.StorageType = config.StorageMemory
	cfg.PresetsFile = opts.presetsFile
	cfg.MaxKernelSize = opts.maxSize
	cfg.BatchWorkers = 1
	if err := cfg.Validate(); err != nil {
		return err
	}

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(c)
}

func printKernel(w io.Writer, resp *models.KernelResponse, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, resp)
	}
	_, err := fmt.Fprintln(w, resp.Text)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
