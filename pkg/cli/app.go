package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	ucli "github.com/urfave/cli/v2"

	"github.com/Fepozopo/pixfx/pkg/fx"
)

// NewApp builds the pixfx command line. Settings come from cfg and can be
// overridden per invocation with flags.
func NewApp(cfg Config) *ucli.App {
	return &ucli.App{
		Name:      "pixfx",
		Usage:     "apply pixel effects to images",
		Version:   Version,
		ArgsUsage: "[image]",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "panic, fatal, error, warn, info, debug or trace"},
			&ucli.IntFlag{Name: "max-width", Value: cfg.MaxWidth, Usage: "viewport width images are fitted into"},
			&ucli.IntFlag{Name: "max-height", Value: cfg.MaxHeight, Usage: "viewport height images are fitted into"},
		},
		Before: func(c *ucli.Context) error {
			cfg.LogLevel = c.String("log-level")
			cfg.MaxWidth = c.Int("max-width")
			cfg.MaxHeight = c.Int("max-height")
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.ApplyLogging()
			ConfigurePreview(cfg)
			return nil
		},
		// With no command, an optional image path opens the interactive editor.
		Action: func(c *ucli.Context) error {
			return RunInteractive(cfg, c.Args().First())
		},
		Commands: []*ucli.Command{
			applyCommand(&cfg),
			effectsCommand(),
			{
				Name:      "interactive",
				Aliases:   []string{"i"},
				Usage:     "open the terminal editor",
				ArgsUsage: "[image]",
				Action: func(c *ucli.Context) error {
					return RunInteractive(cfg, c.Args().First())
				},
			},
			{
				Name:  "update",
				Usage: "check GitHub for a newer release",
				Action: func(*ucli.Context) error {
					return CheckForUpdates()
				},
			},
		},
	}
}

func applyCommand(cfg *Config) *ucli.Command {
	return &ucli.Command{
		Name:      "apply",
		Usage:     "apply one effect to one or more images",
		ArgsUsage: "<image>...",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "effect", Aliases: []string{"e"}, Required: true, Usage: "effect name, see 'pixfx effects'"},
			&ucli.Float64Flag{Name: "percent", Aliases: []string{"p"}, Value: 50, Usage: "strength 1-100"},
			&ucli.StringFlag{Name: "direction", Aliases: []string{"d"}, Value: "top_left", Usage: "emboss light direction"},
			&ucli.Float64Flag{Name: "radius", Usage: "blur radius in pixels, overrides --percent"},
			&ucli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (single input only)"},
			&ucli.StringFlag{Name: "out-dir", Value: cfg.OutputDir, Usage: "directory for outputs"},
			&ucli.BoolFlag{Name: "fit", Usage: "scale inputs down to the viewport first"},
			&ucli.IntFlag{Name: "workers", Aliases: []string{"j"}, Value: cfg.Workers, Usage: "images processed concurrently"},
			&ucli.StringFlag{Name: "cpuprofile", Usage: "write a CPU profile into this directory"},
		},
		Action: func(c *ucli.Context) error {
			if dir := c.String("cpuprofile"); dir != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
			}
			req, err := requestFromFlags(c)
			if err != nil {
				return err
			}
			jobs, err := PlanJobs(c.Args().Slice(), c.String("out"), c.String("out-dir"), req.Effect)
			if err != nil {
				return err
			}
			if dir := c.String("out-dir"); dir != "" && c.String("out") == "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			results, err := RunBatch(c.Context, req, jobs, BatchOptions{
				Workers:   c.Int("workers"),
				Fit:       c.Bool("fit"),
				MaxWidth:  cfg.MaxWidth,
				MaxHeight: cfg.MaxHeight,
			})
			for _, r := range results {
				fmt.Fprintf(c.App.Writer, "%s -> %s (%dx%d)\n", r.Input, r.Output, r.Width, r.Height)
			}
			if err != nil {
				return ucli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// requestFromFlags builds an EffectRequest; user percentages are clamped
// into 1..100.
func requestFromFlags(c *ucli.Context) (fx.EffectRequest, error) {
	e, err := fx.ParseEffect(c.String("effect"))
	if err != nil {
		return fx.EffectRequest{}, err
	}
	d, err := fx.ParseDirection(c.String("direction"))
	if err != nil {
		return fx.EffectRequest{}, err
	}
	req := fx.EffectRequest{
		Effect:    e,
		Percent:   fx.ClampPercent(c.Float64("percent")),
		Direction: d,
		Radius:    c.Float64("radius"),
	}
	log.WithField("request", fmt.Sprintf("%+v", req)).Debug("parsed flags")
	return req, req.Validate()
}

func effectsCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "effects",
		Usage: "list available effects",
		Action: func(c *ucli.Context) error {
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EFFECT\tUSAGE\tOUTPUT\tDESCRIPTION")
			for _, cmd := range fx.Commands {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cmd.Name, cmd.Usage, cmd.OutputName, cmd.Description)
			}
			return tw.Flush()
		},
	}
}

// Main loads configuration and runs the app with args.
func Main(ctx context.Context, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	return NewApp(cfg).RunContext(ctx, args)
}
