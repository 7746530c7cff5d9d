package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sourced/internal/common/fsutil"
	"sourced/pkg/types"
)

// Config carries the persistent flags shared by every command.
type Config struct {
	Server  string
	Output  string
	LogLvl  string
	Timeout time.Duration
}

func (c *Config) client() *Client {
	cl := NewClient(c.Server)
	if c.Timeout > 0 {
		cl.HTTP.Timeout = c.Timeout
	}
	return cl
}

// buildRootCmdWith constructs the command tree. Results are written to out.
func buildRootCmdWith(cfg *Config, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "sourcectl",
		Short:         "Inspect and drive a sourced daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Server, "server", cfg.Server, "Daemon base URL (defaults SOURCECTL_SERVER or http://127.0.0.1:8080)")
	pf.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text|json")
	pf.StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults SOURCECTL_LOG_LEVEL or warn)")
	pf.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP timeout per request")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		SetLogLevel(cfg.LogLvl)
		switch cfg.Output {
		case "text", "json":
			return nil
		default:
			return fmt.Errorf("unknown output format %q: want text or json", cfg.Output)
		}
	}
	p := func() printer { return printer{w: out, json: cfg.Output == "json"} }

	root.AddCommand(sourcesCmd(cfg, p), sinksCmd(cfg, p))

	root.AddCommand(&cobra.Command{
		Use:     "broadcast <source> <type> [key=value ...]",
		Short:   "Broadcast an event through a source",
		Example: "  sourcectl broadcast main-window click x=10 y=20",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseData(args[2:])
			if err != nil {
				return err
			}
			res, err := cfg.client().Broadcast(cmd.Context(), args[0], types.Event{Type: args[1], Data: data})
			if err != nil {
				return err
			}
			return p().result(res)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "resize <source> <width> <height>",
		Short: "Resize a window source",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("width: %w", err)
			}
			h, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("height: %w", err)
			}
			res, err := cfg.client().Resize(cmd.Context(), args[0], w, h)
			if err != nil {
				return err
			}
			return p().result(res)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "focus <source>",
		Short: "Focus a window source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := cfg.client().Focus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return p().result(res)
		},
	})

	writeCmd := &cobra.Command{
		Use:   "write <source> [data]",
		Short: "Write data to a stream source",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			complete, _ := cmd.Flags().GetBool("complete")
			var data string
			if len(args) == 2 {
				data = args[1]
			}
			if data == "" && !complete {
				return fmt.Errorf("write requires data or --complete")
			}
			res, err := cfg.client().Write(cmd.Context(), args[0], data, complete)
			if err != nil {
				return err
			}
			return p().result(res)
		},
	}
	writeCmd.Flags().Bool("complete", false, "Complete the stream after writing")
	root.AddCommand(writeCmd)

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.client().Status(cmd.Context())
			if err != nil {
				return err
			}
			return p().status(st)
		},
	})

	waitCmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the daemon reports ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _ := cmd.Flags().GetDuration("for")
			if err := cfg.client().WaitReady(cmd.Context(), d, 250*time.Millisecond); err != nil {
				return err
			}
			info("%s is ready", cfg.Server)
			return nil
		},
	}
	waitCmd.Flags().Duration("for", 30*time.Second, "How long to wait")
	root.AddCommand(waitCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(out) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(out) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(out, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(out) }})
	root.AddCommand(completionCmd)

	return root
}

func sourcesCmd(cfg *Config, p func() printer) *cobra.Command {
	cmd := &cobra.Command{Use: "sources", Short: "List, show and add sources", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("sources requires a subcommand: list|show|add")
	}}
	list := &cobra.Command{Use: "list", Aliases: []string{"ls"}, Short: "List sources", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := cfg.client().ListSources(cmd.Context())
		if err != nil {
			return err
		}
		return p().sources(srcs)
	}}
	show := &cobra.Command{Use: "show <name>", Short: "Show one source and its owned sinks", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cfg.client().Source(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return p().source(s)
	}}
	add := &cobra.Command{
		Use:     "add [name]",
		Short:   "Add a source from flags or a definition file",
		Example: "  sourcectl sources add win2 --kind window --width 640 --height 480\n  sourcectl sources add --file sources/feed.yaml",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := sourceSpecFromFlags(cmd, args)
			if err != nil {
				return err
			}
			s, err := cfg.client().AddSource(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return p().source(s)
		},
	}
	add.Flags().String("file", "", "Source definition file (.yaml, .yml, .json or .toml)")
	add.Flags().String("kind", "", "Source kind: window|stream")
	add.Flags().Int("width", 0, "Initial window width")
	add.Flags().Int("height", 0, "Initial window height")
	add.Flags().String("url", "", "Stream origin URL")
	cmd.AddCommand(list, show, add)
	return cmd
}

func sourceSpecFromFlags(cmd *cobra.Command, args []string) (types.SourceSpec, error) {
	var spec types.SourceSpec
	fl := cmd.Flags()
	if path, _ := fl.GetString("file"); path != "" {
		if err := fsutil.DecodeFile(path, &spec); err != nil {
			return spec, err
		}
	}
	if len(args) == 1 {
		spec.Name = args[0]
	}
	if fl.Changed("kind") {
		spec.Kind, _ = fl.GetString("kind")
	}
	if fl.Changed("width") {
		spec.Width, _ = fl.GetInt("width")
	}
	if fl.Changed("height") {
		spec.Height, _ = fl.GetInt("height")
	}
	if fl.Changed("url") {
		spec.URL, _ = fl.GetString("url")
	}
	if spec.Name == "" {
		return spec, fmt.Errorf("source name is required")
	}
	if spec.Kind == "" {
		return spec, fmt.Errorf("--kind is required")
	}
	return spec, nil
}

func sinksCmd(cfg *Config, p func() printer) *cobra.Command {
	cmd := &cobra.Command{Use: "sinks", Short: "Attach, detach, drop and inspect daemon-owned sinks", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("sinks requires a subcommand: attach|detach|drop|show|events")
	}}
	attach := &cobra.Command{
		Use:     "attach <source>",
		Short:   "Create a sink and attach it to a source",
		Example: "  sourcectl sinks attach main-window --kind memory --id audit --types resize,focus",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			var spec types.SinkSpec
			spec.ID, _ = fl.GetString("id")
			spec.Kind, _ = fl.GetString("kind")
			spec.Handles, _ = fl.GetBool("handles")
			spec.Capacity, _ = fl.GetInt("capacity")
			typesCSV, _ := fl.GetString("types")
			for _, t := range strings.Split(typesCSV, ",") {
				if t = strings.TrimSpace(t); t != "" {
					spec.Types = append(spec.Types, t)
				}
			}
			k, err := cfg.client().AttachSink(cmd.Context(), args[0], spec)
			if err != nil {
				return err
			}
			return p().sink(k)
		},
	}
	attach.Flags().String("id", "", "Sink id (generated when empty, or an existing detached sink)")
	attach.Flags().String("kind", "", "Sink kind: log|memory|counter (required for a new sink)")
	attach.Flags().Bool("handles", false, "Report accepted events as handled")
	attach.Flags().String("types", "", "Comma-separated event types to accept")
	attach.Flags().Int("capacity", 0, "Events kept by a memory sink")

	detach := &cobra.Command{Use: "detach <source> <id>", Short: "Detach a sink; the daemon keeps it", Args: cobra.ExactArgs(2), RunE: func(cmd *cobra.Command, args []string) error {
		return cfg.client().DetachSink(cmd.Context(), args[0], args[1])
	}}
	drop := &cobra.Command{Use: "drop <id>", Short: "Release a sink without detaching it", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return cfg.client().DropSink(cmd.Context(), args[0])
	}}
	show := &cobra.Command{Use: "show <id>", Short: "Show a sink", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		k, err := cfg.client().Sink(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return p().sink(k)
	}}
	events := &cobra.Command{Use: "events <id>", Short: "Print events kept by a memory sink", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		evs, err := cfg.client().SinkEvents(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return p().events(args[0], evs)
	}}
	cmd.AddCommand(attach, detach, drop, show, events)
	return cmd
}

// parseData turns key=value pairs into event data. Values that parse as JSON
// (numbers, booleans, objects) keep their type; anything else is a string.
func parseData(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	data := make(map[string]any, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid data %q: want key=value", kv)
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			data[k] = parsed
		} else {
			data[k] = v
		}
	}
	return data, nil
}

// runWith executes the command tree for args and returns its error.
func runWith(ctx context.Context, cfg *Config, args []string, out io.Writer) error {
	root := buildRootCmdWith(cfg, out)
	root.SetArgs(args)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}
