package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/pipekit/cmd/pipekit/textpipes"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/pipes"
	"github.com/kbukum/pipekit/validation"
	"github.com/kbukum/pipekit/version"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered pipes and available pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PIPE\tREQUIRES\tPROVIDES")
			for _, name := range c.registry.List() {
				p, _ := c.registry.Get(name)
				ct := pipes.ContractOf(p)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, joinOrDash(ct.Requires), joinOrDash(ct.Provides))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if defs := c.loader.List(); len(defs) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\nPipelines: %s\n", strings.Join(defs, ", "))
			}
			return nil
		},
	}
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <pipeline>",
		Short: "Resolve a pipeline and verify its contracts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := c.resolve(args[0])
			if err != nil {
				return err
			}
			if err := pipes.Check(p, textpipes.Input.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok: %s\n", args[0], memberNames(p))
			return nil
		},
	}
}

func (c *cli) runCmd() *cobra.Command {
	var (
		input     string
		contextID string
	)
	cmd := &cobra.Command{
		Use:   "run <pipeline>",
		Short: "Run a pipeline and print the resulting context as JSON",
		Long:  "Run a pipeline against --input, or against stdin when --input is not given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []pipes.ContextOption
			if contextID != "" {
				id, err := validation.ParseUUID("context-id", contextID)
				if err != nil {
					return err
				}
				opts = append(opts, pipes.WithID(id))
			}
			if !cmd.Flags().Changed("input") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				input = string(data)
			}

			def, p, err := c.resolve(args[0])
			if err != nil {
				return err
			}

			return c.app.RunTask(cmd.Context(), func(ctx context.Context) error {
				hooks, err := buildHooks(c.app)
				if err != nil {
					return err
				}
				pc := pipes.NewContext(map[string]any{textpipes.Input.Name: input}, append(opts, pipes.WithHooks(hooks))...)

				c.app.Logger.Info("running pipeline", logger.Fields(
					"pipeline", def.Name, "pipes", p.Len(), "context_id", pc.ID().String(),
				))
				if _, err := p.Call(ctx, pc); err != nil {
					return fmt.Errorf("pipeline %s: %w", def.Name, err)
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pc.Snapshot())
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "text to seed the input key with")
	cmd.Flags().StringVar(&contextID, "context-id", "", "UUID to use as the context ID")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo().String())
			return nil
		},
	}
}

func memberNames(p *pipes.Pipeline) string {
	names := make([]string, 0, p.Len())
	for _, m := range p.Pipes() {
		names = append(names, m.Name())
	}
	return strings.Join(names, " -> ")
}

func joinOrDash(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return strings.Join(keys, ",")
}
