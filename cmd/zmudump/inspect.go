package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zmudump/internal/artifact"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <artifact.zmu>",
		Short: "Summarize the contents of a snapshot artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening artifact: %w", err)
			}
			defer func() {
				_ = f.Close()
			}()

			doc, err := artifact.Decode(f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entrypoint:   0x%x\n", doc.Entrypoint)
			if doc.BaseAddress != nil {
				fmt.Fprintf(out, "base address: 0x%x\n", *doc.BaseAddress)
			} else {
				fmt.Fprintf(out, "base address: (unset)\n")
			}
			fmt.Fprintf(out, "sections:     %d\n", len(doc.Sections))
			fmt.Fprintf(out, "functions:    %d\n", len(doc.Functions))
			fmt.Fprintf(out, "comments:     %d\n", len(doc.Comments))

			for _, s := range doc.Sections {
				fmt.Fprintf(out, "  %-24s 0x%08x perm 0x%x %8d bytes\n",
					s.Name, s.Address, s.Permissions, len(s.Data))
			}
			return nil
		},
	}
}
