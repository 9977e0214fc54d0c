package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
	"github.com/yanqian/semantic-faq/internal/infra/faqrepo"
)

var (
	errAlreadyExists = errors.New("question already exists")
	errNotFound      = errors.New("question not found")
)

func newAskCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Answer a message from the stored entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, ok, err := svc.Answer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no matching entry")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Add a question/answer pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			added, err := svc.AddEntry(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !added {
				return errAlreadyExists
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", args[0])
			return nil
		},
	}
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <question> <answer>",
		Short: "Replace the answer of an existing question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			updated, err := svc.UpdateEntry(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !updated {
				return errNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %q\n", args[0])
			return nil
		},
	}
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <question>",
		Aliases: []string{"rm"},
		Short:   "Remove a question",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := svc.RemoveEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return errNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", args[0])
			return nil
		},
	}
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print every entry in store order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries := svc.Entries()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			for i, entry := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n   %s\n", i+1, entry.Question, entry.Answer)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the storage JSON document")
	return cmd
}

func newSuggestCmd(opts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest [query]",
		Short: "List stored questions containing query, ignoring case",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			for _, question := range svc.Suggest(query, limit) {
				fmt.Fprintln(cmd.OutOrStdout(), question)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "maximum number of suggestions")
	return cmd
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Add every entry of a JSON document, skipping existing questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := faqrepo.NewFileRepository(args[0]).LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			svc, cleanup, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			added, skipped, err := importEntries(cmd.Context(), svc, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries, skipped %d\n", added, skipped)
			return nil
		},
	}
}

func importEntries(ctx context.Context, svc faq.Service, entries []faq.Entry) (int, int, error) {
	added, skipped := 0, 0
	for _, entry := range entries {
		ok, err := svc.AddEntry(ctx, entry.Question, entry.Answer)
		if err != nil {
			return added, skipped, fmt.Errorf("import %q: %w", entry.Question, err)
		}
		if ok {
			added++
		} else {
			skipped++
		}
	}
	return added, skipped, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
