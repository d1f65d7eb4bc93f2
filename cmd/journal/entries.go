package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/prompt"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

func createCmd(a *app) *cobra.Command {
	var (
		title, content, fromURL, tags string
		suggestTags                   bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a new entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			p := a.prompter(cmd)

			j, closeFn, err := a.openJournal(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			titleSet := cmd.Flags().Changed("title")
			contentSet := cmd.Flags().Changed("content")

			if fromURL != "" {
				page, err := a.fetcher.Fetch(ctx, fromURL)
				if err != nil {
					return fmt.Errorf("fetch %s: %w", fromURL, err)
				}
				if !titleSet && page.Title != "" {
					title, titleSet = page.Title, true
				}
				if !contentSet {
					content, contentSet = page.Text+"\n\nSource: "+page.URL, true
				}
			}

			if !titleSet {
				if title, err = p.Line("Enter entry title", domain.DefaultTitle(time.Now())); err != nil {
					return err
				}
			}
			if strings.TrimSpace(title) == "" {
				title = domain.DefaultTitle(time.Now())
			}
			if !contentSet {
				if content, err = p.Content(""); err != nil {
					return err
				}
			}

			var names []string
			if cmd.Flags().Changed("tags") {
				names = domain.ParseTags(tags)
			}
			var suggested []string
			if suggestTags {
				suggested = a.suggestTags(ctx, out, j, title, content)
			}

			if cmd.Flags().Changed("tags") {
				names = domain.NormalizeTags(append(names, suggested...))
			} else {
				if names, err = p.Tags(domain.TagsFromNames(suggested)); err != nil {
					return err
				}
			}

			e, err := j.CreateEntry(ctx, title, content, names)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Entry [%d - %s] created\n", e.ID, e.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "entry title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "entry content")
	cmd.Flags().StringVar(&fromURL, "from-url", "", "use the readable text of a web page as content")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().BoolVar(&suggestTags, "suggest", false, "ask Anthropic for tag suggestions")
	cmd.MarkFlagsMutuallyExclusive("content", "from-url")
	return cmd
}

// suggestTags never fails the command; problems are reported and skipped.
func (a *app) suggestTags(ctx context.Context, out io.Writer, j *journal.Journal, title, content string) []string {
	s, err := a.suggester()
	if err != nil {
		fmt.Fprintf(out, "(tag suggestion skipped: %v)\n", err)
		return nil
	}

	existing, err := j.Tags(ctx)
	if err != nil {
		fmt.Fprintf(out, "(tag suggestion skipped: %v)\n", err)
		return nil
	}
	names := make([]string, len(existing))
	for i, t := range existing {
		names[i] = t.Name
	}

	fmt.Fprint(out, "Suggesting tags... ")
	suggested, err := s.Suggest(ctx, title, content, names)
	if err != nil {
		fmt.Fprintf(out, "failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "%s\n", strings.Join(suggested, ", "))
	return suggested
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeFn, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entries := j.ListEntries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries yet. Use 'journal create' to write one.")
				return nil
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry_id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			id, ok := parseEntryID(args[0])
			if !ok {
				fmt.Fprintln(out, "Entry id must be a number")
				return nil
			}

			j, closeFn, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if _, found := j.GetEntryByID(id); !found {
				fmt.Fprintf(out, "Entry with id %d not found\n", id)
				return nil
			}
			e, err := j.DeleteEntry(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Entry [%d - %s] deleted\n", e.ID, e.Title)
			return nil
		},
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [entry_id]",
		Short: "Show an entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeFn, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			e, ok, err := pickEntry(cmd.OutOrStdout(), a.prompter(cmd), j, args)
			if err != nil || !ok {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\n", e.Title)
			fmt.Fprintf(out, "Content:\n%s\n", e.Content)
			fmt.Fprintf(out, "Tags: %s\n", domain.JoinTags(e.Tags))
			fmt.Fprintf(out, "Created: %s\n", e.CreatedAt.Local().Format(timeLayout))
			fmt.Fprintf(out, "Updated: %s\n", e.UpdatedAt.Local().Format(timeLayout))
			return nil
		},
	}
}

func editCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [entry_id]",
		Short: "Edit an entry's title, content and tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := a.prompter(cmd)

			j, closeFn, err := a.openJournal(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			e, ok, err := pickEntry(cmd.OutOrStdout(), p, j, args)
			if err != nil || !ok {
				return err
			}

			if e.Title, err = p.Line("Enter entry title", e.Title); err != nil {
				return err
			}
			if e.Content, err = p.Content(e.Content); err != nil {
				return err
			}
			names, err := p.Tags(e.Tags)
			if err != nil {
				return err
			}
			e.Tags = domain.TagsFromNames(names)

			updated, err := j.EditEntry(ctx, e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry [%d - %s] updated\n", updated.ID, updated.Title)
			return nil
		},
	}
}

func tagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags with their entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeFn, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			tags, err := j.Tags(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tags) == 0 {
				fmt.Fprintln(out, "No tags yet.")
				return nil
			}
			for _, t := range tags {
				fmt.Fprintf(out, "%s (%d)\n", t.Name, t.Entries)
			}
			return nil
		},
	}
}

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles, contents and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeFn, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			query := strings.Join(args, " ")
			results := j.Search(query)
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No entries match %q.\n", query)
				return nil
			}
			printEntries(cmd.OutOrStdout(), results)
			return nil
		},
	}
}

func printEntries(out io.Writer, entries []domain.Entry) {
	for _, e := range entries {
		fmt.Fprintf(out, "%d - %s\n", e.ID, e.Title)
	}
}

func parseEntryID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pickEntry resolves the entry named by args, or lets the user pick one.
// User mistakes are printed and reported as ok == false.
func pickEntry(out io.Writer, p *prompt.Prompter, j *journal.Journal, args []string) (domain.Entry, bool, error) {
	if len(args) == 1 {
		id, ok := parseEntryID(args[0])
		if !ok {
			fmt.Fprintln(out, "Entry id must be a number")
			return domain.Entry{}, false, nil
		}
		e, found := j.GetEntryByID(id)
		if !found {
			fmt.Fprintf(out, "Entry with id %d not found\n", id)
		}
		return e, found, nil
	}

	entries := j.ListEntries()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries yet. Use 'journal create' to write one.")
		return domain.Entry{}, false, nil
	}
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = fmt.Sprintf("%d - %s", e.ID, e.Title)
	}
	idx, ok, err := p.Select("Select entry", items)
	if err != nil || !ok {
		return domain.Entry{}, false, err
	}
	return entries[idx], true, nil
}
