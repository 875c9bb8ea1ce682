package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ambambokili/kili/internal/catalog"
)

/*──────────────────────────────── check ────────────────────────────────────*/

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Decode the catalog and report record problems",
		Long: `Fetches the catalog document, decodes it, and validates every record:
required fields, published dates, duplicate slugs, slug normalisation, and
categories whose names produce the same URL slug.  Exits 1 when anything
is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, closeFn, err := opts.source()
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := src.Fetch(cmd.Context())
			if err != nil {
				return &catalog.LoadFailure{Source: src.Name(), Err: err}
			}
			videos, err := catalog.Decode(data)
			if err != nil {
				return &catalog.LoadFailure{Source: src.Name(), Err: err}
			}

			out := cmd.OutOrStdout()
			problems := catalog.Validate(videos)
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			snap := catalog.NewSnapshot(videos)
			if len(problems) > 0 {
				fmt.Fprintf(out, "%s: %d videos, %d categories, %d problem(s)\n",
					src.Name(), snap.Len(), len(snap.Categories()), len(problems))
				return errProblems
			}
			fmt.Fprintf(out, "%s: %d videos, %d categories, ok\n",
				src.Name(), snap.Len(), len(snap.Categories()))
			return nil
		},
	}
}

/*──────────────────────────────── query ────────────────────────────────────*/

func newQueryCmd(opts *options) *cobra.Command {
	var (
		q      catalog.Query
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print one page of the filtered library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			res := snap.Query(q)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, v := range res.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Slug, v.Title, published(v))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "page %d/%d, %d matching video(s)\n", res.Page, res.TotalPages, res.TotalCount)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&q.Search, "search", "q", "", "title or tag substring, case-insensitive")
	f.StringVar(&q.Category, "category", "", "exact category name")
	f.IntVar(&q.Page, "page", 1, "page number (clamped into range)")
	f.IntVar(&q.PerPage, "per-page", catalog.DefaultPerPage, "videos per page")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

/*─────────────────────────────── related ───────────────────────────────────*/

func newRelatedCmd(opts *options) *cobra.Command {
	var (
		count   int
		exclude string
	)
	cmd := &cobra.Command{
		Use:   "related <slug>",
		Short: "Print the related-video selection for one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := opts.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			target, ok := snap.BySlug(args[0])
			if !ok {
				return fmt.Errorf("video %q not found", args[0])
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, v := range snap.Related(target, count, catalog.RelatedOptions{ExcludeSlug: exclude}) {
				marker := " "
				if v.SharesCategory(target) {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s %s\t%s\n", marker, v.Slug, v.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&count, "count", 3, "number of videos to select")
	cmd.Flags().StringVar(&exclude, "exclude", "", "slug to leave out (defaults to the target)")
	return cmd
}

/*────────────────────────────── categories ─────────────────────────────────*/

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the category index, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range snap.PopularCategories(0) {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", c.Count(), c.Name, c.Slug)
			}
			return tw.Flush()
		},
	}
}

/*──────────────────────────────── cache ────────────────────────────────────*/

// invalidator is implemented by source.Cached.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

func newCacheCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the shared Valkey document cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop the cached catalog document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, closeFn, err := opts.source()
			if err != nil {
				return err
			}
			defer closeFn()

			inv, ok := src.(invalidator)
			if !ok {
				return fmt.Errorf("%s is not cached (cache.valkey_addr is empty)", src.Name())
			}
			if err := inv.Invalidate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged cached copy of %s\n", src.Name())
			return nil
		},
	})
	return cmd
}

/*─────────────────────────────── helpers ───────────────────────────────────*/

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func published(v catalog.Video) string {
	if v.Published.Time.IsZero() {
		return "-"
	}
	return v.Published.Time.Format("2006-01-02")
}
