package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dom/catalog-facade/internal/domain"
)

var (
	listPage  int
	listLimit int
	searchAll bool
)

var getCmd = &cobra.Command{
	Use:   "get <kind> <id>",
	Short: "Get one entity by id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}
		res, err := catalog.Execute(cmd.Context(), domain.ByID(kind, args[1]))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res.Body())
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <kind> <term>",
	Short: "Case-insensitive substring search on the entity name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}
		res, err := catalog.Execute(cmd.Context(), domain.Search(kind, args[1]))
		if err != nil {
			return err
		}
		if searchAll {
			return printJSON(cmd.OutOrStdout(), res.Entities)
		}
		return printJSON(cmd.OutOrStdout(), res.Body())
	},
}

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List one page of a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}
		res, err := catalog.Execute(cmd.Context(), domain.List(kind, listPage, listLimit))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res.Body())
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "Show the served kinds and their policies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), catalog.Policies())
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", domain.DefaultPage, "page number, starting at 1")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "page size (0 uses the kind's default)")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "always print a list, even for a single match")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitCode mirrors the HTTP status classes: 2 for not-found, 3 for invalid
// input and 1 for everything else.
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return 2
	case errors.Is(err, domain.ErrValidation):
		return 3
	default:
		return 1
	}
}
