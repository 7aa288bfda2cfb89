package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/itdwgmbh/odoo-xmlrpc-go/pkg/odoo"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}

func newCreateCmd(g *globalFlags) *cobra.Command {
	var values string
	c := &cobra.Command{
		Use:     "create <model>",
		Short:   "Create a record and print its id",
		Example: `  odoo-xmlrpc create res.partner --values '{"name": "Acme"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := decodeObject("values", values)
			if err != nil {
				return err
			}
			return withClient(cmd, g, func(ctx context.Context, c modelClient) error {
				id, err := c.Create(ctx, args[0], vals)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	c.Flags().StringVar(&values, "values", "", "Field values as a JSON object")
	c.MarkFlagRequired("values")
	return c
}

func newReadCmd(g *globalFlags) *cobra.Command {
	var (
		domain string
		opts   odoo.ReadOptions
	)
	c := &cobra.Command{
		Use:   "read <model>",
		Short: "Print every record matching a domain as JSON",
		Example: `  odoo-xmlrpc read res.partner --domain '[["is_company", "=", true]]' --fields name,email
  odoo-xmlrpc read account.move --limit 200 --order "date asc"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decodeList("domain", domain)
			if err != nil {
				return err
			}
			opts.Domain = d
			return withClient(cmd, g, func(ctx context.Context, c modelClient) error {
				records, err := c.Read(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), records)
			})
		},
	}
	c.Flags().StringVar(&domain, "domain", "", "Domain filter as a JSON array")
	c.Flags().StringSliceVar(&opts.Fields, "fields", nil, "Fields to fetch (default: all)")
	c.Flags().IntVar(&opts.Offset, "offset", 0, "Number of records to skip")
	c.Flags().IntVar(&opts.Limit, "limit", odoo.DefaultLimit, "Page size")
	c.Flags().StringVar(&opts.Order, "order", odoo.DefaultOrder, "Sort order")
	return c
}

func newCountCmd(g *globalFlags) *cobra.Command {
	var domain string
	c := &cobra.Command{
		Use:   "count <model>",
		Short: "Print the number of records matching a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decodeList("domain", domain)
			if err != nil {
				return err
			}
			return withClient(cmd, g, func(ctx context.Context, c modelClient) error {
				n, err := c.SearchCount(ctx, args[0], d)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
	c.Flags().StringVar(&domain, "domain", "", "Domain filter as a JSON array")
	return c
}

func newUpdateCmd(g *globalFlags) *cobra.Command {
	var values string
	c := &cobra.Command{
		Use:     "update <model> <id>",
		Short:   "Write field values to a record",
		Example: `  odoo-xmlrpc update res.partner 42 --values '{"email": "info@acme.example"}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			vals, err := decodeObject("values", values)
			if err != nil {
				return err
			}
			return withClient(cmd, g, func(ctx context.Context, c modelClient) error {
				return c.Update(ctx, args[0], id, vals)
			})
		},
	}
	c.Flags().StringVar(&values, "values", "", "Field values as a JSON object")
	c.MarkFlagRequired("values")
	return c
}

func newDeleteCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return withClient(cmd, g, func(ctx context.Context, c modelClient) error {
				return c.Delete(ctx, args[0], id)
			})
		},
	}
}

func newCallCmd(g *globalFlags) *cobra.Command {
	var callArgs, kwargs string
	c := &cobra.Command{
		Use:   "call <model> <method>",
		Short: "Invoke any model method and print the result as JSON",
		Example: `  odoo-xmlrpc call res.partner name_search --args '["Acme"]' --kwargs '{"limit": 5}'
  odoo-xmlrpc call sale.order action_confirm --args '[[17]]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, err := decodeList("args", callArgs)
			if err != nil {
				return err
			}
			kw, err := decodeObject("kwargs", kwargs)
			if err != nil {
				return err
			}
			return withClient(cmd, g, func(ctx context.Context, c modelClient) error {
				result, err := c.InvokeKw(ctx, args[0], args[1], positional, kw)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	c.Flags().StringVar(&callArgs, "args", "", "Positional arguments as a JSON array")
	c.Flags().StringVar(&kwargs, "kwargs", "", "Keyword arguments as a JSON object")
	return c
}
