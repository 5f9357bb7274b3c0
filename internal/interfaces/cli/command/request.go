package command

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/erp/client/internal/application/api"
	"github.com/erp/client/internal/bootstrap"
	"github.com/erp/client/internal/domain/shared"
	"github.com/spf13/cobra"
)

func newRequestCommand(o *options, name, short string) *cobra.Command {
	method := strings.ToUpper(name)
	var (
		params []string
		data   string
	)

	cmd := &cobra.Command{
		Use:   name + " <path>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/" + strings.TrimLeft(args[0], "/")
			query, err := parseParams(params)
			if err != nil {
				return err
			}
			body, err := o.readBody(data)
			if err != nil {
				return err
			}

			return o.withClient(cmd, func(c *bootstrap.Client) error {
				var (
					env *shared.Envelope
					err error
				)
				ctx := cmd.Context()
				switch method {
				case http.MethodGet:
					env, err = c.Dispatcher.Get(ctx, path, query)
				case http.MethodPost:
					env, err = c.Dispatcher.Post(ctx, path, body)
				case http.MethodPut:
					env, err = c.Dispatcher.Put(ctx, path, body)
				case http.MethodDelete:
					env, err = c.Dispatcher.Delete(ctx, path, query)
				}
				if err != nil {
					return err
				}
				return o.printEnvelope(env)
			})
		},
	}

	switch method {
	case http.MethodGet, http.MethodDelete:
		cmd.Flags().StringArrayVarP(&params, "param", "q", nil, "query parameter key=value, repeatable")
	default:
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, @file to read a file, - for stdin")
	}
	return cmd
}

func newListCommand(o *options) *cobra.Command {
	var (
		page    int
		size    int
		filters []string
	)

	cmd := &cobra.Command{
		Use:       "list <collection>",
		Short:     "List one page of a collection, see `erpctl collections`",
		Args:      cobra.ExactArgs(1),
		ValidArgs: api.CollectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseParams(filters)
			if err != nil {
				return err
			}
			query["page"] = strconv.Itoa(page)
			query["size"] = strconv.Itoa(size)

			return o.withClient(cmd, func(c *bootstrap.Client) error {
				res, err := c.Resource(args[0])
				if err != nil {
					return err
				}
				env, err := res.List(cmd.Context(), query)
				if err != nil {
					return err
				}
				return o.printEnvelope(env)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&size, "size", 10, "page size")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "field filter key=value, repeatable")
	return cmd
}

func newCollectionsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "Print the collections known to `erpctl list`",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, name := range api.CollectionNames() {
				fmt.Fprintf(o.stdout, "%-22s %s\n", name, api.Collections[name])
			}
			return nil
		},
	}
}

func parseParams(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}

// readBody decodes --data. Empty means no body.
func (o *options) readBody(data string) (any, error) {
	var raw []byte
	switch {
	case data == "":
		return nil, nil
	case data == "-":
		b, err := io.ReadAll(o.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		raw = b
	default:
		raw = []byte(data)
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("body is not valid JSON: %w", err)
	}
	return body, nil
}
