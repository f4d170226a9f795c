package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/stationeryhub/internal/client"
	"github.com/stationeryhub/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var errBackendOffline = errors.New("backend offline")

// probeCmd 单次连通性探测
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		status := client.NewMonitor(c, 0, nil).Check(cmd.Context(), nil)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.BaseURL(), status)
		if status != client.StatusOnline {
			return errBackendOffline
		}
		return nil
	},
}

var watchInterval time.Duration

// watchCmd 轮询探测直到收到退出信号
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the backend and print connection status changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := watchInterval
		if !cmd.Flags().Changed("interval") && backendCfg.PollInterval > 0 {
			interval = backendCfg.PollInterval
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		out := cmd.OutOrStdout()
		monitor := client.NewMonitor(newClient(), interval, logger.S())
		err := monitor.Run(ctx, func(s client.Status) {
			fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.RFC3339), s)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

var loginUsername, loginPassword string

// loginCmd 管理员登录并输出 Token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as admin and print the bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newClient().AdminLogin(cmd.Context(), loginUsername, loginPassword)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), session)
		}
		fmt.Fprintln(cmd.OutOrStdout(), session.Token)
		return nil
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage catalog products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := newClient().ListProducts(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), products)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
		for _, p := range products {
			stock := "-"
			if p.Stock != nil {
				stock = fmt.Sprint(*p.Stock)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), stock)
		}
		return w.Flush()
	},
}

var productFlags struct {
	name        string
	description string
	price       string
	image       string
	category    string
	stock       int
}

func bindProductFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&productFlags.name, "name", "", "product name")
	cmd.Flags().StringVar(&productFlags.description, "description", "", "product description")
	cmd.Flags().StringVar(&productFlags.price, "price", "", "unit price, e.g. 24.99")
	cmd.Flags().StringVar(&productFlags.image, "image", "", "image path relative to /uploads or absolute URL")
	cmd.Flags().StringVar(&productFlags.category, "category", "", "category name")
	cmd.Flags().IntVar(&productFlags.stock, "stock", -1, "stock count (omit for unlimited)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("category")
}

func productInputFromFlags() (client.ProductInput, error) {
	price, err := decimal.NewFromString(productFlags.price)
	if err != nil {
		return client.ProductInput{}, fmt.Errorf("invalid --price %q: %w", productFlags.price, err)
	}
	input := client.ProductInput{
		Name:        productFlags.name,
		Description: productFlags.description,
		Price:       price,
		Image:       productFlags.image,
		Category:    productFlags.category,
	}
	if productFlags.stock >= 0 {
		stock := productFlags.stock
		input.Stock = &stock
	}
	return input, nil
}

var productsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := productInputFromFlags()
		if err != nil {
			return err
		}
		product, err := newClient().CreateProduct(cmd.Context(), input)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), product, "created product")
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := productInputFromFlags()
		if err != nil {
			return err
		}
		product, err := newClient().UpdateProduct(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), product, "updated product")
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteProduct(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s\n", args[0])
		return nil
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and update orders",
}

var ordersStatusFilter string

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orders, err := newClient().ListOrders(cmd.Context(), ordersStatusFilter)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), orders)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tCUSTOMER\tAREA\tITEMS\tTOTAL\tSTATUS")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", o.ID, o.CreatedAt, o.Name, o.DeliveryArea, len(o.Items), o.Total.StringFixed(2), o.Status)
		}
		return w.Flush()
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <id> <pending|processing|shipped|delivered>",
	Short: "Update an order status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := newClient().UpdateOrderStatus(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), order, "updated order")
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "poll interval")

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "admin username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "admin password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	bindProductFlags(productsAddCmd)
	bindProductFlags(productsUpdateCmd)
	productsCmd.AddCommand(productsListCmd, productsAddCmd, productsUpdateCmd, productsDeleteCmd)

	ordersListCmd.Flags().StringVar(&ordersStatusFilter, "status", "", "filter by status")
	ordersCmd.AddCommand(ordersListCmd, ordersStatusCmd)
}

func printResult(w io.Writer, v interface{}, label string) error {
	if jsonOutput {
		return printJSON(w, v)
	}
	switch item := v.(type) {
	case *client.Product:
		if item != nil {
			_, err := fmt.Fprintf(w, "%s %s (%s)\n", label, item.ID, item.Name)
			return err
		}
	case *client.Order:
		if item != nil {
			_, err := fmt.Fprintf(w, "%s %s -> %s\n", label, item.ID, item.Status)
			return err
		}
	}
	_, err := fmt.Fprintln(w, label)
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
