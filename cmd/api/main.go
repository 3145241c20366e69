package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd 构建命令树。不带子命令时等同于 serve。
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evstore",
		Short:         "EV storefront backend",
		Long:          "HTTP API for the electric vehicle storefront: catalog, cart, checkout, reviews, loan calculator and FAQ assistant.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(newServeCmd(), newQuoteCmd(), newAskCmd())
	return root
}
