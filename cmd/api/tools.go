package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/ev-commerce/backend/internal/analysis/intent"
	"github.com/zhouzirui/ev-commerce/backend/internal/finance/loan"
)

// newQuoteCmd 在命令行计算贷款月供，参数按计算器页面的方式解析。
func newQuoteCmd() *cobra.Command {
	var (
		principal   string
		downPayment string
		rate        string
		term        string
	)

	defaults := loan.CalculatorDefaults()
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a loan quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := loan.Compute(
				loan.ParseAmount(principal),
				loan.ParseAmount(downPayment),
				loan.ParseAmount(rate),
				loan.ParseTerm(term),
			)
			p := q.Rounded()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Financed:        %s\n", p.Financed.StringFixed(2))
			fmt.Fprintf(out, "Monthly payment: %s\n", p.MonthlyPayment.StringFixed(2))
			fmt.Fprintf(out, "Total payment:   %s\n", p.TotalPayment.StringFixed(2))
			fmt.Fprintf(out, "Total interest:  %s\n", p.TotalInterest.StringFixed(2))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&principal, "principal", fmt.Sprint(defaults.Principal), "Vehicle price")
	flags.StringVar(&downPayment, "down", fmt.Sprint(defaults.DownPayment), "Down payment")
	flags.StringVar(&rate, "rate", fmt.Sprint(defaults.AnnualRatePercent), "Annual interest rate in percent")
	flags.StringVar(&term, "term", fmt.Sprint(defaults.TermMonths), "Term in months")
	return cmd
}

// newAskCmd 直接用意图匹配器回答问题，便于调试知识库。
func newAskCmd() *cobra.Command {
	var knowledgeFile string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question with the FAQ matcher",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				kb  *intent.KnowledgeBase
				err error
			)
			if knowledgeFile != "" {
				kb, err = intent.LoadFile(knowledgeFile)
			} else {
				kb, err = intent.Default()
			}
			if err != nil {
				return err
			}

			res := intent.NewMatcher(kb).Resolve(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if !res.Matched() {
				fmt.Fprintf(out, "[%s]\n%s\n", res.Tier, kb.Fallback)
				return nil
			}
			fmt.Fprintf(out, "[%s] %s\n%s\n", res.Tier, res.Key, res.Response)
			return nil
		},
	}

	cmd.Flags().StringVar(&knowledgeFile, "knowledge", "", "Alternative knowledge YAML file")
	return cmd
}
