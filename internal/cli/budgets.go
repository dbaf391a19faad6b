package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/oficina/internal/service"
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Manage budgets (orçamentos)",
	Long: `Create, list, update, and delete budgets. Lines are given as id:quantity,
for example --service 3:2 --part 7:4. Totals are always computed.`,
}

var budgetsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a budget dated today",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := budgetRequestFromFlags(cmd)
		if err != nil {
			return err
		}

		view, err := appInstance.BudgetService.Create(context.Background(), req)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Budget created (ID: %d)\n", view.ID)
		printBudgetTotals(view)
		return nil
	},
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all budgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := appInstance.BudgetService.List(context.Background())
		if err != nil {
			return err
		}
		if len(views) == 0 {
			fmt.Println("No budgets found")
			return nil
		}

		fmt.Printf("%-5s %-7s %-10s %14s %14s %14s\n", "ID", "Client", "Date", "Total", "Discount", "Due")
		fmt.Println("---------------------------------------------------------------------")
		for _, v := range views {
			fmt.Printf("%-5d %-7d %-10s %14s %14s %14s\n",
				v.ID,
				v.ClientID,
				v.CreatedAt.Format("2006-01-02"),
				formatMoney(v.Total),
				formatMoney(v.Discount),
				formatMoney(v.AmountDue()),
			)
		}
		fmt.Printf("\nTotal: %d budget(s)\n", len(views))
		return nil
	},
}

var budgetsShowCmd = &cobra.Command{
	Use:   "show [id...]",
	Short: "Show one or more budgets with their lines",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		var views []*service.BudgetView
		if len(ids) == 1 {
			v, err := appInstance.BudgetService.Get(ctx, ids[0])
			if err != nil {
				return err
			}
			views = append(views, v)
		} else if views, err = appInstance.BudgetService.ListByIDs(ctx, ids); err != nil {
			return err
		}

		for i, v := range views {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("Budget %d for client %d on %s\n", v.ID, v.ClientID, v.CreatedAt.Format("2006-01-02"))
			for _, s := range v.Services {
				fmt.Printf("  service %-5d x %d\n", s.ServiceID, s.Quantity)
			}
			for _, p := range v.Parts {
				fmt.Printf("  part    %-5d x %d\n", p.PartID, p.Quantity)
			}
			printBudgetTotals(v)
		}
		return nil
	},
}

var budgetsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace the client and every line of a budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		req, err := budgetRequestFromFlags(cmd)
		if err != nil {
			return err
		}

		view, err := appInstance.BudgetService.Update(context.Background(), ids[0], req)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Budget %d updated\n", view.ID)
		printBudgetTotals(view)
		return nil
	},
}

var budgetsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		if err := appInstance.BudgetService.Delete(context.Background(), ids[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Budget %d deleted\n", ids[0])
		return nil
	},
}

func budgetRequestFromFlags(cmd *cobra.Command) (service.BudgetRequest, error) {
	clientID, _ := cmd.Flags().GetInt64("client")
	serviceLines, _ := cmd.Flags().GetStringArray("service")
	partLines, _ := cmd.Flags().GetStringArray("part")

	req := service.BudgetRequest{ClientID: clientID}
	for _, s := range serviceLines {
		id, qty, err := parseQuantity(s)
		if err != nil {
			return service.BudgetRequest{}, err
		}
		req.Services = append(req.Services, service.ServiceQuantity{ServiceID: id, Quantity: qty})
	}
	for _, p := range partLines {
		id, qty, err := parseQuantity(p)
		if err != nil {
			return service.BudgetRequest{}, err
		}
		req.Parts = append(req.Parts, service.PartQuantity{PartID: id, Quantity: qty})
	}
	return req, nil
}

func printBudgetTotals(v *service.BudgetView) {
	fmt.Printf("  Total:    %s\n", formatMoney(v.Total))
	fmt.Printf("  Discount: %s\n", formatMoney(v.Discount))
	fmt.Printf("  Due:      %s\n", formatMoney(v.AmountDue()))
}

func init() {
	budgetsCmd.AddCommand(budgetsCreateCmd)
	budgetsCmd.AddCommand(budgetsListCmd)
	budgetsCmd.AddCommand(budgetsShowCmd)
	budgetsCmd.AddCommand(budgetsUpdateCmd)
	budgetsCmd.AddCommand(budgetsDeleteCmd)

	for _, c := range []*cobra.Command{budgetsCreateCmd, budgetsUpdateCmd} {
		c.Flags().Int64("client", 0, "Client ID (required)")
		c.MarkFlagRequired("client")
		c.Flags().StringArray("service", nil, "Service line as id:quantity (repeatable)")
		c.Flags().StringArray("part", nil, "Part line as id:quantity (repeatable)")
	}
}
