package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage the service catalog",
}

var servicesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, _ := cmd.Flags().GetFloat64("price")

		svc, err := appInstance.CatalogService.AddService(context.Background(), args[0], price)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Service created: %s (ID: %d) at %s\n", svc.Name, svc.ID, formatMoney(svc.Price))
		return nil
	},
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := appInstance.CatalogService.ListServices(context.Background())
		if err != nil {
			return err
		}
		if len(services) == 0 {
			fmt.Println("No services found")
			return nil
		}
		fmt.Printf("%-5s %-35s %12s\n", "ID", "Name", "Price")
		fmt.Println("-------------------------------------------------------")
		for _, s := range services {
			fmt.Printf("%-5d %-35s %12s\n", s.ID, truncate(s.Name, 35), formatMoney(s.Price))
		}
		return nil
	},
}

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Manage the parts catalog",
}

var partsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, _ := cmd.Flags().GetFloat64("price")

		part, err := appInstance.CatalogService.AddPart(context.Background(), args[0], price)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Part created: %s (ID: %d) at %s\n", part.Name, part.ID, formatMoney(part.Price))
		return nil
	},
}

var partsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parts",
	RunE: func(cmd *cobra.Command, args []string) error {
		parts, err := appInstance.CatalogService.ListParts(context.Background())
		if err != nil {
			return err
		}
		if len(parts) == 0 {
			fmt.Println("No parts found")
			return nil
		}
		fmt.Printf("%-5s %-35s %12s\n", "ID", "Name", "Price")
		fmt.Println("-------------------------------------------------------")
		for _, p := range parts {
			fmt.Printf("%-5d %-35s %12s\n", p.ID, truncate(p.Name, 35), formatMoney(p.Price))
		}
		return nil
	},
}

func init() {
	servicesCmd.AddCommand(servicesAddCmd)
	servicesCmd.AddCommand(servicesListCmd)
	partsCmd.AddCommand(partsAddCmd)
	partsCmd.AddCommand(partsListCmd)

	for _, c := range []*cobra.Command{servicesAddCmd, partsAddCmd} {
		c.Flags().Float64("price", 0, "Unit price (required)")
		c.MarkFlagRequired("price")
	}
}
