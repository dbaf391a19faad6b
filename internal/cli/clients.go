package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/service"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  `List, add, edit, and delete clients. Changes are allowed to the author of a client or an admin.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients one page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		pageNum, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		sortField, _ := cmd.Flags().GetString("sort")
		authorRef, _ := cmd.Flags().GetString("author")

		req := domain.PageRequest{Page: pageNum, Size: size, SortField: sortField}

		var page domain.Page[*domain.Client]
		var err error
		if authorRef != "" {
			author, rerr := appInstance.AccountService.Resolve(ctx, authorRef)
			if rerr != nil {
				return rerr
			}
			page, err = appInstance.ClientService.ListByAuthor(ctx, author.ID, req)
		} else {
			page, err = appInstance.ClientService.List(ctx, req)
		}
		if err != nil {
			return err
		}

		if len(page.Items) == 0 {
			fmt.Println("No clients found")
			return nil
		}

		printClients(page.Items)
		fmt.Printf("\nPage %d of %d (%d client(s))\n", page.Page+1, page.TotalPages(), page.Total)
		return nil
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show [id...]",
	Short: "Show one or more clients",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		if len(ids) == 1 {
			client, err := appInstance.ClientService.Get(ctx, ids[0])
			if err != nil {
				return err
			}
			printClientDetail(client)
			return nil
		}

		clients, err := appInstance.ClientService.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for i, c := range clients {
			if i > 0 {
				fmt.Println()
			}
			printClientDetail(c)
		}
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		author, err := resolveActor(ctx, cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")

		client := domain.NewClient(args[0], email, phone)
		client.Address = addressFromFlags(cmd, nil)

		created, err := appInstance.ClientService.Create(ctx, client, author.ID)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Client created: %s (ID: %d)\n", created.Name, created.ID)
		fmt.Printf("  Author: %s\n", author.Username)
		return nil
	},
}

var clientsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit name, phone, or address of a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		actor, err := resolveActor(ctx, cmd)
		if err != nil {
			return err
		}

		client, err := appInstance.ClientService.Get(ctx, ids[0])
		if err != nil {
			return err
		}

		// Unchanged flags keep the stored values
		changes := service.ClientChanges{
			Name:    client.Name,
			Phone:   client.Phone,
			Address: client.Address,
		}
		if cmd.Flags().Changed("name") {
			changes.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("phone") {
			changes.Phone, _ = cmd.Flags().GetString("phone")
		}
		if clearAddr, _ := cmd.Flags().GetBool("clear-address"); clearAddr {
			changes.Address = nil
		} else {
			changes.Address = addressFromFlags(cmd, client.Address)
		}

		updated, err := appInstance.ClientService.Update(ctx, client.ID, changes, actor.Actor())
		if err != nil {
			return err
		}

		fmt.Printf("✓ Client updated: %s\n", updated.Name)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a client without budgets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		actor, err := resolveActor(ctx, cmd)
		if err != nil {
			return err
		}

		if err := appInstance.ClientService.Delete(ctx, ids[0], actor.Actor()); err != nil {
			return err
		}

		fmt.Printf("✓ Client %d deleted\n", ids[0])
		return nil
	},
}

// addressFromFlags overlays the address flags on current. It returns nil
// when neither current nor any flag provides an address.
func addressFromFlags(cmd *cobra.Command, current *domain.Address) *domain.Address {
	var a domain.Address
	if current != nil {
		a = *current
	}
	changed := false
	if cmd.Flags().Changed("street") {
		a.Street, _ = cmd.Flags().GetString("street")
		changed = true
	}
	if cmd.Flags().Changed("city") {
		a.City, _ = cmd.Flags().GetString("city")
		changed = true
	}
	if cmd.Flags().Changed("postal-code") {
		a.PostalCode, _ = cmd.Flags().GetString("postal-code")
		changed = true
	}
	if current == nil && !changed {
		return nil
	}
	return &a
}

func printClients(clients []*domain.Client) {
	fmt.Printf("%-5s %-25s %-28s %-12s\n", "ID", "Name", "Email", "Phone")
	fmt.Println("-------------------------------------------------------------------------")
	for _, c := range clients {
		fmt.Printf("%-5d %-25s %-28s %-12s\n",
			c.ID,
			truncate(c.Name, 25),
			truncate(c.Email, 28),
			c.Phone,
		)
	}
}

func printClientDetail(c *domain.Client) {
	fmt.Printf("Client %d: %s\n", c.ID, c.Name)
	fmt.Printf("  Email:   %s\n", c.Email)
	fmt.Printf("  Phone:   %s\n", c.Phone)
	if c.Address != nil {
		fmt.Printf("  Address: %s, %s", c.Address.Street, c.Address.City)
		if c.Address.PostalCode != "" {
			fmt.Printf(" %s", c.Address.PostalCode)
		}
		fmt.Println()
	}
	if c.AuthorID != uuid.Nil {
		fmt.Printf("  Author:  %s\n", c.AuthorID)
	}
	fmt.Printf("  Created: %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsEditCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)

	// List flags
	clientsListCmd.Flags().Int("page", 0, "Zero-based page number")
	clientsListCmd.Flags().Int("size", domain.DefaultPageSize, "Clients per page")
	clientsListCmd.Flags().String("sort", "id", "Sort field: id, name, email, phone, created_at")
	clientsListCmd.Flags().String("author", "", "Only clients created by this account")

	// Add flags
	clientsAddCmd.Flags().String("email", "", "Client email (required)")
	clientsAddCmd.MarkFlagRequired("email")
	clientsAddCmd.Flags().String("phone", "", "Phone, 10 or 11 digits (required)")
	clientsAddCmd.MarkFlagRequired("phone")

	// Edit flags
	clientsEditCmd.Flags().String("name", "", "New name")
	clientsEditCmd.Flags().String("phone", "", "New phone")
	clientsEditCmd.Flags().Bool("clear-address", false, "Remove the stored address")

	for _, c := range []*cobra.Command{clientsAddCmd, clientsEditCmd} {
		c.Flags().String("street", "", "Street and number")
		c.Flags().String("city", "", "City")
		c.Flags().String("postal-code", "", "Postal code (NNNNN-NNN)")
	}
	for _, c := range []*cobra.Command{clientsAddCmd, clientsEditCmd, clientsDeleteCmd} {
		c.Flags().String("as", "", "Account (username or id) performing the change")
		c.MarkFlagRequired("as")
	}
}
