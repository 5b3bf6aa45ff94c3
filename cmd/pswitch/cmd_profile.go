package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		profiles, err := a.store.List()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles configured.")
			return nil
		}

		activeID, err := a.store.ActiveID()
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"", "Name", "ID", "Items", "Hooks", "Updated"})
		for _, p := range profiles {
			marker := ""
			if p.ID == activeID {
				marker = "*"
			}
			table.Append([]string{
				marker,
				p.Name,
				p.ID,
				strconv.Itoa(len(p.Items)),
				strconv.Itoa(len(p.Hooks)),
				p.UpdatedAt.Format("2006-01-02 15:04"),
			})
		}
		table.Render()
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show a profile's items and hooks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		p, err := a.resolveProfile(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", p.Name, p.ID)
		fmt.Println("Items:")
		if len(p.Items) == 0 {
			fmt.Println("  (none)")
		}
		for _, item := range p.Items {
			state := " "
			if !item.Enabled {
				state = "disabled"
			}
			fmt.Printf("  - [%s] %s %s\n", item.Type, item.Label, state)
		}
		fmt.Println("Hooks:")
		if len(p.Hooks) == 0 {
			fmt.Println("  (none)")
		}
		for _, h := range p.Hooks {
			fmt.Printf("  - [%s] %s -> %s\n", h.Type, h.Label, h.ScriptPath)
		}
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		p, err := a.store.Create(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created profile %q (%s)\n", p.Name, p.ID)
		return nil
	},
}

var profileDeleteYes bool

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <profile>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		p, err := a.resolveProfile(args[0])
		if err != nil {
			return err
		}

		if !profileDeleteYes {
			confirm := false
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete profile %q?", p.Name)).
						Value(&confirm),
				),
			).Run()
			if err != nil {
				return err
			}
			if !confirm {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := a.store.Delete(p.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted profile %q\n", p.Name)
		return nil
	},
}

func init() {
	profileDeleteCmd.Flags().BoolVarP(&profileDeleteYes, "yes", "y", false, "Skip confirmation")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}
