package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/UnknownOlympus/atlas/internal/directory"
	"github.com/UnknownOlympus/atlas/internal/metrics"
	"github.com/UnknownOlympus/atlas/internal/models"
	"github.com/UnknownOlympus/atlas/internal/report"
	"github.com/spf13/cobra"
)

const exportFileMode = 0o600

// cli holds what every command needs. The client is built lazily so that
// --help works without a configured directory service.
type cli struct {
	connect func() (*directory.Client, error)
	metrics *metrics.Metrics
	client  *directory.Client
}

// personFlags are the editable fields of a staff record.
type personFlags struct {
	name       string
	phone      string
	department int
	street     string
	city       string
	state      string
	zip        string
	country    string
}

func newRootCmd(connect func() (*directory.Client, error), appMetrics *metrics.Metrics) *cobra.Command {
	c := &cli{connect: connect, metrics: appMetrics}

	rootCmd := &cobra.Command{
		Use:   "atlasctl",
		Short: "Browse and edit the staff directory",
		Long: `atlasctl talks to the directory service configured by ATLAS_API_BASE_URL.

Available subcommands:
  list        - List staff members, optionally filtered by name
  show        - Show the profile of one staff member
  add         - Create a staff member
  update      - Change fields of a staff member
  delete      - Remove a staff member
  departments - List departments
  export      - Write every profile into an Excel workbook`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			client, err := c.connect()
			if err != nil {
				return fmt.Errorf("failed to create directory client: %w", err)
			}
			c.client = client
			return nil
		},
	}

	rootCmd.AddCommand(
		c.listCmd(),
		c.showCmd(),
		c.addCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.departmentsCmd(),
		c.exportCmd(),
	)

	return rootCmd
}

func (c *cli) listCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			people, err := c.client.SearchPeople(cmd.Context(), search)
			if err != nil {
				return fmt.Errorf("failed to list people: %w", err)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tPHONE\tDEPARTMENT")
			for _, person := range people {
				fmt.Fprintf(writer, "%d\t%s\t%s\t%d\n", person.ID, person.Name, person.Phone, person.DepartmentID)
			}
			return writer.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive part of the name")

	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the profile of a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			profile, ok, err := c.client.FetchEmployeeData(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("person %d: %w", id, directory.ErrAbsent)
			}

			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a staff member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var person models.Person
			flags.apply(cmd, &person)

			saved, err := c.client.CreatePerson(cmd.Context(), person)
			if err != nil {
				return fmt.Errorf("failed to create person: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created person %d\n", saved.ID)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a staff member",
		Long:  `Loads the staff member, overwrites the fields given as flags and saves the record.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			person, err := c.client.LoadForEdit(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load person: %w", err)
			}
			flags.apply(cmd, &person)

			if _, err = c.client.UpdatePerson(cmd.Context(), id, person); err != nil {
				return fmt.Errorf("failed to update person: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated person %d\n", id)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err = c.client.DeletePerson(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete person: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted person %d\n", id)
			return nil
		},
	}
}

func (c *cli) departmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			departments, err := c.client.ListDepartments(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list departments: %w", err)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME")
			for _, department := range departments {
				fmt.Fprintf(writer, "%d\t%s\n", department.ID, department.Name)
			}
			return writer.Flush()
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every profile into an Excel workbook",
		Long:  `Writes one sheet per department. Missing address fields appear as N/A.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := c.client.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}

			startTime := time.Now()
			buffer, err := report.GenerateDirectoryExport(profiles)
			c.metrics.ExportGeneration.Observe(time.Since(startTime).Seconds())
			if errors.Is(err, report.ErrNoProfiles) {
				fmt.Fprintln(cmd.OutOrStdout(), "the directory is empty, nothing to export")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to generate export: %w", err)
			}

			if err = os.WriteFile(out, buffer.Bytes(), exportFileMode); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d profiles to %s\n", len(profiles), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "directory.xlsx", "path of the workbook")

	return cmd
}

func (f *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().IntVar(&f.department, "department", 0, "department id")
	cmd.Flags().StringVar(&f.street, "street", "", "street")
	cmd.Flags().StringVar(&f.city, "city", "", "city")
	cmd.Flags().StringVar(&f.state, "state", "", "state")
	cmd.Flags().StringVar(&f.zip, "zip", "", "ZIP code")
	cmd.Flags().StringVar(&f.country, "country", "", "country")
}

// apply copies the flags the user set onto person, leaving the other fields untouched.
func (f *personFlags) apply(cmd *cobra.Command, person *models.Person) {
	changed := cmd.Flags().Changed

	if changed("name") {
		person.Name = f.name
	}
	if changed("phone") {
		person.Phone = f.phone
	}
	if changed("department") {
		person.DepartmentID = f.department
	}
	if changed("street") {
		person.Address.Street = f.street
	}
	if changed("city") {
		person.Address.City = f.city
	}
	if changed("state") {
		person.Address.State = f.state
	}
	if changed("zip") {
		person.Address.ZIP = f.zip
	}
	if changed("country") {
		person.Address.Country = f.country
	}
}

func printProfile(out io.Writer, profile models.Profile) {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "Staff ID:\t%d\n", profile.StaffID)
	fmt.Fprintf(writer, "Name:\t%s\n", profile.Name)
	fmt.Fprintf(writer, "Phone:\t%s\n", profile.Phone)
	fmt.Fprintf(writer, "Department:\t%s\n", profile.Department)
	fmt.Fprintf(writer, "Street:\t%s\n", profile.Address.Street)
	fmt.Fprintf(writer, "City:\t%s\n", profile.Address.City)
	fmt.Fprintf(writer, "State:\t%s\n", profile.Address.State)
	fmt.Fprintf(writer, "ZIP:\t%s\n", profile.Address.ZIP)
	fmt.Fprintf(writer, "Country:\t%s\n", profile.Address.Country)
	_ = writer.Flush()
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
