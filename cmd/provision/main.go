// Command provision manages customer accounts. Customers are never created
// through the HTTP API.
package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/config"
	"feedbackboard/internal/db"
	"feedbackboard/internal/utils"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	utils.LoadEnv(logger)
	cfg := config.LoadConfig()

	app := &cli.App{
		Name:  "provision",
		Usage: "manage feedback board customers",
		Commands: []*cli.Command{
			{
				Name:  "customer",
				Usage: "customer accounts",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create a customer",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Required: true},
							&cli.StringFlag{Name: "name", Required: true},
							&cli.StringFlag{Name: "slug", Required: true},
						},
						Action: func(c *cli.Context) error {
							svc, err := customerService(&cfg, logger)
							if err != nil {
								return err
							}
							created, err := svc.Provision(c.Context, customer.CreateCustomerInput{
								Email: c.String("email"),
								Name:  c.String("name"),
								Slug:  c.String("slug"),
							})
							if err != nil {
								return cli.Exit(err.Error(), 1)
							}
							fmt.Fprintf(c.App.Writer, "created customer %s (%s)\n", created.Slug, created.ID)
							return nil
						},
					},
					{
						Name:  "list",
						Usage: "list customers",
						Action: func(c *cli.Context) error {
							svc, err := customerService(&cfg, logger)
							if err != nil {
								return err
							}
							customers, err := svc.List(c.Context)
							if err != nil {
								return cli.Exit(err.Error(), 1)
							}
							w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
							fmt.Fprintln(w, "ID\tSLUG\tEMAIL\tNAME")
							for _, cu := range customers {
								fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cu.ID, cu.Slug, cu.Email, cu.Name)
							}
							return w.Flush()
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("provision failed", zap.Error(err))
	}
}

func customerService(cfg *config.Config, logger *zap.Logger) (customer.Service, error) {
	conn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn, logger); err != nil {
		return nil, err
	}
	return customer.NewService(customer.NewRepository(conn), logger), nil
}
