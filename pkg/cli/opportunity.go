package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/oprisk/pkg/cli/config"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

func cmdOpportunity(apiCfg *config.API) *cli.Command {
	return &cli.Command{
		Name:    "opportunity",
		Aliases: []string{"opp"},
		Usage:   "Browse opportunities",
		Commands: []*cli.Command{
			cmdOpportunityList(apiCfg),
			cmdOpportunityGet(apiCfg),
		},
	}
}

func cmdOpportunityList(apiCfg *config.API) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List opportunities",
		Flags:   []cli.Flag{jsonFlag(&asJSON)},
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := apiCfg.NewStore()
			if err != nil {
				return err
			}

			store.FetchOpportunities(ctx)
			if msg := store.Error(); msg != "" {
				return goerr.New("failed to fetch opportunities", goerr.V("message", msg))
			}
			return (&printer{w: c.Root().Writer, asJSON: asJSON}).opportunities(store.Opportunities())
		},
	}
}

func cmdOpportunityGet(apiCfg *config.API) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "get",
		Usage:     "Show an opportunity and its risks",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{jsonFlag(&asJSON)},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}

			store, err := apiCfg.NewStore()
			if err != nil {
				return err
			}

			opp, err := store.FetchOpportunityByID(ctx, types.OpportunityID(id))
			if err != nil {
				return err
			}
			if err := store.FetchRisksByOpportunity(ctx, opp.ID); err != nil {
				return err
			}

			return (&printer{w: c.Root().Writer, asJSON: asJSON}).opportunityRisks(opp, store.Risks())
		},
	}
}
