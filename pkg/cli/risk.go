package cli

import (
	"context"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/oprisk/pkg/cli/config"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

var (
	errMissingID      = goerr.New("ID argument is required")
	errNothingToPatch = goerr.New("no field to update")
	errInvalidParam   = goerr.New("invalid list parameter")
)

func jsonFlag(dst *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "Print JSON instead of a table",
		Destination: dst,
	}
}

func idArg(c *cli.Command) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", goerr.Wrap(errMissingID, "usage: "+c.FullName()+" <id>")
	}
	return id, nil
}

// parseParams reads key=value pairs into URL parameters.
func parseParams(pairs []string) (url.Values, error) {
	v := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, goerr.Wrap(errInvalidParam, "expected key=value", goerr.V("param", pair))
		}
		v.Add(key, value)
	}
	return v, nil
}

func cmdRisk(apiCfg *config.API) *cli.Command {
	return &cli.Command{
		Name:  "risk",
		Usage: "Manage risks",
		Commands: []*cli.Command{
			cmdRiskList(apiCfg),
			cmdRiskCreate(apiCfg),
			cmdRiskUpdate(apiCfg),
			cmdRiskDelete(apiCfg),
			cmdRiskValueHelp(apiCfg),
		},
	}
}

func cmdRiskList(apiCfg *config.API) *cli.Command {
	var (
		status, impact, probability string
		search, opportunityID       string
		groupByStatus, highImpact   bool
		asJSON                      bool
		params                      []string
	)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List risks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Usage: "Show only risks with this status", Destination: &status},
			&cli.StringFlag{Name: "impact", Usage: "Show only risks with this impact", Destination: &impact},
			&cli.StringFlag{Name: "probability", Usage: "Show only risks with this probability", Destination: &probability},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Case insensitive search in descriptions", Destination: &search},
			&cli.StringFlag{Name: "opportunity", Usage: "List the risks of this opportunity", Destination: &opportunityID},
			&cli.StringSliceFlag{Name: "param", Usage: "Extra list parameter as key=value (repeatable)", Destination: &params},
			&cli.BoolFlag{Name: "group-by-status", Usage: "Group risks by status", Destination: &groupByStatus},
			&cli.BoolFlag{Name: "high-impact", Usage: "Show only High and Very High impact risks", Destination: &highImpact},
			jsonFlag(&asJSON),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			filters := model.Filters{
				Status:      types.RiskStatus(status),
				Impact:      types.Impact(impact),
				Probability: types.Probability(probability),
				Search:      search,
			}

			extra, err := parseParams(params)
			if err != nil {
				return err
			}

			store, err := apiCfg.NewStore()
			if err != nil {
				return err
			}
			store.SetFilters(model.FilterPatch{
				Status:      &filters.Status,
				Impact:      &filters.Impact,
				Probability: &filters.Probability,
				Search:      &filters.Search,
			})

			if opportunityID != "" {
				err = store.FetchRisksByOpportunity(ctx, types.OpportunityID(opportunityID))
			} else {
				query := filters.Query()
				query.Extra = extra
				err = store.FetchRisks(ctx, query)
			}
			if err != nil {
				return err
			}

			p := &printer{w: c.Root().Writer, asJSON: asJSON}
			snap := store.Snapshot()
			snap.Risks = snap.FilteredRisks()

			switch {
			case groupByStatus:
				return p.riskGroups(snap.RisksByStatus())
			case highImpact:
				return p.risks(snap.HighImpactRisks())
			default:
				return p.risks(snap.Risks)
			}
		},
	}
}

// riskFieldFlags declares the editable fields of a risk.
type riskFieldFlags struct {
	description   string
	impact        string
	probability   string
	status        string
	opportunityID string
}

func (x *riskFieldFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Risk description", Destination: &x.description},
		&cli.StringFlag{Name: "impact", Usage: "Impact level", Destination: &x.impact},
		&cli.StringFlag{Name: "probability", Usage: "Probability level", Destination: &x.probability},
		&cli.StringFlag{Name: "status", Usage: "Risk status", Destination: &x.status},
		&cli.StringFlag{Name: "opportunity", Usage: "Opportunity the risk belongs to", Destination: &x.opportunityID},
	}
}

func (x *riskFieldFlags) Input() model.RiskInput {
	return model.RiskInput{
		Description:   x.description,
		Impact:        types.Impact(x.impact),
		Probability:   types.Probability(x.probability),
		Status:        types.RiskStatus(x.status),
		OpportunityID: types.OpportunityID(x.opportunityID),
	}
}

// Patch contains only the flags given on the command line.
func (x *riskFieldFlags) Patch(c *cli.Command) model.RiskPatch {
	var patch model.RiskPatch
	if c.IsSet("description") {
		patch.Description = &x.description
	}
	if c.IsSet("impact") {
		v := types.Impact(x.impact)
		patch.Impact = &v
	}
	if c.IsSet("probability") {
		v := types.Probability(x.probability)
		patch.Probability = &v
	}
	if c.IsSet("status") {
		v := types.RiskStatus(x.status)
		patch.Status = &v
	}
	if c.IsSet("opportunity") {
		v := types.OpportunityID(x.opportunityID)
		patch.OpportunityID = &v
	}
	return patch
}

func cmdRiskCreate(apiCfg *config.API) *cli.Command {
	var fields riskFieldFlags
	var asJSON bool

	return &cli.Command{
		Name:  "create",
		Usage: "Create a risk",
		Flags: append(fields.Flags(), jsonFlag(&asJSON)),
		Action: func(ctx context.Context, c *cli.Command) error {
			if fields.description == "" {
				return goerr.New("--description is required")
			}

			store, err := apiCfg.NewStore()
			if err != nil {
				return err
			}

			created, err := store.CreateRisk(ctx, fields.Input())
			if err != nil {
				return err
			}
			return (&printer{w: c.Root().Writer, asJSON: asJSON}).risk(created)
		},
	}
}

func cmdRiskUpdate(apiCfg *config.API) *cli.Command {
	var fields riskFieldFlags
	var asJSON bool

	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of a risk",
		ArgsUsage: "<id>",
		Flags:     append(fields.Flags(), jsonFlag(&asJSON)),
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}

			patch := fields.Patch(c)
			if patch.IsEmpty() {
				return goerr.Wrap(errNothingToPatch, "set at least one field flag", goerr.V("id", id))
			}

			store, err := apiCfg.NewStore()
			if err != nil {
				return err
			}

			updated, err := store.UpdateRisk(ctx, types.RiskID(id), patch)
			if err != nil {
				return err
			}
			return (&printer{w: c.Root().Writer, asJSON: asJSON}).risk(updated)
		},
	}
}

func cmdRiskDelete(apiCfg *config.API) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a risk",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}

			store, err := apiCfg.NewStore()
			if err != nil {
				return err
			}

			if err := store.DeleteRisk(ctx, types.RiskID(id)); err != nil {
				return err
			}
			(&printer{w: c.Root().Writer}).section("deleted " + id)
			return nil
		},
	}
}

func cmdRiskValueHelp(apiCfg *config.API) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "value-help",
		Usage: "Show allowed impact, probability and status codes",
		Flags: []cli.Flag{jsonFlag(&asJSON)},
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := apiCfg.NewStore()
			if err != nil {
				return err
			}

			store.FetchValueHelp(ctx)
			if msg := store.Error(); msg != "" {
				return goerr.New("failed to fetch value help", goerr.V("message", msg))
			}
			return (&printer{w: c.Root().Writer, asJSON: asJSON}).valueHelp(store.ValueHelp())
		},
	}
}
