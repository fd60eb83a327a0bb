package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/s0_data"
	"github.com/wonny/weekday-effect/internal/s0_data/sector"
	"github.com/wonny/weekday-effect/pkg/config"
	"github.com/wonny/weekday-effect/pkg/database"
	"github.com/wonny/weekday-effect/pkg/httputil"
	"github.com/wonny/weekday-effect/pkg/logger"
	"github.com/wonny/weekday-effect/pkg/redis"
)

// sourceFlags are the S0 flags shared by analyze, dates and sectors
type sourceFlags struct {
	input           string
	sectors         string
	sectorsHTML     string
	sectorsSelector string
	schema          string
	sheet           string
	source          string
	from            string
	to              string
}

// sources bundles the S0 collaborators of a run
type sources struct {
	table   contracts.TableSource
	sectors contracts.SectorSource
	label   string
	close   func()
}

// apply copies explicitly set flags over the loaded config
func (f *sourceFlags) apply(cfg *config.Config, changed func(string) bool) {
	if changed("input") {
		cfg.Input.Path = f.input
	}
	if changed("sectors") {
		cfg.Input.SectorPath = f.sectors
	}
	if changed("schema") {
		cfg.Input.SchemaPath = f.schema
	}
	if changed("sheet") {
		cfg.Input.Sheet = f.sheet
	}
	if changed("source") {
		cfg.Input.Source = f.source
	}
}

// buildSources wires the table and sector sources selected by config
func buildSources(ctx context.Context, cfg *config.Config, f *sourceFlags, log *logger.Logger) (*sources, error) {
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	var sectorSource contracts.SectorSource
	switch {
	case f.sectorsHTML != "":
		html := &sector.HTMLSource{Path: f.sectorsHTML, Selector: f.sectorsSelector, Logger: log}
		if sector.IsRemote(f.sectorsHTML) {
			client, closeClient, err := newHTTPClient(ctx, cfg, log)
			if err != nil {
				return nil, err
			}
			closers = append(closers, closeClient)
			html.Client = client
		}
		sectorSource = html
	case cfg.Input.SectorPath != "":
		sectorSource = &sector.FileSource{Path: cfg.Input.SectorPath, Logger: log}
	}

	if cfg.Input.Source == "postgres" {
		src, err := postgresSources(ctx, cfg, f, sectorSource, log)
		if err != nil {
			closeAll()
			return nil, err
		}
		closeDB := src.close
		src.close = func() { closeDB(); closeAll() }
		return src, nil
	}

	path, err := s0_data.Discover(cfg.Input.Path, cfg.InputCandidates())
	if err != nil {
		closeAll()
		return nil, err
	}

	schema, err := s0_data.LoadSchema(cfg.Input.SchemaPath)
	if err != nil {
		closeAll()
		return nil, err
	}

	table := s0_data.NewFileSource(path, s0_data.LoadOptions{
		Schema: schema,
		Sheet:  cfg.Input.Sheet,
		Logger: log,
	})

	return &sources{table: table, sectors: sectorSource, label: path, close: closeAll}, nil
}

// newHTTPClient builds the page client, caching bodies in Redis when enabled
func newHTTPClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (*httputil.Client, func(), error) {
	client := httputil.New(cfg, log)

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	if rc.Enabled() {
		client.WithCache(redis.NewCache(rc, "weekday"), cfg.Redis.TTL)
		log.WithField("addr", rc.Addr()).Debug("page cache enabled")
	}

	return client, func() { _ = rc.Close() }, nil
}

// postgresSources reads prices (and sectors unless a mapping file was given) from the database
func postgresSources(ctx context.Context, cfg *config.Config, f *sourceFlags, sectorSource contracts.SectorSource, log *logger.Logger) (*sources, error) {
	to := time.Now()
	if f.to != "" {
		parsed, err := time.Parse("2006-01-02", f.to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date: %w", err)
		}
		to = parsed
	}
	from := to.AddDate(-1, 0, 0)
	if f.from != "" {
		parsed, err := time.Parse("2006-01-02", f.from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date: %w", err)
		}
		from = parsed
	}
	if from.After(to) {
		return nil, fmt.Errorf("--from %s is after --to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pg := s0_data.NewPostgresSource(db.Pool, from, to, log)
	if f.sectors == "" && f.sectorsHTML == "" {
		sectorSource = pg
	}

	return &sources{
		table:   pg,
		sectors: sectorSource,
		label:   fmt.Sprintf("postgres %s ~ %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		close:   db.Close,
	}, nil
}

// addSourceFlags registers the S0 flags on a command
func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.input, "input", "", "input table path (.csv, .xlsx)")
	cmd.Flags().StringVar(&f.sectors, "sectors", "", "sector mapping text file (Company|Sector)")
	cmd.Flags().StringVar(&f.sectorsHTML, "sectors-html", "", "sector mapping HTML table (file path or http(s) URL)")
	cmd.Flags().StringVar(&f.sectorsSelector, "sectors-selector", "", "CSS selector of the sector table (default: table)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "table schema YAML")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().StringVar(&f.source, "source", "", "table source (file|postgres)")
	cmd.Flags().StringVar(&f.from, "from", "", "postgres start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "postgres end date (YYYY-MM-DD)")
}
