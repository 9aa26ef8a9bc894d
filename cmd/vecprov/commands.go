package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecprov/internal/catalog"
	"github.com/kailas-cloud/vecprov/internal/metrics"
	collectionrepo "github.com/kailas-cloud/vecprov/internal/repository/collection"
	"github.com/kailas-cloud/vecprov/internal/usecase/provision"
	"github.com/kailas-cloud/vecprov/internal/usecase/readiness"
)

func newProvisionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create missing collections and print the inventory (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProvision(cmd.Context())
		},
	}
}

func newInventoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Print the collections the store holds without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInventory(cmd.Context())
		},
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the resolved catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			specs, err := catalog.Resolve(a.cfg.Catalog.Path)
			if err != nil {
				return err
			}
			data, err := catalog.Marshal(specs)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	}
}

// runProvision waits for the store, applies the catalog and prints the inventory.
func (a *app) runProvision(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	defer a.pushMetrics()

	specs, err := catalog.Resolve(a.cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("resolve catalog: %w", err)
	}

	repo, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	_, err = provision.New(repo, newTextReporter(a.out)).Run(ctx, specs)
	return err
}

// runInventory waits for the store and prints what it holds.
func (a *app) runInventory(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	defer a.pushMetrics()

	repo, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	rep := newTextReporter(a.out)
	entries := provision.New(repo, rep).Inventory(ctx)
	rep.Done(provision.Summary{Inventory: entries})
	return nil
}

// open blocks until the configured store accepts a connection.
func (a *app) open(ctx context.Context) (*collectionrepo.Repo, error) {
	connect, err := newConnector(a.cfg.Store, a.log)
	if err != nil {
		return nil, err
	}
	rc := readiness.Config{
		MaxAttempts: a.cfg.Readiness.MaxAttempts,
		Interval:    a.cfg.Readiness.Interval(),
	}
	repo, err := readiness.Wait(ctx, rc, collectionrepo.Opener(connect))
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// pushMetrics sends the run's metrics to the Pushgateway when one is configured.
// Failures are logged only.
func (a *app) pushMetrics() {
	m := a.cfg.Metrics
	if m.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(m.PushTimeoutSec)*time.Second)
	defer cancel()

	if err := metrics.Push(ctx, m.PushgatewayURL, m.Job); err != nil {
		a.log.Warn("metrics push failed", zap.Error(err))
		return
	}
	a.log.Debug("metrics pushed", zap.String("url", m.PushgatewayURL), zap.String("job", m.Job))
}
