package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/obralink/client/internal/application/orchestrate"
	"github.com/obralink/client/internal/application/session"
	appsync "github.com/obralink/client/internal/application/sync"
	"github.com/obralink/client/internal/domain/shared"
	"github.com/obralink/client/internal/infrastructure/config"
	"github.com/obralink/client/internal/infrastructure/contentstore"
	"github.com/obralink/client/internal/infrastructure/ledger"
	"github.com/obralink/client/internal/infrastructure/logger"
	"github.com/obralink/client/internal/infrastructure/wallet"
)

const dateLayout = "2006-01-02"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to start client", zap.Error(err))
	}
	defer app.Close()

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: obralink <command> [flags]

commands:
  status           show wallet and network state
  projects         list projects owned by the active account
  certifications   list certifications received and issued by the account
  tenders          list created tenders, open tenders, and the account's bids
  bids             list bids received by one tender (-tender <id>)
  verify           check a certification's validity on-chain (-id <id>)
  create-project   register a new project`)
}

// app holds the wired client. Everything hangs off the session's account.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	client   *ethclient.Client
	provider *wallet.KeystoreProvider
	session  *session.Manager
	store    *contentstore.Client
	trigger  *appsync.Trigger
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	client, err := ethclient.DialContext(ctx, cfg.Network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err)
	}

	store, err := contentstore.NewClient(cfg.Store.APIURL, cfg.Store.GatewayURL, log)
	if err != nil {
		client.Close()
		return nil, err
	}

	provider := wallet.NewKeystoreProvider(
		cfg.Network.KeystoreDir,
		cfg.Network.KeystorePassphrase,
		client,
		log,
	)
	mgr := session.NewManager(provider, cfg.Network.ExpectedChainID, log)

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		provider: provider,
		session:  mgr,
		store:    store,
		trigger:  appsync.NewTrigger(),
	}, nil
}

func (a *app) Close() {
	a.session.Close()
	a.provider.Close()
	a.client.Close()
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	if err := a.session.Connect(ctx); err != nil {
		return err
	}
	snap := a.session.Snapshot()
	if !snap.NetworkOK {
		fmt.Printf("warning: connected to chain %s, expected %d\n",
			snap.ChainID, a.cfg.Network.ExpectedChainID)
	}

	switch command {
	case "status":
		return a.status()
	case "projects":
		return a.listProjects(ctx)
	case "certifications":
		return a.listCertifications(ctx)
	case "tenders":
		return a.listTenders(ctx)
	case "bids":
		return a.listBids(ctx, args)
	case "verify":
		return a.verifyCertification(ctx, args)
	case "create-project":
		return a.createProject(ctx, args)
	default:
		usage()
		return fmt.Errorf("%w: unknown command %q", shared.ErrInvalidRequest, command)
	}
}

func (a *app) status() error {
	snap := a.session.Snapshot()
	fmt.Printf("account:    %s\n", snap.Account.Hex())
	fmt.Printf("chain:      %s\n", snap.ChainID)
	fmt.Printf("connected:  %t\n", snap.Connected)
	fmt.Printf("network ok: %t\n", snap.NetworkOK)
	return nil
}

func (a *app) synchronizer() (*appsync.Synchronizer, error) {
	projects, err := ledger.NewProjectsGateway(a.cfg.Contracts.Projects, a.client, ledger.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	certifications, err := ledger.NewCertificationsGateway(a.cfg.Contracts.Certifications, a.client, ledger.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	tenders, err := ledger.NewTendersGateway(a.cfg.Contracts.Tenders, a.client, ledger.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	return appsync.NewSynchronizer(
		projects, certifications, tenders,
		a.client,
		a.cfg.Sync.GenesisBlock, a.cfg.Sync.ScanChunkSize,
		a.log,
	), nil
}

func (a *app) listProjects(ctx context.Context) error {
	sync, err := a.synchronizer()
	if err != nil {
		return err
	}
	snap, err := sync.Projects(ctx, a.session.Snapshot().Account)
	if err != nil {
		return err
	}
	for _, p := range snap.Owned {
		fmt.Printf("#%s  %-24s %-10s budget %s  available %s\n",
			p.ID, p.Name, p.Phase, shared.FormatNative(p.TotalBudget), shared.FormatNative(p.AvailableFunds))
	}
	reportAdvisory(snap.Advisory)
	return nil
}

func (a *app) listCertifications(ctx context.Context) error {
	sync, err := a.synchronizer()
	if err != nil {
		return err
	}
	snap, err := sync.Certifications(ctx, a.session.Snapshot().Account)
	if err != nil {
		return err
	}
	now := time.Now()
	fmt.Println("received:")
	for _, c := range snap.Received {
		fmt.Printf("  #%s  %-24s %-8s from %s\n", c.ID, c.Name, c.StatusAt(now), shared.ShortenHex(c.Issuer.Hex()))
	}
	fmt.Println("issued:")
	for _, c := range snap.Issued {
		fmt.Printf("  #%s  %-24s %-8s to %s\n", c.ID, c.Name, c.StatusAt(now), shared.ShortenHex(c.Recipient.Hex()))
	}
	reportAdvisory(snap.Advisory)
	return nil
}

func (a *app) listTenders(ctx context.Context) error {
	sync, err := a.synchronizer()
	if err != nil {
		return err
	}
	snap, err := sync.Tenders(ctx, a.session.Snapshot().Account)
	if err != nil {
		return err
	}
	fmt.Println("created:")
	for _, t := range snap.Created {
		fmt.Printf("  #%s  %-24s open=%t awarded=%t max %s\n", t.ID, t.Name, t.Open, t.Awarded, shared.FormatNative(t.MaxBudget))
	}
	fmt.Println("open for bidding:")
	for _, t := range snap.OpenElsewhere {
		fmt.Printf("  #%s  %-24s by %s  deadline %s\n", t.ID, t.Name, shared.ShortenHex(t.Creator.Hex()), t.Deadline.Format(dateLayout))
	}
	fmt.Println("my bids:")
	for _, b := range snap.MyBids {
		fmt.Printf("  #%s  tender #%s  %s over %d days  selected=%t\n", b.ID, b.TenderID, shared.FormatNative(b.Amount), b.EstimatedDays, b.Selected)
	}
	if snap.ScanFailure != nil {
		fmt.Printf("warning: open-tender discovery failed: %v\n", snap.ScanFailure)
	}
	reportAdvisory(snap.Advisory)
	return nil
}

func (a *app) listBids(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bids", flag.ContinueOnError)
	tenderID := fs.String("tender", "", "tender id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, ok := new(big.Int).SetString(*tenderID, 10)
	if !ok {
		return shared.NewValidationError("tender", "must be a decimal id")
	}

	sync, err := a.synchronizer()
	if err != nil {
		return err
	}
	bids, err := sync.BidsForTender(ctx, id)
	advisory, err := splitAdvisory(err)
	if err != nil {
		return err
	}
	for _, b := range bids {
		fmt.Printf("#%s  %s  %s over %d days  proposal %s\n",
			b.ID, shared.ShortenHex(b.Bidder.Hex()), shared.FormatNative(b.Amount), b.EstimatedDays, a.store.ResolveURL(b.ProposalCID))
	}
	reportAdvisory(advisory)
	return nil
}

// splitAdvisory separates a best-effort partial-fetch notice from hard
// failures: advisories are reported alongside the partial result, hard
// failures abort the command.
func splitAdvisory(err error) (advisory, hard error) {
	if err == nil {
		return nil, nil
	}
	var partial *shared.PartialFetchError
	if errors.As(err, &partial) {
		return partial, nil
	}
	return nil, err
}

func (a *app) verifyCertification(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	rawID := fs.String("id", "", "certification id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, ok := new(big.Int).SetString(*rawID, 10)
	if !ok {
		return shared.NewValidationError("id", "must be a decimal id")
	}

	gw, err := ledger.NewCertificationsGateway(a.cfg.Contracts.Certifications, a.client, ledger.WithLogger(a.log))
	if err != nil {
		return err
	}
	valid, err := gw.Verify(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("certification #%s valid: %t\n", id, valid)
	return nil
}

func (a *app) createProject(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-project", flag.ContinueOnError)
	name := fs.String("name", "", "project name")
	location := fs.String("location", "", "project location")
	budget := fs.String("budget", "", "total budget in display units")
	start := fs.String("start", "", "start date (YYYY-MM-DD)")
	end := fs.String("end", "", "planned end date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	startDate, err := time.Parse(dateLayout, *start)
	if err != nil {
		return shared.NewValidationError("start", "must be YYYY-MM-DD")
	}
	endDate, err := time.Parse(dateLayout, *end)
	if err != nil {
		return shared.NewValidationError("end", "must be YYYY-MM-DD")
	}

	gw, err := ledger.NewProjectsGateway(
		a.cfg.Contracts.Projects, a.client,
		ledger.WithSigner(a.session.Signer()),
		ledger.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	orch := orchestrate.NewOrchestrator(a.store, a.trigger, a.log,
		orchestrate.WithStateListener(func(_ string, s orchestrate.State) {
			fmt.Printf("  %s\n", s)
		}),
	)
	action := orchestrate.CreateProjectAction(gw, orchestrate.CreateProjectInput{
		Name:           *name,
		Location:       *location,
		TotalBudget:    *budget,
		StartDate:      startDate,
		PlannedEndDate: endDate,
	})
	if err := orch.Run(ctx, action); err != nil {
		return err
	}
	fmt.Println("project created")
	return nil
}

func reportAdvisory(err error) {
	if err != nil {
		fmt.Printf("warning: some records could not be loaded: %v\n", err)
	}
}
