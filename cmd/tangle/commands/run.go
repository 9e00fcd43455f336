package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/net"
	"github.com/joshuadahlunr/tangle/node"
	"github.com/joshuadahlunr/tangle/snapshot"
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
)

var genesisAmount float64

// NewRunCmd returns the command that starts a tangle node.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a tangle node",
		PreRunE: loadConfig,
		RunE:    runTangle,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", appConfig.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", appConfig.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", appConfig.LogFile, "Additionally tee Info-and-above logs to this file")

	cmd.Flags().StringP("listen", "l", appConfig.BindAddr, "Listen IP:Port for the tangle node")
	cmd.Flags().StringP("advertise", "a", appConfig.AdvertiseAddr, "Advertise IP:Port for the tangle node")
	cmd.Flags().DurationP("timeout", "t", appConfig.TCPTimeout, "TCP dial/RPC timeout")
	cmd.Flags().Int("max-pool", appConfig.MaxPool, "Connection pool size per peer")
	cmd.Flags().Duration("heartbeat", appConfig.HeartbeatTimeout, "Time between gossip rounds")
	cmd.Flags().StringSlice("peers", appConfig.Peers, "Addresses of peers to bootstrap against")

	cmd.Flags().String("snapshot", appConfig.SnapshotPath, "File to load/save a pre-order tangle snapshot")
	cmd.Flags().String("badger-dir", appConfig.BadgerDir, "Directory for a badger-backed tangle snapshot")

	cmd.Flags().Float64Var(&genesisAmount, "genesis-amount", 1000000, "Initial supply minted by a freshly created genesis (only used when no snapshot/peers exist yet)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := bindFlagsLoadViper(cmd); err != nil {
		return err
	}
	appConfig.SetDataDir(appConfig.DataDir)
	return nil
}

func runTangle(cmd *cobra.Command, args []string) error {
	logger := appConfig.Logger()

	identity, err := keys.NewKeyFile(appConfig.Keyfile()).Load()
	if err != nil {
		return fmt.Errorf("loading identity key (run `tangle keygen` first): %w", err)
	}

	genesisTx, replay, sink, err := loadGenesisState(identity)
	if err != nil {
		return err
	}

	stream, err := net.NewTCPStreamLayer(appConfig.BindAddr, appConfig.AdvertiseAddr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkConnect, err)
	}
	transport := net.NewTCPTransport(stream, appConfig.MaxPool, appConfig.TCPTimeout, logger)

	nodeConf := node.Config{
		HeartbeatTimeout: appConfig.HeartbeatTimeout,
		BootstrapPeers:   appConfig.Peers,
	}

	n, err := node.New(nodeConf, genesisTx, transport, identity, logger)
	if err != nil {
		return fmt.Errorf("constructing node: %w", err)
	}

	for _, t := range replay {
		if _, err := n.Tangle().AddTransactionReplay(t); err != nil {
			logger.WithField("error", err).Warn("failed to replay snapshot transaction")
		}
	}

	if err := n.Init(); err != nil {
		return fmt.Errorf("bootstrapping peers: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	go n.Run(ctx)
	<-ctx.Done()

	if err := n.Shutdown(); err != nil {
		logger.WithField("error", err).Warn("error shutting down transport")
	}
	n.Wait()

	if err := saveGenesisState(n.Tangle(), sink); err != nil {
		logger.WithField("error", err).Warn("failed to persist snapshot on shutdown")
	}

	return nil
}

// loadGenesisState decides what genesis transaction and backlog a fresh
// node should start with: a previously persisted snapshot, if
// appConfig names one, otherwise a freshly mined genesis minting
// genesisAmount to identity's own account. sink is non-nil only when a
// badger-backed snapshot was opened, so runTangle can Save back to it
// on shutdown.
func loadGenesisState(identity keys.KeyPair) (genesisTx tx.Transaction, replay []tx.Transaction, sink *snapshot.BadgerSink, err error) {
	if appConfig.SnapshotPath != "" {
		if f, openErr := os.Open(appConfig.SnapshotPath); openErr == nil {
			defer f.Close()
			loaded, loadErr := snapshot.Load(f)
			if loadErr != nil {
				return tx.Transaction{}, nil, nil, fmt.Errorf("loading snapshot: %w", loadErr)
			}
			return genesisAndRest(loaded)
		}
	}

	if appConfig.BadgerDir != "" {
		s, openErr := snapshot.OpenBadgerSink(appConfig.BadgerDir)
		if openErr != nil {
			return tx.Transaction{}, nil, nil, fmt.Errorf("opening badger snapshot: %w", openErr)
		}
		if loaded, loadErr := s.Load(); loadErr == nil {
			genesisTx, replay, _, err = genesisAndRest(loaded)
			return genesisTx, replay, s, err
		}
		genesisTx, err = mintGenesis(identity)
		return genesisTx, nil, s, err
	}

	genesisTx, err = mintGenesis(identity)
	return genesisTx, nil, nil, err
}

func genesisAndRest(loaded *tangle.Tangle) (tx.Transaction, []tx.Transaction, *snapshot.BadgerSink, error) {
	genesis := loaded.Genesis()
	if genesis == nil {
		return tx.Transaction{}, nil, nil, fmt.Errorf("snapshot has no genesis")
	}
	var rest []tx.Transaction
	for _, n := range loaded.PreOrder() {
		rest = append(rest, n.Transaction)
	}
	return genesis.Transaction, rest, nil, nil
}

func mintGenesis(identity keys.KeyPair) (tx.Transaction, error) {
	genesisTx := tx.Transaction{
		Outputs: []tx.Output{{Account: identity.Public(), Amount: genesisAmount}},
	}
	if err := tx.Mine(&genesisTx, 1, nil); err != nil {
		return tx.Transaction{}, fmt.Errorf("mining genesis: %w", err)
	}
	return genesisTx, nil
}

func saveGenesisState(tg *tangle.Tangle, sink *snapshot.BadgerSink) error {
	if sink != nil {
		defer sink.Close()
		return sink.Save(tg)
	}
	if appConfig.SnapshotPath != "" {
		f, err := os.Create(appConfig.SnapshotPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return snapshot.Save(f, tg)
	}
	return nil
}
