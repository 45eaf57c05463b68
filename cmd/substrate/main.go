// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/0xbuidlman/substrate/dot/state"
	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/babe"
	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/0xbuidlman/substrate/lib/crypto/ed25519"
	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/0xbuidlman/substrate/lib/grandpa"
	"github.com/0xbuidlman/substrate/lib/transaction"
	"github.com/ChainSafe/gossamer/pkg/scale"
	log "github.com/ChainSafe/log15"
	"github.com/urfave/cli"
)

var logger = log.New("pkg", "cmd")

func main() {
	app := cli.NewApp()
	app.Name = "substrate"
	app.Usage = "demo consensus node: produces blocks with VRF slot claims and rotates the finality authority set"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "basepath",
			Usage: "data directory; empty runs an in-memory database",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "info",
			Usage: "log level: trace|debug|info|warn|error",
		},
		cli.Uint64Flag{
			Name:  "minimum-period",
			Value: 3000,
			Usage: "minimum block period in milliseconds; slots last twice this",
		},
		cli.UintFlag{
			Name:  "authorities",
			Value: 3,
			Usage: "number of authorities to generate",
		},
		cli.UintFlag{
			Name:  "blocks",
			Value: 10,
			Usage: "number of blocks to produce",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logger.Crit("node failed", "error", err)
		os.Exit(1)
	}
}

// system collects the header logs and events deposited while a block is
// being built
type system struct {
	logs   []string
	events []string
}

func (s *system) DepositLog(item scale.VaryingDataTypeValue) error {
	s.logs = append(s.logs, fmt.Sprintf("%s", item))
	return nil
}

func (s *system) DepositEvent(event any) error {
	s.events = append(s.events, fmt.Sprintf("%s", event))
	return nil
}

func (s *system) drain() (logs, events []string) {
	logs, events = s.logs, s.events
	s.logs, s.events = nil, nil
	return logs, events
}

func run(ctx *cli.Context) error {
	lvl, err := log.LvlFromString(ctx.String("log"))
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stdout, log.TerminalFormat())))

	basepath := ctx.String("basepath")
	db, err := state.SetupDatabase(basepath, basepath == "")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	numAuths := int(ctx.Uint("authorities"))
	blocks := uint(ctx.Uint("blocks"))
	minimumPeriod := ctx.Uint64("minimum-period")

	babeKeys := make([]*sr25519.Keypair, numAuths)
	babeAuths := make([]types.AuthorityRaw, numAuths)
	grandpaKeys := make([]*ed25519.Keypair, numAuths)
	grandpaAuths := make([]types.GrandpaAuthoritiesRaw, numAuths)
	for i := 0; i < numAuths; i++ {
		babeKeys[i], err = sr25519.GenerateKeypair()
		if err != nil {
			return fmt.Errorf("generating sr25519 keypair: %w", err)
		}
		babeAuths[i] = types.AuthorityRaw{
			Key:    babeKeys[i].Public().(*sr25519.PublicKey).AsBytes(),
			Weight: 1,
		}

		grandpaKeys[i], err = ed25519.GenerateKeypair()
		if err != nil {
			return fmt.Errorf("generating ed25519 keypair: %w", err)
		}
		grandpaAuths[i] = types.GrandpaAuthoritiesRaw{
			Key: grandpaKeys[i].Public().(*ed25519.PublicKey).AsBytes(),
			ID:  uint64(i),
		}
	}

	babeState := state.NewBabeState(db)
	grandpaState := state.NewGrandpaState(db)
	sys := new(system)

	err = babeState.SetAuthorities(babeAuths)
	if err != nil {
		return err
	}
	err = grandpaState.SetAuthorities(grandpaAuths)
	if err != nil {
		return err
	}

	babeSrv, err := babe.NewService(babeState, sys, minimumPeriod)
	if err != nil {
		return err
	}
	scheduler, err := grandpa.NewScheduler(grandpaState, sys)
	if err != nil {
		return err
	}

	threshold, err := babe.CalculateThreshold(1, 4, numAuths)
	if err != nil {
		return fmt.Errorf("calculating threshold: %w", err)
	}

	logger.Info("starting demo chain", "authorities", numAuths, "blocks", blocks,
		"slotDuration", babeSrv.SlotDuration())

	parentHash := common.Hash{}
	timestamp := uint64(time.Now().UnixMilli())
	var number uint
	slot := babeSrv.CurrentSlot(timestamp)

	for number < blocks {
		preDigest, authorityIndex := claimSlot(babeSrv, slot, threshold, babeKeys)
		if preDigest == nil {
			logger.Debug("slot unclaimed", "slot", slot)
			slot++
			timestamp += babeSrv.SlotDuration()
			continue
		}

		number++

		prd, err := preDigest.ToPreRuntimeDigest()
		if err != nil {
			return fmt.Errorf("building pre-runtime digest: %w", err)
		}

		digest := types.NewDigest()
		err = digest.Add(*prd)
		if err != nil {
			return fmt.Errorf("building digest: %w", err)
		}

		inherents := types.NewInherentData()
		err = inherents.SetInherent(types.Timstap0, timestamp)
		if err != nil {
			return err
		}
		err = inherents.SetInherent(types.Babeslot, slot)
		if err != nil {
			return err
		}

		err = babeSrv.OnInitialize(digest)
		if err != nil {
			return fmt.Errorf("block %d: %w", number, err)
		}

		err = babeSrv.CheckInherent(inherents, timestamp)
		if err != nil {
			return fmt.Errorf("block %d: %w", number, err)
		}

		err = babeSrv.NoteTimestamp(timestamp)
		if err != nil {
			return fmt.Errorf("block %d: %w", number, err)
		}

		// schedule a standard change early in the run so it applies mid-run
		if number == 3 {
			err = scheduler.ScheduleChange(uint32(number), rotate(grandpaAuths), 2, nil)
			if err != nil {
				return fmt.Errorf("scheduling change: %w", err)
			}
		}

		err = scheduler.OnFinalize(uint32(number))
		if err != nil {
			return fmt.Errorf("finalizing block %d: %w", number, err)
		}

		header := types.NewHeader(parentHash, common.Hash{}, common.Hash{}, number, digest)
		parentHash = header.Hash()

		randomness, err := babeSrv.Randomness()
		if err != nil {
			return err
		}

		logs, events := sys.drain()
		logger.Info("produced block", "number", number, "slot", slot,
			"author", authorityIndex, "hash", header.Hash(),
			"randomness", fmt.Sprintf("0x%x", randomness))
		for _, l := range logs {
			logger.Info("header log", "number", number, "item", l)
		}
		for _, e := range events {
			logger.Info("event", "number", number, "event", e)
		}

		slot++
		timestamp += babeSrv.SlotDuration()
	}

	return reportEquivocation(grandpaState, grandpaKeys[0], grandpaAuths[0])
}

// claimSlot tries each authority in turn until one is below the threshold
func claimSlot(babeSrv *babe.Service, slot uint64, threshold *scale.Uint128,
	keys []*sr25519.Keypair) (*types.BabePreDigest, uint32) {
	for i, kp := range keys {
		preDigest, err := babeSrv.ClaimSlot(slot, 0, threshold, kp, uint32(i))
		if errors.Is(err, babe.ErrNotAuthorized) {
			continue
		} else if err != nil {
			logger.Warn("slot claim failed", "slot", slot, "authority", i, "error", err)
			continue
		}
		return preDigest, uint32(i)
	}
	return nil, 0
}

// rotate drops the first authority, a stand-in for a real validator election
func rotate(auths []types.GrandpaAuthoritiesRaw) []types.GrandpaAuthoritiesRaw {
	if len(auths) < 2 {
		return auths
	}
	next := make([]types.GrandpaAuthoritiesRaw, len(auths)-1)
	copy(next, auths[1:])
	return next
}

// reportEquivocation forges a double-vote by the given voter, verifies the
// proof and queues the accepted report
func reportEquivocation(grandpaState *state.GrandpaState, kp *ed25519.Keypair,
	auth types.GrandpaAuthoritiesRaw) error {
	setID, err := grandpaState.SetID()
	if err != nil {
		return err
	}

	const round = 1
	first, err := signVote(kp, types.GrandpaVote{Hash: common.Hash{0x0a}, Number: 1}, round, setID)
	if err != nil {
		return err
	}
	second, err := signVote(kp, types.GrandpaVote{Hash: common.Hash{0x0b}, Number: 1}, round, setID)
	if err != nil {
		return err
	}

	proof := grandpa.NewEquivocationProof(setID, round, grandpa.Prevote, auth.Key, *first, *second)
	validity, err := grandpa.ValidateUnsigned(proof)
	if err != nil {
		return fmt.Errorf("validating equivocation report: %w", err)
	}

	pool := transaction.NewPool()
	enc, err := scale.Marshal(*proof)
	if err != nil {
		return err
	}
	hash := pool.Insert(transaction.NewValidTransaction(enc, validity))

	logger.Info("queued equivocation report", "offender", proof.Offender,
		"validity", validity, "hash", hash)
	return nil
}

func signVote(kp *ed25519.Keypair, vote types.GrandpaVote,
	round, setID uint64) (*types.GrandpaSignedVote, error) {
	fv := grandpa.FullVote{
		Stage: grandpa.Prevote,
		Vote:  vote,
		Round: round,
		SetID: setID,
	}

	msg, err := fv.Encode()
	if err != nil {
		return nil, err
	}

	sig, err := kp.Sign(msg)
	if err != nil {
		return nil, err
	}

	pub := kp.Public().(*ed25519.PublicKey)
	return &types.GrandpaSignedVote{
		Vote:        vote,
		Signature:   ed25519.NewSignatureBytes(sig),
		AuthorityID: pub.AsBytes(),
	}, nil
}
