package ledgercontroller_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	ledgercontroller "tokengate/contexts/asset-control/ledger-controller"
	"tokengate/contexts/asset-control/ledger-controller/adapters/memory"
	metricsadapter "tokengate/contexts/asset-control/ledger-controller/adapters/metrics"
	"tokengate/contexts/asset-control/ledger-controller/application/commands"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	mintID          = valueobjects.Identity{1}
	adminID         = valueobjects.Identity{2}
	mintAuthority   = valueobjects.Identity{3}
	freezeAuthority = valueobjects.Identity{4}
	holderID        = valueobjects.Identity{5}
	treasuryAccount = valueobjects.Identity{6}
	otherAccount    = valueobjects.Identity{7}
	otherOwner      = valueobjects.Identity{8}
	strangerID      = valueobjects.Identity{9}
	mintB           = valueobjects.Identity{10}
	treasuryB       = valueobjects.Identity{11}
)

func newInitializedModule(t *testing.T) ledgercontroller.Module {
	t.Helper()
	module := ledgercontroller.NewInMemoryModule(nil)
	openAccounts(t, module.Ledger)
	if _, err := module.Handler.Initialize.Execute(context.Background(), initializeCommand()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return module
}

func openAccounts(t *testing.T, ledger *memory.Ledger) {
	t.Helper()
	if err := ledger.OpenAccount(treasuryAccount, mintID, holderID); err != nil {
		t.Fatalf("open treasury: %v", err)
	}
	if err := ledger.OpenAccount(otherAccount, mintID, otherOwner); err != nil {
		t.Fatalf("open other: %v", err)
	}
}

func initializeCommand() commands.InitializeAssetCommand {
	return commands.InitializeAssetCommand{
		Mint:            mintID,
		Creator:         adminID,
		MintAuthority:   mintAuthority,
		FreezeAuthority: freezeAuthority,
		Destination:     treasuryAccount,
	}
}

func pause(t *testing.T, module ledgercontroller.Module) {
	t.Helper()
	if _, err := module.Handler.Pause.Execute(context.Background(), commands.PauseCommand{Mint: mintID, Caller: adminID}); err != nil {
		t.Fatalf("pause: %v", err)
	}
}

func pendingEventTypes(t *testing.T, module ledgercontroller.Module) []string {
	t.Helper()
	pending, err := module.Store.ListPendingOutbox(context.Background(), 100)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	types := make([]string, 0, len(pending))
	for _, message := range pending {
		types = append(types, message.EventType)
	}
	return types
}

func TestInitializeAssetCreditsInitialSupplyToDestinationOnly(t *testing.T) {
	module := ledgercontroller.NewInMemoryModule(nil)
	openAccounts(t, module.Ledger)

	result, err := module.Handler.Initialize.Execute(context.Background(), initializeCommand())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if result.State.IsPaused || result.State.Admin != adminID {
		t.Fatalf("unexpected initial state %+v", result.State)
	}
	if result.InitialSupply != 100_000_000*1_000_000_000 || result.Decimals != 9 {
		t.Fatalf("unexpected supply %d/%d", result.InitialSupply, result.Decimals)
	}

	stored, err := module.Handler.GetState.Execute(context.Background(), mintID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if stored != result.State {
		t.Fatalf("expected stored %+v, got %+v", result.State, stored)
	}

	mint, ok := module.Ledger.Mint(mintID)
	if !ok || mint.Supply != valueobjects.InitialSupply || mint.Decimals != 9 {
		t.Fatalf("unexpected ledger mint %+v", mint)
	}
	if mint.MintAuthority != mintAuthority || mint.FreezeAuthority != freezeAuthority {
		t.Fatalf("unexpected ledger authorities %+v", mint)
	}
	treasury, _ := module.Ledger.Account(treasuryAccount)
	other, _ := module.Ledger.Account(otherAccount)
	if treasury.Amount != valueobjects.InitialSupply || other.Amount != 0 {
		t.Fatalf("unexpected balances treasury=%d other=%d", treasury.Amount, other.Amount)
	}

	if got := pendingEventTypes(t, module); !reflect.DeepEqual(got, []string{commands.EventAssetInitialized}) {
		t.Fatalf("unexpected outbox %v", got)
	}
}

func TestInitializeAssetTwiceIsRejectedWithoutLedgerCalls(t *testing.T) {
	module := newInitializedModule(t)
	calls := len(module.Ledger.Calls())

	_, err := module.Handler.Initialize.Execute(context.Background(), initializeCommand())
	if !errors.Is(err, domainerrors.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	if got := len(module.Ledger.Calls()); got != calls {
		t.Fatalf("expected no ledger calls, got %d new", got-calls)
	}
}

func TestInitializeAssetRollsBackWhenIssueFails(t *testing.T) {
	module := ledgercontroller.NewInMemoryModule(nil)
	openAccounts(t, module.Ledger)
	boom := errors.New("ledger offline")
	module.Ledger.FailNext("issue", boom)

	_, err := module.Handler.Initialize.Execute(context.Background(), initializeCommand())
	if !errors.Is(err, boom) {
		t.Fatalf("expected ledger error, got %v", err)
	}
	if _, err := module.Handler.GetState.Execute(context.Background(), mintID); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("expected no control state, got %v", err)
	}
	if _, ok := module.Ledger.Mint(mintID); ok {
		t.Fatalf("expected created asset to be rolled back")
	}
	if got := pendingEventTypes(t, module); len(got) != 0 {
		t.Fatalf("expected empty outbox, got %v", got)
	}

	if _, err := module.Handler.Initialize.Execute(context.Background(), initializeCommand()); err != nil {
		t.Fatalf("retry initialize: %v", err)
	}
}

func TestPausedAssetOperationsReturnContractPausedAndLeaveLedgerUnchanged(t *testing.T) {
	module := newInitializedModule(t)
	pause(t, module)

	ctx := context.Background()
	before := module.Ledger.Snapshot()
	calls := len(module.Ledger.Calls())

	attempts := map[string]func() error{
		"issue": func() error {
			_, err := module.Handler.Issue.Execute(ctx, commands.IssueCommand{Mint: mintID, Destination: otherAccount, Authority: mintAuthority, Amount: 10})
			return err
		},
		"destroy": func() error {
			_, err := module.Handler.Destroy.Execute(ctx, commands.DestroyCommand{Mint: mintID, Source: treasuryAccount, Authority: holderID, Amount: 10})
			return err
		},
		"move": func() error {
			_, err := module.Handler.Move.Execute(ctx, commands.MoveCommand{Mint: mintID, Source: treasuryAccount, Destination: otherAccount, Authority: holderID, Amount: 10})
			return err
		},
		"freeze": func() error {
			_, err := module.Handler.Freeze.Execute(ctx, commands.FreezeCommand{Mint: mintID, Account: otherAccount, Authority: freezeAuthority})
			return err
		},
		"unfreeze": func() error {
			_, err := module.Handler.Unfreeze.Execute(ctx, commands.FreezeCommand{Mint: mintID, Account: otherAccount, Authority: freezeAuthority})
			return err
		},
	}
	for name, attempt := range attempts {
		if err := attempt(); !errors.Is(err, domainerrors.ErrContractPaused) {
			t.Fatalf("%s: expected ErrContractPaused, got %v", name, err)
		}
	}

	if after := module.Ledger.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("ledger changed while paused")
	}
	if got := len(module.Ledger.Calls()); got != calls {
		t.Fatalf("expected nothing forwarded, got %d calls", got-calls)
	}
}

func TestActiveAssetOperationsForwardRequestsUnmodified(t *testing.T) {
	module := newInitializedModule(t)
	ctx := context.Background()

	if _, err := module.Handler.Issue.Execute(ctx, commands.IssueCommand{Mint: mintID, Destination: otherAccount, Authority: mintAuthority, Amount: 500}); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := module.Handler.Move.Execute(ctx, commands.MoveCommand{Mint: mintID, Source: treasuryAccount, Destination: otherAccount, Authority: holderID, Amount: 200}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, err := module.Handler.Destroy.Execute(ctx, commands.DestroyCommand{Mint: mintID, Source: otherAccount, Authority: otherOwner, Amount: 100}); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := module.Handler.Freeze.Execute(ctx, commands.FreezeCommand{Mint: mintID, Account: otherAccount, Authority: freezeAuthority}); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if account, _ := module.Ledger.Account(otherAccount); !account.Frozen {
		t.Fatalf("expected account frozen")
	}
	if _, err := module.Handler.Unfreeze.Execute(ctx, commands.FreezeCommand{Mint: mintID, Account: otherAccount, Authority: freezeAuthority}); err != nil {
		t.Fatalf("unfreeze: %v", err)
	}

	calls := module.Ledger.Calls()
	expected := []memory.LedgerCall{
		{Operation: "issue", Mint: mintID, Destination: otherAccount, Authority: mintAuthority, Amount: 500},
		{Operation: "move", Source: treasuryAccount, Destination: otherAccount, Authority: holderID, Amount: 200},
		{Operation: "destroy", Mint: mintID, Source: otherAccount, Authority: otherOwner, Amount: 100},
		{Operation: "freeze", Mint: mintID, Account: otherAccount, Authority: freezeAuthority},
		{Operation: "unfreeze", Mint: mintID, Account: otherAccount, Authority: freezeAuthority},
	}
	if got := calls[len(calls)-len(expected):]; !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected forwarded calls:\n got %+v\nwant %+v", got, expected)
	}

	other, _ := module.Ledger.Account(otherAccount)
	if other.Amount != 600 || other.Frozen {
		t.Fatalf("unexpected other account %+v", other)
	}
	mint, _ := module.Ledger.Mint(mintID)
	if mint.Supply != valueobjects.InitialSupply+400 {
		t.Fatalf("unexpected supply %d", mint.Supply)
	}
}

func TestLedgerErrorsPropagateUnmodified(t *testing.T) {
	module := newInitializedModule(t)
	ctx := context.Background()

	_, err := module.Handler.Move.Execute(ctx, commands.MoveCommand{Mint: mintID, Source: otherAccount, Destination: treasuryAccount, Authority: otherOwner, Amount: 1})
	if err != memory.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds unwrapped, got %v", err)
	}
	_, err = module.Handler.Issue.Execute(ctx, commands.IssueCommand{Mint: mintID, Destination: otherAccount, Authority: strangerID, Amount: 1})
	if err != memory.ErrAuthorityMismatch {
		t.Fatalf("expected ErrAuthorityMismatch unwrapped, got %v", err)
	}
	_, err = module.Handler.Issue.Execute(ctx, commands.IssueCommand{Mint: mintID, Destination: otherAccount, Authority: mintAuthority, Amount: ^uint64(0)})
	if err != memory.ErrOverflow {
		t.Fatalf("expected ErrOverflow unwrapped, got %v", err)
	}
}

func TestPauseThenUnpauseRestoresActiveState(t *testing.T) {
	module := newInitializedModule(t)
	ctx := context.Background()

	paused, err := module.Handler.Pause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: adminID})
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !paused.Changed || !paused.State.IsPaused {
		t.Fatalf("unexpected pause result %+v", paused)
	}
	active, err := module.Handler.Unpause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: adminID})
	if err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if !active.Changed || active.State.IsPaused || active.State.Admin != adminID || active.State.Mint != mintID {
		t.Fatalf("unexpected unpause result %+v", active)
	}

	expected := []string{commands.EventAssetInitialized, commands.EventControllerPaused, commands.EventControllerUnpaused}
	if got := pendingEventTypes(t, module); !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected outbox %v", got)
	}
}

func TestNonAdminCannotFlipPauseSwitch(t *testing.T) {
	module := newInitializedModule(t)
	ctx := context.Background()

	for _, paused := range []bool{false, true} {
		if paused {
			pause(t, module)
		}
		for _, caller := range []valueobjects.Identity{strangerID, mintAuthority, {}} {
			if _, err := module.Handler.Pause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: caller}); !errors.Is(err, domainerrors.ErrUnauthorized) {
				t.Fatalf("pause by %s: expected ErrUnauthorized, got %v", caller, err)
			}
			if _, err := module.Handler.Unpause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: caller}); !errors.Is(err, domainerrors.ErrUnauthorized) {
				t.Fatalf("unpause by %s: expected ErrUnauthorized, got %v", caller, err)
			}
		}
		state, err := module.Handler.GetState.Execute(ctx, mintID)
		if err != nil {
			t.Fatalf("get state: %v", err)
		}
		if state.IsPaused != paused {
			t.Fatalf("expected is_paused=%v, got %v", paused, state.IsPaused)
		}
	}
}

func TestDoublePauseAndUnpauseAreNoops(t *testing.T) {
	module := newInitializedModule(t)
	ctx := context.Background()
	cmd := commands.PauseCommand{Mint: mintID, Caller: adminID}

	pause(t, module)
	again, err := module.Handler.Pause.Execute(ctx, cmd)
	if err != nil {
		t.Fatalf("second pause: %v", err)
	}
	if again.Changed || !again.State.IsPaused {
		t.Fatalf("unexpected second pause result %+v", again)
	}

	if _, err := module.Handler.Unpause.Execute(ctx, cmd); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	again, err = module.Handler.Unpause.Execute(ctx, cmd)
	if err != nil {
		t.Fatalf("second unpause: %v", err)
	}
	if again.Changed || again.State.IsPaused {
		t.Fatalf("unexpected second unpause result %+v", again)
	}

	if got := len(pendingEventTypes(t, module)); got != 3 {
		t.Fatalf("expected only real transitions in outbox, got %d events", got)
	}
}

func TestNonAdminMoveWhilePausedReportsContractPaused(t *testing.T) {
	module := newInitializedModule(t)
	pause(t, module)

	_, err := module.Handler.Move.Execute(context.Background(), commands.MoveCommand{
		Mint:        mintID,
		Source:      treasuryAccount,
		Destination: otherAccount,
		Authority:   strangerID,
		Amount:      1,
	})
	if !errors.Is(err, domainerrors.ErrContractPaused) {
		t.Fatalf("expected ErrContractPaused, got %v", err)
	}
	if err.Error() != "the contract is currently paused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestOperationsOnUnknownAssetAreNotInitialized(t *testing.T) {
	module := ledgercontroller.NewInMemoryModule(nil)
	openAccounts(t, module.Ledger)
	ctx := context.Background()

	if _, err := module.Handler.Move.Execute(ctx, commands.MoveCommand{Mint: mintID, Source: treasuryAccount, Destination: otherAccount, Authority: holderID, Amount: 1}); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("move: expected ErrNotInitialized, got %v", err)
	}
	if _, err := module.Handler.Pause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: adminID}); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("pause: expected ErrNotInitialized, got %v", err)
	}
	if len(module.Ledger.Calls()) != 0 {
		t.Fatalf("expected no ledger calls")
	}
}

func TestMoveIsGatedByTheSourceAccountsMint(t *testing.T) {
	module := newInitializedModule(t)
	ctx := context.Background()
	if err := module.Ledger.OpenAccount(treasuryB, mintB, holderID); err != nil {
		t.Fatalf("open treasury B: %v", err)
	}
	second := initializeCommand()
	second.Mint = mintB
	second.Destination = treasuryB
	if _, err := module.Handler.Initialize.Execute(ctx, second); err != nil {
		t.Fatalf("initialize B: %v", err)
	}
	pause(t, module)

	before := module.Ledger.Snapshot()
	calls := len(module.Ledger.Calls())

	_, err := module.Handler.Move.Execute(ctx, commands.MoveCommand{
		Mint:        mintB,
		Source:      treasuryAccount,
		Destination: otherAccount,
		Authority:   holderID,
		Amount:      42,
	})
	if !errors.Is(err, domainerrors.ErrContractPaused) {
		t.Fatalf("expected ErrContractPaused from the source's asset, got %v", err)
	}
	if after := module.Ledger.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("ledger changed by a move of a paused asset")
	}
	if got := len(module.Ledger.Calls()); got != calls {
		t.Fatalf("expected nothing forwarded, got %d calls", got-calls)
	}

	if _, err := module.Handler.Unpause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: adminID}); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	_, err = module.Handler.Move.Execute(ctx, commands.MoveCommand{
		Mint:        mintB,
		Source:      treasuryAccount,
		Destination: otherAccount,
		Authority:   holderID,
		Amount:      42,
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a mismatched mint, got %v", err)
	}
	if got := len(module.Ledger.Calls()); got != calls {
		t.Fatalf("expected mismatched move not to be forwarded, got %d calls", got-calls)
	}
}

func TestInitializeWithoutLedgerLogsFailure(t *testing.T) {
	var logs bytes.Buffer
	store := memory.NewStore()
	module := ledgercontroller.NewModule(ledgercontroller.Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Logger:      slog.New(slog.NewJSONHandler(&logs, nil)),
	})

	_, err := module.Handler.Initialize.Execute(context.Background(), initializeCommand())
	if !errors.Is(err, domainerrors.ErrLedgerUnavailable) {
		t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
	}
	if !strings.Contains(logs.String(), `"event":"ledger_controller_initialize_failed"`) {
		t.Fatalf("expected failure log, got %s", logs.String())
	}
}

func TestModuleWithoutLedgerRejectsAssetOperations(t *testing.T) {
	store := memory.NewStore()
	module := ledgercontroller.NewModule(ledgercontroller.Dependencies{Repository: store, Clock: store, IDGenerator: store})

	_, err := module.Handler.Issue.Execute(context.Background(), commands.IssueCommand{Mint: mintID, Destination: otherAccount, Authority: mintAuthority, Amount: 1})
	if !errors.Is(err, domainerrors.ErrLedgerUnavailable) {
		t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
	}
}

func TestPauseIsVisibleToConcurrentOperations(t *testing.T) {
	module := newInitializedModule(t)
	ctx := context.Background()

	const workers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed uint64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.Issue.Execute(ctx, commands.IssueCommand{Mint: mintID, Destination: otherAccount, Authority: mintAuthority, Amount: 1})
			switch {
			case err == nil:
				mu.Lock()
				allowed++
				mu.Unlock()
			case errors.Is(err, domainerrors.ErrContractPaused):
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	pause(t, module)
	wg.Wait()

	other, _ := module.Ledger.Account(otherAccount)
	if other.Amount != allowed {
		t.Fatalf("ledger credited %d but %d issues were allowed", other.Amount, allowed)
	}

	_, err := module.Handler.Issue.Execute(ctx, commands.IssueCommand{Mint: mintID, Destination: otherAccount, Authority: mintAuthority, Amount: 1})
	if !errors.Is(err, domainerrors.ErrContractPaused) {
		t.Fatalf("operation after committed pause must observe it, got %v", err)
	}
}

func TestGateDecisionsAreRecorded(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder, err := metricsadapter.NewRecorder("tokengate", registry)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	store := memory.NewStore()
	ledger := memory.NewLedger()
	openAccounts(t, ledger)
	module := ledgercontroller.NewModule(ledgercontroller.Dependencies{
		Repository:  store,
		Ledger:      ledger,
		Recorder:    recorder,
		Clock:       store,
		IDGenerator: store,
	})
	ctx := context.Background()

	if _, err := module.Handler.Initialize.Execute(ctx, initializeCommand()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := module.Handler.Pause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: strangerID}); err == nil {
		t.Fatalf("expected unauthorized pause")
	}
	if _, err := module.Handler.Pause.Execute(ctx, commands.PauseCommand{Mint: mintID, Caller: adminID}); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := module.Handler.Move.Execute(ctx, commands.MoveCommand{Mint: mintID, Source: treasuryAccount, Destination: otherAccount, Authority: holderID, Amount: 1}); err == nil {
		t.Fatalf("expected paused move")
	}

	expected := `
# HELP tokengate_gate_decisions_total Number of controller requests by operation and gate outcome
# TYPE tokengate_gate_decisions_total counter
tokengate_gate_decisions_total{operation="initialize",outcome="allowed"} 1
tokengate_gate_decisions_total{operation="move",outcome="paused"} 1
tokengate_gate_decisions_total{operation="pause",outcome="allowed"} 1
tokengate_gate_decisions_total{operation="pause",outcome="unauthorized"} 1
# HELP tokengate_controller_paused 1 when the asset's pause switch is on
# TYPE tokengate_controller_paused gauge
tokengate_controller_paused{mint="` + mintID.String() + `"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "tokengate_gate_decisions_total", "tokengate_controller_paused"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestCommandsEmitSpans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	module := newInitializedModule(t)
	pause(t, module)
	_, _ = module.Handler.Move.Execute(context.Background(), commands.MoveCommand{Mint: mintID, Source: treasuryAccount, Destination: otherAccount, Authority: holderID, Amount: 1})

	names := map[string]bool{}
	failed := map[string]bool{}
	for _, span := range spans.Ended() {
		names[span.Name()] = true
		if span.Status().Description != "" {
			failed[span.Name()] = true
		}
	}
	for _, name := range []string{"ledger-controller.initialize", "ledger-controller.pause", "ledger-controller.move"} {
		if !names[name] {
			t.Fatalf("missing span %q in %v", name, names)
		}
	}
	if !failed["ledger-controller.move"] || failed["ledger-controller.pause"] {
		t.Fatalf("unexpected span statuses %v", failed)
	}
}
