package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/adapter"
	"github.com/iqbalbaharum/swap-executor/internal/executor"
	"github.com/iqbalbaharum/swap-executor/internal/jupiter"
	bot "github.com/iqbalbaharum/swap-executor/internal/library"
	"github.com/iqbalbaharum/swap-executor/internal/rpc"
	"github.com/iqbalbaharum/swap-executor/internal/rpc/rpctest"
	"github.com/iqbalbaharum/swap-executor/internal/transaction"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

const (
	wsolMint = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

const quoteJSON = `{"inputMint":"So11111111111111111111111111111111111111112","inAmount":"1000000","outputMint":"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v","outAmount":"145000","otherAmountThreshold":"144275","swapMode":"ExactIn","slippageBps":50,"priceImpactPct":"0","routePlan":[{"swapInfo":{"ammKey":"pool1","label":"Orca"},"percent":100}]}`

type fakeRoutes struct {
	quoteErr error
	swapErr  error
	payload  string
	quotes   int
	users    []string
}

func (f *fakeRoutes) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps uint16) (*jupiter.Route, error) {
	f.quotes++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return jupiter.ParseRoute([]byte(quoteJSON))
}

func (f *fakeRoutes) GetSwapTransaction(ctx context.Context, route *jupiter.Route, userPublicKey string) (*jupiter.SwapResponse, error) {
	f.users = append(f.users, userPublicKey)
	if f.swapErr != nil {
		return nil, f.swapErr
	}
	return &jupiter.SwapResponse{SwapTransaction: f.payload}, nil
}

type fakeGuard struct {
	reserveErr error
	statuses   []string
}

func (g *fakeGuard) Reserve(ctx context.Context, key string, fingerprint string) (*types.Attempt, error) {
	if g.reserveErr != nil {
		return nil, g.reserveErr
	}
	return &types.Attempt{Key: key, Fingerprint: fingerprint, Status: types.ATTEMPT_RESERVED}, nil
}

func (g *fakeGuard) Update(ctx context.Context, attempt *types.Attempt, status string, signature string) error {
	g.statuses = append(g.statuses, status)
	return nil
}

func (g *fakeGuard) Release(ctx context.Context, attempt *types.Attempt) error {
	g.statuses = append(g.statuses, "released")
	return nil
}

type fakeHistory struct {
	executions []*types.Execution
}

func (h *fakeHistory) Record(ctx context.Context, execution *types.Execution) error {
	h.executions = append(h.executions, execution)
	return nil
}

// unsignedSwap mimics the aggregator payload: a transaction for wallet with
// empty signature slots.
func unsignedSwap(t *testing.T, wallet solana.PublicKey) string {
	t.Helper()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, wallet, solana.NewWallet().PublicKey()).Build(),
			system.NewTransferInstruction(2, wallet, solana.NewWallet().PublicKey()).Build(),
		},
		solana.Hash{4, 2},
		solana.TransactionPayer(wallet),
	)
	require.NoError(t, err)

	payload, err := transaction.Encode(tx)
	require.NoError(t, err)
	return payload
}

func testConfig() executor.Config {
	cfg := executor.DefaultConfig()
	cfg.PollInterval = 1
	return cfg
}

func newSwapRequest(wallet solana.PrivateKey) SwapRequest {
	return SwapRequest{
		RouteRequest: RouteRequest{
			InputMint:   wsolMint,
			OutputMint:  usdcMint,
			Amount:      "0.001",
			SlippageBps: 50,
		},
		Wallet: wallet,
		Mode:   "simple",
	}
}

func TestSwapConfirmed(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	routes := &fakeRoutes{payload: unsignedSwap(t, wallet.PublicKey())}
	ledger := &rpctest.Ledger{
		Heights:  []uint64{1_000},
		Statuses: []*rpc.SignatureStatus{nil, {Slot: 50}},
		Transaction: &rpc.ConfirmedTransaction{
			Slot: 50,
			PostTokenBalances: []types.TxTokenBalance{
				{Mint: usdcMint, Owner: solana.NewWallet().PublicKey().String(), Amount: "999999"},
				{Mint: usdcMint, Owner: wallet.PublicKey().String(), Amount: "145000"},
			},
		},
	}
	history := &fakeHistory{}

	p := New("http://rpc", routes, ledger, testConfig(), zap.NewNop(), WithHistory(history))
	req := newSwapRequest(wallet)
	req.IdempotencyKey = "order-1"

	result := p.Swap(context.Background(), req)

	require.True(t, result.Success, "%v", result.Error)
	require.Len(t, ledger.Sent, 1)
	assert.Equal(t, ledger.Sent[0].Signatures[0].String(), *result.Signature)
	assert.Equal(t, "145000", *result.ReceivedAmount)
	assert.Equal(t, uint64(50), *result.Slot)
	assert.Equal(t, "order-1", *result.IdempotencyKey)
	assert.Nil(t, result.Error)
	assert.Contains(t, result.Logs, "Received amount: 145000")
	assert.Equal(t, []string{wallet.PublicKey().String()}, routes.users)

	// without compute flags the aggregator instructions are untouched
	assert.Len(t, ledger.Sent[0].Message.Instructions, 2)
	assert.NoError(t, ledger.Sent[0].VerifySignatures())

	require.Len(t, history.executions, 1)
	assert.True(t, history.executions[0].Success)
	assert.Equal(t, "145000", history.executions[0].ReceivedAmount)
}

func TestSwapWithComputeDirectives(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	ledger := &rpctest.Ledger{
		Heights:     []uint64{1_000},
		Statuses:    []*rpc.SignatureStatus{{Slot: 7}},
		Transaction: &rpc.ConfirmedTransaction{Slot: 7},
	}

	p := New("http://rpc", &fakeRoutes{payload: unsignedSwap(t, wallet.PublicKey())}, ledger, testConfig(), zap.NewNop())
	req := newSwapRequest(wallet)
	price := uint64(25_000)
	req.Compute = transaction.ComputeOption{MicroLamports: &price}

	result := p.Swap(context.Background(), req)
	require.True(t, result.Success, "%v", result.Error)

	sent := ledger.Sent[0]
	require.Len(t, sent.Message.Instructions, 4)
	assert.Equal(t, solana.ComputeBudget, sent.Message.AccountKeys[sent.Message.Instructions[0].ProgramIDIndex])
	assert.Equal(t, solana.ComputeBudget, sent.Message.AccountKeys[sent.Message.Instructions[1].ProgramIDIndex])
	assert.NoError(t, sent.VerifySignatures())
	assert.Contains(t, result.Logs, "Added compute budget: 300000 CU limit, 25000 microlamports priority fee")

	// confirmed without matching balance
	assert.Equal(t, "0", *result.ReceivedAmount)
}

func TestSwapExpired(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	ledger := &rpctest.Ledger{
		Heights: []uint64{1_000, 1_151},
	}
	guard := &fakeGuard{}

	p := New("http://rpc", &fakeRoutes{payload: unsignedSwap(t, wallet.PublicKey())}, ledger, testConfig(), zap.NewNop(), WithAttemptGuard(guard))
	req := newSwapRequest(wallet)
	req.IdempotencyKey = "order-2"

	result := p.Swap(context.Background(), req)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "expired")
	require.NotNil(t, result.Signature)
	assert.Nil(t, result.ReceivedAmount)
	assert.Equal(t, []string{types.ATTEMPT_SUBMITTED, "released"}, guard.statuses)
}

func TestSwapAttemptSettlement(t *testing.T) {
	cases := []struct {
		name     string
		routes   func(wallet solana.PublicKey) *fakeRoutes
		ledger   *rpctest.Ledger
		statuses []string
	}{
		{
			name:     "build failure releases",
			routes:   func(solana.PublicKey) *fakeRoutes { return &fakeRoutes{swapErr: errors.New("aggregator 503")} },
			ledger:   &rpctest.Ledger{},
			statuses: []string{"released"},
		},
		{
			name:     "broadcast failure releases",
			routes:   func(w solana.PublicKey) *fakeRoutes { return &fakeRoutes{payload: unsignedSwap(t, w)} },
			ledger:   &rpctest.Ledger{SendErr: rpctest.ErrUnavailable},
			statuses: []string{"released"},
		},
		{
			name:     "on-chain failure is kept",
			routes:   func(w solana.PublicKey) *fakeRoutes { return &fakeRoutes{payload: unsignedSwap(t, w)} },
			ledger:   &rpctest.Ledger{Heights: []uint64{10}, Statuses: []*rpc.SignatureStatus{{Slot: 5, Err: "InstructionError"}}},
			statuses: []string{types.ATTEMPT_SUBMITTED, types.ATTEMPT_FAILED},
		},
		{
			name:     "timed out stays submitted",
			routes:   func(w solana.PublicKey) *fakeRoutes { return &fakeRoutes{payload: unsignedSwap(t, w)} },
			ledger:   &rpctest.Ledger{Heights: []uint64{10}},
			statuses: []string{types.ATTEMPT_SUBMITTED},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wallet := solana.NewWallet().PrivateKey
			guard := &fakeGuard{}
			cfg := testConfig()
			cfg.MaxAttempts = 3

			p := New("http://rpc", tc.routes(wallet.PublicKey()), tc.ledger, cfg, zap.NewNop(), WithAttemptGuard(guard))
			req := newSwapRequest(wallet)
			req.IdempotencyKey = "order-7"

			result := p.Swap(context.Background(), req)

			assert.False(t, result.Success)
			assert.Equal(t, tc.statuses, guard.statuses)
		})
	}
}

func TestSwapRetryAfterBuildFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(adapter.CloseRedisClients)
	require.NoError(t, adapter.InitRedisClient(context.Background(), mr.Addr(), "", 4))

	wallet := solana.NewWallet().PrivateKey
	ledger := &rpctest.Ledger{
		Heights:     []uint64{1_000},
		Statuses:    []*rpc.SignatureStatus{{Slot: 9}},
		Transaction: &rpc.ConfirmedTransaction{Slot: 9},
	}
	routes := &fakeRoutes{swapErr: types.NewExecError(types.ErrSwapBuildFailed, "Jupiter swap failed", errors.New("aggregator 503"))}
	p := New("http://rpc", routes, ledger, testConfig(), zap.NewNop(), WithAttemptGuard(bot.NewAttemptLedger(4)))

	req := newSwapRequest(wallet)
	req.IdempotencyKey = "order-1"

	first := p.Swap(context.Background(), req)
	require.False(t, first.Success)
	assert.Contains(t, *first.Error, "swap_build_failed")
	assert.Empty(t, ledger.Sent)

	routes.swapErr = nil
	routes.payload = unsignedSwap(t, wallet.PublicKey())

	retry := p.Swap(context.Background(), req)
	require.True(t, retry.Success, "%v", retry.Error)
	require.Len(t, ledger.Sent, 1)

	again := p.Swap(context.Background(), req)
	require.False(t, again.Success)
	assert.Contains(t, *again.Error, "duplicate_attempt")
	assert.Len(t, ledger.Sent, 1)
}

func TestSwapRouteUnavailable(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	ledger := &rpctest.Ledger{}
	routes := &fakeRoutes{quoteErr: types.NewExecError(types.ErrRouteUnavailable, "Jupiter quote failed", errors.New("status_code: 400"))}

	result := New("http://rpc", routes, ledger, testConfig(), zap.NewNop()).Swap(context.Background(), newSwapRequest(wallet))

	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "route_unavailable")
	assert.Nil(t, result.Signature)
	assert.Empty(t, ledger.Sent)
}

func TestSwapUsesSuppliedRoute(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	routes := &fakeRoutes{payload: unsignedSwap(t, wallet.PublicKey()), quoteErr: errors.New("must not be called")}
	ledger := &rpctest.Ledger{
		Heights:     []uint64{1},
		Statuses:    []*rpc.SignatureStatus{{Slot: 3}},
		Transaction: &rpc.ConfirmedTransaction{Slot: 3},
	}

	req := newSwapRequest(wallet)
	req.RouteInfo = quoteJSON

	result := New("http://rpc", routes, ledger, testConfig(), zap.NewNop()).Swap(context.Background(), req)
	require.True(t, result.Success, "%v", result.Error)
	assert.Equal(t, 0, routes.quotes)
}

func TestSwapExtractsSuppliedRouteOutput(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	ledger := &rpctest.Ledger{
		Heights:  []uint64{1},
		Statuses: []*rpc.SignatureStatus{{Slot: 3}},
		Transaction: &rpc.ConfirmedTransaction{
			Slot: 3,
			PostTokenBalances: []types.TxTokenBalance{
				{Mint: usdcMint, Owner: wallet.PublicKey().String(), Amount: "145000"},
			},
		},
	}
	history := &fakeHistory{}

	req := newSwapRequest(wallet)
	req.OutputMint = solana.NewWallet().PublicKey().String()
	req.RouteInfo = quoteJSON
	req.Mode = ""

	result := New("http://rpc", &fakeRoutes{payload: unsignedSwap(t, wallet.PublicKey())}, ledger, testConfig(), zap.NewNop(), WithHistory(history)).Swap(context.Background(), req)
	require.True(t, result.Success, "%v", result.Error)
	assert.Equal(t, "145000", *result.ReceivedAmount)

	require.Len(t, history.executions, 1)
	assert.Equal(t, executor.MODE_SIMPLE, history.executions[0].Mode)
}

func TestSwapDuplicateAttempt(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	ledger := &rpctest.Ledger{}
	routes := &fakeRoutes{payload: unsignedSwap(t, wallet.PublicKey())}
	guard := &fakeGuard{reserveErr: types.NewExecError(types.ErrDuplicateAttempt, "swap already attempted", nil)}

	req := newSwapRequest(wallet)
	req.IdempotencyKey = "order-3"

	result := New("http://rpc", routes, ledger, testConfig(), zap.NewNop(), WithAttemptGuard(guard)).Swap(context.Background(), req)

	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "duplicate_attempt")
	assert.Equal(t, "order-3", *result.IdempotencyKey)
	assert.Empty(t, routes.users)
	assert.Empty(t, ledger.Sent)
}

func TestSwapInvalidInput(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	p := New("http://rpc", &fakeRoutes{}, &rpctest.Ledger{}, testConfig(), zap.NewNop())

	req := newSwapRequest(wallet)
	req.Amount = "abc"
	result := p.Swap(context.Background(), req)
	assert.Contains(t, *result.Error, "invalid_input")

	req = newSwapRequest(wallet)
	req.OutputMint = "not-a-mint"
	result = p.Swap(context.Background(), req)
	assert.Contains(t, *result.Error, "invalid_input")

	req = newSwapRequest(nil)
	result = p.Swap(context.Background(), req)
	assert.Contains(t, *result.Error, "invalid_wallet_format")
}

func TestSwapWrongSigner(t *testing.T) {
	wallet := solana.NewWallet().PrivateKey
	ledger := &rpctest.Ledger{}
	routes := &fakeRoutes{payload: unsignedSwap(t, solana.NewWallet().PublicKey())}

	result := New("http://rpc", routes, ledger, testConfig(), zap.NewNop()).Swap(context.Background(), newSwapRequest(wallet))

	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "signing_failed")
	assert.Empty(t, ledger.Sent)
}

func TestSimulate(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	ledger := &rpctest.Ledger{
		Simulation: &rpc.SimulationResult{
			Logs: []string{
				"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 invoke [1]",
				"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 consumed 123456 of 400000 compute units",
				"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 success",
			},
		},
	}

	p := New("http://rpc", &fakeRoutes{payload: unsignedSwap(t, user)}, ledger, testConfig(), zap.NewNop())
	result := p.Simulate(context.Background(), SimulateRequest{
		RouteRequest:  RouteRequest{InputMint: wsolMint, OutputMint: usdcMint, Amount: "1000000", SlippageBps: 50},
		UserPublicKey: user,
	})

	require.True(t, result.Success, "%v", result.Error)
	assert.Equal(t, "145000", *result.ExpectedOut)
	assert.Equal(t, uint64(123456), *result.ComputeUnitsUsed)
	assert.Contains(t, result.Logs, "Expected output: 145000")
	assert.Nil(t, result.Signature)

	require.Len(t, ledger.Simulated, 1)
	simulated := ledger.Simulated[0]
	assert.Equal(t, []solana.Signature{{}}, simulated.Signatures)
	require.Len(t, simulated.Message.Instructions, 4)
	assert.Equal(t, byte(2), simulated.Message.Instructions[0].Data[0])
	assert.Empty(t, ledger.Sent)
}

func TestSimulatePrefersReportedUnits(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	units := uint64(88_000)
	ledger := &rpctest.Ledger{Simulation: &rpc.SimulationResult{UnitsConsumed: &units}}

	p := New("http://rpc", &fakeRoutes{payload: unsignedSwap(t, user)}, ledger, testConfig(), zap.NewNop())
	result := p.Simulate(context.Background(), SimulateRequest{
		RouteRequest:  RouteRequest{InputMint: wsolMint, OutputMint: usdcMint, Amount: "1000000"},
		UserPublicKey: user,
	})

	require.True(t, result.Success)
	assert.Equal(t, uint64(88_000), *result.ComputeUnitsUsed)
}

func TestSimulateError(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	ledger := &rpctest.Ledger{
		Simulation: &rpc.SimulationResult{
			Err:  map[string]interface{}{"InstructionError": []interface{}{3, "InvalidAccountData"}},
			Logs: []string{"Program log: Error: slippage tolerance exceeded"},
		},
	}

	p := New("http://rpc", &fakeRoutes{payload: unsignedSwap(t, user)}, ledger, testConfig(), zap.NewNop())
	result := p.Simulate(context.Background(), SimulateRequest{
		RouteRequest:  RouteRequest{InputMint: wsolMint, OutputMint: usdcMint, Amount: "1000000"},
		UserPublicKey: user,
	})

	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "simulation_failed")
	assert.Contains(t, result.Logs, "Program log: Error: slippage tolerance exceeded")
}

func TestSimulateRequiresUser(t *testing.T) {
	p := New("http://rpc", &fakeRoutes{}, &rpctest.Ledger{}, testConfig(), zap.NewNop())
	result := p.Simulate(context.Background(), SimulateRequest{
		RouteRequest: RouteRequest{InputMint: wsolMint, OutputMint: usdcMint, Amount: "1"},
	})
	assert.Contains(t, *result.Error, "invalid_input")
}

func TestPing(t *testing.T) {
	ledger := &rpctest.Ledger{Slot: 321, Heights: []uint64{300}}

	result := New("http://rpc", &fakeRoutes{}, ledger, testConfig(), zap.NewNop()).Ping(context.Background())

	require.True(t, result.Success)
	assert.Equal(t, uint64(321), *result.Slot)
	assert.Equal(t, "RPC endpoint: http://rpc", result.Logs[0])
	assert.Contains(t, result.Logs, "Current slot: 321")
}

func TestPingFailure(t *testing.T) {
	ledger := &rpctest.Ledger{HashErr: rpctest.ErrUnavailable}

	result := New("http://rpc", &fakeRoutes{}, ledger, testConfig(), zap.NewNop()).Ping(context.Background())

	assert.False(t, result.Success)
	assert.Nil(t, result.Slot)
	assert.Contains(t, *result.Error, "latest_blockhash")
	assert.Contains(t, result.Logs, "Failed check: latest_blockhash")
}

func TestConsumedUnits(t *testing.T) {
	logs := []string{
		"Program ComputeBudget111111111111111111111111111111 invoke [1]",
		"Program whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc consumed 30000 of 380000 compute units",
		"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 consumed 95000 of 400000 compute units",
	}
	assert.Equal(t, uint64(95000), ConsumedUnits(logs))
	assert.Equal(t, uint64(0), ConsumedUnits(nil))
}
