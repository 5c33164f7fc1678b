package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpHandler "custodial-wallet/internal/adapter/http/handler"
	memStorage "custodial-wallet/internal/adapter/storage/memory"
	redisStorage "custodial-wallet/internal/adapter/storage/redis"
	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/internal/service"
	"custodial-wallet/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack on the in-memory store backend,
// with miniredis behind the recipient cache. This exercises the real HTTP
// layer, middleware, handlers, services, and storage end-to-end.

type testApp struct {
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := memStorage.NewStore()
	userRepo := memStorage.NewUserRepo(store)
	txRepo := memStorage.NewTransactionRepo(store)
	cryptoRepo := memStorage.NewCryptoRepo(store)
	recipientRepo := memStorage.NewRecipientRepo(store)
	transactor := memStorage.NewTransactor(store)

	log := logger.New("error", false)

	registrationSvc := service.NewRegistrationService(
		userRepo, txRepo, cryptoRepo, transactor, "Base Sepolia", 125000, log)
	ledgerSvc := service.NewLedgerService(userRepo, txRepo, transactor, log)
	cryptoSvc := service.NewCryptoService(userRepo, cryptoRepo, transactor, nil, "Base Sepolia", log)
	recipientSvc := service.NewRecipientService(recipientRepo, redisStorage.NewRecipientCache(rdb), log)
	statementSvc := service.NewStatementService(ledgerSvc)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		RegistrationSvc: registrationSvc,
		LedgerSvc:       ledgerSvc,
		CryptoSvc:       cryptoSvc,
		RecipientSvc:    recipientSvc,
		StatementSvc:    statementSvc,
		Logger:          log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{server: srv}
}

func (a *testApp) request(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (a *testApp) registerAlice(t *testing.T) domain.User {
	t.Helper()
	resp, raw := a.request(t, http.MethodPost, "/api/user", map[string]string{
		"email":         "alice@example.com",
		"walletAddress": "0xwallet",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var user domain.User
	require.NoError(t, json.Unmarshal(raw, &user))
	return user
}

func TestRegistrationFlow(t *testing.T) {
	app := newTestApp(t)

	user := app.registerAlice(t)
	assert.Len(t, user.ID, 12)
	assert.Equal(t, "alice", user.DisplayName)
	assert.Equal(t, int64(125000), user.BalanceCents)

	// Registering again returns 200 and the same record.
	resp, raw := app.request(t, http.MethodPost, "/api/user", map[string]string{
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var again domain.User
	require.NoError(t, json.Unmarshal(raw, &again))
	assert.Equal(t, user.ID, again.ID)

	// Lookup by email.
	resp, raw = app.request(t, http.MethodGet, "/api/user?email=alice@example.com", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown email is a 404 with the contract's error envelope.
	resp, raw = app.request(t, http.MethodGet, "/api/user?email=nobody@example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"User not found"}`, string(raw))
}

func TestFiatLedgerFlow(t *testing.T) {
	app := newTestApp(t)
	user := app.registerAlice(t)

	// Seeded history is listed newest first.
	resp, raw := app.request(t, http.MethodGet, "/api/transactions?userId="+user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var txns []domain.Transaction
	require.NoError(t, json.Unmarshal(raw, &txns))
	require.Len(t, txns, 2)
	assert.Equal(t, "Acme Corp", txns[0].CounterpartyLabel)

	// Send reduces the balance.
	resp, raw = app.request(t, http.MethodPost, "/api/transactions", map[string]any{
		"userId":            user.ID,
		"type":              "send",
		"amountCents":       25000,
		"counterpartyLabel": "Bob",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = app.request(t, http.MethodGet, "/api/user?email=alice@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after domain.User
	require.NoError(t, json.Unmarshal(raw, &after))
	assert.Equal(t, int64(100000), after.BalanceCents)

	// Overdraft is rejected with the ledger's message.
	resp, raw = app.request(t, http.MethodPost, "/api/transactions", map[string]any{
		"userId":            user.ID,
		"type":              "send",
		"amountCents":       999999,
		"counterpartyLabel": "Bob",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Insufficient balance"}`, string(raw))

	// Unknown user is a 404.
	resp, _ = app.request(t, http.MethodPost, "/api/transactions", map[string]any{
		"userId":            "does-not-exist",
		"type":              "receive",
		"amountCents":       100,
		"counterpartyLabel": "Bob",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCryptoLedgerFlow(t *testing.T) {
	app := newTestApp(t)
	user := app.registerAlice(t)

	// Seeded snapshot: 0.5 + 0.1 ETH, 250 USDC.
	resp, raw := app.request(t, http.MethodGet, "/api/transactions?userId="+user.ID+"&mode=crypto", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap ports.CryptoSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "0.6000", snap.BalanceEth)
	assert.Equal(t, "250.00", snap.BalanceUsdc)
	require.Len(t, snap.Transactions, 3)

	// Asset defaults to ETH on sends.
	resp, raw = app.request(t, http.MethodPost, "/api/transactions?mode=crypto", map[string]any{
		"userId":  user.ID,
		"type":    "send",
		"amount":  "0.5",
		"address": "0xdest",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var txn domain.CryptoTransaction
	require.NoError(t, json.Unmarshal(raw, &txn))
	assert.Equal(t, domain.AssetETH, txn.Asset)
	assert.Equal(t, "0.5000", txn.Amount)
	assert.Regexp(t, `^0x[0-9a-f]{64}$`, txn.TxHash)

	resp, raw = app.request(t, http.MethodGet, "/api/transactions?userId="+user.ID+"&mode=crypto", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "0.1000", snap.BalanceEth)

	// Overspending the derived balance names the asset.
	resp, raw = app.request(t, http.MethodPost, "/api/transactions?mode=crypto", map[string]any{
		"userId":  user.ID,
		"type":    "send",
		"amount":  "0.6",
		"address": "0xdest",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Insufficient ETH balance"}`, string(raw))
}

func TestRecipientsEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, raw := app.request(t, http.MethodGet, "/api/recipients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var recipients []domain.Recipient
	require.NoError(t, json.Unmarshal(raw, &recipients))
	require.Len(t, recipients, 3)
	assert.Equal(t, "Acme Corp", recipients[0].Name)

	// Cached second read returns the same directory.
	resp, raw = app.request(t, http.MethodGet, "/api/recipients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cached []domain.Recipient
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, recipients, cached)
}

func TestStatementsEndpoint(t *testing.T) {
	app := newTestApp(t)
	user := app.registerAlice(t)

	resp, raw := app.request(t, http.MethodGet, "/api/statements?userId="+user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="statements.csv"`, resp.Header.Get("Content-Disposition"))

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3) // header + 2 seed rows
	assert.Equal(t, "Date,Type,Amount,Counterparty,Reference", lines[0])
	assert.Contains(t, lines[1], "receive")
	assert.Contains(t, lines[1], "$250.00")
	assert.Contains(t, lines[1], "Acme Corp")

	// A user with no transactions gets the header only.
	resp, raw = app.request(t, http.MethodGet, "/api/statements?userId=does-not-exist", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Date,Type,Amount,Counterparty,Reference\n", string(raw))
}

func TestResetFlow(t *testing.T) {
	app := newTestApp(t)
	user := app.registerAlice(t)

	// Drain some funds and add a crypto send.
	resp, _ := app.request(t, http.MethodPost, "/api/transactions", map[string]any{
		"userId":            user.ID,
		"type":              "send",
		"amountCents":       50000,
		"counterpartyLabel": "Bob",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := app.request(t, http.MethodDelete, "/api/user?email=alice@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reset domain.User
	require.NoError(t, json.Unmarshal(raw, &reset))
	assert.Equal(t, user.ID, reset.ID)
	assert.Equal(t, int64(125000), reset.BalanceCents)

	// History is back to the two seed rows.
	resp, raw = app.request(t, http.MethodGet, "/api/transactions?userId="+user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var txns []domain.Transaction
	require.NoError(t, json.Unmarshal(raw, &txns))
	assert.Len(t, txns, 2)
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t)
	user := app.registerAlice(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"missing email on register", http.MethodPost, "/api/user", map[string]string{}},
		{"missing email on lookup", http.MethodGet, "/api/user", nil},
		{"missing email on reset", http.MethodDelete, "/api/user", nil},
		{"missing userId on list", http.MethodGet, "/api/transactions", nil},
		{"missing userId on statements", http.MethodGet, "/api/statements", nil},
		{"missing fields on fiat create", http.MethodPost, "/api/transactions",
			map[string]any{"userId": user.ID}},
		{"bad crypto amount", http.MethodPost, "/api/transactions?mode=crypto",
			map[string]any{"userId": user.ID, "type": "send", "amount": "abc", "address": "0xdest"}},
		{"bad crypto asset", http.MethodPost, "/api/transactions?mode=crypto",
			map[string]any{"userId": user.ID, "type": "send", "asset": "DOGE", "amount": "1", "address": "0xdest"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := app.request(t, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

			var envelope map[string]string
			require.NoError(t, json.Unmarshal(raw, &envelope))
			assert.NotEmpty(t, envelope["error"])
		})
	}
}

func TestBalanceInvariantAcrossSequence(t *testing.T) {
	app := newTestApp(t)
	user := app.registerAlice(t)

	moves := []struct {
		typ    string
		amount int64
	}{
		{"send", 10000},
		{"receive", 4000},
		{"send", 2500},
		{"receive", 100},
	}

	expected := user.BalanceCents
	for _, m := range moves {
		resp, raw := app.request(t, http.MethodPost, "/api/transactions", map[string]any{
			"userId":            user.ID,
			"type":              m.typ,
			"amountCents":       m.amount,
			"counterpartyLabel": "Bob",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		if m.typ == "send" {
			expected -= m.amount
		} else {
			expected += m.amount
		}
	}

	_, raw := app.request(t, http.MethodGet, "/api/user?email=alice@example.com", nil)
	var after domain.User
	require.NoError(t, json.Unmarshal(raw, &after))
	assert.Equal(t, expected, after.BalanceCents)

	_, raw = app.request(t, http.MethodGet, fmt.Sprintf("/api/transactions?userId=%s", user.ID), nil)
	var txns []domain.Transaction
	require.NoError(t, json.Unmarshal(raw, &txns))
	assert.Len(t, txns, 2+len(moves))
}
