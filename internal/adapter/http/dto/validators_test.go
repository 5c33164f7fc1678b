package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return binding.JSON.Bind(req, out)
}

func TestCryptoRequest_PositiveDecimal(t *testing.T) {
	valid := []string{"0.5", "250.00", "0.0001"}
	for _, amount := range valid {
		var req CryptoTransactionRequest
		err := bindJSON(t, `{"userId":"u1","type":"send","amount":"`+amount+`","address":"0xdest"}`, &req)
		assert.NoError(t, err, "amount %q", amount)
	}

	invalid := []string{"0", "-1", "abc"}
	for _, amount := range invalid {
		var req CryptoTransactionRequest
		err := bindJSON(t, `{"userId":"u1","type":"send","amount":"`+amount+`","address":"0xdest"}`, &req)
		assert.Error(t, err, "amount %q", amount)
	}
}

func TestCryptoRequest_AssetEnum(t *testing.T) {
	var req CryptoTransactionRequest
	err := bindJSON(t, `{"userId":"u1","type":"send","asset":"DOGE","amount":"1","address":"0xdest"}`, &req)
	assert.Error(t, err)

	err = bindJSON(t, `{"userId":"u1","type":"send","asset":"USDC","amount":"1","address":"0xdest"}`, &req)
	assert.NoError(t, err)
}

func TestFiatRequest_TypeEnum(t *testing.T) {
	var req FiatTransactionRequest
	err := bindJSON(t, `{"userId":"u1","type":"transfer","amountCents":100,"counterpartyLabel":"Bob"}`, &req)
	assert.Error(t, err)
}

func TestFiatRequest_MissingFields(t *testing.T) {
	var req FiatTransactionRequest
	err := bindJSON(t, `{"type":"send","amountCents":100}`, &req)
	assert.Error(t, err)
}

func TestTrimStruct(t *testing.T) {
	req := RegisterUserRequest{
		Email:       "  alice@example.com ",
		DisplayName: " Alice ",
	}
	TrimStruct(&req)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "Alice", req.DisplayName)
}
