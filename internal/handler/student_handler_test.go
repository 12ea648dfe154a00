package handler

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GTsubekti/madrasah-defi/internal/config"
	"github.com/GTsubekti/madrasah-defi/internal/contract"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callResult 单个合约方法的模拟返回，Err非空时按RPC错误应答
type callResult struct {
	Result string
	Err    string
}

func selector(sig string) string {
	return hex.EncodeToString(crypto.Keccak256([]byte(sig))[:4])
}

func word(v uint64) string {
	return fmt.Sprintf("%064x", v)
}

func stringWord(s string) string {
	data := hex.EncodeToString([]byte(s))
	return word(32) + word(uint64(len(s))) + data + strings.Repeat("0", 64-len(data))
}

// newFakeChain 起一个按函数选择子应答eth_call的JSON-RPC服务
func newFakeChain(t *testing.T, results map[string]callResult) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var req struct {
			Id     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if req.Method != "eth_call" || len(req.Params) == 0 {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"method not supported"}}`, req.Id)
			return
		}

		var call map[string]string
		if err := json.Unmarshal(req.Params[0], &call); err != nil {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32602,"message":"bad call params"}}`, req.Id)
			return
		}
		data := call["input"]
		if data == "" {
			data = call["data"]
		}
		if len(data) < 10 {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32602,"message":"missing calldata"}}`, req.Id)
			return
		}

		res, ok := results[data[2:10]]
		switch {
		case !ok:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":"unexpected call %s"}}`, req.Id, data[2:10])
		case res.Err != "":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":"%s"}}`, req.Id, res.Err)
		default:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"0x%s"}`, req.Id, res.Result)
		}
	}))
}

// baseReadResults 学生状态汇总里除loanOf外的全部读调用
func baseReadResults() map[string]callResult {
	return map[string]callResult{
		selector("decimals()"):                 {Result: word(2)},
		selector("symbol()"):                   {Result: stringWord("IDRT")},
		selector("balanceOf(address)"):         {Result: word(150000)},
		selector("allowance(address,address)"): {Result: word(0)},
		selector("allowlisted(address)"):       {Result: word(1)},
		selector("depositOf(address)"):         {Result: word(50000)},
		selector("lockedUntil(address)"):       {Result: word(0)},
		selector("totalDeposits()"):            {Result: word(50000)},
		selector("availableLiquidity()"):       {Result: word(50000)},
		selector("hasActiveLoan(address)"):     {Result: word(1)},
	}
}

func newStatusRouter(t *testing.T, results map[string]callResult) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := newFakeChain(t, results)
	t.Cleanup(srv.Close)

	ethClient, err := ethereum.Init(config.ChainConfig{RpcUrl: srv.URL, ChainId: 1, Confirmations: 1})
	require.NoError(t, err)

	contracts, err := contract.NewRegistry(ethClient, config.ContractsConfig{
		Token:    "0x0000000000000000000000000000000000000101",
		TrustNFT: "0x0000000000000000000000000000000000000102",
		QardPool: "0x0000000000000000000000000000000000000103",
	})
	require.NoError(t, err)

	h := NewStudentHandler(nil, ethClient, contracts)
	r := gin.New()
	r.GET("/api/v1/students/:address", h.GetStatus)
	return r
}

func TestGetStatusIncludesActiveLoan(t *testing.T) {
	results := baseReadResults()
	results[selector("loanOf(address)")] = callResult{
		Result: word(20000) + word(5000) + word(1700000000) + word(6) + word(0) + word(1) + word(1),
	}
	r := newStatusRouter(t, results)

	w := doRequest(r, http.MethodGet, "/api/v1/students/"+testStudent, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Student StudentStatusResponse `json:"student"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Student.HasActiveLoan)
	require.NotNil(t, body.Student.Loan)
	assert.Equal(t, "200", body.Student.Loan.Principal)
	assert.Equal(t, "50", body.Student.Loan.PaidSoFar)
	assert.Equal(t, "150", body.Student.Loan.Remaining)
	assert.Equal(t, uint8(6), body.Student.Loan.TenorMonths)
}

func TestGetStatusFailsWhenLoanReadFails(t *testing.T) {
	results := baseReadResults()
	results[selector("loanOf(address)")] = callResult{Err: "execution reverted"}
	r := newStatusRouter(t, results)

	w := doRequest(r, http.MethodGet, "/api/v1/students/"+testStudent, "")

	// 借款读失败不允许静默降级成没有借款详情的响应
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "loanOf")
}
