package rpc

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

type JitoRequestBody struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type JitoResponseBody struct {
	Jsonrpc string             `json:"jsonrpc"`
	ID      int                `json:"id"`
	Result  json.RawMessage    `json:"result,omitempty"`
	Error   *JitoErrorResponse `json:"error,omitempty"`
}

type JitoErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type JitoRpc struct {
	blockEngineUrl string
	client         *http.Client
}

func NewJitoRpc(blockEngineUrl string) *JitoRpc {
	return &JitoRpc{
		blockEngineUrl: blockEngineUrl,
		client:         &http.Client{Timeout: 10 * time.Second},
	}
}

// SendTransaction submits a signed transaction to the block engine and
// returns the signature it acknowledged.
func (j *JitoRpc) SendTransaction(ctx context.Context, transaction *solana.Transaction) (solana.Signature, error) {
	msg, err := transaction.MarshalBinary()
	if err != nil {
		return solana.Signature{}, err
	}

	requestBody := JitoRequestBody{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  "sendTransaction",
		Params:  []interface{}{base58.Encode(msg)},
	}

	reqBody, err := json.Marshal(requestBody)
	if err != nil {
		return solana.Signature{}, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err = gzipWriter.Write(reqBody); err != nil {
		return solana.Signature{}, err
	}
	if err = gzipWriter.Close(); err != nil {
		return solana.Signature{}, err
	}

	url := fmt.Sprintf("%s/api/v1/transactions", j.blockEngineUrl)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return solana.Signature{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	resp, err := j.client.Do(req)
	if err != nil {
		return solana.Signature{}, err
	}
	defer resp.Body.Close()

	var responseBody JitoResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&responseBody); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to decode block engine response (status %d): %w", resp.StatusCode, err)
	}

	if responseBody.Error != nil {
		return solana.Signature{}, fmt.Errorf("block engine error %d: %s", responseBody.Error.Code, responseBody.Error.Message)
	}

	var sig string
	if err := json.Unmarshal(responseBody.Result, &sig); err != nil {
		return solana.Signature{}, fmt.Errorf("unexpected block engine result: %w", err)
	}

	return solana.SignatureFromBase58(sig)
}
