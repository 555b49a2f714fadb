package rpc

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
)

type BloxRouteResponse struct {
	Signature string `json:"signature"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

type BloxRouteRpc struct {
	url           string
	token         string
	useStakedRPCs bool
	client        *http.Client
}

func NewBloxRouteRpc(url string, token string, useStakedRPCs bool) *BloxRouteRpc {
	return &BloxRouteRpc{
		url:           url,
		token:         token,
		useStakedRPCs: useStakedRPCs,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *BloxRouteRpc) SendTransaction(ctx context.Context, transaction *solana.Transaction) (solana.Signature, error) {
	if b.token == "" {
		return solana.Signature{}, errors.New("bloXroute auth token is not configured")
	}

	msg, err := transaction.MarshalBinary()
	if err != nil {
		return solana.Signature{}, err
	}

	requestBody := map[string]interface{}{
		"transaction": map[string]string{
			"content": base64.StdEncoding.EncodeToString(msg),
		},
		"skipPreFlight":          true,
		"frontRunningProtection": false,
		"fastBestEffort":         false,
		"useStakedRPCs":          b.useStakedRPCs,
	}

	var requestBodyBuffer bytes.Buffer
	if err := json.NewEncoder(&requestBodyBuffer).Encode(requestBody); err != nil {
		return solana.Signature{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, &requestBodyBuffer)
	if err != nil {
		return solana.Signature{}, err
	}

	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Authorization", b.token)

	resp, err := b.client.Do(req)
	if err != nil {
		return solana.Signature{}, err
	}
	defer resp.Body.Close()

	var reader io.ReadCloser

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
	case "deflate":
		reader, err = zlib.NewReader(resp.Body)
	default:
		reader = resp.Body
	}

	if err != nil {
		return solana.Signature{}, err
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return solana.Signature{}, err
	}

	var response BloxRouteResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to decode bloXroute response (status %d): %w", resp.StatusCode, err)
	}

	if response.Signature == "" {
		if response.Message != "" {
			return solana.Signature{}, fmt.Errorf("no signature returned from bloXroute: %s", response.Message)
		}
		return solana.Signature{}, errors.New("no signature returned from bloXroute")
	}

	return solana.SignatureFromBase58(response.Signature)
}
