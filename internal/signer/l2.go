package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// L2Headers are the headers attached to every authenticated request once L2
// (API key) credentials exist.
type L2Headers struct {
	Address    string
	APIKey     string
	Passphrase string
	Signature  string
	Timestamp  int64
}

// ToMessage builds the canonical string signed for L2/builder requests:
// "{timestamp}{METHOD}{path}{body}", with every single quote in body rewritten
// to a double quote first (timestamp=1, method=POST, path=/path,
// body={"foo":"bar"} -> "1POST/path{\"foo\":\"bar\"}").
func ToMessage(timestamp int64, method, path, body string) string {
	body = strings.ReplaceAll(body, "'", "\"")
	return fmt.Sprintf("%d%s%s%s", timestamp, method, path, body)
}

// SignL2 computes the HMAC-SHA256 signature over message using secret, which is
// itself URL-safe-base64-encoded as the server issues it. The result is
// URL-safe-base64-encoded with padding.
func SignL2(secret string, message string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("decode L2 secret: %w", err)
	}
	mac := hmac.New(sha256.New, decoded)
	mac.Write([]byte(message))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// SignRequest is the convenience entry point most callers use: it builds the
// canonical message and signs it in one step.
func SignRequest(creds Credentials, address string, timestamp int64, method, path, body string) (L2Headers, error) {
	sig, err := SignL2(creds.Secret, ToMessage(timestamp, method, path, body))
	if err != nil {
		return L2Headers{}, err
	}
	return L2Headers{
		Address:    address,
		APIKey:     creds.Key,
		Passphrase: creds.Passphrase,
		Signature:  sig,
		Timestamp:  timestamp,
	}, nil
}
