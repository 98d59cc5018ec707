package rtds

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/cloblabs/clob-go/internal/errs"
)

// Topic names and the wildcard message type the socket speaks.
const (
	TopicCryptoPrices    = "crypto_prices"
	TopicChainlinkPrices = "crypto_prices_chainlink"
	TopicComments        = "comments"

	TypeWildcard = "*"
	TypeUpdate   = "update"
)

// CommentType is the per-event discriminator on the comments topic.
type CommentType string

const (
	CommentCreated  CommentType = "comment_created"
	CommentRemoved  CommentType = "comment_removed"
	ReactionCreated CommentType = "reaction_created"
	ReactionRemoved CommentType = "reaction_removed"
)

// Message is the top-level wrapper every socket frame decodes into: a
// (topic, type) pair and an event-specific payload left raw until a
// consumer asks for its concrete shape.
type Message struct {
	Topic     string          `json:"topic"`
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// CryptoPrice is the payload of a Binance price update.
type CryptoPrice struct {
	Symbol    string          `json:"symbol"`
	Timestamp int64           `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// ChainlinkPrice is the payload of a Chainlink oracle price update.
type ChainlinkPrice struct {
	Symbol    string          `json:"symbol"`
	Timestamp int64           `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// CommentProfile is the author block carried on a comment event.
type CommentProfile struct {
	BaseAddress           string `json:"baseAddress"`
	DisplayUsernamePublic bool   `json:"displayUsernamePublic"`
	Name                  string `json:"name"`
	ProxyWallet           string `json:"proxyWallet,omitempty"`
	Pseudonym             string `json:"pseudonym,omitempty"`
}

// Comment is the payload of a comments-topic event.
type Comment struct {
	ID               string         `json:"id"`
	Body             string         `json:"body"`
	CreatedAt        string         `json:"createdAt"`
	ParentCommentID  string         `json:"parentCommentID,omitempty"`
	ParentEntityID   int64          `json:"parentEntityID"`
	ParentEntityType string         `json:"parentEntityType"`
	Profile          CommentProfile `json:"profile"`
	ReactionCount    int64          `json:"reactionCount"`
	ReplyAddress     string         `json:"replyAddress,omitempty"`
	ReportCount      int64          `json:"reportCount"`
	UserAddress      string         `json:"userAddress"`
}

// AsCryptoPrice decodes the payload as a Binance price update; ok is false
// when the message is from another topic.
func (m Message) AsCryptoPrice() (CryptoPrice, bool) {
	if m.Topic != TopicCryptoPrices {
		return CryptoPrice{}, false
	}
	var p CryptoPrice
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return CryptoPrice{}, false
	}
	return p, true
}

// AsChainlinkPrice decodes the payload as a Chainlink price update.
func (m Message) AsChainlinkPrice() (ChainlinkPrice, bool) {
	if m.Topic != TopicChainlinkPrices {
		return ChainlinkPrice{}, false
	}
	var p ChainlinkPrice
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return ChainlinkPrice{}, false
	}
	return p, true
}

// AsComment decodes the payload as a comment event.
func (m Message) AsComment() (Comment, bool) {
	if m.Topic != TopicComments {
		return Comment{}, false
	}
	var c Comment
	if err := json.Unmarshal(m.Payload, &c); err != nil {
		return Comment{}, false
	}
	return c, true
}

// parser decodes socket frames into Messages. The socket interleaves real
// frames with empty keepalives; those parse to an empty batch rather than
// an error.
type parser struct{}

// Parse implements wsconn.Parser for the data socket's frame shapes: a
// single object, an array of objects, or a whitespace-only keepalive.
func (parser) Parse(data []byte) ([]Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var msgs []Message
		if err := json.Unmarshal(trimmed, &msgs); err != nil {
			return nil, errs.Internal("decode message batch", err)
		}
		return msgs, nil
	}

	var msg Message
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, errs.Internal("decode message", err)
	}
	return []Message{msg}, nil
}
